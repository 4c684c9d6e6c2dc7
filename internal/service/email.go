package service

import (
	"context"
	"fmt"

	"identity-console/internal/domain"
	"identity-console/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type sendgridEmailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewSendGridEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &sendgridEmailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *sendgridEmailService) SendDecisionNotification(ctx context.Context, email, name string, status domain.RequestStatus) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(name, email)

	subject := fmt.Sprintf("Your access request has been %s", status)
	body := fmt.Sprintf("Hello %s,\n\nYour access request has been %s.\n\nBest regards,\nIdentity Console", name, status)
	message := mail.NewSingleEmail(from, subject, recipient, body, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		logger.ExternalServiceResult("sendgrid", "decision_notification", err, "to", email)
		return fmt.Errorf("failed to send decision notification: %w", err)
	}
	if response.StatusCode >= 400 {
		err := fmt.Errorf("sendgrid error: status %d", response.StatusCode)
		logger.ExternalServiceResult("sendgrid", "decision_notification", err, "to", email)
		return err
	}

	logger.ExternalServiceResult("sendgrid", "decision_notification", nil, "to", email)
	return nil
}

// noopEmailService is used when no sendgrid API key is configured.
type noopEmailService struct{}

func NewNoopEmailService() EmailService {
	return noopEmailService{}
}

func (noopEmailService) SendDecisionNotification(ctx context.Context, email, name string, status domain.RequestStatus) error {
	logger.Debug("Email notifications disabled, skipping decision notification", "to", email, "status", status)
	return nil
}
