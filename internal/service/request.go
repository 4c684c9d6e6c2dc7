package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"identity-console/internal/domain"
	"identity-console/internal/repository"

	"github.com/google/uuid"
)

type accessRequestService struct {
	reqRepo      repository.AccessRequestRepository
	identitySvc  IdentityService
	emailSvc     EmailService
	auditSvc     AuditService
	syncRecorder *SyncRecorder
}

func NewAccessRequestService(
	reqRepo repository.AccessRequestRepository,
	identitySvc IdentityService,
	emailSvc EmailService,
	auditSvc AuditService,
	syncRecorder *SyncRecorder,
) AccessRequestService {
	return &accessRequestService{
		reqRepo:      reqRepo,
		identitySvc:  identitySvc,
		emailSvc:     emailSvc,
		auditSvc:     auditSvc,
		syncRecorder: syncRecorder,
	}
}

// Validate checks the submission at the system boundary.
func (in *SubmitRequestInput) Validate() error {
	if strings.TrimSpace(in.FullName) == "" {
		return invalidf("full name is required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return invalidf("invalid email address: %s", in.Email)
	}
	if strings.TrimSpace(in.Department) == "" {
		return invalidf("department is required")
	}
	switch in.RequestType {
	case "":
		in.RequestType = domain.RequestTypeRegular
	case domain.RequestTypeRegular, domain.RequestTypeGuest:
	case domain.RequestTypeGroup:
		if in.GroupID == "" {
			return invalidf("group id is required for group access requests")
		}
	default:
		return invalidf("unknown request type: %s", in.RequestType)
	}
	return nil
}

func (s *accessRequestService) Submit(ctx context.Context, in SubmitRequestInput) (*domain.AccessRequest, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	req := &domain.AccessRequest{
		ID:          uuid.NewString(),
		FullName:    strings.TrimSpace(in.FullName),
		Email:       in.Email,
		Department:  strings.TrimSpace(in.Department),
		Status:      domain.RequestStatusPending,
		RequestType: in.RequestType,
		GroupID:     in.GroupID,
		SubmittedAt: time.Now().UTC(),
	}
	if err := s.reqRepo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create access request: %w", err)
	}

	s.syncRecorder.Record(ctx, domain.SyncEntityAccessRequest, domain.SyncActionCreate, req)
	s.auditSvc.Append(ctx, domain.AuditLevelInfo, fmt.Sprintf("Access request submitted: %s", req.Email),
		map[string]any{"id": req.ID, "requestType": req.RequestType})

	return req, nil
}

// Approve moves a pending request to approved and provisions an identity for
// the requester. The identity write is an upsert, so approving requests for
// an email that was already provisioned never creates duplicates.
func (s *accessRequestService) Approve(ctx context.Context, id string) (*domain.AccessRequest, error) {
	req, err := s.reqRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get access request: %w", err)
	}
	if req.Status != domain.RequestStatusPending {
		return nil, domain.ErrAlreadyDecided
	}

	now := time.Now().UTC()
	req.Status = domain.RequestStatusApproved
	req.DecidedAt = &now
	if err := s.reqRepo.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to update access request: %w", err)
	}
	s.syncRecorder.Record(ctx, domain.SyncEntityAccessRequest, domain.SyncActionUpdate, req)

	if _, err := s.identitySvc.Provision(ctx, ProvisionInput{
		Email:      req.Email,
		FullName:   req.FullName,
		Department: req.Department,
		Source:     domain.IdentitySourceAccessRequest,
	}); err != nil {
		return nil, fmt.Errorf("failed to provision identity for %s: %w", req.Email, err)
	}

	s.auditSvc.Append(ctx, domain.AuditLevelInfo, fmt.Sprintf("Access request approved: %s", req.Email),
		map[string]any{"id": req.ID})
	_ = s.emailSvc.SendDecisionNotification(ctx, req.Email, req.FullName, req.Status)

	return req, nil
}

func (s *accessRequestService) Reject(ctx context.Context, id string) (*domain.AccessRequest, error) {
	req, err := s.reqRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get access request: %w", err)
	}
	if req.Status != domain.RequestStatusPending {
		return nil, domain.ErrAlreadyDecided
	}

	now := time.Now().UTC()
	req.Status = domain.RequestStatusRejected
	req.DecidedAt = &now
	if err := s.reqRepo.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to update access request: %w", err)
	}
	s.syncRecorder.Record(ctx, domain.SyncEntityAccessRequest, domain.SyncActionUpdate, req)

	s.auditSvc.Append(ctx, domain.AuditLevelInfo, fmt.Sprintf("Access request rejected: %s", req.Email),
		map[string]any{"id": req.ID})
	_ = s.emailSvc.SendDecisionNotification(ctx, req.Email, req.FullName, req.Status)

	return req, nil
}

func (s *accessRequestService) Get(ctx context.Context, id string) (*domain.AccessRequest, error) {
	return s.reqRepo.GetByID(ctx, id)
}

func (s *accessRequestService) List(ctx context.Context) ([]domain.AccessRequest, error) {
	return s.reqRepo.List(ctx)
}
