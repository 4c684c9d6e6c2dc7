package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"identity-console/internal/domain"
	"identity-console/internal/repository"

	"github.com/google/uuid"
)

type groupService struct {
	groupRepo repository.GroupRepository
	auditSvc  AuditService
}

func NewGroupService(groupRepo repository.GroupRepository, auditSvc AuditService) GroupService {
	return &groupService{groupRepo: groupRepo, auditSvc: auditSvc}
}

func (s *groupService) Create(ctx context.Context, name, description string) (*domain.Group, error) {
	if strings.TrimSpace(name) == "" {
		return nil, invalidf("group name is required")
	}
	group := &domain.Group{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(name),
		Description: description,
		Members:     []string{},
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	s.auditSvc.Append(ctx, domain.AuditLevelInfo, fmt.Sprintf("Group created: %s", group.Name),
		map[string]any{"id": group.ID})
	return group, nil
}

// Delete refuses to remove a group that still has members; the group and its
// member list are left untouched.
func (s *groupService) Delete(ctx context.Context, id string) error {
	group, err := s.groupRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get group: %w", err)
	}
	if len(group.Members) > 0 {
		return domain.ErrGroupNotEmpty
	}
	if err := s.groupRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	s.auditSvc.Append(ctx, domain.AuditLevelInfo, fmt.Sprintf("Group deleted: %s", group.Name),
		map[string]any{"id": group.ID})
	return nil
}

// AddMember appends the email if it is not already present.
func (s *groupService) AddMember(ctx context.Context, id, email string) (*domain.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	if group.HasMember(email) {
		return group, nil
	}
	group.Members = append(group.Members, email)
	if err := s.groupRepo.Update(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to update group: %w", err)
	}
	s.auditSvc.Append(ctx, domain.AuditLevelInfo, fmt.Sprintf("Member added to group %s: %s", group.Name, email),
		map[string]any{"id": group.ID})
	return group, nil
}

// RemoveMember filters the email out of the member list. Removing an email
// that is not a member is a no-op.
func (s *groupService) RemoveMember(ctx context.Context, id, email string) (*domain.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	if !group.HasMember(email) {
		return group, nil
	}
	members := make([]string, 0, len(group.Members))
	for _, m := range group.Members {
		if m != email {
			members = append(members, m)
		}
	}
	group.Members = members
	if err := s.groupRepo.Update(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to update group: %w", err)
	}
	s.auditSvc.Append(ctx, domain.AuditLevelInfo, fmt.Sprintf("Member removed from group %s: %s", group.Name, email),
		map[string]any{"id": group.ID})
	return group, nil
}

func (s *groupService) Get(ctx context.Context, id string) (*domain.Group, error) {
	return s.groupRepo.GetByID(ctx, id)
}

func (s *groupService) List(ctx context.Context) ([]domain.Group, error) {
	return s.groupRepo.List(ctx)
}

// SeedDefaults creates the starter groups on an empty store.
func (s *groupService) SeedDefaults(ctx context.Context) error {
	groups, err := s.groupRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list groups: %w", err)
	}
	if len(groups) > 0 {
		return nil
	}
	defaults := []domain.Group{
		{Name: "Administrators", Description: "System administrators with full access"},
		{Name: "General Users", Description: "Standard user access group"},
	}
	for _, d := range defaults {
		group := &domain.Group{
			ID:          uuid.NewString(),
			Name:        d.Name,
			Description: d.Description,
			Members:     []string{},
			CreatedAt:   time.Now().UTC(),
		}
		if err := s.groupRepo.Create(ctx, group); err != nil {
			return fmt.Errorf("failed to seed group %s: %w", d.Name, err)
		}
	}
	return nil
}
