package users

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/kejahlabs/kejah-backend/pkg/db"
	pkgerrors "github.com/kejahlabs/kejah-backend/pkg/errors"
)

// Service exposes profile and directory operations.
type Service interface {
	Me(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*UserDTO, error)
	ListAgents(ctx context.Context) ([]AgentDTO, error)
	GetAgent(ctx context.Context, id uuid.UUID) (*AgentDTO, error)
	CanPublish(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo *Repository
}

// NewService wires the users service.
func NewService(repo *Repository) Service {
	return &service{repo: repo}
}

func (s *service) Me(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, db.WrapBackend(err, "loading profile")
	}
	return FromModel(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*UserDTO, error) {
	if input.DisplayName != nil && strings.TrimSpace(*input.DisplayName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "display name must not be empty")
	}
	if input.Phone != nil && strings.TrimSpace(*input.Phone) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone must not be empty")
	}

	if _, err := s.repo.FindByID(ctx, userID); err != nil {
		return nil, db.WrapBackend(err, "loading profile")
	}
	if err := s.repo.UpdateProfile(ctx, userID, input); err != nil {
		return nil, db.WrapBackend(err, "updating profile")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, db.WrapBackend(err, "reloading profile")
	}
	return FromModel(user), nil
}

func (s *service) ListAgents(ctx context.Context) ([]AgentDTO, error) {
	agents, err := s.repo.ListAgents(ctx)
	if err != nil {
		return nil, db.WrapBackend(err, "listing agents")
	}
	return AgentsFromModels(agents), nil
}

func (s *service) GetAgent(ctx context.Context, id uuid.UUID) (*AgentDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.WrapBackend(err, "loading agent")
	}
	if !user.Role.IsAgent() || !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "agent not found")
	}
	return AgentFromModel(user), nil
}

// CanPublish reports whether the user may publish listings: an active
// agent account with a verified phone number.
func (s *service) CanPublish(ctx context.Context, userID uuid.UUID) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return db.WrapBackend(err, "loading publisher")
	}
	if !user.IsActive {
		return pkgerrors.New(pkgerrors.CodeForbidden, "account is deactivated")
	}
	if !user.Role.IsAgent() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only agents can publish listings")
	}
	if !user.PhoneVerified {
		return pkgerrors.New(pkgerrors.CodeForbidden, "a verified phone number is required to publish")
	}
	return nil
}
