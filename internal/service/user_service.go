package service

import (
	"context"
	"errors"
	"strings"

	"github.com/spec-kit/laptop-resale/internal/domain"
	"github.com/spec-kit/laptop-resale/internal/persistence"
	"github.com/spec-kit/laptop-resale/internal/repository"
	apperrors "github.com/spec-kit/laptop-resale/pkg/util"
)

// UserService manages marketplace user records.
type UserService struct {
	users repository.UserRepository
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// Register stores a user unless one with the same email exists, in which case
// the call is acknowledged without writing. Self-registration can only claim
// the buyer or seller role.
func (s *UserService) Register(ctx context.Context, user domain.Document) (*persistence.InsertResult, error) {
	email := strings.TrimSpace(user.String("email"))
	if email == "" {
		return nil, apperrors.NewValidationError("email required", nil)
	}
	if raw, ok := user["role"]; ok && raw != nil {
		role := domain.ParseRole(user.String("role"))
		if role != domain.RoleBuyer && role != domain.RoleSeller {
			return nil, apperrors.NewValidationError("role must be buyer or seller", map[string]any{"role": raw})
		}
	}

	_, err := s.users.FindDocumentByEmail(ctx, email)
	if err == nil {
		return &persistence.InsertResult{Acknowledged: true}, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	doc := user.Clone()
	delete(doc, domain.FieldID)
	doc["email"] = email
	return s.users.Create(ctx, doc)
}

// GetByEmail returns the stored user document or nil when absent.
func (s *UserService) GetByEmail(ctx context.Context, email string) (domain.Document, error) {
	doc, err := s.users.FindDocumentByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, nil
	}
	return doc, err
}

func (s *UserService) ListByRole(ctx context.Context, role domain.Role) ([]domain.Document, error) {
	return s.users.ListByRole(ctx, role)
}

func (s *UserService) SetVerified(ctx context.Context, id string, verified bool) (*persistence.UpdateResult, error) {
	return s.users.SetVerified(ctx, id, verified)
}

func (s *UserService) Delete(ctx context.Context, id string) (*persistence.DeleteResult, error) {
	return s.users.Delete(ctx, id)
}
