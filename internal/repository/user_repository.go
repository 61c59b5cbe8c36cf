package repository

import (
	"context"
	"errors"

	"github.com/spec-kit/laptop-resale/internal/domain"
	"github.com/spec-kit/laptop-resale/internal/persistence"
)

// ErrUserNotFound is returned when no user record matches.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines persistence access for marketplace users.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	FindDocumentByEmail(ctx context.Context, email string) (domain.Document, error)
	ListByRole(ctx context.Context, role domain.Role) ([]domain.Document, error)
	Create(ctx context.Context, user domain.Document) (*persistence.InsertResult, error)
	SetVerified(ctx context.Context, id string, verified bool) (*persistence.UpdateResult, error)
	Delete(ctx context.Context, id string) (*persistence.DeleteResult, error)
}

type userRepository struct {
	coll persistence.Collection
}

// NewUserRepository returns a store-backed implementation.
func NewUserRepository(store persistence.Store) UserRepository {
	return &userRepository{coll: store.Collection(domain.CollectionUsers)}
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	doc, err := r.FindDocumentByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return domain.UserFromDocument(doc), nil
}

func (r *userRepository) FindDocumentByEmail(ctx context.Context, email string) (domain.Document, error) {
	doc, err := r.coll.FindOne(ctx, domain.Filter{"email": email})
	if errors.Is(err, persistence.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *userRepository) ListByRole(ctx context.Context, role domain.Role) ([]domain.Document, error) {
	return r.coll.Find(ctx, domain.Filter{"role": role.String()})
}

func (r *userRepository) Create(ctx context.Context, user domain.Document) (*persistence.InsertResult, error) {
	return r.coll.InsertOne(ctx, user)
}

func (r *userRepository) SetVerified(ctx context.Context, id string, verified bool) (*persistence.UpdateResult, error) {
	return r.coll.UpdateOne(ctx, domain.Filter{domain.FieldID: id}, domain.Document{"verified": verified})
}

func (r *userRepository) Delete(ctx context.Context, id string) (*persistence.DeleteResult, error) {
	return r.coll.DeleteOne(ctx, domain.Filter{domain.FieldID: id})
}
