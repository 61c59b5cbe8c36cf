package repository

import (
	"context"

	"github.com/spec-kit/laptop-resale/internal/domain"
	"github.com/spec-kit/laptop-resale/internal/persistence"
)

// CategoryRepository reads product categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Document, error)
}

type categoryRepository struct {
	coll persistence.Collection
}

// NewCategoryRepository returns a store-backed implementation.
func NewCategoryRepository(store persistence.Store) CategoryRepository {
	return &categoryRepository{coll: store.Collection(domain.CollectionCategories)}
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.Document, error) {
	return r.coll.Find(ctx, domain.Filter{})
}
