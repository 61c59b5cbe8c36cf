package repository

import (
	"context"
	"errors"

	"github.com/spec-kit/laptop-resale/internal/domain"
	"github.com/spec-kit/laptop-resale/internal/persistence"
)

// ProductRepository defines persistence access for product listings.
type ProductRepository interface {
	List(ctx context.Context, filter domain.Filter) ([]domain.Document, error)
	// Get returns nil without error when the product does not exist.
	Get(ctx context.Context, id string) (domain.Document, error)
	Create(ctx context.Context, product domain.Document) (*persistence.InsertResult, error)
	Update(ctx context.Context, id string, set domain.Document) (*persistence.UpdateResult, error)
	Delete(ctx context.Context, id string) (*persistence.DeleteResult, error)
}

type productRepository struct {
	coll persistence.Collection
}

// NewProductRepository returns a store-backed implementation.
func NewProductRepository(store persistence.Store) ProductRepository {
	return &productRepository{coll: store.Collection(domain.CollectionProducts)}
}

func (r *productRepository) List(ctx context.Context, filter domain.Filter) ([]domain.Document, error) {
	if filter == nil {
		filter = domain.Filter{}
	}
	return r.coll.Find(ctx, filter)
}

func (r *productRepository) Get(ctx context.Context, id string) (domain.Document, error) {
	doc, err := r.coll.FindOne(ctx, domain.Filter{domain.FieldID: id})
	if errors.Is(err, persistence.ErrNotFound) {
		return nil, nil
	}
	return doc, err
}

func (r *productRepository) Create(ctx context.Context, product domain.Document) (*persistence.InsertResult, error) {
	return r.coll.InsertOne(ctx, product)
}

func (r *productRepository) Update(ctx context.Context, id string, set domain.Document) (*persistence.UpdateResult, error) {
	return r.coll.UpdateOne(ctx, domain.Filter{domain.FieldID: id}, set)
}

func (r *productRepository) Delete(ctx context.Context, id string) (*persistence.DeleteResult, error) {
	return r.coll.DeleteOne(ctx, domain.Filter{domain.FieldID: id})
}
