package persistence

import (
	"context"
	"errors"

	"github.com/spec-kit/laptop-resale/internal/domain"
)

var (
	// ErrNotFound is returned by FindOne when no document matches.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidID is returned when an _id filter cannot be interpreted by the driver.
	ErrInvalidID = errors.New("invalid document id")
)

// Store is a document database holding named collections.
type Store interface {
	Collection(name string) Collection
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Collection exposes the single-document operations handlers rely on.
// Filters match on field equality; UpdateOne applies $set semantics.
type Collection interface {
	FindOne(ctx context.Context, filter domain.Filter) (domain.Document, error)
	Find(ctx context.Context, filter domain.Filter) ([]domain.Document, error)
	InsertOne(ctx context.Context, doc domain.Document) (*InsertResult, error)
	UpdateOne(ctx context.Context, filter domain.Filter, set domain.Document) (*UpdateResult, error)
	DeleteOne(ctx context.Context, filter domain.Filter) (*DeleteResult, error)
}

// InsertResult mirrors the acknowledgement returned to API clients.
type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

// UpdateResult mirrors the acknowledgement returned to API clients.
type UpdateResult struct {
	Acknowledged  bool    `json:"acknowledged"`
	MatchedCount  int64   `json:"matchedCount"`
	ModifiedCount int64   `json:"modifiedCount"`
	UpsertedCount int64   `json:"upsertedCount"`
	UpsertedID    *string `json:"upsertedId"`
}

// DeleteResult mirrors the acknowledgement returned to API clients.
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// splitID separates the _id clause from the remaining equality clauses.
func splitID(filter domain.Filter) (id string, hasID bool, rest domain.Filter, err error) {
	rest = make(domain.Filter, len(filter))
	for k, v := range filter {
		if k != domain.FieldID {
			rest[k] = v
			continue
		}
		s, ok := v.(string)
		if !ok {
			return "", false, nil, ErrInvalidID
		}
		id, hasID = s, true
	}
	return id, hasID, rest, nil
}
