package persistence

import (
	"context"
	"reflect"
	"sync"

	"github.com/google/uuid"

	"github.com/spec-kit/laptop-resale/internal/domain"
)

// MemoryStore keeps collections in process memory. It backs local development
// (STORE_DRIVER=memory) and tests.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]*memoryCollection)}
}

// Collection returns the named collection, creating it on first use.
func (s *MemoryStore) Collection(name string) Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[name]
	if !ok {
		c = &memoryCollection{}
		s.collections[name] = c
	}
	return c
}

func (s *MemoryStore) Ping(context.Context) error  { return nil }
func (s *MemoryStore) Close(context.Context) error { return nil }

type memoryCollection struct {
	mu   sync.RWMutex
	docs []domain.Document
}

func (c *memoryCollection) FindOne(ctx context.Context, filter domain.Filter) (domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, doc := range c.docs {
		if matches(doc, filter) {
			return doc.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (c *memoryCollection) Find(ctx context.Context, filter domain.Filter) ([]domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Document, 0)
	for _, doc := range c.docs {
		if matches(doc, filter) {
			out = append(out, doc.Clone())
		}
	}
	return out, nil
}

func (c *memoryCollection) InsertOne(ctx context.Context, doc domain.Document) (*InsertResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stored := doc.Clone()
	if stored == nil {
		stored = domain.Document{}
	}
	id := stored.String(domain.FieldID)
	if id == "" {
		id = uuid.NewString()
	}
	stored[domain.FieldID] = id

	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs = append(c.docs, stored)
	return &InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (c *memoryCollection) UpdateOne(ctx context.Context, filter domain.Filter, set domain.Document) (*UpdateResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, doc := range c.docs {
		if !matches(doc, filter) {
			continue
		}
		modified := false
		for k, v := range set {
			if k == domain.FieldID {
				continue
			}
			if old, ok := doc[k]; !ok || !reflect.DeepEqual(old, v) {
				doc[k] = v
				modified = true
			}
		}
		res := &UpdateResult{Acknowledged: true, MatchedCount: 1}
		if modified {
			res.ModifiedCount = 1
		}
		return res, nil
	}
	return &UpdateResult{Acknowledged: true}, nil
}

func (c *memoryCollection) DeleteOne(ctx context.Context, filter domain.Filter) (*DeleteResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, doc := range c.docs {
		if matches(doc, filter) {
			c.docs = append(c.docs[:i], c.docs[i+1:]...)
			return &DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
		}
	}
	return &DeleteResult{Acknowledged: true}, nil
}

func matches(doc domain.Document, filter domain.Filter) bool {
	for k, want := range filter {
		got, ok := doc[k]
		if !ok {
			if want == nil {
				continue
			}
			return false
		}
		if !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}
