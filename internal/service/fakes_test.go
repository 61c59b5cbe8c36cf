package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spec-kit/laptop-resale/internal/domain"
	"github.com/spec-kit/laptop-resale/internal/events"
	"github.com/spec-kit/laptop-resale/internal/payment"
	"github.com/spec-kit/laptop-resale/internal/persistence"
	"github.com/spec-kit/laptop-resale/internal/repository"
)

type fakeProvider struct {
	mu       sync.Mutex
	requests []payment.IntentRequest
	err      error
}

func (p *fakeProvider) CreatePaymentIntent(_ context.Context, req payment.IntentRequest) (*domain.PaymentIntent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	p.requests = append(p.requests, req)
	return &domain.PaymentIntent{
		ID:           "pi_test",
		ClientSecret: fmt.Sprintf("pi_test_secret_%d", len(p.requests)),
		Amount:       req.Amount,
		Currency:     req.Currency,
	}, nil
}

type fakeIdempotency struct {
	mu      sync.Mutex
	values  map[string]string
	failGet bool
}

func newFakeIdempotency() *fakeIdempotency {
	return &fakeIdempotency{values: map[string]string{}}
}

func (f *fakeIdempotency) Get(_ context.Context, key string) (string, bool, error) {
	if f.failGet {
		return "", false, errors.New("cache down")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *fakeIdempotency) SetNX(_ context.Context, key, value string, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.values[key]; ok {
		return false, nil
	}
	f.values[key] = value
	return true, nil
}

// failingUsers fails every lookup.
type failingUsers struct {
	repository.UserRepository
	err error
}

func (f failingUsers) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, f.err
}

func (f failingUsers) FindDocumentByEmail(context.Context, string) (domain.Document, error) {
	return nil, f.err
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) record(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func seedUser(store persistence.Store, email string, role domain.Role) string {
	res, err := store.Collection(domain.CollectionUsers).InsertOne(context.Background(), domain.Document{
		"email": email,
		"role":  role.String(),
	})
	if err != nil {
		panic(err)
	}
	return res.InsertedID
}
