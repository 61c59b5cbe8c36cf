package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/laptop-resale/internal/domain"
	"github.com/spec-kit/laptop-resale/internal/events"
	"github.com/spec-kit/laptop-resale/internal/persistence"
	"github.com/spec-kit/laptop-resale/internal/repository"
)

// CatalogService serves categories and product listings.
type CatalogService struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// CatalogDependencies encapsulates repo requirements for the catalog service.
type CatalogDependencies struct {
	CategoryRepo repository.CategoryRepository
	ProductRepo  repository.ProductRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewCatalogService builds the service.
func NewCatalogService(deps CatalogDependencies) *CatalogService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		categories: deps.CategoryRepo,
		products:   deps.ProductRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *CatalogService) Categories(ctx context.Context) ([]domain.Document, error) {
	return s.categories.List(ctx)
}

func (s *CatalogService) ProductsByCategory(ctx context.Context, categoryID string) ([]domain.Document, error) {
	return s.products.List(ctx, domain.Filter{"category_id": categoryID})
}

func (s *CatalogService) AllProducts(ctx context.Context) ([]domain.Document, error) {
	return s.products.List(ctx, nil)
}

func (s *CatalogService) ProductsBySeller(ctx context.Context, sellerEmail string) ([]domain.Document, error) {
	return s.products.List(ctx, domain.Filter{"seller_email": sellerEmail})
}

func (s *CatalogService) ReportedProducts(ctx context.Context) ([]domain.Document, error) {
	return s.products.List(ctx, domain.Filter{"reported": true})
}

func (s *CatalogService) AdvertisedProducts(ctx context.Context) ([]domain.Document, error) {
	return s.products.List(ctx, domain.Filter{"isAdvertised": true})
}

// CreateProduct stores the listing stamped with its creation time.
func (s *CatalogService) CreateProduct(ctx context.Context, product domain.Document) (*persistence.InsertResult, error) {
	doc := product.Clone()
	if doc == nil {
		doc = domain.Document{}
	}
	delete(doc, domain.FieldID)
	doc["time"] = s.now().UTC()
	return s.products.Create(ctx, doc)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) (*persistence.DeleteResult, error) {
	return s.products.Delete(ctx, id)
}

func (s *CatalogService) SetAdvertised(ctx context.Context, id string, advertised bool) (*persistence.UpdateResult, error) {
	return s.products.Update(ctx, id, domain.Document{"isAdvertised": advertised})
}

// SetReported flags or clears a product report and notifies subscribers.
func (s *CatalogService) SetReported(ctx context.Context, id string, reported bool) (*persistence.UpdateResult, error) {
	res, err := s.products.Update(ctx, id, domain.Document{"reported": reported})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount > 0 {
		publish(ctx, s.dispatcher, s.logger, events.Event{
			Type:       events.EventProductReported,
			ResourceID: id,
			Payload:    events.ProductReportedPayload{Reported: reported},
		})
	}
	return res, nil
}

// publish delivers an event; subscriber failures are logged and never fail the request.
func publish(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
