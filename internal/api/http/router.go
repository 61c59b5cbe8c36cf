package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/laptop-resale/internal/api/http/handlers"
	"github.com/spec-kit/laptop-resale/internal/auth"
)

// Gate declares which checks must pass before a route's handler runs.
type Gate int

const (
	// GatePublic runs no checks.
	GatePublic Gate = iota
	// GateAuthenticated requires a valid bearer token.
	GateAuthenticated
	// GateAdmin requires a valid token whose user has the admin role.
	GateAdmin
	// GateSeller requires a valid token whose user has the seller role.
	GateSeller
)

func (g Gate) String() string {
	switch g {
	case GatePublic:
		return "public"
	case GateAuthenticated:
		return "authenticated"
	case GateAdmin:
		return "admin"
	case GateSeller:
		return "seller"
	default:
		return fmt.Sprintf("gate(%d)", int(g))
	}
}

// Route is one entry of the routing table.
type Route struct {
	Method  string
	Path    string
	Gate    Gate
	Handler fiber.Handler
}

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Catalog        *handlers.CatalogHandler
	Bookings       *handlers.BookingsHandler
	Payments       *handlers.PaymentsHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
	Roles          *auth.RoleAuthorizer
}

// NewApp creates the fiber application with the service's error rendering.
func NewApp(name string, logger *zap.Logger) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:               name,
		ErrorHandler:          ErrorHandler(logger),
		UnescapePath:          true,
		DisableStartupMessage: true,
	})
}

// Routes returns the routing table. More specific paths precede parameterized ones.
func (cfg RouteConfig) Routes() []Route {
	return []Route{
		{fiber.MethodGet, "/", GatePublic, cfg.Health.Banner},
		{fiber.MethodGet, "/health/live", GatePublic, cfg.Health.Live},
		{fiber.MethodGet, "/health/ready", GatePublic, cfg.Health.Ready},
		{fiber.MethodGet, "/health/metrics", GatePublic, cfg.Health.Metrics},

		{fiber.MethodGet, "/jwt", GatePublic, cfg.Auth.IssueToken},

		{fiber.MethodGet, "/categories", GatePublic, cfg.Catalog.Categories},
		{fiber.MethodGet, "/category/:id", GatePublic, cfg.Catalog.CategoryProducts},
		{fiber.MethodGet, "/allproducts", GatePublic, cfg.Catalog.AllProducts},
		{fiber.MethodGet, "/products", GateAuthenticated, cfg.Catalog.SellerProducts},
		{fiber.MethodPost, "/products", GateSeller, cfg.Catalog.CreateProduct},
		{fiber.MethodDelete, "/products/:id", GatePublic, cfg.Catalog.DeleteProduct},
		{fiber.MethodPatch, "/advertise/:id", GateAuthenticated, cfg.Catalog.Advertise},
		{fiber.MethodGet, "/advertise", GatePublic, cfg.Catalog.AdvertisedProducts},
		{fiber.MethodPatch, "/reports/:id", GatePublic, cfg.Catalog.Report},
		{fiber.MethodGet, "/reports", GatePublic, cfg.Catalog.ReportedProducts},

		{fiber.MethodGet, "/bookings", GateAuthenticated, cfg.Bookings.List},
		{fiber.MethodGet, "/bookings/:id", GatePublic, cfg.Bookings.Get},
		{fiber.MethodPost, "/bookings", GatePublic, cfg.Bookings.Create},

		{fiber.MethodPost, "/create-payment-intent", GatePublic, cfg.Payments.CreateIntent},
		{fiber.MethodPost, "/payments", GatePublic, cfg.Payments.Record},

		{fiber.MethodPost, "/users", GatePublic, cfg.Users.Register},
		{fiber.MethodGet, "/buyers", GateAuthenticated, cfg.Users.Buyers},
		{fiber.MethodGet, "/sellers", GateAuthenticated, cfg.Users.Sellers},
		{fiber.MethodGet, "/users/admin/:email", GatePublic, cfg.Auth.IsAdmin},
		{fiber.MethodGet, "/users/seller/:email", GatePublic, cfg.Auth.IsSeller},
		{fiber.MethodGet, "/users/:email", GatePublic, cfg.Users.GetByEmail},
		{fiber.MethodPatch, "/users/:id", GateAdmin, cfg.Users.Verify},
		{fiber.MethodDelete, "/users/:id", GateAdmin, cfg.Users.Delete},
	}
}

// RegisterRoutes wires the routing table, prefixing each handler with its gate chain.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	for _, route := range cfg.Routes() {
		chain := append(cfg.gateChain(route.Gate), route.Handler)
		app.Add(route.Method, route.Path, chain...)
	}
}

func (cfg RouteConfig) gateChain(gate Gate) []fiber.Handler {
	switch gate {
	case GateAuthenticated:
		return []fiber.Handler{cfg.AuthMiddleware.Handle}
	case GateAdmin:
		return []fiber.Handler{cfg.AuthMiddleware.Handle, cfg.Roles.RequireAdmin()}
	case GateSeller:
		return []fiber.Handler{cfg.AuthMiddleware.Handle, cfg.Roles.RequireSeller()}
	default:
		return nil
	}
}
