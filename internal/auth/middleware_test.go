package auth

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/laptop-resale/internal/domain"
	"github.com/spec-kit/laptop-resale/internal/repository"
	apperrors "github.com/spec-kit/laptop-resale/pkg/util"
)

type fakeUsers struct {
	users map[string]*domain.User
	err   error
	calls int
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return nil, repository.ErrUserNotFound
}

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			c.Status(de.HTTPStatus)
			if s, ok := de.Body.(string); ok {
				return c.SendString(s)
			}
			return c.JSON(de.Body)
		},
	})
}

func echoIdentity(c *fiber.Ctx) error {
	identity, ok := IdentityFromContext(c)
	if !ok {
		return c.SendStatus(http.StatusInternalServerError)
	}
	fromCtx, ok := IdentityFrom(c.UserContext())
	if !ok || fromCtx.Email != identity.Email {
		return c.SendStatus(http.StatusInternalServerError)
	}
	return c.JSON(fiber.Map{"email": identity.Email})
}

func doRequest(t *testing.T, app *fiber.App, header string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestAuthMiddleware(t *testing.T) {
	tokens := NewTokenManager("secret", 0)
	app := newTestApp()
	app.Get("/protected", NewAuthMiddleware(tokens, nil).Handle, echoIdentity)

	valid, _, err := tokens.GenerateToken("a@x.com")
	require.NoError(t, err)

	t.Run("MissingHeaderIsUnauthenticated", func(t *testing.T) {
		status, body := doRequest(t, app, "")
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "Unauthorized access", body)
	})

	forbidden := map[string]string{
		"SchemeOnly":    "Bearer",
		"WrongScheme":   "Basic " + valid,
		"Garbage":       "Bearer invalid_token_xyz",
		"Tampered":      "Bearer " + tamper(valid),
		"OtherSecret":   "Bearer " + mustToken(t, NewTokenManager("other", 0), "a@x.com"),
		"ExtraSegments": "Bearer " + valid + " trailing",
		"TokenOnly":     valid,
	}
	for name, header := range forbidden {
		header := header
		t.Run(name, func(t *testing.T) {
			status, body := doRequest(t, app, header)
			assert.Equal(t, http.StatusForbidden, status)
			assert.JSONEq(t, `{"message":"forbidden access"}`, body)
		})
	}

	t.Run("ValidTokenAttachesIdentity", func(t *testing.T) {
		status, body := doRequest(t, app, "Bearer "+valid)
		assert.Equal(t, http.StatusOK, status)
		assert.JSONEq(t, `{"email":"a@x.com"}`, body)
	})

	t.Run("SchemeIsCaseInsensitive", func(t *testing.T) {
		status, _ := doRequest(t, app, "bearer "+valid)
		assert.Equal(t, http.StatusOK, status)
	})
}

func TestRoleAuthorizer(t *testing.T) {
	tokens := NewTokenManager("secret", 0)
	users := &fakeUsers{users: map[string]*domain.User{
		"admin@x.com":  {Email: "admin@x.com", Role: domain.RoleAdmin},
		"seller@x.com": {Email: "seller@x.com", Role: domain.RoleSeller},
		"buyer@x.com":  {Email: "buyer@x.com", Role: domain.RoleBuyer},
		"unset@x.com":  {Email: "unset@x.com"},
	}}
	roles := NewRoleAuthorizer(users, nil)
	verifier := NewAuthMiddleware(tokens, nil)

	app := newTestApp()
	app.Get("/protected", verifier.Handle, roles.RequireAdmin(), echoIdentity)

	cases := []struct {
		email  string
		status int
	}{
		{"admin@x.com", http.StatusOK},
		{"seller@x.com", http.StatusForbidden},
		{"buyer@x.com", http.StatusForbidden},
		{"unset@x.com", http.StatusForbidden},
		{"ghost@x.com", http.StatusForbidden},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.email, func(t *testing.T) {
			status, body := doRequest(t, app, "Bearer "+mustToken(t, tokens, tc.email))
			assert.Equal(t, tc.status, status)
			if tc.status == http.StatusForbidden {
				assert.JSONEq(t, `{"message":"forbidden access"}`, body)
			}
		})
	}

	t.Run("SellerGate", func(t *testing.T) {
		sellerApp := newTestApp()
		sellerApp.Get("/protected", verifier.Handle, roles.RequireSeller(), echoIdentity)

		status, _ := doRequest(t, sellerApp, "Bearer "+mustToken(t, tokens, "seller@x.com"))
		assert.Equal(t, http.StatusOK, status)
		status, _ = doRequest(t, sellerApp, "Bearer "+mustToken(t, tokens, "admin@x.com"))
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("VerifierRunsFirst", func(t *testing.T) {
		before := users.calls
		status, _ := doRequest(t, app, "")
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, before, users.calls, "role lookup must not run without a verified token")
	})

	t.Run("WithoutIdentityIsForbidden", func(t *testing.T) {
		bare := newTestApp()
		bare.Get("/protected", roles.RequireAdmin(), echoIdentity)
		status, _ := doRequest(t, bare, "")
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("StoreFailurePropagates", func(t *testing.T) {
		failing := NewRoleAuthorizer(&fakeUsers{err: errors.New("connection reset")}, nil)
		failApp := newTestApp()
		failApp.Get("/protected", verifier.Handle, failing.RequireAdmin(), echoIdentity)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+mustToken(t, tokens, "admin@x.com"))
		resp, err := failApp.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestRoleAuthorizerHasRole(t *testing.T) {
	users := &fakeUsers{users: map[string]*domain.User{
		"admin@x.com": {Email: "admin@x.com", Role: domain.RoleAdmin},
	}}
	roles := NewRoleAuthorizer(users, nil)
	ctx := context.Background()

	ok, err := roles.HasRole(ctx, "admin@x.com", domain.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = roles.HasRole(ctx, "admin@x.com", domain.RoleSeller)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = roles.HasRole(ctx, "nobody@x.com", domain.RoleAdmin)
	require.NoError(t, err, "a missing user is not an error")
	assert.False(t, ok)

	ok, err = roles.HasRole(ctx, "admin@x.com", domain.RoleUnset)
	require.NoError(t, err)
	assert.False(t, ok, "the unset role never authorizes")
}

func mustToken(t *testing.T, tm *TokenManager, email string) string {
	t.Helper()
	token, _, err := tm.GenerateToken(email)
	require.NoError(t, err)
	return token
}
