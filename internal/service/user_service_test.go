package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/laptop-resale/internal/domain"
	"github.com/spec-kit/laptop-resale/internal/persistence"
	"github.com/spec-kit/laptop-resale/internal/repository"
	apperrors "github.com/spec-kit/laptop-resale/pkg/util"
)

func TestUserServiceRegister(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryStore()
	svc := NewUserService(repository.NewUserRepository(store))

	res, err := svc.Register(ctx, domain.Document{"email": "s@x.com", "name": "Sam", "role": "seller"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.InsertedID)

	t.Run("ExistingEmailIsAcknowledgedWithoutWrite", func(t *testing.T) {
		again, err := svc.Register(ctx, domain.Document{"email": "s@x.com", "role": "buyer"})
		require.NoError(t, err)
		assert.True(t, again.Acknowledged)
		assert.Empty(t, again.InsertedID)

		doc, err := svc.GetByEmail(ctx, "s@x.com")
		require.NoError(t, err)
		assert.Equal(t, "seller", doc["role"])
	})

	t.Run("CannotClaimAdmin", func(t *testing.T) {
		_, err := svc.Register(ctx, domain.Document{"email": "evil@x.com", "role": "admin"})
		de := apperrors.ToDomainError(err)
		require.NotNil(t, de)
		assert.Equal(t, "VALIDATION_FAILED", de.Code)
	})

	t.Run("EmailRequired", func(t *testing.T) {
		_, err := svc.Register(ctx, domain.Document{"name": "anon"})
		assert.Error(t, err)
	})

	t.Run("RoleOptional", func(t *testing.T) {
		_, err := svc.Register(ctx, domain.Document{"email": "b@x.com"})
		assert.NoError(t, err)
	})
}

func TestUserServiceQueries(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryStore()
	svc := NewUserService(repository.NewUserRepository(store))

	sellerID := seedUser(store, "s@x.com", domain.RoleSeller)
	seedUser(store, "b1@x.com", domain.RoleBuyer)
	seedUser(store, "b2@x.com", domain.RoleBuyer)

	buyers, err := svc.ListByRole(ctx, domain.RoleBuyer)
	require.NoError(t, err)
	assert.Len(t, buyers, 2)

	missing, err := svc.GetByEmail(ctx, "ghost@x.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	upd, err := svc.SetVerified(ctx, sellerID, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), upd.ModifiedCount)

	del, err := svc.Delete(ctx, sellerID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), del.DeletedCount)
}
