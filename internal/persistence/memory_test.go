package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/laptop-resale/internal/domain"
)

func TestMemoryCollection(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	products := store.Collection(domain.CollectionProducts)

	first, err := products.InsertOne(ctx, domain.Document{"name": "ThinkPad", "seller_email": "s@x.com", "reported": true})
	require.NoError(t, err)
	assert.True(t, first.Acknowledged)
	assert.NotEmpty(t, first.InsertedID)

	_, err = products.InsertOne(ctx, domain.Document{"name": "MacBook", "seller_email": "t@x.com"})
	require.NoError(t, err)

	t.Run("FindByEquality", func(t *testing.T) {
		docs, err := products.Find(ctx, domain.Filter{"seller_email": "s@x.com"})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "ThinkPad", docs[0]["name"])
		assert.Equal(t, first.InsertedID, docs[0][domain.FieldID])
	})

	t.Run("EmptyFilterMatchesAll", func(t *testing.T) {
		docs, err := products.Find(ctx, domain.Filter{})
		require.NoError(t, err)
		assert.Len(t, docs, 2)
	})

	t.Run("FindReturnsEmptySlice", func(t *testing.T) {
		docs, err := products.Find(ctx, domain.Filter{"seller_email": "nobody"})
		require.NoError(t, err)
		assert.NotNil(t, docs)
		assert.Empty(t, docs)
	})

	t.Run("FindOneMissing", func(t *testing.T) {
		_, err := products.FindOne(ctx, domain.Filter{"name": "Surface"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("UpdateSetsFields", func(t *testing.T) {
		res, err := products.UpdateOne(ctx, domain.Filter{domain.FieldID: first.InsertedID}, domain.Document{"isAdvertised": true})
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.MatchedCount)
		assert.Equal(t, int64(1), res.ModifiedCount)

		again, err := products.UpdateOne(ctx, domain.Filter{domain.FieldID: first.InsertedID}, domain.Document{"isAdvertised": true})
		require.NoError(t, err)
		assert.Equal(t, int64(1), again.MatchedCount)
		assert.Equal(t, int64(0), again.ModifiedCount)

		doc, err := products.FindOne(ctx, domain.Filter{"isAdvertised": true})
		require.NoError(t, err)
		assert.Equal(t, "ThinkPad", doc["name"])
	})

	t.Run("UpdateWithoutMatch", func(t *testing.T) {
		res, err := products.UpdateOne(ctx, domain.Filter{domain.FieldID: "missing"}, domain.Document{"paid": true})
		require.NoError(t, err)
		assert.Equal(t, int64(0), res.MatchedCount)
	})

	t.Run("ReturnedDocumentsAreCopies", func(t *testing.T) {
		doc, err := products.FindOne(ctx, domain.Filter{"name": "MacBook"})
		require.NoError(t, err)
		doc["name"] = "changed"

		_, err = products.FindOne(ctx, domain.Filter{"name": "MacBook"})
		assert.NoError(t, err)
	})

	t.Run("Delete", func(t *testing.T) {
		res, err := products.DeleteOne(ctx, domain.Filter{domain.FieldID: first.InsertedID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.DeletedCount)

		res, err = products.DeleteOne(ctx, domain.Filter{domain.FieldID: first.InsertedID})
		require.NoError(t, err)
		assert.Equal(t, int64(0), res.DeletedCount)
	})

	t.Run("CollectionsAreIsolated", func(t *testing.T) {
		docs, err := store.Collection(domain.CollectionUsers).Find(ctx, domain.Filter{})
		require.NoError(t, err)
		assert.Empty(t, docs)
	})
}

func TestMemoryCollectionHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemoryStore().Collection("users").FindOne(ctx, domain.Filter{"email": "a@x.com"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSplitID(t *testing.T) {
	id, hasID, rest, err := splitID(domain.Filter{domain.FieldID: "abc", "email": "a@x.com"})
	require.NoError(t, err)
	assert.True(t, hasID)
	assert.Equal(t, "abc", id)
	assert.Equal(t, domain.Filter{"email": "a@x.com"}, rest)

	_, _, _, err = splitID(domain.Filter{domain.FieldID: 42})
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestToBSONFilterRejectsNonHexID(t *testing.T) {
	_, err := toBSONFilter(domain.Filter{domain.FieldID: "not-an-object-id"})
	assert.ErrorIs(t, err, ErrInvalidID)

	f, err := toBSONFilter(domain.Filter{domain.FieldID: "64b7f1c2a1b2c3d4e5f60718", "email": "a@x.com"})
	require.NoError(t, err)
	assert.Len(t, f, 2)
}
