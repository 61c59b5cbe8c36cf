package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	names, err := migrationNames(migrationFS)
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "001_documents.sql", names[0])
}
