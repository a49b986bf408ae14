package database

import (
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsAreOrdered(t *testing.T) {
	goose.SetBaseFS(migrations)
	t.Cleanup(func() { goose.SetBaseFS(nil) })

	collected, err := goose.CollectMigrations("migrations", 0, goose.MaxVersion)
	require.NoError(t, err)
	require.Len(t, collected, 2)

	assert.Equal(t, int64(1), collected[0].Version)
	assert.Equal(t, int64(2), collected[1].Version)
}

func TestPostsMigrationIndexesOwnerListing(t *testing.T) {
	sql, err := migrations.ReadFile("migrations/00002_create_posts.sql")
	require.NoError(t, err)

	assert.Contains(t, string(sql), "REFERENCES users(id) ON DELETE CASCADE")
	assert.Contains(t, string(sql), "(author_id, created_at DESC)")
}
