package migration

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/retailpos/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add stock movements", "add_stock_movements"},
		{"Add-Outbox-Index", "add_outbox_index"},
		{"ADD_USERS_TABLE", "add_users_table"},
		{"add__users__table", "add_users_table"},
		{"Add Users 123", "add_users_123"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "add users table", "Create users")
	require.NoError(t, err)
	assert.Equal(t, "000001", first.Version)
	assert.Equal(t, filepath.Join(dir, "000001_add_users_table.up.sql"), first.UpPath)
	assert.Equal(t, filepath.Join(dir, "000001_add_users_table.down.sql"), first.DownPath)

	up, err := os.ReadFile(first.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Migration: add users table")
	assert.Contains(t, string(up), "-- Description: Create users")

	down, err := os.ReadFile(first.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(Rollback)")

	second, err := CreateMigration(dir, "Add Index", "")
	require.NoError(t, err)
	assert.Equal(t, "000002", second.Version)

	t.Run("continues after the highest existing version", func(t *testing.T) {
		gapped := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(gapped, "000041_seed.up.sql"), nil, 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(gapped, "000007_init.up.sql"), nil, 0o644))

		next, err := CreateMigration(gapped, "add stores", "")
		require.NoError(t, err)
		assert.Equal(t, "000042", next.Version)
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		_, err := CreateMigration(dir, "!!!", "")
		assert.Error(t, err)
	})
}

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"000002_add_index.up.sql":  {},
		"000001_init.up.sql":       {},
		"000001_init.down.sql":     {},
		"README.md":                {},
		"notaversion_thing.up.sql": {},
		"000003_seed.up.sql":       {},
		"nested/000009_x.up.sql":   {},
	}

	list, err := ListMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "000001_init", list[0].String())
	assert.True(t, list[0].HasDown)
	assert.Equal(t, uint64(2), list[1].Version)
	assert.False(t, list[1].HasDown)
	assert.Equal(t, "seed", list[2].Name)
}

func TestEmbeddedMigrations(t *testing.T) {
	list, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, list)
	assert.Equal(t, "000001_init", list[0].String())
	for _, m := range list {
		assert.True(t, m.HasDown, "migration %s has no down file", m)
	}
}
