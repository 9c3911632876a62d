package repo_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/helpline-directory/internal/repo"
)

func TestFileStateRepo_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	ctx := context.Background()

	require.NoError(t, repo.NewFileStateRepo(path).Set(ctx, "darkMode", "true"))

	// A fresh repo over the same file plays the role of a page reload.
	v, ok, err := repo.NewFileStateRepo(path).Get(ctx, "darkMode")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)
}

func TestFileStateRepo_KeepsOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	r := repo.NewFileStateRepo(path)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", "1"))
	require.NoError(t, r.Set(ctx, "b", "2"))

	v, _, err := r.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

func TestFileStateRepo_CorruptFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, _, err := repo.NewFileStateRepo(path).Get(context.Background(), "a")

	assert.Error(t, err)
}

func TestFileStateRepo_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	r := repo.NewFileStateRepo(filepath.Join(dir, "state.json"))

	require.NoError(t, r.Set(context.Background(), "a", "1"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "state.json", entries[0].Name())
}
