package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) (*LocalArtifactStore, string) {
	t.Helper()
	dir := t.TempDir()
	store := NewLocalArtifactStore(dir, zap.NewNop()).(*LocalArtifactStore)
	return store, dir
}

func TestStoreAndRead(t *testing.T) {
	store, dir := newTestStore(t)

	locator, err := store.Store(context.Background(), "draft-10-abc123", []byte("hello"), "text/plain")
	require.NoError(t, err)
	assert.True(t, filepath.IsLocal(locator))
	assert.Equal(t, ".txt", filepath.Ext(locator))

	content, err := store.Read(context.Background(), locator)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), content)

	_, err = os.Stat(filepath.Join(dir, locator))
	require.NoError(t, err)
}

func TestStoreSanitizesName(t *testing.T) {
	store, dir := newTestStore(t)

	locator, err := store.Store(context.Background(), "../../etc/passwd", []byte("x"), "text/plain")
	require.NoError(t, err)

	full, err := filepath.Abs(filepath.Join(dir, locator))
	require.NoError(t, err)
	base, err := filepath.Abs(dir)
	require.NoError(t, err)
	assert.Contains(t, full, base)
}

func TestReadRejectsEscapingLocator(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Read(context.Background(), "../outside.txt")
	require.Error(t, err)
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, ".md", extensionFor("text/markdown"))
	assert.Equal(t, ".json", extensionFor("application/json"))
	assert.Equal(t, "", extensionFor("application/x-unknown-thing"))
}
