package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDoc struct {
	Name   string   `json:"name"`
	Values []string `json:"values,omitempty"`
}

func TestStore_SaveLoad(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	in := testDoc{Name: "bracket", Values: []string{"width", "height"}}
	require.NoError(t, store.Save(ctx, "bracket", in))

	var out testDoc
	require.NoError(t, store.Load(ctx, "bracket", &out))
	assert.Equal(t, in, out)
}

func TestStore_LoadMissing(t *testing.T) {
	store := New(t.TempDir())

	var out testDoc
	err := store.Load(context.Background(), "nope", &out)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_BadNames(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	for _, name := range []string{"", "..", "a/b", `a\b`} {
		assert.ErrorIs(t, store.Save(ctx, name, testDoc{}), ErrBadName, "name %q", name)
		assert.ErrorIs(t, store.Load(ctx, name, &testDoc{}), ErrBadName, "name %q", name)
	}
}

func TestStore_Delete(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "doc", testDoc{Name: "doc"}))
	require.True(t, store.Exists(ctx, "doc"))

	require.NoError(t, store.Delete(ctx, "doc"))
	assert.False(t, store.Exists(ctx, "doc"))

	// Deleting again is fine.
	assert.NoError(t, store.Delete(ctx, "doc"))
}

func TestStore_List(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	ctx := context.Background()

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, store.Save(ctx, "alpha", testDoc{}))
	require.NoError(t, store.Save(ctx, "beta", testDoc{}))

	// Non-JSON files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	names, err = store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alpha", "beta"}, names)
}

func TestStore_SaveOverwrites(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "doc", testDoc{Name: "v1"}))
	require.NoError(t, store.Save(ctx, "doc", testDoc{Name: "v2"}))

	var out testDoc
	require.NoError(t, store.Load(ctx, "doc", &out))
	assert.Equal(t, "v2", out.Name)
}

func TestDocLockTryAcquire(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	a := newDocLock(path)
	b := newDocLock(path)

	require.True(t, a.TryAcquire())
	assert.False(t, b.TryAcquire())

	a.Release()
	assert.True(t, b.TryAcquire())
	b.Release()
}
