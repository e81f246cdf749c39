package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "games"))
	require.NoError(t, err)
	return s
}

func TestFileStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t)

	// Given: a game without an id
	g := &Game{Name: "evening game", Code: "AQAAAwEA__8qAA", Size: 9, Moves: 3}

	// When: it is saved
	require.NoError(t, s.Save(ctx, g))

	// Then: it gets an id and a timestamp and reads back unchanged
	require.NotEmpty(t, g.ID)
	_, err := uuid.Parse(g.ID)
	require.NoError(t, err)
	require.False(t, g.SavedAt.IsZero())

	got, err := s.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, g.Code, got.Code)
	assert.Equal(t, g.Name, got.Name)
	assert.Equal(t, g.Size, got.Size)
	assert.Equal(t, g.Moves, got.Moves)
	assert.True(t, g.SavedAt.Equal(got.SavedAt))
}

func TestFileStore_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t)

	g := &Game{Code: "first", Size: 9}
	require.NoError(t, s.Save(ctx, g))

	g.Code = "second"
	g.SavedAt = time.Time{}
	require.NoError(t, s.Save(ctx, g))

	got, err := s.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "second", got.Code)

	games, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, games, 1)
}

func TestFileStore_GetNotFound(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t)

	_, err := s.Get(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrGameNotFound)

	_, err = s.Get(ctx, "../../etc/passwd")
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestFileStore_SaveRejects(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t)

	assert.ErrorIs(t, s.Save(ctx, &Game{Size: 9}), ErrInvalidGame)
	assert.ErrorIs(t, s.Save(ctx, &Game{ID: "not-a-uuid", Code: "x"}), ErrInvalidGame)
}

func TestFileStore_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"old", "newest", "middle"} {
		offset := map[string]time.Duration{"old": 0, "middle": time.Hour, "newest": 2 * time.Hour}[name]
		g := &Game{Name: name, Code: "code", Size: 19, Moves: i, SavedAt: base.Add(offset)}
		require.NoError(t, s.Save(ctx, g))
	}

	// files that are not games are skipped
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "notes.txt"), []byte("hi"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), uuid.NewString()+".json"), []byte("{broken"), 0644))

	games, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, games, 3)
	assert.Equal(t, "newest", games[0].Name)
	assert.Equal(t, "middle", games[1].Name)
	assert.Equal(t, "old", games[2].Name)
}

func TestFileStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t)

	g := &Game{Code: "code", Size: 13}
	require.NoError(t, s.Save(ctx, g))

	require.NoError(t, s.Delete(ctx, g.ID))
	_, err := s.Get(ctx, g.ID)
	assert.ErrorIs(t, err, ErrGameNotFound)

	assert.ErrorIs(t, s.Delete(ctx, g.ID), ErrGameNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "nope"), ErrGameNotFound)
}

func TestFileStore_EmptyList(t *testing.T) {
	games, err := newFileStore(t).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, games)
}
