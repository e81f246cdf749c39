package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps one JSON file per game in a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed and returns a store backed by it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create games dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory the games are kept in.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *FileStore) Save(_ context.Context, g *Game) error {
	if err := prepare(g); err != nil {
		return err
	}

	gameJSON, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	// write to a temp file first so a crash never leaves half a game behind
	tmp, err := os.CreateTemp(s.dir, ".save-*")
	if err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(gameJSON); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to save game: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(g.ID)); err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}
	return nil
}

func (s *FileStore) Get(_ context.Context, id string) (*Game, error) {
	if !validID(id) {
		return nil, ErrGameNotFound
	}
	return s.read(s.path(id))
}

func (s *FileStore) read(path string) (*Game, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read game: %w", err)
	}

	var g Game
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game %s: %w", filepath.Base(path), err)
	}
	return &g, nil
}

// List skips files that cannot be read as games.
func (s *FileStore) List(_ context.Context) ([]Game, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read games dir: %w", err)
	}

	var games []Game
	for _, e := range entries {
		id, ok := strings.CutSuffix(e.Name(), ".json")
		if e.IsDir() || !ok || !validID(id) {
			continue
		}
		g, err := s.read(filepath.Join(s.dir, e.Name()))
		if err != nil {
			continue
		}
		games = append(games, *g)
	}
	sortNewestFirst(games)
	return games, nil
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	if !validID(id) {
		return ErrGameNotFound
	}
	err := os.Remove(s.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return ErrGameNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	return nil
}
