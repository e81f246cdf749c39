// Package store keeps saved games, as JSON files or in redis.
package store

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrInvalidGame  = errors.New("invalid saved game")
)

// Game is a saved game. Code is the session's game code and is the only
// field needed to restore the game; the rest is shown in the browser.
type Game struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Code    string    `json:"code"`
	Size    int       `json:"size"`
	Moves   int       `json:"moves"`
	SavedAt time.Time `json:"saved_at"`
	SGFPath string    `json:"sgf_path,omitempty"`
}

// Store persists saved games.
type Store interface {
	// Save creates or replaces g. An empty ID is filled in.
	Save(ctx context.Context, g *Game) error
	Get(ctx context.Context, id string) (*Game, error)
	// List returns all games, most recently saved first.
	List(ctx context.Context) ([]Game, error)
	Delete(ctx context.Context, id string) error
}

// prepare fills in the ID and timestamp of a game about to be saved.
func prepare(g *Game) error {
	if g.Code == "" {
		return errors.Join(ErrInvalidGame, errors.New("empty game code"))
	}
	if g.ID == "" {
		g.ID = uuid.NewString()
	} else if _, err := uuid.Parse(g.ID); err != nil {
		return errors.Join(ErrInvalidGame, err)
	}
	if g.SavedAt.IsZero() {
		g.SavedAt = time.Now().UTC()
	}
	return nil
}

// validID reports whether id can name a saved game. IDs are UUIDs, which
// also keeps them safe to use as file names.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func sortNewestFirst(games []Game) {
	sort.SliceStable(games, func(i, j int) bool {
		return games[i].SavedAt.After(games[j].SavedAt)
	})
}
