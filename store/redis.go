package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const gamesKey = "games"

// RedisStore keeps each game as JSON under game:<id> and the ids in the
// games set.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to redis at addr and checks the connection.
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	conn := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := conn.Ping(ctx).Err(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: conn}, nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func gameKey(id string) string {
	return "game:" + id
}

func (s *RedisStore) Save(ctx context.Context, g *Game) error {
	if err := prepare(g); err != nil {
		return err
	}

	gameJSON, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, gameKey(g.ID), gameJSON, 0)
		pipe.SAdd(ctx, gamesKey, g.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Game, error) {
	response, err := s.client.Get(ctx, gameKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	var g Game
	if err := json.Unmarshal([]byte(response), &g); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}
	return &g, nil
}

// List drops ids from the set whose game key has gone.
func (s *RedisStore) List(ctx context.Context) ([]Game, error) {
	ids, err := s.client.SMembers(ctx, gamesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = gameKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	var games []Game
	var stale []interface{}
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			stale = append(stale, ids[i])
			continue
		}
		var g Game
		if err := json.Unmarshal([]byte(raw), &g); err != nil {
			continue
		}
		games = append(games, g)
	}
	if len(stale) > 0 {
		if err := s.client.SRem(ctx, gamesKey, stale...).Err(); err != nil {
			return nil, fmt.Errorf("failed to prune game list: %w", err)
		}
	}
	sortNewestFirst(games)
	return games, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, gameKey(id))
		pipe.SRem(ctx, gamesKey, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	if del.Val() == 0 {
		return ErrGameNotFound
	}
	return nil
}
