package player

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/simp-lee/playerbase/internal/domain"
)

// DefaultCacheKeyPrefix namespaces player keys when no prefix is configured.
const DefaultCacheKeyPrefix = "playerbase"

// versionTTL bounds how long a version key outlives the last write. It only
// has to cover a single database read.
const versionTTL = time.Minute

// cachedRepository is a read-through Redis cache in front of another
// PlayerRepository. Single-player reads are served from Redis when possible;
// writes go to the wrapped repository and evict the cached entry. Queries
// and counts are not cached.
//
// Redis failures never fail a call: they are logged and the wrapped
// repository answers instead.
type cachedRepository struct {
	domain.PlayerRepository

	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewCachedRepository wraps repo with a Redis cache. A zero ttl keeps
// entries until they are evicted by a write.
func NewCachedRepository(repo domain.PlayerRepository, client *redis.Client, ttl time.Duration, prefix string) domain.PlayerRepository {
	if prefix == "" {
		prefix = DefaultCacheKeyPrefix
	}
	return &cachedRepository{
		PlayerRepository: repo,
		client:           client,
		ttl:              ttl,
		prefix:           prefix,
	}
}

// playerKey returns the Redis key for a player.
func (r *cachedRepository) playerKey(id int64) string {
	return fmt.Sprintf("%s:player:%d", r.prefix, id)
}

// versionKey returns the key writers bump after changing a player. Fills
// watch it and are dropped when it moves.
func (r *cachedRepository) versionKey(id int64) string {
	return fmt.Sprintf("%s:player:%d:version", r.prefix, id)
}

// GetByID returns the cached player or loads it and fills the cache. The
// load and the fill run under WATCH on the player's version key, so a write
// that lands in between discards the fill instead of caching the old row.
func (r *cachedRepository) GetByID(ctx context.Context, id int64) (*domain.Player, error) {
	key := r.playerKey(id)

	data, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var player domain.Player
		decodeErr := json.Unmarshal(data, &player)
		if decodeErr == nil {
			return &player, nil
		}
		slog.WarnContext(ctx, "player cache: corrupt entry", "key", key, "error", decodeErr)
	case !errors.Is(err, redis.Nil):
		slog.WarnContext(ctx, "player cache: get failed", "key", key, "error", err)
	}

	var (
		player  *domain.Player
		loadErr error
	)
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		player, loadErr = r.PlayerRepository.GetByID(ctx, id)
		if loadErr != nil {
			return nil
		}
		data, err := json.Marshal(player)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.ttl)
			return nil
		})
		return err
	}, r.versionKey(id))
	if loadErr != nil {
		return nil, loadErr
	}
	switch {
	case err == nil:
	case errors.Is(err, redis.TxFailedErr):
		slog.DebugContext(ctx, "player cache: fill dropped after concurrent write", "key", key)
	default:
		slog.WarnContext(ctx, "player cache: fill failed", "key", key, "error", err)
	}
	if player == nil {
		return r.PlayerRepository.GetByID(ctx, id)
	}
	return player, nil
}

// Update persists the change and evicts the cached copy.
func (r *cachedRepository) Update(ctx context.Context, id int64, apply func(*domain.Player) error) (*domain.Player, error) {
	player, err := r.PlayerRepository.Update(ctx, id, apply)
	if err != nil {
		return nil, err
	}
	r.evict(ctx, id)
	return player, nil
}

// Delete removes the player and evicts its cached copy.
func (r *cachedRepository) Delete(ctx context.Context, id int64) error {
	if err := r.PlayerRepository.Delete(ctx, id); err != nil {
		return err
	}
	r.evict(ctx, id)
	return nil
}

// evict drops the cached entry and bumps the version key so that fills
// already in flight are discarded.
func (r *cachedRepository) evict(ctx context.Context, id int64) {
	key := r.playerKey(id)
	version := r.versionKey(id)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.Incr(ctx, version)
		pipe.Expire(ctx, version, versionTTL)
		return nil
	})
	if err != nil {
		slog.WarnContext(ctx, "player cache: evict failed", "key", key, "error", err)
	}
}
