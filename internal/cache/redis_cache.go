package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vsp-live/profile-service/internal/config"
	"github.com/vsp-live/profile-service/internal/domain"
)

// RedisAvatarCache implements AvatarCache on redis.
type RedisAvatarCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisAvatarCache connects to redis and returns an avatar cache.
func NewRedisAvatarCache(cfg config.RedisConfig, prefix string, ttl time.Duration) (*RedisAvatarCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisAvatarCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}, nil
}

func (c *RedisAvatarCache) listKey() string {
	return fmt.Sprintf("%s:list", c.prefix)
}

func (c *RedisAvatarCache) idKey(avatarID string) string {
	return fmt.Sprintf("%s:id:%s", c.prefix, avatarID)
}

// GetList returns the cached avatar list.
func (c *RedisAvatarCache) GetList(ctx context.Context) ([]domain.Avatar, error) {
	data, err := c.client.Get(ctx, c.listKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var avatars []domain.Avatar
	if err := json.Unmarshal(data, &avatars); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}
	return avatars, nil
}

// SetList caches the avatar list.
func (c *RedisAvatarCache) SetList(ctx context.Context, avatars []domain.Avatar) error {
	data, err := json.Marshal(avatars)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}
	if err := c.client.Set(ctx, c.listKey(), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}
	return nil
}

// GetByID returns the cached avatar with the given id.
func (c *RedisAvatarCache) GetByID(ctx context.Context, id string) (*domain.Avatar, error) {
	data, err := c.client.Get(ctx, c.idKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var avatar domain.Avatar
	if err := json.Unmarshal(data, &avatar); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}
	return &avatar, nil
}

// SetByID caches a single avatar.
func (c *RedisAvatarCache) SetByID(ctx context.Context, avatar *domain.Avatar) error {
	data, err := json.Marshal(avatar)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}
	if err := c.client.Set(ctx, c.idKey(avatar.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}
	return nil
}

// Invalidate drops the list entry and the entry for the given avatar.
func (c *RedisAvatarCache) Invalidate(ctx context.Context, avatarID string) error {
	if err := c.client.Del(ctx, c.listKey(), c.idKey(avatarID)).Err(); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

// Close releases the redis connection.
func (c *RedisAvatarCache) Close() error {
	return c.client.Close()
}
