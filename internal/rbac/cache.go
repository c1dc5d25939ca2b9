package rbac

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// PermissionSource loads the permission names granted to a role.
type PermissionSource interface {
	RolePermissions(ctx context.Context, roleName string) ([]string, error)
}

// PermissionCache caches role permission lookups in Redis. Role grants
// change rarely; a short TTL keeps the advisory data fresh enough without
// hitting postgres on every identity read.
type PermissionCache struct {
	client *redis.Client
	source PermissionSource
	logger *slog.Logger
	ttl    time.Duration
}

// NewPermissionCache constructs the cache.
func NewPermissionCache(client *redis.Client, source PermissionSource, logger *slog.Logger, ttl time.Duration) *PermissionCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &PermissionCache{client: client, source: source, logger: logger, ttl: ttl}
}

// RolePermissions returns the cached permission names for a role, falling
// back to the database on miss. Cache failures degrade to direct reads.
func (c *PermissionCache) RolePermissions(ctx context.Context, roleName string) ([]string, error) {
	key := c.key(roleName)
	if payload, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var perms []string
		if err := json.Unmarshal(payload, &perms); err == nil {
			return perms, nil
		}
	} else if !errors.Is(err, redis.Nil) && c.logger != nil {
		c.logger.Warn("permission cache read", slog.Any("error", err))
	}

	perms, err := c.source.RolePermissions(ctx, roleName)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(perms); err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil && c.logger != nil {
			c.logger.Warn("permission cache write", slog.Any("error", err))
		}
	}
	return perms, nil
}

// Invalidate drops the cached grants for a role.
func (c *PermissionCache) Invalidate(ctx context.Context, roleName string) error {
	err := c.client.Del(ctx, c.key(roleName)).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

func (c *PermissionCache) key(roleName string) string {
	return "rbac:permissions:" + roleName
}
