package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultCacheTTL = 5 * time.Minute

// CacheManager caches catalog listings in Redis behind a per-owner version
// key. Imports bump the version, which invalidates every cached listing for
// that owner at once.
type CacheManager struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewCacheManager(redis *redis.Client) *CacheManager {
	return &CacheManager{redis: redis, ttl: defaultCacheTTL}
}

func (cm *CacheManager) versionKey(ownerID uuid.UUID) string {
	return "catalog:version:" + ownerID.String()
}

func (cm *CacheManager) listKey(ownerID uuid.UUID, kind string, version int64) string {
	return fmt.Sprintf("catalog:%s:%s:v%d", kind, ownerID, version)
}

// GetList returns a cached listing, or false on any miss or Redis error.
func (cm *CacheManager) GetList(ctx context.Context, ownerID uuid.UUID, kind string, out interface{}) bool {
	version, err := cm.redis.Get(ctx, cm.versionKey(ownerID)).Int64()
	if err != nil {
		return false
	}
	data, err := cm.redis.Get(ctx, cm.listKey(ownerID, kind, version)).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, out) == nil
}

func (cm *CacheManager) SetList(ctx context.Context, ownerID uuid.UUID, kind string, value interface{}) {
	version, err := cm.redis.Get(ctx, cm.versionKey(ownerID)).Int64()
	if err != nil {
		if err != redis.Nil {
			return
		}
		version = 1
		if err := cm.redis.Set(ctx, cm.versionKey(ownerID), version, 0).Err(); err != nil {
			return
		}
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := cm.redis.Set(ctx, cm.listKey(ownerID, kind, version), data, cm.ttl).Err(); err != nil {
		zap.L().Debug("cache set failed", zap.Error(err))
	}
}

// BumpVersion invalidates all cached listings for the owner.
func (cm *CacheManager) BumpVersion(ctx context.Context, ownerID uuid.UUID) {
	if err := cm.redis.Incr(ctx, cm.versionKey(ownerID)).Err(); err != nil {
		zap.L().Debug("cache version bump failed", zap.Error(err))
	}
}
