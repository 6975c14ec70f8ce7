package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/leadportal-api/internal/application/ports"
	"github.com/jhoicas/leadportal-api/internal/domain/access"
	"github.com/jhoicas/leadportal-api/internal/domain/entity"
)

var (
	_ ports.NavigationStore = (*NavigationStore)(nil)
	_ ports.FeatureCache    = (*FeatureCache)(nil)
	_ ports.HeartbeatStore  = (*HeartbeatStore)(nil)
)

// NavigationStore guarda el NavState de cada montaje como JSON en nav:<mount_id>.
// Cada Save renueva el TTL; un montaje abandonado se olvida solo.
type NavigationStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewNavigationStore(rdb *redis.Client, ttl time.Duration) *NavigationStore {
	return &NavigationStore{rdb: rdb, ttl: ttl}
}

func (s *NavigationStore) Load(ctx context.Context, mountID string) (access.NavState, error) {
	var st access.NavState
	found, err := getJSON(ctx, s.rdb, navPrefix+mountID, &st)
	if err != nil || !found {
		return access.NavState{}, err
	}
	return st, nil
}

func (s *NavigationStore) Save(ctx context.Context, mountID string, st access.NavState) error {
	return setJSON(ctx, s.rdb, navPrefix+mountID, st, s.ttl)
}

func (s *NavigationStore) Delete(ctx context.Context, mountID string) error {
	if err := s.rdb.Del(ctx, navPrefix+mountID).Err(); err != nil {
		return fmt.Errorf("redis: del nav: %w", err)
	}
	return nil
}

// FeatureCache flags por empresa en features:<company_id>.
type FeatureCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewFeatureCache(rdb *redis.Client, ttl time.Duration) *FeatureCache {
	return &FeatureCache{rdb: rdb, ttl: ttl}
}

func (c *FeatureCache) Get(ctx context.Context, companyID string) (*entity.CompanyFeatures, bool, error) {
	var f entity.CompanyFeatures
	found, err := getJSON(ctx, c.rdb, featuresPrefix+companyID, &f)
	if err != nil || !found {
		return nil, false, err
	}
	return &f, true, nil
}

func (c *FeatureCache) Set(ctx context.Context, f entity.CompanyFeatures) error {
	return setJSON(ctx, c.rdb, featuresPrefix+f.CompanyID, f, c.ttl)
}

func (c *FeatureCache) Invalidate(ctx context.Context, companyID string) error {
	if err := c.rdb.Del(ctx, featuresPrefix+companyID).Err(); err != nil {
		return fmt.Errorf("redis: del features: %w", err)
	}
	return nil
}

// InvalidateAll borra todas las claves features:* con SCAN, sin bloquear Redis como KEYS.
func (c *FeatureCache) InvalidateAll(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, featuresPrefix+"*", 200).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 200 {
			if err := c.rdb.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("redis: del features: %w", err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis: scan features: %w", err)
	}
	if len(batch) > 0 {
		if err := c.rdb.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("redis: del features: %w", err)
		}
	}
	return nil
}

// HeartbeatStore último latido de cada job en crawler:heartbeat:<job_id> (RFC3339Nano).
// Si la clave expira el job se considera caído.
type HeartbeatStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewHeartbeatStore(rdb *redis.Client, ttl time.Duration) *HeartbeatStore {
	return &HeartbeatStore{rdb: rdb, ttl: ttl}
}

func (h *HeartbeatStore) Beat(ctx context.Context, jobID string, at time.Time) error {
	if err := h.rdb.Set(ctx, heartbeatPrefix+jobID, at.UTC().Format(time.RFC3339Nano), h.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set heartbeat: %w", err)
	}
	return nil
}

func (h *HeartbeatStore) LastBeat(ctx context.Context, jobID string) (time.Time, bool, error) {
	raw, err := h.rdb.Get(ctx, heartbeatPrefix+jobID).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("redis: get heartbeat: %w", err)
	}
	at, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("redis: heartbeat corrupto para %s: %w", jobID, err)
	}
	return at, true, nil
}

func getJSON(ctx context.Context, rdb *redis.Client, key string, dst any) (bool, error) {
	raw, err := rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis: get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("redis: decode %s: %w", key, err)
	}
	return true, nil
}

// setJSON ttl <= 0 guarda sin expiración.
func setJSON(ctx context.Context, rdb *redis.Client, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("redis: encode %s: %w", key, err)
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", key, err)
	}
	return nil
}
