// Package memory almacenes en proceso para cuando no hay Redis configurado.
// Sirven para una sola instancia de la API.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/leadportal-api/internal/domain/access"
	"github.com/jhoicas/leadportal-api/internal/domain/entity"
)

// DefaultMaxEntries tope de claves por almacén. /api/navigation/resolve es público
// y acepta cualquier mount_id.
const DefaultMaxEntries = 50000

// sweepEvery cada cuánto una escritura recorre el mapa para borrar lo vencido.
const sweepEvery = time.Minute

type expiring[T any] struct {
	val T
	exp time.Time
}

func (e expiring[T]) alive(now time.Time) bool { return e.exp.IsZero() || now.Before(e.exp) }

// ttlMap mapa con expiración y tamaño acotado. Lo vencido se borra al leer la clave
// y en barridos periódicos al escribir; lleno, se desaloja la entrada que vence antes.
type ttlMap[T any] struct {
	mu        sync.Mutex
	ttl       time.Duration
	max       int
	m         map[string]expiring[T]
	lastSweep time.Time
	now       func() time.Time
}

func (t *ttlMap[T]) init(ttl time.Duration) {
	t.ttl, t.max, t.m, t.now = ttl, DefaultMaxEntries, map[string]expiring[T]{}, time.Now
}

func (t *ttlMap[T]) get(key string) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.m[key]
	if !ok || !e.alive(t.now()) {
		delete(t.m, key)
		var zero T
		return zero, false
	}
	return e.val, true
}

func (t *ttlMap[T]) put(key string, val T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	if _, exists := t.m[key]; !exists {
		if now.Sub(t.lastSweep) >= sweepEvery || (t.max > 0 && len(t.m) >= t.max) {
			t.sweep(now)
		}
		if t.max > 0 && len(t.m) >= t.max {
			t.evictOldest()
		}
	}
	e := expiring[T]{val: val}
	if t.ttl > 0 {
		e.exp = now.Add(t.ttl)
	}
	// la clave puede venir de un buffer que el servidor HTTP reutiliza
	t.m[strings.Clone(key)] = e
}

func (t *ttlMap[T]) del(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.m, key)
}

func (t *ttlMap[T]) sweep(now time.Time) {
	for k, e := range t.m {
		if !e.alive(now) {
			delete(t.m, k)
		}
	}
	t.lastSweep = now
}

// evictOldest sin TTL (exp cero) cualquier clave sirve.
func (t *ttlMap[T]) evictOldest() {
	var (
		victim string
		oldest time.Time
		found  bool
	)
	for k, e := range t.m {
		if !found || e.exp.Before(oldest) {
			victim, oldest, found = k, e.exp, true
		}
	}
	if found {
		delete(t.m, victim)
	}
}

func (t *ttlMap[T]) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.m)
}

// NavigationStore estado de navegación por montaje con TTL.
type NavigationStore struct {
	ttlMap[access.NavState]
}

// NewNavigationStore ttl <= 0 desactiva la expiración.
func NewNavigationStore(ttl time.Duration) *NavigationStore {
	s := &NavigationStore{}
	s.init(ttl)
	return s
}

func (s *NavigationStore) Load(_ context.Context, mountID string) (access.NavState, error) {
	st, _ := s.get(mountID)
	return st, nil
}

func (s *NavigationStore) Save(_ context.Context, mountID string, st access.NavState) error {
	s.put(mountID, st)
	return nil
}

func (s *NavigationStore) Delete(_ context.Context, mountID string) error {
	s.del(mountID)
	return nil
}

// FeatureCache caché de flags por empresa con TTL.
type FeatureCache struct {
	ttlMap[entity.CompanyFeatures]
}

func NewFeatureCache(ttl time.Duration) *FeatureCache {
	c := &FeatureCache{}
	c.init(ttl)
	return c
}

func (c *FeatureCache) Get(_ context.Context, companyID string) (*entity.CompanyFeatures, bool, error) {
	f, ok := c.get(companyID)
	if !ok {
		return nil, false, nil
	}
	f.CompanyID = strings.Clone(f.CompanyID)
	return &f, true, nil
}

func (c *FeatureCache) Set(_ context.Context, f entity.CompanyFeatures) error {
	f.CompanyID = strings.Clone(f.CompanyID)
	c.put(f.CompanyID, f)
	return nil
}

func (c *FeatureCache) Invalidate(_ context.Context, companyID string) error {
	c.del(companyID)
	return nil
}

// InvalidateAll vacía la caché; el listener de flags lo usa tras reconectar.
func (c *FeatureCache) InvalidateAll(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.m)
	return nil
}

// HeartbeatStore último latido por job; un latido vence pasado el ttl.
type HeartbeatStore struct {
	ttlMap[time.Time]
}

func NewHeartbeatStore(ttl time.Duration) *HeartbeatStore {
	h := &HeartbeatStore{}
	h.init(ttl)
	return h
}

func (h *HeartbeatStore) Beat(_ context.Context, jobID string, at time.Time) error {
	h.put(jobID, at)
	return nil
}

func (h *HeartbeatStore) LastBeat(_ context.Context, jobID string) (time.Time, bool, error) {
	at, ok := h.get(jobID)
	return at, ok, nil
}
