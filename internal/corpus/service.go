package corpus

import (
	"context"
	"errors"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Builder produces a fresh bundle for a product that has no cached one.
type Builder func(ctx context.Context) (*Bundle, error)

// Service fronts a Store with a build-on-miss policy. Concurrent
// requests for the same product share one build; different products do
// not block each other.
type Service struct {
	store Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(store Store) *Service {
	return &Service{store: store, locks: make(map[string]*sync.Mutex)}
}

// GetOrCreate returns the cached bundle for product, building and saving
// it first when there is none. At most one build runs per key.
func (s *Service) GetOrCreate(ctx context.Context, product string, build Builder) (*Bundle, error) {
	key := SanitizeKey(product)

	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	b, err := s.store.Load(ctx, key)
	if err == nil {
		zap.L().Debug("bundle cache hit", zap.String("key", key))
		return b, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, eris.Wrapf(err, "load bundle %s", key)
	}

	zap.L().Info("bundle cache miss, building", zap.String("key", key))
	b, err = build(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, key, b); err != nil {
		return nil, eris.Wrapf(err, "save bundle %s", key)
	}
	return b, nil
}

// Refresh rebuilds a product's bundle unconditionally, replacing any
// cached one.
func (s *Service) Refresh(ctx context.Context, product string, build Builder) (*Bundle, error) {
	key := SanitizeKey(product)

	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	b, err := build(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, key, b); err != nil {
		return nil, eris.Wrapf(err, "save bundle %s", key)
	}
	return b, nil
}

// Get loads a cached bundle without building on miss.
func (s *Service) Get(ctx context.Context, product string) (*Bundle, error) {
	return s.store.Load(ctx, SanitizeKey(product))
}

func (s *Service) keyLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}
