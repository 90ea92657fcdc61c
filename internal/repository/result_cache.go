package repository

import (
	"context"
	"errors"
	"time"

	"VolPath/internal/domain/models"
	domrepo "VolPath/internal/domain/repository"
	"VolPath/pkg/cache"
	applogger "VolPath/pkg/logger"
)

const resultKeyPrefix = "result"

// CachedResultStore memoizes simulation results in a cache backend.
// Scenario keys are hashed so arbitrary parameter strings stay within
// backend key limits.
type CachedResultStore struct {
	cache  cache.Service
	ttl    time.Duration
	logger *applogger.Logger
}

var _ domrepo.ResultCache = (*CachedResultStore)(nil)

// NewCachedResultStore creates a result store over the given cache service.
func NewCachedResultStore(c cache.Service, ttl time.Duration, l *applogger.Logger) *CachedResultStore {
	return &CachedResultStore{
		cache:  c,
		ttl:    ttl,
		logger: l,
	}
}

// Get returns the cached result for the scenario key, if present.
func (s *CachedResultStore) Get(ctx context.Context, key string) (*models.SimulationResult, bool) {
	var res models.SimulationResult
	err := s.cache.Get(ctx, s.storageKey(key), &res)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) && s.logger != nil {
			s.logger.Warn("result cache read failed", applogger.Error(err))
		}
		return nil, false
	}
	return &res, true
}

// Set stores the result under the scenario key for the configured TTL.
func (s *CachedResultStore) Set(ctx context.Context, key string, res *models.SimulationResult) error {
	return s.cache.Set(ctx, s.storageKey(key), res, s.ttl)
}

func (s *CachedResultStore) storageKey(key string) string {
	return cache.GenerateKey(resultKeyPrefix, cache.HashKey(key))
}
