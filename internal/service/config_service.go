package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hackdesk/helpdesk-service/internal/persistence"
	"github.com/hackdesk/helpdesk-service/internal/repository"
)

// Well-known configuration keys. The core does not interpret the values;
// the presentation layer reads them to decide where to post and listen.
const (
	ConfigKeyIntakeChannel    = "intake_channel"
	ConfigKeyBroadcastChannel = "broadcast_channel"
)

const configCachePrefix = "config:"

// ConfigService exposes get/set passthroughs for named settings with a
// Redis read-through cache in front of the durable store.
type ConfigService struct {
	repo   repository.ConfigRepository
	cache  *persistence.Redis
	ttl    time.Duration
	logger *zap.Logger
}

// NewConfigService creates the service. cache may be nil.
func NewConfigService(repo repository.ConfigRepository, cache *persistence.Redis, ttl time.Duration, logger *zap.Logger) *ConfigService {
	return &ConfigService{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

// Get returns the setting value, serving from cache when possible.
func (s *ConfigService) Get(ctx context.Context, key string) (string, error) {
	if s.cacheAvailable() {
		if value, err := s.cache.Client.Get(ctx, configCachePrefix+key).Result(); err == nil {
			return value, nil
		}
	}

	value, err := s.repo.Get(ctx, key)
	if err != nil {
		return "", err
	}

	if s.cacheAvailable() {
		if err := s.cache.Client.Set(ctx, configCachePrefix+key, value, s.ttl).Err(); err != nil {
			s.logger.Debug("config cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return value, nil
}

// Set stores the setting and invalidates the cached copy.
func (s *ConfigService) Set(ctx context.Context, key, value string) error {
	if err := s.repo.Set(ctx, key, value); err != nil {
		return err
	}
	if s.cacheAvailable() {
		if err := s.cache.Client.Del(ctx, configCachePrefix+key).Err(); err != nil {
			s.logger.Debug("config cache invalidation failed", zap.String("key", key), zap.Error(err))
		}
	}
	return nil
}

func (s *ConfigService) cacheAvailable() bool {
	return s.cache != nil && s.cache.Client != nil
}
