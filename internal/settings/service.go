package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	cacheKey = "settings:app"
	cacheTTL = 5 * time.Minute
)

// Service reads settings through a Redis cache and invalidates it on writes.
type Service struct {
	repo  Repository
	cache *redis.Client
}

// NewService builds a Service instance. cache may be nil in tests.
func NewService(repo Repository, cache *redis.Client) *Service {
	return &Service{repo: repo, cache: cache}
}

// Get returns the current app settings, served from cache when fresh.
func (s *Service) Get(ctx context.Context) (*AppSettings, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, cacheKey).Bytes()
		if err == nil {
			var cached AppSettings
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("settings: cache read: %w", err)
		}
	}

	current, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("settings: load: %w", err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(current); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, cacheTTL).Err()
		}
	}
	return current, nil
}

// Update applies the request on top of the stored settings and drops the cache.
func (s *Service) Update(ctx context.Context, req UpdateSettingsRequest) (*AppSettings, error) {
	current, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("settings: load: %w", err)
	}

	if req.BusinessName != nil {
		current.BusinessName = *req.BusinessName
	}
	if req.BusinessAddress != nil {
		current.BusinessAddress = *req.BusinessAddress
	}
	if req.BusinessPhone != nil {
		current.BusinessPhone = *req.BusinessPhone
	}
	if req.GSTIN != nil {
		current.GSTIN = *req.GSTIN
	}
	if req.DefaultGSTPercent != nil {
		if req.DefaultGSTPercent.IsNegative() {
			return nil, errors.New("settings: default gst percent must not be negative")
		}
		current.DefaultGSTPercent = *req.DefaultGSTPercent
	}
	if req.DefaultGlobalDiscountPercent != nil {
		if req.DefaultGlobalDiscountPercent.IsNegative() {
			return nil, errors.New("settings: default global discount must not be negative")
		}
		current.DefaultGlobalDiscountPercent = *req.DefaultGlobalDiscountPercent
	}
	if req.DefaultInstallationHandling != nil {
		if req.DefaultInstallationHandling.IsNegative() {
			return nil, errors.New("settings: default installation handling must not be negative")
		}
		current.DefaultInstallationHandling = *req.DefaultInstallationHandling
	}
	if req.QuotationValidityDays != nil {
		current.QuotationValidityDays = *req.QuotationValidityDays
	}
	if req.InvoicePaymentTermsDays != nil {
		current.InvoicePaymentTermsDays = *req.InvoicePaymentTermsDays
	}

	if err := s.repo.Update(ctx, *current); err != nil {
		return nil, fmt.Errorf("settings: update: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.Del(ctx, cacheKey).Err()
	}
	return current, nil
}
