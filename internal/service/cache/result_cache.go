package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rakeshcr92/InsiderNet/internal/domain/models"
	domrepo "github.com/rakeshcr92/InsiderNet/internal/domain/repository"
	pkgcache "github.com/rakeshcr92/InsiderNet/pkg/cache"
)

const keyPrefix = "pipeline"

// ResultCache stores finished pipeline results in a pkg/cache backend.
type ResultCache struct {
	svc pkgcache.Service
}

var _ domrepo.ResultCache = (*ResultCache)(nil)

func NewResultCache(svc pkgcache.Service) *ResultCache {
	return &ResultCache{svc: svc}
}

func (c *ResultCache) Get(ctx context.Context, key string) (*models.PipelineResult, bool, error) {
	var res models.PipelineResult
	ok, err := pkgcache.Lookup(ctx, c.svc, key, &res)
	if err != nil {
		return nil, false, fmt.Errorf("result cache get: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	return &res, true, nil
}

func (c *ResultCache) Set(ctx context.Context, key string, res *models.PipelineResult, ttl time.Duration) error {
	if res == nil {
		return nil
	}
	if err := c.svc.Set(ctx, key, res, ttl); err != nil {
		return fmt.Errorf("result cache set: %w", err)
	}
	return nil
}

// ResultKey fingerprints a run: the same ticker, parameters and input
// records always map to the same key.
func ResultKey(params models.PipelineParams, in models.PipelineInput) (string, error) {
	fp, err := pkgcache.Fingerprint(struct {
		Params models.PipelineParams
		Input  models.PipelineInput
	}{params, in})
	if err != nil {
		return "", fmt.Errorf("result key: %w", err)
	}
	return pkgcache.Key(keyPrefix, strings.ToUpper(params.Ticker), fp), nil
}
