package explain

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"oncodash/domain/clinical"
	"oncodash/ports"
)

// Service fetches explainability artifacts through a TTL cache. The
// artifacts are opaque external payloads; caching them keeps view switches
// from refetching identical SHAP plots and LIME weights.
type Service struct {
	backend ports.Backend
	cache   *gocache.Cache
}

// NewService creates an explainability service with the given cache TTL.
func NewService(backend ports.Backend, ttl time.Duration) *Service {
	return &Service{
		backend: backend,
		cache:   gocache.New(ttl, 2*ttl),
	}
}

// ShapSummary returns the SHAP artifact for a model.
func (s *Service) ShapSummary(ctx context.Context, modelID clinical.ModelID) (map[string]any, error) {
	key := "shap:" + string(modelID)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(map[string]any), nil
	}
	artifact, err := s.backend.ShapSummary(ctx, modelID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, artifact, gocache.DefaultExpiration)
	return artifact, nil
}

// FeatureImportance returns the intrinsic importance artifact for a model.
func (s *Service) FeatureImportance(ctx context.Context, modelID clinical.ModelID) (map[string]any, error) {
	key := "importance:" + string(modelID)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(map[string]any), nil
	}
	artifact, err := s.backend.FeatureImportance(ctx, modelID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, artifact, gocache.DefaultExpiration)
	return artifact, nil
}

// LimeExplanation returns the LIME artifact for one sample index.
func (s *Service) LimeExplanation(ctx context.Context, modelID clinical.ModelID, sampleIndex int) (map[string]any, error) {
	key := fmt.Sprintf("lime:%s:%d", modelID, sampleIndex)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(map[string]any), nil
	}
	artifact, err := s.backend.LimeExplanation(ctx, modelID, sampleIndex)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, artifact, gocache.DefaultExpiration)
	return artifact, nil
}
