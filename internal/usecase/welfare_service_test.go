package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/welfarelens/backend/internal/domain"
	"github.com/welfarelens/backend/internal/infrastructure/patterns"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	data      map[string][]byte
	getError  error
	setError  error
	getCalled bool
	setCalled bool
	lastTTL   time.Duration
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		data: make(map[string][]byte),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	m.getCalled = true
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.setCalled = true
	m.lastTTL = ttl
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

// MockProductProvider is a mock implementation of domain.ProductProvider
type MockProductProvider struct {
	products map[string]*domain.ProductRecord
	err      error
	calls    int
}

func (m *MockProductProvider) GetProduct(ctx context.Context, code string) (*domain.ProductRecord, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[code]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	copied := *p
	return &copied, nil
}

// recordingMetrics collects observations; batch analysis calls it concurrently.
type recordingMetrics struct {
	mu        sync.Mutex
	outcomes  []string
	stages    []string
	cacheHits int
}

func (r *recordingMetrics) ObserveAnalysis(outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

func (r *recordingMetrics) ObserveBreeding(_ domain.AnimalType, stage string, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stages = append(r.stages, stage)
}

func (r *recordingMetrics) ObserveQuantity(string, bool) {}

func (r *recordingMetrics) ObserveCache(hit bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if hit {
		r.cacheHits++
	}
}

const testCode = "3017620422003"

func cageEggsInFrance() *domain.ProductRecord {
	return &domain.ProductRecord{
		Code:           testCode,
		ProductName:    "12 oeufs",
		CategoriesTags: []string{"en:farming-products", "en:eggs", "en:chicken-eggs", "en:cage-chicken-eggs"},
		CountriesTags:  []string{"en:france"},
		Quantity:       "12",
	}
}

func newTestService(cache domain.CacheRepository, provider domain.ProductProvider, metrics Recorder) *WelfareService {
	return NewWelfareService(patterns.NewStaticStore(patterns.Default()), cache, provider, WelfareServiceConfig{
		CacheTTL:           time.Hour,
		BatchConcurrency:   2,
		MaxBatchSize:       5,
		EnableDebugLogging: true,
		Metrics:            metrics,
	})
}

func TestNewWelfareService_Defaults(t *testing.T) {
	svc := NewWelfareService(patterns.NewStaticStore(patterns.Default()), nil, nil, WelfareServiceConfig{})
	assert.Equal(t, 24*time.Hour, svc.cacheTTL)
	assert.Equal(t, 8, svc.batchConcurrency)
	assert.Equal(t, 100, svc.MaxBatchSize())
	assert.NotNil(t, svc.logger)
	assert.NotNil(t, svc.metrics)
}

func TestWelfareService_Analyze(t *testing.T) {
	ctx := context.Background()

	t.Run("returns error for nil record", func(t *testing.T) {
		_, err := newTestService(nil, nil, nil).Analyze(ctx, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})

	t.Run("analyzes laying hen product", func(t *testing.T) {
		metrics := &recordingMetrics{}
		svc := newTestService(nil, nil, metrics)

		analysis, err := svc.Analyze(ctx, cageEggsInFrance())
		require.NoError(t, err)
		assert.Equal(t, testCode, analysis.Code)
		assert.False(t, analysis.IsMixed)
		assert.Equal(t, patterns.Default().Version(), analysis.PatternVersion)
		assert.Equal(t, domain.SourceEngine, analysis.Source)
		assert.Nil(t, analysis.CachedAt)

		hen := analysis.Animal(domain.LayingHen)
		require.NotNil(t, hen)
		assert.True(t, hen.Supported)
		require.NotNil(t, hen.BreedingType)
		assert.Equal(t, domain.BreedingFurnishedCage, *hen.BreedingType)
		assert.Equal(t, BreedingStageExactTag, hen.BreedingStage)
		require.NotNil(t, hen.Quantity)
		assert.Equal(t, 12, *hen.Quantity.Count)
		assert.InDelta(t, 720, *hen.Quantity.TotalWeight, 0.001)

		assert.Equal(t, []string{OutcomeAnalyzed}, metrics.outcomes)
		assert.Equal(t, []string{BreedingStageExactTag}, metrics.stages)
	})

	t.Run("ambiguous breeding has no single type", func(t *testing.T) {
		p := &domain.ProductRecord{
			CategoriesTags: []string{"en:eggs", "en:chicken-eggs"},
			ProductName:    "Barn or free range eggs",
		}
		analysis, err := newTestService(nil, nil, nil).Analyze(ctx, p)
		require.NoError(t, err)
		hen := analysis.Animal(domain.LayingHen)
		assert.Len(t, hen.BreedingTypes, 2)
		assert.Nil(t, hen.BreedingType)
	})

	t.Run("unsupported animal is identified only", func(t *testing.T) {
		p := &domain.ProductRecord{CategoriesTags: []string{"en:chickens"}, ProductName: "Poulet fermier"}
		analysis, err := newTestService(nil, nil, nil).Analyze(ctx, p)
		require.NoError(t, err)
		broiler := analysis.Animal(domain.BroilerChicken)
		require.NotNil(t, broiler)
		assert.False(t, broiler.Supported)
		assert.Empty(t, broiler.BreedingTypes)
		assert.Nil(t, broiler.BreedingType)
		assert.Nil(t, broiler.Quantity)
	})

	t.Run("not applicable product", func(t *testing.T) {
		metrics := &recordingMetrics{}
		_, err := newTestService(nil, nil, metrics).Analyze(ctx, &domain.ProductRecord{CategoriesTags: []string{"en:beverages"}})
		assert.ErrorIs(t, err, domain.ErrAnimalTypeNotFound)
		assert.Equal(t, []string{OutcomeNotApplicable}, metrics.outcomes)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := newTestService(nil, nil, nil).Analyze(cancelled, cageEggsInFrance())
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("repeated analysis is identical", func(t *testing.T) {
		svc := newTestService(nil, nil, nil)
		first, err := svc.Analyze(ctx, cageEggsInFrance())
		require.NoError(t, err)
		second, err := svc.Analyze(ctx, cageEggsInFrance())
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestWelfareService_AnalyzeBatch(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(nil, nil, &recordingMetrics{})

	t.Run("keeps input order", func(t *testing.T) {
		records := []*domain.ProductRecord{
			cageEggsInFrance(),
			{CategoriesTags: []string{"en:beverages"}},
			nil,
			{CategoriesTags: []string{"en:chicken-eggs"}, ProductName: "Free range fresh eggs", Quantity: "6"},
		}

		results, err := svc.AnalyzeBatch(ctx, records)
		require.NoError(t, err)
		require.Len(t, results, 4)
		for i, r := range results {
			assert.Equal(t, i, r.Index)
		}

		require.NotNil(t, results[0].Analysis)
		assert.Equal(t, testCode, results[0].Analysis.Code)

		assert.True(t, results[1].NotApplicable)
		assert.Nil(t, results[1].Analysis)
		assert.NotEmpty(t, results[1].Error)

		assert.False(t, results[2].NotApplicable)
		assert.Equal(t, domain.ErrInvalidRequest.Error(), results[2].Error)

		require.NotNil(t, results[3].Analysis)
		hen := results[3].Analysis.Animal(domain.LayingHen)
		require.NotNil(t, hen.BreedingType)
		assert.Equal(t, domain.BreedingFreeRange, *hen.BreedingType)
	})

	t.Run("rejects empty batch", func(t *testing.T) {
		_, err := svc.AnalyzeBatch(ctx, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})

	t.Run("rejects oversized batch", func(t *testing.T) {
		records := make([]*domain.ProductRecord, 6)
		_, err := svc.AnalyzeBatch(ctx, records)
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})

	t.Run("cancelled context fails the batch", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := svc.AnalyzeBatch(cancelled, []*domain.ProductRecord{cageEggsInFrance()})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestWelfareService_AnalyzeByCode(t *testing.T) {
	ctx := context.Background()
	wantKey := "welfare:" + patterns.Default().Version() + ":" + testCode

	newProvider := func() *MockProductProvider {
		return &MockProductProvider{products: map[string]*domain.ProductRecord{testCode: cageEggsInFrance()}}
	}

	t.Run("returns error for invalid code", func(t *testing.T) {
		for _, code := range []string{"", "abc", "12", "301762042200x"} {
			_, err := newTestService(nil, newProvider(), nil).AnalyzeByCode(ctx, code)
			assert.ErrorIs(t, err, domain.ErrInvalidRequest, "code %q", code)
		}
	})

	t.Run("returns error without provider", func(t *testing.T) {
		_, err := newTestService(nil, nil, nil).AnalyzeByCode(ctx, testCode)
		assert.ErrorIs(t, err, domain.ErrProviderFailure)
	})

	t.Run("fetches then serves from cache", func(t *testing.T) {
		cache := NewMockCacheRepository()
		provider := newProvider()
		metrics := &recordingMetrics{}
		svc := newTestService(cache, provider, metrics)

		first, err := svc.AnalyzeByCode(ctx, " "+testCode+" ")
		require.NoError(t, err)
		assert.Equal(t, domain.SourceEngine, first.Source)
		assert.True(t, cache.setCalled)
		assert.Equal(t, time.Hour, cache.lastTTL)
		assert.Contains(t, cache.data, wantKey)

		second, err := svc.AnalyzeByCode(ctx, testCode)
		require.NoError(t, err)
		assert.Equal(t, domain.SourceCache, second.Source)
		assert.NotNil(t, second.CachedAt)
		assert.Equal(t, first.Animals, second.Animals)
		assert.Equal(t, 1, provider.calls)
		assert.Equal(t, 1, metrics.cacheHits)
	})

	t.Run("cache failures do not fail the call", func(t *testing.T) {
		cache := NewMockCacheRepository()
		cache.getError = domain.ErrCacheUnavailable
		cache.setError = domain.ErrCacheUnavailable

		analysis, err := newTestService(cache, newProvider(), nil).AnalyzeByCode(ctx, testCode)
		require.NoError(t, err)
		assert.Equal(t, domain.SourceEngine, analysis.Source)
		assert.True(t, cache.getCalled)
	})

	t.Run("undecodable cache entry is refetched", func(t *testing.T) {
		cache := NewMockCacheRepository()
		cache.data[wantKey] = []byte("{not json")
		provider := newProvider()

		analysis, err := newTestService(cache, provider, nil).AnalyzeByCode(ctx, testCode)
		require.NoError(t, err)
		assert.Equal(t, domain.SourceEngine, analysis.Source)
		assert.Equal(t, 1, provider.calls)
	})

	t.Run("propagates provider errors", func(t *testing.T) {
		_, err := newTestService(nil, newProvider(), nil).AnalyzeByCode(ctx, "0000000000000")
		assert.ErrorIs(t, err, domain.ErrProductNotFound)

		failing := &MockProductProvider{err: errors.Join(domain.ErrProviderFailure, errors.New("timeout"))}
		_, err = newTestService(nil, failing, nil).AnalyzeByCode(ctx, testCode)
		assert.ErrorIs(t, err, domain.ErrProviderFailure)
	})

	t.Run("fills missing code from the request", func(t *testing.T) {
		provider := &MockProductProvider{products: map[string]*domain.ProductRecord{
			testCode: {CategoriesTags: []string{"en:chicken-eggs", "en:eggs"}},
		}}
		analysis, err := newTestService(nil, provider, nil).AnalyzeByCode(ctx, testCode)
		require.NoError(t, err)
		assert.Equal(t, testCode, analysis.Code)
	})
}

func TestCacheKeyFollowsPatternVersion(t *testing.T) {
	a, err := patterns.Load([]byte("animals: {}\n"))
	require.NoError(t, err)
	b, err := patterns.Load([]byte("animals: {}\n# v2\n"))
	require.NoError(t, err)
	assert.NotEqual(t, cacheKey(a.Version(), testCode), cacheKey(b.Version(), testCode))
	assert.Equal(t, "welfare:"+a.Version()+":"+testCode, cacheKey(a.Version(), testCode))
}
