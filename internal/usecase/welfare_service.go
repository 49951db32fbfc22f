package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/welfarelens/backend/internal/domain"
	"github.com/welfarelens/backend/internal/infrastructure/patterns"
)

// barcodePattern accepts EAN/UPC style product codes.
var barcodePattern = regexp.MustCompile(`^\d{4,24}$`)

// Analysis outcomes reported to the metrics recorder.
const (
	OutcomeAnalyzed      = "analyzed"
	OutcomeNotApplicable = "not_applicable"
	OutcomeError         = "error"
)

// PatternSource supplies the pattern repository in effect.
type PatternSource interface {
	Current() *patterns.Repository
}

// Recorder receives analysis metrics.
type Recorder interface {
	ObserveAnalysis(outcome string, duration time.Duration)
	ObserveBreeding(animal domain.AnimalType, stage string, candidates int)
	ObserveQuantity(stage string, complete bool)
	ObserveCache(hit bool)
}

type nopRecorder struct{}

func (nopRecorder) ObserveAnalysis(string, time.Duration) {}
func (nopRecorder) ObserveBreeding(domain.AnimalType, string, int) {}
func (nopRecorder) ObserveQuantity(string, bool) {}
func (nopRecorder) ObserveCache(bool) {}

// WelfareServiceConfig holds configuration for the welfare service
type WelfareServiceConfig struct {
	CacheTTL           time.Duration
	BatchConcurrency   int
	MaxBatchSize       int
	EnableDebugLogging bool
	Logger             *zap.Logger
	Metrics            Recorder
}

// WelfareService runs the classification pipeline on product records
type WelfareService struct {
	source   PatternSource
	cache    domain.CacheRepository
	provider domain.ProductProvider
	logger   *zap.Logger
	metrics  Recorder

	cacheTTL           time.Duration
	batchConcurrency   int
	maxBatchSize       int
	enableDebugLogging bool
}

// NewWelfareService creates a welfare service. cache and provider may be nil:
// without a cache nothing is cached, without a provider AnalyzeByCode fails.
func NewWelfareService(
	source PatternSource,
	cache domain.CacheRepository,
	provider domain.ProductProvider,
	config WelfareServiceConfig,
) *WelfareService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}
	concurrency := config.BatchConcurrency
	if concurrency < 1 {
		concurrency = 8
	}
	maxBatch := config.MaxBatchSize
	if maxBatch < 1 {
		maxBatch = 100
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	var metrics Recorder = nopRecorder{}
	if config.Metrics != nil {
		metrics = config.Metrics
	}

	return &WelfareService{
		source:             source,
		cache:              cache,
		provider:           provider,
		logger:             logger,
		metrics:            metrics,
		cacheTTL:           cacheTTL,
		batchConcurrency:   concurrency,
		maxBatchSize:       maxBatch,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// MaxBatchSize returns the largest batch AnalyzeBatch accepts.
func (s *WelfareService) MaxBatchSize() int {
	return s.maxBatchSize
}

// Analyze classifies one product record. It returns domain.ErrAnimalTypeNotFound
// when the product contains no known animal type.
func (s *WelfareService) Analyze(ctx context.Context, record *domain.ProductRecord) (*domain.WelfareAnalysis, error) {
	if record == nil {
		return nil, domain.ErrInvalidRequest
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.analyze(s.source.Current(), record)
}

func (s *WelfareService) analyze(repo *patterns.Repository, record *domain.ProductRecord) (*domain.WelfareAnalysis, error) {
	start := time.Now()

	productType, err := ClassifyProductType(repo, record)
	if err != nil {
		outcome := OutcomeError
		if errors.Is(err, domain.ErrAnimalTypeNotFound) {
			outcome = OutcomeNotApplicable
		}
		s.metrics.ObserveAnalysis(outcome, time.Since(start))
		return nil, err
	}

	analysis := &domain.WelfareAnalysis{
		Code:           record.Code,
		IsMixed:        productType.IsMixed,
		Animals:        make([]domain.AnimalAnalysis, 0, len(productType.AnimalTypes)),
		PatternVersion: repo.Version(),
		Source:         domain.SourceEngine,
	}
	for _, animal := range productType.AnimalTypes {
		analysis.Animals = append(analysis.Animals, s.analyzeAnimal(repo, record, animal))
	}

	s.metrics.ObserveAnalysis(OutcomeAnalyzed, time.Since(start))
	return analysis, nil
}

func (s *WelfareService) analyzeAnimal(repo *patterns.Repository, record *domain.ProductRecord, animal domain.AnimalType) domain.AnimalAnalysis {
	result := domain.AnimalAnalysis{
		AnimalType:    animal,
		Supported:     animal.Supported(),
		BreedingTypes: []domain.BreedingType{},
	}
	if !animal.Supported() {
		return result
	}

	types, stage := classifyBreeding(repo, record, animal)
	result.BreedingTypes = types
	result.BreedingStage = stage
	if len(types) == 1 {
		t := types[0]
		result.BreedingType = &t
	}
	s.metrics.ObserveBreeding(animal, stage, len(types))

	quantity, quantityStage := extractEggQuantity(repo, record)
	result.Quantity = &quantity
	s.metrics.ObserveQuantity(quantityStage, quantity.Complete)

	result.SuggestedBreedingTypes = HintBreeding(repo, record, animal)

	if s.enableDebugLogging {
		s.logger.Debug("animal analyzed",
			zap.String("code", record.Code),
			zap.String("animal_type", string(animal)),
			zap.String("breeding_stage", stage),
			zap.Any("breeding_types", types),
			zap.String("quantity_stage", quantityStage),
			zap.Bool("quantity_complete", quantity.Complete),
			zap.Any("suggested_breeding_types", result.SuggestedBreedingTypes),
		)
	}
	return result
}

// AnalyzeBatch classifies records concurrently. Results keep input order and
// carry either an analysis or an error; only cancellation fails the batch.
func (s *WelfareService) AnalyzeBatch(ctx context.Context, records []*domain.ProductRecord) ([]domain.BatchResult, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty batch", domain.ErrInvalidRequest)
	}
	if len(records) > s.maxBatchSize {
		return nil, fmt.Errorf("%w: batch of %d exceeds limit %d", domain.ErrInvalidRequest, len(records), s.maxBatchSize)
	}

	// One snapshot for the whole batch, so a reload mid-batch does not mix
	// pattern versions.
	repo := s.source.Current()
	results := make([]domain.BatchResult, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchConcurrency)
	for i, record := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result := domain.BatchResult{Index: i}
			if record == nil {
				result.Error = domain.ErrInvalidRequest.Error()
				results[i] = result
				return nil
			}
			analysis, err := s.analyze(repo, record)
			switch {
			case err == nil:
				result.Analysis = analysis
			case errors.Is(err, domain.ErrAnimalTypeNotFound):
				result.NotApplicable = true
				result.Error = err.Error()
			default:
				result.Error = err.Error()
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// AnalyzeByCode fetches a product from the provider and classifies it.
// Flow: check cache -> fetch product -> analyze -> cache -> return
func (s *WelfareService) AnalyzeByCode(ctx context.Context, code string) (*domain.WelfareAnalysis, error) {
	code = strings.TrimSpace(code)
	if !barcodePattern.MatchString(code) {
		return nil, fmt.Errorf("%w: invalid product code %q", domain.ErrInvalidRequest, code)
	}
	if s.provider == nil {
		return nil, fmt.Errorf("%w: no product provider configured", domain.ErrProviderFailure)
	}

	repo := s.source.Current()
	key := cacheKey(repo.Version(), code)

	if cached, ok := s.getFromCache(ctx, key); ok {
		cached.Source = domain.SourceCache
		return cached, nil
	}

	record, err := s.provider.GetProduct(ctx, code)
	if err != nil {
		return nil, err
	}
	if record.Code == "" {
		record.Code = code
	}

	analysis, err := s.analyze(repo, record)
	if err != nil {
		return nil, err
	}
	s.setInCache(ctx, key, analysis)
	return analysis, nil
}

// cacheKey scopes cached analyses to the pattern version that produced them.
// Format: "welfare:{pattern_version}:{code}"
func cacheKey(version, code string) string {
	return fmt.Sprintf("welfare:%s:%s", version, code)
}

// getFromCache returns a cached analysis. Cache errors count as misses.
func (s *WelfareService) getFromCache(ctx context.Context, key string) (*domain.WelfareAnalysis, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		s.metrics.ObserveCache(false)
		return nil, false
	}

	var analysis domain.WelfareAnalysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		s.logger.Warn("discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		s.metrics.ObserveCache(false)
		return nil, false
	}
	s.metrics.ObserveCache(true)
	return &analysis, true
}

// setInCache stores an analysis. Failures are logged and never fail the call.
func (s *WelfareService) setInCache(ctx context.Context, key string, analysis *domain.WelfareAnalysis) {
	if s.cache == nil {
		return
	}
	entry := *analysis
	cachedAt := time.Now().UTC()
	entry.CachedAt = &cachedAt

	data, err := json.Marshal(&entry)
	if err != nil {
		s.logger.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
