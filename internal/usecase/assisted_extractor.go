package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mcdlocator/backend/internal/domain"
	"github.com/rs/zerolog"
)

// firstArrayRegex finds the first bracket-delimited array in generated text
var firstArrayRegex = regexp.MustCompile(`(?s)\[.*?\]`)

var (
	errNoArray    = errors.New("no JSON array in generated text")
	errNotList    = errors.New("generated array is not a JSON list")
	errNoFeatures = errors.New("generated array has no known features")
)

// AssistedExtractorConfig holds configuration for the assisted extractor
type AssistedExtractorConfig struct {
	Timeout  time.Duration
	CacheTTL time.Duration
}

// AssistedExtractor asks a text generation service which features a query is
// about, and falls back to keyword extraction on any failure.
type AssistedExtractor struct {
	generator domain.TextGenerator
	fallback  *KeywordExtractor
	cache     domain.CacheRepository
	timeout   time.Duration
	cacheTTL  time.Duration
	logger    zerolog.Logger
}

// NewAssistedExtractor creates an assisted extractor. generator and cache may be nil.
func NewAssistedExtractor(
	generator domain.TextGenerator,
	cache domain.CacheRepository,
	config AssistedExtractorConfig,
	logger zerolog.Logger,
) *AssistedExtractor {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	cacheTTL := config.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 24 * time.Hour
	}

	return &AssistedExtractor{
		generator: generator,
		fallback:  NewKeywordExtractor(),
		cache:     cache,
		timeout:   timeout,
		cacheTTL:  cacheTTL,
		logger:    logger.With().Str("component", "assisted_extractor").Logger(),
	}
}

// Extract returns the generated feature list, or the keyword result when the
// generator is unavailable or its answer cannot be used.
func (e *AssistedExtractor) Extract(ctx context.Context, query string) domain.ExtractionResult {
	if e.generator == nil {
		return e.fallback.Extract(ctx, query)
	}

	cacheKey := extractionCacheKey(query)
	if cached, ok := e.getFromCache(ctx, cacheKey); ok {
		return domain.ExtractionResult{Features: cached, Source: domain.SourceLLM}
	}

	features, err := e.generate(ctx, query)
	if err != nil {
		e.logger.Warn().Err(err).Str("query", query).Msg("assisted extraction failed, using keyword fallback")
		return e.fallback.Extract(ctx, query)
	}

	e.setInCache(ctx, cacheKey, features)

	e.logger.Debug().Str("query", query).Strs("features", domain.FeatureStrings(features)).Msg("assisted extraction")
	return domain.ExtractionResult{Features: features, Source: domain.SourceLLM}
}

type generation struct {
	text string
	err  error
}

// generate runs the generator under the timeout. The call happens on its own
// goroutine so a generator that ignores ctx cannot hold the caller.
func (e *AssistedExtractor) generate(ctx context.Context, query string) ([]domain.FeatureLabel, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	done := make(chan generation, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- generation{err: fmt.Errorf("%w: panic: %v", domain.ErrGeneratorFailure, r)}
			}
		}()
		text, err := e.generator.Generate(ctx, BuildExtractionPrompt(query))
		done <- generation{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", domain.ErrGeneratorFailure, ctx.Err())
	case g := <-done:
		if g.err != nil {
			return nil, g.err
		}
		return ParseGeneratedFeatures(g.text)
	}
}

// BuildExtractionPrompt builds the instruction sent to the text generation service
func BuildExtractionPrompt(query string) string {
	labels := domain.FeatureStrings(domain.Vocabulary())

	var b strings.Builder
	b.WriteString("You are an assistant for a McDonald's outlet search. ")
	b.WriteString("Given a user query, extract which of the following features are being asked about (if any):\n")
	b.WriteString(strings.Join(labels, ", "))
	b.WriteString("\n\nUser query: '")
	b.WriteString(query)
	b.WriteString("'\n\n")
	b.WriteString("Return a JSON array of the relevant features from the list above that match the user's intent. ")
	b.WriteString("Only include features from the list. If none match, return an empty array.\n")
	return b.String()
}

// ParseGeneratedFeatures decodes the first JSON array in text and keeps only
// string entries that are vocabulary labels, in order and without duplicates.
func ParseGeneratedFeatures(text string) ([]domain.FeatureLabel, error) {
	raw := firstArrayRegex.FindString(text)
	if raw == "" {
		return nil, errNoArray
	}

	var items []interface{}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", errNotList, err)
	}

	seen := make(map[domain.FeatureLabel]bool, len(items))
	features := make([]domain.FeatureLabel, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		label := domain.FeatureLabel(s)
		if !domain.IsKnownFeature(label) || seen[label] {
			continue
		}
		seen[label] = true
		features = append(features, label)
	}

	if len(features) == 0 {
		return nil, errNoFeatures
	}
	return features, nil
}

// extractionCacheKey normalizes the query into a cache key.
// Format: "extract:{normalized_query}"
func extractionCacheKey(query string) string {
	return "extract:" + normalizeQuery(query)
}

func (e *AssistedExtractor) getFromCache(ctx context.Context, key string) ([]domain.FeatureLabel, bool) {
	if e.cache == nil {
		return nil, false
	}

	data, err := e.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			e.logger.Warn().Err(err).Str("key", key).Msg("cache get failed")
		}
		return nil, false
	}

	var labels []domain.FeatureLabel
	if err := json.Unmarshal(data, &labels); err != nil || len(labels) == 0 {
		e.evict(ctx, key)
		return nil, false
	}
	for _, l := range labels {
		if !domain.IsKnownFeature(l) {
			e.evict(ctx, key)
			return nil, false
		}
	}
	return labels, true
}

// evict drops an unusable cache entry so it is not read again
func (e *AssistedExtractor) evict(ctx context.Context, key string) {
	e.logger.Warn().Str("key", key).Msg("evicting corrupted cache entry")
	if err := e.cache.Delete(ctx, key); err != nil {
		e.logger.Warn().Err(err).Str("key", key).Msg("cache delete failed")
	}
}

func (e *AssistedExtractor) setInCache(ctx context.Context, key string, labels []domain.FeatureLabel) {
	if e.cache == nil {
		return
	}

	data, err := json.Marshal(labels)
	if err != nil {
		return
	}
	if err := e.cache.Set(ctx, key, data, e.cacheTTL); err != nil {
		e.logger.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}
