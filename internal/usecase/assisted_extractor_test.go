package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mcdlocator/backend/internal/domain"
	"github.com/mcdlocator/backend/internal/infrastructure/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAssistedExtractor(gen domain.TextGenerator, cache domain.CacheRepository) *AssistedExtractor {
	return NewAssistedExtractor(gen, cache, AssistedExtractorConfig{Timeout: 100 * time.Millisecond}, logging.Nop())
}

func TestNewAssistedExtractor_Defaults(t *testing.T) {
	e := NewAssistedExtractor(nil, nil, AssistedExtractorConfig{}, logging.Nop())

	assert.Equal(t, 10*time.Second, e.timeout)
	assert.Equal(t, 24*time.Hour, e.cacheTTL)
	assert.NotNil(t, e.fallback)
}

func TestAssistedExtractor_UsesGeneratedFeatures(t *testing.T) {
	gen := &MockTextGenerator{response: "```json\n[\"WiFi\", \"Drive-Thru\"]\n```"}
	e := newTestAssistedExtractor(gen, nil)

	result := e.Extract(context.Background(), "somewhere to browse online while I grab food from my car")

	assert.Equal(t, domain.SourceLLM, result.Source)
	assert.Equal(t, []domain.FeatureLabel{domain.FeatureWiFi, domain.FeatureDriveThru}, result.Features)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "somewhere to browse online")
	for _, label := range domain.Vocabulary() {
		assert.Contains(t, gen.prompts[0], string(label))
	}
}

func TestAssistedExtractor_FallsBackToKeywords(t *testing.T) {
	query := "Does this outlet have wifi and is open 24 hours?"
	baseline := ExtractKeywordFeatures(query)

	tests := []struct {
		name string
		gen  *MockTextGenerator
	}{
		{"generator error", &MockTextGenerator{err: errors.New("boom")}},
		{"unconfigured generator", &MockTextGenerator{err: domain.ErrGeneratorUnconfigured}},
		{"no array in response", &MockTextGenerator{response: "I think WiFi and 24 Hours"}},
		{"empty response", &MockTextGenerator{response: ""}},
		{"malformed array", &MockTextGenerator{response: "[WiFi, 24 Hours]"}},
		{"only unknown labels", &MockTextGenerator{response: `["wifi", "Free Parking", 42]`}},
		{"empty array", &MockTextGenerator{response: "[]"}},
		{"generator panics", &MockTextGenerator{panicMsg: "nil map"}},
		{"generator ignores timeout", &MockTextGenerator{response: `["WiFi"]`, delay: 500 * time.Millisecond}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestAssistedExtractor(tt.gen, nil)

			start := time.Now()
			result := e.Extract(context.Background(), query)

			assert.Equal(t, domain.SourceKeyword, result.Source)
			assert.Equal(t, baseline, result.Features)
			assert.Less(t, time.Since(start), 400*time.Millisecond)
		})
	}
}

func TestAssistedExtractor_NilGenerator(t *testing.T) {
	e := newTestAssistedExtractor(nil, nil)

	result := e.Extract(context.Background(), "drive thru")

	assert.Equal(t, domain.SourceKeyword, result.Source)
	assert.Equal(t, []domain.FeatureLabel{domain.FeatureDriveThru}, result.Features)
}

func TestAssistedExtractor_NoRetryOnFailure(t *testing.T) {
	gen := &MockTextGenerator{err: errors.New("unavailable")}
	e := newTestAssistedExtractor(gen, nil)

	e.Extract(context.Background(), "wifi")

	assert.Equal(t, 1, gen.Calls())
}

func TestAssistedExtractor_CallerCancellation(t *testing.T) {
	gen := &MockTextGenerator{response: `["WiFi"]`, delay: 300 * time.Millisecond}
	e := NewAssistedExtractor(gen, nil, AssistedExtractorConfig{Timeout: time.Minute}, logging.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	result := e.Extract(ctx, "wifi")

	assert.Equal(t, domain.SourceKeyword, result.Source)
	assert.Equal(t, []domain.FeatureLabel{domain.FeatureWiFi}, result.Features)
}

func TestAssistedExtractor_Cache(t *testing.T) {
	ctx := context.Background()

	t.Run("stores successful result and serves it on repeat", func(t *testing.T) {
		cache := NewMockCacheRepository()
		gen := &MockTextGenerator{response: `["McCafe"]`}
		e := newTestAssistedExtractor(gen, cache)

		first := e.Extract(ctx, "Somewhere for a latte?")
		second := e.Extract(ctx, "somewhere for a LATTE")

		assert.True(t, cache.setCalled)
		assert.Equal(t, 1, gen.Calls())
		assert.Equal(t, first, second)
		assert.Equal(t, domain.SourceLLM, second.Source)
		assert.Contains(t, cache.data, "extract:somewhere for a latte")
	})

	t.Run("does not cache fallback results", func(t *testing.T) {
		cache := NewMockCacheRepository()
		gen := &MockTextGenerator{err: errors.New("boom")}
		e := newTestAssistedExtractor(gen, cache)

		e.Extract(ctx, "wifi")

		assert.False(t, cache.setCalled)
	})

	t.Run("ignores cache failures", func(t *testing.T) {
		cache := NewMockCacheRepository()
		cache.getError = errors.New("redis down")
		cache.setError = errors.New("redis down")
		gen := &MockTextGenerator{response: `["Breakfast"]`}
		e := newTestAssistedExtractor(gen, cache)

		result := e.Extract(ctx, "morning meal")

		assert.Equal(t, domain.SourceLLM, result.Source)
		assert.Equal(t, []domain.FeatureLabel{domain.FeatureBreakfast}, result.Features)
	})

	t.Run("rejects corrupted cache entries", func(t *testing.T) {
		cache := NewMockCacheRepository()
		cache.data["extract:wifi"] = []byte(`["Not A Feature"]`)
		gen := &MockTextGenerator{response: `["WiFi"]`}
		e := newTestAssistedExtractor(gen, cache)

		result := e.Extract(ctx, "wifi")

		assert.Equal(t, 1, gen.Calls())
		assert.Equal(t, []domain.FeatureLabel{domain.FeatureWiFi}, result.Features)
		assert.Equal(t, []string{"extract:wifi"}, cache.deleted)
		assert.JSONEq(t, `["WiFi"]`, string(cache.data["extract:wifi"]))
	})

	t.Run("evicts undecodable cache entries", func(t *testing.T) {
		cache := NewMockCacheRepository()
		cache.data["extract:drive thru"] = []byte(`{not json`)
		gen := &MockTextGenerator{err: errors.New("quota exceeded")}
		e := newTestAssistedExtractor(gen, cache)

		result := e.Extract(ctx, "drive thru")

		assert.Equal(t, domain.SourceKeyword, result.Source)
		assert.Equal(t, []string{"extract:drive thru"}, cache.deleted)
		assert.NotContains(t, cache.data, "extract:drive thru")
	})
}

func TestParseGeneratedFeatures(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    []domain.FeatureLabel
		wantErr bool
	}{
		{
			name: "plain array",
			text: `["Breakfast"]`,
			want: []domain.FeatureLabel{domain.FeatureBreakfast},
		},
		{
			name: "array embedded in prose and spanning lines",
			text: "Sure! Here you go:\n[\n  \"McDelivery\",\n  \"24 Hours\"\n]\nEnjoy.",
			want: []domain.FeatureLabel{domain.FeatureMcDelivery, domain.Feature24Hours},
		},
		{
			name: "uses the first array only",
			text: `["WiFi"] and also ["Breakfast"]`,
			want: []domain.FeatureLabel{domain.FeatureWiFi},
		},
		{
			name: "drops unknown, wrong-case and non-string entries",
			text: `["WiFi", "wifi", "Playground", null, 3, {"x":1}, "WiFi"]`,
			want: []domain.FeatureLabel{domain.FeatureWiFi},
		},
		{name: "no array", text: "none of them", wantErr: true},
		{name: "invalid json", text: `['WiFi']`, wantErr: true},
		{name: "nothing recognized", text: `["Parking"]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGeneratedFeatures(tt.text)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			for _, f := range got {
				assert.True(t, domain.IsKnownFeature(f))
			}
		})
	}
}
