package usecase

import (
	"context"
	"strings"

	"github.com/mcdlocator/backend/internal/domain"
)

// FeatureExtractor maps free text to a subset of the feature vocabulary.
// Implementations never fail; they degrade to a smaller result instead.
type FeatureExtractor interface {
	Extract(ctx context.Context, query string) domain.ExtractionResult
}

// featureTriggers lists, in vocabulary order, the substrings that select each label
var featureTriggers = []struct {
	label    domain.FeatureLabel
	triggers []string
}{
	{domain.Feature24Hours, []string{"24", "hour"}},
	{domain.FeatureBirthdayParty, []string{"birthday", "party"}},
	{domain.FeatureBreakfast, []string{"breakfast"}},
	{domain.FeatureCashlessFacility, []string{"cashless", "card", "payment"}},
	{domain.FeatureDessertCenter, []string{"dessert"}},
	{domain.FeatureDigitalOrderKiosk, []string{"kiosk", "digital"}},
	{domain.FeatureDriveThru, []string{"drive", "thru"}},
	{domain.FeatureMcCafe, []string{"cafe", "coffee"}},
	{domain.FeatureMcDelivery, []string{"delivery"}},
	{domain.FeatureWiFi, []string{"wifi", "internet"}},
}

// KeywordExtractor is the deterministic, rule-based feature extractor
type KeywordExtractor struct{}

// NewKeywordExtractor creates a keyword extractor
func NewKeywordExtractor() *KeywordExtractor {
	return &KeywordExtractor{}
}

// Extract returns the features triggered by substrings of the query
func (e *KeywordExtractor) Extract(_ context.Context, query string) domain.ExtractionResult {
	return domain.ExtractionResult{
		Features: ExtractKeywordFeatures(query),
		Source:   domain.SourceKeyword,
	}
}

// ExtractKeywordFeatures selects every label with at least one trigger substring
// in the lower-cased query. Output follows vocabulary order.
func ExtractKeywordFeatures(query string) []domain.FeatureLabel {
	q := strings.ToLower(query)
	matched := make([]domain.FeatureLabel, 0, len(featureTriggers))

	for _, ft := range featureTriggers {
		for _, trigger := range ft.triggers {
			if strings.Contains(q, trigger) {
				matched = append(matched, ft.label)
				break
			}
		}
	}

	return matched
}
