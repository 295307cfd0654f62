package usecase

import (
	"github.com/mcdlocator/backend/internal/domain"
)

// FeatureMatcher filters outlets by feature intersection
type FeatureMatcher struct{}

// NewFeatureMatcher creates a feature matcher
func NewFeatureMatcher() *FeatureMatcher {
	return &FeatureMatcher{}
}

// Match returns, in input order, every outlet sharing at least one feature
// with target. An empty target matches nothing.
func (m *FeatureMatcher) Match(outlets []domain.Outlet, target []domain.FeatureLabel) []domain.Outlet {
	matched := make([]domain.Outlet, 0)
	if len(target) == 0 {
		return matched
	}

	set := make(map[domain.FeatureLabel]struct{}, len(target))
	for _, f := range target {
		set[f] = struct{}{}
	}

	for i := range outlets {
		if outlets[i].HasAnyFeature(set) {
			matched = append(matched, outlets[i])
		}
	}

	return matched
}
