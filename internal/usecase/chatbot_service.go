package usecase

import (
	"context"
	"fmt"

	"github.com/mcdlocator/backend/internal/domain"
	"github.com/rs/zerolog"
)

// ChatbotService answers free-text questions with the outlets that offer
// the features the question asks about.
type ChatbotService struct {
	outlets   domain.OutletRepository
	extractor FeatureExtractor
	matcher   *FeatureMatcher
	logger    zerolog.Logger
}

// NewChatbotService creates a chatbot service. A nil extractor selects keyword extraction.
func NewChatbotService(
	outlets domain.OutletRepository,
	extractor FeatureExtractor,
	logger zerolog.Logger,
) *ChatbotService {
	if extractor == nil {
		extractor = NewKeywordExtractor()
	}

	return &ChatbotService{
		outlets:   outlets,
		extractor: extractor,
		matcher:   NewFeatureMatcher(),
		logger:    logger.With().Str("component", "chatbot").Logger(),
	}
}

// Search answers query against every outlet in the store.
// A store failure or panic produces a degraded response rather than an error.
func (s *ChatbotService) Search(ctx context.Context, query string) (resp *domain.MatchResponse, err error) {
	if isBlankQuery(query) {
		return nil, domain.ErrEmptyQuery
	}

	defer s.recoverDegraded(query, &resp, &err)

	outlets, err := s.outlets.ListAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load outlets")
		return degradedResponse(fmt.Errorf("loading outlets: %w", err)), nil
	}

	return s.Answer(ctx, query, outlets)
}

// Answer extracts features from query and matches them against outlets.
// Flow: validate -> extract -> match -> assemble
func (s *ChatbotService) Answer(
	ctx context.Context,
	query string,
	outlets []domain.Outlet,
) (resp *domain.MatchResponse, err error) {
	if isBlankQuery(query) {
		return nil, domain.ErrEmptyQuery
	}

	defer s.recoverDegraded(query, &resp, &err)

	s.logger.Info().Str("query", query).Msg("chatbot query")

	extraction := s.extractor.Extract(ctx, query)
	if len(extraction.Features) == 0 {
		s.logger.Info().Str("source", extraction.Source).Msg("no features matched")
		return domain.EmptyMatchResponse(extraction.Source), nil
	}

	matched := s.matcher.Match(outlets, extraction.Features)

	s.logger.Info().
		Strs("features", domain.FeatureStrings(extraction.Features)).
		Str("source", extraction.Source).
		Int("outlets", len(matched)).
		Msg("chatbot answer")

	return &domain.MatchResponse{
		Outlets:         matched,
		MatchedFeatures: domain.FeatureStrings(extraction.Features),
		Source:          extraction.Source,
	}, nil
}

// recoverDegraded turns a panic into a degraded response. It must be deferred directly.
func (s *ChatbotService) recoverDegraded(query string, resp **domain.MatchResponse, err *error) {
	if r := recover(); r != nil {
		s.logger.Error().Interface("panic", r).Str("query", query).Msg("chatbot query failed")
		*resp, *err = degradedResponse(fmt.Errorf("internal error: %v", r)), nil
	}
}

// degradedResponse is the well-formed empty answer returned on internal failure
func degradedResponse(cause error) *domain.MatchResponse {
	resp := domain.EmptyMatchResponse(domain.SourceError)
	resp.Error = cause.Error()
	return resp
}
