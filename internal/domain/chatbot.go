package domain

// Extraction provenance tags
const (
	SourceLLM     = "llm"
	SourceKeyword = "keyword"
	SourceError   = "error"
)

// ExtractionResult is the set of vocabulary features read from a query
type ExtractionResult struct {
	Features []FeatureLabel `json:"features"`
	Source   string         `json:"source"`
}

// ChatbotRequest is the body of a chatbot query
type ChatbotRequest struct {
	Query string `json:"query"`
}

// MatchResponse is the chatbot answer envelope
type MatchResponse struct {
	Outlets         []Outlet `json:"outlets"`
	MatchedFeatures []string `json:"matched_features"`
	Source          string   `json:"source"`
	Error           string   `json:"error,omitempty"`
}

// EmptyMatchResponse returns a response with no outlets and no features
func EmptyMatchResponse(source string) *MatchResponse {
	return &MatchResponse{
		Outlets:         []Outlet{},
		MatchedFeatures: []string{},
		Source:          source,
	}
}
