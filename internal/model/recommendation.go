package model

// RecommendationLabel is the discrete five-level trading signal.
type RecommendationLabel string

const (
	StrongBuy  RecommendationLabel = "Strong Buy"
	Buy        RecommendationLabel = "Buy"
	Hold       RecommendationLabel = "Hold"
	Sell       RecommendationLabel = "Sell"
	StrongSell RecommendationLabel = "Strong Sell"
)

// Factor represents a single scoring component's contribution.
type Factor struct {
	Name       string
	Score      float64
	Commentary string
}

// Recommendation is the final output of the scorer: a raw component sum, the
// label it maps to, and a target price offset from SMA20. The score is the
// unclamped sum of the components.
type Recommendation struct {
	Symbol      string
	Label       RecommendationLabel
	Score       float64
	TargetPrice float64
	Factors     []Factor
}
