package mode

// Strategy records how the record filter produced its candidates.
type Strategy string

// Strategy constants.
const (
	// KeywordStructured restricts by keywords, then applies structured predicates.
	KeywordStructured Strategy = "keyword+structured"
	// Structured applies structured predicates over the full collection.
	Structured Strategy = "structured"
	// Keyword restricts by keywords only (no structured predicates).
	Keyword Strategy = "keyword"
	// All returns the full collection ranked by score.
	All Strategy = "all"
)

// IsValid checks if the strategy is one of the supported values.
func (s Strategy) IsValid() bool {
	return s == KeywordStructured || s == Structured || s == Keyword || s == All
}

// UsesKeywords reports whether the keyword restriction survived.
func (s Strategy) UsesKeywords() bool {
	return s == KeywordStructured || s == Keyword
}
