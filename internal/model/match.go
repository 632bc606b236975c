package model

// Match rejection/acceptance reasons.
const (
	MatchReasonHardAccept   = "hard_accept"
	MatchReasonSoftAccept   = "soft_accept_anchor"
	MatchReasonStrongAnchor = "strong_anchor"
	MatchReasonBelowGate    = "below_threshold"
	MatchReasonNoCandidate  = "no_candidate"
)

// ComponentScores breaks a match score into its weighted sub-scores.
type ComponentScores struct {
	Name   float64 `json:"name"`
	Region float64 `json:"region"`
	Domain float64 `json:"domain"`
	Phone  float64 `json:"phone"`
}

// MatchResult is the outcome of scoring one candidate (or a candidate set)
// against a source row. Score, reason and component scores are preserved even
// on rejection so threshold tuning can see why a candidate lost.
type MatchResult struct {
	Accepted   bool            `json:"accepted"`
	Source     CandidateSource `json:"source,omitempty"`
	Score      float64         `json:"score"`
	Reason     string          `json:"reason"`
	Components ComponentScores `json:"component_scores"`
	Candidate  *Candidate      `json:"-"`
}
