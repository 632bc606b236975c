// Package match scores provider candidates against source rows and decides
// whether a candidate is the same business.
package match

import (
	"regexp"
	"strings"

	"github.com/sells-group/enrich-cli/internal/model"
)

// Sub-score weights. Name similarity dominates; region, domain, and phone
// act as corroborating signals.
const (
	weightName   = 0.6
	weightRegion = 0.2
	weightDomain = 0.1
	weightPhone  = 0.1

	hardAcceptThreshold = 0.80
	softAcceptThreshold = 0.75
)

// Knowns are the facts already established for a row at match time: the
// region hint from the source file on the first pass, plus any anchors
// discovery produced before a retry pass. Empty fields score zero.
type Knowns struct {
	State  string
	Domain string
	Phone  string // ten digits
}

// Matcher scores candidates for a classified row. Provider priority breaks
// score ties, earlier entries winning.
type Matcher struct {
	providerPriority []model.CandidateSource
}

// NewMatcher creates a matcher with the given provider priority order.
// An empty order falls back to places before directory.
func NewMatcher(priority []model.CandidateSource) *Matcher {
	if len(priority) == 0 {
		priority = []model.CandidateSource{model.SourcePlaces, model.SourceDirectory}
	}
	return &Matcher{providerPriority: priority}
}

// Score evaluates a single candidate. Rejections keep the computed score,
// reason, and component scores for diagnostics.
func (m *Matcher) Score(name model.ClassifiedName, known Knowns, cand model.Candidate) model.MatchResult {
	comp := model.ComponentScores{
		Name:   nameSimilarity(name.SearchName, cand.Name),
		Region: exactScore(known.State, cand.RegionCode),
		Domain: exactScore(known.Domain, cand.Domain),
		Phone:  exactScore(known.Phone, cand.Phone),
	}
	total := weightName*comp.Name + weightRegion*comp.Region +
		weightDomain*comp.Domain + weightPhone*comp.Phone

	res := model.MatchResult{
		Source:     cand.Source,
		Score:      total,
		Components: comp,
		Candidate:  &cand,
	}

	// A provider that returns a phone or website for this exact query is
	// rarely wrong even when the listing name differs, so a reported
	// anchor accepts outright.
	if cand.HasStrongAnchor() {
		res.Accepted = true
		res.Score = 1.0
		res.Reason = model.MatchReasonStrongAnchor
		return res
	}

	switch {
	case total >= hardAcceptThreshold:
		res.Accepted = true
		res.Reason = model.MatchReasonHardAccept
	case total >= softAcceptThreshold && (comp.Phone == 1.0 || comp.Domain == 1.0):
		res.Accepted = true
		res.Reason = model.MatchReasonSoftAccept
	default:
		res.Reason = model.MatchReasonBelowGate
	}
	return res
}

// Best evaluates all candidates and returns the result for the top-scoring
// one. With no candidates the result is a rejection with reason
// no_candidate. Ties go to the earlier provider in the priority order.
func (m *Matcher) Best(name model.ClassifiedName, known Knowns, cands []model.Candidate) model.MatchResult {
	if len(cands) == 0 {
		return model.MatchResult{Reason: model.MatchReasonNoCandidate}
	}

	best := m.Score(name, known, cands[0])
	for _, cand := range cands[1:] {
		res := m.Score(name, known, cand)
		if res.Score > best.Score {
			best = res
			continue
		}
		if res.Score == best.Score && m.priorityRank(res.Source) < m.priorityRank(best.Source) {
			best = res
		}
	}
	return best
}

func (m *Matcher) priorityRank(src model.CandidateSource) int {
	for i, s := range m.providerPriority {
		if s == src {
			return i
		}
	}
	return len(m.providerPriority)
}

var matchTokenRE = regexp.MustCompile(`[a-z0-9]+`)

// nameSimilarity is the token-set Jaccard index of the two names after
// lowercasing.
func nameSimilarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	inter := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	return float64(inter) / float64(union)
}

func tokenSet(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, tok := range matchTokenRE.FindAllString(strings.ToLower(s), -1) {
		out[tok] = struct{}{}
	}
	return out
}

func exactScore(known, candidate string) float64 {
	if known == "" || candidate == "" {
		return 0
	}
	if strings.EqualFold(known, candidate) {
		return 1
	}
	return 0
}
