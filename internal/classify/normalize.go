package classify

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/enrich-cli/internal/model"
)

// searchSuffixes are trailing legal forms stripped from the search string.
// Longer forms are listed first so they win over their abbreviations.
var searchSuffixes = []string{
	"incorporated", "corporation", "company", "pllc", "llc", "llp",
	"inc", "corp", "ltd", "co", "pc",
}

// fillerWords are dropped when computing the dedup key.
var fillerWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "of": {}, "for": {},
}

var (
	// Trustpilot reviewer rows often carry a trailing support-desk label
	// ("Acme Plumbing - Customer Service") that is not part of the name.
	noiseSuffixRE = regexp.MustCompile(`(?i)\s*-?\s*(customer\s+service|cust\.?\s+svc\.?|support)\s*$`)

	searchPunctRE  = regexp.MustCompile(`[^\w\s&'-]`)
	dedupPunctRE   = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespaceRE   = regexp.MustCompile(`\s+`)
	trailingAmpRE  = regexp.MustCompile(`\s*&\s*$`)
	diacriticsFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Normalize derives the search name and dedup key for a raw display name and
// returns the fully classified record.
func Normalize(displayName string) model.ClassifiedName {
	return model.ClassifiedName{
		RawName:    displayName,
		Label:      Classify(displayName),
		SearchName: SearchName(displayName),
		DedupKey:   DedupKey(displayName),
	}
}

// SearchName cleans a display name for use in provider queries. Trailing
// support-desk noise, legal suffixes, and stray punctuation are removed but
// the name keeps its casing and connective characters, so "Smith & Sons
// Roofing LLC" becomes "Smith & Sons Roofing".
func SearchName(displayName string) string {
	s := strings.TrimSpace(displayName)
	s = noiseSuffixRE.ReplaceAllString(s, "")
	s = searchPunctRE.ReplaceAllString(s, " ")
	s = whitespaceRE.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	lower := strings.ToLower(s)
	for _, suffix := range searchSuffixes {
		if strings.HasSuffix(lower, " "+suffix) {
			s = strings.TrimSpace(s[:len(s)-len(suffix)])
			lower = strings.ToLower(s)
		}
	}
	s = trailingAmpRE.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// DedupKey computes the aggressive normalization used to collapse duplicate
// businesses: diacritics folded, lowercased, legal suffixes and filler words
// dropped, all punctuation removed, whitespace collapsed, then hashed. The
// collapse is deliberately lossy; distinct businesses with the same
// normalized name merge into one enrichment unit.
func DedupKey(displayName string) string {
	folded, _, err := transform.String(diacriticsFold, displayName)
	if err != nil {
		folded = displayName
	}
	s := strings.ToLower(strings.TrimSpace(folded))
	s = dedupPunctRE.ReplaceAllString(s, " ")

	var kept []string
	for _, tok := range strings.Fields(s) {
		if _, ok := fillerWords[tok]; ok {
			continue
		}
		if isLegalSuffixToken(tok) {
			continue
		}
		kept = append(kept, tok)
	}
	canonical := strings.Join(kept, " ")
	if canonical == "" {
		canonical = whitespaceRE.ReplaceAllString(s, " ")
		canonical = strings.TrimSpace(canonical)
	}

	h := fnv.New64a()
	h.Write([]byte(canonical))
	return fmt.Sprintf("%016x", h.Sum64())
}

func isLegalSuffixToken(tok string) bool {
	_, ok := legalSuffixes[tok]
	return ok
}
