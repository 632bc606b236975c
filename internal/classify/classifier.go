// Package classify labels reviewer display names and derives canonical search
// strings and deduplication keys from them. Classification is deterministic
// and performs no I/O.
package classify

import (
	"regexp"
	"strings"

	"github.com/sells-group/enrich-cli/internal/model"
)

// otherPatterns are whole-string matches that mark a name as a non-entity.
var otherPatterns = map[string]struct{}{
	"consumer":             {},
	"customer":             {},
	"anonymous":            {},
	"business account":     {},
	"anon":                 {},
	"customer service":     {},
	"consumer.displayname": {},
}

// legalSuffixes are business legal-form tokens. Any one of them decides the
// label on its own.
var legalSuffixes = map[string]struct{}{
	"llc": {}, "inc": {}, "corp": {}, "corporation": {}, "co": {},
	"ltd": {}, "llp": {}, "pllc": {}, "pc": {}, "incorporated": {},
}

// businessKeywords are industry words that strongly indicate a business name.
var businessKeywords = map[string]struct{}{
	"auto": {}, "boutique": {}, "truck": {}, "trucking": {}, "transport": {},
	"logistics": {}, "express": {}, "freight": {}, "construction": {},
	"roofing": {}, "plumbing": {}, "electric": {}, "electrical": {},
	"hvac": {}, "pools": {}, "pool": {}, "janitorial": {}, "cleaning": {},
	"detail": {}, "detailing": {}, "cafe": {}, "restaurant": {},
	"eatery": {}, "grill": {}, "bar": {}, "boba": {}, "spa": {},
	"studio": {}, "studios": {}, "photography": {}, "media": {},
	"therapy": {}, "hypnosis": {}, "clinic": {}, "homecare": {}, "care": {},
	"services": {}, "service": {}, "funding": {}, "capital": {},
	"equity": {}, "lending": {}, "finance": {}, "financial": {},
	"insurance": {}, "realty": {}, "properties": {}, "cycles": {},
	"tractor": {}, "works": {}, "wholesale": {}, "distribution": {},
	"distributor": {}, "supply": {}, "supplies": {},
}

// multiWordKeywords are checked against the full normalized string.
var multiWordKeywords = []string{"real estate"}

// businessEndings classify names that end in a trade word even when no other
// signal fires.
var businessEndings = []string{"cafe", "grill", "spa", "trucking", "custom cycles", "tractor works"}

// organizationalTerms appear in institutional names that carry no legal suffix.
var organizationalTerms = []string{
	"academy", "operations lead", "equity", "contracting services",
	"senior ins services", "children academy",
}

var (
	structurePattern = regexp.MustCompile(`\b\w+\s*&\s*\w+`)
	nicknamePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^uncle\s+\w+`),
		regexp.MustCompile(`\bbig\s+\w+`),
		regexp.MustCompile(`\bjunior\s+\w+`),
		regexp.MustCompile(`\bspeedy\b`),
	}
	tokenPattern = regexp.MustCompile(`\b\w+\b`)
	nonWordRE    = regexp.MustCompile(`[^\w]`)
)

// personSuffixes are generational/professional suffixes ignored when counting
// human-name tokens.
var personSuffixes = map[string]struct{}{
	"jr": {}, "sr": {}, "ii": {}, "iii": {}, "iv": {}, "md": {}, "phd": {}, "esq": {},
}

// nicknameWords trigger the nickname heuristic for multi-word names.
var nicknameWords = map[string]struct{}{
	"big": {}, "little": {}, "junior": {}, "uncle": {}, "aunt": {},
}

// Classify labels a raw display name as business, person, or other.
// Rules are applied in priority order; the first decisive rule wins.
func Classify(displayName string) model.NameLabel {
	raw := strings.TrimSpace(displayName)
	if raw == "" {
		return model.LabelOther
	}

	normalized := strings.ToLower(raw)
	tokens := tokenPattern.FindAllString(normalized, -1)

	if hasLegalSuffix(tokens) {
		return model.LabelBusiness
	}
	if _, ok := otherPatterns[normalized]; ok {
		return model.LabelOther
	}
	if isLocationPattern(normalized, tokens) {
		return model.LabelOther
	}
	if hasBusinessKeyword(normalized, tokens) {
		return model.LabelBusiness
	}
	if matchesBusinessStructure(normalized) {
		return model.LabelBusiness
	}
	if hasOrganizationalTerm(normalized) {
		return model.LabelBusiness
	}
	rawTokens := tokenPattern.FindAllString(raw, -1)
	if isHumanNamePattern(rawTokens) {
		return model.LabelPerson
	}
	if isNicknamePattern(normalized) {
		return model.LabelPerson
	}
	// Bare acronyms and everything else unmatched land here.
	return model.LabelOther
}

// isLocationPattern catches "City, State" style names.
func isLocationPattern(normalized string, tokens []string) bool {
	return strings.Contains(normalized, ",") && len(tokens) == 2
}

func hasLegalSuffix(tokens []string) bool {
	for _, tok := range tokens {
		clean := nonWordRE.ReplaceAllString(strings.ToLower(tok), "")
		if _, ok := legalSuffixes[clean]; ok {
			return true
		}
	}
	return false
}

func hasBusinessKeyword(normalized string, tokens []string) bool {
	for _, tok := range tokens {
		if _, ok := businessKeywords[tok]; ok {
			return true
		}
	}
	for _, kw := range multiWordKeywords {
		if strings.Contains(normalized, kw) {
			return true
		}
	}
	return false
}

func matchesBusinessStructure(normalized string) bool {
	if structurePattern.MatchString(normalized) {
		return true
	}
	for _, ending := range businessEndings {
		if strings.HasSuffix(normalized, ending) {
			return true
		}
	}
	return false
}

func hasOrganizationalTerm(normalized string) bool {
	for _, term := range organizationalTerms {
		if strings.Contains(normalized, term) {
			return true
		}
	}
	return false
}

// isHumanNamePattern matches 1-3 name-like tokens, ignoring generational and
// professional suffixes. All-uppercase tokens are not name-like so that
// acronyms fall through to their own rule.
func isHumanNamePattern(tokens []string) bool {
	if len(tokens) < 1 || len(tokens) > 4 {
		return false
	}
	nameTokens := 0
	for _, tok := range tokens {
		if _, ok := personSuffixes[strings.ToLower(tok)]; ok {
			continue
		}
		if len(tok) >= 2 && tok == strings.ToUpper(tok) && tok != strings.ToLower(tok) {
			return false
		}
		if strings.ContainsAny(tok, "0123456789") {
			return false
		}
		nameTokens++
	}
	return nameTokens >= 1 && nameTokens <= 3
}

func isNicknamePattern(normalized string) bool {
	for _, re := range nicknamePatterns {
		if re.MatchString(normalized) {
			return true
		}
	}
	if strings.Count(normalized, " ") >= 2 {
		for _, w := range strings.Fields(normalized) {
			if _, ok := nicknameWords[w]; ok {
				return true
			}
		}
	}
	return false
}

