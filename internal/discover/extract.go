package discover

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sells-group/enrich-cli/internal/model"
)

var (
	phoneRE = regexp.MustCompile(`\(?([2-9][0-9]{2})\)?[-.\s]?([0-9]{3})[-.\s]?([0-9]{4})\b`)
	emailRE = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	// Street number, name, then a suffix; trailing unit/city text up to a
	// line or sentence break rides along.
	addressRE = regexp.MustCompile(`(?i)\b\d{1,5}\s+[A-Za-z0-9'. ]{2,40}\b(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Drive|Dr|Lane|Ln|Court|Ct|Way|Pkwy|Parkway|Hwy|Highway|Plaza|Pl|Trail|Trl|Circle|Cir)\.?(?:\s*,?\s*(?:Suite|Ste|Unit|#)\s*[A-Za-z0-9\-]+)?`)
	stateRE   = regexp.MustCompile(`\b(AL|AK|AZ|AR|CA|CO|CT|DE|FL|GA|HI|ID|IL|IN|IA|KS|KY|LA|ME|MD|MA|MI|MN|MS|MO|MT|NE|NV|NH|NJ|NM|NY|NC|ND|OH|OK|OR|PA|RI|SC|SD|TN|TX|UT|VT|VA|WA|WV|WI|WY|DC)\b`)

	whitespaceRE = regexp.MustCompile(`\s+`)
)

// aggregatorDomains never count as the business's own site.
var aggregatorDomains = map[string]struct{}{
	"yelp.com":         {},
	"facebook.com":     {},
	"instagram.com":    {},
	"linkedin.com":     {},
	"twitter.com":      {},
	"x.com":            {},
	"bbb.org":          {},
	"yellowpages.com":  {},
	"mapquest.com":     {},
	"trustpilot.com":   {},
	"google.com":       {},
	"maps.google.com":  {},
	"foursquare.com":   {},
	"manta.com":        {},
	"bizapedia.com":    {},
	"chamberofcommerce.com": {},
}

// junkEmailPrefixes are extractor artifacts, not contact addresses.
var junkEmailPrefixes = []string{"noreply@", "no-reply@", "donotreply@", "example@", "user@", "email@", "name@"}

// pageText strips markup from HTML and returns collapsed visible text.
// Unparseable input degrades to the raw string so regex extraction can
// still run over it.
func pageText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return whitespaceRE.ReplaceAllString(html, " ")
	}
	doc.Find("script, style, noscript, svg").Remove()
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(doc.Text(), " "))
}

// ExtractPage pulls contact anchors from one fetched page. The waterfalls
// reuse it for website micro-scans.
func ExtractPage(pageURL, html string) model.PageEvidence {
	text := pageText(html)

	ev := model.PageEvidence{URL: pageURL}

	if m := phoneRE.FindStringSubmatch(text); m != nil {
		if digits, ok := model.NormalizePhone(m[0]); ok {
			ev.Phone = digits
		}
	}
	if m := addressRE.FindString(text); m != "" {
		ev.Address = strings.TrimSpace(m)
	}
	if m := stateRE.FindString(text); m != "" {
		ev.State = m
	}
	if email := firstContactEmail(text); email != "" {
		ev.Email = email
	}
	if d := model.NormalizeDomain(pageURL); d != "" && !IsAggregatorDomain(d) {
		ev.Domain = d
	}
	return ev
}

func firstContactEmail(text string) string {
	for _, m := range emailRE.FindAllString(text, -1) {
		lower := strings.ToLower(m)
		junk := false
		for _, p := range junkEmailPrefixes {
			if strings.HasPrefix(lower, p) {
				junk = true
				break
			}
		}
		// Image filenames sometimes match the pattern ("logo@2x.png").
		if strings.HasSuffix(lower, ".png") || strings.HasSuffix(lower, ".jpg") || strings.HasSuffix(lower, ".gif") {
			junk = true
		}
		if !junk {
			return lower
		}
	}
	return ""
}

// IsAggregatorDomain reports whether a domain belongs to a directory,
// social platform, or data broker rather than a business's own site.
func IsAggregatorDomain(domain string) bool {
	if _, ok := aggregatorDomains[domain]; ok {
		return true
	}
	// Subdomains of aggregators count too.
	for agg := range aggregatorDomains {
		if strings.HasSuffix(domain, "."+agg) {
			return true
		}
	}
	return false
}
