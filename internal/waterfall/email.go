package waterfall

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/sells-group/enrich-cli/internal/discover"
	"github.com/sells-group/enrich-cli/internal/fetcher"
	"github.com/sells-group/enrich-cli/internal/model"
)

// EmailProvider is a domain-based email finder.
type EmailProvider interface {
	Name() string
	// Emails lists addresses for a business domain. No results is an
	// empty slice, not an error.
	Emails(ctx context.Context, domain string) ([]model.EmailHit, error)
}

// EmailWaterfall resolves business emails from finder providers plus a
// website micro-scan tier.
type EmailWaterfall struct {
	providers map[string]EmailProvider
	pages     fetcher.Fetcher
	order     []string
}

// NewEmailWaterfall creates the email cascade over the given providers,
// keyed by provider name. pages may be nil to disable the scrape tier.
func NewEmailWaterfall(providers []EmailProvider, pages fetcher.Fetcher, order []string) *EmailWaterfall {
	if len(order) == 0 {
		order = DefaultConfig().Email
	}
	byName := make(map[string]EmailProvider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &EmailWaterfall{providers: byName, pages: pages, order: order}
}

// Resolve runs the cascade for a domain. The primary slot only accepts
// person or generic addresses, preferring person, and directory-classified
// addresses land in the secondary list no matter which provider found them
// first.
func (w *EmailWaterfall) Resolve(ctx context.Context, domain string) (*model.EmailHit, []model.EmailHit) {
	if domain == "" {
		return nil, nil
	}

	sources := make([]Source[model.EmailHit], 0, len(w.order))
	for _, name := range w.order {
		if p, ok := w.providers[name]; ok {
			prov := p
			sources = append(sources, Source[model.EmailHit]{
				Name: prov.Name(),
				Fetch: func(ctx context.Context) ([]model.EmailHit, error) {
					hits, err := prov.Emails(ctx, domain)
					// Person addresses outrank generic ones from the same
					// provider, whatever order the API listed them in.
					sort.SliceStable(hits, func(i, j int) bool {
						return kindRank(hits[i].Kind) < kindRank(hits[j].Kind)
					})
					return hits, err
				},
			})
			continue
		}
		if name == "scrape" && w.pages != nil {
			sources = append(sources, w.scrapeSource(domain))
		}
	}

	res := First(ctx, sources, func(h model.EmailHit) bool {
		return h.Kind != model.EmailDirectory
	})

	var secondary []model.EmailHit
	for _, h := range dedupeEmails(res.All) {
		if res.Primary != nil && h.Address == res.Primary.Address {
			continue
		}
		secondary = append(secondary, h)
	}
	return res.Primary, secondary
}

func (w *EmailWaterfall) scrapeSource(domain string) Source[model.EmailHit] {
	return Source[model.EmailHit]{
		Name: "scrape",
		Fetch: func(ctx context.Context) ([]model.EmailHit, error) {
			url := "https://" + domain
			html, err := w.pages.Page(ctx, url)
			if err != nil {
				return nil, err
			}
			ev := discover.ExtractPage(url, html)
			if ev.Email == "" {
				return nil, nil
			}
			return []model.EmailHit{{
				Address:    ev.Email,
				Kind:       ClassifyEmail(ev.Email, domain),
				Source:     "scrape",
				Confidence: model.ConfidenceLow,
			}}, nil
		},
	}
}

// genericLocals are role addresses that count as generic contact points.
var genericLocals = map[string]struct{}{
	"info": {}, "sales": {}, "contact": {}, "office": {}, "hello": {},
	"support": {}, "admin": {}, "service": {}, "team": {}, "mail": {},
	"help": {}, "billing": {}, "careers": {}, "hr": {},
}

var personLocalRE = regexp.MustCompile(`^[a-z]+[._][a-z]+$`)

// ClassifyEmail labels an address person, generic, or directory. Addresses
// on aggregator domains are directory addresses regardless of shape.
func ClassifyEmail(address, businessDomain string) model.EmailKind {
	addr := strings.ToLower(strings.TrimSpace(address))
	at := strings.LastIndex(addr, "@")
	if at <= 0 || at == len(addr)-1 {
		return model.EmailGeneric
	}
	local, domain := addr[:at], addr[at+1:]

	if discover.IsAggregatorDomain(domain) {
		return model.EmailDirectory
	}
	if _, ok := genericLocals[local]; ok {
		return model.EmailGeneric
	}
	// first.last or first_last shapes read as a person, but only on the
	// business's own domain; elsewhere the shape proves nothing.
	if personLocalRE.MatchString(local) &&
		(businessDomain == "" || domain == strings.ToLower(businessDomain)) {
		return model.EmailPerson
	}
	return model.EmailGeneric
}

func kindRank(k model.EmailKind) int {
	switch k {
	case model.EmailPerson:
		return 0
	case model.EmailGeneric:
		return 1
	default:
		return 2
	}
}

func dedupeEmails(hits []model.EmailHit) []model.EmailHit {
	seen := make(map[string]struct{}, len(hits))
	out := hits[:0]
	for _, h := range hits {
		if _, ok := seen[h.Address]; ok {
			continue
		}
		seen[h.Address] = struct{}{}
		out = append(out, h)
	}
	return out
}
