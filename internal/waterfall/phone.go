package waterfall

import (
	"context"

	"github.com/sells-group/enrich-cli/internal/discover"
	"github.com/sells-group/enrich-cli/internal/fetcher"
	"github.com/sells-group/enrich-cli/internal/model"
)

// PhoneWaterfall resolves a business's phone from candidate listings and,
// as a last tier, a scan of the business website.
type PhoneWaterfall struct {
	pages fetcher.Fetcher
	order []string
}

// NewPhoneWaterfall creates the phone cascade. pages may be nil, which
// disables the scrape tier.
func NewPhoneWaterfall(pages fetcher.Fetcher, order []string) *PhoneWaterfall {
	if len(order) == 0 {
		order = DefaultConfig().Phone
	}
	return &PhoneWaterfall{pages: pages, order: order}
}

// Resolve runs the cascade over the already-fetched candidates plus the
// business domain. Confidence tiers: place-search high, directory medium,
// scraped low.
func (w *PhoneWaterfall) Resolve(ctx context.Context, cands []model.Candidate, domain string) (*model.PhoneHit, []model.PhoneHit) {
	sources := make([]Source[model.PhoneHit], 0, len(w.order))
	for _, name := range w.order {
		switch name {
		case "places":
			sources = append(sources, w.candidateSource("places", cands, model.SourcePlaces, model.ConfidenceHigh))
		case "directory":
			sources = append(sources, w.candidateSource("directory", cands, model.SourceDirectory, model.ConfidenceMedium))
		case "scrape":
			if w.pages != nil && domain != "" {
				sources = append(sources, w.scrapeSource(domain))
			}
		}
	}

	res := First(ctx, sources, func(model.PhoneHit) bool { return true })
	return res.Primary, dedupePhones(res.All)
}

func (w *PhoneWaterfall) candidateSource(name string, cands []model.Candidate, from model.CandidateSource, conf model.Confidence) Source[model.PhoneHit] {
	return Source[model.PhoneHit]{
		Name: name,
		Fetch: func(context.Context) ([]model.PhoneHit, error) {
			var hits []model.PhoneHit
			for _, c := range cands {
				if c.Source != from || c.Phone == "" {
					continue
				}
				hits = append(hits, model.PhoneHit{
					Number:     c.Phone,
					Display:    model.FormatPhone(c.Phone),
					Source:     string(from),
					Confidence: conf,
				})
			}
			return hits, nil
		},
	}
}

// scrapeSource fetches the site root and pulls a phone out of the page.
func (w *PhoneWaterfall) scrapeSource(domain string) Source[model.PhoneHit] {
	return Source[model.PhoneHit]{
		Name: "scrape",
		Fetch: func(ctx context.Context) ([]model.PhoneHit, error) {
			url := "https://" + domain
			html, err := w.pages.Page(ctx, url)
			if err != nil {
				return nil, err
			}
			ev := discover.ExtractPage(url, html)
			if ev.Phone == "" {
				return nil, nil
			}
			return []model.PhoneHit{{
				Number:     ev.Phone,
				Display:    model.FormatPhone(ev.Phone),
				Source:     "scrape",
				Confidence: model.ConfidenceLow,
			}}, nil
		},
	}
}

func dedupePhones(hits []model.PhoneHit) []model.PhoneHit {
	seen := make(map[string]struct{}, len(hits))
	out := hits[:0]
	for _, h := range hits {
		if _, ok := seen[h.Number]; ok {
			continue
		}
		seen[h.Number] = struct{}{}
		out = append(out, h)
	}
	return out
}
