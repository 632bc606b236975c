// Package discover finds contact anchors (domain, phone, address, email)
// for businesses that no listing provider could match, by searching the web
// and scanning the top result pages.
package discover

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/enrich-cli/internal/fetcher"
	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/pkg/serp"
)

// defaultPageLimit bounds how many result pages get fetched per business.
const defaultPageLimit = 2

// Discoverer runs web-search anchor discovery.
type Discoverer struct {
	search    serp.Client
	pages     fetcher.Fetcher
	pageLimit int
}

// New creates a Discoverer. pageLimit <= 0 uses the default of 2. A nil
// search client disables discovery entirely.
func New(search serp.Client, pages fetcher.Fetcher, pageLimit int) *Discoverer {
	if pageLimit <= 0 {
		pageLimit = defaultPageLimit
	}
	return &Discoverer{search: search, pages: pages, pageLimit: pageLimit}
}

// Query builds the discovery search query for a business.
func Query(searchName, region string) string {
	if region != "" {
		return fmt.Sprintf("%s %s contact phone address", searchName, region)
	}
	return fmt.Sprintf("%s contact phone address", searchName)
}

// Discover searches for the business and extracts anchors from the top
// result pages. It degrades, never fails: a search error or any page fetch
// error yields whatever was found so far, down to an empty DiscoveredAnchors.
// Conflicting values across pages resolve to the first page in rank order.
func (d *Discoverer) Discover(ctx context.Context, searchName, region string) model.DiscoveredAnchors {
	if d.search == nil {
		return model.DiscoveredAnchors{}
	}

	anchors := d.searchAndScan(ctx, Query(searchName, region))
	if anchors.Empty() && region != "" {
		// Regional query found nothing; retry once without the region.
		anchors = d.searchAndScan(ctx, Query(searchName, ""))
	}
	return anchors
}

func (d *Discoverer) searchAndScan(ctx context.Context, query string) model.DiscoveredAnchors {
	resp, err := d.search.Search(ctx, query, serp.WithNum(d.pageLimit))
	if err != nil {
		zap.L().Warn("discovery search failed",
			zap.String("query", query),
			zap.Error(err))
		return model.DiscoveredAnchors{}
	}

	var anchors model.DiscoveredAnchors
	fetched := 0
	for _, result := range resp.OrganicResults {
		if fetched >= d.pageLimit {
			break
		}
		link := strings.TrimSpace(result.Link)
		if link == "" {
			continue
		}
		fetched++

		html, err := d.pages.Page(ctx, link)
		if err != nil {
			zap.L().Debug("discovery page fetch skipped",
				zap.String("url", link),
				zap.Error(err))
			continue
		}

		ev := ExtractPage(link, html)
		if ev.Empty() {
			continue
		}
		anchors.Evidence = append(anchors.Evidence, ev)
		mergeEvidence(&anchors, ev)
	}

	return anchors
}

// mergeEvidence fills anchor fields from a page, keeping earlier pages'
// values on conflict. The first page to contribute anything becomes the
// cited evidence URL.
func mergeEvidence(a *model.DiscoveredAnchors, ev model.PageEvidence) {
	contributed := false
	if a.Domain == "" && ev.Domain != "" {
		a.Domain = ev.Domain
		contributed = true
	}
	if a.Phone == "" && ev.Phone != "" {
		a.Phone = ev.Phone
		contributed = true
	}
	if a.Address == "" && ev.Address != "" {
		a.Address = ev.Address
		contributed = true
	}
	if a.RegionCode == "" && ev.State != "" {
		a.RegionCode = ev.State
		contributed = true
	}
	if a.Email == "" && ev.Email != "" {
		a.Email = ev.Email
		contributed = true
	}
	if contributed && a.EvidenceURL == "" {
		a.EvidenceURL = ev.URL
		a.EvidenceSource = "web_search"
	}
}
