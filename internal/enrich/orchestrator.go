// Package enrich sequences candidate lookup, entity matching, anchor
// discovery, and the contact waterfalls into one enrichment pass per
// dedup key.
package enrich

import (
	"context"
	"regexp"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/enrich-cli/internal/cache"
	"github.com/sells-group/enrich-cli/internal/candidates"
	"github.com/sells-group/enrich-cli/internal/discover"
	"github.com/sells-group/enrich-cli/internal/match"
	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/internal/resilience"
	"github.com/sells-group/enrich-cli/internal/waterfall"
	"github.com/sells-group/enrich-cli/pkg/opencorp"
)

// Orchestrator runs the enrichment stages for a single business unit.
// Stages within a unit are sequential; candidate provider lookups inside
// one stage run concurrently.
type Orchestrator struct {
	providers  []candidates.Provider
	matcher    *match.Matcher
	discoverer *discover.Discoverer
	phones     *waterfall.PhoneWaterfall
	emails     *waterfall.EmailWaterfall
	registry   opencorp.Client // optional, nil disables legal lookup
	cache      cache.Cache
	health     *resilience.HealthTracker
}

// New creates an Orchestrator. registry may be nil to skip legal-identity
// enrichment; cache must not be nil.
func New(
	providers []candidates.Provider,
	matcher *match.Matcher,
	discoverer *discover.Discoverer,
	phones *waterfall.PhoneWaterfall,
	emails *waterfall.EmailWaterfall,
	registry opencorp.Client,
	c cache.Cache,
	health *resilience.HealthTracker,
) *Orchestrator {
	return &Orchestrator{
		providers:  providers,
		matcher:    matcher,
		discoverer: discoverer,
		phones:     phones,
		emails:     emails,
		registry:   registry,
		cache:      c,
		health:     health,
	}
}

// Enrich resolves one classified business name into an EnrichedBusiness.
// The cache is consulted first; a hit short-circuits every provider call.
// Enrich never returns an error for "nothing found": that is a valid
// result with Status failed.
func (o *Orchestrator) Enrich(ctx context.Context, name model.ClassifiedName, row model.SourceRow) (*model.EnrichedBusiness, error) {
	log := zap.L().With(zap.String("search_name", name.SearchName), zap.String("dedup_key", name.DedupKey))

	if cached, err := o.cache.Get(ctx, name.DedupKey); err != nil {
		log.Warn("cache read failed, enriching fresh", zap.Error(err))
	} else if cached != nil {
		log.Debug("cache hit")
		return cached, nil
	}

	b := &model.EnrichedBusiness{
		DedupKey:   name.DedupKey,
		SearchName: name.SearchName,
	}

	// First lookup and match against what the source row already knows.
	cands := o.lookup(ctx, name.SearchName, row.RegionHint())
	known := match.Knowns{State: row.State}
	res := o.matcher.Best(name, known, cands)

	// Discovery runs when matching came up empty or rejected and the row
	// still lacks a domain or phone anchor. At most one round, followed by
	// at most one re-lookup.
	if !res.Accepted {
		b.Discovered = o.discoverer.Discover(ctx, name.SearchName, row.RegionHint())
		if !b.Discovered.Empty() {
			region := row.RegionHint()
			if region == "" {
				region = b.Discovered.RegionCode
			}
			retryCands := o.lookup(ctx, name.SearchName, region)
			retryKnown := match.Knowns{
				State:  b.BestState(),
				Domain: b.Discovered.Domain,
				Phone:  b.Discovered.Phone,
			}
			if retry := o.matcher.Best(name, retryKnown, retryCands); retry.Accepted || retry.Score > res.Score {
				res = retry
			}
		}
	}

	b.MatchScore = res.Score
	b.MatchReason = res.Reason
	if res.Accepted {
		b.CanonicalSource = res.Source
		applyCandidate(b, res.Candidate)
	} else if res.Reason != "" {
		log.Debug("canonical match rejected",
			zap.Float64("score", res.Score),
			zap.String("reason", res.Reason))
	}

	o.runWaterfalls(ctx, b, res)
	o.enrichLegal(ctx, b)
	Finalize(b)

	if err := o.cache.Put(ctx, name.DedupKey, b); err != nil {
		log.Warn("cache write failed", zap.Error(err))
	}
	return b, nil
}

// lookup queries all available candidate providers concurrently and
// concatenates their results in provider order.
func (o *Orchestrator) lookup(ctx context.Context, searchName, region string) []model.Candidate {
	results := make([][]model.Candidate, len(o.providers))
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	for i, p := range o.providers {
		if o.health != nil && !o.health.Available(p.Name()) {
			continue
		}
		g.Go(func() error {
			cands, err := p.Lookup(gCtx, searchName, region)
			if o.health != nil {
				o.health.Record(p.Name(), err)
			}
			if err != nil {
				zap.L().Warn("candidate lookup failed",
					zap.String("provider", p.Name()),
					zap.String("search_name", searchName),
					zap.Error(err))
				return nil
			}
			mu.Lock()
			results[i] = cands
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	var all []model.Candidate
	for _, r := range results {
		all = append(all, r...)
	}
	return all
}

// runWaterfalls fills the contact slots. It runs whenever any domain or
// phone anchor exists, canonical or discovered; a rejected canonical match
// never suppresses contact discovery.
func (o *Orchestrator) runWaterfalls(ctx context.Context, b *model.EnrichedBusiness, res model.MatchResult) {
	domain := b.BestDomain()
	if domain == "" && b.Phone == "" && b.Discovered.Phone == "" {
		return
	}

	// Only the accepted candidate feeds the high-confidence phone tiers.
	var accepted []model.Candidate
	if res.Accepted && res.Candidate != nil {
		accepted = []model.Candidate{*res.Candidate}
	}

	primary, all := o.phones.Resolve(ctx, accepted, domain)
	b.AllPhones = all
	if primary != nil {
		b.PrimaryPhone = primary.Number
		b.PrimaryPhoneSource = primary.Source
		b.PrimaryPhoneConfidence = primary.Confidence
	} else if b.Discovered.Phone != "" {
		// Discovery phone is promoted only when every waterfall tier
		// came up empty, at reduced confidence.
		if num, ok := model.NormalizePhone(b.Discovered.Phone); ok {
			b.PrimaryPhone = num
			b.PrimaryPhoneSource = "discovered"
			b.PrimaryPhoneConfidence = model.ConfidenceLow
			b.AllPhones = append(b.AllPhones, model.PhoneHit{
				Number:     num,
				Display:    model.FormatPhone(num),
				Source:     "discovered",
				Confidence: model.ConfidenceLow,
			})
		}
	}

	if domain != "" {
		email, secondary := o.emails.Resolve(ctx, domain)
		b.SecondaryEmails = secondary
		if email != nil {
			b.PrimaryEmail = email.Address
			b.PrimaryEmailKind = email.Kind
			b.PrimaryEmailSource = email.Source
			b.PrimaryEmailConfidence = email.Confidence
		} else if b.Discovered.Email != "" {
			if kind := waterfall.ClassifyEmail(b.Discovered.Email, domain); kind != model.EmailDirectory {
				b.PrimaryEmail = b.Discovered.Email
				b.PrimaryEmailKind = kind
				b.PrimaryEmailSource = "discovered"
				b.PrimaryEmailConfidence = model.ConfidenceLow
			}
		}
	}
}

var stateCodeRE = regexp.MustCompile(`^[A-Za-z]{2,3}$`)

// enrichLegal queries the company registry when the record has a usable
// state anchor. Registry misses and failures only leave a note.
func (o *Orchestrator) enrichLegal(ctx context.Context, b *model.EnrichedBusiness) {
	if o.registry == nil {
		return
	}
	state := b.BestState()
	if !stateCodeRE.MatchString(state) {
		return
	}

	resp, err := o.registry.SearchCompanies(ctx, b.SearchName, state)
	if err != nil {
		zap.L().Warn("registry lookup failed",
			zap.String("search_name", b.SearchName),
			zap.Error(err))
		b.AddNote("registry_lookup_failed")
		return
	}
	if resp == nil || len(resp.Results.Companies) == 0 {
		return
	}

	c := resp.Results.Companies[0].Company
	b.Legal = model.LegalIdentity{
		LegalName:         c.Name,
		CompanyNumber:     c.CompanyNumber,
		Jurisdiction:      c.JurisdictionCode,
		IncorporationDate: c.IncorporationDate,
	}
}

// applyCandidate copies the accepted candidate's canonical fields onto the
// record. Provider-reported fields get high domain confidence.
func applyCandidate(b *model.EnrichedBusiness, c *model.Candidate) {
	if c == nil {
		return
	}
	b.Phone, _ = normalizeOrKeep(c.Phone)
	b.Address = c.Address
	b.City = c.City
	b.State = c.RegionCode
	b.Website = c.Website

	if c.Domain != "" {
		b.Domain = c.Domain
	} else if c.Website != "" {
		b.Domain = model.NormalizeDomain(c.Website)
	}
	if b.Domain != "" {
		b.DomainConfidence = model.ConfidenceHigh
	}
}

func normalizeOrKeep(phone string) (string, bool) {
	if phone == "" {
		return "", false
	}
	if num, ok := model.NormalizePhone(phone); ok {
		return num, true
	}
	return phone, false
}
