package waterfall

import (
	"context"

	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/pkg/hunter"
	"github.com/sells-group/enrich-cli/pkg/snov"
)

// hunterConfidenceFloor drops addresses Hunter itself barely believes in.
const hunterConfidenceFloor = 50

// HunterProvider adapts Hunter domain search to the email waterfall.
type HunterProvider struct {
	client hunter.Client
}

// NewHunterProvider wraps a Hunter client.
func NewHunterProvider(client hunter.Client) *HunterProvider {
	return &HunterProvider{client: client}
}

func (p *HunterProvider) Name() string { return "hunter" }

func (p *HunterProvider) Emails(ctx context.Context, domain string) ([]model.EmailHit, error) {
	resp, err := p.client.DomainSearch(ctx, domain, hunter.WithLimit(10))
	if err != nil {
		return nil, err
	}

	var hits []model.EmailHit
	for _, e := range resp.Data.Emails {
		if e.Confidence < hunterConfidenceFloor {
			continue
		}
		kind := ClassifyEmail(e.Value, domain)
		// Hunter's own typing outranks the shape heuristic, except that
		// nothing overrides a directory classification.
		if kind != model.EmailDirectory {
			switch e.Type {
			case "personal":
				kind = model.EmailPerson
			case "generic":
				kind = model.EmailGeneric
			}
		}
		// A catch-all domain accepts every address, so per-address hits
		// prove nothing. Demote them out of the primary slot.
		if resp.Data.AcceptAll {
			kind = model.EmailDirectory
		}
		hits = append(hits, model.EmailHit{
			Address:    e.Value,
			Kind:       kind,
			Source:     "hunter",
			Confidence: hunterTier(e.Confidence),
		})
	}
	return hits, nil
}

func hunterTier(confidence int) model.Confidence {
	if confidence >= 80 {
		return model.ConfidenceHigh
	}
	return model.ConfidenceMedium
}

// SnovProvider adapts Snov domain email lookup to the email waterfall.
type SnovProvider struct {
	client snov.Client
}

// NewSnovProvider wraps a Snov client.
func NewSnovProvider(client snov.Client) *SnovProvider {
	return &SnovProvider{client: client}
}

func (p *SnovProvider) Name() string { return "snov" }

func (p *SnovProvider) Emails(ctx context.Context, domain string) ([]model.EmailHit, error) {
	resp, err := p.client.DomainEmails(ctx, domain)
	if err != nil {
		return nil, err
	}

	var hits []model.EmailHit
	for _, e := range resp.Emails {
		kind := ClassifyEmail(e.Email, domain)
		if kind != model.EmailDirectory {
			switch e.Type {
			case "personal":
				kind = model.EmailPerson
			case "generic":
				kind = model.EmailGeneric
			}
		}
		conf := model.ConfidenceMedium
		if e.Status == "verified" {
			conf = model.ConfidenceHigh
		}
		hits = append(hits, model.EmailHit{
			Address:    e.Email,
			Kind:       kind,
			Source:     "snov",
			Confidence: conf,
		})
	}
	return hits, nil
}
