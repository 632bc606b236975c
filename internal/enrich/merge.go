package enrich

import "github.com/sells-group/enrich-cli/internal/model"

// Finalize computes the overall confidence tier and terminal status from
// the populated fields. Deterministic: re-running it on the same record
// yields the same answer.
func Finalize(b *model.EnrichedBusiness) {
	domainConf := b.DomainConfidence
	if domainConf == "" {
		domainConf = model.ConfidenceNone
	}
	phoneConf := b.PrimaryPhoneConfidence
	if phoneConf == "" {
		phoneConf = model.ConfidenceNone
	}
	emailConf := b.PrimaryEmailConfidence
	if emailConf == "" {
		emailConf = model.ConfidenceNone
	}

	found := b.BestDomain() != "" || b.PrimaryPhone != "" || b.PrimaryEmail != "" ||
		!b.Discovered.Empty() || b.Legal.LegalName != ""

	switch {
	case domainConf == model.ConfidenceHigh &&
		phoneConf.AtLeast(model.ConfidenceMedium) &&
		emailConf.AtLeast(model.ConfidenceMedium):
		b.Overall = model.ConfidenceHigh
	case domainConf.AtLeast(model.ConfidenceMedium) ||
		phoneConf.AtLeast(model.ConfidenceMedium) ||
		emailConf.AtLeast(model.ConfidenceMedium):
		b.Overall = model.ConfidenceMedium
	case found:
		b.Overall = model.ConfidenceLow
	default:
		b.Overall = model.ConfidenceFailed
	}

	switch {
	case b.Overall == model.ConfidenceFailed:
		b.Status = model.StatusFailed
	case b.Domain != "" && b.PrimaryPhone != "" && b.PrimaryEmail != "":
		b.Status = model.StatusSuccess
	default:
		b.Status = model.StatusPartial
	}
}
