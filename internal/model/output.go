package model

import "encoding/json"

// OutputColumns is the fixed, ordered output schema. Column set and order are
// an external contract; consumers address columns by name.
var OutputColumns = []string{
	"display_name",
	"review_url",
	"review_date",
	"rating",
	"city",
	"state",
	"name_classification",
	"company_search_name",
	"dedup_key",
	"canonical_source",
	"canonical_match_score",
	"canonical_match_reason",
	"business_domain",
	"business_website",
	"business_phone",
	"business_address",
	"business_city",
	"business_state",
	"primary_phone",
	"primary_phone_source",
	"primary_phone_confidence",
	"primary_email",
	"primary_email_type",
	"primary_email_source",
	"primary_email_confidence",
	"secondary_emails_json",
	"all_phones_json",
	"discovered_domain",
	"discovered_phone",
	"discovered_state",
	"discovered_address",
	"discovered_email",
	"discovered_evidence_url",
	"legal_name",
	"legal_company_number",
	"legal_jurisdiction",
	"legal_incorporation_date",
	"overall_confidence",
	"enrichment_status",
	"enrichment_notes",
}

// OutputRow is one output record: the source row plus its classification and,
// for business rows, the enrichment projected onto it.
type OutputRow struct {
	Source     SourceRow
	Classified ClassifiedName
	Enriched   *EnrichedBusiness // nil for non-business rows
}

// Record renders the row as CSV fields in OutputColumns order.
func (o OutputRow) Record() []string {
	fields := map[string]string{
		"display_name":        o.Source.DisplayName,
		"review_url":          o.Source.ReviewURL,
		"review_date":         o.Source.ReviewDate,
		"rating":              o.Source.Rating,
		"city":                o.Source.City,
		"state":               o.Source.State,
		"name_classification": string(o.Classified.Label),
		"company_search_name": o.Classified.SearchName,
		"dedup_key":           o.Classified.DedupKey,
	}

	if b := o.Enriched; b != nil {
		fields["canonical_source"] = string(b.CanonicalSource)
		fields["canonical_match_score"] = formatScore(b.MatchScore)
		fields["canonical_match_reason"] = b.MatchReason
		fields["business_domain"] = b.Domain
		fields["business_website"] = b.Website
		fields["business_phone"] = b.Phone
		fields["business_address"] = b.Address
		fields["business_city"] = b.City
		fields["business_state"] = b.State
		fields["primary_phone"] = b.PrimaryPhone
		fields["primary_phone_source"] = b.PrimaryPhoneSource
		fields["primary_phone_confidence"] = string(b.PrimaryPhoneConfidence)
		fields["primary_email"] = b.PrimaryEmail
		fields["primary_email_type"] = string(b.PrimaryEmailKind)
		fields["primary_email_source"] = b.PrimaryEmailSource
		fields["primary_email_confidence"] = string(b.PrimaryEmailConfidence)
		fields["secondary_emails_json"] = marshalJSON(b.SecondaryEmails)
		fields["all_phones_json"] = marshalJSON(b.AllPhones)
		fields["discovered_domain"] = b.Discovered.Domain
		fields["discovered_phone"] = b.Discovered.Phone
		fields["discovered_state"] = b.Discovered.RegionCode
		fields["discovered_address"] = b.Discovered.Address
		fields["discovered_email"] = b.Discovered.Email
		fields["discovered_evidence_url"] = b.Discovered.EvidenceURL
		fields["legal_name"] = b.Legal.LegalName
		fields["legal_company_number"] = b.Legal.CompanyNumber
		fields["legal_jurisdiction"] = b.Legal.Jurisdiction
		fields["legal_incorporation_date"] = b.Legal.IncorporationDate
		fields["overall_confidence"] = string(b.Overall)
		fields["enrichment_status"] = string(b.Status)
		fields["enrichment_notes"] = b.Notes
	}

	record := make([]string, len(OutputColumns))
	for i, col := range OutputColumns {
		record[i] = fields[col]
	}
	return record
}

func formatScore(score float64) string {
	data, _ := json.Marshal(score)
	return string(data)
}

func marshalJSON(v any) string {
	switch val := v.(type) {
	case []EmailHit:
		if len(val) == 0 {
			return ""
		}
	case []PhoneHit:
		if len(val) == 0 {
			return ""
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
