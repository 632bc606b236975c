package model

// CandidateSource identifies which provider produced a candidate.
type CandidateSource string

const (
	SourcePlaces    CandidateSource = "places"
	SourceDirectory CandidateSource = "directory"
)

// Candidate is a provider's best guess at the entity behind a search name.
// Ephemeral: produced per lookup, consumed by the matcher.
type Candidate struct {
	Source     CandidateSource `json:"source"`
	Name       string          `json:"name"`
	Phone      string          `json:"phone,omitempty"`
	Address    string          `json:"address,omitempty"`
	City       string          `json:"city,omitempty"`
	RegionCode string          `json:"region_code,omitempty"`
	Domain     string          `json:"domain,omitempty"`
	Website    string          `json:"website,omitempty"`
	ExternalID string          `json:"external_id,omitempty"`
	RawPayload []byte          `json:"raw_payload,omitempty"`
}

// HasStrongAnchor reports whether the candidate independently carries a phone
// or a website/domain. A provider returning either for this exact query is
// rarely wrong even when the name string differs.
func (c Candidate) HasStrongAnchor() bool {
	return c.Phone != "" || c.Domain != "" || c.Website != ""
}
