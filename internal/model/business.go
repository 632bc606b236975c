package model

// Confidence is a per-field or overall confidence tier.
type Confidence string

const (
	ConfidenceNone   Confidence = "none"
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
	// ConfidenceFailed is used only for overall confidence when nothing was found.
	ConfidenceFailed Confidence = "failed"
)

// Rank orders confidence tiers for comparison. Failed ranks below none.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	case ConfidenceNone:
		return 0
	default:
		return -1
	}
}

// AtLeast reports whether c ranks at or above other.
func (c Confidence) AtLeast(other Confidence) bool {
	return c.Rank() >= other.Rank()
}

// EmailKind buckets a discovered email address.
type EmailKind string

const (
	EmailPerson  EmailKind = "person"  // firstname.lastname@ style
	EmailGeneric EmailKind = "generic" // info@, sales@, ...
	// EmailDirectory belongs to an aggregator/listing domain, never eligible
	// for the primary slot.
	EmailDirectory EmailKind = "directory"
)

// EmailHit is one email found by a waterfall provider.
type EmailHit struct {
	Address    string     `json:"address"`
	Kind       EmailKind  `json:"kind"`
	Source     string     `json:"source"`
	Confidence Confidence `json:"confidence"`
}

// PhoneHit is one phone number found by a waterfall source.
type PhoneHit struct {
	Number     string     `json:"number"` // normalized 10 digits
	Display    string     `json:"display"`
	Source     string     `json:"source"`
	Confidence Confidence `json:"confidence"`
}

// EnrichmentStatus reports the terminal state of one enrichment unit.
type EnrichmentStatus string

const (
	StatusSuccess EnrichmentStatus = "success"
	StatusPartial EnrichmentStatus = "partial"
	StatusFailed  EnrichmentStatus = "failed"
	StatusError   EnrichmentStatus = "error"
)

// LegalIdentity holds registry data for the accepted entity.
type LegalIdentity struct {
	LegalName         string `json:"legal_name,omitempty"`
	CompanyNumber     string `json:"company_number,omitempty"`
	Jurisdiction      string `json:"jurisdiction,omitempty"`
	IncorporationDate string `json:"incorporation_date,omitempty"`
}

// EnrichedBusiness is the durable enrichment result for one dedup key.
// Created on first enrichment, cached, and reused for every row sharing the
// key. A rejected canonical match (CanonicalSource == "") still retains any
// Discovered fields: partial evidence is never discarded to enforce an
// all-or-nothing canonical decision.
type EnrichedBusiness struct {
	DedupKey   string `json:"dedup_key"`
	SearchName string `json:"search_name"`

	// Canonical entity decision.
	CanonicalSource CandidateSource `json:"canonical_source"`
	MatchScore      float64         `json:"match_score"`
	MatchReason     string          `json:"match_reason"`

	// Canonical fields.
	Domain           string     `json:"domain,omitempty"`
	Website          string     `json:"website,omitempty"`
	Phone            string     `json:"phone,omitempty"`
	Address          string     `json:"address,omitempty"`
	City             string     `json:"city,omitempty"`
	State            string     `json:"state,omitempty"`
	DomainConfidence Confidence `json:"domain_confidence"`

	// Contact waterfall results.
	PrimaryPhone           string     `json:"primary_phone,omitempty"`
	PrimaryPhoneSource     string     `json:"primary_phone_source,omitempty"`
	PrimaryPhoneConfidence Confidence `json:"primary_phone_confidence"`
	AllPhones              []PhoneHit `json:"all_phones,omitempty"`

	PrimaryEmail           string     `json:"primary_email,omitempty"`
	PrimaryEmailKind       EmailKind  `json:"primary_email_kind,omitempty"`
	PrimaryEmailSource     string     `json:"primary_email_source,omitempty"`
	PrimaryEmailConfidence Confidence `json:"primary_email_confidence"`
	SecondaryEmails        []EmailHit `json:"secondary_emails,omitempty"`

	// Discovered anchors, kept even when canonical matching failed.
	Discovered DiscoveredAnchors `json:"discovered,omitempty"`

	// Registry identity, populated only when a state anchor exists.
	Legal LegalIdentity `json:"legal,omitempty"`

	Overall Confidence       `json:"overall_confidence"`
	Status  EnrichmentStatus `json:"enrichment_status"`
	Notes   string           `json:"notes,omitempty"`
}

// BestDomain returns the canonical domain when present, otherwise the
// discovered one. Waterfalls anchor on whichever exists.
func (b *EnrichedBusiness) BestDomain() string {
	if b.Domain != "" {
		return b.Domain
	}
	return b.Discovered.Domain
}

// BestState returns the canonical state when present, otherwise the
// discovered region code.
func (b *EnrichedBusiness) BestState() string {
	if b.State != "" {
		return b.State
	}
	return b.Discovered.RegionCode
}

// AddNote appends a pipe-separated diagnostic note.
func (b *EnrichedBusiness) AddNote(note string) {
	if note == "" {
		return
	}
	if b.Notes == "" {
		b.Notes = note
		return
	}
	b.Notes += "|" + note
}
