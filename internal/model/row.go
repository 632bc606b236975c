package model

// NameLabel classifies a reviewer display name.
type NameLabel string

const (
	LabelBusiness NameLabel = "business"
	LabelPerson   NameLabel = "person"
	LabelOther    NameLabel = "other"
)

// SourceRow is one input record from a review export. Immutable once read.
type SourceRow struct {
	DisplayName string `json:"display_name"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Region      string `json:"region,omitempty"`
	ReviewURL   string `json:"review_url,omitempty"`
	ReviewDate  string `json:"review_date,omitempty"`
	Rating      string `json:"rating,omitempty"`
}

// RegionHint returns the best available location hint for provider lookups:
// state first, then region, then city.
func (r SourceRow) RegionHint() string {
	if r.State != "" {
		return r.State
	}
	if r.Region != "" {
		return r.Region
	}
	return r.City
}

// ClassifiedName is the classifier + normalizer output for one row.
// Never mutated after creation.
type ClassifiedName struct {
	RawName    string    `json:"raw_name"`
	Label      NameLabel `json:"label"`
	SearchName string    `json:"search_name"`
	DedupKey   string    `json:"dedup_key"`
}
