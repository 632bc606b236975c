package model

// PageEvidence holds everything extracted from a single fetched page.
type PageEvidence struct {
	URL     string `json:"url"`
	Domain  string `json:"domain,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	State   string `json:"state,omitempty"`
	Email   string `json:"email,omitempty"`
}

// Empty reports whether the page yielded no anchors at all.
func (p PageEvidence) Empty() bool {
	return p.Domain == "" && p.Phone == "" && p.Address == "" && p.State == "" && p.Email == ""
}

// DiscoveredAnchors is the output of anchor discovery. Partial objects are
// valid; each populated field is traceable to the page it came from via
// Evidence.
type DiscoveredAnchors struct {
	Domain         string         `json:"domain,omitempty"`
	Phone          string         `json:"phone,omitempty"`
	Address        string         `json:"address,omitempty"`
	RegionCode     string         `json:"region_code,omitempty"`
	Email          string         `json:"email,omitempty"`
	EvidenceURL    string         `json:"evidence_url,omitempty"`
	EvidenceSource string         `json:"evidence_source,omitempty"`
	Evidence       []PageEvidence `json:"evidence,omitempty"`
}

// Empty reports whether discovery found nothing.
func (d DiscoveredAnchors) Empty() bool {
	return d.Domain == "" && d.Phone == "" && d.Address == "" && d.RegionCode == "" && d.Email == ""
}
