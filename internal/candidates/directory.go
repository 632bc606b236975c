package candidates

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/pkg/yelp"
)

// maxDirectoryResults caps listings taken from a directory search.
const maxDirectoryResults = 5

// DirectoryProvider adapts the Yelp Fusion API as the directory fallback.
type DirectoryProvider struct {
	client yelp.Client
}

// NewDirectoryProvider creates the fallback provider over a Yelp client.
func NewDirectoryProvider(client yelp.Client) *DirectoryProvider {
	return &DirectoryProvider{client: client}
}

func (p *DirectoryProvider) Name() string { return "directory" }

func (p *DirectoryProvider) Lookup(ctx context.Context, searchName, region string) ([]model.Candidate, error) {
	location := region
	if location == "" {
		location = "United States"
	}

	resp, err := p.client.Search(ctx, searchName, location, yelp.WithLimit(maxDirectoryResults))
	if err != nil {
		return nil, err
	}

	out := make([]model.Candidate, 0, len(resp.Businesses))
	for _, b := range resp.Businesses {
		out = append(out, directoryCandidate(b))
	}
	return out, nil
}

func directoryCandidate(b yelp.Business) model.Candidate {
	phone := ""
	if digits, ok := model.NormalizePhone(b.Phone); ok {
		phone = digits
	}
	raw, _ := json.Marshal(b)
	return model.Candidate{
		Source:     model.SourceDirectory,
		Name:       b.Name,
		Phone:      phone,
		Address:    strings.Join(b.Location.DisplayAddress, ", "),
		City:       b.Location.City,
		RegionCode: strings.ToUpper(b.Location.State),
		ExternalID: b.ID,
		RawPayload: raw,
	}
}
