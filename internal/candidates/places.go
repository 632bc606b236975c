package candidates

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/pkg/places"
)

// maxPlaceDetails caps how many find-place candidates get a details call.
const maxPlaceDetails = 3

// PlacesProvider adapts the Places API as the primary listing source.
type PlacesProvider struct {
	client places.Client
}

// NewPlacesProvider creates the primary provider over a Places client.
func NewPlacesProvider(client places.Client) *PlacesProvider {
	return &PlacesProvider{client: client}
}

func (p *PlacesProvider) Name() string { return "places" }

func (p *PlacesProvider) Lookup(ctx context.Context, searchName, region string) ([]model.Candidate, error) {
	query := searchName
	if region != "" {
		query += " " + region
	}

	found, err := p.client.FindPlace(ctx, query, places.WithLocationBias("region:us"))
	if err != nil {
		return nil, err
	}
	if len(found.Candidates) == 0 {
		return []model.Candidate{}, nil
	}

	out := make([]model.Candidate, 0, len(found.Candidates))
	for i, fc := range found.Candidates {
		if i >= maxPlaceDetails {
			break
		}
		details, err := p.client.Details(ctx, fc.PlaceID)
		if err != nil {
			return nil, err
		}
		if details.Result.PlaceID == "" {
			zap.L().Debug("place details missing",
				zap.String("place_id", fc.PlaceID),
				zap.String("query", query))
			continue
		}
		out = append(out, placeCandidate(details.Result))
	}
	return out, nil
}

func placeCandidate(d places.Details) model.Candidate {
	city, state := parseUSAddress(d.FormattedAddress)
	phone := ""
	if digits, ok := model.NormalizePhone(d.FormattedPhoneNumber); ok {
		phone = digits
	}
	raw, _ := json.Marshal(d)
	return model.Candidate{
		Source:     model.SourcePlaces,
		Name:       d.Name,
		Phone:      phone,
		Address:    d.FormattedAddress,
		City:       city,
		RegionCode: state,
		Domain:     model.NormalizeDomain(d.Website),
		Website:    d.Website,
		ExternalID: d.PlaceID,
		RawPayload: raw,
	}
}

// parseUSAddress pulls city and state from a formatted address like
// "100 Main St, Dallas, TX 75201, USA". Returns empty strings when the
// shape is unexpected.
func parseUSAddress(formatted string) (city, state string) {
	parts := strings.Split(formatted, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	// Drop a trailing country segment.
	if n := len(parts); n > 0 {
		last := strings.ToUpper(parts[n-1])
		if last == "USA" || last == "US" || last == "UNITED STATES" {
			parts = parts[:n-1]
		}
	}
	if len(parts) < 2 {
		return "", ""
	}
	// Last segment is "TX 75201" or just "TX".
	fields := strings.Fields(parts[len(parts)-1])
	if len(fields) > 0 && len(fields[0]) == 2 {
		state = strings.ToUpper(fields[0])
	}
	city = parts[len(parts)-2]
	return city, state
}
