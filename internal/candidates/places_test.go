package candidates

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/pkg/places"
)

type fakePlaces struct {
	find    *places.FindResponse
	details map[string]*places.DetailsResponse
	err     error
}

func (f *fakePlaces) FindPlace(_ context.Context, _ string, _ ...places.FindOption) (*places.FindResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.find, nil
}

func (f *fakePlaces) Details(_ context.Context, placeID string) (*places.DetailsResponse, error) {
	if d, ok := f.details[placeID]; ok {
		return d, nil
	}
	return &places.DetailsResponse{Status: "NOT_FOUND"}, nil
}

func TestPlacesLookup_MapsCandidate(t *testing.T) {
	fake := &fakePlaces{
		find: &places.FindResponse{
			Status: "OK",
			Candidates: []places.Candidate{{PlaceID: "pid-1", Name: "ABC Trucking"}},
		},
		details: map[string]*places.DetailsResponse{
			"pid-1": {Status: "OK", Result: places.Details{
				PlaceID:              "pid-1",
				Name:                 "ABC Trucking",
				FormattedAddress:     "100 Main St, Dallas, TX 75201, USA",
				FormattedPhoneNumber: "(214) 555-0134",
				Website:              "https://www.abctrucking.com/",
			}},
		},
	}

	got, err := NewPlacesProvider(fake).Lookup(context.Background(), "ABC Trucking", "TX")
	require.NoError(t, err)
	require.Len(t, got, 1)

	c := got[0]
	assert.Equal(t, model.SourcePlaces, c.Source)
	assert.Equal(t, "2145550134", c.Phone)
	assert.Equal(t, "abctrucking.com", c.Domain)
	assert.Equal(t, "Dallas", c.City)
	assert.Equal(t, "TX", c.RegionCode)
	assert.True(t, c.HasStrongAnchor())
}

func TestPlacesLookup_NoResults(t *testing.T) {
	fake := &fakePlaces{find: &places.FindResponse{Status: "ZERO_RESULTS"}}

	got, err := NewPlacesProvider(fake).Lookup(context.Background(), "no such biz", "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPlacesLookup_SkipsMissingDetails(t *testing.T) {
	fake := &fakePlaces{
		find: &places.FindResponse{
			Status: "OK",
			Candidates: []places.Candidate{{PlaceID: "gone"}},
		},
		details: map[string]*places.DetailsResponse{},
	}

	got, err := NewPlacesProvider(fake).Lookup(context.Background(), "ghost", "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseUSAddress(t *testing.T) {
	tests := []struct {
		in        string
		wantCity  string
		wantState string
	}{
		{"100 Main St, Dallas, TX 75201, USA", "Dallas", "TX"},
		{"42 Oak Ln, Austin, TX, United States", "Austin", "TX"},
		{"Dallas, TX", "Dallas", "TX"},
		{"just a street", "", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		city, state := parseUSAddress(tt.in)
		assert.Equal(t, tt.wantCity, city, tt.in)
		assert.Equal(t, tt.wantState, state, tt.in)
	}
}
