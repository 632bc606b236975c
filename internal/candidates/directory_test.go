package candidates

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/pkg/yelp"
)

type fakeYelp struct {
	resp *yelp.SearchResponse
	err  error
}

func (f *fakeYelp) Search(_ context.Context, _, _ string, _ ...yelp.SearchOption) (*yelp.SearchResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func (f *fakeYelp) Details(_ context.Context, _ string) (*yelp.Business, error) {
	return nil, nil
}

func TestDirectoryLookup_MapsCandidate(t *testing.T) {
	fake := &fakeYelp{resp: &yelp.SearchResponse{
		Total: 1,
		Businesses: []yelp.Business{{
			ID:    "riverside-roofing-austin",
			Name:  "Riverside Roofing",
			Phone: "+15125550187",
			Location: yelp.Location{
				City:           "Austin",
				State:          "tx",
				DisplayAddress: []string{"42 Oak Ln", "Austin, TX 78701"},
			},
		}},
	}}

	got, err := NewDirectoryProvider(fake).Lookup(context.Background(), "Riverside Roofing", "Austin, TX")
	require.NoError(t, err)
	require.Len(t, got, 1)

	c := got[0]
	assert.Equal(t, model.SourceDirectory, c.Source)
	assert.Equal(t, "5125550187", c.Phone)
	assert.Equal(t, "TX", c.RegionCode)
	assert.Equal(t, "42 Oak Ln, Austin, TX 78701", c.Address)
	assert.Empty(t, c.Domain, "directory listings carry no business domain")
}

func TestDirectoryLookup_NoResults(t *testing.T) {
	fake := &fakeYelp{resp: &yelp.SearchResponse{}}

	got, err := NewDirectoryProvider(fake).Lookup(context.Background(), "nothing", "")
	require.NoError(t, err)
	assert.Empty(t, got)
}
