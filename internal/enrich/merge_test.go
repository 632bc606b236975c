package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/enrich-cli/internal/model"
)

func TestFinalize_Tiers(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		record     model.EnrichedBusiness
		wantTier   model.Confidence
		wantStatus model.EnrichmentStatus
	}{
		{
			name: "full coverage is high",
			record: model.EnrichedBusiness{
				Domain:                 "acme.com",
				DomainConfidence:       model.ConfidenceHigh,
				PrimaryPhone:           "5125550134",
				PrimaryPhoneConfidence: model.ConfidenceMedium,
				PrimaryEmail:           "info@acme.com",
				PrimaryEmailConfidence: model.ConfidenceMedium,
			},
			wantTier:   model.ConfidenceHigh,
			wantStatus: model.StatusSuccess,
		},
		{
			name: "high domain alone is medium",
			record: model.EnrichedBusiness{
				Domain:           "acme.com",
				DomainConfidence: model.ConfidenceHigh,
			},
			wantTier:   model.ConfidenceMedium,
			wantStatus: model.StatusPartial,
		},
		{
			name: "medium phone alone is medium",
			record: model.EnrichedBusiness{
				PrimaryPhone:           "5125550134",
				PrimaryPhoneConfidence: model.ConfidenceMedium,
			},
			wantTier:   model.ConfidenceMedium,
			wantStatus: model.StatusPartial,
		},
		{
			name: "low-confidence findings are low",
			record: model.EnrichedBusiness{
				PrimaryPhone:           "5125550134",
				PrimaryPhoneConfidence: model.ConfidenceLow,
			},
			wantTier:   model.ConfidenceLow,
			wantStatus: model.StatusPartial,
		},
		{
			name: "discovered anchors alone are low",
			record: model.EnrichedBusiness{
				Discovered: model.DiscoveredAnchors{RegionCode: "TX"},
			},
			wantTier:   model.ConfidenceLow,
			wantStatus: model.StatusPartial,
		},
		{
			name:       "nothing found is failed",
			record:     model.EnrichedBusiness{},
			wantTier:   model.ConfidenceFailed,
			wantStatus: model.StatusFailed,
		},
		{
			name: "high needs email too",
			record: model.EnrichedBusiness{
				Domain:                 "acme.com",
				DomainConfidence:       model.ConfidenceHigh,
				PrimaryPhone:           "5125550134",
				PrimaryPhoneConfidence: model.ConfidenceHigh,
			},
			wantTier:   model.ConfidenceMedium,
			wantStatus: model.StatusPartial,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := tt.record
			Finalize(&b)
			assert.Equal(t, tt.wantTier, b.Overall)
			assert.Equal(t, tt.wantStatus, b.Status)
		})
	}
}

func TestFinalize_Deterministic(t *testing.T) {
	t.Parallel()
	b := model.EnrichedBusiness{
		Domain:           "acme.com",
		DomainConfidence: model.ConfidenceHigh,
	}
	Finalize(&b)
	first := b.Overall
	Finalize(&b)
	assert.Equal(t, first, b.Overall)
}
