package classify

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/enrich-cli/internal/model"
)

func TestSearchName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ABC Trucking LLC", "ABC Trucking"},
		{"Acme, Inc.", "Acme"},
		{"Smith & Sons Roofing LLC", "Smith & Sons Roofing"},
		{"Evergreen Holdings Ltd", "Evergreen Holdings"},
		{"Riverside Roofing", "Riverside Roofing"},
		{"  Padded   Name  Co  ", "Padded Name"},
		{"Acme Plumbing Customer Service", "Acme Plumbing"},
		{"Acme Plumbing - Customer Service", "Acme Plumbing"},
		{"Acme Plumbing Support", "Acme Plumbing"},
		{"Acme Plumbing Cust. Svc.", "Acme Plumbing"},
		{"Roadside Support LLC Support", "Roadside Support"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SearchName(tt.in), tt.in)
	}
}

func TestDedupKeyFormat(t *testing.T) {
	key := DedupKey("ABC Trucking LLC")
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{16}$`), key)
}

func TestDedupKeyCollapsesVariants(t *testing.T) {
	base := DedupKey("ABC Trucking LLC")
	for _, variant := range []string{
		"abc trucking",
		"ABC Trucking, Inc.",
		"The ABC Trucking Co",
		"ABC   TRUCKING",
	} {
		assert.Equal(t, base, DedupKey(variant), variant)
	}
}

func TestDedupKeyFoldsDiacritics(t *testing.T) {
	assert.Equal(t, DedupKey("Cafe Rio"), DedupKey("Café Río"))
}

func TestDedupKeyDistinguishesDistinctNames(t *testing.T) {
	assert.NotEqual(t, DedupKey("ABC Trucking"), DedupKey("XYZ Trucking"))
}

// The dedup collapse is lossy: two genuinely different businesses whose names
// differ only in legal form or filler words merge into one unit. This is the
// intended tradeoff, recorded here so the behavior is not changed by accident.
func TestDedupKeyFalseMergeRisk(t *testing.T) {
	assert.Equal(t, DedupKey("Smith Roofing LLC"), DedupKey("Smith Roofing Inc"))
}

func TestNormalizeFullRecord(t *testing.T) {
	got := Normalize("Smith & Sons Roofing LLC")
	assert.Equal(t, "Smith & Sons Roofing LLC", got.RawName)
	assert.Equal(t, model.LabelBusiness, got.Label)
	assert.Equal(t, "Smith & Sons Roofing", got.SearchName)
	assert.NotEmpty(t, got.DedupKey)
}
