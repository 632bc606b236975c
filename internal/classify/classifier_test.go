package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/enrich-cli/internal/model"
)

func TestClassifyLegalSuffix(t *testing.T) {
	for _, name := range []string{
		"ABC Trucking LLC",
		"Acme, Inc.",
		"Northside Dental PC",
		"Evergreen Holdings Ltd",
		"Customer Service LLC", // suffix outranks the non-entity token
	} {
		assert.Equal(t, model.LabelBusiness, Classify(name), name)
	}
}

func TestClassifyNonEntity(t *testing.T) {
	for _, name := range []string{
		"Anonymous",
		"Customer Service",
		"consumer",
		"Consumer.DisplayName",
		"Austin, TX",
	} {
		assert.Equal(t, model.LabelOther, Classify(name), name)
	}
}

func TestClassifyIndustryKeyword(t *testing.T) {
	for _, name := range []string{
		"Riverside Roofing",
		"Lone Star Freight",
		"Corner Cafe",
		"Summit Real Estate Group",
		"Valley HVAC",
	} {
		assert.Equal(t, model.LabelBusiness, Classify(name), name)
	}
}

func TestClassifyStructuralPattern(t *testing.T) {
	assert.Equal(t, model.LabelBusiness, Classify("Smith & Sons Roofing"))
	assert.Equal(t, model.LabelBusiness, Classify("Baker & Co"))
	assert.Equal(t, model.LabelBusiness, Classify("Johnson & Daughters"))
}

func TestClassifyPerson(t *testing.T) {
	for _, name := range []string{
		"John Smith",
		"Maria Garcia Lopez",
		"Robert Johnson Jr",
		"Cher",
		"Uncle Tony",
	} {
		assert.Equal(t, model.LabelPerson, Classify(name), name)
	}
}

func TestClassifyDefaultOther(t *testing.T) {
	assert.Equal(t, model.LabelOther, Classify(""))
	assert.Equal(t, model.LabelOther, Classify("   "))
	assert.Equal(t, model.LabelOther, Classify("ABC"))
	assert.Equal(t, model.LabelOther, Classify("XYZQ"))
}

func TestClassifyDeterministic(t *testing.T) {
	first := Classify("Smith & Sons Roofing LLC")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify("Smith & Sons Roofing LLC"))
	}
}
