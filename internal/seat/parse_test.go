package seat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse_FullGrammar(t *testing.T) {
	d := Parse("E04_F06_cat_2")

	assert.Equal(t, "4", d.Event)
	assert.Equal(t, "F", d.Section)
	assert.Equal(t, "06", d.Seat)
	assert.Equal(t, "2", d.Category)
}

func TestParse_VIPSuffix(t *testing.T) {
	d := Parse("E03_A04_vip")

	assert.Equal(t, "3", d.Event)
	assert.Equal(t, "A", d.Section)
	assert.Equal(t, "04", d.Seat)
	assert.Equal(t, "VIP", d.Category)
}

func TestParse_VIPPrecedesNumberedCategory(t *testing.T) {
	// The VIP token wins even when a numbered category is also present.
	d := Parse("E05_B02_cat_3_VIP")

	assert.Equal(t, "VIP", d.Category)
	assert.Equal(t, "5", d.Event)
	assert.Equal(t, "B", d.Section)
	assert.Equal(t, "02", d.Seat)
}

func TestParse_VIPWithoutPrefix(t *testing.T) {
	d := Parse("vip-front-row")

	assert.Equal(t, Descriptor{Event: "1", Section: "A", Seat: "1", Category: "VIP"}, d)
}

func TestParse_CatTokenWithoutPrefix(t *testing.T) {
	d := Parse("something_cat_2")

	assert.Equal(t, "2", d.Category)
	assert.Equal(t, "1", d.Event)
	assert.Equal(t, "A", d.Section)
	assert.Equal(t, "1", d.Seat)
}

func TestParse_LastResortFragments(t *testing.T) {
	d := Parse("E12 garbage _C07 trailing")

	assert.Equal(t, "12", d.Event)
	assert.Equal(t, "C", d.Section)
	assert.Equal(t, "07", d.Seat)
	assert.Equal(t, "1", d.Category)
}

func TestParse_Total(t *testing.T) {
	// No input may panic and every call returns a fully populated
	// descriptor.
	inputs := []string{"", "   ", "???", "E", "_cat_", "cat_x", "E_A_", "E00_Z00_cat_0"}
	for _, in := range inputs {
		d := Parse(in)
		assert.NotEmpty(t, d.Event, "input %q", in)
		assert.NotEmpty(t, d.Section, "input %q", in)
		assert.NotEmpty(t, d.Seat, "input %q", in)
		assert.NotEmpty(t, d.Category, "input %q", in)
	}
}

func TestParse_EventLeadingZeros(t *testing.T) {
	assert.Equal(t, "7", Parse("E007_A01_cat_1").Event)
	assert.Equal(t, "0", Parse("E00_A01_cat_1").Event)
}

func TestCategoryColor(t *testing.T) {
	assert.Equal(t, "purple", CategoryColor("1"))
	assert.Equal(t, "blue", CategoryColor("2"))
	assert.Equal(t, "gray", CategoryColor("99"))
	assert.Equal(t, "gray", CategoryColor("VIP"))
}

func TestCategoryLabel(t *testing.T) {
	assert.Equal(t, "VIP", CategoryLabel("vip"))
	assert.Equal(t, "CAT 2", CategoryLabel("2"))
}
