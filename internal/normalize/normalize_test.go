package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"Œufs Élevés", "oeufs eleves"},
		{"Käfighaltung", "kafighaltung"},
		{"GROẞE Eier", "grosse eier"},
		{"Ściółkowy", "sciolkowy"},
		{"Dúzia", "duzia"},
		{"l’œuf", "l'oeuf"},
		{"", ""},
	}
	for _, tt := range tests {
		got := Fold(tt.input)
		if got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCount(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain count", input: "6", want: "6"},
		{name: "lowercases words", input: "1 Dozen", want: "1 dozen"},
		{name: "merges thousands separator", input: "1 200", want: "1200"},
		{name: "merges no-break space separator", input: "1 200", want: "1200"},
		{name: "merges every thousands group", input: "1 000 000", want: "1000000"},
		{name: "merges groups on both sides of text", input: "1 200 et 3 400", want: "1200 et 3400"},
		{name: "keeps decimal comma", input: "1,5", want: "1,5"},
		{name: "collapses range to upper bound", input: "53-63", want: "63"},
		{name: "removes weight after range", input: "6 oeufs 53-63 g", want: "6 oeufs"},
		{name: "removes weights", input: "12 eggs 680 g", want: "12 eggs"},
		{name: "removes stuck weights", input: "6x53g", want: "6x"},
		{name: "removes kilograms", input: "30 oeufs 1,8kg", want: "30 oeufs"},
		{name: "removes kilos", input: "2 kilos", want: ""},
		{name: "removes kgs", input: "Oeufs 2 kgs", want: "oeufs"},
		{name: "removes kilo", input: "1 kilo d'oeufs", want: "d'oeufs"},
		{name: "removes fluid ounces", input: "32 fl. oz liquid eggs", want: "liquid eggs"},
		{name: "keeps bare l as caliber", input: "12 L", want: "12 l"},
		{name: "does not remove g inside words", input: "6 gros oeufs", want: "6 gros oeufs"},
		{name: "strips percentages", input: "oeufs 100 % bio 6", want: "oeufs bio 6"},
		{name: "rewrites half", input: "1/2 douzaine", want: ".5 douzaine"},
		{name: "rewrites half glyph", input: "½ douzaine", want: ".5 douzaine"},
		{name: "rewrites one", input: "One dozen", want: "1 dozen"},
		{name: "rewrites une", input: "une douzaine", want: "1 douzaine"},
		{name: "does not rewrite one inside words", input: "someone", want: "someone"},
		{name: "strips omega 3", input: "6 oeufs omega 3", want: "6 oeufs"},
		{name: "strips omega-3", input: "omega-3 x10", want: "x10"},
		{name: "strips size codes", input: "size 2 12 eggs", want: "12 eggs"},
		{name: "strips accents and ligatures", input: "6 Œufs frais", want: "6 oeufs frais"},
		{name: "collapses whitespace", input: "  10   +  2 ", want: "10 + 2"},
		{name: "keeps addition", input: "10 + 2", want: "10 + 2"},
		{name: "empty input", input: "", want: ""},
		{name: "whitespace input", input: "   ", want: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Count(tc.input))
		})
	}
}

func TestCaliber(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "drops digits", input: "12 Large", want: "large"},
		{name: "drops punctuation", input: "Oeufs (calibre M/L)", want: "oeufs calibre m l"},
		{name: "hyphens become spaces", input: "Cage-Free", want: "cage free"},
		{name: "keeps apostrophes", input: "L'œuf frais", want: "l'oeuf frais"},
		{name: "folds typographic apostrophe", input: "all’aperto", want: "all'aperto"},
		{name: "strips accents", input: "Élevées en plein air", want: "elevees en plein air"},
		{name: "digits glued to words", input: "x6 œufs 53-63g", want: "x oeufs g"},
		{name: "empty input", input: "", want: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Caliber(tc.input))
		})
	}
}

func TestWeight(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"500 G", "500 g"},
		{"1 200 g", "1200 g"},
		{"1 000 000 g", "1000000 g"},
		{"1,5 kg", "1,5 kg"},
		{"Œufs 12 x 63 g", "oeufs 12 x 63 g"},
		{"", ""},
	}
	for _, tt := range tests {
		got := Weight(tt.input)
		if got != tt.want {
			t.Errorf("Weight(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTag(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"en:free-range-chicken-eggs", "free range chicken eggs"},
		{"fr:oeufs-de-poules-élevées-au-sol", "oeufs de poules elevees au sol"},
		{" EN:Cage-Free ", "cage free"},
		{"no-prefix", "no prefix"},
		{"", ""},
	}
	for _, tt := range tests {
		got := Tag(tt.input)
		if got != tt.want {
			t.Errorf("Tag(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizationIsIdempotent(t *testing.T) {
	inputs := []string{
		"6",
		"1 dozen",
		"12 large",
		"10 + 2",
		"500 g",
		"1 200 g",
		"6 oeufs 53-63 g",
		"53-63-73 g",
		"Boîte de 12 Œufs frais calibre M - 12 x 53 g",
		"1 5g 200",
		"oeufs 100 % % bio",
		"½ douzaine d'œufs omega-3",
		"Eier Größe L, 10 Stück",
		"",
		"   ",
	}

	profiles := map[string]func(string) string{
		"count":   Count,
		"caliber": Caliber,
		"weight":  Weight,
	}

	for name, profile := range profiles {
		for _, input := range inputs {
			once := profile(input)
			twice := profile(once)
			assert.Equal(t, once, twice, "%s profile not idempotent for %q", name, input)
		}
	}
}
