package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreIdentity(t *testing.T) {
	for _, s := range []string{"product", "Produktfamilie", "lead_time", "Hersteller-Link"} {
		assert.Equal(t, 1.0, Score(s, s), "identity for %q", s)
	}
}

func TestScoreSymmetry(t *testing.T) {
	pairs := [][2]string{
		{"product", "produkt"},
		{"manufacturer", "Hersteller"},
		{"price", "pricing"},
		{"", "anything"},
	}
	for _, p := range pairs {
		assert.Equal(t, Score(p[0], p[1]), Score(p[1], p[0]), "symmetry for %q/%q", p[0], p[1])
	}
}

func TestScoreNormalizationIdempotence(t *testing.T) {
	pairs := [][2]string{
		{"Product_Family", "Produktfamilie"},
		{"Lead Time", "lead-time"},
		{"Straße", "strasse"},
	}
	for _, p := range pairs {
		assert.Equal(t, Score(p[0], p[1]), Score(Normalize(p[0]), Normalize(p[1])))
	}
}

func TestScoreExactAfterNormalization(t *testing.T) {
	assert.Equal(t, 1.0, Score("lead_time", "Lead Time"))
	assert.Equal(t, 1.0, Score("Lead-Time", "LEADTIME"))
	assert.Equal(t, 1.0, Score("straße", "Strasse"))
	assert.Equal(t, 1.0, Score("", "  "))
}

func TestScoreContainment(t *testing.T) {
	assert.Equal(t, 0.8, Score("product", "product_name"))
	assert.Equal(t, 0.8, Score("Cross-Sell Produkt", "produkt"))
}

func TestScoreLevenshteinFallback(t *testing.T) {
	// "kitten" vs "sitting": distance 3, max length 7.
	assert.InDelta(t, 4.0/7.0, Score("kitten", "sitting"), 1e-12)
	// Entirely different strings of equal length score 0.
	assert.Equal(t, 0.0, Score("abc", "xyz"))
}

func TestNormalizeFoldsUmlauts(t *testing.T) {
	assert.Equal(t, "produktfamilie", Normalize("Prödukt_Familie"))
	assert.Equal(t, "grossehersteller", Normalize("Große-Hersteller"))
}
