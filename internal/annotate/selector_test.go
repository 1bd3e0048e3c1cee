package annotate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inodb/varannot/internal/ensembl"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		name       string
		candidates []Candidate
		want       string
	}{
		{"none", nil, ""},
		{"all empty", []Candidate{{Value: ""}, {Value: "", Canonical: true}}, ""},
		{"first listed", []Candidate{{Value: "A"}, {Value: "B"}}, "A"},
		{"canonical wins", []Candidate{{Value: "A"}, {Value: "B", Canonical: true}}, "B"},
		{"most severe over plain", []Candidate{{Value: "A"}, {Value: "B", MostSevere: true}}, "B"},
		{"canonical over most severe", []Candidate{{Value: "A", MostSevere: true}, {Value: "B", Canonical: true}}, "B"},
		{"canonical and most severe", []Candidate{
			{Value: "A", Canonical: true},
			{Value: "B", Canonical: true, MostSevere: true},
		}, "B"},
		{"first canonical on tie", []Candidate{
			{Value: "A"},
			{Value: "B", Canonical: true},
			{Value: "C", Canonical: true},
		}, "B"},
		{"empty canonical skipped", []Candidate{{Value: "", Canonical: true}, {Value: "B"}}, "B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Select(tt.candidates))
		})
	}
}

func TestSelect_OrderIndependentOfCanonicalPosition(t *testing.T) {
	a := []Candidate{{Value: "X", Canonical: true}, {Value: "Y"}, {Value: "Z"}}
	b := []Candidate{{Value: "Y"}, {Value: "Z"}, {Value: "X", Canonical: true}}
	assert.Equal(t, "X", Select(a))
	assert.Equal(t, "X", Select(b))
}

func TestCandidates(t *testing.T) {
	p := &ensembl.EffectPayload{
		MostSevereConsequence: ConsequenceMissenseVariant,
		TranscriptConsequences: []ensembl.TranscriptConsequence{
			{GeneSymbol: "G1", ConsequenceTerms: []string{ConsequenceIntronVariant}},
			{GeneSymbol: "G2", ConsequenceTerms: []string{ConsequenceMissenseVariant}, Canonical: 1},
		},
	}

	got := Candidates(p, func(tc *ensembl.TranscriptConsequence) string { return tc.GeneSymbol })
	assert.Equal(t, []Candidate{
		{Value: "G1"},
		{Value: "G2", Canonical: true, MostSevere: true},
	}, got)

	assert.Nil(t, Candidates(nil, func(*ensembl.TranscriptConsequence) string { return "" }))
}
