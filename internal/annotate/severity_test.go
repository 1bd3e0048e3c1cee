package annotate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityRank(t *testing.T) {
	assert.Greater(t, SeverityRank(ConsequenceStopGained), SeverityRank(ConsequenceMissenseVariant))
	assert.Greater(t, SeverityRank(ConsequenceMissenseVariant), SeverityRank(ConsequenceSynonymousVariant))
	assert.Greater(t, SeverityRank(ConsequenceIntronVariant), SeverityRank(ConsequenceIntergenicVariant))
	assert.Equal(t, 0, SeverityRank("made_up_term"))
}

func TestMostSevereTerm(t *testing.T) {
	tests := []struct {
		name  string
		terms []string
		want  string
	}{
		{"empty", nil, ""},
		{"single", []string{ConsequenceIntronVariant}, ConsequenceIntronVariant},
		{"ordered", []string{ConsequenceSpliceRegion, ConsequenceIntronVariant}, ConsequenceSpliceRegion},
		{"reversed", []string{ConsequenceIntronVariant, ConsequenceFrameshiftVariant}, ConsequenceFrameshiftVariant},
		{"unknown only", []string{"novel_a", "novel_b"}, "novel_a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MostSevereTerm(tt.terms))
		})
	}
}
