package annotate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inodb/varannot/internal/ensembl"
	"github.com/inodb/varannot/internal/vcf"
)

func floatPtr(f float64) *float64 { return &f }

func evidence(depth, support int) vcf.Evidence {
	return vcf.Evidence{Depth: depth, Support: support, HasDepth: true, HasSupport: true}
}

func TestSupportPercent(t *testing.T) {
	tests := []struct {
		name string
		ev   vcf.Evidence
		want string
	}{
		{"exact", evidence(50, 10), "20"},
		{"all reads", evidence(33, 33), "100"},
		{"round down", evidence(3, 1), "33"},
		{"round up", evidence(3, 2), "67"},
		{"half rounds away from zero", evidence(8, 1), "13"},
		{"zero depth", evidence(0, 0), "0"},
		{"no support reads", evidence(40, 0), "0"},
		{"unknown depth", vcf.Evidence{Support: 3, HasSupport: true}, Unavailable},
		{"unknown support", vcf.Evidence{Depth: 3, HasDepth: true}, Unavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SupportPercent(tt.ev))
		})
	}
}

func TestFormatMAF(t *testing.T) {
	assert.Equal(t, Unavailable, FormatMAF(nil))
	assert.Equal(t, Unavailable, FormatMAF(&ensembl.VariationPayload{}))
	assert.Equal(t, "0", FormatMAF(&ensembl.VariationPayload{MAF: floatPtr(0)}))
	assert.Equal(t, "0.05", FormatMAF(&ensembl.VariationPayload{MAF: floatPtr(0.05)}))
	assert.Equal(t, "0.000199681", FormatMAF(&ensembl.VariationPayload{MAF: floatPtr(0.000199681)}))
}

func TestResolveGene(t *testing.T) {
	p := &ensembl.EffectPayload{
		MostSevereConsequence: ConsequenceMissenseVariant,
		TranscriptConsequences: []ensembl.TranscriptConsequence{
			{GeneSymbol: "AL645608.1", GeneSymbolSource: "Clone_based_vega_gene", ConsequenceTerms: []string{ConsequenceMissenseVariant}, Canonical: 1},
			{GeneSymbol: "SDF4", GeneSymbolSource: "HGNC", ConsequenceTerms: []string{ConsequenceUpstreamGene}},
			{GeneSymbol: "B3GALT6", GeneSymbolSource: "HGNC", ConsequenceTerms: []string{ConsequenceMissenseVariant}},
		},
	}

	// The canonical clone-based symbol is ignored; B3GALT6 carries the most
	// severe consequence.
	assert.Equal(t, "B3GALT6", ResolveGene(p))
	assert.Equal(t, "", ResolveGene(nil))
	assert.Equal(t, "", ResolveGene(&ensembl.EffectPayload{MostSevereConsequence: ConsequenceIntergenicVariant}))
}

func TestResolveEffect(t *testing.T) {
	tests := []struct {
		name string
		p    *ensembl.EffectPayload
		want string
	}{
		{"nil payload", nil, ""},
		{
			name: "intergenic without transcripts",
			p:    &ensembl.EffectPayload{MostSevereConsequence: ConsequenceIntergenicVariant},
			want: ConsequenceIntergenicVariant,
		},
		{
			name: "canonical transcript effect",
			p: &ensembl.EffectPayload{
				MostSevereConsequence: ConsequenceStopGained,
				TranscriptConsequences: []ensembl.TranscriptConsequence{
					{ConsequenceTerms: []string{ConsequenceStopGained}},
					{ConsequenceTerms: []string{ConsequenceIntronVariant, ConsequenceSpliceRegion}, Canonical: 1},
				},
			},
			want: ConsequenceSpliceRegion,
		},
		{
			name: "most severe transcript without canonical",
			p: &ensembl.EffectPayload{
				MostSevereConsequence: ConsequenceMissenseVariant,
				TranscriptConsequences: []ensembl.TranscriptConsequence{
					{ConsequenceTerms: []string{ConsequenceUpstreamGene}},
					{ConsequenceTerms: []string{ConsequenceSpliceRegion, ConsequenceMissenseVariant}},
				},
			},
			want: ConsequenceMissenseVariant,
		},
		{
			name: "transcripts without terms",
			p: &ensembl.EffectPayload{
				MostSevereConsequence:  ConsequenceSynonymousVariant,
				TranscriptConsequences: []ensembl.TranscriptConsequence{{GeneSymbol: "X"}},
			},
			want: ConsequenceSynonymousVariant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveEffect(tt.p))
		})
	}
}

func TestResolveType(t *testing.T) {
	effect := &ensembl.EffectPayload{
		VariantClass: "SNV",
		TranscriptConsequences: []ensembl.TranscriptConsequence{
			{VariantClass: "substitution"},
			{VariantClass: "SNV", Canonical: 1},
		},
	}

	assert.Equal(t, "SNP", ResolveType(effect, &ensembl.VariationPayload{VarClass: "SNP"}), "variation class confirms type")
	assert.Equal(t, "SNV", ResolveType(effect, &ensembl.VariationPayload{}), "canonical transcript class")
	assert.Equal(t, "deletion", ResolveType(&ensembl.EffectPayload{VariantClass: "deletion"}, nil), "top-level fallback")
	assert.Equal(t, "", ResolveType(nil, nil))
}

func TestResolve_ConcreteScenario(t *testing.T) {
	v := &vcf.Variant{Chrom: "1", Pos: 100, ID: "rs123", Ref: "A", Alt: "T", Evidence: evidence(50, 10)}
	effect := &ensembl.EffectPayload{
		Input:                 "1:g.100A>T",
		MostSevereConsequence: "missense",
		VariantClass:          "SNV",
		TranscriptConsequences: []ensembl.TranscriptConsequence{
			{GeneSymbol: "BRCA1", ConsequenceTerms: []string{"missense"}},
		},
	}
	variation := &ensembl.VariationPayload{Name: "rs123", MAF: floatPtr(0.05)}

	row := Resolve(v, effect, variation)
	assert.Equal(t, []string{"50", "10", "20", "BRCA1", "SNV", "missense", "0.05"}, row.Fields())
	assert.Equal(t, []string{"1", "100", "rs123", "A", "T"}, row.LocusFields())
}

func TestResolve_NoAnnotation(t *testing.T) {
	v := &vcf.Variant{Chrom: "2", Pos: 300, ID: ".", Ref: "C", Alt: "T", Evidence: evidence(0, 0)}

	row := Resolve(v, nil, nil)
	assert.Equal(t, []string{"0", "0", "0", Unavailable, Unavailable, Unavailable, Unavailable}, row.Fields())
	assert.Equal(t, Unavailable, row.ID)
}

func TestResolve_Deterministic(t *testing.T) {
	v := &vcf.Variant{Chrom: "1", Pos: 1, Ref: "A", Alt: "G", Evidence: evidence(9, 4)}
	effect := &ensembl.EffectPayload{
		MostSevereConsequence: ConsequenceMissenseVariant,
		TranscriptConsequences: []ensembl.TranscriptConsequence{
			{GeneSymbol: "A1", ConsequenceTerms: []string{ConsequenceMissenseVariant}},
			{GeneSymbol: "A2", ConsequenceTerms: []string{ConsequenceMissenseVariant}},
		},
	}

	first := Resolve(v, effect, nil)
	for range 20 {
		assert.Equal(t, first, Resolve(v, effect, nil))
	}
	assert.Equal(t, "A1", first.Gene)
}
