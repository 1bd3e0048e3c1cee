// Package ensembl talks to the Ensembl REST service and models the payloads
// it returns for VEP HGVS and variation lookups.
package ensembl

import (
	"context"
	"strings"
)

// Lookup is the bulk annotation service used by the reconciliation pipeline.
// Both methods take one batch of distinct keys and return the payloads the
// service had data for, keyed by the requested key. Keys without data are
// simply absent from the result.
type Lookup interface {
	LookupEffects(ctx context.Context, keys []string) (map[string]*EffectPayload, error)
	LookupVariations(ctx context.Context, ids []string) (map[string]*VariationPayload, error)
}

// EffectPayload is one entry of a VEP HGVS response.
type EffectPayload struct {
	Input                  string                  `json:"input" mapstructure:"input"`
	AssemblyName           string                  `json:"assembly_name,omitempty" mapstructure:"assembly_name"`
	SeqRegionName          string                  `json:"seq_region_name,omitempty" mapstructure:"seq_region_name"`
	Start                  int64                   `json:"start,omitempty" mapstructure:"start"`
	AlleleString           string                  `json:"allele_string,omitempty" mapstructure:"allele_string"`
	MostSevereConsequence  string                  `json:"most_severe_consequence,omitempty" mapstructure:"most_severe_consequence"`
	VariantClass           string                  `json:"variant_class,omitempty" mapstructure:"variant_class"`
	TranscriptConsequences []TranscriptConsequence `json:"transcript_consequences,omitempty" mapstructure:"transcript_consequences"`
	ColocatedVariants      []ColocatedVariant      `json:"colocated_variants,omitempty" mapstructure:"colocated_variants"`
}

// TranscriptConsequence is the predicted effect on one transcript.
type TranscriptConsequence struct {
	TranscriptID     string   `json:"transcript_id,omitempty" mapstructure:"transcript_id"`
	GeneID           string   `json:"gene_id,omitempty" mapstructure:"gene_id"`
	GeneSymbol       string   `json:"gene_symbol,omitempty" mapstructure:"gene_symbol"`
	GeneSymbolSource string   `json:"gene_symbol_source,omitempty" mapstructure:"gene_symbol_source"`
	ConsequenceTerms []string `json:"consequence_terms,omitempty" mapstructure:"consequence_terms"`
	Impact           string   `json:"impact,omitempty" mapstructure:"impact"`
	Biotype          string   `json:"biotype,omitempty" mapstructure:"biotype"`
	VariantClass     string   `json:"variant_class,omitempty" mapstructure:"variant_class"`
	Canonical        int      `json:"canonical,omitempty" mapstructure:"canonical"`
}

// IsCanonical reports whether the service flagged this transcript as canonical.
func (tc *TranscriptConsequence) IsCanonical() bool {
	return tc.Canonical == 1
}

// HasTerm reports whether term is among the transcript's consequence terms.
func (tc *TranscriptConsequence) HasTerm(term string) bool {
	for _, t := range tc.ConsequenceTerms {
		if t == term {
			return true
		}
	}
	return false
}

// ColocatedVariant is a known variant at the same position.
type ColocatedVariant struct {
	ID              string   `json:"id" mapstructure:"id"`
	AlleleString    string   `json:"allele_string,omitempty" mapstructure:"allele_string"`
	MinorAllele     string   `json:"minor_allele,omitempty" mapstructure:"minor_allele"`
	MinorAlleleFreq *float64 `json:"minor_allele_freq,omitempty" mapstructure:"minor_allele_freq"`
}

// ColocatedID picks the identifier of the co-located variant. The first
// dbSNP (rs) identifier wins; otherwise the first listed identifier is used.
// Returns "" if there are none.
func (p *EffectPayload) ColocatedID() string {
	id := ""
	for _, cv := range p.ColocatedVariants {
		if strings.HasPrefix(cv.ID, "rs") {
			return cv.ID
		}
		if id == "" {
			id = cv.ID
		}
	}
	return id
}

// VariationPayload is one entry of a variation/homo_sapiens response.
type VariationPayload struct {
	Name        string   `json:"name" mapstructure:"name"`
	VarClass    string   `json:"var_class,omitempty" mapstructure:"var_class"`
	MAF         *float64 `json:"MAF" mapstructure:"MAF"`
	MinorAllele string   `json:"minor_allele,omitempty" mapstructure:"minor_allele"`
	Ambiguity   string   `json:"ambiguity,omitempty" mapstructure:"ambiguity"`
	Source      string   `json:"source,omitempty" mapstructure:"source"`
	Synonyms    []string `json:"synonyms,omitempty" mapstructure:"synonyms"`
}
