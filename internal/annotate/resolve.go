package annotate

import (
	"math"
	"strconv"

	"github.com/inodb/varannot/internal/ensembl"
	"github.com/inodb/varannot/internal/vcf"
)

// Unavailable marks a value the inputs do not provide. It is distinct from
// "0", which is a real depth, percentage or frequency.
const Unavailable = "N/A"

// ignoredGeneSources are symbol sources that name clones or proteins rather
// than genes.
var ignoredGeneSources = map[string]bool{
	"Clone_based_vega_gene":    true,
	"Clone_based_ensembl_gene": true,
	"Uniprot_gn":               true,
}

// Row is the resolved output for one variant.
type Row struct {
	// Locus of the source record.
	Chrom string
	Pos   string
	ID    string
	Ref   string
	Alt   string

	Depth   string // total read depth
	Support string // reads supporting the alternate allele
	Percent string // support as a whole-number percentage of depth
	Gene    string
	Type    string // variant class
	Effect  string // consequence
	MAF     string // population minor allele frequency
}

// Fields returns the seven resolved columns in output order.
func (r Row) Fields() []string {
	return []string{r.Depth, r.Support, r.Percent, r.Gene, r.Type, r.Effect, r.MAF}
}

// LocusFields returns the source locus columns.
func (r Row) LocusFields() []string {
	return []string{r.Chrom, r.Pos, r.ID, r.Ref, r.Alt}
}

// Resolve derives the output row for v from its two annotation payloads,
// either of which may be nil. It is a pure function of its arguments.
func Resolve(v *vcf.Variant, effect *ensembl.EffectPayload, variation *ensembl.VariationPayload) Row {
	ev := v.Evidence
	row := Row{
		Chrom:   v.Chrom,
		Pos:     strconv.FormatInt(v.Pos, 10),
		ID:      orUnavailable(Identifier(v, effect)),
		Ref:     v.Ref,
		Alt:     v.Alt,
		Depth:   Unavailable,
		Support: Unavailable,
		Percent: SupportPercent(ev),
		Gene:    orUnavailable(ResolveGene(effect)),
		Type:    orUnavailable(ResolveType(effect, variation)),
		Effect:  orUnavailable(ResolveEffect(effect)),
		MAF:     FormatMAF(variation),
	}
	if ev.HasDepth {
		row.Depth = strconv.Itoa(ev.Depth)
	}
	if ev.HasSupport {
		row.Support = strconv.Itoa(ev.Support)
	}
	return row
}

// SupportPercent returns round(100 * support / depth) as an integer string,
// rounding halves away from zero. Zero depth yields "0".
func SupportPercent(ev vcf.Evidence) string {
	if !ev.HasDepth || !ev.HasSupport {
		return Unavailable
	}
	if ev.Depth == 0 {
		return "0"
	}
	pct := math.Round(100 * float64(ev.Support) / float64(ev.Depth))
	return strconv.Itoa(int(pct))
}

// ResolveGene selects the gene symbol from the effect payload.
func ResolveGene(effect *ensembl.EffectPayload) string {
	return Select(Candidates(effect, func(tc *ensembl.TranscriptConsequence) string {
		if ignoredGeneSources[tc.GeneSymbolSource] {
			return ""
		}
		return tc.GeneSymbol
	}))
}

// ResolveEffect selects the consequence. Each transcript contributes the
// payload's most severe consequence if it carries it, else its own most
// severe term. Payloads without transcript data fall back to the top-level
// most severe consequence (e.g. intergenic variants).
func ResolveEffect(effect *ensembl.EffectPayload) string {
	if effect == nil {
		return ""
	}
	picked := Select(Candidates(effect, func(tc *ensembl.TranscriptConsequence) string {
		if effect.MostSevereConsequence != "" && tc.HasTerm(effect.MostSevereConsequence) {
			return effect.MostSevereConsequence
		}
		return MostSevereTerm(tc.ConsequenceTerms)
	}))
	if picked == "" {
		return effect.MostSevereConsequence
	}
	return picked
}

// ResolveType selects the variant class. The variation record's class is
// authoritative when present; otherwise the effect payload's transcripts
// are reduced, falling back to its top-level class.
func ResolveType(effect *ensembl.EffectPayload, variation *ensembl.VariationPayload) string {
	if variation != nil && variation.VarClass != "" {
		return variation.VarClass
	}
	if effect == nil {
		return ""
	}
	picked := Select(Candidates(effect, func(tc *ensembl.TranscriptConsequence) string {
		return tc.VariantClass
	}))
	if picked == "" {
		return effect.VariantClass
	}
	return picked
}

// FormatMAF formats the minor allele frequency from the variation payload
// in its shortest exact form. A missing payload or null frequency yields
// Unavailable; a frequency of zero yields "0".
func FormatMAF(variation *ensembl.VariationPayload) string {
	if variation == nil || variation.MAF == nil {
		return Unavailable
	}
	return strconv.FormatFloat(*variation.MAF, 'f', -1, 64)
}

func orUnavailable(s string) string {
	if s == "" {
		return Unavailable
	}
	return s
}
