package annotate

// Consequence types (Sequence Ontology terms) referenced by name.
const (
	ConsequenceStopGained        = "stop_gained"
	ConsequenceFrameshiftVariant = "frameshift_variant"
	ConsequenceMissenseVariant   = "missense_variant"
	ConsequenceSpliceRegion      = "splice_region_variant"
	ConsequenceSynonymousVariant = "synonymous_variant"
	ConsequenceIntronVariant     = "intron_variant"
	ConsequenceUpstreamGene      = "upstream_gene_variant"
	ConsequenceIntergenicVariant = "intergenic_variant"
)

// severityOrder lists SO consequence terms from most to least severe, as
// ranked by Ensembl VEP.
var severityOrder = []string{
	"transcript_ablation",
	"splice_acceptor_variant",
	"splice_donor_variant",
	ConsequenceStopGained,
	ConsequenceFrameshiftVariant,
	"stop_lost",
	"start_lost",
	"transcript_amplification",
	"feature_elongation",
	"feature_truncation",
	"inframe_insertion",
	"inframe_deletion",
	ConsequenceMissenseVariant,
	"protein_altering_variant",
	"splice_donor_5th_base_variant",
	ConsequenceSpliceRegion,
	"splice_donor_region_variant",
	"splice_polypyrimidine_tract_variant",
	"incomplete_terminal_codon_variant",
	"start_retained_variant",
	"stop_retained_variant",
	ConsequenceSynonymousVariant,
	"coding_sequence_variant",
	"mature_miRNA_variant",
	"5_prime_UTR_variant",
	"3_prime_UTR_variant",
	"non_coding_transcript_exon_variant",
	ConsequenceIntronVariant,
	"NMD_transcript_variant",
	"non_coding_transcript_variant",
	"coding_transcript_variant",
	ConsequenceUpstreamGene,
	"downstream_gene_variant",
	"TFBS_ablation",
	"TFBS_amplification",
	"TF_binding_site_variant",
	"regulatory_region_ablation",
	"regulatory_region_amplification",
	"regulatory_region_variant",
	ConsequenceIntergenicVariant,
	"sequence_variant",
}

var severityRank = func() map[string]int {
	m := make(map[string]int, len(severityOrder))
	for i, term := range severityOrder {
		m[term] = len(severityOrder) - i
	}
	return m
}()

// SeverityRank returns a numeric rank for a consequence term (higher = more
// severe). Unknown terms rank 0.
func SeverityRank(term string) int {
	return severityRank[term]
}

// MostSevereTerm returns the most severe of terms, the first listed on ties.
func MostSevereTerm(terms []string) string {
	best := ""
	bestRank := -1
	for _, t := range terms {
		if r := SeverityRank(t); r > bestRank {
			best, bestRank = t, r
		}
	}
	return best
}
