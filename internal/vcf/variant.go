// Package vcf provides VCF file parsing functionality.
package vcf

import "strconv"

// MissingID is the VCF placeholder for an absent identifier.
const MissingID = "."

// Variant represents a single genomic variant from a VCF file.
type Variant struct {
	Chrom  string                 // Chromosome name (e.g., "1", "chr1")
	Pos    int64                  // 1-based genomic position
	ID     string                 // Variant identifier (e.g., rs ID), "." if absent
	Ref    string                 // Reference allele
	Alt    string                 // Alternate allele (single allele after splitting)
	Qual   float64                // Quality score
	Filter string                 // Filter status (PASS or filter name)
	Info   map[string]interface{} // INFO field key-value pairs
	Line   int                    // Input line the variant was read from

	// Sample holds FORMAT key -> value for the first sample column.
	Sample map[string]string

	// Evidence is the read support for Alt, filled in by SplitMultiAllelic.
	Evidence Evidence
}

// Evidence holds read counts for one alternate allele.
type Evidence struct {
	Depth      int  // Total reads covering the site
	Support    int  // Reads supporting the alternate allele
	HasDepth   bool // Depth was present in the record
	HasSupport bool // Support was present in the record
}

// HasID reports whether the variant carries an identifier.
func (v *Variant) HasID() bool {
	return v.ID != "" && v.ID != MissingID
}

// NormalizeChrom returns the chromosome name without "chr" prefix.
func (v *Variant) NormalizeChrom() string {
	if len(v.Chrom) > 3 && v.Chrom[:3] == "chr" {
		return v.Chrom[3:]
	}
	return v.Chrom
}

// Locus formats the variant as chrom:pos ref>alt for log and error messages.
func (v *Variant) Locus() string {
	return v.Chrom + ":" + strconv.FormatInt(v.Pos, 10) + " " + v.Ref + ">" + v.Alt
}
