package annotate

import (
	"strconv"
	"strings"

	"github.com/inodb/varannot/internal/ensembl"
	"github.com/inodb/varannot/internal/vcf"
)

// EffectKey builds the HGVS-style genomic notation used to look a variant up
// on the VEP HGVS endpoint, e.g. "1:g.1158631A>G". The "chr" prefix is
// dropped to match Ensembl sequence region names.
func EffectKey(v *vcf.Variant) string {
	var b strings.Builder
	b.Grow(len(v.Chrom) + len(v.Ref) + len(v.Alt) + 16)
	b.WriteString(v.NormalizeChrom())
	b.WriteString(":g.")
	b.WriteString(strconv.FormatInt(v.Pos, 10))
	b.WriteString(v.Ref)
	b.WriteByte('>')
	b.WriteString(v.Alt)
	return b.String()
}

// Identifier returns the key used for the variation lookup: the record's own
// ID when it has one, otherwise the co-located variant reported by the effect
// payload. A VCF ID column holding several IDs prefers the first dbSNP one.
// Returns "" when no identifier is known.
func Identifier(v *vcf.Variant, effect *ensembl.EffectPayload) string {
	if v.HasID() {
		ids := strings.Split(v.ID, ";")
		for _, id := range ids {
			if strings.HasPrefix(id, "rs") {
				return id
			}
		}
		return ids[0]
	}
	if effect != nil {
		return effect.ColocatedID()
	}
	return ""
}

// KeyIndex groups record indices by lookup key. Keys keep the order in which
// they were first seen.
type KeyIndex struct {
	Keys    []string
	Records map[string][]int
}

// BuildKeyIndex keys n records with keyOf. Records with an empty key are left
// out of the index.
func BuildKeyIndex(n int, keyOf func(i int) string) *KeyIndex {
	idx := &KeyIndex{Records: make(map[string][]int)}
	for i := 0; i < n; i++ {
		k := keyOf(i)
		if k == "" {
			continue
		}
		if _, seen := idx.Records[k]; !seen {
			idx.Keys = append(idx.Keys, k)
		}
		idx.Records[k] = append(idx.Records[k], i)
	}
	return idx
}

// Batches splits keys into consecutive batches of at most size keys.
// A size below 1 is treated as 1.
func Batches(keys []string, size int) [][]string {
	if size < 1 {
		size = 1
	}
	batches := make([][]string, 0, (len(keys)+size-1)/size)
	for start := 0; start < len(keys); start += size {
		end := min(start+size, len(keys))
		batches = append(batches, keys[start:end:end])
	}
	return batches
}
