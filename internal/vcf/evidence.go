package vcf

import (
	"fmt"
	"strconv"
	"strings"
)

// FORMAT keys carrying read evidence. NR/NV are per-allele (Number=A) counts
// emitted by Platypus; DP/AD are the GATK-style fallbacks.
const (
	FormatTotalReads   = "NR"
	FormatVariantReads = "NV"
	FormatDepth        = "DP"
	FormatAlleleDepth  = "AD"
)

// extractEvidence reads the evidence for the alternate allele at altIndex
// from a sample's FORMAT values.
func extractEvidence(sample map[string]string, altIndex int) (Evidence, error) {
	var ev Evidence
	if len(sample) == 0 {
		return ev, nil
	}

	if raw, ok := sample[FormatTotalReads]; ok {
		n, ok, err := perAllele(raw, altIndex)
		if err != nil {
			return ev, fmt.Errorf("%s: %w", FormatTotalReads, err)
		}
		ev.Depth, ev.HasDepth = n, ok
	} else if raw, ok := sample[FormatDepth]; ok {
		n, ok, err := parseCount(raw)
		if err != nil {
			return ev, fmt.Errorf("%s: %w", FormatDepth, err)
		}
		ev.Depth, ev.HasDepth = n, ok
	}

	if raw, ok := sample[FormatVariantReads]; ok {
		n, ok, err := perAllele(raw, altIndex)
		if err != nil {
			return ev, fmt.Errorf("%s: %w", FormatVariantReads, err)
		}
		ev.Support, ev.HasSupport = n, ok
	} else if raw, ok := sample[FormatAlleleDepth]; ok {
		// AD is Number=R: the reference count comes first.
		n, ok, err := perAllele(raw, altIndex+1)
		if err != nil {
			return ev, fmt.Errorf("%s: %w", FormatAlleleDepth, err)
		}
		ev.Support, ev.HasSupport = n, ok
	}

	return ev, nil
}

// perAllele picks the value at index from a comma-separated list. A single
// value applies to every allele.
func perAllele(raw string, index int) (int, bool, error) {
	values := strings.Split(raw, ",")
	if len(values) == 1 {
		return parseCount(values[0])
	}
	if index >= len(values) {
		return 0, false, fmt.Errorf("no value for allele %d in %q", index, raw)
	}
	return parseCount(values[index])
}

func parseCount(raw string) (int, bool, error) {
	if raw == "" || raw == "." {
		return 0, false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("invalid count %q", raw)
	}
	return n, true, nil
}

// parseSample zips a FORMAT column with one sample column.
func parseSample(format, sample string) map[string]string {
	keys := strings.Split(format, ":")
	values := strings.Split(sample, ":")
	result := make(map[string]string, len(keys))
	for i, k := range keys {
		if i < len(values) {
			result[k] = values[i]
		}
	}
	return result
}
