package annotate

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/inodb/varannot/internal/vcf"
)

// Run annotates records and resolves one row per record, in input order.
// Records are validated before any lookup is made. The variations pass
// starts only after the effects pass has completed for every record.
func (e *Engine) Run(ctx context.Context, records []*vcf.Variant) ([]Row, error) {
	if err := Validate(records); err != nil {
		return nil, err
	}

	effects, err := e.AnnotateEffects(ctx, records)
	if err != nil {
		return nil, err
	}

	variations, err := e.AnnotateVariations(ctx, records, effects)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, len(records))
	for i, v := range records {
		rows[i] = Resolve(v, effects[i], variations[i])
	}

	if len(records) == 0 {
		e.logger.Info("0 variants processed")
	} else {
		e.logger.Info("variants resolved", zap.Int("count", len(rows)))
	}
	return rows, nil
}

// Validate checks that every record is complete enough to be keyed and
// that its evidence counts are consistent.
func Validate(records []*vcf.Variant) error {
	for i, v := range records {
		if v == nil {
			return &RecordError{Index: i, Reason: "nil record"}
		}

		var reason string
		switch {
		case v.Chrom == "":
			reason = "missing chromosome"
		case v.Pos < 1:
			reason = fmt.Sprintf("invalid position %d", v.Pos)
		case v.Ref == "" || v.Ref == ".":
			reason = "missing reference allele"
		case v.Alt == "" || v.Alt == ".":
			reason = "missing alternate allele"
		case strings.Contains(v.Alt, ","):
			reason = "multi-allelic record not split"
		case v.Evidence.Depth < 0 || v.Evidence.Support < 0:
			reason = "negative read count"
		case v.Evidence.HasDepth && v.Evidence.HasSupport && v.Evidence.Support > v.Evidence.Depth:
			reason = fmt.Sprintf("supporting reads %d exceed depth %d", v.Evidence.Support, v.Evidence.Depth)
		}
		if reason != "" {
			return &RecordError{Index: i, Line: v.Line, Locus: v.Locus(), Reason: reason}
		}
	}
	return nil
}

// RecordError reports a malformed input record.
type RecordError struct {
	Index  int    // position in the record list
	Line   int    // input line, 0 if unknown
	Locus  string // chrom:pos ref>alt
	Reason string
}

func (e *RecordError) Error() string {
	where := fmt.Sprintf("record %d", e.Index+1)
	if e.Line > 0 {
		where += fmt.Sprintf(" (line %d)", e.Line)
	}
	if e.Locus != "" {
		where += " " + e.Locus
	}
	return "invalid " + where + ": " + e.Reason
}
