// Package output provides annotation output formatters.
package output

import (
	"bufio"
	"io"
	"strings"

	"github.com/inodb/varannot/internal/annotate"
)

// Columns are the fixed annotation columns written for every variant.
var Columns = []string{
	"total_depth",
	"variant_depth",
	"variant_percentage",
	"gene",
	"variation_type",
	"variation_effect",
	"MAF",
}

// LocusColumns are the optional columns identifying the source record.
var LocusColumns = []string{"chrom", "pos", "id", "ref", "alt"}

// TabWriter writes resolved rows in tab-delimited format.
type TabWriter struct {
	w       *bufio.Writer
	locus   bool
	columns []string
}

// NewTabWriter creates a new tab-delimited writer. With locus set, every
// row is prefixed by the record's chrom, pos, id, ref and alt.
func NewTabWriter(w io.Writer, locus bool) *TabWriter {
	columns := Columns
	if locus {
		columns = append(append([]string{}, LocusColumns...), Columns...)
	}
	return &TabWriter{
		w:       bufio.NewWriter(w),
		locus:   locus,
		columns: columns,
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes a single row.
func (tw *TabWriter) Write(row annotate.Row) error {
	fields := row.Fields()
	if tw.locus {
		fields = append(row.LocusFields(), fields...)
	}
	for i, f := range fields {
		// Tabs or newlines inside a value would shift columns.
		fields[i] = sanitize(f)
	}
	_, err := tw.w.WriteString(strings.Join(fields, "\t") + "\n")
	return err
}

// WriteAll writes every row in order.
func (tw *TabWriter) WriteAll(rows []annotate.Row) error {
	for _, row := range rows {
		if err := tw.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes any buffered data.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

func sanitize(s string) string {
	if !strings.ContainsAny(s, "\t\r\n") {
		return s
	}
	return strings.NewReplacer("\t", " ", "\r", " ", "\n", " ").Replace(s)
}
