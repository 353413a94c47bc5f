package output

import (
	"io"
	"strings"

	"github.com/grailbio/base/tsv"

	"github.com/saei2021/ADTKD/internal/duckdb"
	"github.com/saei2021/ADTKD/internal/interpret"
)

// SummaryColumns is the header of the cohort summary table.
var SummaryColumns = []string{
	"Sample",
	"Runs",
	"Variants",
	string(interpret.LowPrecision),
	string(interpret.HighPrecision),
	string(interpret.HighPrecisionStar),
}

// WriteSummary writes per-sample confidence counts as a tab-delimited table.
func WriteSummary(w io.Writer, rows []duckdb.SampleSummary) error {
	tw := tsv.NewWriter(w)
	tw.WriteString(strings.Join(SummaryColumns, "\t"))
	if err := tw.EndLine(); err != nil {
		return err
	}
	for _, s := range rows {
		tw.WriteString(s.Sample)
		tw.WriteInt64(s.Runs)
		tw.WriteInt64(s.Total)
		tw.WriteInt64(s.LowPrecision)
		tw.WriteInt64(s.HighPrecision)
		tw.WriteInt64(s.HighPrecisionStar)
		if err := tw.EndLine(); err != nil {
			return err
		}
	}
	return tw.Flush()
}
