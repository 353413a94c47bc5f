// Package output writes and reads the Kestrel interpretation tables.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/grailbio/base/tsv"

	"github.com/saei2021/ADTKD/internal/interpret"
)

// File names written into the sample output directory.
const (
	PreResultFileName = "kestrel_pre_result.tsv"
	ResultFileName    = "kestrel_result.tsv"
)

// PreResultColumns is the header of kestrel_pre_result.tsv.
var PreResultColumns = []string{
	"Motifs",
	"POS",
	"REF",
	"ALT",
	"Sample",
	"Motif_sequence",
	"Variant",
}

// ResultColumns is the header of kestrel_result.tsv.
var ResultColumns = []string{
	"Motif",
	"Motif_fasta",
	"Variant",
	"POS",
	"REF",
	"ALT",
	"Motif_sequence",
	"Estimated_Depth_AlternateVariant",
	"Estimated_Depth_Variant_ActiveRegion",
	"Depth_Score",
	"Confidence",
}

// TabWriter writes one of the tab-delimited interpretation tables.
type TabWriter struct {
	w       *tsv.Writer
	columns []string
}

// NewPreResultWriter creates a writer for normalized candidates.
func NewPreResultWriter(w io.Writer) *TabWriter {
	return &TabWriter{w: tsv.NewWriter(w), columns: PreResultColumns}
}

// NewResultWriter creates a writer for the final resolved table.
func NewResultWriter(w io.Writer) *TabWriter {
	return &TabWriter{w: tsv.NewWriter(w), columns: ResultColumns}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	tw.w.WriteString(strings.Join(tw.columns, "\t"))
	return tw.w.EndLine()
}

// WriteCandidate writes a pre-result row.
func (tw *TabWriter) WriteCandidate(c interpret.Candidate) error {
	tw.w.WriteString(c.MotifID)
	tw.w.WriteInt64(c.Pos)
	tw.w.WriteString(c.Ref)
	tw.w.WriteString(c.Alt)
	tw.w.WriteString(c.Sample)
	tw.w.WriteString(c.MotifSequence)
	tw.w.WriteString(string(c.Kind))
	return tw.w.EndLine()
}

// WriteVariant writes a final result row.
func (tw *TabWriter) WriteVariant(v interpret.AnnotatedVariant) error {
	tw.w.WriteString(v.Motif)
	tw.w.WriteString(v.MotifFasta)
	tw.w.WriteString(string(v.Kind))
	tw.w.WriteInt64(v.Pos)
	tw.w.WriteString(v.Ref)
	tw.w.WriteString(v.Alt)
	tw.w.WriteString(v.MotifSequence)
	tw.w.WriteInt64(int64(v.AltDepth))
	tw.w.WriteInt64(int64(v.ActiveRegionDepth))
	tw.w.WriteString(FormatScore(v.DepthScore))
	tw.w.WriteString(string(v.Confidence))
	return tw.w.EndLine()
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

// FormatScore renders a depth score with the fewest digits that round-trip.
func FormatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// WritePreResult writes the header and every candidate to w.
func WritePreResult(w io.Writer, cands []interpret.Candidate) error {
	tw := NewPreResultWriter(w)
	if err := tw.WriteHeader(); err != nil {
		return err
	}
	for _, c := range cands {
		if err := tw.WriteCandidate(c); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// WriteResult writes the header and every final row to w.
func WriteResult(w io.Writer, rows []interpret.AnnotatedVariant) error {
	tw := NewResultWriter(w)
	if err := tw.WriteHeader(); err != nil {
		return err
	}
	for _, v := range rows {
		if err := tw.WriteVariant(v); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// WriteResultFiles writes kestrel_pre_result.tsv and kestrel_result.tsv into
// dir and returns their paths.
func WriteResultFiles(dir string, res *interpret.Result) (prePath, resultPath string, err error) {
	prePath = filepath.Join(dir, PreResultFileName)
	if err := writeFile(prePath, func(w io.Writer) error { return WritePreResult(w, res.Candidates) }); err != nil {
		return "", "", err
	}
	resultPath = filepath.Join(dir, ResultFileName)
	if err := writeFile(resultPath, func(w io.Writer) error { return WriteResult(w, res.Final) }); err != nil {
		return "", "", err
	}
	return prePath, resultPath, nil
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	if err := write(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
