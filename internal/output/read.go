package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/grailbio/base/tsv"

	"github.com/saei2021/ADTKD/internal/interpret"
)

type resultRow struct {
	Motif         string  `tsv:"Motif"`
	MotifFasta    string  `tsv:"Motif_fasta"`
	Variant       string  `tsv:"Variant"`
	Pos           int64   `tsv:"POS"`
	Ref           string  `tsv:"REF"`
	Alt           string  `tsv:"ALT"`
	MotifSequence string  `tsv:"Motif_sequence"`
	AltDepth      int64   `tsv:"Estimated_Depth_AlternateVariant"`
	ActiveDepth   int64   `tsv:"Estimated_Depth_Variant_ActiveRegion"`
	DepthScore    float64 `tsv:"Depth_Score"`
	Confidence    string  `tsv:"Confidence"`
}

// ReadFinalTable parses a kestrel_result.tsv table. The header must list
// ResultColumns in order. The original Kestrel position is not part of the
// table, so PosFasta is left zero.
func ReadFinalTable(r io.Reader) ([]interpret.AnnotatedVariant, error) {
	br := bufio.NewReader(r)
	header, err := br.ReadString('\n')
	if err != nil && (err != io.EOF || header == "") {
		if err == io.EOF {
			return nil, fmt.Errorf("result table has no header")
		}
		return nil, fmt.Errorf("reading result header: %w", err)
	}
	if err := checkHeader(header, ResultColumns); err != nil {
		return nil, err
	}

	tr := tsv.NewReader(io.MultiReader(strings.NewReader(header), br))
	tr.HasHeaderRow = true

	rows := make([]interpret.AnnotatedVariant, 0)
	for {
		var row resultRow
		if err := tr.Read(&row); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("reading result row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, interpret.AnnotatedVariant{
			Motif:             row.Motif,
			MotifFasta:        row.MotifFasta,
			Kind:              interpret.VariantKind(row.Variant),
			Pos:               row.Pos,
			Ref:               row.Ref,
			Alt:               row.Alt,
			MotifSequence:     row.MotifSequence,
			AltDepth:          int(row.AltDepth),
			ActiveRegionDepth: int(row.ActiveDepth),
			DepthScore:        row.DepthScore,
			Confidence:        interpret.Confidence(row.Confidence),
		})
	}
	return rows, nil
}

// ReadFinalTableFile opens path and parses it with ReadFinalTable.
func ReadFinalTableFile(path string) ([]interpret.AnnotatedVariant, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open result table: %w", err)
	}
	defer f.Close()

	rows, err := ReadFinalTable(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

func checkHeader(line string, want []string) error {
	got := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
	if len(got) != len(want) {
		return fmt.Errorf("result header has %d columns, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("result header column %d is %q, want %q", i+1, got[i], want[i])
		}
	}
	return nil
}
