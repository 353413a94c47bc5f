package output

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saei2021/ADTKD/internal/catalog"
	"github.com/saei2021/ADTKD/internal/config"
	"github.com/saei2021/ADTKD/internal/duckdb"
	"github.com/saei2021/ADTKD/internal/interpret"
	"github.com/saei2021/ADTKD/internal/vcf"
)

func sampleFinal() []interpret.AnnotatedVariant {
	return []interpret.AnnotatedVariant{
		{
			Motif:             "X",
			MotifFasta:        "X-1",
			Kind:              interpret.Deletion,
			Pos:               10,
			PosFasta:          70,
			Ref:               "ACG",
			Alt:               "A",
			MotifSequence:     "GCCCACGGTG",
			AltDepth:          25,
			ActiveRegionDepth: 2000,
			DepthScore:        0.0125,
			Confidence:        interpret.HighPrecision,
		},
		{
			Motif:             "2",
			MotifFasta:        "1-2",
			Kind:              interpret.Insertion,
			Pos:               30,
			PosFasta:          30,
			Ref:               "A",
			Alt:               "CA",
			AltDepth:          150,
			ActiveRegionDepth: 1000,
			DepthScore:        0.15,
			Confidence:        interpret.HighPrecision,
		},
	}
}

func TestTabWriter_WriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewResultWriter(&buf)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Flush())

	assert.Equal(t, strings.Join(ResultColumns, "\t")+"\n", buf.String())
	assert.Len(t, ResultColumns, 11)
}

func TestWriteResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResult(&buf, sampleFinal()))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t,
		"X\tX-1\tDeletion\t10\tACG\tA\tGCCCACGGTG\t25\t2000\t0.0125\tHigh_Precision",
		lines[1])

	// missing motif sequence is an empty field
	fields := strings.Split(lines[2], "\t")
	require.Len(t, fields, 11)
	assert.Equal(t, "", fields[6])
	assert.Equal(t, "0.15", fields[9])
}

func TestWritePreResult(t *testing.T) {
	cands := []interpret.Candidate{
		{MotifID: "1-2", Pos: 30, Ref: "A", Alt: "CA", Sample: "0:150:1000", Kind: interpret.Insertion, MotifSequence: "GCC", HasSequence: true},
		{MotifID: "9-9", Pos: 70, Ref: "ACG", Alt: "A", Sample: "0:25:2000", Kind: interpret.Deletion},
	}

	var buf bytes.Buffer
	require.NoError(t, WritePreResult(&buf, cands))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Motifs\tPOS\tREF\tALT\tSample\tMotif_sequence\tVariant", lines[0])
	assert.Equal(t, "1-2\t30\tA\tCA\t0:150:1000\tGCC\tInsertion", lines[1])
	assert.Equal(t, "9-9\t70\tACG\tA\t0:25:2000\t\tDeletion", lines[2])
}

func TestWriteResult_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResult(&buf, nil))
	assert.Equal(t, strings.Join(ResultColumns, "\t")+"\n", buf.String())
}

func TestReadFinalTable_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	want := sampleFinal()
	require.NoError(t, WriteResult(&buf, want))

	got, err := ReadFinalTable(&buf)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		w := want[i]
		w.PosFasta = 0
		assert.Equal(t, w, got[i])
	}
}

func TestReadFinalTable_RebaseKeepsPositions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResult(&buf, sampleFinal()))

	got, err := ReadFinalTable(&buf)
	require.NoError(t, err)

	again := interpret.Rebase(got, 60)
	require.Len(t, again, len(got))
	for i := range got {
		assert.Equal(t, got[i].Pos, again[i].Pos, "row %d", i)
	}
	assert.Equal(t, int64(10), again[0].Pos)
	assert.Equal(t, int64(30), again[1].Pos)
}

func TestReadFinalTable_HeaderErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"missing column", strings.Join(ResultColumns[:10], "\t") + "\n"},
		{"reordered", strings.Join(append([]string{ResultColumns[1], ResultColumns[0]}, ResultColumns[2:]...), "\t") + "\n"},
		{"pre-result table", strings.Join(PreResultColumns, "\t") + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFinalTable(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestReadFinalTable_HeaderOnly(t *testing.T) {
	rows, err := ReadFinalTable(strings.NewReader(strings.Join(ResultColumns, "\t")))
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestWriteResultFiles_Deterministic(t *testing.T) {
	primary, err := catalog.Load(filepath.Join("..", "..", "testdata", "compound_motifs.fa"))
	require.NoError(t, err)
	annotation, err := catalog.LoadAnnotation(filepath.Join("..", "..", "testdata", "motifs.fa"))
	require.NoError(t, err)

	split, err := vcf.Split(filepath.Join("..", "..", "testdata", "kestrel_output.vcf"), t.TempDir())
	require.NoError(t, err)
	ins, err := vcf.ReadCallTable(split.InsertionPath)
	require.NoError(t, err)
	del, err := vcf.ReadCallTable(split.DeletionPath)
	require.NoError(t, err)

	runOnce := func() (pre, final []byte) {
		p := interpret.NewPipeline(primary, annotation, config.Default().Kestrel)
		res, err := p.Run(ins, del)
		require.NoError(t, err)

		prePath, finalPath, err := WriteResultFiles(t.TempDir(), res)
		require.NoError(t, err)
		pre, err = os.ReadFile(prePath)
		require.NoError(t, err)
		final, err = os.ReadFile(finalPath)
		require.NoError(t, err)
		return pre, final
	}

	pre1, final1 := runOnce()
	pre2, final2 := runOnce()
	assert.Equal(t, pre1, pre2)
	assert.Equal(t, final1, final2)
	assert.Equal(t, 4, strings.Count(string(final1), "\n"))
}

func TestWriteResultFiles(t *testing.T) {
	dir := t.TempDir()
	res := &interpret.Result{Final: sampleFinal()}

	pre, final, err := WriteResultFiles(dir, res)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, PreResultFileName), pre)
	assert.Equal(t, filepath.Join(dir, ResultFileName), final)

	data, err := os.ReadFile(pre)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(PreResultColumns, "\t")+"\n", string(data))

	rows, err := ReadFinalTableFile(final)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestReadFinalTableFile_Missing(t *testing.T) {
	_, err := ReadFinalTableFile(filepath.Join(t.TempDir(), "nope.tsv"))
	assert.Error(t, err)
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	rows := []duckdb.SampleSummary{
		{Sample: "sample01", Runs: 1, Total: 3, LowPrecision: 1, HighPrecision: 2},
		{Sample: "sample02", Runs: 1},
	}
	require.NoError(t, WriteSummary(&buf, rows))

	assert.Equal(t,
		"Sample\tRuns\tVariants\tLow_Precision\tHigh_Precision\tHigh_Precision*\n"+
			"sample01\t1\t3\t1\t2\t0\n"+
			"sample02\t1\t0\t0\t0\t0\n",
		buf.String())
}
