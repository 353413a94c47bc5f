package interpret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/saei2021/ADTKD/internal/catalog"
	"github.com/saei2021/ADTKD/internal/config"
	"github.com/saei2021/ADTKD/internal/vcf"
)

func newTestPipeline(mutate func(*config.Kestrel)) *Pipeline {
	cfg := config.Default().Kestrel
	if mutate != nil {
		mutate(&cfg)
	}
	primary := catalog.FromEntries(
		catalog.Entry{ID: "1-2", Sequence: "GCCCACGGTGTCACC"},
		catalog.Entry{ID: "X-1", Sequence: "GCCCACGGTGTCACT"},
	)
	return NewPipeline(primary, testAnnotation(), cfg)
}

func TestPipeline_Run(t *testing.T) {
	ins := []vcf.Call{
		{MotifID: "1-2", Pos: 30, Ref: "A", Alt: "CA", Sample: "0:150:1000"},
		{MotifID: "1-2", Pos: 31, Ref: "A", Alt: "ACGT", Sample: "0:150:1000"},
	}
	del := []vcf.Call{
		{MotifID: "X-1", Pos: 70, Ref: "ACG", Alt: "A", Sample: "0:25:2000"},
	}

	res, err := newTestPipeline(nil).Run(ins, del)
	require.NoError(t, err)

	assert.Len(t, res.Candidates, 3)
	assert.Empty(t, res.Skipped)
	require.Len(t, res.Final, 2)

	// right-side rows come first
	right := res.Final[0]
	assert.Equal(t, "X", right.Motif)
	assert.Equal(t, "X-1", right.MotifFasta)
	assert.Equal(t, Deletion, right.Kind)
	assert.Equal(t, int64(10), right.Pos)
	assert.Equal(t, int64(70), right.PosFasta)
	assert.InDelta(t, 0.0125, right.DepthScore, 1e-12)
	assert.Equal(t, HighPrecision, right.Confidence)

	left := res.Final[1]
	assert.Equal(t, "2", left.Motif)
	assert.Equal(t, Insertion, left.Kind)
	assert.Equal(t, int64(30), left.Pos)
	assert.Equal(t, 150, left.AltDepth)
	assert.Equal(t, 1000, left.ActiveRegionDepth)
	assert.InDelta(t, 0.15, left.DepthScore, 1e-12)
	assert.Equal(t, HighPrecision, left.Confidence)
}

func TestPipeline_InFrameOnly(t *testing.T) {
	ins := []vcf.Call{{MotifID: "1-2", Pos: 30, Ref: "A", Alt: "ACGT", Sample: "0:150:1000"}}

	res, err := newTestPipeline(nil).Run(ins, nil)
	require.NoError(t, err)
	assert.Len(t, res.Candidates, 1)
	assert.NotNil(t, res.Final)
	assert.Empty(t, res.Final)
}

func TestPipeline_SkipsMissingDepth(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	p := newTestPipeline(nil)
	p.SetLogger(zap.New(core))

	ins := []vcf.Call{
		{MotifID: "1-2", Pos: 30, Ref: "A", Alt: "CA", Sample: "0:150"},
		{MotifID: "1-2", Pos: 32, Ref: "A", Alt: "CA", Sample: "0:150:1000"},
	}
	res, err := p.Run(ins, nil)
	require.NoError(t, err)

	require.Len(t, res.Skipped, 1)
	assert.Equal(t, int64(30), res.Skipped[0].Pos)
	require.Len(t, res.Final, 1)
	assert.Equal(t, int64(32), res.Final[0].Pos)
	assert.Equal(t, 1, logs.FilterMessage("skipping call without depth fields").Len())
}

func TestPipeline_LogsFrameClassCounts(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	p := newTestPipeline(nil)
	p.SetLogger(zap.New(core))

	ins := []vcf.Call{
		{MotifID: "1-2", Pos: 30, Ref: "A", Alt: "CA", Sample: "0:150:1000"},
		{MotifID: "1-2", Pos: 32, Ref: "A", Alt: "CACG", Sample: "0:150:1000"},
	}
	del := []vcf.Call{
		{MotifID: "X-1", Pos: 70, Ref: "ACG", Alt: "A", Sample: "0:25:2000"},
	}
	_, err := p.Run(ins, del)
	require.NoError(t, err)

	entries := logs.FilterMessage("frameshift candidates").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(1), fields[FrameInsertion.String()])
	assert.Equal(t, int64(1), fields[FrameDeletion.String()])
	assert.Equal(t, int64(0), fields["skipped"])
}

func TestPipeline_MalformedMotifIDFailsRun(t *testing.T) {
	ins := []vcf.Call{
		{MotifID: "1-2", Pos: 30, Ref: "A", Alt: "CA", Sample: "0:150:1000"},
		{MotifID: "A-B-C", Pos: 12, Ref: "A", Alt: "ACGT", Sample: "0:1:1"},
	}
	res, err := newTestPipeline(nil).Run(ins, nil)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.IsType(t, &MalformedMotifIDError{}, err)
}

func TestPipeline_ExcludeLowPrecision(t *testing.T) {
	ins := []vcf.Call{
		{MotifID: "1-2", Pos: 30, Ref: "A", Alt: "CA", Sample: "0:150:1000"},
		{MotifID: "1-2", Pos: 31, Ref: "A", Alt: "CCA", Sample: "0:0:0"}, // net +2, dropped anyway
		{MotifID: "1-2", Pos: 40, Ref: "C", Alt: "CTTTT", Sample: "0:3:150"},
	}

	res, err := newTestPipeline(nil).Run(ins, nil)
	require.NoError(t, err)
	assert.Len(t, res.Final, 2)

	res, err = newTestPipeline(func(k *config.Kestrel) {
		k.Confidence.ExcludeLowPrecision = true
	}).Run(ins, nil)
	require.NoError(t, err)
	require.Len(t, res.Final, 1)
	assert.Equal(t, "CA", res.Final[0].Alt)
}

func TestPipeline_Empty(t *testing.T) {
	res, err := newTestPipeline(nil).Run(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Candidates)
	assert.Empty(t, res.Final)
	assert.Empty(t, res.Skipped)
}
