package interpret

import (
	"go.uber.org/zap"

	"github.com/saei2021/ADTKD/internal/catalog"
	"github.com/saei2021/ADTKD/internal/config"
	"github.com/saei2021/ADTKD/internal/vcf"
)

// Result holds the output of one pipeline run.
type Result struct {
	// Candidates is the normalized table behind kestrel_pre_result.tsv.
	Candidates []Candidate
	// Final is the resolved table behind kestrel_result.tsv.
	Final []AnnotatedVariant
	// Skipped lists frameshift rows dropped for an unusable depth triple.
	Skipped []*MissingDepthFieldsError
}

// Pipeline runs normalize, classify, score and resolve over one sample.
type Pipeline struct {
	primary    *catalog.Catalog
	annotation *catalog.Catalog
	filtering  config.MotifFiltering
	confidence config.Confidence
	logger     *zap.Logger
}

// NewPipeline creates a pipeline over the primary (compound) and annotation
// (single motif) catalogs.
func NewPipeline(primary, annotation *catalog.Catalog, cfg config.Kestrel) *Pipeline {
	return &Pipeline{
		primary:    primary,
		annotation: annotation,
		filtering:  cfg.MotifFiltering,
		confidence: cfg.Confidence,
		logger:     zap.NewNop(),
	}
}

// SetLogger sets the logger for warning and debug messages.
func (p *Pipeline) SetLogger(l *zap.Logger) {
	p.logger = l
}

// Run interprets the insertion and deletion calls of one sample. A
// malformed compound motif id anywhere in the input fails the run before
// any stage output is produced.
func (p *Pipeline) Run(insertions, deletions []vcf.Call) (*Result, error) {
	cands := Normalize(insertions, deletions, p.primary)
	if err := ValidateMotifIDs(cands); err != nil {
		return nil, err
	}
	p.logger.Debug("normalized calls",
		zap.Int("insertions", len(insertions)),
		zap.Int("deletions", len(deletions)))

	classified, skipped := Classify(cands)
	for _, s := range skipped {
		p.logger.Warn("skipping call without depth fields",
			zap.String("motif", s.MotifID),
			zap.Int64("pos", s.Pos),
			zap.String("sample", s.Sample),
			zap.Error(s.Err))
	}
	byClass := make(map[FrameClass]int, 2)
	for _, c := range classified {
		byClass[ClassifyFrame(FrameDelta(c.Ref, c.Alt))]++
	}
	p.logger.Debug("frameshift candidates",
		zap.Int(FrameInsertion.String(), byClass[FrameInsertion]),
		zap.Int(FrameDeletion.String(), byClass[FrameDeletion]),
		zap.Int("skipped", len(skipped)))

	scored := Score(classified)
	if p.confidence.ExcludeLowPrecision {
		scored = ExcludeLowPrecision(scored)
	}

	final, err := Resolve(scored, p.annotation, p.filtering)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("resolved motifs", zap.Int("rows", len(final)))

	return &Result{
		Candidates: cands,
		Final:      final,
		Skipped:    skipped,
	}, nil
}
