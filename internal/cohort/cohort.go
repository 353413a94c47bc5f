// Package cohort collects per-sample Kestrel result tables into a DuckDB
// cohort store.
package cohort

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/saei2021/ADTKD/internal/duckdb"
	"github.com/saei2021/ADTKD/internal/interpret"
	"github.com/saei2021/ADTKD/internal/output"
)

// ErrNoResultFile marks a sample directory without a result table.
var ErrNoResultFile = errors.New("no result file")

// Source is one sample result table. An empty Path means the sample
// directory held no table.
type Source struct {
	Sample string
	Dir    string // input directory the table was found under
	Path   string
}

// SampleResult is a loaded result table.
type SampleResult struct {
	Source      Source
	Fingerprint duckdb.FileFingerprint
	Rows        []interpret.AnnotatedVariant
	Err         error
}

// FindResultFiles walks each directory for kestrel_result.tsv files. The
// sample of a table is the name of the directory two levels above it
// (<sample>/kestrel/kestrel_result.tsv). A directory without any table
// yields one Source named after the directory with an empty Path.
func FindResultFiles(dirs []string) ([]Source, error) {
	var sources []Source
	for _, dir := range dirs {
		found := 0
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || d.Name() != output.ResultFileName {
				return nil
			}
			sources = append(sources, Source{Sample: sampleName(path), Dir: dir, Path: path})
			found++
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", dir, err)
		}
		if found == 0 {
			sources = append(sources, Source{Sample: filepath.Base(filepath.Clean(dir)), Dir: dir})
		}
	}
	return sources, nil
}

func sampleName(resultPath string) string {
	return filepath.Base(filepath.Dir(filepath.Dir(resultPath)))
}

// Load reads one source. Failures are reported in SampleResult.Err; the
// fingerprint then carries only the path (or the directory when no table
// was found) so the sample can still be recorded.
func Load(src Source) SampleResult {
	res := SampleResult{Source: src, Fingerprint: duckdb.FileFingerprint{Path: src.Path}}
	if src.Path == "" {
		res.Fingerprint.Path = src.Dir
		res.Err = ErrNoResultFile
		return res
	}

	fp, err := duckdb.StatFile(src.Path)
	if err != nil {
		if os.IsNotExist(err) {
			err = fmt.Errorf("%s: %w", src.Path, ErrNoResultFile)
		}
		res.Err = err
		return res
	}
	res.Fingerprint = fp

	rows, err := output.ReadFinalTableFile(src.Path)
	if err != nil {
		res.Err = err
		return res
	}
	res.Rows = rows
	return res
}

// LoadAll loads sources with a pool of workers and returns the results in
// the order of sources.
func LoadAll(sources []Source, workers int) []SampleResult {
	items := make(chan WorkItem, len(sources))
	for i, s := range sources {
		items <- WorkItem{Seq: i, Source: s}
	}
	close(items)

	out := make([]SampleResult, 0, len(sources))
	_ = OrderedCollect(ParallelLoad(items, workers), func(r WorkResult) error {
		out = append(out, r.Result)
		return nil
	})
	return out
}

// ImportStats counts what Import did.
type ImportStats struct {
	Imported int
	Skipped  int // unchanged since the last import
	Missing  int // sample without a readable table
}

// Importer writes loaded results into a cohort store.
type Importer struct {
	store  *duckdb.Store
	force  bool
	logger *zap.Logger
}

// NewImporter creates an importer over store.
func NewImporter(store *duckdb.Store) *Importer {
	return &Importer{store: store, logger: zap.NewNop()}
}

// SetForce re-imports tables even when their fingerprint is unchanged.
func (im *Importer) SetForce(force bool) {
	im.force = force
}

// SetLogger sets the logger for warning and info messages.
func (im *Importer) SetLogger(l *zap.Logger) {
	im.logger = l
}

// Import stores every result. A sample whose table is missing or
// unreadable is recorded as a run without rows so that it still appears in
// the summary. Tables already imported with the same fingerprint are
// skipped unless force is set.
func (im *Importer) Import(results []SampleResult) (ImportStats, error) {
	var stats ImportStats
	for _, r := range results {
		if r.Err != nil {
			im.logger.Warn("sample has no usable result table",
				zap.String("sample", r.Source.Sample),
				zap.String("path", r.Source.Path),
				zap.Error(r.Err))
			stats.Missing++
		}

		if !im.force {
			current, err := im.store.SourceCurrent(r.Fingerprint)
			if err != nil {
				return stats, err
			}
			if current {
				im.logger.Debug("result table unchanged", zap.String("path", r.Source.Path))
				stats.Skipped++
				continue
			}
		}

		if err := im.store.ReplaceRun(duckdb.NewRun(r.Source.Sample, r.Fingerprint), r.Rows); err != nil {
			return stats, fmt.Errorf("import %s: %w", r.Source.Sample, err)
		}
		if r.Err == nil {
			stats.Imported++
		}
		im.logger.Info("imported sample",
			zap.String("sample", r.Source.Sample),
			zap.Int("rows", len(r.Rows)))
	}
	return stats, nil
}
