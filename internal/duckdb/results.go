package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/saei2021/ADTKD/internal/interpret"
)

// Run identifies one imported result table.
type Run struct {
	ID        string
	Sample    string
	Source    FileFingerprint
	CreatedAt time.Time
}

// NewRun creates a run with a fresh id for sample.
func NewRun(sample string, source FileFingerprint) Run {
	return Run{
		ID:        uuid.New().String(),
		Sample:    sample,
		Source:    source,
		CreatedAt: time.Now().UTC(),
	}
}

// SampleSummary counts the rows of one sample per confidence label.
type SampleSummary struct {
	Sample            string
	Runs              int64
	Total             int64
	LowPrecision      int64
	HighPrecision     int64
	HighPrecisionStar int64
}

// WriteRun records run and batch-inserts its rows using the Appender API.
// Row order is kept so that ResultsBySample returns rows as written. The run
// and its rows are written in one transaction.
func (s *Store) WriteRun(run Run, rows []interpret.AnnotatedVariant) error {
	return s.writeRun(context.Background(), run, rows, false)
}

// ReplaceRun removes the runs previously imported from run.Source.Path and
// writes run in their place. Nothing changes if any step fails.
func (s *Store) ReplaceRun(run Run, rows []interpret.AnnotatedVariant) error {
	return s.writeRun(context.Background(), run, rows, true)
}

func (s *Store) writeRun(ctx context.Context, run Run, rows []interpret.AnnotatedVariant, replace bool) (err error) {
	if run.ID == "" {
		return fmt.Errorf("write run: empty run id")
	}

	// The appender works on a raw driver connection, so the transaction is
	// opened on that same connection rather than through sql.Tx.
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "BEGIN TRANSACTION"); err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_, _ = conn.ExecContext(ctx, "ROLLBACK")
		}
	}()

	if replace {
		if err := deleteSource(ctx, conn, run.Source.Path); err != nil {
			return err
		}
	}

	if _, err := conn.ExecContext(ctx, `INSERT INTO runs VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Sample, run.Source.Path, run.Source.Size, run.Source.modTimeKey(), run.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if len(rows) > 0 {
		if err := appendResults(conn, run, rows); err != nil {
			return err
		}
	}

	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func appendResults(conn *sql.Conn, run Run, rows []interpret.AnnotatedVariant) (err error) {
	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "kestrel_results")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer func() {
		// Close flushes pending rows.
		if cerr := appender.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close appender: %w", cerr)
		}
	}()

	for i, r := range rows {
		if err := appender.AppendRow(
			run.ID, int64(i), run.Sample,
			r.Motif, r.MotifFasta, string(r.Kind),
			r.Pos, r.PosFasta, r.Ref, r.Alt, r.MotifSequence,
			int64(r.AltDepth), int64(r.ActiveRegionDepth), r.DepthScore, string(r.Confidence),
		); err != nil {
			return fmt.Errorf("append result row: %w", err)
		}
	}
	return nil
}

// SourceCurrent reports whether a run was already imported from a file with
// the same path, size and modification time.
func (s *Store) SourceCurrent(fp FileFingerprint) (bool, error) {
	var n int64
	err := s.db.QueryRow(`SELECT count(*) FROM runs
		WHERE source=? AND source_size=? AND source_modtime=?`,
		fp.Path, fp.Size, fp.modTimeKey()).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query source: %w", err)
	}
	return n > 0, nil
}

// DeleteSource removes the runs imported from path and their result rows.
func (s *Store) DeleteSource(path string) error {
	return deleteSource(context.Background(), s.db, path)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func deleteSource(ctx context.Context, db execer, path string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM kestrel_results
		WHERE run_id IN (SELECT run_id FROM runs WHERE source=?)`, path); err != nil {
		return fmt.Errorf("delete results: %w", err)
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM runs WHERE source=?", path); err != nil {
		return fmt.Errorf("delete runs: %w", err)
	}
	return nil
}

// Clear removes all runs and results.
func (s *Store) Clear() error {
	if _, err := s.db.Exec("DELETE FROM kestrel_results"); err != nil {
		return err
	}
	_, err := s.db.Exec("DELETE FROM runs")
	return err
}

// ResultsBySample returns the stored rows of sample, oldest run first.
func (s *Store) ResultsBySample(sample string) ([]interpret.AnnotatedVariant, error) {
	rows, err := s.db.Query(`SELECT
		k.motif, k.motif_fasta, k.variant, k.pos, k.pos_fasta, k.ref, k.alt,
		k.motif_sequence, k.alt_depth, k.active_depth, k.depth_score, k.confidence
		FROM kestrel_results k JOIN runs r ON r.run_id = k.run_id
		WHERE k.sample=?
		ORDER BY r.created_at, k.run_id, k.row_idx`, sample)
	if err != nil {
		return nil, fmt.Errorf("query by sample: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

// Summary returns per-sample row counts by confidence label, ordered by
// sample. Samples whose runs produced no rows are reported with zero counts.
func (s *Store) Summary() ([]SampleSummary, error) {
	rows, err := s.db.Query(`SELECT
		r.sample,
		count(DISTINCT r.run_id),
		count(k.run_id),
		count(k.run_id) FILTER (WHERE k.confidence = ?),
		count(k.run_id) FILTER (WHERE k.confidence = ?),
		count(k.run_id) FILTER (WHERE k.confidence = ?)
		FROM runs r LEFT JOIN kestrel_results k ON k.run_id = r.run_id
		GROUP BY r.sample
		ORDER BY r.sample`,
		string(interpret.LowPrecision), string(interpret.HighPrecision), string(interpret.HighPrecisionStar))
	if err != nil {
		return nil, fmt.Errorf("query summary: %w", err)
	}
	defer rows.Close()

	var out []SampleSummary
	for rows.Next() {
		var ss SampleSummary
		if err := rows.Scan(&ss.Sample, &ss.Runs, &ss.Total,
			&ss.LowPrecision, &ss.HighPrecision, &ss.HighPrecisionStar); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		out = append(out, ss)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summary: %w", err)
	}
	return out, nil
}

// scanResults scans rows into AnnotatedVariant slices.
func scanResults(rows *sql.Rows) ([]interpret.AnnotatedVariant, error) {
	var results []interpret.AnnotatedVariant
	for rows.Next() {
		var (
			v                 interpret.AnnotatedVariant
			kind, conf        string
			altDepth, actives int64
		)
		if err := rows.Scan(
			&v.Motif, &v.MotifFasta, &kind, &v.Pos, &v.PosFasta, &v.Ref, &v.Alt,
			&v.MotifSequence, &altDepth, &actives, &v.DepthScore, &conf,
		); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		v.Kind = interpret.VariantKind(kind)
		v.Confidence = interpret.Confidence(conf)
		v.AltDepth = int(altDepth)
		v.ActiveRegionDepth = int(actives)
		results = append(results, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return results, nil
}
