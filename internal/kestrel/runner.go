// Package kestrel runs the Kestrel mapping-free genotyper over paired FASTQ
// files against the MUC1 VNTR reference.
package kestrel

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/saei2021/ADTKD/internal/config"
)

// ErrNoVCF is returned when no k-mer size produced a VCF.
var ErrNoVCF = errors.New("kestrel produced no VCF")

// ExecFunc runs an external command and returns its combined output.
type ExecFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func execCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Runner invokes Kestrel, trying k-mer sizes in order until a VCF appears.
type Runner struct {
	cfg       config.Kestrel
	reference string
	exec      ExecFunc
	logger    *zap.Logger
}

// NewRunner creates a runner for the given settings and reference FASTA.
func NewRunner(cfg config.Kestrel, reference string) *Runner {
	return &Runner{
		cfg:       cfg,
		reference: reference,
		exec:      execCommand,
		logger:    zap.NewNop(),
	}
}

// SetExec replaces the command executor.
func (r *Runner) SetExec(fn ExecFunc) {
	r.exec = fn
}

// SetLogger sets the logger for progress messages.
func (r *Runner) SetLogger(l *zap.Logger) {
	r.logger = l
}

// Args builds the Kestrel argument list (without the java binary) for one
// k-mer size.
func (r *Runner) Args(kmer int, fastq1, fastq2, vcfOut, tempDir string) []string {
	return []string{
		"-Xmx" + r.cfg.JavaMemory,
		"-jar", r.cfg.Jar,
		"-k", strconv.Itoa(kmer),
		"--maxalignstates", strconv.Itoa(r.cfg.MaxAlignStates),
		"--maxhapstates", strconv.Itoa(r.cfg.MaxHapStates),
		"-r", r.reference,
		"-o", vcfOut,
		fastq1, fastq2,
		"--temploc", tempDir,
		"--hapfmt", "sam",
		"-p", filepath.Join(tempDir, "output.sam"),
	}
}

// Run produces vcfOut. An existing vcfOut skips Kestrel entirely and
// returns k-mer size 0. Otherwise each configured k-mer size is tried in
// order and the size that produced the VCF is returned.
func (r *Runner) Run(ctx context.Context, fastq1, fastq2, vcfOut, tempDir string) (int, error) {
	if fileExists(vcfOut) {
		r.logger.Info("VCF already exists, skipping Kestrel run", zap.String("vcf", vcfOut))
		return 0, nil
	}

	if err := r.validate(fastq1, fastq2); err != nil {
		return 0, err
	}
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return 0, fmt.Errorf("create temp directory: %w", err)
	}

	for _, k := range r.cfg.KmerSizes {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		r.logger.Info("launching Kestrel", zap.Int("kmer", k))
		out, err := r.exec(ctx, r.cfg.JavaPath, r.Args(k, fastq1, fastq2, vcfOut, tempDir)...)
		if err != nil {
			if ctx.Err() != nil {
				return 0, ctx.Err()
			}
			r.logger.Warn("Kestrel exited with error",
				zap.Int("kmer", k),
				zap.ByteString("output", out),
				zap.Error(err))
		}

		if fileExists(vcfOut) {
			r.logger.Info("Kestrel genotyping done", zap.Int("kmer", k), zap.String("vcf", vcfOut))
			return k, nil
		}
	}

	return 0, fmt.Errorf("%w after trying k-mer sizes %v", ErrNoVCF, r.cfg.KmerSizes)
}

func (r *Runner) validate(fastq1, fastq2 string) error {
	if fastq1 == "" || fastq2 == "" {
		return errors.New("FASTQ input files are missing")
	}
	for _, fq := range []string{fastq1, fastq2} {
		if !fileExists(fq) {
			return fmt.Errorf("FASTQ input %s not found", fq)
		}
	}
	if r.cfg.Jar == "" {
		return errors.New("kestrel_settings.jar is not set")
	}
	if r.reference == "" {
		return errors.New("reference VNTR FASTA is not set")
	}
	if len(r.cfg.KmerSizes) == 0 {
		return errors.New("no k-mer sizes configured")
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
