package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/saei2021/ADTKD/internal/catalog"
	"github.com/saei2021/ADTKD/internal/config"
	"github.com/saei2021/ADTKD/internal/interpret"
	"github.com/saei2021/ADTKD/internal/output"
	"github.com/saei2021/ADTKD/internal/vcf"
)

type processOptions struct {
	vcfPath    string
	insertions string
	deletions  string
	outputDir  string
	reference  string
	motifs     string
}

func newProcessCmd(a *app) *cobra.Command {
	var opts processOptions

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Interpret Kestrel calls into the frameshift result table",
		Long: `Interpret Kestrel insertion and deletion calls: keep frameshifts, score read
depth, resolve motifs and write kestrel_pre_result.tsv and kestrel_result.tsv.

Input is either a Kestrel VCF (--vcf, split first) or the pre-split
insertion and deletion tables.`,
		Example: `  vntyper process --vcf out/output.vcf -o out
  vntyper process --insertions out/output_insertion.vcf --deletions out/output_deletion.vcf -o out`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			_, err = runProcess(a.logger, cfg, opts)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.vcfPath, "vcf", "", "Kestrel VCF to split and interpret")
	f.StringVar(&opts.insertions, "insertions", "", "Pre-split insertion table")
	f.StringVar(&opts.deletions, "deletions", "", "Pre-split deletion table")
	f.StringVarP(&opts.outputDir, "output-dir", "o", ".", "Output directory")
	f.StringVar(&opts.reference, "reference", "", "Compound motif FASTA (default: reference_data.muc1_reference_vntr)")
	f.StringVar(&opts.motifs, "motifs", "", "Single motif FASTA (default: reference_data.muc1_motifs_rev_com)")

	return cmd
}

// runProcess loads the catalogs and calls, runs the pipeline and writes
// both result tables.
func runProcess(logger *zap.Logger, cfg *config.Config, opts processOptions) (*interpret.Result, error) {
	if opts.reference == "" {
		opts.reference = cfg.ReferenceData.MUC1ReferenceVNTR
	}
	if opts.motifs == "" {
		opts.motifs = cfg.ReferenceData.MUC1MotifsRevCom
	}
	if opts.reference == "" || opts.motifs == "" {
		return nil, usagef("both motif catalogs are required (--reference and --motifs, or reference_data in config)")
	}

	if err := os.MkdirAll(opts.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	switch {
	case opts.vcfPath != "":
		split, err := vcf.Split(opts.vcfPath, opts.outputDir)
		if err != nil {
			return nil, err
		}
		logger.Info("split Kestrel VCF",
			zap.String("vcf", opts.vcfPath),
			zap.Int("indels", split.Indels),
			zap.Int("insertions", split.Insertions),
			zap.Int("deletions", split.Deletions))
		opts.insertions = split.InsertionPath
		opts.deletions = split.DeletionPath
	case opts.insertions == "" || opts.deletions == "":
		return nil, usagef("either --vcf or both --insertions and --deletions are required")
	}

	primary, err := catalog.Load(opts.reference)
	if err != nil {
		return nil, err
	}
	annotation, err := catalog.LoadAnnotation(opts.motifs)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded motif catalogs",
		zap.Int("compound", primary.Len()),
		zap.Int("motifs", annotation.Len()))

	ins, err := vcf.ReadCallTable(opts.insertions)
	if err != nil {
		return nil, fmt.Errorf("read insertions: %w", err)
	}
	del, err := vcf.ReadCallTable(opts.deletions)
	if err != nil {
		return nil, fmt.Errorf("read deletions: %w", err)
	}

	p := interpret.NewPipeline(primary, annotation, cfg.Kestrel)
	p.SetLogger(logger)
	res, err := p.Run(ins, del)
	if err != nil {
		return nil, err
	}

	prePath, resultPath, err := output.WriteResultFiles(opts.outputDir, res)
	if err != nil {
		return nil, err
	}
	logger.Info("wrote Kestrel results",
		zap.String("pre_result", filepath.Clean(prePath)),
		zap.String("result", filepath.Clean(resultPath)),
		zap.Int("candidates", len(res.Candidates)),
		zap.Int("variants", len(res.Final)),
		zap.Int("skipped", len(res.Skipped)))

	return res, nil
}
