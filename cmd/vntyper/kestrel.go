package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/saei2021/ADTKD/internal/kestrel"
)

func newKestrelCmd(a *app) *cobra.Command {
	var (
		fastq1   string
		fastq2   string
		keepTemp bool
		opts     processOptions
	)

	cmd := &cobra.Command{
		Use:   "kestrel",
		Short: "Genotype paired FASTQ files with Kestrel and interpret the calls",
		Example: `  vntyper kestrel --fastq1 s_R1.fastq.gz --fastq2 s_R2.fastq.gz -o results/s/kestrel`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			if fastq1 == "" || fastq2 == "" {
				return usagef("--fastq1 and --fastq2 are required")
			}

			reference := opts.reference
			if reference == "" {
				reference = cfg.ReferenceData.MUC1ReferenceVNTR
			}
			if err := os.MkdirAll(opts.outputDir, 0755); err != nil {
				return err
			}

			vcfOut := filepath.Join(opts.outputDir, "output.vcf")
			tempDir := filepath.Join(opts.outputDir, "temp")

			r := kestrel.NewRunner(cfg.Kestrel, reference)
			r.SetLogger(a.logger)
			k, err := r.Run(cmd.Context(), fastq1, fastq2, vcfOut, tempDir)
			if err != nil {
				return err
			}
			if !keepTemp {
				if err := os.RemoveAll(tempDir); err != nil {
					a.logger.Warn("could not remove temp directory", zap.String("dir", tempDir), zap.Error(err))
				}
			}
			if k > 0 {
				a.logger.Info("Kestrel finished", zap.Int("kmer", k))
			}

			opts.vcfPath = vcfOut
			opts.reference = reference
			_, err = runProcess(a.logger, cfg, opts)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&fastq1, "fastq1", "", "First FASTQ of the read pair")
	f.StringVar(&fastq2, "fastq2", "", "Second FASTQ of the read pair")
	f.BoolVar(&keepTemp, "keep-temp", false, "Keep Kestrel temporary files")
	f.StringVarP(&opts.outputDir, "output-dir", "o", ".", "Output directory")
	f.StringVar(&opts.reference, "reference", "", "Compound motif FASTA (default: reference_data.muc1_reference_vntr)")
	f.StringVar(&opts.motifs, "motifs", "", "Single motif FASTA (default: reference_data.muc1_motifs_rev_com)")

	return cmd
}
