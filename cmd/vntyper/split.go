package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saei2021/ADTKD/internal/vcf"
)

func newSplitCmd(a *app) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "split <kestrel.vcf>",
		Short: "Split a Kestrel VCF into indel, insertion and deletion tables",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := vcf.Split(args[0], outputDir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\t%d\n", res.IndelPath, res.Indels)
			fmt.Fprintf(out, "%s\t%d\n", res.InsertionPath, res.Insertions)
			fmt.Fprintf(out, "%s\t%d\n", res.DeletionPath, res.Deletions)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", ".", "Output directory")

	return cmd
}
