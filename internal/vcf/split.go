package vcf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// File names written by Split.
const (
	IndelFileName     = "output_indel.vcf"
	InsertionFileName = "output_insertion.vcf"
	DeletionFileName  = "output_deletion.vcf"
)

// SplitResult describes the tables written by Split.
type SplitResult struct {
	IndelPath     string
	InsertionPath string
	DeletionPath  string
	Indels        int
	Insertions    int
	Deletions     int
}

// Split reads a Kestrel VCF and writes the indel, insertion and deletion
// tables into outDir. Header lines are copied to every table. Multi-allelic
// records are split first so each allele is classified on its own.
func Split(path, outDir string) (*SplitResult, error) {
	p, err := NewParser(path)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	res := &SplitResult{
		IndelPath:     filepath.Join(outDir, IndelFileName),
		InsertionPath: filepath.Join(outDir, InsertionFileName),
		DeletionPath:  filepath.Join(outDir, DeletionFileName),
	}

	var files []*os.File
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()

	writers := make([]*bufio.Writer, 0, 3)
	for _, out := range []string{res.IndelPath, res.InsertionPath, res.DeletionPath} {
		f, err := os.Create(out)
		if err != nil {
			return nil, fmt.Errorf("create split table: %w", err)
		}
		files = append(files, f)
		writers = append(writers, bufio.NewWriter(f))
	}
	indelW, insW, delW := writers[0], writers[1], writers[2]

	if err := SplitRecords(p, p.Header(), indelW, insW, delW, res); err != nil {
		return nil, err
	}

	for i, w := range writers {
		if err := w.Flush(); err != nil {
			return nil, fmt.Errorf("flush split table: %w", err)
		}
		if err := files[i].Close(); err != nil {
			return nil, fmt.Errorf("close split table: %w", err)
		}
	}
	files = nil

	return res, nil
}

// SplitRecords classifies every record from p and writes it to the matching
// writers. Counts are accumulated into res.
func SplitRecords(p VariantParser, header []string, indelW, insW, delW io.Writer, res *SplitResult) error {
	for _, w := range []io.Writer{indelW, insW, delW} {
		for _, line := range header {
			if _, err := io.WriteString(w, line+"\n"); err != nil {
				return fmt.Errorf("write header: %w", err)
			}
		}
	}

	for {
		v, err := p.Next()
		if err != nil {
			return fmt.Errorf("read variant: %w", err)
		}
		if v == nil {
			return nil
		}

		for _, allele := range SplitMultiAllelic(v) {
			if !allele.IsIndel() {
				continue
			}
			line := strings.Join(allele.Fields(), "\t") + "\n"

			if _, err := io.WriteString(indelW, line); err != nil {
				return fmt.Errorf("write indel: %w", err)
			}
			res.Indels++

			switch {
			case allele.IsInsertion():
				_, err = io.WriteString(insW, line)
				res.Insertions++
			case allele.IsDeletion():
				_, err = io.WriteString(delW, line)
				res.Deletions++
			}
			if err != nil {
				return fmt.Errorf("write split record: %w", err)
			}
		}
	}
}
