package interpret

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FrameClass is the reading-frame effect of a length change.
type FrameClass int

const (
	FrameNeutral FrameClass = iota
	FrameInsertion
	FrameDeletion
)

func (f FrameClass) String() string {
	switch f {
	case FrameInsertion:
		return "frameshift_insertion"
	case FrameDeletion:
		return "frameshift_deletion"
	default:
		return "neutral"
	}
}

// FrameDelta is len(alt) - len(ref).
func FrameDelta(ref, alt string) int {
	return len(alt) - len(ref)
}

// FrameScore is delta/3 rounded to two decimals.
func FrameScore(delta int) float64 {
	return math.Round(float64(delta)/3*100) / 100
}

// FrameParts renders a frame score with two decimals and splits it into its
// integer and fractional text. An integer part of "-0" is reported as "-1"
// so that small negative scores count as negative.
func FrameParts(score float64) (intPart, fracPart string) {
	s := strconv.FormatFloat(score, 'f', 2, 64)
	intPart, fracPart, _ = strings.Cut(s, ".")
	if intPart == "-0" {
		intPart = "-1"
	}
	return intPart, fracPart
}

// ClassifyFrame keeps net insertions of 3k+1 bases and net deletions of
// 3k+2 bases, the changes that land on the MUC1 dupC/delG frame. Everything
// else is FrameNeutral.
func ClassifyFrame(delta int) FrameClass {
	switch {
	case delta > 0 && delta%3 == 1:
		return FrameInsertion
	case delta < 0 && (-delta)%3 == 2:
		return FrameDeletion
	default:
		return FrameNeutral
	}
}

// ParseDepth reads the "delRun:altDepth:activeRegionDepth" sample column.
// Exactly three fields are required; the two depths must be non-negative
// integers.
func ParseDepth(sample string) (altDepth, activeDepth int, err error) {
	parts := strings.Split(sample, ":")
	if len(parts) != 3 {
		return 0, 0, fmt.Errorf("expected 3 ':'-separated fields, got %d", len(parts))
	}
	altDepth, err = parseDepthField(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("alternate depth: %w", err)
	}
	activeDepth, err = parseDepthField(parts[2])
	if err != nil {
		return 0, 0, fmt.Errorf("active region depth: %w", err)
	}
	return altDepth, activeDepth, nil
}

func parseDepthField(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative depth %d", n)
	}
	return n, nil
}

// Classify keeps the frameshift candidates and parses their depth triples.
// Kept rows are ordered insertion-class first, then deletion-class, each in
// input order. Rows with an unusable depth triple are returned in skipped
// instead of kept.
func Classify(cands []Candidate) (kept []ClassifiedVariant, skipped []*MissingDepthFieldsError) {
	var ins, del []ClassifiedVariant
	for _, c := range cands {
		delta := FrameDelta(c.Ref, c.Alt)
		class := ClassifyFrame(delta)
		if class == FrameNeutral {
			continue
		}

		alt, active, err := ParseDepth(c.Sample)
		if err != nil {
			skipped = append(skipped, &MissingDepthFieldsError{
				MotifID: c.MotifID,
				Pos:     c.Pos,
				Ref:     c.Ref,
				Alt:     c.Alt,
				Sample:  c.Sample,
				Err:     err,
			})
			continue
		}

		cv := ClassifiedVariant{
			Candidate:         c,
			AltDepth:          alt,
			ActiveRegionDepth: active,
			FrameScore:        FrameScore(delta),
		}
		if class == FrameInsertion {
			ins = append(ins, cv)
		} else {
			del = append(del, cv)
		}
	}

	kept = make([]ClassifiedVariant, 0, len(ins)+len(del))
	kept = append(kept, ins...)
	kept = append(kept, del...)
	return kept, skipped
}
