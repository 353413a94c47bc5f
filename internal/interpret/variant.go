// Package interpret turns raw Kestrel indel calls into the final table of
// confidence-scored, motif-annotated MUC1 VNTR frameshift candidates.
//
// The stages are pure functions over slices of row values. No stage mutates
// the slice it was given.
package interpret

// VariantKind tags which pre-split table a call came from.
type VariantKind string

const (
	Insertion VariantKind = "Insertion"
	Deletion  VariantKind = "Deletion"
)

// Confidence is the precision label assigned from read depths.
type Confidence string

const (
	LowPrecision      Confidence = "Low_Precision"
	HighPrecision     Confidence = "High_Precision"
	HighPrecisionStar Confidence = "High_Precision*"
)

// Candidate is a normalized call joined with the primary motif catalog.
type Candidate struct {
	MotifID       string // compound motif id, "left-right"
	Pos           int64
	Ref           string
	Alt           string
	Sample        string // delRun:altDepth:activeRegionDepth
	Kind          VariantKind
	MotifSequence string // empty when MotifID is not in the catalog
	HasSequence   bool
}

// ClassifiedVariant is a candidate that passed the frameshift filter and
// whose depth triple parsed.
type ClassifiedVariant struct {
	Candidate
	AltDepth          int
	ActiveRegionDepth int
	FrameScore        float64
}

// ScoredVariant carries the depth ratio and confidence label.
type ScoredVariant struct {
	ClassifiedVariant
	DepthScore float64
	Confidence Confidence
}

// AnnotatedVariant is a row of the final result table.
type AnnotatedVariant struct {
	Motif             string // effective motif after side assignment
	MotifFasta        string // original compound id
	Kind              VariantKind
	Pos               int64 // re-based position
	PosFasta          int64 // position as reported by Kestrel
	Ref               string
	Alt               string
	MotifSequence     string
	AltDepth          int
	ActiveRegionDepth int
	DepthScore        float64
	Confidence        Confidence
}
