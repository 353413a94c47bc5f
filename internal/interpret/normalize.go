package interpret

import (
	"strings"

	"github.com/saei2021/ADTKD/internal/catalog"
	"github.com/saei2021/ADTKD/internal/vcf"
)

// Normalize tags insertion and deletion calls with their kind, concatenates
// them (insertions first, each table in input order) and attaches the
// primary catalog sequence of each compound motif id.
//
// A call whose motif id is absent from the catalog is kept with an empty
// MotifSequence and HasSequence false.
func Normalize(insertions, deletions []vcf.Call, cat *catalog.Catalog) []Candidate {
	out := make([]Candidate, 0, len(insertions)+len(deletions))
	out = appendCandidates(out, insertions, Insertion, cat)
	out = appendCandidates(out, deletions, Deletion, cat)
	return out
}

func appendCandidates(out []Candidate, calls []vcf.Call, kind VariantKind, cat *catalog.Catalog) []Candidate {
	for _, c := range calls {
		seq, ok := cat.Sequence(c.MotifID)
		out = append(out, Candidate{
			MotifID:       c.MotifID,
			Pos:           c.Pos,
			Ref:           c.Ref,
			Alt:           c.Alt,
			Sample:        c.Sample,
			Kind:          kind,
			MotifSequence: seq,
			HasSequence:   ok,
		})
	}
	return out
}

// SplitMotifID splits a compound motif id "left-right" into its halves.
// Ids with no '-', more than one '-', or an empty half are rejected.
func SplitMotifID(id string) (left, right string, ok bool) {
	if strings.Count(id, "-") != 1 {
		return "", "", false
	}
	left, right, _ = strings.Cut(id, "-")
	if left == "" || right == "" {
		return "", "", false
	}
	return left, right, true
}

// ValidateMotifIDs returns a *MalformedMotifIDError for the first candidate
// whose motif id does not split into exactly two parts.
func ValidateMotifIDs(cands []Candidate) error {
	for i, c := range cands {
		if _, _, ok := SplitMotifID(c.MotifID); !ok {
			return &MalformedMotifIDError{MotifID: c.MotifID, Pos: c.Pos, Row: i}
		}
	}
	return nil
}
