package vcf

import "fmt"

// Call is one row of a pre-split insertion or deletion table, reduced to the
// columns the interpretation stage consumes. Caller metadata (ID, QUAL,
// FILTER, INFO, FORMAT) is not carried.
type Call struct {
	MotifID string // compound motif id from the #CHROM column
	Pos     int64
	Ref     string
	Alt     string
	Sample  string // last column: delRun:altDepth:activeRegionDepth
}

// CallFromVariant reduces a parsed record to a Call.
func CallFromVariant(v *Variant) Call {
	return Call{
		MotifID: v.Chrom,
		Pos:     v.Pos,
		Ref:     v.Ref,
		Alt:     v.Alt,
		Sample:  v.Sample(),
	}
}

// ReadCallTable reads every record of a pre-split table. A table with a
// header but no records yields an empty, non-nil slice.
func ReadCallTable(path string) ([]Call, error) {
	p, err := NewParser(path)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	return ReadCalls(p)
}

// ReadCalls drains a parser into Calls.
func ReadCalls(p VariantParser) ([]Call, error) {
	calls := make([]Call, 0)
	for {
		v, err := p.Next()
		if err != nil {
			return nil, fmt.Errorf("read call at line %d: %w", p.LineNumber(), err)
		}
		if v == nil {
			return calls, nil
		}
		calls = append(calls, CallFromVariant(v))
	}
}
