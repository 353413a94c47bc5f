package vcf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVariant_Classification(t *testing.T) {
	tests := []struct {
		name      string
		ref       string
		alt       string
		snv       bool
		indel     bool
		insertion bool
		deletion  bool
	}{
		{"SNV", "A", "G", true, false, false, false},
		{"single base insertion", "A", "CA", false, true, true, false},
		{"frameshift deletion", "ACG", "A", false, true, false, true},
		{"in-frame insertion", "A", "ACGT", false, true, true, false},
		{"MNV same length", "AT", "GC", false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &Variant{Ref: tt.ref, Alt: tt.alt}
			assert.Equal(t, tt.snv, v.IsSNV(), "IsSNV")
			assert.Equal(t, tt.indel, v.IsIndel(), "IsIndel")
			assert.Equal(t, tt.insertion, v.IsInsertion(), "IsInsertion")
			assert.Equal(t, tt.deletion, v.IsDeletion(), "IsDeletion")
		})
	}
}

func TestVariant_Sample(t *testing.T) {
	assert.Equal(t, "", (&Variant{}).Sample())
	assert.Equal(t, "0:3:400", (&Variant{Samples: []string{"0:1:2", "0:3:400"}}).Sample())
}

func TestVariant_Fields(t *testing.T) {
	v := &Variant{
		Chrom:   "1-2",
		Pos:     44,
		Ref:     "G",
		Alt:     "GCC",
		Filter:  "PASS",
		Format:  "GT:ADP:ACT",
		Samples: []string{"0:12:800"},
	}

	assert.Equal(t,
		[]string{"1-2", "44", ".", "G", "GCC", ".", "PASS", ".", "GT:ADP:ACT", "0:12:800"},
		v.Fields())
}
