package vcf

import "strconv"

// Variant represents a single record from a Kestrel VCF file. Kestrel
// reports calls against the VNTR motif references, so Chrom holds a compound
// motif id such as "1-2" rather than a chromosome name.
type Variant struct {
	Chrom   string            // Reference sequence name (compound motif id for Kestrel)
	Pos     int64             // 1-based position within the reference sequence
	ID      string            // Variant identifier
	Ref     string            // Reference allele
	Alt     string            // Alternate allele (single allele after splitting)
	Qual    float64           // Quality score
	Filter  string            // Filter status (PASS or filter name)
	Info    map[string]string // INFO field key-value pairs
	Format  string            // FORMAT column, empty if absent
	Samples []string          // Sample columns after FORMAT

	fields []string // raw columns as read, used to write the record back out
}

// IsSNV returns true if the variant is a single nucleotide variant.
func (v *Variant) IsSNV() bool {
	return len(v.Ref) == 1 && len(v.Alt) == 1
}

// IsIndel returns true if the variant is an insertion or deletion.
func (v *Variant) IsIndel() bool {
	return len(v.Ref) != len(v.Alt)
}

// IsInsertion returns true if the variant is an insertion.
func (v *Variant) IsInsertion() bool {
	return len(v.Alt) > len(v.Ref)
}

// IsDeletion returns true if the variant is a deletion.
func (v *Variant) IsDeletion() bool {
	return len(v.Ref) > len(v.Alt)
}

// Sample returns the last sample column, or "" when the record has none.
func (v *Variant) Sample() string {
	if len(v.Samples) == 0 {
		return ""
	}
	return v.Samples[len(v.Samples)-1]
}

// Fields returns the record's tab-separated columns.
func (v *Variant) Fields() []string {
	if v.fields != nil {
		return v.fields
	}

	qual := "."
	if v.Qual != 0 {
		qual = strconv.FormatFloat(v.Qual, 'f', -1, 64)
	}
	fields := []string{
		v.Chrom,
		strconv.FormatInt(v.Pos, 10),
		orDot(v.ID),
		v.Ref,
		v.Alt,
		qual,
		orDot(v.Filter),
		".",
	}
	if v.Format != "" || len(v.Samples) > 0 {
		fields = append(fields, orDot(v.Format))
		fields = append(fields, v.Samples...)
	}
	return fields
}

func orDot(s string) string {
	if s == "" {
		return "."
	}
	return s
}
