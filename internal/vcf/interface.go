// Package vcf reads Kestrel VCF output and the pre-split call tables derived from it.
package vcf

// VariantParser yields Kestrel records one at a time. Next returns nil, nil
// once the input is exhausted. Tests substitute in-memory implementations.
type VariantParser interface {
	Next() (*Variant, error)
	LineNumber() int
	Close() error
}
