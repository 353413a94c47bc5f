package vcf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Fixed VCF columns before FORMAT.
const (
	colChrom = iota
	colPos
	colID
	colRef
	colAlt
	colQual
	colFilter
	colInfo
	colFormat
	colFirstSample
)

const maxLineSize = 16 * 1024 * 1024

// Parser reads Kestrel VCF records. Kestrel writes one record per line with
// the compound motif id in #CHROM and the depth triplet in the last sample
// column.
type Parser struct {
	scanner *bufio.Scanner
	closers []io.Closer

	lineNumber  int
	header      []string
	sampleNames []string
}

// NewParser opens path ("-" for stdin) and reads its header. Gzipped input
// is detected by its magic bytes, not the file extension.
func NewParser(path string) (*Parser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vcf file: %w", err)
	}

	r, gz, err := maybeGunzip(file)
	if err != nil {
		file.Close()
		return nil, err
	}

	p := newParser(r)
	if gz != nil {
		p.closers = append(p.closers, gz)
	}
	p.closers = append(p.closers, file)

	if err := p.readHeader(); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

// NewParserFromReader reads an uncompressed VCF from r.
func NewParserFromReader(r io.Reader) (*Parser, error) {
	p := newParser(r)
	if err := p.readHeader(); err != nil {
		return nil, err
	}
	return p, nil
}

func newParser(r io.Reader) *Parser {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Parser{scanner: s}
}

// maybeGunzip wraps r in a gzip reader when it starts with 0x1f 0x8b.
func maybeGunzip(r io.Reader) (io.Reader, *gzip.Reader, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(2)
	if err != nil || magic[0] != 0x1f || magic[1] != 0x8b {
		return br, nil, nil
	}
	gz, err := gzip.NewReader(br)
	if err != nil {
		return nil, nil, fmt.Errorf("create gzip reader: %w", err)
	}
	return gz, gz, nil
}

// scan advances to the next line. ok is false at end of input.
func (p *Parser) scan() (line string, ok bool, err error) {
	if !p.scanner.Scan() {
		return "", false, p.scanner.Err()
	}
	p.lineNumber++
	return strings.TrimRight(p.scanner.Text(), "\r"), true, nil
}

// readHeader consumes "##" meta lines up to and including #CHROM.
func (p *Parser) readHeader() error {
	for {
		line, ok, err := p.scan()
		if err != nil {
			return fmt.Errorf("read header: %w", err)
		}
		if !ok {
			return p.errorf("no #CHROM header line found")
		}

		switch {
		case strings.HasPrefix(line, "##"):
			p.header = append(p.header, line)
		case strings.HasPrefix(line, "#CHROM"):
			p.header = append(p.header, line)
			if cols := strings.Split(line, "\t"); len(cols) > colFirstSample {
				p.sampleNames = cols[colFirstSample:]
			}
			return nil
		default:
			return p.errorf("expected #CHROM header line")
		}
	}
}

// Next returns the next record, or nil, nil at end of input. Blank lines are
// skipped.
func (p *Parser) Next() (*Variant, error) {
	for {
		line, ok, err := p.scan()
		if err != nil {
			return nil, fmt.Errorf("read variant line: %w", err)
		}
		if !ok {
			return nil, nil
		}
		if line == "" {
			continue
		}
		return p.parseRecord(line)
	}
}

func (p *Parser) parseRecord(line string) (*Variant, error) {
	cols := strings.Split(line, "\t")
	if len(cols) < colFormat {
		return nil, p.errorf("expected at least %d columns, found %d", colFormat, len(cols))
	}

	pos, err := strconv.ParseInt(cols[colPos], 10, 64)
	if err != nil {
		return nil, p.errorf("invalid position: %s", cols[colPos])
	}

	var qual float64
	if q := cols[colQual]; q != "." {
		qual, _ = strconv.ParseFloat(q, 64)
	}

	v := &Variant{
		Chrom:  cols[colChrom],
		Pos:    pos,
		ID:     cols[colID],
		Ref:    cols[colRef],
		Alt:    cols[colAlt],
		Qual:   qual,
		Filter: cols[colFilter],
		Info:   parseInfo(cols[colInfo]),
		fields: cols,
	}
	if len(cols) > colFormat {
		v.Format = cols[colFormat]
	}
	if len(cols) > colFirstSample {
		v.Samples = cols[colFirstSample:]
	}
	return v, nil
}

// parseInfo splits an INFO column into key/value pairs. Flags map to "".
func parseInfo(info string) map[string]string {
	out := make(map[string]string)
	if info == "." || info == "" {
		return out
	}
	for _, kv := range strings.Split(info, ";") {
		k, v, _ := strings.Cut(kv, "=")
		out[k] = v
	}
	return out
}

// SplitMultiAllelic returns one record per comma-separated ALT allele.
// Single-allele records are returned as is.
func SplitMultiAllelic(v *Variant) []*Variant {
	alts := strings.Split(v.Alt, ",")
	if len(alts) == 1 {
		return []*Variant{v}
	}

	out := make([]*Variant, 0, len(alts))
	for _, alt := range alts {
		rec := *v
		rec.Alt = alt
		rec.fields = nil
		if v.fields != nil {
			rec.fields = append([]string(nil), v.fields...)
			rec.fields[colAlt] = alt
		}
		out = append(out, &rec)
	}
	return out
}

// Header returns the meta lines and the #CHROM line, in file order.
func (p *Parser) Header() []string { return p.header }

// SampleNames returns the #CHROM columns after FORMAT, or nil.
func (p *Parser) SampleNames() []string { return p.sampleNames }

// LineNumber returns the number of lines read so far.
func (p *Parser) LineNumber() int { return p.lineNumber }

// Close releases the underlying file, if any.
func (p *Parser) Close() error {
	var first error
	for _, c := range p.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	p.closers = nil
	return first
}

func (p *Parser) errorf(format string, args ...any) *ParseError {
	return &ParseError{Line: p.lineNumber, Message: fmt.Sprintf(format, args...)}
}

// ParseError reports a malformed VCF line.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("vcf parse error at line %d: %s", e.Line, e.Message)
}
