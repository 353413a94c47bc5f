// Package catalog loads MUC1 VNTR motif catalogs from FASTA files.
package catalog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// Entry is a single motif record.
type Entry struct {
	ID       string
	Sequence string
}

// Catalog maps motif ids to sequences. It is read-only once loaded.
type Catalog struct {
	path      string
	ids       []string          // ids in order of first appearance
	sequences map[string]string // motif id -> sequence
}

// LoadError reports a motif catalog that could not be loaded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load motif catalog %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ErrEmpty is wrapped by LoadError when the file holds no records.
var ErrEmpty = errors.New("no motif records")

// Load reads the primary reference motif catalog.
func Load(path string) (*Catalog, error) {
	return load(path, false)
}

// LoadAnnotation reads the supplementary annotation catalog. Sequences are
// upper-cased so joins against it are case-insensitive on the sequence side.
func LoadAnnotation(path string) (*Catalog, error) {
	return load(path, true)
}

func load(path string, upper bool) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	br := bufio.NewReader(f)

	var reader io.Reader = br
	// Check for gzip magic number (0x1f, 0x8b)
	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("open gzip reader: %w", err)}
		}
		defer gz.Close()
		reader = gz
	}

	c, err := Parse(reader, upper)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	c.path = path
	return c, nil
}

// Parse reads FASTA records from r. Record ids are the text after '>' up to
// the first whitespace. A later record with a repeated id replaces the
// earlier sequence.
func Parse(r io.Reader, upper bool) (*Catalog, error) {
	c := New()

	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	var currentID string
	var inRecord bool
	var seq strings.Builder

	flush := func() {
		if !inRecord {
			return
		}
		s := seq.String()
		if upper {
			s = strings.ToUpper(s)
		}
		c.add(currentID, s)
	}

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if line[0] == '>' {
			flush()
			currentID = headerID(line)
			if currentID == "" {
				return nil, errors.Errorf("malformed FASTA header at line %d", lineNumber)
			}
			inRecord = true
			seq.Reset()
			continue
		}

		if !inRecord {
			return nil, errors.Errorf("malformed FASTA file: sequence before first header at line %d", lineNumber)
		}
		seq.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scan FASTA")
	}
	flush()

	if c.Len() == 0 {
		return nil, ErrEmpty
	}
	return c, nil
}

// headerID extracts the record id from a FASTA header line.
func headerID(header string) string {
	header = strings.TrimPrefix(header, ">")
	if fields := strings.Fields(header); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

// New creates an empty catalog. Mostly useful in tests.
func New() *Catalog {
	return &Catalog{sequences: make(map[string]string)}
}

// FromEntries builds a catalog from explicit entries.
func FromEntries(entries ...Entry) *Catalog {
	c := New()
	for _, e := range entries {
		c.add(e.ID, e.Sequence)
	}
	return c
}

func (c *Catalog) add(id, seq string) {
	if _, ok := c.sequences[id]; !ok {
		c.ids = append(c.ids, id)
	}
	c.sequences[id] = seq
}

// Sequence returns the sequence for a motif id and whether it was found.
func (c *Catalog) Sequence(id string) (string, bool) {
	if c == nil {
		return "", false
	}
	seq, ok := c.sequences[id]
	return seq, ok
}

// Len returns the number of motifs.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.ids)
}

// Entries returns the motifs in file order.
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	entries := make([]Entry, len(c.ids))
	for i, id := range c.ids {
		entries[i] = Entry{ID: id, Sequence: c.sequences[id]}
	}
	return entries
}

// Path returns the file the catalog was loaded from, if any.
func (c *Catalog) Path() string {
	return c.path
}
