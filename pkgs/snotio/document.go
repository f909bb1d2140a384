package snotio

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/ezequias2d/snot/pkgs/snot"
)

// Document is a parsed SNOT tree together with the convenience methods a
// CLI or library caller reaches for: load from bytes/files/readers, save
// back out indented or packed.
type Document struct {
	Tree *snot.Tree
}

// Parse reads all of r, building a Document.
func Parse(r io.Reader) (*Document, error) {
	tree := snot.NewTree()
	builder := snot.NewBuilder(tree)
	p := snot.NewParser(builder)
	if err := Feed(r, p); err != nil {
		return nil, err
	}
	return &Document{Tree: tree}, nil
}

// ParseString parses s in memory.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Load reads and parses the file at path.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Save serializes d back to SNOT text and writes it to path.
func (d *Document) Save(path string, indented bool) error {
	var buf bytes.Buffer
	if err := snot.Serialize(&buf, d.Tree, indented); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// String serializes d back to SNOT text, packed (non-indented).
func (d *Document) String() string {
	var buf bytes.Buffer
	_ = snot.Serialize(&buf, d.Tree, false)
	return buf.String()
}
