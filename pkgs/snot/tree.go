package snot

import (
	"fmt"
	"strconv"
)

// ValueKind tags how a content value was written, mirroring the tagged
// union spec §4.5 requires; Value.Int64 converts a numeric value to int64.
type ValueKind int

const (
	ValueString ValueKind = iota
	ValueDecimal
	ValueOctal
	ValueHexadecimal
)

func (k ValueKind) String() string {
	switch k {
	case ValueString:
		return "String"
	case ValueDecimal:
		return "Decimal"
	case ValueOctal:
		return "Octal"
	case ValueHexadecimal:
		return "Hexadecimal"
	default:
		return "Unknown"
	}
}

// Value is one item in a Node's ordered content list.
type Value struct {
	Kind ValueKind
	Text string
}

func valueKindOf(k NumberKind) ValueKind {
	switch k {
	case NumberHex:
		return ValueHexadecimal
	case NumberOct:
		return ValueOctal
	default:
		return ValueDecimal
	}
}

// Int64 parses the value as a signed integer, honoring its tagged base.
// Text never carries the wire-format radix prefix (the parser strips
// "0"/"0x" into the Kind tag instead), so each base parses Text as-is.
// It returns an error for a string-kind value.
func (v Value) Int64() (int64, error) {
	switch v.Kind {
	case ValueDecimal:
		return strconv.ParseInt(v.Text, 10, 64)
	case ValueOctal:
		return strconv.ParseInt(v.Text, 8, 64)
	case ValueHexadecimal:
		return strconv.ParseInt(v.Text, 16, 64)
	default:
		return 0, fmt.Errorf("snot: value %q is not numeric", v.Text)
	}
}

// Node is a section in the built tree: a name, an ordered list of scalar
// content values, and an ordered list of child sections.
type Node struct {
	Name     string
	Content  []Value
	Children []*Node
	Parent   *Node
}

// Tree holds the parsed document's root. The root itself carries no name;
// its Content and Children are the document's top-level items.
type Tree struct {
	Root *Node
}

// NewTree creates an empty tree ready to receive events from a Builder.
func NewTree() *Tree {
	return &Tree{Root: &Node{}}
}

// Builder is an EventSink that assembles a Tree from parser events. It
// tracks the currently-open section as a plain node pointer rather than
// consulting Parser.Parent: a token's parent index names whatever token
// was on top of the stack when it was pushed, which for a value following
// a bare Number is that Number (numbers never promote), so looking
// attachment up by parent index would misfile a value following a number. Mirroring the
// reference document builder's "current node" discipline sidesteps this
// entirely — start_section/end_section already nest and unnest in lock
// step with the real section structure.
type Builder struct {
	tree    *Tree
	current *Node
}

// NewBuilder creates a Builder that populates tree. Pass it to NewParser.
func NewBuilder(tree *Tree) *Builder {
	return &Builder{tree: tree, current: tree.Root}
}

func (b *Builder) StartSection(p *Parser, id int) {
	n := &Node{Name: string(p.Value(id)), Parent: b.current}
	b.current.Children = append(b.current.Children, n)
	b.current = n
}

func (b *Builder) EndSection(p *Parser, id int) {
	if b.current.Parent != nil {
		b.current = b.current.Parent
	}
}

func (b *Builder) String(p *Parser, id int) {
	b.current.Content = append(b.current.Content, Value{Kind: ValueString, Text: string(p.Value(id))})
}

func (b *Builder) Number(p *Parser, id int) {
	kind, err := p.NumberKindOf(id)
	if err != nil {
		kind = NumberDec
	}
	b.current.Content = append(b.current.Content, Value{Kind: valueKindOf(kind), Text: string(p.Value(id))})
}
