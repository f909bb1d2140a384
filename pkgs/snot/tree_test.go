package snot

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func parseTree(t *testing.T, input string) *Tree {
	t.Helper()
	tree := NewTree()
	builder := NewBuilder(tree)
	p := NewParser(builder)
	for _, c := range input {
		if err := p.Parse(c); err != nil {
			t.Fatalf("parse %q: %v", input, err)
		}
	}
	if err := p.End(); err != nil {
		t.Fatalf("end %q: %v", input, err)
	}
	return tree
}

func TestBuilderGroupTransparentPromotion(t *testing.T) {
	tree := parseTree(t, "grp (a b) c,")

	want := &Node{
		Children: []*Node{
			{
				Name:    "grp",
				Content: []Value{{Kind: ValueString, Text: "c"}},
				Children: []*Node{
					{Name: "a", Content: []Value{{Kind: ValueString, Text: "b"}}},
				},
			},
		},
	}

	if diff := cmp.Diff(want, tree.Root, cmpopts.IgnoreFields(Node{}, "Parent")); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilderNumberSiblingsStayAtTheRightDepth(t *testing.T) {
	// Regression check: a token pushed after a Number gets that Number as
	// its parent index (per the parser's "just-pushed token becomes the
	// open parent" rule), so a
	// tree builder that trusted Parser.Parent instead of tracking the
	// currently-open section would misfile "0755" as a child of "0xFF"
	// instead of a sibling under "n".
	tree := parseTree(t, "n 0xFF 0755 3.14,")

	want := &Node{
		Children: []*Node{
			{
				Name: "n",
				Content: []Value{
					{Kind: ValueHexadecimal, Text: "FF"},
					{Kind: ValueOctal, Text: "755"},
					{Kind: ValueDecimal, Text: "3.14"},
				},
			},
		},
	}

	if diff := cmp.Diff(want, tree.Root, cmpopts.IgnoreFields(Node{}, "Parent")); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestValueInt64(t *testing.T) {
	tests := []struct {
		name    string
		value   Value
		want    int64
		wantErr bool
	}{
		{name: "decimal", value: Value{Kind: ValueDecimal, Text: "42"}, want: 42},
		{name: "octal", value: Value{Kind: ValueOctal, Text: "755"}, want: 0755},
		{name: "hexadecimal", value: Value{Kind: ValueHexadecimal, Text: "FF"}, want: 0xFF},
		{name: "string is not numeric", value: Value{Kind: ValueString, Text: "nope"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.value.Int64()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("want error, got %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}
