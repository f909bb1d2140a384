package snot

import (
	"bufio"
	"io"
	"strings"
)

const reservedChars = " ,;.()\\"

// Serialize renders tree back to SNOT text. When indented is true, each
// section starts its own line with two-space nesting per depth; otherwise
// the output is packed onto as few bytes as the grammar allows.
func Serialize(w io.Writer, tree *Tree, indented bool) error {
	bw := bufio.NewWriter(w)
	serializeNode(bw, indented, 0, tree.Root, false, false)
	return bw.Flush()
}

func needsQuoting(s string) bool {
	return strings.ContainsAny(s, reservedChars)
}

// serializeValue writes one scalar, quoting it if it contains any
// character the grammar would otherwise treat as a delimiter, and returns
// whether the next value on the same line needs a leading space.
func serializeValue(w *bufio.Writer, indented bool, s string, needSeparator bool) bool {
	if needsQuoting(s) {
		if indented || needSeparator {
			w.WriteByte(' ')
		}
		w.WriteByte('"')
		w.WriteString(s)
		w.WriteByte('"')
		return false
	}
	if needSeparator {
		w.WriteByte(' ')
	}
	w.WriteString(s)
	return true
}

// wireText reattaches the radix prefix the parser strips from Hex/Oct
// lexemes (the pool only ever holds the significant digits).
func wireText(v Value) string {
	switch v.Kind {
	case ValueHexadecimal:
		return "0x" + v.Text
	case ValueOctal:
		return "0" + v.Text
	default:
		return v.Text
	}
}

func serializeContent(w *bufio.Writer, indented bool, n *Node, needSeparator bool) bool {
	first := true
	for _, v := range n.Content {
		if first {
			first = false
		} else {
			w.WriteByte(',')
			needSeparator = false
		}
		needSeparator = serializeValue(w, indented, wireText(v), needSeparator)
	}
	return needSeparator
}

// serializeNode writes n and returns the number of close delimiters this
// call still owes its caller, so a run of leaf siblings at the same depth
// can be closed with a single ',' / ';' / '.' instead of one per level.
func serializeNode(w *bufio.Writer, indented bool, identLevel int, n *Node, needSeparator bool, showName bool) int {
	depth := 0
	sp := strings.Repeat(" ", identLevel)

	if indented {
		w.WriteString(sp)
		needSeparator = false
	}

	if showName {
		if indented {
			identLevel += 2
		}
		needSeparator = serializeValue(w, indented, n.Name, needSeparator)
		depth++
	}

	multiline := len(n.Children) > 0 && indented
	if multiline {
		if showName {
			w.WriteByte('\n')
		}
		if len(n.Content) > 0 {
			w.WriteString(sp)
			w.WriteString("  ")
		}
	}

	needSeparator = serializeContent(w, indented, n, needSeparator)
	if len(n.Content) > 0 {
		depth++
	}

	if len(n.Children) > 0 {
		if len(n.Content) > 0 {
			w.WriteByte(',')
			depth--
			if indented {
				w.WriteByte('\n')
			}
		}

		iDepth := 0
		for _, c := range n.Children {
			for iDepth > 0 {
				switch {
				case iDepth == 1:
					iDepth--
					w.WriteByte(',')
					needSeparator = false
				case iDepth == 2:
					iDepth -= 2
					w.WriteByte(';')
					needSeparator = false
				default:
					iDepth -= 3
					w.WriteByte('.')
					needSeparator = false
				}
				if iDepth == 0 && indented {
					w.WriteByte('\n')
				}
			}
			iDepth += serializeNode(w, indented, identLevel, c, needSeparator, true)
		}
		depth += iDepth
	}
	return depth
}
