// Package snotio wraps pkgs/snot with the pieces a command-line tool
// needs around the bare state machine: a UTF-8 byte-stream driver that
// tracks line/column position, a Document convenience type, and
// position-annotated errors.
package snotio

import "fmt"

// PositionError annotates a snot parse error with the 1-based line and
// column of the offending code point, and the 0-based byte offset it was
// read at.
type PositionError struct {
	Line   int
	Column int
	Offset int
	Err    error
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Err)
}

func (e *PositionError) Unwrap() error { return e.Err }

// FormatSourceError renders err against its source line, with a caret
// pointing at the offending column, in the register of a compiler
// diagnostic rather than a bare Go error string. If err is not a
// *PositionError, or line is out of range, it falls back to err.Error().
func FormatSourceError(err error, lines []string) string {
	pe, ok := err.(*PositionError)
	if !ok || pe.Line <= 0 || pe.Line > len(lines) {
		return err.Error()
	}

	line := lines[pe.Line-1]
	caret := make([]byte, 0, pe.Column)
	for i := 1; i < pe.Column && i <= len(line); i++ {
		if line[i-1] == '\t' {
			caret = append(caret, '\t')
		} else {
			caret = append(caret, ' ')
		}
	}
	caret = append(caret, '^')

	return fmt.Sprintf("%4d | %s\n     | %s\n%s", pe.Line, line, caret, pe.Error())
}
