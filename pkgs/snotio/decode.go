package snotio

import (
	"bufio"
	"io"
	"unicode/utf8"

	"github.com/ezequias2d/snot/pkgs/snot"
)

// Feed drives p with every code point read from r, tracking 1-based
// line/column, and calls p.End() once r is exhausted. Any error returned
// by the parser is wrapped in a *PositionError naming where it occurred.
func Feed(r io.Reader, p *snot.Parser) error {
	br := bufio.NewReader(r)

	line, column, offset := 1, 0, 0
	for {
		c, size, err := br.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return &PositionError{Line: line, Column: column, Offset: offset, Err: err}
		}

		column++
		if c == utf8.RuneError && size == 1 {
			return &PositionError{Line: line, Column: column, Offset: offset, Err: snot.ErrInvalidCharacter}
		}

		if perr := p.Parse(c); perr != nil {
			return &PositionError{Line: line, Column: column, Offset: offset, Err: perr}
		}

		offset += size
		if c == '\n' {
			line++
			column = 0
		}
	}

	if err := p.End(); err != nil {
		return &PositionError{Line: line, Column: column, Offset: offset, Err: err}
	}
	return nil
}
