package snot

// Parser is the SNOT token state machine: a push-driven, incremental
// tokenizer that consumes one code point at a time and emits structural
// events through a caller-supplied EventSink. It carries no recursion
// stack of its own; the arena's token table doubles as the open-token
// stack, addressed by parent indices.
type Parser struct {
	arena arena
	sink  EventSink

	start      int  // pool offset where the in-flight lexeme began
	openParent int  // index of the token on top of the stack (the parent stamped onto the next token), or NoParent
	kind       Kind // the lexer's current mode
	numberKind NumberKind

	// pendingBackslash resolves a suspected bug in the reference
	// implementation (spec.md §9 Open Questions): tracking an explicit
	// "previous char began an escape" flag instead of re-inspecting the
	// last pool byte, so a literal unescaped backslash produced by
	// decoding \\ can never be mistaken for a fresh escape marker.
	pendingBackslash bool
}

// Option configures a Parser at construction time.
type Option func(*Parser)

// WithInitialPoolCapacity preallocates the byte pool, avoiding early
// reallocation for callers who know roughly how much text they'll feed.
func WithInitialPoolCapacity(n int) Option {
	return func(p *Parser) { p.arena.pool = make([]byte, 0, n) }
}

// WithMaxPoolBytes caps the pool's size; growing past it returns
// ErrNoMemory. Zero (the default) means unbounded.
func WithMaxPoolBytes(n int) Option {
	return func(p *Parser) { p.arena.maxPoolBytes = n }
}

// WithMaxTokens caps the number of live tokens; pushing past it returns
// ErrNoMemory. Zero (the default) means unbounded.
func WithMaxTokens(n int) Option {
	return func(p *Parser) { p.arena.maxTokens = n }
}

// NewParser creates a Parser that reports structural events to sink.
func NewParser(sink EventSink, opts ...Option) *Parser {
	p := &Parser{
		arena:      newArena(64),
		sink:       sink,
		openParent: NoParent,
		kind:       KindUndefined,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Parser) cur() int { return len(p.arena.pool) }

// Parse feeds exactly one code point into the state machine. Internally it
// may loop when a closing character must be replayed against a new state
// (see the "Replay" design note); it never recurses.
func (p *Parser) Parse(c rune) error {
	for {
		var err error
		switch p.kind {
		case KindUndefined:
			err = p.value(c)
		case KindIdentifier:
			err = p.identifier(c)
		case KindString:
			err = p.stringValue(c)
		case KindNumber:
			err = p.number(c)
		case KindContinue:
			err = p.continueValue(c)
		default:
			return ErrTokenKindUndefined
		}
		if err == errRepeat {
			continue
		}
		return err
	}
}

// End finalizes the parse: any in-flight lexeme is flushed with a synthetic
// space, then the remaining open-token stack is consumed top to bottom.
func (p *Parser) End() error {
	if p.start != p.cur() {
		if err := p.Parse(' '); err != nil {
			return err
		}
	}
	for p.arena.tokenCount() > 0 {
		if err := p.consume(1); err != nil {
			return err
		}
	}
	return nil
}

// value handles the Undefined (inter-token) state.
func (p *Parser) value(c rune) error {
	switch c {
	case '.':
		return p.consume(3)
	case ';':
		return p.consume(2)
	case ',':
		return p.consume(1)
	case '(':
		tok := Token{Start: p.cur(), Length: p.cur(), Parent: p.openParent, Kind: KindGroup}
		idx, err := p.arena.pushToken(tok)
		if err != nil {
			return err
		}
		p.openParent = idx
		return nil
	case ')':
		for {
			t, err := p.arena.peekToken(0)
			if err != nil {
				return err
			}
			if t.Kind != KindGroup {
				if err := p.emitAndPop(); err != nil {
					return err
				}
				continue
			}
			if _, err := p.popAndRelease(); err != nil {
				return err
			}
			return nil
		}
	case '"':
		p.kind = KindString
		p.pendingBackslash = false
		return nil
	case '\\':
		t, err := p.arena.peekToken(0)
		if err != nil {
			return err
		}
		if t.Kind != KindString {
			return ErrInvalidCharacter
		}
		p.kind = KindContinue
		return nil
	default:
		if !IsValidCodePoint(c) {
			return ErrInvalidCharacter
		}
		if IsWhitespace(c) {
			return nil
		}
		if IsDigit(c) {
			p.kind = KindNumber
			p.numberKind = NumberUnknown
		} else {
			p.kind = KindIdentifier
		}
		return p.arena.appendCodePoint(c)
	}
}

// identifier handles the Identifier state.
func (p *Parser) identifier(c rune) error {
	if IsWhitespace(c) || IsReserved(c) {
		if err := p.arena.appendByte(0); err != nil {
			return err
		}
		tok := Token{
			Start:  p.start,
			Length: p.cur() - p.start - 1,
			Parent: p.openParent,
			Kind:   KindIdentifier,
		}
		p.start = p.cur()

		if err := p.promote(); err != nil {
			return err
		}
		idx, err := p.arena.pushToken(tok)
		if err != nil {
			return err
		}
		p.openParent = idx
		p.kind = KindUndefined

		if IsWhitespace(c) {
			return nil
		}
		return errRepeat
	}
	return p.arena.appendCodePoint(c)
}

// stringValue handles the String state.
func (p *Parser) stringValue(c rune) error {
	if p.pendingBackslash {
		decoded, err := escapeChar(c)
		if err != nil {
			return err
		}
		p.pendingBackslash = false
		// Overwrite the speculatively-appended backslash byte in place;
		// every decoded escape value is a single ASCII byte.
		p.arena.pool[len(p.arena.pool)-1] = byte(decoded)
		return nil
	}

	if c == '"' {
		if err := p.arena.appendByte(0); err != nil {
			return err
		}
		tok := Token{
			Start:  p.start,
			Length: p.cur() - p.start - 1,
			Parent: p.openParent,
			Kind:   KindString,
		}
		p.start = p.cur()

		if err := p.promote(); err != nil {
			return err
		}
		idx, err := p.arena.pushToken(tok)
		if err != nil {
			return err
		}
		p.openParent = idx
		p.kind = KindUndefined
		return nil
	}

	if c == '\\' {
		p.pendingBackslash = true
		return p.arena.appendCodePoint(c)
	}

	return p.arena.appendCodePoint(c)
}

// continueValue handles the Continue state: we've just seen `"\` and are
// waiting for the `"` that reopens the preceding string in place.
func (p *Parser) continueValue(c rune) error {
	if IsWhitespace(c) {
		return nil
	}
	if c != '"' {
		return ErrInvalidCharacter
	}

	idxBeforePop := p.arena.top()
	tok, err := p.arena.popToken()
	if err != nil {
		return err
	}
	if idxBeforePop == p.openParent {
		p.openParent = tok.Parent
	}
	p.start = tok.Start
	p.arena.pool = p.arena.pool[:tok.Start+tok.Length]
	p.kind = KindString
	p.pendingBackslash = false
	return nil
}

// number handles the Number state.
func (p *Parser) number(c rune) error {
	if p.numberKind == NumberUnknown {
		if p.arena.pool[p.start] == '0' {
			// The leading "0" and, for hex, the radix letter are markers
			// rather than digits of the value: drop them from the pool so
			// the stored lexeme is just the significant digits ("FF", not
			// "0xFF"); the serializer reattaches the prefix on output.
			if c == 'x' || c == 'X' {
				p.numberKind = NumberHex
				p.arena.pool = p.arena.pool[:p.start]
				return nil
			}
			p.numberKind = NumberOct
			p.arena.pool = p.arena.pool[:p.start]
		} else {
			p.numberKind = NumberDec
		}
	}

	closing := !(c == '.' && p.numberKind == NumberDec) && (IsWhitespace(c) || IsReserved(c))
	if closing {
		cur := p.cur()
		dot := IsWhitespace(c) && cur > p.start && p.arena.pool[cur-1] == '.'
		if dot {
			p.arena.pool[cur-1] = 0
		} else if err := p.arena.appendByte(0); err != nil {
			return err
		}

		tok := Token{
			Start:      p.start,
			Length:     p.cur() - p.start - 1,
			Parent:     p.openParent,
			Kind:       KindNumber,
			NumberKind: p.numberKind,
		}
		p.start = p.cur()

		if err := p.promote(); err != nil {
			return err
		}
		idx, err := p.arena.pushToken(tok)
		if err != nil {
			return err
		}
		p.openParent = idx
		p.kind = KindUndefined

		if dot {
			if err := p.consume(3); err != nil {
				return err
			}
		}
		if IsWhitespace(c) {
			return nil
		}
		return errRepeat
	}

	switch p.numberKind {
	case NumberDec:
		if c == '.' {
			p.numberKind = NumberReal
		} else if !IsDigit(c) {
			return ErrInvalidCharacter
		}
	case NumberReal:
		if !IsDigit(c) {
			return ErrInvalidCharacter
		}
	case NumberHex:
		if !IsHexDigit(c) {
			return ErrInvalidCharacter
		}
	case NumberOct:
		if !IsOctDigit(c) {
			return ErrInvalidCharacter
		}
	default:
		return ErrTokenKindUndefined
	}
	return p.arena.appendCodePoint(c)
}

// promote is the retroactive section-detection scan (spec §4.3.1): walking
// back from the top of the stack, every Identifier/String becomes a
// Section, groups are skipped transparently, and anything else stops the
// scan.
func (p *Parser) promote() error {
	i := 0
	for {
		t, err := p.arena.peekToken(i)
		if err != nil {
			return nil
		}
		switch t.Kind {
		case KindIdentifier, KindString:
			t.Kind = KindSection
			id := p.arena.tokenCount() - 1 - i
			p.sink.StartSection(p, id)
			i++
		case KindGroup:
			i++
		default:
			return nil
		}
	}
}

// emitAndPop fires the appropriate sink callback for the token on top of
// the stack, then pops it.
func (p *Parser) emitAndPop() error {
	t, err := p.arena.peekToken(0)
	if err != nil {
		return err
	}
	id := p.arena.top()
	switch t.Kind {
	case KindSection:
		p.sink.EndSection(p, id)
	case KindNumber:
		p.sink.Number(p, id)
	case KindIdentifier, KindString:
		p.sink.String(p, id)
	default:
		return ErrInvalidCharacter
	}
	_, err = p.popAndRelease()
	return err
}

// consume emits and pops n tokens off the top of the stack.
func (p *Parser) consume(n int) error {
	for i := 0; i < n; i++ {
		if err := p.emitAndPop(); err != nil {
			return err
		}
	}
	return nil
}

// popAndRelease pops the top token, restoring openParent if it was the
// popped token, and releases its lexeme bytes by truncating the pool back
// to the token's start. This is safe because tokens are always popped in
// the same LIFO order their lexemes were appended.
func (p *Parser) popAndRelease() (Token, error) {
	idxBeforePop := p.arena.top()
	tok, err := p.arena.popToken()
	if err != nil {
		return Token{}, err
	}
	if idxBeforePop == p.openParent {
		p.openParent = tok.Parent
	}
	p.start = tok.Start
	p.arena.pool = p.arena.pool[:tok.Start]
	return tok, nil
}

// escapeChar decodes a character following a backslash inside a string
// literal.
func escapeChar(c rune) (rune, error) {
	switch c {
	case '\'', '"', '?', '\\':
		return c, nil
	case 'a':
		return '\a', nil
	case 'b':
		return '\b', nil
	case 'f':
		return '\f', nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case 'v':
		return '\v', nil
	case 'e':
		return 0x1B, nil
	default:
		return 0, ErrInvalidCharacter
	}
}

// Parent returns the parent index of token id, or NoParent if id is out of
// range.
func (p *Parser) Parent(id int) int {
	if id < 0 || id >= p.arena.tokenCount() {
		return NoParent
	}
	return p.arena.tokens[id].Parent
}

// Value borrows token id's lexeme. The returned slice is valid only until
// the next Parse/End call, which may grow (and relocate) the pool.
func (p *Parser) Value(id int) []byte {
	if id < 0 || id >= p.arena.tokenCount() {
		return nil
	}
	t := p.arena.tokens[id]
	return p.arena.pool[t.Start : t.Start+t.Length]
}

// NumberKindOf returns the numeric subtype of token id, or
// ErrTokenKindUndefined if id does not name a Number token.
func (p *Parser) NumberKindOf(id int) (NumberKind, error) {
	if id < 0 || id >= p.arena.tokenCount() || p.arena.tokens[id].Kind != KindNumber {
		return NumberUnknown, ErrTokenKindUndefined
	}
	return p.arena.tokens[id].NumberKind, nil
}

// Kind returns the current kind of token id, mainly useful for diagnostics
// and tests.
func (p *Parser) Kind(id int) Kind {
	if id < 0 || id >= p.arena.tokenCount() {
		return KindUndefined
	}
	return p.arena.tokens[id].Kind
}
