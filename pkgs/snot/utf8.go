package snot

// appendCodePoint encodes c as 1-4 bytes of UTF-8 and appends it to the
// pool, returning ErrNoMemory instead if fewer than 4 bytes remain under the
// configured pool ceiling.
// c is assumed already validated by IsValidCodePoint.
func (a *arena) appendCodePoint(c rune) error {
	if err := a.growPool(4); err != nil {
		return err
	}

	switch {
	case c <= 0x7F:
		a.pool = append(a.pool, byte(c))
	case c <= 0x7FF:
		a.pool = append(a.pool,
			byte(0xC0|(c>>6)),
			byte(0x80|(c&0x3F)),
		)
	case c <= 0xFFFF:
		a.pool = append(a.pool,
			byte(0xE0|(c>>12)),
			byte(0x80|((c>>6)&0x3F)),
			byte(0x80|(c&0x3F)),
		)
	default:
		a.pool = append(a.pool,
			byte(0xF0|(c>>18)),
			byte(0x80|((c>>12)&0x3F)),
			byte(0x80|((c>>6)&0x3F)),
			byte(0x80|(c&0x3F)),
		)
	}
	return nil
}

// appendByte appends a single raw byte to the pool (used for the NUL
// sentinel).
func (a *arena) appendByte(b byte) error {
	if err := a.growPool(1); err != nil {
		return err
	}
	a.pool = append(a.pool, b)
	return nil
}
