package lexer

import (
	"bytes"
	"fmt"

	"fortio.org/safecast"

	"anchorsec/internal/source"
)

// Cursor walks the bytes of one file. Lookahead past the end yields 0.
type Cursor struct {
	src  []byte
	file source.FileID
	end  uint32
	// Off: текущее смещение в байтах.
	Off uint32
}

// NewCursor positions a cursor at the start of f.
func NewCursor(f *source.File) Cursor {
	end, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return Cursor{src: f.Content, file: f.ID, end: end}
}

// EOF reports that every byte was consumed.
func (c *Cursor) EOF() bool { return c.Off >= c.end }

// PeekAt returns the byte n positions ahead, or 0 past the end.
func (c *Cursor) PeekAt(n uint32) byte {
	if i := c.Off + n; i < c.end {
		return c.src[i]
	}
	return 0
}

// Rest returns the unread bytes starting n positions ahead.
func (c *Cursor) Rest(n uint32) []byte {
	if i := c.Off + n; i < c.end {
		return c.src[i:c.end]
	}
	return nil
}

// Peek returns the current byte, or 0 at EOF.
func (c *Cursor) Peek() byte { return c.PeekAt(0) }

// Peek2 returns the next two bytes; ok is false when fewer remain.
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if c.Off+1 >= c.end {
		return 0, 0, false
	}
	return c.src[c.Off], c.src[c.Off+1], true
}

// Peek3 is Peek2 with one more byte of lookahead.
func (c *Cursor) Peek3() (b0, b1, b2 byte, ok bool) {
	if c.Off+2 >= c.end {
		return 0, 0, 0, false
	}
	return c.src[c.Off], c.src[c.Off+1], c.src[c.Off+2], true
}

// At reports whether the byte n positions ahead equals b.
func (c *Cursor) At(n uint32, b byte) bool {
	i := c.Off + n
	return i < c.end && c.src[i] == b
}

// Bump consumes and returns one byte; at EOF it returns 0 and stays put.
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.src[c.Off]
	c.Off++
	return b
}

// Eat consumes b if it is next.
func (c *Cursor) Eat(b byte) bool {
	if c.At(0, b) {
		c.Off++
		return true
	}
	return false
}

// EatStr consumes seq if the unread bytes start with it.
func (c *Cursor) EatStr(seq string) bool {
	if !bytes.HasPrefix(c.Rest(0), []byte(seq)) {
		return false
	}
	c.Off += uint32(len(seq)) // #nosec G115 -- operator literals are a few bytes
	return true
}

// Mark is a saved offset, see SpanFrom and Reset.
type Mark uint32

func (c *Cursor) Mark() Mark { return Mark(c.Off) }

// SpanFrom returns the span between m and the current offset.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.file, Start: uint32(m), End: c.Off}
}

// Reset rewinds to m.
func (c *Cursor) Reset(m Mark) { c.Off = uint32(m) }
