// Package token turns a filtered instruction stream into instruction kinds.
//
// The tokenizer expects its input to contain only characters from
// op.Alphabet; comments are stripped beforehand with buffer.FilterIncluding.
package token

import (
	"github.com/deepnoodle-ai/bfk/buffer"
	"github.com/deepnoodle-ai/bfk/errors"
	"github.com/deepnoodle-ai/bfk/op"
)

const stage = "tokenizer"

// Tokenizer is a cursor over a filtered character stream with one token of
// lookahead.
type Tokenizer struct {
	data  []byte
	index int
	err   error
}

// New returns a Tokenizer over a copy of data.
func New(data []byte) *Tokenizer {
	owned := make([]byte, len(data))
	copy(owned, data)
	return &Tokenizer{data: owned}
}

// FromBuffer returns a Tokenizer over the contents of buf. The tokenizer
// keeps its own copy, so buf may be reused or discarded afterwards.
func FromBuffer(buf *buffer.Buffer) *Tokenizer {
	return New(buf.Bytes())
}

// Next returns the kind of the character at the cursor and advances past it.
// It returns op.EndOfInput once every character has been consumed. A byte
// outside the alphabet also yields op.EndOfInput and records an error that
// is available from Err.
func (t *Tokenizer) Next() op.Code {
	if t.index >= len(t.data) {
		return op.EndOfInput
	}
	code, ok := op.FromChar(t.data[t.index])
	if !ok {
		if t.err == nil {
			t.err = errors.ParseErrorAt(stage, "unexpected end of file", t.index)
		}
		return op.EndOfInput
	}
	t.index++
	return code
}

// Peek returns what Next would return without advancing the cursor.
func (t *Tokenizer) Peek() op.Code {
	next := t.Next()
	if next == op.EndOfInput {
		return next
	}
	t.index--
	return next
}

// Remaining returns the number of characters not yet consumed.
func (t *Tokenizer) Remaining() int {
	return len(t.data) - t.index
}

// Position returns the index of the next character to be read.
func (t *Tokenizer) Position() int {
	return t.index
}

// Len returns the total number of characters in the stream.
func (t *Tokenizer) Len() int {
	return len(t.data)
}

// Err returns the first error encountered, if any.
func (t *Tokenizer) Err() error {
	return t.err
}
