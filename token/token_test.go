package token

import (
	"testing"

	"github.com/deepnoodle-ai/bfk/buffer"
	"github.com/deepnoodle-ai/bfk/errors"
	"github.com/deepnoodle-ai/bfk/op"
	"github.com/stretchr/testify/require"
)

func TestNextMapping(t *testing.T) {
	tok := New([]byte("><+-.,[]"))
	expected := []op.Code{
		op.MoveRight,
		op.MoveLeft,
		op.Increment,
		op.Decrement,
		op.Write,
		op.Read,
		op.JumpIfZero,
		op.JumpIfNotZero,
	}
	for i, want := range expected {
		require.Equal(t, i, tok.Position())
		require.Equal(t, want, tok.Next())
	}
	require.Equal(t, op.EndOfInput, tok.Next())
	require.Equal(t, op.EndOfInput, tok.Next())
	require.Equal(t, 0, tok.Remaining())
	require.Nil(t, tok.Err())
}

func TestPeekDoesNotAdvance(t *testing.T) {
	tok := New([]byte("+-"))
	require.Equal(t, op.Increment, tok.Peek())
	require.Equal(t, op.Increment, tok.Peek())
	require.Equal(t, 2, tok.Remaining())
	require.Equal(t, op.Increment, tok.Next())
	require.Equal(t, op.Decrement, tok.Peek())
	require.Equal(t, op.Decrement, tok.Next())
	require.Equal(t, op.EndOfInput, tok.Peek())
	require.Equal(t, 2, tok.Position())
}

func TestEmpty(t *testing.T) {
	tok := New(nil)
	require.Equal(t, 0, tok.Len())
	require.Equal(t, op.EndOfInput, tok.Peek())
	require.Equal(t, op.EndOfInput, tok.Next())
	require.Nil(t, tok.Err())
}

func TestUnexpectedByte(t *testing.T) {
	tok := New([]byte("+x+"))
	require.Equal(t, op.Increment, tok.Next())
	require.Equal(t, op.EndOfInput, tok.Next())
	require.Equal(t, op.EndOfInput, tok.Peek())
	// The cursor stays on the offending byte.
	require.Equal(t, 1, tok.Position())

	err := tok.Err()
	require.NotNil(t, err)
	var parseErr *errors.ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, 1, parseErr.Offset)
}

func TestTokenizerOwnsData(t *testing.T) {
	src := []byte("++")
	tok := New(src)
	src[0] = '-'
	require.Equal(t, op.Increment, tok.Next())
}

func TestFromBuffer(t *testing.T) {
	raw, err := buffer.FromBytes([]byte("a+b-c"))
	require.Nil(t, err)
	filtered, err := raw.FilterIncluding(op.Alphabet)
	require.Nil(t, err)

	tok := FromBuffer(filtered)
	filtered.Reset()
	require.Equal(t, 2, tok.Remaining())
	require.Equal(t, op.Increment, tok.Next())
	require.Equal(t, op.Decrement, tok.Next())
}
