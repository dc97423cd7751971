package errors

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"
)

func TestAllocationError(t *testing.T) {
	err := NewAllocationError("buffer", 64)
	require.Equal(t, "buffer: failed to allocate memory: 64 bytes needed", err.Error())
	require.Equal(t, KindAllocation, err.Kind())
	require.Equal(t, 64, err.Requested)
	require.Equal(t, ExitFailure, err.ExitCode())
	require.True(t, err.IsFatal())
}

func TestIOError(t *testing.T) {
	err := NewIOError("buffer", "read failed", io.ErrUnexpectedEOF)
	require.Equal(t, "buffer: read failed: unexpected EOF", err.Error())
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	require.Equal(t, "buffer", err.Stage())
	require.Equal(t, "read failed", err.Reason())

	bare := NewIOError("load", "", io.EOF)
	require.Equal(t, "load: EOF", bare.Error())
}

func TestParseError(t *testing.T) {
	err := NewParseError("compiler", "unmatched opening bracket")
	require.Equal(t, "compiler: unmatched opening bracket", err.Error())
	require.Equal(t, -1, err.Offset)

	at := ParseErrorAt("compiler", "unmatched closing bracket", 4)
	require.Equal(t, "compiler: unmatched closing bracket (offset 4)", at.Error())
	require.Equal(t, KindParse, at.Kind())
}

func TestRuntimeError(t *testing.T) {
	err := NewRuntimeError("move left out of bounds", 2, 7, nil)
	require.Equal(t, "run: move left out of bounds", err.Error())
	require.Equal(t, 2, err.ExitCode())
	require.Equal(t, 7, err.PC)
	require.Nil(t, errors.Unwrap(err))
}

func TestExitCode(t *testing.T) {
	require.Equal(t, 0, ExitCode(nil))
	require.Equal(t, ExitFailure, ExitCode(errors.New("boom")))
	require.Equal(t, 5, ExitCode(NewRuntimeError("write to output failed", 5, 0, nil)))
	wrapped := fmt.Errorf("running: %w", NewRuntimeError("move right out of bounds", 1, 0, nil))
	require.Equal(t, 1, ExitCode(wrapped))
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewParseError("tokenizer", "unexpected end of file"))
	require.True(t, IsKind(err, KindParse))
	require.False(t, IsKind(err, KindIO))
	require.False(t, IsKind(errors.New("plain"), KindParse))
}

func TestKindString(t *testing.T) {
	require.Equal(t, "allocation error", KindAllocation.String())
	require.Equal(t, "io error", KindIO.String())
	require.Equal(t, "parse error", KindParse.String())
	require.Equal(t, "runtime error", KindRuntime.String())
	require.Equal(t, "error", Kind(99).String())
}

func TestFormat(t *testing.T) {
	f := NewFormatter(false)
	require.Equal(t, "", f.Format(nil))
	require.Equal(t, `[ERROR]: "compiler" unmatched opening bracket`,
		f.Format(NewParseError("compiler", "unmatched opening bracket")))
	require.Equal(t, `[ERROR]: "bfk" something else`, f.Format(errors.New("something else")))

	var merr *multierror.Error
	merr = multierror.Append(merr, ParseErrorAt("lint", "unmatched closing bracket", 0))
	merr = multierror.Append(merr, ParseErrorAt("lint", "unmatched opening bracket", 3))
	require.Equal(t,
		"[ERROR]: \"lint\" unmatched closing bracket (offset 0)\n[ERROR]: \"lint\" unmatched opening bracket (offset 3)",
		f.Format(merr))
}

func TestFormatColor(t *testing.T) {
	f := NewFormatter(true)
	out := f.Format(NewRuntimeError("move right out of bounds", 1, 0, nil))
	require.Contains(t, out, "move right out of bounds")
	require.Contains(t, out, `"run"`)
}
