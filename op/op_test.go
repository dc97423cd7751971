package op

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo(JumpIfNotZero)
	require.Equal(t, "JUMP_IF_NOT_ZERO", info.Name)
	require.Equal(t, byte(']'), info.Char)
	require.False(t, info.Foldable)
	require.Equal(t, JumpIfNotZero, info.Code)
}

func TestGetInfoAllOpcodes(t *testing.T) {
	tests := []struct {
		code     Code
		value    int
		name     string
		char     byte
		foldable bool
	}{
		{EndOfProgram, 0, "END", 0, false},
		{MoveRight, 1, "MOVE_RIGHT", '>', true},
		{MoveLeft, 2, "MOVE_LEFT", '<', true},
		{Increment, 3, "INCREMENT", '+', true},
		{Decrement, 4, "DECREMENT", '-', true},
		{Write, 5, "WRITE", '.', true},
		{Read, 6, "READ", ',', true},
		{JumpIfZero, 7, "JUMP_IF_ZERO", '[', false},
		{JumpIfNotZero, 8, "JUMP_IF_NOT_ZERO", ']', false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := GetInfo(tt.code)
			require.Equal(t, tt.value, int(tt.code))
			require.Equal(t, tt.name, info.Name)
			require.Equal(t, tt.name, tt.code.String())
			require.Equal(t, tt.char, info.Char)
			require.Equal(t, tt.foldable, tt.code.Foldable())
		})
	}
}

func TestEndOfInput(t *testing.T) {
	require.Equal(t, EndOfProgram, EndOfInput)
}

func TestUnknownOpcode(t *testing.T) {
	require.Equal(t, "UNKNOWN", Code(42).String())
	require.False(t, Code(42).Foldable())
	require.False(t, Code(42).IsJump())
}

func TestIsJump(t *testing.T) {
	require.True(t, JumpIfZero.IsJump())
	require.True(t, JumpIfNotZero.IsJump())
	require.False(t, Increment.IsJump())
	require.False(t, EndOfProgram.IsJump())
}

func TestFromChar(t *testing.T) {
	for i := 0; i < len(Alphabet); i++ {
		code, ok := FromChar(Alphabet[i])
		require.True(t, ok)
		require.Equal(t, Alphabet[i], GetInfo(code).Char)
	}
	for _, ch := range []byte("abc \n\x00#") {
		code, ok := FromChar(ch)
		require.False(t, ok)
		require.Equal(t, EndOfInput, code)
	}
}
