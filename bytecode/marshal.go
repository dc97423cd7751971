package bytecode

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// FormatVersion is the version written into serialized programs.
const FormatVersion = 1

// magic prefixes compiled program files written by EncodeFile.
var magic = []byte("BFKC")

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("bytecode: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

type programState struct {
	Version      int           `json:"version" cbor:"1,keyasint"`
	Name         string        `json:"name,omitempty" cbor:"2,keyasint,omitempty"`
	SourceChars  int           `json:"source_chars" cbor:"3,keyasint"`
	Instructions []Instruction `json:"instructions" cbor:"4,keyasint"`
}

func stateFromProgram(p *Program) *programState {
	return &programState{
		Version:      FormatVersion,
		Name:         p.name,
		SourceChars:  p.sourceChars,
		Instructions: p.instructions,
	}
}

func programFromState(state *programState) (*Program, error) {
	if state.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported program format version %d", state.Version)
	}
	p := NewProgram(ProgramParams{
		Name:         state.Name,
		Instructions: state.Instructions,
		SourceChars:  state.SourceChars,
	})
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid program: %w", err)
	}
	return p, nil
}

// Marshal converts a Program into a JSON representation.
func Marshal(p *Program) ([]byte, error) {
	return json.Marshal(stateFromProgram(p))
}

// Unmarshal converts a JSON representation into a Program. The decoded
// program is validated.
func Unmarshal(data []byte) (*Program, error) {
	var state programState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return programFromState(&state)
}

// MarshalCBOR serializes a Program to canonical CBOR bytes.
func MarshalCBOR(p *Program) ([]byte, error) {
	return cborEncMode.Marshal(stateFromProgram(p))
}

// UnmarshalCBOR deserializes and validates a Program from CBOR bytes.
func UnmarshalCBOR(data []byte) (*Program, error) {
	var state programState
	if err := cbor.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("bytecode: unmarshal program: %w", err)
	}
	return programFromState(&state)
}

// Encode returns the on-disk form of a compiled program: a four byte magic
// header followed by the CBOR encoding.
func Encode(p *Program) ([]byte, error) {
	payload, err := MarshalCBOR(p)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(magic)+len(payload))
	out = append(out, magic...)
	return append(out, payload...), nil
}

// Decode parses the output of Encode.
func Decode(data []byte) (*Program, error) {
	if !IsEncoded(data) {
		return nil, fmt.Errorf("bytecode: missing program header")
	}
	return UnmarshalCBOR(data[len(magic):])
}

// IsEncoded reports whether data starts with the compiled program header.
func IsEncoded(data []byte) bool {
	return bytes.HasPrefix(data, magic)
}
