// Package buffer provides the growable byte buffer used to ingest source
// text.
//
// A Buffer starts with a capacity of 16 bytes and doubles its capacity
// whenever an append would not fit. One byte past the logical length is
// always reserved and kept at zero, so the capacity bookkeeping matches a
// NUL-terminated string of the same contents. Capacity never shrinks.
package buffer

import (
	"io"
	"os"

	"github.com/deepnoodle-ai/bfk/errors"
)

const (
	// InitialCapacity is the capacity of a newly created Buffer.
	InitialCapacity = 16

	// ChunkSize is the number of bytes requested per read when ingesting a
	// file or stream.
	ChunkSize = 4096
)

const stage = "buffer"

// Buffer is an amortized-doubling byte buffer.
type Buffer struct {
	data  []byte // len(data) is the capacity
	size  int
	limit int // maximum stored bytes, 0 means unbounded
}

// New returns an empty Buffer with no capacity limit.
func New() *Buffer {
	return &Buffer{data: make([]byte, InitialCapacity)}
}

// NewWithLimit returns an empty Buffer that holds at most limit bytes. Its
// capacity never exceeds limit plus the terminator slot, and appending past
// the limit fails with an AllocationError. A limit of zero or less means
// unbounded.
func NewWithLimit(limit int) *Buffer {
	b := New()
	if limit > 0 {
		b.limit = limit
	}
	return b
}

// FromBytes returns a Buffer holding a copy of p.
func FromBytes(p []byte) (*Buffer, error) {
	b := New()
	if err := b.Append(p); err != nil {
		return nil, err
	}
	return b, nil
}

// Len returns the number of bytes stored in the buffer.
func (b *Buffer) Len() int { return b.size }

// Cap returns the current capacity of the buffer.
func (b *Buffer) Cap() int { return len(b.data) }

// Limit returns the maximum number of stored bytes, or 0 when unbounded.
func (b *Buffer) Limit() int { return b.limit }

// Bytes returns the stored bytes. The slice aliases the buffer and is only
// valid until the next mutation.
func (b *Buffer) Bytes() []byte { return b.data[:b.size:b.size] }

// String returns the stored bytes as a string.
func (b *Buffer) String() string { return string(b.data[:b.size]) }

// At returns the byte at index i.
func (b *Buffer) At(i int) byte { return b.data[i] }

// AppendByte appends a single byte.
func (b *Buffer) AppendByte(c byte) error {
	if err := b.reserve(1); err != nil {
		return err
	}
	b.data[b.size] = c
	b.size++
	b.terminate()
	return nil
}

// Append appends p to the buffer. On failure the buffer is unchanged.
func (b *Buffer) Append(p []byte) error {
	if err := b.reserve(len(p)); err != nil {
		return err
	}
	b.size += copy(b.data[b.size:], p)
	b.terminate()
	return nil
}

// AppendString appends s to the buffer. On failure the buffer is unchanged.
func (b *Buffer) AppendString(s string) error {
	if err := b.reserve(len(s)); err != nil {
		return err
	}
	b.size += copy(b.data[b.size:], s)
	b.terminate()
	return nil
}

// Pop removes the last byte. It is a no-op on an empty buffer.
func (b *Buffer) Pop() {
	if b.size > 0 {
		b.size--
		b.terminate()
	}
}

// Reset empties the buffer without releasing capacity.
func (b *Buffer) Reset() {
	b.size = 0
	b.terminate()
}

// reserve makes room for n more bytes plus the terminator slot.
func (b *Buffer) reserve(n int) error {
	return b.expand(b.size + n + 1)
}

// expand doubles the capacity until it is at least req, clamped to the
// limit. The buffer is left untouched when req itself exceeds the limit.
func (b *Buffer) expand(req int) error {
	capacity := len(b.data)
	if req <= capacity {
		return nil
	}
	if b.limit > 0 && req > b.limit+1 {
		return errors.NewAllocationError(stage, req)
	}
	if capacity == 0 {
		capacity = InitialCapacity
	}
	for req > capacity {
		if capacity > maxInt/2 {
			return errors.NewAllocationError(stage, req)
		}
		capacity *= 2
	}
	if b.limit > 0 && capacity > b.limit+1 {
		capacity = b.limit + 1
	}
	data := make([]byte, capacity)
	copy(data, b.data[:b.size])
	b.data = data
	return nil
}

func (b *Buffer) terminate() {
	b.data[b.size] = 0
}

const maxInt = int(^uint(0) >> 1)

// ReadFrom appends everything readable from r, requesting ChunkSize bytes
// per read and growing the buffer as needed. Near the limit the read window
// shrinks to the remaining room. It implements io.ReaderFrom.
func (b *Buffer) ReadFrom(r io.Reader) (int64, error) {
	var total int64
	for {
		window := b.window()
		if window == 0 {
			// Full: any further byte overflows the limit.
			if err := b.expand(b.size + 1); err != nil {
				return total, err
			}
			b.terminate()
			var extra [1]byte
			n, err := r.Read(extra[:])
			if n > 0 {
				return total, errors.NewAllocationError(stage, b.size+n+1)
			}
			if err == io.EOF {
				break
			}
			if err != nil {
				return total, errors.NewIOError(stage, "read failed", err)
			}
			continue
		}
		if err := b.expand(b.size + window); err != nil {
			return total, err
		}
		n, err := r.Read(b.data[b.size : b.size+window])
		b.size += n
		total += int64(n)
		if err == io.EOF {
			break
		}
		if err != nil {
			b.expand(b.size + 1)
			b.terminate()
			return total, errors.NewIOError(stage, "read failed", err)
		}
	}
	if err := b.expand(b.size + 1); err != nil {
		return total, err
	}
	b.terminate()
	return total, nil
}

// window returns the number of bytes the next read may request.
func (b *Buffer) window() int {
	if b.limit > 0 && b.limit-b.size < ChunkSize {
		return b.limit - b.size
	}
	return ChunkSize
}

// ReadFile returns a new Buffer holding the contents of the named file.
func ReadFile(path string) (*Buffer, error) {
	return ReadFileWithLimit(path, 0)
}

// ReadFileWithLimit is like ReadFile but caps the buffer capacity.
func ReadFileWithLimit(path string, limit int) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIOError(stage, "failed to read source file", err)
	}
	defer f.Close()
	b := NewWithLimit(limit)
	if _, err := b.ReadFrom(f); err != nil {
		return nil, err
	}
	return b, nil
}
