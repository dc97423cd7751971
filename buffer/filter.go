package buffer

// byteSet is a membership table over all byte values.
type byteSet [256]bool

func newByteSet(chars string) *byteSet {
	var s byteSet
	for i := 0; i < len(chars); i++ {
		s[chars[i]] = true
	}
	return &s
}

// FilterExcluding returns a new Buffer holding, in order, the bytes of b
// that do not appear in exclude.
func (b *Buffer) FilterExcluding(exclude string) (*Buffer, error) {
	return b.filter(newByteSet(exclude), false)
}

// FilterIncluding returns a new Buffer holding, in order, only the bytes of
// b that appear in include. It is used to strip comments from source text.
func (b *Buffer) FilterIncluding(include string) (*Buffer, error) {
	return b.filter(newByteSet(include), true)
}

func (b *Buffer) filter(set *byteSet, keep bool) (*Buffer, error) {
	dest := NewWithLimit(b.limit)
	for _, c := range b.data[:b.size] {
		if set[c] != keep {
			continue
		}
		if err := dest.AppendByte(c); err != nil {
			return nil, err
		}
	}
	return dest, nil
}
