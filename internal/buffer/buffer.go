package buffer

// Buffer hosts non-interrelated byte sequences (segments) in a single growing slice,
// letting a segment be written in pieces as they arrive from the socket. The total
// amount of memory is bounded by maxSize.
type Buffer struct {
	memory  []byte
	begin   int
	maxSize int
}

func New(initialSize, maxSize int) *Buffer {
	return &Buffer{
		memory:  make([]byte, 0, initialSize),
		maxSize: maxSize,
	}
}

// Append writes data into the current segment. If the limit would be exceeded, nothing
// is written and false is returned.
func (b *Buffer) Append(elements []byte) (ok bool) {
	if len(b.memory)+len(elements) > b.maxSize {
		return false
	}

	b.memory = append(b.memory, elements...)
	return true
}

// Preview returns current segment without completing it.
func (b *Buffer) Preview() []byte {
	return b.memory[b.begin:]
}

// Finish completes current segment, returning its value. The value stays valid until
// Clear is called.
func (b *Buffer) Finish() []byte {
	segment := b.memory[b.begin:]
	b.begin = len(b.memory)

	return segment
}

// Discard drops the current segment.
func (b *Buffer) Discard() {
	b.memory = b.memory[:b.begin]
}

// Clear just resets the pointers, so old values may be overridden by new ones.
func (b *Buffer) Clear() {
	b.begin = 0
	b.memory = b.memory[:0]
}
