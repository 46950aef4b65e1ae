// Package ring implements a fixed-capacity circular byte buffer: the sole
// queueing primitive between transports and the frame codec.
//
// A Buffer owns a caller-provided backing array and tracks size, iStart and
// iStop indices with modular arithmetic. Pushing past capacity evicts the
// opposite end rather than failing; popping an empty buffer is an error.
package ring

import "errors"

// ErrEmpty is returned by PopFront/PopBack on an empty Buffer.
var ErrEmpty = errors.New("ring: pop from empty buffer")

// ErrOutOfRange is returned by At when the index is >= Size().
var ErrOutOfRange = errors.New("ring: index out of range")

// Buffer is a fixed-capacity circular byte FIFO.
type Buffer struct {
	buf    []byte
	size   int
	iStart int
	iStop  int
}

// New returns a Buffer backed by buf. The full length of buf is the
// capacity; the buffer starts empty.
func New(buf []byte) *Buffer {
	return &Buffer{buf: buf}
}

// Cap returns the backing array's length.
func (b *Buffer) Cap() int { return len(b.buf) }

// Size returns the number of bytes currently stored.
func (b *Buffer) Size() int { return b.size }

// IsEmpty reports whether the buffer holds no bytes.
func (b *Buffer) IsEmpty() bool { return b.size == 0 }

// IsFull reports whether the buffer is at capacity.
func (b *Buffer) IsFull() bool { return b.size == len(b.buf) }

// Clear empties the buffer without touching the backing array's contents.
func (b *Buffer) Clear() {
	b.size, b.iStart, b.iStop = 0, 0, 0
}

func (b *Buffer) incStart() { b.iStart = (b.iStart + 1) % len(b.buf) }
func (b *Buffer) incStop()  { b.iStop = (b.iStop + 1) % len(b.buf) }
func (b *Buffer) decStart() {
	if b.iStart == 0 {
		b.iStart = len(b.buf) - 1
	} else {
		b.iStart--
	}
}
func (b *Buffer) decStop() {
	if b.iStop == 0 {
		b.iStop = len(b.buf) - 1
	} else {
		b.iStop--
	}
}

// At returns the byte at logical offset i (0 is the front element).
func (b *Buffer) At(i int) (byte, error) {
	if i < 0 || i >= b.size {
		return 0, ErrOutOfRange
	}
	return b.buf[(b.iStart+i)%len(b.buf)], nil
}

// PushBack appends v as the new back element, evicting the front element if
// the buffer is already full.
func (b *Buffer) PushBack(v byte) {
	b.buf[b.iStop] = v
	b.incStop()
	if b.size == len(b.buf) {
		b.incStart()
	} else {
		b.size++
	}
}

// PushFront prepends v as the new front element, evicting the back element
// if the buffer is already full.
func (b *Buffer) PushFront(v byte) {
	b.decStart()
	b.buf[b.iStart] = v
	if b.size == len(b.buf) {
		b.decStop()
	} else {
		b.size++
	}
}

// PopFront removes and returns the front element.
func (b *Buffer) PopFront() (byte, error) {
	if b.size == 0 {
		return 0, ErrEmpty
	}
	v := b.buf[b.iStart]
	b.incStart()
	b.size--
	return v, nil
}

// PopBack removes and returns the back element.
func (b *Buffer) PopBack() (byte, error) {
	if b.size == 0 {
		return 0, ErrEmpty
	}
	b.decStop()
	b.size--
	return b.buf[b.iStop], nil
}

// FindFirst returns the logical index of the first occurrence of v, or
// Size() if v is not present.
func (b *Buffer) FindFirst(v byte) int {
	for i := 0; i < b.size; i++ {
		if b.buf[(b.iStart+i)%len(b.buf)] == v {
			return i
		}
	}
	return b.size
}

// FindLast returns the logical index of the last occurrence of v, or
// Size() if v is not present.
func (b *Buffer) FindLast(v byte) int {
	for i := b.size - 1; i >= 0; i-- {
		if b.buf[(b.iStart+i)%len(b.buf)] == v {
			return i
		}
	}
	return b.size
}

// Count returns the number of occurrences of v currently stored.
func (b *Buffer) Count(v byte) int {
	n := 0
	for i := 0; i < b.size; i++ {
		if b.buf[(b.iStart+i)%len(b.buf)] == v {
			n++
		}
	}
	return n
}

// RemoveFrontTo drains from the front up to (and, if inclusive, including)
// the first occurrence of v. If v is never found the buffer ends up empty.
func (b *Buffer) RemoveFrontTo(v byte, inclusive bool) {
	for b.size > 0 {
		front, _ := b.At(0)
		if front == v {
			if inclusive {
				b.PopFront()
			}
			return
		}
		b.PopFront()
	}
}

// RemoveBackTo drains from the back up to (and, if inclusive, including)
// the first occurrence of v scanning backward. If v is never found the
// buffer ends up empty.
func (b *Buffer) RemoveBackTo(v byte, inclusive bool) {
	for b.size > 0 {
		back, _ := b.At(b.size - 1)
		if back == v {
			if inclusive {
				b.PopBack()
			}
			return
		}
		b.PopBack()
	}
}

// GetFirstBlock returns the largest contiguous prefix of the buffer's
// contents that lives inside the backing array without wrapping: a slice
// into the backing array (no copy) and its length. Callers that need
// zero-copy access to the whole buffer call this, process the returned
// slice, call DeleteFirstBlock, and repeat until the buffer is empty.
func (b *Buffer) GetFirstBlock() []byte {
	if b.iStart+b.size > len(b.buf) {
		return b.buf[b.iStart:]
	}
	return b.buf[b.iStart : b.iStart+b.size]
}

// DeleteFirstBlock removes exactly the prefix GetFirstBlock returned and
// reports how many bytes were removed.
func (b *Buffer) DeleteFirstBlock() int {
	if b.iStart+b.size > len(b.buf) {
		n := len(b.buf) - b.iStart
		b.iStart = 0
		b.size -= n
		return n
	}
	n := b.size
	b.size, b.iStart, b.iStop = 0, 0, 0
	return n
}

// PushBackBlock pushes all bytes of src onto the back, evicting front
// elements as needed, and returns len(src).
func (b *Buffer) PushBackBlock(src []byte) int {
	for _, v := range src {
		b.PushBack(v)
	}
	return len(src)
}

// PushBackFromReader pushes bytes into the buffer by handing read a
// contiguous free region at the tail of the backing array (up to the
// largest contiguous free run) and pushing however many bytes it reports
// having written. It stops once read returns 0 or the buffer fills. Any
// error read returns is propagated unchanged.
func (b *Buffer) PushBackFromReader(read func(dst []byte) (int, error)) (int, error) {
	total := 0
	for b.size != len(b.buf) {
		var avail int
		if b.iStop >= b.iStart {
			avail = len(b.buf) - b.iStop
		} else {
			avail = b.iStart - b.iStop
		}
		n, err := read(b.buf[b.iStop : b.iStop+avail])
		if n > 0 {
			b.iStop = (b.iStop + n) % len(b.buf)
			b.size += n
			total += n
		}
		if err != nil {
			return total, err
		}
		if n == 0 {
			break
		}
	}
	return total, nil
}

// PopFrontToWriter drains the buffer by handing write the contiguous head
// region (the same region GetFirstBlock would return) and removing however
// many bytes it reports having accepted. Any error write returns is
// propagated unchanged.
func (b *Buffer) PopFrontToWriter(write func(src []byte) (int, error)) (int, error) {
	block := b.GetFirstBlock()
	if len(block) == 0 {
		return 0, nil
	}
	n, err := write(block)
	if n > 0 {
		b.iStart = (b.iStart + n) % len(b.buf)
		b.size -= n
	}
	return n, err
}

// PushBackCString pushes s as raw bytes (Go strings have no embedded NUL
// terminator to stop at, so the whole string is pushed).
func (b *Buffer) PushBackCString(s string) int {
	return b.PushBackBlock([]byte(s))
}

// Bytes returns a freshly allocated copy of the buffer's contents in
// logical order. Intended for tests and debugging, not hot paths.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, b.size)
	for i := range out {
		out[i] = b.buf[(b.iStart+i)%len(b.buf)]
	}
	return out
}
