package shmring

import "sync/atomic"

// Ring is a single-producer, single-consumer byte ring.
//
// Exactly one goroutine (or interrupt handler) may call the producer
// methods and exactly one may call the consumer methods. Neither side ever
// blocks; waiting is done by the caller on Readable/Writable, re-checking
// the ring after every token.
type Ring struct {
	buf  []byte
	mask uint32
	rd   atomic.Uint32 // consumer index (monotonic)
	wr   atomic.Uint32 // producer index (monotonic)

	readable chan struct{} // producer published data
	writable chan struct{} // consumer freed space
}

// New allocates a ring of size bytes. size must be a power of two >= 2.
func New(size int) *Ring {
	if !IsPow2(size) {
		panic("shmring: size must be power of two >= 2")
	}
	return &Ring{
		buf:      make([]byte, size),
		mask:     uint32(size - 1),
		readable: make(chan struct{}, 1),
		writable: make(chan struct{}, 1),
	}
}

// IsPow2 reports whether n is a usable ring size.
func IsPow2(n int) bool { return n >= 2 && n&(n-1) == 0 }

func (r *Ring) size() uint32 { return uint32(len(r.buf)) }

// Cap returns the fixed capacity in bytes.
func (r *Ring) Cap() int { return len(r.buf) }

// Space returns free bytes from the producer's point of view.
func (r *Ring) Space() int {
	rd := r.rd.Load()
	wr := r.wr.Load()
	return int(r.size() - (wr - rd))
}

// Available returns pending bytes from the consumer's point of view.
func (r *Ring) Available() int {
	rd := r.rd.Load()
	wr := r.wr.Load()
	return int(wr - rd)
}

// Empty reports whether nothing is pending.
func (r *Ring) Empty() bool { return r.Available() == 0 }

// Producer side

// TryPut appends one byte. It returns false, leaving the ring untouched,
// when the ring is full.
func (r *Ring) TryPut(b byte) bool {
	rd := r.rd.Load()
	wr := r.wr.Load()
	if wr-rd >= r.size() {
		return false
	}
	r.buf[wr&r.mask] = b
	r.wr.Store(wr + 1) // release
	r.signal(r.readable)
	return true
}

// WriteFrom copies as much of src as fits and returns the count.
func (r *Ring) WriteFrom(src []byte) (n int) {
	if len(src) == 0 {
		return 0
	}
	rd := r.rd.Load()
	wr := r.wr.Load()
	space := int(r.size() - (wr - rd))
	if space <= 0 {
		return 0
	}
	n = min(space, len(src))

	wrIdx := wr & r.mask
	first := min(int(r.size()-wrIdx), n)
	copy(r.buf[wrIdx:wrIdx+uint32(first)], src[:first])
	if second := n - first; second > 0 {
		copy(r.buf[:second], src[first:n])
	}
	r.wr.Store(wr + uint32(n)) // release
	r.signal(r.readable)
	return n
}

// Consumer side

// TryGet removes and returns the oldest byte.
func (r *Ring) TryGet() (byte, bool) {
	rd := r.rd.Load()
	wr := r.wr.Load() // acquire
	if wr == rd {
		return 0, false
	}
	b := r.buf[rd&r.mask]
	r.rd.Store(rd + 1) // release
	r.signal(r.writable)
	return b, true
}

// Peek returns the oldest byte without removing it.
func (r *Ring) Peek() (byte, bool) {
	rd := r.rd.Load()
	wr := r.wr.Load()
	if wr == rd {
		return 0, false
	}
	return r.buf[rd&r.mask], true
}

// ReadInto copies up to len(dst) pending bytes into dst.
func (r *Ring) ReadInto(dst []byte) (n int) {
	if len(dst) == 0 {
		return 0
	}
	rd := r.rd.Load()
	wr := r.wr.Load() // acquire
	avail := int(wr - rd)
	if avail <= 0 {
		return 0
	}
	n = min(avail, len(dst))

	rdIdx := rd & r.mask
	first := min(int(r.size()-rdIdx), n)
	copy(dst[:first], r.buf[rdIdx:rdIdx+uint32(first)])
	if second := n - first; second > 0 {
		copy(dst[first:n], r.buf[:second])
	}
	r.rd.Store(rd + uint32(n)) // release
	r.signal(r.writable)
	return n
}

// Discard drops everything currently pending and returns the count.
// Consumer side only.
func (r *Ring) Discard() int {
	rd := r.rd.Load()
	wr := r.wr.Load()
	if wr == rd {
		return 0
	}
	r.rd.Store(wr)
	r.signal(r.writable)
	return int(wr - rd)
}

func (r *Ring) signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// Watermarks returns the raw monotonic indices.
func (r *Ring) Watermarks() (rd, wr uint32) {
	return r.rd.Load(), r.wr.Load()
}

// Readable carries one coalesced token after any producer progress.
// Every publish re-signals, so a consumer that saw the ring empty and then
// waits cannot miss data published after its check.
func (r *Ring) Readable() <-chan struct{} { return r.readable }

// Writable carries one coalesced token after any consumer progress.
func (r *Ring) Writable() <-chan struct{} { return r.writable }
