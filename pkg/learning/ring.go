package learning

// ring is a fixed-capacity FIFO that evicts its oldest entry when full.
type ring[T any] struct {
	buf   []T
	start int
	n     int
}

func newRing[T any](capacity int) *ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &ring[T]{buf: make([]T, capacity)}
}

// push appends v and reports whether an old entry was evicted.
func (r *ring[T]) push(v T) bool {
	if r.n < len(r.buf) {
		r.buf[(r.start+r.n)%len(r.buf)] = v
		r.n++
		return false
	}
	r.buf[r.start] = v
	r.start = (r.start + 1) % len(r.buf)
	return true
}

func (r *ring[T]) len() int { return r.n }

func (r *ring[T]) cap() int { return len(r.buf) }

// each calls fn for every entry, oldest first.
func (r *ring[T]) each(fn func(i int, v T)) {
	for i := 0; i < r.n; i++ {
		fn(i, r.buf[(r.start+i)%len(r.buf)])
	}
}

// slice returns the entries oldest first.
func (r *ring[T]) slice() []T {
	out := make([]T, 0, r.n)
	r.each(func(_ int, v T) { out = append(out, v) })
	return out
}
