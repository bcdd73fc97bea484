package core

// Float is the sample type constraint shared by the filter runtimes.
type Float interface {
	~float32 | ~float64
}

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
// Contents beyond the previous length are unspecified.
func EnsureLen[F Float](buf []F, n int) []F {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]F, n)
}

// Zero sets all values in buf to 0.
func Zero[F Float](buf []F) {
	for i := range buf {
		buf[i] = 0
	}
}

// Convert copies src into dst with a numeric conversion and returns the
// number of copied elements.
func Convert[D, S Float](dst []D, src []S) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = D(src[i])
	}
	return n
}
