package engine

// PutCandidate writes the decimal representation of n into dst, zero-padded
// on the left to fill the slice. The caller guarantees n < 10^len(dst);
// excess high digits are silently truncated otherwise.
func PutCandidate(dst []byte, n uint64) {
	for i := len(dst) - 1; i >= 0; i-- {
		dst[i] = '0' + byte(n%10)
		n /= 10
	}
}

// Pow10 returns 10^n. Valid for n in [0, 19]; the number-space bound on the
// variable length keeps every caller inside that range.
func Pow10(n int) uint64 {
	v := uint64(1)
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}

// Candidate returns the zero-padded decimal string of n with the given
// length. It is the allocation-friendly cousin of PutCandidate used outside
// the hot loop (result formatting, the GPU zero-preimage re-check).
func Candidate(n uint64, length int) string {
	buf := make([]byte, length)
	PutCandidate(buf, n)
	return string(buf)
}
