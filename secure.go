package blockpool

import (
	"crypto/subtle"
	"runtime"
)

// Clear overwrites every byte of b with zero. The KeepAlive after the loop
// keeps b live past the stores so they cannot be dropped as dead.
func Clear(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

// Equal reports whether a and b hold the same bytes. For equal lengths it
// always inspects every byte, so the running time does not depend on where
// the first difference is. Regions of different length are unequal.
func Equal(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return equal(a, b, xorByte)
}

// EqualN compares the first n bytes of a and b in constant time.
// It reports false if either region is shorter than n.
func EqualN(a, b []byte, n int) bool {
	if n < 0 || len(a) < n || len(b) < n {
		return false
	}
	return equal(a[:n], b[:n], xorByte)
}

// equal ORs together diff of every byte pair. len(a) must equal len(b).
func equal(a, b []byte, diff func(x, y byte) byte) bool {
	var acc byte
	for i := range a {
		acc |= diff(a[i], b[i])
	}
	return subtle.ConstantTimeByteEq(acc, 0) == 1
}

func xorByte(x, y byte) byte { return x ^ y }
