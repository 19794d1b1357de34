package ecc

import (
	"errors"
	"fmt"
)

var ErrCorrectionFailure = errors.New("hamming syndrome out of range")

func isPowerOfTwo(i int) bool {
	return i&(i-1) == 0
}

// parityCount is the number of powers of two in [1, n], i.e. ceil(log2(n+1)).
func parityCount(n int) int {
	r := 0
	for p := 1; p <= n; p <<= 1 {
		r++
	}
	return r
}

// HammingLength is the smallest codeword length able to carry k data bits.
func HammingLength(k int) int {
	n := max(k, 1)
	for n-parityCount(n) < k {
		n++
	}
	return n
}

// HammingDataLength is the number of data bits in a codeword of length n.
func HammingDataLength(n int) int {
	return n - parityCount(n)
}

func HammingEncode(bits []bool) []bool {
	n := HammingLength(len(bits))
	codeword := make([]bool, n)

	j := 0
	for pos := 1; pos <= n; pos++ {
		if !isPowerOfTwo(pos) {
			codeword[pos-1] = bits[j]
			j++
		}
	}

	// a parity position 2^i is only a member of its own group
	for p := 1; p <= n; p <<= 1 {
		codeword[p-1] = groupParity(codeword, p)
	}
	return codeword
}

// groupParity is the XOR of every position whose index has the bit p set.
func groupParity(codeword []bool, p int) bool {
	v := false
	for pos := p; pos <= len(codeword); pos++ {
		if pos&p != 0 {
			v = v != codeword[pos-1]
		}
	}
	return v
}

// Syndrome returns the 1-indexed position of a single-bit error, 0 if none.
func Syndrome(codeword []bool) int {
	s := 0
	for p := 1; p <= len(codeword); p <<= 1 {
		if groupParity(codeword, p) {
			s += p
		}
	}
	return s
}

// HammingDecode corrects at most one flipped bit and extracts the data bits.
// Two flipped bits may silently decode to a different codeword. An out of
// range syndrome leaves the codeword untouched and returns
// ErrCorrectionFailure together with the uncorrected data.
func HammingDecode(codeword []bool) (data []bool, corrected bool, err error) {
	n := len(codeword)
	fixed := make([]bool, n)
	copy(fixed, codeword)

	s := Syndrome(fixed)
	switch {
	case s == 0:
	case s <= n:
		fixed[s-1] = !fixed[s-1]
		corrected = true
		debugLog("[Hamming] corrected bit %d of %d", s, n)
	default:
		err = fmt.Errorf("%w: syndrome %d, codeword length %d", ErrCorrectionFailure, s, n)
	}

	data = make([]bool, 0, HammingDataLength(n))
	for pos := 1; pos <= n; pos++ {
		if !isPowerOfTwo(pos) {
			data = append(data, fixed[pos-1])
		}
	}
	return
}
