package ecc

// ParityBits is the trailer size of the parity method. The parity bit is
// the last of them, the others are zero fill.
const ParityBits = 8

func parity(bits []bool) bool {
	p := false
	for _, bit := range bits {
		p = p != bit
	}
	return p
}

// AddParity appends a single even-parity bit.
func AddParity(bits []bool) []bool {
	out := make([]bool, 0, len(bits)+1)
	out = append(out, bits...)
	return append(out, parity(bits))
}

// CheckParity recomputes the parity over all but the last bit.
func CheckParity(bits []bool) bool {
	if len(bits) == 0 {
		return false
	}
	return parity(bits[:len(bits)-1]) == bits[len(bits)-1]
}

// addParityTrailer fills the trailer up to ParityBits with zeros before the
// parity bit, the zeros do not change the popcount.
func addParityTrailer(bits []bool) []bool {
	out := make([]bool, len(bits), len(bits)+ParityBits)
	copy(out, bits)
	out = append(out, make([]bool, ParityBits-1)...)
	return append(out, parity(bits))
}
