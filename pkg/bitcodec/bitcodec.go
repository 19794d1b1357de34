package bitcodec

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var ErrBitAlignment = errors.New("bit count is not a multiple of 8")

// FromBytes expands every byte into 8 bits, most significant bit first.
func FromBytes(data []byte) []bool {
	bits := make([]bool, 0, len(data)*8)
	for _, b := range data {
		for i := 7; i >= 0; i-- {
			bits = append(bits, (b>>i)&1 == 1)
		}
	}
	return bits
}

func FromText(text string) []bool {
	return FromBytes([]byte(text))
}

// ToBytes packs groups of 8 bits back into bytes.
func ToBytes(bits []bool) ([]byte, error) {
	if len(bits)%8 != 0 {
		return nil, fmt.Errorf("%w: got %d bits", ErrBitAlignment, len(bits))
	}
	data := make([]byte, len(bits)/8)
	for i, bit := range bits {
		if bit {
			data[i/8] |= 1 << (7 - i%8)
		}
	}
	return data, nil
}

// ToText decodes the bits as UTF-8. Invalid sequences are kept as they are,
// use Valid to find out whether the text survived the trip.
func ToText(bits []bool) (string, error) {
	data, err := ToBytes(bits)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func Valid(text string) bool {
	return utf8.ValidString(text)
}

// String renders the bits as a string of '0' and '1'.
func String(bits []bool) string {
	var sb strings.Builder
	sb.Grow(len(bits))
	for _, bit := range bits {
		if bit {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Parse is the inverse of String. Spaces and underscores are ignored.
func Parse(s string) ([]bool, error) {
	bits := make([]bool, 0, len(s))
	for i, c := range s {
		switch c {
		case '0':
			bits = append(bits, false)
		case '1':
			bits = append(bits, true)
		case ' ', '_':
		default:
			return nil, fmt.Errorf("invalid bit %q at %d", c, i)
		}
	}
	return bits, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) []bool {
	bits, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return bits
}

// Uint writes the lowest n bits of v, most significant first.
func Uint(v uint64, n int) []bool {
	bits := make([]bool, n)
	for i := 0; i < n; i++ {
		bits[i] = (v>>(n-1-i))&1 == 1
	}
	return bits
}

// ReadUint is the inverse of Uint.
func ReadUint(bits []bool) uint64 {
	var v uint64
	for _, bit := range bits {
		v <<= 1
		if bit {
			v |= 1
		}
	}
	return v
}

// PadBytes returns a copy of bits right-padded with zeros to a whole byte.
func PadBytes(bits []bool) []bool {
	padded := make([]bool, (len(bits)+7)/8*8)
	copy(padded, bits)
	return padded
}
