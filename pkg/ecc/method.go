package ecc

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDetection     = errors.New("error detected")
	ErrUnknownMethod = errors.New("unknown detection method")
)

type Method int

const (
	Parity Method = iota
	CRC32
)

func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "paridade", "parity":
		return Parity, nil
	case "crc-32", "crc32", "crc":
		return CRC32, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
}

// String returns the name used on the wire.
func (m Method) String() string {
	switch m {
	case Parity:
		return "Paridade"
	case CRC32:
		return "CRC-32"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// Size is the number of trailer bits the method appends.
func (m Method) Size() int {
	switch m {
	case Parity:
		return ParityBits
	case CRC32:
		return CRC32Bits
	}
	return 0
}

func (m Method) Append(bits []bool) []bool {
	switch m {
	case Parity:
		return addParityTrailer(bits)
	case CRC32:
		return AddCRC32(bits)
	}
	return bits
}

func (m Method) Check(bits []bool) bool {
	switch m {
	case Parity:
		return len(bits) >= ParityBits && CheckParity(bits)
	case CRC32:
		return CheckCRC32(bits)
	}
	return false
}

// Strip removes the trailer, it does not verify it.
func (m Method) Strip(bits []bool) []bool {
	return bits[:max(len(bits)-m.Size(), 0)]
}

// Detection is an ordered set of detection methods, applied in insertion
// order and verified in the reverse one.
type Detection []Method

func ParseDetection(names []string) (Detection, error) {
	d := make(Detection, 0, len(names))
	for _, name := range names {
		m, err := ParseMethod(name)
		if err != nil {
			return nil, err
		}
		if d.Has(m) {
			continue
		}
		d = append(d, m)
	}
	return d, nil
}

func (d Detection) Has(m Method) bool {
	for _, x := range d {
		if x == m {
			return true
		}
	}
	return false
}

func (d Detection) Names() []string {
	names := make([]string, len(d))
	for i, m := range d {
		names[i] = m.String()
	}
	return names
}

func (d Detection) Size() int {
	size := 0
	for _, m := range d {
		size += m.Size()
	}
	return size
}

func (d Detection) Protect(bits []bool) []bool {
	for _, m := range d {
		bits = m.Append(bits)
	}
	return bits
}

// Verify checks and strips every trailer. When a check fails the stripped
// payload is still returned as a best effort, with ErrDetection.
func (d Detection) Verify(bits []bool) ([]bool, error) {
	if len(bits) < d.Size() {
		return nil, fmt.Errorf("%w: %d bits cannot hold a %d bit trailer", ErrDetection, len(bits), d.Size())
	}
	var err error
	for i := len(d) - 1; i >= 0; i-- {
		m := d[i]
		if err == nil && !m.Check(bits) {
			err = fmt.Errorf("%w by %s", ErrDetection, m)
		}
		bits = m.Strip(bits)
	}
	return bits, err
}
