package modem

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrUnknownLineCode = errors.New("unknown line code")

type LineCode int

const (
	NRZPolar LineCode = iota
	Manchester
	Bipolar
)

func ParseLineCode(name string) (LineCode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "nrz-polar", "nrz polar", "nrz":
		return NRZPolar, nil
	case "manchester":
		return Manchester, nil
	case "bipolar", "ami":
		return Bipolar, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLineCode, name)
}

func (c LineCode) String() string {
	switch c {
	case NRZPolar:
		return "NRZ-Polar"
	case Manchester:
		return "Manchester"
	case Bipolar:
		return "Bipolar"
	}
	return fmt.Sprintf("LineCode(%d)", int(c))
}

// LineCoder maps every bit to SamplesPerSymbol baseband samples.
type LineCoder struct {
	Code             LineCode
	SamplesPerSymbol int
	Amplitude        float64
}

func (m LineCoder) Validate() error {
	switch m.Code {
	case NRZPolar, Manchester, Bipolar:
	default:
		return fmt.Errorf("%w: %d", ErrUnknownLineCode, int(m.Code))
	}
	if m.SamplesPerSymbol < 2 {
		return fmt.Errorf("samples per symbol must be at least 2, got %d", m.SamplesPerSymbol)
	}
	if m.Amplitude <= 0 || math.IsNaN(m.Amplitude) || math.IsInf(m.Amplitude, 0) {
		return fmt.Errorf("amplitude must be positive, got %v", m.Amplitude)
	}
	return nil
}

// Levels returns the level of every symbol. For Manchester it is the level
// of the first half.
func (m LineCoder) Levels(inputBits []bool) []float64 {
	a := m.Amplitude
	levels := make([]float64, len(inputBits))
	last := -a
	for i, bit := range inputBits {
		switch m.Code {
		case NRZPolar, Manchester:
			if bit {
				levels[i] = a
			} else {
				levels[i] = -a
			}
		case Bipolar:
			if bit {
				last = -last
				levels[i] = last
			}
		}
	}
	return levels
}

func (m LineCoder) Modulate(inputBits []bool) Signal {
	S := m.SamplesPerSymbol
	half := S / 2
	samples := make([]float64, 0, len(inputBits)*S)
	for _, level := range m.Levels(inputBits) {
		for j := 0; j < S; j++ {
			if m.Code == Manchester && j >= half {
				samples = append(samples, -level)
			} else {
				samples = append(samples, level)
			}
		}
	}
	debugLog("[Modulation] %s: %d bits, %d samples", m.Code, len(inputBits), len(samples))
	return NewSignal(samples, S)
}

func (m LineCoder) Demodulate(inputSignal Signal) ([]bool, error) {
	S := m.SamplesPerSymbol
	n, err := inputSignal.symbols(S)
	if err != nil {
		return nil, err
	}
	half := S / 2
	bits := make([]bool, n)
	for i := range bits {
		window := inputSignal.Window(i, S)
		switch m.Code {
		case NRZPolar:
			bits[i] = mean(window) > 0
		case Manchester:
			bits[i] = mean(window[:half]) > mean(window[half:])
		case Bipolar:
			bits[i] = math.Abs(mean(window)) > m.Amplitude/2
		default:
			return nil, fmt.Errorf("%w: %d", ErrUnknownLineCode, int(m.Code))
		}
	}
	debugLog("[Demodulation] %s: %d samples, %d bits", m.Code, inputSignal.Len(), len(bits))
	return bits, nil
}
