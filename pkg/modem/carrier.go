package modem

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrUnknownCarrierCode = errors.New("unknown carrier code")

type CarrierConfig struct {
	Amplitude  float64
	Freq       float64
	Phase      float64
	SampleRate float64
	Size       int
}

func (p CarrierConfig) New() []float64 {
	signal := make([]float64, p.Size)
	for i := 0; i < p.Size; i++ {
		t := float64(i) / p.SampleRate
		signal[i] = p.Amplitude * math.Sin(2*math.Pi*p.Freq*t+p.Phase)
	}
	return signal
}

type CarrierCode int

const (
	ASK CarrierCode = iota
	FSK
	QAM8
)

func ParseCarrierCode(name string) (CarrierCode, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "ASK":
		return ASK, nil
	case "FSK":
		return FSK, nil
	case "8-QAM", "8QAM", "QAM8", "QAM":
		return QAM8, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCarrierCode, name)
}

func (c CarrierCode) String() string {
	switch c {
	case ASK:
		return "ASK"
	case FSK:
		return "FSK"
	case QAM8:
		return "8-QAM"
	}
	return fmt.Sprintf("CarrierCode(%d)", int(c))
}

// CarrierModulator keys a sine carrier of Freq cycles per symbol.
// FSK sends Freq for a zero and 2*Freq for a one.
type CarrierModulator struct {
	Code             CarrierCode
	SamplesPerSymbol int
	Amplitude        float64
	Freq             float64
}

func (m CarrierModulator) BitsPerSymbol() int {
	if m.Code == QAM8 {
		return 3
	}
	return 1
}

// Validate checks the carrier, and the FSK upper tone, stays below the
// Nyquist frequency of S/2 cycles per symbol. The carrier needs at least one
// full cycle per symbol: the FFT resolves one cycle per symbol and the I/Q
// correlators only separate over whole cycles.
func (m CarrierModulator) Validate() error {
	S := m.SamplesPerSymbol
	if S < 2 {
		return fmt.Errorf("samples per symbol must be at least 2, got %d", S)
	}
	if m.Amplitude <= 0 || math.IsNaN(m.Amplitude) || math.IsInf(m.Amplitude, 0) {
		return fmt.Errorf("amplitude must be positive, got %v", m.Amplitude)
	}
	if !(m.Freq >= 1) || math.IsInf(m.Freq, 0) {
		return fmt.Errorf("carrier frequency must be at least 1 cycle per symbol, got %v", m.Freq)
	}
	top := m.Freq
	switch m.Code {
	case ASK, QAM8:
	case FSK:
		top = 2 * m.Freq
		if math.Round(top) == math.Round(m.Freq) {
			return fmt.Errorf("FSK tones %v and %v fall in the same frequency bin", m.Freq, top)
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownCarrierCode, int(m.Code))
	}
	if top >= float64(S)/2 {
		return fmt.Errorf("%s tone of %v cycles per symbol is not below the Nyquist limit %v", m.Code, top, float64(S)/2)
	}
	return nil
}

// tone is one symbol of the carrier at freq with the phase the continuous
// carrier has at the start of symbol i.
func (m CarrierModulator) tone(i int, freq, phase float64) []float64 {
	return CarrierConfig{
		Amplitude:  1,
		Freq:       freq,
		Phase:      2*math.Pi*freq*float64(i) + phase,
		SampleRate: float64(m.SamplesPerSymbol),
		Size:       m.SamplesPerSymbol,
	}.New()
}

func (m CarrierModulator) Modulate(inputBits []bool) Signal {
	var samples []float64
	switch m.Code {
	case ASK:
		samples = m.modulateASK(inputBits)
	case FSK:
		samples = m.modulateFSK(inputBits)
	case QAM8:
		samples = m.modulateQAM(inputBits)
	}
	debugLog("[Modulation] %s: %d bits, %d samples", m.Code, len(inputBits), len(samples))
	return NewSignal(samples, m.SamplesPerSymbol)
}

func (m CarrierModulator) Demodulate(inputSignal Signal) ([]bool, error) {
	n, err := inputSignal.symbols(m.SamplesPerSymbol)
	if err != nil {
		return nil, err
	}
	var bits []bool
	switch m.Code {
	case ASK:
		bits = m.demodulateASK(inputSignal, n)
	case FSK:
		bits = m.demodulateFSK(inputSignal, n)
	case QAM8:
		bits = m.demodulateQAM(inputSignal, n)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCarrierCode, int(m.Code))
	}
	debugLog("[Demodulation] %s: %d samples, %d bits", m.Code, inputSignal.Len(), len(bits))
	return bits, nil
}

func (m CarrierModulator) modulateASK(inputBits []bool) []float64 {
	S := m.SamplesPerSymbol
	samples := make([]float64, len(inputBits)*S)
	for i, bit := range inputBits {
		if !bit {
			continue
		}
		for j, v := range m.tone(i, m.Freq, 0) {
			samples[i*S+j] = m.Amplitude * v
		}
	}
	return samples
}

// demodulateASK compares the energy of every window with A²/4, half the
// energy of a keyed carrier.
func (m CarrierModulator) demodulateASK(inputSignal Signal, n int) []bool {
	threshold := m.Amplitude * m.Amplitude / 4
	bits := make([]bool, n)
	for i := range bits {
		bits[i] = energy(inputSignal.Window(i, m.SamplesPerSymbol)) > threshold
	}
	return bits
}
