package modem

import "fmt"

// Signal is a sampled waveform. Time is measured in symbol periods.
type Signal struct {
	Samples []float64
	Time    []float64
}

// NewSignal builds the time axis t = i / samplesPerSymbol.
func NewSignal(samples []float64, samplesPerSymbol int) Signal {
	time := make([]float64, len(samples))
	for i := range time {
		time[i] = float64(i) / float64(samplesPerSymbol)
	}
	return Signal{Samples: samples, Time: time}
}

func (s Signal) Len() int {
	return len(s.Samples)
}

// Window returns the samples of the i-th symbol.
func (s Signal) Window(i, samplesPerSymbol int) []float64 {
	return s.Samples[i*samplesPerSymbol : (i+1)*samplesPerSymbol]
}

// Clone returns a deep copy.
func (s Signal) Clone() Signal {
	return Signal{
		Samples: append([]float64(nil), s.Samples...),
		Time:    append([]float64(nil), s.Time...),
	}
}

// symbols is the number of whole symbols in the signal. A trailing partial
// window is ErrTruncatedSymbol.
func (s Signal) symbols(samplesPerSymbol int) (int, error) {
	if samplesPerSymbol <= 0 {
		return 0, fmt.Errorf("invalid samples per symbol %d", samplesPerSymbol)
	}
	if len(s.Time) != len(s.Samples) {
		return 0, fmt.Errorf("signal has %d samples but %d time points", len(s.Samples), len(s.Time))
	}
	if rest := s.Len() % samplesPerSymbol; rest != 0 {
		return 0, fmt.Errorf("%w: %d trailing samples, %d per symbol", ErrTruncatedSymbol, rest, samplesPerSymbol)
	}
	return s.Len() / samplesPerSymbol, nil
}
