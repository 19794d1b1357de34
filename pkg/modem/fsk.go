package modem

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

func (m CarrierModulator) modulateFSK(inputBits []bool) []float64 {
	S := m.SamplesPerSymbol
	samples := make([]float64, 0, len(inputBits)*S)
	for i, bit := range inputBits {
		freq := m.Freq
		if bit {
			freq = 2 * m.Freq
		}
		for _, v := range m.tone(i, freq, 0) {
			samples = append(samples, m.Amplitude*v)
		}
	}
	return samples
}

// demodulateFSK finds the strongest non DC bin of every window and picks the
// closer of the two tones.
func (m CarrierModulator) demodulateFSK(inputSignal Signal, n int) []bool {
	S := m.SamplesPerSymbol
	fft := fourier.NewFFT(S)
	coeffs := make([]complex128, S/2+1)
	bits := make([]bool, n)
	for i := range bits {
		coeffs = fft.Coefficients(coeffs, inputSignal.Window(i, S))
		peak := 1
		for k := 2; k < len(coeffs); k++ {
			if cmplx.Abs(coeffs[k]) > cmplx.Abs(coeffs[peak]) {
				peak = k
			}
		}
		freq := fft.Freq(peak) * float64(S)
		bits[i] = math.Abs(freq-2*m.Freq) < math.Abs(freq-m.Freq)
	}
	return bits
}
