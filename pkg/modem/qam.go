package modem

import (
	"math"

	"Linksim/pkg/bitcodec"
)

// QAM8Constellation maps the 3 bit value of a symbol to its (I, Q) point in
// units of the amplitude.
var QAM8Constellation = [8][2]float64{
	{1, 1},   // 000
	{-1, 1},  // 001
	{-1, -1}, // 010
	{1, -1},  // 011
	{2, 0},   // 100
	{0, 2},   // 101
	{-2, 0},  // 110
	{0, -2},  // 111
}

// modulateQAM pads the bits with zeros to a multiple of 3 and sends
// s = I·cos(2πft) − Q·sin(2πft) for every symbol.
func (m CarrierModulator) modulateQAM(inputBits []bool) []float64 {
	S := m.SamplesPerSymbol
	symbols := (len(inputBits) + 2) / 3
	padded := make([]bool, symbols*3)
	copy(padded, inputBits)

	samples := make([]float64, 0, symbols*S)
	for i := 0; i < symbols; i++ {
		point := QAM8Constellation[bitcodec.ReadUint(padded[i*3:i*3+3])]
		I, Q := m.Amplitude*point[0], m.Amplitude*point[1]
		cos := m.tone(i, m.Freq, math.Pi/2)
		sin := m.tone(i, m.Freq, 0)
		for j := range S {
			samples = append(samples, I*cos[j]-Q*sin[j])
		}
	}
	return samples
}

// demodulateQAM correlates every window with both carriers and picks the
// nearest constellation point.
func (m CarrierModulator) demodulateQAM(inputSignal Signal, n int) []bool {
	S := m.SamplesPerSymbol
	bits := make([]bool, 0, n*3)
	for i := 0; i < n; i++ {
		window := inputSignal.Window(i, S)
		cos := m.tone(i, m.Freq, math.Pi/2)
		sin := m.tone(i, m.Freq, 0)
		I := 2 * dotProduct(window, cos) / float64(S)
		Q := -2 * dotProduct(window, sin) / float64(S)

		best, bestDistance := 0, math.Inf(1)
		for v, point := range QAM8Constellation {
			d := math.Hypot(I-m.Amplitude*point[0], Q-m.Amplitude*point[1])
			if d < bestDistance {
				best, bestDistance = v, d
			}
		}
		bits = append(bits, bitcodec.Uint(uint64(best), 3)...)
	}
	return bits
}
