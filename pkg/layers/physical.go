package layers

import (
	"Linksim/pkg/modem"
)

// Signals are the two waveforms sent for one message.
type Signals struct {
	Digital modem.Signal
	Carrier modem.Signal
}

// PhysicalLayer line codes and carrier modulates the same frame stream.
type PhysicalLayer struct {
	Config Config
}

func (p PhysicalLayer) Modulate(bits []bool) (digital, carrier modem.Signal, err error) {
	if err = p.Config.Validate(); err != nil {
		return
	}
	digital = p.Config.LineCoder().Modulate(bits)
	carrier = p.Config.CarrierModulator().Modulate(bits)
	return
}

// Demodulate decodes the carrier. The line code fixes the exact number of
// bits, which drops the padding of multi-bit symbols.
func (p PhysicalLayer) Demodulate(digital, carrier modem.Signal) ([]bool, error) {
	bits, _, err := p.demodulate(digital, carrier)
	return bits, err
}

// demodulate also reports whether the two decodes disagree.
func (p PhysicalLayer) demodulate(digital, carrier modem.Signal) ([]bool, bool, error) {
	if err := p.Config.Validate(); err != nil {
		return nil, false, err
	}
	cm := p.Config.CarrierModulator()
	bits, err := cm.Demodulate(carrier)
	if err != nil {
		return nil, false, err
	}

	if digital.Len() == 0 && carrier.Len() > 0 {
		// no line coded copy, frame streams are whole bytes
		return bits[:len(bits)/8*8], false, nil
	}
	lineBits, err := p.Config.LineCoder().Demodulate(digital)
	if err != nil {
		return nil, false, err
	}

	mismatch := false
	switch extra := len(bits) - len(lineBits); {
	case extra >= 0 && extra < cm.BitsPerSymbol():
		bits = bits[:len(lineBits)]
	default:
		mismatch = true
		bits = bits[:len(bits)/8*8]
	}
	for i := range min(len(bits), len(lineBits)) {
		if bits[i] != lineBits[i] {
			mismatch = true
			break
		}
	}
	if mismatch {
		debugLog("[Physical] carrier and line decode disagree: %d and %d bits", len(bits), len(lineBits))
	}
	return bits, mismatch, nil
}
