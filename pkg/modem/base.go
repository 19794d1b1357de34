package modem

import "errors"

var ErrTruncatedSymbol = errors.New("signal ends inside a symbol")

// Modem turns bits into one sampled waveform and back.
type Modem interface {
	Modulate(inputBits []bool) Signal
	Demodulate(inputSignal Signal) ([]bool, error)
}

var (
	_ Modem = LineCoder{}
	_ Modem = CarrierModulator{}
)
