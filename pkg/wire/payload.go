package wire

import (
	"fmt"

	"github.com/google/uuid"

	"Linksim/pkg/layers"
	"Linksim/pkg/modem"
)

// Payload is the JSON document sent for every message. The mode names and
// the _erro signals keep the field names the receivers already understand.
type Payload struct {
	ID   uuid.UUID `json:"id"`
	Text string    `json:"texto,omitempty"`

	layers.Names

	SamplesPerSymbol int     `json:"amostras_por_simbolo,omitempty"`
	Amplitude        float64 `json:"amplitude,omitempty"`
	CarrierFreq      float64 `json:"frequencia_portadora,omitempty"`
	MaxPayloadBits   int     `json:"tamanho_quadro,omitempty"`

	DigitalSignal []float64 `json:"sinal_digital"`
	DigitalTime   []float64 `json:"tempo_sinal_digital"`
	CarrierSignal []float64 `json:"sinal_portadora"`
	CarrierTime   []float64 `json:"tempo_sinal_portadora"`

	DigitalSignalError []float64 `json:"sinal_digital_erro"`
	DigitalTimeError   []float64 `json:"tempo_sinal_digital_erro"`
	CarrierSignalError []float64 `json:"sinal_portadora_erro"`
	CarrierTimeError   []float64 `json:"tempo_sinal_portadora_erro"`
	ContainsError      bool      `json:"contem_erro"`
}

func FromTransmission(tx *layers.Transmission) Payload {
	c := tx.Config
	return Payload{
		ID:    uuid.New(),
		Text:  tx.Text,
		Names: c.Names(),

		SamplesPerSymbol: c.SamplesPerSymbol,
		Amplitude:        c.Amplitude,
		CarrierFreq:      c.CarrierFreq,
		MaxPayloadBits:   c.MaxPayloadBits,

		DigitalSignal: tx.Digital.Samples,
		DigitalTime:   tx.Digital.Time,
		CarrierSignal: tx.Carrier.Samples,
		CarrierTime:   tx.Carrier.Time,

		DigitalSignalError: tx.CorruptedSignals.Digital.Samples,
		DigitalTimeError:   tx.CorruptedSignals.Digital.Time,
		CarrierSignalError: tx.CorruptedSignals.Carrier.Samples,
		CarrierTimeError:   tx.CorruptedSignals.Carrier.Time,
		ContainsError:      tx.ContainsError,
	}
}

// Config resolves the names. Missing numeric parameters keep their
// defaults.
func (p Payload) Config() (layers.Config, error) {
	c, err := layers.ParseNames(p.Names)
	if err != nil {
		return layers.Config{}, err
	}
	if p.SamplesPerSymbol != 0 {
		c.SamplesPerSymbol = p.SamplesPerSymbol
	}
	if p.Amplitude != 0 {
		c.Amplitude = p.Amplitude
	}
	if p.CarrierFreq != 0 {
		c.CarrierFreq = p.CarrierFreq
	}
	if p.MaxPayloadBits != 0 {
		c.MaxPayloadBits = p.MaxPayloadBits
	}
	if err := c.Validate(); err != nil {
		return layers.Config{}, err
	}
	return c, nil
}

// Signals returns the clean and the corrupted pair. A payload without _erro
// signals uses the clean ones for both.
func (p Payload) Signals() (clean, corrupted layers.Signals, err error) {
	if clean.Digital, err = signal(p.DigitalSignal, p.DigitalTime, "sinal_digital"); err != nil {
		return
	}
	if clean.Carrier, err = signal(p.CarrierSignal, p.CarrierTime, "sinal_portadora"); err != nil {
		return
	}
	if p.DigitalSignalError == nil && p.CarrierSignalError == nil {
		return clean, clean, nil
	}
	if corrupted.Digital, err = signal(p.DigitalSignalError, p.DigitalTimeError, "sinal_digital_erro"); err != nil {
		return
	}
	corrupted.Carrier, err = signal(p.CarrierSignalError, p.CarrierTimeError, "sinal_portadora_erro")
	return
}

func signal(samples, time []float64, field string) (modem.Signal, error) {
	if len(samples) != len(time) {
		return modem.Signal{}, fmt.Errorf("%w: %s has %d samples and %d time points", ErrMalformedPayload, field, len(samples), len(time))
	}
	return modem.Signal{Samples: samples, Time: time}, nil
}
