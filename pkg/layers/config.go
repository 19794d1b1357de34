package layers

import (
	"errors"
	"fmt"
	"sync/atomic"

	"Linksim/pkg/channel"
	"Linksim/pkg/ecc"
	"Linksim/pkg/framer"
	"Linksim/pkg/modem"
)

var ErrConfiguration = errors.New("invalid configuration")

const (
	DefaultSamplesPerSymbol = 100
	DefaultAmplitude        = 1.0
	DefaultCarrierFreq      = 10.0
	DefaultMaxPayloadBits   = 16
)

// Config selects every stage of a transmission. Both ends must use the same
// one.
type Config struct {
	Framing    framer.Mode
	Detection  ecc.Detection
	Correction bool

	LineCode    modem.LineCode
	CarrierCode modem.CarrierCode

	SamplesPerSymbol int
	Amplitude        float64
	CarrierFreq      float64 // cycles per symbol
	MaxPayloadBits   int
}

func DefaultConfig() Config {
	return Config{
		Framing:          framer.Count,
		Detection:        ecc.Detection{ecc.CRC32},
		LineCode:         modem.NRZPolar,
		CarrierCode:      modem.ASK,
		SamplesPerSymbol: DefaultSamplesPerSymbol,
		Amplitude:        DefaultAmplitude,
		CarrierFreq:      DefaultCarrierFreq,
		MaxPayloadBits:   DefaultMaxPayloadBits,
	}
}

func (c Config) Clone() Config {
	if c.Detection != nil {
		c.Detection = append(make(ecc.Detection, 0, len(c.Detection)), c.Detection...)
	}
	return c
}

func (c Config) Framer() framer.Framer {
	return framer.Framer{Mode: c.Framing, MaxPayloadBits: c.MaxPayloadBits}
}

func (c Config) LineCoder() modem.LineCoder {
	return modem.LineCoder{
		Code:             c.LineCode,
		SamplesPerSymbol: c.SamplesPerSymbol,
		Amplitude:        c.Amplitude,
	}
}

func (c Config) CarrierModulator() modem.CarrierModulator {
	return modem.CarrierModulator{
		Code:             c.CarrierCode,
		SamplesPerSymbol: c.SamplesPerSymbol,
		Amplitude:        c.Amplitude,
		Freq:             c.CarrierFreq,
	}
}

// Validate wraps every problem in ErrConfiguration.
func (c Config) Validate() error {
	switch c.Framing {
	case framer.Count, framer.Stuffing:
	default:
		return fmt.Errorf("%w: unknown framing mode %d", ErrConfiguration, int(c.Framing))
	}
	for _, m := range c.Detection {
		if m != ecc.Parity && m != ecc.CRC32 {
			return fmt.Errorf("%w: %w: %d", ErrConfiguration, ecc.ErrUnknownMethod, int(m))
		}
	}
	if c.MaxPayloadBits <= 0 || c.MaxPayloadBits%8 != 0 || c.MaxPayloadBits > framer.MaxFrameBytes*8 {
		return fmt.Errorf("%w: max payload bits must be a positive multiple of 8 up to %d, got %d",
			ErrConfiguration, framer.MaxFrameBytes*8, c.MaxPayloadBits)
	}
	if n := c.protectedBits(c.MaxPayloadBits); c.Framing == framer.Count && n > framer.MaxFrameBytes*8 {
		return fmt.Errorf("%w: a full frame takes %d bits, more than the %d a count field can describe",
			ErrConfiguration, n, framer.MaxFrameBytes*8)
	}
	if err := c.LineCoder().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if err := c.CarrierModulator().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return nil
}

// protectedBits is the frame payload size, before byte padding, of a chunk
// of k bits.
func (c Config) protectedBits(k int) int {
	n := k + c.Detection.Size()
	if c.Correction {
		n = ecc.HammingLength(n)
	}
	return n
}

// Names is the string form of the mode selection, as carried on the wire.
type Names struct {
	Framing     string   `json:"enquadramento" yaml:"framing" toml:"framing"`
	Detection   []string `json:"deteccao" yaml:"detection" toml:"detection"`
	Correction  bool     `json:"correcao" yaml:"correction" toml:"correction"`
	LineCode    string   `json:"modulacao_digital" yaml:"line_code" toml:"line_code"`
	CarrierCode string   `json:"modulacao_portadora" yaml:"carrier_code" toml:"carrier_code"`
}

func (c Config) Names() Names {
	return Names{
		Framing:     c.Framing.String(),
		Detection:   c.Detection.Names(),
		Correction:  c.Correction,
		LineCode:    c.LineCode.String(),
		CarrierCode: c.CarrierCode.String(),
	}
}

// ParseNames resolves the names on top of DefaultConfig. The numeric
// parameters keep their defaults.
func ParseNames(n Names) (Config, error) {
	c := DefaultConfig()
	if err := c.Apply(n); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Apply replaces the mode selection of c with the given names.
func (c *Config) Apply(n Names) error {
	var err error
	if c.Framing, err = framer.ParseMode(n.Framing); err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if c.Detection, err = ecc.ParseDetection(n.Detection); err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	c.Correction = n.Correction
	if c.LineCode, err = modem.ParseLineCode(n.LineCode); err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if c.CarrierCode, err = modem.ParseCarrierCode(n.CarrierCode); err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return nil
}

// Reconfigurable holds a configuration that can be replaced as a whole while
// pipelines built from earlier snapshots keep running.
type Reconfigurable struct {
	config atomic.Pointer[Config]
}

func NewReconfigurable(c Config) (*Reconfigurable, error) {
	r := &Reconfigurable{}
	if err := r.Set(c); err != nil {
		return nil, err
	}
	return r, nil
}

// Set validates c and swaps it in. On error the previous configuration stays.
func (r *Reconfigurable) Set(c Config) error {
	if err := c.Validate(); err != nil {
		return err
	}
	c = c.Clone()
	r.config.Store(&c)
	debugLog("[Config] %+v", c.Names())
	return nil
}

func (r *Reconfigurable) Config() Config {
	if c := r.config.Load(); c != nil {
		return c.Clone()
	}
	return DefaultConfig()
}

// Pipeline snapshots the current configuration.
func (r *Reconfigurable) Pipeline(injector *channel.Injector) *Pipeline {
	return &Pipeline{Config: r.Config(), Injector: injector}
}
