package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"Linksim/pkg/channel"
	"Linksim/pkg/layers"
	"Linksim/pkg/transport"
)

type Config struct {
	Transport struct {
		Address string `yaml:"address" toml:"address"`
	} `yaml:"transport" toml:"transport"`

	Link struct {
		Framing        string   `yaml:"framing" toml:"framing"`
		Detection      []string `yaml:"detection" toml:"detection"`
		Correction     bool     `yaml:"correction" toml:"correction"`
		MaxPayloadBits int      `yaml:"max_payload_bits" toml:"max_payload_bits"`
	} `yaml:"link" toml:"link"`

	Physical struct {
		LineCode         string  `yaml:"line_code" toml:"line_code"`
		CarrierCode      string  `yaml:"carrier_code" toml:"carrier_code"`
		SamplesPerSymbol int     `yaml:"samples_per_symbol" toml:"samples_per_symbol"`
		Amplitude        float64 `yaml:"amplitude" toml:"amplitude"`
		CarrierFreq      float64 `yaml:"carrier_freq" toml:"carrier_freq"`
	} `yaml:"physical" toml:"physical"`

	Error struct {
		Mode        string  `yaml:"mode" toml:"mode"`
		Probability float64 `yaml:"probability" toml:"probability"`
		Index       int     `yaml:"index" toml:"index"`
		MaxFlips    int     `yaml:"max_flips" toml:"max_flips"`
		Seed        uint64  `yaml:"seed" toml:"seed"`
	} `yaml:"error" toml:"error"`

	Noise struct {
		Sigma float64 `yaml:"sigma" toml:"sigma"`
		Seed  uint64  `yaml:"seed" toml:"seed"`
	} `yaml:"noise" toml:"noise"`
}

const DefaultAddress = "127.0.0.1:5000"

// DefaultConfig sends with a CRC-32 over NRZ-Polar and ASK and flips every
// bit with a 0.01% chance.
func DefaultConfig() *Config {
	d := layers.DefaultConfig()
	names := d.Names()

	var config Config
	config.Transport.Address = DefaultAddress
	config.Link.Framing = names.Framing
	config.Link.Detection = names.Detection
	config.Link.Correction = names.Correction
	config.Link.MaxPayloadBits = d.MaxPayloadBits
	config.Physical.LineCode = names.LineCode
	config.Physical.CarrierCode = names.CarrierCode
	config.Physical.SamplesPerSymbol = d.SamplesPerSymbol
	config.Physical.Amplitude = d.Amplitude
	config.Physical.CarrierFreq = d.CarrierFreq
	config.Error.Mode = channel.Random.String()
	config.Error.Probability = channel.DefaultProbability
	config.Error.Index = -1
	return &config
}

// LoadConfig reads a .yml, .yaml or .toml file over DefaultConfig, so
// missing keys keep their default.
func LoadConfig(filename string) (*Config, error) {
	config := DefaultConfig()

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yml", ".yaml":
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parse %s: %w", filename, err)
		}
	case ".toml":
		meta, err := toml.DecodeFile(filename, config)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", filename, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("parse %s: unknown keys %v", filename, undecoded)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", filepath.Ext(filename))
	}

	return config, nil
}

func (c *Config) Layers() (layers.Config, error) {
	lc, err := layers.ParseNames(layers.Names{
		Framing:     c.Link.Framing,
		Detection:   c.Link.Detection,
		Correction:  c.Link.Correction,
		LineCode:    c.Physical.LineCode,
		CarrierCode: c.Physical.CarrierCode,
	})
	if err != nil {
		return layers.Config{}, err
	}
	lc.MaxPayloadBits = c.Link.MaxPayloadBits
	lc.SamplesPerSymbol = c.Physical.SamplesPerSymbol
	lc.Amplitude = c.Physical.Amplitude
	lc.CarrierFreq = c.Physical.CarrierFreq
	return lc, lc.Validate()
}

func (c *Config) Injector() (*channel.Injector, error) {
	mode, err := channel.ParseMode(c.Error.Mode)
	if err != nil {
		return nil, err
	}
	injector := &channel.Injector{
		Mode:        mode,
		Probability: c.Error.Probability,
		Index:       c.Error.Index,
		MaxFlips:    c.Error.MaxFlips,
		Seed:        c.Error.Seed,
	}
	return injector, injector.Validate()
}

func (c *Config) AWGN() *channel.AWGN {
	if c.Noise.Sigma <= 0 {
		return nil
	}
	return &channel.AWGN{Sigma: c.Noise.Sigma, Seed: c.Noise.Seed}
}

func CreatePipeline(config *Config) (*layers.Pipeline, error) {
	lc, err := config.Layers()
	if err != nil {
		return nil, err
	}
	injector, err := config.Injector()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", layers.ErrConfiguration, err)
	}
	return layers.NewPipeline(lc, injector, config.AWGN())
}

// CreateServer builds a receiver. Every payload carries its own mode
// selection, the file only provides the address.
func CreateServer(config *Config) *transport.Server {
	return transport.NewServer(config.Transport.Address, func(lc layers.Config) (*layers.Pipeline, error) {
		return layers.NewPipeline(lc, nil, nil)
	})
}

func CreateClient(config *Config) *transport.Client {
	return &transport.Client{Addr: config.Transport.Address}
}
