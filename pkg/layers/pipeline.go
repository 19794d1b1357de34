package layers

import (
	"errors"
	"fmt"

	"Linksim/pkg/bitcodec"
	"Linksim/pkg/channel"
	"Linksim/pkg/modem"
)

type Status int

const (
	StatusOK Status = iota
	StatusCorrected
	StatusDetected
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusCorrected:
		return "Corrected"
	case StatusDetected:
		return "Detected"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Result is the outcome of receiving one message. Text is a best effort
// decode of Bits whatever the status. TextErr is set, and Text left empty,
// when Bits do not make whole bytes.
type Result struct {
	Text             string
	TextErr          error
	Bits             []bool
	Status           Status
	Frames           []FrameReport
	PhysicalMismatch bool
}

// Err joins the errors of every frame and the text error.
func (r Result) Err() error {
	errs := make([]error, 0)
	for i, f := range r.Frames {
		if f.Err != nil {
			errs = append(errs, fmt.Errorf("frame %d: %w", i, f.Err))
		}
	}
	if r.TextErr != nil {
		errs = append(errs, r.TextErr)
	}
	return errors.Join(errs...)
}

// Transmission is everything the sender produces for one message. The
// Corrupted fields are what went through the channel, they equal the clean
// ones when nothing was injected.
type Transmission struct {
	Config Config
	Text   string
	Bits   []bool
	Frames []bool
	Signals

	CorruptedFrames  []bool
	CorruptedSignals Signals
	Flipped          []int
	ContainsError    bool
}

// Pipeline runs a message down and up the two layers. Injector and Noise are
// optional and only touch the corrupted copy.
type Pipeline struct {
	Config   Config
	Injector *channel.Injector
	Noise    *channel.AWGN
}

func NewPipeline(c Config, injector *channel.Injector, noise *channel.AWGN) (*Pipeline, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := injector.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return &Pipeline{Config: c.Clone(), Injector: injector, Noise: noise}, nil
}

func (p *Pipeline) Link() LinkLayer {
	return LinkLayer{Config: p.Config}
}

func (p *Pipeline) Physical() PhysicalLayer {
	return PhysicalLayer{Config: p.Config}
}

func (p *Pipeline) Transmit(text string) (*Transmission, error) {
	if err := p.Config.Validate(); err != nil {
		return nil, err
	}
	bits := bitcodec.FromText(text)
	frames, err := p.Link().Encode(bits)
	if err != nil {
		return nil, err
	}
	digital, carrier, err := p.Physical().Modulate(frames)
	if err != nil {
		return nil, err
	}
	tx := &Transmission{
		Config:  p.Config.Clone(),
		Text:    text,
		Bits:    bits,
		Frames:  frames,
		Signals: Signals{Digital: digital, Carrier: carrier},
	}

	tx.CorruptedFrames, tx.Flipped = p.Injector.Apply(frames)
	tx.ContainsError = len(tx.Flipped) > 0
	if tx.ContainsError {
		digital, carrier, _ = p.Physical().Modulate(tx.CorruptedFrames)
	}
	tx.CorruptedSignals = Signals{
		Digital: p.Noise.Apply(digital),
		Carrier: p.Noise.Apply(carrier),
	}
	debugLog("[Pipeline] sent %q as %d frame bits, flipped %v", text, len(frames), tx.Flipped)
	return tx, nil
}

// Receive demodulates and decodes one message. Only configuration, framing
// and truncated symbol errors are returned, the rest is in the Result.
func (p *Pipeline) Receive(digital, carrier modem.Signal) (Result, error) {
	return p.ReceiveSignals(Signals{Digital: digital, Carrier: carrier})
}

func (p *Pipeline) ReceiveSignals(s Signals) (Result, error) {
	bits, mismatch, err := p.Physical().demodulate(s.Digital, s.Carrier)
	if err != nil {
		return Result{}, err
	}
	result, err := p.ReceiveBits(bits)
	if err != nil {
		return Result{}, err
	}
	result.PhysicalMismatch = mismatch
	return result, nil
}

// ReceiveBits decodes a frame stream.
func (p *Pipeline) ReceiveBits(frames []bool) (Result, error) {
	if err := p.Config.Validate(); err != nil {
		return Result{}, err
	}
	reports, err := p.Link().Decode(frames)
	if err != nil {
		return Result{}, err
	}

	result := assemble(reports)
	debugLog("[Pipeline] received %q, %s", result.Text, result.Status)
	return result, nil
}

// assemble joins the frame payloads into the message. Bits that do not make
// whole bytes mark the result as detected instead of being padded.
func assemble(reports []FrameReport) Result {
	result := Result{Frames: reports, Bits: make([]bool, 0)}
	for _, r := range reports {
		result.Bits = append(result.Bits, r.Payload...)
		switch {
		case r.Err != nil:
			result.Status = StatusDetected
		case r.Corrected && result.Status == StatusOK:
			result.Status = StatusCorrected
		}
	}
	text, err := bitcodec.ToText(result.Bits)
	if err != nil {
		result.TextErr = err
		result.Status = StatusDetected
		return result
	}
	result.Text = text
	return result
}
