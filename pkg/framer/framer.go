package framer

import (
	"errors"
	"fmt"
	"strings"
)

var ErrFraming = errors.New("malformed frame stream")

type Mode int

const (
	Count Mode = iota
	Stuffing
)

const (
	DefaultDelimiter byte = 0b01111110
	DefaultEscape    byte = 0b00100011

	CountFieldBits = 8
	MaxFrameBytes  = 0xff
)

func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "contagem de caracteres", "count", "byte count", "character count":
		return Count, nil
	case "inserção de bytes", "insercao de bytes", "stuffing", "byte stuffing":
		return Stuffing, nil
	}
	return 0, fmt.Errorf("unknown framing mode %q", name)
}

// String returns the name used on the wire.
func (m Mode) String() string {
	switch m {
	case Count:
		return "Contagem de Caracteres"
	case Stuffing:
		return "Inserção de Bytes"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Split cuts bits into chunks of at most maxPayloadBits.
func Split(bits []bool, maxPayloadBits int) [][]bool {
	if len(bits) == 0 {
		return nil
	}
	if maxPayloadBits <= 0 {
		maxPayloadBits = len(bits)
	}
	chunks := make([][]bool, 0, (len(bits)+maxPayloadBits-1)/maxPayloadBits)
	for i := 0; i < len(bits); i += maxPayloadBits {
		chunks = append(chunks, bits[i:min(i+maxPayloadBits, len(bits))])
	}
	return chunks
}

type Framer struct {
	Mode           Mode
	MaxPayloadBits int

	// zero values mean DefaultDelimiter and DefaultEscape
	Delimiter byte
	Escape    byte
}

func (f Framer) markers() (byte, byte) {
	delimiter, escape := f.Delimiter, f.Escape
	if delimiter == 0 && escape == 0 {
		delimiter, escape = DefaultDelimiter, DefaultEscape
	}
	return delimiter, escape
}

// Frame wraps every already protected payload into one frame and
// concatenates them.
func (f Framer) Frame(payloads [][]bool) ([]bool, error) {
	switch f.Mode {
	case Count:
		return FrameByCount(payloads)
	case Stuffing:
		delimiter, escape := f.markers()
		return FrameByStuffing(payloads, delimiter, escape)
	}
	return nil, fmt.Errorf("unknown framing mode %d", f.Mode)
}

// Deframe returns the payload of every frame in the stream, byte padded.
func (f Framer) Deframe(stream []bool) ([][]bool, error) {
	switch f.Mode {
	case Count:
		return DeframeByCount(stream)
	case Stuffing:
		delimiter, escape := f.markers()
		return DeframeByStuffing(stream, delimiter, escape)
	}
	return nil, fmt.Errorf("unknown framing mode %d", f.Mode)
}
