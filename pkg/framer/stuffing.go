package framer

import (
	"fmt"

	"Linksim/pkg/bitcodec"
)

// EncodeStuffing pads the payload to whole bytes, escapes every literal
// delimiter or escape byte and wraps the result between two delimiters.
func EncodeStuffing(payload []bool, delimiter, escape byte) []bool {
	data, _ := bitcodec.ToBytes(bitcodec.PadBytes(payload))
	frame := make([]byte, 0, len(data)+2)
	frame = append(frame, delimiter)
	for _, b := range data {
		if b == delimiter || b == escape {
			frame = append(frame, escape)
		}
		frame = append(frame, b)
	}
	frame = append(frame, delimiter)
	return bitcodec.FromBytes(frame)
}

func FrameByStuffing(payloads [][]bool, delimiter, escape byte) ([]bool, error) {
	if delimiter == escape {
		return nil, fmt.Errorf("%w: delimiter and escape are both %08b", ErrFraming, delimiter)
	}
	stream := make([]bool, 0)
	for _, payload := range payloads {
		stream = append(stream, EncodeStuffing(payload, delimiter, escape)...)
	}
	return stream, nil
}

type stuffingState int

const (
	outside stuffingState = iota
	inside
	escaped
)

// DeframeByStuffing scans the stream byte by byte. Empty frames, as produced
// by two consecutive delimiters, are skipped.
func DeframeByStuffing(stream []bool, delimiter, escape byte) ([][]bool, error) {
	if delimiter == escape {
		return nil, fmt.Errorf("%w: delimiter and escape are both %08b", ErrFraming, delimiter)
	}
	data, err := bitcodec.ToBytes(stream)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFraming, err)
	}

	payloads := make([][]bool, 0)
	state := outside
	var current []byte
	for i, b := range data {
		switch state {
		case outside:
			if b != delimiter {
				return payloads, fmt.Errorf("%w: byte %08b at %d outside of a frame", ErrFraming, b, i)
			}
			state = inside
			current = current[:0]
		case inside:
			switch b {
			case delimiter:
				if len(current) > 0 {
					payloads = append(payloads, bitcodec.FromBytes(current))
					state = outside
				} else {
					debugLog("[Deframe] empty frame at byte %d", i)
				}
			case escape:
				state = escaped
			default:
				current = append(current, b)
			}
		case escaped:
			current = append(current, b)
			state = inside
		}
	}

	switch state {
	case inside:
		if len(current) > 0 {
			return payloads, fmt.Errorf("%w: missing closing delimiter", ErrFraming)
		}
	case escaped:
		return payloads, fmt.Errorf("%w: dangling escape at end of stream", ErrFraming)
	}
	return payloads, nil
}
