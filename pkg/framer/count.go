package framer

import (
	"fmt"

	"Linksim/pkg/bitcodec"
)

// EncodeCount prepends the 8 bit byte count, ceil(len(payload)/8), and pads
// the payload with zero bits up to that many bytes.
func EncodeCount(payload []bool) ([]bool, error) {
	count := (len(payload) + 7) / 8
	if count > MaxFrameBytes {
		return nil, fmt.Errorf("%w: payload of %d bytes does not fit the count field", ErrFraming, count)
	}
	frame := make([]bool, 0, CountFieldBits+count*8)
	frame = append(frame, bitcodec.Uint(uint64(count), CountFieldBits)...)
	frame = append(frame, bitcodec.PadBytes(payload)...)
	return frame, nil
}

func FrameByCount(payloads [][]bool) ([]bool, error) {
	stream := make([]bool, 0)
	for _, payload := range payloads {
		frame, err := EncodeCount(payload)
		if err != nil {
			return nil, err
		}
		stream = append(stream, frame...)
	}
	return stream, nil
}

// DeframeByCount reads frames until fewer than 8 bits remain.
func DeframeByCount(stream []bool) ([][]bool, error) {
	payloads := make([][]bool, 0)
	for i := 0; len(stream)-i >= CountFieldBits; {
		count := int(bitcodec.ReadUint(stream[i : i+CountFieldBits]))
		i += CountFieldBits
		if len(stream)-i < count*8 {
			return payloads, fmt.Errorf("%w: frame %d declares %d bytes, %d bits left", ErrFraming, len(payloads), count, len(stream)-i)
		}
		payload := make([]bool, count*8)
		copy(payload, stream[i:i+count*8])
		payloads = append(payloads, payload)
		i += count * 8
	}
	return payloads, nil
}
