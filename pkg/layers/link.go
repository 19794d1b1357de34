package layers

import (
	"fmt"

	"Linksim/pkg/ecc"
	"Linksim/pkg/framer"
)

// FrameReport is the outcome of one received frame. Payload holds the data
// bits with every trailer removed, even when Err is set.
type FrameReport struct {
	Payload   []bool
	Corrected bool
	Err       error
}

// LinkLayer splits the bits into chunks, protects every chunk with the
// detection trailers and then Hamming, and frames the result.
type LinkLayer struct {
	Config Config
}

func (l LinkLayer) Encode(bits []bool) ([]bool, error) {
	chunks := framer.Split(bits, l.Config.MaxPayloadBits)
	protected := make([][]bool, len(chunks))
	for i, chunk := range chunks {
		p := l.Config.Detection.Protect(chunk)
		if l.Config.Correction {
			p = ecc.HammingEncode(p)
		}
		protected[i] = p
	}
	stream, err := l.Config.Framer().Frame(protected)
	if err != nil {
		return nil, err
	}
	debugLog("[Link] %d bits in %d frames, %d bits framed", len(bits), len(chunks), len(stream))
	return stream, nil
}

// Decode returns one report per frame. Only a malformed stream is an error,
// detection and correction failures are reported per frame.
func (l LinkLayer) Decode(stream []bool) ([]FrameReport, error) {
	payloads, err := l.Config.Framer().Deframe(stream)
	if err != nil {
		return nil, err
	}
	reports := make([]FrameReport, len(payloads))
	for i, payload := range payloads {
		reports[i] = l.decodeFrame(payload)
		if reports[i].Err != nil {
			debugLog("[Link] frame %d: %v", i, reports[i].Err)
		}
	}
	return reports, nil
}

func (l LinkLayer) decodeFrame(payload []bool) FrameReport {
	var report FrameReport
	data := payload
	if l.Config.Correction {
		n, ok := l.codewordLength(len(payload))
		if !ok {
			report.Payload = payload
			report.Err = fmt.Errorf("%w: no codeword pads to %d bits", framer.ErrFraming, len(payload))
			return report
		}
		var err error
		data, report.Corrected, err = ecc.HammingDecode(payload[:n])
		if err != nil {
			report.Err = err
		}
	}
	verified, err := l.Config.Detection.Verify(data)
	report.Payload = verified
	if report.Err == nil {
		report.Err = err
	}
	return report
}

// codewordLength finds the Hamming codeword that was padded to the given
// number of bits. Chunks and trailers are whole bytes, so the protected
// length is a multiple of 8 and the match is unique.
func (l LinkLayer) codewordLength(padded int) (int, bool) {
	for m := 0; ; m += 8 {
		n := ecc.HammingLength(m)
		switch size := (n + 7) / 8 * 8; {
		case size == padded:
			return n, true
		case size > padded:
			return 0, false
		}
	}
}
