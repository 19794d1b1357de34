package framer

import (
	"errors"
	"reflect"
	"testing"

	"Linksim/pkg/bitcodec"
)

func TestCountHi(t *testing.T) {
	stream, err := FrameByCount([][]bool{bitcodec.FromText("Hi")})
	if err != nil {
		t.Fatal(err)
	}
	if got := bitcodec.String(stream); got != "000000100100100001101001" {
		t.Errorf("expected 00000010 0100100001101001, got %s", got)
	}
}

func TestCountPadding(t *testing.T) {
	frame, err := EncodeCount(bitcodec.MustParse("101"))
	if err != nil {
		t.Fatal(err)
	}
	if got := bitcodec.String(frame); got != "0000000110100000" {
		t.Errorf("expected 00000001 10100000, got %s", got)
	}
}

func TestCountTooLarge(t *testing.T) {
	_, err := EncodeCount(make([]bool, (MaxFrameBytes+1)*8))
	if !errors.Is(err, ErrFraming) {
		t.Errorf("expected ErrFraming, got %v", err)
	}
}

func TestCountTruncated(t *testing.T) {
	stream, _ := FrameByCount([][]bool{bitcodec.FromText("Hello")})
	_, err := DeframeByCount(stream[:len(stream)-8])
	if !errors.Is(err, ErrFraming) {
		t.Errorf("expected ErrFraming, got %v", err)
	}
}

func TestCountTrailingBits(t *testing.T) {
	stream, _ := FrameByCount([][]bool{bitcodec.FromText("A")})
	stream = append(stream, true, false, true)
	payloads, err := DeframeByCount(stream)
	if err != nil {
		t.Fatal(err)
	}
	if len(payloads) != 1 {
		t.Errorf("expected 1 frame, got %d", len(payloads))
	}
}

func TestStuffingEscapes(t *testing.T) {
	payload := bitcodec.FromBytes([]byte{0x01, DefaultDelimiter, DefaultEscape, 0x02})
	frame := EncodeStuffing(payload, DefaultDelimiter, DefaultEscape)
	got, _ := bitcodec.ToBytes(frame)
	expected := []byte{
		DefaultDelimiter,
		0x01, DefaultEscape, DefaultDelimiter, DefaultEscape, DefaultEscape, 0x02,
		DefaultDelimiter,
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %x, got %x", expected, got)
	}

	payloads, err := DeframeByStuffing(frame, DefaultDelimiter, DefaultEscape)
	if err != nil {
		t.Fatal(err)
	}
	if len(payloads) != 1 || !reflect.DeepEqual(payloads[0], payload) {
		t.Errorf("payload not restored: %v", payloads)
	}
}

func TestStuffingConsecutiveDelimiters(t *testing.T) {
	stream := bitcodec.FromBytes([]byte{
		DefaultDelimiter, DefaultDelimiter, 'a', DefaultDelimiter,
		DefaultDelimiter, DefaultDelimiter,
		DefaultDelimiter, 'b', DefaultDelimiter,
	})
	payloads, err := DeframeByStuffing(stream, DefaultDelimiter, DefaultEscape)
	if err != nil {
		t.Fatal(err)
	}
	expected := [][]bool{bitcodec.FromText("a"), bitcodec.FromText("b")}
	if !reflect.DeepEqual(payloads, expected) {
		t.Errorf("expected %v, got %v", expected, payloads)
	}
}

func TestStuffingMalformed(t *testing.T) {
	tests := []struct {
		name   string
		stream []bool
	}{
		{"unaligned", make([]bool, 12)},
		{"missing closing delimiter", bitcodec.FromBytes([]byte{DefaultDelimiter, 'a'})},
		{"dangling escape", bitcodec.FromBytes([]byte{DefaultDelimiter, 'a', DefaultEscape})},
		{"outside of frame", bitcodec.FromBytes([]byte{'a', DefaultDelimiter})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DeframeByStuffing(tt.stream, DefaultDelimiter, DefaultEscape)
			if !errors.Is(err, ErrFraming) {
				t.Errorf("expected ErrFraming, got %v", err)
			}
		})
	}
}

func TestFramerRoundTrip(t *testing.T) {
	const MAX_PAYLOAD_BITS = 16
	text := "Inserção de Bytes ~#~"
	for _, mode := range []Mode{Count, Stuffing} {
		t.Run(mode.String(), func(t *testing.T) {
			f := Framer{Mode: mode, MaxPayloadBits: MAX_PAYLOAD_BITS}
			chunks := Split(bitcodec.FromText(text), f.MaxPayloadBits)
			stream, err := f.Frame(chunks)
			if err != nil {
				t.Fatal(err)
			}
			payloads, err := f.Deframe(stream)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(payloads, chunks) {
				t.Errorf("expected %d frames back, got %d", len(chunks), len(payloads))
			}
		})
	}
}

func TestSplit(t *testing.T) {
	chunks := Split(make([]bool, 20), 8)
	if len(chunks) != 3 || len(chunks[2]) != 4 {
		t.Errorf("unexpected chunks %v", chunks)
	}
	if Split(nil, 8) != nil {
		t.Error("empty input must give no chunks")
	}
}

func TestParseMode(t *testing.T) {
	for _, name := range []string{"Contagem de Caracteres", "Inserção de Bytes"} {
		m, err := ParseMode(name)
		if err != nil {
			t.Fatal(err)
		}
		if m.String() != name {
			t.Errorf("expected %q, got %q", name, m.String())
		}
	}
	if _, err := ParseMode("bit stuffing"); err == nil {
		t.Error("expected an error")
	}
}
