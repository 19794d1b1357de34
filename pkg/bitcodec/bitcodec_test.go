package bitcodec

import (
	"errors"
	"reflect"
	"testing"
)

func TestFromText(t *testing.T) {
	bits := FromText("Hi")
	if got := String(bits); got != "0100100001101001" {
		t.Errorf("expected 0100100001101001, got %s", got)
	}
}

func TestTextRoundTrip(t *testing.T) {
	tests := []string{"", "Hi", "olá, mundo", "Inserção de Bytes", "\x00\xff"}
	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			got, err := ToText(FromText(text))
			if err != nil {
				t.Fatal(err)
			}
			if got != text {
				t.Errorf("expected %q, got %q", text, got)
			}
		})
	}
}

func TestToBytesAlignment(t *testing.T) {
	_, err := ToBytes(make([]bool, 9))
	if !errors.Is(err, ErrBitAlignment) {
		t.Errorf("expected ErrBitAlignment, got %v", err)
	}
}

func TestParse(t *testing.T) {
	bits, err := Parse("0110 0001")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(bits, FromBytes([]byte{0x61})) {
		t.Errorf("unexpected bits %s", String(bits))
	}
	if _, err := Parse("012"); err == nil {
		t.Error("expected an error for a non-binary digit")
	}
}

func TestUint(t *testing.T) {
	bits := Uint(2, 8)
	if String(bits) != "00000010" {
		t.Errorf("unexpected %s", String(bits))
	}
	if ReadUint(bits) != 2 {
		t.Errorf("expected 2, got %d", ReadUint(bits))
	}
}

func TestPadBytes(t *testing.T) {
	padded := PadBytes(MustParse("101"))
	if String(padded) != "10100000" {
		t.Errorf("unexpected %s", String(padded))
	}
	if len(PadBytes(nil)) != 0 {
		t.Error("expected no padding for an empty sequence")
	}
}
