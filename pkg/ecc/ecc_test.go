package ecc

import (
	"errors"
	"reflect"
	"testing"

	"Linksim/pkg/bitcodec"
)

func pattern(n, seed int) []bool {
	bits := make([]bool, n)
	for i := range bits {
		bits[i] = (i*7+seed)%3 == 0
	}
	return bits
}

func flip(bits []bool, positions ...int) []bool {
	out := make([]bool, len(bits))
	copy(out, bits)
	for _, p := range positions {
		out[p] = !out[p]
	}
	return out
}

func TestParity(t *testing.T) {
	for n := 0; n < 20; n++ {
		b := pattern(n, n)
		protected := AddParity(b)
		if len(protected) != n+1 {
			t.Fatalf("expected %d bits, got %d", n+1, len(protected))
		}
		if !CheckParity(protected) {
			t.Errorf("parity check failed for %s", bitcodec.String(protected))
		}
		for i := range protected {
			if CheckParity(flip(protected, i)) {
				t.Errorf("flip at %d of %s not detected", i, bitcodec.String(protected))
			}
		}
	}
}

func TestParityTrailer(t *testing.T) {
	b := bitcodec.MustParse("0100100001101001")
	protected := Parity.Append(b)
	if len(protected) != len(b)+ParityBits {
		t.Fatalf("expected %d bits, got %d", len(b)+ParityBits, len(protected))
	}
	if !Parity.Check(protected) {
		t.Error("parity trailer check failed")
	}
	for i := range protected {
		if Parity.Check(flip(protected, i)) {
			t.Errorf("flip at %d not detected", i)
		}
	}
	if !reflect.DeepEqual(Parity.Strip(protected), b) {
		t.Error("strip did not restore the payload")
	}
}

func TestCRC32(t *testing.T) {
	for _, n := range []int{0, 1, 5, 8, 16, 29, 64} {
		b := pattern(n, 1)
		protected := AddCRC32(b)
		if len(protected) != n+CRC32Bits {
			t.Fatalf("expected %d bits, got %d", n+CRC32Bits, len(protected))
		}
		if !CheckCRC32(protected) {
			t.Errorf("crc check failed for %d bits", n)
		}
		for i := range protected {
			if CheckCRC32(flip(protected, i)) {
				t.Errorf("flip at %d of %d bits not detected", i, n)
			}
		}
	}
}

func TestCRC32KnownValue(t *testing.T) {
	// crc32("123456789") = 0xCBF43926
	protected := AddCRC32(bitcodec.FromText("123456789"))
	trailer := protected[len(protected)-CRC32Bits:]
	if got := bitcodec.ReadUint(trailer); got != 0xCBF43926 {
		t.Errorf("expected 0xCBF43926, got %#x", got)
	}
}

func TestHammingLength(t *testing.T) {
	tests := []struct {
		k, n int
	}{
		{0, 1}, {1, 3}, {4, 7}, {6, 10}, {11, 15}, {16, 21}, {26, 31}, {27, 33},
	}
	for _, tt := range tests {
		if got := HammingLength(tt.k); got != tt.n {
			t.Errorf("HammingLength(%d) = %d, expected %d", tt.k, got, tt.n)
		}
		if got := HammingDataLength(tt.n); got < tt.k {
			t.Errorf("HammingDataLength(%d) = %d, expected at least %d", tt.n, got, tt.k)
		}
	}
}

func TestHammingKnownCodeword(t *testing.T) {
	// data 1011 -> p1 p2 d1 p4 d2 d3 d4 = 0110011
	codeword := HammingEncode(bitcodec.MustParse("1011"))
	if got := bitcodec.String(codeword); got != "0110011" {
		t.Errorf("expected 0110011, got %s", got)
	}
}

func TestHammingSingleError(t *testing.T) {
	for k := 0; k <= 48; k++ {
		data := pattern(k, k)
		codeword := HammingEncode(data)

		decoded, corrected, err := HammingDecode(codeword)
		if err != nil || corrected {
			t.Fatalf("k=%d: clean codeword reported corrected=%v err=%v", k, corrected, err)
		}
		if !reflect.DeepEqual(decoded, data) {
			t.Fatalf("k=%d: clean decode mismatch", k)
		}

		for i := range codeword {
			decoded, corrected, err := HammingDecode(flip(codeword, i))
			if err != nil {
				t.Fatalf("k=%d flip=%d: %v", k, i, err)
			}
			if !corrected {
				t.Errorf("k=%d flip=%d: expected corrected", k, i)
			}
			if !reflect.DeepEqual(decoded, data) {
				t.Errorf("k=%d flip=%d: data not recovered", k, i)
			}
		}
	}
}

func TestHammingSyndromeOutOfRange(t *testing.T) {
	codeword := HammingEncode(pattern(6, 0))
	if len(codeword) != 10 {
		t.Fatalf("expected a 10 bit codeword, got %d", len(codeword))
	}
	// positions 3 and 8 (1-indexed) give syndrome 11
	_, corrected, err := HammingDecode(flip(codeword, 2, 7))
	if !errors.Is(err, ErrCorrectionFailure) {
		t.Errorf("expected ErrCorrectionFailure, got %v", err)
	}
	if corrected {
		t.Error("correction must not be applied")
	}
}

func TestDetection(t *testing.T) {
	payload := bitcodec.FromText("Hi")
	tests := []struct {
		name  string
		names []string
		size  int
	}{
		{"none", nil, 0},
		{"parity", []string{"Paridade"}, 8},
		{"crc", []string{"CRC-32"}, 32},
		{"both", []string{"CRC-32", "Paridade"}, 40},
		{"duplicate", []string{"Paridade", "Paridade"}, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDetection(tt.names)
			if err != nil {
				t.Fatal(err)
			}
			if d.Size() != tt.size {
				t.Errorf("expected size %d, got %d", tt.size, d.Size())
			}
			protected := d.Protect(payload)
			if len(protected)-len(payload) != d.Size() {
				t.Errorf("appended %d bits, size says %d", len(protected)-len(payload), d.Size())
			}
			got, err := d.Verify(protected)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, payload) {
				t.Error("payload not restored")
			}
			if len(d) > 0 {
				if _, err := d.Verify(flip(protected, 3)); !errors.Is(err, ErrDetection) {
					t.Errorf("expected ErrDetection, got %v", err)
				}
			}
		})
	}
}

func TestParseMethod(t *testing.T) {
	if _, err := ParseMethod("Checksum"); !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("expected ErrUnknownMethod, got %v", err)
	}
	m, err := ParseMethod("crc-32")
	if err != nil || m != CRC32 {
		t.Errorf("expected CRC32, got %v %v", m, err)
	}
}
