package wire

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

const (
	PrefixSize = 4

	// MaxPayloadSize bounds the declared length of one document.
	MaxPayloadSize = 256 << 20
)

var (
	ErrShortPayload     = errors.New("payload ends before its declared length")
	ErrPayloadTooLarge  = errors.New("payload too large")
	ErrMalformedPayload = errors.New("malformed payload")
)

// Write sends the 4 byte big-endian length and then the JSON document.
func Write(w io.Writer, p Payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	if len(body) > MaxPayloadSize {
		return fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(body))
	}
	msg := make([]byte, PrefixSize, PrefixSize+len(body))
	binary.BigEndian.PutUint32(msg, uint32(len(body)))
	msg = append(msg, body...)
	if _, err := w.Write(msg); err != nil {
		return err
	}
	debugLog("[Wire] sent %s, %d bytes", p.ID, len(body))
	return nil
}

// Read reads one document. It returns io.EOF only when the stream ends
// exactly between two documents.
func Read(r io.Reader) (Payload, error) {
	var prefix [PrefixSize]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return Payload{}, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Payload{}, fmt.Errorf("%w: truncated length prefix", ErrShortPayload)
		}
		return Payload{}, err
	}

	size := binary.BigEndian.Uint32(prefix[:])
	if size > MaxPayloadSize {
		return Payload{}, fmt.Errorf("%w: declared %d bytes", ErrPayloadTooLarge, size)
	}
	body := make([]byte, size)
	if _, err := io.ReadFull(r, body); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Payload{}, fmt.Errorf("%w: declared %d bytes", ErrShortPayload, size)
		}
		return Payload{}, err
	}

	var p Payload
	if err := json.Unmarshal(body, &p); err != nil {
		return Payload{}, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	debugLog("[Wire] received %s, %d bytes", p.ID, size)
	return p, nil
}
