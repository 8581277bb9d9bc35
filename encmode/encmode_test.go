package encmode

import (
	"bytes"
	"testing"

	"github.com/jabcode/jabcode/bitstream"
)

func TestSegmentizeAllUpper(t *testing.T) {
	segs := Segmentize([]byte("HELLO JABCODE"))
	for _, s := range segs {
		if s.Mode != Upper && s.Mode != Byte {
			t.Fatalf("unexpected mode %s for all-uppercase input", s.Mode)
		}
	}
	if got := Bytes(segs); !bytes.Equal(got, []byte("HELLO JABCODE")) {
		t.Fatalf("Bytes(segs) = %q, want %q", got, "HELLO JABCODE")
	}
}

func TestSegmentizeNumericPrefersNumericMode(t *testing.T) {
	segs := Segmentize([]byte("0123456789"))
	foundNumeric := false
	for _, s := range segs {
		if s.Mode == Numeric {
			foundNumeric = true
		}
	}
	if !foundNumeric {
		t.Error("expected at least one Numeric segment for an all-digit string")
	}
}

func TestSegmentizeMixedFallsBackToByte(t *testing.T) {
	input := []byte{0x00, 0x01, 0xFF, 0x80}
	segs := Segmentize(input)
	if got := Bytes(segs); !bytes.Equal(got, input) {
		t.Fatalf("Bytes(segs) = %v, want %v", got, input)
	}
	for _, s := range segs {
		if s.Mode != Byte {
			t.Fatalf("expected Byte mode for non-text input, got %s", s.Mode)
		}
	}
}

func TestEncodeDecodeSegmentsRoundTrip(t *testing.T) {
	input := []byte("Hello, JABCode! 12345")
	segs := Segmentize(input)

	w := bitstream.NewWriter()
	if err := EncodeSegments(w, segs); err != nil {
		t.Fatalf("EncodeSegments: %v", err)
	}

	r := bitstream.NewReaderFromBits(w.Bits())
	decoded, err := DecodeSegments(r)
	if err != nil {
		t.Fatalf("DecodeSegments: %v", err)
	}

	got := Bytes(decoded)
	if !bytes.Equal(got, input) {
		t.Fatalf("round trip = %q, want %q", got, input)
	}
}

func TestEncodedBitLenMatchesActualWrite(t *testing.T) {
	segs := Segmentize([]byte("Round trip 42"))
	w := bitstream.NewWriter()
	if err := EncodeSegments(w, segs); err != nil {
		t.Fatalf("EncodeSegments: %v", err)
	}
	if w.Len() != EncodedBitLen(segs) {
		t.Errorf("EncodedBitLen = %d, actual write = %d", EncodedBitLen(segs), w.Len())
	}
}

func TestTranscodeForByteModeDefaultIsIdentity(t *testing.T) {
	in := []byte("plain ascii")
	out, err := TranscodeForByteMode(in, ByteModeOptions{Charset: CharsetUTF8})
	if err != nil {
		t.Fatalf("TranscodeForByteMode: %v", err)
	}
	if !bytes.Equal(in, out) {
		t.Fatalf("expected identity transcode, got %q", out)
	}
}

func TestTranscodeForByteModeISO8859(t *testing.T) {
	in := []byte("café") // "café"
	out, err := TranscodeForByteMode(in, ByteModeOptions{Charset: CharsetISO8859_1})
	if err != nil {
		t.Fatalf("TranscodeForByteMode: %v", err)
	}
	if len(out) != 4 {
		t.Fatalf("ISO-8859-1 encoding of 'café' should be 4 bytes, got %d", len(out))
	}
}
