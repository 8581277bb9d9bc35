package encmode

import (
	"fmt"

	"github.com/jabcode/jabcode/bitstream"
)

// EncodeSegments writes segments into w as repeated
// [3-bit mode][length][payload] records, followed by a bare FNC1
// mode-prefix terminator (§3, §6 bitstream layout).
func EncodeSegments(w *bitstream.Writer, segments []Segment) error {
	for _, seg := range segments {
		w.WriteBits(uint64(seg.Mode), ModePrefixBits)
		w.WriteBits(uint64(len(seg.Bytes)), LengthBits(seg.Mode))
		for _, b := range seg.Bytes {
			idx, ok := CharIndex(seg.Mode, b)
			if !ok {
				return fmt.Errorf("encmode: byte %#x not representable in mode %s", b, seg.Mode)
			}
			w.WriteBits(uint64(idx), BitsPerSymbol(seg.Mode))
		}
	}
	w.WriteBits(uint64(FNC1), ModePrefixBits)
	return nil
}

// DecodeSegments reads repeated segment records from r until the FNC1
// terminator mode value is read (or the reader runs out of bits, which is
// treated as an implicit terminator for robustness against trailing
// padding).
func DecodeSegments(r *bitstream.Reader) ([]Segment, error) {
	var segments []Segment
	for {
		if r.Remaining() < ModePrefixBits {
			return segments, nil
		}
		modeVal, err := r.ReadBits(ModePrefixBits)
		if err != nil {
			return nil, fmt.Errorf("encmode: reading mode prefix: %w", err)
		}
		mode := Mode(modeVal)
		if mode == FNC1 {
			return segments, nil
		}

		lengthBits := LengthBits(mode)
		length, err := r.ReadBits(lengthBits)
		if err != nil {
			return nil, fmt.Errorf("encmode: reading length field for mode %s: %w", mode, err)
		}

		bitsPerSym := BitsPerSymbol(mode)
		payload := make([]byte, length)
		for i := uint64(0); i < length; i++ {
			idx, err := r.ReadBits(bitsPerSym)
			if err != nil {
				return nil, fmt.Errorf("encmode: reading symbol %d of mode %s segment: %w", i, mode, err)
			}
			b, err := CharAt(mode, int(idx))
			if err != nil {
				return nil, err
			}
			payload[i] = b
		}
		segments = append(segments, Segment{Mode: mode, Bytes: payload})
	}
}

// Bytes concatenates every segment's payload back into the original byte
// string.
func Bytes(segments []Segment) []byte {
	var total int
	for _, s := range segments {
		total += len(s.Bytes)
	}
	out := make([]byte, 0, total)
	for _, s := range segments {
		out = append(out, s.Bytes...)
	}
	return out
}

// EncodedBitLen returns the number of bits EncodeSegments would write for
// segments, including the terminator, without actually writing them.
func EncodedBitLen(segments []Segment) int {
	total := 0
	for _, s := range segments {
		total += HeaderBits(s.Mode) + len(s.Bytes)*BitsPerSymbol(s.Mode)
	}
	total += ModePrefixBits // FNC1 terminator
	return total
}
