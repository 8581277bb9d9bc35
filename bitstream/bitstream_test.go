package bitstream

import "testing"

func TestWriteReadRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteBits(0b101, 3)
	w.WriteBits(0xAB, 8)
	w.WriteBit(1)
	w.WriteBits(0, 5)

	r := NewReader(w.Bytes(), w.Len())
	v, err := r.ReadBits(3)
	if err != nil || v != 0b101 {
		t.Fatalf("field1 = %d, %v", v, err)
	}
	v, err = r.ReadBits(8)
	if err != nil || v != 0xAB {
		t.Fatalf("field2 = %d, %v", v, err)
	}
	v, err = r.ReadBits(1)
	if err != nil || v != 1 {
		t.Fatalf("field3 = %d, %v", v, err)
	}
}

func TestBitsRoundTripThroughReaderFromBits(t *testing.T) {
	w := NewWriter()
	w.WriteBits(0x1F, 5)
	w.WriteBits(0x3, 2)

	r := NewReaderFromBits(w.Bits())
	v, _ := r.ReadBits(5)
	if v != 0x1F {
		t.Fatalf("got %d want 0x1F", v)
	}
	v, _ = r.ReadBits(2)
	if v != 0x3 {
		t.Fatalf("got %d want 0x3", v)
	}
}

func TestReadPastEndErrors(t *testing.T) {
	r := NewReader([]byte{0xFF}, 4)
	if _, err := r.ReadBits(8); err == nil {
		t.Fatal("expected error reading past end")
	}
}

func TestEmptyReaderHasNoBits(t *testing.T) {
	r := NewReader(nil, 0)
	if r.Remaining() != 0 {
		t.Fatalf("Remaining() = %d, want 0", r.Remaining())
	}
}
