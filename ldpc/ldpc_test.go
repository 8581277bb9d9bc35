package ldpc

import "testing"

func TestBestECCMatchesTableEntryForScenario(t *testing.T) {
	got, ok := BestECC(1000, 400)
	if !ok {
		t.Fatal("BestECC reported no feasible pair")
	}
	want := ECCParam{WC: 5, WR: 6}
	if got != want {
		t.Errorf("BestECC(1000,400) = %+v, want %+v", got, want)
	}
}

func TestBestECCSlackNonNegative(t *testing.T) {
	p, ok := BestECC(1000, 400)
	if !ok {
		t.Fatal("no feasible pair")
	}
	grossPayload := (1000 / p.WR) * p.WR
	slack := (grossPayload/p.WR)*(p.WR-p.WC) - 400
	if slack < 0 {
		t.Errorf("slack = %d, want >= 0", slack)
	}
}

func TestCodeDimsMatchesBestECCSlackArithmetic(t *testing.T) {
	capacity, netDataLength := 1000, 400
	p, ok := BestECC(capacity, netDataLength)
	if !ok {
		t.Fatal("no feasible pair")
	}
	n, k := CodeDims(capacity, p.WC, p.WR)
	if n%p.WR != 0 {
		t.Errorf("n=%d is not a multiple of wr=%d", n, p.WR)
	}
	if k < netDataLength {
		t.Errorf("CodeDims k=%d is less than netDataLength=%d", k, netDataLength)
	}
}

func TestEncodeDecodeRoundTripNoErrors(t *testing.T) {
	n, k := 120, 60
	mat, err := NewMatrix(n, k, 3, 5)
	if err != nil {
		t.Fatalf("NewMatrix: %v", err)
	}
	data := make([]bool, mat.DataLen())
	for i := range data {
		data[i] = i%3 == 0
	}
	codeword, err := mat.Encode(data)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	res := mat.Decode(codeword)
	if res.Residual {
		t.Fatal("decode reported residual errors on a clean codeword")
	}
	if !boolSliceEqual(res.Data, data) {
		t.Fatalf("decoded data mismatch: got %v want %v", res.Data, data)
	}
}

func TestDecodeCorrectsFlippedBits(t *testing.T) {
	n, k := 160, 80
	mat, err := NewMatrix(n, k, 4, 6)
	if err != nil {
		t.Fatalf("NewMatrix: %v", err)
	}
	data := make([]bool, mat.DataLen())
	for i := range data {
		data[i] = (i*7)%5 == 0
	}
	codeword, err := mat.Encode(data)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	corrupted := append([]bool(nil), codeword...)
	corrupted[3] = !corrupted[3]

	res := mat.Decode(corrupted)
	if !boolSliceEqual(res.Data, data) || res.Residual {
		t.Fatalf("decode failed to correct single-bit error: residual=%v", res.Residual)
	}
}

func TestMatrixReproducible(t *testing.T) {
	m1, err := NewMatrix(100, 50, 3, 5)
	if err != nil {
		t.Fatalf("NewMatrix: %v", err)
	}
	m2, err := NewMatrix(100, 50, 3, 5)
	if err != nil {
		t.Fatalf("NewMatrix: %v", err)
	}
	if len(m1.freeCols) != len(m2.freeCols) {
		t.Fatal("two builds with identical parameters disagree on free-column count")
	}
	for i := range m1.freeCols {
		if m1.freeCols[i] != m2.freeCols[i] {
			t.Fatalf("two builds with identical parameters disagree on free columns at %d", i)
		}
	}
}

func boolSliceEqual(a, b []bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
