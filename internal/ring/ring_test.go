package ring

import (
	"testing"

	"mlkem/internal/field"
)

// TestNTTInvolution checks invariant 6: from_ntt(to_ntt(p)) == p,
// coefficient-exact.
func TestNTTInvolution(t *testing.T) {
	var coeffs [field.N]int32
	for i := range coeffs {
		coeffs[i] = int32((i*131 + 17) % field.Q)
	}
	p := Polynomial{Coeffs: coeffs}

	back := p.ToNTT().FromNTT()
	if back.Coeffs != p.Coeffs {
		t.Fatalf("NTT is not involutive: got %v, want %v", back.Coeffs, p.Coeffs)
	}
}

// schoolbookMul is a reference negacyclic convolution used only to check
// invariant 7 (multiplication commutes with NTT). It is deliberately not
// exposed on the Polynomial type: the hot path never needs it, since
// ML-KEM only ever multiplies in the NTT domain.
func schoolbookMul(a, b Polynomial) Polynomial {
	var out [field.N]int32
	for i := 0; i < field.N; i++ {
		for j := 0; j < field.N; j++ {
			prod := int64(a.Coeffs[i]) * int64(b.Coeffs[j])
			k := i + j
			if k < field.N {
				out[k] = field.ModQ(out[k] + int32(prod%field.Q))
			} else {
				out[k-field.N] = field.ModQ(out[k-field.N] - int32(prod%field.Q))
			}
		}
	}
	return Polynomial{Coeffs: out}
}

// TestMultiplicationCommutesWithNTT checks invariant 7: (a*b) in R_q
// equals from_ntt(to_ntt(a) . to_ntt(b)).
func TestMultiplicationCommutesWithNTT(t *testing.T) {
	var ac, bc [field.N]int32
	for i := range ac {
		ac[i] = int32((i*3 + 1) % field.Q)
		bc[i] = int32((i*5 + 2) % field.Q)
	}
	a := Polynomial{Coeffs: ac}
	b := Polynomial{Coeffs: bc}

	want := schoolbookMul(a, b)
	got := a.ToNTT().MulNTT(b.ToNTT()).FromNTT()

	if got.Coeffs != want.Coeffs {
		t.Fatalf("NTT multiplication mismatch:\ngot  %v\nwant %v", got.Coeffs, want.Coeffs)
	}
}

func TestAddSubRoundtrip(t *testing.T) {
	var ac, bc [field.N]int32
	for i := range ac {
		ac[i] = int32((i * 7) % field.Q)
		bc[i] = int32((i * 11) % field.Q)
	}
	a := Polynomial{Coeffs: ac}
	b := Polynomial{Coeffs: bc}

	sum := a.Add(b)
	back := sum.Sub(b)
	if back.Coeffs != a.Coeffs {
		t.Fatalf("Add/Sub roundtrip mismatch: got %v want %v", back.Coeffs, a.Coeffs)
	}
}

func TestSamplePolyCBDLength(t *testing.T) {
	if _, err := SamplePolyCBD(2, make([]byte, 63)); err == nil {
		t.Fatal("expected InvalidInputLength for short CBD input")
	}
	if _, err := SamplePolyCBD(4, make([]byte, 256)); err == nil {
		t.Fatal("expected InvalidEta for eta=4")
	}

	p, err := SamplePolyCBD(3, make([]byte, 64*3))
	if err != nil {
		t.Fatalf("SamplePolyCBD: %v", err)
	}
	for _, c := range p.Coeffs {
		if c < 0 || c >= field.Q {
			t.Fatalf("coefficient %d out of range [0,%d)", c, field.Q)
		}
	}
}

func TestSampleNTTDeterministic(t *testing.T) {
	seed := make([]byte, 34)
	for i := range seed {
		seed[i] = byte(i)
	}
	a := SampleNTT(seed)
	b := SampleNTT(seed)
	if a.Coeffs != b.Coeffs {
		t.Fatal("SampleNTT is not deterministic for a fixed seed")
	}
	for _, c := range a.Coeffs {
		if c < 0 || c >= field.Q {
			t.Fatalf("coefficient %d out of range [0,%d)", c, field.Q)
		}
	}
}
