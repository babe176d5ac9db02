package mlkem

import (
	"bytes"
	"crypto/rand"
	"testing"

	"mlkem/internal/params"
)

// TestKeyGenEncapsDecapsAgree checks invariant 1: Decaps(dk, Encaps(ek,
// m)) recovers the shared secret Encaps produced, for every level.
func TestKeyGenEncapsDecapsAgree(t *testing.T) {
	for _, level := range []Level{ML512, ML768, ML1024} {
		k := New(level)

		ek, dk, err := k.KeyGen(rand.Reader)
		if err != nil {
			t.Fatalf("%s KeyGen: %v", level, err)
		}

		ss1, ct, err := k.Encapsulate(ek, rand.Reader)
		if err != nil {
			t.Fatalf("%s Encapsulate: %v", level, err)
		}

		ss2, err := k.Decapsulate(dk, ct)
		if err != nil {
			t.Fatalf("%s Decapsulate: %v", level, err)
		}

		if ss1 != ss2 {
			t.Fatalf("%s shared secret mismatch: encaps=%x decaps=%x", level, ss1, ss2)
		}
	}
}

// TestSizesMatchTable checks invariant/scenario S5: |ek|, |dk|, |ct| match
// the FIPS 203 table for each level.
func TestSizesMatchTable(t *testing.T) {
	cases := []struct {
		level          Level
		ek, dk, ct int
	}{
		{ML512, 800, 1632, 768},
		{ML768, 1184, 2400, 1088},
		{ML1024, 1568, 3168, 1568},
	}

	for _, c := range cases {
		k := New(c.level)
		ek, dk, err := k.KeyGen(rand.Reader)
		if err != nil {
			t.Fatalf("%s KeyGen: %v", c.level, err)
		}
		if len(ek.Bytes) != c.ek {
			t.Fatalf("%s |ek| = %d, want %d", c.level, len(ek.Bytes), c.ek)
		}
		if len(dk.Bytes) != c.dk {
			t.Fatalf("%s |dk| = %d, want %d", c.level, len(dk.Bytes), c.dk)
		}

		_, ct, err := k.Encapsulate(ek, rand.Reader)
		if err != nil {
			t.Fatalf("%s Encapsulate: %v", c.level, err)
		}
		if len(ct) != c.ct {
			t.Fatalf("%s |ct| = %d, want %d", c.level, len(ct), c.ct)
		}
	}
}

// TestFuzzCorruptedCiphertextDiverges reproduces scenario S4: flipping a
// byte of a valid ciphertext by a nonzero amount must change the
// decapsulated shared secret (implicit rejection), reproduced across
// many random (d, z, m, corruption) tuples.
func TestFuzzCorruptedCiphertextDiverges(t *testing.T) {
	k := New(ML768)

	for trial := 0; trial < 64; trial++ {
		var blob [97]byte
		if _, err := rand.Read(blob[:]); err != nil {
			t.Fatal(err)
		}
		var d, z, m [32]byte
		copy(d[:], blob[0:32])
		copy(z[:], blob[32:64])
		copy(m[:], blob[64:96])
		corr := blob[96]
		if corr == 0 {
			corr = 1
		}

		ek, dk, err := k.KeyGenInternal(d, z)
		if err != nil {
			t.Fatalf("KeyGenInternal: %v", err)
		}

		ss, ct, err := k.EncapsulateInternal(ek, m)
		if err != nil {
			t.Fatalf("EncapsulateInternal: %v", err)
		}

		ssOK, err := k.Decapsulate(dk, ct)
		if err != nil {
			t.Fatalf("Decapsulate: %v", err)
		}
		if ss != ssOK {
			t.Fatalf("trial %d: valid ciphertext did not decapsulate to the encapsulated secret", trial)
		}

		tampered := append(Ciphertext{}, ct...)
		tampered[0] ^= corr

		ssTampered, err := k.Decapsulate(dk, tampered)
		if err != nil {
			t.Fatalf("Decapsulate(tampered): %v", err)
		}
		if ssTampered == ss {
			t.Fatalf("trial %d: corrupted ciphertext decapsulated to the original shared secret", trial)
		}
	}
}

// TestEncapsulateRejectsWrongLengthKey checks the structural input
// validation FIPS 203 requires on ek.
func TestEncapsulateRejectsWrongLengthKey(t *testing.T) {
	k := New(ML768)
	bad := &PublicKey{Params: params.For(params.ML768), Bytes: make([]byte, 5)}
	if _, _, err := k.Encapsulate(bad, rand.Reader); err != ErrInvalidInputLength {
		t.Fatalf("got err %v, want ErrInvalidInputLength", err)
	}
}

// TestDecapsulateRejectsWrongLengths checks the structural input
// validation FIPS 203 requires on dk and the ciphertext.
func TestDecapsulateRejectsWrongLengths(t *testing.T) {
	k := New(ML768)
	badDK := &SecretKey{Params: params.For(params.ML768), Bytes: make([]byte, 5)}
	if _, err := k.Decapsulate(badDK, make(Ciphertext, 1088)); err != ErrInvalidInputLength {
		t.Fatalf("got err %v, want ErrInvalidInputLength", err)
	}

	_, dk, err := k.KeyGen(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := k.Decapsulate(dk, make(Ciphertext, 3)); err != ErrInvalidInputLength {
		t.Fatalf("got err %v, want ErrInvalidInputLength", err)
	}
}

func TestSecretKeyZeroize(t *testing.T) {
	k := New(ML768)
	_, dk, err := k.KeyGen(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	dk.Zeroize()
	for _, b := range dk.Bytes {
		if b != 0 {
			t.Fatal("SecretKey.Zeroize left nonzero bytes")
		}
	}
}

func TestSharedSecretZeroize(t *testing.T) {
	var ss SharedSecret
	copy(ss[:], bytes.Repeat([]byte{0xFF}, 32))
	ss.Zeroize()
	if ss != (SharedSecret{}) {
		t.Fatal("SharedSecret.Zeroize left nonzero bytes")
	}
}

func TestValidateEncapsulationKeyAcceptsGenuineKeys(t *testing.T) {
	for _, level := range []Level{ML512, ML768, ML1024} {
		k := New(level)
		ek, _, err := k.KeyGen(rand.Reader)
		if err != nil {
			t.Fatalf("%s KeyGen: %v", level, err)
		}
		if err := k.ValidateEncapsulationKey(ek); err != nil {
			t.Fatalf("%s ValidateEncapsulationKey rejected a genuine key: %v", level, err)
		}
	}
}
