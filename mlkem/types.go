package mlkem

import "mlkem/internal/params"

// PublicKey is the ML-KEM encapsulation key: ByteEncode_12(t-hat) for each
// of K ring elements, followed by the 32-byte seed rho.
type PublicKey struct {
	Params params.Parameters
	Bytes  []byte
}

// SecretKey is the ML-KEM decapsulation key: dk_pke || ek || H(ek) || z.
// It holds key material that must be wiped on destruction; call Zeroize
// once the key is no longer needed.
type SecretKey struct {
	Params params.Parameters
	Bytes  []byte
}

// Zeroize overwrites the secret key's backing bytes with zeros. The
// SecretKey must not be used again afterwards.
func (sk *SecretKey) Zeroize() {
	if sk == nil {
		return
	}
	zeroize(sk.Bytes)
}

// Ciphertext is c1 || c2 as defined in FIPS 203 section 6.
type Ciphertext []byte

// SharedSecret is the 32-byte key ML-KEM outputs. Call Zeroize once the
// secret is no longer needed.
type SharedSecret [32]byte

// Zeroize overwrites the shared secret with zeros.
func (s *SharedSecret) Zeroize() {
	if s == nil {
		return
	}
	for i := range s {
		s[i] = 0
	}
}
