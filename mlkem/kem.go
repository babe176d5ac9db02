// Package mlkem is the public surface of this module: the FIPS 203
// ML-KEM key-encapsulation mechanism at all three parameterizations,
// built from the Fujisaki-Okamoto-style wrapper (this file) around the
// K-PKE IND-CPA scheme in internal/pke. No operation here panics on
// caller-supplied bytes; structural violations return one of the
// sentinel errors in internal/mlkemerrors (re-exported below).
package mlkem

import (
	"crypto/subtle"
	"io"

	"mlkem/internal/convert"
	"mlkem/internal/field"
	"mlkem/internal/hashfacade"
	"mlkem/internal/mlkemerrors"
	"mlkem/internal/params"
	"mlkem/internal/pke"
)

// Re-exported sentinel errors, so callers never need to import the
// internal error package directly.
var (
	ErrInvalidInputLength = mlkemerrors.ErrInvalidInputLength
	ErrInvalidEta         = mlkemerrors.ErrInvalidEta
	ErrInvalidKey         = mlkemerrors.ErrInvalidKey
)

// Level re-exports params.Level so callers only need to import this
// package.
type Level = params.Level

const (
	ML512  = params.ML512
	ML768  = params.ML768
	ML1024 = params.ML1024
)

// KEM is a parameterized ML-KEM instance. It is stateless and safe for
// concurrent, read-only use by multiple goroutines: key generation,
// encapsulation, and decapsulation allocate only fixed-size temporaries
// derived from K and share nothing across calls.
type KEM struct {
	p params.Parameters
}

// New constructs a KEM instance for the given security level.
func New(level Level) KEM {
	return KEM{p: params.For(level)}
}

// KeyGenInternal implements ML-KEM.KeyGen_internal(d, z) (Algorithm 16),
// taking explicit seeds. It exists for known-answer testing; KeyGen is
// the entry point that sources its own randomness.
func (k KEM) KeyGenInternal(d, z [32]byte) (*PublicKey, *SecretKey, error) {
	ekPke, dkPke, err := pke.KeyGen(k.p, d)
	if err != nil {
		return nil, nil, err
	}

	h := hashfacade.H(ekPke)

	dk := make([]byte, 0, k.p.DecapsulationKeySize())
	dk = append(dk, dkPke...)
	dk = append(dk, ekPke...)
	dk = append(dk, h[:]...)
	dk = append(dk, z[:]...)

	return &PublicKey{Params: k.p, Bytes: ekPke}, &SecretKey{Params: k.p, Bytes: dk}, nil
}

// KeyGen implements ML-KEM.KeyGen() (Algorithm 19): it draws d and z from
// rng and delegates to KeyGenInternal.
func (k KEM) KeyGen(rng io.Reader) (*PublicKey, *SecretKey, error) {
	var d, z [32]byte
	if _, err := io.ReadFull(rng, d[:]); err != nil {
		return nil, nil, err
	}
	if _, err := io.ReadFull(rng, z[:]); err != nil {
		return nil, nil, err
	}
	return k.KeyGenInternal(d, z)
}

// EncapsulateInternal implements ML-KEM.Encaps_internal(ek, m) (Algorithm
// 17), taking an explicit message. Encapsulate is the entry point that
// sources its own randomness.
func (k KEM) EncapsulateInternal(ek *PublicKey, m [32]byte) (SharedSecret, Ciphertext, error) {
	var ss SharedSecret
	if len(ek.Bytes) != k.p.EncapsulationKeySize() {
		return ss, nil, mlkemerrors.ErrInvalidInputLength
	}

	h := hashfacade.H(ek.Bytes)
	gIn := append(append([]byte{}, m[:]...), h[:]...)
	kk, r := hashfacade.G(gIn)

	c, err := pke.Encrypt(k.p, ek.Bytes, m, r)
	if err != nil {
		return ss, nil, err
	}

	copy(ss[:], kk[:])
	return ss, Ciphertext(c), nil
}

// Encapsulate implements ML-KEM.Encaps(ek) (Algorithm 20): it draws m
// from rng and delegates to EncapsulateInternal. ek's length is checked
// against the schema in FIPS 203 section 6 before any hashing happens.
func (k KEM) Encapsulate(ek *PublicKey, rng io.Reader) (SharedSecret, Ciphertext, error) {
	var ss SharedSecret
	if len(ek.Bytes) != k.p.EncapsulationKeySize() {
		return ss, nil, mlkemerrors.ErrInvalidInputLength
	}

	var m [32]byte
	if _, err := io.ReadFull(rng, m[:]); err != nil {
		return ss, nil, err
	}
	return k.EncapsulateInternal(ek, m)
}

// DecapsulateInternal implements ML-KEM.Decaps_internal(dk, c) (Algorithm
// 18). It never fails on a ciphertext-value basis: a malformed or
// tampered ciphertext is absorbed by implicit rejection, returning a
// pseudorandom key instead of an error. The comparison between the
// supplied ciphertext and the re-encrypted candidate, and the resulting
// selection between K' and K-bar, both run in constant time.
func (k KEM) DecapsulateInternal(dk *SecretKey, c Ciphertext) (SharedSecret, error) {
	var ss SharedSecret
	p := k.p

	if len(dk.Bytes) != p.DecapsulationKeySize() {
		return ss, mlkemerrors.ErrInvalidInputLength
	}
	if len(c) != p.CiphertextSize() {
		return ss, mlkemerrors.ErrInvalidInputLength
	}

	dkPke := dk.Bytes[0 : 384*p.K]
	ekPke := dk.Bytes[384*p.K : 768*p.K+32]
	h := dk.Bytes[768*p.K+32 : 768*p.K+64]
	z := dk.Bytes[768*p.K+64:]

	mPrime, err := pke.Decrypt(p, dkPke, c)
	if err != nil {
		return ss, err
	}

	gIn := make([]byte, 0, 64)
	gIn = append(gIn, mPrime[:]...)
	gIn = append(gIn, h...)
	kPrime, rPrime := hashfacade.G(gIn)

	jIn := make([]byte, 0, 32+len(c))
	jIn = append(jIn, z...)
	jIn = append(jIn, c...)
	kBar := hashfacade.J(jIn)

	cPrime, err := pke.Encrypt(p, ekPke, mPrime, rPrime)
	if err != nil {
		return ss, err
	}

	equal := subtle.ConstantTimeCompare(c, cPrime)

	var out [32]byte
	copy(out[:], kBar[:])
	subtle.ConstantTimeCopy(equal, out[:], kPrime[:])

	copy(ss[:], out[:])
	return ss, nil
}

// Decapsulate implements ML-KEM.Decaps(dk, c) (Algorithm 21).
func (k KEM) Decapsulate(dk *SecretKey, c Ciphertext) (SharedSecret, error) {
	return k.DecapsulateInternal(dk, c)
}

// ValidateEncapsulationKey performs the FIPS 203 encoding-validity check
// that KeyGen/Encaps/Decaps themselves do not: ByteDecode_12 followed by
// re-encode must be the identity for every t-hat coefficient.
// ek's length must already match the schema; callers that want this
// check should run it once after receiving an ek from an untrusted
// source, before calling Encapsulate.
func (k KEM) ValidateEncapsulationKey(ek *PublicKey) error {
	p := k.p
	if len(ek.Bytes) != p.EncapsulationKeySize() {
		return mlkemerrors.ErrInvalidInputLength
	}

	for i := 0; i < p.K; i++ {
		chunk := ek.Bytes[384*i : 384*(i+1)]
		coeffs, err := convert.ByteDecode(chunk, 12, field.Q)
		if err != nil {
			return err
		}
		reencoded, err := convert.ByteEncode(coeffs, 12)
		if err != nil {
			return err
		}
		if subtle.ConstantTimeCompare(chunk, reencoded) != 1 {
			return mlkemerrors.ErrInvalidKey
		}
	}
	return nil
}
