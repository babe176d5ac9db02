package mlkem

import "io"

// KEMScheme is the behavioral contract a key-encapsulation mechanism
// satisfies; it mirrors the trait the reference implementation this
// module was grounded on defines, generalized so callers can depend on
// the interface rather than the concrete KEM type.
type KEMScheme interface {
	KeyGenInternal(d, z [32]byte) (*PublicKey, *SecretKey, error)
	KeyGen(rng io.Reader) (*PublicKey, *SecretKey, error)
	EncapsulateInternal(ek *PublicKey, m [32]byte) (SharedSecret, Ciphertext, error)
	Encapsulate(ek *PublicKey, rng io.Reader) (SharedSecret, Ciphertext, error)
	DecapsulateInternal(dk *SecretKey, c Ciphertext) (SharedSecret, error)
	Decapsulate(dk *SecretKey, c Ciphertext) (SharedSecret, error)
}

var _ KEMScheme = KEM{}
