// Package hashfacade binds the five hash/XOF operations FIPS 203 names
// (PRF, H, J, G, XOF) to concrete SHA3 primitives. No context persists
// between calls; every function is a pure mapping from bytes to bytes.
package hashfacade

import (
	"io"

	"golang.org/x/crypto/sha3"

	"mlkem/internal/mlkemerrors"
)

// PRF implements FIPS 203's PRF_eta(s, b): SHAKE256(s || b) truncated to
// 64*eta bytes. eta must be 2 or 3; any other value is a structural
// programmer error and is rejected rather than silently truncated.
func PRF(eta int, s []byte, b byte) ([]byte, error) {
	if eta != 2 && eta != 3 {
		return nil, mlkemerrors.ErrInvalidEta
	}

	h := sha3.NewShake256()
	h.Write(s)
	h.Write([]byte{b})

	out := make([]byte, 64*eta)
	if _, err := io.ReadFull(h, out); err != nil {
		return nil, err
	}
	return out, nil
}

// H is SHA3-256.
func H(x []byte) [32]byte {
	return sha3.Sum256(x)
}

// J is SHAKE256 truncated to 32 bytes, used for implicit-rejection
// pseudorandomness in Decaps.
func J(x []byte) [32]byte {
	h := sha3.NewShake256()
	h.Write(x)
	var out [32]byte
	io.ReadFull(h, out[:])
	return out
}

// G is SHA3-512 split into two 32-byte halves.
func G(x []byte) (a [32]byte, b [32]byte) {
	full := sha3.Sum512(x)
	copy(a[:], full[:32])
	copy(b[:], full[32:])
	return a, b
}

// XOF is a deterministic, absorb-then-squeeze handle over SHAKE128. It
// supports reading an unbounded prefix of the output stream; repeated
// reads continue where the previous read left off.
type XOF struct {
	state sha3.ShakeHash
}

// NewXOF128 seeds a SHAKE128 XOF with seed and returns a handle ready for
// squeezing. The seed is absorbed once, at construction time.
func NewXOF128(seed []byte) *XOF {
	h := sha3.NewShake128()
	h.Write(seed)
	return &XOF{state: h}
}

// Read squeezes len(p) bytes from the XOF stream, satisfying io.Reader.
func (x *XOF) Read(p []byte) (int, error) {
	return x.state.Read(p)
}
