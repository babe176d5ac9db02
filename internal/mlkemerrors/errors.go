// Package mlkemerrors defines the structural error taxonomy shared across
// the conversion, ring, K-PKE, and ML-KEM layers. No operation in this
// module panics on attacker-controlled input; every structural violation
// surfaces as one of these sentinels.
package mlkemerrors

import "errors"

var (
	// ErrInvalidInputLength is returned when a byte string does not match
	// the fixed schema length expected at a decode boundary (ek, dk, ct,
	// ByteEncode/ByteDecode buffers, Bits<->Bytes conversions).
	ErrInvalidInputLength = errors.New("mlkem: invalid input length")

	// ErrInvalidEta is returned when PRF or SamplePolyCBD is asked for an
	// eta outside {2, 3}.
	ErrInvalidEta = errors.New("mlkem: invalid eta, must be 2 or 3")

	// ErrInvalidKey is returned by the optional FIPS 203 encoding-validity
	// check on an encapsulation key: a decoded t-hat coefficient is >= q.
	ErrInvalidKey = errors.New("mlkem: invalid key encoding")
)
