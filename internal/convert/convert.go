// Package convert implements FIPS 203's Compress/Decompress rounding maps
// and the ByteEncode/ByteDecode <-> BitsToBytes/BytesToBits serialization
// stack (Algorithms 3-6). All arithmetic here runs on public-length inputs
// with fixed-shift, no-branch-on-value division, so it carries no secret-
// dependent control flow even when the coefficients it operates on are
// secret.
package convert

import "mlkem/internal/mlkemerrors"

// Compress maps x in [0, Q) to [0, 2^d) via round(x * 2^d / Q) mod 2^d,
// computed with a fixed-shift integer multiply-and-divide so the control
// flow does not depend on the value of x.
func Compress(x int32, d uint, q int32) int32 {
	twoPowD := int64(1) << d
	numerator := int64(x) * twoPowD
	rounded := (numerator + int64(q)/2) / int64(q)
	return int32(rounded & (twoPowD - 1))
}

// Decompress maps y in [0, 2^d) back to [0, Q) via (y*Q + 2^(d-1)) >> d.
func Decompress(y int32, d uint, q int32) int32 {
	numerator := int64(y) * int64(q)
	half := int64(1) << (d - 1)
	return int32((numerator + half) >> d)
}

// BitsToBytes packs an LSB-first bit array (length a multiple of 8) into
// bytes.
func BitsToBytes(bits []byte) ([]byte, error) {
	if len(bits)%8 != 0 {
		return nil, mlkemerrors.ErrInvalidInputLength
	}
	out := make([]byte, len(bits)/8)
	for i, bit := range bits {
		if bit != 0 {
			out[i/8] |= 1 << uint(i%8)
		}
	}
	return out, nil
}

// BytesToBits unpacks bytes into an LSB-first bit array, 8 bits per byte.
func BytesToBits(b []byte) []byte {
	out := make([]byte, len(b)*8)
	for i, byteVal := range b {
		for j := 0; j < 8; j++ {
			out[8*i+j] = (byteVal >> uint(j)) & 1
		}
	}
	return out
}

// ByteEncode packs N=256 d-bit coefficients (d in [1,12]) into 32*d bytes,
// LSB-first within each coefficient.
func ByteEncode(f []int32, d uint) ([]byte, error) {
	bits := make([]byte, len(f)*int(d))
	for i, coeff := range f {
		for j := uint(0); j < d; j++ {
			bits[uint(i)*d+j] = byte((coeff >> j) & 1)
		}
	}
	return BitsToBytes(bits)
}

// ByteDecode inverts ByteEncode: B must be exactly 32*d bytes and each
// reconstructed coefficient is reduced mod m, where m = 2^d for d<12 and
// m = q for d=12. The d=12 clamp is the FIPS 203 encoding-validity
// requirement: a raw 12-bit field can represent values up to 4095, all of
// which must be folded back into [0, q).
func ByteDecode(b []byte, d uint, q int32) ([]int32, error) {
	if len(b) != 32*int(d) {
		return nil, mlkemerrors.ErrInvalidInputLength
	}
	var m int32
	if d == 12 {
		m = q
	} else {
		m = int32(1) << d
	}

	bits := BytesToBits(b)
	n := len(bits) / int(d)
	out := make([]int32, n)
	for i := 0; i < n; i++ {
		var v int32
		for j := uint(0); j < d; j++ {
			v += int32(bits[uint(i)*d+j]) << j
		}
		out[i] = v % m
		if out[i] < 0 {
			out[i] += m
		}
	}
	return out, nil
}
