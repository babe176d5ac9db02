// Package ring implements arithmetic over R_q = Z_q[X]/(X^256+1): the
// time-domain Polynomial type, its NTT-domain counterpart PolynomialNTT,
// the forward/inverse NTT, NTT-domain pointwise multiplication, and the
// CBD and rejection samplers that turn hash output into ring elements.
//
// Polynomial and PolynomialNTT are deliberately distinct types: pointwise
// multiplication is only ever defined in the NTT domain, and the two
// domains cannot be mixed except through ToNTT/FromNTT.
package ring

import (
	"mlkem/internal/convert"
	"mlkem/internal/field"
	"mlkem/internal/hashfacade"
	"mlkem/internal/mlkemerrors"
)

// Polynomial is a time-domain ring element: 256 coefficients in [0, Q).
type Polynomial struct {
	Coeffs [field.N]int32
}

// PolynomialNTT is the NTT-domain image of a Polynomial under the
// length-128 negacyclic transform. Same shape, distinct type.
type PolynomialNTT struct {
	Coeffs [field.N]int32
}

// NewPolynomial builds a Polynomial from 256 coefficients, reducing each
// into [0, Q).
func NewPolynomial(coeffs []int32) Polynomial {
	var p Polynomial
	for i := range p.Coeffs {
		p.Coeffs[i] = field.ModQ(coeffs[i])
	}
	return p
}

// NewPolynomialNTT builds a PolynomialNTT from 256 coefficients, reducing
// each into [0, Q).
func NewPolynomialNTT(coeffs []int32) PolynomialNTT {
	var p PolynomialNTT
	for i := range p.Coeffs {
		p.Coeffs[i] = field.ModQ(coeffs[i])
	}
	return p
}

// Add returns a+b coefficient-wise mod Q.
func (a Polynomial) Add(b Polynomial) Polynomial {
	var out Polynomial
	for i := range out.Coeffs {
		out.Coeffs[i] = field.ModQ(a.Coeffs[i] + b.Coeffs[i])
	}
	return out
}

// Sub returns a-b coefficient-wise mod Q.
func (a Polynomial) Sub(b Polynomial) Polynomial {
	var out Polynomial
	for i := range out.Coeffs {
		out.Coeffs[i] = field.ModQ(a.Coeffs[i] - b.Coeffs[i])
	}
	return out
}

// Add returns a+b coefficient-wise mod Q, in the NTT domain.
func (a PolynomialNTT) Add(b PolynomialNTT) PolynomialNTT {
	var out PolynomialNTT
	for i := range out.Coeffs {
		out.Coeffs[i] = field.ModQ(a.Coeffs[i] + b.Coeffs[i])
	}
	return out
}

// Sub returns a-b coefficient-wise mod Q, in the NTT domain.
func (a PolynomialNTT) Sub(b PolynomialNTT) PolynomialNTT {
	var out PolynomialNTT
	for i := range out.Coeffs {
		out.Coeffs[i] = field.ModQ(a.Coeffs[i] - b.Coeffs[i])
	}
	return out
}

// ToNTT applies the in-place Cooley-Tukey negacyclic transform (FIPS 203
// Algorithm 9), moving a time-domain element into the NTT domain.
func (p Polynomial) ToNTT() PolynomialNTT {
	out := p.Coeffs
	k := 1
	for length := 128; length >= 2; length /= 2 {
		for start := 0; start < field.N; start += 2 * length {
			zeta := field.Zetas[k]
			k++
			for j := start; j < start+length; j++ {
				t := field.ModQ(zeta * out[j+length])
				out[j+length] = field.ModQ(out[j] - t)
				out[j] = field.ModQ(out[j] + t)
			}
		}
	}
	return PolynomialNTT{Coeffs: out}
}

// FromNTT applies the in-place Gentleman-Sande inverse transform (FIPS 203
// Algorithm 10), moving an NTT-domain element back to the time domain.
func (p PolynomialNTT) FromNTT() Polynomial {
	out := p.Coeffs
	k := 127
	for length := 2; length <= 128; length *= 2 {
		for start := 0; start < field.N; start += 2 * length {
			zeta := field.Zetas[k]
			k--
			for j := start; j < start+length; j++ {
				t := out[j]
				out[j] = field.ModQ(t + out[j+length])
				out[j+length] = field.ModQ(zeta * field.ModQ(out[j+length]-t))
			}
		}
	}
	for i := range out {
		out[i] = field.ModQ(out[i] * field.NInv)
	}
	return Polynomial{Coeffs: out}
}

// MulNTT computes the NTT-domain pointwise product of a and b: 128
// independent degree-1 base-case multiplications, each reduced mod Q
// (FIPS 203 Algorithms 11-12).
func (a PolynomialNTT) MulNTT(b PolynomialNTT) PolynomialNTT {
	var out PolynomialNTT
	for i := 0; i < 128; i++ {
		a0, a1 := a.Coeffs[2*i], a.Coeffs[2*i+1]
		b0, b1 := b.Coeffs[2*i], b.Coeffs[2*i+1]
		gamma := field.Gammas[i]

		out.Coeffs[2*i] = field.ModQ(a0*b0 + field.ModQ(a1*b1)*gamma)
		out.Coeffs[2*i+1] = field.ModQ(a0*b1 + a1*b0)
	}
	return out
}

// SamplePolyCBD draws a time-domain Polynomial from the centered binomial
// distribution with parameter eta, consuming exactly 64*eta bytes (FIPS
// 203 Algorithm 8).
func SamplePolyCBD(eta int, b []byte) (Polynomial, error) {
	if eta != 2 && eta != 3 {
		return Polynomial{}, mlkemerrors.ErrInvalidEta
	}
	if len(b) != 64*eta {
		return Polynomial{}, mlkemerrors.ErrInvalidInputLength
	}

	bits := convert.BytesToBits(b)
	var p Polynomial
	for i := 0; i < field.N; i++ {
		var x, y int32
		base := 2 * i * eta
		for j := 0; j < eta; j++ {
			x += int32(bits[base+j])
		}
		for j := 0; j < eta; j++ {
			y += int32(bits[base+eta+j])
		}
		p.Coeffs[i] = field.ModQ(x - y)
	}
	return p, nil
}

// SampleNTT drives a SHAKE128 XOF seeded with a 34-byte input (32-byte rho
// || j || i) to produce a uniformly-distributed NTT-domain element (FIPS
// 203 Algorithm 7). Its running time depends on the (public) seed, not on
// any secret, so its data-dependent rejection loop is not a side channel.
func SampleNTT(seed []byte) PolynomialNTT {
	xof := hashfacade.NewXOF128(seed)

	var out PolynomialNTT
	accepted := 0
	buf := make([]byte, 3)
	for accepted < field.N {
		xof.Read(buf)
		c0, c1, c2 := int32(buf[0]), int32(buf[1]), int32(buf[2])

		d1 := c0 + 256*(c1%16)
		d2 := (c1 / 16) + 16*c2

		if d1 < field.Q {
			out.Coeffs[accepted] = d1
			accepted++
		}
		if d2 < field.Q && accepted < field.N {
			out.Coeffs[accepted] = d2
			accepted++
		}
	}
	return out
}
