// Package pke implements K-PKE, the IND-CPA public-key encryption scheme
// ML-KEM wraps with implicit rejection (FIPS 203 Algorithms 13-15). It
// operates purely on byte slices and the Parameters selecting K, eta_1,
// eta_2, d_u, d_v; callers in package mlkem layer the FO transform and
// randomness sourcing on top.
package pke

import (
	"mlkem/internal/convert"
	"mlkem/internal/field"
	"mlkem/internal/hashfacade"
	"mlkem/internal/mlkemerrors"
	"mlkem/internal/params"
	"mlkem/internal/ring"
)

// buildMatrix samples the K*K NTT-domain matrix A-hat from rho, indexed
// A-hat[i][j] = SampleNTT(rho || j || i), matching both KeyGen and
// Encrypt so the two independently-rebuilt matrices agree.
func buildMatrix(p params.Parameters, rho []byte) [][]ring.PolynomialNTT {
	a := make([][]ring.PolynomialNTT, p.K)
	seed := make([]byte, 34)
	copy(seed[0:32], rho)
	for i := 0; i < p.K; i++ {
		row := make([]ring.PolynomialNTT, p.K)
		for j := 0; j < p.K; j++ {
			seed[32] = byte(j)
			seed[33] = byte(i)
			row[j] = ring.SampleNTT(seed)
		}
		a[i] = row
	}
	return a
}

// KeyGen implements K-PKE.KeyGen(d) (Algorithm 13): it returns
// ekPke = ByteEncode_12(t-hat[0]) || ... || ByteEncode_12(t-hat[K-1]) || rho
// and dkPke = ByteEncode_12(s-hat[0]) || ... || ByteEncode_12(s-hat[K-1]).
func KeyGen(p params.Parameters, d [32]byte) (ekPke, dkPke []byte, err error) {
	gIn := append(d[:], byte(p.K))
	rho, sigma := hashfacade.G(gIn)

	aHat := buildMatrix(p, rho[:])

	n := 0
	s := make([]ring.Polynomial, p.K)
	for i := 0; i < p.K; i++ {
		prf, err := hashfacade.PRF(p.Eta1, sigma[:], byte(n))
		if err != nil {
			return nil, nil, err
		}
		s[i], err = ring.SamplePolyCBD(p.Eta1, prf)
		if err != nil {
			return nil, nil, err
		}
		n++
	}

	e := make([]ring.Polynomial, p.K)
	for i := 0; i < p.K; i++ {
		prf, err := hashfacade.PRF(p.Eta1, sigma[:], byte(n))
		if err != nil {
			return nil, nil, err
		}
		e[i], err = ring.SamplePolyCBD(p.Eta1, prf)
		if err != nil {
			return nil, nil, err
		}
		n++
	}

	sHat := make([]ring.PolynomialNTT, p.K)
	eHat := make([]ring.PolynomialNTT, p.K)
	for i := 0; i < p.K; i++ {
		sHat[i] = s[i].ToNTT()
		eHat[i] = e[i].ToNTT()
	}

	tHat := make([]ring.PolynomialNTT, p.K)
	for i := 0; i < p.K; i++ {
		acc := ring.PolynomialNTT{}
		for j := 0; j < p.K; j++ {
			acc = acc.Add(aHat[i][j].MulNTT(sHat[j]))
		}
		tHat[i] = acc.Add(eHat[i])
	}

	ekPke = make([]byte, 0, 384*p.K+32)
	for i := 0; i < p.K; i++ {
		enc, err := convert.ByteEncode(tHat[i].Coeffs[:], 12)
		if err != nil {
			return nil, nil, err
		}
		ekPke = append(ekPke, enc...)
	}
	ekPke = append(ekPke, rho[:]...)

	dkPke = make([]byte, 0, 384*p.K)
	for i := 0; i < p.K; i++ {
		enc, err := convert.ByteEncode(sHat[i].Coeffs[:], 12)
		if err != nil {
			return nil, nil, err
		}
		dkPke = append(dkPke, enc...)
	}

	return ekPke, dkPke, nil
}

// Encrypt implements K-PKE.Encrypt(ek, m, r) (Algorithm 14).
func Encrypt(p params.Parameters, ekPke []byte, m, r [32]byte) ([]byte, error) {
	if len(ekPke) != p.EncapsulationKeySize() {
		return nil, mlkemerrors.ErrInvalidInputLength
	}

	tHat := make([]ring.PolynomialNTT, p.K)
	for i := 0; i < p.K; i++ {
		chunk := ekPke[384*i : 384*(i+1)]
		coeffs, err := convert.ByteDecode(chunk, 12, field.Q)
		if err != nil {
			return nil, err
		}
		tHat[i] = ring.NewPolynomialNTT(coeffs)
	}
	rho := ekPke[384*p.K:]

	aHat := buildMatrix(p, rho)

	n := 0
	y := make([]ring.Polynomial, p.K)
	for i := 0; i < p.K; i++ {
		prf, err := hashfacade.PRF(p.Eta1, r[:], byte(n))
		if err != nil {
			return nil, err
		}
		y[i], err = ring.SamplePolyCBD(p.Eta1, prf)
		if err != nil {
			return nil, err
		}
		n++
	}

	e1 := make([]ring.Polynomial, p.K)
	for i := 0; i < p.K; i++ {
		prf, err := hashfacade.PRF(p.Eta2, r[:], byte(n))
		if err != nil {
			return nil, err
		}
		e1[i], err = ring.SamplePolyCBD(p.Eta2, prf)
		if err != nil {
			return nil, err
		}
		n++
	}

	prf, err := hashfacade.PRF(p.Eta2, r[:], byte(n))
	if err != nil {
		return nil, err
	}
	e2, err := ring.SamplePolyCBD(p.Eta2, prf)
	if err != nil {
		return nil, err
	}
	n++

	yHat := make([]ring.PolynomialNTT, p.K)
	for i := 0; i < p.K; i++ {
		yHat[i] = y[i].ToNTT()
	}

	u := make([]ring.Polynomial, p.K)
	for i := 0; i < p.K; i++ {
		acc := ring.PolynomialNTT{}
		for j := 0; j < p.K; j++ {
			acc = acc.Add(aHat[j][i].MulNTT(yHat[j]))
		}
		u[i] = acc.FromNTT().Add(e1[i])
	}

	mBits, err := convert.ByteDecode(m[:], 1, field.Q)
	if err != nil {
		return nil, err
	}
	muCoeffs := make([]int32, field.N)
	for i, b := range mBits {
		muCoeffs[i] = convert.Decompress(b, 1, field.Q)
	}
	mu := ring.NewPolynomial(muCoeffs)

	vHatAcc := ring.PolynomialNTT{}
	for i := 0; i < p.K; i++ {
		vHatAcc = vHatAcc.Add(tHat[i].MulNTT(yHat[i]))
	}
	v := vHatAcc.FromNTT().Add(e2).Add(mu)

	c1 := make([]byte, 0, 32*int(p.Du)*p.K)
	for i := 0; i < p.K; i++ {
		compressed := make([]int32, field.N)
		for j, coeff := range u[i].Coeffs {
			compressed[j] = convert.Compress(coeff, p.Du, field.Q)
		}
		enc, err := convert.ByteEncode(compressed, p.Du)
		if err != nil {
			return nil, err
		}
		c1 = append(c1, enc...)
	}

	compressedV := make([]int32, field.N)
	for j, coeff := range v.Coeffs {
		compressedV[j] = convert.Compress(coeff, p.Dv, field.Q)
	}
	c2, err := convert.ByteEncode(compressedV, p.Dv)
	if err != nil {
		return nil, err
	}

	return append(c1, c2...), nil
}

// Decrypt implements K-PKE.Decrypt(dk, c) (Algorithm 15).
func Decrypt(p params.Parameters, dkPke []byte, c []byte) ([32]byte, error) {
	var m [32]byte

	if len(dkPke) != p.PKEPrivateKeySize() {
		return m, mlkemerrors.ErrInvalidInputLength
	}
	if len(c) != p.CiphertextSize() {
		return m, mlkemerrors.ErrInvalidInputLength
	}

	c1Len := 32 * int(p.Du) * p.K
	c1 := c[:c1Len]
	c2 := c[c1Len:]

	uPrime := make([]ring.Polynomial, p.K)
	for i := 0; i < p.K; i++ {
		chunk := c1[32*int(p.Du)*i : 32*int(p.Du)*(i+1)]
		decoded, err := convert.ByteDecode(chunk, p.Du, field.Q)
		if err != nil {
			return m, err
		}
		coeffs := make([]int32, field.N)
		for j, v := range decoded {
			coeffs[j] = convert.Decompress(v, p.Du, field.Q)
		}
		uPrime[i] = ring.NewPolynomial(coeffs)
	}

	decodedV, err := convert.ByteDecode(c2, p.Dv, field.Q)
	if err != nil {
		return m, err
	}
	vCoeffs := make([]int32, field.N)
	for j, v := range decodedV {
		vCoeffs[j] = convert.Decompress(v, p.Dv, field.Q)
	}
	vPrime := ring.NewPolynomial(vCoeffs)

	sHat := make([]ring.PolynomialNTT, p.K)
	for i := 0; i < p.K; i++ {
		chunk := dkPke[384*i : 384*(i+1)]
		coeffs, err := convert.ByteDecode(chunk, 12, field.Q)
		if err != nil {
			return m, err
		}
		sHat[i] = ring.NewPolynomialNTT(coeffs)
	}

	acc := ring.PolynomialNTT{}
	for i := 0; i < p.K; i++ {
		acc = acc.Add(sHat[i].MulNTT(uPrime[i].ToNTT()))
	}
	w := vPrime.Sub(acc.FromNTT())

	compressedW := make([]int32, field.N)
	for i, coeff := range w.Coeffs {
		compressedW[i] = convert.Compress(coeff, 1, field.Q)
	}
	enc, err := convert.ByteEncode(compressedW, 1)
	if err != nil {
		return m, err
	}
	copy(m[:], enc)
	return m, nil
}
