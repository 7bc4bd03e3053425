/*
 * Copyright (c) 2018 XLAB d.o.o
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package clt implements a graded encoding scheme over the integers in
// the style of Coron, Lepoint and Tibouchi (CLT13).
//
// Encodings are residues modulo x0, a product of Slots secret primes.
// In every slot i the encoded value is a small integer r_i*g_i + m_i,
// divided by the product of the secret masks z_k of the encoding's
// index set. The plaintext lives in the first slot, whose modulus g_1
// is the public plaintext modulus. A public zero-testing parameter
// detects top-level encodings of zero by their size.
package clt

import (
	"io"
	"math/big"
	"math/bits"

	"github.com/fentec-project/mife/internal"
	"github.com/fentec-project/mife/internal/keygen"
	"github.com/fentec-project/mife/mmap"
	"github.com/fentec-project/mife/sample"
	"github.com/pkg/errors"
	"github.com/tuneinsight/lattigo/v6/utils/buffer"
)

// Name identifies the scheme in serialized artifacts.
const Name = "clt"

// Default parameters, used when the corresponding Scheme field is zero.
const (
	DefaultSlots = 4
	DefaultRho   = 16
	DefaultBeta  = 16
	DefaultNu    = 40
	DefaultWidth = 8
)

// Scheme holds the tunable parameters of the CLT scheme.
type Scheme struct {
	// Slots is the number of secret primes.
	Slots int
	// Rho is the bit size of the noise in fresh encodings.
	Rho int
	// Beta is the bit size of the zero-testing multipliers h_i.
	Beta int
	// Nu is the number of most significant bits of x0 that must be
	// clear for a successful zero test.
	Nu int
	// Width bounds the number of terms summed when multiplying
	// matrices of encodings, which widens the noise at every level.
	Width int
}

func (s Scheme) withDefaults() Scheme {
	if s.Slots == 0 {
		s.Slots = DefaultSlots
	}
	if s.Rho == 0 {
		s.Rho = DefaultRho
	}
	if s.Beta == 0 {
		s.Beta = DefaultBeta
	}
	if s.Nu == 0 {
		s.Nu = DefaultNu
	}
	if s.Width == 0 {
		s.Width = DefaultWidth
	}

	return s
}

// Eta returns the bit size of the secret primes for the given
// configuration, large enough for a degree cfg.Kappa product to stay
// below every prime.
func (s Scheme) Eta(cfg mmap.Config) int {
	s = s.withDefaults()
	widthBits := bits.Len(uint(s.Width))
	slotBits := bits.Len(uint(s.Slots))

	return cfg.Kappa*(s.Rho+cfg.Lambda+2+widthBits) + s.Beta + s.Nu + slotBits + 8
}

// Encoding is a CLT encoding: a residue modulo x0 at an index set.
type Encoding struct {
	Value *big.Int
	Set   mmap.IndexSet
}

// IndexSet returns the index set of e.
func (e *Encoding) IndexSet() mmap.IndexSet {
	return e.Set
}

// PublicParams hold the modulus x0, the zero-testing parameter and the
// plaintext modulus.
type PublicParams struct {
	X0       *big.Int
	Pzt      *big.Int
	P        *big.Int
	Nu       int
	Degree   int
	Elements int
}

// SecretParams hold the secret primes, the slot moduli and the inverted
// masks of every universe element.
type SecretParams struct {
	pub  *PublicParams
	rho  int
	ps   []*big.Int
	gs   []*big.Int
	zInv []*big.Int
	crt  []*big.Int
}

// Name returns the name of the scheme.
func (s Scheme) Name() string {
	return Name
}

// Setup generates fresh CLT parameters.
func (s Scheme) Setup(cfg mmap.Config, rand io.Reader) (mmap.PublicParams, mmap.SecretParams, error) {
	if err := mmap.CheckConfig(cfg); err != nil {
		return nil, nil, err
	}
	s = s.withDefaults()
	if s.Slots < 1 || s.Rho < 1 || s.Beta < 1 || s.Nu < 1 || s.Width < 1 {
		return nil, nil, errors.Wrapf(internal.PrimitiveFailure, "invalid CLT parameters %+v", s)
	}
	eta := s.Eta(cfg)

	p, err := keygen.NewPrime(cfg.Lambda, rand)
	if err != nil {
		return nil, nil, errors.Wrap(internal.PrimitiveFailure, err.Error())
	}
	gs, err := keygen.NewDistinctPrimes(s.Slots-1, cfg.Lambda, rand, p)
	if err != nil {
		return nil, nil, errors.Wrap(internal.PrimitiveFailure, err.Error())
	}
	gs = append([]*big.Int{p}, gs...)
	ps, err := keygen.NewDistinctPrimes(s.Slots, eta, rand)
	if err != nil {
		return nil, nil, errors.Wrap(internal.PrimitiveFailure, err.Error())
	}

	x0 := big.NewInt(1)
	for _, pi := range ps {
		x0.Mul(x0, pi)
	}

	zs := make([]*big.Int, cfg.Universe)
	zInv := make([]*big.Int, cfg.Universe)
	zSampler := sample.NewNonZero(x0, rand)
	for k := range zs {
		for zInv[k] == nil {
			if zs[k], err = zSampler.Sample(); err != nil {
				return nil, nil, errors.Wrap(internal.PrimitiveFailure, err.Error())
			}
			zInv[k] = internal.ModExp(zs[k], big.NewInt(-1), x0)
		}
	}
	zStar := big.NewInt(1)
	for _, z := range zs {
		zStar.Mul(zStar, z).Mod(zStar, x0)
	}

	hSampler := sample.NewUniformRangeFrom(big.NewInt(1),
		new(big.Int).Lsh(big.NewInt(1), uint(s.Beta)), rand)
	pzt := new(big.Int)
	for i, pi := range ps {
		h, err := hSampler.Sample()
		if err != nil {
			return nil, nil, errors.Wrap(internal.PrimitiveFailure, err.Error())
		}
		gInv := new(big.Int).ModInverse(gs[i], pi)
		term := new(big.Int).Mul(zStar, gInv)
		term.Mod(term, pi)
		term.Mul(term, h)
		term.Mul(term, new(big.Int).Quo(x0, pi))
		pzt.Add(pzt, term)
	}
	pzt.Mod(pzt, x0)

	pub := &PublicParams{
		X0:       x0,
		Pzt:      pzt,
		P:        p,
		Nu:       s.Nu,
		Degree:   cfg.Kappa,
		Elements: cfg.Universe,
	}

	return pub, newSecretParams(pub, s.Rho, ps, gs, zInv), nil
}

func newSecretParams(pub *PublicParams, rho int, ps, gs, zInv []*big.Int) *SecretParams {
	crt := make([]*big.Int, len(ps))
	for i, pi := range ps {
		q := new(big.Int).Quo(pub.X0, pi)
		qInv := new(big.Int).ModInverse(q, pi)
		crt[i] = q.Mul(q, qInv)
		crt[i].Mod(crt[i], pub.X0)
	}

	return &SecretParams{
		pub:  pub,
		rho:  rho,
		ps:   ps,
		gs:   gs,
		zInv: zInv,
		crt:  crt,
	}
}

// ReadPublic reads public parameters written by PublicParams.Write.
func (s Scheme) ReadPublic(r buffer.Reader) (mmap.PublicParams, error) {
	vals, err := internal.ReadBigInts(r)
	if err != nil {
		return nil, err
	}
	ints, err := internal.ReadInts(r)
	if err != nil {
		return nil, err
	}
	if len(vals) != 3 || len(ints) != 3 {
		return nil, errors.Wrap(internal.Serialization, "invalid CLT public parameters")
	}
	pub := &PublicParams{
		X0:       vals[0],
		Pzt:      vals[1],
		P:        vals[2],
		Nu:       ints[0],
		Degree:   ints[1],
		Elements: ints[2],
	}
	if pub.X0.Sign() <= 0 || pub.P.Sign() <= 0 || pub.Nu < 1 || pub.Degree < 1 || pub.Elements < 1 {
		return nil, errors.Wrap(internal.Serialization, "invalid CLT public parameters")
	}

	return pub, nil
}

// ReadSecret reads secret parameters written by SecretParams.Write and
// binds them to pub.
func (s Scheme) ReadSecret(r buffer.Reader, pub mmap.PublicParams) (mmap.SecretParams, error) {
	pp, ok := pub.(*PublicParams)
	if !ok {
		return nil, errors.Wrap(internal.PrimitiveFailure, "public parameters of another scheme")
	}
	rho, err := internal.ReadInt(r)
	if err != nil {
		return nil, err
	}
	ps, err := internal.ReadBigInts(r)
	if err != nil {
		return nil, err
	}
	gs, err := internal.ReadBigInts(r)
	if err != nil {
		return nil, err
	}
	zInv, err := internal.ReadBigInts(r)
	if err != nil {
		return nil, err
	}
	if rho < 1 || len(ps) == 0 || len(ps) != len(gs) || len(zInv) != pp.Elements {
		return nil, errors.Wrap(internal.Serialization, "invalid CLT secret parameters")
	}
	x0 := big.NewInt(1)
	for _, pi := range ps {
		if pi.Sign() <= 0 {
			return nil, errors.Wrap(internal.Serialization, "invalid CLT secret prime")
		}
		x0.Mul(x0, pi)
	}
	if x0.Cmp(pp.X0) != 0 || gs[0].Cmp(pp.P) != 0 {
		return nil, errors.Wrap(internal.Serialization, "CLT secret parameters do not match public ones")
	}

	return newSecretParams(pp, rho, ps, gs, zInv), nil
}

// Universe returns the size of the index-set universe.
func (pp *PublicParams) Universe() int {
	return pp.Elements
}

// Kappa returns the multilinearity degree.
func (pp *PublicParams) Kappa() int {
	return pp.Degree
}

// Modulus returns the plaintext modulus g_1.
func (pp *PublicParams) Modulus() *big.Int {
	return pp.P
}

func (pp *PublicParams) cast(e mmap.Encoding) (*Encoding, error) {
	enc, ok := e.(*Encoding)
	if !ok || enc == nil || enc.Value == nil {
		return nil, errors.Wrap(internal.PrimitiveFailure, "not a CLT encoding")
	}

	return enc, nil
}

// Add returns a+b.
func (pp *PublicParams) Add(a, b mmap.Encoding) (mmap.Encoding, error) {
	x, err := pp.cast(a)
	if err != nil {
		return nil, err
	}
	y, err := pp.cast(b)
	if err != nil {
		return nil, err
	}
	if !x.Set.Equal(y.Set) {
		return nil, errors.Wrapf(internal.PrimitiveFailure,
			"cannot add encodings at %v and %v", x.Set, y.Set)
	}
	sum := new(big.Int).Add(x.Value, y.Value)

	return &Encoding{Value: sum.Mod(sum, pp.X0), Set: x.Set}, nil
}

// Mul returns a*b.
func (pp *PublicParams) Mul(a, b mmap.Encoding) (mmap.Encoding, error) {
	x, err := pp.cast(a)
	if err != nil {
		return nil, err
	}
	y, err := pp.cast(b)
	if err != nil {
		return nil, err
	}
	if !x.Set.Disjoint(y.Set) {
		return nil, errors.Wrapf(internal.PrimitiveFailure,
			"cannot multiply encodings at %v and %v", x.Set, y.Set)
	}
	prod := new(big.Int).Mul(x.Value, y.Value)

	return &Encoding{Value: prod.Mod(prod, pp.X0), Set: x.Set.Union(y.Set)}, nil
}

// IsZero multiplies e by the zero-testing parameter and checks that the
// centered result is small compared to x0.
func (pp *PublicParams) IsZero(e mmap.Encoding) (bool, error) {
	x, err := pp.cast(e)
	if err != nil {
		return false, err
	}
	if !x.Set.IsUniverse(pp.Elements) {
		return false, errors.Wrapf(internal.PrimitiveFailure,
			"cannot zero-test an encoding at %v", x.Set)
	}
	w := new(big.Int).Mul(x.Value, pp.Pzt)
	w = internal.ModCentered(w, pp.X0)

	return w.BitLen() < pp.X0.BitLen()-pp.Nu, nil
}

// Write writes the public parameters to w.
func (pp *PublicParams) Write(w buffer.Writer) error {
	if err := internal.WriteBigInts(w, []*big.Int{pp.X0, pp.Pzt, pp.P}); err != nil {
		return err
	}

	return internal.WriteInts(w, []int{pp.Nu, pp.Degree, pp.Elements})
}

// WriteEncoding writes e to w.
func (pp *PublicParams) WriteEncoding(w buffer.Writer, e mmap.Encoding) error {
	x, err := pp.cast(e)
	if err != nil {
		return err
	}
	if err := mmap.WriteIndexSet(w, x.Set); err != nil {
		return err
	}

	return internal.WriteBigInt(w, x.Value)
}

// ReadEncoding reads an encoding written by WriteEncoding.
func (pp *PublicParams) ReadEncoding(r buffer.Reader) (mmap.Encoding, error) {
	s, err := mmap.ReadIndexSet(r, pp.Elements)
	if err != nil {
		return nil, err
	}
	v, err := internal.ReadBigInt(r)
	if err != nil {
		return nil, err
	}
	if v.Sign() < 0 || v.Cmp(pp.X0) >= 0 {
		return nil, errors.Wrap(internal.PrimitiveFailure, "CLT encoding out of range")
	}

	return &Encoding{Value: v, Set: s}, nil
}

// Encode encodes m at index set s. The plaintext is placed in the first
// slot and every other slot encodes zero.
func (sp *SecretParams) Encode(m *big.Int, s mmap.IndexSet, rand io.Reader) (mmap.Encoding, error) {
	if !s.Within(sp.pub.Elements) {
		return nil, errors.Wrapf(internal.PrimitiveFailure,
			"index set %v outside universe of size %d", s, sp.pub.Elements)
	}
	bound := new(big.Int).Lsh(big.NewInt(1), uint(sp.rho))
	noise := sample.NewUniformRangeFrom(new(big.Int).Neg(bound), bound, rand)

	c := new(big.Int)
	for i, g := range sp.gs {
		r, err := noise.Sample()
		if err != nil {
			return nil, errors.Wrap(internal.PrimitiveFailure, err.Error())
		}
		slot := r.Mul(r, g)
		if i == 0 {
			slot.Add(slot, new(big.Int).Mod(m, g))
		}
		slot.Mul(slot, sp.crt[i])
		c.Add(c, slot)
	}
	for _, k := range s.Elements() {
		c.Mul(c, sp.zInv[k])
		c.Mod(c, sp.pub.X0)
	}

	return &Encoding{Value: c.Mod(c, sp.pub.X0), Set: s}, nil
}

// Write writes the secret parameters to w.
func (sp *SecretParams) Write(w buffer.Writer) error {
	if err := internal.WriteInt(w, sp.rho); err != nil {
		return err
	}
	if err := internal.WriteBigInts(w, sp.ps); err != nil {
		return err
	}
	if err := internal.WriteBigInts(w, sp.gs); err != nil {
		return err
	}

	return internal.WriteBigInts(w, sp.zInv)
}
