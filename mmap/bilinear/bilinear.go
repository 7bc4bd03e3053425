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

// Package bilinear implements a degree-two graded encoding scheme from
// the BN256 pairing. The universe has at most two elements: an element
// m is encoded as the scalar m at the empty set, as g1^m at {0}, as
// g2^m at {1} and as e(g1, g2)^m at {0, 1}. Multiplication of {0} by
// {1} is the pairing.
//
// Group elements are encoded with public generators, so the scheme
// offers no secrecy beyond the hardness of discrete logarithms. It is
// the natural backend for functionalities of multilinearity two.
package bilinear

import (
	"bytes"
	"io"
	"math/big"

	"github.com/fentec-project/bn256"
	"github.com/fentec-project/mife/internal"
	"github.com/fentec-project/mife/mmap"
	"github.com/pkg/errors"
	"github.com/tuneinsight/lattigo/v6/utils/buffer"
)

// Name identifies the scheme in serialized artifacts.
const Name = "bilinear"

// level enumerates the groups an encoding can live in.
type level uint8

const (
	levelScalar level = iota
	levelG1
	levelG2
	levelGT
)

// Scheme is the BN256 graded encoding scheme.
type Scheme struct{}

// Encoding is an element of Z_q, G1, G2 or GT, depending on its index
// set.
type Encoding struct {
	Set    mmap.IndexSet
	Scalar *big.Int
	G1     *bn256.G1
	G2     *bn256.G2
	GT     *bn256.GT
}

// IndexSet returns the index set of e.
func (e *Encoding) IndexSet() mmap.IndexSet {
	return e.Set
}

func (e *Encoding) level() level {
	switch {
	case e.Set.Has(0) && e.Set.Has(1):
		return levelGT
	case e.Set.Has(0):
		return levelG1
	case e.Set.Has(1):
		return levelG2
	}

	return levelScalar
}

// PublicParams of the bilinear scheme only fix the multilinearity
// degree and the universe size.
type PublicParams struct {
	Degree   int
	Elements int
}

// SecretParams of the bilinear scheme are a reference to the public
// ones.
type SecretParams struct {
	pub *PublicParams
}

// Name returns the name of the scheme.
func (Scheme) Name() string {
	return Name
}

// Setup accepts universes of one or two elements. The security
// parameter is fixed by the curve.
func (Scheme) Setup(cfg mmap.Config, rand io.Reader) (mmap.PublicParams, mmap.SecretParams, error) {
	if err := mmap.CheckConfig(cfg); err != nil {
		return nil, nil, err
	}
	if cfg.Universe > 2 || cfg.Kappa > 2 {
		return nil, nil, errors.Wrapf(internal.PrimitiveFailure,
			"bilinear maps support degree at most 2, got universe %d and kappa %d",
			cfg.Universe, cfg.Kappa)
	}
	pub := &PublicParams{Degree: cfg.Kappa, Elements: cfg.Universe}

	return pub, &SecretParams{pub: pub}, nil
}

// ReadPublic reads public parameters written by PublicParams.Write.
func (Scheme) ReadPublic(r buffer.Reader) (mmap.PublicParams, error) {
	ints, err := internal.ReadInts(r)
	if err != nil {
		return nil, err
	}
	if len(ints) != 2 || ints[0] < 1 || ints[0] > 2 || ints[1] < 1 || ints[1] > 2 {
		return nil, errors.Wrapf(internal.Serialization, "invalid bilinear degree and universe %v", ints)
	}

	return &PublicParams{Degree: ints[0], Elements: ints[1]}, nil
}

// ReadSecret binds secret parameters to pub.
func (Scheme) ReadSecret(r buffer.Reader, pub mmap.PublicParams) (mmap.SecretParams, error) {
	pp, ok := pub.(*PublicParams)
	if !ok {
		return nil, errors.Wrap(internal.PrimitiveFailure, "public parameters of another scheme")
	}
	name, err := internal.ReadString(r)
	if err != nil {
		return nil, err
	}
	if name != Name {
		return nil, errors.Wrapf(internal.Serialization, "unexpected secret parameters %q", name)
	}

	return &SecretParams{pub: pp}, nil
}

// Universe returns the size of the index-set universe.
func (pp *PublicParams) Universe() int {
	return pp.Elements
}

// Kappa returns the multilinearity degree.
func (pp *PublicParams) Kappa() int {
	return pp.Degree
}

// Modulus returns the order of the BN256 groups.
func (pp *PublicParams) Modulus() *big.Int {
	return bn256.Order
}

func (pp *PublicParams) cast(e mmap.Encoding) (*Encoding, error) {
	enc, ok := e.(*Encoding)
	if !ok || enc == nil {
		return nil, errors.Wrap(internal.PrimitiveFailure, "not a bilinear encoding")
	}
	var missing bool
	switch enc.level() {
	case levelScalar:
		missing = enc.Scalar == nil
	case levelG1:
		missing = enc.G1 == nil
	case levelG2:
		missing = enc.G2 == nil
	case levelGT:
		missing = enc.GT == nil
	}
	if missing {
		return nil, errors.Wrapf(internal.PrimitiveFailure, "empty bilinear encoding at %v", enc.Set)
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

	res := &Encoding{Set: x.Set}
	switch x.level() {
	case levelScalar:
		res.Scalar = new(big.Int).Add(x.Scalar, y.Scalar)
		res.Scalar.Mod(res.Scalar, bn256.Order)
	case levelG1:
		res.G1 = new(bn256.G1).Add(x.G1, y.G1)
	case levelG2:
		res.G2 = new(bn256.G2).Add(x.G2, y.G2)
	case levelGT:
		res.GT = new(bn256.GT).Add(x.GT, y.GT)
	}

	return res, nil
}

// Mul returns a*b. A scalar multiplies a group element, G1 and G2
// elements are paired.
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
	if x.level() > y.level() {
		x, y = y, x
	}

	res := &Encoding{Set: x.Set.Union(y.Set)}
	switch {
	case x.level() == levelScalar && y.level() == levelScalar:
		res.Scalar = new(big.Int).Mul(x.Scalar, y.Scalar)
		res.Scalar.Mod(res.Scalar, bn256.Order)
	case x.level() == levelScalar && y.level() == levelG1:
		res.G1 = new(bn256.G1).ScalarMult(y.G1, x.Scalar)
	case x.level() == levelScalar && y.level() == levelG2:
		res.G2 = new(bn256.G2).ScalarMult(y.G2, x.Scalar)
	case x.level() == levelScalar && y.level() == levelGT:
		res.GT = new(bn256.GT).ScalarMult(y.GT, x.Scalar)
	default:
		res.GT = bn256.Pair(x.G1, y.G2)
	}

	return res, nil
}

// IsZero reports whether e is the identity of its group.
func (pp *PublicParams) IsZero(e mmap.Encoding) (bool, error) {
	x, err := pp.cast(e)
	if err != nil {
		return false, err
	}
	if !x.Set.IsUniverse(pp.Elements) {
		return false, errors.Wrapf(internal.PrimitiveFailure,
			"cannot zero-test an encoding at %v", x.Set)
	}

	zero := big.NewInt(0)
	switch x.level() {
	case levelG1:
		return bytes.Equal(x.G1.Marshal(), new(bn256.G1).ScalarBaseMult(zero).Marshal()), nil
	case levelGT:
		return bytes.Equal(x.GT.Marshal(), new(bn256.GT).ScalarBaseMult(zero).Marshal()), nil
	}

	return false, errors.Wrapf(internal.PrimitiveFailure, "unexpected universe %v", x.Set)
}

// Write writes the public parameters to w.
func (pp *PublicParams) Write(w buffer.Writer) error {
	return internal.WriteInts(w, []int{pp.Degree, pp.Elements})
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

	switch x.level() {
	case levelScalar:
		return internal.WriteBigInt(w, x.Scalar)
	case levelG1:
		return internal.WriteBytes(w, x.G1.Marshal())
	case levelG2:
		return internal.WriteBytes(w, x.G2.Marshal())
	default:
		return internal.WriteBytes(w, x.GT.Marshal())
	}
}

// ReadEncoding reads an encoding written by WriteEncoding.
func (pp *PublicParams) ReadEncoding(r buffer.Reader) (mmap.Encoding, error) {
	s, err := mmap.ReadIndexSet(r, pp.Elements)
	if err != nil {
		return nil, err
	}
	res := &Encoding{Set: s}
	if res.level() == levelScalar {
		if res.Scalar, err = internal.ReadBigInt(r); err != nil {
			return nil, err
		}
		if res.Scalar.Sign() < 0 || res.Scalar.Cmp(bn256.Order) >= 0 {
			return nil, errors.Wrap(internal.PrimitiveFailure, "scalar encoding out of range")
		}
		return res, nil
	}

	b, err := internal.ReadBytes(r)
	if err != nil {
		return nil, err
	}
	switch res.level() {
	case levelG1:
		res.G1 = new(bn256.G1)
		_, err = res.G1.Unmarshal(b)
	case levelG2:
		res.G2 = new(bn256.G2)
		_, err = res.G2.Unmarshal(b)
	default:
		res.GT = new(bn256.GT)
		_, err = res.GT.Unmarshal(b)
	}
	if err != nil {
		return nil, errors.Wrap(internal.PrimitiveFailure, err.Error())
	}

	return res, nil
}

// Encode encodes m at index set s.
func (sp *SecretParams) Encode(m *big.Int, s mmap.IndexSet, rand io.Reader) (mmap.Encoding, error) {
	if !s.Within(sp.pub.Elements) {
		return nil, errors.Wrapf(internal.PrimitiveFailure,
			"index set %v outside universe of size %d", s, sp.pub.Elements)
	}
	k := new(big.Int).Mod(m, bn256.Order)

	res := &Encoding{Set: s}
	switch res.level() {
	case levelScalar:
		res.Scalar = k
	case levelG1:
		res.G1 = new(bn256.G1).ScalarBaseMult(k)
	case levelG2:
		res.G2 = new(bn256.G2).ScalarBaseMult(k)
	case levelGT:
		res.GT = new(bn256.GT).ScalarBaseMult(k)
	}

	return res, nil
}

// Write writes the secret parameters to w.
func (sp *SecretParams) Write(w buffer.Writer) error {
	return internal.WriteString(w, Name)
}
