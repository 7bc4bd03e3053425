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

// Package clear implements an insecure graded encoding scheme that keeps
// plaintexts in the clear and only tracks their index sets. It follows
// the exact semantics of a real scheme and serves for testing and for
// measuring the cost of the MIFE layer itself.
package clear

import (
	"io"
	"math/big"

	"github.com/fentec-project/mife/internal"
	"github.com/fentec-project/mife/internal/keygen"
	"github.com/fentec-project/mife/mmap"
	"github.com/pkg/errors"
	"github.com/tuneinsight/lattigo/v6/utils/buffer"
)

// Name identifies the scheme in serialized artifacts.
const Name = "clear"

// Scheme is the plaintext graded encoding scheme.
type Scheme struct{}

// Encoding holds a plaintext value modulo P together with its index
// set.
type Encoding struct {
	Value *big.Int
	Set   mmap.IndexSet
}

// IndexSet returns the index set of e.
func (e *Encoding) IndexSet() mmap.IndexSet {
	return e.Set
}

// PublicParams of the clear scheme consist of the plaintext modulus and
// the shape of the index-set universe.
type PublicParams struct {
	P        *big.Int
	Degree   int
	Elements int
}

// SecretParams of the clear scheme are only a reference to the public
// ones.
type SecretParams struct {
	pub *PublicParams
}

// Name returns the name of the scheme.
func (Scheme) Name() string {
	return Name
}

// Setup samples a random prime of cfg.Lambda bits as the plaintext
// modulus.
func (Scheme) Setup(cfg mmap.Config, rand io.Reader) (mmap.PublicParams, mmap.SecretParams, error) {
	if err := mmap.CheckConfig(cfg); err != nil {
		return nil, nil, err
	}
	p, err := keygen.NewPrime(cfg.Lambda, rand)
	if err != nil {
		return nil, nil, errors.Wrap(internal.PrimitiveFailure, err.Error())
	}
	pub := &PublicParams{P: p, Degree: cfg.Kappa, Elements: cfg.Universe}

	return pub, &SecretParams{pub: pub}, nil
}

// ReadPublic reads public parameters written by PublicParams.Write.
func (Scheme) ReadPublic(r buffer.Reader) (mmap.PublicParams, error) {
	p, err := internal.ReadBigInt(r)
	if err != nil {
		return nil, err
	}
	ints, err := internal.ReadInts(r)
	if err != nil {
		return nil, err
	}
	if len(ints) != 2 || p.Sign() <= 0 || ints[0] < 1 || ints[1] < 1 {
		return nil, errors.Wrap(internal.Serialization, "invalid clear public parameters")
	}

	return &PublicParams{P: p, Degree: ints[0], Elements: ints[1]}, nil
}

// ReadSecret binds secret parameters to pub. The clear scheme keeps no
// secret state, so nothing besides a marker is read.
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

// Modulus returns the plaintext modulus.
func (pp *PublicParams) Modulus() *big.Int {
	return pp.P
}

func (pp *PublicParams) cast(e mmap.Encoding) (*Encoding, error) {
	enc, ok := e.(*Encoding)
	if !ok || enc == nil || enc.Value == nil {
		return nil, errors.Wrap(internal.PrimitiveFailure, "not a clear encoding")
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

	return &Encoding{Value: sum.Mod(sum, pp.P), Set: x.Set}, nil
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

	return &Encoding{Value: prod.Mod(prod, pp.P), Set: x.Set.Union(y.Set)}, nil
}

// IsZero reports whether e encodes zero.
func (pp *PublicParams) IsZero(e mmap.Encoding) (bool, error) {
	x, err := pp.cast(e)
	if err != nil {
		return false, err
	}
	if !x.Set.IsUniverse(pp.Elements) {
		return false, errors.Wrapf(internal.PrimitiveFailure,
			"cannot zero-test an encoding at %v", x.Set)
	}

	return x.Value.Sign() == 0, nil
}

// Write writes the public parameters to w.
func (pp *PublicParams) Write(w buffer.Writer) error {
	if err := internal.WriteBigInt(w, pp.P); err != nil {
		return err
	}

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
	if v.Sign() < 0 || v.Cmp(pp.P) >= 0 {
		return nil, errors.Wrap(internal.PrimitiveFailure, "clear encoding out of range")
	}

	return &Encoding{Value: v, Set: s}, nil
}

// Encode encodes m at index set s. No randomness is consumed.
func (sp *SecretParams) Encode(m *big.Int, s mmap.IndexSet, rand io.Reader) (mmap.Encoding, error) {
	if !s.Within(sp.pub.Elements) {
		return nil, errors.Wrapf(internal.PrimitiveFailure,
			"index set %v outside universe of size %d", s, sp.pub.Elements)
	}

	return &Encoding{Value: new(big.Int).Mod(m, sp.pub.P), Set: s}, nil
}

// Write writes the secret parameters to w.
func (sp *SecretParams) Write(w buffer.Writer) error {
	return internal.WriteString(w, Name)
}
