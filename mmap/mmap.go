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

// Package mmap defines the graded encoding (multilinear map) contract
// consumed by the MIFE core, together with the index sets that tag every
// encoding.
//
// A graded encoding scheme encodes elements of Z_p at subsets of a
// universe {0, ..., Universe-1}. Encodings at the same set can be added,
// encodings at disjoint sets can be multiplied and the product lives at
// the union. Only encodings at the full universe can be tested for zero.
//
// Concrete schemes live in the subpackages clear, clt and bilinear.
package mmap

import (
	"io"
	"math/big"

	"github.com/fentec-project/mife/internal"
	"github.com/pkg/errors"
	"github.com/tuneinsight/lattigo/v6/utils/buffer"
)

// Config holds the parameters every graded encoding scheme is set up
// with.
type Config struct {
	// Lambda is the security parameter. Schemes derive the bit length
	// of their plaintext modulus from it.
	Lambda int
	// Kappa is the multilinearity degree, the largest number of
	// encodings that will be multiplied together.
	Kappa int
	// Universe is the size of the index-set universe.
	Universe int
}

// Encoding is an encoded ring element. Its representation is private
// to the scheme that produced it.
type Encoding interface {
	IndexSet() IndexSet
}

// PublicParams represents the public parameters of a graded encoding
// scheme. They allow arithmetic on encodings and zero-testing but not
// encoding itself.
type PublicParams interface {
	// Universe returns the size of the index-set universe.
	Universe() int
	// Kappa returns the multilinearity degree the scheme supports.
	Kappa() int
	// Modulus returns the order of the plaintext ring.
	Modulus() *big.Int
	// Add returns a+b. Both encodings must be at the same index set.
	Add(a, b Encoding) (Encoding, error)
	// Mul returns a*b. The index sets of a and b must be disjoint; the
	// product is at their union.
	Mul(a, b Encoding) (Encoding, error)
	// IsZero reports whether e encodes zero. e must be at the universe
	// set.
	IsZero(e Encoding) (bool, error)

	Write(w buffer.Writer) error
	WriteEncoding(w buffer.Writer, e Encoding) error
	ReadEncoding(r buffer.Reader) (Encoding, error)
}

// SecretParams represents the secret parameters of a graded encoding
// scheme, needed to produce fresh encodings.
type SecretParams interface {
	// Encode encodes m at index set s, consuming randomness from rand.
	Encode(m *big.Int, s IndexSet, rand io.Reader) (Encoding, error)
	Write(w buffer.Writer) error
}

// Scheme is a graded encoding scheme. It generates parameters and
// reads back parameters it previously serialized.
type Scheme interface {
	// Name identifies the scheme in serialized artifacts.
	Name() string
	Setup(cfg Config, rand io.Reader) (PublicParams, SecretParams, error)
	ReadPublic(r buffer.Reader) (PublicParams, error)
	// ReadSecret reads secret parameters and binds them to pub, which
	// must be the public parameters they were generated with.
	ReadSecret(r buffer.Reader, pub PublicParams) (SecretParams, error)
}

// CheckConfig validates the fields common to all schemes.
func CheckConfig(cfg Config) error {
	if cfg.Lambda < 8 || cfg.Kappa < 1 || cfg.Universe < 1 {
		return errors.Wrapf(internal.PrimitiveFailure,
			"invalid graded encoding configuration %+v", cfg)
	}

	return nil
}
