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

package data

import (
	"math/big"
	"strings"

	"github.com/fentec-project/mife/internal"
	"github.com/fentec-project/mife/sample"
	"github.com/pkg/errors"
)

// Vector is a row of a branch matrix, a slice of *big.Int entries.
type Vector []*big.Int

// NewVector returns a Vector holding the given entries, which are not
// copied.
func NewVector(entries []*big.Int) Vector {
	return Vector(entries)
}

// NewRandomVector returns a vector of n entries drawn from sampler.
func NewRandomVector(n int, sampler sample.Sampler) (Vector, error) {
	v := make(Vector, n)
	for i := range v {
		x, err := sampler.Sample()
		if err != nil {
			return nil, errors.Wrap(err, "cannot sample vector entry")
		}
		v[i] = x
	}

	return v, nil
}

// NewRandomDetVector returns a vector of n entries in [0, max) taken
// from the salsa20 keystream determined by key. The same key always
// gives the same vector.
func NewRandomDetVector(n int, max *big.Int, key *[32]byte) (Vector, error) {
	if max.Cmp(big.NewInt(2)) < 0 {
		return nil, errors.New("upper bound on samples should be at least 2")
	}

	return NewRandomVector(n, sample.NewUniformDet(max, key))
}

// NewConstantVector returns a vector of n entries equal to c.
func NewConstantVector(n int, c *big.Int) Vector {
	v := make(Vector, n)
	for i := range v {
		v[i] = new(big.Int).Set(c)
	}

	return v
}

// Copy returns a deep copy of v.
func (v Vector) Copy() Vector {
	res := make(Vector, len(v))
	for i, x := range v {
		res[i] = new(big.Int).Set(x)
	}

	return res
}

// Mod returns a new vector holding the entries of v reduced to
// [0, p).
func (v Vector) Mod(p *big.Int) Vector {
	res := make(Vector, len(v))
	for i, x := range v {
		res[i] = new(big.Int).Mod(x, p)
	}

	return res
}

// CheckBound checks that every entry of v is a residue in [0, bound).
func (v Vector) CheckBound(bound *big.Int) error {
	for i, x := range v {
		if x == nil || x.Sign() < 0 || x.Cmp(bound) >= 0 {
			return errors.Errorf("entry %d of vector is not in [0, %v)", i, bound)
		}
	}

	return nil
}

// Dot returns the inner product of v and other over the integers.
func (v Vector) Dot(other Vector) (*big.Int, error) {
	if len(v) != len(other) {
		return nil, errors.Wrapf(internal.DimensionMismatch,
			"inner product of vectors of length %d and %d", len(v), len(other))
	}

	prod, term := new(big.Int), new(big.Int)
	for i, x := range v {
		prod.Add(prod, term.Mul(x, other[i]))
	}

	return prod, nil
}

// String formats v as [x_0 x_1 ...].
func (v Vector) String() string {
	strs := make([]string, len(v))
	for i, x := range v {
		strs[i] = x.String()
	}

	return "[" + strings.Join(strs, " ") + "]"
}
