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

package sample

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/pkg/errors"
)

// UniformRange samples random values from the interval [min, max).
type UniformRange struct {
	min    *big.Int
	max    *big.Int
	random io.Reader
}

// NewUniformRange returns an instance of the UniformRange sampler.
// It accepts lower and upper bounds on the sampled values.
func NewUniformRange(min, max *big.Int) *UniformRange {
	return NewUniformRangeFrom(min, max, rand.Reader)
}

// NewUniformRangeFrom returns an instance of the UniformRange sampler
// reading its randomness from random.
func NewUniformRangeFrom(min, max *big.Int, random io.Reader) *UniformRange {
	return &UniformRange{
		min:    min,
		max:    max,
		random: random,
	}
}

// Sample samples random values from the interval [min, max).
func (u *UniformRange) Sample() (*big.Int, error) {
	width := new(big.Int).Sub(u.max, u.min)
	if width.Sign() <= 0 {
		return nil, errors.New("upper bound should be greater than lower bound")
	}
	r, err := rand.Int(u.random, width)
	if err != nil {
		return nil, errors.Wrap(err, "error while sampling")
	}

	return r.Add(r, u.min), nil
}

// NewUniform returns an instance of the UniformRange sampler over
// [0, max).
func NewUniform(max *big.Int) *UniformRange {
	return NewUniformRange(big.NewInt(0), max)
}

// NewUniformFrom returns a sampler over [0, max) reading its
// randomness from random.
func NewUniformFrom(max *big.Int, random io.Reader) *UniformRange {
	return NewUniformRangeFrom(big.NewInt(0), max, random)
}

// NewNonZero returns a sampler over [1, p), the non-zero elements
// of Z_p.
func NewNonZero(p *big.Int, random io.Reader) *UniformRange {
	return NewUniformRangeFrom(big.NewInt(1), p, random)
}
