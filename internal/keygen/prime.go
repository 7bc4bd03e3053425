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

package keygen

import (
	"fmt"
	"io"
	"math/big"

	"github.com/pkg/errors"
)

// minPrimeBits is the smallest prime size accepted by the graded
// encoding backends.
const minPrimeBits = 8

// NewPrime returns a random prime of exactly bits bits. Candidates are
// read from random only, so a deterministic reader always yields the
// same prime. The two most significant bits are set, thus the product
// of two such primes has exactly 2*bits bits.
func NewPrime(bits int, random io.Reader) (*big.Int, error) {
	if bits < minPrimeBits {
		return nil, fmt.Errorf("prime size should be at least %d bits", minPrimeBits)
	}

	b := make([]byte, (bits+7)/8)
	top := uint(bits % 8)
	if top == 0 {
		top = 8
	}
	p := new(big.Int)
	for {
		if _, err := io.ReadFull(random, b); err != nil {
			return nil, errors.Wrap(err, "failed to generate prime")
		}
		b[0] &= uint8(int(1<<top) - 1)
		if top >= 2 {
			b[0] |= 3 << (top - 2)
		} else {
			b[0] |= 1
			b[1] |= 0x80
		}
		b[len(b)-1] |= 1

		p.SetBytes(b)
		if p.ProbablyPrime(20) {
			return p, nil
		}
	}
}

// NewDistinctPrimes returns n pairwise distinct primes of the given
// size. Primes present in exclude are skipped as well.
func NewDistinctPrimes(n, bits int, random io.Reader, exclude ...*big.Int) ([]*big.Int, error) {
	primes := make([]*big.Int, 0, n)
	seen := make(map[string]bool, n+len(exclude))
	for _, e := range exclude {
		seen[e.String()] = true
	}

	for len(primes) < n {
		p, err := NewPrime(bits, random)
		if err != nil {
			return nil, err
		}
		if seen[p.String()] {
			continue
		}
		seen[p.String()] = true
		primes = append(primes, p)
	}

	return primes, nil
}
