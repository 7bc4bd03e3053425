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

package keygen_test

import (
	"crypto/rand"
	"testing"

	"github.com/fentec-project/mife/internal/keygen"
	"github.com/fentec-project/mife/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrime(t *testing.T) {
	for _, bits := range []int{8, 9, 16, 33, 64} {
		p, err := keygen.NewPrime(bits, rand.Reader)
		require.NoError(t, err)
		assert.Equal(t, bits, p.BitLen())
		assert.True(t, p.ProbablyPrime(20), "%v is not prime", p)
	}

	_, err := keygen.NewPrime(7, rand.Reader)
	assert.Error(t, err)
}

func TestNewPrime_Seeded(t *testing.T) {
	for i := 0; i < 20; i++ {
		seed := []byte{byte(i), 'p'}
		r1, err := sample.NewSeededSource(seed)
		require.NoError(t, err)
		r2, err := sample.NewSeededSource(seed)
		require.NoError(t, err)

		p1, err := keygen.NewPrime(32, r1)
		require.NoError(t, err)
		p2, err := keygen.NewPrime(32, r2)
		require.NoError(t, err)
		assert.Equal(t, 0, p1.Cmp(p2), "seed %d", i)
	}
}

func TestNewDistinctPrimes(t *testing.T) {
	exclude, err := keygen.NewPrime(8, rand.Reader)
	require.NoError(t, err)

	primes, err := keygen.NewDistinctPrimes(5, 8, rand.Reader, exclude)
	require.NoError(t, err)
	require.Len(t, primes, 5)

	seen := map[string]bool{exclude.String(): true}
	for _, p := range primes {
		assert.False(t, seen[p.String()], "%v repeated", p)
		seen[p.String()] = true
	}
}
