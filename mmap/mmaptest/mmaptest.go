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

// Package mmaptest checks that a graded encoding scheme honours the
// contract of package mmap.
package mmaptest

import (
	"bytes"
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/fentec-project/mife/internal"
	"github.com/fentec-project/mife/mmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run sets scheme up with cfg and checks encoding, the index-set rules
// of Add and Mul, zero-testing at the universe and serialization of
// parameters and encodings. cfg.Universe must be at most 4 and
// cfg.Kappa at least cfg.Universe.
func Run(t *testing.T, scheme mmap.Scheme, cfg mmap.Config) {
	pub, sec, err := scheme.Setup(cfg, rand.Reader)
	require.NoError(t, err)
	assert.Equal(t, cfg.Universe, pub.Universe())
	p := pub.Modulus()
	require.True(t, p.Sign() > 0)

	t.Run("ZeroTest", func(t *testing.T) {
		for _, vals := range [][]int64{{3, 5, 7, 11}, {3, 0, 7, 11}, {-2, 1, 1, 1}} {
			prod := encodeChain(t, pub, sec, vals[:cfg.Universe])
			isZero, err := pub.IsZero(prod)
			require.NoError(t, err)
			expected := false
			for _, v := range vals[:cfg.Universe] {
				expected = expected || v == 0
			}
			assert.Equal(t, expected, isZero, "zero test of %v", vals[:cfg.Universe])
		}
	})

	t.Run("Add", func(t *testing.T) {
		a := encodeChain(t, pub, sec, []int64{4, 1, 1, 1}[:cfg.Universe])
		b := encodeChain(t, pub, sec, []int64{-4, 1, 1, 1}[:cfg.Universe])
		sum, err := pub.Add(a, b)
		require.NoError(t, err)
		isZero, err := pub.IsZero(sum)
		require.NoError(t, err)
		assert.True(t, isZero, "4 + (-4) should be zero")

		c := encodeChain(t, pub, sec, []int64{5, 1, 1, 1}[:cfg.Universe])
		sum, err = pub.Add(a, c)
		require.NoError(t, err)
		isZero, err = pub.IsZero(sum)
		require.NoError(t, err)
		assert.False(t, isZero, "4 + 5 should not be zero")
	})

	t.Run("IndexSets", func(t *testing.T) {
		e0, err := sec.Encode(big.NewInt(1), mmap.NewIndexSet(0), rand.Reader)
		require.NoError(t, err)
		empty, err := sec.Encode(big.NewInt(2), mmap.IndexSet{}, rand.Reader)
		require.NoError(t, err)

		_, err = pub.Mul(e0, e0)
		assert.ErrorIs(t, err, internal.PrimitiveFailure, "overlapping sets should not multiply")
		_, err = pub.Add(e0, empty)
		assert.ErrorIs(t, err, internal.PrimitiveFailure, "different sets should not add")

		scaled, err := pub.Mul(empty, e0)
		require.NoError(t, err)
		assert.True(t, scaled.IndexSet().Equal(mmap.NewIndexSet(0)))

		if cfg.Universe > 1 {
			_, err = pub.IsZero(e0)
			assert.ErrorIs(t, err, internal.PrimitiveFailure, "only the universe can be zero-tested")
		}
		_, err = sec.Encode(big.NewInt(1), mmap.NewIndexSet(cfg.Universe), rand.Reader)
		assert.ErrorIs(t, err, internal.PrimitiveFailure)
	})

	t.Run("Serialization", func(t *testing.T) {
		var buf bytes.Buffer
		w := internal.NewWriter(&buf)
		require.NoError(t, pub.Write(w))
		require.NoError(t, sec.Write(w))
		enc := encodeChain(t, pub, sec, []int64{9, 1, 1, 1}[:cfg.Universe])
		require.NoError(t, pub.WriteEncoding(w, enc))
		require.NoError(t, w.Flush())

		r, err := internal.NewReader(&buf)
		require.NoError(t, err)
		pub2, err := scheme.ReadPublic(r)
		require.NoError(t, err)
		sec2, err := scheme.ReadSecret(r, pub2)
		require.NoError(t, err)
		enc2, err := pub2.ReadEncoding(r)
		require.NoError(t, err)
		assert.Equal(t, 0, pub2.Modulus().Cmp(p))
		assert.Equal(t, pub.Universe(), pub2.Universe())
		assert.Equal(t, cfg.Kappa, pub.Kappa())
		assert.Equal(t, pub.Kappa(), pub2.Kappa())
		assert.True(t, enc.IndexSet().Equal(enc2.IndexSet()))

		neg := encodeChain(t, pub2, sec2, []int64{-9, 1, 1, 1}[:cfg.Universe])
		sum, err := pub.Add(enc2, neg)
		require.NoError(t, err)
		isZero, err := pub.IsZero(sum)
		require.NoError(t, err)
		assert.True(t, isZero, "encodings from restored parameters should mix with stored ones")

		_, err = pub2.ReadEncoding(r)
		assert.Error(t, err, "reading past the end should fail")
	})
}

// encodeChain encodes vals[k] at {k} and multiplies all of them
// into an encoding at the universe.
func encodeChain(t *testing.T, pub mmap.PublicParams, sec mmap.SecretParams, vals []int64) mmap.Encoding {
	var prod mmap.Encoding
	for k, v := range vals {
		e, err := sec.Encode(big.NewInt(v), mmap.NewIndexSet(k), rand.Reader)
		require.NoError(t, err)
		if prod == nil {
			prod = e
			continue
		}
		prod, err = pub.Mul(prod, e)
		require.NoError(t, err)
	}

	return prod
}
