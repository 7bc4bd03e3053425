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

package mife_test

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/fentec-project/mife/mbp"
	"github.com/fentec-project/mife/mife"
	"github.com/fentec-project/mife/mmap"
	"github.com/fentec-project/mife/mmap/bilinear"
	"github.com/fentec-project/mife/mmap/clear"
	"github.com/fentec-project/mife/mmap/clt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encryptAll sets up the scheme and encrypts msgs[i] as input i.
func encryptAll(t *testing.T, prog mbp.Program, cfg mife.Config, scheme mmap.Scheme, msgs ...int64) (*mife.Params, *mife.SecretKey, []*mife.Ciphertext) {
	pp, sk, err := mife.Setup(prog, cfg, scheme, rand.Reader)
	if err != nil {
		t.Fatalf("Error during setup: %v", err)
	}

	enc := mife.NewEncryptor(pp, sk, rand.Reader)
	cts := make([]*mife.Ciphertext, len(msgs))
	for i, msg := range msgs {
		cts[i], err = enc.Encrypt(i, big.NewInt(msg))
		if err != nil {
			t.Fatalf("Error during encryption of input %d: %v", i, err)
		}
	}

	return pp, sk, cts
}

func evaluate(t *testing.T, pp *mife.Params, cts []*mife.Ciphertext) int {
	res, err := mife.Evaluate(pp, cts)
	if err != nil {
		t.Fatalf("Error during evaluation: %v", err)
	}

	return res
}

func TestEquality(t *testing.T) {
	schemes := []struct {
		name   string
		scheme mmap.Scheme
	}{
		{"clear", clear.Scheme{}},
		{"clt", clt.Scheme{}},
	}
	flags := []mife.Flags{mife.Default, mife.NoKilian, mife.NoRandomizers, mife.NoKilian | mife.NoRandomizers}

	for _, s := range schemes {
		for _, f := range flags {
			t.Run(s.name+"/"+f.String(), func(t *testing.T) {
				cfg := mife.Config{NumInputs: 2, L: 4, Lambda: 16, Flags: f}

				pp, _, cts := encryptAll(t, mbp.Equality{}, cfg, s.scheme, 5, 5)
				assert.Equal(t, 1, evaluate(t, pp, cts), "5 and 5 should be equal")

				pp, _, cts = encryptAll(t, mbp.Equality{}, cfg, s.scheme, 5, 6)
				assert.Equal(t, 0, evaluate(t, pp, cts), "5 and 6 should not be equal")
			})
		}
	}
}

func TestEquality_Bilinear(t *testing.T) {
	for _, f := range []mife.Flags{mife.Default, mife.SimplePartitions} {
		cfg := mife.Config{NumInputs: 2, L: 2, Lambda: 128, Flags: f}

		pp, _, cts := encryptAll(t, mbp.Equality{}, cfg, bilinear.Scheme{}, 3, 3)
		assert.Equal(t, 1, evaluate(t, pp, cts), "flags %v", f)

		pp, _, cts = encryptAll(t, mbp.Equality{}, cfg, bilinear.Scheme{}, 3, 1)
		assert.Equal(t, 0, evaluate(t, pp, cts), "flags %v", f)
	}
}

func TestComparison(t *testing.T) {
	cfg := mife.Config{NumInputs: 2, L: 3, Lambda: 32}
	pairs := [][2]int64{{1, 6}, {4, 4}, {7, 2}, {0, 0}, {3, 4}}

	for _, pair := range pairs {
		pp, _, cts := encryptAll(t, mbp.Comparison{}, cfg, clear.Scheme{}, pair[0], pair[1])
		expected := 0
		switch {
		case pair[0] < pair[1]:
			expected = -1
		case pair[0] > pair[1]:
			expected = 1
		}
		assert.Equal(t, expected, evaluate(t, pp, cts), "comparison of %d and %d", pair[0], pair[1])
	}
}

func TestComparison_CLT(t *testing.T) {
	cfg := mife.Config{NumInputs: 2, L: 2, Lambda: 16}
	for _, pair := range [][2]int64{{1, 2}, {3, 3}, {2, 0}} {
		pp, _, cts := encryptAll(t, mbp.Comparison{}, cfg, clt.Scheme{}, pair[0], pair[1])
		expected := 0
		switch {
		case pair[0] < pair[1]:
			expected = -1
		case pair[0] > pair[1]:
			expected = 1
		}
		assert.Equal(t, expected, evaluate(t, pp, cts), "comparison of %d and %d", pair[0], pair[1])
	}
}

func TestEvaluateConcurrent(t *testing.T) {
	cfg := mife.Config{NumInputs: 2, L: 3, Lambda: 32}
	for _, pair := range [][2]int64{{2, 5}, {5, 5}, {6, 1}} {
		pp, _, cts := encryptAll(t, mbp.Comparison{}, cfg, clear.Scheme{}, pair[0], pair[1])
		seq := evaluate(t, pp, cts)
		for _, workers := range []int{0, 1, 4} {
			res, err := mife.EvaluateConcurrent(pp, cts, workers)
			require.NoError(t, err)
			assert.Equal(t, seq, res, "%d workers on %v", workers, pair)
		}
	}

	pp, _, cts := encryptAll(t, mbp.Equality{}, mife.Config{NumInputs: 2, L: 4, Lambda: 16}, clt.Scheme{}, 9, 9)
	res, err := mife.EvaluateConcurrent(pp, cts, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, res)
}

func TestEvaluate_MalformedCiphertexts(t *testing.T) {
	cfg := mife.Config{NumInputs: 2, L: 2, Lambda: 32}
	pp, _, cts := encryptAll(t, mbp.Equality{}, cfg, clear.Scheme{}, 1, 1)

	_, err := mife.Evaluate(pp, cts[:1])
	assert.ErrorIs(t, err, mife.ErrMalformedCiphertext, "missing input")

	_, err = mife.Evaluate(pp, []*mife.Ciphertext{cts[0], nil})
	assert.ErrorIs(t, err, mife.ErrMalformedCiphertext, "nil ciphertext")

	_, err = mife.Evaluate(pp, []*mife.Ciphertext{cts[0], cts[0]})
	assert.ErrorIs(t, err, mife.ErrMalformedCiphertext, "duplicate input")

	// ciphertexts may come in any order
	res, err := mife.Evaluate(pp, []*mife.Ciphertext{cts[1], cts[0]})
	require.NoError(t, err)
	assert.Equal(t, 1, res)

	short := &mife.Ciphertext{Input: 1, Branches: cts[1].Branches[:2]}
	_, err = mife.Evaluate(pp, []*mife.Ciphertext{cts[0], short})
	assert.ErrorIs(t, err, mife.ErrMalformedCiphertext, "missing branches")

	// a branch encoded at the index sets of another digit
	cmpPP, _, cmpCts := encryptAll(t, mbp.Comparison{}, cfg, clear.Scheme{}, 1, 2)
	swapped := &mife.Ciphertext{Input: 0, Branches: append([][]*mife.EncodedMatrix{}, cmpCts[0].Branches...)}
	swapped.Branches[0], swapped.Branches[1] = swapped.Branches[1], swapped.Branches[0]
	_, err = mife.EvaluateConcurrent(cmpPP, []*mife.Ciphertext{swapped, cmpCts[1]}, 2)
	assert.ErrorIs(t, err, mife.ErrMalformedCiphertext, "branch at wrong index sets")

	// ciphertexts of another setup do not match the index sets either
	_, err = mife.Evaluate(cmpPP, cts)
	assert.ErrorIs(t, err, mife.ErrMalformedCiphertext)
}
