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

package sample_test

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/fentec-project/mife/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniformRange(t *testing.T) {
	min := big.NewInt(-10)
	max := big.NewInt(10)
	sampler := sample.NewUniformRange(min, max)

	for i := 0; i < 200; i++ {
		v, err := sampler.Sample()
		require.NoError(t, err)
		assert.True(t, v.Cmp(min) >= 0 && v.Cmp(max) < 0, "sample out of bounds")
	}

	_, err := sample.NewUniformRange(max, min).Sample()
	assert.Error(t, err)
}

func TestNonZero(t *testing.T) {
	p := big.NewInt(3)
	random, err := sample.NewSeededSource([]byte("non zero"))
	require.NoError(t, err)
	sampler := sample.NewNonZero(p, random)

	for i := 0; i < 200; i++ {
		v, err := sampler.Sample()
		require.NoError(t, err)
		assert.NotEqual(t, 0, v.Sign(), "non-zero sampler returned zero")
		assert.True(t, v.Cmp(p) < 0, "sample out of bounds")
	}
}

func TestSeededSource(t *testing.T) {
	r1, err := sample.NewSeededSource([]byte("seed"))
	require.NoError(t, err)
	r2, err := sample.NewSeededSource([]byte("seed"))
	require.NoError(t, err)
	r3, err := sample.NewSeededSource([]byte("another seed"))
	require.NoError(t, err)

	b1 := make([]byte, 64)
	b2 := make([]byte, 64)
	b3 := make([]byte, 64)
	_, _ = r1.Read(b1)
	_, _ = r2.Read(b2)
	_, _ = r3.Read(b3)

	assert.Equal(t, b1, b2)
	assert.False(t, bytes.Equal(b1, b3))

	s1 := sample.NewUniformFrom(big.NewInt(1<<40), r1)
	s2 := sample.NewUniformFrom(big.NewInt(1<<40), r2)
	v1, _ := s1.Sample()
	v2, _ := s2.Sample()
	assert.Equal(t, v1, v2)
}
