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

package bilinear_test

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/fentec-project/bn256"
	"github.com/fentec-project/mife/internal"
	"github.com/fentec-project/mife/mmap"
	"github.com/fentec-project/mife/mmap/bilinear"
	"github.com/fentec-project/mife/mmap/mmaptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBilinear(t *testing.T) {
	mmaptest.Run(t, bilinear.Scheme{}, mmap.Config{Lambda: 128, Kappa: 2, Universe: 2})
}

func TestBilinear_SingleGroup(t *testing.T) {
	mmaptest.Run(t, bilinear.Scheme{}, mmap.Config{Lambda: 128, Kappa: 1, Universe: 1})
}

func TestBilinear_Setup(t *testing.T) {
	_, _, err := bilinear.Scheme{}.Setup(mmap.Config{Lambda: 128, Kappa: 3, Universe: 3}, rand.Reader)
	assert.ErrorIs(t, err, internal.PrimitiveFailure)

	pub, sec, err := bilinear.Scheme{}.Setup(mmap.Config{Lambda: 128, Kappa: 2, Universe: 2}, rand.Reader)
	require.NoError(t, err)
	assert.Equal(t, bn256.Order, pub.Modulus())
	assert.Equal(t, 2, pub.Kappa())

	low, _, err := bilinear.Scheme{}.Setup(mmap.Config{Lambda: 128, Kappa: 1, Universe: 2}, rand.Reader)
	require.NoError(t, err)
	assert.Equal(t, 1, low.Kappa())
	assert.Equal(t, 2, low.Universe())

	a, err := sec.Encode(big.NewInt(6), mmap.NewIndexSet(1), rand.Reader)
	require.NoError(t, err)
	b, err := sec.Encode(big.NewInt(7), mmap.NewIndexSet(0), rand.Reader)
	require.NoError(t, err)
	c, err := sec.Encode(big.NewInt(42), mmap.NewIndexSet(0, 1), rand.Reader)
	require.NoError(t, err)

	// G2 times G1 pairs in the right order
	ab, err := pub.Mul(a, b)
	require.NoError(t, err)
	assert.Equal(t, c.(*bilinear.Encoding).GT.String(), ab.(*bilinear.Encoding).GT.String())
}
