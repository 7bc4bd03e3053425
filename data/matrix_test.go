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
	"testing"

	"github.com/fentec-project/mife/internal"
	"github.com/fentec-project/mife/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrix(t *testing.T) {
	rows, cols := 5, 3
	bound := new(big.Int).Exp(big.NewInt(2), big.NewInt(20), big.NewInt(0))
	sampler := sample.NewUniform(bound)

	x, err := NewRandomMatrix(rows, cols, sampler)
	if err != nil {
		t.Fatalf("Error during random generation: %v", err)
	}

	modulo := big.NewInt(int64(104729))
	mod := x.Mod(modulo)

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			assert.Equal(t, new(big.Int).Mod(x[i][j], modulo), mod[i][j], "coordinates should mod correctly")
		}
	}
	assert.NoError(t, mod.CheckBound(modulo))

	key := sample.DetKey([]byte("matrix"))
	d1, err := NewRandomDetMatrix(10, 10, big.NewInt(5), key)
	assert.NoError(t, err)
	d2, _ := NewRandomDetMatrix(10, 10, big.NewInt(5), key)
	assert.True(t, d1.Equal(d2), "same key should produce the same matrix")

	_, err = NewRandomDetMatrix(2, 2, big.NewInt(1), key)
	assert.Error(t, err)
}

func TestMatrix_Rows(t *testing.T) {
	m, _ := NewRandomMatrix(2, 3, sample.NewUniform(big.NewInt(10)))
	assert.Equal(t, 2, m.Rows())
}

func TestMatrix_Cols(t *testing.T) {
	m, _ := NewRandomMatrix(2, 3, sample.NewUniform(big.NewInt(10)))
	assert.Equal(t, 3, m.Cols())
}

func TestMatrix_Empty(t *testing.T) {
	var m Matrix
	assert.Equal(t, 0, m.Rows())
	assert.Equal(t, 0, m.Cols())
}

func TestMatrix_DimsMatch(t *testing.T) {
	sampler := sample.NewUniform(big.NewInt(10))
	m1, _ := NewRandomMatrix(2, 3, sampler)
	m2, _ := NewRandomMatrix(2, 3, sampler)
	m3, _ := NewRandomMatrix(2, 4, sampler)
	m4, _ := NewRandomMatrix(3, 3, sampler)

	assert.True(t, m1.DimsMatch(m2))
	assert.False(t, m1.DimsMatch(m3))
	assert.False(t, m1.DimsMatch(m4))
}

func TestMatrix_CheckDims(t *testing.T) {
	sampler := sample.NewUniform(big.NewInt(10))
	m, _ := NewRandomMatrix(2, 2, sampler)

	assert.True(t, m.CheckDims(2, 2))
	assert.False(t, m.CheckDims(2, 3))
	assert.False(t, m.CheckDims(3, 2))
	assert.False(t, m.CheckDims(3, 3))
}

func TestMatrix_MulMod(t *testing.T) {
	p := big.NewInt(7)
	m1 := Matrix{
		Vector{big.NewInt(1), big.NewInt(2)},
		Vector{big.NewInt(3), big.NewInt(4)},
	}
	m2 := Matrix{
		Vector{big.NewInt(5), big.NewInt(6)},
		Vector{big.NewInt(0), big.NewInt(1)},
	}
	// [[5, 8], [15, 22]] mod 7
	expected := Matrix{
		Vector{big.NewInt(5), big.NewInt(1)},
		Vector{big.NewInt(1), big.NewInt(1)},
	}

	prod, err := m1.MulMod(m2, p)
	require.NoError(t, err)
	assert.True(t, prod.Equal(expected), "product should be reduced modulo p")

	rect := Matrix{Vector{big.NewInt(1), big.NewInt(2), big.NewInt(3)}}
	_, err = m1.MulMod(rect, p)
	assert.ErrorIs(t, err, internal.DimensionMismatch)

	row, err := rect.MulMod(Matrix{Vector{big.NewInt(1)}, Vector{big.NewInt(1)}, Vector{big.NewInt(1)}}, p)
	require.NoError(t, err)
	assert.True(t, row.CheckDims(1, 1))
	assert.Equal(t, big.NewInt(6), row[0][0])
}

func TestMatrix_MulScalarMod(t *testing.T) {
	p := big.NewInt(5)
	m := NewConstantMatrix(2, 3, big.NewInt(3))
	m.MulScalarMod(big.NewInt(4), p)

	assert.True(t, m.Equal(NewConstantMatrix(2, 3, big.NewInt(2))))
}

func TestMatrix_DeterminantMod(t *testing.T) {
	p := big.NewInt(11)
	m := Matrix{
		Vector{big.NewInt(2), big.NewInt(0), big.NewInt(1)},
		Vector{big.NewInt(1), big.NewInt(3), big.NewInt(2)},
		Vector{big.NewInt(1), big.NewInt(1), big.NewInt(1)},
	}
	// 2*(3-2) - 0 + 1*(1-3) = 0
	det, err := m.DeterminantMod(p)
	require.NoError(t, err)
	assert.Equal(t, 0, det.Sign())

	m[2][2] = big.NewInt(4)
	// 2*(12-2) + 1*(1-3) = 18 = 7 mod 11
	det, err = m.DeterminantMod(p)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(7), det)

	_, err = Matrix{Vector{big.NewInt(1), big.NewInt(2)}}.DeterminantMod(p)
	assert.ErrorIs(t, err, internal.DimensionMismatch)
}

func TestMatrix_InverseMod(t *testing.T) {
	p := big.NewInt(104729)
	sampler := sample.NewUniform(p)

	for n := 1; n <= 5; n++ {
		m, err := NewRandomMatrix(n, n, sampler)
		require.NoError(t, err)

		inv, err := m.InverseMod(p)
		if err != nil {
			// a singular draw is possible but unlikely
			assert.ErrorIs(t, err, internal.NotInvertible)
			continue
		}
		assert.NoError(t, inv.CheckBound(p))

		left, err := inv.MulMod(m, p)
		require.NoError(t, err)
		right, err := m.MulMod(inv, p)
		require.NoError(t, err)
		assert.True(t, left.IsIdentity(), "inverse times matrix should be identity")
		assert.True(t, right.IsIdentity(), "matrix times inverse should be identity")
	}

	singular := Matrix{
		Vector{big.NewInt(1), big.NewInt(2)},
		Vector{big.NewInt(2), big.NewInt(4)},
	}
	_, err := singular.InverseMod(p)
	assert.ErrorIs(t, err, internal.NotInvertible)
}

func TestNewRandomInvertibleMatrix(t *testing.T) {
	// a tiny modulus makes singular draws frequent
	p := big.NewInt(2)
	r, rInv, err := NewRandomInvertibleMatrix(3, p, sample.NewUniform(p))
	require.NoError(t, err)

	prod, err := r.MulMod(rInv, p)
	require.NoError(t, err)
	assert.True(t, prod.IsIdentity())

	_, _, err = NewRandomInvertibleMatrix(0, p, sample.NewUniform(p))
	assert.ErrorIs(t, err, internal.DimensionMismatch)
}

func TestMatrix_CopyAndTranspose(t *testing.T) {
	m := Matrix{
		Vector{big.NewInt(1), big.NewInt(2), big.NewInt(3)},
		Vector{big.NewInt(4), big.NewInt(5), big.NewInt(6)},
	}
	c := m.Copy()
	c[0][0].SetInt64(9)
	assert.Equal(t, big.NewInt(1), m[0][0], "copy should not share entries")

	mT := m.Transpose()
	assert.True(t, mT.CheckDims(3, 2))
	assert.Equal(t, big.NewInt(6), mT[2][1])

	minor, err := m.Minor(0, 1)
	require.NoError(t, err)
	assert.True(t, minor.Equal(Matrix{Vector{big.NewInt(4), big.NewInt(6)}}))
}
