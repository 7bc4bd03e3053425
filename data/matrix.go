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
	"fmt"
	"math/big"

	"github.com/fentec-project/mife/internal"
	"github.com/fentec-project/mife/sample"
	"github.com/pkg/errors"
)

// Matrix wraps a slice of Vector elements. It represents a row-major.
// order matrix.
//
// The j-th element from the i-th vector of the matrix can be obtained
// as m[i][j].
type Matrix []Vector

// NewMatrix accepts a slice of Vector elements and
// returns a new Matrix instance.
// It returns error if not all the vectors have the same number of elements.
func NewMatrix(vectors []Vector) (Matrix, error) {
	l := -1
	newVectors := make([]Vector, len(vectors))

	if len(vectors) > 0 {
		l = len(vectors[0])
	}
	for i, v := range vectors {
		if len(v) != l {
			return nil, fmt.Errorf("all vectors should be of the same length")
		}
		newVectors[i] = NewVector(v)
	}

	return Matrix(newVectors), nil
}

// NewRandomMatrix returns a new Matrix instance
// with random elements sampled by the provided sample.Sampler.
// Returns an error in case of sampling failure.
func NewRandomMatrix(rows, cols int, sampler sample.Sampler) (Matrix, error) {
	mat := make([]Vector, rows)

	for i := 0; i < rows; i++ {
		vec, err := NewRandomVector(cols, sampler)
		if err != nil {
			return nil, err
		}

		mat[i] = vec
	}

	return NewMatrix(mat)
}

// NewRandomDetMatrix returns a new Matrix instance
// with random elements sampled by a pseudo-random
// number generator. Elements are sampled from [0, max) and key
// determines the pseudo-random generator.
func NewRandomDetMatrix(rows, cols int, max *big.Int, key *[32]byte) (Matrix, error) {
	l := rows * cols
	v, err := NewRandomDetVector(l, max, key)
	if err != nil {
		return nil, err
	}

	mat := make([]Vector, rows)
	for i := 0; i < rows; i++ {
		mat[i] = NewVector(v[(i * cols):((i + 1) * cols)])
	}

	return NewMatrix(mat)
}

// NewRandomInvertibleMatrix samples an n x n matrix with entries from
// sampler until it is invertible modulo p, and returns it together
// with its inverse. Non-invertible draws are discarded silently.
func NewRandomInvertibleMatrix(n int, p *big.Int, sampler sample.Sampler) (Matrix, Matrix, error) {
	if n < 1 {
		return nil, nil, errors.Wrapf(internal.DimensionMismatch, "invertible matrix of dimension %d", n)
	}
	for {
		m, err := NewRandomMatrix(n, n, sampler)
		if err != nil {
			return nil, nil, err
		}
		m = m.Mod(p)
		inv, err := m.InverseMod(p)
		if errors.Is(err, internal.NotInvertible) {
			continue
		}
		if err != nil {
			return nil, nil, err
		}

		return m, inv, nil
	}
}

// NewConstantMatrix returns a new Matrix instance
// with all elements set to constant c.
func NewConstantMatrix(rows, cols int, c *big.Int) Matrix {
	mat := make([]Vector, rows)
	for i := 0; i < rows; i++ {
		mat[i] = NewConstantVector(cols, c)
	}

	return mat
}

// NewIdentityMatrix returns the n x n identity matrix.
func NewIdentityMatrix(n int) Matrix {
	mat := NewConstantMatrix(n, n, big.NewInt(0))
	for i := 0; i < n; i++ {
		mat[i][i].SetInt64(1)
	}

	return mat
}

// Rows returns the number of rows of matrix m.
func (m Matrix) Rows() int {
	return len(m)
}

// Cols returns the number of columns of matrix m.
func (m Matrix) Cols() int {
	if len(m) != 0 {
		return len(m[0])
	}

	return 0
}

// DimsMatch returns a bool indicating whether matrices
// m and other have the same dimensions.
func (m Matrix) DimsMatch(other Matrix) bool {
	return m.Rows() == other.Rows() && m.Cols() == other.Cols()
}

// CheckDims checks whether dimensions of matrix m match
// the provided rows and cols arguments.
func (m Matrix) CheckDims(rows, cols int) bool {
	return m.Rows() == rows && m.Cols() == cols
}

// CheckBound checks that every entry of m is a residue in [0, bound).
func (m Matrix) CheckBound(bound *big.Int) error {
	for _, v := range m {
		err := v.CheckBound(bound)
		if err != nil {
			return err
		}
	}
	return nil
}

// Equal reports whether m and other have the same dimensions
// and the same entries.
func (m Matrix) Equal(other Matrix) bool {
	if !m.DimsMatch(other) {
		return false
	}
	for i := range m {
		for j := range m[i] {
			if m[i][j].Cmp(other[i][j]) != 0 {
				return false
			}
		}
	}

	return true
}

// IsIdentity reports whether m is a square identity matrix.
func (m Matrix) IsIdentity() bool {
	return m.Equal(NewIdentityMatrix(m.Rows()))
}

// Copy returns a deep copy of m.
func (m Matrix) Copy() Matrix {
	res := make(Matrix, m.Rows())
	for i, v := range m {
		res[i] = v.Copy()
	}

	return res
}

// GetCol returns i-th column of matrix m as a vector.
// It returns error if i >= the number of m's columns.
func (m Matrix) GetCol(i int) (Vector, error) {
	if i >= m.Cols() {
		return nil, fmt.Errorf("column index exceeds matrix dimensions")
	}

	column := make([]*big.Int, m.Rows())
	for j := 0; j < m.Rows(); j++ {
		column[j] = m[j][i]
	}

	return NewVector(column), nil
}

// Transpose transposes matrix m and returns
// the result in a new Matrix.
func (m Matrix) Transpose() Matrix {
	transposed := make([]Vector, m.Cols())
	for i := 0; i < m.Cols(); i++ {
		transposed[i], _ = m.GetCol(i)
	}

	mT, _ := NewMatrix(transposed)

	return mT
}

// Mod applies the element-wise modulo operation on matrix m.
// The result is returned in a new Matrix.
func (m Matrix) Mod(modulo *big.Int) Matrix {
	vectors := make([]Vector, m.Rows())

	for i, v := range m {
		vectors[i] = v.Mod(modulo)
	}

	matrix, _ := NewMatrix(vectors)

	return matrix
}

// Mul multiplies matrices m and other.
// The result is returned in a new Matrix.
// Error is returned if the number of columns of m differs from the
// number of rows of other.
func (m Matrix) Mul(other Matrix) (Matrix, error) {
	if m.Cols() != other.Rows() {
		return nil, errors.Wrapf(internal.DimensionMismatch,
			"cannot multiply %dx%d by %dx%d", m.Rows(), m.Cols(), other.Rows(), other.Cols())
	}

	prod := make([]Vector, m.Rows())
	for i := 0; i < m.Rows(); i++ {
		prod[i] = make([]*big.Int, other.Cols())
		for j := 0; j < other.Cols(); j++ {
			otherCol, _ := other.GetCol(j)
			prod[i][j], _ = m[i].Dot(otherCol)
		}
	}

	return NewMatrix(prod)
}

// MulMod multiplies matrices m and other and reduces every entry
// of the product modulo p.
func (m Matrix) MulMod(other Matrix, p *big.Int) (Matrix, error) {
	prod, err := m.Mul(other)
	if err != nil {
		return nil, err
	}

	return prod.Mod(p), nil
}

// MulScalarMod multiplies every entry of m by s modulo p.
// Matrix m is modified in place.
func (m Matrix) MulScalarMod(s, p *big.Int) {
	for _, v := range m {
		for _, c := range v {
			c.Mul(c, s)
			c.Mod(c, p)
		}
	}
}

// Minor returns a matrix obtained from m by removing row i and column j.
// It returns an error if i >= number of rows of m, or if j >= number of
// columns of m.
func (m Matrix) Minor(i int, j int) (Matrix, error) {
	if i >= m.Rows() || j >= m.Cols() {
		return nil, fmt.Errorf("cannot obtain minor - out of bounds")
	}
	mat := make(Matrix, m.Rows()-1)
	for k := 0; k < m.Rows(); k++ {
		if k == i {
			continue
		}
		vec := make(Vector, 0, len(m[0])-1)
		vec = append(vec, m[k][:j]...)
		vec = append(vec, m[k][j+1:]...)
		if k < i {
			mat[k] = vec
		} else {
			mat[k-1] = vec
		}
	}

	return NewMatrix(mat)
}

// DeterminantMod returns the determinant of the square matrix m in Z_p.
// It expands along the first row and reduces every partial result
// modulo p, so no pivot has to be inverted.
func (m Matrix) DeterminantMod(p *big.Int) (*big.Int, error) {
	if m.Rows() == 0 || m.Rows() != m.Cols() {
		return nil, errors.Wrapf(internal.DimensionMismatch,
			"determinant of a %dx%d matrix", m.Rows(), m.Cols())
	}
	if m.Rows() == 1 {
		return new(big.Int).Mod(m[0][0], p), nil
	}

	det := big.NewInt(0)
	for j := 0; j < m.Cols(); j++ {
		if m[0][j].Sign() == 0 {
			continue
		}
		minor, err := m.Minor(0, j)
		if err != nil {
			return nil, err
		}
		value, err := minor.DeterminantMod(p)
		if err != nil {
			return nil, err
		}
		value.Mul(value, m[0][j])
		if j%2 == 0 {
			det.Add(det, value)
		} else {
			det.Sub(det, value)
		}
		det.Mod(det, p)
	}

	return det, nil
}

// CofactorMod returns the matrix of cofactors of m in Z_p, that is
// the entry (i, j) equals (-1)^(i+j) times the determinant of
// the minor of m obtained by removing row i and column j.
func (m Matrix) CofactorMod(p *big.Int) (Matrix, error) {
	if m.Rows() == 0 || m.Rows() != m.Cols() {
		return nil, errors.Wrapf(internal.DimensionMismatch,
			"cofactors of a %dx%d matrix", m.Rows(), m.Cols())
	}
	if m.Rows() == 1 {
		return Matrix{Vector{big.NewInt(1)}}, nil
	}

	co := make(Matrix, m.Rows())
	for i := 0; i < m.Rows(); i++ {
		co[i] = make(Vector, m.Cols())
		for j := 0; j < m.Cols(); j++ {
			minor, err := m.Minor(i, j)
			if err != nil {
				return nil, err
			}
			value, err := minor.DeterminantMod(p)
			if err != nil {
				return nil, err
			}
			if (i+j)%2 == 1 {
				value.Neg(value)
				value.Mod(value, p)
			}
			co[i][j] = value
		}
	}

	return co, nil
}

// InverseMod returns the inverse matrix of m in the group Z_p,
// computed as the adjugate of m times the inverse of its
// determinant.
//
// It returns an error wrapping internal.NotInvertible in case the
// determinant is not coprime to p.
func (m Matrix) InverseMod(p *big.Int) (Matrix, error) {
	det, err := m.DeterminantMod(p)
	if err != nil {
		return nil, err
	}
	if new(big.Int).GCD(nil, nil, det, p).Cmp(big.NewInt(1)) != 0 {
		return nil, errors.Wrap(internal.NotInvertible, "determinant shares a factor with the modulus")
	}
	invDet := new(big.Int).ModInverse(det, p)

	co, err := m.CofactorMod(p)
	if err != nil {
		return nil, err
	}
	inv := co.Transpose()
	inv.MulScalarMod(invDet, p)

	return inv, nil
}
