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
	"github.com/fentec-project/mife/internal"
	"github.com/pkg/errors"
)

// Grid is an owned rows x cols rectangular array of elements of type T,
// stored row-major. Unlike Matrix it carries no arithmetic; it holds
// values such as graded encodings whose operations live elsewhere.
type Grid[T any] struct {
	rows, cols int
	elems      []T
}

// NewGrid returns a rows x cols grid of zero values.
// It returns an error if either dimension is not positive.
func NewGrid[T any](rows, cols int) (*Grid[T], error) {
	if rows < 1 || cols < 1 {
		return nil, errors.Wrapf(internal.DimensionMismatch, "grid of size %dx%d", rows, cols)
	}

	return &Grid[T]{
		rows:  rows,
		cols:  cols,
		elems: make([]T, rows*cols),
	}, nil
}

// Rows returns the number of rows of g.
func (g *Grid[T]) Rows() int {
	return g.rows
}

// Cols returns the number of columns of g.
func (g *Grid[T]) Cols() int {
	return g.cols
}

// At returns the element in row i and column j.
// It panics if (i, j) is out of bounds.
func (g *Grid[T]) At(i, j int) T {
	g.check(i, j)
	return g.elems[i*g.cols+j]
}

// Set stores v in row i and column j.
// It panics if (i, j) is out of bounds.
func (g *Grid[T]) Set(i, j int, v T) {
	g.check(i, j)
	g.elems[i*g.cols+j] = v
}

func (g *Grid[T]) check(i, j int) {
	if i < 0 || i >= g.rows || j < 0 || j >= g.cols {
		panic(errors.Wrapf(internal.InvalidIndex, "(%d, %d) outside %dx%d grid", i, j, g.rows, g.cols))
	}
}
