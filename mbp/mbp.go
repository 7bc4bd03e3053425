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

// Package mbp defines matrix branching programs as consumed by the MIFE
// scheme, together with ready to use programs for equality and
// comparison of two inputs.
//
// A program describes a function of NumInputs inputs. Every input
// contributes a sequence of matrices to one global product chain; the
// program decides how those sequences interleave. For each of the 2^L
// values the input's digit of a global index can take, the input
// provides one branch of matrices. The product of the active branches
// is a 1x1 matrix whose zero/non-zero status, collected over all global
// indices, determines the result.
package mbp

import (
	"math/big"

	"github.com/fentec-project/mife/data"
)

// Params is the context handed to every Program method. It is filled
// in by the MIFE setup.
type Params struct {
	NumInputs int
	// L is the number of bits of every input digit.
	L int
	// P is the modulus of the plaintext ring. It is nil while the
	// matrix dimensions are being queried.
	P *big.Int
	// N[i] is the number of matrices input i contributes.
	N []int
	// Kappa is the length of the global product chain.
	Kappa int
}

// Indices returns the number of global indices, 2^(L*NumInputs).
func (p *Params) Indices() int {
	return 1 << uint(p.L*p.NumInputs)
}

// Branches returns the number of branches every input provides, 2^L.
func (p *Params) Branches() int {
	return 1 << uint(p.L)
}

// Digit returns the digit of the given input in a global index. Input 0
// holds the least significant digit.
func (p *Params) Digit(index, input int) int {
	return (index >> uint(p.L*input)) & (p.Branches() - 1)
}

// Index composes a global index from the digits of all inputs.
func (p *Params) Index(digits ...int) int {
	index := 0
	for i := len(digits) - 1; i >= 0; i-- {
		index = index<<uint(p.L) | digits[i]
	}

	return index
}

// Program is a matrix branching program.
type Program interface {
	// Dimension returns the number of matrices input contributes.
	Dimension(p *Params, input int) int
	// KilianDims returns the dimension of the square randomizing
	// matrix at each of the Kappa-1 boundaries of the global chain.
	// Boundary j sits between global positions j and j+1.
	KilianDims(p *Params) []int
	// Order returns, for every global position, the local offset of
	// the input's matrix at that position, or -1 when the position
	// belongs to another input.
	Order(p *Params, input int) []int
	// Matrices returns the branches of input for message msg, indexed
	// by digit and then by local offset. Entries are reduced modulo
	// p.P.
	Matrices(p *Params, input int, msg *big.Int) ([][]data.Matrix, error)
	// Parse maps the zero-test outcomes of all global indices to the
	// result of the function.
	Parse(p *Params, zero []bool) (int, error)
}

// Decider is implemented by programs for which a single zero-test
// outcome can settle the result, so that evaluation of the remaining
// indices can be skipped.
type Decider interface {
	Decisive(p *Params, index int, zero bool) bool
}
