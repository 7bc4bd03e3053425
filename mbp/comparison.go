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

package mbp

import (
	"math/big"

	"github.com/fentec-project/mife/data"
	"github.com/fentec-project/mife/internal"
	"github.com/pkg/errors"
)

// Automaton states of the comparison program.
const (
	stateLess = iota
	stateEqual
	stateGreater
	stateDead
	numStates
)

// Intermediate states, reached after reading a bit of input 0.
const (
	midLess = iota
	midGreater
	midDead
	midUndecided0
	midUndecided1
	numMid
)

// Comparison compares two L-bit inputs. The inputs contribute L
// matrices each, interleaved bit by bit starting from the most
// significant one. The chain runs an automaton that starts undecided
// and settles at the first differing bit.
//
// The product is zero exactly at the global index whose digit of
// input 0 is 0 and whose digit of input 1 is the outcome: 0 when
// x_0 < x_1, 1 when they are equal and 2 when x_0 > x_1. Parse maps
// the outcome to -1, 0 or 1.
//
// Comparison needs L >= 2 so that every outcome has a digit. Input 0
// contributes more than one matrix, so simple partitioning is never
// valid for it.
type Comparison struct{}

// Dimension returns L for both inputs.
func (Comparison) Dimension(p *Params, input int) int {
	return p.L
}

// KilianDims alternates between the intermediate and the main state
// count.
func (Comparison) KilianDims(p *Params) []int {
	dims := make([]int, 2*p.L-1)
	for j := range dims {
		if j%2 == 0 {
			dims[j] = numMid
		} else {
			dims[j] = numStates
		}
	}

	return dims
}

// Order interleaves the inputs: global position 2j holds bit j of
// input 0 and position 2j+1 bit j of input 1.
func (Comparison) Order(p *Params, input int) []int {
	order := make([]int, 2*p.L)
	for g := range order {
		if g%2 == input {
			order[g] = g / 2
		} else {
			order[g] = -1
		}
	}

	return order
}

// Matrices builds the branches of input for message msg, which must be
// in [0, 2^L).
func (Comparison) Matrices(p *Params, input int, msg *big.Int) ([][]data.Matrix, error) {
	if p.NumInputs != 2 || input < 0 || input > 1 {
		return nil, errors.Wrapf(internal.InvalidIndex, "comparison has no input %d of %d", input, p.NumInputs)
	}
	if p.L < 2 {
		return nil, errors.Wrapf(internal.DimensionMismatch, "comparison needs at least 2 bits, got %d", p.L)
	}
	if msg.Sign() < 0 || msg.BitLen() > p.L {
		return nil, errors.Wrapf(internal.MalformedInput, "%v does not fit in %d bits", msg, p.L)
	}

	branches := make([][]data.Matrix, p.Branches())
	for d := range branches {
		branches[d] = make([]data.Matrix, p.L)
		for j := 0; j < p.L; j++ {
			bit := int(msg.Bit(p.L - 1 - j))
			var m data.Matrix
			if input == 0 {
				m = readFirst(bit)
				if j == 0 {
					start := stateDead
					if d == 0 {
						start = stateEqual
					}
					m = data.Matrix{m[start]}
				}
			} else {
				m = readSecond(bit)
				if j == p.L-1 {
					m = accept(m, d)
				}
			}
			branches[d][j] = m.Mod(p.P)
		}
	}

	return branches, nil
}

// readFirst is the transition on bit a of input 0.
func readFirst(a int) data.Matrix {
	m := data.NewConstantMatrix(numStates, numMid, big.NewInt(0))
	m[stateLess][midLess].SetInt64(1)
	m[stateGreater][midGreater].SetInt64(1)
	m[stateDead][midDead].SetInt64(1)
	m[stateEqual][midUndecided0+a].SetInt64(1)

	return m
}

// readSecond is the transition on bit b of input 1.
func readSecond(b int) data.Matrix {
	m := data.NewConstantMatrix(numMid, numStates, big.NewInt(0))
	m[midLess][stateLess].SetInt64(1)
	m[midGreater][stateGreater].SetInt64(1)
	m[midDead][stateDead].SetInt64(1)
	for a := 0; a < 2; a++ {
		switch {
		case a < b:
			m[midUndecided0+a][stateLess].SetInt64(1)
		case a > b:
			m[midUndecided0+a][stateGreater].SetInt64(1)
		default:
			m[midUndecided0+a][stateEqual].SetInt64(1)
		}
	}

	return m
}

// accept multiplies m by the column that vanishes on the state named
// by digit d.
func accept(m data.Matrix, d int) data.Matrix {
	col := data.NewConstantMatrix(numStates, 1, big.NewInt(1))
	if d < stateDead {
		col[d][0].SetInt64(0)
	}
	res, _ := m.Mul(col)

	return res
}

// Parse locates the unique zero among the outcome indices.
func (Comparison) Parse(p *Params, zero []bool) (int, error) {
	if len(zero) != p.Indices() {
		return 0, errors.Wrapf(internal.DimensionMismatch,
			"expected %d zero-test outcomes, got %d", p.Indices(), len(zero))
	}
	res, found := 0, 0
	for index, z := range zero {
		if !z {
			continue
		}
		outcome := p.Digit(index, 1)
		if p.Digit(index, 0) != 0 || outcome >= stateDead {
			return 0, errors.Errorf("unexpected zero at index %d", index)
		}
		res = outcome - 1
		found++
	}
	if found != 1 {
		return 0, errors.Errorf("expected a single zero, found %d", found)
	}

	return res, nil
}

// Decisive reports that any zero settles the result.
func (Comparison) Decisive(p *Params, index int, zero bool) bool {
	return zero
}
