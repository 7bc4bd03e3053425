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

// Equality tests whether two inputs are equal. Each input contributes
// a single matrix: input 0 a 1x3 row, input 1 a 3x1 column. At global
// index 0 the product equals x_0 - x_1, at every other index it is 1.
// Messages must lie in [0, 2^L).
//
// Input 0 contributes the only matrix of its chain, so the program is
// also valid with simple partitioning.
type Equality struct{}

// Dimension returns 1 for both inputs.
func (Equality) Dimension(p *Params, input int) int {
	return 1
}

// KilianDims returns the single boundary dimension 3.
func (Equality) KilianDims(p *Params) []int {
	return []int{3}
}

// Order places input 0 first and input 1 second.
func (Equality) Order(p *Params, input int) []int {
	if input == 0 {
		return []int{0, -1}
	}

	return []int{-1, 0}
}

// Matrices builds the branches of input for message msg.
func (Equality) Matrices(p *Params, input int, msg *big.Int) ([][]data.Matrix, error) {
	if p.NumInputs != 2 || input < 0 || input > 1 {
		return nil, errors.Wrapf(internal.InvalidIndex, "equality has no input %d of %d", input, p.NumInputs)
	}
	if msg == nil || msg.Sign() < 0 || msg.BitLen() > p.L || msg.Cmp(p.P) >= 0 {
		return nil, errors.Wrapf(internal.MalformedInput, "%v does not fit in %d bits", msg, p.L)
	}
	x := new(big.Int).Set(msg)
	negX := new(big.Int).Sub(p.P, x)
	negX.Mod(negX, p.P)
	zero, one := big.NewInt(0), big.NewInt(1)

	branches := make([][]data.Matrix, p.Branches())
	for d := range branches {
		var m data.Matrix
		switch {
		case input == 0 && d == 0:
			m = data.Matrix{data.NewVector([]*big.Int{x, one, zero})}
		case input == 0:
			m = data.Matrix{data.NewVector([]*big.Int{zero, zero, one})}
		case d == 0:
			m = data.Matrix{
				data.NewVector([]*big.Int{one}),
				data.NewVector([]*big.Int{negX}),
				data.NewVector([]*big.Int{one}),
			}
		default:
			m = data.Matrix{
				data.NewVector([]*big.Int{zero}),
				data.NewVector([]*big.Int{one}),
				data.NewVector([]*big.Int{one}),
			}
		}
		branches[d] = []data.Matrix{m.Copy()}
	}

	return branches, nil
}

// Parse returns 1 when the inputs are equal and 0 otherwise.
func (Equality) Parse(p *Params, zero []bool) (int, error) {
	if len(zero) != p.Indices() {
		return 0, errors.Wrapf(internal.DimensionMismatch,
			"expected %d zero-test outcomes, got %d", p.Indices(), len(zero))
	}
	if zero[0] {
		return 1, nil
	}

	return 0, nil
}

// Decisive reports that index 0 settles the result.
func (Equality) Decisive(p *Params, index int, zero bool) bool {
	return index == 0
}
