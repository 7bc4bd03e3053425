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

package mife

import (
	"github.com/fentec-project/mife/mmap"
	"github.com/pkg/errors"
)

// Partition is the index-set assignment of one global index. Sets[i][k]
// is the index set of matrix k of input i in the branch selected by
// Digits[i].
type Partition struct {
	Index  int
	Digits []int
	Sets   [][]mmap.IndexSet
}

// Partitions derives the partition table of a global index in
// [0, 2^(L*NumInputs)).
//
// By default input i owns the sub-universe of Gammas[i] elements
// starting after the sub-universes of the preceding inputs, and its
// digit rotates how those elements are spread over its N[i] matrices.
// The active matrices of all inputs thus cover the universe exactly
// once. With SimplePartitions the single matrix of input 0 is at the
// universe set and all other matrices at the empty set.
func (pp *Params) Partitions(index int) (*Partition, error) {
	if index < 0 || index >= pp.Indices() {
		return nil, errors.Wrapf(ErrInvalidIndex,
			"global index %d outside [0, %d)", index, pp.Indices())
	}

	part := &Partition{
		Index:  index,
		Digits: make([]int, pp.NumInputs),
		Sets:   make([][]mmap.IndexSet, pp.NumInputs),
	}
	for i := range part.Digits {
		part.Digits[i] = pp.MBP.Digit(index, i)
		sets, err := pp.BranchSets(i, part.Digits[i])
		if err != nil {
			return nil, err
		}
		part.Sets[i] = sets
	}

	return part, nil
}

// BranchSets returns the index sets of the matrices of input in the
// branch of the given digit.
func (pp *Params) BranchSets(input, digit int) ([]mmap.IndexSet, error) {
	if input < 0 || input >= pp.NumInputs {
		return nil, errors.Wrapf(ErrInvalidIndex, "input %d outside [0, %d)", input, pp.NumInputs)
	}
	if digit < 0 || digit >= pp.MBP.Branches() {
		return nil, errors.Wrapf(ErrInvalidIndex, "digit %d outside [0, %d)", digit, pp.MBP.Branches())
	}

	n := pp.N[input]
	sets := make([]mmap.IndexSet, n)
	if pp.Flags.Has(SimplePartitions) {
		if input == 0 {
			sets[0] = mmap.UniverseSet(pp.Gamma)
		}
		return sets, nil
	}

	elems := make([][]int, n)
	for u := 0; u < pp.Gammas[input]; u++ {
		local := (u + digit) % n
		elems[local] = append(elems[local], pp.offsets[input]+u)
	}
	for k := range sets {
		sets[k] = mmap.NewIndexSet(elems[k]...)
	}

	return sets, nil
}
