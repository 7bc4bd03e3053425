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
	"context"

	"github.com/fentec-project/mife/mbp"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Evaluate computes the program on the inputs encrypted in cts, one
// ciphertext per input in any order. Every global index is evaluated
// in turn and the zero-test outcomes are parsed by the program.
func Evaluate(pp *Params, cts []*Ciphertext) (int, error) {
	byInput, err := pp.checkCiphertexts(cts)
	if err != nil {
		return 0, err
	}

	zero := make([]bool, pp.Indices())
	for index := range zero {
		if zero[index], err = pp.evaluateIndex(byInput, index); err != nil {
			return 0, err
		}
	}

	return pp.Program.Parse(pp.MBP, zero)
}

// EvaluateConcurrent is like Evaluate but spreads the global indices
// over at most the given number of goroutines. The first failure
// cancels the remaining work. When the program implements mbp.Decider,
// no further indices are dispatched once an outcome settles the result.
func EvaluateConcurrent(pp *Params, cts []*Ciphertext, workers int) (int, error) {
	byInput, err := pp.checkCiphertexts(cts)
	if err != nil {
		return 0, err
	}
	if workers < 1 {
		workers = 1
	}
	decider, _ := pp.Program.(mbp.Decider)

	ctx, settle := context.WithCancel(context.Background())
	defer settle()
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	zero := make([]bool, pp.Indices())
	for index := range zero {
		if ctx.Err() != nil {
			break
		}
		index := index
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			isZero, err := pp.evaluateIndex(byInput, index)
			if err != nil {
				return err
			}
			zero[index] = isZero
			if decider != nil && decider.Decisive(pp.MBP, index, isZero) {
				settle()
			}

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	return pp.Program.Parse(pp.MBP, zero)
}

// evaluateIndex multiplies the active matrices of all inputs along the
// global chain and zero-tests the 1x1 product.
func (pp *Params) evaluateIndex(cts []*Ciphertext, index int) (bool, error) {
	var prod *EncodedMatrix
	for g, pos := range pp.Positions {
		m := cts[pos.Input].Branches[pp.MBP.Digit(index, pos.Input)][pos.Local]
		if prod == nil {
			prod = m
			continue
		}
		var err error
		if prod, err = prod.Mul(pp.MMap, m); err != nil {
			return false, errors.Wrapf(err, "product at position %d of index %d", g, index)
		}
	}

	isZero, err := pp.MMap.IsZero(prod.At(0, 0))
	if err != nil {
		return false, errors.Wrapf(err, "zero test of index %d", index)
	}

	return isZero, nil
}

// checkCiphertexts verifies that cts holds exactly one well-formed
// ciphertext per input and returns them ordered by input.
func (pp *Params) checkCiphertexts(cts []*Ciphertext) ([]*Ciphertext, error) {
	if len(cts) != pp.NumInputs {
		return nil, errors.Wrapf(ErrMalformedCiphertext,
			"expected %d ciphertexts, got %d", pp.NumInputs, len(cts))
	}

	byInput := make([]*Ciphertext, pp.NumInputs)
	for _, ct := range cts {
		if ct == nil {
			return nil, errors.Wrap(ErrMalformedCiphertext, "missing ciphertext")
		}
		if ct.Input < 0 || ct.Input >= pp.NumInputs || byInput[ct.Input] != nil {
			return nil, errors.Wrapf(ErrMalformedCiphertext, "unexpected ciphertext of input %d", ct.Input)
		}
		if err := pp.checkCiphertext(ct); err != nil {
			return nil, err
		}
		byInput[ct.Input] = ct
	}

	return byInput, nil
}

// checkCiphertext verifies the shape of ct and the index sets of its
// encodings.
func (pp *Params) checkCiphertext(ct *Ciphertext) error {
	if len(ct.Branches) != pp.MBP.Branches() {
		return errors.Wrapf(ErrMalformedCiphertext,
			"ciphertext of input %d has %d branches instead of %d", ct.Input, len(ct.Branches), pp.MBP.Branches())
	}
	for d, branch := range ct.Branches {
		if len(branch) != pp.N[ct.Input] {
			return errors.Wrapf(ErrMalformedCiphertext,
				"branch %d of input %d has %d matrices instead of %d", d, ct.Input, len(branch), pp.N[ct.Input])
		}
		sets, err := pp.BranchSets(ct.Input, d)
		if err != nil {
			return err
		}
		for k, m := range branch {
			rows, cols := pp.MatrixDims(pp.Global(ct.Input, k))
			if m == nil || m.Grid == nil || m.Rows() != rows || m.Cols() != cols {
				return errors.Wrapf(ErrMalformedCiphertext,
					"matrix %d of branch %d of input %d has wrong dimensions", k, d, ct.Input)
			}
			for i := 0; i < rows; i++ {
				for j := 0; j < cols; j++ {
					enc := m.At(i, j)
					if enc == nil || !enc.IndexSet().Equal(sets[k]) {
						return errors.Wrapf(ErrMalformedCiphertext,
							"entry (%d, %d) of matrix %d of branch %d of input %d is not at %v",
							i, j, k, d, ct.Input, sets[k])
					}
				}
			}
		}
	}

	return nil
}
