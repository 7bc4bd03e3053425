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
	"io"
	"math/big"

	"github.com/fentec-project/mife/data"
	"github.com/fentec-project/mife/mbp"
	"github.com/fentec-project/mife/mmap"
	"github.com/fentec-project/mife/sample"
	"github.com/pkg/errors"
)

// maxIndexBits bounds L*NumInputs, the bit length of global indices.
const maxIndexBits = 24

// Config holds the parameters chosen by the caller at setup.
type Config struct {
	// NumInputs is the arity of the function.
	NumInputs int
	// L is the bit length of every input digit; each input provides
	// 2^L branches.
	L int
	// Lambda is the security parameter of the graded encoding scheme.
	Lambda int
	Flags  Flags
}

// Position identifies the owner of a position in the global product
// chain: the input and the offset among that input's matrices.
type Position struct {
	Input int
	Local int
}

// Params represents the public parameters of the scheme. They are
// immutable after setup and safe for concurrent use.
type Params struct {
	NumInputs int
	L         int
	// N[i] is the number of matrices contributed by input i.
	N []int
	// Gammas[i] is the width of the index sets given to input i.
	Gammas []int
	// Gamma is the size of the index-set universe.
	Gamma int
	// Kappa is the length of the global product chain.
	Kappa int
	// NumR is the number of Kilian randomizers, Kappa-1.
	NumR       int
	KilianDims []int
	// Positions[g] is the owner of global position g.
	Positions []Position
	// P is the modulus of the plaintext ring.
	P     *big.Int
	Flags Flags
	// Scheme is the graded encoding scheme and MMap references its
	// public parameters, which are never modified.
	Scheme  mmap.Scheme
	MMap    mmap.PublicParams
	Program mbp.Program
	// MBP is the context passed to Program.
	MBP *mbp.Params

	globals [][]int
	offsets []int
}

// SecretKey holds the secret parameters of the graded encoding scheme
// and the Kilian randomizers. R[j] and RInv[j] randomize boundary j of
// the global chain. Both slices are empty when Kilian randomization is
// disabled.
type SecretKey struct {
	MMap mmap.SecretParams
	R    []data.Matrix
	RInv []data.Matrix
}

// Setup generates public parameters and a secret key for program. The
// graded encoding scheme is set up with a universe of Gamma elements
// and multilinearity Kappa. All randomness is read from rand.
func Setup(program mbp.Program, cfg Config, scheme mmap.Scheme, rand io.Reader) (*Params, *SecretKey, error) {
	pp, err := newParams(program, cfg.NumInputs, cfg.L, cfg.Flags)
	if err != nil {
		return nil, nil, err
	}

	mmapPub, mmapSec, err := scheme.Setup(mmap.Config{
		Lambda:   cfg.Lambda,
		Kappa:    pp.Kappa,
		Universe: pp.Gamma,
	}, rand)
	if err != nil {
		return nil, nil, errors.Wrap(err, "graded encoding setup failed")
	}
	pp.bind(scheme, mmapPub)

	sk := &SecretKey{MMap: mmapSec}
	if !pp.Flags.Has(NoKilian) {
		sampler := sample.NewUniformFrom(pp.P, rand)
		sk.R = make([]data.Matrix, pp.NumR)
		sk.RInv = make([]data.Matrix, pp.NumR)
		for j := range sk.R {
			sk.R[j], sk.RInv[j], err = data.NewRandomInvertibleMatrix(pp.KilianDims[j], pp.P, sampler)
			if err != nil {
				return nil, nil, errors.Wrap(err, "cannot sample Kilian randomizer")
			}
		}
	}

	return pp, sk, nil
}

// newParams queries program for the layout of the global chain and
// checks that it is consistent.
func newParams(program mbp.Program, numInputs, l int, flags Flags) (*Params, error) {
	if numInputs < 1 || l < 1 || numInputs*l > maxIndexBits {
		return nil, errors.Wrapf(ErrMalformedParams,
			"%d inputs of %d bits not supported", numInputs, l)
	}
	if flags&^allFlags != 0 {
		return nil, errors.Wrapf(ErrMalformedParams, "unknown flags %#x", uint8(flags))
	}

	mbpParams := &mbp.Params{NumInputs: numInputs, L: l}
	pp := &Params{
		NumInputs: numInputs,
		L:         l,
		N:         make([]int, numInputs),
		Gammas:    make([]int, numInputs),
		offsets:   make([]int, numInputs),
		Flags:     flags,
		Program:   program,
		MBP:       mbpParams,
	}
	for i := range pp.N {
		pp.N[i] = program.Dimension(mbpParams, i)
		if pp.N[i] < 1 {
			return nil, errors.Wrapf(ErrDimensionMismatch, "input %d contributes %d matrices", i, pp.N[i])
		}
		pp.Gammas[i] = pp.N[i]
		pp.offsets[i] = pp.Gamma
		pp.Gamma += pp.Gammas[i]
		pp.Kappa += pp.N[i]
	}
	pp.NumR = pp.Kappa - 1
	mbpParams.N = pp.N
	mbpParams.Kappa = pp.Kappa

	if flags.Has(SimplePartitions) && pp.N[0] != 1 {
		return nil, errors.Wrapf(ErrDimensionMismatch,
			"simple partitioning needs a single matrix from input 0, got %d", pp.N[0])
	}

	pp.KilianDims = program.KilianDims(mbpParams)
	if len(pp.KilianDims) != pp.NumR {
		return nil, errors.Wrapf(ErrDimensionMismatch,
			"expected %d Kilian dimensions, got %d", pp.NumR, len(pp.KilianDims))
	}
	for j, d := range pp.KilianDims {
		if d < 1 {
			return nil, errors.Wrapf(ErrDimensionMismatch, "Kilian dimension %d at boundary %d", d, j)
		}
	}

	if err := pp.layout(); err != nil {
		return nil, err
	}

	return pp, nil
}

// layout builds the owner table of the global chain from the program's
// ordering and checks that every position has exactly one owner and
// that every input uses each of its offsets once.
func (pp *Params) layout() error {
	pp.Positions = make([]Position, pp.Kappa)
	pp.globals = make([][]int, pp.NumInputs)
	owned := make([]bool, pp.Kappa)

	for i := 0; i < pp.NumInputs; i++ {
		order := pp.Program.Order(pp.MBP, i)
		if len(order) != pp.Kappa {
			return errors.Wrapf(ErrDimensionMismatch,
				"ordering of input %d has length %d instead of %d", i, len(order), pp.Kappa)
		}
		pp.globals[i] = make([]int, pp.N[i])
		for k := range pp.globals[i] {
			pp.globals[i][k] = -1
		}
		for g, local := range order {
			if local < 0 {
				continue
			}
			if local >= pp.N[i] || pp.globals[i][local] != -1 || owned[g] {
				return errors.Wrapf(ErrDimensionMismatch,
					"ordering of input %d assigns offset %d to position %d twice or out of range", i, local, g)
			}
			owned[g] = true
			pp.globals[i][local] = g
			pp.Positions[g] = Position{Input: i, Local: local}
		}
		for local, g := range pp.globals[i] {
			if g == -1 {
				return errors.Wrapf(ErrDimensionMismatch,
					"ordering of input %d never places matrix %d", i, local)
			}
		}
	}

	return nil
}

// bind attaches the graded encoding scheme and its public parameters.
func (pp *Params) bind(scheme mmap.Scheme, mmapPub mmap.PublicParams) {
	pp.Scheme = scheme
	pp.MMap = mmapPub
	pp.P = mmapPub.Modulus()
	pp.MBP.P = pp.P
}

// Global returns the global position of matrix local of input.
func (pp *Params) Global(input, local int) int {
	return pp.globals[input][local]
}

// Indices returns the number of global indices, 2^(L*NumInputs).
func (pp *Params) Indices() int {
	return pp.MBP.Indices()
}

// MatrixDims returns the dimensions every matrix at global position g
// must have. The chain starts with a single row and ends with a single
// column.
func (pp *Params) MatrixDims(g int) (rows, cols int) {
	rows, cols = 1, 1
	if g > 0 {
		rows = pp.KilianDims[g-1]
	}
	if g < pp.Kappa-1 {
		cols = pp.KilianDims[g]
	}

	return rows, cols
}
