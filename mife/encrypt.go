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
	"time"

	"github.com/fentec-project/mife/data"
	"github.com/fentec-project/mife/mmap"
	"github.com/pkg/errors"
)

// EncodedMatrix is a matrix of graded encodings.
type EncodedMatrix struct {
	*data.Grid[mmap.Encoding]
}

// NewEncodedMatrix returns a rows x cols matrix with no encodings set.
func NewEncodedMatrix(rows, cols int) (*EncodedMatrix, error) {
	g, err := data.NewGrid[mmap.Encoding](rows, cols)
	if err != nil {
		return nil, err
	}

	return &EncodedMatrix{Grid: g}, nil
}

// Mul returns the product of m and other, computed with the ring
// operations of the graded encoding scheme.
func (m *EncodedMatrix) Mul(mm mmap.PublicParams, other *EncodedMatrix) (*EncodedMatrix, error) {
	if m.Cols() != other.Rows() {
		return nil, errors.Wrapf(ErrDimensionMismatch,
			"cannot multiply %dx%d by %dx%d", m.Rows(), m.Cols(), other.Rows(), other.Cols())
	}
	prod, err := NewEncodedMatrix(m.Rows(), other.Cols())
	if err != nil {
		return nil, err
	}

	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < other.Cols(); j++ {
			var acc mmap.Encoding
			for k := 0; k < m.Cols(); k++ {
				term, err := mm.Mul(m.At(i, k), other.At(k, j))
				if err != nil {
					return nil, err
				}
				if acc == nil {
					acc = term
					continue
				}
				if acc, err = mm.Add(acc, term); err != nil {
					return nil, err
				}
			}
			prod.Set(i, j, acc)
		}
	}

	return prod, nil
}

// Ciphertext is the encryption of one input: for every digit, the
// encoded matrices of that branch.
type Ciphertext struct {
	Input    int
	Branches [][]*EncodedMatrix
}

// Encryptor encrypts inputs under a secret key. It owns its source of
// randomness and is not safe for concurrent use; independent
// encryptions may run in separate Encryptors sharing the same Params
// and SecretKey.
type Encryptor struct {
	Params *Params
	Key    *SecretKey
	// Observer, if set, is notified after every encoded entry.
	Observer Observer

	rand io.Reader
}

// NewEncryptor returns an Encryptor reading its randomness from rand.
func NewEncryptor(pp *Params, sk *SecretKey, rand io.Reader) *Encryptor {
	return &Encryptor{
		Params: pp,
		Key:    sk,
		rand:   rand,
	}
}

// progress counts the encodings of one encryption call.
type progress struct {
	input, done, total int
}

// Prepare builds the branches of input for message msg and randomizes
// them. Together with EncodeBranch it allows encrypting one branch at a
// time.
func (e *Encryptor) Prepare(input int, msg *big.Int) (*Cleartext, error) {
	pp := e.Params
	if input < 0 || input >= pp.NumInputs {
		return nil, errors.Wrapf(ErrInvalidIndex, "input %d outside [0, %d)", input, pp.NumInputs)
	}
	if msg == nil {
		return nil, errors.Wrap(ErrMalformedInput, "missing message")
	}

	branches, err := pp.Program.Matrices(pp.MBP, input, msg)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot build matrices of input %d", input)
	}
	clr := &Cleartext{Input: input, Branches: branches}
	if err := pp.checkCleartext(clr); err != nil {
		return nil, err
	}
	if err := pp.randomize(e.Key, clr, e.rand); err != nil {
		return nil, err
	}

	return clr, nil
}

// EncodeBranch encodes the matrices of the branch of clr selected by
// digit.
func (e *Encryptor) EncodeBranch(clr *Cleartext, digit int) ([]*EncodedMatrix, error) {
	if digit < 0 || digit >= len(clr.Branches) {
		return nil, errors.Wrapf(ErrInvalidIndex, "digit %d outside [0, %d)", digit, len(clr.Branches))
	}
	prog := &progress{input: clr.Input, total: entries(clr.Branches[digit])}

	return e.encodeBranch(clr, digit, prog)
}

// Encrypt encrypts msg as the given input.
func (e *Encryptor) Encrypt(input int, msg *big.Int) (*Ciphertext, error) {
	clr, err := e.Prepare(input, msg)
	if err != nil {
		return nil, err
	}

	prog := &progress{input: input}
	for _, branch := range clr.Branches {
		prog.total += entries(branch)
	}
	ct := &Ciphertext{
		Input:    input,
		Branches: make([][]*EncodedMatrix, len(clr.Branches)),
	}
	for d := range clr.Branches {
		if ct.Branches[d], err = e.encodeBranch(clr, d, prog); err != nil {
			return nil, err
		}
	}

	return ct, nil
}

func (e *Encryptor) encodeBranch(clr *Cleartext, digit int, prog *progress) ([]*EncodedMatrix, error) {
	sets, err := e.Params.BranchSets(clr.Input, digit)
	if err != nil {
		return nil, err
	}

	branch := clr.Branches[digit]
	encoded := make([]*EncodedMatrix, len(branch))
	for k, m := range branch {
		if encoded[k], err = NewEncodedMatrix(m.Rows(), m.Cols()); err != nil {
			return nil, err
		}
		for i := range m {
			for j := range m[i] {
				start := time.Now()
				enc, err := e.Key.MMap.Encode(m[i][j], sets[k], e.rand)
				if err != nil {
					return nil, errors.Wrapf(err, "cannot encode entry (%d, %d) of matrix %d", i, j, k)
				}
				encoded[k].Set(i, j, enc)
				prog.done++
				if e.Observer != nil {
					e.Observer.EncodingDone(prog.input, prog.done, prog.total, time.Since(start))
				}
			}
		}
	}

	return encoded, nil
}

func entries(branch []data.Matrix) int {
	n := 0
	for _, m := range branch {
		n += m.Rows() * m.Cols()
	}

	return n
}
