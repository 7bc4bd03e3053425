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

	"github.com/fentec-project/mife/data"
	"github.com/fentec-project/mife/sample"
	"github.com/pkg/errors"
)

// Cleartext holds the matrices of one input before encoding, indexed
// by digit and local offset. It only lives during encryption.
type Cleartext struct {
	Input    int
	Branches [][]data.Matrix
}

// checkCleartext verifies that the program produced one branch per
// digit, N[input] matrices per branch and the dimensions required at
// each global position.
func (pp *Params) checkCleartext(clr *Cleartext) error {
	if len(clr.Branches) != pp.MBP.Branches() {
		return errors.Wrapf(ErrDimensionMismatch,
			"input %d has %d branches instead of %d", clr.Input, len(clr.Branches), pp.MBP.Branches())
	}
	for d, branch := range clr.Branches {
		if len(branch) != pp.N[clr.Input] {
			return errors.Wrapf(ErrDimensionMismatch,
				"branch %d of input %d has %d matrices instead of %d", d, clr.Input, len(branch), pp.N[clr.Input])
		}
		for k, m := range branch {
			rows, cols := pp.MatrixDims(pp.Global(clr.Input, k))
			if !m.CheckDims(rows, cols) {
				return errors.Wrapf(ErrDimensionMismatch,
					"matrix %d of branch %d of input %d is %dx%d instead of %dx%d",
					k, d, clr.Input, m.Rows(), m.Cols(), rows, cols)
			}
		}
	}

	return nil
}

// randomize multiplies every matrix of clr by a fresh non-zero scalar
// and sandwiches it between the Kilian randomizers of its neighbouring
// boundaries, as the flags allow. The matrices are replaced.
func (pp *Params) randomize(sk *SecretKey, clr *Cleartext, rand io.Reader) error {
	scalars := sample.NewNonZero(pp.P, rand)
	kilian := !pp.Flags.Has(NoKilian)
	if kilian && (len(sk.R) != pp.NumR || len(sk.RInv) != pp.NumR) {
		return errors.Wrapf(ErrMalformedSecretKey, "expected %d Kilian randomizers", pp.NumR)
	}

	for _, branch := range clr.Branches {
		for k, m := range branch {
			m = m.Mod(pp.P)
			if !pp.Flags.Has(NoRandomizers) {
				s, err := scalars.Sample()
				if err != nil {
					return errors.Wrap(err, "cannot sample scalar randomizer")
				}
				m.MulScalarMod(s, pp.P)
			}
			if kilian {
				var err error
				g := pp.Global(clr.Input, k)
				if g > 0 {
					if m, err = sk.RInv[g-1].MulMod(m, pp.P); err != nil {
						return err
					}
				}
				if g < pp.Kappa-1 {
					if m, err = m.MulMod(sk.R[g], pp.P); err != nil {
						return err
					}
				}
			}
			branch[k] = m
		}
	}

	return nil
}
