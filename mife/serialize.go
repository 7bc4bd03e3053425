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
	"bytes"
	"io"

	"github.com/fentec-project/mife/data"
	"github.com/fentec-project/mife/internal"
	"github.com/fentec-project/mife/mbp"
	"github.com/fentec-project/mife/mmap"
	"github.com/pkg/errors"
	"github.com/tuneinsight/lattigo/v6/utils/buffer"
	"github.com/zeebo/blake3"
)

// Serialized artifacts start with the magic tag, the format version and
// the kind of artifact.
const (
	magic         = "MIFE"
	formatVersion = 1
)

type artifact uint8

const (
	artifactParams artifact = iota + 1
	artifactSecretKey
	artifactCiphertext
)

// fingerprintSize is the size of the parameter fingerprint carried by
// secret keys and ciphertexts.
const fingerprintSize = 32

// countingWriter counts the bytes written to w.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// writeArtifact runs write on a buffered writer over w and reports the
// number of bytes written.
func writeArtifact(w io.Writer, write func(buffer.Writer) error) (int64, error) {
	cw := &countingWriter{w: w}
	bw := internal.NewWriter(cw)
	if err := write(bw); err != nil {
		return cw.n, err
	}
	err := bw.Flush()

	return cw.n, err
}

func writeHeader(w buffer.Writer, kind artifact) error {
	if err := internal.WriteString(w, magic); err != nil {
		return err
	}
	if _, err := buffer.WriteUint8(w, formatVersion); err != nil {
		return err
	}
	_, err := buffer.WriteUint8(w, uint8(kind))

	return err
}

func readHeader(r buffer.Reader, kind artifact) error {
	tag, err := internal.ReadString(r)
	if err != nil {
		return err
	}
	var version, k uint8
	if _, err := buffer.ReadUint8(r, &version); err != nil {
		return errors.Wrap(ErrSerialization, err.Error())
	}
	if _, err := buffer.ReadUint8(r, &k); err != nil {
		return errors.Wrap(ErrSerialization, err.Error())
	}
	if tag != magic || version != formatVersion || artifact(k) != kind {
		return errors.Wrapf(ErrSerialization,
			"unexpected header %q version %d kind %d", tag, version, k)
	}

	return nil
}

// WriteTo writes the public parameters to w: the scalar configuration,
// the layout of the global chain, the plaintext modulus, the name of the
// graded encoding scheme and its public parameters.
func (pp *Params) WriteTo(w io.Writer) (int64, error) {
	return writeArtifact(w, pp.write)
}

func (pp *Params) write(w buffer.Writer) error {
	if err := writeHeader(w, artifactParams); err != nil {
		return err
	}
	scalars := []int{pp.NumInputs, pp.L, int(pp.Flags), pp.Kappa, pp.Gamma}
	if err := internal.WriteInts(w, scalars); err != nil {
		return err
	}
	for _, v := range [][]int{pp.N, pp.Gammas, pp.KilianDims, pp.positions()} {
		if err := internal.WriteInts(w, v); err != nil {
			return err
		}
	}
	if err := internal.WriteBigInt(w, pp.P); err != nil {
		return err
	}
	if err := internal.WriteString(w, pp.Scheme.Name()); err != nil {
		return err
	}

	return pp.MMap.Write(w)
}

// positions flattens the owner table.
func (pp *Params) positions() []int {
	flat := make([]int, 0, 2*len(pp.Positions))
	for _, pos := range pp.Positions {
		flat = append(flat, pos.Input, pos.Local)
	}

	return flat
}

// Fingerprint returns the blake3 hash of the serialized public
// parameters. Secret keys and ciphertexts carry it to be matched with
// their parameters.
func (pp *Params) Fingerprint() ([]byte, error) {
	buf := new(bytes.Buffer)
	if _, err := pp.WriteTo(buf); err != nil {
		return nil, err
	}
	hasher := blake3.New()
	hasher.Write(buf.Bytes())

	return hasher.Sum(nil)[:fingerprintSize], nil
}

// ReadParams reads public parameters written by Params.WriteTo. The
// program and scheme must be those the parameters were generated with;
// the stored layout is checked against the one program describes. r is
// consumed to its end unless it is a *buffer.Buffer.
func ReadParams(r io.Reader, program mbp.Program, scheme mmap.Scheme) (*Params, error) {
	br, err := internal.NewReader(r)
	if err != nil {
		return nil, err
	}
	if err := readHeader(br, artifactParams); err != nil {
		return nil, err
	}
	scalars, err := internal.ReadInts(br)
	if err != nil {
		return nil, err
	}
	if len(scalars) != 5 {
		return nil, errors.Wrap(ErrSerialization, "invalid parameter header")
	}
	stored := make([][]int, 4)
	for k := range stored {
		if stored[k], err = internal.ReadInts(br); err != nil {
			return nil, err
		}
	}
	p, err := internal.ReadBigInt(br)
	if err != nil {
		return nil, err
	}
	name, err := internal.ReadString(br)
	if err != nil {
		return nil, err
	}

	if scalars[2] < 0 || scalars[2] > int(allFlags) {
		return nil, errors.Wrapf(ErrSerialization, "invalid flags %#x", scalars[2])
	}
	pp, err := newParams(program, scalars[0], scalars[1], Flags(scalars[2]))
	if err != nil {
		return nil, errors.Wrapf(ErrSerialization, "stored configuration rejected: %v", err)
	}
	expected := [][]int{pp.N, pp.Gammas, pp.KilianDims, pp.positions()}
	if scalars[3] != pp.Kappa || scalars[4] != pp.Gamma || !equalInts(stored, expected) {
		return nil, errors.Wrap(ErrSerialization, "stored layout does not match the program")
	}
	if name != scheme.Name() {
		return nil, errors.Wrapf(ErrSerialization,
			"parameters of scheme %q read with scheme %q", name, scheme.Name())
	}

	mmapPub, err := scheme.ReadPublic(br)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read graded encoding parameters")
	}
	if mmapPub.Modulus().Cmp(p) != 0 || mmapPub.Universe() != pp.Gamma || mmapPub.Kappa() != pp.Kappa {
		return nil, errors.Wrap(ErrSerialization, "graded encoding parameters do not match")
	}
	pp.bind(scheme, mmapPub)

	return pp, nil
}

func equalInts(a, b [][]int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}

	return true
}

// writeFingerprint writes the fingerprint of pp.
func (pp *Params) writeFingerprint(w buffer.Writer) error {
	fp, err := pp.Fingerprint()
	if err != nil {
		return err
	}

	return internal.WriteBytes(w, fp)
}

// readFingerprint reads a fingerprint and checks that it matches pp.
func (pp *Params) readFingerprint(r buffer.Reader) error {
	stored, err := internal.ReadBytes(r)
	if err != nil {
		return err
	}
	fp, err := pp.Fingerprint()
	if err != nil {
		return err
	}
	if !bytes.Equal(stored, fp) {
		return errors.Wrap(ErrSerialization, "artifact belongs to other public parameters")
	}

	return nil
}

// WriteSecretKey writes sk to w: the fingerprint of pp, the secret
// parameters of the graded encoding scheme and the Kilian randomizers
// row-major.
func (pp *Params) WriteSecretKey(w io.Writer, sk *SecretKey) (int64, error) {
	return writeArtifact(w, func(bw buffer.Writer) error {
		if err := writeHeader(bw, artifactSecretKey); err != nil {
			return err
		}
		if err := pp.writeFingerprint(bw); err != nil {
			return err
		}
		if err := sk.MMap.Write(bw); err != nil {
			return err
		}
		if err := internal.WriteInt(bw, len(sk.R)); err != nil {
			return err
		}
		for j := range sk.R {
			if err := writeMatrix(bw, sk.R[j]); err != nil {
				return err
			}
			if err := writeMatrix(bw, sk.RInv[j]); err != nil {
				return err
			}
		}

		return nil
	})
}

// ReadSecretKey reads a secret key written by Params.WriteSecretKey.
// The secret parameters of the graded encoding scheme are bound to the
// public parameters referenced by pp.
func ReadSecretKey(r io.Reader, pp *Params) (*SecretKey, error) {
	br, err := internal.NewReader(r)
	if err != nil {
		return nil, err
	}
	if err := readHeader(br, artifactSecretKey); err != nil {
		return nil, err
	}
	if err := pp.readFingerprint(br); err != nil {
		return nil, err
	}

	mmapSec, err := pp.Scheme.ReadSecret(br, pp.MMap)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read graded encoding secret parameters")
	}
	sk := &SecretKey{MMap: mmapSec}

	numR, err := internal.ReadLen(br)
	if err != nil {
		return nil, err
	}
	expected := pp.NumR
	if pp.Flags.Has(NoKilian) {
		expected = 0
	}
	if numR != expected {
		return nil, errors.Wrapf(ErrMalformedSecretKey, "%d Kilian randomizers instead of %d", numR, expected)
	}
	sk.R = make([]data.Matrix, numR)
	sk.RInv = make([]data.Matrix, numR)
	for j := 0; j < numR; j++ {
		if sk.R[j], err = readMatrix(br); err != nil {
			return nil, err
		}
		if sk.RInv[j], err = readMatrix(br); err != nil {
			return nil, err
		}
		if err := pp.checkRandomizer(sk.R[j], sk.RInv[j], j); err != nil {
			return nil, err
		}
	}

	return sk, nil
}

// checkRandomizer verifies that r and rInv are inverse matrices of the
// dimension of boundary j.
func (pp *Params) checkRandomizer(r, rInv data.Matrix, j int) error {
	d := pp.KilianDims[j]
	if !r.CheckDims(d, d) || !rInv.CheckDims(d, d) ||
		r.CheckBound(pp.P) != nil || rInv.CheckBound(pp.P) != nil {
		return errors.Wrapf(ErrMalformedSecretKey, "invalid Kilian randomizer %d", j)
	}
	prod, err := r.MulMod(rInv, pp.P)
	if err != nil || !prod.IsIdentity() {
		return errors.Wrapf(ErrMalformedSecretKey, "Kilian randomizer %d is not inverted", j)
	}

	return nil
}

// WriteCiphertext writes ct to w: the fingerprint of pp, the input and
// every encoded matrix of every branch, entries row-major.
func (pp *Params) WriteCiphertext(w io.Writer, ct *Ciphertext) (int64, error) {
	return writeArtifact(w, func(bw buffer.Writer) error {
		if err := writeHeader(bw, artifactCiphertext); err != nil {
			return err
		}
		if err := pp.writeFingerprint(bw); err != nil {
			return err
		}
		if err := internal.WriteInts(bw, []int{ct.Input, len(ct.Branches)}); err != nil {
			return err
		}
		for _, branch := range ct.Branches {
			if err := internal.WriteInt(bw, len(branch)); err != nil {
				return err
			}
			for _, m := range branch {
				if err := pp.writeEncodedMatrix(bw, m); err != nil {
					return err
				}
			}
		}

		return nil
	})
}

// ReadCiphertext reads a ciphertext written by Params.WriteCiphertext
// and checks it against pp.
func ReadCiphertext(r io.Reader, pp *Params) (*Ciphertext, error) {
	br, err := internal.NewReader(r)
	if err != nil {
		return nil, err
	}
	if err := readHeader(br, artifactCiphertext); err != nil {
		return nil, err
	}
	if err := pp.readFingerprint(br); err != nil {
		return nil, err
	}
	head, err := internal.ReadInts(br)
	if err != nil {
		return nil, err
	}
	if len(head) != 2 || head[0] < 0 || head[0] >= pp.NumInputs || head[1] != pp.MBP.Branches() {
		return nil, errors.Wrap(ErrMalformedCiphertext, "invalid ciphertext header")
	}

	ct := &Ciphertext{Input: head[0], Branches: make([][]*EncodedMatrix, head[1])}
	for d := range ct.Branches {
		n, err := internal.ReadLen(br)
		if err != nil {
			return nil, err
		}
		if n != pp.N[ct.Input] {
			return nil, errors.Wrapf(ErrMalformedCiphertext, "branch %d has %d matrices", d, n)
		}
		ct.Branches[d] = make([]*EncodedMatrix, n)
		for k := range ct.Branches[d] {
			if ct.Branches[d][k], err = pp.readEncodedMatrix(br); err != nil {
				return nil, err
			}
		}
	}
	if err := pp.checkCiphertext(ct); err != nil {
		return nil, err
	}

	return ct, nil
}

func writeMatrix(w buffer.Writer, m data.Matrix) error {
	if err := internal.WriteInts(w, []int{m.Rows(), m.Cols()}); err != nil {
		return err
	}
	for _, row := range m {
		for _, x := range row {
			if err := internal.WriteBigInt(w, x); err != nil {
				return err
			}
		}
	}

	return nil
}

func readMatrix(r buffer.Reader) (data.Matrix, error) {
	rows, cols, err := readDims(r)
	if err != nil {
		return nil, err
	}
	m := make(data.Matrix, rows)
	for i := range m {
		m[i] = make(data.Vector, cols)
		for j := range m[i] {
			if m[i][j], err = internal.ReadBigInt(r); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

func (pp *Params) writeEncodedMatrix(w buffer.Writer, m *EncodedMatrix) error {
	if err := internal.WriteInts(w, []int{m.Rows(), m.Cols()}); err != nil {
		return err
	}
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			if err := pp.MMap.WriteEncoding(w, m.At(i, j)); err != nil {
				return err
			}
		}
	}

	return nil
}

func (pp *Params) readEncodedMatrix(r buffer.Reader) (*EncodedMatrix, error) {
	rows, cols, err := readDims(r)
	if err != nil {
		return nil, err
	}
	m, err := NewEncodedMatrix(rows, cols)
	if err != nil {
		return nil, err
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			enc, err := pp.MMap.ReadEncoding(r)
			if err != nil {
				return nil, err
			}
			m.Set(i, j, enc)
		}
	}

	return m, nil
}

// maxDim bounds matrix dimensions read from untrusted input.
const maxDim = 1 << 12

func readDims(r buffer.Reader) (int, int, error) {
	dims, err := internal.ReadInts(r)
	if err != nil {
		return 0, 0, err
	}
	if len(dims) != 2 || dims[0] < 1 || dims[1] < 1 || dims[0] > maxDim || dims[1] > maxDim {
		return 0, 0, errors.Wrapf(ErrSerialization, "invalid matrix dimensions %v", dims)
	}

	return dims[0], dims[1], nil
}
