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

package internal

import (
	"bufio"
	"io"
	"math/big"

	"github.com/pkg/errors"
	"github.com/tuneinsight/lattigo/v6/utils/buffer"
)

// maxChunk bounds every length prefix read from untrusted input.
const maxChunk = 1 << 28

// NewWriter returns w as a buffer.Writer, wrapping it into a
// bufio.Writer when needed. Callers must Flush the result.
func NewWriter(w io.Writer) buffer.Writer {
	if bw, ok := w.(buffer.Writer); ok {
		return bw
	}

	return bufio.NewWriter(w)
}

// NewReader loads the remaining content of r into an in-memory
// buffer.Buffer, unless r already is one.
func NewReader(r io.Reader) (*buffer.Buffer, error) {
	if br, ok := r.(*buffer.Buffer); ok {
		return br, nil
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(Serialization, err.Error())
	}

	return buffer.NewBuffer(b), nil
}

// WriteInt writes v as a little-endian 64-bit word.
func WriteInt(w buffer.Writer, v int) error {
	_, err := buffer.WriteUint64(w, uint64(int64(v)))
	return err
}

// ReadInt reads an int written by WriteInt.
func ReadInt(r buffer.Reader) (int, error) {
	var v uint64
	if _, err := buffer.ReadUint64(r, &v); err != nil {
		return 0, errors.Wrapf(Serialization, "truncated integer: %v", err)
	}

	return int(int64(v)), nil
}

// WriteInts writes a length-prefixed slice of ints.
func WriteInts(w buffer.Writer, v []int) error {
	if err := WriteInt(w, len(v)); err != nil {
		return err
	}
	for _, vi := range v {
		if err := WriteInt(w, vi); err != nil {
			return err
		}
	}

	return nil
}

// ReadInts reads a slice written by WriteInts.
func ReadInts(r buffer.Reader) ([]int, error) {
	l, err := ReadLen(r)
	if err != nil {
		return nil, err
	}
	v := make([]int, l)
	for i := range v {
		if v[i], err = ReadInt(r); err != nil {
			return nil, err
		}
	}

	return v, nil
}

// ReadLen reads a length prefix and checks that it is sane. Every
// element takes at least one byte, so the length may not exceed the
// bytes left in r.
func ReadLen(r buffer.Reader) (int, error) {
	l, err := ReadInt(r)
	if err != nil {
		return 0, err
	}
	if l < 0 || l > maxChunk || l > r.Size() {
		return 0, errors.Wrapf(Serialization, "invalid length %d", l)
	}

	return l, nil
}

// WriteBytes writes a length-prefixed byte slice.
func WriteBytes(w buffer.Writer, b []byte) error {
	if err := WriteInt(w, len(b)); err != nil {
		return err
	}
	_, err := w.Write(b)

	return err
}

// ReadBytes reads a byte slice written by WriteBytes.
func ReadBytes(r buffer.Reader) ([]byte, error) {
	l, err := ReadLen(r)
	if err != nil {
		return nil, err
	}
	b := make([]byte, l)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, errors.Wrapf(Serialization, "truncated data: %v", err)
	}

	return b, nil
}

// WriteString writes a length-prefixed string.
func WriteString(w buffer.Writer, s string) error {
	return WriteBytes(w, []byte(s))
}

// ReadString reads a string written by WriteString.
func ReadString(r buffer.Reader) (string, error) {
	b, err := ReadBytes(r)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// WriteBigInt writes the sign and the absolute value of x.
func WriteBigInt(w buffer.Writer, x *big.Int) error {
	sign := uint8(0)
	if x.Sign() < 0 {
		sign = 1
	}
	if _, err := buffer.WriteUint8(w, sign); err != nil {
		return err
	}

	return WriteBytes(w, x.Bytes())
}

// ReadBigInt reads a big.Int written by WriteBigInt.
func ReadBigInt(r buffer.Reader) (*big.Int, error) {
	var sign uint8
	if _, err := buffer.ReadUint8(r, &sign); err != nil {
		return nil, errors.Wrapf(Serialization, "truncated integer sign: %v", err)
	}
	if sign > 1 {
		return nil, errors.Wrapf(Serialization, "invalid sign byte %d", sign)
	}
	b, err := ReadBytes(r)
	if err != nil {
		return nil, err
	}
	x := new(big.Int).SetBytes(b)
	if sign == 1 {
		x.Neg(x)
	}

	return x, nil
}

// WriteBigInts writes a length-prefixed slice of big.Int values.
func WriteBigInts(w buffer.Writer, xs []*big.Int) error {
	if err := WriteInt(w, len(xs)); err != nil {
		return err
	}
	for _, x := range xs {
		if err := WriteBigInt(w, x); err != nil {
			return err
		}
	}

	return nil
}

// ReadBigInts reads a slice written by WriteBigInts.
func ReadBigInts(r buffer.Reader) ([]*big.Int, error) {
	l, err := ReadLen(r)
	if err != nil {
		return nil, err
	}
	xs := make([]*big.Int, l)
	for i := range xs {
		if xs[i], err = ReadBigInt(r); err != nil {
			return nil, err
		}
	}

	return xs, nil
}
