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

package sample

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/big"

	"golang.org/x/crypto/salsa20"
)

// UniformDet samples values from the interval [0, max) using the
// salsa20 keystream under key, so the same key always yields the
// same sequence.
type UniformDet struct {
	max     *big.Int
	maxBits int
	stream  io.Reader
}

// NewUniformDet returns an instance of the UniformDet sampler.
// It accepts an upper bound on the sampled values and the key of
// the keystream.
func NewUniformDet(max *big.Int, key *[32]byte) *UniformDet {
	maxBits := new(big.Int).Sub(max, big.NewInt(1)).BitLen()
	return &UniformDet{
		max:     max,
		maxBits: maxBits,
		stream:  NewDetReader(key),
	}
}

// Sample returns the next value of the deterministic sequence.
func (u *UniformDet) Sample() (*big.Int, error) {
	if u.max.Cmp(big.NewInt(2)) < 0 {
		return nil, fmt.Errorf("upper bound on samples should be at least 2")
	}

	maxBytes := (u.maxBits + 7) / 8
	over := uint((8 * maxBytes) - u.maxBits)
	out := make([]byte, maxBytes)
	for {
		if _, err := io.ReadFull(u.stream, out); err != nil {
			return nil, err
		}
		out[0] = out[0] >> over
		ret := new(big.Int).SetBytes(out)
		if ret.Cmp(u.max) < 0 {
			return ret, nil
		}
	}
}

// detReader is an io.Reader over the salsa20 keystream, using a block
// counter as the nonce.
type detReader struct {
	key     *[32]byte
	counter uint64
	buf     []byte
}

// NewDetReader returns an endless deterministic stream of bytes
// generated by salsa20 under key.
func NewDetReader(key *[32]byte) io.Reader {
	return &detReader{key: key}
}

func (d *detReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(d.buf) == 0 {
			d.refill()
		}
		c := copy(p[n:], d.buf)
		d.buf = d.buf[c:]
		n += c
	}

	return n, nil
}

func (d *detReader) refill() {
	nonce := make([]byte, 8)
	binary.LittleEndian.PutUint64(nonce, d.counter)
	d.counter++

	in := make([]byte, 64) // keystream of a zero input
	out := make([]byte, 64)
	salsa20.XORKeyStream(out, in, nonce, d.key)
	d.buf = out
}
