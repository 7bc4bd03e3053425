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

package internal_test

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/fentec-project/mife/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/lattigo/v6/utils/buffer"
)

func TestCodec(t *testing.T) {
	var buf bytes.Buffer
	w := internal.NewWriter(&buf)
	require.NoError(t, internal.WriteInts(w, []int{3, -1, 1 << 40}))
	require.NoError(t, internal.WriteString(w, "clt"))
	require.NoError(t, internal.WriteBigInts(w, []*big.Int{big.NewInt(-12345), new(big.Int).Lsh(big.NewInt(1), 300)}))
	require.NoError(t, w.Flush())

	r, err := internal.NewReader(&buf)
	require.NoError(t, err)
	ints, err := internal.ReadInts(r)
	require.NoError(t, err)
	assert.Equal(t, []int{3, -1, 1 << 40}, ints)
	s, err := internal.ReadString(r)
	require.NoError(t, err)
	assert.Equal(t, "clt", s)
	xs, err := internal.ReadBigInts(r)
	require.NoError(t, err)
	require.Len(t, xs, 2)
	assert.Equal(t, 0, xs[0].Cmp(big.NewInt(-12345)))
	assert.Equal(t, 301, xs[1].BitLen())

	_, err = internal.ReadInt(r)
	assert.ErrorIs(t, err, internal.Serialization, "nothing left to read")
}

func TestReadLen_Corrupt(t *testing.T) {
	lengths := []int{-1, 1 << 27, 9}
	for _, l := range lengths {
		var buf bytes.Buffer
		w := internal.NewWriter(&buf)
		require.NoError(t, internal.WriteInt(w, l))
		_, err := w.Write(make([]byte, 8))
		require.NoError(t, err)
		require.NoError(t, w.Flush())

		_, err = internal.ReadBytes(buffer.NewBuffer(buf.Bytes()))
		assert.ErrorIs(t, err, internal.Serialization, "length %d", l)
	}
}
