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

package mmap_test

import (
	"bytes"
	"testing"

	"github.com/fentec-project/mife/internal"
	"github.com/fentec-project/mife/mmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexSet(t *testing.T) {
	empty := mmap.IndexSet{}
	a := mmap.NewIndexSet(0, 2, 70)
	b := mmap.NewIndexSet(1, 3)

	assert.True(t, empty.IsEmpty())
	assert.True(t, empty.Equal(mmap.NewIndexSet()))
	assert.Equal(t, 3, a.Len())
	assert.True(t, a.Has(70))
	assert.False(t, a.Has(1))
	assert.False(t, a.Has(-1))
	assert.Equal(t, []int{0, 2, 70}, a.Elements())
	assert.Equal(t, "{0,2,70}", a.String())

	assert.True(t, a.Disjoint(b))
	assert.True(t, a.Disjoint(empty))
	assert.False(t, a.Disjoint(mmap.NewIndexSet(70)))

	u := a.Union(b)
	assert.Equal(t, []int{0, 1, 2, 3, 70}, u.Elements())
	assert.True(t, b.Union(a).Equal(u))
	assert.Equal(t, []int{0, 2, 70}, a.Elements(), "union should not modify its operands")

	assert.True(t, mmap.NewIndexSet(0, 1, 2).IsUniverse(3))
	assert.False(t, mmap.NewIndexSet(0, 2).IsUniverse(3))
	assert.True(t, mmap.UniverseSet(0).IsEmpty())
	assert.True(t, a.Within(71))
	assert.False(t, a.Within(70))
	assert.True(t, empty.Within(0))

	// equality ignores how the sets were built
	assert.True(t, mmap.UniverseSet(200).Equal(mmap.UniverseSet(200)))
	assert.True(t, mmap.NewIndexSet(130).Union(mmap.NewIndexSet(1)).Equal(mmap.NewIndexSet(1, 130)))
	assert.False(t, mmap.NewIndexSet(1).Equal(mmap.NewIndexSet(1, 130)))
	assert.True(t, empty.Union(mmap.NewIndexSet()).IsEmpty())

	assert.Panics(t, func() { mmap.NewIndexSet(-2) })
}

func TestIndexSet_Serialization(t *testing.T) {
	s := mmap.NewIndexSet(1, 4, 5)

	var buf bytes.Buffer
	w := internal.NewWriter(&buf)
	require.NoError(t, mmap.WriteIndexSet(w, s))
	require.NoError(t, w.Flush())
	data := buf.Bytes()

	r, err := internal.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	read, err := mmap.ReadIndexSet(r, 6)
	require.NoError(t, err)
	assert.True(t, s.Equal(read))

	r, err = internal.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	_, err = mmap.ReadIndexSet(r, 5)
	assert.ErrorIs(t, err, internal.Serialization)
}
