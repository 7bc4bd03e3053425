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

package mife_test

import (
	"crypto/rand"
	"testing"

	"github.com/fentec-project/mife/mbp"
	"github.com/fentec-project/mife/mife"
	"github.com/fentec-project/mife/mmap"
	"github.com/fentec-project/mife/mmap/clear"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitions_Complete(t *testing.T) {
	cfg := mife.Config{NumInputs: 2, L: 2, Lambda: 16}
	pp, _, err := mife.Setup(mbp.Comparison{}, cfg, clear.Scheme{}, rand.Reader)
	require.NoError(t, err)

	for index := 0; index < pp.Indices(); index++ {
		part, err := pp.Partitions(index)
		require.NoError(t, err)
		assert.Equal(t, index, part.Index)

		covered := make([]int, pp.Gamma)
		for i := range part.Sets {
			require.Len(t, part.Sets[i], pp.N[i])
			for _, set := range part.Sets[i] {
				for _, e := range set.Elements() {
					covered[e]++
				}
			}
		}
		ones := make([]int, pp.Gamma)
		for k := range ones {
			ones[k] = 1
		}
		if diff := cmp.Diff(ones, covered); diff != "" {
			t.Errorf("index %d does not cover the universe exactly once (-want +got):\n%s", index, diff)
		}
	}
}

func TestPartitions_Digits(t *testing.T) {
	cfg := mife.Config{NumInputs: 2, L: 2, Lambda: 16}
	pp, _, err := mife.Setup(mbp.Comparison{}, cfg, clear.Scheme{}, rand.Reader)
	require.NoError(t, err)

	part, err := pp.Partitions(pp.MBP.Index(3, 1))
	require.NoError(t, err)
	if diff := cmp.Diff([]int{3, 1}, part.Digits); diff != "" {
		t.Errorf("unexpected digits (-want +got):\n%s", diff)
	}

	// input 1 owns elements 2 and 3, rotated by its digit
	assert.Equal(t, []int{3}, part.Sets[1][0].Elements())
	assert.Equal(t, []int{2}, part.Sets[1][1].Elements())
	// input 0 owns elements 0 and 1, rotated by 3
	assert.Equal(t, []int{1}, part.Sets[0][0].Elements())
	assert.Equal(t, []int{0}, part.Sets[0][1].Elements())

	sets, err := pp.BranchSets(1, 1)
	require.NoError(t, err)
	assert.True(t, cmp.Equal(part.Sets[1], sets, cmp.Comparer(func(a, b mmap.IndexSet) bool {
		return a.Equal(b)
	})))
}

func TestPartitions_InvalidIndex(t *testing.T) {
	cfg := mife.Config{NumInputs: 2, L: 2, Lambda: 16}
	pp, _, err := mife.Setup(mbp.Equality{}, cfg, clear.Scheme{}, rand.Reader)
	require.NoError(t, err)

	_, err = pp.Partitions(-1)
	assert.ErrorIs(t, err, mife.ErrInvalidIndex)
	_, err = pp.Partitions(16)
	assert.ErrorIs(t, err, mife.ErrInvalidIndex)
	_, err = pp.Partitions(15)
	assert.NoError(t, err)

	_, err = pp.BranchSets(2, 0)
	assert.ErrorIs(t, err, mife.ErrInvalidIndex)
	_, err = pp.BranchSets(0, 4)
	assert.ErrorIs(t, err, mife.ErrInvalidIndex)
}

func TestPartitions_Simple(t *testing.T) {
	cfg := mife.Config{NumInputs: 2, L: 2, Lambda: 16, Flags: mife.SimplePartitions}
	pp, _, err := mife.Setup(mbp.Equality{}, cfg, clear.Scheme{}, rand.Reader)
	require.NoError(t, err)

	for index := 0; index < pp.Indices(); index++ {
		part, err := pp.Partitions(index)
		require.NoError(t, err)
		assert.True(t, part.Sets[0][0].IsUniverse(pp.Gamma))
		assert.True(t, part.Sets[1][0].IsEmpty())
	}
}
