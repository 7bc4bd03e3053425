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

package mmap

import (
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/fentec-project/mife/internal"
	"github.com/pkg/errors"
	"github.com/tuneinsight/lattigo/v6/utils/buffer"
)

// IndexSet is an immutable subset of the universe {0, ..., n-1}. The
// zero value is the empty set.
type IndexSet struct {
	b *bitset.BitSet
}

var emptyBits = bitset.New(0)

// NewIndexSet returns the set holding the given elements. Negative
// elements cause a panic.
func NewIndexSet(elems ...int) IndexSet {
	b := bitset.New(0)
	for _, e := range elems {
		if e < 0 {
			panic(errors.Wrapf(internal.InvalidIndex, "negative index set element %d", e))
		}
		b.Set(uint(e))
	}

	return IndexSet{b: b}
}

// UniverseSet returns {0, ..., n-1}.
func UniverseSet(n int) IndexSet {
	b := bitset.New(uint(n))
	for i := 0; i < n; i++ {
		b.Set(uint(i))
	}

	return IndexSet{b: b}
}

// bits returns the underlying bit set, which must not be modified.
func (s IndexSet) bits() *bitset.BitSet {
	if s.b == nil {
		return emptyBits
	}

	return s.b
}

// Has reports whether e is in s.
func (s IndexSet) Has(e int) bool {
	return e >= 0 && s.bits().Test(uint(e))
}

// Len returns the number of elements of s.
func (s IndexSet) Len() int {
	return int(s.bits().Count())
}

// IsEmpty reports whether s has no elements.
func (s IndexSet) IsEmpty() bool {
	return s.bits().None()
}

// Elements returns the elements of s in increasing order.
func (s IndexSet) Elements() []int {
	b := s.bits()
	elems := make([]int, 0, b.Count())
	for e, ok := b.NextSet(0); ok; e, ok = b.NextSet(e + 1) {
		elems = append(elems, int(e))
	}

	return elems
}

// Union returns the union of s and other.
func (s IndexSet) Union(other IndexSet) IndexSet {
	return IndexSet{b: s.bits().Union(other.bits())}
}

// Disjoint reports whether s and other have no element in common.
func (s IndexSet) Disjoint(other IndexSet) bool {
	return s.bits().IntersectionCardinality(other.bits()) == 0
}

// Equal reports whether s and other hold the same elements, regardless
// of the capacity of their bit sets.
func (s IndexSet) Equal(other IndexSet) bool {
	return s.bits().SymmetricDifferenceCardinality(other.bits()) == 0
}

// IsUniverse reports whether s equals {0, ..., n-1}.
func (s IndexSet) IsUniverse(n int) bool {
	return s.Equal(UniverseSet(n))
}

// Within reports whether every element of s is below n.
func (s IndexSet) Within(n int) bool {
	if n <= 0 {
		return s.IsEmpty()
	}
	_, found := s.bits().NextSet(uint(n))

	return !found
}

func (s IndexSet) String() string {
	elems := s.Elements()
	strs := make([]string, len(elems))
	for i, e := range elems {
		strs[i] = strconv.Itoa(e)
	}

	return "{" + strings.Join(strs, ",") + "}"
}

// WriteIndexSet writes s as a list of its elements.
func WriteIndexSet(w buffer.Writer, s IndexSet) error {
	return internal.WriteInts(w, s.Elements())
}

// ReadIndexSet reads a set written by WriteIndexSet and checks that it
// fits in a universe of the given size.
func ReadIndexSet(r buffer.Reader, universe int) (IndexSet, error) {
	elems, err := internal.ReadInts(r)
	if err != nil {
		return IndexSet{}, err
	}
	for _, e := range elems {
		if e < 0 || e >= universe {
			return IndexSet{}, errors.Wrapf(internal.Serialization,
				"index set element %d outside universe of size %d", e, universe)
		}
	}

	return NewIndexSet(elems...), nil
}
