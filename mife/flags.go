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

import "strings"

// Flags switch off parts of the randomization or force the simple
// partitioning. They are fixed at setup.
type Flags uint8

const (
	// Default enables both randomizations and the default partitioning.
	Default Flags = 0
	// NoKilian disables Kilian randomization.
	NoKilian Flags = 0x01
	// NoRandomizers disables scalar randomization.
	NoRandomizers Flags = 0x02
	// SimplePartitions encodes the matrices of input 0 at the universe
	// set and those of every other input at the empty set.
	SimplePartitions Flags = 0x04

	allFlags = NoKilian | NoRandomizers | SimplePartitions
)

// Has reports whether all flags in f2 are set in f.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

func (f Flags) String() string {
	if f == Default {
		return "default"
	}
	var names []string
	if f.Has(NoKilian) {
		names = append(names, "no-kilian")
	}
	if f.Has(NoRandomizers) {
		names = append(names, "no-randomizers")
	}
	if f.Has(SimplePartitions) {
		names = append(names, "simple-partitions")
	}

	return strings.Join(names, "|")
}
