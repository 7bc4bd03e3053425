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

// Package mife implements multi-input functional encryption for
// functions given as matrix branching programs, on top of a graded
// encoding scheme.
//
// Setup derives the layout of the program's global product chain,
// sets up the graded encoding scheme and samples the Kilian
// randomizers. Each input is then encrypted independently with an
// Encryptor: the program's matrices for every possible digit are
// blinded, Kilian-randomized and encoded entry by entry at the index
// sets given by the partitioning. Anyone holding one ciphertext per
// input can Evaluate the program: for every global index the active
// encoded matrices are multiplied along the chain, the resulting
// encoding is zero-tested and the outcomes are parsed by the program.
package mife
