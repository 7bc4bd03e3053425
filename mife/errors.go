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

import "github.com/fentec-project/mife/internal"

// Errors returned by this package. Errors are wrapped with context, use
// errors.Is to match them.
var (
	ErrDimensionMismatch   = internal.DimensionMismatch
	ErrNotInvertible       = internal.NotInvertible
	ErrInvalidIndex        = internal.InvalidIndex
	ErrPrimitiveFailure    = internal.PrimitiveFailure
	ErrSerialization       = internal.Serialization
	ErrMalformedParams     = internal.MalformedParams
	ErrMalformedSecretKey  = internal.MalformedSecKey
	ErrMalformedCiphertext = internal.MalformedCipher
	ErrMalformedInput      = internal.MalformedInput
)
