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

import "math/big"

// ModExp calculates g^x in Z_m*, even if x < 0.
// For x < 0 the result is nil when g is not invertible modulo m.
func ModExp(g, x, m *big.Int) *big.Int {
	ret := new(big.Int)
	if x.Sign() == -1 {
		xNeg := new(big.Int).Neg(x)
		ret.Exp(g, xNeg, m)
		return ret.ModInverse(ret, m)
	}

	return ret.Exp(g, x, m)
}

// ModCentered reduces x modulo m into the interval (-m/2, m/2].
// The result is returned in a new big.Int.
func ModCentered(x, m *big.Int) *big.Int {
	ret := new(big.Int).Mod(x, m)
	half := new(big.Int).Rsh(m, 1)
	if ret.Cmp(half) > 0 {
		ret.Sub(ret, m)
	}

	return ret
}
