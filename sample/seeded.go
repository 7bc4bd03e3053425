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
	"io"

	"github.com/pkg/errors"
	"github.com/tuneinsight/lattigo/v6/utils/sampling"
	"github.com/zeebo/blake3"
)

// DetKey hashes an arbitrary seed into a 32 byte key usable by
// NewUniformDet and NewDetReader.
func DetKey(seed []byte) *[32]byte {
	key := blake3.Sum256(seed)
	return &key
}

// NewSeededSource returns a deterministic stream of random bytes
// derived from seed. The stream is a keyed blake2b XOF and must not be
// shared between goroutines if reproducibility matters.
func NewSeededSource(seed []byte) (io.Reader, error) {
	key := DetKey(seed)
	prng, err := sampling.NewKeyedPRNG(key[:])
	if err != nil {
		return nil, errors.Wrap(err, "cannot instantiate keyed PRNG")
	}

	return prng, nil
}
