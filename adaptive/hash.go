// Copyright © 2020 AMIS Technologies
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package adaptive

import "math/big"

// lambdaBytesFor computes λ_bytes = max(16, ceil(ceil(log2 q)/2 / 8)) from
// the subgroup order q. big.Int.BitLen() is used as ceil(log2 q) per the
// Open Question decision recorded in SPEC_FULL.md: the truncation point is
// preserved bit-for-bit as specified, not re-derived from a formal bound.
func lambdaBytesFor(q *big.Int) int {
	logQ := q.BitLen()
	half := (logQ + 1) / 2
	lambdaBytes := (half + 7) / 8
	if lambdaBytes < 16 {
		lambdaBytes = 16
	}
	return lambdaBytes
}

// pairwiseHash computes h(x) = LSB_{8*lambdaBytes}((alpha*(x mod q) + beta) mod q),
// emitted as a fixed-width lambdaBytes big-endian key.
func pairwiseHash(alpha, beta, q, x *big.Int, lambdaBytes int) []byte {
	v := new(big.Int).Mod(x, q)
	t := new(big.Int).Mod(new(big.Int).Add(new(big.Int).Mul(alpha, v), beta), q)

	mask := new(big.Int).Lsh(big.NewInt(1), uint(8*lambdaBytes))
	truncated := new(big.Int).Mod(t, mask)

	buf := make([]byte, lambdaBytes)
	b := truncated.Bytes()
	copy(buf[lambdaBytes-len(b):], b)
	return buf
}
