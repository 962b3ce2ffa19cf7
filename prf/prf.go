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

// Package prf implements the SHA-256 counter-mode PRF that every other
// cryptographic construction in this module derives its pads and MAC keys
// from. No other package may invent its own key schedule.
package prf

import (
	"crypto/sha256"
	"encoding/binary"
)

// PRF derives outLen pseudorandom bytes from key by concatenating
// SHA256(key || big_endian_u32(counter)) for counter = 0, 1, ... and
// truncating to outLen.
func PRF(key []byte, outLen int) []byte {
	out := make([]byte, 0, outLen+sha256.Size)
	var counter uint32
	for len(out) < outLen {
		var ctrBytes [4]byte
		binary.BigEndian.PutUint32(ctrBytes[:], counter)
		h := sha256.New()
		h.Write(key)
		h.Write(ctrBytes[:])
		out = h.Sum(out)
		counter++
	}
	return out[:outLen]
}

// PRFLabeled is PRF(key || label, outLen): label is a domain separator.
func PRFLabeled(key, label []byte, outLen int) []byte {
	keyed := make([]byte, 0, len(key)+len(label))
	keyed = append(keyed, key...)
	keyed = append(keyed, label...)
	return PRF(keyed, outLen)
}
