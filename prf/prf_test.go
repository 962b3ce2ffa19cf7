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

package prf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPRFDeterministic(t *testing.T) {
	key := []byte("some key material")
	out1 := PRF(key, 64)
	out2 := PRF(key, 64)
	assert.True(t, bytes.Equal(out1, out2))
	assert.Equal(t, 64, len(out1))
}

func TestPRFDifferentKeysDiffer(t *testing.T) {
	out1 := PRF([]byte("key-a"), 32)
	out2 := PRF([]byte("key-b"), 32)
	assert.False(t, bytes.Equal(out1, out2))
}

func TestPRFArbitraryLength(t *testing.T) {
	key := []byte("key")
	for _, l := range []int{0, 1, 31, 32, 33, 100, 257} {
		out := PRF(key, l)
		assert.Equal(t, l, len(out))
	}
}

func TestPRFLabeledDomainSeparation(t *testing.T) {
	key := []byte("key")
	a := PRFLabeled(key, []byte("label-a"), 32)
	b := PRFLabeled(key, []byte("label-b"), 32)
	assert.False(t, bytes.Equal(a, b))
}

func TestPRFLabeledMatchesConcatenation(t *testing.T) {
	key := []byte("key")
	label := []byte("label")
	got := PRFLabeled(key, label, 32)
	want := PRF(append(append([]byte{}, key...), label...), 32)
	assert.True(t, bytes.Equal(got, want))
}
