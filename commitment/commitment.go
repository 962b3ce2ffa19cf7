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

// Package commitment implements the Naor-Pinkas-style hash-based
// commitment: a PRF-derived one-time pad for hiding, an HMAC tag bound to
// a length header and associated data for binding.
package commitment

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"

	"github.com/SJieNg123/ot-ddh/errs"
	"github.com/SJieNg123/ot-ddh/prf"
)

const (
	// PadLabel domain-separates pad derivation from MAC key derivation.
	PadLabel = "NP05-COMMIT-PAD"
	// MacLabel domain-separates MAC key derivation from pad derivation.
	MacLabel = "NP05-COMMIT-MAC"

	tagLen = 32
	hdrLen = 4
)

// Commit produces a blob hdr(4) || ct(len(msg)) || tag(32) binding msg to
// key K and associated data aad. K must be non-empty.
func Commit(msg, key, aad []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, errs.ErrMalformedInput
	}

	hdr := make([]byte, hdrLen)
	binary.BigEndian.PutUint32(hdr, uint32(len(msg)))

	pad := prf.PRFLabeled(key, []byte(PadLabel), len(msg))
	ct := xorBytes(msg, pad)

	macKey := prf.PRFLabeled(key, []byte(MacLabel), tagLen)
	tag := tagFor(macKey, hdr, aad, ct)

	blob := make([]byte, 0, hdrLen+len(ct)+tagLen)
	blob = append(blob, hdr...)
	blob = append(blob, ct...)
	blob = append(blob, tag...)
	return blob, nil
}

// Open recovers the message bound into blob, failing with
// errs.ErrInvalidCommitment on any length or tag mismatch.
func Open(blob, key, aad []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, errs.ErrMalformedInput
	}
	if len(blob) < hdrLen+tagLen {
		return nil, errs.ErrInvalidCommitment
	}

	hdr := blob[:hdrLen]
	mlen := binary.BigEndian.Uint32(hdr)
	ct := blob[hdrLen : len(blob)-tagLen]
	tag := blob[len(blob)-tagLen:]

	if uint32(len(ct)) != mlen {
		return nil, errs.ErrInvalidCommitment
	}

	macKey := prf.PRFLabeled(key, []byte(MacLabel), tagLen)
	expected := tagFor(macKey, hdr, aad, ct)
	if subtle.ConstantTimeCompare(expected, tag) != 1 {
		return nil, errs.ErrInvalidCommitment
	}

	pad := prf.PRFLabeled(key, []byte(PadLabel), int(mlen))
	return xorBytes(ct, pad), nil
}

// Verify reports whether blob opens successfully under (key, aad) and, if
// expected is non-nil, that the opened message equals expected.
func Verify(blob, key, aad, expected []byte) bool {
	msg, err := Open(blob, key, aad)
	if err != nil {
		return false
	}
	if expected == nil {
		return true
	}
	return subtle.ConstantTimeCompare(msg, expected) == 1
}

func tagFor(macKey, hdr, aad, ct []byte) []byte {
	mac := hmac.New(sha256.New, macKey)
	mac.Write(hdr)
	mac.Write(aad)
	mac.Write(ct)
	return mac.Sum(nil)
}

func xorBytes(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out
}
