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

// Package ot implements the two turn-based oblivious transfer protocols
// this module builds on: a DDH-based 1-out-of-2 OT (this file) and a
// 1-out-of-m OT composed from ℓ instances of it (ot_m.go).
package ot

import (
	"math/big"

	"github.com/SJieNg123/ot-ddh/errs"
	"github.com/SJieNg123/ot-ddh/group"
	"github.com/SJieNg123/ot-ddh/prf"
	"github.com/SJieNg123/ot-ddh/rng"
)

// DDHOTSender is the sender side of a single 1-out-of-2 Naor-Pinkas DDH OT.
type DDHOTSender struct {
	grp *group.Group
	a   *big.Int
	A   *big.Int
}

// NewDDHOTSender samples a ∈ Z_q* and publishes A = g^a.
func NewDDHOTSender(grp *group.Group, r rng.Rng) (*DDHOTSender, error) {
	a, err := grp.RandScalarNonzero(r)
	if err != nil {
		return nil, err
	}
	return &DDHOTSender{
		grp: grp,
		a:   a,
		A:   grp.Pow(grp.G(), a),
	}, nil
}

// PublicKey returns A = g^a.
func (s *DDHOTSender) PublicKey() *big.Int {
	return new(big.Int).Set(s.A)
}

// Respond derives K0 = B^a, K1 = (B·A^-1)^a and returns the two PRF-masked
// ciphertexts. m0 and m1 must have equal length, and B must satisfy
// 1 < B < p.
func (s *DDHOTSender) Respond(B *big.Int, m0, m1 []byte) (c0, c1 []byte, err error) {
	p := s.grp.P()
	if B.Cmp(big.NewInt(1)) <= 0 || B.Cmp(p) >= 0 {
		return nil, nil, errs.ErrInvalidGroupElement
	}
	if len(m0) != len(m1) {
		return nil, nil, errs.ErrMalformedInput
	}

	k0 := s.grp.Pow(B, s.a)

	aInv := new(big.Int).ModInverse(s.A, p)
	if aInv == nil {
		return nil, nil, errs.ErrInvalidGroupElement
	}
	bDivA := new(big.Int).Mod(new(big.Int).Mul(B, aInv), p)
	k1 := s.grp.Pow(bDivA, s.a)

	keyLen := s.grp.PBytes()
	pad0 := prf.PRF(encodeKey(k0, keyLen), len(m0))
	pad1 := prf.PRF(encodeKey(k1, keyLen), len(m1))

	return xorBytes(m0, pad0), xorBytes(m1, pad1), nil
}

// Destroy zeroizes the sender's secret exponent a, per §5. Respond MUST NOT
// be called again afterwards.
func (s *DDHOTSender) Destroy() {
	if s.a != nil {
		s.a.SetInt64(0)
	}
	s.a = nil
}

// DDHOTReceiver is the receiver side of a single 1-out-of-2 DDH OT, bound
// to a fixed choice bit for its lifetime.
type DDHOTReceiver struct {
	grp    *group.Group
	choice int
	b      *big.Int
	A      *big.Int
}

// NewDDHOTReceiver samples b ∈ Z_q* for the given choice bit (0 or 1).
func NewDDHOTReceiver(grp *group.Group, choice int, r rng.Rng) (*DDHOTReceiver, error) {
	if choice != 0 && choice != 1 {
		return nil, errs.ErrMalformedInput
	}
	b, err := grp.RandScalarNonzero(r)
	if err != nil {
		return nil, err
	}
	return &DDHOTReceiver{grp: grp, choice: choice, b: b}, nil
}

// GenerateB computes B = g^b (choice 0) or B = A·g^b (choice 1) from the
// sender's public key A, storing A for later key reconstruction.
func (rcv *DDHOTReceiver) GenerateB(A *big.Int) *big.Int {
	rcv.A = new(big.Int).Set(A)
	gb := rcv.grp.Pow(rcv.grp.G(), rcv.b)
	if rcv.choice == 0 {
		return gb
	}
	return new(big.Int).Mod(new(big.Int).Mul(A, gb), rcv.grp.P())
}

// Recover computes K = A^b (which equals K_choice) and unmasks the chosen
// ciphertext.
func (rcv *DDHOTReceiver) Recover(c0, c1 []byte) []byte {
	k := rcv.grp.Pow(rcv.A, rcv.b)
	keyLen := rcv.grp.PBytes()
	ct := c0
	if rcv.choice == 1 {
		ct = c1
	}
	pad := prf.PRF(encodeKey(k, keyLen), len(ct))
	return xorBytes(ct, pad)
}

// Destroy zeroizes the receiver's secret exponent b, per §5. GenerateB and
// Recover MUST NOT be called again afterwards.
func (rcv *DDHOTReceiver) Destroy() {
	if rcv.b != nil {
		rcv.b.SetInt64(0)
	}
	rcv.b = nil
}

func encodeKey(k *big.Int, l int) []byte {
	buf := make([]byte, l)
	b := k.Bytes()
	if len(b) > l {
		b = b[len(b)-l:]
	}
	copy(buf[l-len(b):], b)
	return buf
}

func xorBytes(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out
}
