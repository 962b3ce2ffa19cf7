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

// Package group implements prime-order subgroup arithmetic in Z_p*, using
// the standardized RFC 3526 2048-bit MODP group rather than generating
// parameters at runtime.
package group

import (
	"math/big"
	"strings"

	"github.com/SJieNg123/ot-ddh/errs"
	"github.com/SJieNg123/ot-ddh/rng"
)

// rfc3526Modp2048Hex is the RFC 3526 2048-bit MODP group prime.
const rfc3526Modp2048Hex = `
	FFFFFFFF FFFFFFFF C90FDAA2 2168C234 C4C6628B 80DC1CD1
	29024E08 8A67CC74 020BBEA6 3B139B22 514A0879 8E3404DD
	EF9519B3 CD3A431B 302B0A6D F25F1437 4FE1356D 6D51C245
	E485B576 625E7EC6 F44C42E9 A637ED6B 0BFF5CB6 F406B7ED
	EE386BFB 5A899FA5 AE9F2411 7C4B1FE6 49286651 ECE45B3D
	C2007CB8 A163BF05 98DA4836 1C55D39A 69163FA8 FD24CF5F
	83655D23 DCA3AD96 1C62F356 208552BB 9ED52907 7096966D
	670C354E 4ABC9804 F1746C08 CA18217C 32905E46 2E36CE3B
	E39E772C 180E8603 9B2783A2 EC07A28F B5C55DF0 6F4C52C9
	DE2BCBF6 95581718 3995497C EA956AE5 15D22618 98FA0510
	15728E5A 8AACAA68 FFFFFFFF FFFFFFFF`

var (
	big0 = big.NewInt(0)
	big1 = big.NewInt(1)
	big2 = big.NewInt(2)
)

// Group is an immutable set of DDH group parameters: a safe prime p, the
// order-q subgroup generated by g, with q = (p-1)/2.
type Group struct {
	p *big.Int
	q *big.Int
	g *big.Int
}

// NewGroup constructs the standardized 2048-bit MODP group and runs the
// self-check invariant g^q ≡ 1 (mod p), g^2 ≢ 1 (mod p). It never
// generates parameters at runtime.
func NewGroup() (*Group, error) {
	hex := strings.ReplaceAll(strings.ReplaceAll(rfc3526Modp2048Hex, " ", ""), "\n", "")
	hex = strings.ReplaceAll(hex, "\t", "")
	p, ok := new(big.Int).SetString(hex, 16)
	if !ok {
		return nil, errs.ErrInvalidParameters
	}
	q := new(big.Int).Rsh(new(big.Int).Sub(p, big1), 1) // q = (p-1)/2
	g := big2

	gq := new(big.Int).Exp(g, q, p)
	if gq.Cmp(big1) != 0 {
		return nil, errs.ErrInvalidParameters
	}
	g2 := new(big.Int).Exp(g, big2, p)
	if g2.Cmp(big1) == 0 {
		return nil, errs.ErrInvalidParameters
	}

	return &Group{p: p, q: q, g: g}, nil
}

// P returns the prime modulus.
func (grp *Group) P() *big.Int { return new(big.Int).Set(grp.p) }

// Q returns the subgroup order.
func (grp *Group) Q() *big.Int { return new(big.Int).Set(grp.q) }

// G returns the subgroup generator.
func (grp *Group) G() *big.Int { return new(big.Int).Set(grp.g) }

// QBytes is the fixed-width big-endian encoding length for a Z_q element.
func (grp *Group) QBytes() int {
	return (grp.q.BitLen() + 7) / 8
}

// PBytes is the fixed-width big-endian encoding length for an element of
// Z_p (used to encode OT-derived keys before handing them to the PRF).
func (grp *Group) PBytes() int {
	return (grp.p.BitLen() + 7) / 8
}

// Pow computes base^exp mod p. Every exponent given to the group MUST be
// reduced mod q by the caller before use (invariant 1, §3); Pow itself does
// not reduce exp, since some callers (blinded exponent products) pass
// values already taken mod q deliberately and others pass inverses mod q.
func (grp *Group) Pow(base, exp *big.Int) *big.Int {
	b := new(big.Int).Mod(base, grp.p)
	return new(big.Int).Exp(b, exp, grp.p)
}

// InSubgroup reports whether 1 < x < p and x^q ≡ 1 (mod p).
func (grp *Group) InSubgroup(x *big.Int) bool {
	if x.Cmp(big1) <= 0 || x.Cmp(grp.p) >= 0 {
		return false
	}
	return new(big.Int).Exp(x, grp.q, grp.p).Cmp(big1) == 0
}

// InvQ computes x^-1 mod q via Fermat's little theorem (q prime):
// x^(q-2) mod q.
func (grp *Group) InvQ(x *big.Int) *big.Int {
	exp := new(big.Int).Sub(grp.q, big2)
	return new(big.Int).Exp(new(big.Int).Mod(x, grp.q), exp, grp.q)
}

// RandScalarNonzero samples a uniform element of Z_q* = {1, ..., q-1} by
// rejection sampling from r, drawing ceil(log2 q) bits at a time.
func (grp *Group) RandScalarNonzero(r rng.Rng) (*big.Int, error) {
	bitLen := grp.q.BitLen()
	byteLen := (bitLen + 7) / 8
	excessBits := uint(byteLen*8 - bitLen)
	buf := make([]byte, byteLen)
	for {
		if err := r.Fill(buf); err != nil {
			return nil, err
		}
		if excessBits > 0 {
			buf[0] &= 0xff >> excessBits
		}
		candidate := new(big.Int).SetBytes(buf)
		if candidate.Sign() == 0 {
			continue
		}
		if candidate.Cmp(grp.q) >= 0 {
			continue
		}
		return candidate, nil
	}
}

// RandScalar samples a uniform element of Z_q = {0, ..., q-1} (zero
// permitted), used where the spec allows a zero scalar (e.g. β in the
// pairwise-independent hash parameters).
func (grp *Group) RandScalar(r rng.Rng) (*big.Int, error) {
	bitLen := grp.q.BitLen()
	byteLen := (bitLen + 7) / 8
	excessBits := uint(byteLen*8 - bitLen)
	buf := make([]byte, byteLen)
	for {
		if err := r.Fill(buf); err != nil {
			return nil, err
		}
		if excessBits > 0 {
			buf[0] &= 0xff >> excessBits
		}
		candidate := new(big.Int).SetBytes(buf)
		if candidate.Cmp(grp.q) >= 0 {
			continue
		}
		return candidate, nil
	}
}

// I2OSP encodes a non-negative integer as a fixed-length big-endian byte
// string of length l. It returns errs.ErrMalformedInput if x does not fit.
func I2OSP(x *big.Int, l int) ([]byte, error) {
	if x.Sign() < 0 {
		return nil, errs.ErrMalformedInput
	}
	buf := make([]byte, l)
	b := x.Bytes()
	if len(b) > l {
		return nil, errs.ErrMalformedInput
	}
	copy(buf[l-len(b):], b)
	return buf, nil
}

// OS2IP decodes a fixed-length big-endian byte string into an integer.
func OS2IP(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}
