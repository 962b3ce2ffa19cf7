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

package ot

import (
	"math/big"
	mathbits "math/bits"

	"github.com/SJieNg123/ot-ddh/errs"
	"github.com/SJieNg123/ot-ddh/group"
	"github.com/SJieNg123/ot-ddh/logger"
	"github.com/SJieNg123/ot-ddh/prf"
	"github.com/SJieNg123/ot-ddh/rng"
)

const (
	seedLen = 32
	sidLen  = 16
)

// OTMService is the one-time-per-query-direction sender-side state of a
// 1-out-of-m OT, built by composing ℓ = ceil(log2 m) instances of the
// 1-out-of-2 DDH OT. Only the fields also listed in §6's wire shape
// (M, L, QBytes, Sid, Label, CT, Aj) are meant to cross to the receiver;
// the seed pairs and nested OT senders stay private to the service and are
// only reachable through RespondBit.
type OTMService struct {
	grp *group.Group

	M      int
	L      int
	QBytes int
	Sid    []byte
	Label  string
	CT     [][]byte
	Aj     []*big.Int

	seeds0     [][]byte
	seeds1     [][]byte
	ot2Senders []*DDHOTSender
}

// NewOTMService builds the sender-side service for transferring one of the
// m scalars in payload (each required to be in Z_q*), under domain-
// separation label.
func NewOTMService(grp *group.Group, payload []*big.Int, label string, r rng.Rng) (*OTMService, error) {
	m := len(payload)
	if m == 0 {
		return nil, errs.ErrMalformedInput
	}
	q := grp.Q()
	for _, x := range payload {
		if x.Sign() <= 0 || x.Cmp(q) >= 0 {
			return nil, errs.ErrMalformedInput
		}
	}

	l := ell(m)
	sid := make([]byte, sidLen)
	if err := r.Fill(sid); err != nil {
		return nil, err
	}

	seeds0 := make([][]byte, l)
	seeds1 := make([][]byte, l)
	ot2Senders := make([]*DDHOTSender, l)
	for j := 0; j < l; j++ {
		s0 := make([]byte, seedLen)
		s1 := make([]byte, seedLen)
		if err := r.Fill(s0); err != nil {
			return nil, err
		}
		if err := r.Fill(s1); err != nil {
			return nil, err
		}
		seeds0[j] = s0
		seeds1[j] = s1
		sender, err := NewDDHOTSender(grp, r)
		if err != nil {
			return nil, err
		}
		ot2Senders[j] = sender
	}

	qBytes := grp.QBytes()
	aj := make([]*big.Int, l)
	for j, s := range ot2Senders {
		aj[j] = s.PublicKey()
	}

	svc := &OTMService{
		grp:        grp,
		M:          m,
		L:          l,
		QBytes:     qBytes,
		Sid:        sid,
		Label:      label,
		Aj:         aj,
		seeds0:     seeds0,
		seeds1:     seeds1,
		ot2Senders: ot2Senders,
	}

	ct := make([][]byte, m)
	for t := 0; t < m; t++ {
		pad := make([]byte, qBytes)
		for j := 0; j < l; j++ {
			bit := (t >> uint(j)) & 1
			seed := seeds0[j]
			if bit == 1 {
				seed = seeds1[j]
			}
			pad = xorBytes(pad, prf.PRFLabeled(seed, bitInfo(label, j, sid), qBytes))
		}
		enc, err := group.I2OSP(payload[t], qBytes)
		if err != nil {
			return nil, err
		}
		ct[t] = xorBytes(enc, pad)
	}
	svc.CT = ct

	logger.Logger().Debug("ot1ofm service built", "label", label, "m", m, "l", l)
	return svc, nil
}

// RespondBit runs the sender side of the j-th nested 1-out-of-2 OT,
// carrying the j-th seed pair, against the receiver's public value B.
func (svc *OTMService) RespondBit(j int, B *big.Int) (c0, c1 []byte, err error) {
	if j < 0 || j >= svc.L {
		return nil, nil, errs.ErrMalformedInput
	}
	return svc.ot2Senders[j].Respond(B, svc.seeds0[j], svc.seeds1[j])
}

// Destroy zeroizes the service's per-bit seed pairs and the underlying
// 1-out-of-2 senders' secret exponents, per §5. RespondBit MUST NOT be
// called again afterwards.
func (svc *OTMService) Destroy() {
	for _, s := range svc.seeds0 {
		zeroBytes(s)
	}
	for _, s := range svc.seeds1 {
		zeroBytes(s)
	}
	for _, sender := range svc.ot2Senders {
		sender.Destroy()
	}
	svc.seeds0 = nil
	svc.seeds1 = nil
	svc.ot2Senders = nil
}

// zeroBytes overwrites buf with zeros in place.
func zeroBytes(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}

// Chooser is the receiver-side collaborator for a 1-out-of-m OT: given a
// published OTMService and an index, it recovers exactly one payload
// scalar. DDHChooser is its only implementation here; the adaptive
// receiver builds a fresh DDHChooser for every query and does not accept
// another Chooser.
type Chooser interface {
	Choose(index int, service *OTMService) (*big.Int, error)
}

// DDHChooser is the Chooser backed by the ℓ nested 1-out-of-2 DDH OTs of
// this package. A DDHChooser owns the ephemeral per-bit OT receiver states
// for the duration of a single Choose call; it does not retain them
// afterwards.
type DDHChooser struct {
	grp *group.Group
	rng rng.Rng
}

// NewChooser builds a DDHChooser drawing its per-bit OT randomness from r.
func NewChooser(grp *group.Group, r rng.Rng) *DDHChooser {
	return &DDHChooser{grp: grp, rng: r}
}

// Choose transfers service.CT[index] by running ℓ nested 1-out-of-2 OTs,
// one per bit of index, and XOR-reconstructing the pad that unmasks it.
func (c *DDHChooser) Choose(index int, service *OTMService) (*big.Int, error) {
	if index < 0 || index >= service.M {
		return nil, errs.ErrMalformedInput
	}

	seeds := make([][]byte, service.L)
	for j := 0; j < service.L; j++ {
		bit := (index >> uint(j)) & 1
		recv, err := NewDDHOTReceiver(c.grp, bit, c.rng)
		if err != nil {
			return nil, err
		}
		B := recv.GenerateB(service.Aj[j])
		c0, c1, err := service.RespondBit(j, B)
		if err != nil {
			return nil, err
		}
		seed := recv.Recover(c0, c1)
		recv.Destroy()
		if len(seed) != seedLen {
			return nil, errs.ErrProtocolViolation
		}
		seeds[j] = seed
	}

	pad := make([]byte, service.QBytes)
	for j, seed := range seeds {
		pad = xorBytes(pad, prf.PRFLabeled(seed, bitInfo(service.Label, j, service.Sid), service.QBytes))
		zeroBytes(seed)
	}

	if len(service.CT[index]) != service.QBytes {
		return nil, errs.ErrMalformedInput
	}
	decoded := xorBytes(service.CT[index], pad)
	zeroBytes(pad)
	x := group.OS2IP(decoded)

	q := c.grp.Q()
	if x.Sign() == 0 {
		return nil, errs.ErrProtocolViolation
	}
	if x.Cmp(q) >= 0 {
		return nil, errs.ErrProtocolViolation
	}
	return x, nil
}

// ell computes ℓ = max(1, ceil(log2 m)).
func ell(m int) int {
	if m <= 1 {
		return 1
	}
	l := mathbits.Len(uint(m - 1))
	if l == 0 {
		return 1
	}
	return l
}

// bitInfo builds the domain-separation template label || "|j=" || u16_be(j)
// || "|sid=" || sid.
func bitInfo(label string, j int, sid []byte) []byte {
	info := make([]byte, 0, len(label)+3+2+5+len(sid))
	info = append(info, []byte(label)...)
	info = append(info, '|', 'j', '=')
	info = append(info, byte(j>>8), byte(j))
	info = append(info, '|', 's', 'i', 'd', '=')
	info = append(info, sid...)
	return info
}
