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

import (
	"bytes"
	"math/big"

	"github.com/pkg/errors"

	"github.com/SJieNg123/ot-ddh/commitment"
	"github.com/SJieNg123/ot-ddh/errs"
	"github.com/SJieNg123/ot-ddh/group"
	"github.com/SJieNg123/ot-ddh/logger"
	"github.com/SJieNg123/ot-ddh/ot"
	"github.com/SJieNg123/ot-ddh/rng"
)

// State names the receiver's position in the state machine described in
// §4.7: FRESH before any setup blob has been ingested, SETUP_RECEIVED once
// one has, and back to SETUP_RECEIVED after every successful query. There
// is no QUERYING-only resting state since queries run to completion
// synchronously; it exists in this type only to name the in-flight moment.
type State int

const (
	StateFresh State = iota
	StateSetupReceived
	StateQuerying
)

// AdaptiveReceiver ingests a sender's public setup once and then issues
// any number of adaptive (i, j) queries against it.
type AdaptiveReceiver struct {
	grp *group.Group
	rng rng.Rng

	state State
	setup *PublicSetup
}

// NewAdaptiveReceiver builds a receiver bound to grp; it must agree with
// the sender's group on (p, q) or IngestSetup rejects the setup blob.
func NewAdaptiveReceiver(grp *group.Group, r rng.Rng) *AdaptiveReceiver {
	return &AdaptiveReceiver{grp: grp, rng: r, state: StateFresh}
}

// State returns the receiver's current position in the §4.7 state
// machine.
func (rcv *AdaptiveReceiver) State() State {
	return rcv.state
}

// IngestSetup validates and stores the sender's public setup blob. A
// second ingest of an identical blob is a no-op (§8 property 8); a second
// ingest of a conflicting blob is rejected and leaves the stored setup
// unchanged.
func (rcv *AdaptiveReceiver) IngestSetup(pub *PublicSetup) error {
	if pub == nil || pub.M <= 0 || pub.Alpha == nil || pub.Beta == nil || pub.P == nil || pub.Q == nil {
		return errs.ErrMalformedInput
	}
	if len(pub.Y) != pub.M {
		return errs.ErrMalformedInput
	}
	for _, row := range pub.Y {
		if len(row) != pub.M {
			return errs.ErrMalformedInput
		}
	}
	if pub.P.Cmp(rcv.grp.P()) != 0 || pub.Q.Cmp(rcv.grp.Q()) != 0 {
		return errs.ErrInvalidParameters
	}

	if rcv.setup != nil {
		if setupsEqual(rcv.setup, pub) {
			return nil
		}
		return errors.Wrap(errs.ErrInvalidParameters, "setup already ingested with different parameters")
	}

	rcv.setup = pub
	rcv.state = StateSetupReceived
	logger.Logger().Info("adaptive receiver ingested setup", "m", pub.M)
	return nil
}

// Query runs the receiver side of §4.7 for coordinate (i, j): it drives the
// row and column 1-out-of-m OT services in payload through a fresh
// Chooser, reconstructs g^{R_i C_j}, derives the commitment key, and opens
// X_{i,j}.
func (rcv *AdaptiveReceiver) Query(i, j int, payload *RoundPayload) ([]byte, error) {
	if rcv.setup == nil {
		return nil, errors.Wrap(errs.ErrProtocolViolation, "no setup ingested")
	}
	if i < 0 || i >= rcv.setup.M || j < 0 || j >= rcv.setup.M {
		return nil, errs.ErrMalformedInput
	}
	if payload == nil || payload.RowService == nil || payload.ColService == nil {
		return nil, errs.ErrMalformedInput
	}

	rcv.state = StateQuerying
	defer func() { rcv.state = StateSetupReceived }()

	var chooser ot.Chooser = ot.NewChooser(rcv.grp, rcv.rng)

	u, err := chooser.Choose(i, payload.RowService)
	if err != nil {
		return nil, err
	}
	if u.Sign() == 0 {
		return nil, errs.ErrProtocolViolation
	}
	if i >= len(payload.RowOTPayload) || u.Cmp(payload.RowOTPayload[i]) != 0 {
		return nil, errors.Wrap(errs.ErrProtocolViolation, "row payload does not match service")
	}

	v, err := chooser.Choose(j, payload.ColService)
	if err != nil {
		return nil, err
	}
	if j >= len(payload.ColOTPayload) || v.Cmp(payload.ColOTPayload[j]) != 0 {
		return nil, errors.Wrap(errs.ErrProtocolViolation, "column payload does not match service")
	}

	if !rcv.grp.InSubgroup(payload.GPowInvRR) {
		return nil, errs.ErrInvalidGroupElement
	}

	q := rcv.grp.Q()
	e := new(big.Int).Mod(new(big.Int).Mul(u, v), q)
	reconstructed := rcv.grp.Pow(payload.GPowInvRR, e)

	key := pairwiseHash(rcv.setup.Alpha, rcv.setup.Beta, q, reconstructed, rcv.setup.LambdaBytes)

	msg, err := commitment.Open(rcv.setup.Y[i][j], key, nil)
	if err != nil {
		return nil, err
	}

	logger.Logger().Debug("adaptive receiver query succeeded", "i", i, "j", j)
	return msg, nil
}

func setupsEqual(a, b *PublicSetup) bool {
	if a.M != b.M || a.LambdaBytes != b.LambdaBytes {
		return false
	}
	if a.Alpha.Cmp(b.Alpha) != 0 || a.Beta.Cmp(b.Beta) != 0 {
		return false
	}
	if a.P.Cmp(b.P) != 0 || a.Q.Cmp(b.Q) != 0 {
		return false
	}
	if len(a.Y) != len(b.Y) {
		return false
	}
	for i := range a.Y {
		if len(a.Y[i]) != len(b.Y[i]) {
			return false
		}
		for j := range a.Y[i] {
			if !bytes.Equal(a.Y[i][j], b.Y[i][j]) {
				return false
			}
		}
	}
	return true
}
