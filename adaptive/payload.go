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

// Package adaptive implements the adaptive 1-out-of-N OT state machine:
// a one-time grid setup and per-round query preparation/reconstruction,
// built on top of the group, commitment and ot packages.
package adaptive

import (
	"math/big"

	"github.com/SJieNg123/ot-ddh/ot"
)

// PublicSetup is the blob the sender publishes to the receiver exactly
// once, per §6: grid size, commitment grid, pairwise-independent hash
// parameters, and the group's own (p, q) so the receiver can cross-check
// it agrees with its own group.
type PublicSetup struct {
	M           int
	Y           [][][]byte
	Alpha       *big.Int
	Beta        *big.Int
	LambdaBytes int
	P           *big.Int
	Q           *big.Int
}

// RoundPayload is the sender's per-query message: two fresh blinded
// payload lists, the unblinding group element, and the two live 1-out-of-m
// OT services the receiver drives to recover exactly one row and one
// column scalar.
type RoundPayload struct {
	RowOTPayload []*big.Int
	ColOTPayload []*big.Int
	GPowInvRR    *big.Int
	RowService   *ot.OTMService
	ColService   *ot.OTMService
}
