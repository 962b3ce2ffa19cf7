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
	"math/big"

	"github.com/pkg/errors"

	"github.com/SJieNg123/ot-ddh/commitment"
	"github.com/SJieNg123/ot-ddh/errs"
	"github.com/SJieNg123/ot-ddh/group"
	"github.com/SJieNg123/ot-ddh/logger"
	"github.com/SJieNg123/ot-ddh/ot"
	"github.com/SJieNg123/ot-ddh/rng"
)

// AdaptiveSender holds the m×m message grid, the long-term row/column
// secrets, and the commitment grid produced by Setup. It survives for the
// whole session; RoundPayload values it produces survive for exactly one
// query.
type AdaptiveSender struct {
	grp *group.Group
	rng rng.Rng

	m        int
	messages [][][]byte

	r []*big.Int
	c []*big.Int

	alpha       *big.Int
	beta        *big.Int
	lambdaBytes int

	y [][][]byte
}

// NewAdaptiveSender builds a sender over a row-major list of N messages,
// all of equal length, where N must be a perfect square m*m.
func NewAdaptiveSender(grp *group.Group, r rng.Rng, messages [][]byte) (*AdaptiveSender, error) {
	n := len(messages)
	if n == 0 {
		return nil, errs.ErrMalformedInput
	}
	m := isqrt(n)
	if m*m != n {
		return nil, errors.Wrap(errs.ErrMalformedInput, "N is not a perfect square")
	}
	msgLen := len(messages[0])
	for _, msg := range messages {
		if len(msg) != msgLen {
			return nil, errors.Wrap(errs.ErrMalformedInput, "messages must have equal length")
		}
	}

	grid := make([][][]byte, m)
	for i := 0; i < m; i++ {
		grid[i] = make([][]byte, m)
		for j := 0; j < m; j++ {
			grid[i][j] = messages[i*m+j]
		}
	}

	return &AdaptiveSender{
		grp:      grp,
		rng:      r,
		m:        m,
		messages: grid,
	}, nil
}

// Setup performs the one-time Initialization phase of §4.6: it samples the
// pairwise-independent hash parameters and the long-term row/column
// secrets, builds the commitment grid, and returns the public setup blob.
func (s *AdaptiveSender) Setup() (*PublicSetup, error) {
	q := s.grp.Q()

	alpha, err := s.grp.RandScalarNonzero(s.rng)
	if err != nil {
		return nil, errors.Wrap(err, "sample alpha")
	}
	beta, err := s.grp.RandScalar(s.rng)
	if err != nil {
		return nil, errors.Wrap(err, "sample beta")
	}
	lambdaBytes := lambdaBytesFor(q)

	rowScalars := make([]*big.Int, s.m)
	colScalars := make([]*big.Int, s.m)
	for i := 0; i < s.m; i++ {
		rs, err := s.grp.RandScalarNonzero(s.rng)
		if err != nil {
			return nil, errors.Wrap(err, "sample row scalar")
		}
		rowScalars[i] = rs
		cs, err := s.grp.RandScalarNonzero(s.rng)
		if err != nil {
			return nil, errors.Wrap(err, "sample column scalar")
		}
		colScalars[i] = cs
	}

	y := make([][][]byte, s.m)
	for i := 0; i < s.m; i++ {
		y[i] = make([][]byte, s.m)
		gRi := s.grp.Pow(s.grp.G(), rowScalars[i])
		for j := 0; j < s.m; j++ {
			e := s.grp.Pow(gRi, colScalars[j])
			k := pairwiseHash(alpha, beta, q, e, lambdaBytes)
			blob, err := commitment.Commit(s.messages[i][j], k, nil)
			if err != nil {
				return nil, errors.Wrapf(err, "commit (%d,%d)", i, j)
			}
			y[i][j] = blob
		}
	}

	s.r = rowScalars
	s.c = colScalars
	s.alpha = alpha
	s.beta = beta
	s.lambdaBytes = lambdaBytes
	s.y = y

	logger.Logger().Info("adaptive sender setup complete", "m", s.m)

	return &PublicSetup{
		M:           s.m,
		Y:           y,
		Alpha:       alpha,
		Beta:        beta,
		LambdaBytes: lambdaBytes,
		P:           s.grp.P(),
		Q:           q,
	}, nil
}

// PrepareQuery produces a fresh per-round payload (§4.6): new blinders
// r_R, r_C, the blinded row/column OT payload lists, the unblinding
// element g^{(r_R r_C)^-1}, and two freshly constructed 1-out-of-m OT
// services. No state is cached across rounds.
func (s *AdaptiveSender) PrepareQuery() (*RoundPayload, error) {
	if s.r == nil {
		return nil, errors.Wrap(errs.ErrProtocolViolation, "Setup must run before PrepareQuery")
	}
	q := s.grp.Q()

	rR, err := s.grp.RandScalarNonzero(s.rng)
	if err != nil {
		return nil, errors.Wrap(err, "sample r_R")
	}
	rC, err := s.grp.RandScalarNonzero(s.rng)
	if err != nil {
		return nil, errors.Wrap(err, "sample r_C")
	}

	rowPayload := make([]*big.Int, s.m)
	colPayload := make([]*big.Int, s.m)
	for t := 0; t < s.m; t++ {
		rowPayload[t] = new(big.Int).Mod(new(big.Int).Mul(s.r[t], rR), q)
		colPayload[t] = new(big.Int).Mod(new(big.Int).Mul(s.c[t], rC), q)
	}

	rrProd := new(big.Int).Mod(new(big.Int).Mul(rR, rC), q)
	invRR := s.grp.InvQ(rrProd)
	gPowInvRR := s.grp.Pow(s.grp.G(), invRR)

	rowService, err := ot.NewOTMService(s.grp, rowPayload, "ROW", s.rng)
	if err != nil {
		return nil, errors.Wrap(err, "build row OT service")
	}
	colService, err := ot.NewOTMService(s.grp, colPayload, "COL", s.rng)
	if err != nil {
		return nil, errors.Wrap(err, "build col OT service")
	}

	logger.Logger().Debug("adaptive sender round payload prepared", "m", s.m)

	return &RoundPayload{
		RowOTPayload: rowPayload,
		ColOTPayload: colPayload,
		GPowInvRR:    gPowInvRR,
		RowService:   rowService,
		ColService:   colService,
	}, nil
}

// Destroy zeroizes the long-term row/column secrets and the pairwise-hash
// parameters, per §5's requirement that scalars R, C and derived keys be
// wiped on party destruction. Setup/PrepareQuery MUST NOT be called again
// afterwards.
func (s *AdaptiveSender) Destroy() {
	for _, v := range s.r {
		v.SetInt64(0)
	}
	for _, v := range s.c {
		v.SetInt64(0)
	}
	if s.alpha != nil {
		s.alpha.SetInt64(0)
	}
	if s.beta != nil {
		s.beta.SetInt64(0)
	}
	s.r = nil
	s.c = nil
	s.alpha = nil
	s.beta = nil
}

// isqrt returns floor(sqrt(n)) for a non-negative int.
func isqrt(n int) int {
	if n < 0 {
		return 0
	}
	x := n
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	return x
}
