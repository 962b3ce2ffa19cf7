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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SJieNg123/ot-ddh/errs"
	"github.com/SJieNg123/ot-ddh/group"
	"github.com/SJieNg123/ot-ddh/rng"
)

func gridMessages(m int) [][]byte {
	n := m * m
	msgs := make([][]byte, n)
	for t := 0; t < n; t++ {
		msgs[t] = []byte{byte(t >> 8), byte(t), byte('x')}
	}
	return msgs
}

func newSenderReceiver(t *testing.T, m int) (*AdaptiveSender, *AdaptiveReceiver, *group.Group) {
	grp, err := group.NewGroup()
	require.NoError(t, err)

	sender, err := NewAdaptiveSender(grp, rng.CryptoRNG{}, gridMessages(m))
	require.NoError(t, err)

	receiver := NewAdaptiveReceiver(grp, rng.CryptoRNG{})
	return sender, receiver, grp
}

func TestEndToEndRecoversCorrectMessage(t *testing.T) {
	const m = 4
	sender, receiver, _ := newSenderReceiver(t, m)

	pub, err := sender.Setup()
	require.NoError(t, err)
	require.NoError(t, receiver.IngestSetup(pub))

	msgs := gridMessages(m)
	for i := 0; i < m; i++ {
		for j := 0; j < m; j++ {
			payload, err := sender.PrepareQuery()
			require.NoError(t, err)
			got, err := receiver.Query(i, j, payload)
			require.NoError(t, err)
			assert.Equal(t, msgs[i*m+j], got)
		}
	}
}

func TestAdaptiveQueriesAreIndependent(t *testing.T) {
	const m = 3
	sender, receiver, _ := newSenderReceiver(t, m)

	pub, err := sender.Setup()
	require.NoError(t, err)
	require.NoError(t, receiver.IngestSetup(pub))

	payload1, err := sender.PrepareQuery()
	require.NoError(t, err)
	got1, err := receiver.Query(0, 0, payload1)
	require.NoError(t, err)
	assert.Equal(t, gridMessages(m)[0], got1)

	payload2, err := sender.PrepareQuery()
	require.NoError(t, err)
	got2, err := receiver.Query(m-1, m-1, payload2)
	require.NoError(t, err)
	assert.Equal(t, gridMessages(m)[(m-1)*m+(m-1)], got2)
}

func TestRepeatedQueryOfSameCoordinateUsesFreshPayload(t *testing.T) {
	const m = 3
	sender, receiver, _ := newSenderReceiver(t, m)

	pub, err := sender.Setup()
	require.NoError(t, err)
	require.NoError(t, receiver.IngestSetup(pub))

	payload1, err := sender.PrepareQuery()
	require.NoError(t, err)
	got1, err := receiver.Query(1, 1, payload1)
	require.NoError(t, err)
	assert.Equal(t, gridMessages(m)[1*m+1], got1)

	payload2, err := sender.PrepareQuery()
	require.NoError(t, err)
	got2, err := receiver.Query(1, 1, payload2)
	require.NoError(t, err)
	assert.Equal(t, gridMessages(m)[1*m+1], got2)

	assert.Equal(t, got1, got2)
	assert.NotEqual(t, payload1.RowOTPayload[1], payload2.RowOTPayload[1])
	assert.NotEqual(t, payload1.ColOTPayload[1], payload2.ColOTPayload[1])
}

func TestSetupRejectsNonSquareGrid(t *testing.T) {
	grp, err := group.NewGroup()
	require.NoError(t, err)

	msgs := make([][]byte, 7)
	for i := range msgs {
		msgs[i] = []byte{byte(i)}
	}

	_, err = NewAdaptiveSender(grp, rng.CryptoRNG{}, msgs)
	assert.ErrorIs(t, err, errs.ErrMalformedInput)
}

func TestIngestSetupIdempotent(t *testing.T) {
	const m = 2
	sender, receiver, _ := newSenderReceiver(t, m)

	pub, err := sender.Setup()
	require.NoError(t, err)

	require.NoError(t, receiver.IngestSetup(pub))
	require.NoError(t, receiver.IngestSetup(pub))
}

func TestIngestSetupRejectsConflictingBlob(t *testing.T) {
	const m = 2
	sender1, receiver, _ := newSenderReceiver(t, m)
	grp, err := group.NewGroup()
	require.NoError(t, err)
	sender2, err := NewAdaptiveSender(grp, rng.CryptoRNG{}, gridMessages(m))
	require.NoError(t, err)

	pub1, err := sender1.Setup()
	require.NoError(t, err)
	pub2, err := sender2.Setup()
	require.NoError(t, err)

	require.NoError(t, receiver.IngestSetup(pub1))
	err = receiver.IngestSetup(pub2)
	assert.ErrorIs(t, err, errs.ErrInvalidParameters)
}

func TestQueryRejectsTamperedCommitment(t *testing.T) {
	const m = 2
	sender, receiver, _ := newSenderReceiver(t, m)

	pub, err := sender.Setup()
	require.NoError(t, err)
	pub.Y[0][0][0] ^= 0xff
	require.NoError(t, receiver.IngestSetup(pub))

	payload, err := sender.PrepareQuery()
	require.NoError(t, err)
	_, err = receiver.Query(0, 0, payload)
	assert.ErrorIs(t, err, errs.ErrInvalidCommitment)
}

func TestQueryRejectsTamperedGPowInvRR(t *testing.T) {
	const m = 2
	sender, receiver, _ := newSenderReceiver(t, m)

	pub, err := sender.Setup()
	require.NoError(t, err)
	require.NoError(t, receiver.IngestSetup(pub))

	payload, err := sender.PrepareQuery()
	require.NoError(t, err)
	payload.GPowInvRR = big.NewInt(1)

	_, err = receiver.Query(0, 0, payload)
	assert.Error(t, err)
}

func TestQueryRejectsPayloadTamperedIndependentlyOfService(t *testing.T) {
	const m = 2
	sender, receiver, _ := newSenderReceiver(t, m)

	pub, err := sender.Setup()
	require.NoError(t, err)
	require.NoError(t, receiver.IngestSetup(pub))

	payload, err := sender.PrepareQuery()
	require.NoError(t, err)
	payload.RowOTPayload[0] = big.NewInt(1)

	_, err = receiver.Query(0, 0, payload)
	assert.ErrorIs(t, err, errs.ErrProtocolViolation)
}

func TestQueryRejectsGPowInvRRReplacedByValidSubgroupElement(t *testing.T) {
	const m = 2
	sender, receiver, grp := newSenderReceiver(t, m)

	pub, err := sender.Setup()
	require.NoError(t, err)
	require.NoError(t, receiver.IngestSetup(pub))

	payload, err := sender.PrepareQuery()
	require.NoError(t, err)
	payload.GPowInvRR = new(big.Int).Mod(new(big.Int).Mul(payload.GPowInvRR, grp.G()), grp.P())

	_, err = receiver.Query(0, 0, payload)
	assert.Error(t, err)
}

func TestSingleMessageGrid(t *testing.T) {
	const m = 1
	sender, receiver, _ := newSenderReceiver(t, m)

	pub, err := sender.Setup()
	require.NoError(t, err)
	require.NoError(t, receiver.IngestSetup(pub))

	payload, err := sender.PrepareQuery()
	require.NoError(t, err)
	got, err := receiver.Query(0, 0, payload)
	require.NoError(t, err)
	assert.Equal(t, gridMessages(m)[0], got)
}

func TestQueryRejectsOutOfRangeCoordinate(t *testing.T) {
	const m = 2
	sender, receiver, _ := newSenderReceiver(t, m)

	pub, err := sender.Setup()
	require.NoError(t, err)
	require.NoError(t, receiver.IngestSetup(pub))

	payload, err := sender.PrepareQuery()
	require.NoError(t, err)
	_, err = receiver.Query(m, 0, payload)
	assert.ErrorIs(t, err, errs.ErrMalformedInput)
}

func TestQueryBeforeSetupRejected(t *testing.T) {
	grp, err := group.NewGroup()
	require.NoError(t, err)
	receiver := NewAdaptiveReceiver(grp, rng.CryptoRNG{})

	_, err = receiver.Query(0, 0, &RoundPayload{})
	assert.Error(t, err)
}
