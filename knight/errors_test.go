// Copyright 2018 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.


package knight

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dataError struct {
	msg  string
	data string
}

func (e dataError) Error() string          { return e.msg }
func (e dataError) ErrorData() interface{} { return e.data }

func encodeRevert(t *testing.T, reason string) string {
	t.Helper()
	typ, err := abi.NewType("string", "", nil)
	require.NoError(t, err)
	packed, err := abi.Arguments{{Type: typ}}.Pack(reason)
	require.NoError(t, err)
	selector := crypto.Keccak256([]byte("Error(string)"))[:4]
	return hexutil.Encode(append(selector, packed...))
}

func TestRevertReason(t *testing.T) {
	assert.Equal(t, "", RevertReason(nil))
	assert.Equal(t, "", RevertReason(errors.New("nonce too low")))
	assert.Equal(t, "Player not registered", RevertReason(errors.New("execution reverted: Player not registered")))
	assert.Equal(t, "execution reverted", RevertReason(errors.New("execution reverted")))

	err := dataError{msg: "execution reverted", data: encodeRevert(t, "Already checked in today")}
	assert.Equal(t, "Already checked in today", RevertReason(err))
	assert.Equal(t, "Already checked in today", RevertReason(fmt.Errorf("estimate gas: %w", err)))
}

func TestReasonError(t *testing.T) {
	for reason, want := range map[string]error{
		"Player already registered": ErrAlreadyRegistered,
		"Player not registered":     ErrNotRegistered,
		"Already checked in today":  ErrAlreadyCheckedIn,
		"No available turns":        ErrNoTurns,
		"Insufficient payment":      ErrInsufficientPayment,
		"No active game":            ErrNoActiveGame,
		"Invalid knight move":       ErrInvalidMove,
		"Square already visited":    ErrSquareVisited,
		"Pausable: paused":          ErrPaused,

		"Invalid start position":            ErrInvalidStart,
		"Only owner can call this function": ErrNotOwner,
	} {
		assert.Equal(t, want, ReasonError(reason), reason)
	}
	assert.Nil(t, ReasonError("out of gas"))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{nil, KindUnknown},
		{errors.New("something odd"), KindUnknown},
		{ErrReadOnly, KindWalletAbsent},
		{fmt.Errorf("start: %w", ErrStateDiverged), KindStale},
		{errors.New("execution reverted: Invalid knight move"), KindReverted},
		{ErrNoTurns, KindReverted},
		{fmt.Errorf("%w on-chain", ErrGameInProgress), KindReverted},
		{ErrBusy, KindTransient},
		{errors.New("execution reverted: Only owner can call this function"), KindReverted},
		{errors.New("MetaMask Tx Signature: User denied transaction signature."), KindUserRejected},
		{rejection{}, KindUserRejected},
		{context.DeadlineExceeded, KindTransient},
		{io.ErrUnexpectedEOF, KindTransient},
		{errors.New("429 Too Many Requests"), KindTransient},
		{rpc.HTTPError{StatusCode: http.StatusTooManyRequests, Status: "429"}, KindTransient},
		{rpc.HTTPError{StatusCode: http.StatusBadGateway, Status: "502 Bad Gateway"}, KindTransient},
		{rpc.HTTPError{StatusCode: http.StatusUnauthorized, Status: "401 Unauthorized"}, KindUnknown},
		{errors.New("knight: bad data 0xab4290ff"), KindUnknown},
		{&TxError{Op: "claimWin", Kind: KindReverted, Reason: "Game not won"}, KindReverted},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.err), "%v", tt.err)
	}
}

func TestTxError(t *testing.T) {
	err := newTxError("dailyCheckIn", [32]byte{1}, errors.New("execution reverted: Already checked in today"))
	assert.Equal(t, KindReverted, err.Kind)
	assert.Equal(t, "Already checked in today", err.Reason)
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)
	assert.Contains(t, err.Error(), "dailyCheckIn reverted: Already checked in today (tx 0x01")

	wrapped := fmt.Errorf("check in: %w", err)
	assert.ErrorIs(t, wrapped, ErrAlreadyCheckedIn)
	assert.Same(t, err, newTxError("other", [32]byte{}, wrapped))

	plain := newTxError("startGame", [32]byte{}, io.EOF)
	assert.Equal(t, KindTransient, plain.Kind)
	assert.ErrorIs(t, plain, io.EOF)
	assert.Equal(t, "knight: startGame transient: EOF", plain.Error())
}
