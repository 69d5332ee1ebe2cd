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

package knightstour

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	contractAddr = common.HexToAddress("0xf015Bad187ED58a9762eb93bCdA4776513BEb5c5")
	playerAddr   = common.HexToAddress("0x701056900A15a7635F3bfd8F9F87C1d9a605FF31")
)

// stubBackend answers eth_call with a canned result and eth_getLogs with a
// canned log list.  Everything else panics through the nil embedded interface.
type stubBackend struct {
	bind.ContractBackend

	callResult []byte
	calls      []ethereum.CallMsg
	logs       []types.Log
	query      ethereum.FilterQuery
}

func (s *stubBackend) CallContract(ctx context.Context, msg ethereum.CallMsg, block *big.Int) ([]byte, error) {
	s.calls = append(s.calls, msg)
	return s.callResult, nil
}

func (s *stubBackend) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	s.query = q
	return s.logs, nil
}

func newTestContract(t *testing.T, backend *stubBackend) *KnightsTour {
	t.Helper()
	k, err := NewKnightsTour(contractAddr, backend)
	require.NoError(t, err)
	return k
}

func TestABIMethods(t *testing.T) {
	parsed, err := ParseABI()
	require.NoError(t, err)

	for _, name := range []string{
		"registerPlayer", "getPlayerInfo", "dailyCheckIn", "canCheckInToday",
		"purchaseTurns", "startGame", "makeMove", "claimWin", "claimWinDirect",
		"forfeitGame", "getPossibleMoves", "isValidKnightMove", "getActiveGameInfo",
		"isSquareVisited", "getContractStats", "pause", "unpause", "withdraw",
		"transferOwnership", "paused", "owner",
	} {
		assert.Contains(t, parsed.Methods, name)
	}
	assert.True(t, parsed.Methods["purchaseTurns"].IsPayable())
	assert.False(t, parsed.Methods["startGame"].IsPayable())
	assert.True(t, parsed.Methods["getPlayerInfo"].IsConstant())

	want := crypto.Keccak256([]byte("makeMove(uint8,uint8)"))[:4]
	input, err := parsed.Pack("makeMove", uint8(12), uint8(19))
	require.NoError(t, err)
	assert.Equal(t, want, input[:4])
	assert.Len(t, input, 4+2*32)
	assert.Equal(t, byte(19), input[len(input)-1])
}

func TestGetPlayerInfo(t *testing.T) {
	parsed, err := ParseABI()
	require.NoError(t, err)
	result, err := parsed.Methods["getPlayerInfo"].Outputs.Pack(big.NewInt(1700000000), uint32(3), uint32(1), uint32(4), true)
	require.NoError(t, err)

	backend := &stubBackend{callResult: result}
	k := newTestContract(t, backend)

	info, err := k.GetPlayerInfo(&bind.CallOpts{Context: context.Background()}, playerAddr)
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), info.LastCheckIn.Int64())
	assert.Equal(t, uint32(3), info.AvailableTurns)
	assert.Equal(t, uint32(1), info.TotalGamesWon)
	assert.Equal(t, uint32(4), info.TotalGamesPlayed)
	assert.True(t, info.Exists)

	require.Len(t, backend.calls, 1)
	assert.Equal(t, &contractAddr, backend.calls[0].To)
}

func TestGetPossibleMoves(t *testing.T) {
	parsed, err := ParseABI()
	require.NoError(t, err)
	result, err := parsed.Methods["getPossibleMoves"].Outputs.Pack([]uint8{1, 3, 5, 9, 15, 19, 21, 23})
	require.NoError(t, err)

	k := newTestContract(t, &stubBackend{callResult: result})
	moves, err := k.GetPossibleMoves(nil, 12)
	require.NoError(t, err)
	assert.Equal(t, []uint8{1, 3, 5, 9, 15, 19, 21, 23}, moves)
}

func moveMadeLog(t *testing.T, k *KnightsTour, gameID int64, from, to, n uint8) types.Log {
	t.Helper()
	ev := k.abi.Events["MoveMade"]
	data, err := ev.Inputs.NonIndexed().Pack(big.NewInt(gameID), from, to, n)
	require.NoError(t, err)
	return types.Log{
		Address: contractAddr,
		Topics:  []common.Hash{ev.ID, common.BytesToHash(playerAddr.Bytes())},
		Data:    data,
	}
}

func TestParseLog(t *testing.T) {
	k := newTestContract(t, &stubBackend{})

	ev, err := k.ParseLog(moveMadeLog(t, k, 1, 12, 19, 2))
	require.NoError(t, err)
	move, ok := ev.(*MoveMade)
	require.True(t, ok, "got %T", ev)
	assert.Equal(t, playerAddr, move.Player)
	assert.Equal(t, int64(1), move.GameId.Int64())
	assert.Equal(t, uint8(12), move.FromSquare)
	assert.Equal(t, uint8(19), move.ToSquare)
	assert.Equal(t, uint8(2), move.MoveNumber)
	assert.Equal(t, contractAddr, move.Raw.Address)

	_, err = k.ParseLog(types.Log{Topics: []common.Hash{common.HexToHash("0x01")}})
	assert.ErrorIs(t, err, ErrUnknownEvent)
}

func TestParseReceipt(t *testing.T) {
	k := newTestContract(t, &stubBackend{})

	reg := types.Log{
		Address: contractAddr,
		Topics:  []common.Hash{k.abi.Events["PlayerRegistered"].ID, common.BytesToHash(playerAddr.Bytes())},
	}
	moved := moveMadeLog(t, k, 1, 12, 19, 2)
	foreign := moved
	foreign.Address = common.HexToAddress("0x01")

	receipt := &types.Receipt{Logs: []*types.Log{&reg, &foreign, &moved}}
	events, err := k.ParseReceipt(receipt)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "PlayerRegistered", events[0].EventName())
	assert.Equal(t, "MoveMade", events[1].EventName())
}

func TestGameHistoryQuery(t *testing.T) {
	backend := &stubBackend{}
	k := newTestContract(t, backend)

	started := k.abi.Events["GameStarted"]
	data, err := started.Inputs.NonIndexed().Pack(big.NewInt(1), uint8(12))
	require.NoError(t, err)
	backend.logs = []types.Log{
		{Address: contractAddr, Topics: []common.Hash{started.ID, common.BytesToHash(playerAddr.Bytes())}, Data: data},
		moveMadeLog(t, k, 1, 12, 19, 2),
	}

	events, err := k.GameHistory(context.Background(), playerAddr, 100)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, uint8(12), events[0].(*GameStarted).StartPosition)
	assert.Equal(t, uint8(19), events[1].(*MoveMade).ToSquare)

	assert.Equal(t, int64(100), backend.query.FromBlock.Int64())
	assert.Equal(t, []common.Address{contractAddr}, backend.query.Addresses)
	require.Len(t, backend.query.Topics, 2)
	assert.Equal(t, []common.Hash{started.ID, k.abi.Events["MoveMade"].ID}, backend.query.Topics[0])
	assert.Equal(t, []common.Hash{common.BytesToHash(playerAddr.Bytes())}, backend.query.Topics[1])
}
