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
	"testing"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialTestAPI(t *testing.T, svc *Service) *rpc.Client {
	t.Helper()
	server := rpc.NewServer()
	require.NoError(t, server.RegisterName(APINamespace, NewAPI(svc)))
	t.Cleanup(server.Stop)
	client := rpc.DialInProc(server)
	t.Cleanup(client.Close)
	return client
}

func TestAPIGameFlow(t *testing.T) {
	svc, _, _ := newTestService(t, false, 1)
	client := dialTestAPI(t, svc)
	ctx := context.Background()

	var receipt struct {
		Method string `json:"method"`
	}
	require.NoError(t, client.CallContext(ctx, &receipt, "knightstour_startGame", 12))
	assert.Equal(t, "startGame", receipt.Method)

	var move MoveResult
	require.NoError(t, client.CallContext(ctx, &move, "knightstour_move", 19))
	assert.Equal(t, "in_progress", move.State)
	require.NotNil(t, move.Session)
	assert.Equal(t, 2, move.Session.Visited)
	assert.Equal(t, 2, move.Session.Board[3][4])

	var view SessionView
	require.NoError(t, client.CallContext(ctx, &view, "knightstour_session"))
	assert.Equal(t, 19, view.Current)

	var quote Quote
	require.NoError(t, client.CallContext(ctx, &quote, "knightstour_quotePurchase", 5))
	assert.Equal(t, "0.005", quote.Ether)
	assert.Equal(t, "5000000000000000", quote.Wei.ToInt().String())
}

func TestAPIErrorKinds(t *testing.T) {
	svc, _, _ := newTestService(t, false, 0)
	client := dialTestAPI(t, svc)
	ctx := context.Background()

	err := client.CallContext(ctx, nil, "knightstour_startGame", 12)
	require.Error(t, err)
	var re rpc.Error
	require.True(t, errors.As(err, &re))
	assert.Equal(t, codeReverted, re.ErrorCode())
	var de rpc.DataError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, map[string]interface{}{"kind": "reverted"}, de.ErrorData())

	err = client.CallContext(ctx, nil, "knightstour_move", 3)
	require.True(t, errors.As(err, &re))
	assert.Equal(t, codeUnknown, re.ErrorCode())
	assert.Contains(t, err.Error(), "no local game")

	err = client.CallContext(ctx, nil, "knightstour_quotePurchase", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "turn amount")
}

func TestAPIResyncWithoutGame(t *testing.T) {
	svc, _, _ := newTestService(t, false, 0)
	client := dialTestAPI(t, svc)

	var view *SessionView
	require.NoError(t, client.CallContext(context.Background(), &view, "knightstour_resync"))
	assert.Nil(t, view)
}
