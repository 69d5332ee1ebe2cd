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

	"github.com/ToLoanRhino/Knights-Tour-Z/tour"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// APINamespace is the JSON-RPC namespace the API is registered under.
const APINamespace = "knightstour"

// Error codes carried by API errors.
const (
	codeUnknown      = -32000
	codeReverted     = 3 // same code geth uses for execution reverted
	codeUserRejected = userRejectedCode
	codeWalletAbsent = 4100
	codeStale        = -32010
	codeTransient    = -32011
)

// apiError exposes the failure kind and revert reason to RPC clients.
type apiError struct {
	err  error
	kind Kind
}

func (e *apiError) Error() string { return e.err.Error() }

func (e *apiError) ErrorCode() int {
	switch e.kind {
	case KindReverted:
		return codeReverted
	case KindUserRejected:
		return codeUserRejected
	case KindWalletAbsent:
		return codeWalletAbsent
	case KindStale:
		return codeStale
	case KindTransient:
		return codeTransient
	default:
		return codeUnknown
	}
}

func (e *apiError) ErrorData() interface{} {
	data := map[string]string{"kind": e.kind.String()}
	var te *TxError
	if errors.As(e.err, &te) {
		if te.Reason != "" {
			data["reason"] = te.Reason
		}
		if te.TxHash != (common.Hash{}) {
			data["tx"] = te.TxHash.Hex()
		}
	}
	return data
}

var (
	_ rpc.Error     = (*apiError)(nil)
	_ rpc.DataError = (*apiError)(nil)
)

func wrapAPI(err error) error {
	if err == nil {
		return nil
	}
	return &apiError{err: err, kind: Classify(err)}
}

// API exposes a Service over JSON-RPC as knightstour_*.
type API struct {
	s *Service
}

// NewAPI creates the RPC receiver for s.
func NewAPI(s *Service) *API {
	return &API{s: s}
}

// Snapshot re-reads the player record and active game.
func (api *API) Snapshot(ctx context.Context) (*Snapshot, error) {
	snap, err := api.s.Refresh(ctx)
	return snap, wrapAPI(err)
}

// Stats returns the contract-wide counters.
func (api *API) Stats(ctx context.Context) (*Stats, error) {
	st, err := api.s.Stats(ctx)
	return st, wrapAPI(err)
}

// Profile returns the player's win rate and badges.
func (api *API) Profile(ctx context.Context) (*ProfileView, error) {
	p, err := api.s.Profile(ctx)
	return p, wrapAPI(err)
}

// Session returns the local game.
func (api *API) Session() (*SessionView, error) {
	v, err := api.s.Session()
	return v, wrapAPI(err)
}

// Quote is the cost of a turn purchase.
type Quote struct {
	Amount uint64       `json:"amount"`
	Wei    *hexutil.Big `json:"wei"`
	Ether  string       `json:"ether"`
}

// QuotePurchase prices amount turns without submitting anything.
func (api *API) QuotePurchase(amount uint64) (*Quote, error) {
	cost, err := api.s.Pricing().QuotePurchase(amount)
	if err != nil {
		return nil, wrapAPI(err)
	}
	return &Quote{Amount: amount, Wei: (*hexutil.Big)(cost), Ether: FormatWei(cost)}, nil
}

func (api *API) Register(ctx context.Context) (*Receipt, error) {
	r, err := api.s.Register(ctx)
	return r, wrapAPI(err)
}

func (api *API) CheckIn(ctx context.Context) (*Receipt, error) {
	r, err := api.s.CheckIn(ctx)
	return r, wrapAPI(err)
}

func (api *API) PurchaseTurns(ctx context.Context, amount uint64) (*Receipt, error) {
	r, err := api.s.Purchase(ctx, amount)
	return r, wrapAPI(err)
}

func (api *API) StartGame(ctx context.Context, square uint8) (*Receipt, error) {
	r, err := api.s.Start(ctx, tour.Square(square))
	return r, wrapAPI(err)
}

// MoveResult is the outcome of a move.
type MoveResult struct {
	State   string       `json:"state"`
	Receipt *Receipt     `json:"receipt,omitempty"`
	Session *SessionView `json:"session,omitempty"`
}

func (api *API) Move(ctx context.Context, square uint8) (*MoveResult, error) {
	state, r, err := api.s.Move(ctx, tour.Square(square))
	res := &MoveResult{State: state.String(), Receipt: r}
	res.Session, _ = api.s.Session()
	return res, wrapAPI(err)
}

func (api *API) ClaimWin(ctx context.Context) (*Receipt, error) {
	r, err := api.s.Claim(ctx)
	return r, wrapAPI(err)
}

func (api *API) Forfeit(ctx context.Context) (*Receipt, error) {
	r, err := api.s.Forfeit(ctx)
	return r, wrapAPI(err)
}

// Reset forfeits and starts again.  Without a square the current game's
// start square is reused.
func (api *API) Reset(ctx context.Context, square *uint8) (*Receipt, error) {
	sq, err := api.s.ResetSquare(square)
	if err != nil {
		return nil, wrapAPI(err)
	}
	r, err := api.s.Reset(ctx, sq)
	return r, wrapAPI(err)
}

// Resync rebuilds the local game from chain history.
func (api *API) Resync(ctx context.Context) (*SessionView, error) {
	if err := api.s.Resync(ctx); err != nil {
		return nil, wrapAPI(err)
	}
	v, err := api.s.Session()
	if errors.Is(err, ErrNoSession) {
		return nil, nil
	}
	return v, wrapAPI(err)
}
