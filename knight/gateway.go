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
	"math/big"

	"github.com/ToLoanRhino/Knights-Tour-Z/contracts/knightstour"
	"github.com/ToLoanRhino/Knights-Tour-Z/tour"
	"github.com/ethereum/go-ethereum/common"
)

// Gateway is the request/response boundary to the KnightsTour contract.
//
// Reads return a snapshot that may be stale the moment it arrives.  Writes
// submit a transaction and block until it is confirmed, the context ends,
// or the gateway's confirmation timeout passes; they return a *TxError on
// failure.  No read is tied to a later write: callers re-read after any
// write whose result they depend on.
type Gateway interface {
	// Player reads the player record of addr.
	Player(ctx context.Context, addr common.Address) (*Player, error)

	// ActiveGame reads the active game of addr.
	ActiveGame(ctx context.Context, addr common.Address) (*GameInfo, error)

	// Stats reads the contract-wide counters.
	Stats(ctx context.Context) (*Stats, error)

	// CanCheckIn reports whether addr may check in now.
	CanCheckIn(ctx context.Context, addr common.Address) (bool, error)

	// IsValidKnightMove is the contract's authoritative geometry check.
	IsValidKnightMove(ctx context.Context, from, to tour.Square) (bool, error)

	// PossibleMoves is the contract's view of the moves from a square.
	PossibleMoves(ctx context.Context, from tour.Square) ([]tour.Square, error)

	// Paused reports whether player actions are suspended.
	Paused(ctx context.Context) (bool, error)

	// Owner returns the contract owner.
	Owner(ctx context.Context) (common.Address, error)

	// GameHistory returns addr's GameStarted and MoveMade events.
	GameHistory(ctx context.Context, addr common.Address, fromBlock uint64) ([]knightstour.Event, error)

	Register(ctx context.Context) (*Receipt, error)
	CheckIn(ctx context.Context) (*Receipt, error)
	// PurchaseTurns attaches value wei to buy amount turns.
	PurchaseTurns(ctx context.Context, amount uint32, value *big.Int) (*Receipt, error)
	StartGame(ctx context.Context, start tour.Square) (*Receipt, error)
	MakeMove(ctx context.Context, from, to tour.Square) (*Receipt, error)
	ClaimWin(ctx context.Context) (*Receipt, error)
	ClaimWinDirect(ctx context.Context) (*Receipt, error)
	ForfeitGame(ctx context.Context) (*Receipt, error)

	// Owner-only administration.
	Withdraw(ctx context.Context) (*Receipt, error)
	Pause(ctx context.Context) (*Receipt, error)
	Unpause(ctx context.Context) (*Receipt, error)
	TransferOwnership(ctx context.Context, newOwner common.Address) (*Receipt, error)
}
