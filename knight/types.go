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

// Package knight is the off-chain side of the Knight's Tour game.  It wraps
// the KnightsTour contract behind a Gateway, mirrors the player's active
// game in a local tour.Session, and reconciles the two after every write.
// The contract stays the source of truth for turns, wins and move validity.
package knight

import (
	"math/big"
	"time"

	"github.com/ToLoanRhino/Knights-Tour-Z/contracts/knightstour"
	"github.com/ethereum/go-ethereum/common"
)

// Player mirrors the on-chain player record.  It is read-only to clients;
// changes happen only through transactions.
type Player struct {
	Address          common.Address `json:"address"`
	LastCheckIn      time.Time      `json:"last_check_in"`
	AvailableTurns   uint32         `json:"available_turns"`
	TotalGamesWon    uint32         `json:"total_games_won"`
	TotalGamesPlayed uint32         `json:"total_games_played"`
	Registered       bool           `json:"registered"`
}

// GameInfo mirrors the player's active game on-chain.
type GameInfo struct {
	ID        uint64 `json:"id"` // zero when there is no active game
	MoveCount uint8  `json:"move_count"`
	Completed bool   `json:"completed"`
	Won       bool   `json:"won"`
}

// Active reports whether the chain has an unfinished game for the player.
func (g *GameInfo) Active() bool {
	return g != nil && g.ID != 0 && !g.Completed
}

// Stats are the contract-wide counters.
type Stats struct {
	TotalPlayers   uint64   `json:"total_players"`
	GamesCompleted uint64   `json:"games_completed"`
	PrizePool      *big.Int `json:"prize_pool"`
}

// Receipt summarises a confirmed transaction.
type Receipt struct {
	Method  string              `json:"method"`
	TxHash  common.Hash         `json:"tx_hash"`
	Block   uint64              `json:"block"`
	GasUsed uint64              `json:"gas_used"`
	Events  []knightstour.Event `json:"events,omitempty"`
}

// GameStarted returns the GameStarted event in the receipt, if any.
func (r *Receipt) GameStarted() *knightstour.GameStarted {
	if r == nil {
		return nil
	}
	for _, ev := range r.Events {
		if gs, ok := ev.(*knightstour.GameStarted); ok {
			return gs
		}
	}
	return nil
}

// Snapshot is a best-effort read of the player's state.  It may be stale
// as soon as it is returned.
type Snapshot struct {
	Player     Player    `json:"player"`
	Game       GameInfo  `json:"game"`
	CanCheckIn bool      `json:"can_check_in"`
	ReadAt     time.Time `json:"read_at"`
}
