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

// Package knightstour provides high-level Go bindings for the KnightsTour
// game contract: player registration, the daily turn economy, and the
// per-player 5x5 knight's tour.
package knightstour

import (
	"math/big"
	"strings"

	"github.com/ToLoanRhino/Knights-Tour-Z/contracts/knightstour/contract"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// KnightsTour is a high-level wrapper around the on-chain KnightsTour contract.
type KnightsTour struct {
	abi      abi.ABI
	address  common.Address
	contract *bind.BoundContract
	filterer bind.ContractFilterer
}

// NewKnightsTour connects to an already-deployed KnightsTour contract.
func NewKnightsTour(addr common.Address, backend bind.ContractBackend) (*KnightsTour, error) {
	parsed, err := ParseABI()
	if err != nil {
		return nil, err
	}
	bound := bind.NewBoundContract(addr, parsed, backend, backend, backend)
	return &KnightsTour{
		abi:      parsed,
		address:  addr,
		contract: bound,
		filterer: backend,
	}, nil
}

// ParseABI parses the embedded KnightsTour ABI.
func ParseABI() (abi.ABI, error) {
	return abi.JSON(strings.NewReader(contract.KnightsTourABI))
}

// Address returns the contract address.
func (k *KnightsTour) Address() common.Address { return k.address }

// ABI returns the parsed contract ABI.
func (k *KnightsTour) ABI() abi.ABI { return k.abi }

// ──────────────────────────────────────────────
//  Write methods
// ──────────────────────────────────────────────

// RegisterPlayer creates the caller's player record.
func (k *KnightsTour) RegisterPlayer(opts *bind.TransactOpts) (*types.Transaction, error) {
	return k.contract.Transact(opts, "registerPlayer")
}

// DailyCheckIn grants the caller the daily free turns, at most once per 24h.
func (k *KnightsTour) DailyCheckIn(opts *bind.TransactOpts) (*types.Transaction, error) {
	return k.contract.Transact(opts, "dailyCheckIn")
}

// PurchaseTurns buys amount turns.  opts.Value must cover amount * turn
// price; the contract refunds any excess.
func (k *KnightsTour) PurchaseTurns(opts *bind.TransactOpts, amount uint32) (*types.Transaction, error) {
	return k.contract.Transact(opts, "purchaseTurns", amount)
}

// StartGame spends one turn and opens a game at startPosition.
func (k *KnightsTour) StartGame(opts *bind.TransactOpts, startPosition uint8) (*types.Transaction, error) {
	return k.contract.Transact(opts, "startGame", startPosition)
}

// MakeMove records a knight move in the caller's active game.
func (k *KnightsTour) MakeMove(opts *bind.TransactOpts, from, to uint8) (*types.Transaction, error) {
	return k.contract.Transact(opts, "makeMove", from, to)
}

// ClaimWin completes the active game after verifying the recorded moves.
func (k *KnightsTour) ClaimWin(opts *bind.TransactOpts) (*types.Transaction, error) {
	return k.contract.Transact(opts, "claimWin")
}

// ClaimWinDirect completes the active game as won without on-chain move
// history.
func (k *KnightsTour) ClaimWinDirect(opts *bind.TransactOpts) (*types.Transaction, error) {
	return k.contract.Transact(opts, "claimWinDirect")
}

// ForfeitGame ends the active game as lost.
func (k *KnightsTour) ForfeitGame(opts *bind.TransactOpts) (*types.Transaction, error) {
	return k.contract.Transact(opts, "forfeitGame")
}

// Withdraw sends the contract balance to the owner (owner-only).
func (k *KnightsTour) Withdraw(opts *bind.TransactOpts) (*types.Transaction, error) {
	return k.contract.Transact(opts, "withdraw")
}

// Pause stops all player actions (owner-only).
func (k *KnightsTour) Pause(opts *bind.TransactOpts) (*types.Transaction, error) {
	return k.contract.Transact(opts, "pause")
}

// Unpause resumes player actions (owner-only).
func (k *KnightsTour) Unpause(opts *bind.TransactOpts) (*types.Transaction, error) {
	return k.contract.Transact(opts, "unpause")
}

// TransferOwnership hands the contract to newOwner (owner-only).
func (k *KnightsTour) TransferOwnership(opts *bind.TransactOpts, newOwner common.Address) (*types.Transaction, error) {
	return k.contract.Transact(opts, "transferOwnership", newOwner)
}

// ──────────────────────────────────────────────
//  Read methods
// ──────────────────────────────────────────────

// PlayerInfo is the on-chain player record.
type PlayerInfo struct {
	LastCheckIn      *big.Int
	AvailableTurns   uint32
	TotalGamesWon    uint32
	TotalGamesPlayed uint32
	Exists           bool
}

// ActiveGameInfo describes a player's current game.  GameID is zero when
// the player has no active game.
type ActiveGameInfo struct {
	GameID    *big.Int
	MoveCount uint8
	Completed bool
	Won       bool
}

// ContractStats holds the contract-wide counters.
type ContractStats struct {
	TotalPlayers   *big.Int
	GamesCompleted *big.Int
	PrizePool      *big.Int
}

// GetPlayerInfo reads a player's record.
func (k *KnightsTour) GetPlayerInfo(opts *bind.CallOpts, player common.Address) (*PlayerInfo, error) {
	var out []interface{}
	if err := k.contract.Call(opts, &out, "getPlayerInfo", player); err != nil {
		return nil, err
	}
	return &PlayerInfo{
		LastCheckIn:      out[0].(*big.Int),
		AvailableTurns:   out[1].(uint32),
		TotalGamesWon:    out[2].(uint32),
		TotalGamesPlayed: out[3].(uint32),
		Exists:           out[4].(bool),
	}, nil
}

// GetActiveGameInfo reads a player's current game.
func (k *KnightsTour) GetActiveGameInfo(opts *bind.CallOpts, player common.Address) (*ActiveGameInfo, error) {
	var out []interface{}
	if err := k.contract.Call(opts, &out, "getActiveGameInfo", player); err != nil {
		return nil, err
	}
	return &ActiveGameInfo{
		GameID:    out[0].(*big.Int),
		MoveCount: out[1].(uint8),
		Completed: out[2].(bool),
		Won:       out[3].(bool),
	}, nil
}

// GetContractStats reads the contract-wide counters.
func (k *KnightsTour) GetContractStats(opts *bind.CallOpts) (*ContractStats, error) {
	var out []interface{}
	if err := k.contract.Call(opts, &out, "getContractStats"); err != nil {
		return nil, err
	}
	return &ContractStats{
		TotalPlayers:   out[0].(*big.Int),
		GamesCompleted: out[1].(*big.Int),
		PrizePool:      out[2].(*big.Int),
	}, nil
}

// CanCheckInToday reports whether the player's check-in cooldown has passed.
func (k *KnightsTour) CanCheckInToday(opts *bind.CallOpts, player common.Address) (bool, error) {
	return k.callBool(opts, "canCheckInToday", player)
}

// IsValidKnightMove asks the contract whether from→to is an L-shaped move.
func (k *KnightsTour) IsValidKnightMove(opts *bind.CallOpts, from, to uint8) (bool, error) {
	return k.callBool(opts, "isValidKnightMove", from, to)
}

// IsSquareVisited reports whether the player's active game has visited square.
func (k *KnightsTour) IsSquareVisited(opts *bind.CallOpts, player common.Address, square uint8) (bool, error) {
	return k.callBool(opts, "isSquareVisited", player, square)
}

// GetPossibleMoves returns the contract's view of the moves from position.
func (k *KnightsTour) GetPossibleMoves(opts *bind.CallOpts, position uint8) ([]uint8, error) {
	var out []interface{}
	if err := k.contract.Call(opts, &out, "getPossibleMoves", position); err != nil {
		return nil, err
	}
	return out[0].([]uint8), nil
}

// Paused reports whether the contract is paused.
func (k *KnightsTour) Paused(opts *bind.CallOpts) (bool, error) {
	return k.callBool(opts, "paused")
}

// Owner returns the contract owner.
func (k *KnightsTour) Owner(opts *bind.CallOpts) (common.Address, error) {
	var out []interface{}
	if err := k.contract.Call(opts, &out, "owner"); err != nil {
		return common.Address{}, err
	}
	return out[0].(common.Address), nil
}

func (k *KnightsTour) callBool(opts *bind.CallOpts, method string, params ...interface{}) (bool, error) {
	var out []interface{}
	if err := k.contract.Call(opts, &out, method, params...); err != nil {
		return false, err
	}
	return out[0].(bool), nil
}
