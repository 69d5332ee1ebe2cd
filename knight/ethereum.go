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
	"math/big"
	"time"

	"github.com/ToLoanRhino/Knights-Tour-Z/contracts/knightstour"
	"github.com/ToLoanRhino/Knights-Tour-Z/tour"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"
)

// DefaultConfirmTimeout bounds how long a write waits to be mined.
const DefaultConfirmTimeout = 3 * time.Minute

// DefaultGasLimits are fixed gas limits per method.  Methods not listed are
// estimated by the node.
var DefaultGasLimits = map[string]uint64{
	"dailyCheckIn":   100000,
	"startGame":      150000,
	"forfeitGame":    100000,
	"claimWin":       300000,
	"claimWinDirect": 300000,
}

// Backend is what the Ethereum gateway needs from a node connection.
// *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// EthereumGateway implements Gateway on top of a deployed KnightsTour contract.
type EthereumGateway struct {
	kt      *knightstour.KnightsTour
	backend Backend
	opts    *bind.TransactOpts // nil for a read-only gateway

	Timeout   time.Duration
	GasLimits map[string]uint64
}

// NewEthereumGateway creates a gateway bound to the contract at addr.  A nil
// opts yields a gateway whose writes fail with ErrReadOnly.
func NewEthereumGateway(addr common.Address, backend Backend, opts *bind.TransactOpts) (*EthereumGateway, error) {
	kt, err := knightstour.NewKnightsTour(addr, backend)
	if err != nil {
		return nil, err
	}
	return &EthereumGateway{
		kt:        kt,
		backend:   backend,
		opts:      opts,
		Timeout:   DefaultConfirmTimeout,
		GasLimits: DefaultGasLimits,
	}, nil
}

// ──────────────────────────────────────────────
//  Reads
// ──────────────────────────────────────────────

func callOpts(ctx context.Context) *bind.CallOpts {
	return &bind.CallOpts{Context: ctx}
}

func (e *EthereumGateway) Player(ctx context.Context, addr common.Address) (*Player, error) {
	info, err := e.kt.GetPlayerInfo(callOpts(ctx), addr)
	if err != nil {
		return nil, err
	}
	p := &Player{
		Address:          addr,
		AvailableTurns:   info.AvailableTurns,
		TotalGamesWon:    info.TotalGamesWon,
		TotalGamesPlayed: info.TotalGamesPlayed,
		Registered:       info.Exists,
	}
	if info.LastCheckIn != nil && info.LastCheckIn.Sign() > 0 {
		p.LastCheckIn = time.Unix(info.LastCheckIn.Int64(), 0).UTC()
	}
	return p, nil
}

func (e *EthereumGateway) ActiveGame(ctx context.Context, addr common.Address) (*GameInfo, error) {
	info, err := e.kt.GetActiveGameInfo(callOpts(ctx), addr)
	if err != nil {
		return nil, err
	}
	return &GameInfo{
		ID:        info.GameID.Uint64(),
		MoveCount: info.MoveCount,
		Completed: info.Completed,
		Won:       info.Won,
	}, nil
}

func (e *EthereumGateway) Stats(ctx context.Context) (*Stats, error) {
	st, err := e.kt.GetContractStats(callOpts(ctx))
	if err != nil {
		return nil, err
	}
	return &Stats{
		TotalPlayers:   st.TotalPlayers.Uint64(),
		GamesCompleted: st.GamesCompleted.Uint64(),
		PrizePool:      st.PrizePool,
	}, nil
}

func (e *EthereumGateway) CanCheckIn(ctx context.Context, addr common.Address) (bool, error) {
	return e.kt.CanCheckInToday(callOpts(ctx), addr)
}

func (e *EthereumGateway) IsValidKnightMove(ctx context.Context, from, to tour.Square) (bool, error) {
	return e.kt.IsValidKnightMove(callOpts(ctx), uint8(from), uint8(to))
}

func (e *EthereumGateway) PossibleMoves(ctx context.Context, from tour.Square) ([]tour.Square, error) {
	raw, err := e.kt.GetPossibleMoves(callOpts(ctx), uint8(from))
	if err != nil {
		return nil, err
	}
	moves := make([]tour.Square, len(raw))
	for i, m := range raw {
		moves[i] = tour.Square(m)
	}
	return moves, nil
}

func (e *EthereumGateway) Paused(ctx context.Context) (bool, error) {
	return e.kt.Paused(callOpts(ctx))
}

func (e *EthereumGateway) Owner(ctx context.Context) (common.Address, error) {
	return e.kt.Owner(callOpts(ctx))
}

func (e *EthereumGateway) GameHistory(ctx context.Context, addr common.Address, fromBlock uint64) ([]knightstour.Event, error) {
	return e.kt.GameHistory(ctx, addr, fromBlock)
}

// ──────────────────────────────────────────────
//  Writes
// ──────────────────────────────────────────────

func (e *EthereumGateway) Register(ctx context.Context) (*Receipt, error) {
	return e.transact(ctx, "registerPlayer", nil, e.kt.RegisterPlayer)
}

func (e *EthereumGateway) CheckIn(ctx context.Context) (*Receipt, error) {
	return e.transact(ctx, "dailyCheckIn", nil, e.kt.DailyCheckIn)
}

func (e *EthereumGateway) PurchaseTurns(ctx context.Context, amount uint32, value *big.Int) (*Receipt, error) {
	return e.transact(ctx, "purchaseTurns", value, func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return e.kt.PurchaseTurns(opts, amount)
	})
}

func (e *EthereumGateway) StartGame(ctx context.Context, start tour.Square) (*Receipt, error) {
	return e.transact(ctx, "startGame", nil, func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return e.kt.StartGame(opts, uint8(start))
	})
}

func (e *EthereumGateway) MakeMove(ctx context.Context, from, to tour.Square) (*Receipt, error) {
	return e.transact(ctx, "makeMove", nil, func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return e.kt.MakeMove(opts, uint8(from), uint8(to))
	})
}

func (e *EthereumGateway) ClaimWin(ctx context.Context) (*Receipt, error) {
	return e.transact(ctx, "claimWin", nil, e.kt.ClaimWin)
}

func (e *EthereumGateway) ClaimWinDirect(ctx context.Context) (*Receipt, error) {
	return e.transact(ctx, "claimWinDirect", nil, e.kt.ClaimWinDirect)
}

func (e *EthereumGateway) ForfeitGame(ctx context.Context) (*Receipt, error) {
	return e.transact(ctx, "forfeitGame", nil, e.kt.ForfeitGame)
}

func (e *EthereumGateway) Withdraw(ctx context.Context) (*Receipt, error) {
	return e.transact(ctx, "withdraw", nil, e.kt.Withdraw)
}

func (e *EthereumGateway) Pause(ctx context.Context) (*Receipt, error) {
	return e.transact(ctx, "pause", nil, e.kt.Pause)
}

func (e *EthereumGateway) Unpause(ctx context.Context) (*Receipt, error) {
	return e.transact(ctx, "unpause", nil, e.kt.Unpause)
}

func (e *EthereumGateway) TransferOwnership(ctx context.Context, newOwner common.Address) (*Receipt, error) {
	return e.transact(ctx, "transferOwnership", nil, func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return e.kt.TransferOwnership(opts, newOwner)
	})
}

// transact submits a write and waits for it to be mined.  The shared opts
// are copied so concurrent callers never race on Value or GasLimit.
func (e *EthereumGateway) transact(ctx context.Context, method string, value *big.Int, send func(*bind.TransactOpts) (*types.Transaction, error)) (*Receipt, error) {
	if e.opts == nil {
		return nil, &TxError{Op: method, Kind: KindWalletAbsent, Err: ErrReadOnly}
	}
	opts := *e.opts
	opts.Context = ctx
	opts.Value = value
	opts.GasLimit = e.GasLimits[method]

	tx, err := send(&opts)
	if err != nil {
		return nil, newTxError(method, common.Hash{}, err)
	}
	log.Info("Transaction submitted", "method", method, "tx", tx.Hash().Hex(), "gas", tx.Gas())

	wctx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()
	receipt, err := bind.WaitMined(wctx, e.backend, tx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			// The transaction may still land; only our wait is abandoned.
			log.Warn("Transaction not confirmed in time", "method", method, "tx", tx.Hash().Hex(), "timeout", e.Timeout)
			return nil, &TxError{Op: method, Kind: KindTransient, TxHash: tx.Hash(), Err: ErrConfirmTimeout}
		}
		return nil, newTxError(method, tx.Hash(), err)
	}
	if receipt.Status == types.ReceiptStatusFailed {
		reason := e.replayRevert(ctx, &opts, tx, receipt.BlockNumber)
		log.Warn("Transaction reverted", "method", method, "tx", tx.Hash().Hex(), "block", receipt.BlockNumber, "reason", reason)
		return nil, &TxError{Op: method, Kind: KindReverted, Reason: reason, TxHash: tx.Hash(), Err: ErrReverted}
	}

	events, err := e.kt.ParseReceipt(receipt)
	if err != nil {
		log.Warn("Failed to decode receipt events", "method", method, "tx", tx.Hash().Hex(), "err", err)
	}
	log.Info("Transaction confirmed", "method", method, "tx", tx.Hash().Hex(), "block", receipt.BlockNumber, "gasUsed", receipt.GasUsed, "events", len(events))

	r := &Receipt{
		Method:  method,
		TxHash:  tx.Hash(),
		GasUsed: receipt.GasUsed,
		Events:  events,
	}
	if receipt.BlockNumber != nil {
		r.Block = receipt.BlockNumber.Uint64()
	}
	return r, nil
}

// replayRevert re-executes a failed transaction as a call against its block
// to recover the revert reason.
func (e *EthereumGateway) replayRevert(ctx context.Context, opts *bind.TransactOpts, tx *types.Transaction, block *big.Int) string {
	msg := ethereum.CallMsg{
		From:  opts.From,
		To:    tx.To(),
		Gas:   tx.Gas(),
		Value: tx.Value(),
		Data:  tx.Data(),
	}
	_, err := e.backend.CallContract(ctx, msg, block)
	return RevertReason(err)
}
