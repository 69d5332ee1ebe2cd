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
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ErrUnknownEvent is returned for logs whose signature is not in the ABI.
var ErrUnknownEvent = errors.New("knightstour: unknown event")

// Event is a decoded contract event.
type Event interface {
	EventName() string
}

// PlayerRegistered is emitted by registerPlayer.
type PlayerRegistered struct {
	Player common.Address
	Raw    types.Log `json:"-"`
}

// DailyCheckIn is emitted by dailyCheckIn.
type DailyCheckIn struct {
	Player        common.Address
	Timestamp     *big.Int
	TurnsReceived uint32
	Raw           types.Log `json:"-"`
}

// TurnsPurchased is emitted by purchaseTurns.
type TurnsPurchased struct {
	Player common.Address
	Amount uint32
	Cost   *big.Int
	Raw    types.Log `json:"-"`
}

// GameStarted is emitted by startGame.
type GameStarted struct {
	Player        common.Address
	GameId        *big.Int
	StartPosition uint8
	Raw           types.Log `json:"-"`
}

// MoveMade is emitted by makeMove.
type MoveMade struct {
	Player     common.Address
	GameId     *big.Int
	FromSquare uint8
	ToSquare   uint8
	MoveNumber uint8
	Raw        types.Log `json:"-"`
}

// GameCompleted is emitted when a game is won or forfeited.
type GameCompleted struct {
	Player     common.Address
	GameId     *big.Int
	Won        bool
	TotalMoves uint8
	Raw        types.Log `json:"-"`
}

// BadgeAwarded is emitted when a win unlocks a badge.
type BadgeAwarded struct {
	Player      common.Address
	TotalBadges uint32
	Raw         types.Log `json:"-"`
}

// ContractPaused is emitted by pause.
type ContractPaused struct {
	By  common.Address
	Raw types.Log `json:"-"`
}

// ContractUnpaused is emitted by unpause.
type ContractUnpaused struct {
	By  common.Address
	Raw types.Log `json:"-"`
}

func (*PlayerRegistered) EventName() string { return "PlayerRegistered" }
func (*DailyCheckIn) EventName() string     { return "DailyCheckIn" }
func (*TurnsPurchased) EventName() string   { return "TurnsPurchased" }
func (*GameStarted) EventName() string      { return "GameStarted" }
func (*MoveMade) EventName() string         { return "MoveMade" }
func (*GameCompleted) EventName() string    { return "GameCompleted" }
func (*BadgeAwarded) EventName() string     { return "BadgeAwarded" }
func (*ContractPaused) EventName() string   { return "ContractPaused" }
func (*ContractUnpaused) EventName() string { return "ContractUnpaused" }

func newEvent(name string) Event {
	switch name {
	case "PlayerRegistered":
		return new(PlayerRegistered)
	case "DailyCheckIn":
		return new(DailyCheckIn)
	case "TurnsPurchased":
		return new(TurnsPurchased)
	case "GameStarted":
		return new(GameStarted)
	case "MoveMade":
		return new(MoveMade)
	case "GameCompleted":
		return new(GameCompleted)
	case "BadgeAwarded":
		return new(BadgeAwarded)
	case "ContractPaused":
		return new(ContractPaused)
	case "ContractUnpaused":
		return new(ContractUnpaused)
	}
	return nil
}

// ParseLog decodes a single log emitted by the contract.
func (k *KnightsTour) ParseLog(l types.Log) (Event, error) {
	if len(l.Topics) == 0 {
		return nil, ErrUnknownEvent
	}
	ev, err := k.abi.EventByID(l.Topics[0])
	if err != nil {
		return nil, ErrUnknownEvent
	}
	out := newEvent(ev.Name)
	if out == nil {
		return nil, ErrUnknownEvent
	}
	if err := k.contract.UnpackLog(out, ev.Name, l); err != nil {
		return nil, fmt.Errorf("knightstour: decode %s: %v", ev.Name, err)
	}
	setRaw(out, l)
	return out, nil
}

func setRaw(e Event, l types.Log) {
	switch ev := e.(type) {
	case *PlayerRegistered:
		ev.Raw = l
	case *DailyCheckIn:
		ev.Raw = l
	case *TurnsPurchased:
		ev.Raw = l
	case *GameStarted:
		ev.Raw = l
	case *MoveMade:
		ev.Raw = l
	case *GameCompleted:
		ev.Raw = l
	case *BadgeAwarded:
		ev.Raw = l
	case *ContractPaused:
		ev.Raw = l
	case *ContractUnpaused:
		ev.Raw = l
	}
}

// ParseReceipt decodes every contract event in a receipt, skipping logs
// emitted by other addresses.
func (k *KnightsTour) ParseReceipt(receipt *types.Receipt) ([]Event, error) {
	var events []Event
	for _, l := range receipt.Logs {
		if l.Address != k.address {
			continue
		}
		ev, err := k.ParseLog(*l)
		if errors.Is(err, ErrUnknownEvent) {
			continue
		}
		if err != nil {
			return events, err
		}
		events = append(events, ev)
	}
	return events, nil
}

// GameHistory returns the GameStarted and MoveMade events for player from
// fromBlock onwards, oldest first.
func (k *KnightsTour) GameHistory(ctx context.Context, player common.Address, fromBlock uint64) ([]Event, error) {
	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		Addresses: []common.Address{k.address},
		Topics: [][]common.Hash{
			{k.abi.Events["GameStarted"].ID, k.abi.Events["MoveMade"].ID},
			{common.BytesToHash(player.Bytes())},
		},
	}
	logs, err := k.filterer.FilterLogs(ctx, query)
	if err != nil {
		return nil, err
	}
	events := make([]Event, 0, len(logs))
	for _, l := range logs {
		ev, err := k.ParseLog(l)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}
