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
	"math"
	"math/big"
	"time"
)

// Turn economy constants, matching the contract.
var (
	// DefaultTurnPrice is 0.001 ETH expressed in wei.
	DefaultTurnPrice = new(big.Int).Exp(big.NewInt(10), big.NewInt(15), nil)

	// DailyFreeTurns is the number of turns granted per check-in.
	DailyFreeTurns uint32 = 3

	// CheckInInterval is the cooldown between check-ins.
	CheckInInterval = 24 * time.Hour
)

// Pricing quotes turn purchases off-chain so the right value can be
// attached before submitting.  The contract rejects underpayment and
// refunds overpayment.
type Pricing struct {
	TurnPrice *big.Int // wei per turn
}

// NewDefaultPricing returns Pricing at DefaultTurnPrice.
func NewDefaultPricing() *Pricing {
	return &Pricing{TurnPrice: new(big.Int).Set(DefaultTurnPrice)}
}

// NewPricing creates Pricing with the given per-turn price in wei.
func NewPricing(turnPrice *big.Int) (*Pricing, error) {
	if turnPrice == nil || turnPrice.Sign() < 0 {
		return nil, ErrNegativePrice
	}
	return &Pricing{TurnPrice: new(big.Int).Set(turnPrice)}, nil
}

// QuotePurchase returns the wei needed to buy amount turns.
func (p *Pricing) QuotePurchase(amount uint64) (*big.Int, error) {
	if amount == 0 || amount > math.MaxUint32 {
		return nil, ErrInvalidAmount
	}
	return new(big.Int).Mul(p.TurnPrice, new(big.Int).SetUint64(amount)), nil
}

// NextCheckIn returns when a player who last checked in at last may check
// in again.  A zero last means the player never checked in.
func NextCheckIn(last time.Time) time.Time {
	if last.IsZero() {
		return time.Time{}
	}
	return last.Add(CheckInInterval)
}

// CheckInDue is a local preview of canCheckInToday.  The contract uses
// block time, so the answer can differ near the boundary.
func CheckInDue(last, now time.Time) bool {
	next := NextCheckIn(last)
	return next.IsZero() || !now.Before(next)
}

// FormatWei renders a wei amount in ETH with up to 18 decimals, trimming
// trailing zeros.
func FormatWei(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	neg := wei.Sign() < 0
	abs := new(big.Int).Abs(wei)
	whole, frac := new(big.Int).QuoRem(abs, unit, new(big.Int))

	s := whole.String()
	if frac.Sign() != 0 {
		fs := frac.String()
		for len(fs) < 18 {
			fs = "0" + fs
		}
		for fs[len(fs)-1] == '0' {
			fs = fs[:len(fs)-1]
		}
		s += "." + fs
	}
	if neg {
		s = "-" + s
	}
	return s
}
