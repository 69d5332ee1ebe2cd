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
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotePurchase(t *testing.T) {
	p := NewDefaultPricing()

	cost, err := p.QuotePurchase(1)
	require.NoError(t, err)
	assert.Equal(t, "0.001", FormatWei(cost))

	cost, err = p.QuotePurchase(10)
	require.NoError(t, err)
	assert.Equal(t, "10000000000000000", cost.String())
	assert.Equal(t, "0.01", FormatWei(cost))

	cost, err = p.QuotePurchase(1 << 32 - 1)
	require.NoError(t, err)
	assert.Equal(t, "4294967.295", FormatWei(cost))

	_, err = p.QuotePurchase(0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = p.QuotePurchase(1 << 32)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestNewPricing(t *testing.T) {
	_, err := NewPricing(big.NewInt(-1))
	assert.ErrorIs(t, err, ErrNegativePrice)
	_, err = NewPricing(nil)
	assert.ErrorIs(t, err, ErrNegativePrice)

	price := big.NewInt(5)
	p, err := NewPricing(price)
	require.NoError(t, err)
	price.SetInt64(7)
	cost, err := p.QuotePurchase(3)
	require.NoError(t, err)
	assert.Equal(t, int64(15), cost.Int64())

	free, err := NewPricing(new(big.Int))
	require.NoError(t, err)
	cost, err = free.QuotePurchase(3)
	require.NoError(t, err)
	assert.Zero(t, cost.Sign())
}

func TestCheckInDue(t *testing.T) {
	last := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, NextCheckIn(time.Time{}).IsZero())
	assert.Equal(t, last.Add(24*time.Hour), NextCheckIn(last))

	assert.True(t, CheckInDue(time.Time{}, last))
	assert.False(t, CheckInDue(last, last.Add(23*time.Hour)))
	assert.True(t, CheckInDue(last, last.Add(24*time.Hour)))
}

func TestFormatWei(t *testing.T) {
	for wei, want := range map[string]string{
		"0":                     "0",
		"1":                     "0.000000000000000001",
		"1000000000000000000":   "1",
		"1500000000000000000":   "1.5",
		"-250000000000000000":   "-0.25",
		"123456789000000000000": "123.456789",
	} {
		v, ok := new(big.Int).SetString(wei, 10)
		require.True(t, ok)
		assert.Equal(t, want, FormatWei(v), wei)
	}
	assert.Equal(t, "0", FormatWei(nil))
}
