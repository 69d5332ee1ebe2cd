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

	"github.com/ethereum/go-ethereum/common"
)

// Badge is an achievement unlocked by cumulative wins.
type Badge struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Wins        uint32 `json:"wins"`
	Description string `json:"description"`
}

// Badges is the unlock table, ordered by threshold.
var Badges = []Badge{
	{1, "First Knight", 1, "Win your first game"},
	{2, "Rising Star", 3, "Win 3 games"},
	{3, "Knight Captain", 5, "Win 5 games"},
	{4, "Knight Commander", 10, "Win 10 games"},
	{5, "Grand Master", 25, "Win 25 games"},
	{6, "Legend", 50, "Win 50 games"},
}

// BadgeStatus is a badge together with the player's progress towards it.
type BadgeStatus struct {
	Badge
	Unlocked bool    `json:"unlocked"`
	Progress float64 `json:"progress"` // percent, capped at 100
}

// ProfileView is the derived presentation of a player's totals.
type ProfileView struct {
	Address          common.Address `json:"address"`
	AvailableTurns   uint32         `json:"available_turns"`
	TotalWins        uint32         `json:"total_wins"`
	TotalGamesPlayed uint32         `json:"total_games_played"`
	WinRate          int            `json:"win_rate"` // whole percent
	Unlocked         int            `json:"unlocked"`
	Badges           []BadgeStatus  `json:"badges"`
}

// Profile derives win rate and badge status from a player's totals.
func Profile(addr common.Address, turns, wins, played uint32) *ProfileView {
	v := &ProfileView{
		Address:          addr,
		AvailableTurns:   turns,
		TotalWins:        wins,
		TotalGamesPlayed: played,
		Badges:           make([]BadgeStatus, len(Badges)),
	}
	if played > 0 {
		v.WinRate = int(math.Round(float64(wins) / float64(played) * 100))
	}
	for i, b := range Badges {
		st := BadgeStatus{Badge: b, Unlocked: wins >= b.Wins}
		st.Progress = math.Min(float64(wins)/float64(b.Wins)*100, 100)
		if st.Unlocked {
			v.Unlocked++
		}
		v.Badges[i] = st
	}
	return v
}

// ProfileOf derives the profile of a mirrored player record.
func ProfileOf(p *Player) *ProfileView {
	return Profile(p.Address, p.AvailableTurns, p.TotalGamesWon, p.TotalGamesPlayed)
}
