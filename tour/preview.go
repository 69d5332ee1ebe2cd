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

package tour

// Preview computes move legality off-chain.  Its answers are advisory: the
// contract re-validates every move and may disagree if its state has moved
// on since the last read.
type Preview interface {
	// IsKnightMove reports whether to is an L-shaped step from from,
	// ignoring visit history.
	IsKnightMove(from, to Square) bool

	// Moves returns the on-board knight targets from from that the board
	// has not visited yet, in KnightOffsets order.
	Moves(from Square, b *Board) []Square
}

// LocalPreview is the in-process Preview built on KnightOffsets.
type LocalPreview struct{}

func (LocalPreview) IsKnightMove(from, to Square) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	dr, dc := to.Row()-from.Row(), to.Col()-from.Col()
	for _, off := range KnightOffsets {
		if off[0] == dr && off[1] == dc {
			return true
		}
	}
	return false
}

func (LocalPreview) Moves(from Square, b *Board) []Square {
	if !from.Valid() {
		return nil
	}
	var out []Square
	for _, off := range KnightOffsets {
		r, c := from.Row()+off[0], from.Col()+off[1]
		if r < 0 || r >= Size || c < 0 || c >= Size {
			continue
		}
		if to := SquareAt(r, c); !b.Visited(to) {
			out = append(out, to)
		}
	}
	return out
}
