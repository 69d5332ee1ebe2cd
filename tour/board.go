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

// Package tour implements the client-side Knight's Tour traversal on the
// fixed 5x5 board.  It mirrors the game kept by the KnightsTour contract so
// the board can be rendered and moves checked before a transaction is sent,
// but the contract remains the only authority on outcomes.
package tour

import (
	"fmt"
	"strings"
)

// Board geometry.
const (
	Size    = 5
	Squares = Size * Size
)

// Square is a board index in [0, 25), laid out row-major.
type Square uint8

// SquareAt returns the square at the given row and column.  The result is
// only meaningful when both coordinates are on the board.
func SquareAt(row, col int) Square {
	return Square(row*Size + col)
}

// Row returns the zero-based row of the square.
func (s Square) Row() int { return int(s) / Size }

// Col returns the zero-based column of the square.
func (s Square) Col() int { return int(s) % Size }

// Valid reports whether the square lies on the board.
func (s Square) Valid() bool { return s < Squares }

func (s Square) String() string {
	return fmt.Sprintf("%d(r%d,c%d)", uint8(s), s.Row(), s.Col())
}

// KnightOffsets are the eight (dRow, dCol) steps a knight may take.
var KnightOffsets = [8][2]int{
	{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
	{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
}

// Board records the 1-based order in which each square was visited.
// Zero marks an unvisited square.
type Board [Squares]uint8

// Visited reports whether the square has been entered.
func (b Board) Visited(s Square) bool {
	return s.Valid() && b[s] != 0
}

// Order returns the visit order of the square, or 0 if unvisited.
func (b Board) Order(s Square) int {
	if !s.Valid() {
		return 0
	}
	return int(b[s])
}

// Count returns how many squares have been visited.
func (b Board) Count() int {
	n := 0
	for _, o := range b {
		if o != 0 {
			n++
		}
	}
	return n
}

// String renders the board as five rows of visit orders, with dots for
// unvisited squares.
func (b Board) String() string {
	var sb strings.Builder
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			if o := b[SquareAt(r, c)]; o != 0 {
				fmt.Fprintf(&sb, "%2d", o)
			} else {
				sb.WriteString(" .")
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
