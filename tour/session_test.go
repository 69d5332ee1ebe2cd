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

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A complete tour starting from the top-left corner.
var cornerTour = []Square{
	0, 11, 22, 19, 8, 1, 12, 15, 6, 3, 14, 23, 16, 5, 2, 9, 18, 21, 10, 7, 4, 13, 24, 17, 20,
}

func TestCenterStartLegalMoves(t *testing.T) {
	s := NewSession(nil)
	require.NoError(t, s.ChooseStart(12))

	assert.Equal(t, StateInProgress, s.State())
	assert.ElementsMatch(t, []Square{1, 3, 5, 9, 15, 19, 21, 23}, s.Legal())
	assert.Equal(t, 1, s.Board().Order(12))
}

func TestMoveLegality(t *testing.T) {
	s := NewSession(nil)
	require.NoError(t, s.ChooseStart(12))

	_, err := s.AttemptMove(13)
	assert.ErrorIs(t, err, ErrIllegalMove, "adjacent square")
	_, err = s.AttemptMove(17)
	assert.ErrorIs(t, err, ErrIllegalMove, "vertical step")

	st, err := s.AttemptMove(19)
	require.NoError(t, err)
	assert.Equal(t, StateInProgress, st)
	assert.Equal(t, Square(19), s.Current())
	assert.Equal(t, 2, s.Board().Order(19))

	_, err = s.AttemptMove(12)
	assert.ErrorIs(t, err, ErrAlreadyVisited)
	assert.ErrorIs(t, err, ErrIllegalMove)
}

func TestIllegalMoveLeavesSessionUnchanged(t *testing.T) {
	s := NewSession(nil)
	require.NoError(t, s.ChooseStart(12))
	_, err := s.AttemptMove(19)
	require.NoError(t, err)

	board, visited, legal := s.Board(), s.Visited(), s.Legal()
	for _, target := range []Square{12, 13, 18, 0, 24, 25} {
		_, err := s.AttemptMove(target)
		require.Error(t, err, "target %v", target)
		assert.Equal(t, board, s.Board())
		assert.Equal(t, visited, s.Visited())
		assert.Equal(t, legal, s.Legal())
	}
}

func TestStateGuards(t *testing.T) {
	s := NewSession(nil)
	_, err := s.AttemptMove(1)
	assert.ErrorIs(t, err, ErrNotStarted)
	assert.ErrorIs(t, s.ChooseStart(25), ErrInvalidSquare)
	assert.Equal(t, StateEmpty, s.State())

	require.NoError(t, s.ChooseStart(0))
	assert.ErrorIs(t, s.ChooseStart(1), ErrAlreadyStarted)
	assert.ErrorIs(t, s.MarkClaimed(), ErrNotWon)
}

func TestCompleteTourWins(t *testing.T) {
	s, err := Replay(nil, cornerTour)
	require.NoError(t, err)

	assert.Equal(t, StateWon, s.State())
	assert.Equal(t, Squares, s.Visited())
	assert.Empty(t, s.Legal())
	assert.Equal(t, cornerTour, s.Path())

	_, err = s.AttemptMove(7)
	assert.ErrorIs(t, err, ErrFinished)
}

func TestClaimBookkeeping(t *testing.T) {
	s, err := Replay(nil, cornerTour)
	require.NoError(t, err)

	s.SetClaimError(errors.New("execution reverted"))
	assert.Equal(t, StateWon, s.State())
	assert.False(t, s.Claimed())
	assert.Equal(t, "execution reverted", s.ClaimError())

	require.NoError(t, s.MarkClaimed())
	assert.True(t, s.Claimed())
	assert.Empty(t, s.ClaimError())
}

func TestClaimErrorRequiresWin(t *testing.T) {
	s := NewSession(nil)
	require.NoError(t, s.ChooseStart(12))

	s.SetClaimError(errors.New("execution reverted"))
	assert.Empty(t, s.ClaimError())
	assert.ErrorIs(t, s.MarkClaimed(), ErrNotWon)
	assert.NotContains(t, s.String(), "claim_error")
}

func TestBoardCopyReads(t *testing.T) {
	s, err := Replay(nil, []Square{12, 19, 8})
	require.NoError(t, err)

	assert.True(t, s.Board().Visited(19))
	assert.False(t, s.Board().Visited(0))
	assert.Equal(t, 3, s.Board().Order(8))
	assert.Equal(t, 3, s.Board().Count())
}

func TestStuck(t *testing.T) {
	path := []Square{0, 11, 22, 13, 24, 17, 8, 19, 12, 23, 14, 3, 6, 15}
	s, err := Replay(nil, path)
	require.NoError(t, err)
	assert.Equal(t, StateStuck, s.State())
	assert.Empty(t, s.Legal())
	assert.Less(t, s.Visited(), Squares)

	_, err = s.AttemptMove(4)
	assert.ErrorIs(t, err, ErrFinished)
}

func TestLegalSetMatchesOffsets(t *testing.T) {
	var p LocalPreview
	for sq := Square(0); sq < Squares; sq++ {
		var b Board
		b[sq] = 1
		var want []Square
		for _, off := range KnightOffsets {
			r, c := sq.Row()+off[0], sq.Col()+off[1]
			if r >= 0 && r < Size && c >= 0 && c < Size {
				want = append(want, SquareAt(r, c))
			}
		}
		got := p.Moves(sq, &b)
		assert.ElementsMatch(t, want, got, "square %v", sq)
		for _, to := range got {
			assert.True(t, p.IsKnightMove(sq, to))
		}
	}
	assert.False(t, p.IsKnightMove(12, 18), "diagonal")
	assert.True(t, p.IsKnightMove(12, 5))
}

// Every route that only takes legal moves and reaches 25 squares must end
// in StateWon, and no visited square may ever be offered again.
func TestExhaustiveToursFromCenter(t *testing.T) {
	var (
		p     LocalPreview
		tours int
		walk  func(b Board, path []Square)
	)
	walk = func(b Board, path []Square) {
		if len(path) == Squares {
			tours++
			s, err := Replay(p, path)
			require.NoError(t, err)
			require.Equal(t, StateWon, s.State())
			return
		}
		for _, next := range p.Moves(path[len(path)-1], &b) {
			require.False(t, b.Visited(next))
			nb := b
			nb[next] = uint8(len(path) + 1)
			walk(nb, append(path, next))
		}
	}
	var b Board
	b[12] = 1
	walk(b, []Square{12})
	assert.Equal(t, 64, tours)
}

func TestBoardString(t *testing.T) {
	s := NewSession(nil)
	require.NoError(t, s.ChooseStart(0))
	_, err := s.AttemptMove(7)
	require.NoError(t, err)

	b := s.Board()
	assert.Equal(t, " 1  .  .  .  .\n .  .  2  .  .\n .  .  .  .  .\n .  .  .  .  .\n .  .  .  .  .\n", b.String())
}
