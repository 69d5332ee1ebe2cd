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
	"fmt"
)

// State is the traversal phase of a Session.
type State uint8

const (
	StateEmpty      State = iota // no starting square chosen
	StateInProgress              // at least one square visited, moves remain
	StateWon                     // all 25 squares visited
	StateStuck                   // no legal move left before 25 visits
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateInProgress:
		return "in_progress"
	case StateWon:
		return "won"
	case StateStuck:
		return "stuck"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further moves are accepted.
func (s State) Terminal() bool { return s == StateWon || s == StateStuck }

// Errors returned by Session operations.
var (
	ErrNotStarted     = errors.New("tour: no starting square chosen")
	ErrAlreadyStarted = errors.New("tour: starting square already chosen")
	ErrFinished       = errors.New("tour: game is over")
	ErrInvalidSquare  = errors.New("tour: square is off the board")
	ErrIllegalMove    = errors.New("tour: illegal move")
	ErrAlreadyVisited = fmt.Errorf("%w: square already visited", ErrIllegalMove)
	ErrNotWon         = errors.New("tour: game has not been won")
)

// Session is one traversal of the board.  The zero value is not usable;
// create sessions with NewSession or Replay.
type Session struct {
	preview Preview

	board   Board
	path    []Square
	legal   []Square
	state   State
	claimed bool
	claim   string // last claim failure, empty when none
}

// NewSession returns an empty session that checks moves with p.  A nil
// preview selects LocalPreview.
func NewSession(p Preview) *Session {
	if p == nil {
		p = LocalPreview{}
	}
	return &Session{preview: p}
}

// Replay rebuilds a session by applying path in order: the first square is
// the start, every following square a move.
func Replay(p Preview, path []Square) (*Session, error) {
	s := NewSession(p)
	for i, sq := range path {
		var err error
		if i == 0 {
			err = s.ChooseStart(sq)
		} else {
			_, err = s.AttemptMove(sq)
		}
		if err != nil {
			return nil, fmt.Errorf("tour: replay step %d (%v): %w", i+1, sq, err)
		}
	}
	return s, nil
}

// ChooseStart marks sq as the first visited square.
func (s *Session) ChooseStart(sq Square) error {
	if s.state != StateEmpty {
		return ErrAlreadyStarted
	}
	if !sq.Valid() {
		return ErrInvalidSquare
	}
	s.visit(sq)
	return nil
}

// Check reports the error AttemptMove would return for sq without
// changing the session.
func (s *Session) Check(sq Square) error {
	switch s.state {
	case StateEmpty:
		return ErrNotStarted
	case StateWon, StateStuck:
		return ErrFinished
	}
	if !sq.Valid() {
		return ErrInvalidSquare
	}
	if s.isLegal(sq) {
		return nil
	}
	if s.board.Visited(sq) && s.preview.IsKnightMove(s.Current(), sq) {
		return ErrAlreadyVisited
	}
	return ErrIllegalMove
}

// AttemptMove moves the knight to sq.  An illegal target leaves the session
// untouched.
func (s *Session) AttemptMove(sq Square) (State, error) {
	if err := s.Check(sq); err != nil {
		return s.state, err
	}
	s.visit(sq)
	return s.state, nil
}

func (s *Session) visit(sq Square) {
	s.path = append(s.path, sq)
	s.board[sq] = uint8(len(s.path))
	s.legal = s.preview.Moves(sq, &s.board)

	switch {
	case len(s.path) == Squares:
		s.state = StateWon
	case len(s.legal) == 0:
		s.state = StateStuck
	default:
		s.state = StateInProgress
	}
}

func (s *Session) isLegal(sq Square) bool {
	for _, l := range s.legal {
		if l == sq {
			return true
		}
	}
	return false
}

// State returns the traversal phase.
func (s *Session) State() State { return s.state }

// Visited returns the number of visited squares.
func (s *Session) Visited() int { return len(s.path) }

// Current returns the knight's square.  It is only meaningful once a start
// has been chosen.
func (s *Session) Current() Square {
	if len(s.path) == 0 {
		return 0
	}
	return s.path[len(s.path)-1]
}

// Start returns the starting square, or false for an empty session.
func (s *Session) Start() (Square, bool) {
	if len(s.path) == 0 {
		return 0, false
	}
	return s.path[0], true
}

// Legal returns a copy of the squares the knight may move to next.
func (s *Session) Legal() []Square {
	return append([]Square(nil), s.legal...)
}

// Board returns a copy of the visit orders.
func (s *Session) Board() Board { return s.board }

// Path returns a copy of the visited squares in order.
func (s *Session) Path() []Square {
	return append([]Square(nil), s.path...)
}

// MarkClaimed records that the win was confirmed on-chain.
func (s *Session) MarkClaimed() error {
	if s.state != StateWon {
		return ErrNotWon
	}
	s.claimed, s.claim = true, ""
	return nil
}

// SetClaimError records a failed claim.  The session stays Won so the
// claim can be retried without replaying the traversal.  It is a no-op
// unless the session is Won.
func (s *Session) SetClaimError(err error) {
	if s.state != StateWon {
		return
	}
	if err == nil {
		s.claim = ""
		return
	}
	s.claim = err.Error()
}

// RestoreClaim reinstates persisted claim bookkeeping.
func (s *Session) RestoreClaim(claimed bool, claimErr string) {
	if s.state != StateWon {
		return
	}
	s.claimed, s.claim = claimed, claimErr
}

// Claimed reports whether the win has been recorded on-chain.
func (s *Session) Claimed() bool { return s.claimed }

// ClaimError returns the last claim failure, or "" if none.
func (s *Session) ClaimError() string { return s.claim }

// String renders the board followed by a status line.
func (s *Session) String() string {
	status := fmt.Sprintf("state=%s visited=%d/%d", s.state, len(s.path), Squares)
	if len(s.path) > 0 {
		status += fmt.Sprintf(" at=%v legal=%v", s.Current(), s.legal)
	}
	if s.claim != "" {
		status += " claim_error=" + s.claim
	}
	return s.board.String() + status
}
