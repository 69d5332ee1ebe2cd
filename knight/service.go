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
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ToLoanRhino/Knights-Tour-Z/contracts/knightstour"
	"github.com/ToLoanRhino/Knights-Tour-Z/tour"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
)

// Config tunes a Service.
type Config struct {
	// Player is the address whose game the service drives.
	Player common.Address

	// Mirror sends every move on-chain and claims with claimWin.  Without
	// it moves stay local and wins are claimed with claimWinDirect.
	Mirror bool

	// FromBlock is the lowest block Resync scans for game history.
	FromBlock uint64

	Pricing *Pricing
	Preview tour.Preview
}

// Service orchestrates one player's game:
//  1. Read the player record and active game from the contract
//  2. Start a game on-chain and open a local tour.Session for it
//  3. Check moves locally, optionally mirroring each one on-chain
//  4. Claim the win once the board is covered, keeping the session open
//     for retry if the claim fails
//  5. Re-read chain state after every write and flag divergence
//
// At most one write is in flight at a time; a second one fails with ErrBusy.
type Service struct {
	gw        Gateway
	store     SessionStore
	pricing   *Pricing
	preview   tour.Preview
	player    common.Address
	mirror    bool
	fromBlock uint64
	now       func() time.Time

	mu       sync.Mutex
	inflight bool
	snap     *Snapshot
	session  *tour.Session
	record   *SessionRecord
}

// NewService creates a service for cfg.Player.  A nil store keeps sessions
// in memory only.
func NewService(gw Gateway, store SessionStore, cfg Config) *Service {
	if store == nil {
		store = NewMemoryStore()
	}
	if cfg.Pricing == nil {
		cfg.Pricing = NewDefaultPricing()
	}
	if cfg.Preview == nil {
		cfg.Preview = tour.LocalPreview{}
	}
	return &Service{
		gw:        gw,
		store:     store,
		pricing:   cfg.Pricing,
		preview:   cfg.Preview,
		player:    cfg.Player,
		mirror:    cfg.Mirror,
		fromBlock: cfg.FromBlock,
		now:       time.Now,
	}
}

// Player returns the address the service acts for.
func (s *Service) Player() common.Address { return s.player }

// Pricing returns the turn pricing in use.
func (s *Service) Pricing() *Pricing { return s.pricing }

func (s *Service) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight {
		return ErrBusy
	}
	s.inflight = true
	return nil
}

func (s *Service) end() {
	s.mu.Lock()
	s.inflight = false
	s.mu.Unlock()
}

// ──────────────────────────────────────────────
//  Reads and reconciliation
// ──────────────────────────────────────────────

// Refresh re-reads the player record and active game.
func (s *Service) Refresh(ctx context.Context) (*Snapshot, error) {
	p, err := s.gw.Player(ctx, s.player)
	if err != nil {
		return nil, fmt.Errorf("knight: read player: %w", err)
	}
	g, err := s.gw.ActiveGame(ctx, s.player)
	if err != nil {
		return nil, fmt.Errorf("knight: read active game: %w", err)
	}
	snap := &Snapshot{Player: *p, Game: *g, ReadAt: s.now()}
	if p.Registered {
		can, err := s.gw.CanCheckIn(ctx, s.player)
		if err != nil {
			log.Debug("Check-in status unavailable", "player", s.player, "err", err)
		}
		snap.CanCheckIn = can
	}
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
	return snap, nil
}

// Snapshot returns the last read, or nil before the first Refresh.
func (s *Service) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap == nil {
		return nil
	}
	c := *s.snap
	return &c
}

// Stats reads the contract-wide counters.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.gw.Stats(ctx)
}

// Profile refreshes the player record and derives the profile view.
func (s *Service) Profile(ctx context.Context) (*ProfileView, error) {
	snap, err := s.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	return ProfileOf(&snap.Player), nil
}

// Load restores the player's most recent open local game from the store
// and reconciles it with the chain.
func (s *Service) Load(ctx context.Context) error {
	rec, err := s.store.Latest(ctx, s.player)
	if errors.Is(err, ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !rec.Open() {
		return nil
	}
	sess, err := tour.Replay(s.preview, rec.Path)
	if err != nil {
		return fmt.Errorf("knight: restore session %s: %w", rec.ID, err)
	}
	sess.RestoreClaim(rec.Claimed, rec.ClaimError)

	s.mu.Lock()
	s.session, s.record = sess, rec
	s.mu.Unlock()
	log.Debug("Restored local game", "id", rec.ID, "game", rec.GameID, "state", sess.State(), "visited", sess.Visited())
	return s.Reconcile(ctx)
}

// Reconcile re-reads the chain and checks the local game against it.  The
// chain is authoritative: a mismatch yields ErrStateDiverged and the local
// game should be rebuilt with Resync or forfeited.
func (s *Service) Reconcile(ctx context.Context) error {
	snap, err := s.Refresh(ctx)
	if err != nil {
		return err
	}
	return s.reconcile(snap)
}

func (s *Service) reconcile(snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, rec := s.session, s.record
	if sess == nil || rec == nil || !rec.Open() {
		return nil
	}
	if !snap.Game.Active() {
		return fmt.Errorf("%w: chain has no active game, local game is %s", ErrStateDiverged, sess.State())
	}
	if rec.GameID == 0 {
		rec.GameID = snap.Game.ID
	} else if rec.GameID != snap.Game.ID {
		return fmt.Errorf("%w: chain game %d, local game %d", ErrStateDiverged, snap.Game.ID, rec.GameID)
	}
	if rec.Mirrored && int(snap.Game.MoveCount) != sess.Visited() {
		return fmt.Errorf("%w: chain recorded %d squares, local board has %d", ErrStateDiverged, snap.Game.MoveCount, sess.Visited())
	}
	return nil
}

// afterWrite refreshes from the chain and reconciles.  Failures here do not
// undo the confirmed write.
func (s *Service) afterWrite(ctx context.Context) error {
	if err := s.Reconcile(ctx); err != nil {
		if errors.Is(err, ErrStateDiverged) {
			log.Warn("Local game diverged from chain", "player", s.player, "err", err)
		}
		return err
	}
	return nil
}

// ──────────────────────────────────────────────
//  Account writes
// ──────────────────────────────────────────────

// Register creates the player record on-chain.
func (s *Service) Register(ctx context.Context) (*Receipt, error) {
	return s.simpleWrite(ctx, s.gw.Register)
}

// CheckIn claims the daily free turns.
func (s *Service) CheckIn(ctx context.Context) (*Receipt, error) {
	return s.simpleWrite(ctx, s.gw.CheckIn)
}

// Purchase buys amount turns at the configured price.
func (s *Service) Purchase(ctx context.Context, amount uint64) (*Receipt, error) {
	cost, err := s.pricing.QuotePurchase(amount)
	if err != nil {
		return nil, err
	}
	return s.simpleWrite(ctx, func(ctx context.Context) (*Receipt, error) {
		return s.gw.PurchaseTurns(ctx, uint32(amount), cost)
	})
}

func (s *Service) simpleWrite(ctx context.Context, fn func(context.Context) (*Receipt, error)) (*Receipt, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	r, err := fn(ctx)
	if err != nil {
		return nil, err
	}
	return r, s.afterWrite(ctx)
}

// ──────────────────────────────────────────────
//  Game writes
// ──────────────────────────────────────────────

// Start spends a turn to open a game at square and begins the local board.
func (s *Service) Start(ctx context.Context, square tour.Square) (*Receipt, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()
	return s.start(ctx, square)
}

func (s *Service) start(ctx context.Context, square tour.Square) (*Receipt, error) {
	if !square.Valid() {
		return nil, tour.ErrInvalidSquare
	}
	s.mu.Lock()
	open := s.session != nil && s.record.Open()
	s.mu.Unlock()
	if open {
		return nil, ErrGameInProgress
	}

	snap, err := s.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	switch {
	case !snap.Player.Registered:
		return nil, ErrNotRegistered
	case snap.Player.AvailableTurns == 0:
		return nil, ErrNoTurns
	case snap.Game.Active():
		return nil, fmt.Errorf("%w on-chain (game %d); forfeit or resync first", ErrGameInProgress, snap.Game.ID)
	}

	r, err := s.gw.StartGame(ctx, square)
	if err != nil {
		return nil, err
	}
	sess := tour.NewSession(s.preview)
	if err := sess.ChooseStart(square); err != nil {
		return r, err
	}
	now := s.now()
	rec := &SessionRecord{
		ID:        uuid.NewString(),
		Player:    s.player,
		Mirrored:  s.mirror,
		CreatedAt: now,
	}
	if gs := r.GameStarted(); gs != nil && gs.GameId != nil {
		rec.GameID = gs.GameId.Uint64()
	}
	s.mu.Lock()
	s.session, s.record = sess, rec
	s.mu.Unlock()
	log.Info("Game started", "player", s.player, "game", rec.GameID, "start", square, "mirrored", rec.Mirrored)

	s.persist(ctx)
	return r, s.afterWrite(ctx)
}

// Move advances the knight to square.  The move is checked locally first;
// for mirrored games it is committed locally only after the chain has
// accepted it.  The receipt is nil for unmirrored games.
func (s *Service) Move(ctx context.Context, square tour.Square) (tour.State, *Receipt, error) {
	if err := s.begin(); err != nil {
		return tour.StateEmpty, nil, err
	}
	defer s.end()

	s.mu.Lock()
	sess, rec := s.session, s.record
	if sess == nil {
		s.mu.Unlock()
		return tour.StateEmpty, nil, ErrNoSession
	}
	from, state := sess.Current(), sess.State()
	err := sess.Check(square)
	mirrored := rec.Mirrored
	s.mu.Unlock()
	if err != nil {
		return state, nil, err
	}

	var r *Receipt
	if mirrored {
		if r, err = s.gw.MakeMove(ctx, from, square); err != nil {
			return state, nil, err
		}
	}
	s.mu.Lock()
	state, err = sess.AttemptMove(square)
	s.mu.Unlock()
	if err != nil {
		return state, r, err
	}
	log.Debug("Knight moved", "from", from, "to", square, "state", state, "mirrored", mirrored)
	s.persist(ctx)

	if mirrored {
		return state, r, s.afterWrite(ctx)
	}
	return state, nil, nil
}

// Claim records a won game on-chain.  On failure the session stays won with
// the error attached so the claim can be retried.
func (s *Service) Claim(ctx context.Context) (*Receipt, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	s.mu.Lock()
	sess, rec := s.session, s.record
	var err error
	switch {
	case sess == nil:
		err = ErrNoSession
	case sess.State() != tour.StateWon:
		err = tour.ErrNotWon
	case sess.Claimed():
		err = ErrAlreadyClaimed
	}
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	claim := s.gw.ClaimWinDirect
	if rec.Mirrored {
		claim = s.gw.ClaimWin
	}
	r, err := claim(ctx)

	s.mu.Lock()
	if err != nil {
		sess.SetClaimError(err)
	} else {
		sess.MarkClaimed()
	}
	s.mu.Unlock()
	s.persist(ctx)

	if err != nil {
		log.Warn("Win claim failed", "player", s.player, "game", rec.GameID, "err", err)
		return nil, err
	}
	log.Info("Win claimed", "player", s.player, "game", rec.GameID, "tx", r.TxHash.Hex())
	return r, s.afterWrite(ctx)
}

// Forfeit ends the active game on-chain and drops the local board.
func (s *Service) Forfeit(ctx context.Context) (*Receipt, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()
	return s.forfeit(ctx)
}

func (s *Service) forfeit(ctx context.Context) (*Receipt, error) {
	r, err := s.gw.ForfeitGame(ctx)
	if err != nil && !errors.Is(err, ErrNoActiveGame) {
		return nil, err
	}
	// With no active game on-chain the local board is stale either way.
	s.abandon(ctx)
	if err != nil {
		return nil, err
	}
	return r, s.afterWrite(ctx)
}

// Reset forfeits the current game and starts a new one at square, costing
// one turn.
func (s *Service) Reset(ctx context.Context, square tour.Square) (*Receipt, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	if _, err := s.forfeit(ctx); err != nil {
		return nil, err
	}
	return s.start(ctx, square)
}

// ResetSquare resolves the square a reset starts from: the given one, or
// the current game's start.
func (s *Service) ResetSquare(square *uint8) (tour.Square, error) {
	if square != nil {
		return tour.Square(*square), nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return 0, ErrNoSession
	}
	start, ok := s.session.Start()
	if !ok {
		return 0, tour.ErrNotStarted
	}
	return start, nil
}

// Resync rebuilds the local game from the chain's GameStarted and MoveMade
// history.  Unmirrored local moves are kept when the chain still has the
// same game open, since the chain never saw them.
func (s *Service) Resync(ctx context.Context) error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	snap, err := s.Refresh(ctx)
	if err != nil {
		return err
	}
	if !snap.Game.Active() {
		s.abandon(ctx)
		return nil
	}
	events, err := s.gw.GameHistory(ctx, s.player, s.fromBlock)
	if err != nil {
		return fmt.Errorf("knight: read game history: %w", err)
	}
	path, err := historyPath(events, snap.Game.ID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	rec := s.record
	if rec != nil && rec.Open() && rec.GameID == snap.Game.ID && !rec.Mirrored &&
		len(path) == 1 && len(rec.Path) > 0 && rec.Path[0] == path[0] {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	sess, err := tour.Replay(s.preview, path)
	if err != nil {
		return fmt.Errorf("knight: chain history does not replay: %w", err)
	}
	next := &SessionRecord{
		ID:        uuid.NewString(),
		Player:    s.player,
		GameID:    snap.Game.ID,
		Mirrored:  s.mirror || len(path) > 1,
		CreatedAt: s.now(),
	}
	if rec != nil && rec.GameID == snap.Game.ID {
		next.ID, next.CreatedAt = rec.ID, rec.CreatedAt
	} else if rec != nil {
		rec.Abandoned = true
		s.save(ctx, rec)
	}

	s.mu.Lock()
	s.session, s.record = sess, next
	s.mu.Unlock()
	log.Info("Resynced local game from chain", "game", snap.Game.ID, "visited", sess.Visited(), "state", sess.State())

	s.persist(ctx)
	return s.reconcile(snap)
}

// historyPath orders the squares of game id from its events.
func historyPath(events []knightstour.Event, id uint64) ([]tour.Square, error) {
	var (
		start *knightstour.GameStarted
		moves []*knightstour.MoveMade
	)
	for _, ev := range events {
		switch e := ev.(type) {
		case *knightstour.GameStarted:
			if e.GameId != nil && e.GameId.Uint64() == id {
				start = e
			}
		case *knightstour.MoveMade:
			if e.GameId != nil && e.GameId.Uint64() == id {
				moves = append(moves, e)
			}
		}
	}
	if start == nil {
		return nil, fmt.Errorf("%w: no GameStarted event for game %d", ErrStateDiverged, id)
	}
	sort.SliceStable(moves, func(i, j int) bool { return moves[i].MoveNumber < moves[j].MoveNumber })

	path := []tour.Square{tour.Square(start.StartPosition)}
	for _, m := range moves {
		path = append(path, tour.Square(m.ToSquare))
	}
	return path, nil
}

// VerifyMove asks the contract whether the knight may step to square from
// its current position.  Unlike the local preview this is authoritative
// geometry, though visit history is still only checked on submission.
func (s *Service) VerifyMove(ctx context.Context, square tour.Square) (bool, error) {
	s.mu.Lock()
	sess := s.session
	s.mu.Unlock()
	if sess == nil {
		return false, ErrNoSession
	}
	return s.gw.IsValidKnightMove(ctx, sess.Current(), square)
}

// ──────────────────────────────────────────────
//  Local session bookkeeping
// ──────────────────────────────────────────────

// SessionView is a serialisable copy of the local game.
type SessionView struct {
	ID         string                    `json:"id"`
	GameID     uint64                    `json:"game_id"`
	State      string                    `json:"state"`
	Visited    int                       `json:"visited"`
	Start      int                       `json:"start"`   // -1 before the start is chosen
	Current    int                       `json:"current"` // -1 before the start is chosen
	Legal      []int                     `json:"legal"`
	Board      [tour.Size][tour.Size]int `json:"board"`
	Mirrored   bool                      `json:"mirrored"`
	Claimed    bool                      `json:"claimed"`
	ClaimError string                    `json:"claim_error,omitempty"`
	Text       string                    `json:"text"`
}

// Session returns a view of the local game, or ErrNoSession.
func (s *Service) Session() (*SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, ErrNoSession
	}
	sess, rec := s.session, s.record
	v := &SessionView{
		ID:         rec.ID,
		GameID:     rec.GameID,
		State:      sess.State().String(),
		Visited:    sess.Visited(),
		Start:      -1,
		Current:    -1,
		Mirrored:   rec.Mirrored,
		Claimed:    sess.Claimed(),
		ClaimError: sess.ClaimError(),
		Text:       sess.String(),
	}
	if start, ok := sess.Start(); ok {
		v.Start, v.Current = int(start), int(sess.Current())
	}
	for _, sq := range sess.Legal() {
		v.Legal = append(v.Legal, int(sq))
	}
	b := sess.Board()
	for sq := tour.Square(0); sq < tour.Squares; sq++ {
		v.Board[sq.Row()][sq.Col()] = b.Order(sq)
	}
	return v, nil
}

// abandon marks the local game as dropped and clears it.
func (s *Service) abandon(ctx context.Context) {
	s.mu.Lock()
	rec := s.record
	s.session, s.record = nil, nil
	s.mu.Unlock()
	if rec != nil {
		rec.Abandoned = true
		rec.UpdatedAt = s.now()
		s.save(ctx, rec)
	}
}

// persist writes the current session to the store.
func (s *Service) persist(ctx context.Context) {
	s.mu.Lock()
	if s.session == nil || s.record == nil {
		s.mu.Unlock()
		return
	}
	rec := s.record
	rec.Path = s.session.Path()
	rec.State = s.session.State()
	rec.Claimed = s.session.Claimed()
	rec.ClaimError = s.session.ClaimError()
	rec.UpdatedAt = s.now()
	cp := cloneRecord(rec)
	s.mu.Unlock()
	s.save(ctx, cp)
}

func (s *Service) save(ctx context.Context, rec *SessionRecord) {
	if err := s.store.Save(ctx, rec); err != nil {
		log.Error("Failed to persist local game", "id", rec.ID, "err", err)
	}
}
