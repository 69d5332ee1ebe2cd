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


// Package sqlite stores local Knight's Tour games in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ToLoanRhino/Knights-Tour-Z/knight"
	"github.com/ToLoanRhino/Knights-Tour-Z/tour"
	"github.com/ethereum/go-ethereum/common"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// Store is a knight.SessionStore backed by SQLite.
type Store struct {
	db *sql.DB
}

var _ knight.SessionStore = (*Store)(nil)

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	if v == 0 {
		return time.Time{}
	}
	return time.UnixMilli(v).UTC()
}

// Open opens or creates the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save inserts or replaces rec and its move list.
func (s *Store) Save(ctx context.Context, rec *knight.SessionRecord) error {
	if rec == nil || rec.ID == "" {
		return fmt.Errorf("session id is required")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	created, updated := rec.CreatedAt, rec.UpdatedAt
	if created.IsZero() {
		created = time.Now()
	}
	if updated.IsZero() {
		updated = created
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id, player, game_id, mirrored, state, claimed, claim_error, abandoned, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   player = excluded.player,
		   game_id = excluded.game_id,
		   mirrored = excluded.mirrored,
		   state = excluded.state,
		   claimed = excluded.claimed,
		   claim_error = excluded.claim_error,
		   abandoned = excluded.abandoned,
		   updated_at = excluded.updated_at`,
		rec.ID,
		rec.Player.Hex(),
		int64(rec.GameID),
		rec.Mirrored,
		int(rec.State),
		rec.Claimed,
		rec.ClaimError,
		rec.Abandoned,
		toMillis(created),
		toMillis(updated),
	)
	if err != nil {
		return fmt.Errorf("upsert session %s: %w", rec.ID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM session_moves WHERE session_id = ?`, rec.ID); err != nil {
		return fmt.Errorf("clear moves of %s: %w", rec.ID, err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO session_moves (session_id, seq, square) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare move insert: %w", err)
	}
	defer stmt.Close()
	for i, sq := range rec.Path {
		if _, err := stmt.ExecContext(ctx, rec.ID, i, int(sq)); err != nil {
			return fmt.Errorf("insert move %d of %s: %w", i, rec.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session %s: %w", rec.ID, err)
	}
	return nil
}

const selectSession = `SELECT id, player, game_id, mirrored, state, claimed, claim_error, abandoned, created_at, updated_at FROM sessions`

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*knight.SessionRecord, error) {
	var (
		rec              knight.SessionRecord
		player           string
		gameID           int64
		state            int
		created, updated int64
	)
	if err := row.Scan(&rec.ID, &player, &gameID, &rec.Mirrored, &state, &rec.Claimed, &rec.ClaimError, &rec.Abandoned, &created, &updated); err != nil {
		return nil, err
	}
	rec.Player = common.HexToAddress(player)
	rec.GameID = uint64(gameID)
	rec.State = tour.State(state)
	rec.CreatedAt, rec.UpdatedAt = fromMillis(created), fromMillis(updated)
	return &rec, nil
}

func (s *Store) loadPath(ctx context.Context, rec *knight.SessionRecord) error {
	rows, err := s.db.QueryContext(ctx, `SELECT square FROM session_moves WHERE session_id = ? ORDER BY seq`, rec.ID)
	if err != nil {
		return fmt.Errorf("query moves of %s: %w", rec.ID, err)
	}
	defer rows.Close()
	rec.Path = rec.Path[:0]
	for rows.Next() {
		var sq int
		if err := rows.Scan(&sq); err != nil {
			return fmt.Errorf("scan move of %s: %w", rec.ID, err)
		}
		rec.Path = append(rec.Path, tour.Square(sq))
	}
	return rows.Err()
}

// Load returns the record with the given ID.
func (s *Store) Load(ctx context.Context, id string) (*knight.SessionRecord, error) {
	rec, err := scanSession(s.db.QueryRowContext(ctx, selectSession+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, knight.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	if err := s.loadPath(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Latest returns the most recently updated record of player.
func (s *Store) Latest(ctx context.Context, player common.Address) (*knight.SessionRecord, error) {
	rec, err := scanSession(s.db.QueryRowContext(ctx,
		selectSession+` WHERE player = ? ORDER BY updated_at DESC, rowid DESC LIMIT 1`, player.Hex()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, knight.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest session of %s: %w", player.Hex(), err)
	}
	if err := s.loadPath(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns every record of player, newest first.
func (s *Store) List(ctx context.Context, player common.Address) ([]*knight.SessionRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		selectSession+` WHERE player = ? ORDER BY updated_at DESC, rowid DESC`, player.Hex())
	if err != nil {
		return nil, fmt.Errorf("list sessions of %s: %w", player.Hex(), err)
	}
	var out []*knight.SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, rec := range out {
		if err := s.loadPath(ctx, rec); err != nil {
			return nil, err
		}
	}
	return out, nil
}
