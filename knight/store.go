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
	"sort"
	"sync"
	"time"

	"github.com/ToLoanRhino/Knights-Tour-Z/tour"
	"github.com/ethereum/go-ethereum/common"
)

// ErrSessionNotFound is returned by stores for unknown sessions.
var ErrSessionNotFound = errors.New("knight: session not found")

// SessionRecord is the persisted form of a local game.  The path is enough
// to rebuild the board with tour.Replay.
type SessionRecord struct {
	ID         string         `json:"id"`
	Player     common.Address `json:"player"`
	GameID     uint64         `json:"game_id"`
	Mirrored   bool           `json:"mirrored"`
	Path       []tour.Square  `json:"path"`
	State      tour.State     `json:"state"`
	Claimed    bool           `json:"claimed"`
	ClaimError string         `json:"claim_error,omitempty"`
	Abandoned  bool           `json:"abandoned"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Open reports whether the record still needs player action: a game in
// progress, a stuck game not yet forfeited, or an unclaimed win.
func (r *SessionRecord) Open() bool {
	if r == nil || r.Abandoned {
		return false
	}
	return !(r.State == tour.StateWon && r.Claimed)
}

// SessionStore persists local games off-chain.
type SessionStore interface {
	// Save inserts or replaces a record.
	Save(ctx context.Context, rec *SessionRecord) error

	// Load returns the record with the given ID.
	Load(ctx context.Context, id string) (*SessionRecord, error)

	// Latest returns the most recently updated record of player.
	Latest(ctx context.Context, player common.Address) (*SessionRecord, error)

	// List returns every record of player, newest first.
	List(ctx context.Context, player common.Address) ([]*SessionRecord, error)
}

// MemoryStore is a SessionStore that keeps records in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	recs map[string]*SessionRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{recs: make(map[string]*SessionRecord)}
}

func cloneRecord(r *SessionRecord) *SessionRecord {
	c := *r
	c.Path = append([]tour.Square(nil), r.Path...)
	return &c
}

func (m *MemoryStore) Save(ctx context.Context, rec *SessionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs[rec.ID] = cloneRecord(rec)
	return nil
}

func (m *MemoryStore) Load(ctx context.Context, id string) (*SessionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.recs[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return cloneRecord(r), nil
}

func (m *MemoryStore) Latest(ctx context.Context, player common.Address) (*SessionRecord, error) {
	list, err := m.List(ctx, player)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrSessionNotFound
	}
	return list[0], nil
}

func (m *MemoryStore) List(ctx context.Context, player common.Address) ([]*SessionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*SessionRecord
	for _, r := range m.recs {
		if r.Player == player {
			out = append(out, cloneRecord(r))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}
