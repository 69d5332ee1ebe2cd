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


package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ToLoanRhino/Knights-Tour-Z/knight"
	"github.com/ToLoanRhino/Knights-Tour-Z/tour"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = common.HexToAddress("0x701056900A15a7635F3bfd8F9F87C1d9a605FF31")
	bob   = common.HexToAddress("0x00000000000000000000000000000000000000b0")
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "knightstour.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(" ")
	assert.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	now := time.Date(2024, time.May, 4, 10, 30, 0, 0, time.UTC)

	rec := &knight.SessionRecord{
		ID:         "s-1",
		Player:     alice,
		GameID:     42,
		Mirrored:   true,
		Path:       []tour.Square{12, 19, 8},
		State:      tour.StateInProgress,
		ClaimError: "",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, store.Save(ctx, rec))

	got, err := store.Load(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	rec.Path = append(rec.Path, 1)
	rec.State = tour.StateWon
	rec.ClaimError = "execution reverted: Game not won"
	rec.UpdatedAt = now.Add(time.Minute)
	require.NoError(t, store.Save(ctx, rec))

	got, err = store.Load(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, []tour.Square{12, 19, 8, 1}, got.Path)
	assert.Equal(t, tour.StateWon, got.State)
	assert.Equal(t, rec.ClaimError, got.ClaimError)
	assert.Equal(t, now, got.CreatedAt)
	assert.True(t, got.Open())
}

func TestLoadMissing(t *testing.T) {
	store := openTempStore(t)
	_, err := store.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, knight.ErrSessionNotFound)
	_, err = store.Latest(context.Background(), alice)
	assert.ErrorIs(t, err, knight.ErrSessionNotFound)
}

func TestLatestAndList(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	base := time.Date(2024, time.May, 4, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		at := base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, store.Save(ctx, &knight.SessionRecord{
			ID: id, Player: alice, GameID: uint64(i + 1), Path: []tour.Square{12},
			State: tour.StateInProgress, CreatedAt: at, UpdatedAt: at,
		}))
	}
	require.NoError(t, store.Save(ctx, &knight.SessionRecord{
		ID: "other", Player: bob, Path: []tour.Square{0}, CreatedAt: base.Add(5 * time.Hour),
	}))

	latest, err := store.Latest(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "c", latest.ID)
	assert.Equal(t, []tour.Square{12}, latest.Path)

	list, err := store.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "c", list[0].ID)
	assert.Equal(t, "b", list[1].ID)
	assert.Equal(t, "a", list[2].ID)

	// Touching an older record moves it to the front.
	list[2].Abandoned = true
	list[2].UpdatedAt = base.Add(10 * time.Hour)
	require.NoError(t, store.Save(ctx, list[2]))
	latest, err = store.Latest(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "a", latest.ID)
	assert.True(t, latest.Abandoned)
	assert.False(t, latest.Open())
}

func TestRejectsOffBoardSquare(t *testing.T) {
	store := openTempStore(t)
	err := store.Save(context.Background(), &knight.SessionRecord{
		ID: "bad", Player: alice, Path: []tour.Square{12, 25}, CreatedAt: time.Now(),
	})
	assert.Error(t, err)
	_, err = store.Load(context.Background(), "bad")
	assert.ErrorIs(t, err, knight.ErrSessionNotFound)
}

func TestReopenResumesGame(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "knightstour.db")
	store, err := Open(path)
	require.NoError(t, err)

	ctx := context.Background()
	rec := &knight.SessionRecord{
		ID: "resume", Player: alice, GameID: 3, Path: []tour.Square{0, 11, 22},
		State: tour.StateInProgress, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, store.Save(ctx, rec))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()
	got, err := reopened.Latest(ctx, alice)
	require.NoError(t, err)

	sess, err := tour.Replay(nil, got.Path)
	require.NoError(t, err)
	assert.Equal(t, tour.Square(22), sess.Current())
	assert.Equal(t, 3, sess.Visited())
}
