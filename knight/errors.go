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
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"
)

// Kind classifies a failure by how the caller should react to it.
type Kind uint8

const (
	KindUnknown      Kind = iota
	KindWalletAbsent      // no signer available; prompt for one
	KindUserRejected      // the signer declined; abort quietly
	KindReverted          // contract rule violated; show the reason
	KindTransient         // network trouble; offer a retry
	KindStale             // local mirror disagrees with the chain; re-fetch
)

func (k Kind) String() string {
	switch k {
	case KindWalletAbsent:
		return "wallet_absent"
	case KindUserRejected:
		return "user_rejected"
	case KindReverted:
		return "reverted"
	case KindTransient:
		return "transient"
	case KindStale:
		return "stale"
	default:
		return "unknown"
	}
}

// Errors raised by the gateway and the service.
var (
	ErrReadOnly       = errors.New("knight: no signer configured")
	ErrReverted       = errors.New("knight: transaction reverted")
	ErrConfirmTimeout = errors.New("knight: timed out waiting for confirmation")
	ErrBusy           = errors.New("knight: another transaction is in flight")
	ErrStateDiverged  = errors.New("knight: local game differs from chain state")
	ErrNoSession      = errors.New("knight: no local game")
	ErrGameInProgress = errors.New("knight: a game is already in progress")
	ErrAlreadyClaimed = errors.New("knight: win already claimed")
	ErrInvalidAmount  = errors.New("knight: turn amount must be between 1 and 4294967295")
	ErrNegativePrice  = errors.New("knight: turn price cannot be negative")
)

// Errors matching the contract's revert reasons.  A *TxError whose reason
// matches satisfies errors.Is against these.
var (
	ErrAlreadyRegistered   = errors.New("knight: player already registered")
	ErrNotRegistered       = errors.New("knight: player not registered")
	ErrAlreadyCheckedIn    = errors.New("knight: already checked in today")
	ErrNoTurns             = errors.New("knight: no available turns")
	ErrInsufficientPayment = errors.New("knight: insufficient payment")
	ErrNoActiveGame        = errors.New("knight: no active game")
	ErrInvalidStart        = errors.New("knight: invalid start position")
	ErrInvalidMove         = errors.New("knight: invalid knight move")
	ErrSquareVisited       = errors.New("knight: square already visited")
	ErrPaused              = errors.New("knight: contract is paused")
	ErrNotOwner            = errors.New("knight: caller is not the owner")
)

var reasonErrors = []struct {
	match string
	err   error
}{
	{"already registered", ErrAlreadyRegistered},
	{"not registered", ErrNotRegistered},
	{"already checked in", ErrAlreadyCheckedIn},
	{"no available turns", ErrNoTurns},
	{"no turns", ErrNoTurns},
	{"insufficient payment", ErrInsufficientPayment},
	{"no active game", ErrNoActiveGame},
	{"not in progress", ErrNoActiveGame},
	{"invalid start", ErrInvalidStart},
	{"invalid knight move", ErrInvalidMove},
	{"already visited", ErrSquareVisited},
	{"paused", ErrPaused},
	{"only owner", ErrNotOwner},
	{"not the owner", ErrNotOwner},
	{"not owner", ErrNotOwner},
}

// ReasonError maps a revert reason onto one of the reason sentinels, or
// returns nil if none matches.
func ReasonError(reason string) error {
	reason = strings.ToLower(reason)
	for _, r := range reasonErrors {
		if strings.Contains(reason, r.match) {
			return r.err
		}
	}
	return nil
}

// TxError describes a failed contract write.
type TxError struct {
	Op     string      // contract method
	Kind   Kind        // failure class
	Reason string      // revert reason, if the contract gave one
	TxHash common.Hash // zero if the transaction was never broadcast
	Err    error
}

func (e *TxError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "knight: %s %s", e.Op, e.Kind)
	if e.Reason != "" {
		fmt.Fprintf(&sb, ": %s", e.Reason)
	}
	if e.TxHash != (common.Hash{}) {
		fmt.Fprintf(&sb, " (tx %s)", e.TxHash.Hex())
	}
	if e.Err != nil && e.Reason == "" {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}
	return sb.String()
}

func (e *TxError) Unwrap() error { return e.Err }

// Is matches the reason sentinels against the revert reason.
func (e *TxError) Is(target error) bool {
	return e.Reason != "" && ReasonError(e.Reason) == target
}

// newTxError classifies err and wraps it for method op.
func newTxError(op string, hash common.Hash, err error) *TxError {
	var te *TxError
	if errors.As(err, &te) {
		return te
	}
	return &TxError{
		Op:     op,
		Kind:   Classify(err),
		Reason: RevertReason(err),
		TxHash: hash,
		Err:    err,
	}
}

// Classify sorts err into a Kind.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var te *TxError
	if errors.As(err, &te) {
		return te.Kind
	}
	switch {
	case errors.Is(err, ErrReadOnly):
		return KindWalletAbsent
	case errors.Is(err, ErrStateDiverged):
		return KindStale
	case errors.Is(err, ErrReverted), RevertReason(err) != "", isRuleViolation(err):
		return KindReverted
	case errors.Is(err, ErrBusy):
		return KindTransient
	case isUserRejection(err):
		return KindUserRejected
	case isTransient(err):
		return KindTransient
	}
	return KindUnknown
}

// isRuleViolation reports whether err is a contract rule caught locally
// before submission.
func isRuleViolation(err error) bool {
	if errors.Is(err, ErrGameInProgress) || errors.Is(err, ErrAlreadyClaimed) {
		return true
	}
	for _, r := range reasonErrors {
		if errors.Is(err, r.err) {
			return true
		}
	}
	return false
}

// RevertReason extracts the revert string from an RPC error, or returns ""
// if err does not describe a revert.
func RevertReason(err error) string {
	if err == nil {
		return ""
	}
	var de rpc.DataError
	if errors.As(err, &de) {
		if data, ok := de.ErrorData().(string); ok {
			if reason, uerr := abi.UnpackRevert(common.FromHex(data)); uerr == nil {
				return reason
			}
		}
	}
	const marker = "execution reverted"
	msg := err.Error()
	i := strings.Index(msg, marker)
	if i < 0 {
		return ""
	}
	rest := strings.TrimSpace(strings.TrimPrefix(msg[i+len(marker):], ":"))
	if rest == "" {
		return marker
	}
	return rest
}

// userRejectedCode is the EIP-1193 "user rejected request" code.
const userRejectedCode = 4001

func isUserRejection(err error) bool {
	var re rpc.Error
	if errors.As(err, &re) && re.ErrorCode() == userRejectedCode {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"user rejected", "user denied", "request denied", "rejected by user"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

func isTransient(err error) bool {
	if errors.Is(err, ErrConfirmTimeout) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	var he rpc.HTTPError
	if errors.As(err, &he) {
		return he.StatusCode == http.StatusTooManyRequests || he.StatusCode >= http.StatusInternalServerError
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "timeout") || strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "too many requests")
}
