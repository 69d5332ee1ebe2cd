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


// Package wallet finds a signer for the player and connects it to the
// target chain.  Probes are tried in rank order; the first one that finds
// credentials wins unless the caller names a preferred probe.
package wallet

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/external"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"
)

var (
	// ErrNotDetected is returned by a probe whose wallet is not configured.
	ErrNotDetected = errors.New("wallet: not detected")

	// ErrNoWallet is returned when no probe detects a wallet.
	ErrNoWallet = errors.New("wallet: no wallet detected")

	// ErrWatchOnly is returned when a transactor is requested from a signer
	// that only knows its address.
	ErrWatchOnly = errors.New("wallet: watch-only account cannot sign")
)

// Signer is a detected account.
type Signer struct {
	Probe   string         // name of the probe that found it
	Address common.Address

	transactor func(chainID *big.Int) (*bind.TransactOpts, error)
}

// CanSign reports whether the signer can authorise transactions.
func (s *Signer) CanSign() bool { return s.transactor != nil }

// Transactor returns transaction options signing for chainID.
func (s *Signer) Transactor(chainID *big.Int) (*bind.TransactOpts, error) {
	if s.transactor == nil {
		return nil, ErrWatchOnly
	}
	return s.transactor(chainID)
}

// Probe looks for one kind of wallet.  Detect returns ErrNotDetected when
// the wallet is not configured, and any other error when it is configured
// but unusable.
type Probe interface {
	Name() string
	Detect(ctx context.Context) (*Signer, error)
}

func keyedSigner(probe string, key *ecdsa.PrivateKey) *Signer {
	return &Signer{
		Probe:   probe,
		Address: crypto.PubkeyToAddress(key.PublicKey),
		transactor: func(chainID *big.Int) (*bind.TransactOpts, error) {
			return bind.NewKeyedTransactorWithChainID(key, chainID)
		},
	}
}

// PrivateKey signs with a raw hex-encoded secp256k1 key.
type PrivateKey struct {
	Hex string
}

func (PrivateKey) Name() string { return "privatekey" }

func (p PrivateKey) Detect(ctx context.Context) (*Signer, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(p.Hex), "0x")
	if hex == "" {
		return nil, ErrNotDetected
	}
	key, err := crypto.HexToECDSA(hex)
	if err != nil {
		return nil, fmt.Errorf("wallet: private key: %w", err)
	}
	return keyedSigner(p.Name(), key), nil
}

// Keyfile signs with an encrypted JSON key as written by geth account new.
type Keyfile struct {
	Path     string
	Password string
}

func (Keyfile) Name() string { return "keyfile" }

func (k Keyfile) Detect(ctx context.Context) (*Signer, error) {
	if k.Path == "" {
		return nil, ErrNotDetected
	}
	blob, err := os.ReadFile(k.Path)
	if err != nil {
		return nil, fmt.Errorf("wallet: read keyfile: %w", err)
	}
	key, err := keystore.DecryptKey(blob, k.Password)
	if err != nil {
		return nil, fmt.Errorf("wallet: decrypt keyfile %s: %w", k.Path, err)
	}
	return keyedSigner(k.Name(), key.PrivateKey), nil
}

// External signs through a clef-compatible external signer, which asks the
// user to approve every transaction.
type External struct {
	Endpoint string
	Account  string // optional; the first listed account otherwise
}

func (External) Name() string { return "external" }

func (e External) Detect(ctx context.Context) (*Signer, error) {
	if e.Endpoint == "" {
		return nil, ErrNotDetected
	}
	clef, err := external.NewExternalSigner(e.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("wallet: external signer %s: %w", e.Endpoint, err)
	}
	accts := clef.Accounts()
	if len(accts) == 0 {
		return nil, fmt.Errorf("wallet: external signer %s lists no accounts", e.Endpoint)
	}
	acct := accts[0]
	if e.Account != "" {
		want := common.HexToAddress(e.Account)
		found := false
		for _, a := range accts {
			if a.Address == want {
				acct, found = a, true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("wallet: external signer %s does not hold %s", e.Endpoint, want.Hex())
		}
	}
	return &Signer{
		Probe:   e.Name(),
		Address: acct.Address,
		transactor: func(*big.Int) (*bind.TransactOpts, error) {
			return bind.NewClefTransactor(clef, acct), nil
		},
	}, nil
}

// WatchOnly follows an address without signing.  Reads work; writes fail
// with the gateway's read-only error.
type WatchOnly struct {
	Address string
}

func (WatchOnly) Name() string { return "watch" }

func (w WatchOnly) Detect(ctx context.Context) (*Signer, error) {
	if w.Address == "" {
		return nil, ErrNotDetected
	}
	if !common.IsHexAddress(w.Address) {
		return nil, fmt.Errorf("wallet: invalid address %q", w.Address)
	}
	return &Signer{Probe: w.Name(), Address: common.HexToAddress(w.Address)}, nil
}

// Detect runs probes in rank order and returns the first detected signer.
// With prefer set, only the probe of that name is tried.
func Detect(ctx context.Context, probes []Probe, prefer string) (*Signer, error) {
	if prefer != "" {
		for _, p := range probes {
			if p.Name() != prefer {
				continue
			}
			s, err := p.Detect(ctx)
			if errors.Is(err, ErrNotDetected) {
				return nil, fmt.Errorf("%w: %s is not configured", ErrNoWallet, prefer)
			}
			return s, err
		}
		return nil, fmt.Errorf("%w: unknown wallet %q", ErrNoWallet, prefer)
	}
	for _, p := range probes {
		s, err := p.Detect(ctx)
		if errors.Is(err, ErrNotDetected) {
			continue
		}
		if err != nil {
			return nil, err
		}
		log.Debug("Wallet detected", "probe", p.Name(), "address", s.Address, "signing", s.CanSign())
		return s, nil
	}
	return nil, ErrNoWallet
}
