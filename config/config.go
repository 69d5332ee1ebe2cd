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


// Package config loads client settings from KNIGHTSTOUR_* environment
// variables.  Command-line flags override what is loaded here.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ToLoanRhino/Knights-Tour-Z/knight"
	"github.com/ToLoanRhino/Knights-Tour-Z/wallet"
	"github.com/caarlos0/env/v11"
	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrContractNotConfigured = errors.New("config: contract address not configured")
	ErrInvalidChainID        = errors.New("config: chain id must be non-zero")
)

// Config is the client configuration.
type Config struct {
	ContractAddress string        `env:"KNIGHTSTOUR_CONTRACT_ADDRESS"`
	ChainID         uint64        `env:"KNIGHTSTOUR_CHAIN_ID"         envDefault:"11155111"`
	NetworkName     string        `env:"KNIGHTSTOUR_NETWORK_NAME"`
	RPCURL          string        `env:"KNIGHTSTOUR_RPC_URL"`
	RPCFallbacks    []string      `env:"KNIGHTSTOUR_RPC_FALLBACKS"    envSeparator:","`
	ExplorerURL     string        `env:"KNIGHTSTOUR_EXPLORER_URL"`
	DB              string        `env:"KNIGHTSTOUR_DB"               envDefault:"knightstour.db"`
	PrivateKey      string        `env:"KNIGHTSTOUR_PRIVATE_KEY"`
	Keyfile         string        `env:"KNIGHTSTOUR_KEYFILE"`
	Password        string        `env:"KNIGHTSTOUR_PASSWORD"`
	Signer          string        `env:"KNIGHTSTOUR_SIGNER"`
	Account         string        `env:"KNIGHTSTOUR_ACCOUNT"`
	Wallet          string        `env:"KNIGHTSTOUR_WALLET"`
	Mirror          bool          `env:"KNIGHTSTOUR_MIRROR"`
	FromBlock       uint64        `env:"KNIGHTSTOUR_FROM_BLOCK"`
	ConfirmTimeout  time.Duration `env:"KNIGHTSTOUR_CONFIRM_TIMEOUT"  envDefault:"3m"`
}

// Load parses the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate rejects settings the client cannot run with.
func (c Config) Validate() error {
	if !common.IsHexAddress(c.ContractAddress) || c.Contract() == (common.Address{}) {
		return ErrContractNotConfigured
	}
	if c.ChainID == 0 {
		return ErrInvalidChainID
	}
	if c.ConfirmTimeout < 0 {
		return fmt.Errorf("config: negative confirmation timeout %v", c.ConfirmTimeout)
	}
	return nil
}

// Contract returns the game contract address.
func (c Config) Contract() common.Address {
	return common.HexToAddress(c.ContractAddress)
}

// Timeout returns the confirmation timeout, falling back to the gateway
// default when unset.
func (c Config) Timeout() time.Duration {
	if c.ConfirmTimeout <= 0 {
		return knight.DefaultConfirmTimeout
	}
	return c.ConfirmTimeout
}

// Network returns the target network.  Sepolia supplies the endpoints and
// explorer for chain 11155111 unless they are overridden.  An empty name
// falls back to the network's own.
func (c Config) Network() wallet.Network {
	n := wallet.Network{ChainID: c.ChainID, Name: fmt.Sprintf("chain %d", c.ChainID)}
	if c.ChainID == wallet.Sepolia.ChainID {
		n = wallet.Sepolia
		n.RPCURLs = append([]string(nil), wallet.Sepolia.RPCURLs...)
	}
	if c.NetworkName != "" {
		n.Name = c.NetworkName
	}
	if len(c.RPCFallbacks) > 0 {
		n.RPCURLs = c.RPCFallbacks
	}
	if c.ExplorerURL != "" {
		n.Explorer = c.ExplorerURL
	}
	return n
}

// Probes returns the wallet probes in rank order: an external signer,
// then a keyfile, then a raw key, then a watched address.
func (c Config) Probes() []wallet.Probe {
	return []wallet.Probe{
		wallet.External{Endpoint: c.Signer, Account: c.Account},
		wallet.Keyfile{Path: c.Keyfile, Password: c.Password},
		wallet.PrivateKey{Hex: c.PrivateKey},
		wallet.WatchOnly{Address: c.Account},
	}
}
