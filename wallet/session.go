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


package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/log"
)

// Client is the node connection a session hands out.  *ethclient.Client
// satisfies it.
type Client interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
	Close()
}

// WrongChainError is returned when no reachable endpoint serves the target
// chain.
type WrongChainError struct {
	Want    uint64
	Got     uint64
	Network string
}

func (e *WrongChainError) Error() string {
	return fmt.Sprintf("wallet: connected to chain %d, want %d (%s)", e.Got, e.Want, e.Network)
}

// DialFunc opens a node connection.
type DialFunc func(ctx context.Context, url string) (Client, error)

// DialEthereum dials url with ethclient.
func DialEthereum(ctx context.Context, url string) (Client, error) {
	c, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Connector detects a signer and connects it to Network.
type Connector struct {
	Network Network
	Probes  []Probe
	Prefer  string
	Dial    DialFunc // DialEthereum when nil
}

// Session is a signer connected to a node on the expected chain.
type Session struct {
	signer  *Signer
	client  Client
	network Network
	rpcURL  string
}

// Connect detects a signer, then dials rpcURL and verifies its chain id.
// On a mismatch it switches to the network's own endpoints.
func Connect(ctx context.Context, rpcURL string, probes []Probe, prefer string, network Network) (*Session, error) {
	c := &Connector{Network: network, Probes: probes, Prefer: prefer}
	return c.Connect(ctx, rpcURL)
}

// Connect detects a signer and dials the chain.
func (c *Connector) Connect(ctx context.Context, rpcURL string) (*Session, error) {
	signer, err := Detect(ctx, c.Probes, c.Prefer)
	if err != nil {
		return nil, err
	}
	client, url, err := c.DialChain(ctx, rpcURL)
	if err != nil {
		return nil, err
	}
	log.Info("Wallet connected", "address", signer.Address, "probe", signer.Probe, "network", c.Network.Name, "rpc", url)
	return &Session{signer: signer, client: client, network: c.Network, rpcURL: url}, nil
}

// DialChain connects to the first endpoint serving the network's chain:
// rpcURL first, then the network's RPC URLs.  It returns the URL used.
func (c *Connector) DialChain(ctx context.Context, rpcURL string) (Client, string, error) {
	dial := c.Dial
	if dial == nil {
		dial = DialEthereum
	}
	candidates := make([]string, 0, len(c.Network.RPCURLs)+1)
	if rpcURL != "" {
		candidates = append(candidates, rpcURL)
	}
	for _, u := range c.Network.RPCURLs {
		if u != rpcURL {
			candidates = append(candidates, u)
		}
	}
	if len(candidates) == 0 {
		return nil, "", fmt.Errorf("wallet: no RPC endpoint for %s", c.Network.Name)
	}

	var (
		wrong   *WrongChainError
		lastErr error
	)
	for i, url := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}
		if i > 0 {
			log.Warn("Switching network endpoint", "rpc", url, "network", c.Network.Name)
		}
		client, err := dial(ctx, url)
		if err != nil {
			lastErr = fmt.Errorf("wallet: dial %s: %w", url, err)
			continue
		}
		id, err := client.ChainID(ctx)
		if err != nil {
			client.Close()
			lastErr = fmt.Errorf("wallet: chain id from %s: %w", url, err)
			continue
		}
		if id.Uint64() == c.Network.ChainID {
			return client, url, nil
		}
		client.Close()
		log.Warn("Endpoint serves the wrong chain", "rpc", url, "chain", id, "want", c.Network.ChainID)
		if wrong == nil {
			wrong = &WrongChainError{Want: c.Network.ChainID, Got: id.Uint64(), Network: c.Network.Name}
		}
	}
	if wrong != nil {
		return nil, "", wrong
	}
	return nil, "", lastErr
}

// Address returns the connected account.
func (s *Session) Address() common.Address { return s.signer.Address }

// Signer returns the detected signer.
func (s *Session) Signer() *Signer { return s.signer }

// Client returns the node connection.
func (s *Session) Client() Client { return s.client }

// Network returns the network the session is on.
func (s *Session) Network() Network { return s.network }

// RPCURL returns the endpoint in use.
func (s *Session) RPCURL() string { return s.rpcURL }

// Transactor returns signing options for the session's chain.  Watch-only
// sessions return ErrWatchOnly.
func (s *Session) Transactor() (*bind.TransactOpts, error) {
	opts, err := s.signer.Transactor(s.network.BigChainID())
	if err != nil && !errors.Is(err, ErrWatchOnly) {
		return nil, fmt.Errorf("wallet: transactor: %w", err)
	}
	return opts, err
}

// Close releases the node connection.
func (s *Session) Close() {
	if s.client != nil {
		s.client.Close()
	}
}
