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
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Currency describes a chain's native token.
type Currency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// Network is a chain the game can be played on.
type Network struct {
	ChainID  uint64   `json:"chain_id"`
	Name     string   `json:"name"`
	RPCURLs  []string `json:"rpc_urls"`
	Explorer string   `json:"explorer"`
	Currency Currency `json:"currency"`
}

// Sepolia is the default network.
var Sepolia = Network{
	ChainID: 11155111,
	Name:    "Sepolia Testnet",
	RPCURLs: []string{
		"https://ethereum-sepolia-rpc.publicnode.com",
		"https://rpc.sepolia.org",
	},
	Explorer: "https://sepolia.etherscan.io",
	Currency: Currency{Name: "Sepolia ETH", Symbol: "ETH", Decimals: 18},
}

// BigChainID returns the chain id as a big.Int for signers.
func (n Network) BigChainID() *big.Int {
	return new(big.Int).SetUint64(n.ChainID)
}

// TxURL links a transaction on the network's explorer, or returns "" when
// the network has none.
func (n Network) TxURL(hash common.Hash) string {
	if n.Explorer == "" {
		return ""
	}
	return strings.TrimRight(n.Explorer, "/") + "/tx/" + hash.Hex()
}

// AddressURL links an account on the network's explorer.
func (n Network) AddressURL(addr common.Address) string {
	if n.Explorer == "" {
		return ""
	}
	return strings.TrimRight(n.Explorer, "/") + "/address/" + addr.Hex()
}
