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

// Package contract contains the ABI of the KnightsTour game contract.
// Regenerate from the compiled artifact with:
//   jq -c .abi artifacts/contracts/KnightsTour.sol/KnightsTour.json
package contract

// KnightsTourABI is the ABI of the KnightsTour contract.
const KnightsTourABI = `[
	{"type": "function", "name": "registerPlayer", "stateMutability": "nonpayable",
		"inputs": [],
		"outputs": []},
	{"type": "function", "name": "getPlayerInfo", "stateMutability": "view",
		"inputs": [{"name": "playerAddress", "type": "address"}],
		"outputs": [{"name": "lastCheckIn", "type": "uint256"}, {"name": "availableTurns", "type": "uint32"}, {"name": "totalGamesWon", "type": "uint32"}, {"name": "totalGamesPlayed", "type": "uint32"}, {"name": "exists", "type": "bool"}]},
	{"type": "function", "name": "dailyCheckIn", "stateMutability": "nonpayable",
		"inputs": [],
		"outputs": []},
	{"type": "function", "name": "canCheckInToday", "stateMutability": "view",
		"inputs": [{"name": "playerAddress", "type": "address"}],
		"outputs": [{"name": "canCheckIn", "type": "bool"}]},
	{"type": "function", "name": "purchaseTurns", "stateMutability": "payable",
		"inputs": [{"name": "amount", "type": "uint32"}],
		"outputs": []},
	{"type": "function", "name": "startGame", "stateMutability": "nonpayable",
		"inputs": [{"name": "startPosition", "type": "uint8"}],
		"outputs": []},
	{"type": "function", "name": "makeMove", "stateMutability": "nonpayable",
		"inputs": [{"name": "fromSquare", "type": "uint8"}, {"name": "toSquare", "type": "uint8"}],
		"outputs": []},
	{"type": "function", "name": "claimWin", "stateMutability": "nonpayable",
		"inputs": [],
		"outputs": []},
	{"type": "function", "name": "claimWinDirect", "stateMutability": "nonpayable",
		"inputs": [],
		"outputs": []},
	{"type": "function", "name": "forfeitGame", "stateMutability": "nonpayable",
		"inputs": [],
		"outputs": []},
	{"type": "function", "name": "getPossibleMoves", "stateMutability": "view",
		"inputs": [{"name": "position", "type": "uint8"}],
		"outputs": [{"name": "moves", "type": "uint8[]"}]},
	{"type": "function", "name": "isValidKnightMove", "stateMutability": "pure",
		"inputs": [{"name": "from", "type": "uint8"}, {"name": "to", "type": "uint8"}],
		"outputs": [{"name": "valid", "type": "bool"}]},
	{"type": "function", "name": "getActiveGameInfo", "stateMutability": "view",
		"inputs": [{"name": "playerAddress", "type": "address"}],
		"outputs": [{"name": "gameId", "type": "uint256"}, {"name": "moveCount", "type": "uint8"}, {"name": "completed", "type": "bool"}, {"name": "won", "type": "bool"}]},
	{"type": "function", "name": "isSquareVisited", "stateMutability": "view",
		"inputs": [{"name": "playerAddress", "type": "address"}, {"name": "square", "type": "uint8"}],
		"outputs": [{"name": "visited", "type": "bool"}]},
	{"type": "function", "name": "getContractStats", "stateMutability": "view",
		"inputs": [],
		"outputs": [{"name": "totalPlayers", "type": "uint256"}, {"name": "gamesCompleted", "type": "uint256"}, {"name": "prizePool", "type": "uint256"}]},
	{"type": "function", "name": "pause", "stateMutability": "nonpayable",
		"inputs": [],
		"outputs": []},
	{"type": "function", "name": "unpause", "stateMutability": "nonpayable",
		"inputs": [],
		"outputs": []},
	{"type": "function", "name": "withdraw", "stateMutability": "nonpayable",
		"inputs": [],
		"outputs": []},
	{"type": "function", "name": "transferOwnership", "stateMutability": "nonpayable",
		"inputs": [{"name": "newOwner", "type": "address"}],
		"outputs": []},
	{"type": "function", "name": "paused", "stateMutability": "view",
		"inputs": [],
		"outputs": [{"name": "", "type": "bool"}]},
	{"type": "function", "name": "owner", "stateMutability": "view",
		"inputs": [],
		"outputs": [{"name": "", "type": "address"}]},
	{"type": "event", "name": "PlayerRegistered", "anonymous": false,
		"inputs": [{"name": "player", "type": "address", "indexed": true}]},
	{"type": "event", "name": "DailyCheckIn", "anonymous": false,
		"inputs": [{"name": "player", "type": "address", "indexed": true}, {"name": "timestamp", "type": "uint256", "indexed": false}, {"name": "turnsReceived", "type": "uint32", "indexed": false}]},
	{"type": "event", "name": "TurnsPurchased", "anonymous": false,
		"inputs": [{"name": "player", "type": "address", "indexed": true}, {"name": "amount", "type": "uint32", "indexed": false}, {"name": "cost", "type": "uint256", "indexed": false}]},
	{"type": "event", "name": "GameStarted", "anonymous": false,
		"inputs": [{"name": "player", "type": "address", "indexed": true}, {"name": "gameId", "type": "uint256", "indexed": false}, {"name": "startPosition", "type": "uint8", "indexed": false}]},
	{"type": "event", "name": "MoveMade", "anonymous": false,
		"inputs": [{"name": "player", "type": "address", "indexed": true}, {"name": "gameId", "type": "uint256", "indexed": false}, {"name": "fromSquare", "type": "uint8", "indexed": false}, {"name": "toSquare", "type": "uint8", "indexed": false}, {"name": "moveNumber", "type": "uint8", "indexed": false}]},
	{"type": "event", "name": "GameCompleted", "anonymous": false,
		"inputs": [{"name": "player", "type": "address", "indexed": true}, {"name": "gameId", "type": "uint256", "indexed": false}, {"name": "won", "type": "bool", "indexed": false}, {"name": "totalMoves", "type": "uint8", "indexed": false}]},
	{"type": "event", "name": "BadgeAwarded", "anonymous": false,
		"inputs": [{"name": "player", "type": "address", "indexed": true}, {"name": "totalBadges", "type": "uint32", "indexed": false}]},
	{"type": "event", "name": "ContractPaused", "anonymous": false,
		"inputs": [{"name": "by", "type": "address", "indexed": true}]},
	{"type": "event", "name": "ContractUnpaused", "anonymous": false,
		"inputs": [{"name": "by", "type": "address", "indexed": true}]}
]`
