// Copyright 2018 The go-ethereum Authors
// This file is part of go-ethereum.
//
// go-ethereum is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-ethereum is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-ethereum. If not, see <http://www.gnu.org/licenses/>.


// knightstour plays the on-chain Knight's Tour game from the command line.
//
// It connects a wallet to an Ethereum node, drives the KnightsTour
// contract and keeps the local board in a SQLite file so a game survives
// restarts.  The serve command exposes the same operations over JSON-RPC.
//
// Usage:
//
//	knightstour --contract <address> [--rpc <endpoint>] [--keyfile <path>] <command> [flags]
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ToLoanRhino/Knights-Tour-Z/config"
	"github.com/ToLoanRhino/Knights-Tour-Z/knight"
	"github.com/ToLoanRhino/Knights-Tour-Z/knight/sqlite"
	"github.com/ToLoanRhino/Knights-Tour-Z/wallet"
	"github.com/ethereum/go-ethereum/cmd/utils"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	cli "gopkg.in/urfave/cli.v1"
)

var (
	app = cli.NewApp()

	// Global flags.  Each one overrides the matching KNIGHTSTOUR_* variable.
	rpcFlag = cli.StringFlag{
		Name:  "rpc",
		Usage: "Ethereum JSON-RPC endpoint, tried before the network's public endpoints",
	}
	contractFlag = cli.StringFlag{
		Name:  "contract",
		Usage: "Deployed KnightsTour contract address",
	}
	chainIDFlag = cli.Uint64Flag{
		Name:  "chainid",
		Usage: "Chain id the wallet must be connected to (default: Sepolia)",
	}
	dbFlag = cli.StringFlag{
		Name:  "db",
		Usage: "SQLite file holding local games",
	}
	privateKeyFlag = cli.StringFlag{
		Name:  "privatekey",
		Usage: "Hex-encoded private key to sign with",
	}
	keyfileFlag = cli.StringFlag{
		Name:  "keyfile",
		Usage: "Path to an encrypted JSON keyfile",
	}
	passwordFlag = cli.StringFlag{
		Name:  "password",
		Usage: "Password unlocking --keyfile",
	}
	signerFlag = cli.StringFlag{
		Name:  "signer",
		Usage: "External signer endpoint (clef), e.g. http://localhost:8550",
	}
	accountFlag = cli.StringFlag{
		Name:  "account",
		Usage: "Account to use with --signer, or to watch without signing",
	}
	walletFlag = cli.StringFlag{
		Name:  "wallet",
		Usage: "Use only this wallet (external, keyfile, privatekey, watch)",
	}
	mirrorFlag = cli.BoolFlag{
		Name:  "mirror",
		Usage: "Submit every move on-chain instead of only the final claim",
	}
	fromBlockFlag = cli.Uint64Flag{
		Name:  "fromblock",
		Usage: "First block scanned when rebuilding a game from events",
	}
	timeoutFlag = cli.DurationFlag{
		Name:  "timeout",
		Usage: "How long to wait for a transaction to be mined",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=detail",
		Value: 3,
	}

	// Command flags.
	squareFlag = cli.IntFlag{
		Name:  "square",
		Usage: "Board square 0..24, numbered row by row from the top left",
		Value: -1,
	}
	amountFlag = cli.Uint64Flag{
		Name:  "amount",
		Usage: "Number of turns to buy",
		Value: 1,
	}
	verifyFlag = cli.BoolFlag{
		Name:  "verify",
		Usage: "Ask the contract to validate the move before playing it",
	}
	chainMovesFlag = cli.BoolFlag{
		Name:  "chain",
		Usage: "Also list the knight moves the contract reports from the current square",
	}
	toFlag = cli.StringFlag{
		Name:  "to",
		Usage: "New owner address",
	}
	listenFlag = cli.StringFlag{
		Name:  "listen",
		Usage: "HTTP listen address for the JSON-RPC API",
		Value: "localhost:8560",
	}
)

func init() {
	app.Name = "knightstour"
	app.Usage = "Play the Knight's Tour game on Ethereum"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		rpcFlag,
		contractFlag,
		chainIDFlag,
		dbFlag,
		privateKeyFlag,
		keyfileFlag,
		passwordFlag,
		signerFlag,
		accountFlag,
		walletFlag,
		mirrorFlag,
		fromBlockFlag,
		timeoutFlag,
		verbosityFlag,
	}
	app.Before = setupLogging
	app.Commands = commands
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogging(ctx *cli.Context) error {
	lvl := log.FromLegacyLevel(ctx.GlobalInt(verbosityFlag.Name))
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, lvl, true)))
	return nil
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig(ctx *cli.Context) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	str := func(f cli.StringFlag, dst *string) {
		if ctx.GlobalIsSet(f.Name) {
			*dst = ctx.GlobalString(f.Name)
		}
	}
	str(rpcFlag, &cfg.RPCURL)
	str(contractFlag, &cfg.ContractAddress)
	str(dbFlag, &cfg.DB)
	str(privateKeyFlag, &cfg.PrivateKey)
	str(keyfileFlag, &cfg.Keyfile)
	str(passwordFlag, &cfg.Password)
	str(signerFlag, &cfg.Signer)
	str(accountFlag, &cfg.Account)
	str(walletFlag, &cfg.Wallet)

	if ctx.GlobalIsSet(chainIDFlag.Name) {
		cfg.ChainID = ctx.GlobalUint64(chainIDFlag.Name)
	}
	if ctx.GlobalIsSet(mirrorFlag.Name) {
		cfg.Mirror = ctx.GlobalBool(mirrorFlag.Name)
	}
	if ctx.GlobalIsSet(fromBlockFlag.Name) {
		cfg.FromBlock = ctx.GlobalUint64(fromBlockFlag.Name)
	}
	if ctx.GlobalIsSet(timeoutFlag.Name) {
		cfg.ConfirmTimeout = ctx.GlobalDuration(timeoutFlag.Name)
	}
	return cfg, cfg.Validate()
}

// client bundles everything a game command needs.
type client struct {
	cfg     config.Config
	session *wallet.Session
	gw      *knight.EthereumGateway
	store   *sqlite.Store
	svc     *knight.Service
}

func openClient(ctx context.Context, cctx *cli.Context) (*client, error) {
	cfg, err := loadConfig(cctx)
	if err != nil {
		return nil, err
	}
	ws, err := wallet.Connect(ctx, cfg.RPCURL, cfg.Probes(), cfg.Wallet, cfg.Network())
	if err != nil {
		return nil, err
	}
	c := &client{cfg: cfg, session: ws}

	opts, err := ws.Transactor()
	switch {
	case errors.Is(err, wallet.ErrWatchOnly):
		log.Warn("No signer available, writes are disabled", "address", ws.Address())
		opts = nil
	case err != nil:
		c.close()
		return nil, err
	}
	if c.gw, err = knight.NewEthereumGateway(cfg.Contract(), ws.Client(), opts); err != nil {
		c.close()
		return nil, err
	}
	c.gw.Timeout = cfg.Timeout()

	if c.store, err = sqlite.Open(cfg.DB); err != nil {
		c.close()
		return nil, err
	}
	c.svc = knight.NewService(c.gw, c.store, knight.Config{
		Player:    ws.Address(),
		Mirror:    cfg.Mirror,
		FromBlock: cfg.FromBlock,
	})
	log.Debug("Connected", "rpc", ws.RPCURL(), "network", ws.Network().Name, "wallet", ws.Signer().Probe, "address", ws.Address())

	if err := c.svc.Load(ctx); err != nil {
		if !errors.Is(err, knight.ErrStateDiverged) {
			c.close()
			return nil, err
		}
		log.Warn("Local game differs from the chain, run resync", "err", err)
	}
	return c, nil
}

func (c *client) close() {
	if c.store != nil {
		if err := c.store.Close(); err != nil {
			log.Error("Failed to close game database", "err", err)
		}
	}
	c.session.Close()
}

// withClient runs fn against a connected client.  The context is cancelled
// on interrupt so pending confirmations stop waiting.
func withClient(fn func(context.Context, *cli.Context, *client) error) cli.ActionFunc {
	return func(cctx *cli.Context) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		c, err := openClient(ctx, cctx)
		if err != nil {
			return fail(err)
		}
		defer c.close()
		return fail(fn(ctx, cctx, c))
	}
}

// fail turns err into a user-facing message and exits.  Rejections in the
// wallet are not treated as failures.
func fail(err error) error {
	if err == nil {
		return nil
	}
	var wrong *wallet.WrongChainError
	switch {
	case errors.Is(err, wallet.ErrNoWallet):
		utils.Fatalf("No wallet found. Set --signer, --keyfile, --privatekey or --account.")
	case errors.As(err, &wrong):
		utils.Fatalf("Wrong network: %v. Switch the node or pass --chainid.", err)
	case errors.Is(err, config.ErrContractNotConfigured):
		utils.Fatalf("Contract address not set. Pass --contract or set KNIGHTSTOUR_CONTRACT_ADDRESS.")
	}
	switch knight.Classify(err) {
	case knight.KindUserRejected:
		log.Info("Request rejected in the wallet")
		return nil
	case knight.KindWalletAbsent:
		utils.Fatalf("This command needs a signing wallet: %v", err)
	case knight.KindReverted:
		utils.Fatalf("Rejected by the contract: %v", err)
	case knight.KindTransient:
		utils.Fatalf("%v\nThe network is having trouble. The transaction may still confirm, try again shortly.", err)
	case knight.KindStale:
		utils.Fatalf("%v\nRun 'knightstour resync' to rebuild the board from the chain.", err)
	}
	utils.Fatalf("%v", err)
	return nil
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}
