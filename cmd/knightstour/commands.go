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


package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ToLoanRhino/Knights-Tour-Z/contracts/knightstour"
	"github.com/ToLoanRhino/Knights-Tour-Z/knight"
	"github.com/ToLoanRhino/Knights-Tour-Z/tour"
	"github.com/ToLoanRhino/Knights-Tour-Z/wallet"
	"github.com/ethereum/go-ethereum/log"
	cli "gopkg.in/urfave/cli.v1"
)

var commands = []cli.Command{
	{
		Name:   "info",
		Usage:  "Print contract status and global statistics",
		Action: infoCmd,
	},
	{
		Name:   "player",
		Usage:  "Print the connected player's record and active game",
		Action: withClient(playerCmd),
	},
	{
		Name:   "register",
		Usage:  "Register the connected account as a player",
		Action: withClient(registerCmd),
	},
	{
		Name:   "checkin",
		Usage:  "Claim the daily free turns",
		Action: withClient(checkInCmd),
	},
	{
		Name:   "buy",
		Usage:  "Buy turns",
		Action: withClient(buyCmd),
		Flags:  []cli.Flag{amountFlag},
	},
	{
		Name:   "start",
		Usage:  "Start a game on the given square",
		Action: withClient(startCmd),
		Flags:  []cli.Flag{squareFlag},
	},
	{
		Name:   "move",
		Usage:  "Move the knight to the given square",
		Action: withClient(moveCmd),
		Flags:  []cli.Flag{squareFlag, verifyFlag},
	},
	{
		Name:   "board",
		Usage:  "Show the local board",
		Action: withClient(boardCmd),
		Flags:  []cli.Flag{chainMovesFlag},
	},
	{
		Name:   "claim",
		Usage:  "Record a completed tour on-chain",
		Action: withClient(claimCmd),
	},
	{
		Name:   "forfeit",
		Usage:  "Give up the active game",
		Action: withClient(forfeitCmd),
	},
	{
		Name:   "reset",
		Usage:  "Forfeit and start again, on the same square unless --square is given",
		Action: withClient(resetCmd),
		Flags:  []cli.Flag{squareFlag},
	},
	{
		Name:   "resync",
		Usage:  "Rebuild the local board from chain events",
		Action: withClient(resyncCmd),
	},
	{
		Name:   "profile",
		Usage:  "Show win rate and badges",
		Action: withClient(profileCmd),
	},
	{
		Name:   "games",
		Usage:  "List locally recorded games",
		Action: withClient(gamesCmd),
	},
	{
		Name:  "admin",
		Usage: "Owner-only contract administration",
		Subcommands: []cli.Command{
			{
				Name:   "pause",
				Usage:  "Pause the contract",
				Action: withClient(ownerOnly(func(ctx context.Context, c *client) (*knight.Receipt, error) { return c.gw.Pause(ctx) })),
			},
			{
				Name:   "unpause",
				Usage:  "Resume the contract",
				Action: withClient(ownerOnly(func(ctx context.Context, c *client) (*knight.Receipt, error) { return c.gw.Unpause(ctx) })),
			},
			{
				Name:   "withdraw",
				Usage:  "Withdraw the contract balance to the owner",
				Action: withClient(ownerOnly(func(ctx context.Context, c *client) (*knight.Receipt, error) { return c.gw.Withdraw(ctx) })),
			},
			{
				Name:   "transfer-ownership",
				Usage:  "Hand the contract to a new owner",
				Action: withClient(transferCmd),
				Flags:  []cli.Flag{toFlag},
			},
		},
	},
	{
		Name:   "serve",
		Usage:  "Expose the game over JSON-RPC (HTTP and WebSocket)",
		Action: withClient(serveCmd),
		Flags:  []cli.Flag{listenFlag},
	},
}

// infoCmd only reads, so it dials without looking for a wallet.
func infoCmd(cctx *cli.Context) error {
	cfg, err := loadConfig(cctx)
	if err != nil {
		return fail(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	conn := &wallet.Connector{Network: cfg.Network()}
	backend, url, err := conn.DialChain(ctx, cfg.RPCURL)
	if err != nil {
		return fail(err)
	}
	defer backend.Close()

	gw, err := knight.NewEthereumGateway(cfg.Contract(), backend, nil)
	if err != nil {
		return fail(err)
	}
	paused, err := gw.Paused(ctx)
	if err != nil {
		return fail(err)
	}
	owner, err := gw.Owner(ctx)
	if err != nil {
		return fail(err)
	}
	stats, err := gw.Stats(ctx)
	if err != nil {
		return fail(err)
	}
	network := cfg.Network()
	fmt.Printf("Contract:         %s\n", cfg.Contract().Hex())
	if u := network.AddressURL(cfg.Contract()); u != "" {
		fmt.Printf("                  %s\n", u)
	}
	fmt.Printf("Network:          %s (chain %d) via %s\n", network.Name, network.ChainID, url)
	fmt.Printf("Owner:            %s\n", owner.Hex())
	fmt.Printf("Paused:           %t\n", paused)
	fmt.Printf("Players:          %d\n", stats.TotalPlayers)
	fmt.Printf("Games completed:  %d\n", stats.GamesCompleted)
	fmt.Printf("Prize pool:       %s %s\n", knight.FormatWei(stats.PrizePool), network.Currency.Symbol)
	return nil
}

func playerCmd(ctx context.Context, _ *cli.Context, c *client) error {
	snap, err := c.svc.Refresh(ctx)
	if err != nil {
		return err
	}
	p := snap.Player
	fmt.Printf("Address:      %s\n", p.Address.Hex())
	if !p.Registered {
		fmt.Println("Registered:   no (run 'knightstour register')")
		return nil
	}
	fmt.Printf("Turns:        %d\n", p.AvailableTurns)
	fmt.Printf("Games:        %d won / %d played\n", p.TotalGamesWon, p.TotalGamesPlayed)
	if p.LastCheckIn.IsZero() {
		fmt.Println("Check-in:     never")
	} else {
		fmt.Printf("Check-in:     %s (next %s)\n", p.LastCheckIn.Local().Format(time.RFC1123), knight.NextCheckIn(p.LastCheckIn).Local().Format(time.RFC1123))
	}
	if snap.CanCheckIn {
		fmt.Printf("              %d free turns available now\n", knight.DailyFreeTurns)
	}
	if snap.Game.Active() {
		fmt.Printf("Active game:  #%d, %d squares recorded on-chain\n", snap.Game.ID, snap.Game.MoveCount)
	} else {
		fmt.Println("Active game:  none")
	}
	return nil
}

func registerCmd(ctx context.Context, _ *cli.Context, c *client) error {
	r, err := c.svc.Register(ctx)
	return c.report(r, err)
}

func checkInCmd(ctx context.Context, _ *cli.Context, c *client) error {
	r, err := c.svc.CheckIn(ctx)
	return c.report(r, err)
}

func buyCmd(ctx context.Context, cctx *cli.Context, c *client) error {
	amount := cctx.Uint64(amountFlag.Name)
	cost, err := c.svc.Pricing().QuotePurchase(amount)
	if err != nil {
		return err
	}
	log.Info("Buying turns", "amount", amount, "cost", knight.FormatWei(cost)+" "+c.session.Network().Currency.Symbol)
	r, err := c.svc.Purchase(ctx, amount)
	return c.report(r, err)
}

func squareArg(cctx *cli.Context) (tour.Square, error) {
	v := cctx.Int(squareFlag.Name)
	if v < 0 || v >= tour.Squares {
		return 0, fmt.Errorf("--square must be between 0 and %d: %w", tour.Squares-1, tour.ErrInvalidSquare)
	}
	return tour.Square(v), nil
}

func startCmd(ctx context.Context, cctx *cli.Context, c *client) error {
	sq, err := squareArg(cctx)
	if err != nil {
		return err
	}
	r, err := c.svc.Start(ctx, sq)
	if err := c.report(r, err); err != nil {
		return err
	}
	return printBoard(c)
}

func moveCmd(ctx context.Context, cctx *cli.Context, c *client) error {
	sq, err := squareArg(cctx)
	if err != nil {
		return err
	}
	if cctx.Bool(verifyFlag.Name) {
		ok, err := c.svc.VerifyMove(ctx, sq)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%v is not a knight move from here: %w", sq, knight.ErrInvalidMove)
		}
	}
	state, r, err := c.svc.Move(ctx, sq)
	if err := c.report(r, err); err != nil {
		return err
	}
	if err := printBoard(c); err != nil {
		return err
	}
	switch state {
	case tour.StateWon:
		fmt.Println("Every square visited. Run 'knightstour claim' to record the win.")
	case tour.StateStuck:
		fmt.Println("No moves left. Run 'knightstour reset' to try again.")
	}
	return nil
}

func boardCmd(ctx context.Context, cctx *cli.Context, c *client) error {
	if err := printBoard(c); err != nil {
		return err
	}
	if !cctx.Bool(chainMovesFlag.Name) {
		return nil
	}
	v, err := c.svc.Session()
	if err != nil || v.Current < 0 {
		return err
	}
	moves, err := c.gw.PossibleMoves(ctx, tour.Square(v.Current))
	if err != nil {
		return err
	}
	fmt.Printf("Contract knight moves from %v: %v\n", tour.Square(v.Current), moves)
	return nil
}

func claimCmd(ctx context.Context, _ *cli.Context, c *client) error {
	r, err := c.svc.Claim(ctx)
	return c.report(r, err)
}

func forfeitCmd(ctx context.Context, _ *cli.Context, c *client) error {
	r, err := c.svc.Forfeit(ctx)
	return c.report(r, err)
}

func resetCmd(ctx context.Context, cctx *cli.Context, c *client) error {
	var square *uint8
	if cctx.IsSet(squareFlag.Name) {
		sq, err := squareArg(cctx)
		if err != nil {
			return err
		}
		v := uint8(sq)
		square = &v
	}
	sq, err := c.svc.ResetSquare(square)
	if err != nil {
		return err
	}
	r, err := c.svc.Reset(ctx, sq)
	if err := c.report(r, err); err != nil {
		return err
	}
	return printBoard(c)
}

func resyncCmd(ctx context.Context, _ *cli.Context, c *client) error {
	if err := c.svc.Resync(ctx); err != nil {
		return err
	}
	if _, err := c.svc.Session(); err != nil {
		fmt.Println("No active game on-chain.")
		return nil
	}
	return printBoard(c)
}

func profileCmd(ctx context.Context, _ *cli.Context, c *client) error {
	p, err := c.svc.Profile(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Address:   %s\n", p.Address.Hex())
	fmt.Printf("Turns:     %d\n", p.AvailableTurns)
	fmt.Printf("Wins:      %d of %d (%d%%)\n", p.TotalWins, p.TotalGamesPlayed, p.WinRate)
	fmt.Printf("Badges:    %d unlocked\n", p.Unlocked)
	for _, b := range p.Badges {
		mark := " "
		if b.Unlocked {
			mark = "x"
		}
		fmt.Printf("  [%s] %-16s %3.0f%%  %s\n", mark, b.Name, b.Progress, b.Description)
	}
	return nil
}

func gamesCmd(ctx context.Context, _ *cli.Context, c *client) error {
	recs, err := c.store.List(ctx, c.svc.Player())
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("No local games.")
		return nil
	}
	for _, r := range recs {
		status := r.State.String()
		switch {
		case r.Abandoned:
			status = "abandoned"
		case r.Claimed:
			status = "claimed"
		}
		fmt.Printf("%s  game #%-4d %-11s %2d/%d  %s\n", r.ID, r.GameID, status, len(r.Path), tour.Squares, r.UpdatedAt.Local().Format(time.DateTime))
	}
	return nil
}

// ownerOnly checks the connected account owns the contract before fn runs.
func ownerOnly(fn func(context.Context, *client) (*knight.Receipt, error)) func(context.Context, *cli.Context, *client) error {
	return func(ctx context.Context, _ *cli.Context, c *client) error {
		owner, err := c.gw.Owner(ctx)
		if err != nil {
			return err
		}
		if owner != c.svc.Player() {
			return fmt.Errorf("%w: owner is %s", knight.ErrNotOwner, owner.Hex())
		}
		r, err := fn(ctx, c)
		return c.report(r, err)
	}
}

func transferCmd(ctx context.Context, cctx *cli.Context, c *client) error {
	to, err := parseAddress(cctx.String(toFlag.Name))
	if err != nil {
		return err
	}
	return ownerOnly(func(ctx context.Context, c *client) (*knight.Receipt, error) {
		return c.gw.TransferOwnership(ctx, to)
	})(ctx, cctx, c)
}

func printBoard(c *client) error {
	v, err := c.svc.Session()
	if err != nil {
		return err
	}
	fmt.Print(v.Text)
	fmt.Println()
	return nil
}

func (c *client) report(r *knight.Receipt, err error) error {
	return reportWrite(os.Stdout, c.session.Network(), r, err)
}

// reportWrite prints r before returning err.  A write can be confirmed and
// still fail the chain read that follows it, so both may be set.
func reportWrite(w io.Writer, network wallet.Network, r *knight.Receipt, err error) error {
	if r != nil {
		fmt.Fprintf(w, "%s confirmed in block %d (gas %d)\n", r.Method, r.Block, r.GasUsed)
		if u := network.TxURL(r.TxHash); u != "" {
			fmt.Fprintf(w, "  %s\n", u)
		}
		for _, ev := range r.Events {
			fmt.Fprintf(w, "  %s\n", describeEvent(ev))
		}
	}
	return err
}

func describeEvent(ev knightstour.Event) string {
	switch e := ev.(type) {
	case *knightstour.PlayerRegistered:
		return "registered " + e.Player.Hex()
	case *knightstour.DailyCheckIn:
		return fmt.Sprintf("checked in, +%d turns", e.TurnsReceived)
	case *knightstour.TurnsPurchased:
		return fmt.Sprintf("bought %d turns for %s", e.Amount, knight.FormatWei(e.Cost))
	case *knightstour.GameStarted:
		return fmt.Sprintf("game #%v started on %v", e.GameId, tour.Square(e.StartPosition))
	case *knightstour.MoveMade:
		return fmt.Sprintf("move %d: %v -> %v", e.MoveNumber, tour.Square(e.FromSquare), tour.Square(e.ToSquare))
	case *knightstour.GameCompleted:
		if e.Won {
			return fmt.Sprintf("game #%v won in %d moves", e.GameId, e.TotalMoves)
		}
		return fmt.Sprintf("game #%v ended after %d moves", e.GameId, e.TotalMoves)
	case *knightstour.BadgeAwarded:
		return fmt.Sprintf("badge awarded, %d total", e.TotalBadges)
	}
	return ev.EventName()
}
