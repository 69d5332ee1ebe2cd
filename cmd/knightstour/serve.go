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
	"errors"
	"net/http"
	"time"

	"github.com/ToLoanRhino/Knights-Tour-Z/knight"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"
	cli "gopkg.in/urfave/cli.v1"
)

// shutdownTimeout bounds graceful shutdown of the API server.
const shutdownTimeout = 5 * time.Second

// serveCmd exposes the service as knightstour_* over HTTP, with WebSocket
// clients on /ws.  It runs until interrupted.
func serveCmd(ctx context.Context, cctx *cli.Context, c *client) error {
	srv := rpc.NewServer()
	defer srv.Stop()
	if err := srv.RegisterName(knight.APINamespace, knight.NewAPI(c.svc)); err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle("/ws", srv.WebsocketHandler([]string{"*"}))
	mux.Handle("/", srv)

	listen := cctx.String(listenFlag.Name)
	httpSrv := &http.Server{
		Addr:              listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- httpSrv.ListenAndServe() }()

	log.Info("Knight's Tour API started", "listen", listen, "namespace", knight.APINamespace,
		"player", c.svc.Player(), "mirror", c.cfg.Mirror)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	log.Info("Knight's Tour API stopping")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpSrv.Shutdown(sctx)
}
