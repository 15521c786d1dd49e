// SPDX-License-Identifier: MIT

// Command lanternmqd runs the reference broker host: it loads
// configuration, wires the chosen topic-key representation through the
// core and the store, and serves TCP and/or WebSocket listeners until
// it receives a termination signal.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/lanternmq/broker/broker"
	"github.com/lanternmq/broker/config"
	"github.com/lanternmq/broker/host"
	"github.com/lanternmq/broker/key"
	"github.com/lanternmq/broker/store"
	"github.com/lanternmq/broker/transport"
)

func main() {
	configPath := flag.String("config", "lanternmqd.yml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lanternmqd: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "lanternmqd: %v\n", err)
		os.Exit(1)
	}

	printBanner()
	logger := cfg.Logger()

	var runErr error
	switch cfg.KeyRepresentation {
	case "string":
		runErr = run[key.StringKey](cfg, key.StringCodec{}, logger)
	default:
		runErr = run[key.Packed](cfg, key.PackedCodec{}, logger)
	}
	if runErr != nil {
		logger.Error("lanternmqd exited", "error", runErr)
		os.Exit(1)
	}
}

func printBanner() {
	bold := color.New(color.FgCyan, color.Bold)
	bold.Println("lanternmqd")
	color.New(color.FgHiBlack).Println("  a small MQTT broker core")
}

// run wires a Server and Host over the topic-key representation K and
// serves every listener cfg names until a termination signal arrives.
func run[K broker.Key](cfg *config.Config, codec key.Codec[K], logger *slog.Logger) error {
	ds := store.NewGuarded(store.New[K]())
	clock := transport.NewSystemClock()
	srv := broker.New[K](ds, codec, clock, logger)
	h := host.New[K](srv, clock, logger)

	errs := make(chan error, 2)
	started := 0

	if cfg.Listeners.TCP != nil {
		ln, err := net.Listen("tcp", cfg.Listeners.TCP.Address)
		if err != nil {
			return fmt.Errorf("lanternmqd: tcp listen: %w", err)
		}
		defer ln.Close()
		logger.Info("serving mqtt", "transport", "tcp", "address", cfg.Listeners.TCP.Address)
		go func() { errs <- h.ServeTCP(ln) }()
		started++
	}

	var wsServer *http.Server
	if cfg.Listeners.Websocket != nil {
		mux := http.NewServeMux()
		mux.Handle("/mqtt", h.WebsocketHandler())
		wsServer = &http.Server{Addr: cfg.Listeners.Websocket.Address, Handler: mux}
		logger.Info("serving mqtt", "transport", "websocket", "address", cfg.Listeners.Websocket.Address)
		go func() { errs <- wsServer.ListenAndServe() }()
		started++
	}

	if started == 0 {
		return errors.New("lanternmqd: no listeners configured")
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		logger.Info("shutting down", "signal", sig.String())
		if wsServer != nil {
			wsServer.Close()
		}
		return nil
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
