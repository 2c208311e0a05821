package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/trailmark/internal/config"
	"github.com/meltforce/trailmark/internal/kvstore/driver"
	"github.com/meltforce/trailmark/internal/mcp"
	"github.com/meltforce/trailmark/internal/persistence"
	"github.com/meltforce/trailmark/internal/server"
	"github.com/meltforce/trailmark/internal/session"
	"github.com/meltforce/trailmark/internal/ui"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	mcpRemote := flag.String("mcp-remote", "", "serve MCP over stdio against the trailmark server at this URL")
	flag.Parse()

	if *mcpRemote != "" {
		runRemoteMCP(*mcpRemote)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
	log.Info("trailmark starting", "version", Version, "storage", cfg.Storage.Driver)

	ctx := context.Background()

	// Open the byte store; the session still runs if it is unavailable
	kv, closer := driver.OpenOrUnavailable(ctx, cfg.Storage, log)
	defer closer.Close()
	persist := persistence.New(kv, cfg.Storage.Key, log)

	// Session: recorder and reported position stand in for the client UI
	rec := ui.NewRecorder()
	pos := &ui.ReportedPosition{}
	ctrl := session.New(rec.Collaborators(pos), persist, session.Options{Zoom: cfg.Map.Zoom}, log)
	loop := session.NewLoop(log)

	loopCtx, stopLoop := context.WithCancel(ctx)
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		if err := loop.Run(loopCtx); err != nil && err != context.Canceled {
			log.Error("session loop stopped", "error", err)
		}
	}()

	srv := server.New(ctrl, loop, rec, pos, log)

	if cfg.MCP.Enabled {
		mcpSrv := mcp.New(mcp.NewSessionSource(session.NewService(ctrl, loop)), Version, log)
		srv.SetMCP(mcpserver.NewStreamableHTTPServer(mcpSrv, mcpserver.WithEndpointPath("/mcp")))
		log.Info("mcp enabled", "path", "/mcp")
	}

	// Start server on tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		lc, err := tsServer.LocalClient()
		if err != nil {
			log.Error("tsnet local client failed", "error", err)
			os.Exit(1)
		}
		srv.SetTailscale(lc)

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	stopLoop()
	<-loopDone
	log.Info("server stopped")
}

// runRemoteMCP serves MCP on stdin/stdout, reading workouts from a remote
// server's REST API. Logs go to stderr so they stay off the protocol stream.
func runRemoteMCP(baseURL string) {
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("trailmark mcp (remote)", "version", Version, "url", baseURL)

	mcpSrv := mcp.New(mcp.NewHTTPClient(baseURL), Version, log)
	if err := mcpserver.ServeStdio(mcpSrv); err != nil {
		log.Error("mcp stdio", "error", err)
		os.Exit(1)
	}
}
