package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/aretw0/inkwell"
	"github.com/aretw0/inkwell/pkg/mcp"
)

var mcpAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve your notes as MCP tools",
	Long: `Start a Model Context Protocol server exposing your notes as tools.
It speaks stdio by default, or streamable HTTP on /mcp with --http.
A login or logout from another terminal is picked up while running.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		client := openClient(ctx)
		if err := client.Session.Follow(ctx); err != nil {
			slog.Warn("session changes will not be picked up", "error", err)
		}

		store := client.Notes()
		defer store.Close()
		s := mcp.NewServer(client.Session, store, inkwell.Version)

		if mcpAddr == "" {
			if err := server.ServeStdio(s); err != nil {
				fatal("MCP server failed", err)
			}
			return
		}

		mux := http.NewServeMux()
		mux.Handle("/mcp", server.NewStreamableHTTPServer(s))
		srv := &http.Server{
			Addr:              mcpAddr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		slog.Info("serving MCP", "url", "http://"+mcpAddr+"/mcp")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("MCP server failed", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringVar(&mcpAddr, "http", "", "Serve streamable HTTP on this address instead of stdio (e.g. localhost:8090)")
}
