package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pidlayout/pkg/api"
	"github.com/matzehuels/pidlayout/pkg/config"
	"github.com/matzehuels/pidlayout/pkg/session"
)

// defaultAddr is used when neither --addr nor server.addr is set.
const defaultAddr = ":8080"

// serveCommand creates the serve command, which runs the HTTP layout service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		sessionTTL time.Duration
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP layout service",
		Long: `Run the HTTP layout service.

The service exposes layout, rearrange and editing-session endpoints. With the
redis cache backend, cached diagrams and sessions are shared between
replicas. The server shuts down gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, sessionTTL, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr or "+defaultAddr+")")
	cmd.Flags().DurationVar(&sessionTTL, "session-ttl", session.DefaultTTL, "how long editing sessions live")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the diagram cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, sessionTTL time.Duration, noCache bool) error {
	cfg := c.Config.Server
	if addr == "" {
		addr = cfg.Addr
	}
	if addr == "" {
		addr = defaultAddr
	}

	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer cc.Close()

	sessions, err := c.newSessionStore(cc)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}

	srv := api.New(api.Config{
		Cache:        cc,
		Sessions:     sessions,
		SessionTTL:   sessionTTL,
		Logger:       c.Logger,
		MaxBodyBytes: cfg.MaxBodyBytes,
		Defaults:     c.Config,
	})

	read, write, shutdown := cfg.Durations()
	backend := c.Config.Cache.Backend
	switch {
	case noCache:
		backend = config.BackendNone
	case backend == "":
		backend = config.BackendFile
	}
	c.Logger.Info("starting server", "addr", addr, "cache", backend, "session_ttl", sessionTTL)

	return srv.ListenAndServe(ctx, api.ServeOptions{
		Addr:            addr,
		ReadTimeout:     read,
		WriteTimeout:    write,
		ShutdownTimeout: shutdown,
		CleanupInterval: 10 * time.Minute,
	})
}
