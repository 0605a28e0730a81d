package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/plotstore/internal/config"
	"github.com/roach88/plotstore/internal/dispatch"
	"github.com/roach88/plotstore/internal/harness"
	"github.com/roach88/plotstore/internal/history"
	"github.com/roach88/plotstore/internal/render"
	"github.com/roach88/plotstore/internal/server"
	"github.com/roach88/plotstore/internal/store"
)

const shutdownTimeout = 5 * time.Second

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	ConfigPath string
	Host       string
	Port       int
	Token      string
	Database   string
	CORS       bool

	// OnListen, when set, is called with the bound address once the
	// listener is open. Used by tests that serve on port 0.
	OnListen func(addr string)
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the plot server",
		Long: `Start the HTTP and websocket server over an in-memory page store.

Scenario files listed in the config are played into the store at startup
and act as the producer: pages requested at a new size are redrawn from
their program before being rendered.

Flags override values from the config file.

Example:
  plotstore serve --port 8288
  plotstore serve --config plotstore.yaml --db ./history.db --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to YAML config file")
	cmd.Flags().StringVar(&opts.Host, "host", config.DefaultHost, "listen host")
	cmd.Flags().IntVar(&opts.Port, "port", config.DefaultPort, "listen port (0 picks a free port)")
	cmd.Flags().StringVar(&opts.Token, "token", "", "require this access token")
	cmd.Flags().StringVar(&opts.Database, "db", "", "archive removed pages to this SQLite database")
	cmd.Flags().BoolVar(&opts.CORS, "cors", false, "send CORS headers")

	return cmd
}

// loadServeConfig reads the config file, if any, and applies flag
// overrides on top.
func loadServeConfig(opts *ServeOptions, cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Host = opts.Host
	}
	if flags.Changed("port") {
		cfg.Port = opts.Port
	}
	if flags.Changed("token") {
		cfg.Token = opts.Token
	}
	if flags.Changed("cors") {
		cfg.CORS = opts.CORS
	}
	if opts.Database != "" {
		cfg.History.Enabled = true
		cfg.History.Path = opts.Database
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	cfg, err := loadServeConfig(opts, cmd)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	token := cfg.ResolveToken()

	hub := server.NewHub()
	st := store.New(store.WithNotifier(hub.Notify), store.WithUpidLimit(cfg.UpidLimit))
	rec := harness.NewRecorder(st)
	dispatcher := dispatch.New()

	srvOpts := server.Options{
		Store:         st,
		Renderers:     render.Default(render.Options{ExtraCSS: cfg.ExtraCSS}),
		Hub:           hub,
		Dispatcher:    dispatcher,
		Redrawer:      rec,
		RedrawTimeout: cfg.Timeout(),
		Token:         token,
		CORS:          cfg.CORS,
		WWWDir:        cfg.WWWDir,
		Version:       Version,
	}

	if cfg.History.Enabled {
		slog.Info("opening history", "path", cfg.History.Path)
		archive, err := history.Open(cfg.History.Path)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open history database", err)
		}
		defer func() {
			if closeErr := archive.Close(); closeErr != nil {
				slog.Error("error closing history", "error", closeErr)
			}
		}()
		srvOpts.Archiver = archive
	}

	for _, path := range cfg.Scenarios {
		scenario, err := harness.LoadScenario(path)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to load scenario %s", path), err)
		}
		ids, err := rec.Play(scenario)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to play scenario %s", path), err)
		}
		slog.Info("scenario loaded", "scenario", scenario.Name, "pages", len(ids))
	}
	st.SetActive(true)

	srv := server.New(srvOpts)
	httpServer := &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to listen", err)
	}
	addr := ln.Addr().String()

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := dispatcher.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		st.SetActive(false)
		shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()
		return httpServer.Shutdown(shutdownCtx)
	})

	slog.Info("server started", "addr", addr, "id", srv.ID(), "pages", st.Size())
	fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s/\n", addr)
	if token != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Token: %s\n", token)
	}
	if opts.OnListen != nil {
		opts.OnListen(addr)
	}

	if err := g.Wait(); err != nil {
		return WrapExitError(ExitFailure, "server error", err)
	}
	slog.Info("server stopped gracefully")
	return nil
}
