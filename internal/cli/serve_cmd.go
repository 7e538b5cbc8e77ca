package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexanderramin/worksummary/internal/server"
	"github.com/alexanderramin/worksummary/internal/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				app.Config.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ln, err := net.Listen("tcp", app.Config.Server.Addr)
			if err != nil {
				return fmt.Errorf("listening on %s: %w", app.Config.Server.Addr, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", ln.Addr())
			return serve(ctx, app, ln)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}

// serve runs the HTTP server and the session janitor on ln until ctx is
// done, then shuts the server down gracefully.
func serve(ctx context.Context, app *App, ln net.Listener) error {
	cfg := app.Config
	store := session.NewStore(cfg.SessionIdleTimeout())
	handler := server.New(store, app.Summaries, app.Log, server.Options{
		Version:        app.Version,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		Load:           cfg.LoadOptions(),
		LLMEnabled:     app.llmEnabled(),
	})

	httpServer := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		app.Log.Info("server started", zap.String("addr", ln.Addr().String()))
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		app.Log.Info("shutting down")
		return httpServer.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return store.Janitor(gctx, 0, func(n int) {
			app.Log.Debug("pruned idle sessions", zap.Int("count", n))
		})
	})
	return g.Wait()
}
