package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	theme "github.com/goliatone/go-theme"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formbuilder/internal/config"
	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/html"
	"github.com/goliatone/go-formbuilder/pkg/server"
)

func serveCmd(opts *rootOptions) *cobra.Command {
	var addr string

	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve the form builder over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := opts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.cleanup()
			if addr != "" {
				rt.cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, rt)
		},
	}

	c.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides config)")
	return c
}

func runServer(ctx context.Context, rt *runtime) error {
	cfg := rt.cfg
	handler, srv, err := newHTTPHandler(cfg, rt.logger, rt.builderOptions()...)
	if err != nil {
		return err
	}
	go srv.Sessions().Run(ctx, time.Minute)

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		rt.logger.Info("listening", zap.String("addr", cfg.Server.Addr), zap.String("base_path", cfg.Server.BasePath))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	rt.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("serve: shutdown: %w", err)
	}
	return nil
}

// newHTTPHandler wires renderers, theme and sessions from config.
func newHTTPHandler(cfg config.Config, logger *zap.Logger, builderOpts ...builder.Option) (http.Handler, *server.Server, error) {
	selector, err := themeSelector(cfg.Theme)
	if err != nil {
		return nil, nil, err
	}

	htmlRenderer, err := html.New()
	if err != nil {
		return nil, nil, err
	}
	registry := render.NewRegistry()
	if err := registry.Register(htmlRenderer); err != nil {
		return nil, nil, err
	}

	mux := http.NewServeMux()
	srv, err := server.RegisterRoutes(mux, cfg.Server.BasePath,
		server.WithRenderers(registry),
		server.WithAssets(html.AssetsFS()),
		server.WithThemeSelector(selector),
		server.WithTheme(cfg.Theme.Name, cfg.Theme.Variant),
		server.WithTitle(cfg.Server.Title),
		server.WithSessionTTL(cfg.Server.SessionTTL),
		server.WithSecureCookie(cfg.Server.SecureCookie),
		server.WithLogger(logger),
		server.WithBuilderOptions(builderOpts...),
	)
	if err != nil {
		return nil, nil, err
	}
	return mux, srv, nil
}

// themeSelector registers the built-in manifest plus an optional manifest
// file from config.
func themeSelector(cfg config.ThemeConfig) (theme.ThemeSelector, error) {
	manifests := []*theme.Manifest{render.DefaultManifest()}
	if path := strings.TrimSpace(cfg.Manifest); path != "" {
		manifest, err := render.LoadManifest(path)
		if err != nil {
			return nil, err
		}
		manifests = append(manifests, manifest)
	}
	return render.NewStaticSelector(render.DefaultThemeName, "", manifests...), nil
}
