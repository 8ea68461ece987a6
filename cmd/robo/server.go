package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"

	"github.com/yash-755/robo/internal/api"
	"github.com/yash-755/robo/internal/config"
	"github.com/yash-755/robo/internal/ratelimit"
	"github.com/yash-755/robo/internal/storage"
	"github.com/yash-755/robo/pkg/logx"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the chat backend (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runServer(ctx, cfg)
	},
}

func runServer(ctx context.Context, cfg config.Config) error {
	logx.Info().Str("version", version).Str("env", cfg.Environment().String()).Msg("starting robo")
	for _, w := range cfg.Warnings() {
		logx.Warn().Msg(w)
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	res := a.compiler.Compile()
	logx.Info().
		Int("context_tokens", res.Tokens).
		Strs("compacted", res.Compacted).
		Int("omitted", res.Omitted).
		Msg("portfolio context compiled")

	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logx.Warn().Err(err).Msg("closing storage")
		}
	}()

	limiter, closeLimiter := newLimiter(ctx, cfg)
	defer closeLimiter()

	handler := api.NewRouter(api.Options{
		Chat:           a.gateway,
		Feedback:       store,
		Limiter:        limiter,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AdminToken:     cfg.Server.AdminToken,
		StaticDir:      cfg.Server.StaticDir,
		TrustProxy:     cfg.Server.TrustProxy,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	if cfg.Server.MaxConns > 0 {
		ln = netutil.LimitListener(ln, cfg.Server.MaxConns)
	}

	return serve(ctx, ln, handler)
}

// serve runs handler on ln until ctx is cancelled, then drains in-flight
// requests for up to shutdownTimeout.
func serve(ctx context.Context, ln net.Listener, handler http.Handler) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logx.Info().Str("addr", ln.Addr().String()).Msg("robo listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logx.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// newLimiter returns nil when limiting is disabled. Redis is used when
// configured and reachable, with the in-memory window as fallback.
func newLimiter(ctx context.Context, cfg config.Config) (ratelimit.Limiter, func()) {
	noop := func() {}
	if cfg.RateLimit.PerMinute <= 0 {
		logx.Info().Msg("rate limiting disabled")
		return nil, noop
	}

	mem := ratelimit.NewMemory(cfg.RateLimit.PerMinute, time.Minute)
	if cfg.Redis.URL == "" {
		return mem, noop
	}

	client, err := ratelimit.Connect(ctx, cfg.Redis.URL, cfg.Redis.DialTimeout)
	if err != nil {
		logx.Warn().Err(err).Msg("redis unavailable, rate limiting in memory")
		return mem, noop
	}
	logx.Info().Msg("rate limiting via redis")
	return ratelimit.NewFallback(ratelimit.NewRedis(client, cfg.RateLimit.PerMinute, time.Minute), mem), func() {
		if err := client.Close(); err != nil {
			logx.Warn().Err(err).Msg("closing redis client")
		}
	}
}
