package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/sharebook/internal/auth"
	"github.com/mmynk/sharebook/internal/config"
	"github.com/mmynk/sharebook/internal/events"
	"github.com/mmynk/sharebook/internal/i18n"
	"github.com/mmynk/sharebook/internal/metrics"
	"github.com/mmynk/sharebook/internal/notify"
	"github.com/mmynk/sharebook/internal/service"
	"github.com/mmynk/sharebook/internal/storage/sqlite"
	"github.com/mmynk/sharebook/pkg/logging"
)

func main() {
	seed := flag.Bool("seed", false, "create a demo customer with two users and print their tokens")
	flag.Parse()

	cfg, err := config.LoadServer()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	if err := run(cfg, *seed); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, seed bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	if seed {
		if err := seedDemo(ctx, store, jwtManager); err != nil {
			return err
		}
	}

	bundle, err := i18n.LoadEmbedded()
	if err != nil {
		return err
	}
	m := metrics.New()
	dispatcher := &notify.Dispatcher{
		Store:      store,
		Mailer:     notify.LogMailer{},
		Translator: bundle.Translator(cfg.Locale),
		Metrics:    m,
	}
	scheduler, err := dispatcher.Start(cfg.NotifySchedule)
	if err != nil {
		return err
	}
	defer scheduler.Stop()

	handler := service.NewHandler(service.Deps{
		Store:           store,
		Bus:             events.NewBus(slog.Default()),
		JWT:             jwtManager,
		Metrics:         m,
		InternalDomains: cfg.InternalDomains,
	})

	// Wrap with h2c for HTTP/2 without TLS (required for Connect streaming)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h2c.NewHandler(loggingMiddleware(corsMiddleware(handler)), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", cfg.Addr, "internal_domains", cfg.InternalDomains)
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Debug("Request received",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)

		next.ServeHTTP(w, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms, Sharebook-Failure-Kind, Sharebook-Recipient")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
