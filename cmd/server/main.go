package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	webAdapter "jewelerp/internal/adapters/web"
	"jewelerp/internal/ai"
	"jewelerp/internal/config"
	"jewelerp/internal/core"
	"jewelerp/internal/db"
	"jewelerp/internal/logging"
	"jewelerp/internal/store/memory"
	"jewelerp/internal/store/postgres"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("jewelerp", cfg.LogLevel, cfg.AppEnv)

	ctx := context.Background()

	var (
		stock   core.StockStore
		ledger  core.LedgerStore
		orders  core.PurchaseOrderStore
		vendors core.VendorStore
	)
	if cfg.Demo() {
		slog.Info("running in demo mode with in-memory store")
		mem := memory.New()
		stock, ledger, orders, vendors = mem, mem, mem.Orders(), mem.Vendors()
	} else {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		pg := postgres.New(pool)
		if err := pg.Migrate(ctx); err != nil {
			slog.Error("failed to migrate schema", "error", err)
			os.Exit(1)
		}
		stock, ledger, orders, vendors = pg, pg, pg.Orders(), pg.Vendors()
	}

	markup := decimal.NewFromFloat(cfg.MarkupFactor)
	engine := core.NewEngine(stock, ledger, orders, markup)
	reporter := core.NewReporter(stock, ledger, orders)

	var agent *ai.Agent
	if cfg.OpenAIAPIKey != "" {
		agent = ai.NewAgent(cfg.OpenAIAPIKey)
	} else {
		slog.Warn("OPENAI_API_KEY is not set, /api/assist is disabled")
	}

	handler := webAdapter.NewHandler(engine, reporter, stock, ledger, orders, vendors, agent, cfg.AllowedOrigins)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
