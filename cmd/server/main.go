package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dexteronradix/stonks/params"
	"github.com/dexteronradix/stonks/pkg/api"
	"github.com/dexteronradix/stonks/pkg/app/curve"
	"github.com/dexteronradix/stonks/pkg/gateway"
	"github.com/dexteronradix/stonks/pkg/storage"
	"github.com/dexteronradix/stonks/pkg/util"
	"github.com/dexteronradix/stonks/pkg/wallet"
)

func main() {
	// Load config from .env file and environment variables
	cfg := params.LoadFromEnv("")
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	// Setup logging (write to both console and file)
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "data/server.log"
	}

	logger, err := util.NewLoggerWithFile(logFile)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()
	sugar.Infow("logger_initialized", "log_file", logFile)

	// ---- Token data provider ----
	provider, err := gateway.NewClient(cfg.Network.TokenAPIURL)
	if err != nil {
		sugar.Fatalw("token_api_init_failed", "err", err)
	}
	sugar.Infow("token_api_configured", "url", cfg.Network.TokenAPIURL)

	// ---- Wallet connector (optional) ----
	// No bridge URL means no wallet: the server still serves token data and
	// sessions, and submissions fail with a connect call-to-action.
	var connector wallet.Connector
	if cfg.Network.WalletBridgeURL != "" {
		bridge, err := wallet.NewBridgeConnector(cfg.Network.WalletBridgeURL)
		if err != nil {
			sugar.Fatalw("wallet_bridge_init_failed", "err", err)
		}
		connector = bridge
		sugar.Infow("wallet_bridge_configured", "url", cfg.Network.WalletBridgeURL)
	} else {
		sugar.Info("wallet bridge not configured, running read-only")
	}

	// ---- Trade journal + snapshot cache ----
	journal, err := storage.Open(cfg.Store.DataDir + "/journal")
	if err != nil {
		sugar.Fatalw("journal_open_failed", "err", err)
	}
	defer journal.Close()

	// ---- Application + API ----
	app := curve.NewApp(cfg, provider, connector, journal, sugar)
	server := api.NewServer(app, cfg.Server)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Background token refresh for open sessions (WebSocket pushes)
	go app.Run(ctx)

	go func() {
		if err := server.Start(cfg.Server.ListenAddr); err != nil {
			sugar.Fatalw("api_server_failed", "err", err)
		}
	}()

	sugar.Infow("server_started",
		"listen", cfg.Server.ListenAddr,
		"xrd_resource", cfg.Network.XRDResourceAddress,
		"token_refresh_ms", cfg.Store.TokenRefresh.Milliseconds(),
	)

	<-ctx.Done()
	sugar.Info("shutting down")
}
