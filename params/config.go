package params

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Network holds the Radix network identifiers the trading core needs.
// XRDResourceAddress is the payment asset for buys; it differs per network
// (mainnet vs stokenet) and MUST be supplied out-of-band: an empty value
// is a configuration error, not something to retry at runtime.
type Network struct {
	// XRDResourceAddress is the resource address of XRD on the target network.
	XRDResourceAddress string
	// TokenAPIURL is the base URL of the launcher token API (indexer) that
	// serves token metadata and bonding-curve market stats.
	TokenAPIURL string
	// WalletBridgeURL is the Radix Connect bridge relay that forwards
	// transaction manifests to the user's wallet for signing. Empty means
	// no wallet is connected; submissions must fail without a network call.
	WalletBridgeURL string
}

// Server holds the HTTP API settings for the frontend-facing server.
type Server struct {
	ListenAddr string
	// AllowedOrigins for CORS. The Next.js frontend runs on :3000 in dev.
	AllowedOrigins []string
}

// Store holds local persistence settings.
type Store struct {
	// DataDir is where the pebble trade journal and snapshot cache live.
	DataDir string
	// TokenRefresh is how often open trading sessions re-fetch their token
	// snapshot for WebSocket broadcast. 0 disables background refresh.
	TokenRefresh time.Duration
}

type Config struct {
	Network Network
	Server  Server
	Store   Store
}

// Stokenet XRD resource address. Mainnet deployments must override via env.
const defaultXRDResource = "resource_tdx_2_1tknxxxxxxxxxradxrdxxxxxxxxx009923554798xxxxxxxxxtfd2jc"

func Default() Config {
	return Config{
		Network: Network{
			XRDResourceAddress: defaultXRDResource,
			TokenAPIURL:        "http://localhost:8081",
			WalletBridgeURL:    "", // no wallet connected by default
		},
		Server: Server{
			ListenAddr:     ":8080",
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:3001"},
		},
		Store: Store{
			DataDir:      "data",
			TokenRefresh: 5 * time.Second,
		},
	}
}

// LoadFromEnv loads configuration from a .env file (if it exists) and
// environment variables. Priority: ENV > .env file > defaults.
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	// Optional .env file: missing file is fine.
	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	if v := os.Getenv("XRD_RESOURCE_ADDRESS"); v != "" {
		cfg.Network.XRDResourceAddress = v
	}
	if v := os.Getenv("TOKEN_API_URL"); v != "" {
		cfg.Network.TokenAPIURL = v
	}
	if v := os.Getenv("WALLET_BRIDGE_URL"); v != "" {
		cfg.Network.WalletBridgeURL = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Store.DataDir = v
	}
	if v := os.Getenv("TOKEN_REFRESH_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			cfg.Store.TokenRefresh = time.Duration(ms) * time.Millisecond
		}
	}

	return cfg
}

// Validate checks that the values required for trading are present.
// It deliberately does not check WalletBridgeURL: running without a wallet
// is a supported state (read-only view), submission just fails predictably.
func (c Config) Validate() error {
	if c.Network.XRDResourceAddress == "" {
		return fmt.Errorf("XRD_RESOURCE_ADDRESS must be set")
	}
	if c.Network.TokenAPIURL == "" {
		return fmt.Errorf("TOKEN_API_URL must be set")
	}
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("LISTEN_ADDR must be set")
	}
	return nil
}
