// Command trade composes a bonding-curve trade manifest from the command
// line, prints it, and optionally sends it through the wallet bridge.
// Useful for inspecting exactly what the wallet will be asked to sign.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dexteronradix/stonks/params"
	"github.com/dexteronradix/stonks/pkg/app/core"
	"github.com/dexteronradix/stonks/pkg/app/core/manifest"
	"github.com/dexteronradix/stonks/pkg/gateway"
	"github.com/dexteronradix/stonks/pkg/wallet"
)

func main() {
	var (
		tokenAddress = flag.String("token", "", "token resource address (resource_...)")
		sideStr      = flag.String("side", "BUY", "order side: BUY or SELL")
		amountStr    = flag.String("amount", "0", "trade amount (decimal)")
		account      = flag.String("account", "", "user account address (account_...)")
		send         = flag.Bool("send", false, "send the manifest through the wallet bridge")
	)
	flag.Parse()

	cfg := params.LoadFromEnv("")

	side, err := core.ParseOrderSide(*sideStr)
	if err != nil {
		fatal(err)
	}

	amount, err := core.ParseAmount(*amountStr)
	if err != nil {
		fatal(fmt.Errorf("amount %q: %w", *amountStr, err))
	}

	if *tokenAddress == "" {
		fatal(fmt.Errorf("-token is required"))
	}

	// Step 1: Fetch the token snapshot for the market component address
	client, err := gateway.NewClient(cfg.Network.TokenAPIURL)
	if err != nil {
		fatal(err)
	}

	ctx := context.Background()
	tok, err := client.FetchToken(ctx, *tokenAddress)
	if err != nil {
		fatal(err)
	}

	fmt.Printf("Token: %s (%s)\n", tok.Name, tok.Symbol)
	fmt.Printf("  Market: %s\n", core.ShortenAddress(tok.ComponentAddress))
	fmt.Printf("  Last Price: %s XRD\n", tok.LastPrice)
	fmt.Printf("  Available: %s\n\n", tok.Available)

	// Step 2: Build the manifest
	var m string
	switch side {
	case core.Buy:
		m, err = manifest.BuildBuy(amount, cfg.Network.XRDResourceAddress, tok.ComponentAddress, *account)
	case core.Sell:
		m, err = manifest.BuildSell(amount, tok.Address, tok.ComponentAddress, *account)
	}
	if err != nil {
		fatal(err)
	}

	fmt.Printf("%s manifest for %s %s:\n\n%s\n", side, amount, tok.Symbol, m)

	if !*send {
		fmt.Println("Dry run. Pass -send to submit through the wallet bridge.")
		return
	}

	// Step 3: Send through the wallet bridge
	connector, err := wallet.NewBridgeConnector(cfg.Network.WalletBridgeURL)
	if err != nil {
		fatal(fmt.Errorf("wallet bridge: %w (set WALLET_BRIDGE_URL)", err))
	}

	fmt.Println("Waiting for wallet approval...")
	res, err := connector.SendTransaction(ctx, m)
	if err != nil {
		fatal(err)
	}

	fmt.Printf("Submitted. Transaction intent hash: %s\n", res.TransactionIntentHash)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
