package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Token is a read-only snapshot of a launched coin: identity metadata plus
// bonding-curve market metrics. It is created on-chain; this system only
// fetches it, wholesale, whenever the viewed token address changes.
type Token struct {
	// Address is the token's resource address (resource_...). Immutable.
	Address string `json:"address"`

	// Display metadata, set once at fetch time.
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	IconURL     string `json:"iconUrl"`

	// ComponentAddress is the bonding-curve market component that sells and
	// buys back this token (component_...).
	ComponentAddress string `json:"componentAddress"`

	// Market metrics, refreshed wholesale on each fetch. No partial updates.
	LastPrice decimal.Decimal `json:"lastPrice"` // XRD per token
	Supply    decimal.Decimal `json:"supply"`    // total minted
	Available decimal.Decimal `json:"available"` // still on the curve
	// ReadyToDexter is progress toward the DEX listing threshold, 0..100.
	// When the market cap reaches the threshold the curve liquidity is
	// deposited into DeXter and burned.
	ReadyToDexter decimal.Decimal `json:"readyToDexter"`

	// FetchedAt is when this snapshot was taken (unix milliseconds).
	FetchedAt int64 `json:"fetchedAt"`
}

// Validate rejects malformed snapshots so a failed or partial fetch can
// never surface as a displayable token.
func (t *Token) Validate() error {
	if !strings.HasPrefix(t.Address, "resource_") {
		return fmt.Errorf("token address %q is not a resource address", t.Address)
	}
	if t.Name == "" || t.Symbol == "" {
		return fmt.Errorf("token %s has no name/symbol metadata", t.Address)
	}
	if t.ComponentAddress != "" && !strings.HasPrefix(t.ComponentAddress, "component_") {
		return fmt.Errorf("token %s market %q is not a component address", t.Address, t.ComponentAddress)
	}
	if t.LastPrice.IsNegative() || t.Supply.IsNegative() || t.Available.IsNegative() {
		return fmt.Errorf("token %s has negative market metrics", t.Address)
	}
	return nil
}

// ShortenAddress abbreviates a Radix address for display.
// Bech32m addresses are at least 35 chars; shorter strings pass through.
func ShortenAddress(address string) string {
	if len(address) < 35 {
		return address
	}
	return address[:8] + "..." + address[len(address)-20:]
}
