// Package manifest composes Radix transaction manifests for bonding-curve
// trades. Builders are pure: output depends only on inputs, and a fresh
// manifest is built for every submission attempt so stale parameters can
// never be replayed.
package manifest

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dexteronradix/stonks/pkg/app/core"
)

// BuildBuy composes the manifest for buying from the curve: withdraw XRD
// from the user's account, pass it to the market component's "buy" method,
// deposit everything returned.
//
// Amounts are serialized as decimal strings. The manifest is a financial
// instruction: an empty component or account address is rejected up front
// rather than emitted.
func BuildBuy(amount decimal.Decimal, xrdAddress, componentAddress, accountAddress string) (string, error) {
	if err := checkAddresses(xrdAddress, componentAddress, accountAddress); err != nil {
		return "", err
	}
	if amount.IsNegative() {
		return "", fmt.Errorf("buy amount %s is negative", amount)
	}
	return compose(accountAddress, xrdAddress, amount, componentAddress, "buy", "payment"), nil
}

// BuildSell composes the manifest for selling back to the curve: withdraw
// the token from the user's account, pass it to the market component's
// "sell" method, deposit the XRD returned.
func BuildSell(amount decimal.Decimal, tokenAddress, componentAddress, accountAddress string) (string, error) {
	if err := checkAddresses(tokenAddress, componentAddress, accountAddress); err != nil {
		return "", err
	}
	if amount.IsNegative() {
		return "", fmt.Errorf("sell amount %s is negative", amount)
	}
	return compose(accountAddress, tokenAddress, amount, componentAddress, "sell", "tokens"), nil
}

func checkAddresses(resourceAddress, componentAddress, accountAddress string) error {
	if resourceAddress == "" {
		return &core.ConfigError{Field: "resource address"}
	}
	if componentAddress == "" {
		return &core.ConfigError{Field: "market component address"}
	}
	if accountAddress == "" {
		return &core.ConfigError{Field: "user account address"}
	}
	return nil
}

// compose renders the four-instruction trade manifest. Both sides share the
// same shape; only the withdrawn resource, the method name and the bucket
// label differ.
func compose(account, resource string, amount decimal.Decimal, component, method, bucket string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `CALL_METHOD
    Address("%s")
    "withdraw"
    Address("%s")
    Decimal("%s")
;
`, account, resource, amount.String())
	fmt.Fprintf(&b, `TAKE_ALL_FROM_WORKTOP
    Address("%s")
    Bucket("%s")
;
`, resource, bucket)
	fmt.Fprintf(&b, `CALL_METHOD
    Address("%s")
    "%s"
    Bucket("%s")
;
`, component, method, bucket)
	fmt.Fprintf(&b, `CALL_METHOD
    Address("%s")
    "deposit_batch"
    Expression("ENTIRE_WORKTOP")
;
`, account)
	return b.String()
}
