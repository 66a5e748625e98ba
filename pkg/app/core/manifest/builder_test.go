package manifest

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dexteronradix/stonks/pkg/app/core"
)

// TestBuildBuyEncodesInputs tests that the buy manifest deterministically
// encodes amount, payment asset, market component and user account.
func TestBuildBuyEncodesInputs(t *testing.T) {
	amount := decimal.RequireFromString("10")

	m, err := BuildBuy(amount, "resource_xrd", "component_1", "account_1")
	if err != nil {
		t.Fatalf("BuildBuy: %v", err)
	}

	for _, want := range []string{
		`Decimal("10")`,
		`Address("resource_xrd")`,
		`Address("component_1")`,
		`Address("account_1")`,
		`"withdraw"`,
		`"buy"`,
		`"deposit_batch"`,
		`Expression("ENTIRE_WORKTOP")`,
	} {
		if !strings.Contains(m, want) {
			t.Errorf("buy manifest missing %s:\n%s", want, m)
		}
	}

	// Identical inputs must produce byte-identical manifests
	again, err := BuildBuy(amount, "resource_xrd", "component_1", "account_1")
	if err != nil {
		t.Fatalf("BuildBuy (repeat): %v", err)
	}
	if m != again {
		t.Error("buy manifest is not deterministic for identical inputs")
	}
}

// TestBuildSellEncodesInputs tests the sell side: the token itself is
// withdrawn and passed to the component's sell method.
func TestBuildSellEncodesInputs(t *testing.T) {
	m, err := BuildSell(decimal.RequireFromString("2.5"), "resource_token", "component_1", "account_1")
	if err != nil {
		t.Fatalf("BuildSell: %v", err)
	}

	for _, want := range []string{
		`Decimal("2.5")`,
		`Address("resource_token")`,
		`"sell"`,
	} {
		if !strings.Contains(m, want) {
			t.Errorf("sell manifest missing %s:\n%s", want, m)
		}
	}
	if strings.Contains(m, `"buy"`) {
		t.Error("sell manifest contains a buy call")
	}
}

// TestBuildRejectsMissingAddresses tests the fail-fast precondition: a
// manifest with an empty address is a silent-corruption risk and must be
// rejected, not emitted.
func TestBuildRejectsMissingAddresses(t *testing.T) {
	amount := decimal.NewFromInt(1)

	tests := []struct {
		name                         string
		resource, component, account string
	}{
		{"empty component", "resource_xrd", "", "account_1"},
		{"empty account", "resource_xrd", "component_1", ""},
		{"empty resource", "", "component_1", "account_1"},
	}

	for _, tt := range tests {
		if _, err := BuildBuy(amount, tt.resource, tt.component, tt.account); err == nil {
			t.Errorf("BuildBuy %s: expected error", tt.name)
		} else {
			var cfgErr *core.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("BuildBuy %s: got %T, want *core.ConfigError", tt.name, err)
			}
		}
		if _, err := BuildSell(amount, tt.resource, tt.component, tt.account); err == nil {
			t.Errorf("BuildSell %s: expected error", tt.name)
		}
	}
}

// TestBuildRejectsNegativeAmount tests that negative amounts never reach a
// manifest.
func TestBuildRejectsNegativeAmount(t *testing.T) {
	neg := decimal.NewFromInt(-1)
	if _, err := BuildBuy(neg, "resource_xrd", "component_1", "account_1"); err == nil {
		t.Error("BuildBuy with negative amount: expected error")
	}
	if _, err := BuildSell(neg, "resource_token", "component_1", "account_1"); err == nil {
		t.Error("BuildSell with negative amount: expected error")
	}
}

// TestAmountSerializedAsDecimalString tests precision survival: amounts go
// into the manifest as decimal strings, never through binary floats.
func TestAmountSerializedAsDecimalString(t *testing.T) {
	amount := decimal.RequireFromString("0.1000000000000000001")
	m, err := BuildBuy(amount, "resource_xrd", "component_1", "account_1")
	if err != nil {
		t.Fatalf("BuildBuy: %v", err)
	}
	if !strings.Contains(m, `Decimal("0.1000000000000000001")`) {
		t.Errorf("amount lost precision:\n%s", m)
	}
}
