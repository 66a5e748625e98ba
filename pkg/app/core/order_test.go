package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

// TestOrderFormInitialState tests that a new form starts on BUY with both
// amounts unset (which is not the same as zero).
func TestOrderFormInitialState(t *testing.T) {
	form := NewOrderForm()

	if form.Side() != Buy {
		t.Errorf("initial side = %s, want BUY", form.Side())
	}
	if _, set := form.BuyAmount(); set {
		t.Error("initial buy amount is set, want unset")
	}
	if _, set := form.SellAmount(); set {
		t.Error("initial sell amount is set, want unset")
	}
	if !form.AmountFor(Buy).IsZero() || !form.AmountFor(Sell).IsZero() {
		t.Error("unset amounts must resolve to zero for submission")
	}
}

// TestSetSidePreservesAmounts tests the round-trip: set buyAmount=5,
// switch to SELL and back, buyAmount is still 5.
func TestSetSidePreservesAmounts(t *testing.T) {
	form := NewOrderForm()
	form.SetBuyAmount(decimal.NewFromInt(5))
	form.SetSellAmount(decimal.NewFromInt(7))

	form.SetSide(Sell)
	form.SetSide(Buy)

	buy, set := form.BuyAmount()
	if !set || buy.String() != "5" {
		t.Errorf("buy amount after side round-trip = %s (set=%v), want 5", buy, set)
	}
	sell, set := form.SellAmount()
	if !set || sell.String() != "7" {
		t.Errorf("sell amount after side round-trip = %s (set=%v), want 7", sell, set)
	}
}

// TestEnterAmountWritesActiveSide tests that amount entry lands on the
// field matching the active side and nowhere else.
func TestEnterAmountWritesActiveSide(t *testing.T) {
	form := NewOrderForm()

	if err := form.EnterAmount("12,5"); err != nil {
		t.Fatalf("EnterAmount on BUY: %v", err)
	}
	if got := form.AmountFor(Buy); got.String() != "12.5" {
		t.Errorf("buy amount = %s, want 12.5", got)
	}
	if _, set := form.SellAmount(); set {
		t.Error("sell amount was set by a BUY-side entry")
	}
	if form.Input(Buy) != "12,5" {
		t.Errorf("buy input text = %q, want raw text preserved", form.Input(Buy))
	}

	form.SetSide(Sell)
	if err := form.EnterAmount("3."); err != nil {
		t.Fatalf("EnterAmount on SELL: %v", err)
	}
	if got := form.AmountFor(Sell); got.String() != "3" {
		t.Errorf("sell amount = %s, want 3", got)
	}
	// BUY side untouched by the SELL-side entry
	if got := form.AmountFor(Buy); got.String() != "12.5" {
		t.Errorf("buy amount after SELL entry = %s, want 12.5", got)
	}
}

// TestEnterAmountRejectionKeepsState tests the drop-the-keystroke policy:
// rejected text leaves both the amount and the accepted text unchanged.
func TestEnterAmountRejectionKeepsState(t *testing.T) {
	form := NewOrderForm()
	if err := form.EnterAmount("12"); err != nil {
		t.Fatalf("EnterAmount(\"12\"): %v", err)
	}

	if err := form.EnterAmount("12a"); err != ErrAmountInvalid {
		t.Fatalf("EnterAmount(\"12a\"): got %v, want ErrAmountInvalid", err)
	}

	if form.Input(Buy) != "12" {
		t.Errorf("input text after rejection = %q, want %q", form.Input(Buy), "12")
	}
	if got := form.AmountFor(Buy); got.String() != "12" {
		t.Errorf("amount after rejection = %s, want 12", got)
	}
}

// TestParseOrderSide tests side parsing used by the API layer.
func TestParseOrderSide(t *testing.T) {
	for _, s := range []string{"BUY", "buy", "Buy"} {
		side, err := ParseOrderSide(s)
		if err != nil || side != Buy {
			t.Errorf("ParseOrderSide(%q) = %v, %v; want BUY", s, side, err)
		}
	}
	if side, err := ParseOrderSide("SELL"); err != nil || side != Sell {
		t.Errorf("ParseOrderSide(SELL) = %v, %v; want SELL", side, err)
	}
	if _, err := ParseOrderSide("HODL"); err == nil {
		t.Error("ParseOrderSide(HODL): expected error")
	}
}
