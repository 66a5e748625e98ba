package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// OrderSide is whether the pending action acquires (BUY) or disposes (SELL)
// of the token. Exactly one side is active at a time.
type OrderSide int8

const (
	Buy OrderSide = iota
	Sell
)

func (s OrderSide) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "Unknown"
	}
}

// ParseOrderSide parses "BUY"/"SELL" (case-insensitive).
func ParseOrderSide(s string) (OrderSide, error) {
	switch strings.ToUpper(s) {
	case "BUY":
		return Buy, nil
	case "SELL":
		return Sell, nil
	default:
		return Buy, fmt.Errorf("unknown order side %q", s)
	}
}

// OrderForm is the trading view's transient order input: the active side
// plus an independent pending amount per side. It is owned by a single view
// session and mutated only by that session's action handlers, one event at
// a time, so it does no locking of its own.
//
// Amounts are optional decimals: nil means the user never entered one, which
// is distinct from an entered zero. Only the field matching the active side
// is read at submission; the inactive side's value never leaks into a trade.
type OrderForm struct {
	side OrderSide

	buyAmount  *decimal.Decimal
	sellAmount *decimal.Decimal

	// Exact text the user typed, kept per side so the input box renders
	// what was accepted (including a trailing separator) after re-renders.
	buyInput  string
	sellInput string
}

// NewOrderForm returns the initial state: side BUY, both amounts unset.
func NewOrderForm() *OrderForm {
	return &OrderForm{side: Buy}
}

func (f *OrderForm) Side() OrderSide { return f.side }

// SetSide switches the active side. Both pending amounts are preserved so
// the user can flip back without retyping.
func (f *OrderForm) SetSide(side OrderSide) {
	f.side = side
}

// SetBuyAmount overwrites the pending buy amount unconditionally. Bounds
// enforcement against available supply belongs to the on-chain market, not
// here.
func (f *OrderForm) SetBuyAmount(d decimal.Decimal) {
	f.buyAmount = &d
}

// SetSellAmount overwrites the pending sell amount unconditionally.
func (f *OrderForm) SetSellAmount(d decimal.Decimal) {
	f.sellAmount = &d
}

// BuyAmount returns the pending buy amount and whether it was ever set.
func (f *OrderForm) BuyAmount() (decimal.Decimal, bool) {
	if f.buyAmount == nil {
		return decimal.Zero, false
	}
	return *f.buyAmount, true
}

// SellAmount returns the pending sell amount and whether it was ever set.
func (f *OrderForm) SellAmount() (decimal.Decimal, bool) {
	if f.sellAmount == nil {
		return decimal.Zero, false
	}
	return *f.sellAmount, true
}

// AmountFor resolves the submission amount for a side, defaulting unset to
// zero. This is the only place "unset" collapses to zero.
func (f *OrderForm) AmountFor(side OrderSide) decimal.Decimal {
	var a *decimal.Decimal
	if side == Buy {
		a = f.buyAmount
	} else {
		a = f.sellAmount
	}
	if a == nil {
		return decimal.Zero
	}
	return *a
}

// Input returns the accepted raw text for a side, for display.
func (f *OrderForm) Input(side OrderSide) string {
	if side == Buy {
		return f.buyInput
	}
	return f.sellInput
}

// EnterAmount applies one amount-entry event to the active side. Rejected
// text returns ErrAmountInvalid and leaves the form untouched; the caller's
// policy is to drop the inserted character and notify the user. Accepted
// text is stored verbatim and its coercion written to the active side's
// amount.
func (f *OrderForm) EnterAmount(raw string) error {
	accepted, normalized := ValidateAmount(raw)
	if !accepted {
		return ErrAmountInvalid
	}

	d, err := ParseAmount(normalized)
	if err != nil {
		return err
	}

	if f.side == Buy {
		f.buyInput = normalized
		f.buyAmount = &d
	} else {
		f.sellInput = normalized
		f.sellAmount = &d
	}
	return nil
}
