package curve

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/dexteronradix/stonks/pkg/app/core"
	"github.com/dexteronradix/stonks/pkg/storage"
	"github.com/dexteronradix/stonks/pkg/util"
	"github.com/dexteronradix/stonks/pkg/wallet"
)

// Session is one trading view's state: the order form, the viewed token's
// snapshot store, and the last submission result. Sessions are handed to
// callers explicitly (no process-wide form state), so two open trading
// views can never bleed input into each other.
type Session struct {
	id         string
	xrdAddress string
	connector  wallet.Connector // nil when no wallet is connected
	journal    *storage.Store   // nil disables journaling
	clock      util.Clock
	log        *zap.SugaredLogger

	store *TokenStore

	mu             sync.Mutex
	form           *core.OrderForm
	accountAddress string
	lastResult     *TradeResult
}

// TradeResult is the tagged outcome of one submission attempt. It is
// consumed by the view (display, journal) and not used to drive retries.
type TradeResult struct {
	OK          bool           `json:"ok"`
	Side        core.OrderSide `json:"-"`
	Amount      string         `json:"amount"`
	IntentHash  string         `json:"transactionIntentHash,omitempty"`
	Reason      string         `json:"reason,omitempty"`
	SubmittedAt int64          `json:"submittedAt"`
}

func (s *Session) ID() string { return s.id }

// LoadToken points the session at a token address and fetches its snapshot.
// Called on view mount and whenever the viewed address changes; the store
// discards superseded responses.
func (s *Session) LoadToken(ctx context.Context, address string) error {
	return s.store.Load(ctx, address)
}

// Token returns the current snapshot and load status.
func (s *Session) Token() (*core.Token, LoadStatus, error) {
	return s.store.Snapshot()
}

// SetSide switches the active order side. Pending amounts on both sides
// survive the switch.
func (s *Session) SetSide(side core.OrderSide) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.SetSide(side)
}

// Side returns the active order side.
func (s *Session) Side() core.OrderSide {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form.Side()
}

// EnterAmount applies an amount keystroke to the active side. Invalid text
// returns core.ErrAmountInvalid and leaves the form unchanged.
func (s *Session) EnterAmount(raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form.EnterAmount(raw)
}

// SetAccount records the connected user's account address. An empty string
// means no account is connected; submission then fails as a configuration
// error before any network call.
func (s *Session) SetAccount(address string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accountAddress = address
}

// LastResult returns the most recent submission outcome, if any.
func (s *Session) LastResult() *TradeResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastResult
}

// FormView is a render-ready copy of the order form.
type FormView struct {
	Side       string `json:"side"`
	BuyAmount  string `json:"buyAmount,omitempty"`
	SellAmount string `json:"sellAmount,omitempty"`
	BuyInput   string `json:"buyInput"`
	SellInput  string `json:"sellInput"`
}

// Form snapshots the order form for the presentation layer.
func (s *Session) Form() FormView {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := FormView{
		Side:      s.form.Side().String(),
		BuyInput:  s.form.Input(core.Buy),
		SellInput: s.form.Input(core.Sell),
	}
	if buy, ok := s.form.BuyAmount(); ok {
		view.BuyAmount = buy.String()
	}
	if sell, ok := s.form.SellAmount(); ok {
		view.SellAmount = sell.String()
	}
	return view
}
