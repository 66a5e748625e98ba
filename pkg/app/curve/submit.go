package curve

import (
	"context"
	"errors"

	"github.com/dexteronradix/stonks/pkg/app/core"
	"github.com/dexteronradix/stonks/pkg/app/core/manifest"
	"github.com/dexteronradix/stonks/pkg/storage"
)

// Submit composes and dispatches one trade for the given side.
//
//  1. The amount is the form field for that side; never entered means zero.
//  2. The market component comes from the viewed token's snapshot; absent
//     means a configuration error and no network call is attempted.
//  3. The side-appropriate manifest is built fresh for this attempt.
//  4. A missing wallet connector fails before any call is made.
//  5. The connector call may block on human approval; cancel via ctx.
//
// Pre-dispatch failures (config, wallet absent, bad addresses) return an
// error and record nothing. Once dispatched, the outcome is always a
// TradeResult: OK with the transaction intent hash, or not-OK carrying the
// connector's reason verbatim. Nothing here retries, and the order form is
// never mutated by a submission.
func (s *Session) Submit(ctx context.Context, side core.OrderSide) (*TradeResult, error) {
	s.mu.Lock()
	amount := s.form.AmountFor(side)
	account := s.accountAddress
	s.mu.Unlock()

	tok, _, _ := s.store.Snapshot()
	if tok == nil || tok.ComponentAddress == "" {
		return nil, &core.ConfigError{Field: "market component address"}
	}

	var (
		m   string
		err error
	)
	switch side {
	case core.Buy:
		m, err = manifest.BuildBuy(amount, s.xrdAddress, tok.ComponentAddress, account)
	case core.Sell:
		m, err = manifest.BuildSell(amount, tok.Address, tok.ComponentAddress, account)
	}
	if err != nil {
		return nil, err
	}

	if s.connector == nil {
		return nil, core.ErrWalletUnavailable
	}

	s.log.Infow("trade_submitting",
		"session", s.id,
		"side", side.String(),
		"token", core.ShortenAddress(tok.Address),
		"amount", amount.String(),
	)

	result := &TradeResult{
		Side:        side,
		Amount:      amount.String(),
		SubmittedAt: s.clock.Now().UnixMilli(),
	}

	res, sendErr := s.connector.SendTransaction(ctx, m)
	if sendErr != nil {
		var rejected *core.RejectedError
		if errors.As(sendErr, &rejected) {
			result.Reason = rejected.Reason
		} else {
			result.Reason = sendErr.Error()
		}
		s.log.Warnw("trade_rejected", "session", s.id, "side", side.String(), "reason", result.Reason)
	} else {
		result.OK = true
		result.IntentHash = res.TransactionIntentHash
		s.log.Infow("trade_submitted", "session", s.id, "intent_hash", result.IntentHash)
	}

	s.journalTrade(result, tok.Address, m)

	s.mu.Lock()
	s.lastResult = result
	s.mu.Unlock()

	return result, nil
}

// journalTrade records the attempt in the pebble journal. Journal failures
// are logged and swallowed; the audit trail must not break trading.
func (s *Session) journalTrade(result *TradeResult, tokenAddress, m string) {
	if s.journal == nil {
		return
	}
	rec := &storage.TradeRecord{
		TokenAddress: tokenAddress,
		Side:         result.Side.String(),
		Amount:       result.Amount,
		OK:           result.OK,
		IntentHash:   result.IntentHash,
		Reason:       result.Reason,
		SubmittedAt:  result.SubmittedAt,
	}
	if err := s.journal.SaveTrade(rec, m); err != nil {
		s.log.Warnw("trade_journal_failed", "session", s.id, "err", err)
	}
}
