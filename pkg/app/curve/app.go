// Package curve is the trading application: per-view sessions over a
// bonding-curve market, token snapshot loading, and trade submission
// through an external wallet connector.
package curve

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/dexteronradix/stonks/params"
	"github.com/dexteronradix/stonks/pkg/app/core"
	"github.com/dexteronradix/stonks/pkg/storage"
	"github.com/dexteronradix/stonks/pkg/util"
	"github.com/dexteronradix/stonks/pkg/wallet"
)

// App owns the shared collaborators (provider, connector, journal) and the
// registry of open trading sessions. Each session keeps its own order form
// and token store; nothing mutable is shared between views.
type App struct {
	cfg       params.Config
	provider  TokenProvider
	connector wallet.Connector // nil when no wallet bridge is configured
	journal   *storage.Store   // nil disables journaling and caching
	clock     util.Clock
	log       *zap.SugaredLogger

	mu       sync.Mutex
	sessions map[string]*Session

	// onTokenUpdate is invoked after a background refresh succeeds, with
	// the fresh snapshot. Used by the API layer for WebSocket broadcast.
	onTokenUpdate func(*core.Token)
}

func NewApp(cfg params.Config, provider TokenProvider, connector wallet.Connector, journal *storage.Store, log *zap.SugaredLogger) *App {
	return &App{
		cfg:       cfg,
		provider:  provider,
		connector: connector,
		journal:   journal,
		clock:     util.RealClock{},
		log:       log,
		sessions:  make(map[string]*Session),
	}
}

// SetClock replaces the wall clock, for tests.
func (a *App) SetClock(c util.Clock) { a.clock = c }

// SetUpdateHandler registers the token refresh callback.
func (a *App) SetUpdateHandler(fn func(*core.Token)) { a.onTokenUpdate = fn }

// OpenSession creates a trading session for a token and starts loading its
// snapshot. accountAddress may be empty (no wallet account connected yet).
func (a *App) OpenSession(ctx context.Context, tokenAddress, accountAddress string) (*Session, error) {
	if tokenAddress == "" {
		return nil, &core.ConfigError{Field: "token address"}
	}

	id, err := newSessionID()
	if err != nil {
		return nil, err
	}

	sess := &Session{
		id:             id,
		xrdAddress:     a.cfg.Network.XRDResourceAddress,
		connector:      a.connector,
		journal:        a.journal,
		clock:          a.clock,
		log:            a.log,
		store:          NewTokenStore(a.provider, a.log),
		form:           core.NewOrderForm(),
		accountAddress: accountAddress,
	}

	a.mu.Lock()
	a.sessions[id] = sess
	a.mu.Unlock()

	a.log.Infow("session_opened", "session", id, "token", core.ShortenAddress(tokenAddress))

	// Initial load runs in the background; the view shows a loading state
	// until the store settles.
	go func() {
		_ = sess.LoadToken(ctx, tokenAddress)
	}()

	return sess, nil
}

// Session looks up an open session.
func (a *App) Session(id string) (*Session, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	sess, ok := a.sessions[id]
	return sess, ok
}

// CloseSession discards a session and its form state.
func (a *App) CloseSession(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.sessions[id]; ok {
		delete(a.sessions, id)
		a.log.Infow("session_closed", "session", id)
	}
}

// Token fetches a one-shot snapshot outside any session, falling back to
// the cached copy when the provider is unreachable.
func (a *App) Token(ctx context.Context, address string) (*core.Token, error) {
	tok, err := a.provider.FetchToken(ctx, address)
	if err == nil {
		if a.journal != nil {
			if cacheErr := a.journal.SaveSnapshot(tok); cacheErr != nil {
				a.log.Warnw("snapshot_cache_failed", "err", cacheErr)
			}
		}
		return tok, nil
	}

	if a.journal != nil {
		if cached, cacheErr := a.journal.LoadSnapshot(address); cacheErr == nil && cached != nil {
			a.log.Warnw("token_served_from_cache", "address", core.ShortenAddress(address), "err", err)
			return cached, nil
		}
	}
	return nil, err
}

// ListTokens enumerates launched tokens when the provider supports it.
func (a *App) ListTokens(ctx context.Context) ([]*core.Token, error) {
	lister, ok := a.provider.(TokenLister)
	if !ok {
		return nil, fmt.Errorf("token provider cannot list tokens")
	}
	return lister.FetchTokens(ctx)
}

// RecentTrades reads the newest journal entries.
func (a *App) RecentTrades(limit int) ([]*storage.TradeRecord, error) {
	if a.journal == nil {
		return nil, nil
	}
	return a.journal.RecentTrades(limit)
}

// Run refreshes the token snapshot of every open session on the configured
// interval and hands fresh snapshots to the update handler. Returns when
// ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	interval := a.cfg.Store.TokenRefresh
	if interval <= 0 {
		a.log.Info("token refresh disabled")
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-a.clock.After(interval):
		}

		a.mu.Lock()
		open := make([]*Session, 0, len(a.sessions))
		for _, s := range a.sessions {
			open = append(open, s)
		}
		a.mu.Unlock()

		for _, sess := range open {
			address := sess.store.Address()
			if address == "" {
				continue
			}
			if err := sess.LoadToken(ctx, address); err != nil {
				continue // store already holds the error state
			}
			tok, status, _ := sess.Token()
			if status == StatusReady && a.onTokenUpdate != nil {
				a.onTokenUpdate(tok)
			}
		}
	}
}

func newSessionID() (string, error) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return hex.EncodeToString(buf[:]), nil
}
