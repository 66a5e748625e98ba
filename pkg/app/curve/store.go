package curve

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/dexteronradix/stonks/pkg/app/core"
)

// TokenProvider is the external token data source.
type TokenProvider interface {
	FetchToken(ctx context.Context, address string) (*core.Token, error)
}

// TokenLister is optionally implemented by providers that can enumerate all
// launched tokens (gallery data).
type TokenLister interface {
	FetchTokens(ctx context.Context) ([]*core.Token, error)
}

// LoadStatus is what the view renders while a snapshot is (un)available.
type LoadStatus int8

const (
	StatusIdle LoadStatus = iota
	StatusLoading
	StatusReady
	StatusFailed
)

func (s LoadStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// TokenStore holds the token snapshot for one trading view. Loads are
// guarded by a generation counter: every Load bumps the generation, and a
// response is applied only if its generation is still current. That makes
// "last-requested address wins" explicit regardless of response arrival
// order; a slow response for token A can never overwrite token B after the
// view has switched.
type TokenStore struct {
	provider TokenProvider
	log      *zap.SugaredLogger

	mu      sync.Mutex
	gen     uint64
	address string
	token   *core.Token
	status  LoadStatus
	err     error
}

func NewTokenStore(provider TokenProvider, log *zap.SugaredLogger) *TokenStore {
	return &TokenStore{
		provider: provider,
		log:      log,
		status:   StatusIdle,
	}
}

// Load fetches a full snapshot for address. Safe to call concurrently; the
// newest call supersedes all in-flight ones. A failed fetch retains no
// partial token: the store moves to StatusFailed and the view shows an
// error state instead of a malformed token.
func (s *TokenStore) Load(ctx context.Context, address string) error {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.address = address
	s.status = StatusLoading
	s.err = nil
	s.mu.Unlock()

	tok, err := s.provider.FetchToken(ctx, address)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		// A newer Load superseded this one while the fetch was in flight.
		s.log.Debugw("token_load_superseded", "address", core.ShortenAddress(address))
		return nil
	}

	if err != nil {
		s.token = nil
		s.status = StatusFailed
		s.err = err
		s.log.Warnw("token_load_failed", "address", core.ShortenAddress(address), "err", err)
		return err
	}

	s.token = tok
	s.status = StatusReady
	s.log.Infow("token_loaded",
		"address", core.ShortenAddress(address),
		"symbol", tok.Symbol,
		"last_price", tok.LastPrice.String(),
	)
	return nil
}

// Snapshot returns the current token (nil unless StatusReady), the load
// status, and the last load error (nil unless StatusFailed).
func (s *TokenStore) Snapshot() (*core.Token, LoadStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.status, s.err
}

// Address returns the most recently requested token address.
func (s *TokenStore) Address() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.address
}
