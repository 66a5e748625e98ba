package curve

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dexteronradix/stonks/pkg/app/core"
)

func testToken(address, symbol string) *core.Token {
	return &core.Token{
		Address:          address,
		Name:             symbol + " Coin",
		Symbol:           symbol,
		ComponentAddress: "component_" + symbol,
		LastPrice:        decimal.RequireFromString("0.1"),
		Supply:           decimal.NewFromInt(1000),
		Available:        decimal.NewFromInt(500),
		ReadyToDexter:    decimal.NewFromInt(10),
	}
}

// fetchCall is one in-flight FetchToken, released by the test.
type fetchCall struct {
	address string
	release chan struct{}
}

// manualProvider blocks every fetch until the test releases it, so response
// arrival order can be controlled exactly.
type manualProvider struct {
	started chan fetchCall
	tokens  map[string]*core.Token
	errs    map[string]error
}

func newManualProvider() *manualProvider {
	return &manualProvider{
		started: make(chan fetchCall, 8),
		tokens:  make(map[string]*core.Token),
		errs:    make(map[string]error),
	}
}

func (p *manualProvider) FetchToken(ctx context.Context, address string) (*core.Token, error) {
	call := fetchCall{address: address, release: make(chan struct{})}
	p.started <- call
	<-call.release
	if err := p.errs[address]; err != nil {
		return nil, err
	}
	return p.tokens[address], nil
}

// stubProvider resolves instantly.
type stubProvider struct {
	tokens map[string]*core.Token
	err    error
	calls  int
}

func (p *stubProvider) FetchToken(ctx context.Context, address string) (*core.Token, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	tok, ok := p.tokens[address]
	if !ok {
		return nil, fmt.Errorf("token %s not found", address)
	}
	return tok, nil
}

func waitCall(t *testing.T, p *manualProvider) fetchCall {
	t.Helper()
	select {
	case call := <-p.started:
		return call
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a fetch to start")
		return fetchCall{}
	}
}

// TestStoreStaleResponseDiscarded tests the one explicit ordering
// guarantee: a load for A superseded by a load for B that resolves first
// must not let A's late response overwrite B's token.
func TestStoreStaleResponseDiscarded(t *testing.T) {
	p := newManualProvider()
	p.tokens["resource_a"] = testToken("resource_a", "AAA")
	p.tokens["resource_b"] = testToken("resource_b", "BBB")

	store := NewTokenStore(p, zap.NewNop().Sugar())
	ctx := context.Background()

	doneA := make(chan error, 1)
	go func() { doneA <- store.Load(ctx, "resource_a") }()
	callA := waitCall(t, p)

	// View switches to B while A is still in flight
	doneB := make(chan error, 1)
	go func() { doneB <- store.Load(ctx, "resource_b") }()
	callB := waitCall(t, p)

	// B resolves first
	close(callB.release)
	if err := <-doneB; err != nil {
		t.Fatalf("load B: %v", err)
	}
	tok, status, _ := store.Snapshot()
	if status != StatusReady || tok == nil || tok.Symbol != "BBB" {
		t.Fatalf("after B resolved: token=%v status=%s, want BBB ready", tok, status)
	}

	// A's response arrives late and must be discarded
	close(callA.release)
	if err := <-doneA; err != nil {
		t.Fatalf("superseded load A returned error: %v", err)
	}
	tok, status, _ = store.Snapshot()
	if status != StatusReady || tok == nil || tok.Symbol != "BBB" {
		t.Errorf("stale A response applied: token=%v status=%s, want BBB ready", tok, status)
	}
}

// TestStoreFailureRetainsNoToken tests that a failed fetch leaves an error
// state and no partial token.
func TestStoreFailureRetainsNoToken(t *testing.T) {
	p := &stubProvider{err: fmt.Errorf("gateway down")}
	store := NewTokenStore(p, zap.NewNop().Sugar())

	if err := store.Load(context.Background(), "resource_a"); err == nil {
		t.Fatal("Load: expected error")
	}

	tok, status, loadErr := store.Snapshot()
	if tok != nil {
		t.Errorf("failed load retained a token: %v", tok)
	}
	if status != StatusFailed {
		t.Errorf("status = %s, want failed", status)
	}
	if loadErr == nil {
		t.Error("no load error recorded")
	}
}

// TestStoreFailureThenSuccess tests retry via the identifier-change path.
func TestStoreFailureThenSuccess(t *testing.T) {
	p := &stubProvider{err: fmt.Errorf("gateway down")}
	store := NewTokenStore(p, zap.NewNop().Sugar())
	ctx := context.Background()

	_ = store.Load(ctx, "resource_a")

	p.err = nil
	p.tokens = map[string]*core.Token{"resource_a": testToken("resource_a", "AAA")}
	if err := store.Load(ctx, "resource_a"); err != nil {
		t.Fatalf("second load: %v", err)
	}

	tok, status, _ := store.Snapshot()
	if status != StatusReady || tok == nil || tok.Symbol != "AAA" {
		t.Errorf("after retry: token=%v status=%s, want AAA ready", tok, status)
	}
}
