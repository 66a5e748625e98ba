package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dexteronradix/stonks/pkg/app/core"
)

func serveBridge(t *testing.T, handler http.HandlerFunc) *BridgeConnector {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewBridgeConnector(srv.URL)
	if err != nil {
		t.Fatalf("new connector: %v", err)
	}
	return c
}

// TestSendTransactionApproved tests the approval path: the manifest goes
// out verbatim and the intent hash comes back.
func TestSendTransactionApproved(t *testing.T) {
	var gotManifest string
	c := serveBridge(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/transactions" {
			http.NotFound(w, r)
			return
		}
		var req sendTransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode bridge request: %v", err)
		}
		gotManifest = req.TransactionManifest
		json.NewEncoder(w).Encode(sendTransactionResponse{TransactionIntentHash: "txid_ok"})
	})

	res, err := c.SendTransaction(context.Background(), "CALL_METHOD ...")
	if err != nil {
		t.Fatalf("SendTransaction: %v", err)
	}
	if res.TransactionIntentHash != "txid_ok" {
		t.Errorf("intent hash = %q, want txid_ok", res.TransactionIntentHash)
	}
	if gotManifest != "CALL_METHOD ..." {
		t.Errorf("bridge received manifest %q", gotManifest)
	}
}

// TestSendTransactionDeclined tests that a wallet decline surfaces as a
// RejectedError carrying the wallet's reason verbatim.
func TestSendTransactionDeclined(t *testing.T) {
	c := serveBridge(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(sendTransactionResponse{
			Error:   "rejectedByUser",
			Message: "user declined the request",
		})
	})

	_, err := c.SendTransaction(context.Background(), "m")
	var rejected *core.RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("decline: got %T (%v), want *core.RejectedError", err, err)
	}
	if rejected.Reason != "rejectedByUser: user declined the request" {
		t.Errorf("reason = %q", rejected.Reason)
	}
}

// TestSendTransactionBridgeDown tests that a transport failure is also a
// rejection; the trade did not go through either way.
func TestSendTransactionBridgeDown(t *testing.T) {
	c, err := NewBridgeConnector("http://127.0.0.1:1")
	if err != nil {
		t.Fatalf("new connector: %v", err)
	}

	_, err = c.SendTransaction(context.Background(), "m")
	var rejected *core.RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("transport failure: got %T (%v), want *core.RejectedError", err, err)
	}
}

// TestSendTransactionMissingHash tests that a 200 without an intent hash
// is treated as a failure, not a silent success.
func TestSendTransactionMissingHash(t *testing.T) {
	c := serveBridge(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(sendTransactionResponse{})
	})

	if _, err := c.SendTransaction(context.Background(), "m"); err == nil {
		t.Fatal("empty bridge response: expected error")
	}
}

// TestNewBridgeConnectorRequiresURL tests that an empty relay URL means no
// wallet, signalled with the sentinel.
func TestNewBridgeConnectorRequiresURL(t *testing.T) {
	if _, err := NewBridgeConnector(""); !errors.Is(err, core.ErrWalletUnavailable) {
		t.Fatalf("NewBridgeConnector(\"\"): got %v, want ErrWalletUnavailable", err)
	}
}
