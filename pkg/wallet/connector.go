// Package wallet brokers transaction submission through the user's Radix
// wallet. The connector's presence is environment-dependent: it must be
// probed, not assumed, and an absent connector fails predictably.
package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dexteronradix/stonks/pkg/app/core"
)

// SendResult is the wallet's success payload. The intent hash is the
// caller's handle for tracking settlement.
type SendResult struct {
	TransactionIntentHash string `json:"transactionIntentHash"`
}

// Connector submits a transaction manifest to the user's wallet for signing
// and broadcast. The call may suspend for an unbounded, human-dependent
// duration (the wallet prompts the user), so it takes a context; callers
// may cancel, but the connector never retries on its own.
//
// A connector-reported failure is returned as *core.RejectedError carrying
// the wallet's reason verbatim.
type Connector interface {
	SendTransaction(ctx context.Context, manifest string) (SendResult, error)
}

// BridgeConnector talks to a Radix Connect bridge relay over HTTP. The
// relay forwards the manifest to the paired wallet and blocks until the
// user approves or declines.
type BridgeConnector struct {
	baseURL string
	client  *http.Client
}

// NewBridgeConnector builds a connector for the given relay URL. The client
// carries no timeout: approval latency is bounded by the human, not the
// network; cancellation comes from the request context.
func NewBridgeConnector(baseURL string) (*BridgeConnector, error) {
	if baseURL == "" {
		return nil, core.ErrWalletUnavailable
	}
	return &BridgeConnector{
		baseURL: baseURL,
		client:  &http.Client{},
	}, nil
}

type sendTransactionRequest struct {
	TransactionManifest string `json:"transactionManifest"`
	Version             int    `json:"version"`
}

type sendTransactionResponse struct {
	TransactionIntentHash string `json:"transactionIntentHash,omitempty"`
	Error                 string `json:"error,omitempty"`
	Message               string `json:"message,omitempty"`
}

// SendTransaction posts the manifest to the bridge and interprets the
// outcome. Transport failures and wallet declines both surface as
// *core.RejectedError: either way the trade did not go through and must be
// re-initiated by the user.
func (c *BridgeConnector) SendTransaction(ctx context.Context, manifest string) (SendResult, error) {
	body, err := json.Marshal(sendTransactionRequest{
		TransactionManifest: manifest,
		Version:             1,
	})
	if err != nil {
		return SendResult{}, fmt.Errorf("encode send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/transactions", bytes.NewReader(body))
	if err != nil {
		return SendResult{}, fmt.Errorf("build send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return SendResult{}, &core.RejectedError{Reason: err.Error()}
	}
	defer resp.Body.Close()

	var out sendTransactionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return SendResult{}, &core.RejectedError{Reason: fmt.Sprintf("malformed bridge response: %v", err)}
	}

	if resp.StatusCode != http.StatusOK || out.Error != "" {
		reason := out.Error
		if out.Message != "" {
			reason = fmt.Sprintf("%s: %s", out.Error, out.Message)
		}
		if reason == "" {
			reason = fmt.Sprintf("bridge returned status %d", resp.StatusCode)
		}
		return SendResult{}, &core.RejectedError{Reason: reason}
	}

	if out.TransactionIntentHash == "" {
		return SendResult{}, &core.RejectedError{Reason: "bridge response missing transaction intent hash"}
	}

	return SendResult{TransactionIntentHash: out.TransactionIntentHash}, nil
}
