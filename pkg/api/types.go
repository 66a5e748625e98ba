package api

import "github.com/dexteronradix/stonks/pkg/app/curve"

// API request/response types for REST endpoints and WebSocket messages

// ==============================
// REST Types
// ==============================

// TokenInfo is a token snapshot as served to the frontend. Numeric metrics
// are decimal strings; they are never round-tripped through floats.
type TokenInfo struct {
	Address          string `json:"address"`
	ShortAddress     string `json:"shortAddress"` // for display next to "Created by"
	Name             string `json:"name"`
	Symbol           string `json:"symbol"`
	Description      string `json:"description"`
	IconURL          string `json:"iconUrl"`
	ComponentAddress string `json:"componentAddress"`
	LastPrice        string `json:"lastPrice"`
	Supply           string `json:"supply"`
	Available        string `json:"available"`
	ReadyToDexter    string `json:"readyToDexter"` // progress to DEX listing, 0..100
	FetchedAt        int64  `json:"fetchedAt"`     // unix milliseconds
}

// OpenSessionRequest is the payload for POST /api/v1/sessions
type OpenSessionRequest struct {
	TokenAddress   string `json:"tokenAddress"`
	AccountAddress string `json:"accountAddress,omitempty"` // empty until a wallet account is connected
}

// OpenSessionResponse returns the view's session handle
type OpenSessionResponse struct {
	SessionID string `json:"sessionId"`
}

// SessionView is the full view-facing state of one trading session
type SessionView struct {
	SessionID   string          `json:"sessionId"`
	TokenStatus string          `json:"tokenStatus"` // "loading", "ready", "failed"
	TokenError  string          `json:"tokenError,omitempty"`
	Token       *TokenInfo      `json:"token,omitempty"`
	Form        curve.FormView  `json:"form"`
	LastResult  *SubmitResponse `json:"lastResult,omitempty"`
}

// SetSideRequest is the payload for POST /api/v1/sessions/{id}/side
type SetSideRequest struct {
	Side string `json:"side"` // "BUY" or "SELL"
}

// AmountRequest is the payload for POST /api/v1/sessions/{id}/amount
type AmountRequest struct {
	Input string `json:"input"` // raw text as typed
}

// AmountResponse echoes the accepted state of the amount input. When the
// input was rejected, Input holds the previously accepted text so the
// frontend can restore it (drop-the-keystroke policy).
type AmountResponse struct {
	Accepted bool   `json:"accepted"`
	Input    string `json:"input"`
}

// SubmitRequest is the payload for POST /api/v1/sessions/{id}/submit.
// Side is optional; it defaults to the session's active side.
type SubmitRequest struct {
	Side string `json:"side,omitempty"`
}

// SubmitResponse is the tagged outcome of one submission attempt
type SubmitResponse struct {
	OK          bool   `json:"ok"`
	Side        string `json:"side"`
	Amount      string `json:"amount"`
	IntentHash  string `json:"transactionIntentHash,omitempty"`
	Reason      string `json:"reason,omitempty"`
	SubmittedAt int64  `json:"submittedAt"`
}

// TradeRecordInfo is one journal entry for GET /api/v1/trades/recent
type TradeRecordInfo struct {
	ManifestHash string `json:"manifestHash"`
	TokenAddress string `json:"tokenAddress"`
	Side         string `json:"side"`
	Amount       string `json:"amount"`
	OK           bool   `json:"ok"`
	IntentHash   string `json:"transactionIntentHash,omitempty"`
	Reason       string `json:"reason,omitempty"`
	SubmittedAt  int64  `json:"submittedAt"`
}

// ErrorResponse is returned for all errors
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ==============================
// WebSocket Message Types
// ==============================

// WSSubscribeRequest is sent by the client to manage channel subscriptions,
// e.g. {"op":"subscribe","channels":["token:resource_tdx_..."]}
type WSSubscribeRequest struct {
	Op       string   `json:"op"` // "subscribe" or "unsubscribe"
	Channels []string `json:"channels"`
}

// TokenUpdate is broadcast on the "token:<address>" channel whenever a
// session's background refresh lands a fresh snapshot
type TokenUpdate struct {
	Type      string    `json:"type"` // "token"
	Token     TokenInfo `json:"token"`
	Timestamp int64     `json:"timestamp"`
}
