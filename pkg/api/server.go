package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/dexteronradix/stonks/params"
	"github.com/dexteronradix/stonks/pkg/app/core"
	"github.com/dexteronradix/stonks/pkg/app/curve"
	"github.com/dexteronradix/stonks/pkg/storage"
)

// Server exposes the trading core to the frontend: REST for token data and
// session actions, WebSocket for pushed token updates.
type Server struct {
	app    *curve.App
	cfg    params.Server
	router *mux.Router
	hub    *Hub
}

func NewServer(app *curve.App, cfg params.Server) *Server {
	s := &Server{
		app:    app,
		cfg:    cfg,
		router: mux.NewRouter(),
		hub:    NewHub(),
	}

	// Fresh snapshots from the background refresher go out per-token.
	app.SetUpdateHandler(s.BroadcastToken)

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	// Token data
	api.HandleFunc("/tokens", s.handleListTokens).Methods("GET")
	api.HandleFunc("/tokens/{address}", s.handleGetToken).Methods("GET")

	// Trading sessions (one per open trading view)
	api.HandleFunc("/sessions", s.handleOpenSession).Methods("POST")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleCloseSession).Methods("DELETE")
	api.HandleFunc("/sessions/{id}/side", s.handleSetSide).Methods("POST")
	api.HandleFunc("/sessions/{id}/amount", s.handleEnterAmount).Methods("POST")
	api.HandleFunc("/sessions/{id}/submit", s.handleSubmit).Methods("POST")

	// Trade journal
	api.HandleFunc("/trades/recent", s.handleRecentTrades).Methods("GET")

	// WebSocket endpoint
	s.router.HandleFunc("/ws", s.handleWebSocket)

	// Health check
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Handler returns the router without the CORS wrapper, for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start starts the API server
func (s *Server) Start(addr string) error {
	go s.hub.Run()

	c := cors.New(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	handler := c.Handler(s.router)

	log.Printf("[api] server starting on %s", addr)
	return http.ListenAndServe(addr, handler)
}

// ==============================
// REST Handlers
// ==============================

func (s *Server) handleListTokens(w http.ResponseWriter, r *http.Request) {
	tokens, err := s.app.ListTokens(r.Context())
	if err != nil {
		respondError(w, http.StatusBadGateway, "token data unavailable", err.Error())
		return
	}

	response := make([]TokenInfo, len(tokens))
	for i, tok := range tokens {
		response[i] = tokenInfo(tok)
	}
	respondJSON(w, response)
}

func (s *Server) handleGetToken(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	address := vars["address"]

	tok, err := s.app.Token(r.Context(), address)
	if err != nil {
		respondError(w, http.StatusNotFound, "token not found", err.Error())
		return
	}

	response := tokenInfo(tok)
	respondJSON(w, response)
}

func (s *Server) handleOpenSession(w http.ResponseWriter, r *http.Request) {
	var req OpenSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.TokenAddress == "" {
		respondError(w, http.StatusBadRequest, "missing tokenAddress", "")
		return
	}

	// The session outlives this request; its initial token load must not
	// be cancelled when the request context closes.
	sess, err := s.app.OpenSession(context.WithoutCancel(r.Context()), req.TokenAddress, req.AccountAddress)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to open session", err.Error())
		return
	}

	respondJSON(w, OpenSessionResponse{SessionID: sess.ID()})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	view := SessionView{
		SessionID: sess.ID(),
		Form:      sess.Form(),
	}

	tok, status, loadErr := sess.Token()
	view.TokenStatus = status.String()
	if loadErr != nil {
		view.TokenError = loadErr.Error()
	}
	if tok != nil {
		info := tokenInfo(tok)
		view.Token = &info
	}
	if last := sess.LastResult(); last != nil {
		resp := submitResponse(last)
		view.LastResult = &resp
	}

	respondJSON(w, view)
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	s.app.CloseSession(vars["id"])
	respondJSON(w, map[string]string{"status": "closed"})
}

func (s *Server) handleSetSide(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req SetSideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	side, err := core.ParseOrderSide(req.Side)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid side", err.Error())
		return
	}

	sess.SetSide(side)
	respondJSON(w, sess.Form())
}

func (s *Server) handleEnterAmount(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	accepted := true
	if err := sess.EnterAmount(req.Input); err != nil {
		// Keystroke rejected: report the kept text so the frontend can
		// restore it (drop-the-keystroke policy) and show a notice.
		accepted = false
	}

	form := sess.Form()
	input := form.BuyInput
	if form.Side == core.Sell.String() {
		input = form.SellInput
	}

	if !accepted {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(AmountResponse{Accepted: false, Input: input})
		return
	}
	respondJSON(w, AmountResponse{Accepted: true, Input: input})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req SubmitRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req) // empty body means active side
	}

	side := sess.Side()
	if req.Side != "" {
		parsed, err := core.ParseOrderSide(req.Side)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid side", err.Error())
			return
		}
		side = parsed
	}

	result, err := sess.Submit(r.Context(), side)
	if err != nil {
		var cfgErr *core.ConfigError
		switch {
		case errors.Is(err, core.ErrWalletUnavailable):
			respondError(w, http.StatusConflict, "wallet_not_connected", "connect a Radix wallet to trade")
		case errors.As(err, &cfgErr):
			respondError(w, http.StatusUnprocessableEntity, "cannot_trade", cfgErr.Error())
		default:
			respondError(w, http.StatusInternalServerError, "submit failed", err.Error())
		}
		return
	}

	log.Printf("[api] trade submitted: session=%s side=%s ok=%v", sess.ID(), side, result.OK)
	respondJSON(w, submitResponse(result))
}

func (s *Server) handleRecentTrades(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	records, err := s.app.RecentTrades(limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "journal unavailable", err.Error())
		return
	}

	response := make([]TradeRecordInfo, len(records))
	for i, rec := range records {
		response[i] = tradeRecordInfo(rec)
	}
	respondJSON(w, response)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "ok"})
}

// ==============================
// Broadcast
// ==============================

// BroadcastToken pushes a fresh token snapshot to subscribed clients
func (s *Server) BroadcastToken(tok *core.Token) {
	update := TokenUpdate{
		Type:      "token",
		Token:     tokenInfo(tok),
		Timestamp: time.Now().UnixMilli(),
	}
	s.hub.BroadcastToChannel("token:"+tok.Address, update)
}

// ==============================
// Helpers
// ==============================

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*curve.Session, bool) {
	vars := mux.Vars(r)
	sess, ok := s.app.Session(vars["id"])
	if !ok {
		respondError(w, http.StatusNotFound, "session not found", "")
		return nil, false
	}
	return sess, true
}

func tokenInfo(tok *core.Token) TokenInfo {
	return TokenInfo{
		Address:          tok.Address,
		ShortAddress:     core.ShortenAddress(tok.Address),
		Name:             tok.Name,
		Symbol:           tok.Symbol,
		Description:      tok.Description,
		IconURL:          tok.IconURL,
		ComponentAddress: tok.ComponentAddress,
		LastPrice:        tok.LastPrice.String(),
		Supply:           tok.Supply.String(),
		Available:        tok.Available.String(),
		ReadyToDexter:    tok.ReadyToDexter.String(),
		FetchedAt:        tok.FetchedAt,
	}
}

func submitResponse(result *curve.TradeResult) SubmitResponse {
	return SubmitResponse{
		OK:          result.OK,
		Side:        result.Side.String(),
		Amount:      result.Amount,
		IntentHash:  result.IntentHash,
		Reason:      result.Reason,
		SubmittedAt: result.SubmittedAt,
	}
}

func tradeRecordInfo(rec *storage.TradeRecord) TradeRecordInfo {
	return TradeRecordInfo{
		ManifestHash: rec.ManifestHash,
		TokenAddress: rec.TokenAddress,
		Side:         rec.Side,
		Amount:       rec.Amount,
		OK:           rec.OK,
		IntentHash:   rec.IntentHash,
		Reason:       rec.Reason,
		SubmittedAt:  rec.SubmittedAt,
	}
}

func respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, error string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Message: message,
	})
}
