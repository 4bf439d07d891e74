// Package api exposes a TradingPlatform as a small JSON service:
// per-operation routes over a single locked platform instance, errors
// mapped to status codes, malformed bodies and wrong methods handled
// uniformly.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tradingplatform/internal/accounts"
	"tradingplatform/internal/matching"
	"tradingplatform/internal/metrics"
	"tradingplatform/internal/platform"
)

// Server is the HTTP front end over a locked TradingPlatform.
type Server struct {
	platform  *platform.LockedPlatform
	metrics   *metrics.Metrics
	startTime time.Time
	logger    zerolog.Logger
}

// New creates a Server bound to the given platform and metrics instance.
func New(p *platform.LockedPlatform, m *metrics.Metrics) *Server {
	return &Server{
		platform:  p,
		metrics:   m,
		startTime: time.Now(),
		logger:    log.With().Str("component", "api").Logger(),
	}
}

// Handler returns the fully wired http.Handler for this server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /account", s.handleBalance)
	mux.HandleFunc("POST /account/deposit", s.handleDeposit)
	mux.HandleFunc("POST /account/withdraw", s.handleWithdraw)
	mux.HandleFunc("POST /account/send", s.handleSend)
	mux.HandleFunc("POST /order", s.handleOrder)
	mux.HandleFunc("GET /order/history", s.handleHistory)
	mux.HandleFunc("GET /orderbook", s.handleOrderbook)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())

	return withRequestID(mux)
}

// --- request/response shapes ---

type balanceRequest struct {
	Signer string `json:"signer"`
}

type accountUpdateRequest struct {
	Signer string `json:"signer"`
	Amount uint64 `json:"amount"`
}

type sendRequest struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount"`
}

type healthResponse struct {
	Status          string `json:"status"`
	UptimeSeconds   int64  `json:"uptime_seconds"`
	OrdersProcessed int64  `json:"orders_processed"`
}

// --- handlers ---

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	var req balanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	balance, err := s.platform.BalanceOf(req.Signer)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req accountUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tx, err := s.platform.Deposit(req.Signer, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	s.metrics.RecordTx(1)
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	var req accountUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tx, err := s.platform.Withdraw(req.Signer, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	s.metrics.RecordTx(1)
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	withdrawal, deposit, err := s.platform.Send(req.Sender, req.Recipient, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	s.metrics.RecordTx(2)
	writeJSON(w, http.StatusOK, [2]accounts.Tx{withdrawal, deposit})
}

func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	var order matching.Order
	if !decodeJSON(w, r, &order) {
		return
	}

	start := time.Now()
	receipt, err := s.platform.Order(order)
	if err != nil {
		s.metrics.RecordRejected()
		writeError(w, err)
		return
	}

	s.metrics.RecordAccepted(len(receipt.Matches), time.Since(start))
	s.metrics.RecordTx(2 * len(receipt.Matches))
	writeJSON(w, http.StatusOK, receipt)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.platform.History())
}

func (s *Server) handleOrderbook(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.platform.Orderbook())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:          "healthy",
		UptimeSeconds:   int64(time.Since(s.startTime).Seconds()),
		OrdersProcessed: s.metrics.OrdersReceived.Load(),
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- helpers ---

type errorMessage struct {
	Code    uint16 `json:"code"`
	Message string `json:"message"`
}

// decodeJSON decodes r's body into v, writing a 400 BAD_REQUEST response
// and returning false on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorMessage{Code: http.StatusBadRequest, Message: "BAD_REQUEST"})
		return false
	}
	return true
}

// writeError maps a domain error to a status code via errors.As, never by
// string comparison.
func writeError(w http.ResponseWriter, err error) {
	var notFound *accounts.NotFoundError
	var overFunded *accounts.OverFundedError
	var underFunded *accounts.UnderFundedError

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.As(err, &overFunded):
		status = http.StatusInternalServerError
	case errors.As(err, &underFunded):
		status = http.StatusInternalServerError
	case errors.Is(err, platform.ErrInvalidOrder):
		status = http.StatusBadRequest
	}

	writeJSON(w, status, errorMessage{Code: uint16(status), Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// withRequestID assigns each request an id and logs it in a single
// structured line per request, after the handler returns. The id is not
// sent back in the response.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		start := time.Now()

		next.ServeHTTP(w, r)

		log.Debug().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("handled request")
	})
}
