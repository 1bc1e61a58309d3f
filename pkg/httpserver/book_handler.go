package httpserver

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/mselser95/arbcore/internal/book"
	"github.com/mselser95/arbcore/internal/registry"
)

// BookHandler serves a debug snapshot of a single token's order book.
type BookHandler struct {
	cache    *book.Cache
	registry *registry.Registry
	logger   *zap.Logger
}

// NewBookHandler creates a new book handler.
func NewBookHandler(cache *book.Cache, reg *registry.Registry, logger *zap.Logger) *BookHandler {
	return &BookHandler{
		cache:    cache,
		registry: reg,
		logger:   logger,
	}
}

// BookResponse is the JSON shape returned by GET /api/book.
type BookResponse struct {
	TokenID    string             `json:"token_id"`
	MarketID   string             `json:"market_id"`
	Question   string             `json:"question"`
	Bids       map[string]float64 `json:"bids"`
	Asks       map[string]float64 `json:"asks"`
	BestBid    float64            `json:"best_bid_price"`
	BestBidQty float64            `json:"best_bid_size"`
	BestAsk    float64            `json:"best_ask_price"`
	BestAskQty float64            `json:"best_ask_size"`
	AgeSeconds float64            `json:"age_seconds"`
}

// ErrorResponse represents an HTTP error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HandleBook handles GET /api/book?token=<token-id> requests.
func (h *BookHandler) HandleBook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tokenID := r.URL.Query().Get("token")
	if tokenID == "" {
		h.writeError(w, "missing required query parameter: token", http.StatusBadRequest)
		return
	}

	h.logger.Debug("book-request-received", zap.String("token-id", tokenID))

	bids, asks, ok := h.cache.GetBook(tokenID)
	if !ok {
		h.writeError(w, "order book not available for token", http.StatusNotFound)
		return
	}

	bestBid, bestBidQty, _ := h.cache.BestBid(tokenID)
	bestAsk, bestAskQty, _ := h.cache.BestAsk(tokenID)
	age, _ := h.cache.AgeSeconds(tokenID)

	response := BookResponse{
		TokenID:    tokenID,
		Bids:       bids,
		Asks:       asks,
		BestBid:    bestBid,
		BestBidQty: bestBidQty,
		BestAsk:    bestAsk,
		BestAskQty: bestAskQty,
		AgeSeconds: age,
	}

	if market := h.registry.GetMarket(tokenID); market != nil {
		response.MarketID = market.ID
		response.Question = market.Question
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("failed-to-encode-response", zap.Error(err))
	}
}

// writeError writes a JSON error response.
func (h *BookHandler) writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{Error: message}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("failed-to-encode-error-response", zap.Error(err))
	}
}
