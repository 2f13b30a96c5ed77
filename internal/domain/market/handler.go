package market

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"critter-market/internal/domain/creatures"
	"critter-market/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/market", func(mr chi.Router) {
		mr.Get("/listings", listingsHandler(svc))
		mr.Put("/creatures/{creatureID}/price", setPriceHandler(svc))
		mr.Post("/creatures/{creatureID}/buy", buyHandler(svc))
	})
}

type setPriceRequest struct {
	// null o ausente = retirar de la venta
	Price *uint64 `json:"price"`
}

type buyRequest struct {
	Bid uint64 `json:"bid"`
}

type listingResponse struct {
	ID     string           `json:"id"`
	Owner  string           `json:"owner"`
	DNA    string           `json:"dna"`
	Gender creatures.Gender `json:"gender"`
	Price  uint64           `json:"price"`
}

func setPriceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.AccountID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req setPriceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		id := chi.URLParam(r, "creatureID")
		if err := svc.SetPrice(r.Context(), claims.AccountID, id, req.Price); err != nil {
			writeMarketError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func buyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.AccountID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req buyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		id := chi.URLParam(r, "creatureID")
		c, err := svc.Buy(r.Context(), claims.AccountID, id, req.Bid)
		if err != nil {
			writeMarketError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"id":    c.ID,
			"owner": c.Owner,
		})
	}
}

func listingsHandler(svc *Service) http.HandlerFunc {
	// Consulta pública.
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Listings(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]listingResponse, 0, len(items))
		for _, c := range items {
			if c.Price == nil {
				continue
			}
			out = append(out, listingResponse{
				ID:     c.ID,
				Owner:  c.Owner,
				DNA:    c.DNA.Hex(),
				Gender: c.Gender,
				Price:  *c.Price,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func writeMarketError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, creatures.ErrAssetNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, creatures.ErrNotOwner):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrBuyerIsOwner), errors.Is(err, creatures.ErrExceedMaxOwned):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrNotForSale), errors.Is(err, ErrBidTooLow), errors.Is(err, ErrInvalidInput), errors.Is(err, creatures.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrInsufficientBalance), errors.Is(err, creatures.ErrInsufficientStake):
		http.Error(w, err.Error(), http.StatusPaymentRequired)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// writeJSON duplicado a propósito (ver nota en creatures/handler.go).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
