package creatures

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"critter-market/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/creatures", func(cr chi.Router) {
		cr.Post("/", mintHandler(svc))
		cr.Get("/", listOwnedHandler(svc))
		cr.Get("/count", countHandler(svc))
		cr.Post("/breed", breedHandler(svc))

		cr.Get("/{creatureID}", getHandler(svc))
		cr.Get("/{creatureID}/owner", ownerHandler(svc))
		cr.Post("/{creatureID}/transfer", transferHandler(svc))
	})
}

type creatureResponse struct {
	ID      string  `json:"id"`
	Owner   string  `json:"owner"`
	DNA     string  `json:"dna"` // hex de 32 caracteres
	Gender  Gender  `json:"gender"`
	Price   *uint64 `json:"price,omitempty"`
	ForSale bool    `json:"for_sale"`
}

type breedRequest struct {
	Parent1 string `json:"parent1"`
	Parent2 string `json:"parent2"`
}

type transferRequest struct {
	To string `json:"to"`
}

func mintHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.AccountID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		c, err := svc.Mint(r.Context(), claims.AccountID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toCreatureResponse(c))
	}
}

func breedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.AccountID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req breedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		c, err := svc.Breed(r.Context(), claims.AccountID, req.Parent1, req.Parent2)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toCreatureResponse(c))
	}
}

func transferHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.AccountID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id := chi.URLParam(r, "creatureID")

		var req transferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		if err := svc.Transfer(r.Context(), claims.AccountID, strings.TrimSpace(req.To), id); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func listOwnedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.AccountID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.OwnedBy(r.Context(), claims.AccountID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]creatureResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toCreatureResponse(c))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getHandler(svc *Service) http.HandlerFunc {
	// Consulta pública: no exige claims.
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.Get(r.Context(), chi.URLParam(r, "creatureID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toCreatureResponse(c))
	}
}

func ownerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := svc.OwnerOf(r.Context(), chi.URLParam(r, "creatureID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"owner": owner})
	}
}

func countHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := svc.TotalCount(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]uint64{"count": n})
	}
}

func toCreatureResponse(c Creature) creatureResponse {
	return creatureResponse{
		ID:      c.ID,
		Owner:   c.Owner,
		DNA:     c.DNA.Hex(),
		Gender:  c.Gender,
		Price:   c.Price,
		ForSale: c.ForSale(),
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrAssetNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrNotOwner):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrSameParentID), errors.Is(err, ErrTransferToSelf):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrExceedMaxOwned), errors.Is(err, ErrCountOverflow):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrInsufficientStake):
		http.Error(w, err.Error(), http.StatusPaymentRequired)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// writeJSON está duplicado a propósito en los handlers de cada módulo
// (creatures/market); recién vale la pena extraerlo si aparece un tercero.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
