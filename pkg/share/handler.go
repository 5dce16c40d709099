package share

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type ShareDTO struct {
	ID       string          `json:"id"`
	ItemID   string          `json:"itemId,omitempty"`
	FellowID string          `json:"fellowId,omitempty"`
	Amount   decimal.Decimal `json:"amount"`
	DueDate  time.Time       `json:"dueDate"`
	Paid     bool            `json:"paid"`
	PaidAt   *time.Time      `json:"paidAt,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	h.togglePaid(w, r, true)
}

func (h *Handler) MarkUnpaid(w http.ResponseWriter, r *http.Request) {
	h.togglePaid(w, r, false)
}

func (h *Handler) togglePaid(w http.ResponseWriter, r *http.Request, paid bool) {
	log.Debugf("Toggling share paid status to %t", paid)
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)

	updated, err := h.service.TogglePaid(r.Context(), vars["id"], paid)
	if errors.Is(err, ErrShareNotFound) {
		http.Error(w, "Share not found", http.StatusNotFound)
		return
	} else if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(shareToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	shares, err := h.service.ListMine(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeShares(w, shares)
}

func (h *Handler) ListForItem(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)

	shares, err := h.service.ListForItem(r.Context(), vars["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeShares(w, shares)
}

func (h *Handler) ListForFellow(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)

	shares, err := h.service.ListForFellow(r.Context(), vars["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeShares(w, shares)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	err := h.service.Delete(r.Context(), vars["id"])
	if errors.Is(err, ErrShareNotFound) {
		http.Error(w, "Share not found", http.StatusNotFound)
		return
	} else if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeShares(w http.ResponseWriter, shares []Share) {
	dtos := make([]ShareDTO, 0, len(shares))
	for _, s := range shares {
		dtos = append(dtos, shareToDTO(s))
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func shareToDTO(s Share) ShareDTO {
	dto := ShareDTO{
		ID:      s.ID,
		Amount:  s.Amount,
		DueDate: s.DueDate,
		Paid:    s.Paid,
		PaidAt:  s.PaidAt,
	}
	switch s.Parent.Kind {
	case ParentItem:
		dto.ItemID = s.Parent.ID
	case ParentFellow:
		dto.FellowID = s.Parent.ID
	}
	return dto
}
