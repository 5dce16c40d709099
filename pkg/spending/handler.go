package spending

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type SpendingDTO struct {
	ID      string          `json:"id,omitempty"`
	Name    string          `json:"name"`
	Amount  decimal.Decimal `json:"amount"`
	Cadence string          `json:"cadence,omitempty"`
	StartIn *time.Time      `json:"startIn,omitempty"`
	Status  string          `json:"status,omitempty"`
}

type SpendingPatchDTO struct {
	Name    *string          `json:"name"`
	Amount  *decimal.Decimal `json:"amount"`
	Cadence *string          `json:"cadence"`
	StartIn *time.Time       `json:"startIn"`
	Status  *string          `json:"status"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) CreateSpending(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new spending")
	w.Header().Set("Content-Type", "application/json")

	var dto SpendingDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.Create(r.Context(), dtoToSpending(dto))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(spendingToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) GetSpending(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	vars := mux.Vars(r)
	spending, err := h.service.Get(r.Context(), vars["id"])
	if errors.Is(err, ErrSpendingNotFound) {
		http.Error(w, "Spending not found", http.StatusNotFound)
		return
	} else if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(spendingToDTO(spending)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) ListSpendings(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	spendings, err := h.service.ListMine(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]SpendingDTO, 0, len(spendings))
	for _, spending := range spendings {
		dtos = append(dtos, spendingToDTO(spending))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) UpdateSpending(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto SpendingPatchDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	patch := Patch{
		Name:    dto.Name,
		Amount:  dto.Amount,
		StartIn: dto.StartIn,
	}
	if dto.Cadence != nil {
		cadence := Cadence(*dto.Cadence)
		patch.Cadence = &cadence
	}
	if dto.Status != nil {
		status := Status(*dto.Status)
		patch.Status = &status
	}

	vars := mux.Vars(r)
	updated, err := h.service.Update(r.Context(), vars["id"], patch)
	if errors.Is(err, ErrSpendingNotFound) {
		http.Error(w, "Spending not found", http.StatusNotFound)
		return
	} else if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(spendingToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) DeleteSpending(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	err := h.service.Delete(r.Context(), vars["id"])
	if errors.Is(err, ErrSpendingNotFound) {
		http.Error(w, "Spending not found", http.StatusNotFound)
		return
	} else if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func spendingToDTO(spending Spending) SpendingDTO {
	dto := SpendingDTO{
		ID:      spending.ID,
		Name:    spending.Name,
		Amount:  spending.Amount,
		Cadence: string(spending.Cadence),
		Status:  string(spending.Status),
	}
	if !spending.StartIn.IsZero() {
		dto.StartIn = &spending.StartIn
	}
	return dto
}

func dtoToSpending(dto SpendingDTO) Spending {
	spending := Spending{
		ID:      dto.ID,
		Name:    dto.Name,
		Amount:  dto.Amount,
		Cadence: Cadence(dto.Cadence),
		Status:  Status(dto.Status),
	}
	if dto.StartIn != nil {
		spending.StartIn = *dto.StartIn
	}
	return spending
}
