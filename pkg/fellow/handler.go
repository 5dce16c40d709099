package fellow

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/aqsaat/aqsaat/pkg/schedule"
	"github.com/aqsaat/aqsaat/pkg/share"
)

type FellowDTO struct {
	ID            string          `json:"id,omitempty"`
	Manager       string          `json:"manager"`
	Amount        decimal.Decimal `json:"amount"`
	Months        int             `json:"numberOfMonths"`
	MonthlyAmount decimal.Decimal `json:"monthlyAmount"`
	TurnMonth     *time.Time      `json:"turnMonth,omitempty"`
	StartIn       *time.Time      `json:"startIn,omitempty"`
	EndIn         *time.Time      `json:"endIn,omitempty"`
	Status        string          `json:"status,omitempty"`
}

// FellowPatchDTO mirrors Patch: absent fields leave the stored value
// alone.
type FellowPatchDTO struct {
	Manager   *string          `json:"manager"`
	Amount    *decimal.Decimal `json:"amount"`
	Months    *int             `json:"numberOfMonths"`
	TurnMonth *time.Time       `json:"turnMonth"`
	StartIn   *time.Time       `json:"startIn"`
	Status    *string          `json:"status"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) CreateFellow(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new fellow")
	w.Header().Set("Content-Type", "application/json")

	var dto FellowDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.Create(r.Context(), dtoToFellow(dto))
	if errors.Is(err, schedule.ErrInvalidSchedule) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	} else if errors.Is(err, share.ErrReconciliationFailed) {
		http.Error(w, "Could not materialize contribution schedule", http.StatusInternalServerError)
		return
	} else if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(fellowToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) GetFellow(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	vars := mux.Vars(r)
	fellow, err := h.service.Get(r.Context(), vars["id"])
	if errors.Is(err, ErrFellowNotFound) {
		http.Error(w, "Fellow not found", http.StatusNotFound)
		return
	} else if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(fellowToDTO(fellow)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) ListFellows(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	fellows, err := h.service.ListMine(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]FellowDTO, 0, len(fellows))
	for _, fellow := range fellows {
		dtos = append(dtos, fellowToDTO(fellow))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) UpdateFellow(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto FellowPatchDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	patch := Patch{
		Manager:   dto.Manager,
		Amount:    dto.Amount,
		Months:    dto.Months,
		TurnMonth: dto.TurnMonth,
		StartIn:   dto.StartIn,
	}
	if dto.Status != nil {
		status := Status(*dto.Status)
		patch.Status = &status
	}

	vars := mux.Vars(r)
	updated, err := h.service.Update(r.Context(), vars["id"], patch)
	if errors.Is(err, ErrFellowNotFound) {
		http.Error(w, "Fellow not found", http.StatusNotFound)
		return
	} else if errors.Is(err, schedule.ErrInvalidSchedule) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	} else if errors.Is(err, share.ErrReconciliationFailed) {
		http.Error(w, "Could not replace contribution schedule", http.StatusInternalServerError)
		return
	} else if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(fellowToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) DeleteFellow(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	err := h.service.Delete(r.Context(), vars["id"])
	if errors.Is(err, ErrFellowNotFound) {
		http.Error(w, "Fellow not found", http.StatusNotFound)
		return
	} else if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func fellowToDTO(fellow Fellow) FellowDTO {
	dto := FellowDTO{
		ID:            fellow.ID,
		Manager:       fellow.Manager,
		Amount:        fellow.Amount,
		Months:        fellow.Months,
		MonthlyAmount: fellow.MonthlyAmount,
		Status:        string(fellow.Status),
	}
	if !fellow.TurnMonth.IsZero() {
		dto.TurnMonth = &fellow.TurnMonth
	}
	if !fellow.StartIn.IsZero() {
		dto.StartIn = &fellow.StartIn
	}
	if !fellow.EndIn.IsZero() {
		dto.EndIn = &fellow.EndIn
	}
	return dto
}

func dtoToFellow(dto FellowDTO) Fellow {
	fellow := Fellow{
		ID:      dto.ID,
		Manager: dto.Manager,
		Amount:  dto.Amount,
		Months:  dto.Months,
		Status:  Status(dto.Status),
	}
	if dto.TurnMonth != nil {
		fellow.TurnMonth = *dto.TurnMonth
	}
	if dto.StartIn != nil {
		fellow.StartIn = *dto.StartIn
	}
	return fellow
}
