package item

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

type ItemDTO struct {
	ID            string          `json:"id,omitempty"`
	Type          string          `json:"type"`
	Title         string          `json:"title"`
	Price         decimal.Decimal `json:"price"`
	PurchaseDate  time.Time       `json:"purchaseDate"`
	Months        int             `json:"numberOfMonths"`
	MonthlyAmount decimal.Decimal `json:"monthlyAmount"`
	StartIn       *time.Time      `json:"startIn,omitempty"`
	EndIn         *time.Time      `json:"endIn,omitempty"`
	Status        string          `json:"status,omitempty"`
}

// ItemPatchDTO mirrors Patch: absent fields leave the stored value alone.
type ItemPatchDTO struct {
	Title   *string          `json:"title"`
	Price   *decimal.Decimal `json:"price"`
	Months  *int             `json:"numberOfMonths"`
	StartIn *time.Time       `json:"startIn"`
	Status  *string          `json:"status"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new item")
	w.Header().Set("Content-Type", "application/json")

	var dto ItemDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.Create(r.Context(), dtoToItem(dto))
	if errors.Is(err, schedule.ErrInvalidSchedule) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	} else if errors.Is(err, share.ErrReconciliationFailed) {
		http.Error(w, "Could not materialize payment schedule", http.StatusInternalServerError)
		return
	} else if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(itemToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	vars := mux.Vars(r)
	item, err := h.service.Get(r.Context(), vars["id"])
	if errors.Is(err, ErrItemNotFound) {
		http.Error(w, "Item not found", http.StatusNotFound)
		return
	} else if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(itemToDTO(item)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	items, err := h.service.ListMine(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, itemToDTO(item))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto ItemPatchDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	patch := Patch{
		Title:   dto.Title,
		Price:   dto.Price,
		Months:  dto.Months,
		StartIn: dto.StartIn,
	}
	if dto.Status != nil {
		status := Status(*dto.Status)
		patch.Status = &status
	}

	vars := mux.Vars(r)
	updated, err := h.service.Update(r.Context(), vars["id"], patch)
	if errors.Is(err, ErrItemNotFound) {
		http.Error(w, "Item not found", http.StatusNotFound)
		return
	} else if errors.Is(err, schedule.ErrInvalidSchedule) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	} else if errors.Is(err, share.ErrReconciliationFailed) {
		http.Error(w, "Could not replace payment schedule", http.StatusInternalServerError)
		return
	} else if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(itemToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	err := h.service.Delete(r.Context(), vars["id"])
	if errors.Is(err, ErrItemNotFound) {
		http.Error(w, "Item not found", http.StatusNotFound)
		return
	} else if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func itemToDTO(item Item) ItemDTO {
	dto := ItemDTO{
		ID:            item.ID,
		Type:          string(item.Type),
		Title:         item.Title,
		Price:         item.Price,
		PurchaseDate:  item.PurchaseDate,
		Months:        item.Months,
		MonthlyAmount: item.MonthlyAmount,
		Status:        string(item.Status),
	}
	if !item.StartIn.IsZero() {
		dto.StartIn = &item.StartIn
	}
	if !item.EndIn.IsZero() {
		dto.EndIn = &item.EndIn
	}
	return dto
}

func dtoToItem(dto ItemDTO) Item {
	item := Item{
		ID:           dto.ID,
		Type:         Type(dto.Type),
		Title:        dto.Title,
		Price:        dto.Price,
		PurchaseDate: dto.PurchaseDate,
		Months:       dto.Months,
		Status:       Status(dto.Status),
	}
	if dto.StartIn != nil {
		item.StartIn = *dto.StartIn
	}
	return item
}
