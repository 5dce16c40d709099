package bankfee

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type FeeDTO struct {
	ID                string          `json:"id,omitempty"`
	BankName          string          `json:"bankName"`
	PeriodMonths      int             `json:"periodMonths"`
	PurchasingPercent decimal.Decimal `json:"purchasingPercent"`
	CashPercent       decimal.Decimal `json:"cashPercent"`
}

type CalculateRequestDTO struct {
	Amount       decimal.Decimal `json:"amount"`
	BankName     string          `json:"bankName"`
	PeriodMonths int             `json:"periodMonths"`
	Kind         string          `json:"kind,omitempty"`
}

type CalculateResponseDTO struct {
	Fee decimal.Decimal `json:"fee"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto CalculateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	kind := Kind(dto.Kind)
	if kind == "" {
		kind = KindPurchasing
	}

	fee, err := h.service.Calculate(r.Context(), dto.Amount, dto.BankName, dto.PeriodMonths, kind)
	if errors.Is(err, ErrNoPlan) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	} else if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(CalculateResponseDTO{Fee: fee}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) ListFees(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	fees, err := h.service.ListAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]FeeDTO, 0, len(fees))
	for _, fee := range fees {
		dtos = append(dtos, feeToDTO(fee))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) CreateFee(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new bank fee")
	w.Header().Set("Content-Type", "application/json")

	var dto FeeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.Create(r.Context(), dtoToFee(dto))
	if errors.Is(err, ErrNotAllowed) {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	} else if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(feeToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) UpdateFee(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto FeeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	updated, err := h.service.Update(r.Context(), vars["id"], dtoToFee(dto))
	if errors.Is(err, ErrNotAllowed) {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	} else if errors.Is(err, ErrFeeNotFound) {
		http.Error(w, "Fee not found", http.StatusNotFound)
		return
	} else if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(feeToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) DeleteFee(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	err := h.service.Delete(r.Context(), vars["id"])
	if errors.Is(err, ErrNotAllowed) {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	} else if errors.Is(err, ErrFeeNotFound) {
		http.Error(w, "Fee not found", http.StatusNotFound)
		return
	} else if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func feeToDTO(fee Fee) FeeDTO {
	return FeeDTO{
		ID:                fee.ID,
		BankName:          fee.BankName,
		PeriodMonths:      fee.PeriodMonths,
		PurchasingPercent: fee.PurchasingPercent,
		CashPercent:       fee.CashPercent,
	}
}

func dtoToFee(dto FeeDTO) Fee {
	return Fee{
		ID:                dto.ID,
		BankName:          dto.BankName,
		PeriodMonths:      dto.PeriodMonths,
		PurchasingPercent: dto.PurchasingPercent,
		CashPercent:       dto.CashPercent,
	}
}
