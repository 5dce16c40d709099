package salary

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/aqsaat/aqsaat/pkg/user"
)

type SummaryDTO struct {
	Gross          decimal.Decimal `json:"gross"`
	ItemsTotal     decimal.Decimal `json:"itemsTotal"`
	FellowsTotal   decimal.Decimal `json:"fellowsTotal"`
	SpendingsTotal decimal.Decimal `json:"spendingsTotal"`
	Net            decimal.Decimal `json:"net"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) NetSalary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	summary, err := h.service.NetForCurrentUser(r.Context())
	if errors.Is(err, user.ErrNoUser) || errors.Is(err, user.ErrUserNotFound) {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	} else if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(summaryToDTO(summary)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func summaryToDTO(summary Summary) SummaryDTO {
	return SummaryDTO{
		Gross:          summary.Gross,
		ItemsTotal:     sum(summary.Deductions.Items),
		FellowsTotal:   sum(summary.Deductions.Fellows),
		SpendingsTotal: sum(summary.Deductions.Spendings),
		Net:            summary.Net,
	}
}

func sum(amounts []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, amount := range amounts {
		total = total.Add(amount)
	}
	return total
}
