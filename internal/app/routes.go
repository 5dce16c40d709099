package app

import (
	"github.com/gorilla/mux"

	"github.com/aqsaat/aqsaat/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Items
	r.HandleFunc("/api/item", deps.ItemHandler.ListItems).Methods("GET")
	r.HandleFunc("/api/item", deps.ItemHandler.CreateItem).Methods("POST")
	r.HandleFunc("/api/item/{id}", deps.ItemHandler.GetItem).Methods("GET")
	r.HandleFunc("/api/item/{id}", deps.ItemHandler.UpdateItem).Methods("PUT")
	r.HandleFunc("/api/item/{id}", deps.ItemHandler.DeleteItem).Methods("DELETE")
	r.HandleFunc("/api/item/{id}/share", deps.ShareHandler.ListForItem).Methods("GET")

	// Fellow pools
	r.HandleFunc("/api/fellow", deps.FellowHandler.ListFellows).Methods("GET")
	r.HandleFunc("/api/fellow", deps.FellowHandler.CreateFellow).Methods("POST")
	r.HandleFunc("/api/fellow/{id}", deps.FellowHandler.GetFellow).Methods("GET")
	r.HandleFunc("/api/fellow/{id}", deps.FellowHandler.UpdateFellow).Methods("PUT")
	r.HandleFunc("/api/fellow/{id}", deps.FellowHandler.DeleteFellow).Methods("DELETE")
	r.HandleFunc("/api/fellow/{id}/share", deps.ShareHandler.ListForFellow).Methods("GET")

	// Shares
	r.HandleFunc("/api/share", deps.ShareHandler.ListMine).Methods("GET")
	r.HandleFunc("/api/share/{id}/paid", deps.ShareHandler.MarkPaid).Methods("PUT")
	r.HandleFunc("/api/share/{id}/unpaid", deps.ShareHandler.MarkUnpaid).Methods("PUT")
	r.HandleFunc("/api/share/{id}", deps.ShareHandler.Delete).Methods("DELETE")

	// Spendings
	r.HandleFunc("/api/spending", deps.SpendingHandler.ListSpendings).Methods("GET")
	r.HandleFunc("/api/spending", deps.SpendingHandler.CreateSpending).Methods("POST")
	r.HandleFunc("/api/spending/{id}", deps.SpendingHandler.GetSpending).Methods("GET")
	r.HandleFunc("/api/spending/{id}", deps.SpendingHandler.UpdateSpending).Methods("PUT")
	r.HandleFunc("/api/spending/{id}", deps.SpendingHandler.DeleteSpending).Methods("DELETE")

	// Bank fees
	r.HandleFunc("/api/bankfee", deps.BankFeeHandler.ListFees).Methods("GET")
	r.HandleFunc("/api/bankfee", deps.BankFeeHandler.CreateFee).Methods("POST")
	r.HandleFunc("/api/bankfee/calculate", deps.BankFeeHandler.Calculate).Methods("POST")
	r.HandleFunc("/api/bankfee/{id}", deps.BankFeeHandler.UpdateFee).Methods("PUT")
	r.HandleFunc("/api/bankfee/{id}", deps.BankFeeHandler.DeleteFee).Methods("DELETE")

	// Salary
	r.HandleFunc("/api/salary/net", deps.SalaryHandler.NetSalary).Methods("GET")

	// User management
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
	r.HandleFunc("/api/user/current", deps.UserHandler.UpdateUser).Methods("PUT")
	r.HandleFunc("/api/user", deps.UserHandler.CreateUser).Methods("POST")
	r.HandleFunc("/api/user", deps.UserHandler.GetAllUsers).Methods("GET")
	r.HandleFunc("/api/user/{id}", deps.UserHandler.DeleteUser).Methods("DELETE")
}
