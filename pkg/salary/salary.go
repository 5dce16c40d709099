package salary

import "github.com/shopspring/decimal"

// Deductions collects the monthly amounts pulled from the user's active
// records. A nil slice simply contributes nothing, so a missing source
// never breaks the aggregation.
type Deductions struct {
	Items     []decimal.Decimal
	Fellows   []decimal.Decimal
	Spendings []decimal.Decimal
}

// Net derives the remaining monthly salary: gross minus every deduction,
// rounded to two decimal places. It is a pure read-time computation;
// nothing is stored.
func Net(gross decimal.Decimal, d Deductions) decimal.Decimal {
	net := gross
	for _, group := range [][]decimal.Decimal{d.Items, d.Fellows, d.Spendings} {
		for _, amount := range group {
			net = net.Sub(amount)
		}
	}
	return net.Round(2)
}
