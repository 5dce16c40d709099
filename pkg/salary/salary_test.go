package salary

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNet(t *testing.T) {
	tests := []struct {
		name       string
		gross      string
		deductions Deductions
		want       string
	}{
		{
			name:  "one item and one fellow pool",
			gross: "5000",
			deductions: Deductions{
				Items:   []decimal.Decimal{decimal.RequireFromString("100")},
				Fellows: []decimal.Decimal{decimal.RequireFromString("166.67")},
			},
			want: "4733.33",
		},
		{
			name:       "no deductions at all",
			gross:      "5000",
			deductions: Deductions{},
			want:       "5000",
		},
		{
			name:  "all three sources",
			gross: "7500.50",
			deductions: Deductions{
				Items:     []decimal.Decimal{decimal.RequireFromString("200"), decimal.RequireFromString("50.25")},
				Fellows:   []decimal.Decimal{decimal.RequireFromString("166.67")},
				Spendings: []decimal.Decimal{decimal.RequireFromString("800")},
			},
			want: "6283.58",
		},
		{
			name:  "deductions can exceed the gross",
			gross: "1000",
			deductions: Deductions{
				Items: []decimal.Decimal{decimal.RequireFromString("1200")},
			},
			want: "-200",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Net(decimal.RequireFromString(tt.gross), tt.deductions)

			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"Net() = %s, want %s", got, tt.want)
		})
	}
}
