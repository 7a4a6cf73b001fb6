package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SummaryLine is the committed quantity of one product for one shop over a
// business day, counting only non-cancelled orders.
type SummaryLine struct {
	ShopID      uuid.UUID
	ShopName    string
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	Revenue     decimal.Decimal
}

// DailySummary is the production sheet for one business day.
type DailySummary struct {
	Day        time.Time
	OrderCount int
	Lines      []SummaryLine
}

// Total sums the revenue of every line.
func (s *DailySummary) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.Lines {
		total = total.Add(l.Revenue)
	}
	return total
}
