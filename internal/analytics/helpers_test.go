package analytics

import (
	"fmt"
	"time"

	"ecomreport/pkg/contracts/domain"
)

// recordOpt adjusts a fixture record
type recordOpt func(*domain.Record)

func withCategory(c string) recordOpt {
	return func(r *domain.Record) { r.Category = c; r.Matched = c != "" }
}

func withQuantity(q int) recordOpt {
	return func(r *domain.Record) { r.QuantityOrdered = q }
}

func withPrice(unitPrice, cost float64) recordOpt {
	return func(r *domain.Record) { r.UnitPrice = unitPrice; r.Cost = cost }
}

func withProfit(p float64) recordOpt {
	return func(r *domain.Record) { r.Profit = p }
}

func withCustomer(id string, tier domain.Tier) recordOpt {
	return func(r *domain.Record) { r.CustomerID = id; r.Tier = tier; r.CustomerStatus = tier.String() }
}

func withDelivery(days int) recordOpt {
	return func(r *domain.Record) {
		r.DeliveryDays = days
		r.DeliveryDate = r.OrderDate.AddDate(0, 0, days)
	}
}

var orderSeq int

// rec builds an enriched record placed on the given day
func rec(y int, m time.Month, d int, opts ...recordOpt) domain.Record {
	orderSeq++
	placed := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	r := domain.Record{
		Order: domain.Order{
			OrderID:         fmt.Sprintf("O%d", orderSeq),
			ProductID:       "P1",
			CustomerID:      "1",
			QuantityOrdered: 1,
			OrderDate:       placed,
			DeliveryDate:    placed,
		},
		Matched: true,
		Year:    y,
		Month:   m,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func dataset(records ...domain.Record) domain.Dataset {
	return domain.NewDataset(records).WithDerived(records)
}
