package analytics

import (
	"math"
	"time"

	"ecomreport/pkg/contracts/domain"
)

// MonthlyDelivery holds the order-to-delivery statistics of one month.
// Median and Longest are NaN for a month without orders.
type MonthlyDelivery struct {
	Month   time.Month `json:"month"`
	Orders  int        `json:"orders"`
	Median  float64    `json:"order_to_delivery_length"`
	Longest float64    `json:"the_longest_order_to_delivery_length"`
}

// DeliveryStats groups the records of year by order month and returns the
// median delivery length, rounded to one decimal, and the longest one.
// Every month from the first to the last month with orders is listed, so
// gaps show up as empty rows.
func DeliveryStats(ds domain.Dataset, year int) []MonthlyDelivery {
	days := make(map[time.Month][]float64)
	first, last := time.Month(13), time.Month(0)

	ds.Each(func(r domain.Record) {
		if r.Year != year {
			return
		}
		days[r.Month] = append(days[r.Month], float64(r.DeliveryDays))
		if r.Month < first {
			first = r.Month
		}
		if r.Month > last {
			last = r.Month
		}
	})

	if len(days) == 0 {
		return nil
	}

	out := make([]MonthlyDelivery, 0, int(last-first)+1)
	for m := first; m <= last; m++ {
		values := days[m]
		row := MonthlyDelivery{Month: m, Orders: len(values), Median: math.NaN(), Longest: math.NaN()}
		if len(values) > 0 {
			row.Median = RoundHalfEven(Median(values), 1)
			row.Longest = Max(values)
		}
		out = append(out, row)
	}
	return out
}
