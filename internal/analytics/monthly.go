package analytics

import (
	"sort"
	"time"

	"ecomreport/pkg/contracts/domain"
)

// MonthlyProfit is the profit summed over one calendar month
type MonthlyProfit struct {
	Year   int        `json:"year"`
	Month  time.Month `json:"month"`
	Profit float64    `json:"profit"`
	Orders int        `json:"orders"`
}

// YearMonth identifies a calendar month
type YearMonth struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// Before reports whether ym precedes other
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

// String formats the month as YYYY-MM
func (ym YearMonth) String() string {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

func periodOf(r domain.Record) YearMonth {
	return YearMonth{Year: r.OrderDate.Year(), Month: r.OrderDate.Month()}
}

// MonthlyProfitTrend sums Profit per (year, month), skipping missing
// profits. Only months with orders appear, ordered chronologically.
func MonthlyProfitTrend(ds domain.Dataset) []MonthlyProfit {
	profits := make(map[YearMonth][]float64)
	ds.Each(func(r domain.Record) {
		ym := YearMonth{Year: r.Year, Month: r.Month}
		profits[ym] = append(profits[ym], r.Profit)
	})

	out := make([]MonthlyProfit, 0, len(profits))
	for ym, values := range profits {
		out = append(out, MonthlyProfit{
			Year:   ym.Year,
			Month:  ym.Month,
			Profit: Sum(values),
			Orders: len(values),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return YearMonth{out[i].Year, out[i].Month}.Before(YearMonth{out[j].Year, out[j].Month})
	})
	return out
}

// Years returns the distinct years of trend in ascending order
func Years(trend []MonthlyProfit) []int {
	var years []int
	for _, m := range trend {
		if len(years) == 0 || years[len(years)-1] != m.Year {
			years = append(years, m.Year)
		}
	}
	return years
}
