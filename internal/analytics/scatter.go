package analytics

import (
	"math"

	"ecomreport/pkg/contracts/domain"
)

// Point is one scatter plot marker
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CostVsProfit returns one point per record with a known cost and profit
func CostVsProfit(ds domain.Dataset) []Point {
	return points(ds, func(r domain.Record) (float64, float64) {
		return r.Cost, r.Profit
	})
}

// UnitPriceVsQuantity returns one point per record with a known unit price
func UnitPriceVsQuantity(ds domain.Dataset) []Point {
	return points(ds, func(r domain.Record) (float64, float64) {
		return r.UnitPrice, float64(r.QuantityOrdered)
	})
}

func points(ds domain.Dataset, xy func(domain.Record) (float64, float64)) []Point {
	out := make([]Point, 0, ds.Len())
	ds.Each(func(r domain.Record) {
		x, y := xy(r)
		if math.IsNaN(x) || math.IsNaN(y) {
			return
		}
		out = append(out, Point{X: x, Y: y})
	})
	return out
}
