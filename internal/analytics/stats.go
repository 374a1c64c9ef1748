package analytics

import (
	"math"
	"sort"

	apperrors "ecomreport/internal/errors"
	"ecomreport/pkg/contracts/domain"
)

// Median returns the median of the non-NaN values, or NaN when there are none
func Median(values []float64) float64 {
	sorted := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			sorted = append(sorted, v)
		}
	}
	if len(sorted) == 0 {
		return math.NaN()
	}
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Sum adds the non-NaN values. An empty or all-NaN input sums to zero.
func Sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		if !math.IsNaN(v) {
			total += v
		}
	}
	return total
}

// Max returns the largest non-NaN value, or NaN when there are none
func Max(values []float64) float64 {
	best := math.NaN()
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(best) || v > best {
			best = v
		}
	}
	return best
}

// RoundHalfEven rounds v to the given number of decimal places, sending
// exact halves to the nearest even digit.
func RoundHalfEven(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	scale := math.Pow10(places)
	return math.RoundToEven(v*scale) / scale
}

// groupByCategory buckets records by product category in ascending category
// order. Records without a category are skipped.
func groupByCategory(ds domain.Dataset) ([]string, map[string][]domain.Record) {
	groups := make(map[string][]domain.Record)
	ds.Each(func(r domain.Record) {
		if r.Category == "" {
			return
		}
		groups[r.Category] = append(groups[r.Category], r)
	})

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, groups
}

// LatestYear returns the most recent order year in ds
func LatestYear(ds domain.Dataset) (int, error) {
	year, ok := ds.LatestYear()
	if !ok {
		return 0, apperrors.ErrNoData
	}
	return year, nil
}
