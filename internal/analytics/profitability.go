package analytics

import (
	"math"
	"sort"

	apperrors "ecomreport/internal/errors"
	"ecomreport/pkg/contracts/domain"
)

// CategoryProfit is the median-based margin of one product category
type CategoryProfit struct {
	Category        string  `json:"category"`
	MedianUnitPrice float64 `json:"median_unit_price"`
	MedianCost      float64 `json:"median_cost"`

	// ProfitPercentage is NaN when it cannot be computed
	ProfitPercentage float64 `json:"profit_percentage"`

	// Undefined marks a category whose median cost is zero
	Undefined bool `json:"undefined"`
}

// Ranked reports whether the category can take part in the ranking
func (c CategoryProfit) Ranked() bool {
	return !c.Undefined && !math.IsNaN(c.ProfitPercentage)
}

// ProfitPercentage returns (unit price − cost) / cost × 100. A zero cost
// yields ErrZeroCost rather than an infinite margin.
func ProfitPercentage(unitPrice, cost float64) (float64, error) {
	if cost == 0 {
		return math.NaN(), apperrors.ErrZeroCost
	}
	return (unitPrice - cost) / cost * 100, nil
}

// CategoryProfitability computes the median unit price, median cost and
// profit percentage of every category, in ascending category order.
func CategoryProfitability(ds domain.Dataset) []CategoryProfit {
	keys, groups := groupByCategory(ds)

	out := make([]CategoryProfit, 0, len(keys))
	for _, category := range keys {
		records := groups[category]
		prices := make([]float64, len(records))
		costs := make([]float64, len(records))
		for i, r := range records {
			prices[i] = r.UnitPrice
			costs[i] = r.Cost
		}

		cp := CategoryProfit{
			Category:        category,
			MedianUnitPrice: Median(prices),
			MedianCost:      Median(costs),
		}

		pct, err := ProfitPercentage(cp.MedianUnitPrice, cp.MedianCost)
		if err != nil {
			cp.Undefined = true
		}
		cp.ProfitPercentage = pct

		out = append(out, cp)
	}

	return out
}

// TopProfitable returns up to n ranked categories by descending profit
// percentage. Undefined and NaN percentages are left out; ties keep the
// input order.
func TopProfitable(categories []CategoryProfit, n int) []CategoryProfit {
	ranked := make([]CategoryProfit, 0, len(categories))
	for _, c := range categories {
		if c.Ranked() {
			ranked = append(ranked, c)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ProfitPercentage > ranked[j].ProfitPercentage
	})

	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// UndefinedCategories returns the categories whose margin is undefined
func UndefinedCategories(categories []CategoryProfit) []CategoryProfit {
	var out []CategoryProfit
	for _, c := range categories {
		if c.Undefined {
			out = append(out, c)
		}
	}
	return out
}
