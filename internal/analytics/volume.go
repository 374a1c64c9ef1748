package analytics

import (
	"sort"

	"ecomreport/pkg/contracts/domain"
)

// CategoryVolume is the total quantity ordered in one category
type CategoryVolume struct {
	Category string `json:"category"`
	Quantity int    `json:"quantity"`
}

// CategoryVolumes sums Quantity Ordered per category over the records of
// year, ordered by descending quantity and then category name.
func CategoryVolumes(ds domain.Dataset, year int) []CategoryVolume {
	inYear := ds.Filter(func(r domain.Record) bool { return r.Year == year })
	keys, groups := groupByCategory(inYear)

	out := make([]CategoryVolume, 0, len(keys))
	for _, category := range keys {
		total := 0
		for _, r := range groups[category] {
			total += r.QuantityOrdered
		}
		out = append(out, CategoryVolume{Category: category, Quantity: total})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Quantity > out[j].Quantity
	})
	return out
}

// TopCategoriesByVolume returns the latest order year and its n categories
// with the largest quantity ordered.
func TopCategoriesByVolume(ds domain.Dataset, n int) (int, []CategoryVolume, error) {
	year, err := LatestYear(ds)
	if err != nil {
		return 0, nil, err
	}

	volumes := CategoryVolumes(ds, year)
	if n >= 0 && len(volumes) > n {
		volumes = volumes[:n]
	}
	return year, volumes, nil
}
