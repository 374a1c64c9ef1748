package dataprocessing

import (
	"sort"

	"ecomreport/pkg/contracts/domain"
)

// JoinReport describes how well the two tables matched
type JoinReport struct {
	Orders   int `json:"orders"`
	Products int `json:"products"`

	// UnmatchedOrders counts orders whose Product ID has no supplier row
	UnmatchedOrders     int      `json:"unmatched_orders"`
	UnmatchedProductIDs []string `json:"unmatched_product_ids,omitempty"`

	// DuplicateProductIDs lists supplier keys seen more than once; only the
	// first row of each is joined.
	DuplicateProductIDs []string `json:"duplicate_product_ids,omitempty"`

	// CostSource is the table the unit cost was taken from
	CostSource string `json:"cost_source"`
}

// Cost sources reported by Join
const (
	CostFromProducts = "products"
	CostFromOrders   = "orders"
	CostUnavailable  = "none"
)

// Join left-joins orders onto products by Product ID. Every order yields
// exactly one record in input order; an order without a supplier row keeps
// an empty category and a missing cost.
func Join(tables *Tables) (domain.Dataset, JoinReport) {
	products := tables.Products.Products
	orders := tables.Orders.Orders

	report := JoinReport{
		Orders:     len(orders),
		Products:   len(products),
		CostSource: costSource(tables),
	}

	byID := make(map[string]domain.Product, len(products))
	dupes := make(map[string]struct{})
	for _, p := range products {
		if _, seen := byID[p.ProductID]; seen {
			dupes[p.ProductID] = struct{}{}
			continue
		}
		byID[p.ProductID] = p
	}
	report.DuplicateProductIDs = sortedKeys(dupes)

	unmatched := make(map[string]struct{})
	records := make([]domain.Record, 0, len(orders))
	for _, o := range orders {
		rec := domain.Record{Order: o, Cost: domain.Missing()}

		p, ok := byID[o.ProductID]
		if ok {
			rec.Matched = true
			rec.Category = p.ProductCategory
		} else {
			report.UnmatchedOrders++
			unmatched[o.ProductID] = struct{}{}
		}

		switch report.CostSource {
		case CostFromProducts:
			if ok {
				rec.Cost = p.CostPricePerUnit
			}
		case CostFromOrders:
			rec.Cost = o.UnitCost
		}

		records = append(records, rec)
	}
	report.UnmatchedProductIDs = sortedKeys(unmatched)

	return domain.NewDataset(records), report
}

func costSource(tables *Tables) string {
	switch {
	case tables.Products.HasCost:
		return CostFromProducts
	case tables.Orders.HasCost:
		return CostFromOrders
	default:
		return CostUnavailable
	}
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return domain.CompareIDs(keys[i], keys[j]) < 0
	})
	return keys
}
