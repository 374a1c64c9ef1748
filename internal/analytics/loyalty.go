package analytics

import (
	"fmt"
	"sort"

	"ecomreport/pkg/contracts/domain"
)

// MonthSelection decides which months the loyalty window covers
type MonthSelection string

const (
	// SelectBusiest picks the months with the most orders, earlier month first on ties
	SelectBusiest MonthSelection = "busiest"
	// SelectLatest picks the most recent months with orders
	SelectLatest MonthSelection = "latest"
)

// MonthCount is the number of orders placed in a month
type MonthCount struct {
	YearMonth
	Orders int `json:"orders"`
}

// OrdersPerMonth counts records per order month, chronologically
func OrdersPerMonth(ds domain.Dataset) []MonthCount {
	counts := make(map[YearMonth]int)
	ds.Each(func(r domain.Record) {
		counts[periodOf(r)]++
	})

	out := make([]MonthCount, 0, len(counts))
	for ym, n := range counts {
		out = append(out, MonthCount{YearMonth: ym, Orders: n})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].YearMonth.Before(out[j].YearMonth)
	})
	return out
}

// SelectMonths returns n months chosen by mode, in chronological order
func SelectMonths(ds domain.Dataset, n int, mode MonthSelection) ([]YearMonth, error) {
	counts := OrdersPerMonth(ds)

	switch mode {
	case SelectBusiest:
		sort.SliceStable(counts, func(i, j int) bool {
			return counts[i].Orders > counts[j].Orders
		})
	case SelectLatest:
		sort.SliceStable(counts, func(i, j int) bool {
			return counts[j].YearMonth.Before(counts[i].YearMonth)
		})
	default:
		return nil, fmt.Errorf("unknown month selection %q", mode)
	}

	if len(counts) > n {
		counts = counts[:n]
	}

	months := make([]YearMonth, len(counts))
	for i, c := range counts {
		months[i] = c.YearMonth
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Before(months[j])
	})
	return months, nil
}

// LoyalCustomer is a customer above the order threshold in the window
type LoyalCustomer struct {
	CustomerID string      `json:"customer_id"`
	Orders     int         `json:"orders"`
	Tier       domain.Tier `json:"tier"`
}

// TierShare is one slice of the tier distribution
type TierShare struct {
	Tier       domain.Tier `json:"tier"`
	Customers  int         `json:"customers"`
	Percentage float64     `json:"percentage"`
}

// Loyalty is the result of the loyal-customer analysis
type Loyalty struct {
	Months    []YearMonth     `json:"months"`
	Customers []LoyalCustomer `json:"customers"`
	Tiers     []TierShare     `json:"tiers"`
}

// CustomerIDs returns the loyal customer IDs in ascending order
func (l Loyalty) CustomerIDs() []string {
	ids := make([]string, len(l.Customers))
	for i, c := range l.Customers {
		ids[i] = c.CustomerID
	}
	return ids
}

// LoyalCustomers keeps the customers with more than minOrders distinct
// orders placed in months. Each customer's tier is the highest tier among
// those orders.
func LoyalCustomers(ds domain.Dataset, months []YearMonth, minOrders int) Loyalty {
	window := make(map[YearMonth]bool, len(months))
	for _, m := range months {
		window[m] = true
	}

	type customer struct {
		orders map[string]struct{}
		tier   domain.Tier
	}
	customers := make(map[string]*customer)

	ds.Each(func(r domain.Record) {
		if !window[periodOf(r)] || r.CustomerID == "" {
			return
		}
		c, ok := customers[r.CustomerID]
		if !ok {
			c = &customer{orders: make(map[string]struct{})}
			customers[r.CustomerID] = c
		}
		c.orders[r.OrderID] = struct{}{}
		if r.Tier > c.tier {
			c.tier = r.Tier
		}
	})

	result := Loyalty{Months: months, Customers: []LoyalCustomer{}}
	for id, c := range customers {
		if len(c.orders) > minOrders {
			result.Customers = append(result.Customers, LoyalCustomer{
				CustomerID: id,
				Orders:     len(c.orders),
				Tier:       c.tier,
			})
		}
	}
	sort.Slice(result.Customers, func(i, j int) bool {
		return domain.CompareIDs(result.Customers[i].CustomerID, result.Customers[j].CustomerID) < 0
	})

	result.Tiers = TierDistribution(result.Customers)
	return result
}

// TierDistribution tallies customers per tier by descending count; equal
// counts list the higher tier first.
func TierDistribution(customers []LoyalCustomer) []TierShare {
	counts := make(map[domain.Tier]int)
	for _, c := range customers {
		counts[c.Tier]++
	}

	shares := make([]TierShare, 0, len(counts))
	for tier, n := range counts {
		shares = append(shares, TierShare{
			Tier:       tier,
			Customers:  n,
			Percentage: float64(n) / float64(len(customers)) * 100,
		})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Customers != shares[j].Customers {
			return shares[i].Customers > shares[j].Customers
		}
		return shares[i].Tier > shares[j].Tier
	})
	return shares
}
