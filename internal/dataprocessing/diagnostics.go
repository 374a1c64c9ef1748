package dataprocessing

import (
	"fmt"
	"math"
	"strconv"

	"ecomreport/pkg/contracts/domain"
)

// ColumnCount is the number of missing values in one column
type ColumnCount struct {
	Column  string `json:"column"`
	Missing int    `json:"missing"`
}

// Diagnostics are the data-quality checks run right after the join
type Diagnostics struct {
	Records             int           `json:"records"`
	MissingByColumn     []ColumnCount `json:"missing_by_column"`
	DuplicateOrderIDs   int           `json:"duplicate_order_ids"`
	UnmatchedOrders     int           `json:"unmatched_orders"`
	DuplicateProductIDs int           `json:"duplicate_product_ids"`
	NegativeDeliveries  int           `json:"negative_deliveries"`
}

// Diagnose inspects the joined dataset. It works on raw or derived records.
func Diagnose(ds domain.Dataset, join JoinReport) Diagnostics {
	checks := []struct {
		column  string
		missing func(domain.Record) bool
	}{
		{ColOrderID, func(r domain.Record) bool { return r.OrderID == "" }},
		{ColProductID, func(r domain.Record) bool { return r.ProductID == "" }},
		{ColCustomerID, func(r domain.Record) bool { return r.CustomerID == "" }},
		{ColCustomerStatus, func(r domain.Record) bool { return r.CustomerStatus == "" }},
		{ColQuantityOrdered, func(r domain.Record) bool { return false }},
		{ColTotalRetailPrice, func(r domain.Record) bool { return math.IsNaN(r.TotalRetailPrice) }},
		{ColOrderDate, func(r domain.Record) bool { return r.OrderDate.IsZero() }},
		{ColDeliveryDate, func(r domain.Record) bool { return r.DeliveryDate.IsZero() }},
		{ColProductCategory, func(r domain.Record) bool { return r.Category == "" }},
		{ColCostPricePerUnit, func(r domain.Record) bool { return !r.HasCost() }},
	}

	d := Diagnostics{
		Records:             ds.Len(),
		MissingByColumn:     make([]ColumnCount, len(checks)),
		UnmatchedOrders:     join.UnmatchedOrders,
		DuplicateProductIDs: len(join.DuplicateProductIDs),
	}
	for i, c := range checks {
		d.MissingByColumn[i].Column = c.column
	}

	orderIDs := make(map[string]int, ds.Len())
	ds.Each(func(r domain.Record) {
		for i, c := range checks {
			if c.missing(r) {
				d.MissingByColumn[i].Missing++
			}
		}
		orderIDs[r.OrderID]++
		if DeliveryDays(r.OrderDate, r.DeliveryDate) < 0 {
			d.NegativeDeliveries++
		}
	})

	for _, n := range orderIDs {
		if n > 1 {
			d.DuplicateOrderIDs++
		}
	}

	return d
}

// Clean reports whether no check found a problem
func (d Diagnostics) Clean() bool {
	for _, c := range d.MissingByColumn {
		if c.Missing > 0 {
			return false
		}
	}
	return d.DuplicateOrderIDs == 0 && d.UnmatchedOrders == 0 &&
		d.DuplicateProductIDs == 0 && d.NegativeDeliveries == 0
}

// Table renders the diagnostics as a printed table
func (d Diagnostics) Table() domain.Table {
	rows := make([][]string, 0, len(d.MissingByColumn)+4)
	for _, c := range d.MissingByColumn {
		rows = append(rows, []string{"missing: " + c.Column, strconv.Itoa(c.Missing)})
	}
	rows = append(rows,
		[]string{"duplicate order ids", strconv.Itoa(d.DuplicateOrderIDs)},
		[]string{"unmatched orders", strconv.Itoa(d.UnmatchedOrders)},
		[]string{"duplicate product ids", strconv.Itoa(d.DuplicateProductIDs)},
		[]string{"negative delivery times", strconv.Itoa(d.NegativeDeliveries)},
	)

	return domain.Table{
		Title:   "Data quality checks",
		Notes:   []string{fmt.Sprintf("%d joined records", d.Records)},
		Headers: []string{"check", "count"},
		Rows:    rows,
		Printed: true,
	}
}
