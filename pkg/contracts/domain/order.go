package domain

import (
	"math"
	"strconv"
	"time"
)

// Order represents one row of the orders table
type Order struct {
	OrderID          string    `json:"order_id" validate:"required"`
	ProductID        string    `json:"product_id" validate:"required"`
	CustomerID       string    `json:"customer_id" validate:"required"`
	CustomerStatus   string    `json:"customer_status"`
	QuantityOrdered  int       `json:"quantity_ordered" validate:"gt=0"`
	TotalRetailPrice float64   `json:"total_retail_price"`
	OrderDate        time.Time `json:"order_date" validate:"required"`
	DeliveryDate     time.Time `json:"delivery_date" validate:"required"`

	// UnitCost is the optional Cost Price Per Unit carried by the orders
	// file itself. NaN when the column is absent or the cell is empty.
	UnitCost float64 `json:"unit_cost"`
}

// Product represents one row of the product-supplier table
type Product struct {
	ProductID        string  `json:"product_id" validate:"required"`
	ProductCategory  string  `json:"product_category"`
	CostPricePerUnit float64 `json:"cost_price_per_unit"`
	ProductName      string  `json:"product_name,omitempty"`
	SupplierName     string  `json:"supplier_name,omitempty"`
}

// Record is an order joined with its product. Derived fields are zero until
// the dataset has been enriched.
type Record struct {
	Order

	// Matched is false when the order's Product ID has no supplier row.
	Matched  bool    `json:"matched"`
	Category string  `json:"category"`
	Cost     float64 `json:"cost"`

	UnitPrice    float64    `json:"unit_price"`
	Profit       float64    `json:"profit"`
	Year         int        `json:"year"`
	Month        time.Month `json:"month"`
	DeliveryDays int        `json:"delivery_days"`
	Tier         Tier       `json:"tier"`
}

// HasCost reports whether the record carries a usable unit cost
func (r Record) HasCost() bool {
	return !math.IsNaN(r.Cost)
}

// Missing is the value used for absent numeric cells
func Missing() float64 {
	return math.NaN()
}

// CompareIDs orders identifiers numerically when both are integers and
// lexically otherwise.
func CompareIDs(a, b string) int {
	ai, aerr := strconv.ParseInt(a, 10, 64)
	bi, berr := strconv.ParseInt(b, 10, 64)
	if aerr == nil && berr == nil {
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		}
		return 0
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
