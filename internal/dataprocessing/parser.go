package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	apperrors "ecomreport/internal/errors"
	"ecomreport/pkg/contracts/domain"
)

// Column headers of the orders table
const (
	ColOrderID          = "Order ID"
	ColProductID        = "Product ID"
	ColCustomerID       = "Customer ID"
	ColCustomerStatus   = "Customer Status"
	ColQuantityOrdered  = "Quantity Ordered"
	ColTotalRetailPrice = "Total Retail Price for This Order"
	ColOrderDate        = "Date Order was placed"
	ColDeliveryDate     = "Delivery Date"
)

// Column headers of the product-supplier table
const (
	ColProductCategory  = "Product Category"
	ColCostPricePerUnit = "Cost Price Per Unit"
	ColProductName      = "Product Name"
	ColSupplierName     = "Supplier Name"
)

var (
	requiredOrderColumns = []string{
		ColOrderID, ColProductID, ColCustomerID, ColCustomerStatus,
		ColQuantityOrdered, ColTotalRetailPrice, ColOrderDate, ColDeliveryDate,
	}
	requiredProductColumns = []string{ColProductID, ColProductCategory}

	validate = validator.New()
)

// OrdersTable is the parsed orders file
type OrdersTable struct {
	Orders []domain.Order
	// HasCost is true when the file carries its own Cost Price Per Unit column
	HasCost bool
}

// ProductsTable is the parsed product-supplier file
type ProductsTable struct {
	Products []domain.Product
	HasCost  bool
}

// header maps column names to their position in a row
type header map[string]int

func (h header) has(col string) bool {
	_, ok := h[col]
	return ok
}

// table is a decoded CSV file with its header resolved
type table struct {
	name   string
	header header
	rows   [][]string
}

// cell returns the trimmed value of col in the data row at index i
func (t *table) cell(i int, col string) string {
	idx, ok := t.header[col]
	if !ok || idx >= len(t.rows[i]) {
		return ""
	}
	return strings.TrimSpace(t.rows[i][idx])
}

// rowNumber converts a data row index to the 1-based file line, header included
func rowNumber(i int) int {
	return i + 2
}

// readTable decodes a UTF-8 CSV stream, dropping a leading byte order mark,
// and checks that every required column is present.
func readTable(r io.Reader, name string, required []string) (*table, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := csv.NewReader(decoded)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read %s", name), err).
			WithContext("file", name)
	}
	if len(records) == 0 {
		return nil, apperrors.NewParsingError(fmt.Sprintf("%s is empty", name), apperrors.ErrNoData).
			WithContext("file", name)
	}

	h := make(header, len(records[0]))
	for i, col := range records[0] {
		col = strings.TrimSpace(col)
		if _, dup := h[col]; !dup {
			h[col] = i
		}
	}

	var missing []string
	for _, col := range required {
		if !h.has(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("%s is missing required columns: %s", name, strings.Join(missing, ", ")), nil).
			WithContext("file", name).
			WithContext("columns", missing)
	}

	return &table{name: name, header: h, rows: records[1:]}, nil
}

// ReadOrders parses the orders table. Dates are parsed with layout.
func ReadOrders(r io.Reader, name, layout string) (*OrdersTable, error) {
	t, err := readTable(r, name, requiredOrderColumns)
	if err != nil {
		return nil, err
	}

	out := &OrdersTable{
		Orders:  make([]domain.Order, 0, len(t.rows)),
		HasCost: t.header.has(ColCostPricePerUnit),
	}

	for i := range t.rows {
		order, err := parseOrder(t, i, layout)
		if err != nil {
			return nil, err
		}
		out.Orders = append(out.Orders, order)
	}

	return out, nil
}

func parseOrder(t *table, i int, layout string) (domain.Order, error) {
	var (
		order domain.Order
		err   error
	)

	order.OrderID = t.cell(i, ColOrderID)
	order.ProductID = t.cell(i, ColProductID)
	order.CustomerID = t.cell(i, ColCustomerID)
	order.CustomerStatus = t.rows[i][t.header[ColCustomerStatus]]

	if order.QuantityOrdered, err = parseInt(t, i, ColQuantityOrdered); err != nil {
		return order, err
	}
	if order.TotalRetailPrice, err = parseFloat(t, i, ColTotalRetailPrice); err != nil {
		return order, err
	}
	if order.OrderDate, err = parseDate(t, i, ColOrderDate, layout); err != nil {
		return order, err
	}
	if order.DeliveryDate, err = parseDate(t, i, ColDeliveryDate, layout); err != nil {
		return order, err
	}

	order.UnitCost = domain.Missing()
	if t.header.has(ColCostPricePerUnit) {
		if order.UnitCost, err = parseFloat(t, i, ColCostPricePerUnit); err != nil {
			return order, err
		}
	}

	if err := validate.Struct(order); err != nil {
		return order, validationError(t.name, rowNumber(i), err)
	}

	return order, nil
}

// ReadProducts parses the product-supplier table
func ReadProducts(r io.Reader, name string) (*ProductsTable, error) {
	t, err := readTable(r, name, requiredProductColumns)
	if err != nil {
		return nil, err
	}

	out := &ProductsTable{
		Products: make([]domain.Product, 0, len(t.rows)),
		HasCost:  t.header.has(ColCostPricePerUnit),
	}

	for i := range t.rows {
		p := domain.Product{
			ProductID:        t.cell(i, ColProductID),
			ProductCategory:  t.cell(i, ColProductCategory),
			ProductName:      t.cell(i, ColProductName),
			SupplierName:     t.cell(i, ColSupplierName),
			CostPricePerUnit: domain.Missing(),
		}
		if out.HasCost {
			if p.CostPricePerUnit, err = parseFloat(t, i, ColCostPricePerUnit); err != nil {
				return nil, err
			}
		}
		if err := validate.Struct(p); err != nil {
			return nil, validationError(t.name, rowNumber(i), err)
		}
		out.Products = append(out.Products, p)
	}

	return out, nil
}

// parseFloat reads a currency cell. Empty cells are missing values.
func parseFloat(t *table, i int, col string) (float64, error) {
	raw := t.cell(i, col)
	if raw == "" {
		return domain.Missing(), nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperrors.NewCellError(t.name, rowNumber(i), col, err)
	}
	return v, nil
}

func parseInt(t *table, i int, col string) (int, error) {
	raw := t.cell(i, col)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewCellError(t.name, rowNumber(i), col, err)
	}
	return v, nil
}

func parseDate(t *table, i int, col, layout string) (time.Time, error) {
	raw := t.cell(i, col)
	v, err := time.Parse(layout, raw)
	if err != nil {
		return time.Time{}, apperrors.NewCellError(t.name, rowNumber(i), col, err)
	}
	return v, nil
}

// validationError converts validator failures into a VALIDATION error
// naming the offending row and fields.
func validationError(file string, row int, err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewValidationError(fmt.Sprintf("%s row %d", file, row), err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s=%s, got %v)", fe.Field(), fe.Tag(), fe.Param(), fe.Value()))
	}
	return apperrors.NewValidationError(
		fmt.Sprintf("%s row %d: %s", file, row, strings.Join(fields, "; ")), err).
		WithContext("file", file).
		WithContext("row", row)
}
