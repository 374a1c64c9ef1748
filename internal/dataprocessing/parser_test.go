package dataprocessing

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "ecomreport/internal/errors"
)

const ordersHeader = "Order ID,Product ID,Customer ID,Customer Status,Quantity Ordered,Total Retail Price for This Order,Date Order was placed,Delivery Date\n"

func TestReadOrders(t *testing.T) {
	input := "\xEF\xBB\xBF" + ordersHeader +
		"1001,P1,7,GOLD,2,50.00,01-Jan-17,05-Jan-17\n" +
		"1002,P2,8,silver,1,,1-Feb-17,3-feb-17\n"

	table, err := ReadOrders(strings.NewReader(input), "orders.csv", "2-Jan-06")
	require.NoError(t, err)
	require.Len(t, table.Orders, 2)
	assert.False(t, table.HasCost)

	first := table.Orders[0]
	assert.Equal(t, "1001", first.OrderID)
	assert.Equal(t, "P1", first.ProductID)
	assert.Equal(t, "GOLD", first.CustomerStatus)
	assert.Equal(t, 2, first.QuantityOrdered)
	assert.Equal(t, 50.0, first.TotalRetailPrice)
	assert.Equal(t, time.Date(2017, time.January, 1, 0, 0, 0, 0, time.UTC), first.OrderDate)
	assert.True(t, math.IsNaN(first.UnitCost))

	second := table.Orders[1]
	assert.True(t, math.IsNaN(second.TotalRetailPrice), "empty price is a missing value")
	assert.Equal(t, time.February, second.OrderDate.Month())
	assert.Equal(t, 3, second.DeliveryDate.Day())
}

func TestReadOrders_WithCostColumn(t *testing.T) {
	input := "Order ID,Product ID,Customer ID,Customer Status,Quantity Ordered,Total Retail Price for This Order,Date Order was placed,Delivery Date,Cost Price Per Unit\n" +
		"1,P1,7,Gold,1,20,01-Jan-17,02-Jan-17,12.5\n"

	table, err := ReadOrders(strings.NewReader(input), "orders.csv", "2-Jan-06")
	require.NoError(t, err)
	assert.True(t, table.HasCost)
	assert.Equal(t, 12.5, table.Orders[0].UnitCost)
}

func TestReadOrders_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantType apperrors.ErrorType
		contains []string
	}{
		{
			name:     "missing column",
			input:    "Order ID,Product ID\n1,P1\n",
			wantType: apperrors.ErrTypeParsing,
			contains: []string{"missing required columns", "Customer ID", "Delivery Date"},
		},
		{
			name:     "bad date names row and column",
			input:    ordersHeader + "1,P1,7,Gold,1,20,01-Jan-17,02-Jan-17\n2,P1,7,Gold,1,20,2017-01-01,02-Jan-17\n",
			wantType: apperrors.ErrTypeParsing,
			contains: []string{"orders.csv row 3", `"Date Order was placed"`},
		},
		{
			name:     "bad price",
			input:    ordersHeader + "1,P1,7,Gold,1,twenty,01-Jan-17,02-Jan-17\n",
			wantType: apperrors.ErrTypeParsing,
			contains: []string{"row 2", "Total Retail Price for This Order"},
		},
		{
			name:     "zero quantity",
			input:    ordersHeader + "1,P1,7,Gold,0,20,01-Jan-17,02-Jan-17\n",
			wantType: apperrors.ErrTypeValidation,
			contains: []string{"row 2", "QuantityOrdered"},
		},
		{
			name:     "negative quantity",
			input:    ordersHeader + "1,P1,7,Gold,-2,20,01-Jan-17,02-Jan-17\n",
			wantType: apperrors.ErrTypeValidation,
			contains: []string{"QuantityOrdered"},
		},
		{
			name:     "empty file",
			input:    "",
			wantType: apperrors.ErrTypeParsing,
			contains: []string{"empty"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadOrders(strings.NewReader(tt.input), "orders.csv", "2-Jan-06")
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, tt.wantType), "got %v", err)
			for _, s := range tt.contains {
				assert.Contains(t, err.Error(), s)
			}
		})
	}
}

func TestReadProducts(t *testing.T) {
	input := "Product ID,Product Category,Cost Price Per Unit,Product Name,Supplier Name\n" +
		"P1,Toys,10.5,Robot,Acme\n" +
		"P2,Books,,Atlas,\n"

	table, err := ReadProducts(strings.NewReader(input), "product_supplier.csv")
	require.NoError(t, err)
	require.Len(t, table.Products, 2)
	assert.True(t, table.HasCost)

	assert.Equal(t, "Toys", table.Products[0].ProductCategory)
	assert.Equal(t, 10.5, table.Products[0].CostPricePerUnit)
	assert.Equal(t, "Robot", table.Products[0].ProductName)
	assert.Equal(t, "Acme", table.Products[0].SupplierName)
	assert.True(t, math.IsNaN(table.Products[1].CostPricePerUnit))
}

func TestReadProducts_MissingKey(t *testing.T) {
	input := "Product ID,Product Category\n,Toys\n"

	_, err := ReadProducts(strings.NewReader(input), "product_supplier.csv")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
}
