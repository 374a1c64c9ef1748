package dataprocessing

import (
	"context"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logcapture "ecomreport/internal/shared/testutil"
	"ecomreport/pkg/contracts/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCapitalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"gold", "Gold"},
		{"GOLD", "Gold"},
		{"sILVER", "Silver"},
		{"Platinum", "Platinum"},
		{"", ""},
		{" gold", " gold"},
		{"gold member", "Gold member"},
		{"élite", "Élite"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Capitalize(tt.in))
		})
	}
}

func TestDeliveryDays(t *testing.T) {
	assert.Equal(t, 5, DeliveryDays(date(2023, 1, 10), date(2023, 1, 15)))
	assert.Equal(t, -5, DeliveryDays(date(2023, 1, 15), date(2023, 1, 10)))
	assert.Equal(t, 0, DeliveryDays(date(2023, 1, 10), date(2023, 1, 10)))
	assert.Equal(t, 1, DeliveryDays(date(2023, 12, 31), date(2024, 1, 1)))
}

func enrichFixture() domain.Dataset {
	return domain.NewDataset([]domain.Record{
		{
			Order: domain.Order{
				OrderID: "1", CustomerID: "7", CustomerStatus: "GOLD",
				QuantityOrdered: 3, TotalRetailPrice: 30,
				OrderDate: date(2023, 1, 10), DeliveryDate: date(2023, 1, 15),
			},
			Matched: true, Category: "Toys", Cost: 4,
		},
		{
			Order: domain.Order{
				OrderID: "2", CustomerID: "8", CustomerStatus: "bronze",
				QuantityOrdered: 7, TotalRetailPrice: 22.05,
				OrderDate: date(2023, 2, 15), DeliveryDate: date(2023, 2, 10),
			},
			Cost: math.NaN(),
		},
	})
}

func TestEnrich(t *testing.T) {
	input := enrichFixture()

	logger, logs := logcapture.NewTestLogger(nil)
	out, report := Enrich(context.Background(), input, ProfitPerUnit, logger)
	require.Equal(t, 2, out.Len())
	assert.True(t, out.Derived())

	first := out.At(0)
	assert.Equal(t, "Gold", first.CustomerStatus)
	assert.Equal(t, domain.TierGold, first.Tier)
	assert.Equal(t, 10.0, first.UnitPrice)
	assert.Equal(t, 26.0, first.Profit)
	assert.Equal(t, 2023, first.Year)
	assert.Equal(t, time.January, first.Month)
	assert.Equal(t, 5, first.DeliveryDays)

	second := out.At(1)
	assert.Equal(t, "Bronze", second.CustomerStatus)
	assert.Equal(t, domain.TierUnknown, second.Tier)
	assert.True(t, math.IsNaN(second.Profit), "missing cost propagates")
	assert.Equal(t, -5, second.DeliveryDays)

	assert.Equal(t, map[string]int{"Bronze": 1}, report.UnknownTiers)
	assert.Equal(t, 1, report.NegativeDeliveries)

	rec := logcapture.AssertLogged(t, logs, slog.LevelWarn, "Unrecognized customer status")
	assert.Equal(t, "Bronze", rec.Attrs["status"])
	logcapture.AssertLogged(t, logs, slog.LevelWarn, "Delivery date precedes order date")

	// The input dataset is not modified
	assert.False(t, input.Derived())
	assert.Equal(t, "GOLD", input.At(0).CustomerStatus)
	assert.Zero(t, input.At(0).UnitPrice)
}

func TestEnrich_ProfitPerOrder(t *testing.T) {
	out, _ := Enrich(context.Background(), enrichFixture(), ProfitPerOrder, nil)
	assert.Equal(t, 18.0, out.At(0).Profit)
}

func TestEnrich_UnitPriceRoundTrip(t *testing.T) {
	out, _ := Enrich(context.Background(), enrichFixture(), ProfitPerUnit, nil)
	out.Each(func(r domain.Record) {
		assert.InDelta(t, r.TotalRetailPrice, r.UnitPrice*float64(r.QuantityOrdered), 1e-9)
	})
}
