package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScatterViews(t *testing.T) {
	ds := dataset(
		rec(2023, 1, 1, withPrice(10, 4), withProfit(16), withQuantity(2)),
		rec(2023, 1, 2, withPrice(5, math.NaN()), withProfit(math.NaN()), withQuantity(3)),
	)

	assert.Equal(t, []Point{{X: 4, Y: 16}}, CostVsProfit(ds))
	assert.Equal(t, []Point{{X: 10, Y: 2}, {X: 5, Y: 3}}, UnitPriceVsQuantity(ds))
}
