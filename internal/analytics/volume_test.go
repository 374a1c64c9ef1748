package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "ecomreport/internal/errors"
	"ecomreport/pkg/contracts/domain"
)

func TestTopCategoriesByVolume_LatestYearOnly(t *testing.T) {
	ds := dataset(
		// 2022 would dominate if years were mixed
		rec(2022, 6, 1, withCategory("Garden"), withQuantity(500)),
		rec(2023, 1, 1, withCategory("Toys"), withQuantity(5)),
		rec(2023, 2, 1, withCategory("Toys"), withQuantity(5)),
		rec(2023, 1, 1, withCategory("Books"), withQuantity(12)),
		rec(2023, 3, 1, withCategory("Games"), withQuantity(3)),
		rec(2023, 3, 1, withCategory("Audio"), withQuantity(1)),
		rec(2023, 3, 1, withCategory(""), withQuantity(100)),
	)

	year, top, err := TopCategoriesByVolume(ds, 3)
	require.NoError(t, err)
	assert.Equal(t, 2023, year)
	assert.Equal(t, []CategoryVolume{
		{Category: "Books", Quantity: 12},
		{Category: "Toys", Quantity: 10},
		{Category: "Games", Quantity: 3},
	}, top)
}

func TestCategoryVolumes_TiesByName(t *testing.T) {
	ds := dataset(
		rec(2023, 1, 1, withCategory("Toys"), withQuantity(4)),
		rec(2023, 1, 1, withCategory("Books"), withQuantity(4)),
	)

	vols := CategoryVolumes(ds, 2023)
	require.Len(t, vols, 2)
	assert.Equal(t, "Books", vols[0].Category)
}

func TestTopCategoriesByVolume_Empty(t *testing.T) {
	_, _, err := TopCategoriesByVolume(domain.NewDataset(nil), 3)
	assert.ErrorIs(t, err, apperrors.ErrNoData)
}
