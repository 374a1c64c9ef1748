package operations_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecomreport/internal/operations"
	"ecomreport/internal/operations/testutil"
)

func TestRegistry(t *testing.T) {
	registry := operations.NewRegistry()

	assert.Equal(t, 0, registry.Count())

	// List should return empty slice, not nil
	steps := registry.List()
	assert.NotNil(t, steps)
	assert.Empty(t, steps)
}

func TestRegistryRegister(t *testing.T) {
	registry := operations.NewRegistry()

	stage1 := testutil.CreateSuccessfulStage("stage1", "Step 1")
	stage2 := testutil.CreateSuccessfulStage("stage2", "Step 2")
	stage3 := testutil.CreateSuccessfulStage("stage3", "Step 3")

	require.NoError(t, registry.RegisterAll(stage1, stage2, stage3))
	assert.Equal(t, 3, registry.Count())

	got, err := registry.Get("stage1")
	require.NoError(t, err)
	assert.Same(t, stage1, got)

	assert.Equal(t, []string{"stage1", "stage2", "stage3"}, registry.ListIDs())
	assert.True(t, registry.Has("stage2"))
	assert.False(t, registry.Has("stage4"))
}

func TestRegistryRegisterErrors(t *testing.T) {
	tests := []struct {
		name    string
		step    operations.Step
		wantErr string
	}{
		{"nil step", nil, "nil step"},
		{"empty id", &testutil.MockStage{NameValue: "Empty ID Step"}, "ID cannot be empty"},
		{"duplicate", testutil.CreateSuccessfulStage("stage1", "again"), "already registered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := testutil.CreateTestRegistry()
			err := registry.Register(tt.step)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	registry := testutil.CreateTestRegistry()

	_, err := registry.Get("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestPipelineRegistryOrder(t *testing.T) {
	registry, err := operations.NewPipelineRegistry(operations.DefaultStageConfig(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{
		operations.StageIDLoadJoin,
		operations.StageIDNormalizeStatus,
		operations.StageIDCategoryProfitability,
		operations.StageIDMonthlyProfit,
		operations.StageIDRelationships,
		operations.StageIDTopCategories,
		operations.StageIDDeliveryStats,
		operations.StageIDLoyalCustomers,
	}, registry.ListIDs())

	for _, step := range registry.List() {
		assert.NotEmpty(t, step.Name(), step.ID())
	}
}
