package testutil

import (
	"context"
	"time"

	"ecomreport/internal/operations"
	"ecomreport/pkg/contracts/domain"
)

// CreateTestRegistry creates a registry with test steps
func CreateTestRegistry() *operations.Registry {
	registry := operations.NewRegistry()

	registry.Register(CreateSuccessfulStage("stage1", "step 1"))
	registry.Register(CreateSuccessfulStage("stage2", "step 2"))
	registry.Register(CreateSuccessfulStage("stage3", "step 3"))

	return registry
}

// CreateSuccessfulStage creates a step that always succeeds
func CreateSuccessfulStage(id, name string) *MockStage {
	return &MockStage{
		IDValue:   id,
		NameValue: name,
	}
}

// CreateFailingStage creates a step that always fails with err
func CreateFailingStage(id, name string, err error) *MockStage {
	return &MockStage{
		IDValue:   id,
		NameValue: name,
		ExecuteFunc: func(ctx context.Context, in operations.StepInput) (*operations.StepOutput, error) {
			return nil, err
		},
	}
}

// CreateSlowStage creates a step that waits for duration or cancellation
func CreateSlowStage(id, name string, duration time.Duration) *MockStage {
	return &MockStage{
		IDValue:   id,
		NameValue: name,
		ExecuteFunc: func(ctx context.Context, in operations.StepInput) (*operations.StepOutput, error) {
			select {
			case <-time.After(duration):
				return &operations.StepOutput{}, nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		},
	}
}

// CreateDatasetStage creates a step that replaces the dataset with records
func CreateDatasetStage(id, name string, records ...domain.Record) *MockStage {
	return &MockStage{
		IDValue:   id,
		NameValue: name,
		ExecuteFunc: func(ctx context.Context, in operations.StepInput) (*operations.StepOutput, error) {
			ds := domain.NewDataset(records)
			return &operations.StepOutput{Dataset: &ds}, nil
		},
	}
}

// CreateArtifactStage creates a step that emits one table artifact per name
func CreateArtifactStage(id, name string, artifacts ...string) *MockStage {
	return &MockStage{
		IDValue:   id,
		NameValue: name,
		ExecuteFunc: func(ctx context.Context, in operations.StepInput) (*operations.StepOutput, error) {
			out := &operations.StepOutput{}
			for _, a := range artifacts {
				out.Artifacts = append(out.Artifacts, domain.NewTableArtifact(a, domain.Table{
					Title:   a,
					Headers: []string{"value"},
					Rows:    [][]string{{"1"}},
				}))
			}
			return out, nil
		},
	}
}

// OrdersHeader is the header row of a well-formed orders file
var OrdersHeader = []string{
	"Order ID", "Product ID", "Customer ID", "Customer Status", "Quantity Ordered",
	"Total Retail Price for This Order", "Date Order was placed", "Delivery Date",
}

// ProductsHeader is the header row of a well-formed product-supplier file
var ProductsHeader = []string{"Product ID", "Product Category", "Cost Price Per Unit"}

// SampleOrders covers two years, an unmatched product, a loyal customer and
// mixed-case statuses
var SampleOrders = [][]string{
	{"1", "P1", "C1", "silver", "2", "20", "01-Jan-17", "05-Jan-17"},
	{"2", "P2", "C2", "GOLD", "1", "50", "15-Feb-17", "20-Feb-17"},
	{"3", "P1", "C1", "Gold", "4", "48", "03-Jan-18", "06-Jan-18"},
	{"4", "P2", "C1", "gold", "1", "45", "10-Jan-18", "12-Jan-18"},
	{"5", "P1", "C1", "Gold", "1", "12", "20-Jan-18", "29-Jan-18"},
	{"6", "P3", "C1", "platinum", "2", "30", "25-Jan-18", "26-Jan-18"},
	{"7", "P9", "C3", "Silver", "3", "27", "02-Mar-18", "10-Mar-18"},
	{"8", "P2", "C2", "Silver", "2", "90", "14-Mar-18", "17-Mar-18"},
}

// SampleProducts joins every sample order except Product ID P9
var SampleProducts = [][]string{
	{"P1", "Clothes", "5"},
	{"P2", "Shoes", "30"},
	{"P3", "Clothes", "7"},
}
