package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	apperrors "ecomreport/internal/errors"
	"ecomreport/internal/validation"
)

// Tables holds both parsed input files
type Tables struct {
	Orders   *OrdersTable
	Products *ProductsTable
}

// Loader reads the orders and product-supplier files
type Loader struct {
	OrdersPath   string
	ProductsPath string
	DateLayout   string
	logger       *slog.Logger
	validator    *validation.FileValidator
}

// NewLoader creates a loader for the two input files
func NewLoader(ordersPath, productsPath, dateLayout string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		OrdersPath:   ordersPath,
		ProductsPath: productsPath,
		DateLayout:   dateLayout,
		logger:       logger,
		validator:    validation.NewFileValidator(logger),
	}
}

// Load reads both files concurrently. The first failure cancels the other read.
func (l *Loader) Load(ctx context.Context) (*Tables, error) {
	var tables Tables
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		orders, err := readFile(gctx, l.validator, l.OrdersPath, func(f *os.File) (*OrdersTable, error) {
			return ReadOrders(f, filepath.Base(l.OrdersPath), l.DateLayout)
		})
		if err != nil {
			return err
		}
		tables.Orders = orders
		l.logger.InfoContext(gctx, "Loaded orders",
			slog.String("file", l.OrdersPath),
			slog.Int("rows", len(orders.Orders)),
			slog.Bool("has_cost_column", orders.HasCost))
		return nil
	})

	g.Go(func() error {
		products, err := readFile(gctx, l.validator, l.ProductsPath, func(f *os.File) (*ProductsTable, error) {
			return ReadProducts(f, filepath.Base(l.ProductsPath))
		})
		if err != nil {
			return err
		}
		tables.Products = products
		l.logger.InfoContext(gctx, "Loaded products",
			slog.String("file", l.ProductsPath),
			slog.Int("rows", len(products.Products)),
			slog.Bool("has_cost_column", products.HasCost))
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &tables, nil
}

// readFile validates and opens path, hands it to parse and closes it before returning
func readFile[T any](ctx context.Context, v *validation.FileValidator, path string, parse func(*os.File) (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if err := v.ValidateCSVFile(path); err != nil {
		return zero, err
	}

	f, err := os.Open(path)
	if err != nil {
		return zero, apperrors.NewStorageError(fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	return parse(f)
}
