package dataprocessing

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sort"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"ecomreport/pkg/contracts/domain"
)

// ProfitMode selects how Profit is derived from price and cost
type ProfitMode string

const (
	// ProfitPerUnit subtracts the unit cost from the order total
	ProfitPerUnit ProfitMode = "unit"
	// ProfitPerOrder subtracts unit cost × quantity from the order total
	ProfitPerOrder ProfitMode = "order"
)

// Capitalize upper-cases the first character of s and lower-cases the rest.
// Surrounding whitespace is kept, so " gold" stays " gold".
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	// Casers are stateful and not safe for concurrent use
	_, size := utf8.DecodeRuneInString(s)
	return cases.Title(language.Und).String(s[:size]) + cases.Lower(language.Und).String(s[size:])
}

// DeliveryDays returns the number of calendar days from ordered to delivered.
// The result is negative when delivery precedes the order.
func DeliveryDays(ordered, delivered time.Time) int {
	o := time.Date(ordered.Year(), ordered.Month(), ordered.Day(), 0, 0, 0, 0, time.UTC)
	d := time.Date(delivered.Year(), delivered.Month(), delivered.Day(), 0, 0, 0, 0, time.UTC)
	return int(math.Round(d.Sub(o).Hours() / 24))
}

// EnrichReport summarizes what normalization found
type EnrichReport struct {
	// UnknownTiers counts records per status label outside the tier set
	UnknownTiers       map[string]int `json:"unknown_tiers,omitempty"`
	NegativeDeliveries int            `json:"negative_deliveries"`
}

// Enrich normalizes Customer Status and computes the derived columns. It
// returns a new dataset; ds is left untouched.
func Enrich(ctx context.Context, ds domain.Dataset, mode ProfitMode, logger *slog.Logger) (domain.Dataset, EnrichReport) {
	if logger == nil {
		logger = slog.Default()
	}

	report := EnrichReport{UnknownTiers: make(map[string]int)}
	records := ds.Records()

	for i := range records {
		r := &records[i]

		r.CustomerStatus = Capitalize(r.CustomerStatus)
		r.UnitPrice = r.TotalRetailPrice / float64(r.QuantityOrdered)

		switch mode {
		case ProfitPerOrder:
			r.Profit = r.TotalRetailPrice - r.Cost*float64(r.QuantityOrdered)
		default:
			r.Profit = r.TotalRetailPrice - r.Cost
		}

		r.Year = r.OrderDate.Year()
		r.Month = r.OrderDate.Month()

		r.DeliveryDays = DeliveryDays(r.OrderDate, r.DeliveryDate)
		if r.DeliveryDays < 0 {
			report.NegativeDeliveries++
		}

		tier, err := domain.ParseTier(r.CustomerStatus)
		if err != nil && errors.Is(err, domain.ErrUnknownTier) {
			report.UnknownTiers[r.CustomerStatus]++
		}
		r.Tier = tier
	}

	labels := make([]string, 0, len(report.UnknownTiers))
	for label := range report.UnknownTiers {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		logger.WarnContext(ctx, "Unrecognized customer status",
			slog.String("status", label),
			slog.Int("records", report.UnknownTiers[label]))
	}
	if report.NegativeDeliveries > 0 {
		logger.WarnContext(ctx, "Delivery date precedes order date",
			slog.Int("records", report.NegativeDeliveries))
	}

	return ds.WithDerived(records), report
}
