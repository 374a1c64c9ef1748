// Package analytics computes the report views over an enriched dataset.
//
// Every function is pure: it reads a domain.Dataset and returns plain
// values, leaving rendering to the caller. Missing values follow the same
// rules throughout:
//
//   - sums and medians skip NaN
//   - group-bys skip records without a category, so unmatched orders never
//     form their own group
//   - groups are visited in ascending key order and ranking sorts are
//     stable, so ties keep that order
//
// # Views
//
//   - profitability.go: median-based profit percentage per category
//   - monthly.go: profit summed per year and month
//   - scatter.go: per-record relationship points
//   - volume.go: quantity per category in the latest year
//   - delivery.go: order-to-delivery length per month
//   - loyalty.go: loyal customers and their tier distribution
package analytics
