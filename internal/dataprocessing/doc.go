// Package dataprocessing turns the two input CSV files into the joined,
// enriched dataset the report views are computed from.
//
// # Data Flow
//
//	orders.csv ─┐
//	            ├─ Loader.Load ─ Join ─ Diagnose
//	products.csv┘                  └─ Enrich ─ derived dataset
//
// Both files are read concurrently. Columns are located by header name, so
// column order does not matter and extra columns are ignored. A leading
// UTF-8 byte order mark is dropped.
//
// # Error Handling
//
// Failures are returned as *errors.AppError values:
//
//   - PARSING for a missing required column or a malformed number or date,
//     naming the file, the 1-based row and the column
//   - VALIDATION for rows that parse but break a field rule, such as a
//     non-positive Quantity Ordered
//   - NOT_FOUND when an input file does not exist
//
// Empty price and cost cells are read as missing values (NaN) and propagate
// through the derived columns.
package dataprocessing
