// Package config provides configuration management for ecomreport.
//
// # Configuration Sources
//
// Configuration is assembled from the following sources, later sources
// overriding earlier ones:
//
//	1. Default values (Default)
//	2. An optional YAML file (ecomreport.yaml, configs/ecomreport.yaml or --config)
//	3. Environment variables prefixed with ECOM_
//	4. Command-line flags
//
// # Environment Variables
//
//	ECOM_INPUTS_ORDERS_FILE=data/orders.csv
//	ECOM_OUTPUT_DIR=out
//	ECOM_ANALYSIS_MONTH_SELECTION=latest
//	ECOM_LOGGING_LEVEL=debug
//
// # Path Management
//
// Paths resolves every input and output location against the working
// directory, which is where the input tables are expected by default:
//
//	paths, err := config.ResolvePaths(cfg, "")
//	f, err := os.Open(paths.OrdersFile)
package config
