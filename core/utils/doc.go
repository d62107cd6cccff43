// Package utils provides small helpers shared by the importers: ERP date
// parsing and formatting, id rendering and list parsing for configuration.
package utils
