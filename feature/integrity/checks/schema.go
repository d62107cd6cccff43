package checks

import (
	"fmt"

	"bling-sync/core/database"

	"gorm.io/gorm"
)

// TableReport is the result of one table.
type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	Status         string   `json:"status"` // "ok", "missing_columns", "missing_table", "error"
}

// SchemaReport strictly types the result of a schema check.
type SchemaReport struct {
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

// CheckSchema verifies the live tables against the gorm models.
func CheckSchema(db *gorm.DB, models ...any) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &SchemaReport{Matched: true, Tables: make(map[string]TableReport)}
	for _, model := range models {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("parse model %T: %w", model, err)
		}
		table := stmt.Schema.Table

		expected := stmt.Schema.DBNames

		missing, err := database.MissingColumns(db, table, expected)
		if err != nil {
			report.Matched = false
			report.Errors = append(report.Errors, err.Error())
			report.Tables[table] = TableReport{Status: "error"}
			continue
		}

		tr := TableReport{MissingColumns: missing, Status: "ok"}
		switch {
		case len(missing) == len(expected):
			// Every driver reports no columns for an absent table.
			tr.Status = "missing_table"
		case len(missing) > 0:
			tr.Status = "missing_columns"
		}
		if tr.Status != "ok" {
			report.Matched = false
		}
		report.Tables[table] = tr
	}
	return report, nil
}
