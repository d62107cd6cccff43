package cmd

import (
	"errors"

	"bling-sync/core/database"
	"bling-sync/feature/integrity/checks"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// schemaCmd migrates the schema and prints the resulting columns.
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Create or update the tables and print their columns",
	RunE:  runSchema,
}

var schemaCheckOnly bool

func init() {
	schemaCmd.Flags().BoolVar(&schemaCheckOnly, "check", false, "Report missing tables and columns without migrating")
	RootCmd.AddCommand(schemaCmd)
}

// checkSchema logs every table that drifted from its model.
func checkSchema(db *gorm.DB, l *zap.Logger) error {
	report, err := checks.CheckSchema(db, schemaModels()...)
	if err != nil {
		return err
	}
	for table, tr := range report.Tables {
		if tr.Status == "ok" {
			continue
		}
		l.Warn("Schema drift",
			zap.String("table", table),
			zap.String("status", tr.Status),
			zap.Strings("missing_columns", tr.MissingColumns),
		)
	}
	if !report.Matched {
		return errors.New("schema does not match the models; run 'bling-sync schema' to migrate")
	}
	l.Info("Schema matches the models", zap.Int("tables", len(report.Tables)))
	return nil
}

func runSchema(cmd *cobra.Command, args []string) error {
	cfg, l, err := loadConfig()
	if err != nil {
		return err
	}
	defer l.Sync()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	if schemaCheckOnly {
		return checkSchema(db, l)
	}
	if err := database.Migrate(db, schemaModels()...); err != nil {
		return err
	}

	for _, model := range schemaModels() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return err
		}
		table := stmt.Schema.Table

		columns, err := database.GetTableColumns(db, table)
		if err != nil {
			return err
		}
		names := make([]string, len(columns))
		for i, c := range columns {
			names[i] = c.Field + " " + c.Type
		}
		l.Info("Table", zap.String("table", table), zap.Strings("columns", names))
	}
	return nil
}
