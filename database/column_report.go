package database

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rpupo63/blog-platform/models"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// ColumnReport lists, per table, the columns present in the database that no
// model field maps to. Rows imported from the old document store tend to
// carry such columns and they are silently ignored by every repository.
type ColumnReport map[string][]string

// reportedModels maps each table to the model that reads it.
var reportedModels = []any{
	&models.BlogPost{},
	&models.Profile{},
	&models.LegacyComment{},
	&models.Credential{},
}

// UnmappedColumns builds a ColumnReport. Tables that do not exist yet are skipped.
func UnmappedColumns(db *gorm.DB) (ColumnReport, error) {
	report := ColumnReport{}
	cache := &sync.Map{}

	for _, model := range reportedModels {
		s, err := schema.Parse(model, cache, db.NamingStrategy)
		if err != nil {
			return nil, fmt.Errorf("parse schema of %T: %w", model, err)
		}

		if !db.Migrator().HasTable(s.Table) {
			continue
		}

		columnTypes, err := db.Migrator().ColumnTypes(s.Table)
		if err != nil {
			return nil, fmt.Errorf("error querying columns for table %s: %w", s.Table, err)
		}

		dbColumns := make([]string, 0, len(columnTypes))
		for _, ct := range columnTypes {
			dbColumns = append(dbColumns, ct.Name())
		}

		if unmapped := findColumnMismatches(dbColumns, s.DBNames); len(unmapped) > 0 {
			report[s.Table] = unmapped
		}
	}

	return report, nil
}

// Tables returns the report's table names in a stable order.
func (r ColumnReport) Tables() []string {
	tables := make([]string, 0, len(r))
	for table := range r {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	return tables
}

// findColumnMismatches finds columns that exist in the database but not in the model
func findColumnMismatches(dbColumns, modelFields []string) []string {
	modelFieldSet := make(map[string]bool, len(modelFields))
	for _, field := range modelFields {
		modelFieldSet[field] = true
	}

	var mismatches []string
	for _, col := range dbColumns {
		if !modelFieldSet[col] {
			mismatches = append(mismatches, col)
		}
	}

	return mismatches
}
