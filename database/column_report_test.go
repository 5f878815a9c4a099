package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindColumnMismatches(t *testing.T) {
	dbColumns := []string{"id", "title", "legacy_slug", "likes", "views"}
	modelFields := []string{"id", "title", "likes", "comments"}

	assert.Equal(t, []string{"legacy_slug", "views"}, findColumnMismatches(dbColumns, modelFields))
	assert.Empty(t, findColumnMismatches([]string{"id"}, []string{"id", "title"}))
}

func TestColumnReportTables(t *testing.T) {
	report := ColumnReport{
		"users":      {"avatar"},
		"blog_posts": {"legacy_slug"},
	}

	assert.Equal(t, []string{"blog_posts", "users"}, report.Tables())
	assert.Empty(t, ColumnReport{}.Tables())
}
