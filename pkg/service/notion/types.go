package notion

import (
	"context"
	"iter"
	"time"
)

// Service provides interface to Notion API
type Service interface {
	// QueryTestCases reads test case rows from a database. Rows edited before
	// since are skipped; a zero since reads the whole database. A row that
	// cannot be converted yields an error and iteration continues.
	QueryTestCases(ctx context.Context, dbID string, fields TestCaseFields, since time.Time) iter.Seq2[*TestCaseRow, error]
}

// TestCaseFields names the database properties holding each test case field
type TestCaseFields struct {
	// ID is a number property with the test case's external ID
	ID string
	// Title is the title property
	Title string
	// Tags is a multi_select or rich_text (comma separated) property
	Tags string
	// State is a select or status property
	State string
}

// DefaultTestCaseFields returns the property names used when none are configured
func DefaultTestCaseFields() TestCaseFields {
	return TestCaseFields{
		ID:    "ID",
		Title: "Name",
		Tags:  "Tags",
		State: "Status",
	}
}

// TestCaseRow is one database row converted to test case fields
type TestCaseRow struct {
	PageID         string
	ID             int64
	Title          string
	Tags           []string
	State          string
	URL            string
	LastEditedTime time.Time
}
