package testutils

import (
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// NewTestRecordID creates a numeric RecordID for testing purposes, matching
// the id shape the stores assign in production.
func NewTestRecordID(table string, id int64) *surrealmodels.RecordID {
	rid := surrealmodels.NewRecordID(table, id)
	return &rid
}
