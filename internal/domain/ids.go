package domain

import (
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// RecordSeq extracts the numeric part of a SurrealDB record ID. All tables in
// this application use integer record ids allocated from per-table sequences,
// so this is the value exposed on the wire. Returns 0 for a nil id.
func RecordSeq(id *surrealmodels.RecordID) int64 {
	if id == nil {
		return 0
	}
	switch v := id.ID.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case uint64:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}
