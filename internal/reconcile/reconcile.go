// Package reconcile partitions a validated import batch into inserts and
// updates against a snapshot of already-persisted records. Only entities
// with a natural dedup key go through here; in this system that is the
// product catalog, keyed by name plus manufacturer.
package reconcile

import (
	"strings"

	"salescockpit/internal/models"
)

// Result of partitioning one batch. The caller applies ToInsert as a single
// bulk operation first, then each ToUpdate row individually so that one
// failed update stays independently reportable and cannot corrupt rows the
// bulk insert already wrote.
type Result struct {
	ToInsert []models.Row
	ToUpdate []Update
}

// Update pairs a validated row with the id of the existing record it
// replaces.
type Update struct {
	ID  string
	Row models.Row
}

// Key builds the normalized natural key for a product row: lowercased
// product name and manufacturer. Two rows with equal keys are the same
// logical entity; the later one updates the earlier.
func Key(product, manufacturer string) string {
	return strings.ToLower(product) + "|" + strings.ToLower(manufacturer)
}

// Partition splits validated rows into inserts and updates using the given
// snapshot of existing records. The snapshot must be captured once,
// immediately before partitioning; refreshing it mid-run can race a
// concurrent writer into duplicate inserts (known limitation — a storage-
// side upsert with a conflict key would close it).
func Partition(rows []models.Row, existing []models.ExistingRecord) Result {
	byKey := make(map[string]string, len(existing))
	for _, rec := range existing {
		byKey[Key(rec.Product, rec.Manufacturer)] = rec.ID
	}

	result := Result{}
	for _, row := range rows {
		key := Key(stringField(row, "product"), stringField(row, "manufacturer"))
		if id, ok := byKey[key]; ok {
			result.ToUpdate = append(result.ToUpdate, Update{ID: id, Row: row})
		} else {
			result.ToInsert = append(result.ToInsert, row)
		}
	}
	return result
}

func stringField(row models.Row, field string) string {
	if s, ok := row[field].(string); ok {
		return s
	}
	return ""
}
