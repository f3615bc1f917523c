// Package mapping assigns uploaded spreadsheet columns to the target fields
// of a data type. The operator reviews and may override the proposed mapping
// before a batch is submitted.
package mapping

import (
	"fmt"
	"sort"
	"strings"

	"salescockpit/internal/models"
	"salescockpit/internal/similarity"
)

// Threshold a column must score against a field to be auto-assigned.
const matchThreshold = 0.6

// ColumnMapping maps target field name -> chosen source column name. Fields
// without a usable column are absent from the map.
type ColumnMapping map[string]string

// Map proposes a field->column assignment using a greedy pass: fields are
// visited in their declared order and each takes the best-scoring unused
// column at or above the threshold. Columns are consumed eagerly, so an
// earlier field can take a column that would have suited a later field
// better. This mirrors how operators saw assignments behave in production
// and is intentionally not a globally optimal matching.
func Map(fields []string, columns []string) ColumnMapping {
	result := make(ColumnMapping, len(fields))
	used := make(map[string]bool, len(columns))

	for _, field := range fields {
		bestScore := 0.0
		bestCol := ""
		for _, col := range columns {
			if used[col] {
				continue
			}
			if s := similarity.Score(field, col); s > bestScore {
				bestScore = s
				bestCol = col
			}
		}
		if bestScore >= matchThreshold {
			result[field] = bestCol
			used[bestCol] = true
		}
	}

	return result
}

// IncompleteError reports required fields with no assigned column at
// submission time. Nothing is sent to storage when it is returned.
type IncompleteError struct {
	Missing []string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("column mapping incomplete: no column assigned for %s",
		strings.Join(e.Missing, ", "))
}

// Validate checks m against the required fields of the active data type.
// It returns an *IncompleteError listing every uncovered required field,
// or nil when the mapping may be submitted.
func Validate(m ColumnMapping, dt models.DataTypeDescriptor) error {
	var missing []string
	for _, field := range dt.Required {
		if m[field] == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &IncompleteError{Missing: missing}
	}
	return nil
}
