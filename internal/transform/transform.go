// Package transform coerces raw spreadsheet cells into typed field values
// and stamps every row with its upload provenance.
package transform

import (
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"salescockpit/internal/mapping"
	"salescockpit/internal/models"
)

// Fields parsed as floating point numbers. A cell that does not parse
// becomes nil; NaN never leaves this package.
var numericFields = map[string]bool{
	"price":      true,
	"inventory":  true,
	"lead_time":  true,
	"similarity": true,
	"score":      true,
}

// Marker fields with the display convention "Y" or empty string. The empty
// string (not nil) is deliberate: downstream display logic distinguishes
// "flag known to be off" from "no value".
var flagFields = map[string]bool{
	"is_new": true,
	"is_top": true,
}

// Truthy spellings accepted for flag fields after trimming and lowercasing.
var truthy = map[string]bool{
	"y":    true,
	"yes":  true,
	"true": true,
	"1":    true,
}

// Provenance identifies one upload batch. BatchID is generated once per
// submission and shared by every row of the batch.
type Provenance struct {
	Actor   string
	BatchID string
	Tenant  string
}

// NewProvenance returns a Provenance for actor and tenant with a fresh
// batch identifier.
func NewProvenance(actor, tenant string) Provenance {
	return Provenance{
		Actor:   actor,
		BatchID: uuid.NewString(),
		Tenant:  tenant,
	}
}

// Row transforms one source record into a typed row using the column
// mapping. Per field: missing or empty source values become nil, numeric
// fields parse as float64 (nil on failure), flag fields normalize to "Y" or
// "", all other strings are trimmed. Provenance fields are appended last;
// they are not part of the source file.
func Row(rec models.SourceRecord, m mapping.ColumnMapping, dt models.DataTypeDescriptor, prov Provenance) models.Row {
	row := make(models.Row, len(dt.Fields)+3)

	for _, field := range dt.Fields {
		col, mapped := m[field]
		if !mapped {
			row[field] = nil
			continue
		}
		raw, present := rec[col]
		row[field] = coerce(field, raw, present)
	}

	row[models.FieldCreatedBy] = prov.Actor
	row[models.FieldBatchID] = prov.BatchID
	row[models.FieldTenant] = prov.Tenant

	return row
}

func coerce(field, raw string, present bool) any {
	if !present || raw == "" {
		return nil
	}

	if numericFields[field] {
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		// ParseFloat accepts "NaN" and "Inf"; neither is a usable value.
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return f
	}

	if flagFields[field] {
		if truthy[strings.ToLower(strings.TrimSpace(raw))] {
			return "Y"
		}
		return ""
	}

	return strings.TrimSpace(raw)
}
