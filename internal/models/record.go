package models

import (
	"sort"
	"time"
)

// SourceRecord is one row of an uploaded file as delivered by the parser:
// raw column name -> raw cell value. A file may have heterogeneous rows, so
// the effective column set of an upload is the union over all rows.
type SourceRecord map[string]string

// Row is a transformed, field-keyed record. Values are string, float64, or
// nil (absent/unparseable). Provenance fields travel in the same map so that
// the open schemas pass them through validation untouched.
type Row map[string]any

// Provenance field names injected into every transformed row. They are not
// declared in any entity schema.
const (
	FieldCreatedBy = "created_by"
	FieldBatchID   = "batch_id"
	FieldTenant    = "tenant"
)

// Columns returns the sorted union of column names seen across all
// records. The parser's Columns list carries file order; this is the
// deterministic fallback for records assembled outside the parser, where
// map iteration would otherwise randomize the order.
func Columns(records []SourceRecord) []string {
	var cols []string
	seen := make(map[string]bool)
	for _, rec := range records {
		for col := range rec {
			if !seen[col] {
				seen[col] = true
				cols = append(cols, col)
			}
		}
	}
	sort.Strings(cols)
	return cols
}

// ExistingRecord is the slice of an already-persisted document that
// reconciliation needs: its id plus the natural-key fields.
type ExistingRecord struct {
	ID           string `bson:"_id"`
	Product      string `bson:"product"`
	Manufacturer string `bson:"manufacturer"`
}

// OptimizationRecord is a persisted fact describing one candidate product
// attached to a project. A project may carry many of these, one per attached
// candidate. Absence of records is a valid state, not an error.
type OptimizationRecord struct {
	ProjectID          string    `bson:"project_id" json:"projectId"`
	CrossSellProduct   string    `bson:"cross_sell_product,omitempty" json:"crossSellProduct,omitempty"`
	CrossSellStatus    string    `bson:"cross_sell_status,omitempty" json:"crossSellStatus,omitempty"`
	AlternativeProduct string    `bson:"alternative_product,omitempty" json:"alternativeProduct,omitempty"`
	AlternativeStatus  string    `bson:"alternative_status,omitempty" json:"alternativeStatus,omitempty"`
	OptimizationStatus string    `bson:"optimization_status,omitempty" json:"optimizationStatus,omitempty"`
	Tenant             string    `bson:"tenant,omitempty" json:"tenant,omitempty"`
	CreatedAt          time.Time `bson:"created_at" json:"createdAt"`
}

// ProjectMeta is what status derivation needs to know about the project
// itself, independent of its optimization records.
type ProjectMeta struct {
	ProjectID string    `bson:"project_id" json:"projectId"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	Viewed    bool      `bson:"-" json:"viewed"` // by the current user
}
