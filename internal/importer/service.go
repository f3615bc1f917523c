// Package importer drives one upload batch end to end: column mapping,
// transformation, validation, reconciliation, and the two-phase write to
// the store. Everything before the write is pure; a batch that fails
// mapping or validation never touches the backend.
package importer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"salescockpit/internal/mapping"
	"salescockpit/internal/models"
	"salescockpit/internal/reconcile"
	"salescockpit/internal/schema"
	"salescockpit/internal/transform"
)

// Store is the persistence collaborator the importer writes through.
type Store interface {
	BulkInsert(ctx context.Context, collection string, rows []models.Row) error
	UpdateByID(ctx context.Context, collection, id string, row models.Row) error
	FindProducts(ctx context.Context, tenant string) ([]models.ExistingRecord, error)
}

// Options for one upload batch. The mapping is the operator-reviewed
// field->column assignment.
type Options struct {
	DataType models.DataTypeDescriptor
	Mapping  mapping.ColumnMapping
	Actor    string
	Tenant   string
}

// UpdateError reports one failed per-row update. Earlier inserts and
// updates stay applied; there is no cross-row transaction.
type UpdateError struct {
	ID  string
	Err error
}

// Result summarizes an applied batch.
type Result struct {
	BatchID      string
	Total        int
	Inserted     int
	Updated      int
	UpdateErrors []UpdateError
}

type Service struct {
	store Store
	log   *zap.Logger
}

func NewService(store Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log}
}

// AutoMap proposes a column mapping for the upload: the file's columns in
// header order, greedily matched against the data type's fields. Ties
// between equally scoring columns go to the leftmost, so the same file
// always yields the same proposal. The caller lets the operator review it
// before Run.
func AutoMap(dt models.DataTypeDescriptor, columns []string) mapping.ColumnMapping {
	return mapping.Map(dt.Fields, columns)
}

// Run applies one batch. Fail-fast: an incomplete mapping or any validation
// error rejects the whole batch before anything is written. Entities with a
// natural key (products) are reconciled into inserts and updates; all other
// entities insert unconditionally.
func (s *Service) Run(ctx context.Context, records []models.SourceRecord, opts Options) (*Result, error) {
	if err := mapping.Validate(opts.Mapping, opts.DataType); err != nil {
		return nil, err
	}

	sch, ok := schema.ForDataType(opts.DataType.ID)
	if !ok {
		return nil, fmt.Errorf("unknown data type %q", opts.DataType.ID)
	}

	prov := transform.NewProvenance(opts.Actor, opts.Tenant)
	rows := make([]models.Row, len(records))
	for i, rec := range records {
		rows[i] = transform.Row(rec, opts.Mapping, opts.DataType, prov)
	}

	if err := schema.ValidateBatch(rows, sch); err != nil {
		return nil, err
	}

	result := &Result{BatchID: prov.BatchID, Total: len(rows)}

	if opts.DataType.ID != "products" {
		if err := s.store.BulkInsert(ctx, opts.DataType.Collection, rows); err != nil {
			return nil, err
		}
		result.Inserted = len(rows)
		s.log.Info("batch imported",
			zap.String("data_type", opts.DataType.ID),
			zap.String("batch_id", result.BatchID),
			zap.Int("inserted", result.Inserted))
		return result, nil
	}

	// Snapshot once, immediately before partitioning. A concurrent writer
	// can still slip a duplicate past this client-side split; a storage-side
	// upsert with a conflict key would close that window.
	existing, err := s.store.FindProducts(ctx, opts.Tenant)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot existing products: %w", err)
	}
	parts := reconcile.Partition(rows, existing)

	// Phase one: the bulk insert must fully succeed before updates begin.
	if err := s.store.BulkInsert(ctx, opts.DataType.Collection, parts.ToInsert); err != nil {
		return nil, err
	}
	result.Inserted = len(parts.ToInsert)

	// Phase two: one update at a time; failures are collected, not fatal.
	for _, upd := range parts.ToUpdate {
		if err := s.store.UpdateByID(ctx, opts.DataType.Collection, upd.ID, upd.Row); err != nil {
			s.log.Warn("row update failed",
				zap.String("id", upd.ID),
				zap.String("batch_id", result.BatchID),
				zap.Error(err))
			result.UpdateErrors = append(result.UpdateErrors, UpdateError{ID: upd.ID, Err: err})
			continue
		}
		result.Updated++
	}

	s.log.Info("batch imported",
		zap.String("data_type", opts.DataType.ID),
		zap.String("batch_id", result.BatchID),
		zap.Int("inserted", result.Inserted),
		zap.Int("updated", result.Updated),
		zap.Int("update_errors", len(result.UpdateErrors)))

	return result, nil
}
