package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescockpit/internal/mapping"
	"salescockpit/internal/models"
	"salescockpit/internal/schema"
)

type fakeStore struct {
	existing     []models.ExistingRecord
	inserted     map[string][]models.Row
	updated      map[string]models.Row
	failInsert   error
	failUpdateID string
	snapshots    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		inserted: make(map[string][]models.Row),
		updated:  make(map[string]models.Row),
	}
}

func (f *fakeStore) BulkInsert(_ context.Context, collection string, rows []models.Row) error {
	if f.failInsert != nil {
		return f.failInsert
	}
	f.inserted[collection] = append(f.inserted[collection], rows...)
	return nil
}

func (f *fakeStore) UpdateByID(_ context.Context, _ string, id string, row models.Row) error {
	if id == f.failUpdateID {
		return errors.New("update rejected")
	}
	f.updated[id] = row
	return nil
}

func (f *fakeStore) FindProducts(_ context.Context, _ string) ([]models.ExistingRecord, error) {
	f.snapshots++
	return f.existing, nil
}

func productsType(t *testing.T) models.DataTypeDescriptor {
	t.Helper()
	dt, ok := models.DataTypeByID("products")
	require.True(t, ok)
	return dt
}

func productsMapping() mapping.ColumnMapping {
	return mapping.ColumnMapping{
		"product":      "Produkt",
		"manufacturer": "Hersteller",
		"price":        "Preis",
	}
}

func TestRunRejectsIncompleteMapping(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	_, err := svc.Run(context.Background(),
		[]models.SourceRecord{{"Produkt": "Widget"}},
		Options{
			DataType: productsType(t),
			Mapping:  mapping.ColumnMapping{"product": "Produkt"}, // manufacturer unmapped
			Actor:    "op",
			Tenant:   "t1",
		})

	var incomplete *mapping.IncompleteError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, []string{"manufacturer"}, incomplete.Missing)
	assert.Empty(t, store.inserted, "nothing may reach the store")
	assert.Zero(t, store.snapshots)
}

func TestRunRejectsWholeBatchOnValidationError(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	records := []models.SourceRecord{
		{"Produkt": "Widget A", "Hersteller": "Acme", "Preis": "10"},
		{"Produkt": "Widget B", "Hersteller": "Acme", "Preis": "-5"}, // negative price
	}

	_, err := svc.Run(context.Background(), records, Options{
		DataType: productsType(t),
		Mapping:  productsMapping(),
		Actor:    "op",
		Tenant:   "t1",
	})

	var batchErr *schema.BatchError
	require.ErrorAs(t, err, &batchErr)
	require.Len(t, batchErr.Errors, 1)
	assert.Equal(t, 2, batchErr.Errors[0].Row)
	assert.Empty(t, store.inserted, "no partial writes on validation failure")
}

func TestRunPartitionsProducts(t *testing.T) {
	store := newFakeStore()
	store.existing = []models.ExistingRecord{{ID: "id-1", Product: "Widget A", Manufacturer: "ACME"}}
	svc := NewService(store, nil)

	records := []models.SourceRecord{
		{"Produkt": "widget a", "Hersteller": "Acme", "Preis": "12"},
		{"Produkt": "Widget B", "Hersteller": "Acme", "Preis": "7"},
	}

	result, err := svc.Run(context.Background(), records, Options{
		DataType: productsType(t),
		Mapping:  productsMapping(),
		Actor:    "op",
		Tenant:   "t1",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 1, result.Updated)
	assert.Empty(t, result.UpdateErrors)
	assert.Equal(t, 1, store.snapshots, "snapshot is read exactly once")

	require.Len(t, store.inserted["products"], 1)
	assert.Equal(t, "Widget B", store.inserted["products"][0]["product"])

	updatedRow, ok := store.updated["id-1"]
	require.True(t, ok)
	assert.Equal(t, 12.0, updatedRow["price"])
	assert.Equal(t, result.BatchID, updatedRow[models.FieldBatchID])
}

func TestRunReportsUpdateFailuresWithoutRollback(t *testing.T) {
	store := newFakeStore()
	store.existing = []models.ExistingRecord{
		{ID: "id-1", Product: "A", Manufacturer: "Acme"},
		{ID: "id-2", Product: "B", Manufacturer: "Acme"},
	}
	store.failUpdateID = "id-1"
	svc := NewService(store, nil)

	records := []models.SourceRecord{
		{"Produkt": "A", "Hersteller": "Acme"},
		{"Produkt": "B", "Hersteller": "Acme"},
		{"Produkt": "C", "Hersteller": "Acme"},
	}

	result, err := svc.Run(context.Background(), records, Options{
		DataType: productsType(t),
		Mapping:  productsMapping(),
		Actor:    "op",
		Tenant:   "t1",
	})
	require.NoError(t, err, "update failures do not fail the batch")

	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 1, result.Updated)
	require.Len(t, result.UpdateErrors, 1)
	assert.Equal(t, "id-1", result.UpdateErrors[0].ID)
	// The insert and the other update stayed applied.
	assert.Len(t, store.inserted["products"], 1)
	assert.Contains(t, store.updated, "id-2")
}

func TestRunAbortsOnBulkInsertFailure(t *testing.T) {
	store := newFakeStore()
	store.failInsert = errors.New("connection lost")
	svc := NewService(store, nil)

	_, err := svc.Run(context.Background(),
		[]models.SourceRecord{{"Produkt": "A", "Hersteller": "Acme"}},
		Options{DataType: productsType(t), Mapping: productsMapping(), Actor: "op", Tenant: "t1"})

	require.Error(t, err)
	assert.Empty(t, store.updated, "no updates after a failed bulk insert")
}

func TestRunBypassesReconciliationForUnkeyedEntities(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	dt, ok := models.DataTypeByID("customers")
	require.True(t, ok)

	records := []models.SourceRecord{
		{"Kundennummer": "K-1", "Name": "Beta GmbH"},
		{"Kundennummer": "K-2", "Name": "Gamma AG"},
	}

	result, err := svc.Run(context.Background(), records, Options{
		DataType: dt,
		Mapping:  mapping.ColumnMapping{"customer_number": "Kundennummer", "name": "Name"},
		Actor:    "op",
		Tenant:   "t1",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Inserted)
	assert.Zero(t, result.Updated)
	assert.Zero(t, store.snapshots, "no snapshot for entities without a natural key")
	assert.Len(t, store.inserted["customers"], 2)
}

func TestAutoMapProposal(t *testing.T) {
	dt := productsType(t)
	m := AutoMap(dt, []string{"Produkt", "Hersteller", "Price"})
	assert.Equal(t, "Produkt", m["product"])
	assert.Equal(t, "Price", m["price"])
	// "Hersteller" scores below the threshold against "manufacturer"; the
	// operator assigns it manually during review.
	_, mapped := m["manufacturer"]
	assert.False(t, mapped)
}

func TestAutoMapTieBreaksOnColumnOrder(t *testing.T) {
	dt := productsType(t)
	// All four columns contain "price" after normalization and tie at the
	// containment score; the leftmost must win on every run.
	columns := []string{"price_a", "price_b", "aprice1", "bprice1"}
	for i := 0; i < 50; i++ {
		m := AutoMap(dt, columns)
		assert.Equal(t, "price_a", m["price"], "run %d", i)
	}
}
