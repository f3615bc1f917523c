package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescockpit/internal/models"
)

func TestKeyNormalization(t *testing.T) {
	assert.Equal(t, Key("Widget X", "ACME"), Key("widget x", "Acme"))
	assert.NotEqual(t, Key("Widget X", "Acme"), Key("Widget X", "Other"))
}

func TestPartition(t *testing.T) {
	existing := []models.ExistingRecord{
		{ID: "1", Product: "X", Manufacturer: "Acme"},
	}
	rows := []models.Row{
		{"product": "x", "manufacturer": "ACME", "price": 10.0},
		{"product": "Y", "manufacturer": "Acme"},
	}

	result := Partition(rows, existing)

	require.Len(t, result.ToUpdate, 1)
	assert.Equal(t, "1", result.ToUpdate[0].ID)
	assert.Equal(t, "x", result.ToUpdate[0].Row["product"])

	require.Len(t, result.ToInsert, 1)
	assert.Equal(t, "Y", result.ToInsert[0]["product"])
}

func TestPartitionEmptySnapshot(t *testing.T) {
	rows := []models.Row{
		{"product": "A", "manufacturer": "Acme"},
		{"product": "B", "manufacturer": "Acme"},
	}
	result := Partition(rows, nil)
	assert.Len(t, result.ToInsert, 2)
	assert.Empty(t, result.ToUpdate)
}

func TestPartitionDuplicateKeysInBatch(t *testing.T) {
	// Two incoming rows with the same key against one existing record both
	// resolve to updates of the same id; the later apply wins.
	existing := []models.ExistingRecord{{ID: "7", Product: "X", Manufacturer: "Acme"}}
	rows := []models.Row{
		{"product": "X", "manufacturer": "Acme", "price": 1.0},
		{"product": "x", "manufacturer": "acme", "price": 2.0},
	}
	result := Partition(rows, existing)
	require.Len(t, result.ToUpdate, 2)
	assert.Equal(t, "7", result.ToUpdate[0].ID)
	assert.Equal(t, "7", result.ToUpdate[1].ID)
}
