package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestMarshalProductsCSV(t *testing.T) {
	docs := []bson.M{
		{"product": "Widget A", "manufacturer": "Acme", "price": 12.5, "is_new": "Y"},
		{"product": "Widget B", "manufacturer": "Beta", "inventory": int32(40)},
	}

	data, err := marshalProductsCSV(docs)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "product")
	assert.Contains(t, lines[0], "manufacturer")
	assert.Contains(t, lines[1], "Widget A")
	assert.Contains(t, lines[1], "12.5")
	assert.Contains(t, lines[2], "40")
}

func TestMarshalJSONLines(t *testing.T) {
	docs := []bson.M{
		{"customer_number": "K-1", "name": "Beta GmbH"},
		{"customer_number": "K-2", "name": "Gamma AG"},
	}

	data, err := marshalJSONLines(docs)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"K-1"`)
	assert.Contains(t, lines[1], `"Gamma AG"`)
}
