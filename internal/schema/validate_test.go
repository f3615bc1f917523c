package schema

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescockpit/internal/models"
	"salescockpit/internal/status"
)

func productSchema(t *testing.T) Schema {
	t.Helper()
	s, ok := ForDataType("products")
	require.True(t, ok)
	return s
}

func validProduct() models.Row {
	return models.Row{
		"product":           "Widget A",
		"manufacturer":      "Acme",
		"description":       nil,
		"manufacturer_link": "https://acme.example.com/widget-a",
		"price":             12.5,
		"inventory":         40.0,
		"lead_time":         14.0,
		"lifecycle_status":  status.LifecycleIdentified,
		"is_new":            "Y",
		"is_top":            "",
		"created_by":        "operator@example.com",
		"batch_id":          "batch-1",
		"tenant":            "tenant-a",
	}
}

func TestValidateRow(t *testing.T) {
	s := productSchema(t)

	t.Run("valid row has no errors", func(t *testing.T) {
		assert.Empty(t, ValidateRow(validProduct(), s, 1))
	})

	t.Run("missing required field", func(t *testing.T) {
		row := validProduct()
		row["manufacturer"] = nil
		errs := ValidateRow(row, s, 3)
		require.Len(t, errs, 1)
		assert.Equal(t, 3, errs[0].Row)
		assert.Equal(t, "manufacturer", errs[0].Field)
		assert.Equal(t, "is required", errs[0].Message)
	})

	t.Run("negative price", func(t *testing.T) {
		row := validProduct()
		row["price"] = -1.0
		errs := ValidateRow(row, s, 1)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0].Message, "at least 0")
	})

	t.Run("fractional lead_time", func(t *testing.T) {
		row := validProduct()
		row["lead_time"] = 2.5
		errs := ValidateRow(row, s, 1)
		require.Len(t, errs, 1)
		assert.Equal(t, "must be a whole number", errs[0].Message)
	})

	t.Run("unknown lifecycle status", func(t *testing.T) {
		row := validProduct()
		row["lifecycle_status"] = "Erledigt"
		errs := ValidateRow(row, s, 1)
		require.Len(t, errs, 1)
		assert.Equal(t, "lifecycle_status", errs[0].Field)
	})

	t.Run("malformed manufacturer link", func(t *testing.T) {
		row := validProduct()
		row["manufacturer_link"] = "not a url"
		errs := ValidateRow(row, s, 1)
		require.Len(t, errs, 1)
		assert.Equal(t, "must be a valid URL", errs[0].Message)
	})

	t.Run("undeclared fields pass through untouched", func(t *testing.T) {
		row := validProduct()
		row["some_extra_column"] = "kept"
		assert.Empty(t, ValidateRow(row, s, 1))
		assert.Equal(t, "kept", row["some_extra_column"])
	})

	t.Run("similarity bounds", func(t *testing.T) {
		cs, ok := ForDataType("cross-sells")
		require.True(t, ok)
		row := models.Row{"product": "A", "cross_sell_product": "B", "similarity": 1.2}
		errs := ValidateRow(row, cs, 1)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0].Message, "at most 1")
	})
}

func TestValidateBatchAllOrNothing(t *testing.T) {
	s := productSchema(t)

	rows := make([]models.Row, 0, 100)
	for i := 0; i < 99; i++ {
		rows = append(rows, validProduct())
	}
	bad := validProduct()
	bad["product"] = nil
	rows = append(rows, bad)

	err := ValidateBatch(rows, s)
	var batchErr *BatchError
	require.ErrorAs(t, err, &batchErr)
	require.Len(t, batchErr.Errors, 1)
	assert.Equal(t, 100, batchErr.Errors[0].Row)
}

func TestBatchErrorCapsDisplay(t *testing.T) {
	s := productSchema(t)

	var rows []models.Row
	for i := 0; i < 30; i++ {
		row := validProduct()
		row["product"] = nil
		rows = append(rows, row)
	}

	err := ValidateBatch(rows, s)
	var batchErr *BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.Len(t, batchErr.Errors, 30)

	msg := err.Error()
	assert.Equal(t, maxShownErrors, strings.Count(msg, "is required"))
	assert.Contains(t, msg, fmt.Sprintf("%d errors total", 30))
}

func TestEveryDataTypeHasSchema(t *testing.T) {
	for _, dt := range models.DataTypes {
		s, ok := ForDataType(dt.ID)
		require.True(t, ok, "no schema for %s", dt.ID)
		for _, field := range dt.Fields {
			_, declared := s[field]
			assert.True(t, declared, "%s: field %s not declared", dt.ID, field)
		}
		for _, required := range dt.Required {
			assert.True(t, s[required].Required, "%s: field %s not marked required", dt.ID, required)
		}
	}
}
