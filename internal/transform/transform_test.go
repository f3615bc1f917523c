package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescockpit/internal/mapping"
	"salescockpit/internal/models"
)

func productMapping() mapping.ColumnMapping {
	return mapping.ColumnMapping{
		"product":      "Produkt",
		"manufacturer": "Hersteller",
		"price":        "Preis",
		"lead_time":    "Lieferzeit",
		"is_new":       "Neu",
		"is_top":       "Top",
	}
}

func productType(t *testing.T) models.DataTypeDescriptor {
	t.Helper()
	dt, ok := models.DataTypeByID("products")
	require.True(t, ok)
	return dt
}

func TestRowCoercion(t *testing.T) {
	prov := Provenance{Actor: "operator@example.com", BatchID: "batch-1", Tenant: "tenant-a"}
	dt := productType(t)

	t.Run("empty value becomes nil for any field", func(t *testing.T) {
		rec := models.SourceRecord{"Produkt": "", "Preis": "", "Neu": ""}
		row := Row(rec, productMapping(), dt, prov)
		assert.Nil(t, row["product"])
		assert.Nil(t, row["price"])
		assert.Nil(t, row["is_new"])
	})

	t.Run("numeric fields parse as float64", func(t *testing.T) {
		rec := models.SourceRecord{"Preis": " 12.50 ", "Lieferzeit": "14"}
		row := Row(rec, productMapping(), dt, prov)
		assert.Equal(t, 12.5, row["price"])
		assert.Equal(t, 14.0, row["lead_time"])
	})

	t.Run("numeric parse failure becomes nil, never NaN", func(t *testing.T) {
		for _, v := range []string{"k.A.", "NaN", "nan", "Inf", "+Inf", "-Inf", "infinity"} {
			rec := models.SourceRecord{"Preis": v}
			row := Row(rec, productMapping(), dt, prov)
			assert.Nil(t, row["price"], "input %q", v)
		}
	})

	t.Run("flag fields normalize to Y", func(t *testing.T) {
		for _, v := range []string{"yes", "Yes", " y ", "TRUE", "1"} {
			rec := models.SourceRecord{"Neu": v}
			row := Row(rec, productMapping(), dt, prov)
			assert.Equal(t, "Y", row["is_new"], "input %q", v)
		}
	})

	t.Run("non-truthy flag values become empty string, not nil", func(t *testing.T) {
		rec := models.SourceRecord{"Neu": "no", "Top": "N"}
		row := Row(rec, productMapping(), dt, prov)
		assert.Equal(t, "", row["is_new"])
		assert.Equal(t, "", row["is_top"])
	})

	t.Run("plain strings are trimmed", func(t *testing.T) {
		rec := models.SourceRecord{"Produkt": "  Widget X  "}
		row := Row(rec, productMapping(), dt, prov)
		assert.Equal(t, "Widget X", row["product"])
	})

	t.Run("unmapped fields become nil", func(t *testing.T) {
		rec := models.SourceRecord{"Produkt": "Widget"}
		row := Row(rec, productMapping(), dt, prov)
		assert.Nil(t, row["description"])
	})
}

func TestRowInjectsProvenance(t *testing.T) {
	prov := NewProvenance("operator@example.com", "tenant-a")
	assert.NotEmpty(t, prov.BatchID)

	row := Row(models.SourceRecord{"Produkt": "Widget"}, productMapping(), productType(t), prov)
	assert.Equal(t, "operator@example.com", row[models.FieldCreatedBy])
	assert.Equal(t, prov.BatchID, row[models.FieldBatchID])
	assert.Equal(t, "tenant-a", row[models.FieldTenant])
}
