package models

// DataTypeDescriptor is the static definition of one importable entity:
// which collection it lands in, which fields the upload must provide, and
// which of those are mandatory before a batch may be submitted.
type DataTypeDescriptor struct {
	ID         string
	Title      string
	Collection string
	Fields     []string // declared field order, drives column mapping
	Required   []string // subset of Fields
}

// The seven importable entities of the dashboard.
var DataTypes = []DataTypeDescriptor{
	{
		ID:         "project-links",
		Title:      "Projektzuordnungen",
		Collection: "project_links",
		Fields:     []string{"project_number", "customer_number", "application"},
		Required:   []string{"project_number", "customer_number", "application"},
	},
	{
		ID:         "customers",
		Title:      "Kunden",
		Collection: "customers",
		Fields:     []string{"customer_number", "name", "city", "country", "sales_rep"},
		Required:   []string{"customer_number", "name"},
	},
	{
		ID:         "applications",
		Title:      "Applikationen",
		Collection: "applications",
		Fields:     []string{"application", "segment", "description"},
		Required:   []string{"application"},
	},
	{
		ID:         "products",
		Title:      "Produkte",
		Collection: "products",
		Fields: []string{
			"product", "manufacturer", "description", "manufacturer_link",
			"price", "inventory", "lead_time", "lifecycle_status", "is_new", "is_top",
		},
		Required: []string{"product", "manufacturer"},
	},
	{
		ID:         "cross-sells",
		Title:      "Cross-Sell Produkte",
		Collection: "cross_sells",
		Fields:     []string{"product", "cross_sell_product", "manufacturer", "similarity"},
		Required:   []string{"product", "cross_sell_product"},
	},
	{
		ID:         "product-alternatives",
		Title:      "Produktalternativen",
		Collection: "product_alternatives",
		Fields:     []string{"product", "alternative_product", "manufacturer", "score"},
		Required:   []string{"product", "alternative_product"},
	},
	{
		ID:         "application-insights",
		Title:      "Applikations-Insights",
		Collection: "application_insights",
		Fields:     []string{"application", "insight", "score", "source"},
		Required:   []string{"application", "insight"},
	},
}

// DataTypeByID looks up a descriptor by its identifier. The second return
// value reports whether the identifier is known.
func DataTypeByID(id string) (DataTypeDescriptor, bool) {
	for _, dt := range DataTypes {
		if dt.ID == id {
			return dt, true
		}
	}
	return DataTypeDescriptor{}, false
}
