// Package schema declares the per-data-type field contracts and validates
// transformed rows against them. Schemas are open: fields a schema does not
// declare (the provenance stamps in particular) pass through untouched.
package schema

import (
	"salescockpit/internal/status"
)

// Kind is the expected typed value of a field after transformation.
type Kind int

const (
	String Kind = iota
	Number
)

// FieldRule is the contract for one field of one data type.
type FieldRule struct {
	Kind     Kind
	Required bool
	MaxLen   int      // strings; 0 means unbounded
	Min      *float64 // numbers
	Max      *float64 // numbers
	Integer  bool     // numbers: must be a whole value
	Enum     []string // strings: closed set of allowed values
	URL      bool     // strings: must parse as an absolute http(s) URL
}

// Schema is the full contract of one data type: field name -> rule.
type Schema map[string]FieldRule

func f64(v float64) *float64 { return &v }

var lifecycleEnum = []string{
	status.LifecycleIdentified,
	status.LifecycleProposed,
	status.LifecycleAccepted,
	status.LifecycleRegistered,
	status.LifecycleRejected,
}

// Flag fields carry "Y" or "" only.
var flagEnum = []string{"Y", ""}

var schemas = map[string]Schema{
	"project-links": {
		"project_number":  {Required: true, MaxLen: 64},
		"customer_number": {Required: true, MaxLen: 64},
		"application":     {Required: true, MaxLen: 128},
	},
	"customers": {
		"customer_number": {Required: true, MaxLen: 64},
		"name":            {Required: true, MaxLen: 256},
		"city":            {MaxLen: 128},
		"country":         {MaxLen: 64},
		"sales_rep":       {MaxLen: 128},
	},
	"applications": {
		"application": {Required: true, MaxLen: 128},
		"segment":     {MaxLen: 64},
		"description": {MaxLen: 2000},
	},
	"products": {
		"product":           {Required: true, MaxLen: 256},
		"manufacturer":      {Required: true, MaxLen: 256},
		"description":       {MaxLen: 2000},
		"manufacturer_link": {MaxLen: 512, URL: true},
		"price":             {Kind: Number, Min: f64(0)},
		"inventory":         {Kind: Number, Min: f64(0), Integer: true},
		"lead_time":         {Kind: Number, Min: f64(0), Integer: true},
		"lifecycle_status":  {Enum: lifecycleEnum},
		"is_new":            {Enum: flagEnum},
		"is_top":            {Enum: flagEnum},
	},
	"cross-sells": {
		"product":            {Required: true, MaxLen: 256},
		"cross_sell_product": {Required: true, MaxLen: 256},
		"manufacturer":       {MaxLen: 256},
		"similarity":         {Kind: Number, Min: f64(0), Max: f64(1)},
	},
	"product-alternatives": {
		"product":             {Required: true, MaxLen: 256},
		"alternative_product": {Required: true, MaxLen: 256},
		"manufacturer":        {MaxLen: 256},
		"score":               {Kind: Number, Min: f64(0), Max: f64(1)},
	},
	"application-insights": {
		"application": {Required: true, MaxLen: 128},
		"insight":     {Required: true, MaxLen: 2000},
		"score":       {Kind: Number, Min: f64(0), Max: f64(1)},
		"source":      {MaxLen: 256},
	},
}

// ForDataType returns the schema for a data type id.
func ForDataType(id string) (Schema, bool) {
	s, ok := schemas[id]
	return s, ok
}
