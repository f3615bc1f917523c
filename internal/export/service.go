// Package export writes tenant-scoped snapshots of the dashboard
// collections to disk, as JSON lines for any collection or as CSV for the
// product catalog (whose column set round-trips with the importer).
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jszwec/csvutil"
	"go.mongodb.org/mongo-driver/bson"

	"salescockpit/internal/database"
	"salescockpit/internal/models"
)

type Service struct {
	db *database.MongoDB
}

func NewService(db *database.MongoDB) *Service {
	return &Service{db: db}
}

// Collection exports one collection for the tenant into outputDir and
// returns the written file path. Formats: "jsonl" for any collection,
// "csv" for products only.
func (s *Service) Collection(ctx context.Context, collectionName, tenant, outputDir, format string) (string, error) {
	if format != "jsonl" && format != "csv" {
		return "", fmt.Errorf("invalid format: %s. Use 'jsonl' or 'csv'", format)
	}
	if format == "csv" && collectionName != "products" {
		return "", fmt.Errorf("csv export is only supported for the products collection")
	}

	docs, err := s.db.FindAll(ctx, collectionName, tenant)
	if err != nil {
		return "", err
	}
	if len(docs) == 0 {
		return "", fmt.Errorf("collection %s has no documents in scope", collectionName)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("export_%s_%s.%s", collectionName, timestamp, format)
	path := filepath.Join(outputDir, filename)

	var data []byte
	if format == "csv" {
		data, err = marshalProductsCSV(docs)
	} else {
		data, err = marshalJSONLines(docs)
	}
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

// Collections exports every importable collection of the tenant as JSON
// lines and returns the written file paths.
func (s *Service) Collections(ctx context.Context, tenant, outputDir string) ([]string, error) {
	var files []string
	for _, dt := range models.DataTypes {
		path, err := s.Collection(ctx, dt.Collection, tenant, outputDir, "jsonl")
		if err != nil {
			// Empty collections are normal for a fresh tenant.
			continue
		}
		files = append(files, path)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no collection had documents to export")
	}
	return files, nil
}

func marshalJSONLines(docs []bson.M) ([]byte, error) {
	var out []byte
	for _, doc := range docs {
		line, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal document: %w", err)
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out, nil
}

// productRow is the CSV shape of one product document. Numeric fields are
// pointers so that absent values stay empty cells instead of zeros.
type productRow struct {
	Product          string   `csv:"product"`
	Manufacturer     string   `csv:"manufacturer"`
	Description      string   `csv:"description,omitempty"`
	ManufacturerLink string   `csv:"manufacturer_link,omitempty"`
	Price            *float64 `csv:"price,omitempty"`
	Inventory        *float64 `csv:"inventory,omitempty"`
	LeadTime         *float64 `csv:"lead_time,omitempty"`
	LifecycleStatus  string   `csv:"lifecycle_status,omitempty"`
	IsNew            string   `csv:"is_new,omitempty"`
	IsTop            string   `csv:"is_top,omitempty"`
}

func marshalProductsCSV(docs []bson.M) ([]byte, error) {
	rows := make([]productRow, 0, len(docs))
	for _, doc := range docs {
		rows = append(rows, productRow{
			Product:          docString(doc, "product"),
			Manufacturer:     docString(doc, "manufacturer"),
			Description:      docString(doc, "description"),
			ManufacturerLink: docString(doc, "manufacturer_link"),
			Price:            docNumber(doc, "price"),
			Inventory:        docNumber(doc, "inventory"),
			LeadTime:         docNumber(doc, "lead_time"),
			LifecycleStatus:  docString(doc, "lifecycle_status"),
			IsNew:            docString(doc, "is_new"),
			IsTop:            docString(doc, "is_top"),
		})
	}

	data, err := csvutil.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal products to CSV: %w", err)
	}
	return data, nil
}

func docString(doc bson.M, key string) string {
	if s, ok := doc[key].(string); ok {
		return s
	}
	return ""
}

func docNumber(doc bson.M, key string) *float64 {
	switch v := doc[key].(type) {
	case float64:
		return &v
	case int32:
		f := float64(v)
		return &f
	case int64:
		f := float64(v)
		return &f
	}
	return nil
}
