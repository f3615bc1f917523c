// Package database is the persistence collaborator: a thin MongoDB layer
// offering the operations the import pipeline and the status views need —
// bulk insert, single-row update by id, and tenant-scoped point lookups.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"salescockpit/internal/models"
)

const (
	connectTimeout = 10 * time.Second
	opTimeout      = 30 * time.Second
)

// Collections read by the status views.
const (
	projectsCollection     = "projects"
	optimizationCollection = "optimization_records"
	projectViewsCollection = "project_views"
)

type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func NewMongoDB(uri, dbName string) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &MongoDB{
		Client:   client,
		Database: client.Database(dbName),
	}, nil
}

func (m *MongoDB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.Client.Disconnect(ctx)
}

// BulkInsert writes all rows to the collection as one InsertMany. The whole
// import aborts if it fails; it must fully complete before any per-row
// updates start.
func (m *MongoDB) BulkInsert(ctx context.Context, collectionName string, rows []models.Row) error {
	if len(rows) == 0 {
		return nil
	}
	collection := m.Database.Collection(collectionName)
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	docs := make([]interface{}, len(rows))
	for i, row := range rows {
		docs[i] = bson.M(row)
	}
	if _, err := collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("bulk insert into %s failed: %w", collectionName, err)
	}
	return nil
}

// UpdateByID replaces the imported fields of one existing document. Called
// row by row, never batched, so each failure stays independently
// reportable and retryable.
func (m *MongoDB) UpdateByID(ctx context.Context, collectionName, id string, row models.Row) error {
	collection := m.Database.Collection(collectionName)
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := collection.UpdateOne(ctx, bson.M{"_id": idValue(id)}, bson.M{"$set": bson.M(row)})
	if err != nil {
		return fmt.Errorf("update of %s/%s failed: %w", collectionName, id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update of %s/%s matched no document", collectionName, id)
	}
	return nil
}

// FindProducts captures the reconciliation snapshot: id and natural-key
// fields of every product visible in the tenant scope, which includes
// global (tenant-less) records.
func (m *MongoDB) FindProducts(ctx context.Context, tenant string) ([]models.ExistingRecord, error) {
	collection := m.Database.Collection("products")
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := collection.Find(ctx, tenantScope(tenant),
		options.Find().SetProjection(bson.M{"product": 1, "manufacturer": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to load product snapshot: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.ExistingRecord
	for cursor.Next(ctx) {
		var doc struct {
			ID           primitive.ObjectID `bson:"_id"`
			Product      string             `bson:"product"`
			Manufacturer string             `bson:"manufacturer"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode product: %w", err)
		}
		records = append(records, models.ExistingRecord{
			ID:           doc.ID.Hex(),
			Product:      doc.Product,
			Manufacturer: doc.Manufacturer,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return records, nil
}

// FetchProjects returns the metadata of all projects in the tenant scope.
func (m *MongoDB) FetchProjects(ctx context.Context, tenant string) ([]models.ProjectMeta, error) {
	collection := m.Database.Collection(projectsCollection)
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := collection.Find(ctx, tenantScope(tenant))
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	defer cursor.Close(ctx)

	var projects []models.ProjectMeta
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %w", err)
	}
	return projects, nil
}

// FetchOptimizationRecords returns all optimization records in the tenant
// scope, grouped by project id.
func (m *MongoDB) FetchOptimizationRecords(ctx context.Context, tenant string) (map[string][]models.OptimizationRecord, error) {
	collection := m.Database.Collection(optimizationCollection)
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := collection.Find(ctx, tenantScope(tenant))
	if err != nil {
		return nil, fmt.Errorf("failed to load optimization records: %w", err)
	}
	defer cursor.Close(ctx)

	grouped := make(map[string][]models.OptimizationRecord)
	for cursor.Next(ctx) {
		var rec models.OptimizationRecord
		if err := cursor.Decode(&rec); err != nil {
			return nil, fmt.Errorf("failed to decode optimization record: %w", err)
		}
		grouped[rec.ProjectID] = append(grouped[rec.ProjectID], rec)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return grouped, nil
}

// ViewedProjects returns the ids of every project the user has opened.
func (m *MongoDB) ViewedProjects(ctx context.Context, user string) (map[string]bool, error) {
	collection := m.Database.Collection(projectViewsCollection)
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := collection.Find(ctx, bson.M{"user": user})
	if err != nil {
		return nil, fmt.Errorf("failed to load project views: %w", err)
	}
	defer cursor.Close(ctx)

	viewed := make(map[string]bool)
	for cursor.Next(ctx) {
		var doc struct {
			ProjectID string `bson:"project_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode project view: %w", err)
		}
		viewed[doc.ProjectID] = true
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return viewed, nil
}

// FindAll streams every document of a collection in the tenant scope, for
// the export command.
func (m *MongoDB) FindAll(ctx context.Context, collectionName, tenant string) ([]bson.M, error) {
	collection := m.Database.Collection(collectionName)
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := collection.Find(ctx, tenantScope(tenant))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", collectionName, err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", collectionName, err)
	}
	return docs, nil
}

// tenantScope matches documents of the tenant plus global documents with
// no tenant at all.
func tenantScope(tenant string) bson.M {
	return bson.M{"$or": []bson.M{
		{"tenant": tenant},
		{"tenant": nil},
	}}
}

// idValue converts a hex object id back to its native form; ids written by
// other tools may be plain strings and are used as-is.
func idValue(id string) interface{} {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return oid
	}
	return id
}
