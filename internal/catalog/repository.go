package catalog

import (
	"context"
	_ "embed"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// Source yields the catalog in display order. It is read once at startup.
type Source interface {
	Load(ctx context.Context) ([]Item, error)
}

type EmbeddedSource struct {
	data []byte
}

func NewEmbeddedSource() *EmbeddedSource {
	return &EmbeddedSource{data: embeddedCatalog}
}

// NewYAMLSource parses an arbitrary catalog document with the same layout as the embedded one.
func NewYAMLSource(data []byte) *EmbeddedSource {
	return &EmbeddedSource{data: data}
}

type catalogDocument struct {
	Items []Item `yaml:"items"`
}

func (s *EmbeddedSource) Load(ctx context.Context) ([]Item, error) {
	var doc catalogDocument
	if err := yaml.Unmarshal(s.data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: parse yaml: %w", err)
	}
	for i := range doc.Items {
		doc.Items[i].SortOrder = i
	}
	return doc.Items, nil
}

type Repository interface {
	Source
	Upsert(ctx context.Context, items []Item) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Load(ctx context.Context) ([]Item, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "sort_order", Value: 1},
		{Key: "_id", Value: 1},
	})

	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Item, 0)
	for cursor.Next(ctx) {
		var item Item
		if err := cursor.Decode(&item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) Upsert(ctx context.Context, items []Item) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	models := make([]mongo.WriteModel, 0, len(items))
	for _, item := range items {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": item.ID}).
			SetReplacement(item).
			SetUpsert(true))
	}
	res, err := r.col.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true))
	if err != nil {
		return 0, err
	}
	return res.UpsertedCount + res.ModifiedCount, nil
}

func (r *MongoRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
