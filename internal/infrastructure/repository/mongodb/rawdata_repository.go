package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/domain/rawdata"
)

type rawDataDocument struct {
	ID          string    `bson:"_id"`
	Source      string    `bson:"source"`
	EntityType  string    `bson:"entity_type"`
	EntityKey   string    `bson:"entity_key"`
	MatchID     int64     `bson:"match_id"`
	PayloadJSON string    `bson:"payload_json"`
	PayloadHash string    `bson:"payload_hash"`
	FetchedAt   time.Time `bson:"fetched_at"`
}

type RawDataRepository struct {
	collection *mongo.Collection
}

func NewRawDataRepository(db *mongo.Database) *RawDataRepository {
	return &RawDataRepository{collection: db.Collection(collectionRawData)}
}

func (r *RawDataRepository) UpsertMany(ctx context.Context, items []rawdata.Payload) error {
	if len(items) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(items))
	for _, p := range items {
		doc := rawDataDocument{
			ID:          p.Source + "/" + p.EntityType + "/" + p.EntityKey,
			Source:      p.Source,
			EntityType:  p.EntityType,
			EntityKey:   p.EntityKey,
			MatchID:     p.MatchID,
			PayloadJSON: p.PayloadJSON,
			PayloadHash: p.PayloadHash,
			FetchedAt:   p.FetchedAt,
		}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": doc.ID}).
			SetReplacement(doc).
			SetUpsert(true))
	}

	if _, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("bulk upsert raw payloads: %w", err)
	}
	return nil
}
