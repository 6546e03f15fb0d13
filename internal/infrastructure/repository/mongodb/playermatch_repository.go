package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/domain/playermatch"
)

type playerMatchDocument struct {
	ID          string         `bson:"_id"`
	PlayerID    int64          `bson:"player_id"`
	MatchID     int64          `bson:"match_id"`
	Name        string         `bson:"name"`
	ShirtNo     int            `bson:"shirt_no"`
	Position    string         `bson:"position"`
	Age         int            `bson:"age"`
	TeamID      int64          `bson:"team_id"`
	Competition string         `bson:"competition"`
	Stats       map[string]any `bson:"stats,omitempty"`
}

func toPlayerMatchDocument(s playermatch.Stat) playerMatchDocument {
	return playerMatchDocument{
		ID:          s.ID,
		PlayerID:    s.PlayerID,
		MatchID:     s.MatchID,
		Name:        s.Name,
		ShirtNo:     s.ShirtNo,
		Position:    s.Position,
		Age:         s.Age,
		TeamID:      s.TeamID,
		Competition: s.Competition,
		Stats:       s.Stats,
	}
}

func (d playerMatchDocument) toDomain() playermatch.Stat {
	return playermatch.Stat{
		ID:          d.ID,
		PlayerID:    d.PlayerID,
		MatchID:     d.MatchID,
		Name:        d.Name,
		ShirtNo:     d.ShirtNo,
		Position:    d.Position,
		Age:         d.Age,
		TeamID:      d.TeamID,
		Competition: d.Competition,
		Stats:       d.Stats,
	}
}

type PlayerMatchRepository struct {
	collection *mongo.Collection
}

func NewPlayerMatchRepository(db *mongo.Database) *PlayerMatchRepository {
	return &PlayerMatchRepository{collection: db.Collection(collectionPlayers)}
}

// InsertMany writes appearance rows keyed by the composite identifier so a
// re-ingested match never duplicates them.
func (r *PlayerMatchRepository) InsertMany(ctx context.Context, items []playermatch.Stat) error {
	if len(items) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(items))
	for _, s := range items {
		doc := toPlayerMatchDocument(s)
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": doc.ID}).
			SetReplacement(doc).
			SetUpsert(true))
	}

	if _, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("bulk insert players: %w", err)
	}
	return nil
}

func (r *PlayerMatchRepository) ListByMatch(ctx context.Context, matchID int64) ([]playermatch.Stat, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"match_id": matchID})
	if err != nil {
		return nil, fmt.Errorf("find players match_id=%d: %w", matchID, err)
	}
	defer cursor.Close(ctx)

	var docs []playerMatchDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode players: %w", err)
	}

	out := make([]playermatch.Stat, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.toDomain())
	}
	return out, nil
}
