package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/domain/team"
)

type teamDocument struct {
	ID          int64  `bson:"_id"`
	Name        string `bson:"name"`
	CountryName string `bson:"country_name"`
	ManagerName string `bson:"manager_name"`
	Competition string `bson:"competition"`
}

func toTeamDocument(t team.Team) teamDocument {
	return teamDocument{
		ID:          t.ID,
		Name:        t.Name,
		CountryName: t.CountryName,
		ManagerName: t.ManagerName,
		Competition: t.Competition,
	}
}

func (d teamDocument) toDomain() team.Team {
	return team.Team{
		ID:          d.ID,
		Name:        d.Name,
		CountryName: d.CountryName,
		ManagerName: d.ManagerName,
		Competition: d.Competition,
	}
}

type TeamRepository struct {
	collection *mongo.Collection
}

func NewTeamRepository(db *mongo.Database) *TeamRepository {
	return &TeamRepository{collection: db.Collection(collectionTeams)}
}

func (r *TeamRepository) UpsertMany(ctx context.Context, items []team.Team) error {
	if len(items) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(items))
	for _, t := range items {
		doc := toTeamDocument(t)
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": doc.ID}).
			SetReplacement(doc).
			SetUpsert(true))
	}

	if _, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("bulk upsert teams: %w", err)
	}
	return nil
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (team.Team, bool, error) {
	var doc teamDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return team.Team{}, false, nil
	}
	if err != nil {
		return team.Team{}, false, fmt.Errorf("find team %d: %w", id, err)
	}
	return doc.toDomain(), true, nil
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find teams: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []teamDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode teams: %w", err)
	}

	out := make([]team.Team, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.toDomain())
	}
	return out, nil
}
