package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/domain/matchevent"
)

type eventDocument struct {
	ID          string `bson:"_id"`
	MatchID     int64  `bson:"match_id"`
	TeamID      int64  `bson:"team_id"`
	PlayerID    int64  `bson:"player_id"`
	Competition string `bson:"competition"`

	Minute  int    `bson:"minute"`
	Second  int    `bson:"second"`
	Period  string `bson:"period"`
	Type    string `bson:"type"`
	Outcome string `bson:"outcome_type"`

	X          float64 `bson:"x"`
	Y          float64 `bson:"y"`
	EndX       float64 `bson:"end_x"`
	EndY       float64 `bson:"end_y"`
	GoalMouthY float64 `bson:"goal_mouth_y"`
	GoalMouthZ float64 `bson:"goal_mouth_z"`

	IsTouch   bool `bson:"is_touch"`
	IsShot    bool `bson:"is_shot"`
	IsGoal    bool `bson:"is_goal"`
	IsOwnGoal bool `bson:"is_own_goal"`

	CardType *string `bson:"card_type,omitempty"`

	TotalSeconds int    `bson:"total_seconds"`
	Passer       *int64 `bson:"passer,omitempty"`
	Recipient    *int64 `bson:"recipient,omitempty"`

	// Position within the linker's output. Mongo leaves the order of
	// equal total_seconds values unspecified, so the tie-break the linker
	// established must be stored to round-trip.
	Seq int `bson:"seq"`
}

func toEventDocument(e matchevent.Event) eventDocument {
	return eventDocument{
		ID:          e.ID,
		MatchID:     e.MatchID,
		TeamID:      e.TeamID,
		PlayerID:    e.PlayerID,
		Competition: e.Competition,

		Minute:  e.Minute,
		Second:  e.Second,
		Period:  e.Period,
		Type:    e.Type,
		Outcome: e.Outcome,

		X:          e.X,
		Y:          e.Y,
		EndX:       e.EndX,
		EndY:       e.EndY,
		GoalMouthY: e.GoalMouthY,
		GoalMouthZ: e.GoalMouthZ,

		IsTouch:   e.IsTouch,
		IsShot:    e.IsShot,
		IsGoal:    e.IsGoal,
		IsOwnGoal: e.IsOwnGoal,

		CardType: e.CardType,

		TotalSeconds: e.TotalSeconds,
		Passer:       e.Passer,
		Recipient:    e.Recipient,
	}
}

func (d eventDocument) toDomain() matchevent.Event {
	return matchevent.Event{
		ID:          d.ID,
		MatchID:     d.MatchID,
		TeamID:      d.TeamID,
		PlayerID:    d.PlayerID,
		Competition: d.Competition,

		Minute:  d.Minute,
		Second:  d.Second,
		Period:  d.Period,
		Type:    d.Type,
		Outcome: d.Outcome,

		X:          d.X,
		Y:          d.Y,
		EndX:       d.EndX,
		EndY:       d.EndY,
		GoalMouthY: d.GoalMouthY,
		GoalMouthZ: d.GoalMouthZ,

		IsTouch:   d.IsTouch,
		IsShot:    d.IsShot,
		IsGoal:    d.IsGoal,
		IsOwnGoal: d.IsOwnGoal,

		CardType: d.CardType,

		TotalSeconds: d.TotalSeconds,
		Passer:       d.Passer,
		Recipient:    d.Recipient,
	}
}

type MatchEventRepository struct {
	collection *mongo.Collection
}

func NewMatchEventRepository(db *mongo.Database) *MatchEventRepository {
	return &MatchEventRepository{collection: db.Collection(collectionEvents)}
}

// ReplaceByMatch deletes the match's previous rows then inserts the new
// ones, so the stored table always reflects exactly one linker run.
func (r *MatchEventRepository) ReplaceByMatch(ctx context.Context, matchID int64, items []matchevent.Event) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{"match_id": matchID}); err != nil {
		return fmt.Errorf("delete events match_id=%d: %w", matchID, err)
	}
	if len(items) == 0 {
		return nil
	}

	docs := eventDocuments(items)
	if _, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false)); err != nil {
		return fmt.Errorf("insert events match_id=%d: %w", matchID, err)
	}
	return nil
}

func eventDocuments(items []matchevent.Event) []any {
	docs := make([]any, 0, len(items))
	for i, e := range items {
		doc := toEventDocument(e)
		doc.Seq = i
		docs = append(docs, doc)
	}
	return docs
}

func eventListSort() bson.D {
	return bson.D{
		{Key: "total_seconds", Value: 1},
		{Key: "seq", Value: 1},
	}
}

func (r *MatchEventRepository) ListByMatch(ctx context.Context, matchID int64) ([]matchevent.Event, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"match_id": matchID}, options.Find().SetSort(eventListSort()))
	if err != nil {
		return nil, fmt.Errorf("find events match_id=%d: %w", matchID, err)
	}
	defer cursor.Close(ctx)

	var docs []eventDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}

	out := make([]matchevent.Event, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.toDomain())
	}
	return out, nil
}
