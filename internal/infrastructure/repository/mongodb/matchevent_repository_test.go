package mongodb

import (
	"testing"

	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/domain/matchevent"
)

func TestEventDocuments_StampSliceOrder(t *testing.T) {
	// Two passes at the same second must keep their relative order after a
	// sorted read-back, so the position in the linker's output is stored.
	items := []matchevent.Event{
		{ID: "1_Pass_60_100", MatchID: 1, PlayerID: 100, TotalSeconds: 60, Type: "Pass"},
		{ID: "1_Pass_60_200", MatchID: 1, PlayerID: 200, TotalSeconds: 60, Type: "Pass"},
		{ID: "1_Goal_90_300", MatchID: 1, PlayerID: 300, TotalSeconds: 90, Type: "Goal"},
	}

	docs := eventDocuments(items)
	if len(docs) != len(items) {
		t.Fatalf("document count = %d, want %d", len(docs), len(items))
	}
	for i, raw := range docs {
		doc, ok := raw.(eventDocument)
		if !ok {
			t.Fatalf("document %d has type %T", i, raw)
		}
		if doc.Seq != i {
			t.Fatalf("seq(%s) = %d, want %d", doc.ID, doc.Seq, i)
		}
	}
}

func TestEventListSort_TieBreaksOnSeq(t *testing.T) {
	sort := eventListSort()
	if len(sort) != 2 {
		t.Fatalf("sort spec = %v, want total_seconds then seq", sort)
	}
	if sort[0].Key != "total_seconds" || sort[0].Value != 1 {
		t.Fatalf("primary sort key = %v", sort[0])
	}
	if sort[1].Key != "seq" || sort[1].Value != 1 {
		t.Fatalf("tie-break sort key = %v", sort[1])
	}
}
