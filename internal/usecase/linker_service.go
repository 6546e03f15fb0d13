package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/domain/matchevent"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/platform/logging"
)

// LinkerService orders normalized events and derives the relational fields
// downstream aggregation depends on: the elapsed-time key, the passer column
// and the inferred pass recipient.
type LinkerService struct {
	logger *logging.Logger
}

func NewLinkerService(logger *logging.Logger) *LinkerService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LinkerService{logger: logger}
}

// Link enriches a whole batch of events, possibly spanning many matches.
// The result is globally sorted by (match id, total seconds) ascending with
// scrape order preserved on ties.
//
// Recipient inference walks the subsequence of successful passes in sorted
// order and assumes the next successful pass is performed by the receiving
// player. That is a heuristic, not ground truth. The walk restarts at every
// match and period boundary so the last pass of a half never links to an
// unrelated player.
func (s *LinkerService) Link(ctx context.Context, events []matchevent.Event) ([]matchevent.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "LinkerService.Link")
	defer span.End()

	out := make([]matchevent.Event, len(events))
	copy(out, events)

	for i := range out {
		out[i].TotalSeconds = out[i].Minute*60 + out[i].Second
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MatchID != out[j].MatchID {
			return out[i].MatchID < out[j].MatchID
		}
		return out[i].TotalSeconds < out[j].TotalSeconds
	})

	for i := range out {
		out[i].ID = matchevent.ComposeID(out[i].MatchID, out[i].Type, out[i].TotalSeconds, out[i].PlayerID)
		if out[i].Type == matchevent.TypePass {
			playerID := out[i].PlayerID
			out[i].Passer = &playerID
		} else {
			out[i].Passer = nil
		}
		out[i].Recipient = nil
	}

	recipients := s.inferRecipients(out)
	s.applyRecipients(ctx, out, recipients)
	return out, nil
}

// inferRecipients returns a join map from event key to the recipient player
// id derived from the successful-pass subsequence.
func (s *LinkerService) inferRecipients(sorted []matchevent.Event) map[string]int64 {
	recipients := make(map[string]int64)

	prev := -1
	for i := range sorted {
		if !sorted[i].IsSuccessfulPass() {
			continue
		}
		if prev >= 0 &&
			sorted[prev].MatchID == sorted[i].MatchID &&
			sorted[prev].Period == sorted[i].Period {
			key := joinKey(sorted[prev])
			if _, ok := recipients[key]; !ok {
				recipients[key] = sorted[i].PlayerID
			}
		}
		prev = i
	}
	return recipients
}

// applyRecipients joins the inferred recipients back onto the full table.
// Rows sharing a join key are a degenerate collision: the first row in sort
// order wins and a warning is logged.
func (s *LinkerService) applyRecipients(ctx context.Context, sorted []matchevent.Event, recipients map[string]int64) {
	claimed := make(map[string]struct{}, len(recipients))
	for i := range sorted {
		key := joinKey(sorted[i])
		recipient, ok := recipients[key]
		if !ok {
			continue
		}
		if _, dup := claimed[key]; dup {
			s.logger.WarnContext(ctx, "recipient join key collision, keeping first row",
				"match_id", sorted[i].MatchID, "key", key)
			continue
		}
		claimed[key] = struct{}{}
		r := recipient
		sorted[i].Recipient = &r
	}
}

// joinKey combines the event identifier, elapsed-time key and type so rows
// that merely share a timestamp never join to each other's recipient.
func joinKey(e matchevent.Event) string {
	return fmt.Sprintf("%s|%d|%s", e.ID, e.TotalSeconds, e.Type)
}
