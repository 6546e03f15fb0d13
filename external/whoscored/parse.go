package whoscored

import (
	"bytes"
	"regexp"
	"sort"
	"strconv"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

const matchCentreMarker = "matchCentreData: "

var (
	liveURLRegex = regexp.MustCompile(`href="(/Matches/\d+/Live/[^"]*)"`)
	matchIDRegex = regexp.MustCompile(`Matches/(\d+)/`)
)

// ExtractMatchCentreData pulls the embedded matchCentreData JSON blob out of
// a match page. The provider inlines it as a script assignment terminated by
// ",\n", so the blob itself never contains that sequence.
func ExtractMatchCentreData(page []byte) ([]byte, error) {
	start := bytes.Index(page, []byte(matchCentreMarker))
	if start < 0 {
		return nil, crerr.New("matchCentreData blob not found in page")
	}
	rest := page[start+len(matchCentreMarker):]

	end := bytes.Index(rest, []byte(",\n"))
	if end < 0 {
		return nil, crerr.New("unterminated matchCentreData blob")
	}

	blob := bytes.TrimSpace(rest[:end])
	if len(blob) == 0 || blob[0] != '{' {
		return nil, crerr.Newf("matchCentreData blob is not an object (starts with %q)", string(blob[:min(8, len(blob))]))
	}

	out := make([]byte, len(blob))
	copy(out, blob)
	return out, nil
}

// ExtractFixtureRefs finds match-page links on the team fixtures page and
// tags each with its competition. Links outside the known competitions are
// skipped. Output is deduplicated and sorted by match id.
func ExtractFixtureRefs(page []byte, baseURL string) []FixtureRef {
	baseURL = strings.TrimRight(baseURL, "/")
	seen := make(map[int64]FixtureRef)
	for _, groups := range liveURLRegex.FindAllSubmatch(page, -1) {
		href := string(groups[1])

		competition := ""
		switch {
		case strings.Contains(href, "LaLiga"):
			competition = "La Liga"
		case strings.Contains(href, "Champions-League"):
			competition = "Champions League"
		default:
			continue
		}

		idGroups := matchIDRegex.FindStringSubmatch(href)
		if idGroups == nil {
			continue
		}
		matchID, err := strconv.ParseInt(idGroups[1], 10, 64)
		if err != nil || matchID <= 0 {
			continue
		}

		seen[matchID] = FixtureRef{
			MatchID:     matchID,
			Competition: competition,
			URL:         baseURL + href,
		}
	}

	out := make([]FixtureRef, 0, len(seen))
	for _, ref := range seen {
		out = append(out, ref)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MatchID < out[j].MatchID })
	return out
}
