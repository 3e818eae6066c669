// Package feed tracks which listings a session has already been shown so
// "load more" never repeats a card when upstream pages overlap.
package feed

import (
	model "studiobid/internal/models"
	"studiobid/internal/ranking"
)

// Tracker wraps a session's FeedState with a lookup set over LoadedIDs.
// It is not safe for concurrent use; each request builds its own.
type Tracker struct {
	state *model.FeedState
	seen  map[string]struct{}
}

// NewTracker builds a Tracker over state, indexing the ids it already holds
func NewTracker(state *model.FeedState) *Tracker {
	seen := make(map[string]struct{}, len(state.LoadedIDs))
	for _, id := range state.LoadedIDs {
		seen[id] = struct{}{}
	}
	return &Tracker{state: state, seen: seen}
}

// Reset starts a fresh feed for query and sort at page 1
func (t *Tracker) Reset(query string, sort ranking.SortMode) {
	t.state.Query = query
	t.state.Sort = string(sort)
	t.state.Page = 1
	t.state.LoadedIDs = nil
	t.state.HasMore = false
	t.seen = make(map[string]struct{})
}

// Matches reports whether query and sort continue the current feed
func (t *Tracker) Matches(query string, sort ranking.SortMode) bool {
	return t.state.Page > 0 &&
		ranking.NormalizeQuery(t.state.Query) == ranking.NormalizeQuery(query) &&
		ranking.ParseSortMode(t.state.Sort) == sort
}

// Admit returns the listings not shown before, in input order, and marks
// them as shown
func (t *Tracker) Admit(listings []model.Listing) []model.Listing {
	fresh := make([]model.Listing, 0, len(listings))
	for _, l := range listings {
		if t.Seen(l.ID) {
			continue
		}
		t.seen[l.ID] = struct{}{}
		t.state.LoadedIDs = append(t.state.LoadedIDs, l.ID)
		fresh = append(fresh, l)
	}
	return fresh
}

// Seen reports whether id has been admitted
func (t *Tracker) Seen(id string) bool {
	_, ok := t.seen[id]
	return ok
}

// Advance records that page was fetched and returned rawCount results. A
// full page means another one may follow.
func (t *Tracker) Advance(page, rawCount, pageSize int) {
	t.state.Page = page
	t.state.HasMore = pageSize > 0 && rawCount == pageSize
}

// NextPage is the page number "load more" should request
func (t *Tracker) NextPage() int {
	return t.state.Page + 1
}

// HasMore reports whether "load more" should be offered
func (t *Tracker) HasMore() bool {
	return t.state.HasMore
}

// Query returns the search term of the current feed
func (t *Tracker) Query() string {
	return t.state.Query
}

// Sort returns the sort mode of the current feed
func (t *Tracker) Sort() ranking.SortMode {
	return ranking.ParseSortMode(t.state.Sort)
}

// Loaded returns how many listings have been admitted
func (t *Tracker) Loaded() int {
	return len(t.state.LoadedIDs)
}
