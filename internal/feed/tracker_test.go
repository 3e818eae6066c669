package feed

import (
	"testing"

	model "studiobid/internal/models"
	"studiobid/internal/ranking"

	"github.com/stretchr/testify/require"
)

func listings(ids ...string) []model.Listing {
	out := make([]model.Listing, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Listing{ID: id})
	}
	return out
}

func idsOf(ls []model.Listing) []string {
	out := make([]string, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.ID)
	}
	return out
}

func TestTracker_AdmitDeduplicatesAcrossPages(t *testing.T) {
	state := &model.FeedState{}
	tr := NewTracker(state)
	tr.Reset("", ranking.SortNewest)

	first := tr.Admit(listings("a", "b", "c"))
	require.Equal(t, []string{"a", "b", "c"}, idsOf(first))

	// server-side paging shifted: "c" shows up again on page 2
	second := tr.Admit(listings("c", "d", "d", "e"))
	require.Equal(t, []string{"d", "e"}, idsOf(second))

	require.Equal(t, []string{"a", "b", "c", "d", "e"}, state.LoadedIDs)
	require.Equal(t, 5, tr.Loaded())
	require.True(t, tr.Seen("c"))
	require.False(t, tr.Seen("z"))
}

func TestTracker_ResetClearsState(t *testing.T) {
	state := &model.FeedState{Query: "old", Sort: "ending", Page: 4, LoadedIDs: []string{"a", "b"}, HasMore: true}
	tr := NewTracker(state)
	require.True(t, tr.Seen("a"))

	tr.Reset("camera", ranking.SortHighest)

	require.Equal(t, "camera", state.Query)
	require.Equal(t, "highest", state.Sort)
	require.Equal(t, 1, state.Page)
	require.Empty(t, state.LoadedIDs)
	require.False(t, state.HasMore)
	require.False(t, tr.Seen("a"))

	// a listing seen before the reset is admitted again
	require.Equal(t, []string{"a"}, idsOf(tr.Admit(listings("a"))))
}

func TestTracker_RebuiltFromPersistedState(t *testing.T) {
	state := &model.FeedState{Query: "vase", Sort: "newest", Page: 1, LoadedIDs: []string{"a", "b"}}
	tr := NewTracker(state)

	require.Equal(t, []string{"c"}, idsOf(tr.Admit(listings("a", "b", "c"))))
}

func TestTracker_Matches(t *testing.T) {
	state := &model.FeedState{}
	tr := NewTracker(state)
	require.False(t, tr.Matches("", ranking.SortNewest), "empty state never matches")

	tr.Reset("Camera", ranking.SortEnding)
	require.True(t, tr.Matches(" camera ", ranking.SortEnding))
	require.False(t, tr.Matches("camera", ranking.SortNewest))
	require.False(t, tr.Matches("lens", ranking.SortEnding))
}

func TestTracker_Advance(t *testing.T) {
	tests := []struct {
		name     string
		rawCount int
		pageSize int
		wantMore bool
	}{
		{name: "full_page", rawCount: 12, pageSize: 12, wantMore: true},
		{name: "short_page", rawCount: 11, pageSize: 12, wantMore: false},
		{name: "empty_page", rawCount: 0, pageSize: 12, wantMore: false},
		{name: "zero_page_size", rawCount: 0, pageSize: 0, wantMore: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			state := &model.FeedState{}
			tr := NewTracker(state)
			tr.Reset("", ranking.SortNewest)
			tr.Advance(3, tc.rawCount, tc.pageSize)
			require.Equal(t, tc.wantMore, tr.HasMore())
			require.Equal(t, 3, state.Page)
			require.Equal(t, 4, tr.NextPage())
		})
	}
}
