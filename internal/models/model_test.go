package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMedia_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []Media
		wantErr bool
	}{
		{
			name:  "objects",
			input: `[{"url":"https://img/1.jpg","alt":"front"}]`,
			want:  []Media{{URL: "https://img/1.jpg", Alt: "front"}},
		},
		{
			name:  "raw_strings",
			input: `["https://img/1.jpg","https://img/2.jpg"]`,
			want:  []Media{{URL: "https://img/1.jpg"}, {URL: "https://img/2.jpg"}},
		},
		{
			name:  "mixed",
			input: `["https://img/1.jpg",{"url":"https://img/2.jpg","alt":"side"}]`,
			want:  []Media{{URL: "https://img/1.jpg"}, {URL: "https://img/2.jpg", Alt: "side"}},
		},
		{
			name:    "number_rejected",
			input:   `[42]`,
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got []Media
			err := json.Unmarshal([]byte(tc.input), &got)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestListing_DecodeFromAPI(t *testing.T) {
	payload := `{
		"id": "abc",
		"title": "Camera",
		"tags": ["vintage"],
		"media": [{"url": "https://img/c.jpg", "alt": "camera"}],
		"created": "2026-01-02T10:00:00.000Z",
		"endsAt": "2026-12-31T10:00:00.000Z",
		"seller": {"name": "ola", "avatar": {"url": "https://img/a.jpg", "alt": ""}},
		"bids": [{"id": "b1", "amount": 15, "bidder": {"name": "kari"}, "created": "2026-01-03T10:00:00.000Z"}],
		"_count": {"bids": 1}
	}`

	var l Listing
	require.NoError(t, json.Unmarshal([]byte(payload), &l))
	require.Equal(t, "abc", l.ID)
	require.Equal(t, "ola", l.SellerName())
	require.Equal(t, "https://img/a.jpg", MediaURL(l.Seller.Avatar))
	require.Len(t, l.Bids, 1)
	require.Equal(t, 15, l.Bids[0].Amount)
	require.Equal(t, "kari", l.Bids[0].BidderName())
	require.Equal(t, 1, l.Count.Bids)
}

func TestNilHelpers(t *testing.T) {
	require.Equal(t, "", Listing{}.SellerName())
	require.Equal(t, "", Bid{}.BidderName())
	require.Equal(t, "", MediaURL(nil))
}
