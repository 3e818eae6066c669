package helpers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Request DTOs

// BidAmount is the raw bid field. Forms post it as a string and scripts as
// a number; both are kept as text so the service does the one validation.
type BidAmount string

func (a *BidAmount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*a = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode bid amount: %w", err)
		}
		*a = BidAmount(s)
	default:
		*a = BidAmount(data)
	}
	return nil
}

// TagList accepts either "a, b, c" or ["a", "b", "c"] and keeps the comma form
type TagList string

func (t *TagList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var tags []string
		if err := json.Unmarshal(data, &tags); err != nil {
			return fmt.Errorf("decode tags: %w", err)
		}
		*t = TagList(strings.Join(tags, ","))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decode tags: %w", err)
	}
	*t = TagList(s)
	return nil
}

type PlaceBidRequest struct {
	Amount BidAmount `json:"amount"`
}

type ListingRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Tags        TagList    `json:"tags"`
	Media       []string   `json:"media"`
	EndsAt      *time.Time `json:"endsAt"`
}

type ProfileUpdateRequest struct {
	Bio    *string `json:"bio"`
	Avatar *string `json:"avatar"`
	Banner *string `json:"banner"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Bio      string `json:"bio"`
	Avatar   string `json:"avatar"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Response DTOs

type ListingCard struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Image      string `json:"image"`
	Alt        string `json:"alt"`
	HighestBid int    `json:"highestBid"`
	BidCount   int    `json:"bidCount"`
	EndsAt     string `json:"endsAt"`
	Ended      bool   `json:"ended"`
	TimeLeft   string `json:"timeLeft"`
	Seller     string `json:"seller"`
}

type FeedResponse struct {
	Cards   []ListingCard `json:"cards"`
	Query   string        `json:"query"`
	Sort    string        `json:"sort"`
	Page    int           `json:"page"`
	HasMore bool          `json:"hasMore"`
	Loaded  int           `json:"loaded"`
	// Restarted means the cards replace the client's list instead of
	// extending it
	Restarted bool `json:"restarted"`
}

type MediaResponse struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

type BidResponse struct {
	ID        string `json:"id"`
	Amount    int    `json:"amount"`
	Bidder    string `json:"bidder"`
	CreatedAt string `json:"created_at"`
}

type ListingDetailResponse struct {
	ListingCard
	Description string          `json:"description"`
	Tags        []string        `json:"tags"`
	Media       []MediaResponse `json:"media"`
	Created     string          `json:"created"`
	Bids        []BidResponse   `json:"bids"`
	IsOwner     bool            `json:"isOwner"`
	CanBid      bool            `json:"canBid"`
}

type PlaceBidResponse struct {
	Listing ListingCard `json:"listing"`
	Credits int         `json:"credits"`
}

type ProfileResponse struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Bio      string `json:"bio"`
	Avatar   string `json:"avatar"`
	Banner   string `json:"banner"`
	Credits  int    `json:"credits"`
	Listings int    `json:"listingCount"`
	Wins     int    `json:"winCount"`
}

type ProfileBidResponse struct {
	BidResponse
	ListingID    string `json:"listingId"`
	ListingTitle string `json:"listingTitle"`
}

type ProfilePageResponse struct {
	Profile  ProfileResponse      `json:"profile"`
	IsOwn    bool                 `json:"isOwn"`
	Listings []ListingCard        `json:"listings"`
	Bids     []ProfileBidResponse `json:"bids"`
	Wins     []ListingCard        `json:"wins"`
}

type SessionResponse struct {
	LoggedIn  bool   `json:"loggedIn"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Credits   int    `json:"credits"`
	Avatar    string `json:"avatar,omitempty"`
	ExpiresAt string `json:"expiresAt,omitempty"`
}
