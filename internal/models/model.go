package models

import "time"

// ProfileSummary is the short profile embedded in listings and bids
type ProfileSummary struct {
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Bio    string `json:"bio,omitempty"`
	Avatar *Media `json:"avatar,omitempty"`
	Banner *Media `json:"banner,omitempty"`
}

// ListingCount holds the derived count fields of a listing
type ListingCount struct {
	Bids int `json:"bids"`
}

// Listing represents an auction item as returned by the auction API
type Listing struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Media       []Media         `json:"media"`
	Tags        []string        `json:"tags"`
	Created     time.Time       `json:"created"`
	Updated     time.Time       `json:"updated"`
	EndsAt      time.Time       `json:"endsAt"`
	Seller      *ProfileSummary `json:"seller,omitempty"`
	Bids        []Bid           `json:"bids,omitempty"`
	Count       ListingCount    `json:"_count"`
}

// SellerName returns the seller name or "" when the seller was not expanded
func (l Listing) SellerName() string {
	if l.Seller == nil {
		return ""
	}
	return l.Seller.Name
}

// Bid represents a monetary offer placed against a listing
type Bid struct {
	ID      string          `json:"id"`
	Amount  int             `json:"amount"`
	Created time.Time       `json:"created"`
	Bidder  *ProfileSummary `json:"bidder,omitempty"`
	Listing *Listing        `json:"listing,omitempty"`
}

// BidderName returns the bidder name or "" when the bidder was not expanded
func (b Bid) BidderName() string {
	if b.Bidder == nil {
		return ""
	}
	return b.Bidder.Name
}

// ProfileCount holds the derived count fields of a profile
type ProfileCount struct {
	Listings int `json:"listings"`
	Wins     int `json:"wins"`
}

// Profile is a user's public account data
type Profile struct {
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	Bio      string       `json:"bio"`
	Avatar   *Media       `json:"avatar,omitempty"`
	Banner   *Media       `json:"banner,omitempty"`
	Credits  int          `json:"credits"`
	Count    ProfileCount `json:"_count"`
	Listings []Listing    `json:"listings,omitempty"`
	Wins     []Listing    `json:"wins,omitempty"`
}

// PageMeta is the pagination block the auction API sends next to data
type PageMeta struct {
	IsFirstPage  bool `json:"isFirstPage"`
	IsLastPage   bool `json:"isLastPage"`
	CurrentPage  int  `json:"currentPage"`
	PreviousPage *int `json:"previousPage"`
	NextPage     *int `json:"nextPage"`
	PageCount    int  `json:"pageCount"`
	TotalCount   int  `json:"totalCount"`
}

// AuthSession is the token and cached profile summary of a logged-in user
type AuthSession struct {
	AccessToken string     `json:"accessToken"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Credits     int        `json:"credits"`
	Avatar      string     `json:"avatar,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
}

// FeedState tracks the listings feed a session is paging through
type FeedState struct {
	Query     string   `json:"query"`
	Sort      string   `json:"sort"`
	Page      int      `json:"page"`
	LoadedIDs []string `json:"loadedIds"`
	HasMore   bool     `json:"hasMore"`
}

// Session is everything kept for one browser between requests
type Session struct {
	ID        string       `json:"id"`
	Auth      *AuthSession `json:"auth,omitempty"`
	Feed      FeedState    `json:"feed"`
	UpdatedAt time.Time    `json:"updatedAt"`
}
