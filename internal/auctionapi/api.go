//go:generate mockgen -package=auctionapi -destination=mock_api.go -source=api.go

// Package auctionapi wraps the external auction REST API: one method per
// endpoint on top of a small JSON client.
package auctionapi

import (
	"context"
	"time"

	model "studiobid/internal/models"
)

// API is the set of auction endpoints the services depend on
type API interface {
	ListListings(ctx context.Context, q ListingQuery) ([]model.Listing, *model.PageMeta, error)
	SearchListings(ctx context.Context, q SearchQuery) ([]model.Listing, *model.PageMeta, error)
	GetListing(ctx context.Context, id string) (model.Listing, error)
	CreateListing(ctx context.Context, token string, in ListingInput) (model.Listing, error)
	UpdateListing(ctx context.Context, token, id string, in ListingInput) (model.Listing, error)
	DeleteListing(ctx context.Context, token, id string) error
	PlaceBid(ctx context.Context, token, id string, amount int) (model.Listing, error)

	GetProfile(ctx context.Context, token, name string) (model.Profile, error)
	UpdateProfile(ctx context.Context, token, name string, in ProfileInput) (model.Profile, error)
	ListProfileListings(ctx context.Context, token, name string) ([]model.Listing, error)
	ListProfileBids(ctx context.Context, token, name string) ([]model.Bid, error)
	ListProfileWins(ctx context.Context, token, name string) ([]model.Listing, error)

	Register(ctx context.Context, in RegisterInput) (model.Profile, error)
	Login(ctx context.Context, email, password string) (LoginResult, error)
}

// ListingQuery filters GET /auction/listings. Seller and bids are always
// expanded.
type ListingQuery struct {
	Active    bool
	Sort      string
	SortOrder string
	Limit     int
	Page      int
}

// SearchQuery is GET /auction/listings/search
type SearchQuery struct {
	Query string
	Limit int
	Page  int
}

// ListingInput is the body of create and update
type ListingInput struct {
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
	Media       []model.Media `json:"media,omitempty"`
	EndsAt      *time.Time    `json:"endsAt,omitempty"`
}

// ProfileInput is the body of a profile update; nil fields are left alone
type ProfileInput struct {
	Bio    *string      `json:"bio,omitempty"`
	Avatar *model.Media `json:"avatar,omitempty"`
	Banner *model.Media `json:"banner,omitempty"`
}

// RegisterInput is the body of POST /auth/register
type RegisterInput struct {
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	Password string       `json:"password"`
	Bio      string       `json:"bio,omitempty"`
	Avatar   *model.Media `json:"avatar,omitempty"`
	Banner   *model.Media `json:"banner,omitempty"`
}

// LoginResult is the data of POST /auth/login
type LoginResult struct {
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Bio         string       `json:"bio"`
	Avatar      *model.Media `json:"avatar,omitempty"`
	Banner      *model.Media `json:"banner,omitempty"`
	AccessToken string       `json:"accessToken"`
}
