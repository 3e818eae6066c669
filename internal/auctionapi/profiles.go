package auctionapi

import (
	"context"
	"net/http"
	"net/url"

	model "studiobid/internal/models"
)

// GetProfile calls GET /auction/profiles/{name}
func (cl *Client) GetProfile(ctx context.Context, token, name string) (model.Profile, error) {
	var out model.Profile
	_, err := cl.do(ctx, call{
		method:   http.MethodGet,
		path:     "/auction/profiles/" + segment(name),
		endpoint: "GET /auction/profiles/:name",
		token:    token,
	}, &out)
	return out, err
}

// UpdateProfile calls PUT /auction/profiles/{name}
func (cl *Client) UpdateProfile(ctx context.Context, token, name string, in ProfileInput) (model.Profile, error) {
	var out model.Profile
	_, err := cl.do(ctx, call{
		method:   http.MethodPut,
		path:     "/auction/profiles/" + segment(name),
		endpoint: "PUT /auction/profiles/:name",
		token:    token,
		body:     in,
	}, &out)
	return out, err
}

// ListProfileListings calls GET /auction/profiles/{name}/listings
func (cl *Client) ListProfileListings(ctx context.Context, token, name string) ([]model.Listing, error) {
	var out []model.Listing
	_, err := cl.do(ctx, call{
		method:   http.MethodGet,
		path:     "/auction/profiles/" + segment(name) + "/listings",
		endpoint: "GET /auction/profiles/:name/listings",
		token:    token,
		query:    url.Values{"_bids": {"true"}},
	}, &out)
	return out, err
}

// ListProfileBids calls GET /auction/profiles/{name}/bids with the listing
// each bid belongs to
func (cl *Client) ListProfileBids(ctx context.Context, token, name string) ([]model.Bid, error) {
	var out []model.Bid
	_, err := cl.do(ctx, call{
		method:   http.MethodGet,
		path:     "/auction/profiles/" + segment(name) + "/bids",
		endpoint: "GET /auction/profiles/:name/bids",
		token:    token,
		query:    url.Values{"_listings": {"true"}},
	}, &out)
	return out, err
}

// ListProfileWins calls GET /auction/profiles/{name}/wins
func (cl *Client) ListProfileWins(ctx context.Context, token, name string) ([]model.Listing, error) {
	var out []model.Listing
	_, err := cl.do(ctx, call{
		method:   http.MethodGet,
		path:     "/auction/profiles/" + segment(name) + "/wins",
		endpoint: "GET /auction/profiles/:name/wins",
		token:    token,
		query:    url.Values{"_bids": {"true"}},
	}, &out)
	return out, err
}
