package auctionapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	model "studiobid/internal/models"
)

func expandListing(q url.Values) url.Values {
	if q == nil {
		q = url.Values{}
	}
	q.Set("_seller", "true")
	q.Set("_bids", "true")
	return q
}

func setPaging(q url.Values, limit, page int) {
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
}

// ListListings calls GET /auction/listings
func (cl *Client) ListListings(ctx context.Context, lq ListingQuery) ([]model.Listing, *model.PageMeta, error) {
	q := expandListing(nil)
	if lq.Active {
		q.Set("_active", "true")
	}
	if lq.Sort != "" {
		q.Set("sort", lq.Sort)
	}
	if lq.SortOrder != "" {
		q.Set("sortOrder", lq.SortOrder)
	}
	setPaging(q, lq.Limit, lq.Page)

	var out []model.Listing
	meta, err := cl.do(ctx, call{
		method:   http.MethodGet,
		path:     "/auction/listings",
		endpoint: "GET /auction/listings",
		query:    q,
	}, &out)
	if err != nil {
		return nil, nil, err
	}
	return out, meta, nil
}

// SearchListings calls GET /auction/listings/search
func (cl *Client) SearchListings(ctx context.Context, sq SearchQuery) ([]model.Listing, *model.PageMeta, error) {
	q := expandListing(nil)
	q.Set("q", sq.Query)
	setPaging(q, sq.Limit, sq.Page)

	var out []model.Listing
	meta, err := cl.do(ctx, call{
		method:   http.MethodGet,
		path:     "/auction/listings/search",
		endpoint: "GET /auction/listings/search",
		query:    q,
	}, &out)
	if err != nil {
		return nil, nil, err
	}
	return out, meta, nil
}

// GetListing calls GET /auction/listings/{id}
func (cl *Client) GetListing(ctx context.Context, id string) (model.Listing, error) {
	var out model.Listing
	_, err := cl.do(ctx, call{
		method:   http.MethodGet,
		path:     "/auction/listings/" + segment(id),
		endpoint: "GET /auction/listings/:id",
		query:    expandListing(nil),
	}, &out)
	return out, err
}

// CreateListing calls POST /auction/listings
func (cl *Client) CreateListing(ctx context.Context, token string, in ListingInput) (model.Listing, error) {
	var out model.Listing
	_, err := cl.do(ctx, call{
		method:   http.MethodPost,
		path:     "/auction/listings",
		endpoint: "POST /auction/listings",
		token:    token,
		body:     in,
	}, &out)
	return out, err
}

// UpdateListing calls PUT /auction/listings/{id}
func (cl *Client) UpdateListing(ctx context.Context, token, id string, in ListingInput) (model.Listing, error) {
	var out model.Listing
	_, err := cl.do(ctx, call{
		method:   http.MethodPut,
		path:     "/auction/listings/" + segment(id),
		endpoint: "PUT /auction/listings/:id",
		token:    token,
		body:     in,
	}, &out)
	return out, err
}

// DeleteListing calls DELETE /auction/listings/{id}
func (cl *Client) DeleteListing(ctx context.Context, token, id string) error {
	_, err := cl.do(ctx, call{
		method:   http.MethodDelete,
		path:     "/auction/listings/" + segment(id),
		endpoint: "DELETE /auction/listings/:id",
		token:    token,
	}, nil)
	return err
}

// PlaceBid calls POST /auction/listings/{id}/bids
func (cl *Client) PlaceBid(ctx context.Context, token, id string, amount int) (model.Listing, error) {
	var out model.Listing
	_, err := cl.do(ctx, call{
		method:   http.MethodPost,
		path:     "/auction/listings/" + segment(id) + "/bids",
		endpoint: "POST /auction/listings/:id/bids",
		token:    token,
		body:     map[string]int{"amount": amount},
	}, &out)
	return out, err
}
