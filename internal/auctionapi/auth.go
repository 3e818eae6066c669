package auctionapi

import (
	"context"
	"net/http"

	model "studiobid/internal/models"
)

// Register calls POST /auth/register
func (cl *Client) Register(ctx context.Context, in RegisterInput) (model.Profile, error) {
	var out model.Profile
	_, err := cl.do(ctx, call{
		method:   http.MethodPost,
		path:     "/auth/register",
		endpoint: "POST /auth/register",
		body:     in,
	}, &out)
	return out, err
}

// Login calls POST /auth/login
func (cl *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var out LoginResult
	_, err := cl.do(ctx, call{
		method:   http.MethodPost,
		path:     "/auth/login",
		endpoint: "POST /auth/login",
		body: map[string]string{
			"email":    email,
			"password": password,
		},
	}, &out)
	return out, err
}

var _ API = (*Client)(nil)
