//go:generate mockgen -package=handler -destination=mock_services.go -source=interfaces.go

package handler

import (
	"context"

	auth "studiobid/internal/authService"
	listing "studiobid/internal/listingService"
	model "studiobid/internal/models"
	profile "studiobid/internal/profileService"
	"studiobid/internal/ranking"
)

type ListingServiceInterface interface {
	FirstPage(ctx context.Context, state *model.FeedState, query string, sort ranking.SortMode) (listing.FeedPage, error)
	NextPage(ctx context.Context, state *model.FeedState) (listing.FeedPage, error)
	Get(ctx context.Context, id string) (listing.Detail, error)
	Create(ctx context.Context, token string, form listing.Form) (model.Listing, error)
	Update(ctx context.Context, token, id string, form listing.Form) (model.Listing, error)
	Delete(ctx context.Context, token, id string) error
}

type BiddingServiceInterface interface {
	PlaceBid(ctx context.Context, auth *model.AuthSession, listingID, rawAmount string) (model.Listing, error)
	BidsForListing(ctx context.Context, listingID string) ([]model.Bid, error)
}

type ProfileServiceInterface interface {
	Page(ctx context.Context, token, name string) (profile.Page, error)
	Update(ctx context.Context, auth *model.AuthSession, name string, form profile.Form) (model.Profile, error)
}

type AuthServiceInterface interface {
	Register(ctx context.Context, form auth.RegisterForm) (model.Profile, error)
	Login(ctx context.Context, email, password string) (*model.AuthSession, error)
	Logout(session *model.Session)
}
