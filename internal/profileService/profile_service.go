package profile

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"studiobid/internal/auctionapi"
	"studiobid/internal/biddingerrors"
	listing "studiobid/internal/listingService"
	model "studiobid/internal/models"

	"golang.org/x/sync/errgroup"
)

// MaxBioLength is the upstream limit on the bio field
const MaxBioLength = 160

// ProfileService backs the profile page and profile editing
type ProfileService struct {
	api auctionapi.API
}

// NewProfileService creates a new ProfileService instance
func NewProfileService(api auctionapi.API) *ProfileService {
	return &ProfileService{api: api}
}

// Page is everything the profile page shows
type Page struct {
	Profile  model.Profile
	Listings []model.Listing
	Bids     []model.Bid
	Wins     []model.Listing
}

// Page loads the profile, its listings, bids and wins in parallel. The first
// failure cancels the other calls and is returned; no partial page is built.
func (s *ProfileService) Page(ctx context.Context, token, name string) (Page, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Page{}, biddingerrors.Invalid(biddingerrors.ErrInvalidProfile, "name", "Missing profile name.")
	}
	if token == "" {
		return Page{}, fmt.Errorf("service: profile page: %w", biddingerrors.ErrUnauthorized)
	}

	var page Page
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := s.api.GetProfile(gctx, token, name)
		if err != nil {
			return fmt.Errorf("profile: %w", err)
		}
		page.Profile = p
		return nil
	})
	g.Go(func() error {
		ls, err := s.api.ListProfileListings(gctx, token, name)
		if err != nil {
			return fmt.Errorf("listings: %w", err)
		}
		page.Listings = ls
		return nil
	})
	g.Go(func() error {
		bids, err := s.api.ListProfileBids(gctx, token, name)
		if err != nil {
			return fmt.Errorf("bids: %w", err)
		}
		page.Bids = bids
		return nil
	})
	g.Go(func() error {
		wins, err := s.api.ListProfileWins(gctx, token, name)
		if err != nil {
			return fmt.Errorf("wins: %w", err)
		}
		page.Wins = wins
		return nil
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, biddingerrors.ErrNotFound) {
			return Page{}, fmt.Errorf("service: profile %s: %w", name, biddingerrors.ErrProfileNotFound)
		}
		return Page{}, fmt.Errorf("service: failed to load profile page %s: %w", name, err)
	}

	slices.SortStableFunc(page.Listings, func(a, b model.Listing) int {
		return b.Created.Compare(a.Created)
	})
	slices.SortStableFunc(page.Bids, func(a, b model.Bid) int {
		return b.Created.Compare(a.Created)
	})
	return page, nil
}

// Form is the edit-profile form. Nil fields are left unchanged; an empty
// avatar or banner is not sent.
type Form struct {
	Bio    *string
	Avatar *string
	Banner *string
}

// Update edits the caller's own profile and refreshes the cached avatar
func (s *ProfileService) Update(ctx context.Context, auth *model.AuthSession, name string, form Form) (model.Profile, error) {
	if auth == nil || auth.AccessToken == "" {
		return model.Profile{}, fmt.Errorf("service: update profile: %w", biddingerrors.ErrUnauthorized)
	}
	if !strings.EqualFold(strings.TrimSpace(name), auth.Name) {
		return model.Profile{}, fmt.Errorf("service: update profile %s as %s: %w", name, auth.Name, biddingerrors.ErrForbidden)
	}

	in, err := buildInput(form)
	if err != nil {
		return model.Profile{}, err
	}

	p, err := s.api.UpdateProfile(ctx, auth.AccessToken, auth.Name, in)
	if err != nil {
		return model.Profile{}, fmt.Errorf("service: failed to update profile %s: %w", auth.Name, err)
	}

	auth.Avatar = model.MediaURL(p.Avatar)
	auth.Credits = p.Credits
	return p, nil
}

func buildInput(form Form) (auctionapi.ProfileInput, error) {
	var in auctionapi.ProfileInput

	if form.Bio != nil {
		bio := strings.TrimSpace(*form.Bio)
		if utf8.RuneCountInString(bio) > MaxBioLength {
			return in, biddingerrors.Invalid(biddingerrors.ErrInvalidProfile, "bio",
				fmt.Sprintf("Bio must be %d characters or less.", MaxBioLength))
		}
		in.Bio = &bio
	}

	avatar, err := mediaField("avatar", form.Avatar)
	if err != nil {
		return in, err
	}
	in.Avatar = avatar

	banner, err := mediaField("banner", form.Banner)
	if err != nil {
		return in, err
	}
	in.Banner = banner

	if in.Bio == nil && in.Avatar == nil && in.Banner == nil {
		return in, biddingerrors.Invalid(biddingerrors.ErrInvalidProfile, "", "Nothing to update.")
	}
	return in, nil
}

func mediaField(field string, raw *string) (*model.Media, error) {
	if raw == nil {
		return nil, nil
	}
	u := strings.TrimSpace(*raw)
	if u == "" {
		return nil, nil
	}
	if !listing.IsHTTPURL(u) {
		return nil, biddingerrors.Invalid(biddingerrors.ErrInvalidProfile, field,
			fmt.Sprintf("The %s link must start with http:// or https://.", field))
	}
	return &model.Media{URL: u}, nil
}
