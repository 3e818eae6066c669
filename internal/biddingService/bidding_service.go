package bidding

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"studiobid/internal/auctionapi"
	"studiobid/internal/biddingerrors"
	model "studiobid/internal/models"
	"studiobid/internal/ranking"
	"studiobid/utils"
)

// BiddingService defines the business logic for auction bidding
type BiddingService struct {
	api auctionapi.API
	now func() time.Time
}

// NewBiddingService creates a new BiddingService instance
func NewBiddingService(api auctionapi.API) *BiddingService {
	return &BiddingService{
		api: api,
		now: time.Now,
	}
}

// ParseAmount turns the raw bid field into whole credits. Anything that is
// not a positive whole number is rejected with the fixed user message.
func ParseAmount(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, invalidAmount()
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, invalidAmount()
	}
	if f <= 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, invalidAmount()
	}
	return int(f), nil
}

func invalidAmount() error {
	return biddingerrors.Invalid(biddingerrors.ErrInvalidBid, "amount", biddingerrors.MsgInvalidBidAmount)
}

// PlaceBid validates and places a bid on listingID for the logged-in user.
// The amount is checked before any network call. On success auth.Credits is
// refreshed from the profile, best effort.
func (s *BiddingService) PlaceBid(ctx context.Context, auth *model.AuthSession, listingID, rawAmount string) (model.Listing, error) {
	amount, err := ParseAmount(rawAmount)
	if err != nil {
		return model.Listing{}, err
	}
	if auth == nil || auth.AccessToken == "" {
		return model.Listing{}, fmt.Errorf("service: place bid: %w", biddingerrors.ErrUnauthorized)
	}
	if strings.TrimSpace(listingID) == "" {
		return model.Listing{}, fmt.Errorf("service: %w - empty listing id", biddingerrors.ErrInvalidBid)
	}

	if err := s.validateBid(ctx, auth, listingID, amount); err != nil {
		return model.Listing{}, err
	}

	listing, err := s.api.PlaceBid(ctx, auth.AccessToken, listingID, amount)
	if err != nil {
		return model.Listing{}, fmt.Errorf("service: failed to place bid on listing %s: %w", listingID, err)
	}

	s.refreshCredits(ctx, auth)
	return listing, nil
}

// validateBid checks the business rules against the current listing
func (s *BiddingService) validateBid(ctx context.Context, auth *model.AuthSession, listingID string, amount int) error {
	listing, err := s.api.GetListing(ctx, listingID)
	if err != nil {
		if errors.Is(err, biddingerrors.ErrNotFound) {
			return fmt.Errorf("service: listing %s: %w", listingID, biddingerrors.ErrListingNotFound)
		}
		return fmt.Errorf("service: failed to load listing %s: %w", listingID, err)
	}

	if ranking.IsEnded(listing, s.now()) {
		return fmt.Errorf("service: listing %s: %w", listingID, biddingerrors.ErrAuctionEnded)
	}
	if seller := listing.SellerName(); seller != "" && strings.EqualFold(seller, auth.Name) {
		return fmt.Errorf("service: listing %s: %w", listingID, biddingerrors.ErrOwnListing)
	}
	if highest := ranking.HighestBid(listing); amount <= highest {
		return fmt.Errorf("service: %w - current highest bid is %d", biddingerrors.ErrBidTooLow, highest)
	}
	return nil
}

func (s *BiddingService) refreshCredits(ctx context.Context, auth *model.AuthSession) {
	profile, err := s.api.GetProfile(ctx, auth.AccessToken, auth.Name)
	if err != nil {
		utils.Warn("bidding: credit refresh failed", map[string]any{
			"name":  auth.Name,
			"error": err.Error(),
		})
		return
	}
	auth.Credits = profile.Credits
}

// BidsForListing returns the bids on a listing, highest first and newest
// first among equal amounts
func (s *BiddingService) BidsForListing(ctx context.Context, listingID string) ([]model.Bid, error) {
	if strings.TrimSpace(listingID) == "" {
		return nil, fmt.Errorf("service: %w - empty listing id", biddingerrors.ErrInvalidBid)
	}

	listing, err := s.api.GetListing(ctx, listingID)
	if err != nil {
		if errors.Is(err, biddingerrors.ErrNotFound) {
			return nil, fmt.Errorf("service: listing %s: %w", listingID, biddingerrors.ErrListingNotFound)
		}
		return nil, fmt.Errorf("service: failed to get bids for listing %s: %w", listingID, err)
	}

	return SortBids(listing.Bids), nil
}

// SortBids returns a copy of bids ordered by amount desc, then created desc
func SortBids(bids []model.Bid) []model.Bid {
	out := slices.Clone(bids)
	if out == nil {
		out = []model.Bid{}
	}
	slices.SortStableFunc(out, func(a, b model.Bid) int {
		if c := cmp.Compare(b.Amount, a.Amount); c != 0 {
			return c
		}
		return b.Created.Compare(a.Created)
	})
	return out
}
