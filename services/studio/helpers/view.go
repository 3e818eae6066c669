package helpers

import (
	"fmt"
	"time"

	model "studiobid/internal/models"
	"studiobid/internal/ranking"

	"github.com/samber/lo"
)

// TimeLeft renders the countdown shown on cards
func TimeLeft(endsAt, now time.Time) string {
	d := endsAt.Sub(now)
	if endsAt.IsZero() || d <= 0 {
		return "Ended"
	}

	days := int(d / (24 * time.Hour))
	hours := int(d%(24*time.Hour)) / int(time.Hour)
	minutes := int(d%time.Hour) / int(time.Minute)

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm", minutes)
	default:
		return "<1m"
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// NewListingCard builds the card view of l at now
func NewListingCard(l model.Listing, now time.Time) ListingCard {
	card := ListingCard{
		ID:         l.ID,
		Title:      l.Title,
		Alt:        l.Title,
		HighestBid: ranking.HighestBid(l),
		BidCount:   max(l.Count.Bids, len(l.Bids)),
		EndsAt:     formatTime(l.EndsAt),
		Ended:      ranking.IsEnded(l, now),
		TimeLeft:   TimeLeft(l.EndsAt, now),
		Seller:     l.SellerName(),
	}
	if len(l.Media) > 0 {
		card.Image = l.Media[0].URL
		if l.Media[0].Alt != "" {
			card.Alt = l.Media[0].Alt
		}
	}
	return card
}

// NewListingCards maps listings to cards, never returning nil
func NewListingCards(ls []model.Listing, now time.Time) []ListingCard {
	return lo.Map(ls, func(l model.Listing, _ int) ListingCard {
		return NewListingCard(l, now)
	})
}

// NewBidResponse builds the view of one bid
func NewBidResponse(b model.Bid) BidResponse {
	return BidResponse{
		ID:        b.ID,
		Amount:    b.Amount,
		Bidder:    b.BidderName(),
		CreatedAt: formatTime(b.Created),
	}
}

// NewBidResponses maps bids, never returning nil
func NewBidResponses(bids []model.Bid) []BidResponse {
	return lo.Map(bids, func(b model.Bid, _ int) BidResponse {
		return NewBidResponse(b)
	})
}

// NewProfileResponse builds the public view of p
func NewProfileResponse(p model.Profile) ProfileResponse {
	return ProfileResponse{
		Name:     p.Name,
		Email:    p.Email,
		Bio:      p.Bio,
		Avatar:   model.MediaURL(p.Avatar),
		Banner:   model.MediaURL(p.Banner),
		Credits:  p.Credits,
		Listings: p.Count.Listings,
		Wins:     p.Count.Wins,
	}
}

// NewSessionResponse builds the header state for auth; nil means logged out
func NewSessionResponse(auth *model.AuthSession) SessionResponse {
	if auth == nil {
		return SessionResponse{}
	}
	resp := SessionResponse{
		LoggedIn: true,
		Name:     auth.Name,
		Email:    auth.Email,
		Credits:  auth.Credits,
		Avatar:   auth.Avatar,
	}
	if auth.ExpiresAt != nil {
		resp.ExpiresAt = formatTime(*auth.ExpiresAt)
	}
	return resp
}
