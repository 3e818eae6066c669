package perftests

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"studiobid/internal/auctionapi"
	"studiobid/internal/biddingerrors"
	model "studiobid/internal/models"
)

// stubAPI serves listings, bids and profiles from memory. Endpoints the
// benchmarks never call fall through to the nil embedded API and panic.
type stubAPI struct {
	auctionapi.API

	mu       sync.RWMutex
	listings []model.Listing
	byID     map[string]int
	credits  int
}

func newStubAPI(numListings, bidsEach int) *stubAPI {
	now := time.Now().UTC()
	s := &stubAPI{byID: make(map[string]int, numListings), credits: 1 << 30}
	words := []string{"portrait", "landscape", "studio", "wedding", "print", "canvas"}
	for i := 0; i < numListings; i++ {
		l := model.Listing{
			ID:          fmt.Sprintf("listing_%d", i),
			Title:       fmt.Sprintf("%s %d", words[i%len(words)], i),
			Description: "Load test listing about " + words[(i+1)%len(words)],
			Tags:        []string{words[(i+2)%len(words)]},
			Created:     now.Add(-time.Duration(i) * time.Second),
			EndsAt:      now.Add(time.Duration(i%48+1) * time.Hour),
			Seller:      &model.ProfileSummary{Name: fmt.Sprintf("seller_%d", i%20)},
		}
		for j := 0; j < bidsEach; j++ {
			l.Bids = append(l.Bids, model.Bid{
				ID:      fmt.Sprintf("bid_%d_%d", i, j),
				Amount:  10 + j*10,
				Created: now.Add(-time.Duration(bidsEach-j) * time.Minute),
				Bidder:  &model.ProfileSummary{Name: fmt.Sprintf("user_%d", j)},
			})
		}
		s.byID[l.ID] = len(s.listings)
		s.listings = append(s.listings, l)
	}
	return s
}

func (s *stubAPI) page(limit, page int) []model.Listing {
	start := min((page-1)*limit, len(s.listings))
	end := min(start+limit, len(s.listings))
	return s.listings[start:end]
}

func (s *stubAPI) ListListings(_ context.Context, q auctionapi.ListingQuery) ([]model.Listing, *model.PageMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page(q.Limit, q.Page), nil, nil
}

func (s *stubAPI) SearchListings(_ context.Context, q auctionapi.SearchQuery) ([]model.Listing, *model.PageMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page(q.Limit, q.Page), nil, nil
}

func (s *stubAPI) GetListing(_ context.Context, id string) (model.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return model.Listing{}, &biddingerrors.APIError{Status: http.StatusNotFound}
	}
	return s.listings[i], nil
}

func (s *stubAPI) PlaceBid(_ context.Context, _ string, id string, amount int) (model.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.byID[id]
	if !ok {
		return model.Listing{}, &biddingerrors.APIError{Status: http.StatusNotFound}
	}
	l := &s.listings[i]
	l.Bids = append(l.Bids, model.Bid{ID: fmt.Sprintf("bid_%s_%d", id, len(l.Bids)), Amount: amount, Created: time.Now()})
	s.credits -= amount
	return *l, nil
}

func (s *stubAPI) GetProfile(_ context.Context, _ string, name string) (model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.Profile{Name: name, Credits: s.credits}, nil
}
