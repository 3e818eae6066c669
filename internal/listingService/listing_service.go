package listing

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/url"
	"slices"
	"strings"
	"time"

	"studiobid/internal/auctionapi"
	"studiobid/internal/biddingerrors"
	"studiobid/internal/feed"
	model "studiobid/internal/models"
	"studiobid/internal/ranking"
	"studiobid/utils"

	"github.com/microcosm-cc/bluemonday"
	"github.com/samber/lo"
)

const (
	// DefaultPageSize is how many listings one feed page requests
	DefaultPageSize = 12
	// MaxMedia is the upstream cap on images per listing
	MaxMedia = 8
)

// ListingService backs the listings feed, the detail view and listing CRUD
type ListingService struct {
	api      auctionapi.API
	pageSize int
	policy   *bluemonday.Policy
	now      func() time.Time
}

// NewListingService creates a new ListingService. pageSize <= 0 uses
// DefaultPageSize.
func NewListingService(api auctionapi.API, pageSize int) *ListingService {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &ListingService{
		api:      api,
		pageSize: pageSize,
		policy:   bluemonday.StrictPolicy(),
		now:      time.Now,
	}
}

// FeedPage is one batch of cards for the listings feed
type FeedPage struct {
	Listings []model.Listing
	Query    string
	Sort     ranking.SortMode
	Page     int
	HasMore  bool
	Loaded   int
}

// FirstPage starts a new feed for query and sort, discarding whatever the
// session was paging through
func (s *ListingService) FirstPage(ctx context.Context, state *model.FeedState, query string, sort ranking.SortMode) (FeedPage, error) {
	tracker := feed.NewTracker(state)
	tracker.Reset(strings.TrimSpace(query), sort)
	return s.load(ctx, tracker, 1)
}

// NextPage loads the page after the last one served for the session's feed
func (s *ListingService) NextPage(ctx context.Context, state *model.FeedState) (FeedPage, error) {
	if state.Page < 1 || !state.HasMore {
		return FeedPage{}, fmt.Errorf("service: next page: %w", biddingerrors.ErrNoMorePages)
	}
	tracker := feed.NewTracker(state)
	return s.load(ctx, tracker, tracker.NextPage())
}

func (s *ListingService) load(ctx context.Context, tracker *feed.Tracker, page int) (FeedPage, error) {
	query := tracker.Query()
	mode := tracker.Sort()

	raw, err := s.fetch(ctx, query, mode, page)
	if err != nil {
		return FeedPage{}, err
	}

	ranked := ranking.Rank(raw, query, mode, s.now())
	fresh := tracker.Admit(ranked)
	tracker.Advance(page, len(raw), s.pageSize)

	utils.Debug("listing feed page loaded", map[string]any{
		"query":   query,
		"sort":    string(mode),
		"page":    page,
		"raw":     len(raw),
		"fresh":   len(fresh),
		"hasMore": tracker.HasMore(),
	})

	return FeedPage{
		Listings: fresh,
		Query:    query,
		Sort:     mode,
		Page:     page,
		HasMore:  tracker.HasMore(),
		Loaded:   tracker.Loaded(),
	}, nil
}

// fetch asks upstream for one raw page. Without a query the active-listings
// endpoint does the ordering for newest and ending; highest is only known
// after the bids are expanded, so it is fetched newest first and re-sorted.
func (s *ListingService) fetch(ctx context.Context, query string, mode ranking.SortMode, page int) ([]model.Listing, error) {
	if ranking.NormalizeQuery(query) != "" {
		listings, _, err := s.api.SearchListings(ctx, auctionapi.SearchQuery{
			Query: query,
			Limit: s.pageSize,
			Page:  page,
		})
		if err != nil {
			return nil, fmt.Errorf("service: search listings %q page %d: %w", query, page, err)
		}
		return listings, nil
	}

	lq := auctionapi.ListingQuery{
		Active:    true,
		Sort:      "created",
		SortOrder: "desc",
		Limit:     s.pageSize,
		Page:      page,
	}
	if mode == ranking.SortEnding {
		lq.Sort, lq.SortOrder = "endsAt", "asc"
	}

	listings, _, err := s.api.ListListings(ctx, lq)
	if err != nil {
		return nil, fmt.Errorf("service: list listings page %d: %w", page, err)
	}
	return listings, nil
}

// Detail is a single listing with its bid history newest first
type Detail struct {
	Listing    model.Listing
	Bids       []model.Bid
	HighestBid int
	Ended      bool
}

// Get returns the detail view of listing id
func (s *ListingService) Get(ctx context.Context, id string) (Detail, error) {
	if strings.TrimSpace(id) == "" {
		return Detail{}, biddingerrors.Invalid(biddingerrors.ErrInvalidListing, "id", "Missing listing id.")
	}

	l, err := s.api.GetListing(ctx, id)
	if err != nil {
		if errors.Is(err, biddingerrors.ErrNotFound) {
			return Detail{}, fmt.Errorf("service: listing %s: %w", id, biddingerrors.ErrListingNotFound)
		}
		return Detail{}, fmt.Errorf("service: failed to get listing %s: %w", id, err)
	}

	bids := slices.Clone(l.Bids)
	slices.SortStableFunc(bids, func(a, b model.Bid) int {
		return b.Created.Compare(a.Created)
	})

	return Detail{
		Listing:    l,
		Bids:       bids,
		HighestBid: ranking.HighestBid(l),
		Ended:      ranking.IsEnded(l, s.now()),
	}, nil
}

// Form is the raw create/edit form
type Form struct {
	Title       string
	Description string
	Tags        string // comma separated
	Media       []string
	EndsAt      *time.Time
}

// Create validates form and creates a listing owned by the token holder
func (s *ListingService) Create(ctx context.Context, token string, form Form) (model.Listing, error) {
	in, err := s.buildInput(form, true)
	if err != nil {
		return model.Listing{}, err
	}

	l, err := s.api.CreateListing(ctx, token, in)
	if err != nil {
		return model.Listing{}, fmt.Errorf("service: failed to create listing: %w", err)
	}
	return l, nil
}

// Update validates form and replaces the editable fields of listing id. The
// end time cannot be changed once the auction is running.
func (s *ListingService) Update(ctx context.Context, token, id string, form Form) (model.Listing, error) {
	if strings.TrimSpace(id) == "" {
		return model.Listing{}, biddingerrors.Invalid(biddingerrors.ErrInvalidListing, "id", "Missing listing id.")
	}
	in, err := s.buildInput(form, false)
	if err != nil {
		return model.Listing{}, err
	}

	l, err := s.api.UpdateListing(ctx, token, id, in)
	if err != nil {
		return model.Listing{}, s.wrapWrite("update", id, err)
	}
	return l, nil
}

// Delete removes listing id
func (s *ListingService) Delete(ctx context.Context, token, id string) error {
	if strings.TrimSpace(id) == "" {
		return biddingerrors.Invalid(biddingerrors.ErrInvalidListing, "id", "Missing listing id.")
	}
	if err := s.api.DeleteListing(ctx, token, id); err != nil {
		return s.wrapWrite("delete", id, err)
	}
	return nil
}

func (s *ListingService) wrapWrite(op, id string, err error) error {
	if errors.Is(err, biddingerrors.ErrNotFound) {
		return fmt.Errorf("service: %s listing %s: %w", op, id, biddingerrors.ErrListingNotFound)
	}
	return fmt.Errorf("service: failed to %s listing %s: %w", op, id, err)
}

func (s *ListingService) buildInput(form Form, create bool) (auctionapi.ListingInput, error) {
	title := s.clean(form.Title)
	if title == "" {
		return auctionapi.ListingInput{}, biddingerrors.Invalid(biddingerrors.ErrInvalidListing, "title", "Please enter a title.")
	}

	in := auctionapi.ListingInput{
		Title:       title,
		Description: s.clean(form.Description),
		Tags:        s.parseTags(form.Tags),
	}

	media, err := parseMedia(form.Media, title)
	if err != nil {
		return auctionapi.ListingInput{}, err
	}
	in.Media = media

	if create {
		if form.EndsAt == nil || form.EndsAt.IsZero() {
			return auctionapi.ListingInput{}, biddingerrors.Invalid(biddingerrors.ErrInvalidListing, "endsAt", "Please choose when the auction ends.")
		}
		if !form.EndsAt.After(s.now()) {
			return auctionapi.ListingInput{}, biddingerrors.Invalid(biddingerrors.ErrInvalidListing, "endsAt", "The end date must be in the future.")
		}
		endsAt := form.EndsAt.UTC()
		in.EndsAt = &endsAt
	}
	return in, nil
}

// clean strips markup and surrounding space. Entities escaped by the policy
// are turned back into text since the API stores plain strings.
func (s *ListingService) clean(raw string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(raw)))
}

func (s *ListingService) parseTags(raw string) []string {
	tags := lo.Map(strings.Split(raw, ","), func(t string, _ int) string {
		return s.clean(t)
	})
	return lo.Uniq(lo.Compact(tags))
}

func parseMedia(urls []string, alt string) ([]model.Media, error) {
	urls = lo.Compact(lo.Map(urls, func(u string, _ int) string {
		return strings.TrimSpace(u)
	}))
	if len(urls) > MaxMedia {
		return nil, biddingerrors.Invalid(biddingerrors.ErrInvalidListing, "media", fmt.Sprintf("You can add at most %d images.", MaxMedia))
	}

	media := make([]model.Media, 0, len(urls))
	for _, u := range urls {
		if !IsHTTPURL(u) {
			return nil, biddingerrors.Invalid(biddingerrors.ErrInvalidListing, "media", "Image links must start with http:// or https://.")
		}
		media = append(media, model.Media{URL: u, Alt: alt})
	}
	return media, nil
}

// IsHTTPURL reports whether raw is an absolute http or https URL with a host
func IsHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
