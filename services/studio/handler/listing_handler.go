package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"studiobid/internal/auctionapi"
	"studiobid/internal/biddingerrors"
	"studiobid/internal/feed"
	listing "studiobid/internal/listingService"
	model "studiobid/internal/models"
	"studiobid/internal/ranking"
	"studiobid/services/studio/helpers"
	"studiobid/utils"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

type ListingHandler struct {
	service ListingServiceInterface
	now     func() time.Time
}

func NewListingHandler(service ListingServiceInterface) *ListingHandler {
	return &ListingHandler{service: service, now: time.Now}
}

func (h *ListingHandler) feedResponse(page listing.FeedPage) helpers.FeedResponse {
	return helpers.FeedResponse{
		Cards:   helpers.NewListingCards(page.Listings, h.now()),
		Query:   page.Query,
		Sort:    string(page.Sort),
		Page:    page.Page,
		HasMore: page.HasMore,
		Loaded:  page.Loaded,
	}
}

// ListListingsHandler handles GET /listings?q=&sort=
func (h *ListingHandler) ListListingsHandler(c *gin.Context) {
	session := helpers.CurrentSession(c)
	query := c.Query("q")
	sort := ranking.ParseSortMode(c.Query("sort"))

	page, err := h.service.FirstPage(c.Request.Context(), &session.Feed, query, sort)
	if err != nil {
		helpers.RespondError(c, "ListListingsHandler", err, map[string]any{"query": query, "sort": string(sort)})
		return
	}

	utils.JSONResponse(c, http.StatusOK, h.feedResponse(page), "listings retrieved successfully")
	helpers.LogSuccess("ListListingsHandler", "listings retrieved successfully", map[string]any{
		"query":    query,
		"sort":     string(sort),
		"count":    len(page.Listings),
		"has_more": page.HasMore,
	})
}

// LoadMoreHandler handles GET /listings/more?q=&sort=. The optional q and
// sort name the feed the client is showing; when they no longer match the
// session's feed (a search in another tab, an expired session) that feed is
// started over from page 1 and flagged as restarted.
func (h *ListingHandler) LoadMoreHandler(c *gin.Context) {
	session := helpers.CurrentSession(c)

	query, hasQuery := c.GetQuery("q")
	rawSort, hasSort := c.GetQuery("sort")
	sort := ranking.ParseSortMode(rawSort)
	if !hasSort {
		sort = ranking.ParseSortMode(session.Feed.Sort)
	}
	if (hasQuery || hasSort) && !feed.NewTracker(&session.Feed).Matches(query, sort) {
		page, err := h.service.FirstPage(c.Request.Context(), &session.Feed, query, sort)
		if err != nil {
			helpers.RespondError(c, "LoadMoreHandler", err, map[string]any{"query": query, "sort": string(sort)})
			return
		}
		resp := h.feedResponse(page)
		resp.Restarted = true

		utils.JSONResponse(c, http.StatusOK, resp, "listings retrieved successfully")
		helpers.LogSuccess("LoadMoreHandler", "feed restarted", map[string]any{
			"query": query,
			"sort":  string(sort),
			"count": len(page.Listings),
		})
		return
	}

	page, err := h.service.NextPage(c.Request.Context(), &session.Feed)
	if err != nil && !errors.Is(err, biddingerrors.ErrNoMorePages) {
		helpers.RespondError(c, "LoadMoreHandler", err, map[string]any{"page": session.Feed.Page})
		return
	}
	if err != nil {
		// nothing left: an empty batch, not an error
		page = listing.FeedPage{
			Query:  session.Feed.Query,
			Sort:   ranking.ParseSortMode(session.Feed.Sort),
			Page:   session.Feed.Page,
			Loaded: len(session.Feed.LoadedIDs),
		}
	}

	utils.JSONResponse(c, http.StatusOK, h.feedResponse(page), "listings retrieved successfully")
	helpers.LogSuccess("LoadMoreHandler", "listings retrieved successfully", map[string]any{
		"page":     page.Page,
		"count":    len(page.Listings),
		"has_more": page.HasMore,
	})
}

// GetListingHandler handles GET /listings/:id
func (h *ListingHandler) GetListingHandler(c *gin.Context) {
	id := c.Param("id")
	session := helpers.CurrentSession(c)

	detail, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		helpers.RespondError(c, "GetListingHandler", err, map[string]any{"listing_id": id})
		return
	}

	l := detail.Listing
	isOwner := session.Auth != nil && l.SellerName() != "" && strings.EqualFold(session.Auth.Name, l.SellerName())
	resp := helpers.ListingDetailResponse{
		ListingCard: helpers.NewListingCard(l, h.now()),
		Description: l.Description,
		Tags:        lo.Ternary(l.Tags == nil, []string{}, l.Tags),
		Media: lo.Map(l.Media, func(m model.Media, _ int) helpers.MediaResponse {
			return helpers.MediaResponse{URL: m.URL, Alt: lo.Ternary(m.Alt == "", l.Title, m.Alt)}
		}),
		Created: l.Created.UTC().Format(time.RFC3339),
		Bids:    helpers.NewBidResponses(detail.Bids),
		IsOwner: isOwner,
		CanBid:  session.Auth != nil && !isOwner && !detail.Ended,
	}
	resp.HighestBid = detail.HighestBid
	resp.Ended = detail.Ended

	utils.JSONResponse(c, http.StatusOK, resp, "listing retrieved successfully")
	helpers.LogSuccess("GetListingHandler", "listing retrieved successfully", map[string]any{
		"listing_id": id,
		"bids":       len(detail.Bids),
	})
}

func listingForm(req helpers.ListingRequest) listing.Form {
	return listing.Form{
		Title:       req.Title,
		Description: req.Description,
		Tags:        string(req.Tags),
		Media:       req.Media,
		EndsAt:      req.EndsAt,
	}
}

// CreateListingHandler handles POST /listings
func (h *ListingHandler) CreateListingHandler(c *gin.Context) {
	var req helpers.ListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateListingHandler", err)
		return
	}
	session := helpers.CurrentSession(c)
	user := session.Auth.Name

	l, err := h.service.Create(c.Request.Context(), session.Auth.AccessToken, listingForm(req))
	if err != nil {
		forgetRevokedLogin(session, err)
		helpers.RespondError(c, "CreateListingHandler", err, map[string]any{"user": user})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewListingCard(l, h.now()), "listing created successfully")
	helpers.LogSuccess("CreateListingHandler", "listing created successfully", map[string]any{
		"listing_id": l.ID,
		"user":       user,
	})
}

// UpdateListingHandler handles PUT /listings/:id
func (h *ListingHandler) UpdateListingHandler(c *gin.Context) {
	id := c.Param("id")
	var req helpers.ListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdateListingHandler", err)
		return
	}
	session := helpers.CurrentSession(c)

	l, err := h.service.Update(c.Request.Context(), session.Auth.AccessToken, id, listingForm(req))
	if err != nil {
		forgetRevokedLogin(session, err)
		helpers.RespondError(c, "UpdateListingHandler", err, map[string]any{"listing_id": id})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewListingCard(l, h.now()), "listing updated successfully")
	helpers.LogSuccess("UpdateListingHandler", "listing updated successfully", map[string]any{"listing_id": id})
}

// DeleteListingHandler handles DELETE /listings/:id
func (h *ListingHandler) DeleteListingHandler(c *gin.Context) {
	id := c.Param("id")
	session := helpers.CurrentSession(c)

	if err := h.service.Delete(c.Request.Context(), session.Auth.AccessToken, id); err != nil {
		forgetRevokedLogin(session, err)
		helpers.RespondError(c, "DeleteListingHandler", err, map[string]any{"listing_id": id})
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{"id": id}, "listing deleted successfully")
	helpers.LogSuccess("DeleteListingHandler", "listing deleted successfully", map[string]any{"listing_id": id})
}

// forgetRevokedLogin drops the stored login when the API no longer accepts
// its token
func forgetRevokedLogin(session *model.Session, err error) {
	if auctionapi.IsStatus(err, http.StatusUnauthorized) {
		session.Auth = nil
	}
}
