package handler

import (
	"net/http"
	"strings"
	"time"

	model "studiobid/internal/models"
	profile "studiobid/internal/profileService"
	"studiobid/services/studio/helpers"
	"studiobid/utils"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

type ProfileHandler struct {
	service ProfileServiceInterface
	now     func() time.Time
}

func NewProfileHandler(service ProfileServiceInterface) *ProfileHandler {
	return &ProfileHandler{service: service, now: time.Now}
}

// GetProfileHandler handles GET /profiles/:name. Any failed section aborts
// the whole page and tells the client where to go instead.
func (h *ProfileHandler) GetProfileHandler(c *gin.Context) {
	name := c.Param("name")
	session := helpers.CurrentSession(c)

	page, err := h.service.Page(c.Request.Context(), session.Auth.AccessToken, name)
	if err != nil {
		forgetRevokedLogin(session, err)
		helpers.RespondPageError(c, "GetProfileHandler", err, map[string]any{"name": name})
		return
	}

	now := h.now()
	resp := helpers.ProfilePageResponse{
		Profile:  helpers.NewProfileResponse(page.Profile),
		IsOwn:    strings.EqualFold(page.Profile.Name, session.Auth.Name),
		Listings: helpers.NewListingCards(page.Listings, now),
		Bids: lo.Map(page.Bids, func(b model.Bid, _ int) helpers.ProfileBidResponse {
			resp := helpers.ProfileBidResponse{BidResponse: helpers.NewBidResponse(b)}
			if b.Listing != nil {
				resp.ListingID = b.Listing.ID
				resp.ListingTitle = b.Listing.Title
			}
			return resp
		}),
		Wins: helpers.NewListingCards(page.Wins, now),
	}
	// the header credit balance follows the freshest value seen
	if resp.IsOwn {
		session.Auth.Credits = page.Profile.Credits
	}

	utils.JSONResponse(c, http.StatusOK, resp, "profile retrieved successfully")
	helpers.LogSuccess("GetProfileHandler", "profile retrieved successfully", map[string]any{
		"name":     name,
		"listings": len(page.Listings),
		"bids":     len(page.Bids),
		"wins":     len(page.Wins),
	})
}

// UpdateProfileHandler handles PUT /profiles/:name
func (h *ProfileHandler) UpdateProfileHandler(c *gin.Context) {
	name := c.Param("name")
	var req helpers.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdateProfileHandler", err)
		return
	}
	session := helpers.CurrentSession(c)

	p, err := h.service.Update(c.Request.Context(), session.Auth, name, profile.Form{
		Bio:    req.Bio,
		Avatar: req.Avatar,
		Banner: req.Banner,
	})
	if err != nil {
		forgetRevokedLogin(session, err)
		helpers.RespondError(c, "UpdateProfileHandler", err, map[string]any{"name": name})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewProfileResponse(p), "profile updated successfully")
	helpers.LogSuccess("UpdateProfileHandler", "profile updated successfully", map[string]any{"name": name})
}
