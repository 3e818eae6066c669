package handler

import (
	"net/http"
	"time"

	"studiobid/services/studio/helpers"
	"studiobid/utils"

	"github.com/gin-gonic/gin"
)

type BiddingHandler struct {
	service BiddingServiceInterface
	now     func() time.Time
}

func NewBiddingHandler(service BiddingServiceInterface) *BiddingHandler {
	return &BiddingHandler{service: service, now: time.Now}
}

// PlaceBidHandler handles POST /listings/:id/bids
func (h *BiddingHandler) PlaceBidHandler(c *gin.Context) {
	listingID := c.Param("id")
	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}
	session := helpers.CurrentSession(c)
	user := session.Auth.Name

	l, err := h.service.PlaceBid(c.Request.Context(), session.Auth, listingID, string(req.Amount))
	if err != nil {
		forgetRevokedLogin(session, err)
		helpers.RespondError(c, "PlaceBidHandler", err, map[string]any{
			"listing_id": listingID,
			"user":       user,
			"amount":     string(req.Amount),
		})
		return
	}

	resp := helpers.PlaceBidResponse{
		Listing: helpers.NewListingCard(l, h.now()),
		Credits: session.Auth.Credits,
	}

	utils.JSONResponse(c, http.StatusCreated, resp, "bid placed successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid placed successfully", map[string]any{
		"listing_id": listingID,
		"user":       user,
		"amount":     string(req.Amount),
		"credits":    resp.Credits,
	})
}

// GetBidsHandler handles GET /listings/:id/bids
func (h *BiddingHandler) GetBidsHandler(c *gin.Context) {
	listingID := c.Param("id")

	bids, err := h.service.BidsForListing(c.Request.Context(), listingID)
	if err != nil {
		helpers.RespondError(c, "GetBidsHandler", err, map[string]any{"listing_id": listingID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewBidResponses(bids), "bids retrieved successfully")
	helpers.LogSuccess("GetBidsHandler", "bids retrieved successfully", map[string]any{
		"listing_id": listingID,
		"count":      len(bids),
	})
}
