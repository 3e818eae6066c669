package helpers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"studiobid/internal/biddingerrors"
	"studiobid/utils"

	"github.com/gin-gonic/gin"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and a
// message the user can read
func MapErrorToHTTP(err error) (int, string) {
	message := biddingerrors.FriendlyMessage(err)

	var verr *biddingerrors.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, message
	}

	switch {
	case errors.Is(err, biddingerrors.ErrInvalidBid),
		errors.Is(err, biddingerrors.ErrInvalidListing),
		errors.Is(err, biddingerrors.ErrInvalidProfile):
		return http.StatusBadRequest, message
	case errors.Is(err, biddingerrors.ErrInvalidCredentials),
		errors.Is(err, biddingerrors.ErrUnauthorized):
		return http.StatusUnauthorized, message
	case errors.Is(err, biddingerrors.ErrForbidden),
		errors.Is(err, biddingerrors.ErrOwnListing):
		return http.StatusForbidden, message
	case errors.Is(err, biddingerrors.ErrNotFound):
		return http.StatusNotFound, message
	case errors.Is(err, biddingerrors.ErrBidTooLow),
		errors.Is(err, biddingerrors.ErrAuctionEnded),
		errors.Is(err, biddingerrors.ErrInsufficientCredits):
		return http.StatusConflict, message
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, message
	}

	var apiErr *biddingerrors.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			return apiErr.Status, message
		}
		return http.StatusBadGateway, message
	}

	return http.StatusInternalServerError, message
}

// RespondError maps err, writes the error envelope and logs it. Client
// errors are logged as warnings, everything else as errors.
func RespondError(c *gin.Context, handlerName string, err error, fields map[string]any) int {
	status, message := MapErrorToHTTP(err)
	utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
	logFailure(handlerName, status, err, fields)
	return status
}

// RespondPageError is RespondError for full page loads: the client is told
// where to go instead, /login when the session is the problem and / otherwise
func RespondPageError(c *gin.Context, handlerName string, err error, fields map[string]any) int {
	status, message := MapErrorToHTTP(err)
	redirect := "/"
	if status == http.StatusUnauthorized {
		redirect = "/login"
	}
	utils.JSONErrorRedirect(c, status, fmt.Errorf("%s: %w", message, err), message, redirect)
	logFailure(handlerName, status, err, fields)
	return status
}

func logFailure(handlerName string, status int, err error, fields map[string]any) {
	if fields == nil {
		fields = map[string]any{}
	}
	fields["handler"] = handlerName
	fields["status"] = status
	fields["error"] = err.Error()

	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": request failed", fields)
		return
	}
	utils.Warn(handlerName+": request rejected", fields)
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
