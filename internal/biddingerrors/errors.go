package biddingerrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Upstream / lookup errors
var (
	ErrNotFound        = errors.New("not found")
	ErrListingNotFound = fmt.Errorf("listing %w", ErrNotFound)
	ErrProfileNotFound = fmt.Errorf("profile %w", ErrNotFound)
	ErrNoMorePages     = errors.New("no more listings to load")
)

// business logic errors
var (
	ErrInvalidBid          = errors.New("invalid bid")
	ErrBidTooLow           = errors.New("bid amount too low")
	ErrAuctionEnded        = errors.New("auction has ended")
	ErrOwnListing          = errors.New("cannot bid on own listing")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrInvalidListing      = errors.New("invalid listing")
	ErrInvalidProfile      = errors.New("invalid profile")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrForbidden           = errors.New("forbidden")
)

// session errors
var (
	ErrUnauthorized    = errors.New("not logged in")
	ErrSessionNotFound = errors.New("session not found")
)

// Fixed client-facing messages for local validation failures
const (
	MsgInvalidBidAmount = "Please enter a valid bid amount."
	MsgLoginRequired    = "Please log in to continue."
	MsgGeneric          = "Something went wrong. Please try again."
)

// ValidationError is a local validation failure. Kind is the sentinel it
// unwraps to; Message is safe to show to the user as-is.
type ValidationError struct {
	Kind    error
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Kind }

// Invalid builds a ValidationError.
func Invalid(kind error, field, message string) error {
	return &ValidationError{Kind: kind, Field: field, Message: message}
}

// APIError is any non-2xx answer from the auction API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("auction api: status %d: %s", e.Status, e.Message)
}

// Unwrap maps the upstream status to a local sentinel where one exists.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}

// FriendlyMessage turns any error into something a user can read. Validation
// messages pass through; upstream messages are matched by phrase.
func FriendlyMessage(err error) string {
	if err == nil {
		return ""
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}

	switch {
	case errors.Is(err, ErrBidTooLow):
		return "Your bid must be higher than the current highest bid."
	case errors.Is(err, ErrAuctionEnded):
		return "This auction has already ended."
	case errors.Is(err, ErrOwnListing):
		return "You cannot bid on your own listing."
	case errors.Is(err, ErrInsufficientCredits):
		return "You do not have enough credits for this bid."
	case errors.Is(err, ErrNoMorePages):
		return "There are no more listings to load."
	case errors.Is(err, ErrListingNotFound):
		return "This listing could not be found."
	case errors.Is(err, ErrProfileNotFound):
		return "This profile could not be found."
	case errors.Is(err, ErrForbidden):
		return "You are not allowed to do that."
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid email or password."
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		if errors.Is(err, ErrUnauthorized) {
			return MsgLoginRequired
		}
		return MsgGeneric
	}

	msg := strings.ToLower(apiErr.Message)
	switch {
	case strings.Contains(msg, "too low"), strings.Contains(msg, "higher than"):
		return "Your bid must be higher than the current highest bid."
	case strings.Contains(msg, "credit"):
		return "You do not have enough credits for this bid."
	case strings.Contains(msg, "ended"), strings.Contains(msg, "expired"):
		return "This auction has already ended."
	case strings.Contains(msg, "own listing"):
		return "You cannot bid on your own listing."
	case strings.Contains(msg, "invalid email or password"):
		return "Invalid email or password."
	case strings.Contains(msg, "profile already exists"):
		return "A profile with this name or email already exists."
	}

	switch apiErr.Status {
	case http.StatusUnauthorized:
		return MsgLoginRequired
	case http.StatusNotFound:
		return "We could not find what you were looking for."
	}
	if apiErr.Message != "" {
		return apiErr.Message
	}
	return MsgGeneric
}
