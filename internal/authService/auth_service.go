package auth

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"studiobid/internal/auctionapi"
	"studiobid/internal/biddingerrors"
	listing "studiobid/internal/listingService"
	model "studiobid/internal/models"
	"studiobid/utils"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// EmailDomain is the only domain allowed to register
	EmailDomain       = "@stud.noroff.no"
	MinPasswordLength = 8
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_]{1,20}$`)

// AuthService handles registration, login and session validity
type AuthService struct {
	api auctionapi.API
}

// NewAuthService creates a new AuthService instance
func NewAuthService(api auctionapi.API) *AuthService {
	return &AuthService{api: api}
}

// RegisterForm is the raw registration form
type RegisterForm struct {
	Name     string
	Email    string
	Password string
	Bio      string
	Avatar   string
}

// Register validates form and creates the account. It does not log in.
func (s *AuthService) Register(ctx context.Context, form RegisterForm) (model.Profile, error) {
	in, err := validateRegister(form)
	if err != nil {
		return model.Profile{}, err
	}

	p, err := s.api.Register(ctx, in)
	if err != nil {
		return model.Profile{}, fmt.Errorf("service: failed to register %s: %w", in.Name, err)
	}
	return p, nil
}

func validateRegister(form RegisterForm) (auctionapi.RegisterInput, error) {
	in := auctionapi.RegisterInput{
		Name:     strings.TrimSpace(form.Name),
		Email:    strings.ToLower(strings.TrimSpace(form.Email)),
		Password: form.Password,
		Bio:      strings.TrimSpace(form.Bio),
	}

	if !namePattern.MatchString(in.Name) {
		return in, biddingerrors.Invalid(biddingerrors.ErrInvalidCredentials, "name",
			"Name can only use letters, numbers and underscores (max 20).")
	}
	local, found := strings.CutSuffix(in.Email, EmailDomain)
	if !found || local == "" || strings.ContainsAny(local, "@ ") {
		return in, biddingerrors.Invalid(biddingerrors.ErrInvalidCredentials, "email",
			"Email must be a valid "+EmailDomain+" address.")
	}
	if len(in.Password) < MinPasswordLength {
		return in, biddingerrors.Invalid(biddingerrors.ErrInvalidCredentials, "password",
			fmt.Sprintf("Password must be at least %d characters.", MinPasswordLength))
	}
	if avatar := strings.TrimSpace(form.Avatar); avatar != "" {
		if !listing.IsHTTPURL(avatar) {
			return in, biddingerrors.Invalid(biddingerrors.ErrInvalidCredentials, "avatar",
				"The avatar link must start with http:// or https://.")
		}
		in.Avatar = &model.Media{URL: avatar, Alt: in.Name}
	}
	return in, nil
}

// Login authenticates against the API and builds the session to store. The
// credit balance comes from a follow-up profile fetch, best effort.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.AuthSession, error) {
	email = strings.TrimSpace(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, biddingerrors.Invalid(biddingerrors.ErrInvalidCredentials, "", "Please enter your email and password.")
	}

	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		if auctionapi.IsStatus(err, http.StatusUnauthorized) || auctionapi.IsStatus(err, http.StatusBadRequest) {
			return nil, fmt.Errorf("service: login %s: %w", email, biddingerrors.ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("service: failed to log in %s: %w", email, err)
	}
	if res.AccessToken == "" {
		return nil, fmt.Errorf("service: login %s: empty access token", email)
	}

	session := &model.AuthSession{
		AccessToken: res.AccessToken,
		Name:        res.Name,
		Email:       res.Email,
		Avatar:      model.MediaURL(res.Avatar),
	}
	if exp, ok := TokenExpiry(res.AccessToken); ok {
		session.ExpiresAt = &exp
	}

	p, err := s.api.GetProfile(ctx, res.AccessToken, res.Name)
	if err != nil {
		utils.Warn("auth: profile fetch after login failed", map[string]any{
			"name":  res.Name,
			"error": err.Error(),
		})
		return session, nil
	}
	session.Credits = p.Credits
	if avatar := model.MediaURL(p.Avatar); avatar != "" {
		session.Avatar = avatar
	}
	return session, nil
}

// Logout forgets the auth part of session. The feed is kept.
func (s *AuthService) Logout(session *model.Session) {
	session.Auth = nil
}

// Active reports whether auth is a usable login at now
func Active(auth *model.AuthSession, now time.Time) bool {
	if auth == nil || auth.AccessToken == "" {
		return false
	}
	if auth.ExpiresAt != nil && !now.Before(*auth.ExpiresAt) {
		return false
	}
	return true
}

// TokenExpiry reads the exp claim of a JWT without verifying it; the API
// holds the key and remains the authority on validity
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
