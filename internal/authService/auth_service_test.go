package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"studiobid/internal/auctionapi"
	"studiobid/internal/biddingerrors"
	model "studiobid/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp *time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{Subject: "ola"}
	if exp != nil {
		claims.ExpiresAt = jwt.NewNumericDate(*exp)
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("not-our-key"))
	require.NoError(t, err)
	return tok
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name      string
		form      RegisterForm
		wantField string
	}{
		{name: "valid", form: RegisterForm{Name: "ola_n", Email: " Ola@Stud.Noroff.no ", Password: "12345678", Avatar: "https://img.example.com/a.png"}},
		{name: "name_with_space", form: RegisterForm{Name: "ola n", Email: "ola@stud.noroff.no", Password: "12345678"}, wantField: "name"},
		{name: "name_too_long", form: RegisterForm{Name: "abcdefghijklmnopqrstu", Email: "ola@stud.noroff.no", Password: "12345678"}, wantField: "name"},
		{name: "empty_name", form: RegisterForm{Email: "ola@stud.noroff.no", Password: "12345678"}, wantField: "name"},
		{name: "wrong_domain", form: RegisterForm{Name: "ola", Email: "ola@noroff.no", Password: "12345678"}, wantField: "email"},
		{name: "domain_only", form: RegisterForm{Name: "ola", Email: "@stud.noroff.no", Password: "12345678"}, wantField: "email"},
		{name: "short_password", form: RegisterForm{Name: "ola", Email: "ola@stud.noroff.no", Password: "1234567"}, wantField: "password"},
		{name: "bad_avatar", form: RegisterForm{Name: "ola", Email: "ola@stud.noroff.no", Password: "12345678", Avatar: "ftp://x/a.png"}, wantField: "avatar"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockAPI := auctionapi.NewMockAPI(ctrl)
			svc := NewAuthService(mockAPI)

			if tc.wantField == "" {
				mockAPI.EXPECT().Register(gomock.Any(), auctionapi.RegisterInput{
					Name:     "ola_n",
					Email:    "ola@stud.noroff.no",
					Password: "12345678",
					Avatar:   &model.Media{URL: "https://img.example.com/a.png", Alt: "ola_n"},
				}).Return(model.Profile{Name: "ola_n"}, nil)
			}

			p, err := svc.Register(context.Background(), tc.form)
			if tc.wantField != "" {
				var verr *biddingerrors.ValidationError
				require.True(t, errors.As(err, &verr))
				require.Equal(t, tc.wantField, verr.Field)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "ola_n", p.Name)
		})
	}

	t.Run("upstream_conflict", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockAPI := auctionapi.NewMockAPI(ctrl)
		mockAPI.EXPECT().Register(gomock.Any(), gomock.Any()).
			Return(model.Profile{}, &biddingerrors.APIError{Status: 400, Message: "Profile already exists"})

		_, err := NewAuthService(mockAPI).Register(context.Background(),
			RegisterForm{Name: "ola", Email: "ola@stud.noroff.no", Password: "12345678"})
		require.Error(t, err)
		require.Equal(t, "A profile with this name or email already exists.", biddingerrors.FriendlyMessage(err))
	})
}

func TestAuthService_Login(t *testing.T) {
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("success_with_credits", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockAPI := auctionapi.NewMockAPI(ctrl)
		token := signedToken(t, &exp)

		mockAPI.EXPECT().Login(gomock.Any(), "ola@stud.noroff.no", "secret123").
			Return(auctionapi.LoginResult{Name: "ola", Email: "ola@stud.noroff.no", AccessToken: token}, nil)
		mockAPI.EXPECT().GetProfile(gomock.Any(), token, "ola").
			Return(model.Profile{Name: "ola", Credits: 1000, Avatar: &model.Media{URL: "https://a/me.png"}}, nil)

		s, err := NewAuthService(mockAPI).Login(context.Background(), " ola@stud.noroff.no ", "secret123")
		require.NoError(t, err)
		require.Equal(t, token, s.AccessToken)
		require.Equal(t, 1000, s.Credits)
		require.Equal(t, "https://a/me.png", s.Avatar)
		require.NotNil(t, s.ExpiresAt)
		require.True(t, s.ExpiresAt.Equal(exp))
	})

	t.Run("profile_failure_keeps_login", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockAPI := auctionapi.NewMockAPI(ctrl)

		mockAPI.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(auctionapi.LoginResult{Name: "ola", AccessToken: "opaque"}, nil)
		mockAPI.EXPECT().GetProfile(gomock.Any(), "opaque", "ola").Return(model.Profile{}, errors.New("timeout"))

		s, err := NewAuthService(mockAPI).Login(context.Background(), "ola@stud.noroff.no", "secret123")
		require.NoError(t, err)
		require.Zero(t, s.Credits)
		require.Nil(t, s.ExpiresAt, "opaque tokens carry no expiry")
	})

	t.Run("wrong_password", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockAPI := auctionapi.NewMockAPI(ctrl)
		mockAPI.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(auctionapi.LoginResult{}, &biddingerrors.APIError{Status: 401, Message: "Invalid email or password"})

		_, err := NewAuthService(mockAPI).Login(context.Background(), "ola@stud.noroff.no", "nope")
		require.ErrorIs(t, err, biddingerrors.ErrInvalidCredentials)
		require.Equal(t, "Invalid email or password.", biddingerrors.FriendlyMessage(err))
	})

	t.Run("empty_fields_no_network", func(t *testing.T) {
		svc := NewAuthService(auctionapi.NewMockAPI(gomock.NewController(t)))
		_, err := svc.Login(context.Background(), "  ", "x")
		require.ErrorIs(t, err, biddingerrors.ErrInvalidCredentials)
		_, err = svc.Login(context.Background(), "a@stud.noroff.no", "   ")
		require.ErrorIs(t, err, biddingerrors.ErrInvalidCredentials)
	})

	t.Run("server_error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockAPI := auctionapi.NewMockAPI(ctrl)
		mockAPI.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(auctionapi.LoginResult{}, &biddingerrors.APIError{Status: 500})

		_, err := NewAuthService(mockAPI).Login(context.Background(), "ola@stud.noroff.no", "secret123")
		require.Error(t, err)
		require.NotErrorIs(t, err, biddingerrors.ErrInvalidCredentials)
	})
}

func TestActive(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	later := now.Add(time.Hour)
	earlier := now.Add(-time.Hour)

	require.False(t, Active(nil, now))
	require.False(t, Active(&model.AuthSession{}, now))
	require.True(t, Active(&model.AuthSession{AccessToken: "t"}, now))
	require.True(t, Active(&model.AuthSession{AccessToken: "t", ExpiresAt: &later}, now))
	require.False(t, Active(&model.AuthSession{AccessToken: "t", ExpiresAt: &earlier}, now))
	require.False(t, Active(&model.AuthSession{AccessToken: "t", ExpiresAt: &now}, now))
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Date(2027, 5, 1, 10, 0, 0, 0, time.UTC)

	got, ok := TokenExpiry(signedToken(t, &exp))
	require.True(t, ok)
	require.True(t, got.Equal(exp))

	past := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	got, ok = TokenExpiry(signedToken(t, &past))
	require.True(t, ok, "expired tokens still decode")
	require.True(t, got.Equal(past))

	_, ok = TokenExpiry(signedToken(t, nil))
	require.False(t, ok)

	_, ok = TokenExpiry("not-a-jwt")
	require.False(t, ok)
}

func TestAuthService_Logout(t *testing.T) {
	svc := NewAuthService(nil)
	s := &model.Session{ID: "s", Auth: &model.AuthSession{AccessToken: "t"}, Feed: model.FeedState{Page: 2}}
	svc.Logout(s)
	require.Nil(t, s.Auth)
	require.Equal(t, 2, s.Feed.Page)
}
