package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	auth "studiobid/internal/authService"
	"studiobid/internal/biddingerrors"
	model "studiobid/internal/models"
	"studiobid/internal/repository"
	"studiobid/services/studio/helpers"
	"studiobid/utils"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// DefaultCookieName is the session cookie
const DefaultCookieName = "studiobid_session"

// SessionOptions configures the session cookie
type SessionOptions struct {
	CookieName string
	TTL        time.Duration
	Domain     string
	Secure     bool
}

func (o SessionOptions) withDefaults() SessionOptions {
	if o.CookieName == "" {
		o.CookieName = DefaultCookieName
	}
	if o.TTL <= 0 {
		o.TTL = 24 * time.Hour
	}
	return o
}

// persistTimeout bounds the store write that follows a response
const persistTimeout = 5 * time.Second

// SessionMiddleware loads the visitor's session before the handlers run and
// persists it afterwards when it changed. The cookie is written up front
// since handlers flush the response body.
func SessionMiddleware(store repository.SessionDB, opts SessionOptions) gin.HandlerFunc {
	opts = opts.withDefaults()

	return func(c *gin.Context) {
		now := time.Now()

		session, stored := loadSession(c, store, opts.CookieName)
		before := fingerprint(session)

		if session.Auth != nil && !auth.Active(session.Auth, now) {
			utils.Info("session login expired", map[string]any{"name": session.Auth.Name})
			session.Auth = nil
		}

		writeCookie(c, opts, session.ID)
		helpers.SetSession(c, &session)

		retired := ""
		helpers.SetSessionRenewer(c, func() {
			if stored && retired == "" {
				retired = session.ID
			}
			session.ID = utils.NewSessionID()
			writeCookie(c, opts, session.ID)
		})

		c.Next()

		// a client hanging up must not drop what the handler did
		ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), persistTimeout)
		defer cancel()

		if retired != "" {
			if err := store.Delete(ctx, retired); err != nil {
				utils.Error("session delete failed", map[string]any{"error": err.Error()})
			}
			stored = false
		}

		changed := !bytes.Equal(before, fingerprint(session))
		// an idle but live session is re-saved once in a while so its ttl slides
		stale := stored && now.Sub(session.UpdatedAt) > opts.TTL/4

		switch {
		case isEmpty(session):
			if stored {
				if err := store.Delete(ctx, session.ID); err != nil {
					utils.Error("session delete failed", map[string]any{"error": err.Error()})
				}
			}
		case changed || stale:
			session.UpdatedAt = now
			if err := store.Save(ctx, session); err != nil {
				utils.Error("session save failed", map[string]any{"error": err.Error()})
			}
		}
	}
}

// writeCookie sets the session cookie, replacing one already queued on
// this response
func writeCookie(c *gin.Context, opts SessionOptions, id string) {
	header := c.Writer.Header()
	kept := lo.Reject(header.Values("Set-Cookie"), func(v string, _ int) bool {
		return strings.HasPrefix(v, opts.CookieName+"=")
	})
	header.Del("Set-Cookie")
	for _, v := range kept {
		header.Add("Set-Cookie", v)
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(opts.CookieName, id, int(opts.TTL/time.Second), "/", opts.Domain, opts.Secure, true)
}

// loadSession returns the session named by the cookie, or a fresh one under
// a newly minted id. The bool reports whether it came from the store.
func loadSession(c *gin.Context, store repository.SessionDB, cookieName string) (model.Session, bool) {
	id, err := c.Cookie(cookieName)
	if err != nil || !utils.IsSessionID(id) {
		return model.Session{ID: utils.NewSessionID()}, false
	}

	session, err := store.Load(c.Request.Context(), id)
	switch {
	case err == nil:
		session.ID = id
		return session, true
	case errors.Is(err, biddingerrors.ErrSessionNotFound):
	default:
		utils.Error("session load failed", map[string]any{"error": err.Error()})
	}
	return model.Session{ID: utils.NewSessionID()}, false
}

// fingerprint is the stored form of s without its timestamp
func fingerprint(s model.Session) []byte {
	s.UpdatedAt = time.Time{}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil
	}
	return raw
}

// isEmpty reports whether s carries nothing worth keeping
func isEmpty(s model.Session) bool {
	return s.Auth == nil && s.Feed.Page == 0 && len(s.Feed.LoadedIDs) == 0 && s.Feed.Query == ""
}

// RequireAuth rejects requests without a live login
func RequireAuth(c *gin.Context) {
	session := helpers.CurrentSession(c)
	if auth.Active(session.Auth, time.Now()) {
		c.Next()
		return
	}

	utils.JSONErrorRedirect(c, http.StatusUnauthorized, biddingerrors.ErrUnauthorized, biddingerrors.MsgLoginRequired, "/login")
	utils.Warn("RequireAuth: rejected", map[string]any{
		"path": c.Request.URL.Path,
	})
	c.Abort()
}
