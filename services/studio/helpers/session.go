package helpers

import (
	model "studiobid/internal/models"
	"studiobid/utils"

	"github.com/gin-gonic/gin"
)

const (
	sessionContextKey = "studiobid-session"
	renewContextKey   = "studiobid-session-renew"
)

// SetSession attaches the request's session to c
func SetSession(c *gin.Context, s *model.Session) {
	c.Set(sessionContextKey, s)
}

// CurrentSession returns the session attached by the session middleware.
// Without one a throwaway session is attached so handlers never see nil.
func CurrentSession(c *gin.Context) *model.Session {
	if v, ok := c.Get(sessionContextKey); ok {
		if s, ok := v.(*model.Session); ok && s != nil {
			return s
		}
	}
	s := &model.Session{}
	SetSession(c, s)
	return s
}

// SetSessionRenewer registers how RenewSession swaps the session id and
// cookie for the current request
func SetSessionRenewer(c *gin.Context, renew func()) {
	c.Set(renewContextKey, renew)
}

// RenewSession moves the current session to a new id. Call it before the
// response is written.
func RenewSession(c *gin.Context) {
	if v, ok := c.Get(renewContextKey); ok {
		if renew, ok := v.(func()); ok {
			renew()
			return
		}
	}
	CurrentSession(c).ID = utils.NewSessionID()
}
