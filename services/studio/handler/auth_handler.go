package handler

import (
	"net/http"

	auth "studiobid/internal/authService"
	"studiobid/services/studio/helpers"
	"studiobid/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service AuthServiceInterface
}

func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// SessionHandler handles GET /session, the header state of the page
func (h *AuthHandler) SessionHandler(c *gin.Context) {
	session := helpers.CurrentSession(c)
	utils.JSONResponse(c, http.StatusOK, helpers.NewSessionResponse(session.Auth), "session retrieved successfully")
}

// RegisterHandler handles POST /auth/register
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	var req helpers.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RegisterHandler", err)
		return
	}

	p, err := h.service.Register(c.Request.Context(), auth.RegisterForm{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Bio:      req.Bio,
		Avatar:   req.Avatar,
	})
	if err != nil {
		helpers.RespondError(c, "RegisterHandler", err, map[string]any{"name": req.Name})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewProfileResponse(p), "registration successful, please log in")
	helpers.LogSuccess("RegisterHandler", "profile registered", map[string]any{"name": p.Name})
}

// LoginHandler handles POST /auth/login
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req helpers.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "LoginHandler", err)
		return
	}

	authSession, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		helpers.RespondError(c, "LoginHandler", err, nil)
		return
	}

	// a login never inherits an id the browser arrived with
	helpers.RenewSession(c)
	session := helpers.CurrentSession(c)
	session.Auth = authSession

	utils.JSONResponse(c, http.StatusOK, helpers.NewSessionResponse(authSession), "logged in successfully")
	helpers.LogSuccess("LoginHandler", "logged in", map[string]any{"name": authSession.Name})
}

// LogoutHandler handles POST /auth/logout
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	session := helpers.CurrentSession(c)
	name := ""
	if session.Auth != nil {
		name = session.Auth.Name
	}

	h.service.Logout(session)

	utils.JSONResponse(c, http.StatusOK, helpers.NewSessionResponse(session.Auth), "logged out successfully")
	helpers.LogSuccess("LogoutHandler", "logged out", map[string]any{"name": name})
}
