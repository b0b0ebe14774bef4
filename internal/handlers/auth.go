package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/josh-kartchner/traction/internal/auth"
	dom "github.com/josh-kartchner/traction/internal/domain"
	"github.com/josh-kartchner/traction/internal/dto"
	"github.com/josh-kartchner/traction/internal/service"
)

// AuthHandler issues and revokes session cookies.
type AuthHandler struct {
	sessions *auth.Store
	users    *service.UserService
	secure   bool
}

// NewAuthHandler returns an AuthHandler. secure sets the cookie's Secure flag.
func NewAuthHandler(sessions *auth.Store, users *service.UserService, secure bool) *AuthHandler {
	return &AuthHandler{sessions: sessions, users: users, secure: secure}
}

// Login godoc
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "Credentials"
// @Success      200   {object}  map[string]bool
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.users.ValidateCredentials(c.Request.Context(), req.Username, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	h.startSession(c, http.StatusOK, user)
}

// Register godoc
// @Summary      Register
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "Credentials"
// @Success      201   {object}  map[string]bool
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.users.Register(c.Request.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "username and password required"})
	case errors.Is(err, service.ErrUsernameTaken):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case err != nil:
		writeError(c, err)
	default:
		h.startSession(c, http.StatusCreated, user)
	}
}

// Logout godoc
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if id, err := c.Cookie(auth.CookieName); err == nil && id != "" {
		if err := h.sessions.Delete(c.Request.Context(), id); err != nil {
			_ = c.Error(err)
		}
	}
	c.SetCookie(auth.CookieName, "", -1, "/", "", h.secure, true)
	c.Status(http.StatusNoContent)
}

// startSession stores a session for user and sets an httpOnly cookie that
// expires with it.
func (h *AuthHandler) startSession(c *gin.Context, status int, user dom.User) {
	id, err := h.sessions.Create(c.Request.Context(), user.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, id, int(h.sessions.TTL().Seconds()), "/", "", h.secure, true)
	c.JSON(status, gin.H{"ok": true, "user": dto.UserResponse{ID: user.ID, Username: user.Username}})
}
