// internal/handler/auth.go
package handler

import (
	"context"
	"net/http"
	"time"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/middleware"
	"finance-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// Signup godoc
// @Summary Register a new account
// @Description Creates the user, seeds the default categories and starts a session
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Account data"
// @Success 201 {object} Response{data=AuthResponse}
// @Failure 400 {object} Response
// @Failure 409 {object} Response
// @Router /api/auth/signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.svc.Auth.Signup(c.Request.Context(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Currency: domain.Currency(req.Currency),
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.setSessionCookie(c, session.Token)
	respond(c, http.StatusCreated, AuthResponse{Token: session.Token, User: session.User})
}

// Login godoc
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} Response{data=AuthResponse}
// @Failure 401 {object} Response
// @Router /api/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.svc.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.setSessionCookie(c, session.Token)
	respond(c, http.StatusOK, AuthResponse{Token: session.Token, User: session.User})
}

// Logout godoc
// @Summary Clear the session cookie
// @Tags auth
// @Success 200 {object} Response
// @Router /api/auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", h.cfg.IsProduction(), true)
	noContent(c, "Logged out successfully")
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Security BearerAuth
// @Success 200 {object} Response{data=domain.User}
// @Failure 401 {object} Response
// @Router /api/auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	respond(c, http.StatusOK, middleware.CurrentUser(c))
}

func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.TokenCookie, token, int(h.cfg.CookieMaxAge/time.Second), "/", "", h.cfg.IsProduction(), true)
}

// Health godoc
// @Summary Liveness and storage check
// @Tags system
// @Success 200 {object} Response
// @Failure 503 {object} Response
// @Router /api/health [get]
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, Response{Success: false, Message: "Storage unavailable"})
		return
	}
	respondMessage(c, http.StatusOK, "OK", gin.H{"status": "ok", "timestamp": time.Now().UTC()})
}
