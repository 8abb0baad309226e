// internal/handler/settings.go
package handler

import (
	"net/http"

	"finance-tracker/internal/middleware"

	"github.com/gin-gonic/gin"
)

// UpdateProfile godoc
// @Summary Change name, email or currency
// @Tags settings
// @Security BearerAuth
// @Param request body ProfileRequest true "Profile fields"
// @Success 200 {object} Response{data=domain.User}
// @Failure 409 {object} Response
// @Router /api/settings/profile [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req ProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.svc.Settings.UpdateProfile(c.Request.Context(), middleware.UserID(c), req.toPatch())
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondMessage(c, http.StatusOK, "Profile updated successfully", user)
}

// ChangePassword godoc
// @Summary Change password
// @Tags settings
// @Security BearerAuth
// @Param request body PasswordRequest true "Current and new password"
// @Success 200 {object} Response
// @Failure 401 {object} Response
// @Router /api/settings/password [put]
func (h *Handler) ChangePassword(c *gin.Context) {
	var req PasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.svc.Settings.ChangePassword(c.Request.Context(), middleware.UserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		_ = c.Error(err)
		return
	}
	noContent(c, "Password updated successfully")
}

func (h *Handler) UpdatePreferences(c *gin.Context) {
	var req PreferencesRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.svc.Settings.UpdatePreferences(c.Request.Context(), middleware.UserID(c), req.Preferences)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondMessage(c, http.StatusOK, "Preferences updated successfully", user)
}

// DeleteAccount godoc
// @Summary Delete the account and everything it owns
// @Tags settings
// @Security BearerAuth
// @Param request body DeleteAccountRequest true "Password confirmation"
// @Success 200 {object} Response
// @Failure 401 {object} Response
// @Router /api/settings/account [delete]
func (h *Handler) DeleteAccount(c *gin.Context) {
	var req DeleteAccountRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.svc.Settings.DeleteAccount(c.Request.Context(), middleware.UserID(c), req.Password); err != nil {
		_ = c.Error(err)
		return
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", h.cfg.IsProduction(), true)
	noContent(c, "Account deleted successfully")
}
