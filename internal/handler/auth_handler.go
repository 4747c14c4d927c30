package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hrd-platform/hr-admin-api/internal/dto"
	"github.com/hrd-platform/hr-admin-api/internal/service"
	"github.com/hrd-platform/hr-admin-api/pkg/config"
	appErrors "github.com/hrd-platform/hr-admin-api/pkg/errors"
	"github.com/hrd-platform/hr-admin-api/pkg/response"
)

// AuthHandler wires the session lifecycle to HTTP routes.
type AuthHandler struct {
	auth    *service.AuthService
	metrics *service.MetricsService
	cfg     config.SessionConfig
}

// NewAuthHandler constructs a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, metrics *service.MetricsService, cfg config.SessionConfig) *AuthHandler {
	return &AuthHandler{auth: auth, metrics: metrics, cfg: cfg}
}

// Login godoc
// @Summary Open a session
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body service.LoginRequest true "Credentials (login is email or username)"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload"))
		return
	}

	token, employee, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setSessionCookie(c, token, int(h.cfg.TTL.Seconds()))
	h.metrics.RecordSessionOpened()
	response.JSON(c, http.StatusOK, gin.H{
		"token": token,
		"user":  dto.NewEmployeeResponse(*employee),
	}, nil)
}

// Logout godoc
// @Summary Revoke the current session
// @Tags Auth
// @Success 204
// @Router /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.auth.Logout(c.Request.Context(), claims); err != nil {
		response.Error(c, err)
		return
	}

	h.setSessionCookie(c, "", -1)
	h.metrics.RecordSessionClosed()
	response.NoContent(c)
}

// Me godoc
// @Summary Current session's employee profile
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	employee, err := h.auth.Me(c.Request.Context(), claims.EmployeeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewEmployeeResponse(*employee), nil)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.CookieName, token, maxAge, "/", "", h.cfg.Secure, true)
}
