package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hostelflow-api/internal/middleware"
	"github.com/noah-isme/hostelflow-api/internal/models"
	appErrors "github.com/noah-isme/hostelflow-api/pkg/errors"
	"github.com/noah-isme/hostelflow-api/pkg/response"
)

type authConsole interface {
	Login(ctx context.Context, email, password string) (*models.User, error)
	Logout(ctx context.Context) error
}

type tokenIssuer interface {
	Issue(user models.User) (*models.LoginResponse, error)
}

// AuthHandler wires HTTP endpoints to the console session flow.
type AuthHandler struct {
	console authConsole
	tokens  tokenIssuer
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(console authConsole, tokens tokenIssuer) *AuthHandler {
	return &AuthHandler{console: console, tokens: tokens}
}

// Login godoc
// @Summary Authenticate warden
// @Description Authenticate by email and password, persist the session and issue an access token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}

	user, err := h.console.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	res, err := h.tokens.Issue(*user)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

// Logout godoc
// @Summary Logout current session
// @Description Clear the persisted session; outstanding tokens stop working
// @Tags Authentication
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} response.Envelope
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.console.Logout(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Me godoc
// @Summary Current session user
// @Tags Authentication
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}
