package controller

import (
	"net/http"
	"time"

	"community-calendar/core/config"
	"community-calendar/core/constants"
	"community-calendar/core/controller"
	"community-calendar/core/errors"
	"community-calendar/core/middleware"
	"community-calendar/modules/auth/dto"
	"community-calendar/modules/auth/service"

	"github.com/labstack/echo/v4"
)

// AuthController handles account and session HTTP requests
type AuthController struct {
	controller.BaseController
	AuthService service.AuthServiceInterface
}

// NewAuthController creates a new controller
func NewAuthController(svc service.AuthServiceInterface) *AuthController {
	return &AuthController{
		BaseController: controller.NewBaseController(),
		AuthService:    svc,
	}
}

// Register handles POST /auth/register
// @Summary Register with an invite token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration payload"
// @Success 201 {object} dto.UserResponse
// @Failure 403 {object} controller.ErrorResponse
// @Failure 409 {object} controller.ErrorResponse
// @Router /auth/register [post]
func (c *AuthController) Register(ctx echo.Context) error {
	var req dto.RegisterRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.AuthService.Register(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	setSessionCookie(ctx, result.Token, result.ExpiresAt)
	return c.CreatedResponse(ctx, result.User, "Account created")
}

// Login handles POST /auth/login
// @Summary Log in with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} controller.ErrorResponse
// @Router /auth/login [post]
func (c *AuthController) Login(ctx echo.Context) error {
	var req dto.LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.AuthService.Login(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	setSessionCookie(ctx, result.Token, result.ExpiresAt)
	return c.SuccessResponse(ctx, result.User, "Logged in")
}

// Logout handles POST /auth/logout
// @Summary Revoke the current session
// @Tags Auth
// @Produce json
// @Success 200 {object} controller.SuccessResponse
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx echo.Context) error {
	if cookie, err := ctx.Cookie(constants.SessionCookieName); err == nil && cookie.Value != "" {
		if appErr := c.AuthService.Logout(ctx.Request().Context(), cookie.Value); appErr != nil {
			return c.ErrorResponse(ctx, appErr)
		}
	}

	clearSessionCookie(ctx)
	return c.SuccessResponse(ctx, nil, "Logged out")
}

// Me handles GET /auth/me
// @Summary Return the logged-in user
// @Tags Auth
// @Security CookieAuth
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} controller.ErrorResponse
// @Router /auth/me [get]
func (c *AuthController) Me(ctx echo.Context) error {
	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.AuthService.Me(ctx.Request().Context(), user.ID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// CreateInvite handles POST /invite
// @Summary Mint a single-use registration invite
// @Tags Auth
// @Security AdminKey
// @Produce json
// @Success 201 {object} dto.InviteResponse
// @Failure 403 {object} controller.ErrorResponse
// @Router /invite [post]
func (c *AuthController) CreateInvite(ctx echo.Context) error {
	result, appErr := c.AuthService.CreateInvite(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.CreatedResponse(ctx, result, "Invite created")
}

func setSessionCookie(ctx echo.Context, token string, expiresAt time.Time) {
	secure := false
	if cfg, ok := config.GetSafe(); ok {
		secure = cfg.IsProduction()
	}
	ctx.SetCookie(&http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(ctx echo.Context) {
	ctx.SetCookie(&http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
