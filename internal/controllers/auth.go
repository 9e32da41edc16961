package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"parc-info/internal/dto"
	"parc-info/internal/services"
	apperrors "parc-info/pkg/errors"
	"parc-info/pkg/session"
	"parc-info/pkg/utils"
)

type AuthController struct {
	authService services.AuthServiceInterface
	cookieName  string
	cookieTTL   time.Duration
	secure      bool
	logger      *zap.Logger
}

func NewAuthController(
	authService services.AuthServiceInterface,
	cookieName string,
	cookieTTL time.Duration,
	secure bool,
	logger *zap.Logger,
) *AuthController {
	return &AuthController{
		authService: authService,
		cookieName:  cookieName,
		cookieTTL:   cookieTTL,
		secure:      secure,
		logger:      logger,
	}
}

func (c *AuthController) Register(ctx echo.Context) error {
	var payload dto.RegisterDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "malformed request body", err, nil),
			c.logger,
		)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	user, err := c.authService.Register(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, user, "user registered", http.StatusCreated)
}

// Login opens a session and hands the token to the browser as an HttpOnly
// cookie; the response body carries the identity the frontend renders.
func (c *AuthController) Login(ctx echo.Context) error {
	var payload dto.LoginDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "malformed request body", err, nil),
			c.logger,
		)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	token, identity, err := c.authService.Login(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	ctx.SetCookie(c.sessionCookie(token, c.cookieTTL))
	return utils.SuccessResponse(ctx, identity, "login successful", http.StatusOK)
}

// Logout revokes the server-side session and expires the cookie. A request
// without a cookie is already logged out; that is not an error.
func (c *AuthController) Logout(ctx echo.Context) error {
	cookie, err := ctx.Cookie(c.cookieName)
	if err == nil && cookie.Value != "" {
		if err := c.authService.Logout(ctx.Request().Context(), cookie.Value); err != nil {
			c.logger.Warn("session destroy failed", zap.Error(err))
		}
	}

	ctx.SetCookie(c.sessionCookie("", -time.Hour))
	return utils.SuccessResponse(ctx, struct{}{}, "logout successful", http.StatusOK)
}

func (c *AuthController) GetRole(ctx echo.Context) error {
	identity, err := session.FromContext(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, map[string]string{"role": identity.Role}, "role retrieved", http.StatusOK)
}

func (c *AuthController) GetUser(ctx echo.Context) error {
	identity, err := session.FromContext(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, identity, "session user retrieved", http.StatusOK)
}

func (c *AuthController) sessionCookie(value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     c.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
