package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ashkhen/user-accounts-service/internal/auth"
	"github.com/ashkhen/user-accounts-service/internal/config"
	"github.com/ashkhen/user-accounts-service/internal/model"
	"github.com/ashkhen/user-accounts-service/internal/queue"
	"github.com/ashkhen/user-accounts-service/internal/service"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Auth     *auth.Authenticator
	Resolver *auth.Resolver
}

func NewAuthHandler(cfg config.Config, a *auth.Authenticator, r *auth.Resolver) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Auth: a, Resolver: r}
}

// ----- DTOs -----

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginResp struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"` // seconds
}

// Login: verify credentials and return a fresh access token. Unknown
// email and wrong password answer with the same message so the
// endpoint cannot be used to enumerate accounts.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msgInvalidBody})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": validationMessage(err)})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	token, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch err {
		case auth.ErrInvalidCredentials, auth.ErrAccountInactive:
			go func() {
				_ = service.PublishAuthEvent(context.Background(), queue.NewLoginFailed(req.Email, err.Error()))
			}()
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": auth.Message(err)})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}

	go func() {
		_ = service.PublishAuthEvent(context.Background(), queue.NewLoggedIn(req.Email))
	}()
	return c.JSON(http.StatusOK, loginResp{
		AccessToken: token,
		TokenType:   auth.TokenTypeBearer,
		ExpiresIn:   h.Cfg.AccessTTLMin * 60,
	})
}

// Logout: record the presented token in the revocation ledger. The
// token must still be live (valid, unexpired, not yet revoked), but
// the account behind it may already be deactivated; those users log
// out like everyone else, which is why this handler validates the
// token itself instead of sitting behind the session middleware.
func (h *AuthHandler) Logout(c echo.Context) error {
	raw := ""
	if header := c.Request().Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		raw = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	claims, err := h.Resolver.ValidateToken(ctx, raw)
	if err != nil {
		switch err {
		case auth.ErrMissingToken, auth.ErrTokenInvalid, auth.ErrTokenExpired, auth.ErrTokenRevoked:
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": auth.Message(err)})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}

	if err := h.Auth.Logout(ctx, claims); err != nil {
		// Lost the race against a concurrent logout of the same token.
		if err == auth.ErrAlreadyRevoked {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": auth.Message(err)})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}

	go func() {
		_ = service.PublishAuthEvent(context.Background(), queue.NewLoggedOut(claims.UserID, claims.ID))
	}()
	return c.JSON(http.StatusOK, echo.Map{"message": auth.MsgLogoutSuccess})
}

type meResp struct {
	userResp
	Role string `json:"role"`
}

// Me: return the account of the current session together with its
// current role, as loaded by the session middleware.
func (h *AuthHandler) Me(c echo.Context) error {
	u, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": auth.MsgMissingToken})
	}
	return c.JSON(http.StatusOK, meResp{userResp: newUserResp(u), Role: u.Role})
}

// currentUser reads the account stored in the context by the session
// middleware.
func currentUser(c echo.Context) (model.User, bool) {
	u, ok := c.Get("user").(model.User)
	return u, ok
}
