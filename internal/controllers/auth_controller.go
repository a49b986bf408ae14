package controllers

import (
	"net/http"
	"time"

	"blog-admin/internal/apperrors"
	"blog-admin/internal/middleware"
	"blog-admin/internal/models"
	"blog-admin/internal/service"

	"github.com/gin-gonic/gin"
)

// CookieOptions controls the session cookie attributes
type CookieOptions struct {
	Domain string
	Secure bool
}

type AuthController struct {
	authService service.AuthService
	cookie      CookieOptions
	now         func() time.Time
}

func NewAuthController(authService service.AuthService, cookie CookieOptions) *AuthController {
	return &AuthController{
		authService: authService,
		cookie:      cookie,
		now:         time.Now,
	}
}

// Login handles POST /auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Malformed credentials get the same answer as wrong ones
		respondError(c, apperrors.ErrInvalidCredentials)
		return
	}

	response, err := ac.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	maxAge := int(response.ExpiresAt.Sub(ac.now()).Seconds())
	ac.setSessionCookie(c, response.Token, maxAge)
	c.JSON(http.StatusOK, response)
}

// Logout handles POST /auth/logout. Tokens are stateless, so this only drops the cookie.
func (ac *AuthController) Logout(c *gin.Context) {
	ac.setSessionCookie(c, "", -1)
	c.Status(http.StatusNoContent)
}

// Session handles GET /auth/session
func (ac *AuthController) Session(c *gin.Context) {
	token := middleware.TokenFromRequest(c)
	if token == "" {
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	session, err := ac.authService.Session(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (ac *AuthController) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, value, maxAge, "/", ac.cookie.Domain, ac.cookie.Secure, true)
}
