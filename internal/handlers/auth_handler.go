package handlers

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"todoapp/internal/apperrors"
	"todoapp/internal/config"
	"todoapp/internal/models"
	"todoapp/internal/services"
)

type AuthHandler struct {
	userService services.UserService
	authService services.AuthService
	oauthGoogle config.OAuthProviderConfig
	oauthGitHub config.OAuthProviderConfig
}

func NewAuthHandler(userService services.UserService, authService services.AuthService, google, github config.OAuthProviderConfig) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		authService: authService,
		oauthGoogle: google,
		oauthGitHub: github,
	}
}

// @Summary      Register a new user
// @Description  Creates an account and sends an email verification token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        register  body      models.RegisterRequest  true  "Registration data"
// @Success      201  {object}  models.User
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[auth][register] bad request: bind json failed: err=%v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	email := strings.TrimSpace(req.Email)
	log.Printf("[auth][register] attempt email=%q role=%q", email, req.Role)

	user, err := h.userService.Register(c.Request.Context(), email, req.Password, req.Role)
	if err != nil {
		log.Printf("[auth][register][err] email=%q: %v", email, err)
		respondError(c, err, "registration failed")
		return
	}
	log.Printf("[auth][register][ok] id=%d email=%q", user.ID, user.Email)
	c.JSON(http.StatusCreated, user)
}

// @Summary      Verify email address
// @Description  Confirms the single-use verification token sent at registration
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Router       /auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userService.VerifyEmail(c.Request.Context(), req.Email, req.Token); err != nil {
		log.Printf("[auth][verify][err] email=%q: %v", req.Email, err)
		respondError(c, err, "verification failed")
		return
	}
	log.Printf("[auth][verify][ok] email=%q", req.Email)
	c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully"})
}

// @Summary      Log in
// @Description  Authenticates with email and password and returns a bearer token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Credentials"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[auth][login] bad request: bind json failed: err=%v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	email := strings.TrimSpace(req.Email)
	log.Printf("[auth][login] attempt email=%q", email)

	user, token, err := h.userService.Login(c.Request.Context(), email, req.Password)
	if err != nil {
		log.Printf("[auth][login][err] email=%q: %v", email, err)
		respondError(c, err, "login failed")
		return
	}

	log.Printf("[auth][login][ok] userID=%d role=%s", user.ID, user.Role)
	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
	})
}

// @Summary      OAuth authorize URL
// @Description  Returns the provider's authorization URL
// @Tags         Auth
// @Produce      json
// @Param        provider  path  string  true  "google or github"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /auth/oauth/{provider} [get]
func (h *AuthHandler) OAuthRedirect(c *gin.Context) {
	provider := c.Param("provider")
	cfg, authURL, ok := h.providerConfig(provider)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown provider"})
		return
	}
	u := fmt.Sprintf("%s?client_id=%s&redirect_uri=%s&scope=email",
		authURL, url.QueryEscape(cfg.ClientID), url.QueryEscape(cfg.RedirectURL))
	c.JSON(http.StatusOK, gin.H{"authorize_url": u})
}

// OAuthCallback creates or links the account for an externally-authenticated
// identity and issues a token. The code-for-profile exchange with the
// provider is stubbed: the identity arrives as query parameters.
//
// @Summary      OAuth callback (stub)
// @Tags         Auth
// @Produce      json
// @Param        provider  path   string  true  "google or github"
// @Param        email     query  string  true  "account email"
// @Param        oauth_id  query  string  true  "provider user id"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Router       /auth/oauth/{provider}/callback [get]
func (h *AuthHandler) OAuthCallback(c *gin.Context) {
	provider := c.Param("provider")
	if _, _, ok := h.providerConfig(provider); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown provider"})
		return
	}
	email := c.Query("email")
	oauthID := c.Query("oauth_id")

	user, err := h.userService.CreateOrGetOAuthUser(c.Request.Context(), email, provider, oauthID)
	if err != nil {
		log.Printf("[auth][oauth][err] provider=%s email=%q: %v", provider, email, err)
		respondError(c, err, "oauth login failed")
		return
	}

	token, err := h.authService.IssueToken(user)
	if err != nil {
		log.Printf("[auth][oauth][err] issue token userID=%d: %v", user.ID, err)
		respondError(c, apperrors.Wrap(apperrors.KindInternal, "failed to generate token", err), "failed to generate token")
		return
	}

	log.Printf("[auth][oauth][ok] provider=%s userID=%d", provider, user.ID)
	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
	})
}

func (h *AuthHandler) providerConfig(provider string) (config.OAuthProviderConfig, string, bool) {
	switch provider {
	case "google":
		return h.oauthGoogle, "https://accounts.google.com/o/oauth2/v2/auth", true
	case "github":
		return h.oauthGitHub, "https://github.com/login/oauth/authorize", true
	}
	return config.OAuthProviderConfig{}, "", false
}
