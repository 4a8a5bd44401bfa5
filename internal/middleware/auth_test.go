package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"todoapp/internal/apperrors"
	"todoapp/internal/config"
	"todoapp/internal/models"
	"todoapp/internal/services"
)

type stubUserService struct {
	users map[int]*models.User
}

func (s *stubUserService) Register(ctx context.Context, email, password string, role models.UserRole) (*models.User, error) {
	return nil, nil
}

func (s *stubUserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	return nil, "", nil
}

func (s *stubUserService) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.NotFound("user not found")
}

func (s *stubUserService) VerifyEmail(ctx context.Context, email, token string) error { return nil }

func (s *stubUserService) UpdateNotificationPref(ctx context.Context, userID int, receive bool) error {
	return nil
}

func (s *stubUserService) UpdateTelegramLink(ctx context.Context, userID int, chatID int64) error {
	return nil
}

func (s *stubUserService) UnsubscribeByEmail(ctx context.Context, email string) error { return nil }

func (s *stubUserService) CreateOrGetOAuthUser(ctx context.Context, email, provider, oauthID string) (*models.User, error) {
	return nil, nil
}

func setupAuthRouter(t *testing.T) (*gin.Engine, services.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	auth := services.NewAuthService(config.AuthConfig{Secret: "test-secret", TTLMinutes: 30})
	users := &stubUserService{users: map[int]*models.User{
		7: {ID: 7, Email: "alice@example.com", Role: models.RoleUser},
	}}

	r := gin.New()
	r.Use(AuthMiddleware(auth, users))
	r.GET("/whoami", func(c *gin.Context) {
		user, err := CurrentUser(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": user.ID, "email": user.Email})
	})
	return r, auth
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	r, _ := setupAuthRouter(t)

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc"},
		{"bearer without token", "Bearer "},
		{"garbage token", "Bearer not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestAuthMiddlewareHappyPath(t *testing.T) {
	r, auth := setupAuthRouter(t)

	token, err := auth.IssueToken(&models.User{ID: 7, Role: models.RoleUser})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestAuthMiddlewareDeletedUser(t *testing.T) {
	r, auth := setupAuthRouter(t)

	// token for a user id the store no longer knows
	token, err := auth.IssueToken(&models.User{ID: 404, Role: models.RoleUser})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := func(role models.UserRole, withUser bool) *httptest.ResponseRecorder {
		r := gin.New()
		r.Use(func(c *gin.Context) {
			if withUser {
				c.Set(ContextUserKey, &models.User{ID: 1, Role: role})
			}
			c.Next()
		})
		r.Use(RequireAdmin())
		r.GET("/admin", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
		return w
	}

	if w := handler(models.RoleAdmin, true); w.Code != http.StatusOK {
		t.Errorf("admin: status = %d, want %d", w.Code, http.StatusOK)
	}
	if w := handler(models.RoleUser, true); w.Code != http.StatusForbidden {
		t.Errorf("regular user: status = %d, want %d", w.Code, http.StatusForbidden)
	}
	if w := handler("", false); w.Code != http.StatusUnauthorized {
		t.Errorf("no user: status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}
