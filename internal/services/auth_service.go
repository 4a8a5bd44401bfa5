package services

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"todoapp/internal/apperrors"
	"todoapp/internal/config"
	"todoapp/internal/models"
)

const minPasswordLength = 8

// Claims carried inside the access token. Subject (user id) and expiry are
// the only things token verification looks at; everything else is resolved
// from storage per request.
type Claims struct {
	UserID int             `json:"user_id"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	HashPassword(plain string) (string, error)
	CheckPassword(plain, hash string) bool
	IssueToken(user *models.User) (string, error)
	ParseToken(tokenStr string) (*Claims, error)
	NewVerificationToken() (string, error)
}

type authService struct {
	secret []byte
	ttl    time.Duration
}

func NewAuthService(cfg config.AuthConfig) AuthService {
	ttl := time.Duration(cfg.TTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &authService{secret: []byte(cfg.Secret), ttl: ttl}
}

func (s *authService) HashPassword(plain string) (string, error) {
	plain = strings.TrimSpace(plain)
	if len(plain) < minPasswordLength {
		return "", apperrors.Validation("password must be at least 8 characters")
	}
	// bcrypt hard limit
	if len([]byte(plain)) > 72 {
		return "", apperrors.Validation("password must be 72 bytes or less")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (s *authService) CheckPassword(plain, hash string) bool {
	plain = strings.TrimSpace(plain)
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func (s *authService) IssueToken(user *models.User) (string, error) {
	claims := &Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *authService) ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		// принимаем только HMAC (HS256 и т.п.)
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.Unauthorized("invalid or expired token")
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(time.Now()) {
		return nil, apperrors.Unauthorized("invalid or expired token")
	}
	if claims.UserID == 0 {
		// токен без субъекта — такая же 401, как и битый
		return nil, apperrors.Unauthorized("invalid or expired token")
	}
	return claims, nil
}

func (s *authService) NewVerificationToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
