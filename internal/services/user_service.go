package services

import (
	"context"
	"log"
	"strings"

	"todoapp/internal/apperrors"
	"todoapp/internal/models"
	"todoapp/internal/repositories"
)

type UserService interface {
	Register(ctx context.Context, email, password string, role models.UserRole) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	GetUserByID(ctx context.Context, id int) (*models.User, error)
	VerifyEmail(ctx context.Context, email, token string) error
	UpdateNotificationPref(ctx context.Context, userID int, receive bool) error
	UpdateTelegramLink(ctx context.Context, userID int, chatID int64) error
	UnsubscribeByEmail(ctx context.Context, email string) error
	CreateOrGetOAuthUser(ctx context.Context, email, provider, oauthID string) (*models.User, error)
}

type userService struct {
	repo         repositories.UserRepository
	emailService EmailService
	authService  AuthService
}

func NewUserService(repo repositories.UserRepository, emailService EmailService, authService AuthService) UserService {
	return &userService{
		repo:         repo,
		emailService: emailService,
		authService:  authService,
	}
}

func (s *userService) Register(ctx context.Context, email, password string, role models.UserRole) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apperrors.Validation("email is required")
	}
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return nil, apperrors.Validation("role must be user or admin")
	}

	hash, err := s.authService.HashPassword(password)
	if err != nil {
		return nil, err
	}

	verifyToken, err := s.authService.NewVerificationToken()
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:                  email,
		PasswordHash:           &hash,
		Role:                   role,
		IsEmailVerified:        false,
		EmailVerificationToken: &verifyToken,
		ReceiveNotifications:   true,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}

	if s.emailService != nil {
		// warn but do not fail registration
		if err := s.emailService.SendVerificationEmail(ctx, user, verifyToken); err != nil {
			log.Printf("[user][register] warning: failed to send verification email to %s: %v", user.Email, err)
		}
	}
	return user, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.TrimSpace(email)

	user, err := s.repo.GetByEmail(email)
	if err != nil || user == nil {
		return nil, "", apperrors.Unauthorized("invalid email or password")
	}
	// OAuth-аккаунт без пароля — вход по паролю невозможен
	if user.PasswordHash == nil || *user.PasswordHash == "" {
		return nil, "", apperrors.Unauthorized("invalid email or password")
	}
	if !s.authService.CheckPassword(password, *user.PasswordHash) {
		return nil, "", apperrors.Unauthorized("invalid email or password")
	}

	token, err := s.authService.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *userService) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	return s.repo.GetByID(id)
}

func (s *userService) VerifyEmail(ctx context.Context, email, token string) error {
	user, err := s.repo.GetByEmail(strings.TrimSpace(email))
	if err != nil || user == nil {
		return apperrors.Validation("invalid verification token or email")
	}
	if user.EmailVerificationToken == nil || *user.EmailVerificationToken != token {
		return apperrors.Validation("invalid verification token or email")
	}
	return s.repo.MarkEmailVerified(user.ID)
}

func (s *userService) UpdateNotificationPref(ctx context.Context, userID int, receive bool) error {
	return s.repo.UpdateNotificationPref(userID, receive)
}

func (s *userService) UpdateTelegramLink(ctx context.Context, userID int, chatID int64) error {
	return s.repo.UpdateTelegramLink(userID, chatID)
}

// UnsubscribeByEmail silently ignores unknown emails so the endpoint does
// not reveal whether an account exists.
func (s *userService) UnsubscribeByEmail(ctx context.Context, email string) error {
	user, err := s.repo.GetByEmail(strings.TrimSpace(email))
	if err != nil || user == nil {
		return nil
	}
	return s.repo.UpdateNotificationPref(user.ID, false)
}

func (s *userService) CreateOrGetOAuthUser(ctx context.Context, email, provider, oauthID string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || provider == "" || oauthID == "" {
		return nil, apperrors.Validation("email, provider and oauth id are required")
	}

	user, err := s.repo.GetByEmail(email)
	if err == nil && user != nil {
		// link OAuth identity if the account does not have one yet
		if user.OAuthProvider == nil {
			if err := s.repo.UpdateOAuthLink(user.ID, provider, oauthID); err != nil {
				return nil, err
			}
			user.OAuthProvider = &provider
			user.OAuthID = &oauthID
		}
		return user, nil
	}
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		return nil, err
	}

	// externally-authenticated identity: no password hash, email считается
	// подтверждённым провайдером
	user = &models.User{
		Email:                email,
		Role:                 models.RoleUser,
		IsEmailVerified:      true,
		OAuthProvider:        &provider,
		OAuthID:              &oauthID,
		ReceiveNotifications: true,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}
