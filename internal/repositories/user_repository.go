package repositories

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"todoapp/internal/apperrors"
	"todoapp/internal/models"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByOAuth(provider, oauthID string) (*models.User, error)
	List(limit, offset int) ([]*models.User, error)

	// verification
	MarkEmailVerified(userID int) error

	// preferences
	UpdateNotificationPref(userID int, receive bool) error
	UpdateTelegramLink(userID int, chatID int64) error

	// oauth linkage
	UpdateOAuthLink(userID int, provider, oauthID string) error
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

const userColumns = `
	id, email, password_hash, role,
	is_email_verified, email_verification_token,
	oauth_provider, oauth_id,
	receive_notifications, COALESCE(telegram_chat_id,0),
	created_at, updated_at
`

func (r *userRepository) Create(user *models.User) error {
	const q = `
		INSERT INTO users (
			email, password_hash, role,
			is_email_verified, email_verification_token,
			oauth_provider, oauth_id,
			receive_notifications, telegram_chat_id,
			created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW(),NOW())
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRow(q,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.IsEmailVerified,
		user.EmailVerificationToken,
		user.OAuthProvider,
		user.OAuthID,
		user.ReceiveNotifications,
		nullInt64(user.TelegramChatID),
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		// 23505 = unique_violation (email)
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return apperrors.Conflict("email already registered")
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByID(id int) (*models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.DB.QueryRow(q, id))
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.DB.QueryRow(q, email))
}

func (r *userRepository) GetByOAuth(provider, oauthID string) (*models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE oauth_provider = $1 AND oauth_id = $2`
	return scanUser(r.DB.QueryRow(q, provider, oauthID))
}

func (r *userRepository) List(limit, offset int) ([]*models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users ORDER BY id LIMIT $1 OFFSET $2`
	rows, err := r.DB.Query(q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

func (r *userRepository) MarkEmailVerified(userID int) error {
	_, err := r.DB.Exec(`
		UPDATE users
		SET is_email_verified=TRUE, email_verification_token=NULL, updated_at=NOW()
		WHERE id=$1
	`, userID)
	return err
}

func (r *userRepository) UpdateNotificationPref(userID int, receive bool) error {
	_, err := r.DB.Exec(`
		UPDATE users SET receive_notifications=$1, updated_at=NOW() WHERE id=$2
	`, receive, userID)
	return err
}

func (r *userRepository) UpdateTelegramLink(userID int, chatID int64) error {
	_, err := r.DB.Exec(`
		UPDATE users SET telegram_chat_id=$1, updated_at=NOW() WHERE id=$2
	`, nullInt64(chatID), userID)
	return err
}

func (r *userRepository) UpdateOAuthLink(userID int, provider, oauthID string) error {
	_, err := r.DB.Exec(`
		UPDATE users SET oauth_provider=$1, oauth_id=$2, updated_at=NOW() WHERE id=$3
	`, provider, oauthID, userID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	var (
		passwordHash sql.NullString
		verifyToken  sql.NullString
		provider     sql.NullString
		oauthID      sql.NullString
	)
	err := row.Scan(
		&u.ID, &u.Email, &passwordHash, &u.Role,
		&u.IsEmailVerified, &verifyToken,
		&provider, &oauthID,
		&u.ReceiveNotifications, &u.TelegramChatID,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, err
	}
	if passwordHash.Valid {
		s := passwordHash.String
		u.PasswordHash = &s
	}
	if verifyToken.Valid {
		s := verifyToken.String
		u.EmailVerificationToken = &s
	}
	if provider.Valid {
		s := provider.String
		u.OAuthProvider = &s
	}
	if oauthID.Valid {
		s := oauthID.String
		u.OAuthID = &s
	}
	return u, nil
}

func nullInt64(v int64) any {
	if v == 0 {
		return nil
	}
	return v
}
