package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/RadislavKrasnov/contacts-api/internal/model"
)

var (
	ErrEmailExists    = errors.New("email already exists")
	ErrUsernameExists = errors.New("username already exists")
)

const userColumns = "id,username,email,hashed_password,refresh_token,avatar,role,confirmed,created_at"

// UserRepo provides access to the 'users' table. Lookup methods return
// (nil, nil) when no row matches so callers can treat absence as a normal
// outcome rather than an error.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user with an already-hashed password and returns the row.
func (r *UserRepo) Create(ctx context.Context, username, email, hashedPassword string, role model.Role, avatar string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, hashed_password, role, avatar) VALUES (?,?,?,?,?)",
		username, email, hashedPassword, string(role), avatar)
	if err != nil {
		// MySQL 1062 = duplicate key; the message names the violated index.
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "1062") {
			if strings.Contains(msg, "username") {
				return nil, ErrUsernameExists
			}
			return nil, ErrEmailExists
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, uint64(id))
}

// FindByID fetches a user by id.
func (r *UserRepo) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
	return scanUser(row)
}

// FindByUsername fetches a user by username.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1", username)
	return scanUser(row)
}

// FindByEmail fetches a user by normalized email.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
	return scanUser(row)
}

// StoreRefreshToken binds a freshly issued refresh token to the user. One
// active refresh token per user: reissue overwrites, which implicitly
// invalidates the previous one.
func (r *UserRepo) StoreRefreshToken(ctx context.Context, username, token string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token=? WHERE username=?", token, username)
	return err
}

// ConfirmEmail marks the user's email as verified.
func (r *UserRepo) ConfirmEmail(ctx context.Context, email string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET confirmed=1 WHERE email=?", strings.ToLower(strings.TrimSpace(email)))
	return err
}

// UpdateAvatar stores a new avatar URL and returns the updated row.
func (r *UserRepo) UpdateAvatar(ctx context.Context, email, url string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE users SET avatar=? WHERE email=?", url, email); err != nil {
		return nil, err
	}
	return r.FindByEmail(ctx, email)
}

// ResetPassword replaces the stored password hash.
func (r *UserRepo) ResetPassword(ctx context.Context, email, hashedPassword string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET hashed_password=? WHERE email=?",
		hashedPassword, strings.ToLower(strings.TrimSpace(email)))
	return err
}

func scanUser(row *sql.Row) (*model.User, error) {
	var (
		u            model.User
		refreshToken sql.NullString
		avatar       sql.NullString
		role         string
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.HashedPassword,
		&refreshToken, &avatar, &role, &u.Confirmed, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.RefreshToken = refreshToken.String
	u.Avatar = avatar.String
	u.Role = model.Role(role)
	return &u, nil
}
