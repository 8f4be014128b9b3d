package erasite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eringen/erasite/apperror"
	"github.com/eringen/erasite/model"
)

// GetUserByUsername looks up an account for login.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := s.db.GetContext(ctx, &u,
		`SELECT id, username, password, is_admin, created_at FROM users WHERE username = ?`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, &apperror.AppError{
			Err:     apperror.ErrNotFound,
			Message: "user not found",
			Field:   "username",
		}
	}
	if err != nil {
		return model.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// CreateUser stores an account with an already hashed password. A taken
// username yields apperror.ErrConflict.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string, isAdmin bool) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password, is_admin) VALUES (?, ?, ?)`,
		username, passwordHash, isAdmin)
	if isUniqueViolation(err) {
		return 0, apperror.Conflict("user", username)
	}
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return res.LastInsertId()
}
