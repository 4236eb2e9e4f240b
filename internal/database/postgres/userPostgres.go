package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/tisport/tisport/internal/entity"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	now := time.Now()
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (email, name, username, nickname, telegram_id, onboarded, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`,
		user.Email,
		user.Name,
		user.Username,
		user.Nickname,
		user.TelegramID,
		user.Onboarded,
		now,
	).Scan(&user.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return entity.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %v", err)
	}

	user.CreatedAt = now
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, `
		SELECT id, email, name, COALESCE(username, ''), COALESCE(nickname, ''),
		       COALESCE(telegram_id, ''), onboarded, created_at
		FROM users WHERE id = $1
	`, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, `
		SELECT id, email, name, COALESCE(username, ''), COALESCE(nickname, ''),
		       COALESCE(telegram_id, ''), onboarded, created_at
		FROM users WHERE LOWER(email) = LOWER($1)
	`, email))
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE users SET email = $1, name = $2, username = $3, nickname = $4
		WHERE id = $5
	`, user.Email, user.Name, user.Username, user.Nickname, user.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %v", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %v", err)
	}
	if rows == 0 {
		return entity.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) SetTelegramID(ctx context.Context, userID int64, telegramID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET telegram_id = $1 WHERE id = $2`, telegramID, userID)
	if err != nil {
		return fmt.Errorf("failed to set telegram id: %v", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %v", err)
	}
	if rows == 0 {
		return entity.ErrUserNotFound
	}
	return nil
}

// MarkOnboarded stores the submitted wizard profile and flips the onboarded
// flag in one statement.
func (r *userRepository) MarkOnboarded(ctx context.Context, userID int64, profileJSON []byte) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET onboarded = TRUE, profile_json = $1 WHERE id = $2`,
		string(profileJSON), userID)
	if err != nil {
		return fmt.Errorf("failed to mark user onboarded: %v", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %v", err)
	}
	if rows == 0 {
		return entity.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) GetAll(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, email, name, COALESCE(username, ''), COALESCE(nickname, ''),
		       COALESCE(telegram_id, ''), onboarded, created_at
		FROM users ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %v", err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		user, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %v", err)
	}
	return count, nil
}

func (r *userRepository) scanUser(row rowScanner) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Username,
		&user.Nickname,
		&user.TelegramID,
		&user.Onboarded,
		&user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, entity.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %v", err)
	}
	return &user, nil
}
