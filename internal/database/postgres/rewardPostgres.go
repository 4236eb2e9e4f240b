package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tisport/tisport/internal/entity"
)

type pointRepository struct {
	db *sql.DB
}

func NewPointRepository(db *sql.DB) PointRepository {
	return &pointRepository{db: db}
}

func (r *pointRepository) Append(ctx context.Context, entry *entity.PointEntry) error {
	now := time.Now()
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO point_entries (user_id, order_id, points, reason, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`,
		entry.UserID,
		entry.OrderID,
		entry.Points,
		entry.Reason,
		entry.Note,
		now,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("failed to append point entry: %v", err)
	}

	entry.CreatedAt = now
	return nil
}

func (r *pointRepository) GetByUserID(ctx context.Context, userID int64) ([]*entity.PointEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, order_id, points, reason, COALESCE(note, ''), created_at
		FROM point_entries
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query point entries: %v", err)
	}
	defer rows.Close()

	var entries []*entity.PointEntry
	for rows.Next() {
		var entry entity.PointEntry
		var orderID sql.NullInt64
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&orderID,
			&entry.Points,
			&entry.Reason,
			&entry.Note,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan point entry: %v", err)
		}
		if orderID.Valid {
			entry.OrderID = &orderID.Int64
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

func (r *pointRepository) Balance(ctx context.Context, userID int64) (int64, error) {
	var balance int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(points), 0) FROM point_entries WHERE user_id = $1`,
		userID).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("failed to query point balance: %v", err)
	}
	return balance, nil
}

func (r *pointRepository) TotalIssued(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(points), 0) FROM point_entries WHERE points > 0`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to query total points issued: %v", err)
	}
	return total, nil
}
