package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tisport/tisport/internal/entity"
)

type orderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `
	id, code, event_id, user_id, quantity, participants_json,
	ticket_idr, donation_idr, discount_idr, voucher_code, voucher_title,
	fee_idr, total_idr, points, status, payment_method_id, proof_url,
	expires_at, created_at, updated_at
`

// Create inserts the order inside a transaction that re-checks remaining
// capacity, so two concurrent checkouts cannot oversell an event.
func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	var capacity, held int
	err = tx.QueryRowContext(ctx, `
		SELECT e.capacity, COALESCE((
			SELECT SUM(o.quantity) FROM orders o
			WHERE o.event_id = e.id
			  AND o.status IN ('pending_payment', 'in_review', 'paid')
		), 0)
		FROM events e
		WHERE e.id = $1
		FOR UPDATE OF e
	`, order.EventID).Scan(&capacity, &held)
	if err == sql.ErrNoRows {
		return entity.ErrEventNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check event capacity: %v", err)
	}

	if held+order.Quantity > capacity {
		return entity.ErrNotEnoughSeats
	}

	participantsJSON, err := json.Marshal(order.Participants)
	if err != nil {
		return fmt.Errorf("failed to marshal participants: %v", err)
	}

	now := time.Now()
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			code, event_id, user_id, quantity, participants_json,
			ticket_idr, donation_idr, discount_idr, voucher_code, voucher_title,
			fee_idr, total_idr, points, status, payment_method_id, proof_url,
			expires_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING id
	`,
		order.Code,
		order.EventID,
		order.UserID,
		order.Quantity,
		string(participantsJSON),
		order.TicketIDR,
		order.DonationIDR,
		order.DiscountIDR,
		order.VoucherCode,
		order.VoucherTitle,
		order.FeeIDR,
		order.TotalIDR,
		order.Points,
		order.Status,
		order.PaymentMethodID,
		order.ProofURL,
		order.ExpiresAt,
		now,
		now,
	).Scan(&order.ID)
	if err != nil {
		return fmt.Errorf("failed to create order: %v", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}

	order.CreatedAt = now
	order.UpdatedAt = now
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)
	return r.scanOrder(r.db.QueryRowContext(ctx, query, id))
}

func (r *orderRepository) GetByCode(ctx context.Context, code string) (*entity.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE code = $1`, orderColumns)
	return r.scanOrder(r.db.QueryRowContext(ctx, query, code))
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, status entity.OrderStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %v", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %v", err)
	}
	if rows == 0 {
		return entity.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) Update(ctx context.Context, order *entity.Order) error {
	participantsJSON, err := json.Marshal(order.Participants)
	if err != nil {
		return fmt.Errorf("failed to marshal participants: %v", err)
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE orders SET
			quantity = $1, participants_json = $2, ticket_idr = $3,
			donation_idr = $4, discount_idr = $5, voucher_code = $6,
			voucher_title = $7, fee_idr = $8, total_idr = $9, points = $10,
			status = $11, payment_method_id = $12, proof_url = $13,
			expires_at = $14, updated_at = $15
		WHERE id = $16
	`,
		order.Quantity,
		string(participantsJSON),
		order.TicketIDR,
		order.DonationIDR,
		order.DiscountIDR,
		order.VoucherCode,
		order.VoucherTitle,
		order.FeeIDR,
		order.TotalIDR,
		order.Points,
		order.Status,
		order.PaymentMethodID,
		order.ProofURL,
		order.ExpiresAt,
		time.Now(),
		order.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update order: %v", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %v", err)
	}
	if rows == 0 {
		return entity.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) GetByEventID(ctx context.Context, eventID int64) ([]*entity.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE event_id = $1 ORDER BY created_at DESC`, orderColumns)
	return r.queryOrders(ctx, query, eventID)
}

func (r *orderRepository) GetByUserID(ctx context.Context, userID int64) ([]*entity.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, orderColumns)
	return r.queryOrders(ctx, query, userID)
}

func (r *orderRepository) GetByStatus(ctx context.Context, status entity.OrderStatus) ([]*entity.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE status = $1 ORDER BY created_at DESC`, orderColumns)
	return r.queryOrders(ctx, query, status)
}

func (r *orderRepository) GetAll(ctx context.Context) ([]*entity.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders ORDER BY created_at DESC`, orderColumns)
	return r.queryOrders(ctx, query)
}

func (r *orderRepository) GetRecent(ctx context.Context, limit int) ([]*entity.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders ORDER BY created_at DESC LIMIT $1`, orderColumns)
	return r.queryOrders(ctx, query, limit)
}

func (r *orderRepository) GetExpiredOrders(ctx context.Context, before time.Time) ([]*entity.OrderExpiration, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT o.id, o.code, o.expires_at, o.user_id, o.event_id,
		       COALESCE(u.telegram_id, ''), u.name, e.title, o.quantity
		FROM orders o
		JOIN users u ON u.id = o.user_id
		JOIN events e ON e.id = o.event_id
		WHERE o.status = 'pending_payment' AND o.expires_at < $1
		ORDER BY o.expires_at ASC
	`, before)
	if err != nil {
		return nil, fmt.Errorf("failed to query expired orders: %v", err)
	}
	defer rows.Close()

	var expirations []*entity.OrderExpiration
	for rows.Next() {
		var exp entity.OrderExpiration
		err := rows.Scan(
			&exp.OrderID,
			&exp.OrderCode,
			&exp.ExpiresAt,
			&exp.UserID,
			&exp.EventID,
			&exp.TelegramID,
			&exp.UserName,
			&exp.EventTitle,
			&exp.Quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expired order: %v", err)
		}
		expirations = append(expirations, &exp)
	}
	return expirations, rows.Err()
}

// GetPaidParticipants returns the participant names across all paid orders of
// an event, for the public attendee list.
func (r *orderRepository) GetPaidParticipants(ctx context.Context, eventID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT participants_json FROM orders
		WHERE event_id = $1 AND status = 'paid'
		ORDER BY created_at ASC
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query paid participants: %v", err)
	}
	defer rows.Close()

	var participants []string
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan participants: %v", err)
		}
		var names []string
		if err := json.Unmarshal([]byte(raw), &names); err != nil {
			return nil, fmt.Errorf("failed to parse participants: %v", err)
		}
		participants = append(participants, names...)
	}
	return participants, rows.Err()
}

func (r *orderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %v", err)
	}
	return count, nil
}

func (r *orderRepository) GetEventOrderStats(ctx context.Context, eventID int64) (*entity.EventOrderStats, error) {
	var stats entity.EventOrderStats
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(quantity) FILTER (WHERE status = 'pending_payment'), 0),
			COALESCE(SUM(quantity) FILTER (WHERE status = 'paid'), 0),
			COALESCE(SUM(quantity) FILTER (WHERE status = 'in_review'), 0),
			COALESCE(SUM(quantity) FILTER (WHERE status = 'cancelled'), 0),
			COALESCE(SUM(quantity) FILTER (WHERE status = 'expired'), 0),
			COALESCE(SUM(total_idr) FILTER (WHERE status = 'paid'), 0)
		FROM orders
		WHERE event_id = $1
	`, eventID).Scan(
		&stats.TotalOrders,
		&stats.PendingSeats,
		&stats.PaidSeats,
		&stats.InReviewSeats,
		&stats.CancelledSeats,
		&stats.ExpiredSeats,
		&stats.RevenueIDR,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query event order stats: %v", err)
	}
	return &stats, nil
}

func (r *orderRepository) queryOrders(ctx context.Context, query string, args ...interface{}) ([]*entity.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %v", err)
	}
	defer rows.Close()

	var orders []*entity.Order
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *orderRepository) scanOrder(row rowScanner) (*entity.Order, error) {
	var order entity.Order
	var participantsJSON string
	var voucherCode, voucherTitle, paymentMethodID, proofURL sql.NullString

	err := row.Scan(
		&order.ID,
		&order.Code,
		&order.EventID,
		&order.UserID,
		&order.Quantity,
		&participantsJSON,
		&order.TicketIDR,
		&order.DonationIDR,
		&order.DiscountIDR,
		&voucherCode,
		&voucherTitle,
		&order.FeeIDR,
		&order.TotalIDR,
		&order.Points,
		&order.Status,
		&paymentMethodID,
		&proofURL,
		&order.ExpiresAt,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, entity.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan order: %v", err)
	}

	if err := json.Unmarshal([]byte(participantsJSON), &order.Participants); err != nil {
		return nil, fmt.Errorf("failed to parse participants: %v", err)
	}
	order.VoucherCode = voucherCode.String
	order.VoucherTitle = voucherTitle.String
	order.PaymentMethodID = paymentMethodID.String
	order.ProofURL = proofURL.String
	return &order, nil
}
