package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Attempt is one checkout submission. Status values come from the checkout
// package's state machine; they are stored as plain strings.
type Attempt struct {
	ID             string
	SessionID      string
	IdempotencyKey string
	PaymentMode    string
	Gateway        string
	Status         string
	Amount         float64
	Currency       string
	OrderID        string
	PaymentOrderID string
	FailureReason  string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (r *Repository) CreateAttempt(ctx context.Context, a *Attempt) error {
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	query := `INSERT INTO checkout_attempts
		(id, session_id, idempotency_key, payment_mode, gateway, status,
		 amount, currency, order_id, payment_order_id, failure_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.SessionID, a.IdempotencyKey, a.PaymentMode, a.Gateway, a.Status,
		a.Amount, a.Currency, a.OrderID, a.PaymentOrderID, a.FailureReason,
		a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return fmt.Errorf("%w: %s", ErrDuplicateKey, a.IdempotencyKey)
		}
		return fmt.Errorf("failed to insert checkout attempt: %w", err)
	}
	return nil
}

func (r *Repository) GetAttempt(ctx context.Context, id string) (*Attempt, error) {
	return r.getAttempt(ctx, "id", id)
}

func (r *Repository) GetAttemptByIdempotencyKey(ctx context.Context, key string) (*Attempt, error) {
	return r.getAttempt(ctx, "idempotency_key", key)
}

func (r *Repository) getAttempt(ctx context.Context, column, value string) (*Attempt, error) {
	query := `SELECT id, session_id, idempotency_key, payment_mode, gateway, status,
		amount, currency, order_id, payment_order_id, failure_reason, created_at, updated_at
		FROM checkout_attempts WHERE ` + column + ` = $1`

	a := &Attempt{}
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&a.ID, &a.SessionID, &a.IdempotencyKey, &a.PaymentMode, &a.Gateway, &a.Status,
		&a.Amount, &a.Currency, &a.OrderID, &a.PaymentOrderID, &a.FailureReason,
		&a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAttemptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query checkout attempt: %w", err)
	}
	return a, nil
}

// UpdateStatus moves an attempt to a new status, optionally recording the
// payment order id and a failure reason for support correlation.
func (r *Repository) UpdateStatus(ctx context.Context, id, status, paymentOrderID, reason string) error {
	query := `UPDATE checkout_attempts
		SET status = $1,
		    payment_order_id = CASE WHEN $2 = '' THEN payment_order_id ELSE $2 END,
		    failure_reason = $3,
		    updated_at = $4
		WHERE id = $5`

	res, err := r.db.ExecContext(ctx, query, status, paymentOrderID, reason, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update checkout attempt: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrAttemptNotFound
	}
	return nil
}

// SetOrder records the placed order id and marks the attempt ORDER_PLACED.
func (r *Repository) SetOrder(ctx context.Context, id, orderID, status string) error {
	query := `UPDATE checkout_attempts
		SET status = $1, order_id = $2, updated_at = $3
		WHERE id = $4`

	res, err := r.db.ExecContext(ctx, query, status, orderID, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to record order on attempt: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrAttemptNotFound
	}
	return nil
}
