package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresAccountStore resolves accounts from a Postgres database using the
// users / subscriptions / reservations tables.
type PostgresAccountStore struct {
	pool *pgxpool.Pool
}

// NewPostgresAccountStore wraps an existing connection pool.
func NewPostgresAccountStore(pool *pgxpool.Pool) *PostgresAccountStore {
	return &PostgresAccountStore{pool: pool}
}

// NewPostgresAccountStoreFromDSN connects a new pool from a connection string.
func NewPostgresAccountStoreFromDSN(ctx context.Context, dsn string) (*PostgresAccountStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect account store: %w", err)
	}
	return &PostgresAccountStore{pool: pool}, nil
}

// Close releases the underlying pool.
func (s *PostgresAccountStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Lookup implements AccountStore.
func (s *PostgresAccountStore) Lookup(ctx context.Context, email string) (*AccountRecord, error) {
	var rec AccountRecord
	err := s.pool.QueryRow(ctx,
		`SELECT user_id, full_name, email, is_blocked FROM users WHERE email = $1`,
		email,
	).Scan(&rec.User.ID, &rec.User.Name, &rec.User.Email, &rec.User.Blocked)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	var sub Subscription
	err = s.pool.QueryRow(ctx,
		`SELECT status, tier, monthly_quota FROM subscriptions WHERE user_id = $1`,
		rec.User.ID,
	).Scan(&sub.Status, &sub.Tier, &sub.MonthlyQuota)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		// no subscription on file is not an error
	case err != nil:
		return nil, fmt.Errorf("lookup subscription: %w", err)
	default:
		rec.Subscription = &sub
	}

	rows, err := s.pool.Query(ctx,
		`SELECT reservation_id, experience_id, status FROM reservations WHERE user_id = $1 ORDER BY reservation_id`,
		rec.User.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("lookup reservations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var r Reservation
		if err := rows.Scan(&r.ReservationID, &r.ExperienceID, &r.Status); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		rec.Reservations = append(rec.Reservations, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read reservations: %w", err)
	}
	return &rec, nil
}

// PostgresTicketLog stores ticket history in the tickets / ticket_messages
// tables.
type PostgresTicketLog struct {
	pool *pgxpool.Pool
}

// NewPostgresTicketLog wraps an existing connection pool.
func NewPostgresTicketLog(pool *pgxpool.Pool) *PostgresTicketLog {
	return &PostgresTicketLog{pool: pool}
}

// AppendNote implements TicketLog.
func (l *PostgresTicketLog) AppendNote(ctx context.Context, ticketID, role, content string) error {
	_, err := l.pool.Exec(ctx,
		`INSERT INTO ticket_messages (ticket_id, role, content, created_at) VALUES ($1, $2, $3, now())`,
		ticketID, role, content,
	)
	if err != nil {
		return fmt.Errorf("append ticket note: %w", err)
	}
	return nil
}

// Recent implements TicketLog using a per-ticket window over the user's
// tickets, newest first.
func (l *PostgresTicketLog) Recent(ctx context.Context, userID string, perTicket int) ([]Note, error) {
	rows, err := l.pool.Query(ctx,
		`SELECT ticket_id, role, content FROM (
		    SELECT m.ticket_id, m.role, m.content,
		           row_number() OVER (PARTITION BY m.ticket_id ORDER BY m.created_at DESC) AS rn
		    FROM ticket_messages m
		    JOIN tickets t ON t.ticket_id = m.ticket_id
		    WHERE t.user_id = $1
		) ranked WHERE rn <= $2`,
		userID, perTicket,
	)
	if err != nil {
		return nil, fmt.Errorf("recent ticket notes: %w", err)
	}
	defer rows.Close()

	var notes []Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.TicketID, &n.Role, &n.Content); err != nil {
			return nil, fmt.Errorf("scan ticket note: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read ticket notes: %w", err)
	}
	return notes, nil
}
