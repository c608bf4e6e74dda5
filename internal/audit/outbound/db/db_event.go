package db

import (
	"context"

	"github.com/refundly/phonegate/internal/audit/entity"
)

func (s *DB) CreateSignInEvent(ctx context.Context, ev entity.SignInEvent) (err error) {
	ctx, span := s.startSpan(ctx, "CreateSignInEvent")
	defer func() { s.endSpan(span, err) }()

	const query = `
		INSERT INTO audit_events (id, account_id, phone, new_account, client_ip, occurred_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = s.conn.Exec(ctx, query,
		ev.ID, ev.AccountID, ev.Phone, ev.NewAccount,
		ev.ClientIP, ev.OccurredAt, ev.CreatedAt,
	)
	err = s.mapError(err)
	return err
}

func (s *DB) ListSignInEvents(ctx context.Context, filter entity.SignInEventFilter) (_ []entity.SignInEvent, _ int64, err error) {
	ctx, span := s.startSpan(ctx, "ListSignInEvents")
	defer func() { s.endSpan(span, err) }()

	const countQuery = `SELECT COUNT(*) FROM audit_events WHERE account_id = $1`

	var total int64
	if err = s.conn.QueryRow(ctx, countQuery, filter.AccountID).Scan(&total); err != nil {
		err = s.mapError(err)
		return nil, 0, err
	}

	const listQuery = `
		SELECT id, account_id, phone, new_account, client_ip, occurred_at, created_at
		FROM audit_events
		WHERE account_id = $1
		ORDER BY occurred_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := s.conn.Query(ctx, listQuery, filter.AccountID, filter.Limit, filter.Offset)
	if err != nil {
		err = s.mapError(err)
		return nil, 0, err
	}
	defer rows.Close()

	var events []entity.SignInEvent
	for rows.Next() {
		var ev entity.SignInEvent
		if err = rows.Scan(
			&ev.ID, &ev.AccountID, &ev.Phone, &ev.NewAccount,
			&ev.ClientIP, &ev.OccurredAt, &ev.CreatedAt,
		); err != nil {
			err = s.mapError(err)
			return nil, 0, err
		}
		events = append(events, ev)
	}
	if err = rows.Err(); err != nil {
		err = s.mapError(err)
		return nil, 0, err
	}

	return events, total, nil
}
