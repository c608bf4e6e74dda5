package db

import (
	"context"

	"github.com/refundly/phonegate/internal/auth/entity"
)

func (s *DB) GetAccountByPhone(ctx context.Context, phone string) (_ *entity.Account, err error) {
	ctx, span := s.startSpan(ctx, "GetAccountByPhone")
	defer func() { s.endSpan(span, err) }()

	const query = `
		SELECT id, phone, status, created_at
		FROM auth_accounts
		WHERE phone = $1`

	var acc entity.Account
	err = s.conn.QueryRow(ctx, query, phone).Scan(&acc.ID, &acc.Phone, &acc.Status, &acc.CreatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &acc, nil
}

func (s *DB) CreateAccount(ctx context.Context, acc entity.Account) (err error) {
	ctx, span := s.startSpan(ctx, "CreateAccount")
	defer func() { s.endSpan(span, err) }()

	const query = `
		INSERT INTO auth_accounts (id, phone, status, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err = s.conn.Exec(ctx, query, acc.ID, acc.Phone, acc.Status, acc.CreatedAt)
	err = s.mapError(err)
	return err
}
