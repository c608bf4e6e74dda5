package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/refundly/phonegate/internal/auth/entity"
	"github.com/refundly/phonegate/internal/pkg/goerror"
)

func (s *DB) GetAccountRefreshToken(ctx context.Context, tokenHash string) (_ *entity.AccountRefreshToken, err error) {
	ctx, span := s.startSpan(ctx, "GetAccountRefreshToken")
	defer func() { s.endSpan(span, err) }()

	const query = `
		SELECT a.id, a.phone, a.status,
		       t.id, t.revoked, t.replaced_by_token_id, t.expires_at
		FROM auth_refresh_tokens t
		JOIN auth_accounts a ON a.id = t.account_id
		WHERE t.token = $1`

	var out entity.AccountRefreshToken
	err = s.conn.QueryRow(ctx, query, tokenHash).Scan(
		&out.AccountID, &out.AccountPhone, &out.AccountStatus,
		&out.RefreshID, &out.RefreshRevoked, &out.RefreshReplacedByTokenID, &out.RefreshExpiresAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &out, nil
}

func (s *DB) CreateRefreshToken(ctx context.Context, in entity.RefreshToken) (err error) {
	ctx, span := s.startSpan(ctx, "CreateRefreshToken")
	defer func() { s.endSpan(span, err) }()

	const query = `
		INSERT INTO auth_refresh_tokens (id, account_id, token, expires_at, revoked)
		VALUES ($1, $2, $3, $4, FALSE)`

	_, err = s.conn.Exec(ctx, query, in.ID, in.AccountID, in.Token, in.ExpiresAt)
	err = s.mapError(err)
	return err
}

// RotateRefreshToken revokes the old token, links it to its successor, and
// inserts the new one in a single transaction. The guarded UPDATE makes
// rotation first-wins under concurrent refresh calls.
func (s *DB) RotateRefreshToken(ctx context.Context, ro entity.RotateRefreshToken) (err error) {
	ctx, span := s.startSpan(ctx, "RotateRefreshToken")
	defer func() { s.endSpan(span, err) }()

	err = pgx.BeginFunc(ctx, s.conn, func(tx pgx.Tx) error {
		const revoke = `
			UPDATE auth_refresh_tokens
			SET revoked = TRUE, replaced_by_token_id = $1
			WHERE id = $2 AND revoked = FALSE`

		tag, err := tx.Exec(ctx, revoke, ro.NewID, ro.OldID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return goerror.ErrNotFound
		}

		const insert = `
			INSERT INTO auth_refresh_tokens (id, account_id, token, expires_at, revoked)
			VALUES ($1, $2, $3, $4, FALSE)`

		_, err = tx.Exec(ctx, insert, ro.NewID, ro.AccountID, ro.NewToken, ro.NewExpiresAt)
		return err
	})
	err = s.mapError(err)
	return err
}

func (s *DB) RevokeRefreshToken(ctx context.Context, tokenHash string) (err error) {
	ctx, span := s.startSpan(ctx, "RevokeRefreshToken")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `UPDATE auth_refresh_tokens SET revoked = TRUE WHERE token = $1`, tokenHash)
	err = s.mapError(err)
	return err
}

func (s *DB) RevokeAllRefreshToken(ctx context.Context, accountID int64) (err error) {
	ctx, span := s.startSpan(ctx, "RevokeAllRefreshToken")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `UPDATE auth_refresh_tokens SET revoked = TRUE WHERE account_id = $1`, accountID)
	err = s.mapError(err)
	return err
}
