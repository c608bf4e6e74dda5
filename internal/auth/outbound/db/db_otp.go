package db

import (
	"context"

	"github.com/refundly/phonegate/internal/auth/entity"
)

func (s *DB) GetActiveOTP(ctx context.Context, phone string) (_ *entity.OtpRecord, err error) {
	ctx, span := s.startSpan(ctx, "GetActiveOTP")
	defer func() { s.endSpan(span, err) }()

	const query = `
		SELECT id, phone, code, expires_at, attempts, verified, created_at
		FROM auth_otp_codes
		WHERE phone = $1`

	var rec entity.OtpRecord
	err = s.conn.QueryRow(ctx, query, phone).Scan(
		&rec.ID, &rec.Phone, &rec.Code, &rec.ExpiresAt,
		&rec.Attempts, &rec.Verified, &rec.CreatedAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &rec, nil
}

func (s *DB) InvalidateOTP(ctx context.Context, phone string) (err error) {
	ctx, span := s.startSpan(ctx, "InvalidateOTP")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `DELETE FROM auth_otp_codes WHERE phone = $1`, phone)
	err = s.mapError(err)
	return err
}

func (s *DB) CreateOTP(ctx context.Context, rec entity.OtpRecord) (err error) {
	ctx, span := s.startSpan(ctx, "CreateOTP")
	defer func() { s.endSpan(span, err) }()

	const query = `
		INSERT INTO auth_otp_codes (id, phone, code, expires_at, attempts, verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = s.conn.Exec(ctx, query,
		rec.ID, rec.Phone, rec.Code, rec.ExpiresAt,
		rec.Attempts, rec.Verified, rec.CreatedAt,
	)
	err = s.mapError(err)
	return err
}

func (s *DB) IncrementOTPAttempts(ctx context.Context, phone string) (err error) {
	ctx, span := s.startSpan(ctx, "IncrementOTPAttempts")
	defer func() { s.endSpan(span, err) }()

	// atomic on the row; a vanished row is a no-op
	_, err = s.conn.Exec(ctx, `UPDATE auth_otp_codes SET attempts = attempts + 1 WHERE phone = $1`, phone)
	err = s.mapError(err)
	return err
}

func (s *DB) MarkOTPVerified(ctx context.Context, phone string) (err error) {
	ctx, span := s.startSpan(ctx, "MarkOTPVerified")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `UPDATE auth_otp_codes SET verified = TRUE WHERE phone = $1`, phone)
	err = s.mapError(err)
	return err
}

func (s *DB) DeleteOTP(ctx context.Context, phone string) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteOTP")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `DELETE FROM auth_otp_codes WHERE phone = $1`, phone)
	err = s.mapError(err)
	return err
}
