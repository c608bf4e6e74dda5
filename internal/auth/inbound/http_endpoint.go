package inbound

import (
	"net"

	"github.com/refundly/phonegate/internal/auth/usecase"
	"github.com/refundly/phonegate/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for phone verification and sessions.
type HTTPEndpoint struct {
	uc uc
}

// SendCode issues a verification code and delivers it over SMS.
// @Summary Send verification code
// @Description Generates a one-time code for the phone number and sends it via SMS. Replaces any previously active code.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body SendCodeRequest true "Send code payload"
// @Success 200 {object} router.successResponse{data=SendCodeResponse} "Code dispatched"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 429 {object} router.errorResponse "Resend cooldown active"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/otp/send [post]
func (h *HTTPEndpoint) SendCode(r *router.Request) (any, error) {
	var req SendCodeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.SendCode(r.Context(), usecase.SendCodeInput{Phone: req.Phone})
	if err != nil {
		return nil, err
	}

	return SendCodeResponse{Phone: resp.Phone}, nil
}

// VerifyCode checks a submitted code and issues a session on success.
// @Summary Verify code and sign in
// @Description Verifies the one-time code for the phone number and returns access/refresh tokens.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body VerifyCodeRequest true "Verify code payload"
// @Success 200 {object} router.successResponse{data=SessionResponse} "Session issued"
// @Failure 400 {object} router.errorResponse "Code not found, expired, exhausted, or incorrect"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/otp/verify [post]
func (h *HTTPEndpoint) VerifyCode(r *router.Request) (any, error) {
	var req VerifyCodeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.VerifyCode(r.Context(), usecase.VerifyCodeInput{
		Phone:    req.Phone,
		Code:     req.Code,
		ClientIP: clientIP(r),
	})
	if err != nil {
		return nil, err
	}

	return SessionResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
	}, nil
}

// RefreshSession rotates a refresh token and returns a new token pair.
// @Summary Refresh session
// @Description Exchanges a refresh token for a new access/refresh token pair.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body RefreshSessionRequest true "Refresh payload"
// @Success 200 {object} router.successResponse{data=SessionResponse} "Session refreshed"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid refresh token"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/refresh [post]
func (h *HTTPEndpoint) RefreshSession(r *router.Request) (any, error) {
	var req RefreshSessionRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.RefreshSession(r.Context(), usecase.RefreshSessionInput{RefreshToken: req.RefreshToken})
	if err != nil {
		return nil, err
	}

	return SessionResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
	}, nil
}

// Logout revokes the presented refresh token.
// @Summary Log out
// @Description Revokes the refresh token so it can no longer be exchanged.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LogoutRequest true "Logout payload"
// @Security BearerAuth
// @Success 200 {object} router.successResponse "Logged out"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/logout [post]
func (h *HTTPEndpoint) Logout(r *router.Request) (any, error) {
	var req LogoutRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.Logout(r.Context(), usecase.LogoutInput{RefreshToken: req.RefreshToken}); err != nil {
		return nil, err
	}

	return LogoutResponse{}, nil
}

// clientIP extracts the caller address; the IP middleware has already folded
// proxy headers into RemoteAddr.
func clientIP(r *router.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
