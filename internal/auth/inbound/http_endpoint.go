package inbound

import (
	"github.com/sepidshop/otpgate/internal/auth/usecase"
	"github.com/sepidshop/otpgate/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the passwordless login workflows.
type HTTPEndpoint struct {
	uc uc
}

// Issue opens an OTP challenge for an email address or Iranian mobile
// number. When an active challenge exists it answers with the same token
// and the seconds left instead of sending a new code.
func (h *HTTPEndpoint) Issue(r *router.Request) (any, error) {
	var req IssueRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Issue(r.Context(), usecase.IssueInput{ID: req.ID})
	if err != nil {
		return nil, err
	}

	return IssueResponse{
		Token:            resp.Token,
		RemainingSeconds: resp.RemainingSeconds,
	}, nil
}

// Confirm exchanges the challenge token plus the received code for an
// access/refresh token pair.
func (h *HTTPEndpoint) Confirm(r *router.Request) (any, error) {
	var req ConfirmRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Confirm(r.Context(), usecase.ConfirmInput{
		Token: r.GetParam("token"),
		Otp:   req.Otp,
	})
	if err != nil {
		return nil, err
	}

	return ConfirmResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}, nil
}

// Resend replaces an expired challenge with a fresh one.
func (h *HTTPEndpoint) Resend(r *router.Request) (any, error) {
	resp, err := h.uc.Resend(r.Context(), usecase.ResendInput{Token: r.GetParam("token")})
	if err != nil {
		return nil, err
	}

	return ResendResponse{
		Token:            resp.Token,
		RemainingSeconds: resp.RemainingSeconds,
	}, nil
}

// Refresh rotates a refresh token into a new token pair.
func (h *HTTPEndpoint) Refresh(r *router.Request) (any, error) {
	var req RefreshRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Refresh(r.Context(), usecase.RefreshInput{RefreshToken: req.RefreshToken})
	if err != nil {
		return nil, err
	}

	return RefreshResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}, nil
}

// Logout revokes the presented refresh token.
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

// Profile returns the authenticated account.
func (h *HTTPEndpoint) Profile(r *router.Request) (any, error) {
	resp, err := h.uc.Profile(r.Context())
	if err != nil {
		return nil, err
	}

	out := ProfileResponse{
		ID:     resp.ID,
		Email:  resp.Email,
		Mobile: resp.Mobile,
		Status: resp.Status,
	}
	if !resp.EmailVerifiedAt.IsZero() {
		out.EmailVerifiedAt = &resp.EmailVerifiedAt
	}
	if !resp.MobileVerifiedAt.IsZero() {
		out.MobileVerifiedAt = &resp.MobileVerifiedAt
	}

	return out, nil
}
