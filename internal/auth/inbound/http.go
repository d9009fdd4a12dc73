package inbound

import (
	"context"

	"github.com/sepidshop/otpgate/internal/auth/usecase"
	"github.com/sepidshop/otpgate/internal/pkg/router"
)

type uc interface {
	Issue(ctx context.Context, in usecase.IssueInput) (*usecase.IssueOutput, error)
	Confirm(ctx context.Context, in usecase.ConfirmInput) (*usecase.ConfirmOutput, error)
	Resend(ctx context.Context, in usecase.ResendInput) (*usecase.ResendOutput, error)

	Refresh(ctx context.Context, in usecase.RefreshInput) (*usecase.RefreshOutput, error)
	Logout(ctx context.Context, in usecase.LogoutInput) error
	Profile(ctx context.Context) (*usecase.ProfileOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Passwordless login
	r.POST("/api/v1/auth/otp", end.Issue)
	r.POST("/api/v1/auth/otp/:token/confirm", end.Confirm)
	r.POST("/api/v1/auth/otp/:token/resend", end.Resend)

	// Sessions
	r.POST("/api/v1/auth/refresh", end.Refresh)
	r.POST("/api/v1/auth/logout", end.Logout) // need authenticated

	// Profile (need authenticated)
	r.GET("/api/v1/auth/profile", end.Profile)
}
