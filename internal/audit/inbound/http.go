package inbound

import (
	"github.com/sepidshop/otpgate/internal/pkg/router"
)

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Audit trail (need authenticated)
	r.GET("/api/v1/audit/events", end.ListEvents)
}
