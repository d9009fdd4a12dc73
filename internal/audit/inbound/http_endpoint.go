package inbound

import (
	"github.com/samber/lo"
	"github.com/sepidshop/otpgate/internal/audit/entity"
	"github.com/sepidshop/otpgate/internal/audit/usecase"
	"github.com/sepidshop/otpgate/internal/pkg/router"
)

type HTTPEndpoint struct {
	uc uc
}

// ListEvents returns the login audit trail, newest first.
func (h *HTTPEndpoint) ListEvents(r *router.Request) (any, error) {
	limit, err := r.GetQueryInt32("limit")
	if err != nil {
		return nil, err
	}

	offset, err := r.GetQueryInt32("offset")
	if err != nil {
		return nil, err
	}

	items, err := h.uc.ListEvents(r.Context(), usecase.ListEventsInput{
		EventType: r.GetQuery("event_type"),
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return nil, err
	}

	return AuditEventsResponse{
		Events: lo.Map(items, func(item entity.AuditEvent, _ int) AuditEventItem {
			return AuditEventItem{
				ID:         item.ID,
				EventType:  item.EventType.String(),
				UserID:     item.UserID,
				Identifier: item.Identifier,
				Channel:    item.Channel,
				Token:      item.Token,
				Metadata:   item.Metadata,
				CreatedAt:  item.CreatedAt,
			}
		}),
	}, nil
}
