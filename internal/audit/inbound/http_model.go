package inbound

import "time"

type AuditEventItem struct {
	ID         int64          `json:"id,string"`
	EventType  string         `json:"event_type"`
	UserID     int64          `json:"user_id,string"`
	Identifier string         `json:"identifier"`
	Channel    string         `json:"channel"`
	Token      string         `json:"token"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

type AuditEventsResponse struct {
	Events []AuditEventItem `json:"events"`
}
