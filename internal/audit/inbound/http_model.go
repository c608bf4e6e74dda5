package inbound

import "time"

type SignInEventResponse struct {
	ID         int64     `json:"id,string"`
	NewAccount bool      `json:"new_account"`
	ClientIP   string    `json:"client_ip,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type SignInEventListResponse struct {
	Events []SignInEventResponse `json:"events"`
	// meta
	total int64
}

func (r SignInEventListResponse) Meta() map[string]any {
	return map[string]any{
		"total": r.total,
	}
}
