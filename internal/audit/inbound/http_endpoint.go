package inbound

import (
	"github.com/refundly/phonegate/internal/audit/usecase"
	"github.com/refundly/phonegate/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for sign-in history.
type HTTPEndpoint struct {
	uc uc
}

// ListSignIns returns the sign-in history for the authenticated account.
// @Summary List sign-in events
// @Description Returns the authenticated account's sign-in history, newest first.
// @Tags Audit
// @Produce json
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Page offset"
// @Security BearerAuth
// @Success 200 {object} router.successResponse{data=[]SignInEventResponse} "Sign-in history"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/audit/events [get]
func (h *HTTPEndpoint) ListSignIns(r *router.Request) (any, error) {
	limit, err := r.GetQueryInt32("limit")
	if err != nil {
		return nil, err
	}
	offset, err := r.GetQueryInt32("offset")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.ListSignIns(r.Context(), usecase.ListSignInsInput{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}

	events := make([]SignInEventResponse, 0, len(resp.Events))
	for _, ev := range resp.Events {
		events = append(events, SignInEventResponse{
			ID:         ev.ID,
			NewAccount: ev.NewAccount,
			ClientIP:   ev.ClientIP,
			OccurredAt: ev.OccurredAt,
		})
	}

	return SignInEventListResponse{
		Events: events,
		total:  resp.Total,
	}, nil
}
