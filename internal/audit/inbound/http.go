package inbound

import (
	"github.com/refundly/phonegate/internal/pkg/router"
)

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/api/v1/audit/events", end.ListSignIns) // need authenticated
}
