package sms

import (
	"context"
	"io"
)

// Message represents a single outbound text message.
type Message struct {
	// To is the recipient number in the national 0-prefixed form the
	// gateway expects.
	To string
	// Body is the message text.
	Body string
}

// SMS abstracts a text-message provider (HTTP gateway, aggregator API, etc).
type SMS interface {
	io.Closer
	// Send dispatches the given message using the underlying provider.
	Send(ctx context.Context, msg Message) error
}
