// internal/transport/transport.go

// Package transport provides the duplex message channel a bot owns for its
// lifetime: one connection to the Palace server, message-at-a-time sends and
// receives, no framing or encoding knowledge.
package transport

import (
	"context"
	"errors"
)

// ErrClosed is returned by Receive once the peer has closed the connection
// in an orderly fashion. Any other receive error is a transport failure.
var ErrClosed = errors.New("transport: connection closed")

// Conn is one established bidirectional message channel. A Conn is owned by
// exactly one bot; implementations need not be safe for concurrent Receive.
type Conn interface {
	// Send transmits one complete message.
	Send(ctx context.Context, data []byte) error
	// Receive blocks for the next inbound message.
	Receive(ctx context.Context) ([]byte, error)
	// Close tears the connection down. Safe to call more than once.
	Close() error
}

// Dialer establishes connections. The swarm hands every bot the same dialer.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}
