//
// SPDX-License-Identifier: BSD-3-Clause
//

package dnswire

import (
	"context"
	"net"
	"time"

	"github.com/pkg/errors"
)

const (
	// DefaultPort is the port used when the server address has none.
	DefaultPort = "53"

	// DefaultTimeout is the default overall exchange timeout.
	DefaultTimeout = 5 * time.Second

	// DefaultBufferSize is the default size of the receive buffer.
	DefaultBufferSize = 2048
)

// Transport exchanges a single raw DNS message over UDP.
//
// The zero value is ready to use.
type Transport struct {
	// Timeout OPTIONALLY bounds the whole exchange. When zero,
	// we use [DefaultTimeout].
	Timeout time.Duration

	// BufferSize OPTIONALLY sets the size of the receive buffer. Longer
	// replies are truncated. When zero, we use [DefaultBufferSize].
	BufferSize int
}

// NewTransport returns a new [*Transport] using the default settings.
func NewTransport() *Transport {
	return &Transport{
		Timeout:    DefaultTimeout,
		BufferSize: DefaultBufferSize,
	}
}

// Exchange sends raw to server from an ephemeral UDP socket and waits for
// the first datagram received on the socket. The server is an IP address
// or a host name, optionally followed by a port.
//
// The socket is always closed before returning. When the context is
// done or the timeout expires, the returned error wraps the context error.
func (t *Transport) Exchange(ctx context.Context, server string, raw []byte) ([]byte, error) {
	addr, err := net.ResolveUDPAddr("udp", serverAddress(server))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve dns server %q", server)
	}

	timeout := t.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	lc := &net.ListenConfig{}
	conn, err := lc.ListenPacket(ctx, "udp", ":0")
	if err != nil {
		return nil, errors.Wrap(err, "failed to bind udp socket")
	}
	defer func() { _ = conn.Close() }()

	// unblock any pending I/O as soon as the context is done
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	if _, err := conn.WriteTo(raw, addr); err != nil {
		return nil, t.ioError(ctx, err, "failed to send dns query")
	}

	size := t.BufferSize
	if size <= 0 {
		size = DefaultBufferSize
	}
	buf := make([]byte, size)
	n, _, err := conn.ReadFrom(buf)
	if err != nil {
		return nil, t.ioError(ctx, err, "failed to receive dns response")
	}
	return buf[:n], nil
}

// ioError prefers the context error over the deadline error it causes.
func (t *Transport) ioError(ctx context.Context, err error, message string) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.Wrap(ctxErr, message)
	}
	return errors.Wrap(err, message)
}

func serverAddress(server string) string {
	if _, _, err := net.SplitHostPort(server); err == nil {
		return server
	}
	return net.JoinHostPort(server, DefaultPort)
}
