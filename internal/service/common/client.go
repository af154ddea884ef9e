//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	api "github.com/oshokin/feynman-diagrams/internal/api/grpc/diagram"
	"github.com/oshokin/feynman-diagrams/internal/config"
)

// Client wraps the gRPC DiagramService client with convenience helpers.
type Client struct {
	// conn is the underlying gRPC connection to the diagram server.
	conn *grpc.ClientConn
	// api is the DiagramService client interface.
	api api.DiagramServiceClient

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

var (
	// errAddressRequired is returned when a required address value is missing.
	errAddressRequired = errors.New("address must be provided")
	// errIndexRequired is returned when a diagram index below 1 is requested.
	errIndexRequired = errors.New("diagram index must be positive")
)

// Dial establishes a gRPC connection to the diagram server.
// Note: this uses insecure transport credentials; deploy on a trusted network
// or terminate TLS in a proxy until native TLS is added.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	// Use the non-context NewClient API recommended by grpc-go
	// (DialContext is deprecated as of grpc-go v1.60+).
	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial diagram server: %w", err)
	}

	client := &Client{
		conn:        conn,
		api:         api.NewDiagramServiceClient(conn),
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// Enumerate lists the diagrams of the requested order on the server.
func (c *Client) Enumerate(ctx context.Context, order, maxLevel int) ([]api.DiagramInfo, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	request := api.EnumerateRequest{
		Order:    order,
		MaxLevel: maxLevel,
	}

	resp, err := c.api.Enumerate(callCtx, request.ToProto())
	if err != nil {
		return nil, fmt.Errorf("enumerate: %w", err)
	}

	infos, err := api.DecodeDiagrams(resp)
	if err != nil {
		return nil, fmt.Errorf("decode enumeration: %w", err)
	}

	return infos, nil
}

// Render fetches the PNG of the index-th (1-based) diagram.
func (c *Client) Render(ctx context.Context, order, maxLevel, index int) ([]byte, error) {
	if index < 1 {
		return nil, errIndexRequired
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	request := api.RenderRequest{
		EnumerateRequest: api.EnumerateRequest{
			Order:    order,
			MaxLevel: maxLevel,
		},
		Index: index,
	}

	resp, err := c.api.Render(callCtx, request.ToProto())
	if err != nil {
		return nil, fmt.Errorf("render diagram %d: %w", index, err)
	}

	return resp.GetValue(), nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
