package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	"google.golang.org/grpc"

	api "github.com/oshokin/feynman-diagrams/internal/api/grpc/diagram"
	"github.com/oshokin/feynman-diagrams/internal/config"
	"github.com/oshokin/feynman-diagrams/internal/logger"
	"github.com/oshokin/feynman-diagrams/internal/service/common"
)

// Options controls the feyn-server process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
	// CatalogDir overrides the directory enumerations are persisted to.
	CatalogDir string
	// LogLevel overrides the configured log level when set.
	LogLevel string
}

// ErrNoServerAddress indicates missing server configuration.
var ErrNoServerAddress = errors.New("no server address configured")

// Run starts the gRPC server and blocks until context is canceled or server stops.
// Loads configuration first, then determines listen address from config or override.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "feyn-server")

	// Load configuration first to get server settings.
	settings, err := common.LoadSettings(opts.ConfigPath, opts.LogLevel)
	if err != nil {
		return err
	}

	// Use OutputDir from config unless overridden by command line option.
	catalogDir := settings.OutputDir
	if opts.CatalogDir != "" {
		catalogDir = opts.CatalogDir
	}

	// Determine listen address: CLI argument overrides config port extraction.
	listenAddress, err := resolveListenAddress(settings.ServerAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	// Setup TCP listener for gRPC server.
	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	logger.InfoKV(ctx, "Diagram server listening", "listen_address", lis.Addr().String(), "catalog_dir", catalogDir)

	return Serve(ctx, lis, newService(catalogDir, settings.Render))
}

// Serve runs the diagram service on lis until ctx is cancelled.
func Serve(ctx context.Context, lis net.Listener, svc api.Service) error {
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(logCalls(ctx)))
	api.RegisterDiagramServiceServer(grpcServer, api.NewServer(svc))

	// Done channel is closed after GracefulStop finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down gRPC server")
		grpcServer.GracefulStop()
		close(done)
	}()

	if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	<-done
	logger.Info(ctx, "GRPC server stopped")

	return nil
}

// NewService returns the default service implementation, memoising enumerations
// and persisting them to catalogDir when it is set.
func NewService(catalogDir string, renderSettings config.Render) api.Service {
	return newService(catalogDir, renderSettings)
}

// logCalls attaches the server logger to every request and logs failures.
func logCalls(base context.Context) grpc.UnaryServerInterceptor {
	serverLogger := logger.FromContext(base)

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ctx = logger.WithKV(logger.ToContext(ctx, serverLogger), "method", info.FullMethod)

		resp, err := handler(ctx, req)
		if err != nil {
			logger.WarnKV(ctx, "Request failed", "error", err)
		}

		return resp, err
	}
}

// resolveListenAddress determines the listen address for the gRPC server.
// If override is provided, uses it directly. Otherwise extracts port from configAddr.
// Returns appropriate listen address (e.g., ":8080" for port-only binding).
func resolveListenAddress(configAddr, override string) (string, error) {
	// Use override address if provided (e.g., ":9090", "0.0.0.0:8080").
	if override != "" {
		return override, nil
	}

	// Extract port from config address (e.g., "server.example.com:8080" -> ":8080").
	if configAddr == "" {
		return "", ErrNoServerAddress
	}

	// Parse the address to extract port.
	_, port, err := net.SplitHostPort(configAddr)
	if err != nil {
		return "", fmt.Errorf("invalid server address format %q: %w", configAddr, err)
	}

	// Return port-only listen address to bind on all interfaces.
	return ":" + port, nil
}
