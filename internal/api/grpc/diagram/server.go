package diagram

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	domain "github.com/oshokin/feynman-diagrams/internal/domain/diagram"
	"github.com/oshokin/feynman-diagrams/internal/generator"
)

// Service abstracts the business operations the transport layer depends on.
type Service interface {
	Enumerate(ctx context.Context, order, maxLevel int) ([]domain.Entry, error)
	Render(ctx context.Context, order, maxLevel, index int) ([]byte, error)
}

// Server implements the DiagramService gRPC API.
type Server struct {
	// service provides the enumeration and rendering logic.
	service Service
}

// NewServer wires the provided service implementation into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// Enumerate lists every diagram of the requested order.
func (s *Server) Enumerate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	in, err := ParseEnumerateRequest(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	entries, err := s.service.Enumerate(ctx, in.Order, in.MaxLevel)
	if err != nil {
		return nil, toStatus(err)
	}

	infos := make([]DiagramInfo, 0, len(entries))
	for i, e := range entries {
		infos = append(infos, NewDiagramInfo(i+1, e))
	}

	resp, err := EncodeDiagrams(infos)
	if err != nil {
		return nil, status.Error(codes.Internal, "unable to encode diagrams")
	}

	return resp, nil
}

// Render returns one diagram of the requested enumeration as PNG.
func (s *Server) Render(ctx context.Context, req *structpb.Struct) (*wrapperspb.BytesValue, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	in, err := ParseRenderRequest(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	image, err := s.service.Render(ctx, in.Order, in.MaxLevel, in.Index)
	if err != nil {
		return nil, toStatus(err)
	}

	return wrapperspb.Bytes(image), nil
}

// toStatus maps domain errors onto gRPC status codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, generator.ErrInvalidOrder),
		errors.Is(err, generator.ErrInvalidMaxLevel),
		errors.Is(err, generator.ErrInvalidStart):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, "unable to process request")
	}
}
