package grpc

import (
	"context"
	"net"
	"time"

	"regexsolver/solve"

	structpb "github.com/golang/protobuf/ptypes/struct"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Names of the solve service on the wire.
const (
	ServiceName     = "regexsolver.Solver"
	SolveMethodName = "Solve"
	SolveFullMethod = "/" + ServiceName + "/" + SolveMethodName
)

// SolverServer is the server API of the solve service. Requests and responses are the JSON
// solve envelopes carried as google.protobuf.Struct.
type SolverServer interface {
	Solve(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SolverServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: SolveMethodName,
			Handler:    solveHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "regexsolver.proto",
}

func solveHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(SolverServer).Solve(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: SolveFullMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SolverServer).Solve(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Server runs the gRPC endpoint.
type Server interface {
	// Serve accepts connections on lis until ctx is done, then stops gracefully.
	Serve(ctx context.Context, lis net.Listener) error
}

type serverImpl struct {
	logger   zerolog.Logger
	solver   solve.Solver
	defaults solve.Defaults
}

// NewServer creates a gRPC Server backed by solver.
func NewServer(logger zerolog.Logger, solver solve.Solver, defaults solve.Defaults) Server {
	return &serverImpl{
		logger:   logger,
		solver:   solver,
		defaults: defaults,
	}
}

func (s *serverImpl) Solve(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := requestFromStruct(in, s.defaults)
	if err != nil {
		s.logger.Debug().Err(err).Msg("Rejected request")
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	resp := s.solver.Solve(req)

	out, err := structFromResponse(resp)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to convert response")
		return nil, status.Error(codes.Internal, "failed to convert response")
	}

	return out, nil
}

func (s *serverImpl) Serve(ctx context.Context, lis net.Listener) error {
	gs := grpc.NewServer(grpc.UnaryInterceptor(s.logCalls))
	gs.RegisterService(&serviceDesc, s)

	go func() {
		<-ctx.Done()
		gs.GracefulStop()
	}()

	s.logger.Info().Str("address", lis.Addr().String()).Msg("Starting gRPC server")
	return gs.Serve(lis)
}

func (s *serverImpl) logCalls(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
	if s.logger.Debug() != nil {
		start := time.Now()
		defer func() {
			s.logger.Debug().Str("method", info.FullMethod).Dur("elapsed", time.Since(start)).Str("code", status.Code(err).String()).Msg("Handled gRPC call")
		}()
	}

	return handler(ctx, req)
}
