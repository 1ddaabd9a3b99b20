package grpc

import (
	"context"

	structpb "github.com/golang/protobuf/ptypes/struct"
	"google.golang.org/grpc"
)

// SolverClient is the client API of the solve service.
type SolverClient interface {
	Solve(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type solverClient struct {
	cc grpc.ClientConnInterface
}

// NewSolverClient creates a SolverClient on an established connection.
func NewSolverClient(cc grpc.ClientConnInterface) SolverClient {
	return &solverClient{cc: cc}
}

func (c *solverClient) Solve(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	err := c.cc.Invoke(ctx, SolveFullMethod, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}
