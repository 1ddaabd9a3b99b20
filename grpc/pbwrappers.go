package grpc

import (
	"encoding/json"

	"regexsolver/solve"

	"github.com/golang/protobuf/jsonpb"
	structpb "github.com/golang/protobuf/ptypes/struct"
)

// requestFromStruct converts a Struct holding a JSON solve request into a solve.Request.
func requestFromStruct(in *structpb.Struct, defaults solve.Defaults) (req solve.Request, err error) {
	if in == nil {
		in = &structpb.Struct{}
	}

	m := jsonpb.Marshaler{}
	s, err := m.MarshalToString(in)
	if err != nil {
		return
	}

	return solve.DecodeRequestWithDefaults([]byte(s), defaults)
}

// structFromResponse converts a response envelope into a Struct with the same JSON shape.
func structFromResponse(resp solve.Response) (out *structpb.Struct, err error) {
	bb, err := json.Marshal(resp)
	if err != nil {
		return
	}

	out = &structpb.Struct{}
	err = jsonpb.UnmarshalString(string(bb), out)
	return
}
