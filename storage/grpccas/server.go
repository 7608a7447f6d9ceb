package grpccas

import (
	"context"

	"github.com/ipfs/go-cid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/prolly/cidutil"
	"xdao.co/prolly/storage"
)

// Server exposes a storage.CAS over the CAS gRPC service.
//
// The backing CAS owns the Deriver; the server only re-checks that bytes and
// CIDs agree, using each CID's own prefix so any (codec, hash) pair passes.
type Server struct {
	UnimplementedCASServer
	CAS storage.CAS
}

func (s *Server) Put(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	_ = ctx
	if s == nil || s.CAS == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing CAS")
	}
	b := in.GetValue()
	id, err := s.CAS.Put(b)
	if err != nil {
		return nil, mapErr(err)
	}
	if !cidutil.Verify(id, b) {
		return nil, status.Error(codes.DataLoss, storage.ErrCIDMismatch.Error())
	}
	return wrapperspb.String(id.String()), nil
}

func (s *Server) Get(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	_ = ctx
	if s == nil || s.CAS == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing CAS")
	}
	id, err := cid.Decode(in.GetValue())
	if err != nil || !id.Defined() {
		return nil, status.Error(codes.InvalidArgument, storage.ErrInvalidCID.Error())
	}
	b, err := s.CAS.Get(id)
	if err != nil {
		return nil, mapErr(err)
	}
	if !cidutil.Verify(id, b) {
		return nil, status.Error(codes.DataLoss, storage.ErrCIDMismatch.Error())
	}
	return wrapperspb.Bytes(b), nil
}

func (s *Server) Has(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	_ = ctx
	if s == nil || s.CAS == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing CAS")
	}
	id, err := cid.Decode(in.GetValue())
	if err != nil || !id.Defined() {
		return nil, status.Error(codes.InvalidArgument, storage.ErrInvalidCID.Error())
	}
	return wrapperspb.Bool(s.CAS.Has(id)), nil
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case storage.IsNotFound(err):
		return status.Error(codes.NotFound, storage.ErrNotFound.Error())
	case err == storage.ErrInvalidCID:
		return status.Error(codes.InvalidArgument, storage.ErrInvalidCID.Error())
	case err == storage.ErrCIDMismatch:
		return status.Error(codes.DataLoss, storage.ErrCIDMismatch.Error())
	case err == storage.ErrImmutable:
		return status.Error(codes.FailedPrecondition, storage.ErrImmutable.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
