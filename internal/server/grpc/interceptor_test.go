package grpc

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/learnfeed/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type recordingLogger struct {
	logging.Nop
	args []any
}

func (r *recordingLogger) Debug(_ context.Context, _ string, args ...any) { r.args = args }
func (r *recordingLogger) With(...any) logging.Logger                     { return r }

func TestLoggingInterceptor_PassesThrough(t *testing.T) {
	log := &recordingLogger{}
	s := NewGRPCServer("", okStore{}, log)

	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
	resp, err := s.loggingInterceptor(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
	assert.Equal(t, []any{"method", info.FullMethod, "code", "OK"}, log.args[:4])
}

func TestLoggingInterceptor_KeepsError(t *testing.T) {
	log := &recordingLogger{}
	s := NewGRPCServer("", okStore{}, log)

	want := status.Error(codes.NotFound, "unknown service")
	_, err := s.loggingInterceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/x/Y"},
		func(ctx context.Context, req interface{}) (interface{}, error) {
			return nil, want
		})

	assert.True(t, errors.Is(err, want))
	assert.Equal(t, "NotFound", log.args[3])
}
