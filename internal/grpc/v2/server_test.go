package v2

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/Totarae/URLProbe/internal/model"
	"github.com/Totarae/URLProbe/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type stubChecker struct {
	got    []string
	report *model.Report
	err    error
}

func (c *stubChecker) Check(ctx context.Context, urls []string) (*model.Report, error) {
	c.got = urls
	return c.report, c.err
}

func dial(t *testing.T, checker Checker) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	Register(srv, NewGRPCServer(checker))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestCheckBatch(t *testing.T) {
	checker := &stubChecker{report: &model.Report{
		Message:     "URLs processed successfully",
		ProcessedAt: "2024-03-05 14:07:09",
		Results: []model.ProbeResult{
			{URL: "http://good.test", StatusCode: 200, Message: "Site is Live", Category: model.CategoryActive},
			{URL: "http://broken.test", Message: "Error: connection refused", Category: model.CategoryError},
		},
		Summary: map[string]*model.StatusBucket{
			"200": {Count: 1, Message: "Site is Live", URLs: []string{"http://good.test"}},
			"N/A": {Count: 1, Message: "Error: connection refused", URLs: []string{"http://broken.test"}},
		},
		CategoryCounts: map[model.Category]int{model.CategoryActive: 1, model.CategoryError: 1},
	}}
	conn := dial(t, checker)

	resp, err := CheckBatch(context.Background(), conn, []string{"http://good.test", "http://broken.test"})
	require.NoError(t, err)

	assert.Equal(t, []string{"http://good.test", "http://broken.test"}, checker.got)

	m := resp.AsMap()
	assert.Equal(t, "URLs processed successfully", m["message"])
	results := m["results"].([]any)
	require.Len(t, results, 2)
	assert.Equal(t, float64(200), results[0].(map[string]any)["status_code"])
	assert.Equal(t, "N/A", results[1].(map[string]any)["status_code"])
	counts := m["category_counts"].(map[string]any)
	assert.Equal(t, float64(1), counts["error"])
}

func TestCheckBatch_ErrorCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want codes.Code
	}{
		{name: "empty", err: service.ErrNoURLs, want: codes.InvalidArgument},
		{name: "cancelled", err: fmt.Errorf("batch cancelled: %w", context.Canceled), want: codes.Canceled},
		{name: "other", err: errors.New("boom"), want: codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := dial(t, &stubChecker{err: tt.err})

			_, err := CheckBatch(context.Background(), conn, []string{"http://a.test"})

			assert.Equal(t, tt.want, status.Code(err))
		})
	}
}

func TestCheckBatch_InvalidRequest(t *testing.T) {
	conn := dial(t, &stubChecker{})

	req, err := structpb.NewStruct(map[string]any{"urls": []any{"http://a.test", 42}})
	require.NoError(t, err)

	err = conn.Invoke(context.Background(), CheckBatchMethod, req, new(structpb.Struct))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestURLsFromRequest_Missing(t *testing.T) {
	urls, err := urlsFromRequest(&structpb.Struct{})
	assert.NoError(t, err)
	assert.Empty(t, urls)
}
