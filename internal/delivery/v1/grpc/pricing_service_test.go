package grpc

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/pricing-engine/internal/cfg"
	"github.com/DRSN-tech/pricing-engine/internal/domain"
	"github.com/DRSN-tech/pricing-engine/internal/proto"
	"github.com/DRSN-tech/pricing-engine/internal/usecase"
	"github.com/DRSN-tech/pricing-engine/pkg/e"
	"github.com/DRSN-tech/pricing-engine/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type fakePricingUC struct {
	usecase.PricingUC
	compute func(id string) (*usecase.ComputePriceRes, error)
	latest  func(id string) (*usecase.LatestPrice, error)
}

func (f *fakePricingUC) ComputeByID(_ context.Context, id string) (*usecase.ComputePriceRes, error) {
	return f.compute(id)
}

func (f *fakePricingUC) GetLatestPrice(_ context.Context, id string) (*usecase.LatestPrice, error) {
	return f.latest(id)
}

func dial(t *testing.T, uc usecase.PricingUC) proto.PricingServiceClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := NewGRPCServer(&cfg.GRPCConfig{}, logger.Nop{})
	srv.RegisterServices(uc)
	go func() { _ = srv.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) { return lis.Dial() }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Stop(ctx)
	})
	return proto.NewPricingServiceClient(conn)
}

func request(t *testing.T, fields map[string]any) *structpb.Struct {
	t.Helper()
	req, err := structpb.NewStruct(fields)
	require.NoError(t, err)
	return req
}

func TestPricingService_ComputePrice(t *testing.T) {
	at := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	uc := &fakePricingUC{compute: func(id string) (*usecase.ComputePriceRes, error) {
		switch id {
		case "missing":
			return nil, e.ErrProductNotFound
		case "bundle":
			return nil, e.Wrap("PricingUseCase.ComputeByID", e.ErrUnsupportedCategory)
		case "busy":
			return nil, e.ErrHistoryWriteConflict
		case "broken":
			return nil, errors.New("connection refused")
		case " ":
			return nil, e.ErrInvalidProductID
		}
		return &usecase.ComputePriceRes{
			ProductID:          id,
			Category:           domain.CategoryEvent,
			OriginalPrice:      decimal.RequireFromString("100"),
			DiscountedPrice:    decimal.RequireFromString("131.4"),
			DiscountPercentage: decimal.Zero,
			HistoryWritten:     true,
			CalculatedAt:       at,
		}, nil
	}}
	client := dial(t, uc)

	t.Run("ok", func(t *testing.T) {
		out, err := client.ComputePrice(context.Background(), request(t, map[string]any{"product_id": "concert"}))
		require.NoError(t, err)

		m := out.AsMap()
		assert.Equal(t, "concert", m["product_id"])
		assert.Equal(t, "EVENT", m["category"])
		assert.Equal(t, "131.40", m["discounted_price"])
		assert.Equal(t, "0.00", m["discount_percentage"])
		assert.Equal(t, true, m["history_written"])
		assert.Equal(t, "2026-10-15T12:00:00Z", m["calculated_at"])
	})

	cases := []struct {
		name   string
		fields map[string]any
		code   codes.Code
	}{
		{"no product_id", map[string]any{}, codes.InvalidArgument},
		{"product_id is not a string", map[string]any{"product_id": 42}, codes.InvalidArgument},
		{"blank id", map[string]any{"product_id": " "}, codes.InvalidArgument},
		{"not found", map[string]any{"product_id": "missing"}, codes.NotFound},
		{"unknown category", map[string]any{"product_id": "bundle"}, codes.FailedPrecondition},
		{"conflict", map[string]any{"product_id": "busy"}, codes.Aborted},
		{"internal error", map[string]any{"product_id": "broken"}, codes.Internal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := client.ComputePrice(context.Background(), request(t, tc.fields))
			require.Error(t, err)
			assert.Equal(t, tc.code, status.Code(err))
		})
	}
}

func TestPricingService_GetLatestPrice(t *testing.T) {
	applied := time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)
	uc := &fakePricingUC{latest: func(id string) (*usecase.LatestPrice, error) {
		if id == "fresh" {
			return usecase.NewBaseLatestPrice(id, decimal.RequireFromString("80")), nil
		}
		return &usecase.LatestPrice{
			ProductID:          id,
			OriginalPrice:      decimal.RequireFromString("50"),
			DiscountedPrice:    decimal.RequireFromString("40"),
			DiscountPercentage: decimal.RequireFromString("20"),
			AppliedAt:          &applied,
			AppliedBy:          "System",
			FromHistory:        true,
		}, nil
	}}
	client := dial(t, uc)

	t.Run("from history", func(t *testing.T) {
		out, err := client.GetLatestPrice(context.Background(), request(t, map[string]any{"product_id": "sub"}))
		require.NoError(t, err)

		m := out.AsMap()
		assert.Equal(t, "40.00", m["discounted_price"])
		assert.Equal(t, "20.00", m["discount_percentage"])
		assert.Equal(t, "System", m["applied_by"])
		assert.Equal(t, "2026-10-14T09:30:00Z", m["applied_at"])
		assert.Equal(t, true, m["from_history"])
	})

	t.Run("base price", func(t *testing.T) {
		out, err := client.GetLatestPrice(context.Background(), request(t, map[string]any{"product_id": "fresh"}))
		require.NoError(t, err)

		m := out.AsMap()
		assert.Equal(t, "80.00", m["discounted_price"])
		assert.Equal(t, false, m["from_history"])
		assert.NotContains(t, m, "applied_at")
	})
}

type recordingLogger struct {
	logger.Nop
	mu     sync.Mutex
	warns  int
	errors int
}

func (l *recordingLogger) Warnf(string, ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns++
}

func (l *recordingLogger) Errorf(error, string, ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors++
}

func TestPricingService_ErrorLogLevel(t *testing.T) {
	failing := func(err error) *fakePricingUC {
		return &fakePricingUC{
			compute: func(string) (*usecase.ComputePriceRes, error) { return nil, err },
			latest:  func(string) (*usecase.LatestPrice, error) { return nil, err },
		}
	}
	req := request(t, map[string]any{"product_id": "p-1"})

	cases := []struct {
		name   string
		err    error
		warns  int
		errors int
	}{
		{"not found is a warning", e.ErrProductNotFound, 2, 0},
		{"invalid id is a warning", e.ErrInvalidProductID, 2, 0},
		{"unprocessable product is a warning", e.ErrMissingAttachment, 2, 0},
		{"conflict is a warning", e.ErrHistoryWriteConflict, 2, 0},
		{"internal failure is an error", errors.New("connection refused"), 0, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			log := &recordingLogger{}
			svc := NewPricingService(failing(tc.err), log)

			_, err := svc.ComputePrice(context.Background(), req)
			require.Error(t, err)
			_, err = svc.GetLatestPrice(context.Background(), req)
			require.Error(t, err)

			assert.Equal(t, tc.warns, log.warns)
			assert.Equal(t, tc.errors, log.errors)
		})
	}
}
