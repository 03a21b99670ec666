package app_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/advcompro/garage-dashboard/internal/app"
	"github.com/advcompro/garage-dashboard/internal/cache"
	"github.com/advcompro/garage-dashboard/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []string
}

func (s *recordingSender) Send(_ context.Context, to, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, to+": "+body)
	return nil
}

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		Gateway: config.GatewayConfig{BaseURL: baseURL, Timeout: 5},
		Cache:   config.CacheConfig{Mode: "memory", Namespace: "test"},
		Report:  config.ReportConfig{Source: "local"},
		Shop:    config.ShopConfig{FixingCapacity: 10, MechanicCapacity: 4},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
		Notify:  config.NotifyConfig{Enabled: true, Template: "{name}: {car} is ready"},
	}
}

func gatewayServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/get_customers", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id": 3, "name": "Mali", "surname": "Rakthai", "tel": "+66800000003",
			"licensePlate": "9ZZ 9999", "brand": "Mazda", "model": "2", "symptoms": "Brake System",
			"cost": 900, "mechanic": "Phurint B.", "timestamp": "2024-05-01T09:00:00Z"}]`))
	})
	mux.HandleFunc("GET /api/get_mechanics", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestNew_WiresStoreMetricsAndNotifier(t *testing.T) {
	ctx := context.Background()
	srv := gatewayServer(t)
	sender := &recordingSender{}

	a, err := app.New(ctx, testConfig(srv.URL), zap.NewNop(),
		app.WithKV(cache.NewMemory()),
		app.WithSender(sender),
	)
	require.NoError(t, err)

	require.NotNil(t, a.Metrics)
	require.NotNil(t, a.Notifier)

	require.NoError(t, a.Store.Refresh(ctx))
	require.Len(t, a.Store.Customers(), 1)

	_, err = a.Store.ToggleChecked(3)
	require.NoError(t, err)

	summary := a.Reports.Dashboard(a.Store.Customers()[0].Timestamp)
	assert.Equal(t, 0, summary.FixingCars)
	assert.Equal(t, 4, summary.MechanicCapacity)

	require.NoError(t, a.Close())
	assert.Equal(t, []string{"+66800000003: Mali Rakthai: Mazda 2 is ready"}, sender.sent)
}

func TestNew_HydratesFromCache(t *testing.T) {
	ctx := context.Background()
	srv := gatewayServer(t)
	kv := cache.NewMemory()
	cfg := testConfig(srv.URL)
	cfg.Notify.Enabled = false

	first, err := app.New(ctx, cfg, zap.NewNop(), app.WithKV(kv))
	require.NoError(t, err)
	require.NoError(t, first.Store.LoadCustomers(ctx))

	second, err := app.New(ctx, cfg, zap.NewNop(), app.WithKV(kv))
	require.NoError(t, err)
	assert.Len(t, second.Store.Customers(), 1, "hydrated without a Gateway call")
	assert.Nil(t, second.Notifier)
}

func TestNew_RejectsBadGatewayURL(t *testing.T) {
	cfg := testConfig("ftp://example.com")
	cfg.Notify.Enabled = false
	_, err := app.New(context.Background(), cfg, zap.NewNop(), app.WithKV(cache.NewMemory()))
	assert.Error(t, err)
}
