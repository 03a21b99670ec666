package gateway_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/advcompro/garage-dashboard/internal/config"
	"github.com/advcompro/garage-dashboard/internal/domain"
	"github.com/advcompro/garage-dashboard/internal/gateway"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...gateway.Option) *gateway.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := gateway.NewClient(&config.GatewayConfig{
		BaseURL: server.URL,
		APIKey:  "secret-key",
		Timeout: 2,
	}, zap.NewNop(), opts...)
	require.NoError(t, err)
	return client
}

func TestNewClient_RejectsBadBaseURL(t *testing.T) {
	_, err := gateway.NewClient(&config.GatewayConfig{BaseURL: "ftp://example.com", Timeout: 1}, zap.NewNop())
	assert.Error(t, err)
}

func TestClient_ListCustomers(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/get_customers", r.URL.Path)
		assert.Equal(t, "secret-key", r.Header.Get("X-API-Key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[
			{"id": 1, "customer_name": "Somchai Jaidee", "tel": "0812345678", "license_plate": "1กข 1234",
			 "car": "Toyota Camry", "symptoms": "Brake System", "cost": 500.5, "mechanic": "Phurint B.",
			 "timestamp": "2024-10-01T09:30:00+07:00"},
			{"id": "2", "name": "Anong", "surname": "Srisuk", "tel": "0899999999", "licensePlate": "2ขค 99",
			 "brand": "Honda", "model": "Civic", "symptoms": "Tyre Changing", "cost": "abc", "checked": true}
		]`)
	})

	records, err := client.ListCustomers(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, int64(1), first.Customer.ID)
	assert.Equal(t, domain.CustomerName{First: "Somchai", Last: "Jaidee"}, first.Customer.Name)
	assert.Equal(t, "Toyota", first.Customer.Brand)
	assert.Equal(t, "Camry", first.Customer.Model)
	assert.Equal(t, "1กข 1234", first.Customer.LicensePlate)
	assert.True(t, first.Customer.Cost.Equal(decimal.RequireFromString("500.5")))
	assert.False(t, first.CheckedKnown)
	assert.Equal(t, 2024, first.Customer.Timestamp.Year())

	second := records[1]
	assert.Equal(t, int64(2), second.Customer.ID)
	assert.True(t, second.Customer.Cost.IsZero(), "non-numeric cost is coerced to zero")
	assert.True(t, second.CheckedKnown)
	assert.True(t, second.Customer.Checked)
}

func TestClient_AddCustomer(t *testing.T) {
	t.Run("echoed record", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/add_customer", r.URL.Path)

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Somchai", body["name"])
			assert.Equal(t, "Jaidee", body["surname"])
			assert.Equal(t, 300.0, body["cost"])
			assert.Equal(t, 300.0, body["nextCheckup"])
			assert.NotEmpty(t, body["timestamp"])

			_, _ = io.WriteString(w, `{"customer": {"id": 42, "name": "Somchai", "surname": "Jaidee"}}`)
		})

		rec, err := client.AddCustomer(context.Background(), &domain.Customer{
			Name:      domain.CustomerName{First: "Somchai", Last: "Jaidee"},
			Cost:      decimal.NewFromInt(300),
			Timestamp: time.Now(),
		})
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, int64(42), rec.Customer.ID)
	})

	t.Run("message only", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"message": "Customer data added successfully"}`)
		})

		rec, err := client.AddCustomer(context.Background(), &domain.Customer{})
		require.NoError(t, err)
		assert.Nil(t, rec)
	})
}

func TestClient_DeleteCustomer_Rejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/delete_customer/7", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail": "Customer not found"}`)
	})

	err := client.DeleteCustomer(context.Background(), 7)
	require.Error(t, err)
	assert.True(t, errors.Is(err, gateway.ErrRejected))

	var gwErr *gateway.Error
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, http.StatusNotFound, gwErr.StatusCode)
	assert.Equal(t, "Customer not found", gwErr.Detail)
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.ListCustomers(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, gateway.ErrTimeout))
}

func TestClient_Unavailable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	client, err := gateway.NewClient(&config.GatewayConfig{BaseURL: baseURL, Timeout: 1}, zap.NewNop())
	require.NoError(t, err)

	_, err = client.ListMechanics(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, gateway.ErrUnavailable))
}

func TestClient_Mechanics(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/get_mechanics":
			_, _ = io.WriteString(w, `{"mechanics": [{"id": 1, "name": "Nuttawut", "surname": "Kongsri", "tel": "0811111111"}]}`)
		case "/api/add_mechanic":
			_, _ = io.WriteString(w, `{"id": 5, "name": "Pantapat", "surname": "Inthra", "tel": "0822222222"}`)
		case "/api/delete_mechanic/5":
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	ctx := context.Background()

	mechanics, err := client.ListMechanics(ctx)
	require.NoError(t, err)
	require.Len(t, mechanics, 1)
	assert.Equal(t, "Nuttawut K.", mechanics[0].DisplayName())

	added, err := client.AddMechanic(ctx, &domain.Mechanic{FirstName: "Pantapat", LastName: "Inthra", Tel: "0822222222"})
	require.NoError(t, err)
	require.NotNil(t, added)
	assert.Equal(t, int64(5), added.ID)

	require.NoError(t, client.DeleteMechanic(ctx, 5))
}

func TestClient_Report(t *testing.T) {
	start := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/get_report", r.URL.Path)
		assert.Equal(t, "2024-10-01T00:00:00Z", r.URL.Query().Get("start_date"))
		assert.Equal(t, "2024-11-01T00:00:00Z", r.URL.Query().Get("end_date"))
		_, _ = io.WriteString(w, `{"totalIncome": 800, "carBrands": [
			{"name": "Toyota", "count": 1, "percentage": 50},
			{"name": "Honda", "count": 1, "percentage": "50.004"}
		]}`)
	})

	report, err := client.Report(context.Background(), start, end)
	require.NoError(t, err)
	assert.Equal(t, domain.ReportSourceRemote, report.Source)
	assert.True(t, report.TotalIncome.Equal(decimal.NewFromInt(800)))
	assert.Equal(t, 2, report.TotalCars)
	require.Len(t, report.CarBrands, 2)
	assert.Equal(t, 50.0, report.CarBrands[1].Percentage)
	assert.Equal(t, start, report.Start)
}

func TestClient_Observer(t *testing.T) {
	var calls atomic.Int32
	var lastOp atomic.Value

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, gateway.WithObserver(func(op string, _ time.Duration, err error) {
		calls.Add(1)
		lastOp.Store(op)
		assert.Error(t, err)
	}))

	_, err := client.ListCustomers(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "get_customers", lastOp.Load())
}
