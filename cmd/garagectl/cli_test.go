package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/advcompro/garage-dashboard/internal/app"
	"github.com/advcompro/garage-dashboard/internal/cache"
	"github.com/advcompro/garage-dashboard/internal/config"
	"github.com/advcompro/garage-dashboard/internal/domain"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func gatewayServer(t *testing.T, deletes *[]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/get_customers", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"id": 1, "name": "Somchai", "surname": "Jaidee", "tel": "0811111111", "licensePlate": "1AB 1234",
			 "brand": "Toyota", "model": "Vios", "symptoms": "Air conditioner", "cost": 500,
			 "mechanic": "Phurint B.", "timestamp": "2024-05-01T09:00:00Z"},
			{"id": 2, "name": "Mali", "surname": "Rakthai", "tel": "0822222222", "licensePlate": "2CD 5678",
			 "brand": "Honda", "model": "City", "symptoms": "Brake System", "cost": 300,
			 "mechanic": "Phurint B.", "timestamp": "2024-05-02T09:00:00Z"}]`))
	})
	mux.HandleFunc("POST /api/add_customer", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		payload["id"] = 42
		out, _ := json.Marshal(map[string]interface{}{"customer": payload})
		_, _ = w.Write(out)
	})
	mux.HandleFunc("DELETE /api/delete_customer/{id}", func(w http.ResponseWriter, r *http.Request) {
		*deletes = append(*deletes, r.PathValue("id"))
		_, _ = w.Write([]byte(`{"message":"Customer deleted"}`))
	})
	mux.HandleFunc("GET /api/get_mechanics", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id": 1, "name": "Phurint", "surname": "Boonmee", "tel": "0899999999"}]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// setup installs an application backed by a fake Gateway and an in-memory cache
func setup(t *testing.T) (*[]string, *bytes.Buffer, *cobra.Command) {
	t.Helper()
	deletes := &[]string{}
	srv := gatewayServer(t, deletes)

	cfg := &config.Config{
		Gateway: config.GatewayConfig{BaseURL: srv.URL, Timeout: 5},
		Cache:   config.CacheConfig{Mode: "memory", Namespace: "cli"},
		Report:  config.ReportConfig{Source: "local"},
		Shop:    config.ShopConfig{FixingCapacity: 10, MechanicCapacity: 4},
	}
	a, err := app.New(context.Background(), cfg, zap.NewNop(), app.WithKV(cache.NewMemory()))
	require.NoError(t, err)

	log = zap.NewNop()
	application = a
	t.Cleanup(func() {
		_ = a.Close()
		application = nil
		jsonOutput = false
		assumeYes = false
		toggleByPosition = false
		stdin = strings.NewReader("")
	})

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	return deletes, &out, cmd
}

func TestCustomerList_Table(t *testing.T) {
	_, out, cmd := setup(t)

	require.NoError(t, runCustomerList(cmd, nil))
	assert.Contains(t, out.String(), "Somchai Jaidee")
	assert.Contains(t, out.String(), "Honda City")
	assert.Contains(t, out.String(), "2 customers, 2 under repair")
}

func TestCustomerList_JSON(t *testing.T) {
	_, out, cmd := setup(t)
	jsonOutput = true

	require.NoError(t, runCustomerList(cmd, nil))

	var resp domain.CustomerListResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 2, resp.ActiveRepairs)
	assert.Equal(t, "500.00", resp.Data[0].Cost)
}

func TestCustomerAdd_ValidatesForm(t *testing.T) {
	_, _, cmd := setup(t)
	customerForm = domain.CreateCustomerRequest{Name: "Anan", Symptoms: "Engine"}
	customerCost = "abc"
	t.Cleanup(func() { customerForm = domain.CreateCustomerRequest{}; customerCost = "" })

	err := runCustomerAdd(cmd, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "surname is required")
	assert.Contains(t, err.Error(), "symptoms must be one of")
	assert.Contains(t, err.Error(), "cost must be a number")
	assert.Empty(t, application.Store.Customers())
}

func TestCustomerAdd(t *testing.T) {
	_, out, cmd := setup(t)
	customerForm = domain.CreateCustomerRequest{
		Name: "Anan", Surname: "Srisuk", Tel: "0833333333", LicensePlate: "3EF 9012",
		Brand: "Mazda", Model: "2", Symptoms: "Tyre Changing", Mechanic: "Phurint B.",
	}
	customerCost = "1200"
	t.Cleanup(func() { customerForm = domain.CreateCustomerRequest{}; customerCost = "" })

	require.NoError(t, runCustomerAdd(cmd, nil))
	assert.Contains(t, out.String(), "Registered Anan Srisuk (Mazda 2) as customer 42")

	c, ok := application.Store.Customer(42)
	require.True(t, ok)
	assert.Equal(t, "1200", c.Cost.String())
	assert.False(t, c.Checked)
}

func TestCustomerDelete_PromptDeclined(t *testing.T) {
	deletes, out, cmd := setup(t)
	stdin = strings.NewReader("n\n")

	require.NoError(t, runCustomerDelete(cmd, []string{"1"}))
	assert.Contains(t, out.String(), "Delete customer 1 (Somchai Jaidee, 1AB 1234)? [y/N]")
	assert.Contains(t, out.String(), "Aborted")
	assert.Empty(t, *deletes)
	assert.Len(t, application.Store.Customers(), 2)
}

func TestCustomerDelete_Confirmed(t *testing.T) {
	deletes, out, cmd := setup(t)
	stdin = strings.NewReader("yes\n")

	require.NoError(t, runCustomerDelete(cmd, []string{"1"}))
	assert.Contains(t, out.String(), "Deleted customer 1")
	assert.Equal(t, []string{"1"}, *deletes)
	assert.Len(t, application.Store.Customers(), 1)
}

func TestCustomerDelete_UnknownID(t *testing.T) {
	deletes, _, cmd := setup(t)
	assumeYes = true

	err := runCustomerDelete(cmd, []string{"99"})
	assert.ErrorIs(t, err, domain.ErrDataIntegrity)
	assert.Empty(t, *deletes)

	err = runCustomerDelete(cmd, []string{"x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCustomerToggle(t *testing.T) {
	_, out, cmd := setup(t)

	require.NoError(t, runCustomerToggle(cmd, []string{"2"}))
	assert.Contains(t, out.String(), "Customer 2 (2CD 5678) marked done")
	assert.Equal(t, 1, application.Store.ActiveRepairCount())

	toggleByPosition = true
	require.NoError(t, runCustomerToggle(cmd, []string{"0"}))
	assert.Equal(t, 0, application.Store.ActiveRepairCount())

	err := runCustomerToggle(cmd, []string{"5"})
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestCustomerClear(t *testing.T) {
	deletes, out, cmd := setup(t)
	assumeYes = true
	require.NoError(t, application.Store.LoadCustomers(context.Background()))

	require.NoError(t, runCustomerClear(cmd, nil))
	assert.Contains(t, out.String(), "Customer table cleared")
	assert.Empty(t, application.Store.Customers())
	assert.Empty(t, *deletes)
}

func TestMechanicList(t *testing.T) {
	_, out, cmd := setup(t)

	require.NoError(t, runMechanicList(cmd, nil))
	assert.Contains(t, out.String(), "Phurint Boonmee")
	assert.Contains(t, out.String(), "Phurint B.")
}

func TestReport_Local(t *testing.T) {
	_, out, cmd := setup(t)
	jsonOutput = true
	reportFrom, reportTo, reportSource = "2024-04-30", "2024-05-03", "local"
	t.Cleanup(func() { reportFrom, reportTo, reportSource = "", "", "" })

	require.NoError(t, runReport(cmd, nil))

	var r domain.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &r))
	assert.Equal(t, 2, r.TotalCars)
	assert.Equal(t, "800", r.TotalIncome.String())
	require.Len(t, r.CarBrands, 2)
	assert.Equal(t, "Toyota", r.CarBrands[0].Name)
	assert.Equal(t, 50.0, r.CarBrands[0].Percentage)
}

func TestReport_BadFlags(t *testing.T) {
	_, _, cmd := setup(t)
	reportFrom, reportSource = "yesterday", ""
	t.Cleanup(func() { reportFrom, reportSource = "", "" })

	assert.ErrorIs(t, runReport(cmd, nil), domain.ErrInvalidInput)

	reportFrom, reportSource = "2024-05-01", "spreadsheet"
	assert.ErrorIs(t, runReport(cmd, nil), domain.ErrInvalidInput)
}

func TestDashboard(t *testing.T) {
	_, out, cmd := setup(t)
	jsonOutput = true

	require.NoError(t, runDashboard(cmd, nil))

	var s domain.DashboardSummary
	require.NoError(t, json.Unmarshal(out.Bytes(), &s))
	assert.Equal(t, 2, s.TotalCars)
	assert.Equal(t, 2, s.FixingCars)
	assert.Equal(t, 1, s.MechanicCapacity)
	assert.Equal(t, 0, s.AvailableMechanics)
}
