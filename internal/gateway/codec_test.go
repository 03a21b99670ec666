package gateway_test

import (
	"testing"

	"github.com/advcompro/garage-dashboard/internal/domain"
	"github.com/advcompro/garage-dashboard/internal/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCustomers_Shapes(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    int
		wantErr bool
	}{
		{name: "bare array", body: `[{"id": 1}, {"id": 2}]`, want: 2},
		{name: "customers envelope", body: `{"customers": [{"id": 1}]}`, want: 1},
		{name: "data envelope", body: `{"data": []}`, want: 0},
		{name: "empty body", body: ``, want: 0},
		{name: "unknown envelope", body: `{"rows": []}`, wantErr: true},
		{name: "garbage", body: `not json`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := gateway.DecodeCustomers([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, records, tt.want)
		})
	}
}

func TestDecodeCustomers_LegacyFormEntry(t *testing.T) {
	// Shape written by the browser form: combined name in "name", legacy cost field, epoch ms
	records, err := gateway.DecodeCustomers([]byte(`[
		{"id": 3, "name": "Mali Dee", "nextCheckup": 250, "timestamp": 1727749800000, "checked": false}
	]`))
	require.NoError(t, err)
	require.Len(t, records, 1)

	c := records[0].Customer
	assert.Equal(t, domain.CustomerName{First: "Mali", Last: "Dee"}, c.Name)
	assert.Equal(t, "250", c.Cost.String())
	assert.Equal(t, int64(1727749800000), c.Timestamp.UnixMilli())
	assert.True(t, records[0].CheckedKnown)
}

func TestDecodeCustomer_Envelopes(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		wantID int64
		isNil  bool
	}{
		{name: "wrapped", body: `{"customer": {"id": 9, "name": "A"}}`, wantID: 9},
		{name: "raw", body: `{"id": 10, "customer_name": "B C"}`, wantID: 10},
		{name: "raw without id", body: `{"name": "A", "surname": "B"}`, wantID: 0},
		{name: "message only", body: `{"message": "ok"}`, isNil: true},
		{name: "empty", body: ``, isNil: true},
		{name: "array", body: `[]`, isNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := gateway.DecodeCustomer([]byte(tt.body))
			require.NoError(t, err)
			if tt.isNil {
				assert.Nil(t, rec)
				return
			}
			require.NotNil(t, rec)
			assert.Equal(t, tt.wantID, rec.Customer.ID)
		})
	}
}

func TestDecodeReport_InvalidIncome(t *testing.T) {
	report, err := gateway.DecodeReport([]byte(`{"totalIncome": "n/a", "carBrands": []}`))
	require.NoError(t, err)
	assert.True(t, report.TotalIncome.IsZero())
	assert.Empty(t, report.CarBrands)
}
