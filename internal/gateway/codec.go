package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/advcompro/garage-dashboard/internal/domain"
	"github.com/shopspring/decimal"
)

// CustomerRecord is a customer decoded from the wire. CheckedKnown is false
// when the payload carried no checked field, which is the Gateway's normal
// shape since it has no status column.
type CustomerRecord struct {
	Customer     domain.Customer
	CheckedKnown bool
}

// wireCustomer accepts both the split {name, surname} form and the combined
// customer_name form, plus the camel and snake spellings seen in the field.
type wireCustomer struct {
	ID                json.RawMessage `json:"id"`
	Name              string          `json:"name"`
	Surname           string          `json:"surname"`
	CustomerName      string          `json:"customer_name"`
	CustomerNameCamel string          `json:"customerName"`
	Tel               string          `json:"tel"`
	LicensePlate      string          `json:"licensePlate"`
	LicensePlateSnake string          `json:"license_plate"`
	Brand             string          `json:"brand"`
	Model             string          `json:"model"`
	Car               string          `json:"car"`
	Symptoms          string          `json:"symptoms"`
	Cost              json.RawMessage `json:"cost"`
	NextCheckup       json.RawMessage `json:"nextCheckup"`
	Mechanic          string          `json:"mechanic"`
	Timestamp         json.RawMessage `json:"timestamp"`
	Checked           *bool           `json:"checked"`
	Synthetic         bool            `json:"synthetic"`
}

// customerPayload is the body sent to add_customer
type customerPayload struct {
	Name         string  `json:"name"`
	Surname      string  `json:"surname"`
	Tel          string  `json:"tel"`
	LicensePlate string  `json:"licensePlate"`
	Brand        string  `json:"brand"`
	Model        string  `json:"model"`
	Symptoms     string  `json:"symptoms"`
	Cost         float64 `json:"cost"`
	NextCheckup  float64 `json:"nextCheckup"`
	Mechanic     string  `json:"mechanic"`
	Timestamp    string  `json:"timestamp,omitempty"`
}

type mechanicPayload struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Tel     string `json:"tel"`
}

type wireMechanic struct {
	ID      json.RawMessage `json:"id"`
	Name    string          `json:"name"`
	Surname string          `json:"surname"`
	Tel     string          `json:"tel"`
}

type wireReport struct {
	TotalIncome json.RawMessage `json:"totalIncome"`
	CarBrands   []struct {
		Name       string          `json:"name"`
		Count      int             `json:"count"`
		Percentage json.RawMessage `json:"percentage"`
	} `json:"carBrands"`
}

func encodeCustomer(c *domain.Customer) customerPayload {
	cost, _ := c.Cost.Float64()
	p := customerPayload{
		Name:         c.Name.First,
		Surname:      c.Name.Last,
		Tel:          c.Tel,
		LicensePlate: c.LicensePlate,
		Brand:        c.Brand,
		Model:        c.Model,
		Symptoms:     string(c.Symptom),
		Cost:         cost,
		NextCheckup:  cost,
		Mechanic:     c.Mechanic,
	}
	if !c.Timestamp.IsZero() {
		p.Timestamp = c.Timestamp.UTC().Format(time.RFC3339Nano)
	}
	return p
}

func (w *wireCustomer) toRecord() CustomerRecord {
	c := domain.Customer{
		Tel:       strings.TrimSpace(w.Tel),
		Brand:     strings.TrimSpace(w.Brand),
		Model:     strings.TrimSpace(w.Model),
		Symptom:   domain.Symptom(strings.TrimSpace(w.Symptoms)),
		Mechanic:  strings.TrimSpace(w.Mechanic),
		Synthetic: w.Synthetic,
	}
	c.ID, _ = decodeInt(w.ID)

	switch {
	case w.Surname != "":
		c.Name = domain.CustomerName{First: strings.TrimSpace(w.Name), Last: strings.TrimSpace(w.Surname)}
	case w.CustomerName != "":
		c.Name = domain.ParseCustomerName(w.CustomerName)
	case w.CustomerNameCamel != "":
		c.Name = domain.ParseCustomerName(w.CustomerNameCamel)
	default:
		c.Name = domain.ParseCustomerName(w.Name)
	}

	c.LicensePlate = strings.TrimSpace(w.LicensePlate)
	if c.LicensePlate == "" {
		c.LicensePlate = strings.TrimSpace(w.LicensePlateSnake)
	}

	if c.Brand == "" && c.Model == "" && w.Car != "" {
		car := domain.ParseCustomerName(w.Car)
		c.Brand, c.Model = car.First, car.Last
	}

	if len(w.Cost) > 0 && string(w.Cost) != "null" {
		c.Cost = decodeDecimal(w.Cost)
	} else {
		c.Cost = decodeDecimal(w.NextCheckup)
	}

	c.Timestamp = decodeTime(w.Timestamp)

	rec := CustomerRecord{Customer: c}
	if w.Checked != nil {
		rec.Customer.Checked = *w.Checked
		rec.CheckedKnown = true
	}
	return rec
}

func (w *wireMechanic) toMechanic() domain.Mechanic {
	id, _ := decodeInt(w.ID)
	return domain.Mechanic{
		ID:        id,
		FirstName: strings.TrimSpace(w.Name),
		LastName:  strings.TrimSpace(w.Surname),
		Tel:       strings.TrimSpace(w.Tel),
	}
}

// DecodeCustomers decodes a customer list. The list may be a bare array or
// wrapped as {"customers": [...]} or {"data": [...]}.
func DecodeCustomers(data []byte) ([]CustomerRecord, error) {
	var raw []wireCustomer
	if err := decodeList(data, &raw, "customers", "data"); err != nil {
		return nil, err
	}
	out := make([]CustomerRecord, 0, len(raw))
	for i := range raw {
		out = append(out, raw[i].toRecord())
	}
	return out, nil
}

// DecodeCustomer decodes one customer echoed by add_customer. The record may
// be raw or wrapped as {"customer": {...}}. A body with no recognizable
// customer fields (e.g. {"message": "..."}) returns nil without error.
func DecodeCustomer(data []byte) (*CustomerRecord, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode customer: %w", err)
	}
	if inner, ok := envelope["customer"]; ok {
		data = inner
		envelope = nil
		if err := json.Unmarshal(inner, &envelope); err != nil {
			return nil, fmt.Errorf("failed to decode customer: %w", err)
		}
	}
	if !looksLikeCustomer(envelope) {
		return nil, nil
	}

	var w wireCustomer
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to decode customer: %w", err)
	}
	rec := w.toRecord()
	return &rec, nil
}

func looksLikeCustomer(fields map[string]json.RawMessage) bool {
	for _, key := range []string{"id", "name", "customer_name", "customerName", "licensePlate", "license_plate"} {
		if _, ok := fields[key]; ok {
			return true
		}
	}
	return false
}

// DecodeMechanics decodes a mechanic list, bare or wrapped as {"mechanics": [...]}
func DecodeMechanics(data []byte) ([]domain.Mechanic, error) {
	var raw []wireMechanic
	if err := decodeList(data, &raw, "mechanics", "data"); err != nil {
		return nil, err
	}
	out := make([]domain.Mechanic, 0, len(raw))
	for i := range raw {
		out = append(out, raw[i].toMechanic())
	}
	return out, nil
}

func decodeMechanic(data []byte) (*domain.Mechanic, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, nil
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode mechanic: %w", err)
	}
	if inner, ok := envelope["mechanic"]; ok {
		data = inner
	} else if _, ok := envelope["name"]; !ok {
		return nil, nil
	}
	var w wireMechanic
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to decode mechanic: %w", err)
	}
	m := w.toMechanic()
	return &m, nil
}

// DecodeReport decodes the get_report body
func DecodeReport(data []byte) (*domain.Report, error) {
	var w wireReport
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	r := &domain.Report{
		Source:      domain.ReportSourceRemote,
		TotalIncome: decodeDecimal(w.TotalIncome),
		CarBrands:   make([]domain.CarBrandShare, 0, len(w.CarBrands)),
	}
	for _, b := range w.CarBrands {
		pct, _ := decodeDecimal(b.Percentage).Round(2).Float64()
		r.CarBrands = append(r.CarBrands, domain.CarBrandShare{Name: b.Name, Count: b.Count, Percentage: pct})
		r.TotalCars += b.Count
	}
	return r, nil
}

func decodeList(data []byte, out interface{}, wrappers ...string) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '[' {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode list: %w", err)
		}
		return nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("failed to decode list: %w", err)
	}
	for _, key := range wrappers {
		if inner, ok := envelope[key]; ok {
			if err := json.Unmarshal(inner, out); err != nil {
				return fmt.Errorf("failed to decode %s: %w", key, err)
			}
			return nil
		}
	}
	return fmt.Errorf("failed to decode list: expected an array or one of %v", wrappers)
}

func decodeInt(raw json.RawMessage) (int64, bool) {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f), true
	}
	return 0, false
}

// decodeDecimal accepts a JSON number or numeric string. Anything else is zero.
func decodeDecimal(raw json.RawMessage) decimal.Decimal {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "null" {
		return decimal.Zero
	}
	return domain.ParseCost(s)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// decodeTime accepts RFC 3339 and the zone-less forms Postgres emits, or epoch
// milliseconds as produced by Date.now(). Unparseable input is the zero time.
func decodeTime(raw json.RawMessage) time.Time {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return time.Time{}
	}
	if s[0] != '"' {
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.UnixMilli(ms).UTC()
		}
		return time.Time{}
	}
	s = strings.Trim(s, `"`)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
