package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ParseCost converts a user or Gateway supplied cost into a decimal.
// Missing or non-numeric values are coerced to zero.
func ParseCost(raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// CreateCustomerRequest is the customer and car registration form.
// Cost may arrive under the legacy field name nextCheckup.
type CreateCustomerRequest struct {
	Name         string      `json:"name" validate:"required,max=100"`
	Surname      string      `json:"surname" validate:"required,max=100"`
	Tel          string      `json:"tel" validate:"required,max=20"`
	LicensePlate string      `json:"licensePlate" validate:"required,max=50"`
	Brand        string      `json:"brand" validate:"required,max=100"`
	Model        string      `json:"model" validate:"required,max=100"`
	Symptoms     string      `json:"symptoms" validate:"required,symptom"`
	Cost         json.Number `json:"cost,omitempty" validate:"required_without=NextCheckup,omitempty,numeric"`
	NextCheckup  json.Number `json:"nextCheckup,omitempty" validate:"omitempty,numeric"`
	Mechanic     string      `json:"mechanic" validate:"required,max=100"`
}

// ToCustomer builds the customer record submitted to the Gateway
func (r *CreateCustomerRequest) ToCustomer(now time.Time) Customer {
	cost := r.Cost
	if cost == "" {
		cost = r.NextCheckup
	}
	return Customer{
		Name:         CustomerName{First: strings.TrimSpace(r.Name), Last: strings.TrimSpace(r.Surname)},
		Tel:          strings.TrimSpace(r.Tel),
		LicensePlate: strings.TrimSpace(r.LicensePlate),
		Brand:        strings.TrimSpace(r.Brand),
		Model:        strings.TrimSpace(r.Model),
		Symptom:      Symptom(r.Symptoms),
		Cost:         ParseCost(cost.String()),
		Mechanic:     strings.TrimSpace(r.Mechanic),
		Timestamp:    now,
	}
}

// CreateMechanicRequest is the mechanic registration form
type CreateMechanicRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Surname string `json:"surname" validate:"required,max=100"`
	Tel     string `json:"tel" validate:"required,max=20"`
}

// ToMechanic builds the mechanic record submitted to the Gateway
func (r *CreateMechanicRequest) ToMechanic() Mechanic {
	return Mechanic{
		FirstName: strings.TrimSpace(r.Name),
		LastName:  strings.TrimSpace(r.Surname),
		Tel:       strings.TrimSpace(r.Tel),
	}
}

// CustomerDTO is the table row returned to the View Layer
type CustomerDTO struct {
	ID           int64     `json:"id"`
	Position     int       `json:"position"`
	Name         string    `json:"name"`
	Surname      string    `json:"surname"`
	CustomerName string    `json:"customerName"`
	Tel          string    `json:"tel"`
	LicensePlate string    `json:"licensePlate"`
	Brand        string    `json:"brand"`
	Model        string    `json:"model"`
	Car          string    `json:"car"`
	Symptoms     Symptom   `json:"symptoms"`
	Cost         string    `json:"cost"`
	Mechanic     string    `json:"mechanic"`
	Timestamp    time.Time `json:"timestamp"`
	Checked      bool      `json:"checked"`
	Synthetic    bool      `json:"synthetic,omitempty"`
}

// ToCustomerDTO converts a customer at the given table position
func ToCustomerDTO(c *Customer, position int) CustomerDTO {
	return CustomerDTO{
		ID:           c.ID,
		Position:     position,
		Name:         c.Name.First,
		Surname:      c.Name.Last,
		CustomerName: c.Name.Display(),
		Tel:          c.Tel,
		LicensePlate: c.LicensePlate,
		Brand:        c.Brand,
		Model:        c.Model,
		Car:          c.Car(),
		Symptoms:     c.Symptom,
		Cost:         c.Cost.StringFixed(2),
		Mechanic:     c.Mechanic,
		Timestamp:    c.Timestamp,
		Checked:      c.Checked,
		Synthetic:    c.Synthetic,
	}
}

// CustomerListResponse wraps the customer table with its derived counter
type CustomerListResponse struct {
	Data          []CustomerDTO `json:"data"`
	Total         int           `json:"total"`
	ActiveRepairs int           `json:"activeRepairs"`
}

// MechanicDTO is a mechanic row returned to the View Layer
type MechanicDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	Tel         string `json:"tel"`
	DisplayName string `json:"displayName"`
}

// ToMechanicDTO converts a mechanic
func ToMechanicDTO(m *Mechanic) MechanicDTO {
	return MechanicDTO{
		ID:          m.ID,
		Name:        m.FirstName,
		Surname:     m.LastName,
		Tel:         m.Tel,
		DisplayName: m.DisplayName(),
	}
}

// UnlockRequest carries the shop passcode
type UnlockRequest struct {
	Passcode string `json:"passcode" validate:"required,min=4,max=128"`
}

// SessionDTO describes the session gate state
type SessionDTO struct {
	Unlocked  bool       `json:"unlocked"`
	Token     string     `json:"token,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// CustomerInput is one row of a bulk replace. ID and Checked are kept when
// supplied; Timestamp defaults to the request time.
type CustomerInput struct {
	ID int64 `json:"id" validate:"gte=0"`
	CreateCustomerRequest
	Checked   bool       `json:"checked"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// ToCustomer converts the row, stamping now when no timestamp was supplied
func (in *CustomerInput) ToCustomer(now time.Time) Customer {
	c := in.CreateCustomerRequest.ToCustomer(now)
	c.ID = in.ID
	c.Checked = in.Checked
	if in.Timestamp != nil && !in.Timestamp.IsZero() {
		c.Timestamp = *in.Timestamp
	}
	return c
}

// ReplaceCustomersRequest swaps the whole customer table. An empty list clears it.
type ReplaceCustomersRequest struct {
	Customers []CustomerInput `json:"customers" validate:"dive"`
}
