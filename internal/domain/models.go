package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Symptom is the repair category tag selected when a car is registered
type Symptom string

const (
	SymptomAirConditioner Symptom = "Air conditioner"
	SymptomBrakeSystem    Symptom = "Brake System"
	SymptomTyreChanging   Symptom = "Tyre Changing"
)

// Symptoms lists every accepted symptom in display order
var Symptoms = []Symptom{
	SymptomAirConditioner,
	SymptomBrakeSystem,
	SymptomTyreChanging,
}

// IsValid reports whether s is one of the known symptoms
func (s Symptom) IsValid() bool {
	for _, known := range Symptoms {
		if s == known {
			return true
		}
	}
	return false
}

// CustomerName is the single name representation used inside the application.
// The Gateway sends either split first/last fields or one combined string;
// both are converted to this type at the boundary.
type CustomerName struct {
	First string `json:"first"`
	Last  string `json:"last"`
}

// ParseCustomerName splits a combined display name on its first whitespace run.
// "Nuttawut Kittisak Jr." becomes {First: "Nuttawut", Last: "Kittisak Jr."}.
func ParseCustomerName(full string) CustomerName {
	full = strings.TrimSpace(full)
	if full == "" {
		return CustomerName{}
	}
	idx := strings.IndexFunc(full, isSpace)
	if idx < 0 {
		return CustomerName{First: full}
	}
	return CustomerName{
		First: full[:idx],
		Last:  strings.TrimSpace(full[idx:]),
	}
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// Display returns the name as shown in tables
func (n CustomerName) Display() string {
	return strings.TrimSpace(n.First + " " + n.Last)
}

// IsZero reports whether no part of the name is set
func (n CustomerName) IsZero() bool {
	return n.First == "" && n.Last == ""
}

// Customer is one registered car and its owner. The repair shop tracks a
// customer per visit, so a returning owner produces a second record.
type Customer struct {
	ID           int64           `json:"id"`
	Name         CustomerName    `json:"name"`
	Tel          string          `json:"tel"`
	LicensePlate string          `json:"licensePlate"`
	Brand        string          `json:"brand"`
	Model        string          `json:"model"`
	Symptom      Symptom         `json:"symptoms"`
	Cost         decimal.Decimal `json:"cost"`
	Mechanic     string          `json:"mechanic"`
	Timestamp    time.Time       `json:"timestamp"`
	Checked      bool            `json:"checked"`
	// Synthetic marks an ID that was assigned locally because the Gateway did not
	// return one. Such records cannot be deleted at the Gateway.
	Synthetic bool `json:"synthetic,omitempty"`
}

// Car returns "<brand> <model>"
func (c *Customer) Car() string {
	return strings.TrimSpace(c.Brand + " " + c.Model)
}

// Mechanic is a member of the workshop staff
type Mechanic struct {
	ID        int64  `json:"id"`
	FirstName string `json:"name"`
	LastName  string `json:"surname"`
	Tel       string `json:"tel"`
}

// DisplayName returns the short form used in assignment menus, e.g. "Phurint B."
func (m *Mechanic) DisplayName() string {
	if m.LastName == "" {
		return m.FirstName
	}
	return m.FirstName + " " + strings.ToUpper(m.LastName[:1]) + "."
}

// ReportSource identifies where a report was computed
type ReportSource string

const (
	ReportSourceLocal  ReportSource = "local"
	ReportSourceRemote ReportSource = "remote"
)

// IsValid reports whether the source is known
func (s ReportSource) IsValid() bool {
	return s == ReportSourceLocal || s == ReportSourceRemote
}

// CarBrandShare is one row of the brand histogram
type CarBrandShare struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Report is the income and brand mix over a time window
type Report struct {
	Start       time.Time       `json:"startDate"`
	End         time.Time       `json:"endDate"`
	Source      ReportSource    `json:"source"`
	TotalIncome decimal.Decimal `json:"totalIncome"`
	TotalCars   int             `json:"totalCars"`
	CarBrands   []CarBrandShare `json:"carBrands"`
}

// DashboardSummary holds the landing page counters
type DashboardSummary struct {
	Date               time.Time       `json:"date"`
	TotalCars          int             `json:"totalCars"`
	TotalIncome        decimal.Decimal `json:"totalIncome"`
	FixingCars         int             `json:"fixingCars"`
	FixingCapacity     int             `json:"fixingCapacity"`
	Overloaded         bool            `json:"overloaded"`
	MechanicCapacity   int             `json:"mechanicCapacity"`
	AvailableMechanics int             `json:"availableMechanics"`
}
