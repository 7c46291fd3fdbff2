package models

import (
	"math"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// Company is a bus operator listed on the main menu
type Company struct {
	gorm.Model
	Name          string `json:"name" gorm:"not null"`
	ContactNumber string `json:"contact_number"`
}

// Route is a fixed origin-destination pair sold by a company
type Route struct {
	gorm.Model
	CompanyID      uint    `json:"company_id" gorm:"index;not null"`
	Origin         string  `json:"origin" gorm:"not null"`
	Destination    string  `json:"destination" gorm:"not null"`
	Fare           float64 `json:"fare"`                       // in KES
	DepartureTimes string  `json:"departure_times,omitempty"` // comma separated, e.g. "07:00,13:30"
}

// Name returns the "Origin-Destination" label used in menus and messages
func (r Route) Name() string {
	return r.Origin + "-" + r.Destination
}

// Departures splits DepartureTimes into trimmed, non-empty entries
func (r Route) Departures() []string {
	var out []string
	for _, part := range strings.Split(r.DepartureTimes, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// RoundAmount rounds a KES amount to cents
func RoundAmount(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// FormatAmount renders a KES amount rounded to cents, without trailing zeros (500, 512.5)
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(RoundAmount(amount), 'f', -1, 64)
}
