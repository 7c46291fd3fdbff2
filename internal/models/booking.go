package models

import "gorm.io/gorm"

// Booking is a seat reservation completed through the USSD booking flow
type Booking struct {
	gorm.Model
	Reference      string  `json:"reference" gorm:"uniqueIndex;not null"`
	PhoneNumber    string  `json:"phone_number" gorm:"index;not null"`
	CompanyID      uint    `json:"company_id" gorm:"index"`
	RouteID        uint    `json:"route_id"`
	Origin         string  `json:"origin"`
	Destination    string  `json:"destination"`
	Seats          int     `json:"seats"`
	SeatPreference string  `json:"seat_preference"`
	Total          float64 `json:"total"` // seats * fare, in KES
	Status         string  `json:"status" gorm:"default:'confirmed'"`
}

// BookingStatusConfirmed is the status of every booking made over USSD
const BookingStatusConfirmed = "confirmed"
