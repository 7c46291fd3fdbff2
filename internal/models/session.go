package models

import "time"

// USSDSession is the persisted navigation state of one aggregator session.
// Payload holds the JSON encoded flow scratch and is opaque to storage.
type USSDSession struct {
	SessionID   string    `json:"session_id" gorm:"primaryKey"`
	PhoneNumber string    `json:"phone_number" gorm:"index"`
	Level       int       `json:"level"`
	CompanyID   *uint     `json:"company_id"`
	Feature     string    `json:"feature"`
	Payload     string    `json:"payload"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
