package models

import "gorm.io/gorm"

// CaseReport is an incident reported by a passenger against a company
type CaseReport struct {
	gorm.Model
	Reference   string `gorm:"uniqueIndex;not null" json:"reference"`
	PhoneNumber string `gorm:"index;not null" json:"phone_number"`
	CompanyID   uint   `gorm:"index" json:"company_id"`
	Description string `json:"description"`
	Status      string `gorm:"default:'open'" json:"status"`
}

// LostItem is a lost & found claim filed by a passenger
type LostItem struct {
	gorm.Model
	Reference   string `gorm:"uniqueIndex;not null" json:"reference"`
	PhoneNumber string `gorm:"index;not null" json:"phone_number"`
	CompanyID   uint   `gorm:"index" json:"company_id"`
	Description string `json:"description"`
	Status      string `gorm:"default:'open'" json:"status"`
}

// Feedback is a 1-5 service rating with an optional comment
type Feedback struct {
	gorm.Model
	PhoneNumber string `gorm:"index;not null" json:"phone_number"`
	CompanyID   uint   `gorm:"index" json:"company_id"`
	Rating      int    `json:"rating"`
	Comment     string `json:"comment"`
}

// CaseStatusOpen is the status of a newly filed report or lost item
const CaseStatusOpen = "open"
