package storage

import (
	"context"
	"errors"

	"github.com/Ananth-NQI/transitlink-ussd/internal/models"
)

// ErrNotFound is returned when a keyed lookup has no match
var ErrNotFound = errors.New("not found")

// SessionStore persists USSD navigation state keyed by aggregator session id
type SessionStore interface {
	GetSession(ctx context.Context, sessionID string) (*models.USSDSession, error)
	// UpsertSession fully replaces the stored session
	UpsertSession(ctx context.Context, session *models.USSDSession) error
	DeleteSession(ctx context.Context, sessionID string) error
}

// ReferenceStore is read-only access to companies and routes, ordered by id
type ReferenceStore interface {
	ListCompanies(ctx context.Context) ([]models.Company, error)
	ListRoutes(ctx context.Context, companyID uint) ([]models.Route, error)
}

// RecordStore persists the outcome of completed flows
type RecordStore interface {
	// Booking operations
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBookingByReference(ctx context.Context, reference string) (*models.Booking, error)
	// ListBookingsByPhone returns newest first; companyID 0 matches every company
	ListBookingsByPhone(ctx context.Context, phone string, companyID uint, limit int) ([]models.Booking, error)

	// Support operations
	CreateCaseReport(ctx context.Context, report *models.CaseReport) error
	GetCaseReportByReference(ctx context.Context, reference string) (*models.CaseReport, error)
	CreateLostItem(ctx context.Context, item *models.LostItem) error
	CreateFeedback(ctx context.Context, feedback *models.Feedback) error
}

// Store is the full storage surface of the service
type Store interface {
	SessionStore
	ReferenceStore
	RecordStore

	// Seeding operations
	CreateCompany(ctx context.Context, company *models.Company) error
	CreateRoute(ctx context.Context, route *models.Route) error
}
