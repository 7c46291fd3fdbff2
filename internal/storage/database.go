package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Ananth-NQI/transitlink-ussd/internal/models"
)

// DatabaseStore implements Store on PostgreSQL through gorm
type DatabaseStore struct {
	db *gorm.DB
}

var _ Store = (*DatabaseStore)(nil)

// NewDatabaseStore wraps an open gorm connection
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("failed to load %s: %w", what, err)
}

// Session operations
func (d *DatabaseStore) GetSession(ctx context.Context, sessionID string) (*models.USSDSession, error) {
	var session models.USSDSession
	if err := d.db.WithContext(ctx).First(&session, "session_id = ?", sessionID).Error; err != nil {
		return nil, notFound(err, "session "+sessionID)
	}
	return &session, nil
}

// sessionReplaceColumns are overwritten when a session id already exists.
// created_at keeps its first value.
var sessionReplaceColumns = []string{"phone_number", "level", "company_id", "feature", "payload", "updated_at"}

func (d *DatabaseStore) upsertSession(ctx context.Context, session *models.USSDSession) *gorm.DB {
	return d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns(sessionReplaceColumns),
	}).Create(session)
}

func (d *DatabaseStore) UpsertSession(ctx context.Context, session *models.USSDSession) error {
	if err := d.upsertSession(ctx, session).Error; err != nil {
		return fmt.Errorf("failed to save session %s: %w", session.SessionID, err)
	}
	return nil
}

func (d *DatabaseStore) DeleteSession(ctx context.Context, sessionID string) error {
	if err := d.db.WithContext(ctx).Delete(&models.USSDSession{}, "session_id = ?", sessionID).Error; err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	return nil
}

// Reference operations
func (d *DatabaseStore) ListCompanies(ctx context.Context) ([]models.Company, error) {
	var companies []models.Company
	if err := d.db.WithContext(ctx).Order("id asc").Find(&companies).Error; err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, nil
}

func (d *DatabaseStore) ListRoutes(ctx context.Context, companyID uint) ([]models.Route, error) {
	var routes []models.Route
	err := d.db.WithContext(ctx).Where("company_id = ?", companyID).Order("id asc").Find(&routes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list routes for company %d: %w", companyID, err)
	}
	return routes, nil
}

func (d *DatabaseStore) CreateCompany(ctx context.Context, company *models.Company) error {
	if err := d.db.WithContext(ctx).Create(company).Error; err != nil {
		return fmt.Errorf("failed to create company %q: %w", company.Name, err)
	}
	return nil
}

func (d *DatabaseStore) CreateRoute(ctx context.Context, route *models.Route) error {
	if err := d.db.WithContext(ctx).Create(route).Error; err != nil {
		return fmt.Errorf("failed to create route %s: %w", route.Name(), err)
	}
	return nil
}

// Booking operations
func (d *DatabaseStore) CreateBooking(ctx context.Context, booking *models.Booking) error {
	if err := d.db.WithContext(ctx).Create(booking).Error; err != nil {
		return fmt.Errorf("failed to create booking %s: %w", booking.Reference, err)
	}
	return nil
}

func (d *DatabaseStore) GetBookingByReference(ctx context.Context, reference string) (*models.Booking, error) {
	var booking models.Booking
	if err := d.db.WithContext(ctx).First(&booking, "reference = ?", reference).Error; err != nil {
		return nil, notFound(err, "booking "+reference)
	}
	return &booking, nil
}

func (d *DatabaseStore) ListBookingsByPhone(ctx context.Context, phone string, companyID uint, limit int) ([]models.Booking, error) {
	query := d.db.WithContext(ctx).Where("phone_number = ?", phone)
	if companyID != 0 {
		query = query.Where("company_id = ?", companyID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var bookings []models.Booking
	if err := query.Order("id desc").Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// Support operations
func (d *DatabaseStore) CreateCaseReport(ctx context.Context, report *models.CaseReport) error {
	if err := d.db.WithContext(ctx).Create(report).Error; err != nil {
		return fmt.Errorf("failed to create case report %s: %w", report.Reference, err)
	}
	return nil
}

func (d *DatabaseStore) GetCaseReportByReference(ctx context.Context, reference string) (*models.CaseReport, error) {
	var report models.CaseReport
	if err := d.db.WithContext(ctx).First(&report, "reference = ?", reference).Error; err != nil {
		return nil, notFound(err, "case report "+reference)
	}
	return &report, nil
}

func (d *DatabaseStore) CreateLostItem(ctx context.Context, item *models.LostItem) error {
	if err := d.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create lost item %s: %w", item.Reference, err)
	}
	return nil
}

func (d *DatabaseStore) CreateFeedback(ctx context.Context, feedback *models.Feedback) error {
	if err := d.db.WithContext(ctx).Create(feedback).Error; err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}
	return nil
}

// Ping checks the database connection
func (d *DatabaseStore) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
