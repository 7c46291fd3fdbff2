package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Ananth-NQI/transitlink-ussd/internal/models"
)

// MemoryStore holds all data in memory, for local runs and tests
type MemoryStore struct {
	sessions  map[string]models.USSDSession
	companies []models.Company
	routes    []models.Route
	bookings  []models.Booking
	reports   []models.CaseReport
	lostItems []models.LostItem
	feedback  []models.Feedback

	// Mutexes for thread safety
	sessionMu   sync.RWMutex
	referenceMu sync.RWMutex
	recordMu    sync.RWMutex

	// Counters for ID generation
	companyCounter uint
	routeCounter   uint
	recordCounter  uint
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]models.USSDSession),
	}
}

// Session operations
func (m *MemoryStore) GetSession(ctx context.Context, sessionID string) (*models.USSDSession, error) {
	m.sessionMu.RLock()
	defer m.sessionMu.RUnlock()

	session, exists := m.sessions[sessionID]
	if !exists {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	if session.CompanyID != nil {
		id := *session.CompanyID
		session.CompanyID = &id
	}
	return &session, nil
}

func (m *MemoryStore) UpsertSession(ctx context.Context, session *models.USSDSession) error {
	m.sessionMu.Lock()
	defer m.sessionMu.Unlock()

	now := time.Now()
	stored := *session
	if existing, exists := m.sessions[session.SessionID]; exists {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	if stored.CompanyID != nil {
		id := *stored.CompanyID
		stored.CompanyID = &id
	}
	m.sessions[session.SessionID] = stored
	return nil
}

func (m *MemoryStore) DeleteSession(ctx context.Context, sessionID string) error {
	m.sessionMu.Lock()
	defer m.sessionMu.Unlock()

	delete(m.sessions, sessionID)
	return nil
}

// Reference operations
func (m *MemoryStore) ListCompanies(ctx context.Context) ([]models.Company, error) {
	m.referenceMu.RLock()
	defer m.referenceMu.RUnlock()

	companies := append([]models.Company(nil), m.companies...)
	sort.Slice(companies, func(i, j int) bool { return companies[i].ID < companies[j].ID })
	return companies, nil
}

func (m *MemoryStore) ListRoutes(ctx context.Context, companyID uint) ([]models.Route, error) {
	m.referenceMu.RLock()
	defer m.referenceMu.RUnlock()

	var routes []models.Route
	for _, route := range m.routes {
		if route.CompanyID == companyID {
			routes = append(routes, route)
		}
	}
	sort.Slice(routes, func(i, j int) bool { return routes[i].ID < routes[j].ID })
	return routes, nil
}

func (m *MemoryStore) CreateCompany(ctx context.Context, company *models.Company) error {
	m.referenceMu.Lock()
	defer m.referenceMu.Unlock()

	m.companyCounter++
	company.ID = m.companyCounter
	company.CreatedAt = time.Now()
	company.UpdatedAt = company.CreatedAt
	m.companies = append(m.companies, *company)
	return nil
}

func (m *MemoryStore) CreateRoute(ctx context.Context, route *models.Route) error {
	m.referenceMu.Lock()
	defer m.referenceMu.Unlock()

	found := false
	for _, company := range m.companies {
		if company.ID == route.CompanyID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("company %d: %w", route.CompanyID, ErrNotFound)
	}

	m.routeCounter++
	route.ID = m.routeCounter
	route.CreatedAt = time.Now()
	route.UpdatedAt = route.CreatedAt
	m.routes = append(m.routes, *route)
	return nil
}

// Booking operations
func (m *MemoryStore) CreateBooking(ctx context.Context, booking *models.Booking) error {
	m.recordMu.Lock()
	defer m.recordMu.Unlock()

	for _, existing := range m.bookings {
		if existing.Reference == booking.Reference {
			return fmt.Errorf("booking %s already exists", booking.Reference)
		}
	}
	if booking.Status == "" {
		booking.Status = models.BookingStatusConfirmed
	}
	m.recordCounter++
	booking.ID = m.recordCounter
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	m.bookings = append(m.bookings, *booking)
	return nil
}

func (m *MemoryStore) GetBookingByReference(ctx context.Context, reference string) (*models.Booking, error) {
	m.recordMu.RLock()
	defer m.recordMu.RUnlock()

	for _, booking := range m.bookings {
		if booking.Reference == reference {
			b := booking
			return &b, nil
		}
	}
	return nil, fmt.Errorf("booking %s: %w", reference, ErrNotFound)
}

func (m *MemoryStore) ListBookingsByPhone(ctx context.Context, phone string, companyID uint, limit int) ([]models.Booking, error) {
	m.recordMu.RLock()
	defer m.recordMu.RUnlock()

	var bookings []models.Booking
	// newest first: IDs grow with insertion order
	for i := len(m.bookings) - 1; i >= 0; i-- {
		b := m.bookings[i]
		if b.PhoneNumber != phone || (companyID != 0 && b.CompanyID != companyID) {
			continue
		}
		bookings = append(bookings, b)
		if limit > 0 && len(bookings) == limit {
			break
		}
	}
	return bookings, nil
}

// Support operations
func (m *MemoryStore) CreateCaseReport(ctx context.Context, report *models.CaseReport) error {
	m.recordMu.Lock()
	defer m.recordMu.Unlock()

	if report.Status == "" {
		report.Status = models.CaseStatusOpen
	}
	m.recordCounter++
	report.ID = m.recordCounter
	report.CreatedAt = time.Now()
	report.UpdatedAt = report.CreatedAt
	m.reports = append(m.reports, *report)
	return nil
}

func (m *MemoryStore) GetCaseReportByReference(ctx context.Context, reference string) (*models.CaseReport, error) {
	m.recordMu.RLock()
	defer m.recordMu.RUnlock()

	for _, report := range m.reports {
		if report.Reference == reference {
			r := report
			return &r, nil
		}
	}
	return nil, fmt.Errorf("case report %s: %w", reference, ErrNotFound)
}

func (m *MemoryStore) CreateLostItem(ctx context.Context, item *models.LostItem) error {
	m.recordMu.Lock()
	defer m.recordMu.Unlock()

	if item.Status == "" {
		item.Status = models.CaseStatusOpen
	}
	m.recordCounter++
	item.ID = m.recordCounter
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	m.lostItems = append(m.lostItems, *item)
	return nil
}

func (m *MemoryStore) CreateFeedback(ctx context.Context, feedback *models.Feedback) error {
	m.recordMu.Lock()
	defer m.recordMu.Unlock()

	m.recordCounter++
	feedback.ID = m.recordCounter
	feedback.CreatedAt = time.Now()
	feedback.UpdatedAt = feedback.CreatedAt
	m.feedback = append(m.feedback, *feedback)
	return nil
}

// LostItems returns a copy of the stored lost item claims
func (m *MemoryStore) LostItems() []models.LostItem {
	m.recordMu.RLock()
	defer m.recordMu.RUnlock()
	return append([]models.LostItem(nil), m.lostItems...)
}

// FeedbackEntries returns a copy of the stored feedback
func (m *MemoryStore) FeedbackEntries() []models.Feedback {
	m.recordMu.RLock()
	defer m.recordMu.RUnlock()
	return append([]models.Feedback(nil), m.feedback...)
}

// Ping always succeeds
func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}
