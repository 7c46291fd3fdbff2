package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Ananth-NQI/transitlink-ussd/internal/jobs"
	"github.com/Ananth-NQI/transitlink-ussd/internal/metrics"
	"github.com/Ananth-NQI/transitlink-ussd/internal/models"
	"github.com/Ananth-NQI/transitlink-ussd/internal/storage"
	"github.com/Ananth-NQI/transitlink-ussd/internal/ussd"
	"github.com/Ananth-NQI/transitlink-ussd/internal/utils"
)

const (
	msgInvalidCompany = "Invalid company selection."
	msgInvalidOption  = "Invalid option."
	msgUnavailable    = "Service temporarily unavailable. Please try again later."
)

// UnavailableResponse is the only thing a subscriber sees when a turn fails
var UnavailableResponse = Response{Text: msgUnavailable, End: true}

// Callback is one inbound request from the USSD aggregator
type Callback struct {
	SessionID   string
	ServiceCode string
	PhoneNumber string
	Text        string // cumulative "*"-joined input, possibly empty
	NetworkCode string
}

// Response is the text returned to the aggregator
type Response struct {
	Text string
	End  bool
}

// String renders the aggregator wire format: "CON ..." or "END ..."
func (r Response) String() string {
	if r.End {
		return "END " + r.Text
	}
	return "CON " + r.Text
}

// TaskSubmitter accepts post-response work without blocking
type TaskSubmitter interface {
	Submit(task jobs.Task) bool
}

// USSDService turns aggregator callbacks into menu responses. It holds no
// per-session state; every turn is rebuilt from the input path and the
// persisted session.
type USSDService struct {
	sessions  storage.SessionStore
	reference storage.ReferenceStore
	records   storage.RecordStore
	notifier  Notifier
	tasks     TaskSubmitter
	engine    *ussd.Engine
}

// NewUSSDService creates the dispatcher
func NewUSSDService(sessions storage.SessionStore, reference storage.ReferenceStore, records storage.RecordStore,
	notifier Notifier, tasks TaskSubmitter, engine *ussd.Engine) *USSDService {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	if engine == nil {
		engine = ussd.NewEngine(nil)
	}
	return &USSDService{
		sessions:  sessions,
		reference: reference,
		records:   records,
		notifier:  notifier,
		tasks:     tasks,
		engine:    engine,
	}
}

// ProcessCallback handles one turn. A returned error means the caller must
// answer with UnavailableResponse; error details are for logs only.
func (s *USSDService) ProcessCallback(ctx context.Context, cb Callback) (resp Response, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while processing session %s: %v", cb.SessionID, r)
		}
		outcome := metrics.OutcomeContinue
		switch {
		case err != nil:
			outcome = metrics.OutcomeError
		case resp.End:
			outcome = metrics.OutcomeEnd
		}
		metrics.ObserveTurn(outcome, time.Since(start))
	}()

	stack := ussd.Normalize(cb.Text)
	log.Printf("📱 USSD %s from %s: depth %d", cb.SessionID, utils.MaskPhone(cb.PhoneNumber), len(stack))

	return s.dispatch(ctx, cb, stack)
}

func (s *USSDService) dispatch(ctx context.Context, cb Callback, stack []string) (Response, error) {
	companies, err := s.reference.ListCompanies(ctx)
	if err != nil {
		return Response{}, fmt.Errorf("failed to list companies: %w", err)
	}

	if len(stack) == 0 {
		return s.showMainMenu(ctx, cb, companies, "")
	}

	idx, ok := ussd.SelectIndex(stack[0], len(companies))
	if !ok {
		return s.showMainMenu(ctx, cb, companies, msgInvalidCompany)
	}
	company := companies[idx]

	if len(stack) == 1 {
		return s.showCompanyMenu(ctx, cb, company, "")
	}

	feature, ok := ussd.FeatureFromSelection(stack[1])
	if !ok {
		return s.showCompanyMenu(ctx, cb, company, msgInvalidOption)
	}
	return s.runFlow(ctx, cb, stack, company, feature)
}

func (s *USSDService) showMainMenu(ctx context.Context, cb Callback, companies []models.Company, prefix string) (Response, error) {
	session := &models.USSDSession{
		SessionID:   cb.SessionID,
		PhoneNumber: cb.PhoneNumber,
		Level:       0,
	}
	if err := s.sessions.UpsertSession(ctx, session); err != nil {
		return Response{}, fmt.Errorf("failed to reset session: %w", err)
	}
	return Response{Text: withPrefix(prefix, ussd.RenderMainMenu(companies))}, nil
}

func (s *USSDService) showCompanyMenu(ctx context.Context, cb Callback, company models.Company, prefix string) (Response, error) {
	companyID := company.ID
	session := &models.USSDSession{
		SessionID:   cb.SessionID,
		PhoneNumber: cb.PhoneNumber,
		Level:       1,
		CompanyID:   &companyID,
	}
	if err := s.sessions.UpsertSession(ctx, session); err != nil {
		return Response{}, fmt.Errorf("failed to save company selection: %w", err)
	}
	return Response{Text: withPrefix(prefix, ussd.RenderCompanyMenu(company))}, nil
}

func (s *USSDService) runFlow(ctx context.Context, cb Callback, stack []string, company models.Company, feature ussd.Feature) (Response, error) {
	input := ussd.Input{
		Stack:       stack,
		PhoneNumber: cb.PhoneNumber,
		Company:     company,
	}

	var session *models.USSDSession
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stored, err := s.sessions.GetSession(gctx, cb.SessionID)
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}
		session = stored
		return nil
	})
	g.Go(func() error {
		return s.loadFlowData(gctx, feature, cb.PhoneNumber, company.ID, &input)
	})
	if err := g.Wait(); err != nil {
		return Response{}, err
	}

	input.Scratch = restoreScratch(session, feature)
	metrics.CountFlowStep(string(feature))

	result, err := s.engine.Step(feature, input)
	if err != nil {
		return Response{}, fmt.Errorf("%s flow failed: %w", feature, err)
	}

	if result.End {
		s.enqueue(cb.SessionID, result.Effects)
		if err := s.sessions.DeleteSession(ctx, cb.SessionID); err != nil {
			// the flow is complete; a leftover row is overwritten on the next depth-0 turn
			log.Printf("⚠️  Failed to delete session %s: %v", cb.SessionID, err)
		}
		log.Printf("🏁 Session %s finished %s flow", cb.SessionID, feature)
		return Response{Text: result.Text, End: true}, nil
	}

	payload, err := result.Scratch.Encode()
	if err != nil {
		return Response{}, err
	}
	companyID := company.ID
	next := &models.USSDSession{
		SessionID:   cb.SessionID,
		PhoneNumber: cb.PhoneNumber,
		Level:       len(stack),
		CompanyID:   &companyID,
		Feature:     string(feature),
		Payload:     payload,
	}
	if err := s.sessions.UpsertSession(ctx, next); err != nil {
		return Response{}, fmt.Errorf("failed to save %s progress: %w", feature, err)
	}
	return Response{Text: result.Text}, nil
}

// loadFlowData fetches the reference data the feature reads
func (s *USSDService) loadFlowData(ctx context.Context, feature ussd.Feature, phone string, companyID uint, input *ussd.Input) error {
	switch feature {
	case ussd.FeatureRoutes, ussd.FeatureBooking:
		routes, err := s.reference.ListRoutes(ctx, companyID)
		if err != nil {
			return fmt.Errorf("failed to list routes: %w", err)
		}
		input.Routes = routes
	case ussd.FeatureMyBookings:
		bookings, err := s.records.ListBookingsByPhone(ctx, phone, companyID, ussd.MyBookingsLimit)
		if err != nil {
			return fmt.Errorf("failed to list bookings: %w", err)
		}
		input.Bookings = bookings
	case ussd.FeatureReport, ussd.FeatureLostFound, ussd.FeatureFeedback:
	}
	return nil
}

// restoreScratch decodes the persisted payload when it belongs to feature
func restoreScratch(session *models.USSDSession, feature ussd.Feature) *ussd.Scratch {
	if session == nil {
		return ussd.NewScratch(feature)
	}
	stored, ok := ussd.ParseFeature(session.Feature)
	if !ok || stored != feature {
		return ussd.NewScratch(feature)
	}
	scratch, err := ussd.DecodeScratch(feature, session.Payload)
	if err != nil {
		log.Printf("⚠️  Discarding unreadable payload of session %s: %v", session.SessionID, err)
	}
	return scratch
}

func (s *USSDService) enqueue(sessionID string, effects []ussd.Effect) {
	if s.tasks == nil {
		return
	}
	for _, effect := range effects {
		task, ok := s.taskFor(effect)
		if !ok {
			log.Printf("⚠️  Session %s produced unknown effect %T", sessionID, effect)
			continue
		}
		s.tasks.Submit(task)
	}
}

func (s *USSDService) taskFor(effect ussd.Effect) (jobs.Task, bool) {
	task := jobs.Task{Kind: effect.Kind()}
	switch e := effect.(type) {
	case ussd.SMSEffect:
		task.Run = func(ctx context.Context) error {
			return s.notifier.SendSMS(ctx, e.To, e.Message)
		}
	case ussd.BookingEffect:
		booking := e.Booking
		task.Run = func(ctx context.Context) error {
			return s.records.CreateBooking(ctx, &booking)
		}
	case ussd.CaseReportEffect:
		report := e.Report
		task.Run = func(ctx context.Context) error {
			return s.records.CreateCaseReport(ctx, &report)
		}
	case ussd.LostItemEffect:
		item := e.Item
		task.Run = func(ctx context.Context) error {
			return s.records.CreateLostItem(ctx, &item)
		}
	case ussd.FeedbackEffect:
		feedback := e.Feedback
		task.Run = func(ctx context.Context) error {
			return s.records.CreateFeedback(ctx, &feedback)
		}
	default:
		return jobs.Task{}, false
	}
	return task, true
}

func withPrefix(prefix, text string) string {
	if prefix == "" {
		return text
	}
	return prefix + "\n" + text
}
