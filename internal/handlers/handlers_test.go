package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/transitlink-ussd/internal/models"
	"github.com/Ananth-NQI/transitlink-ussd/internal/services"
	"github.com/Ananth-NQI/transitlink-ussd/internal/storage"
)

type stubProcessor struct {
	resp services.Response
	err  error
	got  []services.Callback
}

func (s *stubProcessor) ProcessCallback(ctx context.Context, cb services.Callback) (services.Response, error) {
	s.got = append(s.got, cb)
	return s.resp, s.err
}

func postForm(t *testing.T, app *fiber.App, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func get(t *testing.T, app *fiber.App, path string) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return resp.StatusCode, body
}

func TestHandleCallback(t *testing.T) {
	full := url.Values{
		"sessionId":   {"ATUid_1"},
		"serviceCode": {"*384*1#"},
		"phoneNumber": {"+254711000111"},
		"text":        {"1*2"},
		"networkCode": {"63902"},
	}
	missingSession := url.Values{"phoneNumber": {"+254711000111"}, "text": {""}}
	missingPhone := url.Values{"sessionId": {"ATUid_1"}, "text": {""}}

	tests := []struct {
		name     string
		form     url.Values
		resp     services.Response
		err      error
		want     string
		forwards bool
	}{
		{"continue", full, services.Response{Text: "Select route:"}, nil, "CON Select route:", true},
		{"end", full, services.Response{Text: "Bye", End: true}, nil, "END Bye", true},
		{"processor error", full, services.Response{}, errors.New("db down"), services.UnavailableResponse.String(), true},
		{"missing session", missingSession, services.Response{}, nil, services.UnavailableResponse.String(), false},
		{"missing phone", missingPhone, services.Response{}, nil, services.UnavailableResponse.String(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubProcessor{resp: tt.resp, err: tt.err}
			app := fiber.New()
			app.Post("/ussd", NewUSSDHandler(stub).HandleCallback)

			resp, body := postForm(t, app, "/ussd", tt.form)
			if resp.StatusCode != fiber.StatusOK {
				t.Fatalf("status = %d, want 200", resp.StatusCode)
			}
			if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
				t.Fatalf("content type = %q", ct)
			}
			if body != tt.want {
				t.Fatalf("body = %q, want %q", body, tt.want)
			}
			if forwarded := len(stub.got) == 1; forwarded != tt.forwards {
				t.Fatalf("forwarded = %v, want %v", forwarded, tt.forwards)
			}
			if tt.forwards {
				cb := stub.got[0]
				if cb.SessionID != "ATUid_1" || cb.Text != "1*2" || cb.ServiceCode != "*384*1#" || cb.NetworkCode != "63902" {
					t.Fatalf("callback = %+v", cb)
				}
			}
		})
	}
}

func newAPIApp(t *testing.T) (*fiber.App, *storage.MemoryStore) {
	t.Helper()
	ctx := context.Background()
	store := storage.NewMemoryStore()
	company := &models.Company{Name: "Acme Bus", ContactNumber: "+254700000001"}
	if err := store.CreateCompany(ctx, company); err != nil {
		t.Fatalf("CreateCompany: %v", err)
	}
	if err := store.CreateRoute(ctx, &models.Route{CompanyID: company.ID, Origin: "A", Destination: "B", Fare: 500}); err != nil {
		t.Fatalf("CreateRoute: %v", err)
	}
	if err := store.CreateBooking(ctx, &models.Booking{
		Reference: "BK-TEST01", PhoneNumber: "+254711000111", CompanyID: company.ID,
		Origin: "A", Destination: "B", Seats: 2, Total: 1000, Status: models.BookingStatusConfirmed,
	}); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if err := store.CreateCaseReport(ctx, &models.CaseReport{
		Reference: "RC-TEST01", PhoneNumber: "+254711000111", CompanyID: company.ID,
		Description: "Bus left early", Status: models.CaseStatusOpen,
	}); err != nil {
		t.Fatalf("CreateCaseReport: %v", err)
	}

	app := fiber.New()
	reference := NewReferenceHandler(store)
	booking := NewBookingHandler(store)
	support := NewSupportHandler(store)
	app.Get("/api/companies", reference.ListCompanies)
	app.Get("/api/companies/:id/routes", reference.ListRoutes)
	app.Get("/api/bookings", booking.ListBookings)
	app.Get("/api/bookings/:reference", booking.GetBooking)
	app.Get("/api/reports/:reference", support.GetReport)
	return app, store
}

func TestAPIHandlers(t *testing.T) {
	app, _ := newAPIApp(t)

	tests := []struct {
		path   string
		status int
		check  func(body map[string]any) bool
	}{
		{"/api/companies", 200, func(b map[string]any) bool { return b["count"] == float64(1) }},
		{"/api/companies/1/routes", 200, func(b map[string]any) bool { return b["count"] == float64(1) }},
		{"/api/companies/x/routes", 400, func(b map[string]any) bool { return b["error"] == "Invalid company id" }},
		{"/api/bookings/BK-TEST01", 200, func(b map[string]any) bool { return b["reference"] == "BK-TEST01" }},
		{"/api/bookings/BK-NOPE00", 404, func(b map[string]any) bool { return b["error"] == "Booking not found" }},
		{"/api/bookings?phone=%2B254711000111", 200, func(b map[string]any) bool { return b["count"] == float64(1) }},
		{"/api/bookings?phone=%2B254711000111&company=2", 200, func(b map[string]any) bool { return b["count"] == float64(0) }},
		{"/api/bookings", 400, func(b map[string]any) bool { return b["error"] == "Phone number is required" }},
		{"/api/reports/RC-TEST01", 200, func(b map[string]any) bool { return b["description"] == "Bus left early" }},
		{"/api/reports/RC-NOPE00", 404, func(b map[string]any) bool { return b["error"] == "Report not found" }},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			status, body := get(t, app, tt.path)
			if status != tt.status {
				t.Fatalf("status = %d, want %d (%v)", status, tt.status, body)
			}
			if !tt.check(body) {
				t.Fatalf("unexpected body %v", body)
			}
		})
	}
}

type failingPinger struct{}

func (failingPinger) Ping(ctx context.Context) error { return errors.New("connection refused") }

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name   string
		store  Pinger
		status int
		want   string
	}{
		{"healthy", storage.NewMemoryStore(), 200, "healthy"},
		{"database down", failingPinger{}, 503, "unhealthy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/health", NewHealthHandler("1.0.0", "memory", false, tt.store).Check)
			status, body := get(t, app, "/health")
			if status != tt.status || body["status"] != tt.want {
				t.Fatalf("health = %d %v", status, body)
			}
		})
	}
}
