package ussd

import (
	"testing"

	"github.com/Ananth-NQI/transitlink-ussd/internal/models"
)

func testRoute(id uint, origin, destination string, fare float64) models.Route {
	r := models.Route{CompanyID: 1, Origin: origin, Destination: destination, Fare: fare}
	r.ID = id
	return r
}

func testCompany(id uint, name string) models.Company {
	c := models.Company{Name: name, ContactNumber: "+254700000000"}
	c.ID = id
	return c
}

func TestRenderMainMenu(t *testing.T) {
	got := RenderMainMenu([]models.Company{testCompany(1, "Acme Bus"), testCompany(2, "Metro Shuttle")})
	want := "Welcome to TransitLink\n1. Acme Bus\n2. Metro Shuttle"
	if got != want {
		t.Fatalf("RenderMainMenu = %q, want %q", got, want)
	}
	if got := RenderMainMenu(nil); got != welcomeLine {
		t.Fatalf("RenderMainMenu(nil) = %q, want %q", got, welcomeLine)
	}
}

func TestRenderCompanyMenu(t *testing.T) {
	got := RenderCompanyMenu(testCompany(1, "Acme Bus"))
	want := "Acme Bus\n1. Check Routes & Fares\n2. Book a Seat\n3. My Bookings\n4. Report a Case\n5. Lost & Found\n6. Feedback\n0. Back to Main Menu"
	if got != want {
		t.Fatalf("RenderCompanyMenu = %q, want %q", got, want)
	}
}

func TestRenderRoutesAndFares(t *testing.T) {
	routes := []models.Route{testRoute(1, "A", "B", 500), testRoute(2, "C", "D", 712.5)}
	if got, want := RenderRoutesAndFares(routes), "A-B (500 KES)\nC-D (712.5 KES)"; got != want {
		t.Fatalf("RenderRoutesAndFares = %q, want %q", got, want)
	}
	if got := RenderRoutesAndFares(nil); got != noRoutesSentence {
		t.Fatalf("RenderRoutesAndFares(nil) = %q, want %q", got, noRoutesSentence)
	}
}

func TestFeatureFromSelection(t *testing.T) {
	want := []Feature{FeatureRoutes, FeatureBooking, FeatureMyBookings, FeatureReport, FeatureLostFound, FeatureFeedback}
	for i, f := range want {
		got, ok := FeatureFromSelection(string(rune('1' + i)))
		if !ok || got != f {
			t.Errorf("FeatureFromSelection(%d) = %q, %v; want %q", i+1, got, ok, f)
		}
		if parsed, ok := ParseFeature(string(f)); !ok || parsed != f {
			t.Errorf("ParseFeature(%q) = %q, %v", f, parsed, ok)
		}
	}
	for _, token := range []string{"0", "7", "x", ""} {
		if _, ok := FeatureFromSelection(token); ok {
			t.Errorf("FeatureFromSelection(%q) should fail", token)
		}
	}
}
