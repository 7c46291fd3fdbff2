package ussd

import "testing"

func TestScratchRoundTripByFeature(t *testing.T) {
	s := NewScratch(FeatureBooking)
	s.Booking.RouteIndex = 2
	s.Booking.Route = &RouteSnapshot{ID: 7, Origin: "A", Destination: "B", Fare: 500}
	s.Booking.Seats = 3

	payload, err := s.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := DecodeScratch(FeatureBooking, payload)
	if err != nil {
		t.Fatalf("DecodeScratch: %v", err)
	}
	if got.Booking == nil || got.Booking.Route == nil || got.Booking.Route.ID != 7 || got.Booking.Seats != 3 {
		t.Fatalf("decoded booking scratch = %+v", got.Booking)
	}

	// the same payload read under another feature tag yields that feature's variant
	other, err := DecodeScratch(FeatureFeedback, payload)
	if err != nil {
		t.Fatalf("DecodeScratch feedback: %v", err)
	}
	if other.Booking != nil || other.Feedback == nil || other.Feedback.Rating != 0 {
		t.Fatalf("feedback scratch = %+v", other)
	}
}

func TestScratchStatelessFeatures(t *testing.T) {
	for _, f := range []Feature{FeatureRoutes, FeatureMyBookings} {
		payload, err := NewScratch(f).Encode()
		if err != nil || payload != "" {
			t.Fatalf("%s encodes to %q, %v", f, payload, err)
		}
	}
}

func TestDecodeScratchRejectsGarbage(t *testing.T) {
	s, err := DecodeScratch(FeatureReport, "{not json")
	if err == nil {
		t.Fatal("expected decode error")
	}
	if s == nil || s.Report == nil {
		t.Fatal("expected an empty scratch alongside the error")
	}
}
