package ussd

import (
	"encoding/json"
	"fmt"

	"github.com/Ananth-NQI/transitlink-ussd/internal/models"
)

// RouteSnapshot is the part of a route the booking flow carries between turns
type RouteSnapshot struct {
	ID             uint    `json:"id"`
	Origin         string  `json:"origin"`
	Destination    string  `json:"destination"`
	Fare           float64 `json:"fare"`
	DepartureTimes string  `json:"departure_times,omitempty"`
}

func snapshotRoute(r models.Route) *RouteSnapshot {
	return &RouteSnapshot{
		ID:             r.ID,
		Origin:         r.Origin,
		Destination:    r.Destination,
		Fare:           r.Fare,
		DepartureTimes: r.DepartureTimes,
	}
}

func (r *RouteSnapshot) route() models.Route {
	route := models.Route{
		Origin:         r.Origin,
		Destination:    r.Destination,
		Fare:           r.Fare,
		DepartureTimes: r.DepartureTimes,
	}
	route.ID = r.ID
	return route
}

// BookingScratch accumulates the booking flow selections
type BookingScratch struct {
	RouteIndex     int            `json:"booking_route_index,omitempty"` // 1-based selection that produced Route
	Route          *RouteSnapshot `json:"booking_route,omitempty"`
	Seats          int            `json:"booking_seats,omitempty"`
	SeatPreference string         `json:"booking_seat_preference,omitempty"`
}

// ReportScratch is shared by the report and lost & found flows
type ReportScratch struct {
	Description string `json:"description,omitempty"`
}

// FeedbackScratch accumulates the feedback flow answers
type FeedbackScratch struct {
	Rating  int    `json:"feedback_rating,omitempty"`
	Comment string `json:"feedback_comment,omitempty"`
}

// Scratch is the per-session flow state. Exactly one variant is set, chosen
// by Feature; routes and my-bookings carry no state.
type Scratch struct {
	Feature  Feature
	Booking  *BookingScratch
	Report   *ReportScratch
	Feedback *FeedbackScratch
}

// NewScratch returns an empty scratch for the feature
func NewScratch(feature Feature) *Scratch {
	s := &Scratch{Feature: feature}
	switch feature {
	case FeatureBooking:
		s.Booking = &BookingScratch{}
	case FeatureReport, FeatureLostFound:
		s.Report = &ReportScratch{}
	case FeatureFeedback:
		s.Feedback = &FeedbackScratch{}
	case FeatureRoutes, FeatureMyBookings:
	}
	return s
}

// DecodeScratch restores the scratch persisted for feature. An empty payload
// yields an empty scratch.
func DecodeScratch(feature Feature, payload string) (*Scratch, error) {
	s := NewScratch(feature)
	v := s.variant()
	if v == nil || payload == "" {
		return s, nil
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return NewScratch(feature), fmt.Errorf("failed to decode %s scratch: %w", feature, err)
	}
	return s, nil
}

// Encode serializes the active variant; stateless features encode to ""
func (s *Scratch) Encode() (string, error) {
	v := s.variant()
	if v == nil {
		return "", nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s scratch: %w", s.Feature, err)
	}
	return string(data), nil
}

func (s *Scratch) variant() any {
	switch {
	case s.Booking != nil:
		return s.Booking
	case s.Report != nil:
		return s.Report
	case s.Feedback != nil:
		return s.Feedback
	}
	return nil
}
