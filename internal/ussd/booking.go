package ussd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Ananth-NQI/transitlink-ussd/internal/models"
)

// MaxSeatsPerBooking caps the seat count accepted in one booking
const MaxSeatsPerBooking = 10

const (
	msgNoRoutesForBooking = "No routes available for booking at the moment."
	msgInvalidRoute       = "Invalid route selection."
	msgInvalidSeats       = "Invalid number of seats."
	promptSeats           = "Enter number of seats:"
)

// Booking: SelectRoute(1) -> CaptureSeats(2) -> CaptureSeatPreference(3) -> Confirm(4)
func (e *Engine) bookingStep(step int, in Input) (Result, error) {
	if len(in.Routes) == 0 {
		return end(msgNoRoutesForBooking), nil
	}
	scratch := in.Scratch.Booking

	switch step {
	case 1:
		*scratch = BookingScratch{}
		return next(renderRouteSelection(in.Routes)), nil

	case 2:
		idx, ok := SelectIndex(in.Stack[2], len(in.Routes))
		if !ok {
			return invalidRoute(in.Routes), nil
		}
		*scratch = BookingScratch{
			RouteIndex: idx + 1,
			Route:      snapshotRoute(in.Routes[idx]),
		}
		return next(promptSeats), nil

	case 3:
		if _, ok := resolveRoute(in); !ok {
			return invalidRoute(in.Routes), nil
		}
		seats, ok := parseSeats(in.Stack[3])
		if !ok {
			return next(msgInvalidSeats + "\n" + promptSeats), nil
		}
		scratch.Seats = seats
		scratch.SeatPreference = ""
		return next(renderSeatPreferenceMenu()), nil

	case 4:
		route, ok := resolveRoute(in)
		if !ok {
			return invalidRoute(in.Routes), nil
		}
		seats, ok := parseSeats(in.Stack[3])
		if !ok {
			return next(msgInvalidSeats + "\n" + promptSeats), nil
		}
		scratch.Seats = seats
		scratch.SeatPreference = parseSeatPreference(in.Stack[4])
		return e.confirmBooking(in, route, seats, scratch.SeatPreference)
	}
	return unexpected(), nil
}

func (e *Engine) confirmBooking(in Input, route models.Route, seats int, preference string) (Result, error) {
	total := models.RoundAmount(float64(seats) * route.Fare)
	reference, err := e.reference("BK")
	if err != nil {
		return Result{}, err
	}

	text := fmt.Sprintf("Booking confirmed!\nRef: %s\n%s, %d seat(s), %s\nTotal: %s KES\nAn SMS confirmation will follow.",
		reference, route.Name(), seats, preference, models.FormatAmount(total))

	var sms strings.Builder
	fmt.Fprintf(&sms, "TransitLink: Booking %s with %s confirmed. %s, %d seat(s), %s. Total: %s KES.",
		reference, in.Company.Name, route.Name(), seats, preference, models.FormatAmount(total))
	if departures := route.Departures(); len(departures) > 0 {
		fmt.Fprintf(&sms, " Departures: %s.", strings.Join(departures, ", "))
	}
	if in.Company.ContactNumber != "" {
		fmt.Fprintf(&sms, " Enquiries: %s.", in.Company.ContactNumber)
	}

	booking := models.Booking{
		Reference:      reference,
		PhoneNumber:    in.PhoneNumber,
		CompanyID:      in.Company.ID,
		RouteID:        route.ID,
		Origin:         route.Origin,
		Destination:    route.Destination,
		Seats:          seats,
		SeatPreference: preference,
		Total:          total,
		Status:         models.BookingStatusConfirmed,
	}

	return end(text,
		SMSEffect{To: in.PhoneNumber, Message: sms.String()},
		BookingEffect{Booking: booking},
	), nil
}

func invalidRoute(routes []models.Route) Result {
	return next(msgInvalidRoute + "\n" + renderRouteSelection(routes))
}

// resolveRoute prefers the snapshot taken when the route was selected, so a
// reordered route list between turns does not change the booking. The path
// token is authoritative: a snapshot for a different selection is ignored.
func resolveRoute(in Input) (models.Route, bool) {
	idx, ok := SelectIndex(in.Stack[2], len(in.Routes))
	scratch := in.Scratch.Booking
	if scratch.Route != nil && scratch.RouteIndex == idx+1 && ok {
		return scratch.Route.route(), true
	}
	if !ok {
		return models.Route{}, false
	}
	scratch.RouteIndex = idx + 1
	scratch.Route = snapshotRoute(in.Routes[idx])
	return in.Routes[idx], true
}

func parseSeats(token string) (int, bool) {
	seats, err := strconv.Atoi(strings.TrimSpace(token))
	if err != nil || seats < 1 || seats > MaxSeatsPerBooking {
		return 0, false
	}
	return seats, true
}

func parseSeatPreference(token string) string {
	idx, ok := SelectIndex(token, len(SeatPreferences))
	if !ok {
		return DefaultSeatPreference
	}
	return SeatPreferences[idx]
}
