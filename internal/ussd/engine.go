package ussd

import (
	"fmt"

	"github.com/Ananth-NQI/transitlink-ussd/internal/models"
	"github.com/Ananth-NQI/transitlink-ussd/internal/utils"
)

const msgUnexpectedSelection = "Unexpected selection. Please start again."

// Input is everything a flow step may look at for one turn
type Input struct {
	Stack       []string
	PhoneNumber string
	Company     models.Company
	Routes      []models.Route   // routes and booking
	Bookings    []models.Booking // my bookings
	Scratch     *Scratch         // mutated in place by the step
}

// Result is the outcome of one flow step
type Result struct {
	Text    string
	End     bool
	Effects []Effect
	Scratch *Scratch // state to persist when the result is not terminal
}

// Effect is work requested by a terminal step, run after the response is sent
type Effect interface {
	Kind() string
}

// SMSEffect sends a text message to the subscriber
type SMSEffect struct {
	To      string
	Message string
}

// BookingEffect persists a completed booking
type BookingEffect struct {
	Booking models.Booking
}

// CaseReportEffect persists a reported case
type CaseReportEffect struct {
	Report models.CaseReport
}

// LostItemEffect persists a lost & found claim
type LostItemEffect struct {
	Item models.LostItem
}

// FeedbackEffect persists a rating
type FeedbackEffect struct {
	Feedback models.Feedback
}

func (SMSEffect) Kind() string        { return "sms" }
func (BookingEffect) Kind() string    { return "booking" }
func (CaseReportEffect) Kind() string { return "case_report" }
func (LostItemEffect) Kind() string   { return "lost_item" }
func (FeedbackEffect) Kind() string   { return "feedback" }

// ReferenceFunc produces a reference code with the given prefix
type ReferenceFunc func(prefix string) (string, error)

// Engine steps the feature flows
type Engine struct {
	reference ReferenceFunc
}

// NewEngine creates a flow engine; a nil reference func uses utils.GenerateReference
func NewEngine(reference ReferenceFunc) *Engine {
	if reference == nil {
		reference = utils.GenerateReference
	}
	return &Engine{reference: reference}
}

// Step runs the feature's state machine for the current stack depth.
// Step 1 is the turn on which the feature was selected (stack length 2).
func (e *Engine) Step(feature Feature, in Input) (Result, error) {
	if in.Scratch == nil || in.Scratch.Feature != feature {
		in.Scratch = NewScratch(feature)
	}
	step := len(in.Stack) - 1

	var (
		res Result
		err error
	)
	switch feature {
	case FeatureRoutes:
		res = routesStep(step, in)
	case FeatureBooking:
		res, err = e.bookingStep(step, in)
	case FeatureMyBookings:
		res = myBookingsStep(step, in)
	case FeatureReport:
		res, err = e.describeStep(step, in, reportFlow)
	case FeatureLostFound:
		res, err = e.describeStep(step, in, lostFoundFlow)
	case FeatureFeedback:
		res = feedbackStep(step, in)
	default:
		return Result{}, fmt.Errorf("unknown feature %q", feature)
	}
	if err != nil {
		return Result{}, err
	}
	res.Scratch = in.Scratch
	return res, nil
}

func next(text string) Result {
	return Result{Text: text}
}

func end(text string, effects ...Effect) Result {
	return Result{Text: text, End: true, Effects: effects}
}

func unexpected() Result {
	return end(msgUnexpectedSelection)
}

func routesStep(step int, in Input) Result {
	if step != 1 {
		return unexpected()
	}
	return end(RenderRoutesAndFares(in.Routes))
}
