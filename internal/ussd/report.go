package ussd

import (
	"fmt"

	"github.com/Ananth-NQI/transitlink-ussd/internal/models"
)

// describeFlow parameterizes the two-step Describe -> Confirm flows
type describeFlow struct {
	prefix       string
	prompt       string
	confirmation string // formatted with the reference
	sms          string // formatted with the company name and the reference
	record       func(in Input, reference, description string) Effect
}

var reportFlow = describeFlow{
	prefix:       "RC",
	prompt:       "Describe the issue you want to report:",
	confirmation: "Thank you. Your report has been received.\nRef: %s",
	sms:          "TransitLink: Your report to %s has been received. Ref: %s. We will contact you shortly.",
	record: func(in Input, reference, description string) Effect {
		return CaseReportEffect{Report: models.CaseReport{
			Reference:   reference,
			PhoneNumber: in.PhoneNumber,
			CompanyID:   in.Company.ID,
			Description: description,
			Status:      models.CaseStatusOpen,
		}}
	},
}

var lostFoundFlow = describeFlow{
	prefix:       "LF",
	prompt:       "Describe the lost item (type, colour, route and date):",
	confirmation: "Your lost item report has been logged.\nRef: %s",
	sms:          "TransitLink: Lost item report with %s logged. Ref: %s. We will notify you if it is found.",
	record: func(in Input, reference, description string) Effect {
		return LostItemEffect{Item: models.LostItem{
			Reference:   reference,
			PhoneNumber: in.PhoneNumber,
			CompanyID:   in.Company.ID,
			Description: description,
			Status:      models.CaseStatusOpen,
		}}
	},
}

// Describe(1) -> Confirm(2)
func (e *Engine) describeStep(step int, in Input, flow describeFlow) (Result, error) {
	scratch := in.Scratch.Report

	switch step {
	case 1:
		*scratch = ReportScratch{}
		return next(flow.prompt), nil

	case 2:
		scratch.Description = in.Stack[2]
		reference, err := e.reference(flow.prefix)
		if err != nil {
			return Result{}, err
		}
		return end(fmt.Sprintf(flow.confirmation, reference),
			SMSEffect{To: in.PhoneNumber, Message: fmt.Sprintf(flow.sms, in.Company.Name, reference)},
			flow.record(in, reference, scratch.Description),
		), nil
	}
	return unexpected(), nil
}
