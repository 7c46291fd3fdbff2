package ussd

import (
	"fmt"

	"github.com/Ananth-NQI/transitlink-ussd/internal/models"
)

const (
	maxRating         = 5
	promptRating      = "Rate our service from 1 to 5:"
	promptComment     = "Please enter your comment:"
	msgInvalidRating  = "Invalid rating."
	msgFeedbackThanks = "Thank you for your feedback!"
)

// Rate(1) -> Comment(2) -> Confirm(3)
func feedbackStep(step int, in Input) Result {
	scratch := in.Scratch.Feedback

	switch step {
	case 1:
		*scratch = FeedbackScratch{}
		return next(promptRating)

	case 2:
		idx, ok := SelectIndex(in.Stack[2], maxRating)
		if !ok {
			return next(msgInvalidRating + "\n" + promptRating)
		}
		scratch.Rating = idx + 1
		return next(promptComment)

	case 3:
		// stack[2] is re-validated on every turn past step 2
		idx, ok := SelectIndex(in.Stack[2], maxRating)
		if !ok {
			return next(msgInvalidRating + "\n" + promptRating)
		}
		scratch.Rating = idx + 1
		scratch.Comment = in.Stack[3]

		sms := fmt.Sprintf("TransitLink: Thank you for rating %s %d/5. Your feedback helps us improve.",
			in.Company.Name, scratch.Rating)
		return end(msgFeedbackThanks,
			SMSEffect{To: in.PhoneNumber, Message: sms},
			FeedbackEffect{Feedback: models.Feedback{
				PhoneNumber: in.PhoneNumber,
				CompanyID:   in.Company.ID,
				Rating:      scratch.Rating,
				Comment:     scratch.Comment,
			}},
		)
	}
	return unexpected()
}
