package ussd

import (
	"fmt"
	"strings"

	"github.com/Ananth-NQI/transitlink-ussd/internal/models"
)

// MyBookingsLimit is how many recent bookings the listing shows
const MyBookingsLimit = 5

func myBookingsStep(step int, in Input) Result {
	if step != 1 {
		return unexpected()
	}
	if len(in.Bookings) == 0 {
		return end(fmt.Sprintf("You have no bookings with %s.", in.Company.Name))
	}

	var sb strings.Builder
	sb.WriteString("Your bookings:")
	for i, b := range in.Bookings {
		if i == MyBookingsLimit {
			break
		}
		fmt.Fprintf(&sb, "\n%d. %s %s-%s x%d %s KES", i+1, b.Reference, b.Origin, b.Destination, b.Seats, models.FormatAmount(b.Total))
	}
	return end(sb.String())
}
