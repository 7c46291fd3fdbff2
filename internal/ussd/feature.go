package ussd

// Feature is one entry of the company menu
type Feature string

const (
	FeatureRoutes     Feature = "routes"
	FeatureBooking    Feature = "booking"
	FeatureMyBookings Feature = "my_bookings"
	FeatureReport     Feature = "report"
	FeatureLostFound  Feature = "lost_found"
	FeatureFeedback   Feature = "feedback"
)

// companyMenu is the company menu in display order; selection i maps to companyMenu[i-1].
var companyMenu = [...]struct {
	feature Feature
	label   string
}{
	{FeatureRoutes, "Check Routes & Fares"},
	{FeatureBooking, "Book a Seat"},
	{FeatureMyBookings, "My Bookings"},
	{FeatureReport, "Report a Case"},
	{FeatureLostFound, "Lost & Found"},
	{FeatureFeedback, "Feedback"},
}

// FeatureFromSelection maps a company menu selection ("1".."6") to its feature
func FeatureFromSelection(token string) (Feature, bool) {
	idx, ok := SelectIndex(token, len(companyMenu))
	if !ok {
		return "", false
	}
	return companyMenu[idx].feature, true
}

// ParseFeature validates a persisted feature tag
func ParseFeature(tag string) (Feature, bool) {
	for _, item := range companyMenu {
		if string(item.feature) == tag {
			return item.feature, true
		}
	}
	return "", false
}
