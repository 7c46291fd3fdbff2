package ussd

import (
	"fmt"
	"strings"

	"github.com/Ananth-NQI/transitlink-ussd/internal/models"
)

const (
	welcomeLine      = "Welcome to TransitLink"
	backToMainLine   = "0. Back to Main Menu"
	backLine         = "0. Back"
	noRoutesSentence = "No routes available at the moment."
)

// SeatPreferences are offered after the seat count, 1-based
var SeatPreferences = [...]string{"Window", "Aisle", "Front", "Back", "No Preference"}

// DefaultSeatPreference is used when the preference selection is missing or invalid
const DefaultSeatPreference = "No Preference"

// RenderMainMenu lists the companies under the welcome line
func RenderMainMenu(companies []models.Company) string {
	var sb strings.Builder
	sb.WriteString(welcomeLine)
	sb.WriteByte('\n')
	for i, company := range companies {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, company.Name)
	}
	return strings.TrimRight(sb.String(), " \t\r\n")
}

// RenderCompanyMenu renders the fixed feature menu of a company
func RenderCompanyMenu(company models.Company) string {
	var sb strings.Builder
	sb.WriteString(company.Name)
	sb.WriteByte('\n')
	for i, item := range companyMenu {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, item.label)
	}
	sb.WriteString(backToMainLine)
	return sb.String()
}

// RenderRoutesAndFares lists every route with its fare, one per line
func RenderRoutesAndFares(routes []models.Route) string {
	if len(routes) == 0 {
		return noRoutesSentence
	}
	lines := make([]string, 0, len(routes))
	for _, route := range routes {
		lines = append(lines, routeLine(route))
	}
	return strings.Join(lines, "\n")
}

func routeLine(route models.Route) string {
	return fmt.Sprintf("%s (%s KES)", route.Name(), models.FormatAmount(route.Fare))
}

func renderRouteSelection(routes []models.Route) string {
	var sb strings.Builder
	sb.WriteString("Select route:\n")
	for i, route := range routes {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, routeLine(route))
	}
	sb.WriteString(backLine)
	return sb.String()
}

func renderSeatPreferenceMenu() string {
	var sb strings.Builder
	sb.WriteString("Select seat preference:\n")
	for i, pref := range SeatPreferences {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, pref)
	}
	sb.WriteString(backLine)
	return sb.String()
}
