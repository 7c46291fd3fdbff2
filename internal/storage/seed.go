package storage

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Ananth-NQI/transitlink-ussd/internal/models"
)

// Seed is the reference data file format:
//
//	companies:
//	  - name: Acme Bus
//	    contact_number: "+254700000001"
//	    routes:
//	      - origin: Nairobi
//	        destination: Nakuru
//	        fare: 500
//	        departure_times: ["07:00", "13:30"]
type Seed struct {
	Companies []SeedCompany `yaml:"companies"`
}

type SeedCompany struct {
	Name          string      `yaml:"name"`
	ContactNumber string      `yaml:"contact_number"`
	Routes        []SeedRoute `yaml:"routes"`
}

type SeedRoute struct {
	Origin         string   `yaml:"origin"`
	Destination    string   `yaml:"destination"`
	Fare           float64  `yaml:"fare"`
	DepartureTimes []string `yaml:"departure_times"`
}

// LoadSeed reads and validates a seed file
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes and validates seed YAML
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	for i, company := range seed.Companies {
		if strings.TrimSpace(company.Name) == "" {
			return nil, fmt.Errorf("seed company #%d has no name", i+1)
		}
		for j, route := range company.Routes {
			if route.Origin == "" || route.Destination == "" {
				return nil, fmt.Errorf("seed route #%d of %s needs origin and destination", j+1, company.Name)
			}
			if route.Fare < 0 {
				return nil, fmt.Errorf("seed route %s-%s has a negative fare", route.Origin, route.Destination)
			}
		}
	}
	return &seed, nil
}

// ApplySeed inserts the seed when the store has no companies yet.
// It reports whether anything was written.
func ApplySeed(ctx context.Context, store Store, seed *Seed) (bool, error) {
	existing, err := store.ListCompanies(ctx)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		log.Printf("🌱 Seed skipped: %d companies already present", len(existing))
		return false, nil
	}

	routeCount := 0
	for _, sc := range seed.Companies {
		company := &models.Company{Name: sc.Name, ContactNumber: sc.ContactNumber}
		if err := store.CreateCompany(ctx, company); err != nil {
			return false, err
		}
		for _, sr := range sc.Routes {
			route := &models.Route{
				CompanyID:      company.ID,
				Origin:         sr.Origin,
				Destination:    sr.Destination,
				Fare:           sr.Fare,
				DepartureTimes: strings.Join(sr.DepartureTimes, ","),
			}
			if err := store.CreateRoute(ctx, route); err != nil {
				return false, err
			}
			routeCount++
		}
	}
	log.Printf("🌱 Seeded %d companies and %d routes", len(seed.Companies), routeCount)
	return true, nil
}
