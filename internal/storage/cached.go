package storage

import (
	"context"
	"log"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/Ananth-NQI/transitlink-ussd/internal/models"
)

const companiesKey = 0

// CachedReferenceStore keeps companies and routes for a short TTL.
// Staleness only shifts menu content, so entries are never invalidated early.
type CachedReferenceStore struct {
	next      ReferenceStore
	companies *ttlcache.Cache[int, []models.Company]
	routes    *ttlcache.Cache[uint, []models.Route]
}

var _ ReferenceStore = (*CachedReferenceStore)(nil)

// NewCachedReferenceStore wraps next with a cache of the given TTL
func NewCachedReferenceStore(next ReferenceStore, ttl time.Duration) *CachedReferenceStore {
	return &CachedReferenceStore{
		next: next,
		companies: ttlcache.New[int, []models.Company](
			ttlcache.WithTTL[int, []models.Company](ttl),
			ttlcache.WithDisableTouchOnHit[int, []models.Company](),
		),
		routes: ttlcache.New[uint, []models.Route](
			ttlcache.WithTTL[uint, []models.Route](ttl),
			ttlcache.WithDisableTouchOnHit[uint, []models.Route](),
		),
	}
}

// Start runs the expiry loops until Stop is called
func (c *CachedReferenceStore) Start() {
	go c.companies.Start()
	go c.routes.Start()
	log.Println("🗂️  Reference data cache started")
}

// Stop halts the expiry loops
func (c *CachedReferenceStore) Stop() {
	c.companies.Stop()
	c.routes.Stop()
}

func (c *CachedReferenceStore) ListCompanies(ctx context.Context) ([]models.Company, error) {
	if item := c.companies.Get(companiesKey); item != nil {
		return item.Value(), nil
	}
	companies, err := c.next.ListCompanies(ctx)
	if err != nil {
		return nil, err
	}
	c.companies.Set(companiesKey, companies, ttlcache.DefaultTTL)
	return companies, nil
}

func (c *CachedReferenceStore) ListRoutes(ctx context.Context, companyID uint) ([]models.Route, error) {
	if item := c.routes.Get(companyID); item != nil {
		return item.Value(), nil
	}
	routes, err := c.next.ListRoutes(ctx, companyID)
	if err != nil {
		return nil, err
	}
	c.routes.Set(companyID, routes, ttlcache.DefaultTTL)
	return routes, nil
}
