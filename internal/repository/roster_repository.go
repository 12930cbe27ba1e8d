package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/maeumlog/diary-api/internal/models"
	appErrors "github.com/maeumlog/diary-api/pkg/errors"
	"github.com/maeumlog/diary-api/pkg/tabular"
)

// rosterHeader is the conventional single header row of the shared roster
// sheet, distinct from the two-row diary sheet convention.
var rosterHeader = []string{"name", "password", "sheetLocator"}

// RosterLookup resolves a student name to their roster account.
type RosterLookup interface {
	Lookup(ctx context.Context, name string) (*models.StudentAccount, error)
}

// RosterRepository reads the shared roster sheet. The roster is never mutated
// by this service, so concurrent reads need no locking.
type RosterRepository struct {
	tab     tabular.Store
	sheetID string
}

// NewRosterRepository binds the roster sheet handle.
func NewRosterRepository(tab tabular.Store, sheetID string) *RosterRepository {
	return &RosterRepository{tab: tab, sheetID: sheetID}
}

// Lookup scans the roster for an exact post-trim name match. The caller is
// responsible for the password comparison; this layer only resolves rows.
func (r *RosterRepository) Lookup(ctx context.Context, name string) (*models.StudentAccount, error) {
	rows, err := r.tab.ReadAllRows(ctx, r.sheetID)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	for i, row := range rows {
		if i == 0 && isRosterHeader(row) {
			continue
		}
		if len(row) < len(rosterHeader) {
			continue
		}
		if strings.TrimSpace(row[0]) != name {
			continue
		}
		return &models.StudentAccount{
			Name:     strings.TrimSpace(row[0]),
			Password: strings.TrimSpace(row[1]),
			SheetID:  strings.TrimSpace(row[2]),
		}, nil
	}

	return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("student %q not on roster", name))
}

func isRosterHeader(row []string) bool {
	if len(row) < len(rosterHeader) {
		return false
	}
	for i, want := range rosterHeader {
		if strings.TrimSpace(row[i]) != want {
			return false
		}
	}
	return true
}

// CachedRoster decorates a RosterLookup with a Redis TTL cache, mirroring the
// original app's short-lived roster cache. A nil client degrades to direct
// lookups; cache failures are logged and never fail the lookup itself.
type CachedRoster struct {
	next   RosterLookup
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedRoster wraps a roster lookup with caching.
func NewCachedRoster(next RosterLookup, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedRoster {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedRoster{next: next, client: client, ttl: ttl, logger: logger}
}

// cachedAccount is the cache wire shape. StudentAccount itself never
// serialises its password, so the cache uses its own codec.
type cachedAccount struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	SheetID  string `json:"sheetId"`
}

// Lookup serves from cache when possible. Negative results are not cached so
// a freshly added student can log in immediately.
func (c *CachedRoster) Lookup(ctx context.Context, name string) (*models.StudentAccount, error) {
	name = strings.TrimSpace(name)
	if c.client == nil {
		return c.next.Lookup(ctx, name)
	}

	key := "roster:student:" + name
	if raw, err := c.client.Get(ctx, key).Result(); err == nil {
		var cached cachedAccount
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return &models.StudentAccount{Name: cached.Name, Password: cached.Password, SheetID: cached.SheetID}, nil
		}
		c.logger.Warn("dropping undecodable roster cache entry", zap.String("key", key))
		_ = c.client.Del(ctx, key).Err()
	}

	account, err := c.next.Lookup(ctx, name)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(cachedAccount{Name: account.Name, Password: account.Password, SheetID: account.SheetID})
	if err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.logger.Warn("failed to cache roster entry", zap.String("key", key), zap.Error(err))
		}
	}
	return account, nil
}
