package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/skymetrics/skymetrics/internal/logging"
	"github.com/skymetrics/skymetrics/internal/model"
)

// DefaultPrefix namespaces every key written by the application.
const DefaultPrefix = "skymetrics_"

const (
	customAirportsKey = "custom_airports"
	dataKeyPrefix     = "data_"
	themeKey          = "theme"
)

// Persister reads and writes records through a KV backend.
type Persister struct {
	kv     KV
	prefix string
	logger *zap.Logger
}

// New returns a Persister. An empty prefix selects DefaultPrefix.
func New(kv KV, prefix string, logger *zap.Logger) *Persister {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Persister{kv: kv, prefix: prefix, logger: logging.OrNop(logger).Named("persist")}
}

// StatisticsKey builds the storage key for one (code, year) record.
func (p *Persister) StatisticsKey(code string, year int) string {
	return p.prefix + dataKeyPrefix + model.NormalizeCode(code) + "_" + strconv.Itoa(year)
}

// CatalogKey returns the storage key for the custom airport list.
func (p *Persister) CatalogKey() string {
	return p.prefix + customAirportsKey
}

// ThemeKey returns the storage key for the theme preference.
func (p *Persister) ThemeKey() string {
	return p.prefix + themeKey
}

// Load returns the persisted record for (code, year). Missing keys, read failures, and
// undecodable values are all reported as absent.
func (p *Persister) Load(ctx context.Context, code string, year int) (*model.MonthlyStatistics, bool) {
	key := p.StatisticsKey(code, year)
	raw, ok, err := p.kv.Get(ctx, key)
	if err != nil {
		p.logger.Warn("read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var stats model.MonthlyStatistics
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		p.logger.Debug("discarding undecodable record", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &stats, true
}

// Save writes the record for (code, year). Backend failures are returned to the caller.
func (p *Persister) Save(ctx context.Context, code string, year int, stats *model.MonthlyStatistics) error {
	if stats == nil {
		return fmt.Errorf("statistics record is nil")
	}
	key := p.StatisticsKey(code, year)
	payload, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := p.kv.Set(ctx, key, string(payload)); err != nil {
		p.logger.Error("write failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to save %s %d: %w", model.NormalizeCode(code), year, err)
	}
	p.logger.Debug("saved statistics", zap.String("key", key), zap.Int("points", len(stats.ChartData)))
	return nil
}

// DeleteStatistics removes the record for (code, year).
func (p *Persister) DeleteStatistics(ctx context.Context, code string, year int) error {
	key := p.StatisticsKey(code, year)
	if err := p.kv.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// SavedAt returns when the record for (code, year) was last written.
func (p *Persister) SavedAt(ctx context.Context, code string, year int) (time.Time, bool) {
	key := p.StatisticsKey(code, year)
	at, ok, err := p.kv.UpdatedAt(ctx, key)
	if err != nil {
		p.logger.Warn("read failed", zap.String("key", key), zap.Error(err))
		return time.Time{}, false
	}
	return at, ok
}

// StoredYears lists the years with a persisted record for code, ascending.
func (p *Persister) StoredYears(ctx context.Context, code string) ([]int, error) {
	prefix := p.prefix + dataKeyPrefix + model.NormalizeCode(code) + "_"
	keys, err := p.kv.Keys(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	years := make([]int, 0, len(keys))
	for _, key := range keys {
		year, err := strconv.Atoi(strings.TrimPrefix(key, prefix))
		if err != nil {
			continue
		}
		years = append(years, year)
	}
	return years, nil
}

// LoadCustomCatalog returns the persisted custom airports, or an empty list.
func (p *Persister) LoadCustomCatalog(ctx context.Context) []model.AirportDefinition {
	key := p.CatalogKey()
	raw, ok, err := p.kv.Get(ctx, key)
	if err != nil {
		p.logger.Warn("read failed", zap.String("key", key), zap.Error(err))
		return []model.AirportDefinition{}
	}
	if !ok {
		return []model.AirportDefinition{}
	}
	var list []model.AirportDefinition
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		p.logger.Debug("discarding undecodable catalog", zap.Error(err))
		return []model.AirportDefinition{}
	}
	if list == nil {
		list = []model.AirportDefinition{}
	}
	return list
}

// SaveCustomCatalog replaces the persisted custom airport list.
func (p *Persister) SaveCustomCatalog(ctx context.Context, list []model.AirportDefinition) error {
	if list == nil {
		list = []model.AirportDefinition{}
	}
	payload, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to encode custom airports: %w", err)
	}
	if err := p.kv.Set(ctx, p.CatalogKey(), string(payload)); err != nil {
		p.logger.Error("write failed", zap.String("key", p.CatalogKey()), zap.Error(err))
		return fmt.Errorf("failed to save custom airports: %w", err)
	}
	return nil
}

// LoadTheme returns the stored theme when it is a known value.
func (p *Persister) LoadTheme(ctx context.Context) (model.Theme, bool) {
	raw, ok, err := p.kv.Get(ctx, p.ThemeKey())
	if err != nil || !ok {
		return "", false
	}
	theme := model.Theme(strings.TrimSpace(raw))
	if !theme.Valid() {
		return "", false
	}
	return theme, true
}

// SaveTheme stores the theme preference as a raw string.
func (p *Persister) SaveTheme(ctx context.Context, theme model.Theme) error {
	if !theme.Valid() {
		return fmt.Errorf("invalid theme %q (use light or dark)", theme)
	}
	if err := p.kv.Set(ctx, p.ThemeKey(), string(theme)); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	return nil
}
