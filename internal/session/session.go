// Package session ties the catalog, persistence, and fallback data together for one
// dashboard or CLI run.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/skymetrics/skymetrics/internal/catalog"
	"github.com/skymetrics/skymetrics/internal/logging"
	"github.com/skymetrics/skymetrics/internal/model"
	"github.com/skymetrics/skymetrics/internal/persist"
	"github.com/skymetrics/skymetrics/internal/stats"
)

var (
	// ErrUnknownAirport is returned for codes absent from the catalog.
	ErrUnknownAirport = errors.New("unknown airport")
	// ErrDefaultAirport is returned when removing a built-in airport.
	ErrDefaultAirport = errors.New("built-in airports cannot be removed")
)

// DefaultTheme is used until a preference is stored.
const DefaultTheme = model.ThemeDark

// Resolver supplies records for built-in airports that have nothing persisted.
type Resolver interface {
	Resolve(ctx context.Context, code string, year int) (*model.MonthlyStatistics, error)
}

// Session owns the result cache for the selected year.
type Session struct {
	catalog   *catalog.Catalog
	persister *persist.Persister
	fallback  Resolver
	logger    *zap.Logger
	now       func() time.Time

	mu            sync.Mutex
	year          int
	results       map[string]model.Resolution
	lastRefreshed time.Time
}

// New returns a session for year. fallback may be nil.
func New(cat *catalog.Catalog, persister *persist.Persister, fallback Resolver, year int, logger *zap.Logger) *Session {
	return &Session{
		catalog:   cat,
		persister: persister,
		fallback:  fallback,
		logger:    logging.OrNop(logger).Named("session"),
		now:       time.Now,
		year:      year,
		results:   map[string]model.Resolution{},
	}
}

// Catalog returns the airport catalog.
func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

// Year returns the selected year.
func (s *Session) Year() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.year
}

// SetYear selects year. Cached results belong to the previous year and are dropped.
func (s *Session) SetYear(year int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.year == year {
		return
	}
	s.year = year
	s.results = map[string]model.Resolution{}
}

// LastRefreshed returns when the last batch refresh completed.
func (s *Session) LastRefreshed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRefreshed
}

// Resolve returns the record for (code, year): persisted data first, then the fallback for
// built-in airports. Results cached for the selected year are reused.
func (s *Session) Resolve(ctx context.Context, code string, year int) model.Resolution {
	code = model.NormalizeCode(code)
	s.mu.Lock()
	if year == s.year {
		if res, ok := s.results[code]; ok {
			s.mu.Unlock()
			return res
		}
	}
	s.mu.Unlock()
	return s.resolve(ctx, code, year)
}

func (s *Session) resolve(ctx context.Context, code string, year int) model.Resolution {
	if data, ok := s.persister.Load(ctx, code, year); ok {
		return model.Resolution{Kind: model.ResolutionCached, Data: data}
	}
	if !s.catalog.IsDefault(code) || s.fallback == nil {
		return model.Resolution{Kind: model.ResolutionEmpty}
	}
	data, err := s.fallback.Resolve(ctx, code, year)
	if err != nil {
		return model.Resolution{Kind: model.ResolutionFailed, Err: err}
	}
	return model.Resolution{Kind: model.ResolutionResolved, Data: data}
}

// Refresh selects year and resolves every catalog airport concurrently. A failing airport
// is recorded as failed and never stops the others.
func (s *Session) Refresh(ctx context.Context, year int) model.RefreshReport {
	s.SetYear(year)
	airports := s.catalog.ListAll()
	start := s.now()

	var wg sync.WaitGroup
	for _, ap := range airports {
		wg.Add(1)
		go func(code string) {
			defer wg.Done()
			res := s.resolve(ctx, code, year)
			if res.Kind == model.ResolutionFailed {
				s.logger.Warn("resolution failed", zap.String("code", code), zap.Int("year", year), zap.Error(res.Err))
			}
			s.mu.Lock()
			if s.year == year {
				s.results[code] = res
			}
			s.mu.Unlock()
		}(ap.Code)
	}
	wg.Wait()

	s.mu.Lock()
	s.lastRefreshed = s.now()
	report := model.RefreshReport{Year: year, Results: s.copyResultsLocked(), CompletedAt: s.lastRefreshed}
	s.mu.Unlock()

	s.logger.Info("refresh complete",
		zap.Int("year", year),
		zap.Int("airports", len(airports)),
		zap.Duration("elapsed", report.CompletedAt.Sub(start)),
	)
	return report
}

// Result returns the cached resolution for code in the selected year.
func (s *Session) Result(code string) (model.Resolution, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.results[model.NormalizeCode(code)]
	return res, ok
}

// Results returns a copy of the cache for the selected year.
func (s *Session) Results() map[string]model.Resolution {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyResultsLocked()
}

func (s *Session) copyResultsLocked() map[string]model.Resolution {
	out := make(map[string]model.Resolution, len(s.results))
	for k, v := range s.results {
		out[k] = v
	}
	return out
}

// SaveStatistics persists a record and, for an unknown code, adds it to the catalog as a
// custom airport. The record is written before the catalog so a failed save never leaves an
// airport without data. Saving selects year.
func (s *Session) SaveStatistics(ctx context.Context, code, name string, year int, data *model.MonthlyStatistics) error {
	code = model.NormalizeCode(code)
	if code == "" {
		return fmt.Errorf("airport code is empty")
	}
	if err := s.persister.Save(ctx, code, year, data); err != nil {
		return err
	}
	if _, known := s.catalog.Lookup(code); !known {
		if name == "" {
			name = code
		}
		if _, err := s.catalog.AddCustom(ctx, code, name); err != nil {
			return err
		}
		s.logger.Info("added custom airport", zap.String("code", code))
	}
	s.SetYear(year)
	s.mu.Lock()
	s.results[code] = model.Resolution{Kind: model.ResolutionCached, Data: data}
	s.mu.Unlock()
	return nil
}

// AddAirport adds a custom airport without data.
func (s *Session) AddAirport(ctx context.Context, code, name string) (bool, error) {
	return s.catalog.AddCustom(ctx, code, name)
}

// RemoveCustomAirport drops a custom airport from the catalog and the cache. Its persisted
// records are kept. Built-in and unknown codes leave the catalog untouched and return
// ErrDefaultAirport or ErrUnknownAirport.
func (s *Session) RemoveCustomAirport(ctx context.Context, code string) error {
	code = model.NormalizeCode(code)
	if _, ok := s.catalog.Lookup(code); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAirport, code)
	}
	if s.catalog.IsDefault(code) {
		return fmt.Errorf("%w: %s", ErrDefaultAirport, code)
	}
	if _, err := s.catalog.RemoveCustom(ctx, code); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.results, code)
	s.mu.Unlock()
	return nil
}

// DeleteStatistics removes the persisted record for (code, year).
func (s *Session) DeleteStatistics(ctx context.Context, code string, year int) error {
	code = model.NormalizeCode(code)
	if err := s.persister.DeleteStatistics(ctx, code, year); err != nil {
		return err
	}
	s.mu.Lock()
	if s.year == year {
		delete(s.results, code)
	}
	s.mu.Unlock()
	return nil
}

// SavedAt returns when the persisted record for (code, year) was written.
func (s *Session) SavedAt(ctx context.Context, code string, year int) (time.Time, bool) {
	return s.persister.SavedAt(ctx, code, year)
}

// StoredYears lists the years persisted for code.
func (s *Session) StoredYears(ctx context.Context, code string) ([]int, error) {
	return s.persister.StoredYears(ctx, code)
}

// Report summarizes the cached results of the selected year.
func (s *Session) Report() stats.Report {
	s.mu.Lock()
	year := s.year
	results := s.copyResultsLocked()
	s.mu.Unlock()
	return stats.BuildReport(year, s.catalog.ListAll(), results)
}

// Ranking ranks the cached results for month. A negative month selects the latest month
// with data; the chosen month is returned.
func (s *Session) Ranking(month int) (int, []stats.RankEntry) {
	results := s.Results()
	inputs := make([]stats.RankInput, 0, len(results))
	records := make([]*model.MonthlyStatistics, 0, len(results))
	for _, ap := range s.catalog.ListAll() {
		data, _ := results[ap.Code].Statistics()
		inputs = append(inputs, stats.RankInput{Airport: ap, Stats: data})
		if data != nil {
			records = append(records, data)
		}
	}
	if month < 0 {
		month = stats.LatestMonthIndex(records...)
	}
	if month < 0 {
		return month, nil
	}
	return month, stats.RankForMonth(inputs, month)
}

// Theme returns the stored theme or DefaultTheme.
func (s *Session) Theme(ctx context.Context) model.Theme {
	if theme, ok := s.persister.LoadTheme(ctx); ok {
		return theme
	}
	return DefaultTheme
}

// SetTheme stores the theme preference.
func (s *Session) SetTheme(ctx context.Context, theme model.Theme) error {
	return s.persister.SaveTheme(ctx, theme)
}

// ToggleTheme switches and stores the theme, returning the new one.
func (s *Session) ToggleTheme(ctx context.Context) (model.Theme, error) {
	next := s.Theme(ctx).Toggle()
	if err := s.SetTheme(ctx, next); err != nil {
		return s.Theme(ctx), err
	}
	return next, nil
}
