// Package compare builds side-by-side monthly tables from several statistics series.
package compare

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/skymetrics/skymetrics/internal/model"
	"github.com/skymetrics/skymetrics/internal/stats"
)

var (
	// ErrNoData is returned when the selected series has no positive monthly value.
	ErrNoData = errors.New("no data for selection")
	// ErrDuplicate is returned when the series is already active.
	ErrDuplicate = errors.New("series already added")
	// ErrNoSubject is returned in historical mode before an airport is chosen.
	ErrNoSubject = errors.New("no airport selected")
)

// Mode selects how series are keyed.
type Mode int

const (
	// CrossAirport compares (airport, year) pairs.
	CrossAirport Mode = iota
	// Historical compares years of a single airport.
	Historical
)

func (m Mode) String() string {
	if m == Historical {
		return "historical"
	}
	return "cross-airport"
}

// Projection selects the values shown in a comparison table.
type Projection int

const (
	Monthly Projection = iota
	Cumulative
)

// Selector identifies the series to add. Historical mode ignores Code once a subject is set.
type Selector struct {
	Code string
	Year int
}

// SeriesResolver looks up the record for (code, year).
type SeriesResolver interface {
	Resolve(ctx context.Context, code string, year int) model.Resolution
}

// Row is one month of a comparison table keyed by series ID.
type Row struct {
	Month  int
	Values map[string]model.Count
}

// Comparator keeps the active series of a comparison view.
type Comparator struct {
	mode       Mode
	resolver   SeriesResolver
	palette    *Palette
	targetYear int
	subject    string
	series     []model.ChartSeries
}

// New returns an empty comparator. A nil palette selects DefaultColors.
func New(mode Mode, resolver SeriesResolver, palette *Palette) *Comparator {
	if palette == nil {
		palette = NewPalette()
	}
	return &Comparator{mode: mode, resolver: resolver, palette: palette}
}

func (c *Comparator) Mode() Mode { return c.mode }

func (c *Comparator) TargetYear() int { return c.targetYear }

func (c *Comparator) Subject() string { return c.subject }

// SeriesID returns the identifier a selector maps to in this comparator's mode.
func (c *Comparator) SeriesID(sel Selector) string {
	if c.mode == Historical {
		return strconv.Itoa(sel.Year)
	}
	return fmt.Sprintf("%s-%d", model.NormalizeCode(sel.Code), sel.Year)
}

// AddSeries resolves sel and appends it to the active set with the next free color.
func (c *Comparator) AddSeries(ctx context.Context, sel Selector) (model.ChartSeries, error) {
	sel.Code = model.NormalizeCode(sel.Code)
	if c.mode == Historical {
		if c.subject == "" {
			c.subject = sel.Code
		}
		if c.subject == "" {
			return model.ChartSeries{}, ErrNoSubject
		}
		sel.Code = c.subject
	} else {
		if sel.Year == 0 {
			sel.Year = c.targetYear
		}
		if sel.Code == "" {
			return model.ChartSeries{}, fmt.Errorf("airport code is empty")
		}
	}
	id := c.SeriesID(sel)
	if c.index(id) >= 0 {
		return model.ChartSeries{}, fmt.Errorf("%w: %s", ErrDuplicate, id)
	}

	var data [model.MonthsPerYear]int64
	if c.resolver != nil {
		if rec, ok := c.resolver.Resolve(ctx, sel.Code, sel.Year).Statistics(); ok {
			data = stats.SeriesFromStatistics(rec)
		}
	}
	if !stats.HasPositive(data) {
		return model.ChartSeries{}, fmt.Errorf("%w: %s %d", ErrNoData, sel.Code, sel.Year)
	}

	total, peak := stats.SeriesTotalPeak(data)
	series := model.ChartSeries{
		ID:    id,
		Code:  sel.Code,
		Year:  sel.Year,
		Data:  data,
		Total: total,
		Peak:  peak,
		Color: c.palette.Acquire(),
	}
	c.series = append(c.series, series)
	return series, nil
}

// RemoveSeries drops the series with id and frees its color.
func (c *Comparator) RemoveSeries(id string) bool {
	idx := c.index(id)
	if idx < 0 {
		return false
	}
	c.palette.Release(c.series[idx].Color)
	c.series = append(c.series[:idx:idx], c.series[idx+1:]...)
	return true
}

// SetTargetYear changes the default year of cross-airport selections. Changing it clears
// every active series.
func (c *Comparator) SetTargetYear(year int) {
	if c.targetYear == year {
		return
	}
	c.targetYear = year
	if c.mode == CrossAirport {
		c.clear()
	}
}

// SetSubjectAirport changes the airport of a historical comparison, clearing its years.
func (c *Comparator) SetSubjectAirport(code string) {
	code = model.NormalizeCode(code)
	if c.subject == code {
		return
	}
	c.subject = code
	if c.mode == Historical {
		c.clear()
	}
}

// Active returns the series in insertion order.
func (c *Comparator) Active() []model.ChartSeries {
	return append([]model.ChartSeries(nil), c.series...)
}

// Table reshapes the active series into twelve month rows. Months without data are absent.
// Historical comparisons always show monthly values.
func (c *Comparator) Table(projection Projection) []Row {
	columns := make(map[string][]model.Count, len(c.series))
	for _, s := range c.series {
		if projection == Cumulative && c.mode == CrossAirport {
			columns[s.ID] = stats.CumulativeSeries(s.Data[:])
			continue
		}
		col := make([]model.Count, model.MonthsPerYear)
		for i, v := range s.Data {
			if v > 0 {
				col[i] = model.Some(v)
			}
		}
		columns[s.ID] = col
	}

	rows := make([]Row, model.MonthsPerYear)
	for i := range rows {
		rows[i] = Row{Month: i, Values: make(map[string]model.Count, len(c.series))}
		for id, col := range columns {
			rows[i].Values[id] = col[i]
		}
	}
	return rows
}

func (c *Comparator) index(id string) int {
	for i, s := range c.series {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (c *Comparator) clear() {
	c.palette.Reset()
	c.series = nil
}
