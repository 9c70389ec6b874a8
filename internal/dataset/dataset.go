// Package dataset holds the built-in airports and the bundled demo statistics.
package dataset

import (
	"context"
	"errors"
	"fmt"

	"github.com/skymetrics/skymetrics/internal/model"
)

// DemoYear is the year covered by the bundled records.
const DemoYear = 2024

// ErrNoData is returned by Demo when it has no record for a request.
var ErrNoData = errors.New("no data")

// DefaultAirports returns the built-in catalog in display order.
func DefaultAirports() []model.AirportDefinition {
	return []model.AirportDefinition{
		{Code: "HKG", Name: "香港國際機場"},
		{Code: "TPE", Name: "臺灣桃園國際機場"},
		{Code: "SIN", Name: "新加坡樟宜國際機場"},
		{Code: "BKK", Name: "曼谷素萬那普國際機場"},
		{Code: "ICN", Name: "首爾仁川國際機場"},
		{Code: "MNL", Name: "馬尼拉國際機場"},
	}
}

type demoRecord struct {
	name    string
	summary string
	current []int64
	prior   []int64
	source  model.Source
}

var demoRecords = map[string]demoRecord{
	"HKG": {
		name:    "香港國際機場 (HKG)",
		summary: "Passenger traffic recovered strongly through 2024 on long holidays and major international events; Southeast Asia and Japan routes grew fastest.",
		current: []int64{4131000, 4020000, 4350000, 4250000, 4100000, 4320000, 4790000, 4980000, 4210000, 4515000, 4283000, 5106000},
		prior:   []int64{2070000, 2350000, 2810000, 3100000, 3200000, 3300000, 3650000, 3900000, 3350000, 3574000, 3870000, 4316000},
		source:  model.Source{Title: "Airport Authority Hong Kong", URI: "https://www.hongkongairport.com"},
	},
	"TPE": {
		name:    "台灣桃園機場 (TPE)",
		summary: "Travel demand to Japan and Korea and a busy transfer market kept volumes rising; North America transfers grew 15% year on year.",
		current: []int64{3800000, 3950000, 3850000, 3700000, 3800000, 4000000},
		prior:   []int64{2000000, 2200000, 2400000, 2800000, 3000000, 3200000},
		source:  model.Source{Title: "Taoyuan Airport statistics", URI: "https://www.taoyuan-airport.com"},
	},
	"SIN": {
		name:    "新加坡樟宜機場 (SIN)",
		summary: "Visa-free travel brought Chinese visitors back and overall traffic is close to full recovery.",
		current: []int64{5200000, 5100000, 5300000, 5150000, 5250000, 5400000},
		prior:   []int64{4300000, 4000000, 4500000, 4600000, 4700000, 4900000},
		source:  model.Source{Title: "Changi Airport Group", URI: "https://www.changiairport.com"},
	},
	"BKK": {
		name:    "曼谷素萬那普機場 (BKK)",
		summary: "Tourism recovery lifted traffic, led by visitors from India and Russia.",
		current: []int64{4800000, 4900000, 4700000, 4600000, 4500000, 4650000},
		prior:   []int64{3800000, 3900000, 4000000, 3800000, 3700000, 3900000},
		source:  model.Source{Title: "Airports of Thailand", URI: "https://www.airportthai.co.th"},
	},
	"ICN": {
		name:    "首爾仁川機場 (ICN)",
		summary: "Transfer passengers hit a record high and pushed overall volume above forecast.",
		current: []int64{5500000, 5400000, 5200000, 5300000, 5400000, 5600000},
		prior:   []int64{3500000, 3600000, 3800000, 4000000, 4200000, 4500000},
		source:  model.Source{Title: "Incheon Airport Stats", URI: "https://www.airport.kr"},
	},
}

// Demo resolves records from the bundled dataset.
type Demo struct{}

// Resolve returns a fresh copy of the bundled record for (code, year).
func (Demo) Resolve(ctx context.Context, code string, year int) (*model.MonthlyStatistics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	code = model.NormalizeCode(code)
	rec, ok := demoRecords[code]
	if !ok {
		return nil, fmt.Errorf("%w for %s", ErrNoData, code)
	}
	if year != DemoYear {
		return nil, fmt.Errorf("%w for %s %d", ErrNoData, code, year)
	}
	return rec.build(year), nil
}

func (r demoRecord) build(year int) *model.MonthlyStatistics {
	s := &model.MonthlyStatistics{
		AirportName: r.name,
		Summary:     r.summary,
		ChartData:   make([]model.ChartDataPoint, 0, len(r.current)),
		Sources:     []model.Source{r.source},
	}
	for i, v := range r.current {
		p := model.ChartDataPoint{Period: model.Period(year, i), Passengers: v}
		if i < len(r.prior) {
			p.Comparison = model.Int64(r.prior[i])
		}
		s.ChartData = append(s.ChartData, p)
	}
	return s
}
