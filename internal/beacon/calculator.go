// Package beacon produces the APRS weather-beacon line: it normalizes
// one observation record into resolved target units, derives rainfall
// accumulators the station did not report, and encodes the result into
// the fixed-width packet format.
package beacon

import (
	"fmt"
	"time"

	"github.com/wxbeacon/wxbeacon/internal/archive"
	"github.com/wxbeacon/wxbeacon/internal/types"
	"github.com/wxbeacon/wxbeacon/internal/units"
)

// Reading is one fully normalized data set, every value already in its
// group's resolved target unit, missing inputs coerced to 0. It lives
// for exactly one beacon cycle.
type Reading struct {
	Timestamp   time.Time
	WindDir     float64
	WindSpeed   float64
	WindGust    float64
	OutTemp     float64
	OutHumidity float64
	Barometer   float64
	HourRain    float64
	Rain24      float64
	DayRain     float64
}

// Calculator turns observation records into Readings. Rainfall
// accumulators absent from the record are summed out of the archive over
// the appropriate trailing window.
type Calculator struct {
	prefs   units.Preference
	store   archive.Store
	dsAware bool
	tz      *time.Location
}

// NewCalculator creates a calculator. store may be nil when every record
// is known to carry its own rainfall accumulators (e.g. the simulator);
// a nil store combined with a missing accumulator is a per-cycle error.
// tz is the station's local zone, used for calendar-based windows.
func NewCalculator(prefs units.Preference, store archive.Store, dsAware bool, tz *time.Location) *Calculator {
	if tz == nil {
		tz = time.Local
	}
	return &Calculator{prefs: prefs, store: store, dsAware: dsAware, tz: tz}
}

// Calculate produces the normalized reading for one observation record.
func (c *Calculator) Calculate(obs *types.Observation) (*Reading, error) {
	system := obs.UnitSystem
	if _, err := units.SystemFromTag(int(system)); err != nil {
		return nil, fmt.Errorf("record at %d: %w", obs.DateTime, err)
	}

	r := &Reading{Timestamp: time.Unix(obs.DateTime, 0).UTC()}

	// Wind direction and humidity carry no unit group.
	r.WindDir = obs.ValueOrZero(types.FieldWindDir)
	r.OutHumidity = obs.ValueOrZero(types.FieldOutHumidity)

	var err error
	if r.WindSpeed, err = c.prefs.ConvertFrom(obs.ValueOrZero(types.FieldWindSpeed), units.GroupSpeed, system); err != nil {
		return nil, fmt.Errorf("converting wind speed: %w", err)
	}
	if r.WindGust, err = c.prefs.ConvertFrom(obs.ValueOrZero(types.FieldWindGust), units.GroupSpeed, system); err != nil {
		return nil, fmt.Errorf("converting wind gust: %w", err)
	}
	if r.OutTemp, err = c.prefs.ConvertFrom(obs.ValueOrZero(types.FieldOutTemp), units.GroupTemperature, system); err != nil {
		return nil, fmt.Errorf("converting temperature: %w", err)
	}
	if r.Barometer, err = c.prefs.ConvertFrom(obs.ValueOrZero(types.FieldBarometer), units.GroupPressure, system); err != nil {
		return nil, fmt.Errorf("converting barometer: %w", err)
	}

	if r.HourRain, err = c.rainfall(obs, types.FieldHourRain, c.windowStart(obs.DateTime, 0, -1)); err != nil {
		return nil, err
	}
	if r.Rain24, err = c.rainfall(obs, types.FieldRain24, c.windowStart(obs.DateTime, -1, 0)); err != nil {
		return nil, err
	}
	if r.DayRain, err = c.rainfall(obs, types.FieldDayRain, c.startOfDay(obs.DateTime)); err != nil {
		return nil, err
	}

	return r, nil
}

// rainfall resolves one accumulator: the record's own value wins when the
// field is present (null counting as 0); otherwise the archive is summed
// over (start, record time]. Either way the result is converted into the
// resolved rain unit.
func (c *Calculator) rainfall(obs *types.Observation, field string, start int64) (float64, error) {
	var v float64
	if obs.Has(field) {
		v = obs.ValueOrZero(field)
	} else {
		if c.store == nil {
			return 0, fmt.Errorf("record lacks %s and no archive store is bound", field)
		}
		sum, err := c.store.SumRainBetween(start, obs.DateTime)
		if err != nil {
			return 0, fmt.Errorf("deriving %s from archive: %w", field, err)
		}
		v = sum
	}

	converted, err := c.prefs.ConvertFrom(v, units.GroupRain, obs.UnitSystem)
	if err != nil {
		return 0, fmt.Errorf("converting %s: %w", field, err)
	}
	return converted, nil
}

// windowStart computes the start of a trailing window ending at ts. In
// daylight-saving-aware mode the delta is applied to the local wall
// clock and renormalized, so a window spanning a DST transition keeps
// its calendar length; otherwise it is a flat seconds subtraction.
func (c *Calculator) windowStart(ts int64, days, hours int) int64 {
	if !c.dsAware {
		return ts + int64(days)*86400 + int64(hours)*3600
	}
	t := time.Unix(ts, 0).In(c.tz)
	year, month, day := t.Date()
	hour, minute, sec := t.Clock()
	return time.Date(year, month, day+days, hour+hours, minute, sec, 0, c.tz).Unix()
}

// startOfDay returns local midnight of the record's day. This is always
// calendar-based, independent of the daylight-saving-aware flag.
func (c *Calculator) startOfDay(ts int64) int64 {
	t := time.Unix(ts, 0).In(c.tz)
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, c.tz).Unix()
}
