package beacon

import (
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/wxbeacon/wxbeacon/internal/types"
	"github.com/wxbeacon/wxbeacon/internal/units"
)

// fakeStore records rainfall-sum queries and returns canned results.
type fakeStore struct {
	sum    float64
	sumErr error
	calls  [][2]int64
}

func (f *fakeStore) CheckSchema() error { return nil }

func (f *fakeStore) SumRainBetween(start, stop int64) (float64, error) {
	f.calls = append(f.calls, [2]int64{start, stop})
	return f.sum, f.sumErr
}

func (f *fakeStore) ObservationsSince(ts int64) ([]*types.Observation, error) { return nil, nil }
func (f *fakeStore) LatestTimestamp() (int64, error)                          { return 0, nil }
func (f *fakeStore) Close() error                                             { return nil }

const exampleTime = int64(1625140800) // 2021-07-01T12:00:00Z

func fullRecord() *types.Observation {
	obs := types.NewObservation(exampleTime, units.US)
	obs.Set(types.FieldWindDir, 270)
	obs.Set(types.FieldWindSpeed, 5.0)
	obs.Set(types.FieldWindGust, 8.0)
	obs.Set(types.FieldOutTemp, 68.0)
	obs.Set(types.FieldOutHumidity, 55)
	obs.Set(types.FieldBarometer, 29.92)
	obs.Set(types.FieldHourRain, 0.05)
	obs.Set(types.FieldRain24, 0.3)
	obs.Set(types.FieldDayRain, 0.15)
	return obs
}

func TestCalculateRecordValuesWinOverArchive(t *testing.T) {
	store := &fakeStore{sum: 99}
	calc := NewCalculator(units.Resolve(units.Options{}), store, false, time.UTC)

	r, err := calc.Calculate(fullRecord())
	if err != nil {
		t.Fatalf("Calculate returned error: %v", err)
	}

	if len(store.calls) != 0 {
		t.Errorf("archive queried %d times, want 0 when the record carries all accumulators", len(store.calls))
	}
	if r.HourRain != 0.05 || r.Rain24 != 0.3 || r.DayRain != 0.15 {
		t.Errorf("rainfall = %v/%v/%v, want record values 0.05/0.3/0.15", r.HourRain, r.Rain24, r.DayRain)
	}
}

func TestCalculateMissingFieldsSubstituteZero(t *testing.T) {
	obs := types.NewObservation(exampleTime, units.US)
	obs.Set(types.FieldHourRain, 0)
	obs.Set(types.FieldRain24, 0)
	obs.Set(types.FieldDayRain, 0)
	obs.SetNull(types.FieldOutHumidity)

	calc := NewCalculator(units.Resolve(units.Options{}), nil, false, time.UTC)
	r, err := calc.Calculate(obs)
	if err != nil {
		t.Fatalf("Calculate returned error: %v", err)
	}

	if r.WindDir != 0 || r.WindSpeed != 0 || r.WindGust != 0 || r.OutTemp != 0 ||
		r.OutHumidity != 0 || r.Barometer != 0 {
		t.Errorf("absent and null fields must read as zero, got %+v", r)
	}
	if !r.Timestamp.Equal(time.Unix(exampleTime, 0)) {
		t.Errorf("timestamp = %v, want %v", r.Timestamp, time.Unix(exampleTime, 0))
	}
}

func TestCalculateConvertsToResolvedUnits(t *testing.T) {
	obs := fullRecord()
	calc := NewCalculator(units.Resolve(units.Options{System: "METRIC"}), nil, false, time.UTC)

	r, err := calc.Calculate(obs)
	if err != nil {
		t.Fatalf("Calculate returned error: %v", err)
	}

	if got, want := r.OutTemp, 20.0; !approx(got, want) {
		t.Errorf("temperature = %v degree_C, want %v", got, want)
	}
	if got, want := r.WindSpeed, 5*1.609344; !approx(got, want) {
		t.Errorf("wind speed = %v km/h, want %v", got, want)
	}
	if got, want := r.Barometer, 29.92*33.8638866666667; !approx(got, want) {
		t.Errorf("barometer = %v mbar, want %v", got, want)
	}
	if got, want := r.DayRain, 0.15*2.54; !approx(got, want) {
		t.Errorf("day rain = %v cm, want %v", got, want)
	}
	// Wind direction and humidity have no unit group.
	if r.WindDir != 270 || r.OutHumidity != 55 {
		t.Errorf("windDir/humidity converted unexpectedly: %v / %v", r.WindDir, r.OutHumidity)
	}
}

func TestCalculateArchiveFallbackFlatWindows(t *testing.T) {
	store := &fakeStore{sum: 0.25}
	calc := NewCalculator(units.Resolve(units.Options{}), store, false, time.UTC)

	obs := types.NewObservation(exampleTime, units.US)
	r, err := calc.Calculate(obs)
	if err != nil {
		t.Fatalf("Calculate returned error: %v", err)
	}

	wantCalls := [][2]int64{
		{exampleTime - 3600, exampleTime},  // hourRain
		{exampleTime - 86400, exampleTime}, // rain24
		{1625097600, exampleTime},          // dayRain: 2021-07-01T00:00:00Z
	}
	if len(store.calls) != len(wantCalls) {
		t.Fatalf("archive queried %d times, want %d", len(store.calls), len(wantCalls))
	}
	for i, want := range wantCalls {
		if store.calls[i] != want {
			t.Errorf("query %d window = %v, want %v", i, store.calls[i], want)
		}
	}
	if r.HourRain != 0.25 || r.Rain24 != 0.25 || r.DayRain != 0.25 {
		t.Errorf("derived rainfall = %v/%v/%v, want archive sum 0.25 each", r.HourRain, r.Rain24, r.DayRain)
	}
}

func TestCalculateDaylightSavingAwareWindows(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("loading timezone: %v", err)
	}

	// Noon EDT the day the US springs forward: the previous calendar
	// day at the same wall clock is only 23 real hours earlier.
	ts := time.Date(2021, time.March, 14, 12, 0, 0, 0, ny).Unix()

	aware := &fakeStore{}
	calcAware := NewCalculator(units.Resolve(units.Options{}), aware, true, ny)
	if _, err := calcAware.Calculate(types.NewObservation(ts, units.US)); err != nil {
		t.Fatalf("Calculate returned error: %v", err)
	}

	flat := &fakeStore{}
	calcFlat := NewCalculator(units.Resolve(units.Options{}), flat, false, ny)
	if _, err := calcFlat.Calculate(types.NewObservation(ts, units.US)); err != nil {
		t.Fatalf("Calculate returned error: %v", err)
	}

	wantAwareDayStart := time.Date(2021, time.March, 13, 12, 0, 0, 0, ny).Unix()
	if aware.calls[1][0] != wantAwareDayStart {
		t.Errorf("aware 24h window start = %d, want %d", aware.calls[1][0], wantAwareDayStart)
	}
	if flat.calls[1][0] != ts-86400 {
		t.Errorf("flat 24h window start = %d, want %d", flat.calls[1][0], ts-86400)
	}
	// Spring forward swallows an hour: the calendar-day window is 3600s
	// shorter than the flat one.
	if aware.calls[1][0] != flat.calls[1][0]+3600 {
		t.Errorf("aware day window start %d should trail flat start %d by exactly one hour",
			aware.calls[1][0], flat.calls[1][0])
	}

	// Since-midnight is calendar-based regardless of the flag.
	wantMidnight := time.Date(2021, time.March, 14, 0, 0, 0, 0, ny).Unix()
	if aware.calls[2][0] != wantMidnight {
		t.Errorf("aware midnight start = %d, want %d", aware.calls[2][0], wantMidnight)
	}
	if flat.calls[2][0] != wantMidnight {
		t.Errorf("flat midnight start = %d, want %d", flat.calls[2][0], wantMidnight)
	}
}

func TestCalculateFallbackConverted(t *testing.T) {
	// Archive sums arrive in the record's native rain unit (cm for
	// METRIC) and must pass through the same conversion as record
	// values.
	store := &fakeStore{sum: 2.54}
	calc := NewCalculator(units.Resolve(units.Options{Rain: "inch"}), store, false, time.UTC)

	obs := types.NewObservation(exampleTime, units.Metric)
	r, err := calc.Calculate(obs)
	if err != nil {
		t.Fatalf("Calculate returned error: %v", err)
	}

	if !approx(r.DayRain, 1.0) {
		t.Errorf("day rain = %v inch, want 1.0 from 2.54 cm", r.DayRain)
	}
}

func TestCalculateStoreErrorAbandonsCycle(t *testing.T) {
	store := &fakeStore{sumErr: errors.New("database is locked")}
	calc := NewCalculator(units.Resolve(units.Options{}), store, false, time.UTC)

	if _, err := calc.Calculate(types.NewObservation(exampleTime, units.US)); err == nil {
		t.Error("expected error when the archive is unreachable")
	}
}

func TestCalculateNoStoreNoRainfall(t *testing.T) {
	calc := NewCalculator(units.Resolve(units.Options{}), nil, false, time.UTC)

	if _, err := calc.Calculate(types.NewObservation(exampleTime, units.US)); err == nil {
		t.Error("expected error when rainfall must be derived but no store is bound")
	}
}

func TestCalculateRejectsUnknownUnitSystem(t *testing.T) {
	calc := NewCalculator(units.Resolve(units.Options{}), &fakeStore{}, false, time.UTC)

	obs := types.NewObservation(exampleTime, units.System(0x42))
	if _, err := calc.Calculate(obs); err == nil {
		t.Error("expected error for unrecognized unit system tag")
	}
}

func approx(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}
