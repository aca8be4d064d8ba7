package types

import (
	"github.com/wxbeacon/wxbeacon/internal/units"
)

// Well-known observation field names. Station drivers and the archive
// share this vocabulary; any field may be absent or null on a given
// record.
const (
	FieldWindDir     = "windDir"
	FieldWindSpeed   = "windSpeed"
	FieldWindGust    = "windGust"
	FieldOutTemp     = "outTemp"
	FieldOutHumidity = "outHumidity"
	FieldBarometer   = "barometer"
	FieldHourRain    = "hourRain"
	FieldRain24      = "rain24"
	FieldDayRain     = "dayRain"
	FieldRain        = "rain"
)

// Observation is a single weather record as delivered by a station
// driver or read back from the archive: a timestamp, the unit system its
// values are expressed in, and a sparse set of named numeric fields.
// A nil field value means the station reported the field but had no
// reading for it. Observations are read-only and live for one event.
type Observation struct {
	DateTime   int64
	UnitSystem units.System
	Fields     map[string]*float64
}

// NewObservation returns an empty observation for the given timestamp
// and unit system.
func NewObservation(dateTime int64, system units.System) *Observation {
	return &Observation{
		DateTime:   dateTime,
		UnitSystem: system,
		Fields:     make(map[string]*float64),
	}
}

// Set records a field value.
func (o *Observation) Set(name string, v float64) {
	o.Fields[name] = &v
}

// SetNull records a field as present but without a reading.
func (o *Observation) SetNull(name string) {
	o.Fields[name] = nil
}

// Has reports whether the record carries the field at all, even as null.
func (o *Observation) Has(name string) bool {
	_, ok := o.Fields[name]
	return ok
}

// ValueOrZero returns the field's value, substituting 0 when the field
// is absent or null.
func (o *Observation) ValueOrZero(name string) float64 {
	if v, ok := o.Fields[name]; ok && v != nil {
		return *v
	}
	return 0
}
