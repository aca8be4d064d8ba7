// Package units models the measurement groups carried in a weather
// observation and conversion between the units each group can be
// expressed in. Incoming records tag their values with a unit system
// (US, METRIC or METRICWX); the tables here map that tag to a concrete
// native unit per group and convert to whatever target the operator
// resolved at startup.
package units

import "fmt"

// Group is a category of physical quantity sharing a convertible unit set.
type Group int

const (
	GroupTemperature Group = iota
	GroupPressure
	GroupSpeed
	GroupRain
)

func (g Group) String() string {
	switch g {
	case GroupTemperature:
		return "temperature"
	case GroupPressure:
		return "pressure"
	case GroupSpeed:
		return "speed"
	case GroupRain:
		return "rain"
	}
	return "unknown"
}

// Groups lists all measurement groups in a stable order.
var Groups = []Group{GroupTemperature, GroupPressure, GroupSpeed, GroupRain}

// System identifies the unit system an observation record's values are
// expressed in. The numeric values match the usUnits tags found in
// WeeWX-style archive tables.
type System int

const (
	US       System = 0x01
	Metric   System = 0x10
	MetricWX System = 0x11
)

func (s System) String() string {
	switch s {
	case US:
		return "US"
	case Metric:
		return "METRIC"
	case MetricWX:
		return "METRICWX"
	}
	return fmt.Sprintf("unknown(0x%02x)", int(s))
}

// SystemFromTag maps a record's usUnits tag to a System.
func SystemFromTag(tag int) (System, error) {
	switch System(tag) {
	case US, Metric, MetricWX:
		return System(tag), nil
	}
	return 0, fmt.Errorf("unrecognized unit system tag %d", tag)
}

// SystemFromName maps a configured unit-system preset name to a System.
func SystemFromName(name string) (System, error) {
	switch name {
	case "US":
		return US, nil
	case "METRIC":
		return Metric, nil
	case "METRICWX":
		return MetricWX, nil
	}
	return 0, fmt.Errorf("unrecognized unit system %q", name)
}

// Unit is a unit symbol, e.g. "degree_C" or "mile_per_hour".
type Unit string

const (
	DegreeF Unit = "degree_F"
	DegreeC Unit = "degree_C"

	InHg Unit = "inHg"
	Mbar Unit = "mbar"
	HPa  Unit = "hPa"
	KPa  Unit = "kPa"

	MilePerHour    Unit = "mile_per_hour"
	KmPerHour      Unit = "km_per_hour"
	Knot           Unit = "knot"
	MeterPerSecond Unit = "meter_per_second"

	Inch Unit = "inch"
	Cm   Unit = "cm"
	Mm   Unit = "mm"
)

// groupUnits lists the valid units per group. The first entry is the
// group's base unit used as the conversion pivot.
var groupUnits = map[Group][]Unit{
	GroupTemperature: {DegreeC, DegreeF},
	GroupPressure:    {Mbar, InHg, HPa, KPa},
	GroupSpeed:       {KmPerHour, MilePerHour, Knot, MeterPerSecond},
	GroupRain:        {Mm, Inch, Cm},
}

// ValidUnit reports whether u belongs to g's unit set.
func ValidUnit(g Group, u Unit) bool {
	for _, candidate := range groupUnits[g] {
		if candidate == u {
			return true
		}
	}
	return false
}

// nativeUnits maps (system, group) to the unit values arrive in.
var nativeUnits = map[System]map[Group]Unit{
	US: {
		GroupTemperature: DegreeF,
		GroupPressure:    InHg,
		GroupSpeed:       MilePerHour,
		GroupRain:        Inch,
	},
	Metric: {
		GroupTemperature: DegreeC,
		GroupPressure:    Mbar,
		GroupSpeed:       KmPerHour,
		GroupRain:        Cm,
	},
	MetricWX: {
		GroupTemperature: DegreeC,
		GroupPressure:    Mbar,
		GroupSpeed:       MeterPerSecond,
		GroupRain:        Mm,
	},
}

// NativeUnit returns the unit that system expresses group in.
func NativeUnit(s System, g Group) Unit {
	return nativeUnits[s][g]
}

// conversion describes a unit as an affine transform to its group's base
// unit: base = value*scale + offset. Only temperature needs the offset.
type conversion struct {
	scale  float64
	offset float64
}

var toBase = map[Unit]conversion{
	DegreeC: {1, 0},
	DegreeF: {5.0 / 9.0, -160.0 / 9.0},

	Mbar: {1, 0},
	InHg: {33.8638866666667, 0},
	HPa:  {1, 0},
	KPa:  {10, 0},

	KmPerHour:      {1, 0},
	MilePerHour:    {1.609344, 0},
	Knot:           {1.852, 0},
	MeterPerSecond: {3.6, 0},

	Mm:   {1, 0},
	Inch: {25.4, 0},
	Cm:   {10, 0},
}

// Convert converts v from one unit to another within the same group.
func Convert(v float64, from, to Unit) (float64, error) {
	if from == to {
		return v, nil
	}
	f, ok := toBase[from]
	if !ok {
		return 0, fmt.Errorf("unknown unit %q", from)
	}
	t, ok := toBase[to]
	if !ok {
		return 0, fmt.Errorf("unknown unit %q", to)
	}
	base := v*f.scale + f.offset
	return (base - t.offset) / t.scale, nil
}
