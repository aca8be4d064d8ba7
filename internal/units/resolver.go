package units

import "github.com/wxbeacon/wxbeacon/internal/log"

// Options carries the operator's unit configuration: an optional named
// preset plus optional per-group overrides. Empty strings mean unset.
type Options struct {
	System      string
	Temperature string
	Pressure    string
	Speed       string
	Rain        string
}

func (o Options) override(g Group) string {
	switch g {
	case GroupTemperature:
		return o.Temperature
	case GroupPressure:
		return o.Pressure
	case GroupSpeed:
		return o.Speed
	case GroupRain:
		return o.Rain
	}
	return ""
}

// Preference holds the resolved target unit per group. A group with no
// entry is unresolved: values stay in the record's native unit.
type Preference struct {
	targets map[Group]Unit
}

// Target returns the resolved unit for g, if any.
func (p Preference) Target(g Group) (Unit, bool) {
	u, ok := p.targets[g]
	return u, ok
}

// ConvertFrom converts v, a group-g value native to system s, into the
// group's resolved target unit. Unresolved groups pass through unchanged.
func (p Preference) ConvertFrom(v float64, g Group, s System) (float64, error) {
	target, ok := p.targets[g]
	if !ok {
		return v, nil
	}
	return Convert(v, NativeUnit(s, g), target)
}

// Resolve builds a Preference from configuration. Precedence per group:
// a valid explicit override, then the named preset's unit, then
// unresolved. Invalid overrides and unknown preset names are logged and
// treated as absent, never fatal.
func Resolve(opts Options) Preference {
	var preset *System
	if opts.System != "" {
		s, err := SystemFromName(opts.System)
		if err != nil {
			log.Errorf("ignoring unit_system: %v", err)
		} else {
			preset = &s
		}
	}

	targets := make(map[Group]Unit)
	for _, g := range Groups {
		if override := opts.override(g); override != "" {
			u := Unit(override)
			if ValidUnit(g, u) {
				targets[g] = u
				continue
			}
			log.Errorf("ignoring invalid %s unit %q", g, override)
		}
		if preset != nil {
			targets[g] = NativeUnit(*preset, g)
		}
	}
	return Preference{targets: targets}
}
