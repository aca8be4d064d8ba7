// Package config defines the beacon service configuration and the
// providers that load it from YAML files or SQLite databases.
package config

import "time"

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Configuration management
	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure. It is
// loaded once at startup; everything derived from it (unit preference,
// station location) is fixed for the process lifetime.
type ConfigData struct {
	Station StationData `json:"station"`
	Beacon  BeaconData  `json:"beacon"`
	Units   UnitsData   `json:"units,omitempty"`
	Archive ArchiveData `json:"archive"`
}

// StationData holds the station's decimal-degree coordinates, used when
// no preformatted beacon lat/lon strings are configured.
type StationData struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// BeaconData holds the beacon output configuration.
type BeaconData struct {
	Lat                 string `json:"lat,omitempty"`
	Lon                 string `json:"lon,omitempty"`
	Symbol              string `json:"symbol,omitempty"`
	Note                string `json:"note,omitempty"`
	Output              string `json:"output,omitempty"`
	Binding             string `json:"binding,omitempty"`
	DaylightSavingAware bool   `json:"daylight_saving_aware,omitempty"`
	Timezone            string `json:"timezone,omitempty"`
}

// UnitsData holds the target unit configuration: an optional preset name
// plus optional per-group overrides.
type UnitsData struct {
	UnitSystem  string `json:"unit_system,omitempty"`
	Temperature string `json:"temperature,omitempty"`
	Pressure    string `json:"pressure,omitempty"`
	Speed       string `json:"speed,omitempty"`
	Rain        string `json:"rain,omitempty"`
}

// ArchiveData holds the historical-store binding.
type ArchiveData struct {
	Driver           string        `json:"driver,omitempty"`
	Path             string        `json:"path,omitempty"`
	ConnectionString string        `json:"connection_string,omitempty"`
	Table            string        `json:"table,omitempty"`
	PollInterval     time.Duration `json:"poll_interval,omitempty"`
}

// Configuration defaults.
const (
	DefaultSymbol       = "/_"
	DefaultOutput       = "/var/tmp/wxbeacon.txt"
	DefaultBinding      = "loop"
	DefaultPollInterval = 30 * time.Second
)

// ApplyDefaults fills unset fields with their documented defaults.
func (c *ConfigData) ApplyDefaults() {
	if c.Beacon.Symbol == "" {
		c.Beacon.Symbol = DefaultSymbol
	}
	if c.Beacon.Output == "" {
		c.Beacon.Output = DefaultOutput
	}
	if c.Beacon.Binding == "" {
		c.Beacon.Binding = DefaultBinding
	}
	if c.Archive.PollInterval == 0 {
		c.Archive.PollInterval = DefaultPollInterval
	}
}
