package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{filename: filename}
}

// yaml-tagged mirror structs; converted to the internal format on load.
type configYAML struct {
	Station stationYAML `yaml:"station"`
	Beacon  beaconYAML  `yaml:"beacon"`
	Units   unitsYAML   `yaml:"units,omitempty"`
	Archive archiveYAML `yaml:"archive"`
}

type stationYAML struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

type beaconYAML struct {
	Lat                 string `yaml:"lat,omitempty"`
	Lon                 string `yaml:"lon,omitempty"`
	Symbol              string `yaml:"symbol,omitempty"`
	Note                string `yaml:"note,omitempty"`
	Output              string `yaml:"output,omitempty"`
	Binding             string `yaml:"binding,omitempty"`
	DaylightSavingAware bool   `yaml:"daylight_saving_aware,omitempty"`
	Timezone            string `yaml:"timezone,omitempty"`
}

type unitsYAML struct {
	UnitSystem  string `yaml:"unit_system,omitempty"`
	Temperature string `yaml:"temperature,omitempty"`
	Pressure    string `yaml:"pressure,omitempty"`
	Speed       string `yaml:"speed,omitempty"`
	Rain        string `yaml:"rain,omitempty"`
}

type archiveYAML struct {
	Driver           string `yaml:"driver,omitempty"`
	Path             string `yaml:"path,omitempty"`
	ConnectionString string `yaml:"connection_string,omitempty"`
	Table            string `yaml:"table,omitempty"`
	PollInterval     string `yaml:"poll_interval,omitempty"`
}

// LoadConfig loads the complete configuration from the YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	var yamlConfig configYAML
	if err := yaml.Unmarshal(cfgFile, &yamlConfig); err != nil {
		return nil, err
	}

	var pollInterval time.Duration
	if yamlConfig.Archive.PollInterval != "" {
		pollInterval, err = time.ParseDuration(yamlConfig.Archive.PollInterval)
		if err != nil {
			return nil, fmt.Errorf("invalid archive poll_interval: %w", err)
		}
	}

	config := &ConfigData{
		Station: StationData{
			Latitude:  yamlConfig.Station.Latitude,
			Longitude: yamlConfig.Station.Longitude,
		},
		Beacon: BeaconData{
			Lat:                 yamlConfig.Beacon.Lat,
			Lon:                 yamlConfig.Beacon.Lon,
			Symbol:              yamlConfig.Beacon.Symbol,
			Note:                yamlConfig.Beacon.Note,
			Output:              yamlConfig.Beacon.Output,
			Binding:             yamlConfig.Beacon.Binding,
			DaylightSavingAware: yamlConfig.Beacon.DaylightSavingAware,
			Timezone:            yamlConfig.Beacon.Timezone,
		},
		Units: UnitsData{
			UnitSystem:  yamlConfig.Units.UnitSystem,
			Temperature: yamlConfig.Units.Temperature,
			Pressure:    yamlConfig.Units.Pressure,
			Speed:       yamlConfig.Units.Speed,
			Rain:        yamlConfig.Units.Rain,
		},
		Archive: ArchiveData{
			Driver:           yamlConfig.Archive.Driver,
			Path:             yamlConfig.Archive.Path,
			ConnectionString: yamlConfig.Archive.ConnectionString,
			Table:            yamlConfig.Archive.Table,
			PollInterval:     pollInterval,
		},
	}

	config.ApplyDefaults()
	return config, nil
}

// IsReadOnly returns true; YAML files are not modified by the service.
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML providers.
func (y *YAMLProvider) Close() error {
	return nil
}
