package beacon

import (
	"bytes"
	"fmt"
	"os"
)

// Encoder serializes normalized readings into the fixed-width APRS
// weather-beacon line and overwrites the output file with it.
type Encoder struct {
	location Location
	symTable byte
	symCode  byte
	note     string
	path     string
}

// NewEncoder validates the symbol pair and builds an encoder. symbol
// must be exactly two characters: symbol-table selector then symbol code.
func NewEncoder(location Location, symbol, note, path string) (*Encoder, error) {
	if len(symbol) != 2 {
		return nil, fmt.Errorf("APRS symbol must be exactly two characters, got %q", symbol)
	}
	return &Encoder{
		location: location,
		symTable: symbol[0],
		symCode:  symbol[1],
		note:     note,
		path:     path,
	}, nil
}

// Encode renders the beacon line, without the trailing newline:
//
//	@DDHHMMz<lat><sym><lon><sym>ddd/sssgggttt rrr ppp PPP hh bbbbb note
//
// Values wider than their fixed field (temperature beyond three digits,
// rainfall of ten resolved units or more) widen the field rather than
// being clamped; that overflow behavior is deliberate.
func (e *Encoder) Encode(r *Reading) string {
	var buffer bytes.Buffer

	// Date-time of the reading, always Zulu.
	ts := r.Timestamp.UTC()
	fmt.Fprintf(&buffer, "@%02d%02d%02dz", ts.Day(), ts.Hour(), ts.Minute())

	buffer.WriteString(e.location.Lat)
	buffer.WriteByte(e.symTable)
	buffer.WriteString(e.location.Lon)
	buffer.WriteByte(e.symCode)

	// Wind direction and speed, then gust.
	fmt.Fprintf(&buffer, "%03d", int(r.WindDir))
	fmt.Fprintf(&buffer, "/%03d", int(r.WindSpeed))
	fmt.Fprintf(&buffer, "g%03d", int(r.WindGust))

	// Temperature, truncated toward zero.
	fmt.Fprintf(&buffer, "t%03d", int(r.OutTemp))

	// The three rainfall accumulators, in hundredths of the resolved unit.
	fmt.Fprintf(&buffer, "r%03d", int(r.HourRain*100))
	fmt.Fprintf(&buffer, "p%03d", int(r.Rain24*100))
	fmt.Fprintf(&buffer, "P%03d", int(r.DayRain*100))

	// Humidity; anything outside [0, 100) encodes as zero.
	humidity := r.OutHumidity
	if humidity < 0 || humidity >= 100 {
		humidity = 0
	}
	fmt.Fprintf(&buffer, "h%02d", int(humidity))

	// Barometer in tenths of the resolved unit.
	fmt.Fprintf(&buffer, "b%05d", int(r.Barometer*10))

	buffer.WriteString(" " + e.note)

	return buffer.String()
}

// Write overwrites the output file with the encoded line plus a
// terminating newline. There is no locking or atomic rename; a concurrent
// reader may observe a partial write.
func (e *Encoder) Write(r *Reading) error {
	line := e.Encode(r) + "\n"
	if err := os.WriteFile(e.path, []byte(line), 0o644); err != nil {
		return fmt.Errorf("writing beacon file %s: %w", e.path, err)
	}
	return nil
}

// Path returns the configured output file path.
func (e *Encoder) Path() string {
	return e.path
}
