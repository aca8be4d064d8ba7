package beacon

import (
	"fmt"
	"math"
)

// Location holds the station position as preformatted APRS strings:
// ddmm.mmH latitude and dddmm.mmH longitude.
type Location struct {
	Lat string
	Lon string
}

// FormatLatitude renders a decimal-degree latitude as an APRS ddmm.mmH
// string: two-digit degrees, two-digit whole minutes, hundredths of a
// minute, hemisphere letter.
func FormatLatitude(deg float64) string {
	degrees, minutes, hundredths := splitDegrees(deg)
	hemi := "N"
	if deg < 0 {
		hemi = "S"
	}
	return fmt.Sprintf("%02d%02d.%02d%s", degrees, minutes, hundredths, hemi)
}

// FormatLongitude renders a decimal-degree longitude as an APRS
// dddmm.mmH string.
func FormatLongitude(deg float64) string {
	degrees, minutes, hundredths := splitDegrees(deg)
	hemi := "E"
	if deg < 0 {
		hemi = "W"
	}
	return fmt.Sprintf("%03d%02d.%02d%s", degrees, minutes, hundredths, hemi)
}

func splitDegrees(deg float64) (int, int, int) {
	frac, degrees := math.Modf(math.Abs(deg))
	fracMinutes, minutes := math.Modf(frac * 60.0)
	return int(degrees), int(minutes), int(fracMinutes * 100.0)
}

// ResolveLocation builds the station location once at startup. Non-empty
// configured strings are used verbatim; otherwise the strings are
// derived from the station's decimal-degree coordinates.
func ResolveLocation(latStr, lonStr string, latDeg, lonDeg float64) Location {
	loc := Location{Lat: latStr, Lon: lonStr}
	if loc.Lat == "" {
		loc.Lat = FormatLatitude(latDeg)
	}
	if loc.Lon == "" {
		loc.Lon = FormatLongitude(lonDeg)
	}
	return loc
}
