package beacon

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testEncoder(t *testing.T, path string) *Encoder {
	t.Helper()
	enc, err := NewEncoder(Location{Lat: "3349.50S", Lon: "15112.34E"}, "/_", "Test", path)
	if err != nil {
		t.Fatalf("NewEncoder returned error: %v", err)
	}
	return enc
}

func exampleReading() *Reading {
	return &Reading{
		Timestamp:   time.Unix(1625140800, 0), // 2021-07-01T12:00:00Z
		WindDir:     270,
		WindSpeed:   5.0,
		WindGust:    0,
		OutTemp:     68.0,
		OutHumidity: 55,
		Barometer:   2992.0,
		HourRain:    0,
		Rain24:      0,
		DayRain:     0.15,
	}
}

func TestEncodeExampleLine(t *testing.T) {
	enc := testEncoder(t, "unused")

	want := "@011200z3349.50S/15112.34E_270/005g000t068r000p000P015h55b29920 Test"
	if got := enc.Encode(exampleReading()); got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestEncodeIdempotent(t *testing.T) {
	enc := testEncoder(t, "unused")
	r := exampleReading()

	first := enc.Encode(r)
	second := enc.Encode(r)
	if first != second {
		t.Errorf("repeated Encode of the same reading differs: %q vs %q", first, second)
	}
}

func TestEncodeHumidity(t *testing.T) {
	tests := []struct {
		name     string
		humidity float64
		want     string
	}{
		{"in range", 55, "h55"},
		{"zero", 0, "h00"},
		{"single digit padded", 7, "h07"},
		{"fraction truncated", 99.9, "h99"},
		{"negative forced to zero", -1, "h00"},
		{"exactly 100 forced to zero", 100, "h00"},
		{"above 100 forced to zero", 150, "h00"},
	}

	enc := testEncoder(t, "unused")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := exampleReading()
			r.OutHumidity = tt.humidity
			line := enc.Encode(r)
			if !strings.Contains(line, tt.want) {
				t.Errorf("Encode with humidity %v = %q, want substring %q", tt.humidity, line, tt.want)
			}
		})
	}
}

func TestEncodeRainfallHundredths(t *testing.T) {
	tests := []struct {
		name string
		rain float64
		want string
	}{
		{"zero", 0, "r000"},
		{"hundredths", 0.07, "r007"},
		{"inch and a half", 1.5, "r150"},
		{"just under wrap", 9.99, "r999"},
		// Values of ten units or more widen the field. Known overflow
		// behavior, preserved rather than clamped.
		{"overflow widens field", 10.5, "r1050"},
	}

	enc := testEncoder(t, "unused")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := exampleReading()
			r.HourRain = tt.rain
			line := enc.Encode(r)
			if !strings.Contains(line, tt.want+"p") {
				t.Errorf("Encode with hour rain %v = %q, want field %q", tt.rain, line, tt.want)
			}
		})
	}
}

func TestEncodeNegativeTemperature(t *testing.T) {
	enc := testEncoder(t, "unused")
	r := exampleReading()
	r.OutTemp = -5.7

	line := enc.Encode(r)
	if !strings.Contains(line, "t-05") {
		t.Errorf("Encode with temperature -5.7 = %q, want field t-05", line)
	}
}

func TestEncodeBarometerTenths(t *testing.T) {
	enc := testEncoder(t, "unused")
	r := exampleReading()
	r.Barometer = 1013.2

	line := enc.Encode(r)
	if !strings.Contains(line, "b10132") {
		t.Errorf("Encode with barometer 1013.2 = %q, want field b10132", line)
	}
}

func TestEncodeEmptyNote(t *testing.T) {
	enc, err := NewEncoder(Location{Lat: "3349.50S", Lon: "15112.34E"}, "/_", "", "unused")
	if err != nil {
		t.Fatalf("NewEncoder returned error: %v", err)
	}

	line := enc.Encode(exampleReading())
	if !strings.HasSuffix(line, " ") {
		t.Errorf("line with empty note should keep the trailing space separator: %q", line)
	}
}

func TestNewEncoderRejectsBadSymbol(t *testing.T) {
	for _, symbol := range []string{"", "/", "/_x"} {
		if _, err := NewEncoder(Location{}, symbol, "", "unused"); err == nil {
			t.Errorf("NewEncoder accepted symbol %q, want error", symbol)
		}
	}
}

func TestWriteOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "beacon.txt")
	enc := testEncoder(t, path)

	first := exampleReading()
	if err := enc.Write(first); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	second := exampleReading()
	second.WindDir = 90
	if err := enc.Write(second); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading beacon file: %v", err)
	}

	want := enc.Encode(second) + "\n"
	if string(content) != want {
		t.Errorf("beacon file = %q, want only the latest line %q", content, want)
	}
	if strings.Count(string(content), "\n") != 1 {
		t.Errorf("beacon file should hold exactly one line, got %q", content)
	}
}

func TestWriteFailureLeavesNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "beacon.txt")
	enc := testEncoder(t, path)

	if err := enc.Write(exampleReading()); err == nil {
		t.Fatal("expected write error for missing directory")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("no file should exist after failed write, stat err = %v", err)
	}
}
