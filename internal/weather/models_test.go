package weather

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSnapshotTexts(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		snap Snapshot
		temp string
		wind string
		dir  string
	}{
		{"unavailable", Snapshot{}, "N/A", "N/A", "N/A"},
		{"ready", Ready(Reading{TemperatureC: 23.456, WindSpeedKmh: 5.0, WindDirectionDeg: 180}, at), "23.5", "5.0", "180"},
		{"negative", Ready(Reading{TemperatureC: -3.04, WindSpeedKmh: 12.26, WindDirectionDeg: 0}, at), "-3.0", "12.3", "0"},
		{"failed", Failed(ErrDecode, at), "Error", "Error", "Error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.snap.Temperature(); got != tc.temp {
				t.Errorf("temperature: expected %q, got %q", tc.temp, got)
			}
			if got := tc.snap.WindSpeed(); got != tc.wind {
				t.Errorf("wind speed: expected %q, got %q", tc.wind, got)
			}
			if got := tc.snap.WindDirection(); got != tc.dir {
				t.Errorf("wind direction: expected %q, got %q", tc.dir, got)
			}
		})
	}
}

func TestSnapshotView(t *testing.T) {
	v := Failed(errors.New("dial tcp: refused"), time.Time{}).View()
	if v.Status != "failed" || v.Temperature != TextError || v.Error == "" {
		t.Fatalf("unexpected view: %+v", v)
	}
}

func TestSnapshotViewUpdatedAt(t *testing.T) {
	body, err := json.Marshal(Snapshot{}.View())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(body), "updatedAt") {
		t.Fatalf("unavailable snapshot should omit updatedAt, got %s", body)
	}

	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	v := Ready(Reading{TemperatureC: 20}, at).View()
	if v.UpdatedAt == nil || !v.UpdatedAt.Equal(at) {
		t.Fatalf("expected updatedAt %v, got %v", at, v.UpdatedAt)
	}
}
