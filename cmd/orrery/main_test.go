package main

import (
	"testing"
	"time"
)

func TestParseJDEorTime(t *testing.T) {
	for in, want := range map[string]time.Time{
		"2451545.0":           time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
		"2024-03-01 06:30:00": time.Date(2024, 3, 1, 6, 30, 0, 0, time.UTC),
		"2024-03-01":          time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	} {
		got, err := parseJDEorTime(in)
		if err != nil {
			t.Fatal(err)
		}
		if d := got.Sub(want); d > time.Millisecond || d < -time.Millisecond {
			t.Fatalf("%s parsed as %s, want %s", in, got, want)
		}
	}
	if _, err := parseJDEorTime("yesterday"); err == nil {
		t.Fatal("expected an error")
	}
	if dt, err := parseJDEorTime(""); err != nil || time.Since(dt) > time.Minute {
		t.Fatalf("empty date should be now: %s (%v)", dt, err)
	}
}
