package domain

import (
	"math"
	"testing"
	"time"
)

func TestRevisedQuote(t *testing.T) {
	tests := []struct {
		quote Cents
		want  Cents
	}{
		{BGN(35), BGN(28)},
		{BGN(25), BGN(20)},
		{BGN(80), BGN(64)},
		{BGN(12), BGN(10)},
		{Cents(3550), BGN(28)},
	}

	for _, tt := range tests {
		if got := RevisedQuote(tt.quote); got != tt.want {
			t.Fatalf("RevisedQuote(%s): expected %s, got %s", tt.quote, tt.want, got)
		}
	}
}

func TestBasePriceFallsBackForUnknownType(t *testing.T) {
	if got := ServiceType("jet-pack").BasePrice(); got != DefaultBasePrice {
		t.Fatalf("expected default price, got %s", got)
	}
	if got := ServiceTowTruck.BasePrice(); got != BGN(60) {
		t.Fatalf("expected 60 BGN for tow truck, got %s", got)
	}
	for _, st := range ServiceTypes() {
		if !st.Valid() {
			t.Fatalf("%s should be valid", st)
		}
		if st.DefaultMessage() == "" {
			t.Fatalf("%s has no default message", st)
		}
	}
}

func TestStatusTransitions(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusPending, StatusQuoted},
		{StatusQuoted, StatusRevising},
		{StatusRevising, StatusRevised},
		{StatusRevised, StatusPending},
		{StatusRevised, StatusAccepted},
		{StatusAccepted, StatusInProgress},
		{StatusInProgress, StatusCompleted},
		{StatusInProgress, StatusCancelled},
	}
	for _, tt := range allowed {
		if !tt.from.CanTransition(tt.to) {
			t.Fatalf("expected %s -> %s to be allowed", tt.from, tt.to)
		}
	}

	denied := []struct{ from, to Status }{
		{StatusQuoted, StatusPending},
		{StatusRevising, StatusAccepted},
		{StatusCompleted, StatusCancelled},
		{StatusDeclined, StatusPending},
		{StatusAccepted, StatusQuoted},
	}
	for _, tt := range denied {
		if tt.from.CanTransition(tt.to) {
			t.Fatalf("expected %s -> %s to be rejected", tt.from, tt.to)
		}
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	sofia := Location{Lat: 42.6977, Lng: 23.3219}
	plovdiv := Location{Lat: 42.1354, Lng: 24.7453}

	got := HaversineKm(sofia, plovdiv)
	if math.Abs(got-132.5) > 2 {
		t.Fatalf("expected roughly 132 km, got %.1f", got)
	}
}

func TestTravelTimeHasOneSecondFloor(t *testing.T) {
	here := Location{Lat: 42.7, Lng: 23.3}
	if got := TravelTime(here, here, 40); got != time.Second {
		t.Fatalf("expected 1s, got %s", got)
	}

	// 0.01 degrees of latitude is about 1.11 km, 100 s at 40 km/h.
	got := TravelTime(here, here.Offset(0.01, 0), 40)
	if got < 99*time.Second || got > 101*time.Second {
		t.Fatalf("expected about 100s, got %s", got)
	}
}

func TestFormatETA(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00:00"},
		{-time.Second, "00:00:00"},
		{95 * time.Second, "00:01:35"},
		{time.Hour + 2*time.Minute, "01:02:00"},
		{1500 * time.Millisecond, "00:00:02"},
	}
	for _, tt := range tests {
		if got := FormatETA(tt.in); got != tt.want {
			t.Fatalf("FormatETA(%s): expected %s, got %s", tt.in, tt.want, got)
		}
	}
}

func TestInterpolateClampsProgress(t *testing.T) {
	a := Location{Lat: 0, Lng: 0}
	b := Location{Lat: 10, Lng: 20}

	if got := Interpolate(a, b, 0.5); got != (Location{Lat: 5, Lng: 10}) {
		t.Fatalf("unexpected midpoint %+v", got)
	}
	if got := Interpolate(a, b, -1); got != a {
		t.Fatalf("expected start for negative progress, got %+v", got)
	}
	if got := Interpolate(a, b, 2); got != b {
		t.Fatalf("expected end for progress > 1, got %+v", got)
	}
}

func TestGeohashPrecision(t *testing.T) {
	hash := Location{Lat: 42.6977, Lng: 23.3219}.Geohash()
	if len(hash) != 7 {
		t.Fatalf("expected 7 character geohash, got %q", hash)
	}
	if hash[:3] != "sx8" {
		t.Fatalf("expected Sofia to fall in sx8, got %q", hash)
	}
}

func TestCloneDoesNotShareState(t *testing.T) {
	r := Request{
		Employee:  &Employee{ID: 1, Name: "Ivan"},
		Blacklist: []string{"Petar"},
		Declines:  map[string]int{"Ivan": 1},
	}
	c := r.Clone()
	c.Employee.Name = "Changed"
	c.Blacklist[0] = "Changed"
	c.Declines["Ivan"] = 2

	if r.Employee.Name != "Ivan" || r.Blacklist[0] != "Petar" || r.Declines["Ivan"] != 1 {
		t.Fatal("clone mutated the original request")
	}
}
