package telematics

import (
	"testing"
)

func TestRegFromTopic(t *testing.T) {
	tests := []struct {
		topic string
		want  string
	}{
		{"fleet/gps/ND%20100-001", "ND 100-001"},
		{"fleet/gps/CA99", "CA99"},
		{"fleet/gps/", ""},
		{"noslash", ""},
	}
	for _, tt := range tests {
		if got := RegFromTopic(tt.topic); got != tt.want {
			t.Errorf("RegFromTopic(%q) = %q, want %q", tt.topic, got, tt.want)
		}
	}
}

func TestDecodePing(t *testing.T) {
	payload := []byte(`{"lat":-29.8587,"lon":31.0218,"speed":82.5,"heading":310,"ignition":true,"signal_quality":0.92,"location":"N3 Marianhill Toll"}`)
	ping, location, err := DecodePing("ND 100-001", payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ping.RegNumber != "ND 100-001" || ping.Latitude != -29.8587 || ping.Longitude != 31.0218 {
		t.Errorf("ping = %+v", ping)
	}
	if !ping.Ignition || ping.Speed != 82.5 {
		t.Errorf("ping = %+v", ping)
	}
	if ping.Source != "tracker" {
		t.Errorf("source = %q, want default tracker", ping.Source)
	}
	if location != "N3 Marianhill Toll" {
		t.Errorf("location = %q", location)
	}
}

func TestDecodePingRejectsJunk(t *testing.T) {
	if _, _, err := DecodePing("X", []byte("not json")); err == nil {
		t.Error("malformed payload should fail")
	}
	// A zeroed fix is tracker noise, not a position.
	if _, _, err := DecodePing("X", []byte(`{"lat":0,"lon":0}`)); err == nil {
		t.Error("zero coordinates should fail")
	}
}
