package types

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func boolPtr(b bool) *bool { return &b }

func TestLaunch_Outcome(t *testing.T) {
	tests := []struct {
		name    string
		success *bool
		want    string
	}{
		{name: "successful launch", success: boolPtr(true), want: OutcomeSuccess},
		{name: "failed launch", success: boolPtr(false), want: OutcomeFailure},
		{name: "upcoming launch", success: nil, want: OutcomeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			launch := Launch{ID: "l1", Success: tt.success}
			if got := launch.Outcome(); got != tt.want {
				t.Errorf("Outcome() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLaunch_DetailsText(t *testing.T) {
	launch := Launch{}
	if got := launch.DetailsText(); got != "" {
		t.Errorf("Expected empty details for nil pointer, got %q", got)
	}

	details := "Engine failure at T+33 seconds"
	launch.Details = &details
	if got := launch.DetailsText(); got != details {
		t.Errorf("DetailsText() = %q, want %q", got, details)
	}
}

func TestLaunch_JSONKeepsNullOutcome(t *testing.T) {
	launch := Launch{
		ID:        "5eb87d46ffd86e000604b388",
		Rocket:    Rocket{ID: "r1", Name: "Falcon 9", Active: true, Type: "rocket"},
		Launchpad: Launchpad{ID: "p1", Name: "KSC LC 39A", Status: "active"},
		Date:      time.Date(2020, 5, 30, 19, 22, 0, 0, time.UTC),
	}

	data, err := json.Marshal(launch)
	if err != nil {
		t.Fatalf("Failed to marshal Launch: %v", err)
	}

	if !strings.Contains(string(data), `"success":null`) {
		t.Errorf("Expected null success in %s", data)
	}
	if !strings.Contains(string(data), `"details":null`) {
		t.Errorf("Expected null details in %s", data)
	}

	var decoded Launch
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal Launch: %v", err)
	}
	if decoded.Success != nil {
		t.Errorf("Expected nil success after round trip, got %v", *decoded.Success)
	}
	if decoded.Rocket.Name != "Falcon 9" {
		t.Errorf("Rocket name mismatch: got %v", decoded.Rocket.Name)
	}
	if !decoded.Date.Equal(launch.Date) {
		t.Errorf("Date mismatch: got %v, want %v", decoded.Date, launch.Date)
	}
}
