package spacex

import (
	"testing"
	"time"
)

func TestUTCToLocal(t *testing.T) {
	edt := time.FixedZone("EDT", -4*60*60)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trailing Z", input: "2020-05-30T19:22:00.000Z", want: "2020-05-30T15:22:00"},
		{name: "without Z", input: "2020-05-30T19:22:00.000", want: "2020-05-30T15:22:00"},
		{name: "microseconds", input: "2020-05-30T19:22:00.123456Z", want: "2020-05-30T15:22:00"},
		{name: "single fraction digit", input: "2006-03-24T22:30:00.5Z", want: "2006-03-24T18:30:00"},
		{name: "crosses midnight", input: "2021-01-01T02:00:00.000Z", want: "2020-12-31T22:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UTCToLocal(tt.input, edt)
			if err != nil {
				t.Fatalf("UTCToLocal(%q) failed: %v", tt.input, err)
			}
			if got.Format("2006-01-02T15:04:05") != tt.want {
				t.Errorf("UTCToLocal(%q) = %s, want %s", tt.input, got.Format("2006-01-02T15:04:05"), tt.want)
			}
			if got.Location() != edt {
				t.Errorf("Expected result in the requested location, got %v", got.Location())
			}
			_, offset := got.Zone()
			if offset != -4*60*60 {
				t.Errorf("Expected UTC-4 offset, got %d", offset)
			}
		})
	}
}

func TestUTCToLocal_SameInstant(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)

	local, err := UTCToLocal("2020-05-30T19:22:00.000Z", tokyo)
	if err != nil {
		t.Fatalf("UTCToLocal() failed: %v", err)
	}

	want := time.Date(2020, 5, 30, 19, 22, 0, 0, time.UTC)
	if !local.Equal(want) {
		t.Errorf("Converted time %v is not the same instant as %v", local, want)
	}
	if local.UTC().Format(time.RFC3339) != "2020-05-30T19:22:00Z" {
		t.Errorf("Round trip to UTC gave %s", local.UTC().Format(time.RFC3339))
	}
}

func TestUTCToLocal_DefaultsToProcessLocation(t *testing.T) {
	got, err := UTCToLocal("2020-05-30T19:22:00.000Z", nil)
	if err != nil {
		t.Fatalf("UTCToLocal() failed: %v", err)
	}
	if got.Location() != time.Local {
		t.Errorf("Expected time.Local, got %v", got.Location())
	}
}

func TestParseWireTime_Invalid(t *testing.T) {
	inputs := []string{
		"",
		"2020-05-30T19:22:00Z",
		"2020-05-30T19:22:00.Z",
		"2020-05-30T19:22:00.1234567Z",
		"2020-05-30 19:22:00.000Z",
		"2020-05-30T19:22:00.00aZ",
		"2020-05-30T19:22:00.000+02:00",
		"not a date",
	}

	for _, input := range inputs {
		if _, err := ParseWireTime(input); err == nil {
			t.Errorf("ParseWireTime(%q) should fail", input)
		}
	}
}

func TestParseWireTime_IsUTC(t *testing.T) {
	got, err := ParseWireTime("2020-05-30T19:22:00.250")
	if err != nil {
		t.Fatalf("ParseWireTime() failed: %v", err)
	}
	if got.Location() != time.UTC {
		t.Errorf("Expected UTC, got %v", got.Location())
	}
	if got.Nanosecond() != 250000000 {
		t.Errorf("Expected 250ms fraction, got %dns", got.Nanosecond())
	}
}
