package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0195c1f2-7a8e-7cc3-9a2b-3f4d5e6f7a8b",
		"0195C1F2-7A8E-7CC3-9A2B-3F4D5E6F7A8B",
	}
	invalid := []string{
		"",
		"not-a-uuid",
		"0195c1f2-7a8e-4cc3-9a2b-3f4d5e6f7a8b", // v4
		"0195c1f27a8e7cc39a2b3f4d5e6f7a8b",
	}
	for _, id := range valid {
		if !IsValidUUID(id) {
			t.Errorf("IsValidUUID(%q) = false, want true", id)
		}
	}
	for _, id := range invalid {
		if IsValidUUID(id) {
			t.Errorf("IsValidUUID(%q) = true, want false", id)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	if _, ok := IsValidDate("2025-03-10"); !ok {
		t.Error("IsValidDate(2025-03-10) = false, want true")
	}
	for _, bad := range []string{"", "10-03-2025", "2025-13-01", "2025-03-10T09:00:00Z"} {
		if _, ok := IsValidDate(bad); ok {
			t.Errorf("IsValidDate(%q) = true, want false", bad)
		}
	}
}

func TestIsValidTimeOfDay(t *testing.T) {
	if _, ok := IsValidTimeOfDay("09:30"); !ok {
		t.Error("IsValidTimeOfDay(09:30) = false, want true")
	}
	for _, bad := range []string{"", "9:30pm", "25:00", "09:61"} {
		if _, ok := IsValidTimeOfDay(bad); ok {
			t.Errorf("IsValidTimeOfDay(%q) = true, want false", bad)
		}
	}
}

func TestIsValidDateTime(t *testing.T) {
	valid := []string{
		"2025-03-10T09:00:00Z",
		"2025-03-10T09:00:00+07:00",
		"2025-03-10T09:00:00.123456789Z",
	}
	for _, s := range valid {
		if _, ok := IsValidDateTime(s); !ok {
			t.Errorf("IsValidDateTime(%q) = false, want true", s)
		}
	}
	for _, bad := range []string{"", "2025-03-10", "2025-03-10 09:00:00"} {
		if _, ok := IsValidDateTime(bad); ok {
			t.Errorf("IsValidDateTime(%q) = true, want false", bad)
		}
	}
}

func TestValidationErrorsToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "date", Message: "date is required"},
		{Field: "reason", Message: "reason is required"},
	}

	m := errs.ToMap()
	if len(m) != 2 {
		t.Fatalf("ToMap() returned %d entries, want 2", len(m))
	}
	if m["date"] != "date is required" {
		t.Errorf("ToMap()[date] = %q", m["date"])
	}
	if errs.Error() == "" {
		t.Error("Error() should describe the failures")
	}
}
