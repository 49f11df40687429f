package validator

import "testing"

func TestCheckAddsErrorOnFailure(t *testing.T) {
	v := New()
	v.Check(false, "title", "must be provided")

	if v.IsValid() {
		t.Fatal("expected validator to be invalid")
	}
	if v.Errors["title"] != "must be provided" {
		t.Errorf("unexpected error message: %q", v.Errors["title"])
	}
}

func TestCheckKeepsFirstError(t *testing.T) {
	v := New()
	v.Check(false, "title", "first message")
	v.Check(false, "title", "second message")

	if v.Errors["title"] != "first message" {
		t.Errorf("expected first message to win, got %q", v.Errors["title"])
	}
}

func TestCheckNotBlank(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"hello", true},
		{"", false},
		{"   ", false},
		{"\t\n", false},
	}

	for _, tt := range tests {
		v := New()
		v.CheckNotBlank(tt.value, "field", "must be provided")
		if v.IsValid() != tt.valid {
			t.Errorf("CheckNotBlank(%q): valid = %v, want %v", tt.value, v.IsValid(), tt.valid)
		}
	}
}

func TestCheckEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"jake@jake.jake", true},
		{"anne@example.com", true},
		{"not-an-email", false},
		{"@missing-local.com", false},
		{"", false},
	}

	for _, tt := range tests {
		v := New()
		v.CheckEmail(tt.email, "must be a valid email address")
		if v.IsValid() != tt.valid {
			t.Errorf("CheckEmail(%q): valid = %v, want %v", tt.email, v.IsValid(), tt.valid)
		}
	}
}
