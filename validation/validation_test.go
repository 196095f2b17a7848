package validation

import "testing"

func TestRequired(t *testing.T) {
	v := Violations{}
	Required("name", "  ", v)
	Required("email", "a@b.se", v)
	if v["name"] != "required" {
		t.Fatalf("expected required for blank name, got %q", v["name"])
	}
	if _, ok := v["email"]; ok {
		t.Fatalf("unexpected violation for email")
	}
}

func TestEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"anna@example.se", true},
		{"", true}, // left to Required
		{"no-at-sign", false},
		{"a@b", false},
		{"two words@x.se", false},
	}
	for _, tt := range tests {
		v := Violations{}
		Email("email", tt.in, v)
		if got := v.Empty(); got != tt.want {
			t.Errorf("Email(%q) valid=%v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNumbers(t *testing.T) {
	v := Violations{}
	PositiveFloat("hours", 0, v)
	NonNegativeFloat("rate", -1, v)
	RangeFloat("tax_rate", 1.5, 0, 1, v)
	MinLen("items", 0, 1, v)
	want := map[string]string{
		"hours":    "must_be_positive",
		"rate":     "must_not_be_negative",
		"tax_rate": "out_of_range",
		"items":    "too_few",
	}
	for k, code := range want {
		if v[k] != code {
			t.Errorf("%s: got %q want %q", k, v[k], code)
		}
	}
}
