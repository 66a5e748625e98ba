package core

import "testing"

// TestValidateAmountAccepts tests that well-formed decimal text, including
// mid-typing states, is accepted with the raw text preserved.
func TestValidateAmountAccepts(t *testing.T) {
	cases := []string{
		"",
		"0",
		"12",
		"12.5",
		"12,5",
		".5",
		",5",
		"5.",
		"5,",
		"0.000001",
		"1000000000000000000.000000000000000001",
	}

	for _, raw := range cases {
		accepted, normalized := ValidateAmount(raw)
		if !accepted {
			t.Errorf("ValidateAmount(%q): rejected, want accepted", raw)
			continue
		}
		if normalized != raw {
			t.Errorf("ValidateAmount(%q): normalized to %q, want raw text preserved", raw, normalized)
		}
	}
}

// TestValidateAmountRejects tests that anything not matching the decimal
// pattern is rejected.
func TestValidateAmountRejects(t *testing.T) {
	cases := []string{
		"12a",
		"1.2.3",
		"1,2,3",
		"1.2,3",
		"-5",
		"+5",
		"1e5",
		" 12",
		"12 ",
		"abc",
		"12.5x",
	}

	for _, raw := range cases {
		if accepted, _ := ValidateAmount(raw); accepted {
			t.Errorf("ValidateAmount(%q): accepted, want rejected", raw)
		}
	}
}

// TestParseAmount tests submission-time coercion: empty and bare separator
// coerce to zero, commas normalize, precision survives.
func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", "0"},
		{".", "0"},
		{",", "0"},
		{"0", "0"},
		{"5.", "5"},
		{"12.5", "12.5"},
		{"12,5", "12.5"},
		{".5", "0.5"},
		{"0.000000000000000001", "0.000000000000000001"},
	}

	for _, tt := range tests {
		got, err := ParseAmount(tt.raw)
		if err != nil {
			t.Errorf("ParseAmount(%q): unexpected error %v", tt.raw, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("ParseAmount(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}

	if _, err := ParseAmount("1.2.3"); err != ErrAmountInvalid {
		t.Errorf("ParseAmount(\"1.2.3\"): got %v, want ErrAmountInvalid", err)
	}
}
