package utils

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain digits", "5551234567", "5551234567"},
		{"dashes and spaces", "555-123 4567", "5551234567"},
		{"international prefix", "+1 (555) 123-4567", "15551234567"},
		{"letters mixed in", "call 555x123y4567", "5551234567"},
		{"empty", "", ""},
		{"no digits at all", "call me maybe", ""},
		{"dots", "555.123.4567", "5551234567"},
		{"non-ascii digits stripped", "٥٥٥١٢٣", ""},
		{"mixed ascii and non-ascii digits", "٥٥55123", "55123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePhone(tt.raw)
			if got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.raw, got, tt.want)
			}
			// Normalizing an already-normalized key must be a no-op.
			if again := NormalizePhone(got); again != got {
				t.Errorf("NormalizePhone not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestValidPhoneKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"", false},
		{"1234", false},
		{"12345", true},
		{"15551234567", true},
	}

	for _, tt := range tests {
		if got := ValidPhoneKey(tt.key); got != tt.want {
			t.Errorf("ValidPhoneKey(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}
