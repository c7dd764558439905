package core

import (
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input     string
		wantCents int64
		wantErr   bool
	}{
		{"12.34", 1234, false},
		{"12,34", 1234, false},
		{"12", 1200, false},
		{"0.01", 1, false},
		{"12.345", 1235, false},
		{"12.344", 1234, false},
		{" 7.50 ", 750, false},
		{"", 0, true},
		{"abc", 0, true},
		{"-5", 0, true},
		{"0", 0, true},
		{"0.00", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("ParseAmount(%q) error = %v, want ErrValidation", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) unexpected error: %v", tt.input, err)
			}
			if got.Cents != tt.wantCents {
				t.Errorf("ParseAmount(%q) = %d cents, want %d", tt.input, got.Cents, tt.wantCents)
			}
		})
	}
}

func TestMoneyString(t *testing.T) {
	if got := (Money{Cents: 123456}).String(); got != "1234.56" {
		t.Errorf("String() = %q, want %q", got, "1234.56")
	}
	if got := (Money{Cents: -20000}).String(); got != "-200.00" {
		t.Errorf("String() = %q, want %q", got, "-200.00")
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Errorf("positive amount rejected: %v", err)
	}
	if err := (Money{}).Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("zero amount: got %v, want ErrValidation", err)
	}
}
