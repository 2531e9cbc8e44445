package middleware

import (
	"strings"
	"testing"
)

func TestValidateMessageText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"normal", "when is rent due?", false},
		{"empty", "", true},
		{"whitespace", "   \t\n", true},
		{"max length", strings.Repeat("a", 4000), false},
		{"too long", strings.Repeat("a", 4001), true},
		{"invalid utf8", string([]byte{0xff, 0xfe}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMessageText(tt.text)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateMessageText(%q) error = %v, wantErr %v", tt.text, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSummary(t *testing.T) {
	if err := ValidateSummary(""); err != nil {
		t.Errorf("empty summary should be allowed, got %v", err)
	}
	if err := ValidateSummary(strings.Repeat("a", 1001)); err == nil {
		t.Error("overlong summary should be rejected")
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{"1", 1, false},
		{"42", 42, false},
		{"0", 0, true},
		{"-1", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseID(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseID(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseID(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestValidateTenantID(t *testing.T) {
	if err := ValidateTenantID("T1"); err != nil {
		t.Errorf("ValidateTenantID(T1) = %v", err)
	}
	if err := ValidateTenantID(""); err == nil {
		t.Error("empty tenant id should be rejected")
	}
	if err := ValidateTenantID(strings.Repeat("x", 65)); err == nil {
		t.Error("overlong tenant id should be rejected")
	}
}
