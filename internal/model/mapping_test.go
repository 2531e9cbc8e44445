package model

import (
	"testing"
)

func TestMappingValidate(t *testing.T) {
	tests := []struct {
		name    string
		mapping Mapping
		wantErr bool
	}{
		{"empty", Mapping{}, false},
		{"scalars", Mapping{"unit": "4B", "floor": 3, "urgent": true, "note": nil}, false},
		{"nested", Mapping{"issue": map[string]any{"kind": "leak", "severity": 2.5}}, false},
		{"sequence", Mapping{"units": []any{"4B", "4C"}}, false},
		{"empty key", Mapping{"": "x"}, true},
		{"unsupported value", Mapping{"ch": make(chan int)}, true},
		{"unsupported nested", Mapping{"items": []any{func() {}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mapping.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMappingValueNil(t *testing.T) {
	var m Mapping
	v, err := m.Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	if v != nil {
		t.Errorf("nil mapping Value() = %v, want NULL", v)
	}
}

func TestMappingScanRoundTrip(t *testing.T) {
	original := Mapping{"unit": "4B", "turns": float64(3)}
	raw, err := original.Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}

	var restored Mapping
	if err := restored.Scan(raw); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if restored["unit"] != "4B" || restored["turns"] != float64(3) {
		t.Errorf("round trip = %v, want %v", restored, original)
	}
}

func TestMappingScanNull(t *testing.T) {
	restored := Mapping{"stale": true}
	if err := restored.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) error = %v", err)
	}
	if restored != nil {
		t.Errorf("Scan(nil) left %v, want nil", restored)
	}
}
