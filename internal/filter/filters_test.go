package filter

import (
	"testing"

	"github.com/siahsang/conduit/internal/validator"
)

func TestValidateFilters(t *testing.T) {
	tests := []struct {
		name   string
		limit  int64
		offset int64
		valid  bool
	}{
		{"defaults", DefaultLimit, DefaultOffset, true},
		{"maximum limit", 100, 0, true},
		{"zero limit", 0, 0, false},
		{"negative limit", -1, 0, false},
		{"limit above maximum", 101, 0, false},
		{"negative offset", 20, -1, false},
		{"huge offset", 20, 10_000_001, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validator.New()
			ValidateFilters(NewFilter(tt.limit, tt.offset), v)
			if v.IsValid() != tt.valid {
				t.Errorf("limit=%d offset=%d: valid = %v, want %v (errors: %v)",
					tt.limit, tt.offset, v.IsValid(), tt.valid, v.Errors)
			}
		})
	}
}
