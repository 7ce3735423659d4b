package category

import (
	"strings"
	"testing"
)

func TestCreateParams_Validate(t *testing.T) {
	neg := -1.0
	tests := []struct {
		name    string
		params  CreateParams
		wantErr string
	}{
		{name: "valid", params: CreateParams{Name: "Food", Type: TypeExpense}},
		{name: "missing name", params: CreateParams{Type: TypeExpense}, wantErr: "name is required"},
		{name: "name too long", params: CreateParams{Name: strings.Repeat("a", 65), Type: TypeExpense}, wantErr: "name must be 64 characters or less"},
		{name: "bad type", params: CreateParams{Name: "Food", Type: "other"}, wantErr: "type must be income or expense"},
		{name: "negative budget", params: CreateParams{Name: "Food", Type: TypeExpense, Budget: &neg}, wantErr: "budget must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("Validate() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestUpdateParams_Validate(t *testing.T) {
	empty := "  "
	bad := Type("transfer")
	tests := []struct {
		name    string
		params  UpdateParams
		wantErr string
	}{
		{name: "no fields", params: UpdateParams{}},
		{name: "empty name", params: UpdateParams{Name: &empty}, wantErr: "name must not be empty"},
		{name: "bad type", params: UpdateParams{Type: &bad}, wantErr: "type must be income or expense"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("Validate() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultCategories_UniquePairs(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range DefaultCategories() {
		key := c.Name + "/" + string(c.Type)
		if seen[key] {
			t.Errorf("duplicate default category %s", key)
		}
		seen[key] = true
		if err := c.Validate(); err != nil {
			t.Errorf("default category %s invalid: %v", key, err)
		}
	}
	if len(seen) != 8 {
		t.Errorf("default categories = %d, want 8", len(seen))
	}
}
