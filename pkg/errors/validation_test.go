package errors

import "testing"

func TestValidatePath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"Assets/X/a.png", false},
		{"Assets", false},
		{"Assets/..hidden/file", false},
		{"", true},
		{"/Assets/X", true},
		{"Assets/../etc", true},
		{"Assets\\X", true},
		{"Assets/\x00", true},
	}

	for _, tt := range tests {
		err := ValidatePath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeInvalidPath) {
			t.Errorf("ValidatePath(%q) code = %v, want %v", tt.path, GetCode(err), ErrCodeInvalidPath)
		}
	}
}

func TestValidateWildcard(t *testing.T) {
	tests := []struct {
		template string
		wantErr  bool
	}{
		{"Assets/Characters/*/", false},
		{"bundle_*", false},
		{"", true},
		{"no-placeholder", true},
		{"*/*", true},
	}

	for _, tt := range tests {
		err := ValidateWildcard(tt.template)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateWildcard(%q) error = %v, wantErr %v", tt.template, err, tt.wantErr)
		}
	}
}
