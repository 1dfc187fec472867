package errors

import (
	"strings"
	"testing"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "api", false},
		{"valid with dash", "api-gateway", false},
		{"valid with path", "svc/api", false},
		{"valid unicode", "dienst-ü", false},

		{"empty", "", true},
		{"too long", strings.Repeat("x", MaxIDLength+1), true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidID) {
				t.Errorf("ValidateID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidID)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "graph.json", false},
		{"nested", "out/graph.svg", false},
		{"absolute", "/tmp/graph.json", false},

		{"empty", "", true},
		{"null byte", "graph\x00.json", true},
		{"directory", "out/", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateExtension(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"graph.json", false},
		{"GRAPH.JSON", false},
		{"graph.yaml", true},
		{"graph", true},
	}

	for _, tt := range tests {
		err := ValidateExtension(tt.path, ".json")
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateExtension(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
		if err != nil && GetCode(err) != ErrCodeInvalidFormat {
			t.Errorf("ValidateExtension(%q) code = %v, want %v", tt.path, GetCode(err), ErrCodeInvalidFormat)
		}
	}
}
