package errors

import (
	"strings"
	"testing"
)

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "start", false},
		{"with dash", "node-1", false},
		{"with underscore", "node_1", false},
		{"with dot", "api.gateway", false},
		{"unicode letters", "café", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 300), true},
		{"space", "my node", true},
		{"tab", "a\tb", true},
		{"newline", "a\nb", true},
		{"quote", `a"b`, true},
		{"bracket", "a[b", true},
		{"brace", "a}", true},
		{"paren", "(a", true},
		{"pipe", "a|b", true},
		{"colon", "a:b", true},
		{"semicolon", "a;b", true},
		{"comma", "a,b", true},
		{"angle", "a>b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifier(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIdentifier(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeConfig) {
				t.Errorf("ValidateIdentifier(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeConfig)
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
		{"relative", "diagram.svg", false},
		{"nested", "out/diagrams/flow.png", false},
		{"absolute", "/tmp/flow.svg", false},

		{"empty", "", true},
		{"null byte", "flow\x00.svg", true},
		{"control char", "flow\x01.svg", true},
		{"too long", strings.Repeat("a", 5000), true},
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

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://mermaid.ink", false},
		{"http localhost", "http://localhost:3000", false},

		{"empty", "", true},
		{"no scheme", "mermaid.ink", true},
		{"ftp", "ftp://mermaid.ink", true},
		{"javascript", "javascript:alert(1)", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateColor(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"#fff", false},
		{"#1e1e1e", false},
		{"#1e1e1eff", false},
		{"aqua", false},
		{"LightGrey", false},

		{"", true},
		{"#ggg", true},
		{"#12", true},
		{"rgb(1,2,3)", true},
		{"light grey", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
