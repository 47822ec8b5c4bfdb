package errors

import (
	"strings"
	"testing"
)

func TestValidateScenarioName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "social-preview", false},
		{"digits", "proj-vis-wgs84", false},
		{"empty", "", true},
		{"uppercase", "Social", true},
		{"leading dash", "-map", true},
		{"trailing dash", "map-", true},
		{"space", "social preview", true},
		{"path", "../etc", true},
		{"too long", strings.Repeat("a", 65), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateScenarioName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateScenarioName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidScenario) {
				t.Errorf("expected INVALID_SCENARIO, got %v", GetCode(err))
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative file", "out/social-preview.png", false},
		{"absolute file", "/tmp/map.svg", false},
		{"empty", "", true},
		{"directory", "out/", true},
		{"dotdot", "..", true},
		{"control char", "out\x00.png", true},
		{"too long", strings.Repeat("a", 1025), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateHexColor(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"#1c8158", false},
		{"#FFFFFF", false},
		{"#3b82f680", false},
		{"1c8158", true},
		{"#fff", true},
		{"#gggggg", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateHexColor(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateHexColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}
