package util

import "testing"

func TestValidateNoWhitespace(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "empty", value: "", wantErr: false},
		{name: "plain token", value: "ocid1.image.oc1..aaa", wantErr: false},
		{name: "space", value: "ocid1 aaa", wantErr: true},
		{name: "tab", value: "ocid1\taaa", wantErr: true},
		{name: "newline", value: "ocid1\naaa", wantErr: true},
		{name: "carriage return", value: "ocid1\raaa", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNoWhitespace("KEY", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNoWhitespace(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDisplayName(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "simple", value: "arm-server", wantErr: false},
		{name: "with periods", value: "arm.server.1", wantErr: false},
		{name: "single character", value: "a", wantErr: false},
		{name: "empty", value: "", wantErr: true},
		{name: "leading hyphen", value: "-server", wantErr: true},
		{name: "leading period", value: ".server", wantErr: true},
		{name: "trailing hyphen", value: "server-", wantErr: true},
		{name: "trailing period", value: "server.", wantErr: true},
		{name: "underscore", value: "arm_server", wantErr: true},
		{name: "space", value: "arm server", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDisplayName(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDisplayName(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}
