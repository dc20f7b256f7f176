package errors

import (
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"group", "com.google.guava", false},
		{"artifact", "netty-buffer", false},
		{"version", "4.1.73.Final", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 300), true},
		{"colon", "a:b", true},
		{"space", "foo bar", true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCoordinate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "org.slf4j:slf4j-api:2.0.9", false},

		{"missing version", "org.slf4j:slf4j-api", true},
		{"extra segment", "a:b:c:d", true},
		{"empty group", ":b:1", true},
		{"empty version", "a:b:", true},
		{"whitespace", "a:b c:1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCoordinate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCoordinate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidCoordinate) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidCoordinate)
			}
		})
	}
}

func TestValidateSeparator(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"comma", ",", false},
		{"semicolon", ";", false},
		{"tab", "\t", false},
		{"pipe", "|", false},

		{"empty", "", true},
		{"two chars", ",;", true},
		{"quote", `"`, true},
		{"newline", "\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSeparator(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSeparator(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
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
		{"relative", "licenses/permissive.txt", false},
		{"absolute", "/etc/otsaudit/gnu.txt", false},

		{"empty", "", true},
		{"null byte", "a\x00b", true},
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
		{"https", "https://repo1.maven.org/maven2", false},
		{"http", "http://nexus.local/repository/maven-public", false},

		{"empty", "", true},
		{"ftp", "ftp://example.com", true},
		{"file", "file:///etc/passwd", true},
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
