package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidConfig, "allowed_old_major_version must be >= 0, got %d", -1)

	if err.Code != ErrCodeInvalidConfig {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidConfig)
	}
	if err.Message != "allowed_old_major_version must be >= 0, got -1" {
		t.Errorf("Message = %q", err.Message)
	}
	if want := "INVALID_CONFIG: allowed_old_major_version must be >= 0, got -1"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeNetwork, cause, "fetch %s", "spring-core-6.1.2.pom")

	if err.Cause != cause || errors.Unwrap(err) != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if want := "NETWORK_ERROR: fetch spring-core-6.1.2.pom: connection refused"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	violation := &LicenseViolationError{Artifacts: []string{"com.acme:gpl-lib:1.0"}}
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching code", New(ErrCodeInvalidSnapshot, "line 3"), ErrCodeInvalidSnapshot, true},
		{"non-matching code", New(ErrCodeInvalidSnapshot, "line 3"), ErrCodeInvalidConfig, false},
		{"outer code wins", Wrap(ErrCodeNetwork, New(ErrCodeNotFound, "pom"), "resolve"), ErrCodeNetwork, true},
		{"license violation", Wrap(ErrCodeLicenseViolation, violation, "shop"), ErrCodeLicenseViolation, true},
		{"license violation behind fmt", fmt.Errorf("license-check: %w", Wrap(ErrCodeLicenseViolation, violation, "shop")), ErrCodeLicenseViolation, true},
		{"unsupported runtime", New(ErrCodeUnsupportedRuntime, "runtime go1.20 is older than go1.22"), ErrCodeUnsupportedRuntime, true},
		{"runtime is not unsupported", New(ErrCodeUnsupportedRuntime, "old"), ErrCodeUnsupported, false},
		{"bare violation has no *Error", violation, ErrCodeLicenseViolation, false},
		{"plain error", errors.New("plain"), ErrCodeInvalidInput, false},
		{"nil", nil, ErrCodeInvalidInput, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is(%v, %s) = %v, want %v", tt.err, tt.code, got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"config", New(ErrCodeInvalidConfig, "bad"), ErrCodeInvalidConfig},
		{"runtime", New(ErrCodeUnsupportedRuntime, "old"), ErrCodeUnsupportedRuntime},
		{"wrapped by fmt", fmt.Errorf("up-to-date: %w", New(ErrCodeInvalidSnapshot, "bad")), ErrCodeInvalidSnapshot},
		{"violation", Wrap(ErrCodeLicenseViolation, &LicenseViolationError{}, "shop"), ErrCodeLicenseViolation},
		{"plain", errors.New("plain"), ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"coded", New(ErrCodeInvalidConfig, "unknown cache backend %q", "memcached"), `unknown cache backend "memcached"`},
		{"violation", Wrap(ErrCodeLicenseViolation, &LicenseViolationError{Artifacts: []string{"a", "b"}}, "shop: 2 artifacts with a disallowed license"), "shop: 2 artifacts with a disallowed license"},
		{"plain", errors.New("plain error"), "plain error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLicenseViolationError(t *testing.T) {
	tests := []struct {
		artifacts []string
		want      string
	}{
		{nil, "0 artifacts with a disallowed license"},
		{[]string{"com.acme:gpl-lib:1.0"}, "1 artifact with a disallowed license"},
		{[]string{"com.acme:gpl-lib:1.0", "org.x:agpl:2.0"}, "2 artifacts with a disallowed license"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			err := &LicenseViolationError{Artifacts: tt.artifacts}
			if err.Error() != tt.want {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.want)
			}
			if err.Code() != ErrCodeLicenseViolation {
				t.Errorf("Code() = %v, want %v", err.Code(), ErrCodeLicenseViolation)
			}
		})
	}
}

func TestLicenseViolationErrorUnwrap(t *testing.T) {
	violation := &LicenseViolationError{Artifacts: []string{"com.acme:gpl-lib:1.0"}}
	tests := []struct {
		name string
		err  error
	}{
		{"wrapped", Wrap(ErrCodeLicenseViolation, violation, "shop")},
		{"wrapped twice", fmt.Errorf("license-check: %w", Wrap(ErrCodeLicenseViolation, violation, "shop"))},
		{"bare", violation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *LicenseViolationError
			if !errors.As(tt.err, &got) {
				t.Fatal("errors.As should find the LicenseViolationError")
			}
			if got != violation || got.Artifacts[0] != "com.acme:gpl-lib:1.0" {
				t.Errorf("got %+v, want %+v", got, violation)
			}
		})
	}

	var lv *LicenseViolationError
	if errors.As(New(ErrCodeLicenseViolation, "no cause"), &lv) {
		t.Error("errors.As should not find a violation without a cause")
	}
}
