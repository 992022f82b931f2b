package internal

import (
	"strings"
	"testing"
	"time"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestRemoteConfig_DisabledSkipsValidation(t *testing.T) {
	cfg := RemoteConfig{Enabled: false}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled remote should pass: %v", err)
	}
}

func TestRemoteConfig_EnabledRequiresFields(t *testing.T) {
	cfg := RemoteConfig{Enabled: true, Owner: "me", Repo: "recipes"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("enabled remote without path/token should fail")
	}

	cfg.Path = "catalog.json"
	cfg.Token = "ghp_x"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("complete remote config should pass: %v", err)
	}
}

func TestRemoteConfig_Timeout(t *testing.T) {
	cfg := NewDefaultConfig()
	if got := cfg.Remote.Timeout(); got != 10*time.Second {
		t.Errorf("default timeout = %v", got)
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}
