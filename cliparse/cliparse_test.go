// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"testing"
)

func TestParseFlags_EnvVars(t *testing.T) {
	os.Setenv("PORT", "9000")
	os.Setenv("DATABASE_URL", "experiments.db")
	os.Setenv("IDENTITY_SALT", "test-identity")
	os.Setenv("ADMIN_KEY_SALT", "test-salt")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected default type sqlite, got %s", cfg.DatabaseType)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	os.Setenv("PORT", "9000")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-identity-salt", "s1", "-admin-salt", "s2"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := ParseFlags([]string{"-d", "experiments.db", "-identity-salt", "s1", "-admin-salt", "s2"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 8090 {
		t.Errorf("expected default port 8090, got %d", cfg.Port)
	}
	if cfg.DriverName() != "sqlite" {
		t.Errorf("expected sqlite driver, got %s", cfg.DriverName())
	}
}

func TestParseFlags_MissingRequired(t *testing.T) {
	os.Clearenv()

	tests := []struct {
		name string
		args []string
	}{
		{"missing database", []string{"-identity-salt", "s1", "-admin-salt", "s2"}},
		{"missing identity salt", []string{"-d", "experiments.db", "-admin-salt", "s2"}},
		{"missing admin salt", []string{"-d", "experiments.db", "-identity-salt", "s1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected error for missing required setting")
			}
		})
	}
}

func TestParseFlags_DatabaseType(t *testing.T) {
	os.Clearenv()

	base := []string{"-d", "postgres://localhost/experiments", "-identity-salt", "s1", "-admin-salt", "s2"}

	cfg, err := ParseFlags(append([]string{"-t", "postgres"}, base...))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DriverName() != "postgres" {
		t.Errorf("expected postgres driver, got %s", cfg.DriverName())
	}

	if _, err := ParseFlags(append([]string{"-t", "mysql"}, base...)); err == nil {
		t.Error("expected error for unsupported database type")
	}
}
