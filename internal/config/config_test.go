package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "amptrack.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoaderDefaults(t *testing.T) {
	path := writeConfig(t, "api_key: abc\nsession:\n  secret: s3cret\n")
	l, err := NewLoader(path)
	if err != nil {
		t.Fatalf("NewLoader error: %v", err)
	}
	cfg := l.Config()
	if cfg.APIKey != "abc" {
		t.Errorf("api key = %q", cfg.APIKey)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("default addr = %q", cfg.Server.Addr)
	}
	if cfg.Session.Cookie != "amptrack_session" || cfg.Session.MaxAge != 1209600 {
		t.Errorf("session defaults = %q/%d", cfg.Session.Cookie, cfg.Session.MaxAge)
	}
	if cfg.IncludeUserData || cfg.IncludeGroupData {
		t.Error("data-inclusion flags must default to off")
	}
}

func TestLoaderEnvOverride(t *testing.T) {
	t.Setenv(APIKeyEnv, "from-env")
	path := writeConfig(t, "api_key: from-file\nsession:\n  secret: s3cret\n")
	l, err := NewLoader(path)
	if err != nil {
		t.Fatalf("NewLoader error: %v", err)
	}
	if got := l.Config().APIKey; got != "from-env" {
		t.Errorf("api key = %q, want env value to win", got)
	}
}

func TestLoaderReloadNotifies(t *testing.T) {
	path := writeConfig(t, "api_key: abc\nsession:\n  secret: s3cret\nignore:\n  - /healthz\n")
	l, err := NewLoader(path)
	if err != nil {
		t.Fatalf("NewLoader error: %v", err)
	}

	var seen []string
	l.OnChange(func(cfg *Config) { seen = cfg.Ignore })

	if err := os.WriteFile(path, []byte("api_key: abc\nsession:\n  secret: s3cret\nignore:\n  - /healthz\n  - metrics\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Reload(); err != nil {
		t.Fatalf("Reload error: %v", err)
	}
	if len(seen) != 2 || seen[1] != "metrics" {
		t.Errorf("callback saw ignore = %v", seen)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid",
			cfg: Config{
				APIKey:  "abc",
				Ignore:  []string{"/healthz", "metrics"},
				Session: SessionConf{Secret: "s3cret"},
			},
		},
		{
			name:    "missing api key",
			cfg:     Config{Session: SessionConf{Secret: "s3cret"}},
			wantErr: true,
		},
		{
			name:    "missing session secret",
			cfg:     Config{APIKey: "abc"},
			wantErr: true,
		},
		{
			name: "empty ignore entry",
			cfg: Config{
				APIKey:  "abc",
				Ignore:  []string{"/healthz", "  "},
				Session: SessionConf{Secret: "s3cret"},
			},
			wantErr: true,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := Validate(&c.cfg)
			if (err != nil) != c.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, c.wantErr)
			}
			if err != nil && !Error.Has(err) {
				t.Errorf("error %v is not config-classed", err)
			}
		})
	}
}
