package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/snapline/pkg/assist"
	"github.com/matzehuels/snapline/pkg/errors"
	"github.com/matzehuels/snapline/pkg/profile"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if !reflect.DeepEqual(cfg.Engine(), assist.DefaultConfig()) {
		t.Errorf("Default().Engine() = %+v, want assist.DefaultConfig()", cfg.Engine())
	}
	if got := cfg.ListenAddr(); got != "127.0.0.1:7411" {
		t.Errorf("ListenAddr() = %q, want %q", got, "127.0.0.1:7411")
	}
	if cfg.Store.Backend != profile.BackendFile {
		t.Errorf("Store.Backend = %q, want %q", cfg.Store.Backend, profile.BackendFile)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
adaptive = false

[alignment]
threshold = 6

[magnetism]
radius = 20
strength = 1.2

[spacing]
ladder = [4, 8, 16]

[learning]
min_activations = 20

[store]
backend = "sqlite"
path = "/tmp/profiles.db"

[server]
port = 9000
profile = "work"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	def := Default()
	if cfg.Adaptive {
		t.Error("Adaptive = true, want false")
	}
	if cfg.Alignment.Threshold != 6 {
		t.Errorf("Alignment.Threshold = %v, want 6", cfg.Alignment.Threshold)
	}
	if cfg.Alignment.MergeThreshold != def.Alignment.MergeThreshold {
		t.Errorf("Alignment.MergeThreshold = %v, want default %v", cfg.Alignment.MergeThreshold, def.Alignment.MergeThreshold)
	}
	if cfg.Magnetism.Radius != 20 || cfg.Magnetism.Strength != 1.2 {
		t.Errorf("Magnetism = %+v, want radius 20 strength 1.2", cfg.Magnetism)
	}
	if !reflect.DeepEqual(cfg.Spacing.Ladder, []float64{4, 8, 16}) {
		t.Errorf("Spacing.Ladder = %v, want [4 8 16]", cfg.Spacing.Ladder)
	}
	if cfg.Learning.MinActivations != 20 || cfg.Learning.Capacity != def.Learning.Capacity {
		t.Errorf("Learning = %+v", cfg.Learning)
	}
	if cfg.Store.Backend != profile.BackendSQLite || cfg.Store.Path != "/tmp/profiles.db" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Server.Port != 9000 || cfg.Server.Bind != "127.0.0.1" || cfg.Server.Profile != "work" {
		t.Errorf("Server = %+v", cfg.Server)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.Code
		msg     string
	}{
		{"syntax", "[alignment\nthreshold = 1", errors.ErrCodeInvalidConfig, "parse config"},
		{"unknown key", "[alignment]\nthreshhold = 1", errors.ErrCodeInvalidConfig, "alignment.threshhold"},
		{"unknown section", "[render]\nstyle = 'x'", errors.ErrCodeInvalidConfig, "unknown keys"},
		{"wrong type", "[magnetism]\nradius = 'wide'", errors.ErrCodeInvalidConfig, "parse config"},
		{"zero threshold", "[alignment]\nthreshold = 0", errors.ErrCodeInvalidConfig, "alignment.threshold"},
		{"strength too high", "[magnetism]\nstrength = 3", errors.ErrCodeInvalidConfig, "magnetism.strength"},
		{"bad ladder", "[spacing]\nladder = [8, -1]", errors.ErrCodeInvalidConfig, "spacing.ladder"},
		{"zero learning rate", "[learning]\nlearning_rate = 0", errors.ErrCodeInvalidConfig, "learning.learning_rate"},
		{"decay above one", "[learning]\ndecay = 1.5", errors.ErrCodeInvalidConfig, "learning.decay"},
		{"bad port", "[server]\nport = 70000", errors.ErrCodeInvalidConfig, "server.port"},
		{"bad profile", "[server]\nprofile = '../x'", errors.ErrCodeInvalidConfig, "server.profile"},
		{"bad backend", "[store]\nbackend = 'tape'", errors.ErrCodeInvalidConfig, "unknown backend"},
		{"redis without url", "[store]\nbackend = 'redis'", errors.ErrCodeInvalidConfig, "redis_url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Load() error = nil")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Load() code = %s, want %s", errors.GetCode(err), tt.code)
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("Load() error = %q, want it to mention %q", err, tt.msg)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestResolve(t *testing.T) {
	t.Run("default location missing", func(t *testing.T) {
		t.Setenv(EnvVar, "")
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		cfg, path, err := Resolve("")
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if path != "" {
			t.Errorf("path = %q, want empty", path)
		}
		if !reflect.DeepEqual(cfg, Default()) {
			t.Error("Resolve() did not return defaults")
		}
	})

	t.Run("default location", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv(EnvVar, "")
		t.Setenv("XDG_CONFIG_HOME", home)
		want := filepath.Join(home, "snapline", "config.toml")
		if err := os.MkdirAll(filepath.Dir(want), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(want, []byte("[server]\nport = 8001\n"), 0644); err != nil {
			t.Fatal(err)
		}
		cfg, path, err := Resolve("")
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if path != want || cfg.Server.Port != 8001 {
			t.Errorf("Resolve() = port %d from %q, want 8001 from %q", cfg.Server.Port, path, want)
		}
	})

	t.Run("env beats default", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		envPath := writeConfig(t, "[server]\nport = 8002\n")
		t.Setenv(EnvVar, envPath)
		cfg, path, err := Resolve("")
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if path != envPath || cfg.Server.Port != 8002 {
			t.Errorf("Resolve() = port %d from %q", cfg.Server.Port, path)
		}
	})

	t.Run("explicit beats env", func(t *testing.T) {
		t.Setenv(EnvVar, writeConfig(t, "[server]\nport = 8002\n"))
		explicit := writeConfig(t, "[server]\nport = 8003\n")
		cfg, _, err := Resolve(explicit)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if cfg.Server.Port != 8003 {
			t.Errorf("Server.Port = %d, want 8003", cfg.Server.Port)
		}
	})

	t.Run("explicit missing", func(t *testing.T) {
		_, _, err := Resolve(filepath.Join(t.TempDir(), "gone.toml"))
		if !errors.Is(err, errors.ErrCodeFileNotFound) {
			t.Errorf("Resolve(missing) = %v, want %s", err, errors.ErrCodeFileNotFound)
		}
	})
}
