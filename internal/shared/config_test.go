package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.API.BaseURL != "http://yt.lc/api" {
			t.Errorf("expected base URL http://yt.lc/api, got %s", config.API.BaseURL)
		}

		if config.API.Timeout != 30*time.Second {
			t.Errorf("expected timeout 30s, got %v", config.API.Timeout)
		}

		if config.Store.Path != "./vidup.db" {
			t.Errorf("expected store path ./vidup.db, got %s", config.Store.Path)
		}

		if config.Callback.Port != 3000 {
			t.Errorf("expected callback port 3000, got %d", config.Callback.Port)
		}

		if config.Upload.Workers != 3 {
			t.Errorf("expected 3 upload workers, got %d", config.Upload.Workers)
		}
	})

	t.Run("ConnectURL", func(t *testing.T) {
		c := APIConfig{BaseURL: "http://yt.lc/api/", ConnectPath: "/youtube/redirect"}
		if got := c.ConnectURL(); got != "http://yt.lc/api/youtube/redirect" {
			t.Errorf("unexpected connect URL %s", got)
		}
	})

	t.Run("Callback Addr", func(t *testing.T) {
		c := CallbackConfig{Host: "127.0.0.1", Port: 3000}
		if got := c.Addr(); got != "127.0.0.1:3000" {
			t.Errorf("unexpected addr %s", got)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Store.Path != DefaultConfig().Store.Path {
			t.Errorf("created config store path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig Overlays Defaults", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[api]
base_url = "https://videos.example.com/api"

[store]
path = "/custom/path.db"

[callback]
port = 8080
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.API.BaseURL != "https://videos.example.com/api" {
			t.Errorf("expected overridden base URL, got %s", config.API.BaseURL)
		}

		if config.Store.Path != "/custom/path.db" {
			t.Errorf("expected store path /custom/path.db, got %s", config.Store.Path)
		}

		if config.Callback.Port != 8080 {
			t.Errorf("expected callback port 8080, got %d", config.Callback.Port)
		}

		if config.API.Timeout != 30*time.Second {
			t.Errorf("expected default timeout to survive overlay, got %v", config.API.Timeout)
		}
	})

	t.Run("LoadConfig Invalid", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[api\nbase_url ="), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		t.Setenv(EnvBaseURL, "http://localhost:8000/api")

		config := DefaultConfig()
		config.ApplyEnv()

		if config.API.BaseURL != "http://localhost:8000/api" {
			t.Errorf("expected env base URL, got %s", config.API.BaseURL)
		}
	})

	t.Run("SaveConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		config := DefaultConfig()
		config.Upload.Workers = 7
		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load saved config: %v", err)
		}
		if loaded.Upload.Workers != 7 {
			t.Errorf("expected 7 workers, got %d", loaded.Upload.Workers)
		}
	})
}

func TestBrowserCommand(t *testing.T) {
	original := getRuntime
	t.Cleanup(func() { getRuntime = original })

	t.Run("Known Platforms", func(t *testing.T) {
		for rt, bin := range map[string]string{"darwin": "open", "linux": "xdg-open", "windows": "rundll32"} {
			getRuntime = func() string { return rt }
			cmd, err := browserCommand("http://yt.lc")
			if err != nil {
				t.Fatalf("%s: unexpected error %v", rt, err)
			}
			if filepath.Base(cmd.Path) != bin && cmd.Args[0] != bin {
				t.Errorf("%s: expected %s, got %v", rt, bin, cmd.Args)
			}
		}
	})

	t.Run("Unsupported Platform", func(t *testing.T) {
		getRuntime = func() string { return "plan9" }
		if _, err := browserCommand("http://yt.lc"); err == nil {
			t.Error("expected error for unsupported platform")
		}
	})
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("DEBUG").String() != "debug" {
		t.Error("expected debug level")
	}
	if ParseLevel("nonsense").String() != "info" {
		t.Error("expected info fallback")
	}
}
