package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/attachctl/internal/attach"
)

// attachctl config.toml key mapping to attach handshake settings.
type fileConfig struct {
	AttachTimeoutMS int64  `toml:"attach_timeout_ms"`
	PollStepMS      int64  `toml:"poll_step_ms"`
	TempDir         string `toml:"temp_dir"`
}

// defaultConfigPath is probed only when no --config flag is given; a missing
// file there is not an error.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "attachctl", "config.toml")
}

// loadAttachConfig overlays the TOML file onto the attach defaults. Only
// keys present in the file override; everything else keeps its default.
func loadAttachConfig(path string) (attach.Config, error) {
	cfg := attach.DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
		if path == "" {
			return cfg, nil
		}
		if _, err := os.Stat(path); err != nil {
			return cfg, nil
		}
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return attach.Config{}, fmt.Errorf("load attach config: %w", err)
	}

	if meta.IsDefined("attach_timeout_ms") {
		if raw.AttachTimeoutMS <= 0 {
			return attach.Config{}, fmt.Errorf("load attach config: attach_timeout_ms must be positive, got %d", raw.AttachTimeoutMS)
		}
		cfg.Timeout = time.Duration(raw.AttachTimeoutMS) * time.Millisecond
	}
	if meta.IsDefined("poll_step_ms") {
		if raw.PollStepMS <= 0 {
			return attach.Config{}, fmt.Errorf("load attach config: poll_step_ms must be positive, got %d", raw.PollStepMS)
		}
		cfg.DelayStep = time.Duration(raw.PollStepMS) * time.Millisecond
	}
	if meta.IsDefined("temp_dir") {
		dir := strings.TrimSpace(raw.TempDir)
		if dir == "" {
			return attach.Config{}, fmt.Errorf("load attach config: temp_dir must not be empty")
		}
		cfg.TempDir = dir
	}

	return cfg, nil
}
