package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	UI struct {
		Color      string `mapstructure:"color"`
		ColorMode  string `mapstructure:"color_mode"`
		Background string `mapstructure:"background"`
	} `mapstructure:"ui"`
	Playback struct {
		DefaultRate     int  `mapstructure:"default_rate"`
		StartFullscreen bool `mapstructure:"start_fullscreen"`
	} `mapstructure:"playback"`
	Render struct {
		Mode         string `mapstructure:"mode"`
		Scaler       string `mapstructure:"scaler"`
		CellWidthPx  int    `mapstructure:"cell_width_px"`
		CellHeightPx int    `mapstructure:"cell_height_px"`
	} `mapstructure:"render"`
	Picker struct {
		Extensions []string `mapstructure:"extensions"`
	} `mapstructure:"picker"`
	FFmpeg struct {
		Path        string `mapstructure:"path"`
		FFprobePath string `mapstructure:"ffprobe_path"`
	} `mapstructure:"ffmpeg"`
	Log struct {
		Level string `mapstructure:"level"`
		File  string `mapstructure:"file"`
	} `mapstructure:"log"`
}

// SafeConfig wraps Config with thread-safe access
type SafeConfig struct {
	mu  sync.RWMutex
	cfg Config
}

// Get returns a copy of the current config (thread-safe read)
func (sc *SafeConfig) Get() Config {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	cfg := sc.cfg
	cfg.Picker.Extensions = append([]string(nil), sc.cfg.Picker.Extensions...)
	return cfg
}

// Set updates the config (thread-safe write)
func (sc *SafeConfig) Set(cfg Config) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.cfg = cfg
}

var config = &SafeConfig{}

// Config file changed notification
type configReloadMsg struct{}

var configChangeChan = make(chan struct{}, 1)

// Watch for config file changes
func watchConfigCmd() tea.Cmd {
	return func() tea.Msg {
		<-configChangeChan
		return configReloadMsg{}
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ui.color", "2")
	v.SetDefault("ui.color_mode", "manual")
	v.SetDefault("ui.background", "240")
	v.SetDefault("playback.default_rate", 30)
	v.SetDefault("playback.start_fullscreen", true)
	v.SetDefault("render.mode", "auto")
	v.SetDefault("render.scaler", scalerBilinear)
	v.SetDefault("render.cell_width_px", 10)
	v.SetDefault("render.cell_height_px", 20)
	v.SetDefault("picker.extensions", []string{".mp4", ".avi"})
	v.SetDefault("ffmpeg.path", "")
	v.SetDefault("ffmpeg.ffprobe_path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// configDir follows XDG: $XDG_CONFIG_HOME/goframes, falling back to ~/.config/goframes
func configDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configHome, "goframes")
}

// loadConfig reads defaults, the config file and GOFRAMES_* environment variables.
// configFile overrides the XDG search when set. Problems are reported as warnings
// and the defaults stay in effect.
func loadConfig(v *viper.Viper, configFile string) (Config, []string) {
	var warnings []string

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir := configDir(); dir != "" {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix("GOFRAMES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			warnings = append(warnings, fmt.Sprintf("Error reading config file: %v", err))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		warnings = append(warnings, fmt.Sprintf("Error parsing config: %v", err))
	}

	warnings = append(warnings, validateConfig(&cfg)...)

	return cfg, warnings
}

// initConfig loads the configuration into the global SafeConfig and starts the live-reload watcher
func initConfig(configFile string) []string {
	v := viper.GetViper()
	cfg, warnings := loadConfig(v, configFile)
	config.Set(cfg)

	v.OnConfigChange(func(e fsnotify.Event) {
		var newCfg Config
		if err := v.Unmarshal(&newCfg); err != nil {
			return
		}
		validateConfig(&newCfg)
		config.Set(newCfg)
		select {
		case configChangeChan <- struct{}{}:
		default:
			// A reload is already waiting to be picked up
		}
	})
	if v.ConfigFileUsed() != "" {
		v.WatchConfig()
	}

	return warnings
}

// validateConfig resets invalid fields to their defaults and describes what it changed
func validateConfig(cfg *Config) []string {
	var problems []string

	if !isValidColor(cfg.UI.Color) {
		problems = append(problems, fmt.Sprintf("ui.color %q is not an ANSI code or hex colour, using 2", cfg.UI.Color))
		cfg.UI.Color = "2"
	}
	if cfg.UI.ColorMode != "manual" && cfg.UI.ColorMode != "auto" {
		problems = append(problems, fmt.Sprintf("ui.color_mode %q must be manual or auto, using manual", cfg.UI.ColorMode))
		cfg.UI.ColorMode = "manual"
	}
	if !isValidColor(cfg.UI.Background) {
		problems = append(problems, fmt.Sprintf("ui.background %q is not an ANSI code or hex colour, using 240", cfg.UI.Background))
		cfg.UI.Background = "240"
	}
	if cfg.Playback.DefaultRate < 0 || cfg.Playback.DefaultRate > maxRate {
		problems = append(problems, fmt.Sprintf("playback.default_rate %d outside 0-%d, using 30", cfg.Playback.DefaultRate, maxRate))
		cfg.Playback.DefaultRate = 30
	}
	switch cfg.Render.Mode {
	case "auto", renderHalfBlock, renderKitty:
	default:
		problems = append(problems, fmt.Sprintf("render.mode %q must be auto, halfblock or kitty, using auto", cfg.Render.Mode))
		cfg.Render.Mode = "auto"
	}
	switch cfg.Render.Scaler {
	case scalerLanczos, scalerBilinear, scalerApprox, scalerNearest:
	default:
		problems = append(problems, fmt.Sprintf("render.scaler %q is unknown, using %s", cfg.Render.Scaler, scalerBilinear))
		cfg.Render.Scaler = scalerBilinear
	}
	if cfg.Render.CellWidthPx < 1 || cfg.Render.CellWidthPx > 100 {
		problems = append(problems, fmt.Sprintf("render.cell_width_px %d outside 1-100, using 10", cfg.Render.CellWidthPx))
		cfg.Render.CellWidthPx = 10
	}
	if cfg.Render.CellHeightPx < 1 || cfg.Render.CellHeightPx > 200 {
		problems = append(problems, fmt.Sprintf("render.cell_height_px %d outside 1-200, using 20", cfg.Render.CellHeightPx))
		cfg.Render.CellHeightPx = 20
	}
	if len(cfg.Picker.Extensions) == 0 {
		problems = append(problems, "picker.extensions is empty, using .mp4 and .avi")
		cfg.Picker.Extensions = []string{".mp4", ".avi"}
	}
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("log.level %q is unknown, using info", cfg.Log.Level))
		cfg.Log.Level = "info"
	}

	return problems
}

// isValidColor accepts ANSI codes (0-255 as digits) and #RGB / #RRGGBB hex colours
func isValidColor(color string) bool {
	if color == "" {
		return false
	}

	if color[0] == '#' {
		hex := color[1:]
		if len(hex) != 3 && len(hex) != 6 {
			return false
		}
		for _, c := range hex {
			if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
				return false
			}
		}
		return true
	}

	for _, c := range color {
		if c < '0' || c > '9' {
			return false
		}
	}
	n, err := strconv.Atoi(color)
	return err == nil && n <= 255
}
