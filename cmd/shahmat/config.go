package main

import (
	"encoding/json"
	"os"

	"github.com/adrg/xdg"
)

const configFile = "shahmat/config.json"

// Config holds the optional settings read from the XDG config directory.
type Config struct {
	UseColor    bool `json:"use_color"`
	Unicode     bool `json:"unicode"`
	MoveDelayMs int  `json:"move_delay_ms"`
}

var defaultConfig = Config{UseColor: true, Unicode: true}

// loadConfig returns the user config, falling back to defaults when the
// file is missing or unreadable.
func loadConfig() Config {
	config := defaultConfig
	path, err := xdg.SearchConfigFile(configFile)
	if err != nil {
		return config
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return config
	}
	if err := json.Unmarshal(raw, &config); err != nil {
		return defaultConfig
	}
	return config
}
