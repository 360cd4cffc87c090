package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/agentdesk/internal/flagx"
	"github.com/dmitrijs2005/agentdesk/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// RequestTimeout is a timex.Duration so it can be given either as a string
// like "30s" or as integer nanoseconds.
type JsonConfig struct {
	BaseURL        string         `json:"base_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	RetryAttempts  int            `json:"retry_attempts"`
	StateDir       string         `json:"state_dir"`
	StateBackend   string         `json:"state_backend"`
	RedisAddr      string         `json:"redis_addr"`
	LogLevel       string         `json:"log_level"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file is named by -c/-config or, failing that, AGENTDESK_CONFIG (see
// flagx.JsonConfigFlags). Only fields present in the file are copied, so a
// partial file keeps the defaults for the rest. Read or unmarshal errors
// panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.BaseURL != "" {
		cfg.BaseURL = jc.BaseURL
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.RetryAttempts > 0 {
		cfg.RetryAttempts = jc.RetryAttempts
	}
	if jc.StateDir != "" {
		cfg.StateDir = jc.StateDir
	}
	if jc.StateBackend != "" {
		cfg.StateBackend = jc.StateBackend
	}
	if jc.RedisAddr != "" {
		cfg.RedisAddr = jc.RedisAddr
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
