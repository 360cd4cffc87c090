// Package config loads runtime configuration for the agentdesk CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via -c/-config or the
//     AGENTDESK_CONFIG environment variable.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
//	{
//	  "base_url": "http://127.0.0.1:8080/api/v1",
//	  "request_timeout": "30s",
//	  "retry_attempts": 3,
//	  "state_dir": ".agentdesk",
//	  "state_backend": "sqlite",
//	  "redis_addr": "127.0.0.1:6379",
//	  "log_level": "warn"
//	}
package config
