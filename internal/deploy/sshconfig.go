package deploy

import (
	"errors"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ConnectionOptions configures how an SSH connection is established.
type ConnectionOptions struct {
	// Host is the target host name or IP.
	Host string

	// Port is the SSH port (defaults to 22 when unset).
	Port int

	// User is the SSH username.
	User string

	// KeyPath is an optional path to the private key.
	KeyPath string

	// Timeout controls how long to wait when establishing connections.
	Timeout time.Duration
}

// ApplySSHConfig applies settings from ~/.ssh/config to the connection
// options. It looks up the host alias and fills in Host, Port, User, and
// KeyPath from matching Host directives; explicit options win.
func ApplySSHConfig(opts ConnectionOptions) (ConnectionOptions, error) {
	if strings.TrimSpace(opts.Host) == "" {
		return opts, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return opts, err
	}
	return applySSHConfigFile(opts, filepath.Join(home, ".ssh", "config"))
}

func applySSHConfigFile(opts ConnectionOptions, configPath string) (ConnectionOptions, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return opts, nil
		}
		return opts, err
	}

	host := strings.TrimSpace(opts.Host)
	currentMatch := true

	for _, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		key := strings.ToLower(fields[0])
		value := strings.Join(fields[1:], " ")

		switch key {
		case "host":
			currentMatch = matchesHostPatterns(host, fields[1:])
			continue
		case "match":
			// Match blocks are not supported.
			currentMatch = false
			continue
		}

		if !currentMatch {
			continue
		}

		switch key {
		case "hostname":
			if v := strings.TrimSpace(value); v != "" {
				opts.Host = v
			}
		case "user":
			if opts.User == "" {
				opts.User = strings.TrimSpace(value)
			}
		case "port":
			if opts.Port == 0 {
				if port, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
					opts.Port = port
				}
			}
		case "identityfile":
			if opts.KeyPath == "" {
				if expanded := expandSSHPath(value); expanded != "" {
					opts.KeyPath = expanded
				}
			}
		}
	}

	return opts, nil
}

func matchesHostPatterns(host string, patterns []string) bool {
	lowerHost := strings.ToLower(host)
	matched := false
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		negated := strings.HasPrefix(pattern, "!")
		if negated {
			pattern = strings.TrimPrefix(pattern, "!")
		}
		if pattern == "" {
			continue
		}

		if matchHostPattern(lowerHost, pattern) {
			if negated {
				return false
			}
			matched = true
		}
	}

	return matched
}

func matchHostPattern(host, pattern string) bool {
	lowerPattern := strings.ToLower(pattern)
	if lowerPattern == host {
		return true
	}
	matched, err := path.Match(lowerPattern, host)
	if err != nil {
		return false
	}
	return matched
}

func expandSSHPath(value string) string {
	trimmed := strings.TrimSpace(value)
	trimmed = strings.Trim(trimmed, "\"'")
	if trimmed == "" {
		return ""
	}

	expanded := os.ExpandEnv(trimmed)
	if strings.HasPrefix(expanded, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			expanded = filepath.Join(home, strings.TrimPrefix(expanded, "~"))
		}
	}
	return expanded
}
