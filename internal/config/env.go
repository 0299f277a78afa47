package config

import (
	"os"
	"strconv"
)

// Environment variable name constants for HEADSON_ prefixed overrides.
const (
	// EnvProfile selects the named profile to activate.
	EnvProfile = "HEADSON_PROFILE"
	// EnvFormat overrides the render template.
	EnvFormat = "HEADSON_FORMAT"
	// EnvStyle overrides the render style.
	EnvStyle = "HEADSON_STYLE"
	// EnvOutput overrides the output file path.
	EnvOutput = "HEADSON_OUTPUT"
	// EnvColor overrides the color mode.
	EnvColor = "HEADSON_COLOR"
	// EnvEncoding overrides the token-report tokenizer name.
	EnvEncoding = "HEADSON_ENCODING"
	// EnvBytes, EnvChars, EnvLines override the per-slot budget caps.
	EnvBytes = "HEADSON_BYTES"
	EnvChars = "HEADSON_CHARS"
	EnvLines = "HEADSON_LINES"
	// EnvGlobalBytes, EnvGlobalChars, EnvGlobalLines override the
	// merged-fileset budget caps.
	EnvGlobalBytes = "HEADSON_GLOBAL_BYTES"
	EnvGlobalChars = "HEADSON_GLOBAL_CHARS"
	EnvGlobalLines = "HEADSON_GLOBAL_LINES"
	// EnvGrep overrides the must-keep grep pattern.
	EnvGrep = "HEADSON_GREP"
	// EnvLogFormat overrides the log output format (not a profile field).
	EnvLogFormat = "HEADSON_LOG_FORMAT"
)

// buildEnvMap reads HEADSON_* environment variables and returns a flat map
// suitable for use with a koanf confmap provider. Only non-empty env vars
// that parse successfully are included. Invalid numeric/boolean values are
// silently skipped so that a bad env var does not block the entire
// resolution pipeline.
func buildEnvMap() map[string]any {
	m := make(map[string]any)

	if v := os.Getenv(EnvFormat); v != "" {
		m["format"] = v
	}
	if v := os.Getenv(EnvStyle); v != "" {
		m["style"] = v
	}
	if v := os.Getenv(EnvOutput); v != "" {
		m["output"] = v
	}
	if v := os.Getenv(EnvColor); v != "" {
		m["color"] = v
	}
	if v := os.Getenv(EnvEncoding); v != "" {
		m["encoding"] = v
	}
	if v := os.Getenv(EnvGrep); v != "" {
		m["grep"] = v
	}
	if n, ok := envInt(EnvBytes); ok {
		m["bytes"] = n
	}
	if n, ok := envInt(EnvChars); ok {
		m["chars"] = n
	}
	if n, ok := envInt(EnvLines); ok {
		m["lines"] = n
	}
	if n, ok := envInt(EnvGlobalBytes); ok {
		m["global_bytes"] = n
	}
	if n, ok := envInt(EnvGlobalChars); ok {
		m["global_chars"] = n
	}
	if n, ok := envInt(EnvGlobalLines); ok {
		m["global_lines"] = n
	}

	return m
}

func envInt(name string) (int, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
