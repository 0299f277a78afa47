package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	koanf "github.com/knadh/koanf/v2"
	"github.com/knadh/koanf/providers/confmap"
)

// ResolveOptions configures the multi-source configuration resolution.
type ResolveOptions struct {
	// ProfileName selects a named profile from loaded configs.
	// If empty, the HEADSON_PROFILE env var is checked, then "default" is used.
	ProfileName string

	// ProfileFile is a standalone profile TOML file path (--profile-file flag).
	// When set, the repo config (.headson.toml) is not loaded.
	ProfileFile string

	// TargetDir is the directory to search for .headson.toml.
	// Defaults to "." if empty.
	TargetDir string

	// GlobalConfigPath overrides the default ~/.config/headson/config.toml.
	// Useful for testing.
	GlobalConfigPath string

	// CLIFlags holds explicit CLI flag overrides (highest precedence).
	// Keys are flat Profile field names: "format", "bytes", "output", etc.
	CLIFlags map[string]any
}

// ResolvedConfig is the result of multi-source configuration resolution.
type ResolvedConfig struct {
	// Profile is the final merged profile ready for use by the pipeline.
	Profile *Profile

	// Sources tracks which layer each field value came from.
	Sources SourceMap

	// ProfileName is the name of the resolved profile.
	ProfileName string
}

// Resolve runs the 5-layer configuration resolution pipeline:
//  1. Built-in defaults
//  2. Global config (~/.config/headson/config.toml)
//  3. Repository config (.headson.toml in TargetDir) OR standalone profile file
//  4. Environment variables (HEADSON_* prefix)
//  5. CLI flags (highest precedence)
//
// Missing config files are silently ignored. Invalid files return errors.
// Named profiles not found in any loaded config return an error naming the
// missing profile.
func Resolve(opts ResolveOptions) (*ResolvedConfig, error) {
	// Determine profile name: explicit option → HEADSON_PROFILE env → "default".
	profileName := opts.ProfileName
	if profileName == "" {
		if v := os.Getenv(EnvProfile); v != "" {
			profileName = v
		} else {
			profileName = "default"
		}
	}

	slog.Debug("resolving config",
		"profile", profileName,
		"targetDir", opts.TargetDir,
		"profileFile", opts.ProfileFile,
	)

	k := koanf.New(".")
	sources := make(SourceMap)

	// ── Layer 1: built-in defaults ─────────────────────────────────────────
	defaultProfile := DefaultProfile()
	if err := loadLayer(k, profileToFlatMap(defaultProfile), sources, SourceDefault); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	// Track whether the named profile was found in at least one file layer.
	profileFound := false

	// ── Layer 2: global config ─────────────────────────────────────────────
	globalPath := opts.GlobalConfigPath
	if globalPath == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			globalPath = filepath.Join(home, ".config", "headson", "config.toml")
		}
	}

	if globalPath != "" {
		found, err := loadFileLayer(k, globalPath, profileName, sources, SourceGlobal)
		if err != nil {
			return nil, err
		}
		if found {
			profileFound = true
		}
	}

	// ── Layer 3: repo config OR standalone profile file ────────────────────
	if opts.ProfileFile != "" {
		found, err := loadFileLayer(k, opts.ProfileFile, profileName, sources, SourceRepo)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, fmt.Errorf("profile %q not found in profile file %s", profileName, opts.ProfileFile)
		}
		profileFound = true
	} else {
		targetDir := opts.TargetDir
		if targetDir == "" {
			targetDir = "."
		}
		repoConfigPath := filepath.Join(targetDir, ".headson.toml")
		found, err := loadFileLayer(k, repoConfigPath, profileName, sources, SourceRepo)
		if err != nil {
			return nil, err
		}
		if found {
			profileFound = true
		}
	}

	// If a non-default profile was requested but not found, return a helpful error.
	if profileName != "default" && !profileFound {
		return nil, fmt.Errorf("profile %q not found in any config file", profileName)
	}

	// ── Layer 4: environment variables ────────────────────────────────────
	envMap := buildEnvMap()
	if len(envMap) > 0 {
		if err := loadLayer(k, envMap, sources, SourceEnv); err != nil {
			return nil, fmt.Errorf("loading env vars: %w", err)
		}
	}

	// ── Layer 5: CLI flags ─────────────────────────────────────────────────
	if len(opts.CLIFlags) > 0 {
		if err := loadLayer(k, opts.CLIFlags, sources, SourceFlag); err != nil {
			return nil, fmt.Errorf("loading CLI flags: %w", err)
		}
	}

	finalProfile := flatMapToProfile(k)

	slog.Debug("config resolved",
		"profile", profileName,
		"format", finalProfile.Format,
		"style", finalProfile.Style,
		"bytes", finalProfile.Bytes,
	)

	return &ResolvedConfig{
		Profile:     finalProfile,
		Sources:     sources,
		ProfileName: profileName,
	}, nil
}

// loadFileLayer loads a named profile from a TOML config file, merges its
// explicitly-set fields into k, and records source attribution. Missing files
// and missing profiles are silently skipped (returns false, nil). Parse errors
// and I/O errors are returned.
func loadFileLayer(k *koanf.Koanf, path, profileName string, sources SourceMap, src Source) (bool, error) {
	flat, err := extractProfileFlat(path, profileName)
	if err != nil {
		return false, fmt.Errorf("loading config %s: %w", path, err)
	}
	if flat == nil {
		return false, nil
	}

	slog.Debug("loading profile from config",
		"profile", profileName,
		"path", path,
		"source", src.String(),
	)

	if err := loadLayer(k, flat, sources, src); err != nil {
		return false, err
	}
	return true, nil
}

// extractProfileFlat parses a TOML config file into a raw Go map and returns a
// flat koanf-compatible map containing only the fields that are explicitly
// present in the TOML for the given profile. Keys the profile leaves unset are
// taken from the profiles it extends, following the extends chain as far as
// it stays within this file. Returns nil if the file does not exist or the
// profile is not found in the file.
func extractProfileFlat(path, profileName string) (map[string]any, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			slog.Debug("config file not found, skipping", "path", path)
			return nil, nil
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	// Parse into a raw map so we only see keys present in the TOML file.
	var raw map[string]interface{}
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	profilesRaw, ok := raw["profile"].(map[string]interface{})
	if !ok {
		available := listConfigProfileNames(path)
		slog.Debug("no [profile] section in config",
			"path", path,
			"available", strings.Join(available, ", "),
		)
		return nil, nil
	}

	profileRaw, ok := profilesRaw[profileName].(map[string]interface{})
	if !ok {
		available := make([]string, 0, len(profilesRaw))
		for name := range profilesRaw {
			available = append(available, name)
		}
		sort.Strings(available)
		slog.Debug("profile not found in config",
			"profile", profileName,
			"path", path,
			"available", strings.Join(available, ", "),
		)
		return nil, nil
	}

	flat := flattenProfileRaw(profileRaw)
	for seen := map[string]bool{profileName: true}; ; {
		parent, _ := profileRaw["extends"].(string)
		if profileRaw, ok = profilesRaw[parent].(map[string]interface{}); !ok || seen[parent] {
			break
		}
		seen[parent] = true
		for key, v := range flattenProfileRaw(profileRaw) {
			if _, set := flat[key]; !set {
				flat[key] = v
			}
		}
	}
	return flat, nil
}

// listConfigProfileNames returns profile names from a TOML file, for debug
// logging. Returns nil on any error.
func listConfigProfileNames(path string) []string {
	var raw map[string]interface{}
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil
	}
	profiles, ok := raw["profile"].(map[string]interface{})
	if !ok {
		return nil
	}
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// flattenProfileRaw converts a raw TOML profile map (as decoded by
// BurntSushi/toml into map[string]interface{}) into a flat koanf-compatible
// map. Only fields explicitly present in the raw map are included.
func flattenProfileRaw(raw map[string]interface{}) map[string]any {
	flat := make(map[string]any)

	// Scalar string fields.
	for _, key := range []string{"output", "format", "style", "color", "encoding", "grep"} {
		if v, ok := raw[key]; ok {
			flat[key] = v
		}
	}

	// Integer fields: BurntSushi/toml decodes TOML integers as int64 in raw maps.
	for _, key := range []string{"bytes", "chars", "lines", "global_bytes", "global_chars", "global_lines", "skip_large_files"} {
		if v, ok := raw[key]; ok {
			flat[key] = rawToInt(v)
		}
	}

	// Boolean fields.
	for _, key := range []string{"compact", "grep_weak", "git_tracked_only", "no_sort"} {
		if v, ok := raw[key]; ok {
			flat[key] = v
		}
	}

	// Slice fields.
	if v, ok := raw["ignore"]; ok {
		flat["ignore"] = rawToStringSlice(v)
	}

	// Priority: an array of glob-pattern arrays.
	if v, ok := raw["priority"]; ok {
		flat["priority"] = rawToStringSliceSlice(v)
	}

	return flat
}

// rawToInt converts a raw TOML numeric value into int. BurntSushi/toml
// decodes TOML integers as int64 in raw maps.
func rawToInt(v interface{}) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

// rawToStringSlice converts a raw TOML array value ([]interface{}) into
// []string. Returns nil for unrecognised types.
func rawToStringSlice(v interface{}) []string {
	switch s := v.(type) {
	case []string:
		return s
	case []interface{}:
		result := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				result = append(result, str)
			}
		}
		return result
	default:
		return nil
	}
}

// rawToStringSliceSlice converts a raw TOML array-of-arrays value into
// [][]string, for the priority field's glob-pattern groups.
func rawToStringSliceSlice(v interface{}) [][]string {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	result := make([][]string, 0, len(items))
	for _, item := range items {
		result = append(result, rawToStringSlice(item))
	}
	return result
}

// loadLayer merges a flat map into k and marks every key in the map as
// originating from src. This approach correctly attributes source even when
// a later layer provides the same value as a prior layer (e.g. CLI flag
// setting the same value as an env var).
func loadLayer(k *koanf.Koanf, m map[string]any, sources SourceMap, src Source) error {
	if err := k.Load(confmap.Provider(m, "."), nil); err != nil {
		return fmt.Errorf("merge layer %s: %w", src.String(), err)
	}
	for key := range m {
		sources[key] = src
	}
	return nil
}

// profileToFlatMap converts a Profile to a flat map for koanf's confmap
// provider. All fields are included (used for the defaults layer where every
// field has an authoritative default value).
func profileToFlatMap(p *Profile) map[string]any {
	return map[string]any{
		"output":   p.Output,
		"format":   p.Format,
		"style":    p.Style,
		"color":    p.Color,
		"encoding": p.Encoding,
		"grep":     p.Grep,

		"bytes":        p.Bytes,
		"chars":        p.Chars,
		"lines":        p.Lines,
		"global_bytes": p.GlobalBytes,
		"global_chars": p.GlobalChars,
		"global_lines": p.GlobalLines,

		"compact":          p.Compact,
		"grep_weak":        p.GrepWeak,
		"git_tracked_only": p.GitTrackedOnly,
		"no_sort":          p.NoSort,
		"skip_large_files": p.SkipLargeFiles,

		"ignore":   p.Ignore,
		"priority": p.Priority,
	}
}

// flatMapToProfile converts the current koanf state into a Profile struct.
func flatMapToProfile(k *koanf.Koanf) *Profile {
	return &Profile{
		Output:   k.String("output"),
		Format:   k.String("format"),
		Style:    k.String("style"),
		Color:    k.String("color"),
		Encoding: k.String("encoding"),
		Grep:     k.String("grep"),

		Bytes:       k.Int("bytes"),
		Chars:       k.Int("chars"),
		Lines:       k.Int("lines"),
		GlobalBytes: k.Int("global_bytes"),
		GlobalChars: k.Int("global_chars"),
		GlobalLines: k.Int("global_lines"),

		Compact:        k.Bool("compact"),
		GrepWeak:       k.Bool("grep_weak"),
		GitTrackedOnly: k.Bool("git_tracked_only"),
		NoSort:         k.Bool("no_sort"),
		SkipLargeFiles: int64(k.Int64("skip_large_files")),

		Ignore:   k.Strings("ignore"),
		Priority: flatMapPriority(k),
	}
}

// flatMapPriority extracts the priority field from koanf state. koanf has no
// typed getter for [][]string, so the raw value is fetched and converted by
// hand, covering both the [][]string shape coming off a Profile
// (profileToFlatMap) and the []interface{} shape coming off a decoded TOML
// file layer.
func flatMapPriority(k *koanf.Koanf) [][]string {
	raw := k.Get("priority")
	switch v := raw.(type) {
	case [][]string:
		return v
	case []interface{}:
		return rawToStringSliceSlice(v)
	default:
		return nil
	}
}
