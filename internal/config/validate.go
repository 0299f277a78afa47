package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// validFormats lists the only accepted values for Profile.Format.
// An empty string is valid for profiles that inherit the value from a parent.
var validFormats = map[string]bool{
	"json":   true,
	"yaml":   true,
	"text":   true,
	"pseudo": true,
	"code":   true,
	"":       true,
}

// validStyles lists the only accepted values for Profile.Style.
var validStyles = map[string]bool{
	"strict":   true,
	"default":  true,
	"detailed": true,
	"":         true,
}

// validColors lists the only accepted values for Profile.Color.
var validColors = map[string]bool{
	"off":  true,
	"on":   true,
	"auto": true,
	"":     true,
}

// validEncodings lists the only accepted values for Profile.Encoding.
// An empty string is valid for profiles that inherit the value from a parent.
var validEncodings = map[string]bool{
	"cl100k_base": true,
	"o200k_base":  true,
	"none":        true,
	"":            true,
}

// budgetHardCap is the absolute upper limit for any single Bytes/Chars/Lines
// budget field. Values above this are almost certainly a configuration
// mistake.
const budgetHardCap = 50_000_000

// budgetSoftCap triggers a warning when a budget field exceeds it, because
// unusually large budgets are a common misconfiguration.
const budgetSoftCap = 5_000_000

// maxInheritanceWarningDepth is the chain length above which validation emits
// a warning about deep inheritance (mirrors the resolver constant).
const maxInheritanceWarningDepth = 3

// Validate inspects every profile in cfg and returns a slice of
// ValidationErrors describing hard errors and warnings found in the
// configuration. It does not stop at the first error; all profiles are
// checked and all findings are accumulated before returning.
//
// The returned slice is nil when no issues are found. Each element carries
// a Severity field of either "error" or "warning".
//
// Validate does not modify cfg.
func Validate(cfg *Config) []ValidationError {
	if cfg == nil {
		return nil
	}

	var results []ValidationError

	for name, profile := range cfg.Profile {
		if profile == nil {
			continue
		}
		errs := validateProfile(name, profile, cfg.Profile)
		results = append(results, errs...)
	}

	if len(results) > 0 {
		slog.Debug("config validation complete",
			"total_issues", len(results),
		)
	}

	return results
}

// validateProfile checks a single named profile and returns all validation
// errors and warnings for that profile.
func validateProfile(name string, p *Profile, allProfiles map[string]*Profile) []ValidationError {
	var results []ValidationError

	field := func(f string) string {
		return fmt.Sprintf("profile.%s.%s", name, f)
	}

	// ── Hard errors ────────────────────────────────────────────────────────

	// format
	if !validFormats[p.Format] {
		results = append(results, ValidationError{
			Severity: "error",
			Field:    field("format"),
			Message:  fmt.Sprintf("format %q is invalid", p.Format),
			Suggest:  "Valid formats: json, yaml, text, pseudo, code",
		})
	}

	// style
	if !validStyles[p.Style] {
		results = append(results, ValidationError{
			Severity: "error",
			Field:    field("style"),
			Message:  fmt.Sprintf("style %q is invalid", p.Style),
			Suggest:  "Valid styles: strict, default, detailed",
		})
	}

	// color
	if !validColors[p.Color] {
		results = append(results, ValidationError{
			Severity: "error",
			Field:    field("color"),
			Message:  fmt.Sprintf("color %q is invalid", p.Color),
			Suggest:  "Valid values: off, on, auto",
		})
	}

	// encoding
	if !validEncodings[p.Encoding] {
		results = append(results, ValidationError{
			Severity: "error",
			Field:    field("encoding"),
			Message:  fmt.Sprintf("encoding %q is invalid", p.Encoding),
			Suggest:  "Valid encodings: cl100k_base, o200k_base, none",
		})
	}

	// grep regex syntax
	if p.Grep != "" {
		if _, err := regexp.Compile(p.Grep); err != nil {
			results = append(results, ValidationError{
				Severity: "error",
				Field:    field("grep"),
				Message:  fmt.Sprintf("grep %q is not a valid regular expression: %s", p.Grep, err.Error()),
				Suggest:  "Fix the regex syntax or remove the grep field",
			})
		}
	}

	// budget fields: negative
	for _, b := range []struct {
		name string
		val  int
	}{
		{"bytes", p.Bytes}, {"chars", p.Chars}, {"lines", p.Lines},
		{"global_bytes", p.GlobalBytes}, {"global_chars", p.GlobalChars}, {"global_lines", p.GlobalLines},
	} {
		if b.val < 0 {
			results = append(results, ValidationError{
				Severity: "error",
				Field:    field(b.name),
				Message:  fmt.Sprintf("%s %d is negative", b.name, b.val),
				Suggest:  fmt.Sprintf("Set %s to a positive integer or remove it to leave that dimension unconstrained", b.name),
			})
		}
		if b.val > budgetHardCap {
			results = append(results, ValidationError{
				Severity: "error",
				Field:    field(b.name),
				Message:  fmt.Sprintf("%s %d exceeds the maximum allowed value of %d", b.name, b.val, budgetHardCap),
				Suggest:  fmt.Sprintf("Reduce %s to at most %d", b.name, budgetHardCap),
			})
		}
	}

	if p.SkipLargeFiles < 0 {
		results = append(results, ValidationError{
			Severity: "error",
			Field:    field("skip_large_files"),
			Message:  fmt.Sprintf("skip_large_files %d is negative", p.SkipLargeFiles),
			Suggest:  "Set skip_large_files to a positive byte count or 0 to disable the cap",
		})
	}

	// glob pattern validity
	results = append(results, validateGlobPatterns(name, p)...)

	// circular inheritance
	if p.Extends != nil && *p.Extends != "" {
		if _, err := ResolveProfile(name, allProfiles); err != nil {
			// Report circular or missing parent.
			if strings.Contains(err.Error(), "circular") {
				results = append(results, ValidationError{
					Severity: "error",
					Field:    field("extends"),
					Message:  err.Error(),
					Suggest:  "Remove or restructure the extends chain to eliminate the cycle",
				})
			} else {
				results = append(results, ValidationError{
					Severity: "error",
					Field:    field("extends"),
					Message:  fmt.Sprintf("extends %q: %s", *p.Extends, err.Error()),
					Suggest:  fmt.Sprintf("Define a profile named %q or update the extends value", *p.Extends),
				})
			}
		}
	}

	// ── Warnings ───────────────────────────────────────────────────────────

	// Overlapping priority-group patterns (same exact pattern in multiple groups).
	results = append(results, warnOverlappingGroups(name, p)...)

	// Empty priority groups.
	results = append(results, warnEmptyGroups(name, p)...)

	// Inheritance depth > 3.
	results = append(results, warnDeepInheritance(name, p, allProfiles)...)

	// budget soft caps.
	for _, b := range []struct {
		name string
		val  int
	}{
		{"bytes", p.Bytes}, {"chars", p.Chars}, {"lines", p.Lines},
		{"global_bytes", p.GlobalBytes}, {"global_chars", p.GlobalChars}, {"global_lines", p.GlobalLines},
	} {
		if b.val > budgetSoftCap && b.val <= budgetHardCap {
			results = append(results, ValidationError{
				Severity: "warning",
				Field:    field(b.name),
				Message:  fmt.Sprintf("%s %d is unusually large", b.name, b.val),
				Suggest:  fmt.Sprintf("Values above %d may cause memory pressure; verify this is intentional", budgetSoftCap),
			})
		}
	}

	// Output path outside the current directory tree.
	if p.Output != "" {
		if strings.HasPrefix(p.Output, "../") || filepath.IsAbs(p.Output) {
			results = append(results, ValidationError{
				Severity: "warning",
				Field:    field("output"),
				Message:  fmt.Sprintf("output path %q is outside the project directory", p.Output),
				Suggest:  "Use a relative path within the project directory, e.g. \".headson/output.json\"",
			})
		}
	}

	return results
}

// validateGlobPatterns validates all glob pattern lists in the profile and
// returns errors for any invalid patterns.
func validateGlobPatterns(profileName string, p *Profile) []ValidationError {
	var results []ValidationError

	type patternList struct {
		fieldPath string
		patterns  []string
	}

	lists := []patternList{
		{fmt.Sprintf("profile.%s.ignore", profileName), p.Ignore},
	}
	for i, group := range p.Priority {
		lists = append(lists, patternList{
			fieldPath: fmt.Sprintf("profile.%s.priority[%d]", profileName, i),
			patterns:  group,
		})
	}

	for _, list := range lists {
		for i, pattern := range list.patterns {
			if err := validateGlobPattern(pattern); err != nil {
				results = append(results, ValidationError{
					Severity: "error",
					Field:    fmt.Sprintf("%s[%d]", list.fieldPath, i),
					Message:  fmt.Sprintf("invalid glob pattern %q: %s", pattern, err.Error()),
					Suggest:  "Use doublestar glob syntax, e.g. \"**/*.go\" or \"src/**\"",
				})
			}
		}
	}

	return results
}

// validateGlobPattern checks whether pattern is syntactically valid according
// to the doublestar library. It uses doublestar.ValidatePattern which returns
// false for malformed patterns (e.g. unclosed character classes or alternations).
func validateGlobPattern(pattern string) error {
	if !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("syntax error in pattern %q", pattern)
	}
	return nil
}

// warnOverlappingGroups returns warnings for glob patterns that appear
// identically in more than one priority group.
func warnOverlappingGroups(profileName string, p *Profile) []ValidationError {
	// Map each pattern to the index of the first group it appears in.
	seen := make(map[string]int)
	var results []ValidationError

	for i, group := range p.Priority {
		for _, pattern := range group {
			if firstGroup, exists := seen[pattern]; exists {
				results = append(results, ValidationError{
					Severity: "warning",
					Field:    fmt.Sprintf("profile.%s.priority[%d]", profileName, i),
					Message: fmt.Sprintf(
						"pattern %q also appears in priority group %d; duplicate group patterns are redundant",
						pattern, firstGroup,
					),
					Suggest: fmt.Sprintf("Remove the duplicate pattern from priority group %d", i),
				})
			} else {
				seen[pattern] = i
			}
		}
	}

	return results
}

// warnEmptyGroups returns warnings for priority groups that are explicitly
// defined but contain no patterns.
func warnEmptyGroups(profileName string, p *Profile) []ValidationError {
	var results []ValidationError
	for i, group := range p.Priority {
		// Only warn if the group is a non-nil empty slice (explicitly set to
		// empty). A nil group means it was never set, which is fine.
		if group != nil && len(group) == 0 {
			results = append(results, ValidationError{
				Severity: "warning",
				Field:    fmt.Sprintf("profile.%s.priority[%d]", profileName, i),
				Message:  fmt.Sprintf("priority group %d has no patterns and could be removed", i),
				Suggest:  fmt.Sprintf("Add glob patterns to priority group %d or remove the empty group", i),
			})
		}
	}

	return results
}

// warnDeepInheritance returns a warning when the inheritance chain for the
// profile exceeds maxInheritanceWarningDepth levels.
func warnDeepInheritance(profileName string, p *Profile, allProfiles map[string]*Profile) []ValidationError {
	if p.Extends == nil || *p.Extends == "" {
		return nil
	}

	resolution, err := ResolveProfile(profileName, allProfiles)
	if err != nil {
		// Errors are already reported elsewhere (e.g. circular inheritance).
		return nil
	}

	depth := len(resolution.Chain)
	if depth <= maxInheritanceWarningDepth {
		return nil
	}

	return []ValidationError{
		{
			Severity: "warning",
			Field:    fmt.Sprintf("profile.%s.extends", profileName),
			Message: fmt.Sprintf(
				"inheritance chain is %d levels deep (%s)",
				depth,
				strings.Join(resolution.Chain, " -> "),
			),
			Suggest: "Flatten the inheritance chain to 3 levels or fewer for maintainability",
		},
	}
}

// Lint runs all Validate checks and additionally performs deeper static
// analysis of the configuration. It returns a slice of LintResult values that
// embed ValidationError for unified severity/field/message access.
//
// Lint-only checks include:
//   - Unreachable groups: a priority group whose patterns are a subset of a
//     higher-priority group (detected by exact string overlap heuristic).
//   - No-extension patterns: group patterns that have no file-extension
//     suffix, meaning they match any file name regardless of type.
//   - Complexity score: profiles with many non-default fields set are
//     flagged to encourage splitting into focused sub-profiles.
//
// The returned slice is nil when no issues are found.
func Lint(cfg *Config) []LintResult {
	if cfg == nil {
		return nil
	}

	var results []LintResult

	// Include all Validate results as LintResults (Code left empty for these).
	for _, ve := range Validate(cfg) {
		results = append(results, LintResult{ValidationError: ve})
	}

	// Perform deeper lint-only analysis per profile.
	for name, profile := range cfg.Profile {
		if profile == nil {
			continue
		}
		results = append(results, lintProfile(name, profile)...)
	}

	return results
}

// lintProfile performs the deeper lint-only analysis for a single profile.
func lintProfile(profileName string, p *Profile) []LintResult {
	var results []LintResult

	results = append(results, lintUnreachableGroups(profileName, p)...)
	results = append(results, lintNoExtPatterns(profileName, p)...)
	results = append(results, lintComplexity(profileName, p)...)

	return results
}

// lintUnreachableGroups detects priority groups whose patterns are all
// exact-string duplicates of patterns in a higher-priority (lower-indexed)
// group. When every pattern in group N already appears in a higher group,
// group N will never be reached by the ordering engine.
func lintUnreachableGroups(profileName string, p *Profile) []LintResult {
	var results []LintResult

	// Build a cumulative set of patterns from all higher-priority groups.
	higherPatterns := make(map[string]bool)

	for i, group := range p.Priority {
		if len(group) == 0 {
			continue
		}

		// Count how many of this group's patterns already appear in higher groups.
		covered := 0
		for _, pattern := range group {
			if higherPatterns[pattern] {
				covered++
			}
		}

		// If all patterns are covered by higher groups, this group is unreachable.
		if covered == len(group) {
			results = append(results, LintResult{
				ValidationError: ValidationError{
					Severity: "warning",
					Field:    fmt.Sprintf("profile.%s.priority[%d]", profileName, i),
					Message: fmt.Sprintf(
						"all %d patterns in priority group %d are already present in higher-priority groups; this group is unreachable",
						len(group), i,
					),
					Suggest: fmt.Sprintf("Remove duplicate patterns from group %d or consolidate into a higher-priority group", i),
				},
				Code: "unreachable-group",
			})
		}

		// Add this group's patterns to the cumulative set.
		for _, pattern := range group {
			higherPatterns[pattern] = true
		}
	}

	return results
}

// lintNoExtPatterns detects priority-group patterns that do not contain any
// file-extension-like suffix (no dot after the last path separator or
// wildcard). Such patterns match files of any type, which may be unintentional.
func lintNoExtPatterns(profileName string, p *Profile) []LintResult {
	var results []LintResult

	for i, group := range p.Priority {
		for j, pattern := range group {
			if !patternHasExtension(pattern) {
				results = append(results, LintResult{
					ValidationError: ValidationError{
						Severity: "warning",
						Field:    fmt.Sprintf("profile.%s.priority[%d][%d]", profileName, i, j),
						Message:  fmt.Sprintf("pattern %q has no file extension; it will match files of any type", pattern),
						Suggest:  "Add an extension suffix (e.g. \"**/*.go\") unless matching all file types is intentional",
					},
					Code: "no-ext-match",
				})
			}
		}
	}

	return results
}

// patternHasExtension reports whether pattern contains a dot after the last
// path separator or wildcard segment, indicating it matches a specific file
// extension. This is a heuristic, not a precise check.
func patternHasExtension(pattern string) bool {
	// Find the last component after the final '/' or '**'.
	last := pattern
	if idx := strings.LastIndex(pattern, "/"); idx >= 0 {
		last = pattern[idx+1:]
	}
	// The last segment should contain a dot for it to have an extension.
	// Ignore patterns where the dot is only at the start (hidden files like ".git").
	dotIdx := strings.LastIndex(last, ".")
	if dotIdx < 0 {
		return false
	}
	// A leading dot alone (e.g. ".git") does not constitute a file extension.
	if dotIdx == 0 && !strings.Contains(last[1:], ".") {
		return false
	}
	return true
}

// complexityThreshold is the number of non-default fields above which a
// profile is considered overly complex.
const complexityThreshold = 8

// lintComplexity computes the number of non-zero/non-empty fields in a profile
// and emits a warning when the count exceeds complexityThreshold.
func lintComplexity(profileName string, p *Profile) []LintResult {
	score := profileComplexityScore(p)
	if score <= complexityThreshold {
		return nil
	}

	return []LintResult{
		{
			ValidationError: ValidationError{
				Severity: "warning",
				Field:    fmt.Sprintf("profile.%s", profileName),
				Message:  fmt.Sprintf("profile has a complexity score of %d (threshold: %d)", score, complexityThreshold),
				Suggest:  "Consider splitting into multiple profiles connected via extends to improve maintainability",
			},
			Code: "complexity",
		},
	}
}

// profileComplexityScore counts the number of non-empty / non-zero fields in
// the profile. Scalar fields each count as 1; each non-empty slice counts as 1.
func profileComplexityScore(p *Profile) int {
	score := 0

	if p.Output != "" {
		score++
	}
	if p.Format != "" {
		score++
	}
	if p.Style != "" {
		score++
	}
	if p.Compact {
		score++
	}
	if p.Color != "" {
		score++
	}
	if p.Encoding != "" {
		score++
	}
	if p.Grep != "" {
		score++
	}
	if p.GrepWeak {
		score++
	}
	if p.Bytes != 0 {
		score++
	}
	if p.Chars != 0 {
		score++
	}
	if p.Lines != 0 {
		score++
	}
	if p.GlobalBytes != 0 {
		score++
	}
	if p.GlobalChars != 0 {
		score++
	}
	if p.GlobalLines != 0 {
		score++
	}
	if len(p.Ignore) > 0 {
		score++
	}
	if p.GitTrackedOnly {
		score++
	}
	if p.SkipLargeFiles != 0 {
		score++
	}
	if p.NoSort {
		score++
	}
	if len(p.Priority) > 0 {
		score++
	}

	return score
}
