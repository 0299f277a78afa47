package config

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// TraceStep records one evaluation step during file rule tracing.
type TraceStep struct {
	// StepNum is the 1-based step number in the evaluation sequence.
	StepNum int

	// Rule describes the rule being evaluated, e.g. "Default ignore patterns".
	Rule string

	// Matched indicates whether the rule matched the file path.
	Matched bool

	// Outcome describes the result of this step, e.g. "EXCLUDED",
	// "no match -> continue", "not simulated -> continue", "no match", or
	// `MATCH "<pattern>" -> assigned group N`.
	Outcome string
}

// ExplainResult holds the full explanation for a single file path showing
// how a profile would process the file during discovery and ordering.
type ExplainResult struct {
	// FilePath is the file path being explained.
	FilePath string

	// ProfileName is the name of the profile being used for display.
	ProfileName string

	// Extends is the parent profile name, or empty if there is no parent.
	Extends string

	// Included indicates whether the file is included (true) or excluded (false).
	Included bool

	// ExcludedBy names the rule that caused exclusion when Included is false.
	ExcludedBy string

	// Group is the --priority group index assigned to the file (-1 if
	// excluded or unmatched by any group).
	Group int

	// GroupPattern is the glob pattern that matched the group assignment.
	GroupPattern string

	// Trace is the ordered list of evaluation steps.
	Trace []TraceStep
}

// ExplainFile evaluates how profile p would process filePath and returns a
// full ExplainResult describing the evaluation. profileName is used for
// display only; it does not affect the evaluation logic.
//
// The function simulates the discovery pipeline steps in order:
//  1. Default ignore patterns
//  2. Profile ignore patterns
//  3. .gitignore rules (not simulated -- requires disk access)
//  4. Priority groups, in order
func ExplainFile(filePath, profileName string, p *Profile) ExplainResult {
	result := ExplainResult{
		FilePath:    filePath,
		ProfileName: profileName,
		Group:       -1,
	}

	// Set Extends if the profile inherits from a parent.
	if p.Extends != nil && *p.Extends != "" {
		result.Extends = *p.Extends
	}

	stepNum := 0
	nextStep := func() int {
		stepNum++
		return stepNum
	}

	// ── Step 1: Default ignore patterns ────────────────────────────────────
	defaults := DefaultProfile()
	{
		step := TraceStep{
			StepNum: nextStep(),
			Rule:    "Default ignore patterns",
		}
		matchedPattern := ""
		for _, pattern := range defaults.Ignore {
			if matchesGlob(pattern, filePath) {
				matchedPattern = pattern
				break
			}
		}
		if matchedPattern != "" {
			step.Matched = true
			step.Outcome = "EXCLUDED"
			result.Trace = append(result.Trace, step)
			result.Included = false
			result.ExcludedBy = fmt.Sprintf("default ignore pattern %q", matchedPattern)
			return result
		}
		step.Matched = false
		step.Outcome = "no match -> continue"
		result.Trace = append(result.Trace, step)
	}

	// ── Step 2: Profile ignore patterns ────────────────────────────────────
	{
		step := TraceStep{
			StepNum: nextStep(),
			Rule:    "Profile ignore patterns",
		}
		matchedPattern := ""
		for _, pattern := range p.Ignore {
			if matchesGlob(pattern, filePath) {
				matchedPattern = pattern
				break
			}
		}
		if matchedPattern != "" {
			step.Matched = true
			step.Outcome = "EXCLUDED"
			result.Trace = append(result.Trace, step)
			result.Included = false
			result.ExcludedBy = fmt.Sprintf("profile ignore pattern %q", matchedPattern)
			return result
		}
		step.Matched = false
		step.Outcome = "no match -> continue"
		result.Trace = append(result.Trace, step)
	}

	// ── Step 3: .gitignore rules ────────────────────────────────────────────
	{
		result.Trace = append(result.Trace, TraceStep{
			StepNum: nextStep(),
			Rule:    ".gitignore rules",
			Matched: false,
			Outcome: "not simulated -> continue",
		})
	}

	// ── Steps 4..N: priority groups, in order ──────────────────────────────
	for i, group := range p.Priority {
		step := TraceStep{
			StepNum: nextStep(),
			Rule:    fmt.Sprintf("Priority group %d", i),
		}

		matchedPattern := ""
		for _, pattern := range group {
			if matchesGlob(pattern, filePath) {
				matchedPattern = pattern
				break
			}
		}

		if matchedPattern != "" {
			// First match wins -- record the step and stop group evaluation.
			result.Group = i
			result.GroupPattern = matchedPattern
			step.Matched = true
			step.Outcome = fmt.Sprintf("MATCH %q -> assigned group %d", matchedPattern, i)
			result.Trace = append(result.Trace, step)
			break
		}
		step.Matched = false
		step.Outcome = "no match"
		result.Trace = append(result.Trace, step)
	}

	// All steps passed -- file is included.
	result.Included = true

	return result
}

// matchesAny reports whether path matches any of the given glob patterns.
// Pattern matching errors are silently ignored.
func matchesAny(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if matchesGlob(pattern, path) {
			return true
		}
	}
	return false
}

// matchesGlob reports whether filePath matches the given doublestar glob
// pattern. Match errors are silently ignored and treated as non-matches.
func matchesGlob(pattern, filePath string) bool {
	matched, err := doublestar.Match(pattern, filePath)
	if err != nil {
		return false
	}
	return matched
}
