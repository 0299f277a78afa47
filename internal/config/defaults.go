package config

import "github.com/headson/headson/internal/priority"

// DefaultProfile returns a new Profile populated with the built-in defaults.
// This profile is used as the base when no .headson.toml is present or when
// a named profile omits fields.
//
// Callers receive a fresh copy each time; mutating the returned value does
// not affect subsequent calls.
func DefaultProfile() *Profile {
	return &Profile{
		Output:   "",
		Format:   "",
		Style:    "default",
		Compact:  false,
		Color:    "auto",
		Encoding: "cl100k_base",
		Ignore: []string{
			"node_modules",
			"dist",
			".git",
			"coverage",
			"__pycache__",
			".next",
			"target",
			"vendor",
		},
		GitTrackedOnly: false,
		SkipLargeFiles: 0,
		NoSort:         false,
		Priority:       defaultPriorityGroups(),
	}
}

// defaultPriorityGroups flattens internal/priority.DefaultGroups (the
// built-in manifest/source/test/docs ordering) into the [][]string shape a
// Profile stores, so the two packages share one set of defaults instead of
// maintaining duplicate glob lists.
func defaultPriorityGroups() [][]string {
	groups := priority.DefaultGroups()
	out := make([][]string, len(groups))
	for i, g := range groups {
		out[i] = g.Patterns
	}
	return out
}
