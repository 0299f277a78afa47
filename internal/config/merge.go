package config

// mergeProfile creates a new Profile by applying override on top of base.
// The merge rules are:
//   - String scalars: use override if non-empty; otherwise keep base.
//   - Int/int64 scalars: use override if non-zero; otherwise keep base.
//   - Bool scalars: always use override (false is a valid override value).
//   - Slice fields (Ignore): use override slice if it is non-nil and
//     non-empty; otherwise keep base slice.
//   - Priority: the whole group list is replaced independently (non-nil,
//     non-empty override replaces the base list).
//
// Neither base nor override is mutated. A fresh Profile is always returned.
// The Extends field is always cleared on the returned profile.
func mergeProfile(base, override *Profile) *Profile {
	result := &Profile{
		// Scalar: string
		Output:   mergeString(base.Output, override.Output),
		Format:   mergeString(base.Format, override.Format),
		Style:    mergeString(base.Style, override.Style),
		Color:    mergeString(base.Color, override.Color),
		Encoding: mergeString(base.Encoding, override.Encoding),
		Grep:     mergeString(base.Grep, override.Grep),

		// Scalar: int / int64
		Bytes:          mergeInt(base.Bytes, override.Bytes),
		Chars:          mergeInt(base.Chars, override.Chars),
		Lines:          mergeInt(base.Lines, override.Lines),
		GlobalBytes:    mergeInt(base.GlobalBytes, override.GlobalBytes),
		GlobalChars:    mergeInt(base.GlobalChars, override.GlobalChars),
		GlobalLines:    mergeInt(base.GlobalLines, override.GlobalLines),
		SkipLargeFiles: mergeInt64(base.SkipLargeFiles, override.SkipLargeFiles),

		// Scalar: bool -- override always wins (false is meaningful)
		Compact:        override.Compact,
		GrepWeak:       override.GrepWeak,
		GitTrackedOnly: override.GitTrackedOnly,
		NoSort:         override.NoSort,

		// Slices: child replaces parent entirely when non-nil and non-empty
		Ignore: mergeSlice(base.Ignore, override.Ignore),

		// Priority: the whole group list replaces the parent's when set
		Priority: mergePriority(base.Priority, override.Priority),

		// Extends is always cleared after merge (profile is fully resolved)
		Extends: nil,
	}
	return result
}

// mergeString returns override if non-empty, otherwise base.
func mergeString(base, override string) string {
	if override != "" {
		return override
	}
	return base
}

// mergeInt returns override if non-zero, otherwise base.
func mergeInt(base, override int) int {
	if override != 0 {
		return override
	}
	return base
}

// mergeInt64 returns override if non-zero, otherwise base.
func mergeInt64(base, override int64) int64 {
	if override != 0 {
		return override
	}
	return base
}

// mergeSlice returns a copy of override if it is non-nil and non-empty,
// otherwise returns a copy of base. Copies are made at the boundary to
// prevent callers from sharing slice backing arrays.
func mergeSlice(base, override []string) []string {
	if len(override) > 0 {
		result := make([]string, len(override))
		copy(result, override)
		return result
	}
	if len(base) > 0 {
		result := make([]string, len(base))
		copy(result, base)
		return result
	}
	return nil
}

// mergePriority returns a copy of override if it is non-nil and non-empty,
// otherwise a copy of base. Groups replace wholesale rather than merging
// element-by-element, matching mergeSlice's replace-not-append semantics.
func mergePriority(base, override [][]string) [][]string {
	if len(override) > 0 {
		return copyGroups(override)
	}
	if len(base) > 0 {
		return copyGroups(base)
	}
	return nil
}

func copyGroups(groups [][]string) [][]string {
	out := make([][]string, len(groups))
	for i, g := range groups {
		out[i] = mergeSlice(nil, g)
	}
	return out
}
