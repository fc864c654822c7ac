// Package util provides small helpers shared across the recorder.
package util

import (
	"fmt"
	"strconv"
	"strings"
)

// SanitizeName turns a recording name into something safe to use as a
// filename: spaces and colons become underscores.
func SanitizeName(name string) string {
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, ":", "_")
	return name
}

// ParseFrameIndex parses a seek argument: a positive integer, or the
// keyword "end" which resolves to the last frame of the timeline.
func ParseFrameIndex(arg string, length int) (int, error) {
	if strings.EqualFold(arg, "end") {
		if length < 1 {
			return 0, fmt.Errorf("timeline is empty, nothing to seek to")
		}
		return length, nil
	}
	i, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("frame index %q is not a number or \"end\"", arg)
	}
	if i < 1 {
		return 0, fmt.Errorf("frame index must be positive, got %d", i)
	}
	return i, nil
}

// ParseBoolArg parses an optional boolean command argument. An empty
// string yields the default.
func ParseBoolArg(arg string, def bool) (bool, error) {
	if arg == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(arg)
	if err != nil {
		return false, fmt.Errorf("expected true or false, got %q", arg)
	}
	return b, nil
}
