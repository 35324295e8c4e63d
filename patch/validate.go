package patch

import (
	"errors"
	"fmt"
	"strings"
)

var ErrPathNotAllowed = errors.New("path is not allowed")

// Validate checks every operation against the allow-list. An empty list
// allows everything.
func Validate(ops []Operation, allowed AllowedPaths) error {
	for i, op := range ops {
		if !allowed.Allows(op.Path) {
			return fmt.Errorf("operation %d: %w: %q", i, ErrPathNotAllowed, op.Path)
		}
	}
	return nil
}

// Filter drops the operations Validate would reject and returns them
// separately so callers can log them.
func Filter(ops []Operation, allowed AllowedPaths) (kept, dropped []Operation) {
	for _, op := range ops {
		if allowed.Allows(op.Path) {
			kept = append(kept, op)
		} else {
			dropped = append(dropped, op)
		}
	}
	return kept, dropped
}

func (a AllowedPaths) Allows(path string) bool {
	if len(a) == 0 || a[path] {
		return true
	}
	segments := strings.Split(path, "/")
	for pattern := range a {
		if matchPattern(strings.Split(pattern, "/"), segments) {
			return true
		}
	}
	return false
}

func matchPattern(pattern, segments []string) bool {
	if len(pattern) != len(segments) {
		return false
	}
	for i, p := range pattern {
		if p == "*" || p == "-" {
			continue
		}
		if p != segments[i] {
			return false
		}
	}
	return true
}
