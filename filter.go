// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Mibo5354
// Source: github.com/Mibo5354/android-external-zlib

package zipdir

import (
	"fmt"
	"path"

	"github.com/woozymasta/pathrules"
)

// Filter is a predicate over an entry path; true means include.
// Paths are relative, slash- or platform-separated.
type Filter func(path string) bool

// IncludeAllFilter accepts every entry.
func IncludeAllFilter(string) bool {
	return true
}

// ExcludeHiddenFilter rejects hidden entries (final path component starts with ".").
func ExcludeHiddenFilter(pathValue string) bool {
	return !isHiddenPath(pathValue)
}

// isHiddenPath reports whether the final path component starts with ".".
func isHiddenPath(pathValue string) bool {
	base := path.Base(normalizePathForMatching(pathValue))
	if base == "" || base == "." || base == "/" {
		return false
	}

	return base[0] == '.'
}

// composeZipFilter combines the hidden-file rule and the caller filter.
// A path is included only when it passes both.
func composeZipFilter(includeHidden bool, filter Filter) Filter {
	return func(pathValue string) bool {
		if !includeHidden && isHiddenPath(pathValue) {
			return false
		}

		if filter != nil {
			return filter(pathValue)
		}

		return true
	}
}

// NewRuleFilter compiles gitignore-like path rules into a Filter.
func NewRuleFilter(rules []pathrules.Rule, opts pathrules.MatcherOptions) (Filter, error) {
	rules = normalizeFilterRules(rules)
	if len(rules) == 0 {
		return nil, fmt.Errorf("%w: empty rule set", ErrInvalidFilterRules)
	}

	matcher, err := pathrules.NewMatcher(rules, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: compile rules: %w", ErrInvalidFilterRules, err)
	}

	return func(pathValue string) bool {
		candidate := NormalizePath(pathValue)
		if candidate == "" {
			return false
		}

		return matcher.Included(candidate, false)
	}, nil
}

// normalizeFilterRules normalizes rule patterns and drops empty patterns.
func normalizeFilterRules(rules []pathrules.Rule) []pathrules.Rule {
	normalized := make([]pathrules.Rule, 0, len(rules))
	for _, rule := range rules {
		pattern := normalizePathForMatching(rule.Pattern)
		if pattern == "" {
			continue
		}

		normalized = append(normalized, pathrules.Rule{
			Action:  rule.Action,
			Pattern: pattern,
		})
	}

	return normalized
}
