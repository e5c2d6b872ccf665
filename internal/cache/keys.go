package cache

import (
	"fmt"
	"sort"
	"strings"
)

// Key builds a cache key from entity type, operation and parameters.
// Parameters are sorted so identical inputs always produce identical
// keys, and keys stay matchable by the per-entity list pattern.
func Key(entity, op string, params map[string]string) string {
	parts := []string{entity, op}
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%s", name, params[name]))
	}
	return strings.Join(parts, ":")
}

// DetailKey is the key for a single entity by id.
func DetailKey(entity string, id int) string {
	return fmt.Sprintf("%s:detail:id=%d", entity, id)
}

// ListPattern matches every cached list query for an entity type,
// regardless of parameter set.
func ListPattern(entity string) string {
	return entity + ":list:*"
}

// EntityPattern matches every cached key for an entity type.
func EntityPattern(entity string) string {
	return entity + ":*"
}
