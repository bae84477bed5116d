package form

import (
	"maps"
	"strconv"
	"strings"

	"github.com/goliatone/go-formvalidate/pkg/validation"
)

// splitPath turns a dotted field path into segments, dropping empty ones.
func splitPath(path string) []string {
	trimmed := strings.Trim(strings.TrimSpace(path), ".")
	if trimmed == "" {
		return nil
	}
	parts := strings.Split(trimmed, ".")
	out := parts[:0]
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func sliceIndex(segment string) (int, bool) {
	idx, err := strconv.Atoi(segment)
	if err != nil || idx < 0 {
		return 0, false
	}
	return idx, true
}

// lookupValue resolves a dotted path inside nested maps and slices.
func lookupValue(root map[string]any, path string) (any, bool) {
	segments := splitPath(path)
	if root == nil || len(segments) == 0 {
		return nil, false
	}
	var current any = root
	for _, segment := range segments {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, ok := sliceIndex(segment)
			if !ok || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// assignValue writes value at the dotted path, creating maps for name
// segments and slices for index segments. A scalar or mismatched container in
// the way is replaced, so assignment never fails.
func assignValue(root map[string]any, path string, value any) map[string]any {
	if root == nil {
		root = make(map[string]any)
	}
	segments := splitPath(path)
	if len(segments) == 0 {
		return root
	}
	updated, _ := assign(root, segments, value).(map[string]any)
	return updated
}

// removeValue drops the value at the dotted path. Map entries are deleted;
// slice elements are set to nil so later indexes keep their positions. Missing
// paths are left alone.
func removeValue(root map[string]any, path string) {
	segments := splitPath(path)
	if root == nil || len(segments) == 0 {
		return
	}
	parentPath := strings.Join(segments[:len(segments)-1], ".")
	last := segments[len(segments)-1]

	var parent any = root
	if parentPath != "" {
		found, ok := lookupValue(root, parentPath)
		if !ok {
			return
		}
		parent = found
	}
	switch node := parent.(type) {
	case map[string]any:
		delete(node, last)
	case []any:
		if idx, ok := sliceIndex(last); ok && idx < len(node) {
			node[idx] = nil
		}
	}
}

func assign(node any, segments []string, value any) any {
	if len(segments) == 0 {
		return value
	}
	head, rest := segments[0], segments[1:]

	switch typed := node.(type) {
	case map[string]any:
		typed[head] = assign(typed[head], rest, value)
		return typed
	case []any:
		if idx, ok := sliceIndex(head); ok {
			if len(typed) <= idx {
				typed = append(typed, make([]any, idx+1-len(typed))...)
			}
			typed[idx] = assign(typed[idx], rest, value)
			return typed
		}
	}

	if _, ok := sliceIndex(head); ok {
		return assign([]any{}, segments, value)
	}
	return assign(make(map[string]any), segments, value)
}

func cloneValues(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = deepCopy(v)
	}
	return out
}

func cloneErrors(src map[string]validation.FieldError) map[string]validation.FieldError {
	if len(src) == 0 {
		return make(map[string]validation.FieldError)
	}
	return maps.Clone(src)
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return cloneValues(typed)
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	default:
		return typed
	}
}

// collectPaths records every dotted path reachable in values, including
// intermediate containers. Slice indexes are skipped so "tags.0" collapses to
// "tags".
func collectPaths(values map[string]any, prefix string, dest map[string]struct{}) {
	for key, value := range values {
		name := strings.TrimSpace(key)
		if name == "" {
			continue
		}
		path := joinPath(prefix, name)
		dest[path] = struct{}{}
		collectNested(value, path, dest)
	}
}

func collectNested(value any, path string, dest map[string]struct{}) {
	switch typed := value.(type) {
	case map[string]any:
		collectPaths(typed, path, dest)
	case []any:
		for _, item := range typed {
			collectNested(item, path, dest)
		}
	}
}

func joinPath(parent, child string) string {
	parent = strings.TrimSpace(parent)
	child = strings.TrimSpace(child)
	if parent == "" {
		return child
	}
	if child == "" {
		return parent
	}
	return parent + "." + child
}
