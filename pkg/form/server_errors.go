package form

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formvalidate/pkg/validation"
)

// CodeServer marks field errors recorded from a server response.
const CodeServer = "server"

// ApplyServerErrors records a server-side error payload on the controller.
// Keys may be dotted paths, JSON pointers ("/body/name"), JSONPath-like
// expressions ("$.body.tags[0]") or go-errors style keys; request wrapper
// segments such as "body" or "payload" are ignored. Each key is matched to the
// longest known field path (current values, initial values and recorded
// errors). Messages are sanitized, de-duplicated and joined with "; ".
//
// Keys that cannot be attributed to a field are returned as form-level
// messages, and are also recorded under validation.GeneralKey so they stay
// visible in State.
func (c *Controller[T]) ApplyServerErrors(payload map[string][]string) []string {
	if len(payload) == 0 {
		return nil
	}

	var formLevel []string
	c.mutate(func() {
		known := make(map[string]struct{})
		collectPaths(c.initial, "", known)
		collectPaths(c.values, "", known)
		for path := range c.errors {
			known[path] = struct{}{}
		}

		fieldMessages := make(map[string][]string)
		for rawPath, messages := range payload {
			cleaned := c.normalizeMessages(messages)
			if len(cleaned) == 0 {
				continue
			}
			mapped, isFormLevel := mapErrorPath(rawPath, known)
			if isFormLevel {
				formLevel = append(formLevel, cleaned...)
				continue
			}
			fieldMessages[mapped] = append(fieldMessages[mapped], cleaned...)
		}

		for path, messages := range fieldMessages {
			c.errors[path] = validation.FieldError{
				Message: strings.Join(dedupe(messages), "; "),
				Code:    CodeServer,
			}
		}
		formLevel = dedupe(formLevel)
		if len(formLevel) > 0 {
			c.errors[validation.GeneralKey] = validation.FieldError{
				Message: strings.Join(formLevel, "; "),
				Code:    CodeServer,
			}
		}
	})
	return formLevel
}

func (c *Controller[T]) normalizeMessages(messages []string) []string {
	out := make([]string, 0, len(messages))
	for _, message := range messages {
		if cleaned := c.opts.sanitize(message); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return dedupe(out)
}

func dedupe(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		if _, exists := seen[message]; exists {
			continue
		}
		seen[message] = struct{}{}
		out = append(out, message)
	}
	return out
}

func mapErrorPath(raw string, known map[string]struct{}) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if isFormLevelKey(trimmed) {
		return "", true
	}

	segments := parsePathSegments(trimmed)
	if len(segments) == 0 {
		return "", true
	}

	best := ""
	for _, variant := range segmentVariants(segments) {
		if path := longestKnownPrefix(variant, known); len(splitPath(path)) > len(splitPath(best)) {
			best = path
		}
	}
	if best == "" {
		return "", true
	}
	return best, false
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	for strings.HasPrefix(clean, "#") || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, ".") || strings.HasPrefix(clean, "$") {
		clean = clean[1:]
	}

	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)
	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

// segmentVariants yields the raw segments plus versions without leading
// request wrappers and without numeric indexes.
func segmentVariants(segments []string) [][]string {
	var variants [][]string
	seen := make(map[string]struct{}, 4)
	add := func(candidate []string) {
		if len(candidate) == 0 {
			return
		}
		key := strings.Join(candidate, ".")
		if _, exists := seen[key]; exists {
			return
		}
		seen[key] = struct{}{}
		variants = append(variants, append([]string(nil), candidate...))
	}

	unwrapped := dropWrapperSegments(segments)
	add(segments)
	add(unwrapped)
	add(dropIndexSegments(segments))
	add(dropIndexSegments(unwrapped))
	return variants
}

var wrapperSegments = map[string]struct{}{
	"body":       {},
	"request":    {},
	"payload":    {},
	"data":       {},
	"attributes": {},
}

func dropWrapperSegments(segments []string) []string {
	out := segments
	for len(out) > 0 {
		if _, ok := wrapperSegments[strings.ToLower(out[0])]; !ok {
			break
		}
		out = out[1:]
	}
	return out
}

func dropIndexSegments(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		out = append(out, segment)
	}
	return out
}

func longestKnownPrefix(segments []string, known map[string]struct{}) string {
	for end := len(segments); end > 0; end-- {
		candidate := strings.Join(segments[:end], ".")
		if _, ok := known[candidate]; ok {
			return candidate
		}
	}
	return ""
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", validation.GeneralKey, "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
