package schema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Issue codes shared by the bundled adapters. Adapters may report any other
// code string; consumers treat codes as opaque.
const (
	CodeInvalidType   = "invalid_type"
	CodeRequired      = "required"
	CodeTooSmall      = "too_small"
	CodeTooBig        = "too_big"
	CodeTooShort      = "too_short"
	CodeTooLong       = "too_long"
	CodePattern       = "pattern"
	CodeInvalidEnum   = "invalid_enum"
	CodeInvalidFormat = "invalid_format"
	CodeCustom        = "custom"
)

// Path locates a value inside a structured payload. Segments are property
// names (string) or slice indexes (int).
type Path []any

// ParsePath splits a dotted path into segments, turning numeric segments into
// indexes.
func ParsePath(dotted string) Path {
	dotted = strings.TrimSpace(dotted)
	if dotted == "" {
		return nil
	}
	parts := strings.Split(dotted, ".")
	out := make(Path, 0, len(parts))
	for _, part := range parts {
		if idx, err := strconv.Atoi(part); err == nil && idx >= 0 {
			out = append(out, idx)
			continue
		}
		out = append(out, part)
	}
	return out
}

// String joins the segments with dots.
func (p Path) String() string {
	if len(p) == 0 {
		return ""
	}
	parts := make([]string, len(p))
	for i, segment := range p {
		parts[i] = fmt.Sprint(segment)
	}
	return strings.Join(parts, ".")
}

// Issue is one field-scoped validation failure.
type Issue struct {
	Path    Path
	Message string
	Code    string
}

// Prefixed returns a copy of the issue with segments prepended to its path.
func (i Issue) Prefixed(segments ...any) Issue {
	path := make(Path, 0, len(segments)+len(i.Path))
	path = append(path, segments...)
	path = append(path, i.Path...)
	i.Path = path
	return i
}

// IssueError is the structured failure shape schemas report. Issues keep the
// order in which the schema produced them.
type IssueError struct {
	Issues []Issue
}

// NewIssueError wraps issues into an IssueError.
func NewIssueError(issues ...Issue) *IssueError {
	return &IssueError{Issues: issues}
}

func (e *IssueError) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return "schema: invalid input"
	}
	const maxShown = 3
	b := &strings.Builder{}
	b.WriteString("schema: ")
	for i, issue := range e.Issues {
		if i == maxShown {
			fmt.Fprintf(b, "; ... (total %d)", len(e.Issues))
			break
		}
		if i > 0 {
			b.WriteString("; ")
		}
		if path := issue.Path.String(); path != "" {
			fmt.Fprintf(b, "%s: ", path)
		}
		b.WriteString(issue.Message)
	}
	return b.String()
}

// AsIssueError extracts an *IssueError from err using errors.As.
func AsIssueError(err error) (*IssueError, bool) {
	if err == nil {
		return nil, false
	}
	var issueErr *IssueError
	if errors.As(err, &issueErr) && issueErr != nil {
		return issueErr, true
	}
	return nil, false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
