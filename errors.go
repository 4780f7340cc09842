package sszero

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes.
const (
	CodeUnknownTypeKind   = "unknown_type_kind"
	CodeShapeMismatch     = "shape_mismatch"
	CodeLeafValidation    = "leaf_validation_failed"
	CodeDepthExceeded     = "depth_exceeded"
	CodeInvalidDescriptor = "invalid_descriptor"
	// Override document loading
	CodeParseError   = "parse_error"
	CodeDuplicateKey = "duplicate_key"
	CodeTruncated    = "truncated"
)

// Sentinel errors matched by Issues.Is, so callers can write
// errors.Is(err, sszero.ErrShapeMismatch) without inspecting codes.
var (
	ErrUnknownTypeKind   = errors.New("sszero: unknown type kind")
	ErrShapeMismatch     = errors.New("sszero: override shape mismatch")
	ErrLeafValidation    = errors.New("sszero: leaf validation failed")
	ErrDepthExceeded     = errors.New("sszero: max depth exceeded")
	ErrInvalidDescriptor = errors.New("sszero: invalid type descriptor")
	ErrParse             = errors.New("sszero: override parse error")
)

var codeSentinels = map[string]error{
	CodeUnknownTypeKind:   ErrUnknownTypeKind,
	CodeShapeMismatch:     ErrShapeMismatch,
	CodeLeafValidation:    ErrLeafValidation,
	CodeDepthExceeded:     ErrDepthExceeded,
	CodeInvalidDescriptor: ErrInvalidDescriptor,
	CodeParseError:        ErrParse,
	CodeDuplicateKey:      ErrParse,
	CodeTruncated:         ErrParse,
}

// Issue represents a single synthesis or loading failure.
type Issue struct {
	Path    string // JSON Pointer (for example: /fields/2/root).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: what was expected.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"limit":4, "got":5})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of issues that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. shape_mismatch at /a/0 (expected sequence)
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if it.Hint != "" {
			fmt.Fprintf(b, " (%s)", it.Hint)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Is reports whether any issue carries the code that target stands for.
func (iss Issues) Is(target error) bool {
	for _, it := range iss {
		if s, ok := codeSentinels[it.Code]; ok && s == target {
			return true
		}
	}
	return false
}

// Unwrap exposes the underlying causes to errors.Is and errors.As.
func (iss Issues) Unwrap() []error {
	var causes []error
	for _, it := range iss {
		if it.Cause != nil {
			causes = append(causes, it.Cause)
		}
	}
	return causes
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// Codes lists the issue codes of err in order, or nil when err carries no
// Issues.
func Codes(err error) []string {
	iss, ok := AsIssues(err)
	if !ok {
		return nil
	}
	out := make([]string, len(iss))
	for i, it := range iss {
		out[i] = it.Code
	}
	return out
}
