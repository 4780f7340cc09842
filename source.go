package sszero

import (
	"bytes"
	"errors"
	"io"

	json "github.com/goccy/go-json"
	"github.com/tidwall/jsonc"
	"go.uber.org/zap"

	"github.com/reoring/sszero/i18n"
	eng "github.com/reoring/sszero/internal/engine"
	"github.com/reoring/sszero/source/gojson"
)

// Source is an override document waiting to be decoded.
type Source struct {
	r io.Reader
}

// JSONBytes wraps a JSON document.
func JSONBytes(b []byte) Source { return Source{r: bytes.NewReader(b)} }

// JSONReader wraps a reader yielding a JSON document.
func JSONReader(r io.Reader) Source { return Source{r: r} }

// JSONCBytes wraps a JSON document that may contain comments and trailing
// commas.
func JSONCBytes(b []byte) Source { return Source{r: bytes.NewReader(jsonc.ToJSON(b))} }

// Severity expresses how a non-fatal document problem is treated.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// LoadOpt bounds what an untrusted override document may contain.
type LoadOpt struct {
	MaxDepth       int   // Maximum nesting of objects and arrays; 0 = unlimited.
	MaxBytes       int64 // Maximum document size; 0 = unlimited.
	OnDuplicateKey Severity
	// OnWarning receives non-fatal issues (duplicate keys under Warn). When
	// nil they are logged at Warn level.
	OnWarning func(Issue)
}

// LoadOverride decodes one JSON document into an untyped override tree
// (map[string]any, []any, json.Number, string, bool, nil) suitable for
// Synthesize or codec.FromJSON. Failures are Issues with parse_error,
// duplicate_key, depth_exceeded or truncated codes.
func LoadOverride(src Source, opt LoadOpt) (any, error) {
	if src.r == nil {
		return nil, Issues{{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Hint: "empty source"}}
	}
	r := src.r
	if opt.MaxBytes > 0 {
		r = io.LimitReader(r, opt.MaxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, loadIssues(err)
	}
	if opt.MaxBytes > 0 && int64(len(data)) > opt.MaxBytes {
		return nil, Issues{{Path: "/", Code: CodeTruncated, Message: i18n.T(CodeTruncated, nil), Hint: "max bytes exceeded", Params: map[string]any{"maxBytes": opt.MaxBytes}}}
	}
	warn := opt.OnWarning
	if warn == nil {
		warn = func(it Issue) {
			Logger().Warn("override document issue", zap.String("code", it.Code), zap.String("path", it.Path), zap.String("message", it.Message))
		}
	}
	ts := eng.WrapWithEnforcement(gojson.NewBytes(data), eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		IssueSink: func(si eng.SimpleIssue) {
			warn(Issue{Path: si.Path, Code: si.Code, Message: i18n.T(si.Code, nil), Hint: si.Message})
		},
	})
	v, err := eng.DecodeDocument(ts)
	if err != nil {
		return nil, loadIssues(err)
	}
	// The token stream does not check separators.
	if !json.Valid(data) {
		return nil, Issues{{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Hint: "malformed JSON"}}
	}
	return v, nil
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Error:
		return eng.DupError
	case Warn:
		return eng.DupWarn
	default:
		return eng.DupIgnore
	}
}

func loadIssues(err error) Issues {
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return Issues{{Path: ie.Path, Code: ie.Code, Message: i18n.T(ie.Code, nil), Hint: ie.Message}}
	}
	hint := err.Error()
	if errors.Is(err, io.EOF) {
		hint = "empty document"
	}
	return Issues{{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Hint: hint, Cause: err}}
}
