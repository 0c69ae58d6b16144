package capture

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/httpie/packages/http"
	"github.com/tidwall/gjson"
)

const headerPrefix = "header:"

// Source identifies where a selector reads from.
type Source int

const (
	SourceBody Source = iota
	SourceHeader
	SourceStatus
	SourceDuration
)

// Selector is a parsed --path expression.
type Selector struct {
	Source Source
	Path   string
}

func ParseSelector(expr string) Selector {
	expr = strings.TrimSpace(expr)
	switch {
	case expr == "status":
		return Selector{Source: SourceStatus}
	case expr == "duration":
		return Selector{Source: SourceDuration}
	case strings.HasPrefix(expr, headerPrefix):
		return Selector{Source: SourceHeader, Path: strings.TrimSpace(expr[len(headerPrefix):])}
	default:
		return Selector{Source: SourceBody, Path: expr}
	}
}

type Extractor struct {
	response *http.Response
	bodyJSON gjson.Result
}

func NewExtractor(resp *http.Response) *Extractor {
	e := &Extractor{
		response: resp,
	}
	if resp.IsJSON() {
		e.bodyJSON = gjson.ParseBytes(resp.Body)
	}
	return e
}

func (e *Extractor) Extract(sel Selector) (any, bool) {
	switch sel.Source {
	case SourceBody:
		return e.extractFromBody(sel.Path)
	case SourceHeader:
		return e.extractFromHeader(sel.Path)
	case SourceStatus:
		return e.response.StatusCode, true
	case SourceDuration:
		return e.response.DurationMs(), true
	default:
		return nil, false
	}
}

// Raw returns the selected value as text. JSON objects and arrays keep their
// raw encoding so they can be pretty printed.
func (e *Extractor) Raw(sel Selector) (string, bool) {
	if sel.Source == SourceBody && e.bodyJSON.Exists() {
		result := e.bodyJSON
		if sel.Path != "" {
			result = e.bodyJSON.Get(sel.Path)
		}
		if !result.Exists() {
			return "", false
		}
		if result.Type == gjson.String {
			return result.Str, true
		}
		return result.Raw, true
	}
	v, ok := e.Extract(sel)
	if !ok {
		return "", false
	}
	return fmt.Sprint(v), true
}

func (e *Extractor) extractFromBody(path string) (any, bool) {
	if !e.bodyJSON.Exists() {
		if path == "" {
			return e.response.Text(), true
		}
		return nil, false
	}

	if path == "" {
		return e.bodyJSON.Value(), true
	}

	result := e.bodyJSON.Get(path)
	if !result.Exists() {
		return nil, false
	}
	return result.Value(), true
}

func (e *Extractor) extractFromHeader(name string) (any, bool) {
	values := e.response.Header.Values(name)
	if len(values) == 0 {
		return nil, false
	}
	return strings.Join(values, ", "), true
}

// Extract is a convenience wrapper for a one-off selector expression.
func Extract(resp *http.Response, expr string) (any, bool) {
	return NewExtractor(resp).Extract(ParseSelector(expr))
}
