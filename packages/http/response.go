package http

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrInvalidHeaderValue is returned when a response header value is not valid UTF-8.
var ErrInvalidHeaderValue = errors.New("header value is not valid UTF-8")

type Response struct {
	Proto      string
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
	Duration   time.Duration
}

// HeaderField is one name/value line of a response header block.
type HeaderField struct {
	Name  string
	Value string
}

// StatusLine renders the protocol and status, e.g. "HTTP/1.1 200 OK".
func (r *Response) StatusLine() string {
	status := r.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", r.StatusCode, http.StatusText(r.StatusCode))
	}
	if r.Proto == "" {
		return status
	}
	return r.Proto + " " + status
}

// Fields returns every header value as its own field, lower-cased names sorted
// alphabetically, values in received order.
func (r *Response) Fields() []HeaderField {
	names := make([]string, 0, len(r.Header))
	for name := range r.Header {
		names = append(names, name)
	}
	sort.Strings(names)

	var fields []HeaderField
	for _, name := range names {
		for _, v := range r.Header[name] {
			fields = append(fields, HeaderField{Name: strings.ToLower(name), Value: v})
		}
	}
	return fields
}

// Text returns the body as a string, replacing invalid UTF-8 sequences.
func (r *Response) Text() string {
	return strings.ToValidUTF8(string(r.Body), "\uFFFD")
}

func (r *Response) HeaderValue(key string) string {
	return r.Header.Get(key)
}

func (r *Response) ContentType() string {
	return r.HeaderValue("Content-Type")
}

// MediaType returns the lower-cased media type of the Content-Type header
// without parameters, or "" when absent or unparseable.
func (r *Response) MediaType() string {
	ct := r.ContentType()
	if ct == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return ""
	}
	return mt
}

// IsJSON reports whether the body is declared as application/json or a
// +json structured syntax type.
func (r *Response) IsJSON() bool {
	mt := r.MediaType()
	return mt == "application/json" || (strings.HasPrefix(mt, "application/") && strings.HasSuffix(mt, "+json"))
}

// IsRedirect reports a 3xx status, seen when redirects are not followed.
func (r *Response) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}

func (r *Response) DurationMs() int64 {
	return r.Duration.Milliseconds()
}

func validateHeaderValues(h http.Header) error {
	for name, values := range h {
		for _, v := range values {
			if !utf8.ValidString(v) {
				return fmt.Errorf("%s: %w", strings.ToLower(name), ErrInvalidHeaderValue)
			}
		}
	}
	return nil
}
