package output

import (
	"bytes"
	"errors"
	"sort"
	"strings"

	"github.com/abdul-hamid-achik/httpie/packages/http"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// ErrInvalidJSON is returned when a body declared as JSON does not parse.
var ErrInvalidJSON = errors.New("body is not valid JSON")

// Exchange is one request and the response it produced.
type Exchange struct {
	Request  *http.Request
	Response *http.Response
}

type Formatter interface {
	FormatExchange(ex *Exchange) error
	// FormatSelection prints a single value picked out of a response.
	FormatSelection(path, raw string) error
	FormatError(err error)
}

// PrettyJSON re-indents a JSON document with two spaces. Empty input stays
// empty; anything else that is not valid JSON is rejected.
func PrettyJSON(data []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if !gjson.ValidBytes(trimmed) {
		return nil, ErrInvalidJSON
	}
	return bytes.TrimRight(pretty.Pretty(trimmed), "\n"), nil
}

type headerLine struct {
	name  string
	value string
}

// requestHeaderLines returns the request headers sorted by lower-cased name.
func requestHeaderLines(req *http.Request) []headerLine {
	lines := make([]headerLine, 0, len(req.Headers))
	for k, v := range req.Headers {
		lines = append(lines, headerLine{name: strings.ToLower(k), value: v})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].name < lines[j].name })
	return lines
}
