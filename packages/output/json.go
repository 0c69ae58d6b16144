package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tidwall/gjson"
)

// JSONOutput is the document written for one exchange
type JSONOutput struct {
	Request   *JSONRequest   `json:"request,omitempty"`
	Response  *JSONResponse  `json:"response,omitempty"`
	Selection *JSONSelection `json:"selection,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// JSONRequest represents request details
type JSONRequest struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    json.RawMessage   `json:"body,omitempty"`
}

// JSONResponse represents response details
type JSONResponse struct {
	Protocol   string            `json:"protocol"`
	StatusCode int               `json:"statusCode"`
	Status     string            `json:"status"`
	Headers    map[string]string `json:"headers,omitempty"`
	Duration   float64           `json:"duration"`
	Body       json.RawMessage   `json:"body,omitempty"`
}

// JSONSelection is a value picked out with --path
type JSONSelection struct {
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value"`
}

// JSONFormatter writes exchanges as indented JSON documents
type JSONFormatter struct {
	writer io.Writer
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatExchange(ex *Exchange) error {
	out := JSONOutput{}

	if req := ex.Request; req != nil {
		out.Request = &JSONRequest{
			Method:  req.Method,
			URL:     req.URL,
			Headers: req.Headers,
			Body:    rawBody(req.Body, true),
		}
	}

	if resp := ex.Response; resp != nil {
		headers := make(map[string]string, len(resp.Header))
		for k, v := range resp.Header {
			headers[strings.ToLower(k)] = strings.Join(v, ", ")
		}
		out.Response = &JSONResponse{
			Protocol:   resp.Proto,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Headers:    headers,
			Duration:   float64(resp.Duration.Microseconds()) / 1000,
			Body:       rawBody([]byte(resp.Text()), resp.IsJSON()),
		}
	}

	if err := f.encode(out); err != nil {
		return err
	}

	// The document is written even when a JSON body does not parse.
	if resp := ex.Response; resp != nil && resp.IsJSON() {
		if _, err := PrettyJSON(resp.Body); err != nil {
			return fmt.Errorf("formatting %s body: %w", resp.MediaType(), err)
		}
	}
	return nil
}

func (f *JSONFormatter) FormatSelection(path, raw string) error {
	return f.encode(JSONOutput{
		Selection: &JSONSelection{Path: path, Value: rawBody([]byte(raw), true)},
	})
}

func (f *JSONFormatter) FormatError(err error) {
	_ = f.encode(JSONOutput{Error: err.Error()})
}

func (f *JSONFormatter) encode(out JSONOutput) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// rawBody embeds valid JSON as-is and anything else as a JSON string.
func rawBody(body []byte, tryJSON bool) json.RawMessage {
	if len(body) == 0 {
		return nil
	}
	if tryJSON && gjson.ValidBytes(body) {
		return json.RawMessage(body)
	}
	quoted, err := json.Marshal(string(body))
	if err != nil {
		return nil
	}
	return quoted
}
