package output

import (
	"bytes"
	"fmt"
	"io"
	neturl "net/url"
	"os"

	"github.com/abdul-hamid-achik/httpie/packages/http"
	"github.com/alecthomas/chroma/v2/quick"
	"github.com/fatih/color"
	"github.com/tidwall/gjson"
)

type ConsoleFormatter struct {
	writer    io.Writer
	errWriter io.Writer
	verbose   bool
	noColor   bool
	style     string
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer:    os.Stdout,
		errWriter: os.Stderr,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithErrWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.errWriter = w
	}
}

// WithVerbose also prints the request before the response.
func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

// WithStyle highlights JSON bodies with the named chroma style instead of
// plain cyan.
func WithStyle(style string) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.style = style
	}
}

func (f *ConsoleFormatter) FormatExchange(ex *Exchange) error {
	if f.verbose && ex.Request != nil {
		if err := f.formatRequest(ex.Request); err != nil {
			return err
		}
	}

	f.formatStatus(ex.Response)
	f.formatHeaders(ex.Response)
	return f.formatBody(ex.Response)
}

func (f *ConsoleFormatter) formatRequest(req *http.Request) error {
	bold := f.paint(color.Bold)
	green := f.paint(color.FgGreen)

	target := req.URL
	host := ""
	if u, err := neturl.Parse(req.URL); err == nil {
		target = u.RequestURI()
		host = u.Host
	}

	fmt.Fprintf(f.writer, "%s %s HTTP/1.1\n", bold(req.Method), target)
	if host != "" {
		fmt.Fprintf(f.writer, "%s: %s\n", green("host"), host)
	}
	for _, h := range requestHeaderLines(req) {
		fmt.Fprintf(f.writer, "%s: %s\n", green(h.name), h.value)
	}
	fmt.Fprintln(f.writer)

	if len(req.Body) > 0 {
		body, err := PrettyJSON(req.Body)
		if err != nil {
			body = req.Body
		}
		f.writeJSON(body)
		fmt.Fprintln(f.writer)
	}
	return nil
}

func (f *ConsoleFormatter) formatStatus(resp *http.Response) {
	fmt.Fprintf(f.writer, "%s\n\n", resp.StatusLine())
}

func (f *ConsoleFormatter) formatHeaders(resp *http.Response) {
	green := f.paint(color.FgGreen)
	for _, h := range resp.Fields() {
		fmt.Fprintf(f.writer, "%s: %s\n", green(h.Name), h.Value)
	}
	fmt.Fprintln(f.writer)
}

func (f *ConsoleFormatter) formatBody(resp *http.Response) error {
	if !resp.IsJSON() {
		fmt.Fprintln(f.writer, resp.Text())
		return nil
	}

	body, err := PrettyJSON(resp.Body)
	if err != nil {
		return fmt.Errorf("formatting %s body: %w", resp.MediaType(), err)
	}
	if body != nil {
		f.writeJSON(body)
	}
	return nil
}

func (f *ConsoleFormatter) FormatSelection(_ string, raw string) error {
	if gjson.Valid(raw) && (gjson.Parse(raw).IsObject() || gjson.Parse(raw).IsArray()) {
		body, err := PrettyJSON([]byte(raw))
		if err != nil {
			return err
		}
		f.writeJSON(body)
		return nil
	}
	fmt.Fprintln(f.writer, raw)
	return nil
}

// writeJSON prints an already indented JSON document followed by a newline.
func (f *ConsoleFormatter) writeJSON(body []byte) {
	if f.style != "" && !f.noColor && !color.NoColor {
		var buf bytes.Buffer
		if err := quick.Highlight(&buf, string(body), "json", "terminal256", f.style); err == nil {
			fmt.Fprintln(f.writer, buf.String())
			return
		}
	}
	cyan := f.paint(color.FgCyan)
	fmt.Fprintln(f.writer, cyan(string(body)))
}

// paint returns a colouring func, plain when this formatter has colour off.
func (f *ConsoleFormatter) paint(attrs ...color.Attribute) func(a ...any) string {
	c := color.New(attrs...)
	if f.noColor {
		c.DisableColor()
	}
	return c.SprintFunc()
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := f.paint(color.FgRed)
	fmt.Fprintf(f.errWriter, "%s %v\n", red("Error:"), err)
}
