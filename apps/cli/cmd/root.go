package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/abdul-hamid-achik/httpie/packages/builtin"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// options holds the persistent flags shared by the request commands.
type options struct {
	configPath   string
	envFile      string
	timeout      string
	proxy        string
	insecure     bool
	noFollow     bool
	maxRedirects int
	headers      []string
	output       string
	noColor      bool
	style        string
	path         string
	schemaPath   string
	verbose      int
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "httpie",
		Short: "A small command line HTTP client.",
		Long: `httpie sends a single HTTP request and prints the response status,
headers and body. JSON bodies are pretty printed.

Examples:
  httpie get https://httpbin.org/get
  httpie post https://httpbin.org/post name=alice role=admin
  httpie get https://api.example.com/users/1 --path name
  httpie post {{$API}}/users id={{uuid()}} -H "Authorization: Bearer {{TOKEN}}" --env-file .env`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.Long += "\n\nTemplate functions: " + strings.Join(builtin.NewRegistry().Names(), ", ")

	flags := root.PersistentFlags()

	// Configuration flags
	flags.StringVar(&opts.configPath, "config", getEnvString("HTTPIE_CONFIG", ""), "Path to config file (env: HTTPIE_CONFIG)")
	flags.StringVar(&opts.envFile, "env-file", getEnvString("HTTPIE_ENV_FILE", ""), "Path to .env file for {{variable}} interpolation (env: HTTPIE_ENV_FILE)")

	// Network flags
	flags.StringVar(&opts.timeout, "timeout", getEnvString("HTTPIE_TIMEOUT", ""), "Request timeout, e.g. 30s or 500ms (default from config, 30s) (env: HTTPIE_TIMEOUT)")
	flags.StringVar(&opts.proxy, "proxy", getEnvString("HTTPIE_PROXY", ""), "Proxy URL for HTTP requests (env: HTTPIE_PROXY)")
	flags.BoolVarP(&opts.insecure, "insecure", "k", getEnvBool("HTTPIE_INSECURE", false), "Disable SSL certificate validation (env: HTTPIE_INSECURE)")
	flags.BoolVar(&opts.noFollow, "no-follow", false, "Do not follow redirects")
	flags.IntVar(&opts.maxRedirects, "max-redirects", getEnvInt("HTTPIE_MAX_REDIRECTS", 0), "Maximum redirects to follow (default from config, 10) (env: HTTPIE_MAX_REDIRECTS)")
	flags.StringArrayVarP(&opts.headers, "header", "H", nil, `Extra request header "Name: value" (repeatable)`)

	// Output flags
	flags.StringVarP(&opts.output, "output", "o", getEnvString("HTTPIE_OUTPUT", ""), "Output format: console, json (env: HTTPIE_OUTPUT)")
	flags.BoolVar(&opts.noColor, "no-color", getEnvBool("HTTPIE_NO_COLOR", false), "Disable colored output (env: HTTPIE_NO_COLOR)")
	flags.StringVar(&opts.style, "style", getEnvString("HTTPIE_STYLE", ""), "Chroma style for JSON bodies, e.g. monokai (env: HTTPIE_STYLE)")
	flags.StringVar(&opts.path, "path", "", "Print only this part of the response: a JSON path, status, duration or header:<Name>")
	flags.StringVar(&opts.schemaPath, "schema", "", "Validate the JSON response body against this JSON schema file")
	flags.CountVarP(&opts.verbose, "verbose", "v", "Print the request too (-v); more logging with -vv")

	root.AddCommand(newGetCmd(opts))
	root.AddCommand(newPostCmd(opts))
	root.AddCommand(newVersionCmd())
	root.AddCommand(newCompletionCmd())

	return root
}

func Execute(v, bt string) {
	version = v
	buildTime = bt

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		reportUnhandled(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// reportUnhandled prints errors that no formatter has shown yet, such as
// cobra argument errors.
func reportUnhandled(w io.Writer, err error) {
	var ee *exitError
	if errors.As(err, &ee) && ee.reported {
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	if exitCode(err) == ExitUsageError {
		fmt.Fprintln(w, "Run 'httpie --help' for usage.")
	}
}
