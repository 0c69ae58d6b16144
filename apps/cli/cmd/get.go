package cmd

import (
	"github.com/spf13/cobra"
)

func newGetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "get <url>",
		Short: "Send a GET request",
		Long: `Send a GET request and print the response status, headers and body.

Examples:
  httpie get https://httpbin.org/get
  httpie get https://httpbin.org/json --path slideshow.title
  httpie get "{{$API_URL}}/health" -H "Accept: application/json"`,
		Args: cobra.MatchAll(cobra.ExactArgs(1), validateURLArg),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, opts, "GET", args[0], nil)
		},
	}
}
