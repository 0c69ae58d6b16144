package cmd

import (
	"github.com/spf13/cobra"
)

func newPostCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "post <url> [key=value ...]",
		Short: "Send a POST request with a JSON body",
		Long: `Send a POST request whose body is a JSON object built from key=value
pairs, then print the response status, headers and body.

Each pair is split on its first '='; both the key and the value must be
non-empty. Values are sent as JSON strings. When a key repeats, the last
value wins.

Examples:
  httpie post https://httpbin.org/post name=alice role=admin
  httpie post https://httpbin.org/post query=a=b
  httpie post https://httpbin.org/post id={{uuid()}} at={{now()}}`,
		Args: cobra.MatchAll(cobra.MinimumNArgs(1), validateURLArg, validatePairArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, opts, "POST", args[0], args[1:])
		},
	}
}
