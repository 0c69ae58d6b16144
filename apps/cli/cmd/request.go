package cmd

import (
	"errors"
	"fmt"
	"net/textproto"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/httpie/packages/capture"
	"github.com/abdul-hamid-achik/httpie/packages/core/config"
	"github.com/abdul-hamid-achik/httpie/packages/core/env"
	"github.com/abdul-hamid-achik/httpie/packages/http"
	"github.com/abdul-hamid-achik/httpie/packages/kvpair"
	"github.com/abdul-hamid-achik/httpie/packages/output"
	"github.com/abdul-hamid-achik/httpie/packages/schema"
	"github.com/spf13/cobra"
)

// validateURLArg checks the first positional argument. URLs that still
// contain {{...}} templates are checked again after resolution.
func validateURLArg(cmd *cobra.Command, args []string) error {
	if len(args) == 0 || strings.Contains(args[0], "{{") {
		return nil
	}
	return http.ValidateURL(args[0])
}

// validatePairArgs checks every positional argument after the URL.
func validatePairArgs(cmd *cobra.Command, args []string) error {
	if len(args) < 2 {
		return nil
	}
	_, err := kvpair.ParseAll(args[1:])
	return err
}

// loadSettings merges the config file with the flags given on the command
// line. Flags always win.
func loadSettings(opts *options) (*config.Config, time.Duration, error) {
	fileConfig, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, 0, withExitCode(ExitConfigError, err)
	}

	overrides := &config.Config{
		Proxy:        opts.proxy,
		MaxRedirects: opts.maxRedirects,
		Style:        opts.style,
		Output:       strings.ToLower(opts.output),
	}
	if opts.insecure {
		overrides.ValidateSSL = config.BoolPtr(false)
	}
	if opts.noFollow {
		overrides.FollowRedirects = config.BoolPtr(false)
	}
	if opts.noColor {
		overrides.NoColor = config.BoolPtr(true)
	}
	if err := overrides.Validate(); err != nil {
		return nil, 0, withExitCode(ExitUsageError, err)
	}

	cfg := fileConfig.Merge(overrides)

	timeout := time.Duration(cfg.Timeout) * time.Millisecond
	if opts.timeout != "" {
		timeout, err = time.ParseDuration(opts.timeout)
		if err != nil || timeout < 0 {
			return nil, 0, withExitCode(ExitUsageError,
				fmt.Errorf("invalid timeout value %q (use format like 30s, 1m, 500ms)", opts.timeout))
		}
	}

	return cfg, timeout, nil
}

func newFormatter(cmd *cobra.Command, cfg *config.Config, opts *options) output.Formatter {
	if cfg.Output == "json" {
		return output.NewJSONFormatter(output.JSONWithWriter(cmd.OutOrStdout()))
	}
	return output.NewConsoleFormatter(
		output.WithWriter(cmd.OutOrStdout()),
		output.WithErrWriter(cmd.ErrOrStderr()),
		output.WithVerbose(opts.verbose > 0),
		output.WithNoColor(cfg.GetNoColor()),
		output.WithStyle(cfg.Style),
	)
}

// mergeHeaders combines header maps by canonical name, later maps winning.
func mergeHeaders(sources ...map[string]string) map[string]string {
	merged := make(map[string]string)
	for _, src := range sources {
		for k, v := range src {
			merged[textproto.CanonicalMIMEHeaderKey(k)] = v
		}
	}
	return merged
}

// parseHeaderFlags turns repeated -H "Name: value" flags into a map.
func parseHeaderFlags(raw []string) (map[string]string, error) {
	headers := make(map[string]string, len(raw))
	for _, h := range raw {
		name, value, found := strings.Cut(h, ":")
		name = strings.TrimSpace(name)
		if !found || name == "" || strings.ContainsAny(name, " \t") {
			return nil, fmt.Errorf("invalid header %q (want \"Name: value\")", h)
		}
		headers[name] = strings.TrimSpace(value)
	}
	return headers, nil
}

// runRequest executes one request/response round trip and prints it.
func runRequest(cmd *cobra.Command, opts *options, method, rawURL string, tokens []string) error {
	logger := newCommandLogger(cmd.ErrOrStderr(), opts.verbose).With("command", strings.ToLower(method))

	cfg, timeout, err := loadSettings(opts)
	if err != nil {
		return err
	}
	if cfg.Path != "" {
		logger.Info("loaded config", "path", cfg.Path)
	}

	formatter := newFormatter(cmd, cfg, opts)
	fail := func(code int, err error) error {
		formatter.FormatError(err)
		return &exitError{code: code, err: err, reported: true}
	}

	vars, err := env.LoadVariables(opts.envFile)
	if err != nil {
		return fail(ExitConfigError, err)
	}
	resolver := env.NewResolver()
	resolver.SetVariables(vars)
	resolver.SetWarnFunc(func(format string, args ...any) {
		logger.Warn(fmt.Sprintf(format, args...))
	})

	if missing := resolver.GetUnresolvedVariables(rawURL); len(missing) > 0 {
		return fail(ExitUsageError, fmt.Errorf("undefined variables in URL: %s", strings.Join(missing, ", ")))
	}
	requestURL, err := resolver.Resolve(rawURL)
	if err != nil {
		return fail(ExitUsageError, err)
	}
	if err := http.ValidateURL(requestURL); err != nil {
		return fail(ExitUsageError, err)
	}

	cliHeaders, err := parseHeaderFlags(opts.headers)
	if err != nil {
		return fail(ExitUsageError, err)
	}
	headers, err := resolver.ResolveAll(mergeHeaders(cfg.Headers, cliHeaders))
	if err != nil {
		return fail(ExitUsageError, err)
	}

	pairs, err := kvpair.ParseAll(tokens)
	if err != nil {
		return fail(ExitUsageError, err)
	}
	var resolveErr error
	pairs = pairs.MapValues(func(v string) string {
		resolved, err := resolver.Resolve(v)
		if err != nil && resolveErr == nil {
			resolveErr = err
		}
		return resolved
	})
	if resolveErr != nil {
		return fail(ExitUsageError, resolveErr)
	}
	for i, p := range pairs {
		if p.Value == "" {
			return fail(ExitUsageError, fmt.Errorf("failed to parse %q: value of %q is empty after resolving: %w",
				tokens[i], p.Key, kvpair.ErrMalformedPair))
		}
	}

	client := http.NewClient(
		http.WithTimeout(timeout),
		http.WithFollowRedirects(cfg.GetFollowRedirects()),
		http.WithMaxRedirects(cfg.MaxRedirects),
		http.WithValidateSSL(cfg.GetValidateSSL()),
		http.WithProxy(cfg.Proxy),
		http.WithDefaultHeaders(headers),
		http.WithLogger(logger),
	)

	logger.Info("sending request", "method", method, "url", requestURL)
	var resp *http.Response
	if method == "POST" {
		resp, err = client.PostJSON(cmd.Context(), requestURL, pairs, nil)
	} else {
		resp, err = client.Get(cmd.Context(), requestURL, nil)
	}
	if err != nil {
		return fail(ExitRequestError, err)
	}
	logger.Info("received response", "status", resp.StatusCode, "duration", resp.Duration)
	if resp.IsRedirect() {
		logger.Info("redirect not followed", "location", resp.HeaderValue("Location"))
	}

	if err := printResponse(formatter, client, method, requestURL, pairs, resp, opts.path); err != nil {
		return fail(ExitCheckFailure, err)
	}

	if opts.schemaPath != "" {
		if err := schema.Validate(opts.schemaPath, resp.Body); err != nil {
			code := ExitUsageError
			if errors.Is(err, schema.ErrSchemaMismatch) {
				code = ExitCheckFailure
			}
			return fail(code, err)
		}
		logger.Info("response matches schema", "schema", opts.schemaPath)
	}

	return nil
}

func printResponse(formatter output.Formatter, client *http.Client, method, url string, pairs kvpair.Pairs, resp *http.Response, path string) error {
	if path != "" {
		raw, ok := capture.NewExtractor(resp).Raw(capture.ParseSelector(path))
		if !ok {
			return fmt.Errorf("no value at path %q", path)
		}
		return formatter.FormatSelection(path, raw)
	}

	// Rebuild the request as it went out, defaults included.
	sent := http.NewRequest(method, url).SetHeaders(client.DefaultHeaders())
	if method == "POST" {
		jsonReq, err := http.NewJSONRequest(method, url, pairs)
		if err != nil {
			return err
		}
		sent.SetHeaders(jsonReq.Headers).SetBody(jsonReq.Body)
	}

	return formatter.FormatExchange(&output.Exchange{Request: sent, Response: resp})
}
