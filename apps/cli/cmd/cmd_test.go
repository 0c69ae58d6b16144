package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the CLI in-process with colour disabled and no user config.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append(args, "--no-color"))

	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func jsonServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestGet_PrintsStatusHeadersAndPrettyJSON(t *testing.T) {
	server := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "Go", r.Header.Get("X-Powered-By"))
		assert.Equal(t, "Go Httpie", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":1,"name":"alice"}`))
	})

	stdout, _, err := execute(t, "get", server.URL+"/users/1")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "HTTP/1.1 200 OK\n\n"), stdout)
	assert.Contains(t, stdout, "content-type: application/json\n")
	assert.Contains(t, stdout, "{\n  \"id\": 1,\n  \"name\": \"alice\"\n}\n")
}

func TestGet_NonJSONBodyVerbatim(t *testing.T) {
	server := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(`{"left":"alone"}`))
	})

	stdout, _, err := execute(t, "get", server.URL)

	require.NoError(t, err)
	assert.Contains(t, stdout, "\n\n{\"left\":\"alone\"}\n")
}

func TestPost_SendsPairsAsJSON(t *testing.T) {
	server := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"name":"alice","expr":"a=b"}`, string(body))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write(body)
	})

	stdout, _, err := execute(t, "post", server.URL, "name=alice", "expr=a=b")

	require.NoError(t, err)
	assert.Contains(t, stdout, "HTTP/1.1 201 Created")
}

func TestPost_MalformedPairIsUsageError(t *testing.T) {
	var hits atomic.Int32
	server := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	})

	for _, pair := range []string{"novalue", "=v", "k="} {
		t.Run(pair, func(t *testing.T) {
			_, _, err := execute(t, "post", server.URL, "ok=1", pair)
			require.Error(t, err)
			assert.Equal(t, ExitUsageError, exitCode(err))
			assert.Contains(t, err.Error(), pair)
		})
	}
	assert.Zero(t, hits.Load())
}

func TestGet_InvalidURL(t *testing.T) {
	for _, url := range []string{"example.com", "ftp://example.com", "http://"} {
		t.Run(url, func(t *testing.T) {
			_, _, err := execute(t, "get", url)
			require.Error(t, err)
			assert.Equal(t, ExitUsageError, exitCode(err))
		})
	}
}

func TestGet_WrongArgCount(t *testing.T) {
	_, _, err := execute(t, "get")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, exitCode(err))
}

func TestGet_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, stderr, err := execute(t, "get", url)

	require.Error(t, err)
	assert.Equal(t, ExitRequestError, exitCode(err))
	assert.Contains(t, stderr, "Error: ")
}

func TestGet_InvalidJSONBodyFails(t *testing.T) {
	server := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"truncated":`))
	})

	_, _, err := execute(t, "get", server.URL)

	require.Error(t, err)
	assert.Equal(t, ExitCheckFailure, exitCode(err))
}

func TestGet_Path(t *testing.T) {
	server := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Request-Id", "req-9")
		_, _ = w.Write([]byte(`{"user":{"name":"alice","roles":["a","b"]}}`))
	})

	stdout, _, err := execute(t, "get", server.URL, "--path", "user.name")
	require.NoError(t, err)
	assert.Equal(t, "alice\n", stdout)

	stdout, _, err = execute(t, "get", server.URL, "--path", "header:X-Request-Id")
	require.NoError(t, err)
	assert.Equal(t, "req-9\n", stdout)

	stdout, _, err = execute(t, "get", server.URL, "--path", "status")
	require.NoError(t, err)
	assert.Equal(t, "200\n", stdout)

	_, _, err = execute(t, "get", server.URL, "--path", "user.missing")
	require.Error(t, err)
	assert.Equal(t, ExitCheckFailure, exitCode(err))
}

func TestGet_Schema(t *testing.T) {
	server := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"not-a-number"}`))
	})
	schemaPath := writeTemp(t, "schema.json", `{"type":"object","properties":{"id":{"type":"integer"}}}`)

	stdout, _, err := execute(t, "get", server.URL, "--schema", schemaPath)

	require.Error(t, err)
	assert.Equal(t, ExitCheckFailure, exitCode(err))
	assert.Contains(t, stdout, "not-a-number", "response is printed before the check")
}

func TestGet_JSONOutput(t *testing.T) {
	server := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	stdout, _, err := execute(t, "get", server.URL, "-o", "json")
	require.NoError(t, err)

	var doc struct {
		Request struct {
			Method  string            `json:"method"`
			Headers map[string]string `json:"headers"`
		} `json:"request"`
		Response struct {
			StatusCode int             `json:"statusCode"`
			Body       json.RawMessage `json:"body"`
		} `json:"response"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "GET", doc.Request.Method)
	assert.Equal(t, "Go Httpie", doc.Request.Headers["User-Agent"])
	assert.Equal(t, 200, doc.Response.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, string(doc.Response.Body))
}

func TestGet_UnknownOutputIsUsageError(t *testing.T) {
	_, _, err := execute(t, "get", "http://example.com", "-o", "xml")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, exitCode(err))
}

func TestPost_TemplatesAndHeaders(t *testing.T) {
	server := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/users", r.URL.Path)
		assert.Equal(t, "Bearer s3cret", r.Header.Get("Authorization"))
		assert.Equal(t, "override", r.Header.Get("User-Agent"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"team":"platform"}`, string(body))
		w.WriteHeader(http.StatusNoContent)
	})
	envFile := writeTemp(t, ".env", "TOKEN=s3cret\nTEAM=platform\nBASE="+server.URL+"\n")

	_, _, err := execute(t, "post", "{{BASE}}/v1/users", "team={{TEAM}}",
		"--env-file", envFile,
		"-H", "Authorization: Bearer {{TOKEN}}",
		"-H", "User-Agent: override",
	)

	require.NoError(t, err)
}

func TestGet_ConfigFileHeadersAndTimeout(t *testing.T) {
	server := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "platform", r.Header.Get("X-Team"))
		w.WriteHeader(http.StatusOK)
	})
	cfgPath := writeTemp(t, "httpie.yaml", "timeout: 5000\nheaders:\n  X-Team: platform\n")

	_, _, err := execute(t, "get", server.URL, "--config", cfgPath)
	require.NoError(t, err)
}

func TestGet_BadConfigIsConfigError(t *testing.T) {
	cfgPath := writeTemp(t, "bad.json", `{"timeout": -5}`)

	_, _, err := execute(t, "get", "http://example.com", "--config", cfgPath)

	require.Error(t, err)
	assert.Equal(t, ExitConfigError, exitCode(err))
}

func TestGet_InvalidTimeout(t *testing.T) {
	_, _, err := execute(t, "get", "http://example.com", "--timeout", "soon")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, exitCode(err))
}

func TestGet_VerbosePrintsRequest(t *testing.T) {
	server := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	stdout, _, err := execute(t, "get", server.URL+"/ping", "-v")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "GET /ping HTTP/1.1\n"), stdout)
	assert.Contains(t, stdout, "x-powered-by: Go\n")
}

func TestParseHeaderFlags(t *testing.T) {
	got, err := parseHeaderFlags([]string{"Accept: application/json", "X-Empty:", "X-Colon: a:b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"Accept":  "application/json",
		"X-Empty": "",
		"X-Colon": "a:b",
	}, got)

	for _, bad := range []string{"NoColon", ": value", "Bad Name: v"} {
		_, err := parseHeaderFlags([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "httpie version dev")
}

func TestReportUnhandled(t *testing.T) {
	var buf bytes.Buffer
	reportUnhandled(&buf, errors.New(`unknown flag: --nope`))
	assert.Equal(t, "Error: unknown flag: --nope\nRun 'httpie --help' for usage.\n", buf.String())

	buf.Reset()
	reportUnhandled(&buf, &exitError{code: ExitRequestError, err: errors.New("refused"), reported: true})
	assert.Empty(t, buf.String())

	buf.Reset()
	reportUnhandled(&buf, withExitCode(ExitConfigError, errors.New("bad config")))
	assert.Equal(t, "Error: bad config\n", buf.String())
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, exitCode(nil))
	assert.Equal(t, ExitUsageError, exitCode(errors.New("cobra says no")))
	assert.Equal(t, ExitCheckFailure, exitCode(withExitCode(ExitCheckFailure, errors.New("x"))))
	assert.Nil(t, withExitCode(ExitConfigError, nil))
}

func TestGet_JSONOutputInvalidJSONBody(t *testing.T) {
	server := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"truncated":`))
	})

	stdout, _, err := execute(t, "get", server.URL, "-o", "json")

	require.Error(t, err)
	assert.Equal(t, ExitCheckFailure, exitCode(err))

	dec := json.NewDecoder(strings.NewReader(stdout))
	var exchange, failure map[string]any
	require.NoError(t, dec.Decode(&exchange))
	require.NoError(t, dec.Decode(&failure))
	assert.Contains(t, exchange, "response")
	assert.Contains(t, failure["error"], "not valid JSON")
}

func TestGet_SchemaNonJSONBody(t *testing.T) {
	server := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html>oops</html>`))
	})
	schemaPath := writeTemp(t, "schema.json", `{"type":"object"}`)

	_, stderr, err := execute(t, "get", server.URL, "--schema", schemaPath)

	require.Error(t, err)
	assert.Equal(t, ExitCheckFailure, exitCode(err))
	assert.Contains(t, stderr, "response does not match schema")
}

func TestGet_MissingSchemaFileIsUsageError(t *testing.T) {
	server := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})

	_, _, err := execute(t, "get", server.URL, "--schema", filepath.Join(t.TempDir(), "missing.json"))

	require.Error(t, err)
	assert.Equal(t, ExitUsageError, exitCode(err))
}

func TestPost_EmptyValueAfterResolving(t *testing.T) {
	var hits atomic.Int32
	server := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	})
	envFile := writeTemp(t, ".env", "EMPTY=\n")

	_, stderr, err := execute(t, "post", server.URL, "k={{EMPTY}}", "--env-file", envFile)

	require.Error(t, err)
	assert.Equal(t, ExitUsageError, exitCode(err))
	assert.Contains(t, stderr, `k={{EMPTY}}`)
	assert.Zero(t, hits.Load())
}

func TestGet_UndefinedURLVariable(t *testing.T) {
	_, stderr, err := execute(t, "get", "{{BASE}}/users")

	require.Error(t, err)
	assert.Equal(t, ExitUsageError, exitCode(err))
	assert.Contains(t, stderr, "undefined variables in URL: BASE")
}

func TestPost_VerboseShowsJSONBody(t *testing.T) {
	server := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	stdout, _, err := execute(t, "post", server.URL+"/users", "name=alice", "-v")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "POST /users HTTP/1.1\n"), stdout)
	assert.Contains(t, stdout, "content-type: application/json\n")
	assert.Contains(t, stdout, "{\n  \"name\": \"alice\"\n}\n")
}

func TestRootHelpListsTemplateFunctions(t *testing.T) {
	stdout, _, err := execute(t, "--help")

	require.NoError(t, err)
	assert.Contains(t, stdout, "Template functions: base64, date, now,")
}
