package commands_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/cfapi/cmd/cfapi/commands"
)

// findSubcommand finds a subcommand by name within a cobra command.
func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

// execute runs the CLI with a fresh viper state and returns its output.
func execute(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)

	root := commands.NewRootCommand("1.2.3", "abc123", "2026-01-01")

	var out bytes.Buffer

	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	if stdin != nil {
		root.SetIn(stdin)
	}

	err := root.ExecuteContext(context.Background())

	return out.String(), err
}

// writeConfig writes values as a YAML config file and returns its path.
func writeConfig(t *testing.T, values map[string]interface{}) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")

	data, err := yaml.Marshal(values)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return path
}

func readConfig(t *testing.T, path string) commands.Config {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var config commands.Config
	require.NoError(t, yaml.Unmarshal(data, &config))

	return config
}

// fakeCloudController serves canned JSON per "METHOD path" and records the
// request URIs it saw.
type fakeCloudController struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	requests []string
}

func newFakeCloudController(t *testing.T) *fakeCloudController {
	t.Helper()

	return startFakeCloudController(t, httptest.NewServer)
}

// newTLSFakeCloudController serves over TLS with a self-signed certificate.
func newTLSFakeCloudController(t *testing.T) *fakeCloudController {
	t.Helper()

	return startFakeCloudController(t, httptest.NewTLSServer)
}

func startFakeCloudController(t *testing.T, start func(http.Handler) *httptest.Server) *fakeCloudController {
	t.Helper()

	fake := &fakeCloudController{routes: map[string]http.HandlerFunc{}}
	fake.Server = start(http.HandlerFunc(fake.serve))
	t.Cleanup(fake.Close)

	return fake
}

func (f *fakeCloudController) handle(method, path string, handler http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.routes[method+" "+path] = handler
}

func (f *fakeCloudController) json(method, path string, status int, body string) {
	f.handle(method, path, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

func (f *fakeCloudController) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.requests...)
}

func (f *fakeCloudController) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.RequestURI())
	handler, ok := f.routes[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":10000,"description":"Unknown request","error_code":"CF-NotFound"}`))

		return
	}

	handler(w, r)
}

func containsAll(s string, parts ...string) bool {
	for _, part := range parts {
		if !strings.Contains(s, part) {
			return false
		}
	}

	return true
}
