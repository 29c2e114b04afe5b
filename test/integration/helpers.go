//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fivetwenty-io/cfapi/pkg/capi"
	"github.com/fivetwenty-io/cfapi/pkg/cfclient"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// TestConfig holds configuration for integration tests.
type TestConfig struct {
	APIEndpoint  string
	Username     string
	Password     string
	ClientID     string
	ClientSecret string
	Organization string
	App          string
	CLIPath      string
	Verbose      bool
}

// LoadTestConfig loads configuration from environment variables.
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		APIEndpoint:  os.Getenv("CF_API"),
		Username:     os.Getenv("CF_USERNAME"),
		Password:     os.Getenv("CF_PASSWORD"),
		ClientID:     os.Getenv("CF_CLIENT_ID"),
		ClientSecret: os.Getenv("CF_CLIENT_SECRET"),
		Organization: os.Getenv("CF_TEST_ORG"),
		App:          os.Getenv("CF_TEST_APP"),
		CLIPath:      getCLIPath(),
		Verbose:      os.Getenv("CFAPI_VERBOSE") == "true",
	}
}

func getCLIPath() string {
	if path := os.Getenv("CFAPI_BINARY_PATH"); path != "" {
		return path
	}

	for _, candidate := range []string{"../../cfapi", "./cfapi", "../cfapi"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "cfapi"
}

// SkipIfMissingConfig skips the test when no foundation is configured.
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.APIEndpoint == "" {
		t.Skip("CF_API not set, skipping integration test")
	}

	if !config.hasPassword() && !config.hasClientCredentials() {
		t.Skip("neither CF_USERNAME/CF_PASSWORD nor CF_CLIENT_ID/CF_CLIENT_SECRET set, skipping integration test")
	}
}

// SkipIfMissingBinary additionally skips when the CLI has not been built.
func (config *TestConfig) SkipIfMissingBinary(t *testing.T) {
	t.Helper()
	config.SkipIfMissingConfig(t)

	if _, err := exec.LookPath(config.CLIPath); err != nil {
		t.Skipf("cfapi binary not found at %s, skipping integration test", config.CLIPath)
	}
}

func (config *TestConfig) hasPassword() bool {
	return config.Username != "" && config.Password != ""
}

func (config *TestConfig) hasClientCredentials() bool {
	return config.ClientID != "" && config.ClientSecret != ""
}

// NewClient authenticates against the foundation with whichever grant is
// configured.
func (config *TestConfig) NewClient(ctx context.Context, t *testing.T) capi.Client {
	t.Helper()

	var (
		client capi.Client
		err    error
	)

	if config.hasClientCredentials() {
		client, err = cfclient.NewWithClientCredentials(ctx, config.APIEndpoint, config.ClientID, config.ClientSecret)
	} else {
		client, err = cfclient.NewWithPassword(ctx, config.APIEndpoint, config.Username, config.Password)
	}

	require.NoError(t, err)

	return client
}

// CommandRunner runs the cfapi binary against an isolated config file.
type CommandRunner struct {
	config     *TestConfig
	configFile string
	t          *testing.T
}

// NewCommandRunner creates a runner whose config lives in a temp dir.
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	t.Helper()

	return &CommandRunner{
		config:     config,
		configFile: filepath.Join(t.TempDir(), "config.yml"),
		t:          t,
	}
}

// Run executes a cfapi command and returns its output.
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	return runner.RunWithInput("", args...)
}

// RunWithInput executes a cfapi command with stdin input.
func (runner *CommandRunner) RunWithInput(input string, args ...string) (stdout, stderr string, err error) {
	args = append([]string{"--config", runner.configFile}, args...)

	cmd := exec.Command(runner.config.CLIPath, args...)

	var stdoutBuf, stderrBuf bytes.Buffer

	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf
	cmd.Stdin = strings.NewReader(input)

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.CLIPath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// Login authenticates the CLI session.
func (runner *CommandRunner) Login() error {
	args := []string{"login", "--api", runner.config.APIEndpoint}

	var input string

	if runner.config.hasClientCredentials() {
		args = append(args, "--client-id", runner.config.ClientID, "--client-secret", runner.config.ClientSecret)
	} else {
		args = append(args, "-u", runner.config.Username)
		input = runner.config.Password + "\n"
	}

	_, stderr, err := runner.RunWithInput(input, args...)
	if err != nil {
		return fmt.Errorf("login failed: %s: %w", stderr, err)
	}

	return nil
}

// SavedConfig reads the runner's config file.
func (runner *CommandRunner) SavedConfig() map[string]interface{} {
	runner.t.Helper()

	data, err := os.ReadFile(runner.configFile)
	require.NoError(runner.t, err)

	saved := map[string]interface{}{}
	require.NoError(runner.t, yaml.Unmarshal(data, &saved))

	return saved
}

// GenerateTestName creates a unique test resource name.
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// CleanupResource attempts to delete a test resource.
func (runner *CommandRunner) CleanupResource(resourceType, name string) {
	var args []string

	switch resourceType {
	case "space":
		args = []string{"spaces", "delete", name, "--recursive"}
	case "security-group":
		args = []string{"security-groups", "delete", name}
	default:
		runner.t.Logf("Unknown resource type for cleanup: %s", resourceType)

		return
	}

	stdout, stderr, err := runner.Run(args...)
	if err != nil && runner.config.Verbose {
		runner.t.Logf("Cleanup warning for %s %s: %s\nStderr: %s", resourceType, name, stdout, stderr)
	}
}

// WaitForCondition polls condition until it holds or timeout passes.
func WaitForCondition(t *testing.T, condition func() bool, timeout time.Duration, message string) {
	t.Helper()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	timeoutChan := time.After(timeout)

	for {
		select {
		case <-ticker.C:
			if condition() {
				return
			}
		case <-timeoutChan:
			t.Fatalf("Timeout waiting for condition: %s", message)
		}
	}
}

// AssertJSONOutput verifies command output is valid JSON.
func AssertJSONOutput(t *testing.T, output string) {
	t.Helper()

	if !json.Valid([]byte(strings.TrimSpace(output))) {
		t.Errorf("Output is not JSON: %s", output)
	}
}

// AssertYAMLOutput verifies command output is valid YAML.
func AssertYAMLOutput(t *testing.T, output string) {
	t.Helper()

	var decoded interface{}
	if err := yaml.Unmarshal([]byte(output), &decoded); err != nil || decoded == nil {
		t.Errorf("Output is not YAML: %s", output)
	}
}
